package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrlokans/petadoption/internal/auth"
)

// AdoptRequest is the optional body of POST /api/pets/:id/adopt.
type AdoptRequest struct {
	Notes string `json:"notes" form:"notes"`
}

// PetsController serves browsing and adoption for visitors and users.
type PetsController struct {
	service PetBrowser
	log     zerolog.Logger
}

func NewPetsController(service PetBrowser, log zerolog.Logger) *PetsController {
	return &PetsController{service: service, log: log}
}

// ListAvailable returns the pets that can be adopted.
// GET /api/pets
func (pc *PetsController) ListAvailable(c *gin.Context) {
	pets, err := pc.service.ListAvailablePets(c.Request.Context())
	if err != nil {
		respondAppError(c, pc.log, err, "list available pets")
		return
	}
	c.JSON(http.StatusOK, pets)
}

// Adopt submits an adoption request for the logged-in user.
// POST /api/pets/:id/adopt
func (pc *PetsController) Adopt(c *gin.Context) {
	petID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AdoptRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
	}

	adoption, err := pc.service.SubmitAdoption(c.Request.Context(), auth.GetSession(c), petID, req.Notes)
	if err != nil {
		respondAppError(c, pc.log, err, "submit adoption")
		return
	}
	respondCreated(c, adoption)
}

// MyAdoptions lists the logged-in user's adoption requests.
// GET /api/adoptions
func (pc *PetsController) MyAdoptions(c *gin.Context) {
	adoptions, err := pc.service.ListMyAdoptions(c.Request.Context(), auth.GetSession(c))
	if err != nil {
		respondAppError(c, pc.log, err, "list my adoptions")
		return
	}
	c.JSON(http.StatusOK, adoptions)
}

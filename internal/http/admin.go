package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrlokans/petadoption/internal/apperrors"
	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/images"
	"github.com/mrlokans/petadoption/internal/shelter"
)

// maxUploadMemory bounds the in-memory part of a multipart add-pet request.
const maxUploadMemory = 10 << 20

// AdminController serves catalogue management and adoption records.
type AdminController struct {
	service ShelterAdmin
	log     zerolog.Logger
}

func NewAdminController(service ShelterAdmin, log zerolog.Logger) *AdminController {
	return &AdminController{service: service, log: log}
}

// ListPets returns every pet, newest first.
// GET /api/admin/pets
func (ac *AdminController) ListPets(c *gin.Context) {
	pets, err := ac.service.ListAllPets(c.Request.Context(), auth.GetSession(c))
	if err != nil {
		respondAppError(c, ac.log, err, "list pets")
		return
	}
	c.JSON(http.StatusOK, pets)
}

// AddPet creates a pet from a JSON body, or from a multipart form whose
// optional "image" part is the picture. image_source must be an http(s) URL;
// local paths are only accepted from the command line.
// POST /api/admin/pets
func (ac *AdminController) AddPet(c *gin.Context) {
	var in shelter.PetInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
			respondBadRequest(c, "invalid multipart form")
			return
		}
		if err := c.ShouldBind(&in); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}

		if header, err := c.FormFile("image"); err == nil {
			file, err := header.Open()
			if err != nil {
				respondBadRequest(c, "could not read uploaded image")
				return
			}
			defer file.Close()
			in.Upload = &shelter.ImageUpload{Filename: header.Filename, Body: file}
		} else if err != http.ErrMissingFile {
			respondBadRequest(c, "invalid image upload")
			return
		}
	} else if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if source := strings.TrimSpace(in.ImageSource); source != "" && !images.IsRemote(source) {
		respondAppError(c, ac.log, apperrors.Invalid("image", "image source must be an http or https URL"), "add pet")
		return
	}

	pet, err := ac.service.AddPet(c.Request.Context(), auth.GetSession(c), in)
	if err != nil {
		respondAppError(c, ac.log, err, "add pet")
		return
	}
	respondCreated(c, pet)
}

// DeletePet removes a pet that has no adoption history.
// DELETE /api/admin/pets/:id
func (ac *AdminController) DeletePet(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.service.DeletePet(c.Request.Context(), auth.GetSession(c), id); err != nil {
		respondAppError(c, ac.log, err, "delete pet")
		return
	}
	respondSuccess(c, "pet deleted")
}

// ListAdoptions returns every adoption with its pet and user.
// GET /api/admin/adoptions
func (ac *AdminController) ListAdoptions(c *gin.Context) {
	adoptions, err := ac.service.ListAllAdoptions(c.Request.Context(), auth.GetSession(c))
	if err != nil {
		respondAppError(c, ac.log, err, "list adoptions")
		return
	}
	c.JSON(http.StatusOK, adoptions)
}

// Stats returns the dashboard counters.
// GET /api/admin/stats
func (ac *AdminController) Stats(c *gin.Context) {
	stats, err := ac.service.DashboardStats(c.Request.Context(), auth.GetSession(c))
	if err != nil {
		respondAppError(c, ac.log, err, "dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

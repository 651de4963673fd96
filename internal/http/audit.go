package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrlokans/petadoption/internal/auth"
	"github.com/mrlokans/petadoption/internal/database/audit"
	"github.com/mrlokans/petadoption/internal/entities"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

type AuditController struct {
	service AuditReader
	log     zerolog.Logger
}

func NewAuditController(service AuditReader, log zerolog.Logger) *AuditController {
	return &AuditController{service: service, log: log}
}

// GetAuditEvents returns paginated audit events as JSON
// GET /api/admin/audit?limit=&offset=&type=&user_id=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", defaultAuditLimit)
	if !ok {
		return
	}
	if limit < 1 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	offset, ok := parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	filter := audit.EventFilter{
		EventType: entities.AuditEventType(c.Query("type")),
		Limit:     limit,
		Offset:    offset,
	}
	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid user_id")
			return
		}
		filter.UserID = uint(userID)
	}

	events, total, err := ac.service.ListAuditEvents(c.Request.Context(), auth.GetSession(c), filter)
	if err != nil {
		respondAppError(c, ac.log, err, "list audit events")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    events,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(events)) < total,
	})
}

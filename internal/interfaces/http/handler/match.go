package handler

import (
	"github.com/gin-gonic/gin"

	redistributionapp "github.com/medishare/backend/internal/application/redistribution"
)

// MatchHandler serves ranked surplus/request pairings
type MatchHandler struct {
	BaseHandler
	matchingService *redistributionapp.MatchingService
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(matchingService *redistributionapp.MatchingService) *MatchHandler {
	return &MatchHandler{matchingService: matchingService}
}

type matchQuery struct {
	ClinicID string `form:"clinic_id" binding:"omitempty,uuid"`
}

// List godoc
//
//	@Summary		Find matches between open surplus and open requests
//	@Description	Matches are ranked by score, best first. With clinic_id only
//	@Description	matches where that clinic donates or receives are returned.
//	@Tags			matches
//	@Produce		json
//	@Param			clinic_id	query		string	false	"Clinic ID"	format(uuid)
//	@Success		200			{object}	dto.Response
//	@Router			/matches [get]
func (h *MatchHandler) List(c *gin.Context) {
	var q matchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	var (
		matches []redistributionapp.MatchResponse
		err     error
	)
	if clinicID := optionalUUID(q.ClinicID); clinicID != nil {
		matches, err = h.matchingService.FindMatchesForClinic(c.Request.Context(), *clinicID)
	} else {
		matches, err = h.matchingService.FindMatches(c.Request.Context())
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, matches)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"fieldsync/internal/services"
)

type StatsHandler struct {
	service *services.FieldService
}

func NewStatsHandler(service *services.FieldService) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

// GetStats godoc
// @Summary     Local storage statistics
// @Tags        stats
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.StatsResponse
// @Router      /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to read storage stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"fieldsync/internal/models"
	"fieldsync/internal/services"
)

type NetworkHandler struct {
	service *services.FieldService
}

func NewNetworkHandler(service *services.FieldService) *NetworkHandler {
	return &NetworkHandler{
		service: service,
	}
}

// ReportNetwork godoc
// @Summary     Report connectivity
// @Description Lets the host report network changes. Going online starts a sync cycle.
// @Tags        sync
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.NetworkRequest true "Connectivity"
// @Success     200 {object} models.SyncStatusResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /network [put]
func (h *NetworkHandler) ReportNetwork(c *gin.Context) {
	var req models.NetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	h.service.ReportNetwork(*req.Online)
	c.JSON(http.StatusOK, h.service.SyncStatus())
}

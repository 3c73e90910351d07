package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"fieldsync/internal/models"
	"fieldsync/internal/services"
)

type SyncHandler struct {
	service *services.FieldService
}

func NewSyncHandler(service *services.FieldService) *SyncHandler {
	return &SyncHandler{
		service: service,
	}
}

// TriggerSync godoc
// @Summary     Run a sync cycle now
// @Description Runs one push and pull cycle and returns its result. Returns 409 with a
// @Description not-run result when offline or when a cycle is already running.
// @Tags        sync
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SyncResult
// @Failure     409 {object} models.SyncResult
// @Router      /sync [post]
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	result := h.service.SyncNow(c.Request.Context())
	if !result.Ran {
		c.JSON(http.StatusConflict, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStatus godoc
// @Summary     Sync status
// @Tags        sync
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SyncStatusResponse
// @Router      /sync/status [get]
func (h *SyncHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.SyncStatus())
}

// Events godoc
// @Summary     Stream sync results
// @Description Server-sent events: one "sync" event per completed cycle.
// @Tags        sync
// @Produce     text/event-stream
// @Security    Bearer
// @Router      /sync/events [get]
func (h *SyncHandler) Events(c *gin.Context) {
	results := make(chan models.SyncResult, 8)
	unsubscribe := h.service.OnSyncComplete(func(result models.SyncResult) {
		select {
		case results <- result:
		default:
		}
	})
	defer unsubscribe()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case result := <-results:
			c.SSEvent("sync", result)
			return true
		}
	})
}

// ResetJobs godoc
// @Summary     Reload jobs from the backend
// @Description Replaces every local job with the backend's copy and drops the sync queue.
// @Description Edits that were not pushed yet are lost.
// @Tags        sync
// @Produce     json
// @Security    Bearer
// @Success     200 {object} map[string]int
// @Failure     409 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /sync/reset [post]
func (h *SyncHandler) ResetJobs(c *gin.Context) {
	n, err := h.service.ResetJobs(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to reset jobs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": n})
}

// ResetQueue godoc
// @Summary     Drop all queued job changes
// @Tags        sync
// @Security    Bearer
// @Success     204
// @Router      /sync/queue [delete]
func (h *SyncHandler) ResetQueue(c *gin.Context) {
	if err := h.service.ResetSyncQueue(c.Request.Context()); err != nil {
		respondError(c, err, "failed to clear sync queue")
		return
	}

	c.Status(http.StatusNoContent)
}

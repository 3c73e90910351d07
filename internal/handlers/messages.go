package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"fieldsync/internal/middleware"
	"fieldsync/internal/models"
	"fieldsync/internal/services"
)

type MessagesHandler struct {
	service *services.FieldService
}

func NewMessagesHandler(service *services.FieldService) *MessagesHandler {
	return &MessagesHandler{
		service: service,
	}
}

// ListMessages godoc
// @Summary     List job messages
// @Tags        messages
// @Produce     json
// @Security    Bearer
// @Param       job_id path string true "Job ID"
// @Success     200 {object} models.MessagesResponse
// @Router      /jobs/{job_id}/messages [get]
func (h *MessagesHandler) ListMessages(c *gin.Context) {
	messages, err := h.service.ListMessages(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondError(c, err, "failed to list messages")
		return
	}

	if messages == nil {
		messages = []models.Message{}
	}
	c.JSON(http.StatusOK, models.MessagesResponse{Messages: messages})
}

// CreateMessage godoc
// @Summary     Post a message on a job
// @Description Stores the message locally. The authenticated worker is the author.
// @Tags        messages
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       job_id path string true "Job ID"
// @Param       request body models.CreateMessageRequest true "Message"
// @Success     201 {object} models.Message
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /jobs/{job_id}/messages [post]
func (h *MessagesHandler) CreateMessage(c *gin.Context) {
	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	message, err := h.service.AddMessage(c.Request.Context(), c.Param("job_id"), middleware.WorkerID(c), req.Body)
	if err != nil {
		respondError(c, err, "failed to add message")
		return
	}

	c.JSON(http.StatusCreated, message)
}

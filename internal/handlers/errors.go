package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"fieldsync/internal/apperrors"
	"fieldsync/internal/models"
	"fieldsync/internal/services"
	"fieldsync/internal/syncer"
)

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		status = http.StatusNotFound
		msg = "job not found"
	case errors.Is(err, services.ErrPhotoNotFound):
		status = http.StatusNotFound
		msg = "photo not found"
	case errors.Is(err, syncer.ErrOffline), errors.Is(err, syncer.ErrSyncInProgress):
		status = http.StatusConflict
	case apperrors.IsRemoteRejection(err):
		status = http.StatusBadGateway
	case errors.Is(err, apperrors.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotInitialized), apperrors.IsStorageInit(err):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, models.ErrorResponse{
		Error:   msg,
		Message: err.Error(),
	})
}

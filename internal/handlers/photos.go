package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"fieldsync/internal/models"
	"fieldsync/internal/services"
)

const maxPhotoSize = 32 << 20

type PhotosHandler struct {
	service *services.FieldService
}

func NewPhotosHandler(service *services.FieldService) *PhotosHandler {
	return &PhotosHandler{
		service: service,
	}
}

// CapturePhoto godoc
// @Summary     Capture a job photo
// @Description Stores a before or after photo locally. It is uploaded on a later sync cycle.
// @Tags        photos
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       job_id path string true "Job ID"
// @Param       photo formData file true "Image file"
// @Param       type formData string true "before or after"
// @Param       latitude formData number false "Capture latitude"
// @Param       longitude formData number false "Capture longitude"
// @Param       accuracy formData number false "Location accuracy in meters"
// @Param       device formData string false "Capturing device"
// @Param       captured_at formData string false "RFC 3339 capture time"
// @Success     201 {object} models.CaptureResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /jobs/{job_id}/photos [post]
func (h *PhotosHandler) CapturePhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no photo uploaded",
			Message: err.Error(),
		})
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "photo too large",
			Message: fmt.Sprintf("maximum size is %d bytes", maxPhotoSize),
		})
		return
	}

	metadata, err := parsePhotoMetadata(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid photo metadata",
			Message: err.Error(),
		})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to open photo",
			Message: err.Error(),
		})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to read photo",
			Message: err.Error(),
		})
		return
	}

	// Generic types are left empty so the store sniffs the content.
	declared := fileHeader.Header.Get("Content-Type")
	if declared == "application/octet-stream" {
		declared = ""
	}

	file := models.CapturedFile{
		Name: fileHeader.Filename,
		Type: declared,
		Data: data,
	}

	resp, err := h.service.CapturePhoto(
		c.Request.Context(),
		c.Param("job_id"),
		models.PhotoType(c.PostForm("type")),
		file,
		metadata,
	)
	if err != nil {
		respondError(c, err, "failed to capture photo")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func parsePhotoMetadata(c *gin.Context) (models.PhotoMetadata, error) {
	var metadata models.PhotoMetadata
	metadata.Device = c.PostForm("device")

	if raw := c.PostForm("captured_at"); raw != "" {
		capturedAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return metadata, fmt.Errorf("captured_at: %w", err)
		}
		metadata.CapturedAt = capturedAt
	}

	lat, hasLat := c.GetPostForm("latitude")
	lng, hasLng := c.GetPostForm("longitude")
	if hasLat != hasLng {
		return metadata, fmt.Errorf("latitude and longitude must be sent together")
	}
	if !hasLat {
		return metadata, nil
	}

	location := &models.GeoLocation{}
	var err error
	if location.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
		return metadata, fmt.Errorf("latitude: %w", err)
	}
	if location.Longitude, err = strconv.ParseFloat(lng, 64); err != nil {
		return metadata, fmt.Errorf("longitude: %w", err)
	}
	if acc := c.PostForm("accuracy"); acc != "" {
		if location.Accuracy, err = strconv.ParseFloat(acc, 64); err != nil {
			return metadata, fmt.Errorf("accuracy: %w", err)
		}
	}
	metadata.Location = location
	return metadata, nil
}

// ListPhotos godoc
// @Summary     List photos
// @Description Lists photos waiting for upload and uploaded photo records.
// @Tags        photos
// @Produce     json
// @Security    Bearer
// @Param       job_id query string false "Only photos of this job"
// @Success     200 {object} models.PhotosResponse
// @Router      /photos [get]
func (h *PhotosHandler) ListPhotos(c *gin.Context) {
	resp, err := h.service.ListPhotos(c.Request.Context(), c.Query("job_id"))
	if err != nil {
		respondError(c, err, "failed to list photos")
		return
	}

	if resp.Uploaded == nil {
		resp.Uploaded = []models.PhotoRecord{}
	}
	c.JSON(http.StatusOK, resp)
}

// GetPhoto godoc
// @Summary     Get a captured photo's upload state
// @Tags        photos
// @Produce     json
// @Security    Bearer
// @Param       photo_id path string true "Photo ID"
// @Success     200 {object} models.PhotoSummary
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos/{photo_id} [get]
func (h *PhotosHandler) GetPhoto(c *gin.Context) {
	photo, err := h.service.GetPhoto(c.Param("photo_id"))
	if err != nil {
		respondError(c, err, "failed to get photo")
		return
	}

	c.JSON(http.StatusOK, photo)
}

// ClearCompleted godoc
// @Summary     Remove uploaded photos from local storage
// @Tags        photos
// @Produce     json
// @Security    Bearer
// @Success     200 {object} map[string]int
// @Router      /photos/completed [delete]
func (h *PhotosHandler) ClearCompleted(c *gin.Context) {
	removed, err := h.service.ClearCompletedPhotos()
	if err != nil {
		respondError(c, err, "failed to clear photos")
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

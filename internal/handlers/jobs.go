package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"fieldsync/internal/models"
	"fieldsync/internal/services"
)

type JobsHandler struct {
	service *services.FieldService
}

func NewJobsHandler(service *services.FieldService) *JobsHandler {
	return &JobsHandler{
		service: service,
	}
}

// ListJobs godoc
// @Summary     List jobs
// @Description Lists the jobs held locally, including edits not yet synced
// @Tags        jobs
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.JobsResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /jobs [get]
func (h *JobsHandler) ListJobs(c *gin.Context) {
	jobs, err := h.service.ListJobs(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list jobs")
		return
	}

	if jobs == nil {
		jobs = []models.FieldJob{}
	}
	c.JSON(http.StatusOK, models.JobsResponse{Jobs: jobs})
}

// GetJob godoc
// @Summary     Get a job
// @Tags        jobs
// @Produce     json
// @Security    Bearer
// @Param       job_id path string true "Job ID"
// @Success     200 {object} models.FieldJob
// @Failure     404 {object} models.ErrorResponse
// @Router      /jobs/{job_id} [get]
func (h *JobsHandler) GetJob(c *gin.Context) {
	job, err := h.service.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondError(c, err, "failed to get job")
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJob godoc
// @Summary     Edit a job
// @Description Applies the edit locally and queues it for the next sync cycle.
// @Description Only the fields present in the body are changed.
// @Tags        jobs
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       job_id path string true "Job ID"
// @Param       request body models.UpdateJobRequest true "Fields to change"
// @Success     200 {object} models.FieldJob
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /jobs/{job_id} [patch]
func (h *JobsHandler) UpdateJob(c *gin.Context) {
	var req models.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	job, err := h.service.UpdateJob(c.Request.Context(), c.Param("job_id"), req.Patch())
	if err != nil {
		respondError(c, err, "failed to update job")
		return
	}

	c.JSON(http.StatusOK, job)
}

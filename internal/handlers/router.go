package handlers

import (
	"github.com/gin-gonic/gin"
	"fieldsync/internal/services"
)

// RegisterRoutes mounts the field API on api. Authentication is left to the
// caller's middleware.
func RegisterRoutes(api *gin.RouterGroup, service *services.FieldService) {
	jobsHandler := NewJobsHandler(service)
	messagesHandler := NewMessagesHandler(service)
	photosHandler := NewPhotosHandler(service)
	syncHandler := NewSyncHandler(service)
	networkHandler := NewNetworkHandler(service)
	statsHandler := NewStatsHandler(service)

	// Jobs
	api.GET("/jobs", jobsHandler.ListJobs)
	api.GET("/jobs/:job_id", jobsHandler.GetJob)
	api.PATCH("/jobs/:job_id", jobsHandler.UpdateJob)

	// Messages and photos
	api.GET("/jobs/:job_id/messages", messagesHandler.ListMessages)
	api.POST("/jobs/:job_id/messages", messagesHandler.CreateMessage)
	api.POST("/jobs/:job_id/photos", photosHandler.CapturePhoto)
	api.GET("/photos", photosHandler.ListPhotos)
	api.GET("/photos/:photo_id", photosHandler.GetPhoto)
	api.DELETE("/photos/completed", photosHandler.ClearCompleted)

	// Sync control
	api.POST("/sync", syncHandler.TriggerSync)
	api.GET("/sync/status", syncHandler.GetStatus)
	api.GET("/sync/events", syncHandler.Events)
	api.POST("/sync/reset", syncHandler.ResetJobs)
	api.DELETE("/sync/queue", syncHandler.ResetQueue)
	api.PUT("/network", networkHandler.ReportNetwork)

	api.GET("/stats", statsHandler.GetStats)
}

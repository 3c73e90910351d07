package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fieldsync/internal/models"
)

const (
	jobsTable   = "jobs"
	photosTable = "job_photos"
)

// ErrRowNotFound is returned when an update matches no remote row.
var ErrRowNotFound = errors.New("no matching row")

// RowStore reads and writes the backend tables the sync cycle touches.
// It is served by the REST client or by a direct Postgres connection.
// InsertPhoto upserts on id.
type RowStore interface {
	UpdateJob(ctx context.Context, jobID string, update JobUpdate) error
	InsertPhoto(ctx context.Context, row PhotoRow) error
	JobsForWorker(ctx context.Context, workerID string) ([]RemoteJob, error)
}

// JobUpdate is the column set written when a local job edit is pushed.
type JobUpdate struct {
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhotoRow is one row of the job_photos table.
type PhotoRow struct {
	ID         string          `json:"id"`
	CaptureID  string          `json:"capture_id"`
	JobID      string          `json:"job_id"`
	PhotoType  string          `json:"photo_type"`
	URL        string          `json:"url"`
	UploadedAt time.Time       `json:"uploaded_at"`
	Metadata   json.RawMessage `json:"metadata"`
}

// RemoteJob is a row of the jobs table as returned by the backend.
type RemoteJob struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Notes       *string   `json:"notes"`
	Description *string   `json:"description"`
	WorkerID    *string   `json:"assigned_worker_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r RemoteJob) FieldJob() models.FieldJob {
	job := models.FieldJob{
		ID:           r.ID,
		Status:       models.JobStatus(r.Status),
		LastModified: r.UpdatedAt,
		SyncStatus:   models.SyncStatusSynced,
	}
	if r.Notes != nil {
		job.Notes = *r.Notes
	}
	if r.Description != nil {
		job.Description = *r.Description
	}
	if r.WorkerID != nil {
		job.WorkerID = *r.WorkerID
	}
	return job
}

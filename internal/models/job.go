package models

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusCompleted:
		return true
	}
	return false
}

// SyncStatus tracks whether a local record has been confirmed by the backend.
type SyncStatus string

const (
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusPending SyncStatus = "pending"
	SyncStatusFailed  SyncStatus = "failed"
)

// FieldJob is the local projection of a remote job record.
type FieldJob struct {
	ID           string     `json:"id"`
	Status       JobStatus  `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	Description  string     `json:"description,omitempty"`
	WorkerID     string     `json:"worker_id,omitempty"`
	LastModified time.Time  `json:"last_modified"`
	SyncStatus   SyncStatus `json:"sync_status"`
}

// JobPatch carries the fields of a local edit. Nil fields are left untouched.
type JobPatch struct {
	Status      *JobStatus `json:"status,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Description *string    `json:"description,omitempty"`
}

func (p JobPatch) IsEmpty() bool {
	return p.Status == nil && p.Notes == nil && p.Description == nil
}

// Apply merges the patch into job and returns the result.
func (p JobPatch) Apply(job FieldJob) FieldJob {
	if p.Status != nil {
		job.Status = *p.Status
	}
	if p.Notes != nil {
		job.Notes = *p.Notes
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	return job
}

// JobFields are the columns pushed to the backend for a job update.
type JobFields struct {
	Status JobStatus `json:"status"`
	Notes  string    `json:"notes"`
}

// ApplyResult reports how a pulled job list was merged into local state.
type ApplyResult struct {
	Applied int
	Skipped []string
}

package models

import "time"

// Reasons a sync cycle was declined.
const (
	SkipOffline    = "offline"
	SkipInProgress = "sync_in_progress"
)

// SyncResult aggregates the outcome of one sync cycle.
type SyncResult struct {
	Ran        bool      `json:"ran"`
	SkipReason string    `json:"skip_reason,omitempty"`
	Success    bool      `json:"success"`
	Synced     int       `json:"synced"`
	Failed     int       `json:"failed"`
	Errors     []string  `json:"errors"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// NotRun is the result returned when a cycle is declined.
func NotRun(reason string) SyncResult {
	return SyncResult{
		SkipReason: reason,
		Errors:     []string{},
	}
}

// StorageStats are row counts per collection of the durable store.
type StorageStats struct {
	Jobs            int `json:"jobs"`
	PendingJobs     int `json:"pending_jobs"`
	PhotoRecords    int `json:"photo_records"`
	Messages        int `json:"messages"`
	PendingMessages int `json:"pending_messages"`
	SyncQueue       int `json:"sync_queue"`
}

// PhotoStats counts captured photos by status.
type PhotoStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Uploading int `json:"uploading"`
	Failed    int `json:"failed"`
	Completed int `json:"completed"`
	Abandoned int `json:"abandoned"`
}

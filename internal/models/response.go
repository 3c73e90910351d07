package models

import "time"

type JobsResponse struct {
	Jobs []FieldJob `json:"jobs"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

type CaptureResponse struct {
	PhotoID string      `json:"photo_id"`
	JobID   string      `json:"job_id"`
	Type    PhotoType   `json:"type"`
	Status  PhotoStatus `json:"status"`
}

type PhotoSummary struct {
	ID          string      `json:"id"`
	JobID       string      `json:"job_id"`
	Type        PhotoType   `json:"type"`
	FileName    string      `json:"file_name"`
	FileType    string      `json:"file_type"`
	Status      PhotoStatus `json:"status"`
	RetryCount  int         `json:"retry_count"`
	LastAttempt *time.Time  `json:"last_attempt,omitempty"`
	Error       string      `json:"error,omitempty"`
	CapturedAt  time.Time   `json:"captured_at"`
}

type PhotosResponse struct {
	Pending  []PhotoSummary `json:"pending"`
	Uploaded []PhotoRecord  `json:"uploaded"`
}

type SyncStatusResponse struct {
	Online         bool        `json:"online"`
	SyncInProgress bool        `json:"sync_in_progress"`
	LastResult     *SyncResult `json:"last_result,omitempty"`
}

type StatsResponse struct {
	Store  StorageStats       `json:"store"`
	Photos PhotoStats         `json:"photos"`
	Sync   SyncStatusResponse `json:"sync"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

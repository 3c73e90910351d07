package models

import "time"

type Message struct {
	ID         string     `json:"id"`
	JobID      string     `json:"job_id"`
	Author     string     `json:"author,omitempty"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
	SyncStatus SyncStatus `json:"sync_status"`
}

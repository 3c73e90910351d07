package models

import (
	"fmt"
	"time"
)

type EntityType string

const (
	EntityJob   EntityType = "job"
	EntityPhoto EntityType = "photo"
)

type QueueAction string

const ActionUpdate QueueAction = "update"

// SyncQueueEntry records one local mutation awaiting confirmation.
type SyncQueueEntry struct {
	ID         string      `json:"id"`
	Type       EntityType  `json:"type"`
	ItemID     string      `json:"item_id"`
	Action     QueueAction `json:"action"`
	Timestamp  time.Time   `json:"timestamp"`
	RetryCount int         `json:"retry_count"`
}

func NewSyncQueueEntry(entityType EntityType, itemID string, action QueueAction, at time.Time) SyncQueueEntry {
	return SyncQueueEntry{
		ID:        fmt.Sprintf("%s:%s:%d", entityType, itemID, at.UnixNano()),
		Type:      entityType,
		ItemID:    itemID,
		Action:    action,
		Timestamp: at,
	}
}

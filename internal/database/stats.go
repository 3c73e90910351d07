package database

import (
	"context"
	"fmt"

	"fieldsync/internal/models"
)

func (s *Store) GetStorageStats(ctx context.Context) (models.StorageStats, error) {
	var stats models.StorageStats

	db, err := s.conn()
	if err != nil {
		return stats, err
	}

	counts := []struct {
		dest  *int
		query string
	}{
		{&stats.Jobs, `SELECT COUNT(*) FROM jobs`},
		{&stats.PendingJobs, `SELECT COUNT(*) FROM jobs WHERE sync_status = 'pending'`},
		{&stats.PhotoRecords, `SELECT COUNT(*) FROM photo_metadata`},
		{&stats.Messages, `SELECT COUNT(*) FROM messages`},
		{&stats.PendingMessages, `SELECT COUNT(*) FROM messages WHERE sync_status = 'pending'`},
		{&stats.SyncQueue, `SELECT COUNT(*) FROM sync_queue`},
	}

	for _, c := range counts {
		if err := db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return stats, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	return stats, nil
}

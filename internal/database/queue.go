package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fieldsync/internal/models"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertQueueEntry(ctx context.Context, db execer, entry models.SyncQueueEntry) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sync_queue (id, type, item_id, action, timestamp, retry_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Type, entry.ItemID, entry.Action, toNanos(entry.Timestamp), entry.RetryCount)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s %s: %w", entry.Type, entry.ItemID, err)
	}
	return nil
}

// Enqueue appends a queue entry for a mutation made outside UpdateJob.
func (s *Store) Enqueue(ctx context.Context, entityType models.EntityType, itemID string, action models.QueueAction) (models.SyncQueueEntry, error) {
	db, err := s.conn()
	if err != nil {
		return models.SyncQueueEntry{}, err
	}

	entry := models.NewSyncQueueEntry(entityType, itemID, action, s.stamp())
	if err := insertQueueEntry(ctx, db, entry); err != nil {
		return models.SyncQueueEntry{}, err
	}
	return entry, nil
}

// GetPendingSync returns every queue entry in enqueue order. Callers filter
// by type.
func (s *Store) GetPendingSync(ctx context.Context) ([]models.SyncQueueEntry, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, type, item_id, action, timestamp, retry_count
		FROM sync_queue
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync queue: %w", err)
	}
	defer rows.Close()

	entries := make([]models.SyncQueueEntry, 0)
	for rows.Next() {
		var entry models.SyncQueueEntry
		var ts int64
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.ItemID, &entry.Action, &ts, &entry.RetryCount); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		entry.Timestamp = fromNanos(ts)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// RemoveSyncEntries deletes acknowledged entries. Unknown ids are ignored.
func (s *Store) RemoveSyncEntries(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	db, err := s.conn()
	if err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("failed to remove sync entries: %w", err)
	}
	return nil
}

// ClearSyncQueue drops every entry. Maintenance only.
func (s *Store) ClearSyncQueue(ctx context.Context) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM sync_queue`); err != nil {
		return fmt.Errorf("failed to clear sync queue: %w", err)
	}
	s.logger.Info("sync queue cleared")
	return nil
}

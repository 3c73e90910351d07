package database

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/oklog/ulid/v2"

	"fieldsync/internal/models"
)

// AddMessage stores a locally authored message as pending.
func (s *Store) AddMessage(ctx context.Context, jobID, author, body string) (*models.Message, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	now := s.stamp()
	msg := models.Message{
		ID:         ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		JobID:      jobID,
		Author:     author,
		Body:       body,
		CreatedAt:  now,
		SyncStatus: models.SyncStatusPending,
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO messages (id, job_id, author, body, created_at, sync_status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.JobID, msg.Author, msg.Body, toNanos(msg.CreatedAt), msg.SyncStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}

	return &msg, nil
}

// StoreMessages upserts messages received from the backend as synced.
func (s *Store) StoreMessages(ctx context.Context, messages []models.Message) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, msg := range messages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (id, job_id, author, body, created_at, sync_status)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				job_id = excluded.job_id,
				author = excluded.author,
				body = excluded.body,
				created_at = excluded.created_at,
				sync_status = excluded.sync_status
		`, msg.ID, msg.JobID, msg.Author, msg.Body, toNanos(msg.CreatedAt), models.SyncStatusSynced)
		if err != nil {
			return fmt.Errorf("failed to store message %s: %w", msg.ID, err)
		}
	}

	return tx.Commit()
}

// GetMessages lists a job's messages oldest first.
func (s *Store) GetMessages(ctx context.Context, jobID string) ([]models.Message, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, job_id, author, body, created_at, sync_status
		FROM messages
		WHERE job_id = ?
		ORDER BY created_at, id
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		var createdAt int64
		if err := rows.Scan(&msg.ID, &msg.JobID, &msg.Author, &msg.Body, &createdAt, &msg.SyncStatus); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.CreatedAt = fromNanos(createdAt)
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

package database

import (
	"context"
	"fmt"

	"fieldsync/internal/models"
)

// SavePhotoRecord mirrors an uploaded photo so it can be listed offline.
func (s *Store) SavePhotoRecord(ctx context.Context, record models.PhotoRecord) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO photo_metadata (id, job_id, type, url, status, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			uploaded_at = excluded.uploaded_at
	`, record.ID, record.JobID, record.Type, record.URL, models.PhotoCompleted, toNanos(record.UploadedAt))
	if err != nil {
		return fmt.Errorf("failed to save photo record: %w", err)
	}
	return nil
}

// GetPhotoRecords lists uploaded photos for a job, or all of them when jobID
// is empty.
func (s *Store) GetPhotoRecords(ctx context.Context, jobID string) ([]models.PhotoRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	query := `SELECT id, job_id, type, url, uploaded_at FROM photo_metadata`
	var args []interface{}
	if jobID != "" {
		query += ` WHERE job_id = ?`
		args = append(args, jobID)
	}
	query += ` ORDER BY uploaded_at`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list photo records: %w", err)
	}
	defer rows.Close()

	records := make([]models.PhotoRecord, 0)
	for rows.Next() {
		var record models.PhotoRecord
		var uploadedAt int64
		if err := rows.Scan(&record.ID, &record.JobID, &record.Type, &record.URL, &uploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo record: %w", err)
		}
		record.UploadedAt = fromNanos(uploadedAt)
		records = append(records, record)
	}

	return records, rows.Err()
}

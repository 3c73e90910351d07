package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fieldsync/internal/models"
)

const jobColumns = `id, status, notes, description, worker_id, last_modified, sync_status`

// StoreJobs upserts an authoritative job list. Every record is stamped now
// and marked synced, including records with an unpushed local edit.
func (s *Store) StoreJobs(ctx context.Context, jobs []models.FieldJob) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.upsertJobs(ctx, tx, jobs); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceJobs drops every queued change and stores jobs as StoreJobs does,
// in one transaction. On error neither the queue nor the jobs change.
func (s *Store) ReplaceJobs(ctx context.Context, jobs []models.FieldJob) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sync_queue`); err != nil {
		return fmt.Errorf("failed to clear sync queue: %w", err)
	}
	if err := s.upsertJobs(ctx, tx, jobs); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) upsertJobs(ctx context.Context, tx execer, jobs []models.FieldJob) error {
	now := s.now().UTC()
	for _, job := range jobs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO jobs (`+jobColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				notes = excluded.notes,
				description = excluded.description,
				worker_id = excluded.worker_id,
				last_modified = excluded.last_modified,
				sync_status = excluded.sync_status
		`, job.ID, job.Status, job.Notes, job.Description, job.WorkerID,
			toNanos(now), models.SyncStatusSynced)
		if err != nil {
			return fmt.Errorf("failed to store job %s: %w", job.ID, err)
		}
	}
	return nil
}

// ApplyRemoteJobs merges a pulled job list. Records still flagged pending
// locally are left alone and reported as skipped.
func (s *Store) ApplyRemoteJobs(ctx context.Context, jobs []models.FieldJob) (models.ApplyResult, error) {
	var result models.ApplyResult

	db, err := s.conn()
	if err != nil {
		return result, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UTC()
	for _, job := range jobs {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO jobs (`+jobColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				notes = excluded.notes,
				description = excluded.description,
				worker_id = excluded.worker_id,
				last_modified = excluded.last_modified,
				sync_status = excluded.sync_status
			WHERE jobs.sync_status != 'pending'
		`, job.ID, job.Status, job.Notes, job.Description, job.WorkerID,
			toNanos(now), models.SyncStatusSynced)
		if err != nil {
			return result, fmt.Errorf("failed to apply job %s: %w", job.ID, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return result, err
		}
		if affected == 0 {
			result.Skipped = append(result.Skipped, job.ID)
			continue
		}
		result.Applied++
	}

	if err := tx.Commit(); err != nil {
		return result, err
	}

	if len(result.Skipped) > 0 {
		s.logger.Info("kept pending local jobs over remote copy", "job_ids", result.Skipped)
	}
	return result, nil
}

func (s *Store) GetJobs(ctx context.Context) ([]models.FieldJob, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.FieldJob, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

// GetJob returns nil without error when the job is not stored locally.
func (s *Store) GetJob(ctx context.Context, id string) (*models.FieldJob, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	job, err := scanJob(db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// UpdateJob applies a local edit, marks the job pending and appends a
// job/update queue entry in the same transaction. An unknown id returns
// nil without error.
func (s *Store) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (*models.FieldJob, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := scanJob(tx.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}

	stamp := s.stamp()
	updated := patch.Apply(current)
	updated.LastModified = stamp
	updated.SyncStatus = models.SyncStatusPending

	_, err = tx.ExecContext(ctx, `
		UPDATE jobs
		SET status = ?, notes = ?, description = ?, last_modified = ?, sync_status = ?
		WHERE id = ?
	`, updated.Status, updated.Notes, updated.Description, toNanos(stamp), updated.SyncStatus, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	entry := models.NewSyncQueueEntry(models.EntityJob, id, models.ActionUpdate, stamp)
	if err := insertQueueEntry(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &updated, nil
}

// MarkJobSynced clears the pending flag if the job has not been edited since
// the pushed version. It reports whether the flag was cleared.
func (s *Store) MarkJobSynced(ctx context.Context, id string, version time.Time) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}

	res, err := db.ExecContext(ctx, `
		UPDATE jobs SET sync_status = ?
		WHERE id = ? AND last_modified = ?
	`, models.SyncStatusSynced, id, toNanos(version))
	if err != nil {
		return false, fmt.Errorf("failed to mark job synced: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (models.FieldJob, error) {
	var job models.FieldJob
	var lastModified int64
	err := row.Scan(
		&job.ID, &job.Status, &job.Notes, &job.Description,
		&job.WorkerID, &lastModified, &job.SyncStatus,
	)
	if err != nil {
		return job, err
	}
	job.LastModified = fromNanos(lastModified)
	return job, nil
}

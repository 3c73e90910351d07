package supabase

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DatabaseClient serves the same tables as Client over a direct Postgres
// connection.
type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) UpdateJob(ctx context.Context, jobID string, update JobUpdate) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = $1, notes = $2, updated_at = $3
		WHERE id = $4
	`, update.Status, update.Notes, update.UpdatedAt, jobID)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job %s: %w", jobID, ErrRowNotFound)
	}
	return nil
}

func (d *DatabaseClient) InsertPhoto(ctx context.Context, row PhotoRow) error {
	metadata := []byte(row.Metadata)
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO job_photos (id, capture_id, job_id, photo_type, url, uploaded_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			uploaded_at = EXCLUDED.uploaded_at,
			metadata = EXCLUDED.metadata
	`, row.ID, row.CaptureID, row.JobID, row.PhotoType, row.URL, row.UploadedAt, metadata)
	if err != nil {
		return fmt.Errorf("failed to insert photo record: %w", err)
	}
	return nil
}

func (d *DatabaseClient) JobsForWorker(ctx context.Context, workerID string) ([]RemoteJob, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, status, notes, description, assigned_worker_id, updated_at
		FROM jobs
		WHERE assigned_worker_id = $1
	`, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	defer rows.Close()

	var jobs []RemoteJob
	for rows.Next() {
		var job RemoteJob
		var notes, description, worker sql.NullString
		err := rows.Scan(&job.ID, &job.Status, &notes, &description, &worker, &job.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if notes.Valid {
			job.Notes = &notes.String
		}
		if description.Valid {
			job.Description = &description.String
		}
		if worker.Valid {
			job.WorkerID = &worker.String
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

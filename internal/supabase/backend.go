package supabase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fieldsync/internal/apperrors"
	"fieldsync/internal/models"
)

var photoRowNamespace = uuid.MustParse("6f1c2a0e-8d4b-5e37-9a61-3c0f5b7d2e94")

// BlobStore holds uploaded photo payloads.
type BlobStore interface {
	Upload(storagePath, contentType string, data []byte) (string, error)
	DeleteFile(storagePath string) error
}

// Backend is the data service the sync cycle pushes to and pulls from.
// Every failure it returns is a *apperrors.RemoteRejectionError.
type Backend struct {
	rows   RowStore
	blobs  BlobStore
	logger *slog.Logger
}

func NewBackend(rows RowStore, blobs BlobStore, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		rows:   rows,
		blobs:  blobs,
		logger: logger.With("component", "backend"),
	}
}

func (b *Backend) UpdateJobFields(ctx context.Context, jobID string, fields models.JobFields, updatedAt time.Time) error {
	err := b.rows.UpdateJob(ctx, jobID, JobUpdate{
		Status:    string(fields.Status),
		Notes:     fields.Notes,
		UpdatedAt: updatedAt.UTC(),
	})
	return apperrors.Remote("update job", jobID, err)
}

func (b *Backend) UploadBlob(ctx context.Context, storagePath, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.Remote("upload blob", storagePath, err)
	}

	url, err := b.blobs.Upload(storagePath, contentType, data)
	if err != nil {
		return "", apperrors.Remote("upload blob", storagePath, err)
	}
	return url, nil
}

func (b *Backend) RemoveBlob(ctx context.Context, storagePath string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Remote("remove blob", storagePath, err)
	}
	return apperrors.Remote("remove blob", storagePath, b.blobs.DeleteFile(storagePath))
}

func (b *Backend) InsertPhotoRecord(ctx context.Context, upload models.PhotoUpload) error {
	metadata, err := json.Marshal(upload.Metadata)
	if err != nil {
		return &apperrors.EncodingError{PhotoID: upload.CaptureID, Err: err}
	}

	err = b.rows.InsertPhoto(ctx, PhotoRow{
		ID:         PhotoRowID(upload.CaptureID),
		CaptureID:  upload.CaptureID,
		JobID:      upload.JobID,
		PhotoType:  string(upload.Type),
		URL:        upload.URL,
		UploadedAt: upload.UploadedAt.UTC(),
		Metadata:   metadata,
	})
	return apperrors.Remote("insert photo record", upload.CaptureID, err)
}

// PhotoRowID is the job_photos id for a capture. Retrying the same capture
// writes the same row.
func PhotoRowID(captureID string) string {
	return uuid.NewSHA1(photoRowNamespace, []byte(captureID)).String()
}

// FetchJobsForWorker returns the worker's jobs. Rows with a status this
// client does not know are dropped.
func (b *Backend) FetchJobsForWorker(ctx context.Context, workerID string) ([]models.FieldJob, error) {
	rows, err := b.rows.JobsForWorker(ctx, workerID)
	if err != nil {
		return nil, apperrors.Remote("fetch jobs", workerID, err)
	}

	jobs := make([]models.FieldJob, 0, len(rows))
	for _, row := range rows {
		job := row.FieldJob()
		if !job.Status.Valid() {
			b.logger.Warn("dropping job with unknown status", "job_id", row.ID, "status", row.Status)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

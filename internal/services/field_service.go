package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fieldsync/internal/apperrors"
	"fieldsync/internal/database"
	"fieldsync/internal/models"
	"fieldsync/internal/photostore"
	"fieldsync/internal/syncer"
)

var (
	ErrJobNotFound   = errors.New("job not found")
	ErrPhotoNotFound = errors.New("photo not found")
)

// NetworkReporter receives connectivity reports from the host.
type NetworkReporter interface {
	Report(online bool)
}

// FieldService is what the local API serves: job edits, messages, photo
// capture and sync control over the two stores.
type FieldService struct {
	store   *database.Store
	photos  *photostore.Store
	syncer  *syncer.Orchestrator
	network NetworkReporter
	logger  *slog.Logger
}

func NewFieldService(
	store *database.Store,
	photos *photostore.Store,
	orchestrator *syncer.Orchestrator,
	network NetworkReporter,
	logger *slog.Logger,
) *FieldService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FieldService{
		store:   store,
		photos:  photos,
		syncer:  orchestrator,
		network: network,
		logger:  logger.With("component", "field_service"),
	}
}

func (s *FieldService) ListJobs(ctx context.Context) ([]models.FieldJob, error) {
	return s.store.GetJobs(ctx)
}

func (s *FieldService) GetJob(ctx context.Context, id string) (*models.FieldJob, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *FieldService) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (*models.FieldJob, error) {
	if patch.IsEmpty() {
		return nil, apperrors.Invalid("no fields to update")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.Invalid("unknown job status %q", *patch.Status)
	}

	job, err := s.store.UpdateJob(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	s.logger.Info("job updated locally", "job_id", id, "status", job.Status)
	return job, nil
}

func (s *FieldService) AddMessage(ctx context.Context, jobID, author, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.Invalid("message body is empty")
	}
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.store.AddMessage(ctx, jobID, author, body)
}

func (s *FieldService) ListMessages(ctx context.Context, jobID string) ([]models.Message, error) {
	return s.store.GetMessages(ctx, jobID)
}

func (s *FieldService) CapturePhoto(ctx context.Context, jobID string, photoType models.PhotoType, file models.CapturedFile, metadata models.PhotoMetadata) (*models.CaptureResponse, error) {
	if !photoType.Valid() {
		return nil, apperrors.Invalid("photo type must be before or after")
	}
	if len(file.Data) == 0 {
		return nil, apperrors.Invalid("photo is empty")
	}
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}

	id, err := s.photos.StorePhoto(jobID, photoType, file, metadata)
	if err != nil {
		return nil, err
	}

	return &models.CaptureResponse{
		PhotoID: id,
		JobID:   jobID,
		Type:    photoType,
		Status:  models.PhotoPending,
	}, nil
}

// ListPhotos returns captured photos still held locally and the uploaded
// photo records, optionally for one job.
func (s *FieldService) ListPhotos(ctx context.Context, jobID string) (*models.PhotosResponse, error) {
	stored, err := s.photos.ListPhotos(jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list captured photos: %w", err)
	}

	uploaded, err := s.store.GetPhotoRecords(ctx, jobID)
	if err != nil {
		return nil, err
	}

	pending := make([]models.PhotoSummary, 0, len(stored))
	for i := range stored {
		if stored[i].Status == models.PhotoCompleted {
			continue
		}
		pending = append(pending, summarize(&stored[i]))
	}

	return &models.PhotosResponse{Pending: pending, Uploaded: uploaded}, nil
}

// GetPhoto reports the upload state of one captured photo.
func (s *FieldService) GetPhoto(id string) (*models.PhotoSummary, error) {
	photo, err := s.photos.GetPhoto(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if photo == nil {
		return nil, ErrPhotoNotFound
	}

	summary := summarize(photo)
	return &summary, nil
}

func summarize(p *models.StoredPhoto) models.PhotoSummary {
	return models.PhotoSummary{
		ID:          p.ID,
		JobID:       p.JobID,
		Type:        p.Type,
		FileName:    p.FileName,
		FileType:    photostore.ContentType(p),
		Status:      p.Status,
		RetryCount:  p.RetryCount,
		LastAttempt: p.LastAttempt,
		Error:       p.Error,
		CapturedAt:  p.Metadata.CapturedAt,
	}
}

func (s *FieldService) ClearCompletedPhotos() (int, error) {
	return s.photos.ClearCompleted()
}

func (s *FieldService) ResetSyncQueue(ctx context.Context) error {
	return s.store.ClearSyncQueue(ctx)
}

func (s *FieldService) Stats(ctx context.Context) (*models.StatsResponse, error) {
	storeStats, err := s.store.GetStorageStats(ctx)
	if err != nil {
		return nil, err
	}

	photoStats, err := s.photos.GetStorageStats()
	if err != nil {
		return nil, fmt.Errorf("failed to count photos: %w", err)
	}

	return &models.StatsResponse{
		Store:  storeStats,
		Photos: photoStats,
		Sync:   s.SyncStatus(),
	}, nil
}

// ResetJobs discards local job edits and reloads the worker's jobs from
// the backend.
func (s *FieldService) ResetJobs(ctx context.Context) (int, error) {
	return s.syncer.Reset(ctx)
}

func (s *FieldService) SyncNow(ctx context.Context) models.SyncResult {
	return s.syncer.Sync(ctx)
}

func (s *FieldService) SyncStatus() models.SyncStatusResponse {
	return models.SyncStatusResponse{
		Online:         s.syncer.NetworkStatus(),
		SyncInProgress: s.syncer.IsSyncInProgress(),
		LastResult:     s.syncer.LastResult(),
	}
}

// OnSyncComplete subscribes to cycle results; the returned func unsubscribes.
func (s *FieldService) OnSyncComplete(l syncer.Listener) func() {
	return s.syncer.OnSyncComplete(l)
}

// ReportNetwork forwards the host's connectivity report.
func (s *FieldService) ReportNetwork(online bool) {
	s.network.Report(online)
}

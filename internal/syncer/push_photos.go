package syncer

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"fieldsync/internal/apperrors"
	"fieldsync/internal/models"
	"fieldsync/internal/observability"
	"fieldsync/internal/photostore"
)

// StoragePath is where a photo's blob is stored:
// jobs/{jobID}/{unix millis}_{type}_{file name}.
func StoragePath(jobID string, photoType models.PhotoType, fileName string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "photo"
	}
	return fmt.Sprintf("jobs/%s/%d_%s_%s", jobID, at.UnixMilli(), photoType, name)
}

func (o *Orchestrator) pushPhotos(ctx context.Context, result *models.SyncResult) {
	photos, err := o.photos.GetPendingPhotos()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("read pending photos: %v", err))
		o.logger.Error("failed to read pending photos", "error", err)
		return
	}

	ctx, span := o.tracer.StartPhase(ctx, "push_photos", len(photos))
	defer span.End()

	now := o.now()
	for i := range photos {
		photo := &photos[i]
		if !o.retry.Due(*photo, now) {
			o.metrics.Item(observability.KindPhoto, observability.ResultSkipped)
			continue
		}

		if err := o.pushPhoto(ctx, photo); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("photo %s: %v", photo.ID, err))
			o.metrics.Item(observability.KindPhoto, observability.ResultFailed)
			o.logger.Warn("photo push failed",
				"photo_id", photo.ID,
				"job_id", photo.JobID,
				"remote", apperrors.IsRemoteRejection(err),
				"error", err,
			)
			o.markPhotoFailed(photo, err)
			continue
		}

		result.Synced++
		o.metrics.Item(observability.KindPhoto, observability.ResultSynced)
	}
}

func (o *Orchestrator) pushPhoto(ctx context.Context, photo *models.StoredPhoto) error {
	if err := o.photos.UpdatePhotoStatus(photo.ID, models.PhotoUploading, nil); err != nil {
		return err
	}

	file, err := photostore.GetFileFromStored(photo)
	if err != nil {
		return err
	}

	storagePath := StoragePath(photo.JobID, photo.Type, file.Name, o.now())
	url, err := o.backend.UploadBlob(ctx, storagePath, photostore.ContentType(photo), file.Data)
	if err != nil {
		return err
	}

	uploadedAt := o.now().UTC()
	err = o.backend.InsertPhotoRecord(ctx, models.PhotoUpload{
		CaptureID:  photo.ID,
		JobID:      photo.JobID,
		URL:        url,
		Type:       photo.Type,
		UploadedAt: uploadedAt,
		Metadata:   photo.Metadata,
	})
	if err != nil {
		// The next attempt uploads under a fresh path.
		if rmErr := o.backend.RemoveBlob(ctx, storagePath); rmErr != nil {
			o.logger.Warn("failed to remove orphaned blob", "path", storagePath, "error", rmErr)
		}
		return err
	}

	// The remote record exists from here on. A retry would only rewrite it.
	if err := o.photos.UpdatePhotoStatus(photo.ID, models.PhotoCompleted, nil); err != nil {
		o.logger.Error("failed to mark photo completed", "photo_id", photo.ID, "error", err)
	}

	record := models.PhotoRecord{
		ID:         photo.ID,
		JobID:      photo.JobID,
		Type:       photo.Type,
		URL:        url,
		UploadedAt: uploadedAt,
	}
	if err := o.jobs.SavePhotoRecord(ctx, record); err != nil {
		o.logger.Warn("failed to mirror photo record", "photo_id", photo.ID, "error", err)
	}
	return nil
}

func (o *Orchestrator) markPhotoFailed(photo *models.StoredPhoto, cause error) {
	if err := o.photos.UpdatePhotoStatus(photo.ID, models.PhotoFailed, cause); err != nil {
		o.logger.Error("failed to record photo failure", "photo_id", photo.ID, "error", err)
		return
	}

	// A corrupt payload fails the same way on every attempt.
	if !apperrors.IsEncoding(cause) && !o.retry.Exhausted(photo.RetryCount+1) {
		return
	}
	if err := o.photos.UpdatePhotoStatus(photo.ID, models.PhotoAbandoned, nil); err != nil {
		o.logger.Error("failed to abandon photo", "photo_id", photo.ID, "error", err)
		return
	}
	o.metrics.PhotoAbandoned()
	o.logger.Warn("photo abandoned", "photo_id", photo.ID, "attempts", photo.RetryCount+1)
}

// Package photostore keeps captured photos, payload included, in an embedded
// key/value store until they are uploaded.
package photostore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"

	"fieldsync/internal/apperrors"
	"fieldsync/internal/models"
)

const (
	storeName = "photo store"
	keyPrefix = "photo:"
)

// ErrUploadInterrupted is recorded on photos found uploading at open.
var ErrUploadInterrupted = errors.New("upload interrupted")

type Options struct {
	Dir      string
	InMemory bool
}

type Store struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time

	stampMu   sync.Mutex
	lastStamp time.Time
}

func Open(opts Options, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	badgerOpts := badger.DefaultOptions(opts.Dir).WithLogger(nil)
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, &apperrors.StorageInitError{Store: storeName, Err: err}
	}

	s := &Store{
		db:     db,
		logger: logger.With("component", "photostore"),
		now:    time.Now,
	}

	if err := s.recoverInterrupted(); err != nil {
		db.Close()
		return nil, &apperrors.StorageInitError{Store: storeName, Err: err}
	}
	return s, nil
}

// recoverInterrupted fails every photo still marked uploading. No upload
// runs before Open returns, so those were cut off by a previous process.
func (s *Store) recoverInterrupted() error {
	stale, err := s.scan(func(p *models.StoredPhoto) bool {
		return p.Status == models.PhotoUploading
	})
	if err != nil {
		return err
	}

	for _, p := range stale {
		if err := s.UpdatePhotoStatus(p.ID, models.PhotoFailed, ErrUploadInterrupted); err != nil {
			return err
		}
	}
	if len(stale) > 0 {
		s.logger.Warn("recovered interrupted uploads", "count", len(stale))
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func photoKey(id string) []byte {
	return []byte(keyPrefix + id)
}

func (s *Store) stamp() time.Time {
	s.stampMu.Lock()
	defer s.stampMu.Unlock()

	now := s.now().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	return now
}

// StorePhoto encodes the payload and saves it as a pending photo. It returns
// the new photo id.
func (s *Store) StorePhoto(jobID string, photoType models.PhotoType, file models.CapturedFile, metadata models.PhotoMetadata) (string, error) {
	if jobID == "" {
		return "", apperrors.Invalid("job id is required")
	}
	if !photoType.Valid() {
		return "", apperrors.Invalid("unknown photo type %q", photoType)
	}

	capturedAt := s.stamp()
	if metadata.CapturedAt.IsZero() {
		metadata.CapturedAt = capturedAt
	}

	id := fmt.Sprintf("%s_%s_%d", jobID, photoType, capturedAt.UnixNano())
	fileData, checksum := encodePayload(file.Type, file.Data)

	photo := models.StoredPhoto{
		ID:       id,
		JobID:    jobID,
		Type:     photoType,
		FileData: fileData,
		FileName: file.Name,
		FileType: file.Type,
		Checksum: checksum,
		Metadata: metadata,
		Status:   models.PhotoPending,
	}

	value, err := json.Marshal(photo)
	if err != nil {
		return "", &apperrors.EncodingError{PhotoID: id, Err: err}
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(photoKey(id), value)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	s.logger.Info("photo captured", "photo_id", id, "job_id", jobID, "type", photoType, "bytes", len(file.Data))
	return id, nil
}

// GetPhoto returns nil without error for an unknown id.
func (s *Store) GetPhoto(id string) (*models.StoredPhoto, error) {
	var photo *models.StoredPhoto
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(photoKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var p models.StoredPhoto
			if err := json.Unmarshal(val, &p); err != nil {
				return &apperrors.EncodingError{PhotoID: id, Err: err}
			}
			photo = &p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// ListPhotos returns the photos of one job, or every photo when jobID is
// empty, oldest capture first.
func (s *Store) ListPhotos(jobID string) ([]models.StoredPhoto, error) {
	return s.scan(func(p *models.StoredPhoto) bool {
		return jobID == "" || p.JobID == jobID
	})
}

// GetPendingPhotos returns the upload candidates: pending and failed photos.
func (s *Store) GetPendingPhotos() ([]models.StoredPhoto, error) {
	return s.scan(func(p *models.StoredPhoto) bool {
		return p.Status.Retryable()
	})
}

func (s *Store) scan(match func(*models.StoredPhoto) bool) ([]models.StoredPhoto, error) {
	photos := make([]models.StoredPhoto, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var p models.StoredPhoto
				if err := json.Unmarshal(val, &p); err != nil {
					return &apperrors.EncodingError{PhotoID: string(item.Key()[len(keyPrefix):]), Err: err}
				}
				if match(&p) {
					photos = append(photos, p)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(photos, func(i, j int) bool {
		if !photos[i].Metadata.CapturedAt.Equal(photos[j].Metadata.CapturedAt) {
			return photos[i].Metadata.CapturedAt.Before(photos[j].Metadata.CapturedAt)
		}
		return photos[i].ID < photos[j].ID
	})
	return photos, nil
}

// UpdatePhotoStatus moves a photo to status. A failed status increments the
// retry count and records cause. Unknown ids are ignored; illegal
// transitions return ErrInvalidTransition.
func (s *Store) UpdatePhotoStatus(id string, status models.PhotoStatus, cause error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(photoKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var photo models.StoredPhoto
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &photo)
		})
		if err != nil {
			return &apperrors.EncodingError{PhotoID: id, Err: err}
		}

		if !photo.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: photo %s %s -> %s", apperrors.ErrInvalidTransition, id, photo.Status, status)
		}

		attempt := s.now().UTC()
		photo.Status = status
		photo.LastAttempt = &attempt

		switch status {
		case models.PhotoFailed:
			photo.RetryCount++
			photo.Error = "upload failed"
			if cause != nil {
				photo.Error = cause.Error()
			}
		case models.PhotoCompleted:
			photo.Error = ""
		}

		value, err := json.Marshal(photo)
		if err != nil {
			return &apperrors.EncodingError{PhotoID: id, Err: err}
		}
		return txn.Set(photoKey(id), value)
	})
}

// ClearCompleted deletes completed photos and returns how many were removed.
func (s *Store) ClearCompleted() (int, error) {
	completed, err := s.scan(func(p *models.StoredPhoto) bool {
		return p.Status == models.PhotoCompleted
	})
	if err != nil {
		return 0, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, p := range completed {
			if err := txn.Delete(photoKey(p.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear completed photos: %w", err)
	}

	if len(completed) > 0 {
		s.logger.Info("cleared completed photos", "count", len(completed))
	}
	return len(completed), nil
}

func (s *Store) GetStorageStats() (models.PhotoStats, error) {
	var stats models.PhotoStats

	photos, err := s.scan(func(*models.StoredPhoto) bool { return true })
	if err != nil {
		return stats, err
	}

	for _, p := range photos {
		stats.Total++
		switch p.Status {
		case models.PhotoPending:
			stats.Pending++
		case models.PhotoUploading:
			stats.Uploading++
		case models.PhotoFailed:
			stats.Failed++
		case models.PhotoCompleted:
			stats.Completed++
		case models.PhotoAbandoned:
			stats.Abandoned++
		}
	}
	return stats, nil
}

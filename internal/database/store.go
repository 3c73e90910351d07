// Package database is the local durable store: jobs, uploaded photo
// metadata, messages and the sync queue, kept in a versioned SQLite file.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fieldsync/internal/apperrors"

	_ "modernc.org/sqlite"
)

const (
	storeName    = "local store"
	databaseFile = "fieldsync.db"
)

type Store struct {
	dataDir string
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
	db *sql.DB

	stampMu   sync.Mutex
	lastStamp time.Time
}

func NewStore(dataDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		dataDir: dataDir,
		logger:  logger.With("component", "database"),
		now:     time.Now,
	}
}

// Initialize opens the database and applies pending migrations. Calls after
// a successful one are no-ops; a failed call may be retried.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(s.dataDir, 0o700); err != nil {
		return &apperrors.StorageInitError{Store: storeName, Err: err}
	}

	dbPath := filepath.Join(s.dataDir, databaseFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return &apperrors.StorageInitError{Store: storeName, Err: err}
	}

	// SQLite has a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return &apperrors.StorageInitError{Store: storeName, Err: fmt.Errorf("%s: %w", pragma, err)}
		}
	}

	migrator := NewMigrator(db, s.logger)
	if err := migrator.Run(ctx); err != nil {
		db.Close()
		return &apperrors.StorageInitError{Store: storeName, Err: err}
	}

	version, err := migrator.Version(ctx)
	if err != nil {
		db.Close()
		return &apperrors.StorageInitError{Store: storeName, Err: err}
	}

	s.db = db
	s.logger.Info("local store ready", "path", dbPath, "schema_version", version)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, apperrors.ErrNotInitialized
	}
	return s.db, nil
}

// stamp returns the current time, forced strictly past the previous stamp so
// queue entries stay ordered and unique under rapid edits.
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

func toNanos(t time.Time) int64 {
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

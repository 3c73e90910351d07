// Package syncer reconciles locally made changes with the backend: it
// pushes queued job edits and captured photos, then pulls the worker's
// authoritative job list.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"fieldsync/internal/models"
	"fieldsync/internal/observability"
)

const DefaultInterval = 30 * time.Second

var (
	ErrOffline        = errors.New("offline")
	ErrSyncInProgress = errors.New("sync already in progress")
)

// Backend is the remote data service.
type Backend interface {
	UpdateJobFields(ctx context.Context, jobID string, fields models.JobFields, updatedAt time.Time) error
	UploadBlob(ctx context.Context, storagePath, contentType string, data []byte) (string, error)
	RemoveBlob(ctx context.Context, storagePath string) error
	InsertPhotoRecord(ctx context.Context, upload models.PhotoUpload) error
	FetchJobsForWorker(ctx context.Context, workerID string) ([]models.FieldJob, error)
}

// JobStore is the part of the local durable store the cycle uses.
type JobStore interface {
	GetPendingSync(ctx context.Context) ([]models.SyncQueueEntry, error)
	GetJob(ctx context.Context, id string) (*models.FieldJob, error)
	MarkJobSynced(ctx context.Context, id string, version time.Time) (bool, error)
	RemoveSyncEntries(ctx context.Context, ids []string) error
	ApplyRemoteJobs(ctx context.Context, jobs []models.FieldJob) (models.ApplyResult, error)
	ReplaceJobs(ctx context.Context, jobs []models.FieldJob) error
	SavePhotoRecord(ctx context.Context, record models.PhotoRecord) error
}

// PhotoStore is the part of the photo capture store the cycle uses.
type PhotoStore interface {
	GetPendingPhotos() ([]models.StoredPhoto, error)
	UpdatePhotoStatus(id string, status models.PhotoStatus, cause error) error
}

// Listener receives the result of every cycle that ran.
type Listener func(models.SyncResult)

type Options struct {
	WorkerID string
	// Interval between timer-driven cycles. Defaults to 30s.
	Interval time.Duration
	Retry    RetryPolicy
	// Online is the connectivity state assumed until the first report.
	Online  bool
	Metrics *observability.SyncMetrics
	Tracer  *observability.Tracer
	Logger  *slog.Logger
}

type Orchestrator struct {
	jobs    JobStore
	photos  PhotoStore
	backend Backend

	workerID string
	interval time.Duration
	retry    RetryPolicy
	metrics  *observability.SyncMetrics
	tracer   *observability.Tracer
	logger   *slog.Logger
	now      func() time.Time

	guard      *semaphore.Weighted
	inProgress atomic.Bool
	online     atomic.Bool

	mu         sync.Mutex
	listeners  map[int]Listener
	nextID     int
	lastResult *models.SyncResult

	lifecycleMu sync.Mutex
	baseCtx     context.Context
	cancel      context.CancelFunc
	stopped     bool
	wg          sync.WaitGroup
}

func New(jobs JobStore, photos PhotoStore, backend Backend, opts Options) *Orchestrator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.Tracer == nil {
		opts.Tracer = observability.NewNoopTracer()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	o := &Orchestrator{
		jobs:      jobs,
		photos:    photos,
		backend:   backend,
		workerID:  opts.WorkerID,
		interval:  opts.Interval,
		retry:     opts.Retry,
		metrics:   opts.Metrics,
		tracer:    opts.Tracer,
		logger:    opts.Logger.With("component", "syncer"),
		now:       time.Now,
		guard:     semaphore.NewWeighted(1),
		listeners: make(map[int]Listener),
		baseCtx:   context.Background(),
	}
	o.online.Store(opts.Online)
	return o
}

// Start runs timer-driven cycles until ctx is done or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	o.lifecycleMu.Lock()
	defer o.lifecycleMu.Unlock()

	if o.cancel != nil || o.stopped {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	o.baseCtx = loopCtx
	o.cancel = cancel

	o.wg.Add(1)
	go o.loop(loopCtx)

	o.logger.Info("sync orchestrator started", "interval", o.interval.String(), "online", o.online.Load())
}

// Stop ends the timer loop and waits for in-flight cycles to finish.
func (o *Orchestrator) Stop() {
	o.lifecycleMu.Lock()
	if o.stopped {
		o.lifecycleMu.Unlock()
		return
	}
	o.stopped = true
	if o.cancel != nil {
		o.cancel()
	}
	o.lifecycleMu.Unlock()

	o.wg.Wait()
	o.logger.Info("sync orchestrator stopped")
}

func (o *Orchestrator) loop(ctx context.Context) {
	defer o.wg.Done()

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !o.online.Load() || o.inProgress.Load() {
				continue
			}
			// A started cycle runs to completion even if the loop is stopped.
			o.Sync(context.WithoutCancel(ctx))
		}
	}
}

// SetOnline records the connectivity state. Going from offline to online
// starts one cycle in the background.
func (o *Orchestrator) SetOnline(online bool) {
	was := o.online.Swap(online)
	if was == online {
		return
	}

	o.logger.Info("network status changed", "online", online)
	if !online {
		return
	}

	o.lifecycleMu.Lock()
	if o.stopped {
		o.lifecycleMu.Unlock()
		return
	}
	ctx := context.WithoutCancel(o.baseCtx)
	o.wg.Add(1)
	o.lifecycleMu.Unlock()

	go func() {
		defer o.wg.Done()
		o.Sync(ctx)
	}()
}

func (o *Orchestrator) NetworkStatus() bool {
	return o.online.Load()
}

func (o *Orchestrator) IsSyncInProgress() bool {
	return o.inProgress.Load()
}

// LastResult returns the result of the most recent cycle that ran, or nil.
func (o *Orchestrator) LastResult() *models.SyncResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.lastResult == nil {
		return nil
	}
	result := *o.lastResult
	return &result
}

// OnSyncComplete registers l for every completed cycle and returns a
// function that unregisters it. Declined cycles are not reported.
func (o *Orchestrator) OnSyncComplete(l Listener) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = l
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.listeners, id)
			o.mu.Unlock()
		})
	}
}

// Sync runs one cycle. It returns immediately with a not-run result when
// offline or when another cycle holds the guard. Cancelling ctx does not
// interrupt a cycle that has started.
func (o *Orchestrator) Sync(ctx context.Context) models.SyncResult {
	if !o.online.Load() {
		o.metrics.Cycle(observability.OutcomeSkipped, 0)
		return models.NotRun(models.SkipOffline)
	}

	result, ran := o.runGuarded(ctx)
	if !ran {
		o.metrics.Cycle(observability.OutcomeSkipped, 0)
		o.logger.Debug("sync already in progress, skipping")
		return result
	}

	o.mu.Lock()
	stored := result
	o.lastResult = &stored
	o.mu.Unlock()

	o.notify(result)
	return result
}

func (o *Orchestrator) runGuarded(ctx context.Context) (models.SyncResult, bool) {
	if !o.guard.TryAcquire(1) {
		return models.NotRun(models.SkipInProgress), false
	}
	o.inProgress.Store(true)
	defer func() {
		o.inProgress.Store(false)
		o.guard.Release(1)
	}()

	return o.cycle(context.WithoutCancel(ctx)), true
}

// Reset replaces every local job with the worker's remote list and drops
// the sync queue, discarding edits that were not pushed. It holds the same
// guard as a cycle and returns the number of jobs stored. Like a cycle, a
// started reset is not interrupted by cancelling ctx.
func (o *Orchestrator) Reset(ctx context.Context) (int, error) {
	if !o.online.Load() {
		return 0, ErrOffline
	}
	if !o.guard.TryAcquire(1) {
		return 0, ErrSyncInProgress
	}
	o.inProgress.Store(true)
	defer func() {
		o.inProgress.Store(false)
		o.guard.Release(1)
	}()

	ctx = context.WithoutCancel(ctx)
	jobs, err := o.backend.FetchJobsForWorker(ctx, o.workerID)
	if err != nil {
		return 0, fmt.Errorf("reset: %w", err)
	}
	if err := o.jobs.ReplaceJobs(ctx, jobs); err != nil {
		return 0, fmt.Errorf("reset: replace jobs: %w", err)
	}

	o.logger.Warn("local jobs reset from remote", "jobs", len(jobs))
	return len(jobs), nil
}

func (o *Orchestrator) cycle(ctx context.Context) models.SyncResult {
	ctx, span := o.tracer.StartCycle(ctx)
	defer span.End()

	result := models.SyncResult{
		Ran:       true,
		Errors:    []string{},
		StartedAt: o.now().UTC(),
	}

	o.logger.Info("sync cycle started")

	o.pushJobs(ctx, &result)
	o.pushPhotos(ctx, &result)
	if err := o.pull(ctx); err != nil {
		result.Errors = append(result.Errors, err.Error())
		o.logger.Error("pull failed", "error", err)
	}

	result.FinishedAt = o.now().UTC()
	result.Success = len(result.Errors) == 0

	o.metrics.Cycle(outcome(result), result.FinishedAt.Sub(result.StartedAt))
	o.logger.Info("sync cycle finished",
		"success", result.Success,
		"synced", result.Synced,
		"failed", result.Failed,
		"errors", len(result.Errors),
		"duration", result.FinishedAt.Sub(result.StartedAt).String(),
	)
	return result
}

func outcome(result models.SyncResult) string {
	switch {
	case result.Success:
		return observability.OutcomeSuccess
	case result.Synced > 0:
		return observability.OutcomePartial
	default:
		return observability.OutcomeFailed
	}
}

func (o *Orchestrator) notify(result models.SyncResult) {
	o.mu.Lock()
	listeners := make([]Listener, 0, len(o.listeners))
	for _, l := range o.listeners {
		listeners = append(listeners, l)
	}
	o.mu.Unlock()

	for _, l := range listeners {
		o.callListener(l, result)
	}
}

func (o *Orchestrator) callListener(l Listener, result models.SyncResult) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("sync listener panicked", "panic", r)
		}
	}()
	l(result)
}

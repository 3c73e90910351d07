package syncer

import (
	"context"
	"fmt"

	"fieldsync/internal/models"
	"fieldsync/internal/observability"
)

// pushJobs sends every queued job edit. Entries for the same job collapse
// into one push of the job's current fields; a failure on one job does not
// stop the others.
func (o *Orchestrator) pushJobs(ctx context.Context, result *models.SyncResult) {
	entries, err := o.jobs.GetPendingSync(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("read sync queue: %v", err))
		o.logger.Error("failed to read sync queue", "error", err)
		return
	}
	o.metrics.QueueDepth(len(entries))

	var order []string
	grouped := make(map[string][]models.SyncQueueEntry)
	for _, entry := range entries {
		if entry.Type != models.EntityJob {
			continue
		}
		if entry.Action != models.ActionUpdate {
			o.logger.Warn("ignoring queue entry with unknown action", "entry_id", entry.ID, "action", entry.Action)
			continue
		}
		if _, seen := grouped[entry.ItemID]; !seen {
			order = append(order, entry.ItemID)
		}
		grouped[entry.ItemID] = append(grouped[entry.ItemID], entry)
	}

	ctx, span := o.tracer.StartPhase(ctx, "push_jobs", len(order))
	defer span.End()

	for _, jobID := range order {
		o.pushJob(ctx, jobID, grouped[jobID], result)
	}
}

func (o *Orchestrator) pushJob(ctx context.Context, jobID string, entries []models.SyncQueueEntry, result *models.SyncResult) {
	fail := func(err error) {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("job %s: %v", jobID, err))
		o.metrics.Item(observability.KindJob, observability.ResultFailed)
		o.logger.Warn("job push failed", "job_id", jobID, "error", err)
	}

	job, err := o.jobs.GetJob(ctx, jobID)
	if err != nil {
		fail(err)
		return
	}
	if job == nil {
		o.logger.Info("queued job no longer stored locally, dropping entries", "job_id", jobID)
		o.metrics.Item(observability.KindJob, observability.ResultSkipped)
		o.prune(ctx, entries)
		return
	}

	fields := models.JobFields{Status: job.Status, Notes: job.Notes}
	if err := o.backend.UpdateJobFields(ctx, jobID, fields, o.now().UTC()); err != nil {
		fail(err)
		return
	}

	// A newer local edit keeps the job pending and has its own queue entry.
	marked, err := o.jobs.MarkJobSynced(ctx, jobID, job.LastModified)
	if err != nil {
		fail(fmt.Errorf("mark synced: %w", err))
		return
	}
	if !marked {
		o.logger.Info("job edited during push, left pending", "job_id", jobID)
	}

	result.Synced++
	o.metrics.Item(observability.KindJob, observability.ResultSynced)
	o.prune(ctx, entries)
}

func (o *Orchestrator) prune(ctx context.Context, entries []models.SyncQueueEntry) {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	if err := o.jobs.RemoveSyncEntries(ctx, ids); err != nil {
		o.logger.Error("failed to prune sync queue", "entries", len(ids), "error", err)
	}
}

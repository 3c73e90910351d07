package syncer

import (
	"context"
	"fmt"

	"fieldsync/internal/observability"
)

// pull replaces local jobs with the worker's authoritative list. Jobs with
// an unpushed local edit are kept.
func (o *Orchestrator) pull(ctx context.Context) (err error) {
	ctx, span := o.tracer.StartPhase(ctx, "pull", 0)
	defer func() { observability.EndSpan(span, err) }()

	jobs, err := o.backend.FetchJobsForWorker(ctx, o.workerID)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}

	applied, err := o.jobs.ApplyRemoteJobs(ctx, jobs)
	if err != nil {
		return fmt.Errorf("pull: apply jobs: %w", err)
	}

	o.logger.Info("pulled jobs", "received", len(jobs), "applied", applied.Applied, "kept_local", len(applied.Skipped))
	return nil
}

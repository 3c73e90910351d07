package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"fieldsync/internal/config"
)

// Client talks to the backend tables over the REST API, authenticated as
// the field worker.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + cfg.SupabaseAccessToken,
		},
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

func (c *Client) UpdateJob(ctx context.Context, jobID string, update JobUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var updated []struct {
		ID string `json:"id"`
	}
	_, err := c.Supabase.From(jobsTable).
		Update(update, "representation", "").
		Eq("id", jobID).
		ExecuteTo(&updated)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if len(updated) == 0 {
		return fmt.Errorf("job %s: %w", jobID, ErrRowNotFound)
	}
	return nil
}

func (c *Client) InsertPhoto(ctx context.Context, row PhotoRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := c.Supabase.From(photosTable).
		Insert(row, true, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert photo record: %w", err)
	}
	return nil
}

func (c *Client) JobsForWorker(ctx context.Context, workerID string) ([]RemoteJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var jobs []RemoteJob
	_, err := c.Supabase.From(jobsTable).
		Select("id,status,notes,description,assigned_worker_id,updated_at", "", false).
		Eq("assigned_worker_id", workerID).
		ExecuteTo(&jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch jobs: %w", err)
	}
	return jobs, nil
}

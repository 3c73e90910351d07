package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldsync/internal/apperrors"
	"fieldsync/internal/database"
	"fieldsync/internal/models"
)

func newStore(t *testing.T) *database.Store {
	t.Helper()
	store := database.NewStore(t.TempDir(), nil)
	require.NoError(t, store.Initialize(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

func seedJobs(t *testing.T, store *database.Store, ids ...string) {
	t.Helper()
	jobs := make([]models.FieldJob, 0, len(ids))
	for _, id := range ids {
		jobs = append(jobs, models.FieldJob{ID: id, Status: models.JobStatusPending, WorkerID: "worker-1"})
	}
	require.NoError(t, store.StoreJobs(context.Background(), jobs))
}

func statusPtr(s models.JobStatus) *models.JobStatus { return &s }
func strPtr(s string) *string                        { return &s }

func TestInitialize_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := database.NewStore(t.TempDir(), nil)
	defer store.Close()

	require.NoError(t, store.Initialize(ctx))
	require.NoError(t, store.Initialize(ctx))

	stats, err := store.GetStorageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StorageStats{}, stats)
}

func TestInitialize_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store := database.NewStore(dir, nil)
	require.NoError(t, store.Initialize(ctx))
	seedJobs(t, store, "J1")
	require.NoError(t, store.Close())

	reopened := database.NewStore(dir, nil)
	require.NoError(t, reopened.Initialize(ctx))
	defer reopened.Close()

	jobs, err := reopened.GetJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "J1", jobs[0].ID)
}

func TestInitialize_StorageDenied(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	store := database.NewStore(filepath.Join(blocker, "data"), nil)
	err := store.Initialize(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsStorageInit(err))
}

func TestOperationsBeforeInitialize(t *testing.T) {
	store := database.NewStore(t.TempDir(), nil)

	_, err := store.GetJobs(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotInitialized)
}

func TestStoreJobs_ForcesSynced(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedJobs(t, store, "J1")

	_, err := store.UpdateJob(ctx, "J1", models.JobPatch{Notes: strPtr("edited")})
	require.NoError(t, err)

	require.NoError(t, store.StoreJobs(ctx, []models.FieldJob{{ID: "J1", Status: models.JobStatusCompleted}}))

	job, err := store.GetJob(ctx, "J1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, models.SyncStatusSynced, job.SyncStatus)
	assert.Equal(t, models.JobStatusCompleted, job.Status)
	assert.Empty(t, job.Notes)
	assert.False(t, job.LastModified.IsZero())
}

func TestReplaceJobs_ClearsQueueAndOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedJobs(t, store, "J1")

	_, err := store.UpdateJob(ctx, "J1", models.JobPatch{Notes: strPtr("edited")})
	require.NoError(t, err)

	require.NoError(t, store.ReplaceJobs(ctx, []models.FieldJob{
		{ID: "J1", Status: models.JobStatusInProgress},
		{ID: "J2", Status: models.JobStatusPending},
	}))

	entries, err := store.GetPendingSync(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	job, err := store.GetJob(ctx, "J1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, models.SyncStatusSynced, job.SyncStatus)
	assert.Empty(t, job.Notes)

	jobs, err := store.GetJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestReplaceJobs_FailureKeepsQueue(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedJobs(t, store, "J1")

	_, err := store.UpdateJob(ctx, "J1", models.JobPatch{Notes: strPtr("edited")})
	require.NoError(t, err)

	err = store.ReplaceJobs(ctx, []models.FieldJob{
		{ID: "J1", Status: models.JobStatusCompleted},
		{ID: "J2", Status: models.JobStatus("archived")},
	})
	require.Error(t, err)

	entries, err := store.GetPendingSync(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "J1", entries[0].ItemID)

	job, err := store.GetJob(ctx, "J1")
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, models.SyncStatusPending, job.SyncStatus)
	assert.Equal(t, "edited", job.Notes)

	missing, err := store.GetJob(ctx, "J2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateJob_MarksPendingAndEnqueues(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedJobs(t, store, "J1")

	updated, err := store.UpdateJob(ctx, "J1", models.JobPatch{Status: statusPtr(models.JobStatusInProgress)})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.JobStatusInProgress, updated.Status)
	assert.Equal(t, models.SyncStatusPending, updated.SyncStatus)
	assert.Equal(t, "worker-1", updated.WorkerID)

	entries, err := store.GetPendingSync(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntityJob, entries[0].Type)
	assert.Equal(t, "J1", entries[0].ItemID)
	assert.Equal(t, models.ActionUpdate, entries[0].Action)
	assert.Equal(t, 0, entries[0].RetryCount)
}

func TestUpdateJob_UnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	job, err := store.UpdateJob(ctx, "missing", models.JobPatch{Notes: strPtr("x")})
	require.NoError(t, err)
	assert.Nil(t, job)

	entries, err := store.GetPendingSync(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateJob_RapidEditsGetDistinctOrderedEntries(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedJobs(t, store, "J1")

	for i := 0; i < 5; i++ {
		_, err := store.UpdateJob(ctx, "J1", models.JobPatch{Notes: strPtr("note")})
		require.NoError(t, err)
	}

	entries, err := store.GetPendingSync(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	seen := map[string]bool{}
	for i, entry := range entries {
		assert.False(t, seen[entry.ID], "duplicate id %s", entry.ID)
		seen[entry.ID] = true
		if i > 0 {
			assert.True(t, entry.Timestamp.After(entries[i-1].Timestamp))
		}
	}
}

func TestMarkJobSynced_RespectsVersion(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedJobs(t, store, "J1")

	first, err := store.UpdateJob(ctx, "J1", models.JobPatch{Notes: strPtr("one")})
	require.NoError(t, err)
	_, err = store.UpdateJob(ctx, "J1", models.JobPatch{Notes: strPtr("two")})
	require.NoError(t, err)

	marked, err := store.MarkJobSynced(ctx, "J1", first.LastModified)
	require.NoError(t, err)
	assert.False(t, marked)

	current, err := store.GetJob(ctx, "J1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusPending, current.SyncStatus)

	marked, err = store.MarkJobSynced(ctx, "J1", current.LastModified)
	require.NoError(t, err)
	assert.True(t, marked)

	current, err = store.GetJob(ctx, "J1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSynced, current.SyncStatus)
}

func TestApplyRemoteJobs_SkipsPending(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedJobs(t, store, "J1", "J2")

	_, err := store.UpdateJob(ctx, "J1", models.JobPatch{Notes: strPtr("local edit")})
	require.NoError(t, err)

	result, err := store.ApplyRemoteJobs(ctx, []models.FieldJob{
		{ID: "J1", Status: models.JobStatusCompleted, Notes: "remote"},
		{ID: "J2", Status: models.JobStatusCompleted, Notes: "remote"},
		{ID: "J3", Status: models.JobStatusPending},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, []string{"J1"}, result.Skipped)

	j1, err := store.GetJob(ctx, "J1")
	require.NoError(t, err)
	assert.Equal(t, "local edit", j1.Notes)
	assert.Equal(t, models.SyncStatusPending, j1.SyncStatus)

	j2, err := store.GetJob(ctx, "J2")
	require.NoError(t, err)
	assert.Equal(t, "remote", j2.Notes)
	assert.Equal(t, models.SyncStatusSynced, j2.SyncStatus)

	j3, err := store.GetJob(ctx, "J3")
	require.NoError(t, err)
	assert.NotNil(t, j3)
}

func TestSyncQueue_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedJobs(t, store, "J1", "J2")

	_, err := store.UpdateJob(ctx, "J1", models.JobPatch{Notes: strPtr("a")})
	require.NoError(t, err)
	_, err = store.UpdateJob(ctx, "J2", models.JobPatch{Notes: strPtr("b")})
	require.NoError(t, err)
	_, err = store.Enqueue(ctx, models.EntityPhoto, "P1", models.ActionUpdate)
	require.NoError(t, err)

	entries, err := store.GetPendingSync(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.NoError(t, store.RemoveSyncEntries(ctx, []string{entries[0].ID, "unknown"}))

	remaining, err := store.GetPendingSync(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "J2", remaining[0].ItemID)
	assert.Equal(t, models.EntityPhoto, remaining[1].Type)

	require.NoError(t, store.ClearSyncQueue(ctx))
	remaining, err = store.GetPendingSync(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestMessages(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	first, err := store.AddMessage(ctx, "J1", "worker-1", "arrived on site")
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, "J1", "worker-1", "done")
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, "J2", "worker-1", "other job")
	require.NoError(t, err)
	assert.Len(t, first.ID, 26)
	assert.Equal(t, models.SyncStatusPending, first.SyncStatus)

	msgs, err := store.GetMessages(ctx, "J1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "arrived on site", msgs[0].Body)
	assert.Equal(t, "done", msgs[1].Body)

	first.Body = "arrived on site (edited remotely)"
	require.NoError(t, store.StoreMessages(ctx, []models.Message{*first}))

	msgs, err = store.GetMessages(ctx, "J1")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSynced, msgs[0].SyncStatus)
	assert.Equal(t, first.Body, msgs[0].Body)
}

func TestStorageStats(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	seedJobs(t, store, "J1", "J2")

	_, err := store.UpdateJob(ctx, "J1", models.JobPatch{Notes: strPtr("a")})
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, "J1", "", "hello")
	require.NoError(t, err)
	require.NoError(t, store.SavePhotoRecord(ctx, models.PhotoRecord{
		ID: "J1_before_1", JobID: "J1", Type: models.PhotoBefore, URL: "https://example.test/a.jpg",
	}))

	stats, err := store.GetStorageStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StorageStats{
		Jobs:            2,
		PendingJobs:     1,
		PhotoRecords:    1,
		Messages:        1,
		PendingMessages: 1,
		SyncQueue:       1,
	}, stats)

	records, err := store.GetPhotoRecords(ctx, "J1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.PhotoBefore, records[0].Type)

	none, err := store.GetPhotoRecords(ctx, "J2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

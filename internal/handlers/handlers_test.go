package handlers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldsync/internal/connectivity"
	"fieldsync/internal/database"
	"fieldsync/internal/handlers"
	"fieldsync/internal/middleware"
	"fieldsync/internal/models"
	"fieldsync/internal/photostore"
	"fieldsync/internal/services"
	"fieldsync/internal/syncer"
)

type stubBackend struct {
	mu      sync.Mutex
	updates map[string]models.JobFields
	blobs   []string
	records []models.PhotoUpload
	remote  []models.FieldJob
}

func (b *stubBackend) UpdateJobFields(_ context.Context, jobID string, fields models.JobFields, _ time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates[jobID] = fields
	return nil
}

func (b *stubBackend) UploadBlob(_ context.Context, storagePath, _ string, _ []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs = append(b.blobs, storagePath)
	return "https://example.supabase.co/storage/v1/object/public/job-photos/" + storagePath, nil
}

func (b *stubBackend) RemoveBlob(context.Context, string) error { return nil }

func (b *stubBackend) InsertPhotoRecord(_ context.Context, upload models.PhotoUpload) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, upload)
	return nil
}

func (b *stubBackend) FetchJobsForWorker(context.Context, string) ([]models.FieldJob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.FieldJob(nil), b.remote...), nil
}

type testEnv struct {
	router  *gin.Engine
	service *services.FieldService
	orch    *syncer.Orchestrator
	backend *stubBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store := database.NewStore(t.TempDir(), nil)
	require.NoError(t, store.Initialize(ctx))
	t.Cleanup(func() { store.Close() })

	photos, err := photostore.Open(photostore.Options{InMemory: true}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { photos.Close() })

	job := models.FieldJob{ID: "job-1", Status: models.JobStatusPending, WorkerID: "worker-1"}
	require.NoError(t, store.StoreJobs(ctx, []models.FieldJob{job}))

	backend := &stubBackend{updates: map[string]models.JobFields{}, remote: []models.FieldJob{job}}
	orch := syncer.New(store, photos, backend, syncer.Options{WorkerID: "worker-1", Interval: time.Hour})
	t.Cleanup(orch.Stop)

	monitor := connectivity.NewMonitor(func(context.Context) error { return nil }, 0, nil)
	monitor.Subscribe(orch.SetOnline)

	service := services.NewFieldService(store, photos, orch, monitor, nil)

	router := gin.New()
	router.GET("/health", handlers.HealthHandler)
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.WorkerIDKey, "worker-1")
		c.Next()
	})
	handlers.RegisterRoutes(api, service)

	return &testEnv{router: router, service: service, orch: orch, backend: backend}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) goOnline(t *testing.T) {
	t.Helper()
	w := e.do(t, http.MethodPut, "/api/v1/network", `{"online": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Eventually(t, func() bool {
		return e.orch.LastResult() != nil && !e.orch.IsSyncInProgress()
	}, 5*time.Second, 5*time.Millisecond)
}

func capturePhotoRequest(t *testing.T, jobID, photoType string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("type", photoType))
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("photo", "front-door.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/v1/jobs/"+jobID+"/photos", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestJobsHandler_ListAndGet(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.JobsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "job-1", resp.Jobs[0].ID)

	w = env.do(t, http.MethodGet, "/api/v1/jobs/job-1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/jobs/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestJobsHandler_UpdateJob(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPatch, "/api/v1/jobs/job-1", `{"status": "in_progress", "notes": "gate code 1234"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var job models.FieldJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, models.JobStatusInProgress, job.Status)
	assert.Equal(t, "gate code 1234", job.Notes)
	assert.Equal(t, models.SyncStatusPending, job.SyncStatus)

	var status models.SyncStatusResponse
	w = env.do(t, http.MethodGet, "/api/v1/sync/status", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.Online)
}

func TestJobsHandler_UpdateJobRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown status", "/api/v1/jobs/job-1", `{"status": "archived"}`, http.StatusBadRequest},
		{"empty patch", "/api/v1/jobs/job-1", `{}`, http.StatusBadRequest},
		{"malformed json", "/api/v1/jobs/job-1", `{"status":`, http.StatusBadRequest},
		{"unknown job", "/api/v1/jobs/missing", `{"notes": "x"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMessagesHandler(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/jobs/job-1/messages", `{"body": "on site"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var message models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &message))
	assert.Equal(t, "worker-1", message.Author)
	assert.Equal(t, "on site", message.Body)

	w = env.do(t, http.MethodPost, "/api/v1/jobs/job-1/messages", `{"body": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/jobs/missing/messages", `{"body": "hello"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/jobs/job-1/messages", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.MessagesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 1)
}

func TestPhotosHandler_Capture(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, capturePhotoRequest(t, "job-1", "before", map[string]string{
		"latitude":    "47.6062",
		"longitude":   "-122.3321",
		"device":      "tablet-7",
		"captured_at": "2026-03-01T09:30:00Z",
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	var capture models.CaptureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &capture))
	assert.Equal(t, "job-1", capture.JobID)
	assert.Equal(t, models.PhotoBefore, capture.Type)
	assert.Equal(t, models.PhotoPending, capture.Status)
	assert.True(t, strings.HasPrefix(capture.PhotoID, "job-1_before_"))

	w = env.do(t, http.MethodGet, "/api/v1/photos?job_id=job-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var photos models.PhotosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &photos))
	require.Len(t, photos.Pending, 1)
	assert.Equal(t, "front-door.jpg", photos.Pending[0].FileName)
	assert.Equal(t, "image/jpeg", photos.Pending[0].FileType)
	assert.Empty(t, photos.Uploaded)
}

func TestPhotosHandler_CaptureRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"bad type", capturePhotoRequest(t, "job-1", "during", nil), http.StatusBadRequest},
		{"unknown job", capturePhotoRequest(t, "missing", "after", nil), http.StatusNotFound},
		{"half a location", capturePhotoRequest(t, "job-1", "after", map[string]string{"latitude": "1"}), http.StatusBadRequest},
		{"bad timestamp", capturePhotoRequest(t, "job-1", "after", map[string]string{"captured_at": "yesterday"}), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, tt.req)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := env.do(t, http.MethodPost, "/api/v1/jobs/job-1/photos", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncHandler_DeclinedWhenOffline(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/sync", "")
	require.Equal(t, http.StatusConflict, w.Code)

	var result models.SyncResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Ran)
	assert.Equal(t, models.SkipOffline, result.SkipReason)
}

func TestSyncHandler_GoingOnlinePushesChanges(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPatch, "/api/v1/jobs/job-1", `{"status": "completed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, capturePhotoRequest(t, "job-1", "after", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	env.goOnline(t)

	env.backend.mu.Lock()
	assert.Equal(t, models.JobStatusCompleted, env.backend.updates["job-1"].Status)
	assert.Len(t, env.backend.records, 1)
	env.backend.mu.Unlock()

	w = env.do(t, http.MethodPost, "/api/v1/sync", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result models.SyncResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Ran)
	assert.True(t, result.Success)

	w = env.do(t, http.MethodGet, "/api/v1/photos", "")
	var photos models.PhotosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &photos))
	assert.Empty(t, photos.Pending)
	assert.Len(t, photos.Uploaded, 1)

	w = env.do(t, http.MethodDelete, "/api/v1/photos/completed", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed": 1}`, w.Body.String())
}

func TestSyncHandler_Events(t *testing.T) {
	env := newTestEnv(t)
	env.goOnline(t)

	server := httptest.NewServer(env.router)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/sync/events", nil)
	require.NoError(t, err)

	lines := make(chan string, 16)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	require.Eventually(t, func() bool {
		env.service.SyncNow(context.Background())
		select {
		case line := <-lines:
			return line == "event:sync"
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestSyncHandler_ResetQueueAndStats(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPatch, "/api/v1/jobs/job-1", `{"notes": "first"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Store.Jobs)
	assert.Equal(t, 1, stats.Store.SyncQueue)

	w = env.do(t, http.MethodDelete, "/api/v1/sync/queue", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/stats", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.Store.SyncQueue)
}

func TestNetworkHandler_RequiresOnlineField(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/v1/network", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhotosHandler_GetPhoto(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, capturePhotoRequest(t, "job-1", "after", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var capture models.CaptureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &capture))

	w = env.do(t, http.MethodGet, "/api/v1/photos/"+capture.PhotoID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var summary models.PhotoSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, capture.PhotoID, summary.ID)
	assert.Equal(t, models.PhotoAfter, summary.Type)
	assert.Equal(t, models.PhotoPending, summary.Status)

	w = env.do(t, http.MethodGet, "/api/v1/photos/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncHandler_ResetJobs(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/sync/reset", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	env.goOnline(t)

	env.backend.mu.Lock()
	env.backend.remote = append(env.backend.remote, models.FieldJob{
		ID:       "job-2",
		Status:   models.JobStatusPending,
		WorkerID: "worker-1",
	})
	env.backend.mu.Unlock()

	w = env.do(t, http.MethodPatch, "/api/v1/jobs/job-1", `{"notes": "unsent"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/sync/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"jobs": 2}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/jobs/job-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var job models.FieldJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Empty(t, job.Notes)

	w = env.do(t, http.MethodGet, "/api/v1/stats", "")
	var stats models.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Store.Jobs)
	assert.Equal(t, 0, stats.Store.SyncQueue)
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"podcastogist/internal/blob"
	"podcastogist/internal/pipeline"
	"podcastogist/internal/plan"
	"podcastogist/internal/project"
	"podcastogist/internal/project/redisstore"
	"podcastogist/internal/transcription"
)

// stubStarter records workflow dispatches instead of talking to Temporal.
type stubStarter struct {
	processed []pipeline.UploadCompletedEvent
	retried   []pipeline.RetryJobEvent
	signals   []transcription.StatusEvent
	signalErr error
}

func (s *stubStarter) StartProcess(ctx context.Context, ev pipeline.UploadCompletedEvent) (string, error) {
	s.processed = append(s.processed, ev)
	return "run-1", nil
}

func (s *stubStarter) StartRetry(ctx context.Context, ev pipeline.RetryJobEvent) (string, error) {
	s.retried = append(s.retried, ev)
	return "run-2", nil
}

func (s *stubStarter) SignalTranscriptionStatus(ctx context.Context, ev transcription.StatusEvent) error {
	s.signals = append(s.signals, ev)
	return s.signalErr
}

// stubUploads records blob operations instead of talking to MinIO. Public
// URLs under base count as bucket-hosted objects.
type stubUploads struct {
	base      string
	presigned []string
	downloads []string
	deleted   []string
}

func (s *stubUploads) PresignUpload(ctx context.Context, userID, filename string) (*blob.PresignedUpload, error) {
	key := "podcasts/" + userID + "/" + filename
	s.presigned = append(s.presigned, key)
	return &blob.PresignedUpload{
		URL:       s.base + "/" + key + "?sig=put",
		Method:    "PUT",
		Key:       key,
		PublicURL: s.base + "/" + key,
	}, nil
}

func (s *stubUploads) PresignDownload(ctx context.Context, key string) (string, error) {
	s.downloads = append(s.downloads, key)
	return s.base + "/" + key + "?sig=get", nil
}

func (s *stubUploads) KeyForURL(fileURL string) (string, bool) {
	key, ok := strings.CutPrefix(fileURL, s.base+"/")
	return key, ok && key != ""
}

func (s *stubUploads) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubStarter, project.Store) {
	router, starter, store, _ := newTestEnv(t)
	return router, starter, store
}

func newTestEnv(t *testing.T) (*gin.Engine, *stubStarter, project.Store, *stubUploads) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := redisstore.New(rdb, zap.NewNop())

	starter := &stubStarter{}
	uploads := &stubUploads{base: "http://minio.local/uploads"}
	h := &handlers{
		store:             store,
		blobs:             uploads,
		starter:           starter,
		logger:            zap.NewNop(),
		webhookAuthHeader: "x-webhook-secret",
		webhookAuthValue:  "s3cret",
	}

	router := gin.New()
	router.POST("/api/v1/uploads/presign", h.presignUpload)
	router.POST("/api/v1/events/upload-completed", h.uploadCompleted)
	router.POST("/api/v1/events/retry-job", h.retryJob)
	router.POST("/api/webhooks/assemblyai", h.transcriptionWebhook)
	router.GET("/api/v1/projects/:id", h.getProject)
	router.DELETE("/api/v1/projects/:id", h.deleteProject)
	router.GET("/api/v1/projects/:id/download", h.downloadProject)
	return router, starter, store, uploads
}

func postJSON(router *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadCompletedCreatesProjectAndStartsWorkflow(t *testing.T) {
	router, starter, store := newTestRouter(t)

	w := postJSON(router, "/api/v1/events/upload-completed", map[string]any{
		"projectId": "p1",
		"fileUrl":   "https://cdn.example.com/a.mp3",
		"plan":      "plus",
		"userId":    "u1",
		"fileName":  "a.mp3",
	}, nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, starter.processed, 1)
	assert.Equal(t, plan.Plus, starter.processed[0].Plan)

	got, err := store.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, project.StatusUploaded, got.Status)
	assert.Equal(t, "u1", got.UserID)
}

func TestUploadCompletedRequiresFileURL(t *testing.T) {
	router, starter, _ := newTestRouter(t)

	w := postJSON(router, "/api/v1/events/upload-completed", map[string]any{
		"projectId": "p1",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, starter.processed)
}

func TestRetryJobDispatch(t *testing.T) {
	router, starter, _ := newTestRouter(t)

	w := postJSON(router, "/api/v1/events/retry-job", map[string]any{
		"projectId":    "p1",
		"job":          "socialPosts",
		"originalPlan": "free",
		"currentPlan":  "plus",
	}, nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, starter.retried, 1)
	assert.Equal(t, plan.JobSocialPosts, starter.retried[0].Job)
	assert.Equal(t, plan.Plus, starter.retried[0].CurrentPlan)
}

func TestRetryJobRejectsUnknownJob(t *testing.T) {
	router, starter, _ := newTestRouter(t)

	w := postJSON(router, "/api/v1/events/retry-job", map[string]any{
		"projectId": "p1",
		"job":       "mindReading",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, starter.retried)
}

func TestWebhookRelaysSignal(t *testing.T) {
	router, starter, _ := newTestRouter(t)

	w := postJSON(router, "/api/webhooks/assemblyai?projectId=p1", map[string]any{
		"transcript_id": "t-9",
		"status":        "completed",
	}, map[string]string{"x-webhook-secret": "s3cret"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, starter.signals, 1)
	assert.Equal(t, transcription.StatusEvent{
		ProjectID:    "p1",
		TranscriptID: "t-9",
		Status:       "completed",
	}, starter.signals[0])
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	router, starter, _ := newTestRouter(t)

	w := postJSON(router, "/api/webhooks/assemblyai?projectId=p1", map[string]any{
		"transcript_id": "t-9",
		"status":        "completed",
	}, map[string]string{"x-webhook-secret": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, starter.signals)
}

func TestWebhookRequiresProjectID(t *testing.T) {
	router, starter, _ := newTestRouter(t)

	w := postJSON(router, "/api/webhooks/assemblyai", map[string]any{
		"transcript_id": "t-9",
		"status":        "completed",
	}, map[string]string{"x-webhook-secret": "s3cret"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, starter.signals)
}

func TestWebhookAcknowledgesSignalFailure(t *testing.T) {
	router, starter, _ := newTestRouter(t)
	starter.signalErr = assert.AnError

	w := postJSON(router, "/api/webhooks/assemblyai?projectId=p1", map[string]any{
		"transcript_id": "t-9",
		"status":        "completed",
	}, map[string]string{"x-webhook-secret": "s3cret"})

	// The provider should not keep retrying a webhook whose workflow is gone.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetAndDeleteProject(t *testing.T) {
	router, _, store := newTestRouter(t)
	require.NoError(t, store.Create(context.Background(), &project.Project{
		ID: "p1", UserID: "u1", FileURL: "https://cdn.example.com/a.mp3",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got project.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "p1", got.ID)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/projects/p1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresignUpload(t *testing.T) {
	router, _, _, uploads := newTestEnv(t)

	w := postJSON(router, "/api/v1/uploads/presign", map[string]any{
		"userId":   "u1",
		"plan":     "plus",
		"fileName": "episode.mp3",
		"fileSize": 1024,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got blob.PresignedUpload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "PUT", got.Method)
	assert.Equal(t, "podcasts/u1/episode.mp3", got.Key)
	assert.Equal(t, []string{"podcasts/u1/episode.mp3"}, uploads.presigned)
}

func TestPresignUploadRejectsOversizedFile(t *testing.T) {
	router, _, _, uploads := newTestEnv(t)

	w := postJSON(router, "/api/v1/uploads/presign", map[string]any{
		"userId":   "u1",
		"plan":     "free",
		"fileName": "episode.mp3",
		"fileSize": 50 * 1024 * 1024, // free tier caps at 10MB
	}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, uploads.presigned)
}

func TestDownloadPresignsBucketFiles(t *testing.T) {
	router, _, store, uploads := newTestEnv(t)
	require.NoError(t, store.Create(context.Background(), &project.Project{
		ID: "p1", UserID: "u1", FileURL: uploads.base + "/podcasts/u1/a.mp3",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uploads.base+"/podcasts/u1/a.mp3?sig=get", got["url"])
	assert.Equal(t, []string{"podcasts/u1/a.mp3"}, uploads.downloads)
}

func TestDownloadPassesThroughExternalFiles(t *testing.T) {
	router, _, store, uploads := newTestEnv(t)
	require.NoError(t, store.Create(context.Background(), &project.Project{
		ID: "p1", UserID: "u1", FileURL: "https://cdn.example.com/a.mp3",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1/download", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "https://cdn.example.com/a.mp3", got["url"])
	assert.Empty(t, uploads.downloads)
}

func TestDeleteProjectRemovesUpload(t *testing.T) {
	router, _, store, uploads := newTestEnv(t)
	require.NoError(t, store.Create(context.Background(), &project.Project{
		ID: "p1", UserID: "u1", FileURL: uploads.base + "/podcasts/u1/a.mp3",
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/projects/p1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"podcasts/u1/a.mp3"}, uploads.deleted)
}

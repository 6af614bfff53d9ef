package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"podcastogist/internal/blob"
	"podcastogist/internal/errors"
	"podcastogist/internal/pipeline"
	"podcastogist/internal/plan"
	"podcastogist/internal/project"
	"podcastogist/internal/transcription"
)

// Starter launches and signals pipeline workflows. Implemented by the
// Temporal client wrapper; stubbed in handler tests.
type Starter interface {
	StartProcess(ctx context.Context, event pipeline.UploadCompletedEvent) (string, error)
	StartRetry(ctx context.Context, event pipeline.RetryJobEvent) (string, error)
	SignalTranscriptionStatus(ctx context.Context, event transcription.StatusEvent) error
}

// Uploads is the object-storage surface the handlers need. Implemented by
// the MinIO-backed blob store; stubbed in handler tests.
type Uploads interface {
	PresignUpload(ctx context.Context, userID, filename string) (*blob.PresignedUpload, error)
	PresignDownload(ctx context.Context, key string) (string, error)
	KeyForURL(fileURL string) (string, bool)
	Delete(ctx context.Context, key string) error
}

type handlers struct {
	store   project.Store
	blobs   Uploads
	starter Starter
	logger  *zap.Logger

	webhookAuthHeader string
	webhookAuthValue  string
}

type presignRequest struct {
	UserID   string    `json:"userId" binding:"required"`
	Plan     plan.Name `json:"plan,omitempty"`
	FileName string    `json:"fileName" binding:"required"`
	FileSize int64     `json:"fileSize" binding:"required,gt=0"`
	Duration int       `json:"duration,omitempty"` // seconds, best effort from the client
}

// presignUpload validates the upload against plan limits, then hands back a
// presigned PUT URL so the file never flows through this server.
func (h *handlers) presignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	count, err := h.store.CountByUser(c.Request.Context(), req.UserID)
	if err != nil {
		internalError(c, h.logger, "count projects", err)
		return
	}

	if check := plan.CheckUpload(req.Plan, req.FileSize, req.Duration, count); !check.Allowed {
		c.JSON(http.StatusForbidden, gin.H{
			"error":  check.Message,
			"reason": check.Reason,
		})
		return
	}

	upload, err := h.blobs.PresignUpload(c.Request.Context(), req.UserID, req.FileName)
	if err != nil {
		internalError(c, h.logger, "presign upload", err)
		return
	}

	c.JSON(http.StatusOK, upload)
}

// uploadCompleted creates the project document and starts the processing
// workflow. The workflow ID is derived from the project ID, so resubmitting
// the same event is a no-op while a run is in flight.
func (h *handlers) uploadCompleted(c *gin.Context) {
	var event pipeline.UploadCompletedEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		badRequest(c, err)
		return
	}
	if event.ProjectID == "" {
		event.ProjectID = uuid.New().String()
	}
	event.Plan = plan.Normalize(event.Plan)

	now := time.Now()
	doc := &project.Project{
		ID:       event.ProjectID,
		UserID:   event.UserID,
		Plan:     event.Plan,
		FileURL:  event.FileURL,
		FileName: event.FileName,
		FileSize: event.FileSize,
		MimeType: event.MimeType,
		Status:   project.StatusUploaded,
		JobStatus: project.JobStatus{
			Transcription:     project.PhasePending,
			ContentGeneration: project.PhasePending,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.Create(c.Request.Context(), doc); err != nil {
		internalError(c, h.logger, "create project", err)
		return
	}

	runID, err := h.starter.StartProcess(c.Request.Context(), event)
	if err != nil {
		internalError(c, h.logger, "start workflow", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"projectId": event.ProjectID,
		"runId":     runID,
	})
}

// retryJob starts the single-job retry workflow.
func (h *handlers) retryJob(c *gin.Context) {
	var event pipeline.RetryJobEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		badRequest(c, err)
		return
	}
	if _, ok := plan.FeatureFor(event.Job); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown job: " + string(event.Job)})
		return
	}

	runID, err := h.starter.StartRetry(c.Request.Context(), event)
	if err != nil {
		internalError(c, h.logger, "start retry workflow", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"projectId": event.ProjectID,
		"job":       event.Job,
		"runId":     runID,
	})
}

// assemblyaiWebhook is the body AssemblyAI posts when a transcript reaches a
// terminal state.
type assemblyaiWebhook struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// transcriptionWebhook relays the provider callback to the waiting workflow,
// correlated by the projectId query parameter we registered at submit time.
func (h *handlers) transcriptionWebhook(c *gin.Context) {
	if h.webhookAuthValue != "" {
		if c.GetHeader(h.webhookAuthHeader) != h.webhookAuthValue {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
			return
		}
	}

	projectID := c.Query("projectId")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing projectId"})
		return
	}

	var body assemblyaiWebhook
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	event := transcription.StatusEvent{
		ProjectID:    projectID,
		TranscriptID: body.TranscriptID,
		Status:       body.Status,
		Error:        body.Error,
	}
	if err := h.starter.SignalTranscriptionStatus(c.Request.Context(), event); err != nil {
		// The workflow may have completed or timed out already; the
		// provider will not retry forever, so log and acknowledge.
		h.logger.Warn("transcription signal failed",
			zap.String("projectId", projectID),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// getProject returns the current project document.
func (h *handlers) getProject(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if stderrors.Is(err, errors.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		internalError(c, h.logger, "get project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// downloadProject hands back a temporary GET URL for the uploaded audio.
// Files hosted outside our bucket are returned as-is.
func (h *handlers) downloadProject(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if stderrors.Is(err, errors.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		internalError(c, h.logger, "get project", err)
		return
	}

	key, ok := h.blobs.KeyForURL(p.FileURL)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"url": p.FileURL})
		return
	}
	u, err := h.blobs.PresignDownload(c.Request.Context(), key)
	if err != nil {
		internalError(c, h.logger, "presign download", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u})
}

// deleteProject removes the project document and its uploaded audio. A
// workflow racing this delete notices on its next store write and exits
// cleanly. Blob cleanup is best effort: the document is already gone.
func (h *handlers) deleteProject(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if stderrors.Is(err, errors.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		internalError(c, h.logger, "get project", err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), p.ID); err != nil {
		if stderrors.Is(err, errors.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		internalError(c, h.logger, "delete project", err)
		return
	}

	if key, ok := h.blobs.KeyForURL(p.FileURL); ok {
		if err := h.blobs.Delete(c.Request.Context(), key); err != nil {
			h.logger.Warn("failed to delete uploaded file",
				zap.String("projectId", p.ID),
				zap.String("key", key),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// watchProject streams project updates as server-sent events until the client
// disconnects, backed by the store's pub/sub channel.
func (h *handlers) watchProject(c *gin.Context) {
	id := c.Param("id")
	updates, err := h.store.Subscribe(c.Request.Context(), id)
	if err != nil {
		internalError(c, h.logger, "subscribe", err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case u, ok := <-updates:
			if !ok {
				return false
			}
			payload, _ := json.Marshal(u)
			c.SSEvent("update", string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func internalError(c *gin.Context, logger *zap.Logger, op string, err error) {
	logger.Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": op + " failed"})
}

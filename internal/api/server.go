// Package api exposes the HTTP surface: upload presigning, the pipeline
// trigger events, the transcription webhook, project reads and the metrics
// endpoint. All heavy lifting happens in workflows; handlers only validate,
// persist and dispatch.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"podcastogist/internal/project"
)

// Options configures the HTTP server.
type Options struct {
	Addr              string
	Development       bool
	WebhookAuthHeader string
	WebhookAuthValue  string
}

// Server is the HTTP front of the system.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds the router and wires every route.
func NewServer(
	opts Options,
	store project.Store,
	blobs Uploads,
	starter Starter,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Server {
	if opts.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &handlers{
		store:             store,
		blobs:             blobs,
		starter:           starter,
		logger:            logger,
		webhookAuthHeader: opts.WebhookAuthHeader,
		webhookAuthValue:  opts.WebhookAuthValue,
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogging(logger))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/uploads/presign", h.presignUpload)
		v1.POST("/events/upload-completed", h.uploadCompleted)
		v1.POST("/events/retry-job", h.retryJob)

		v1.GET("/projects/:id", h.getProject)
		v1.DELETE("/projects/:id", h.deleteProject)
		v1.GET("/projects/:id/download", h.downloadProject)
		v1.GET("/projects/:id/watch", h.watchProject)
	}

	router.POST("/api/webhooks/assemblyai", h.transcriptionWebhook)

	return &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0, // watch streams stay open indefinitely
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

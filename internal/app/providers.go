// Package app assembles the application graph: configuration, logging, the
// Redis project store, transcription and generation providers, the pipeline
// service, the Temporal client and the HTTP server. Provider selection (real
// vs fixture) happens here exactly once, at wire-up.
package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"podcastogist/internal/api"
	"podcastogist/internal/blob"
	"podcastogist/internal/config"
	"podcastogist/internal/errors"
	"podcastogist/internal/generate"
	"podcastogist/internal/logging"
	"podcastogist/internal/pipeline"
	"podcastogist/internal/project"
	"podcastogist/internal/project/redisstore"
	"podcastogist/internal/temporal"
	"podcastogist/internal/transcription"
)

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.Development)
}

func provideRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.ErrStoreConnection.WithCause(err)
	}
	return rdb, nil
}

func provideStore(rdb *redis.Client, logger *zap.Logger) project.Store {
	return redisstore.New(rdb, logger)
}

func provideCompleter(cfg *config.Config, logger *zap.Logger) (generate.Completer, error) {
	if cfg.MockAI {
		logger.Info("content generation using fixture completer")
		return generate.NewFixtureCompleter(), nil
	}
	return generate.NewOpenAICompleter(cfg.OpenAIKey, cfg.OpenAIModel)
}

func provideTranscriptionProvider(cfg *config.Config, logger *zap.Logger) (transcription.Provider, error) {
	if cfg.MockTranscription {
		logger.Info("transcription using fixture provider")
		return transcription.NewFixtureProvider(), nil
	}
	return transcription.NewAssemblyAIProvider(cfg.AssemblyAIKey,
		transcription.WithWebhookAuth(cfg.WebhookAuthHeader, cfg.WebhookAuthValue))
}

func provideTranscriptionService(p transcription.Provider, store project.Store, cfg *config.Config, logger *zap.Logger) *transcription.Service {
	return transcription.NewService(p, store, cfg.AppURL, logger)
}

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func providePipeline(store project.Store, ts pipeline.Transcriber, gs pipeline.Generator, metrics *pipeline.Metrics, logger *zap.Logger) *pipeline.Service {
	return pipeline.NewService(store, ts, gs, metrics, logger)
}

func provideTemporalConfig(cfg *config.Config) temporal.Config {
	return temporal.Config{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
		TaskQueue: cfg.TemporalTaskQueue,
	}
}

func provideBlobStore(ctx context.Context, cfg *config.Config) (*blob.Store, error) {
	return blob.New(ctx, blob.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
}

func provideServer(cfg *config.Config, store project.Store, blobs *blob.Store, starter *temporal.Starter, registry *prometheus.Registry, logger *zap.Logger) *api.Server {
	return api.NewServer(api.Options{
		Addr:              cfg.HTTPAddr,
		Development:       cfg.Development,
		WebhookAuthHeader: cfg.WebhookAuthHeader,
		WebhookAuthValue:  cfg.WebhookAuthValue,
	}, store, blobs, starter, registry, logger)
}

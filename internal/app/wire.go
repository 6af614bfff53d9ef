//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"podcastogist/internal/config"
	"podcastogist/internal/generate"
	"podcastogist/internal/pipeline"
	"podcastogist/internal/temporal"
	"podcastogist/internal/transcription"
)

// InitializeApp builds the full application graph. Run
// `wire ./internal/app` after changing providers.
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, error) {
	wire.Build(
		provideLogger,
		provideRedis,
		provideStore,
		provideCompleter,
		generate.NewService,
		provideTranscriptionProvider,
		provideTranscriptionService,
		provideRegistry,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		pipeline.NewMetrics,
		wire.Bind(new(pipeline.Transcriber), new(*transcription.Service)),
		wire.Bind(new(pipeline.Generator), new(*generate.Service)),
		providePipeline,
		provideTemporalConfig,
		temporal.NewClient,
		temporal.NewWorkflows,
		temporal.NewStarter,
		temporal.NewWorker,
		provideBlobStore,
		provideServer,
		newApp,
	)
	return nil, nil
}

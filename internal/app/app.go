package app

import (
	"context"

	"go.uber.org/zap"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"podcastogist/internal/api"
	"podcastogist/internal/config"
	"podcastogist/internal/pipeline"
	"podcastogist/internal/project"
	"podcastogist/internal/temporal"
)

// App is the assembled application. The serve command runs Server, the worker
// command runs Worker; both share the same graph.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    project.Store
	Pipeline *pipeline.Service
	Temporal client.Client
	Starter  *temporal.Starter
	Worker   worker.Worker
	Server   *api.Server
}

// Close releases the app's connections.
func (a *App) Close(ctx context.Context) {
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			a.Logger.Warn("http shutdown", zap.Error(err))
		}
	}
	if a.Temporal != nil {
		a.Temporal.Close()
	}
	_ = a.Logger.Sync()
}

func newApp(
	cfg *config.Config,
	logger *zap.Logger,
	store project.Store,
	p *pipeline.Service,
	tc client.Client,
	starter *temporal.Starter,
	w worker.Worker,
	server *api.Server,
) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Pipeline: p,
		Temporal: tc,
		Starter:  starter,
		Worker:   w,
		Server:   server,
	}
}

package temporal

import (
	"context"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"podcastogist/internal/errors"
	"podcastogist/internal/pipeline"
	"podcastogist/internal/transcription"
)

// Config holds Temporal connection settings.
type Config struct {
	HostPort  string
	Namespace string
	TaskQueue string
}

// NewClient dials the Temporal frontend.
func NewClient(cfg Config) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create Temporal client")
	}
	return c, nil
}

// workflowRetryPolicy is the outer retry budget: 3 total attempts with
// exponential backoff for anything that escapes the workflow's own handler.
var workflowRetryPolicy = &temporal.RetryPolicy{
	InitialInterval:    5 * time.Second,
	BackoffCoefficient: 2.0,
	MaximumInterval:    time.Minute,
	MaximumAttempts:    3,
}

// Starter launches and signals pipeline workflows.
type Starter struct {
	client    client.Client
	taskQueue string
	logger    *zap.Logger
}

// NewStarter creates a workflow starter.
func NewStarter(c client.Client, cfg Config, logger *zap.Logger) *Starter {
	return &Starter{client: c, taskQueue: cfg.TaskQueue, logger: logger}
}

// StartProcess launches the main workflow for an upload-completed event.
func (s *Starter) StartProcess(ctx context.Context, ev pipeline.UploadCompletedEvent) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:          ProcessWorkflowID(ev.ProjectID),
		TaskQueue:   s.taskQueue,
		RetryPolicy: workflowRetryPolicy,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, ProcessWorkflowName, ev)
	if err != nil {
		return "", errors.Wrap(err, "start process workflow")
	}
	s.logger.Info("started process workflow",
		zap.String("workflowId", run.GetID()),
		zap.String("projectId", ev.ProjectID))
	return run.GetID(), nil
}

// StartRetry launches the single-job retry workflow.
func (s *Starter) StartRetry(ctx context.Context, ev pipeline.RetryJobEvent) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:          RetryWorkflowID(ev.ProjectID, string(ev.Job)),
		TaskQueue:   s.taskQueue,
		RetryPolicy: workflowRetryPolicy,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, RetryWorkflowName, ev)
	if err != nil {
		return "", errors.Wrap(err, "start retry workflow")
	}
	s.logger.Info("started retry workflow",
		zap.String("workflowId", run.GetID()),
		zap.String("projectId", ev.ProjectID),
		zap.String("job", string(ev.Job)))
	return run.GetID(), nil
}

// SignalTranscriptionStatus relays a provider webhook to the suspended
// processing workflow, correlated by project id.
func (s *Starter) SignalTranscriptionStatus(ctx context.Context, ev transcription.StatusEvent) error {
	err := s.client.SignalWorkflow(ctx, ProcessWorkflowID(ev.ProjectID), "", transcription.StatusEventName, ev)
	if err != nil {
		return errors.Wrap(err, "signal transcription status")
	}
	return nil
}

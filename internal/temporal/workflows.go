package temporal

import (
	"context"

	"go.temporal.io/sdk/workflow"

	"podcastogist/internal/pipeline"
)

// Registered workflow names.
const (
	ProcessWorkflowName = "ProcessPodcastWorkflow"
	RetryWorkflowName   = "RetryJobWorkflow"
)

// ProcessWorkflowID derives the workflow id for a project's processing run.
// One run per project at a time; the webhook relay signals this id.
func ProcessWorkflowID(projectID string) string {
	return "podcast-process-" + projectID
}

// RetryWorkflowID derives the workflow id for a single-job retry.
func RetryWorkflowID(projectID, job string) string {
	return "podcast-retry-" + projectID + "-" + job
}

// Workflows holds the pipeline service the workflow functions delegate to.
type Workflows struct {
	pipeline *pipeline.Service
}

// NewWorkflows creates the workflow set.
func NewWorkflows(p *pipeline.Service) *Workflows {
	return &Workflows{pipeline: p}
}

// ProcessPodcast is the durable entry point for the main workflow.
func (w *Workflows) ProcessPodcast(wctx workflow.Context, ev pipeline.UploadCompletedEvent) (pipeline.ProcessResult, error) {
	logger := workflow.GetLogger(wctx)
	logger.Info("starting podcast processing workflow",
		"projectId", ev.ProjectID,
		"plan", ev.Plan)

	result, err := w.pipeline.Process(context.Background(), NewRunner(wctx), ev)
	if err != nil {
		logger.Error("podcast processing workflow failed",
			"projectId", ev.ProjectID,
			"error", err)
		return result, err
	}

	logger.Info("podcast processing workflow finished",
		"projectId", ev.ProjectID,
		"success", result.Success)
	return result, nil
}

// RetryJob is the durable entry point for a single-job retry.
func (w *Workflows) RetryJob(wctx workflow.Context, ev pipeline.RetryJobEvent) (pipeline.RetryResult, error) {
	logger := workflow.GetLogger(wctx)
	logger.Info("starting retry job workflow",
		"projectId", ev.ProjectID,
		"job", ev.Job)

	result, err := w.pipeline.RetryJob(context.Background(), NewRunner(wctx), ev)
	if err != nil {
		logger.Error("retry job workflow failed",
			"projectId", ev.ProjectID,
			"job", ev.Job,
			"error", err)
		return result, err
	}
	return result, nil
}

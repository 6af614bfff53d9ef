package temporal

import (
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

// NewWorker builds a worker serving both pipeline workflows on the task
// queue. Steps run as local activities, so no separate activity registration
// is needed.
func NewWorker(c client.Client, cfg Config, workflows *Workflows) worker.Worker {
	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	w.RegisterWorkflowWithOptions(workflows.ProcessPodcast, workflow.RegisterOptions{
		Name: ProcessWorkflowName,
	})
	w.RegisterWorkflowWithOptions(workflows.RetryJob, workflow.RegisterOptions{
		Name: RetryWorkflowName,
	})

	return w
}

// Package temporal binds the pipeline to the Temporal workflow engine: a
// step.Runner backed by local activities and signal channels, the workflow
// definitions, and client/worker bootstrap.
package temporal

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"podcastogist/internal/step"
)

// stepRetryPolicy governs per-step retries for transient failures; terminal
// failures are classified by the step bodies themselves.
var stepRetryPolicy = &temporal.RetryPolicy{
	InitialInterval:    time.Second,
	BackoffCoefficient: 2.0,
	MaximumInterval:    100 * time.Second,
	MaximumAttempts:    3,
}

// Runner implements step.Runner inside a Temporal workflow. Steps run as
// local activities, so their results are memoized in workflow history and a
// retried workflow attempt resumes from the last recorded step. The step id
// is carried for logs; Temporal keys memoization by history position.
type Runner struct {
	wctx workflow.Context
}

// NewRunner wraps a workflow context.
func NewRunner(wctx workflow.Context) *Runner {
	return &Runner{wctx: wctx}
}

// Run executes fn as a local activity and decodes the recorded result.
func (r *Runner) Run(_ context.Context, id string, fn step.Func, out any) error {
	return r.execute(id, fn, out, 5*time.Minute)
}

// RunAI is Run with a longer budget for model latency plus telemetry logging.
func (r *Runner) RunAI(_ context.Context, id string, fn step.Func, out any) error {
	logger := workflow.GetLogger(r.wctx)
	start := workflow.Now(r.wctx)
	err := r.execute(id, fn, out, 10*time.Minute)
	logger.Info("ai step finished",
		"step", id,
		"duration", workflow.Now(r.wctx).Sub(start),
		"failed", err != nil)
	return err
}

func (r *Runner) execute(id string, fn step.Func, out any, timeout time.Duration) error {
	lao := workflow.WithLocalActivityOptions(r.wctx, workflow.LocalActivityOptions{
		ScheduleToCloseTimeout: timeout,
		RetryPolicy:            stepRetryPolicy,
	})

	workflow.GetLogger(r.wctx).Debug("running step", "step", id)

	fut := workflow.ExecuteLocalActivity(lao, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if out == nil {
		return fut.Get(r.wctx, nil)
	}
	return fut.Get(r.wctx, out)
}

// WaitForEvent suspends the workflow on a signal channel until a matching
// event arrives or the timeout elapses. The suspension is durable: it holds
// no connection and survives worker restarts.
func (r *Runner) WaitForEvent(_ context.Context, id string, opts step.WaitOptions, out any) (bool, error) {
	logger := workflow.GetLogger(r.wctx)
	logger.Info("waiting for event", "step", id, "event", opts.Event, "timeout", opts.Timeout)

	ch := workflow.GetSignalChannel(r.wctx, opts.Event)
	deadline := workflow.Now(r.wctx).Add(opts.Timeout)

	for {
		remaining := deadline.Sub(workflow.Now(r.wctx))
		if remaining <= 0 {
			return false, nil
		}
		ok, _ := ch.ReceiveWithTimeout(r.wctx, remaining, out)
		if !ok {
			return false, nil
		}
		if opts.Match == nil || opts.Match(out) {
			return true, nil
		}
		// Signal for a different correlation key; keep waiting.
		logger.Debug("discarding unmatched event", "step", id, "event", opts.Event)
	}
}

// Now returns recorded workflow time, stable across replays.
func (r *Runner) Now() time.Time {
	return workflow.Now(r.wctx)
}

// Go spawns a workflow coroutine.
func (r *Runner) Go(_ context.Context, fn func(ctx context.Context)) {
	workflow.Go(r.wctx, func(workflow.Context) {
		fn(context.Background())
	})
}

// NewWaitGroup returns a workflow-native join primitive.
func (r *Runner) NewWaitGroup() step.WaitGroup {
	return &workflowWaitGroup{wctx: r.wctx, wg: workflow.NewWaitGroup(r.wctx)}
}

type workflowWaitGroup struct {
	wctx workflow.Context
	wg   workflow.WaitGroup
}

func (w *workflowWaitGroup) Add(delta int)          { w.wg.Add(delta) }
func (w *workflowWaitGroup) Done()                  { w.wg.Done() }
func (w *workflowWaitGroup) Wait(_ context.Context) { w.wg.Wait(w.wctx) }

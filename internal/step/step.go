// Package step abstracts the durable step runtime the workflows are written
// against. Production satisfies it with the Temporal-backed runner; tests use
// the synchronous in-process runner, which proves the pipeline depends on the
// contract rather than a concrete scheduler.
package step

import (
	"context"
	"time"
)

// Func is the body of one durable step. The returned value is decoded into
// the caller's out pointer through the runtime's payload codec, so it must be
// JSON serializable.
type Func func(ctx context.Context) (any, error)

// WaitOptions configures a durable wait for an external event.
type WaitOptions struct {
	// Event is the event (signal) name to wait for.
	Event string
	// Timeout bounds the wait; the runner reports a timeout by returning
	// found=false rather than an error.
	Timeout time.Duration
	// Match filters decoded events; events it rejects are discarded and the
	// wait continues. A nil Match accepts the first event.
	Match func(payload any) bool
}

// WaitGroup is the join primitive matching the runner's scheduling model.
type WaitGroup interface {
	Add(delta int)
	Done()
	Wait(ctx context.Context)
}

// Runner executes workflow steps with at-least-once retry and memoized
// results keyed by step id.
type Runner interface {
	// Run executes fn effectively-once per step id across retried workflow
	// attempts. When out is non-nil the (possibly memoized) result is
	// decoded into it.
	Run(ctx context.Context, id string, fn Func, out any) error

	// RunAI is Run for AI-calling steps; the runner additionally captures
	// token and latency telemetry.
	RunAI(ctx context.Context, id string, fn Func, out any) error

	// WaitForEvent suspends until an external event matching opts arrives,
	// decoding it into out. Returns found=false on timeout. The suspension
	// must not hold an open connection and must survive process restarts
	// under a durable runner.
	WaitForEvent(ctx context.Context, id string, opts WaitOptions, out any) (bool, error)

	// Now returns the current time as observed by the scheduling model. A
	// durable runner sources it from recorded workflow time, so replays see
	// the value of the original execution. Workflow code must use this
	// instead of time.Now.
	Now() time.Time

	// Go spawns a coroutine appropriate to the scheduling model.
	Go(ctx context.Context, fn func(ctx context.Context))

	// NewWaitGroup returns a join primitive matching Go.
	NewWaitGroup() WaitGroup
}

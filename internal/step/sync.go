package step

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"podcastogist/internal/errors"
)

// SyncRunner executes steps synchronously in-process with no persistence and
// no real suspension. It mirrors the durable runner's payload codec by JSON
// round-tripping results, so type mismatches surface in tests exactly as they
// would in production.
type SyncRunner struct {
	mu       sync.Mutex
	executed []string
}

// NewSyncRunner creates a synchronous in-memory runner.
func NewSyncRunner() *SyncRunner {
	return &SyncRunner{}
}

// Run executes fn immediately and decodes its result into out.
func (r *SyncRunner) Run(ctx context.Context, id string, fn Func, out any) error {
	r.record(id)
	res, err := fn(ctx)
	if err != nil {
		return err
	}
	return decode(res, out)
}

// RunAI behaves like Run; the sync runner captures no telemetry.
func (r *SyncRunner) RunAI(ctx context.Context, id string, fn Func, out any) error {
	return r.Run(ctx, id, fn, out)
}

// WaitForEvent is not available without a durable scheduler.
func (r *SyncRunner) WaitForEvent(ctx context.Context, id string, opts WaitOptions, out any) (bool, error) {
	r.record(id)
	return false, errors.ErrWaitNotSupported
}

// Now returns wall-clock time; the sync runner never replays.
func (r *SyncRunner) Now() time.Time {
	return time.Now()
}

// Go spawns a native goroutine.
func (r *SyncRunner) Go(ctx context.Context, fn func(ctx context.Context)) {
	go fn(ctx)
}

// NewWaitGroup returns a sync.WaitGroup-backed join.
func (r *SyncRunner) NewWaitGroup() WaitGroup {
	return &syncWaitGroup{}
}

// Executed returns the step ids run so far, in order.
func (r *SyncRunner) Executed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.executed))
	copy(out, r.executed)
	return out
}

func (r *SyncRunner) record(id string) {
	r.mu.Lock()
	r.executed = append(r.executed, id)
	r.mu.Unlock()
}

type syncWaitGroup struct {
	wg sync.WaitGroup
}

func (w *syncWaitGroup) Add(delta int)          { w.wg.Add(delta) }
func (w *syncWaitGroup) Done()                  { w.wg.Done() }
func (w *syncWaitGroup) Wait(_ context.Context) { w.wg.Wait() }

// decode round-trips a step result into the caller's out pointer.
func decode(res any, out any) error {
	if out == nil || res == nil {
		return nil
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "encode step result")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decode step result")
	}
	return nil
}

package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultTaskTimeout = 5 * time.Second

// Runner executes detached best-effort tasks off the request path.
// Tasks get their own deadline and error boundary; failures are logged
// and dropped, never retried.
type Runner struct {
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner constructs a Runner with the default task deadline.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{
		logger:  logger.With("component", "telemetry.runner"),
		timeout: defaultTaskTimeout,
	}
}

// Go spawns fn without awaiting it.
func (r *Runner) Go(name string, fn func(context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("detached task panicked", "task", name, "panic", rec)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			r.logger.Warn("detached task failed", "task", name, "error", err)
		}
	}()
}

// Wait blocks until every spawned task has finished. Shutdown and tests use it.
func (r *Runner) Wait() {
	r.wg.Wait()
}

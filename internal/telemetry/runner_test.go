package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
)

func newTestRunner() *Runner {
	return NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunnerExecutesTask(t *testing.T) {
	r := newTestRunner()
	var ran atomic.Bool
	r.Go("test", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	r.Wait()
	if !ran.Load() {
		t.Fatal("expected task to run")
	}
}

func TestRunnerSwallowsErrors(t *testing.T) {
	r := newTestRunner()
	r.Go("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})
	r.Wait()
}

func TestRunnerRecoversPanics(t *testing.T) {
	r := newTestRunner()
	r.Go("panicking", func(ctx context.Context) error {
		panic("boom")
	})
	r.Wait()
}

func TestRunnerProvidesDeadline(t *testing.T) {
	r := newTestRunner()
	var hasDeadline atomic.Bool
	r.Go("deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		hasDeadline.Store(ok)
		return nil
	})
	r.Wait()
	if !hasDeadline.Load() {
		t.Fatal("expected task context to carry a deadline")
	}
}

// Package task runs best-effort side effects detached from their caller.
// A detached task can never fail, block, or panic the primary operation that
// spawned it; its outcome is only ever logged.
package task

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a detached task's context.
const DefaultTimeout = 10 * time.Second

// Runner launches detached tasks. The zero value is not usable; create one
// with New. Wait is only needed by tests and shutdown paths.
type Runner struct {
	logger  zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func New(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger, timeout: DefaultTimeout}
}

// NewWithTimeout creates a Runner whose tasks are cancelled after d.
func NewWithTimeout(logger zerolog.Logger, d time.Duration) *Runner {
	return &Runner{logger: logger, timeout: d}
}

// Detach runs fn on its own goroutine with a fresh timeout-bounded context.
// Errors and panics are logged under the task name and never propagate.
func (r *Runner) Detach(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				var stack [4096]byte
				n := runtime.Stack(stack[:], false)
				r.logger.Error().
					Str("task", name).
					Str("panic", fmt.Sprintf("%v", rec)).
					Str("stack", string(stack[:n])).
					Msg("detached task panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.logger.Warn().Err(err).Str("task", name).Msg("detached task failed")
			return
		}
		r.logger.Debug().Str("task", name).Msg("detached task completed")
	}()
}

// Wait blocks until all detached tasks have finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

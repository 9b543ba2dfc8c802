package task

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunner_Detach_RunsTask(t *testing.T) {
	r := New(zerolog.Nop())
	var ran atomic.Bool

	r.Detach("ping", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	r.Wait()

	if !ran.Load() {
		t.Error("expected detached task to run")
	}
}

func TestRunner_Detach_SwallowsError(t *testing.T) {
	r := New(zerolog.Nop())

	r.Detach("ping", func(ctx context.Context) error {
		return fmt.Errorf("backend unavailable")
	})
	r.Wait()
	// Reaching here without a panic or propagated error is the contract.
}

func TestRunner_Detach_RecoversPanic(t *testing.T) {
	r := New(zerolog.Nop())

	r.Detach("boom", func(ctx context.Context) error {
		panic("unexpected")
	})
	r.Wait()
}

func TestRunner_Detach_ContextTimeout(t *testing.T) {
	r := NewWithTimeout(zerolog.Nop(), 10*time.Millisecond)
	var deadlineSet atomic.Bool

	r.Detach("slow", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			deadlineSet.Store(true)
		}
		<-ctx.Done()
		return ctx.Err()
	})
	r.Wait()

	if !deadlineSet.Load() {
		t.Error("expected detached task context to carry a deadline")
	}
}

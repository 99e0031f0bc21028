package main

import (
	"context"
	"os"
	"slices"
	"testing"
)

// ---------------------------------------------------------------------------
// TestNotifyContext - Cancellation without real signal delivery
// ---------------------------------------------------------------------------

func TestNotifyContext(t *testing.T) {
	t.Parallel()

	t.Run("starts live and stop cancels", func(t *testing.T) {
		t.Parallel()

		ctx, stop := notifyContext(context.Background())
		if ctx.Err() != nil {
			t.Fatal("context should not be cancelled initially")
		}
		stop()
		if ctx.Err() == nil {
			t.Fatal("context should be cancelled after stop()")
		}
	})

	t.Run("inherits parent cancellation", func(t *testing.T) {
		t.Parallel()

		parent, cancel := context.WithCancel(context.Background())
		ctx, stop := notifyContext(parent)
		defer stop()

		cancel()
		<-ctx.Done()
	})
}

func TestShutdownSignals_IncludeInterrupt(t *testing.T) {
	t.Parallel()

	if !slices.Contains(shutdownSignals, os.Signal(os.Interrupt)) {
		t.Errorf("shutdownSignals = %v, want os.Interrupt", shutdownSignals)
	}
}

package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForSleeps(t *testing.T) {
	var slept time.Duration
	orig := sleep
	sleep = func(d time.Duration) { slept = d }
	t.Cleanup(func() { sleep = orig })

	if err := WaitFor(context.Background(), 3*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slept != 3*time.Second {
		t.Fatalf("expected 3s sleep, got %s", slept)
	}
}

func TestWaitForNonPositive(t *testing.T) {
	called := false
	orig := sleep
	sleep = func(time.Duration) { called = true }
	t.Cleanup(func() { sleep = orig })

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("sleep must not be called for zero duration")
	}
}

func TestWaitForCancelled(t *testing.T) {
	release := make(chan struct{})
	orig := sleep
	sleep = func(time.Duration) { <-release }
	t.Cleanup(func() {
		close(release)
		sleep = orig
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

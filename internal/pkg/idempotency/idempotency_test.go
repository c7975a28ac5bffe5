package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupTracker(t *testing.T) *StateTracker {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	uri, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}

	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })

	return New(client)
}

func TestStateTrackerExec(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	calls := 0
	run := func(context.Context) error {
		calls++
		return nil
	}

	if err := tracker.Exec(ctx, "op-ok", run); err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	// Replay short-circuits without running fn again.
	if err := tracker.Exec(ctx, "op-ok", run); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("replay error = %v, want ErrAlreadyCompleted", err)
	}
	if calls != 1 {
		t.Errorf("calls after replay = %d, want 1", calls)
	}
}

func TestStateTrackerExecFailure(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	boom := errors.New("boom")
	if err := tracker.Exec(ctx, "op-fail", func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Exec() error = %v, want boom", err)
	}

	if err := tracker.Exec(ctx, "op-fail", func(context.Context) error { return nil }); !errors.Is(err, ErrAlreadyFailed) {
		t.Errorf("replay error = %v, want ErrAlreadyFailed", err)
	}
}

func TestStateTrackerInProgress(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	state, err := tracker.Acquire(ctx, "op-lock", time.Minute)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if state != StateNone {
		t.Fatalf("state = %v, want StateNone", state)
	}

	if err := tracker.Exec(ctx, "op-lock", func(context.Context) error { return nil }); !errors.Is(err, ErrAlreadyInProgress) {
		t.Errorf("concurrent Exec() error = %v, want ErrAlreadyInProgress", err)
	}
}

func TestStateTrackerLockExpiry(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	if _, err := tracker.Acquire(ctx, "op-expire", 100*time.Millisecond); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	state, err := tracker.Acquire(ctx, "op-expire", time.Minute)
	if err != nil {
		t.Fatalf("reacquire error = %v", err)
	}
	if state != StateNone {
		t.Errorf("state after expiry = %v, want StateNone", state)
	}
}

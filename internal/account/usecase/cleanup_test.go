package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/siswanet/siswanet/internal/account/entity"
)

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	issueOTP(t, f, entity.OTPPurposePasswordReset)
	f.clock.Advance(61 * time.Second)
	issueOTP(t, f, entity.OTPPurposeLogin)

	// Only the first record has lived past its TTL.
	f.clock.Advance(10*time.Minute - 30*time.Second)

	deleted, err := f.uc.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if len(f.repo.otps) != 1 {
		t.Errorf("remaining records = %d, want 1", len(f.repo.otps))
	}

	// Second run has nothing left to remove.
	deleted, err = f.uc.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("second CleanupExpired() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}

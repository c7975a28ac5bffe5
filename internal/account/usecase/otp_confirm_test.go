package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/siswanet/siswanet/internal/account/entity"
)

func verifyOTP(t *testing.T, f *fixture, purpose entity.OTPPurpose) {
	t.Helper()

	if _, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
		Phone:   testPhone,
		Code:    f.codes.code,
		Purpose: purpose,
	}); err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}
}

func TestConfirmRecentOTPInsideWindow(t *testing.T) {
	f := newFixture(t)
	issueOTP(t, f, entity.OTPPurposePasswordReset)
	verifyOTP(t, f, entity.OTPPurposePasswordReset)

	f.clock.Advance(4 * time.Minute)

	out, err := f.uc.ConfirmRecentOTP(context.Background(), ConfirmRecentOTPInput{
		Phone:   testPhone,
		Code:    "421337",
		Purpose: entity.OTPPurposePasswordReset,
	})
	if err != nil {
		t.Fatalf("ConfirmRecentOTP() error = %v", err)
	}
	if out.AccountID != 77 {
		t.Errorf("account id = %d, want 77", out.AccountID)
	}

	// Read-only: the same confirmation works again.
	if _, err := f.uc.ConfirmRecentOTP(context.Background(), ConfirmRecentOTPInput{
		Phone:   testPhone,
		Code:    "421337",
		Purpose: entity.OTPPurposePasswordReset,
	}); err != nil {
		t.Fatalf("second ConfirmRecentOTP() error = %v", err)
	}
}

func TestConfirmRecentOTPOutsideWindow(t *testing.T) {
	f := newFixture(t)
	issueOTP(t, f, entity.OTPPurposePasswordReset)
	verifyOTP(t, f, entity.OTPPurposePasswordReset)

	f.clock.Advance(5*time.Minute + time.Second)

	_, err := f.uc.ConfirmRecentOTP(context.Background(), ConfirmRecentOTPInput{
		Phone:   testPhone,
		Code:    "421337",
		Purpose: entity.OTPPurposePasswordReset,
	})
	if err == nil {
		t.Fatal("ConfirmRecentOTP() error = nil, want window rejection")
	}
	if got := businessMsg(t, err); !strings.Contains(got, "invalid") {
		t.Errorf("message = %q, want generic rejection", got)
	}
}

func TestConfirmRecentOTPExpiredCode(t *testing.T) {
	f := newFixture(t)
	issueOTP(t, f, entity.OTPPurposePasswordReset)

	f.clock.Advance(6 * time.Minute)
	verifyOTP(t, f, entity.OTPPurposePasswordReset)

	// 10m30s after issuance the code's lifetime is over even though the
	// grace window from verification still has 30s left.
	f.clock.Advance(4*time.Minute + 30*time.Second)

	_, err := f.uc.ConfirmRecentOTP(context.Background(), ConfirmRecentOTPInput{
		Phone:   testPhone,
		Code:    "421337",
		Purpose: entity.OTPPurposePasswordReset,
	})
	if err == nil {
		t.Fatal("ConfirmRecentOTP() error = nil, want expiry rejection")
	}
	if got := businessMsg(t, err); !strings.Contains(got, "invalid") {
		t.Errorf("message = %q, want generic rejection", got)
	}
}

func TestConfirmRecentOTPNeverVerified(t *testing.T) {
	f := newFixture(t)
	issueOTP(t, f, entity.OTPPurposePasswordReset)

	// Pending but never verified: the grace window does not apply.
	_, err := f.uc.ConfirmRecentOTP(context.Background(), ConfirmRecentOTPInput{
		Phone:   testPhone,
		Code:    "421337",
		Purpose: entity.OTPPurposePasswordReset,
	})
	if err == nil {
		t.Fatal("ConfirmRecentOTP() error = nil, want rejection")
	}
}

func TestConfirmRecentOTPWrongCode(t *testing.T) {
	f := newFixture(t)
	issueOTP(t, f, entity.OTPPurposePasswordReset)
	verifyOTP(t, f, entity.OTPPurposePasswordReset)

	_, err := f.uc.ConfirmRecentOTP(context.Background(), ConfirmRecentOTPInput{
		Phone:   testPhone,
		Code:    "999999",
		Purpose: entity.OTPPurposePasswordReset,
	})
	if err == nil {
		t.Fatal("ConfirmRecentOTP(wrong code) error = nil")
	}
}

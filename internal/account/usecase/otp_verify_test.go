package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/siswanet/siswanet/internal/account/entity"
)

func issueOTP(t *testing.T, f *fixture, purpose entity.OTPPurpose) int64 {
	t.Helper()

	out, err := f.uc.RequestOTP(context.Background(), RequestOTPInput{Phone: testPhone, Purpose: purpose})
	if err != nil {
		t.Fatalf("RequestOTP() error = %v", err)
	}
	return out.OTPID
}

func TestVerifyOTPHappyPath(t *testing.T) {
	f := newFixture(t)
	id := issueOTP(t, f, entity.OTPPurposeLogin)

	out, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
		Phone:   testPhone,
		Code:    "421337",
		Purpose: entity.OTPPurposeLogin,
	})
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}
	if out.AccountID != 77 {
		t.Errorf("account id = %d, want 77", out.AccountID)
	}

	rec := f.repo.otps[id]
	if rec.Status != entity.OTPStatusVerified {
		t.Errorf("status = %v, want Verified", rec.Status)
	}
	if rec.VerifiedAt == nil || !rec.VerifiedAt.Equal(f.clock.now) {
		t.Errorf("verified_at = %v, want %v", rec.VerifiedAt, f.clock.now)
	}
	if rec.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", rec.Attempts)
	}
	if len(f.mq.verified) != 1 {
		t.Errorf("verified events = %d, want 1", len(f.mq.verified))
	}
}

func TestVerifyOTPSingleUse(t *testing.T) {
	f := newFixture(t)
	issueOTP(t, f, entity.OTPPurposeLogin)

	in := VerifyOTPInput{Phone: testPhone, Code: "421337", Purpose: entity.OTPPurposeLogin}
	if _, err := f.uc.VerifyOTP(context.Background(), in); err != nil {
		t.Fatalf("first VerifyOTP() error = %v", err)
	}

	_, err := f.uc.VerifyOTP(context.Background(), in)
	if err == nil {
		t.Fatal("second VerifyOTP() error = nil, want single-use rejection")
	}
	if got := businessMsg(t, err); !strings.Contains(got, "expired or not found") {
		t.Errorf("message = %q", got)
	}
}

func TestVerifyOTPWrongCodeCountsDown(t *testing.T) {
	f := newFixture(t)
	id := issueOTP(t, f, entity.OTPPurposePasswordReset)
	ctx := context.Background()
	in := VerifyOTPInput{Phone: testPhone, Code: "000111", Purpose: entity.OTPPurposePasswordReset}

	_, err := f.uc.VerifyOTP(ctx, in)
	if got := businessMsg(t, err); !strings.Contains(got, "2 attempt(s) remaining") {
		t.Errorf("first wrong message = %q", got)
	}

	_, err = f.uc.VerifyOTP(ctx, in)
	if got := businessMsg(t, err); !strings.Contains(got, "1 attempt(s) remaining") {
		t.Errorf("second wrong message = %q", got)
	}

	// Third wrong submission spends the budget and reports it.
	_, err = f.uc.VerifyOTP(ctx, in)
	if got := businessMsg(t, err); !strings.Contains(got, "maximum attempts") {
		t.Errorf("third wrong message = %q", got)
	}
	if got := f.repo.otps[id].Status; got != entity.OTPStatusExhausted {
		t.Errorf("status = %v, want Exhausted", got)
	}
	if len(f.mq.exhausted) != 1 {
		t.Errorf("exhausted events = %d, want 1", len(f.mq.exhausted))
	}

	// A fourth submission no longer finds a pending record; even the right
	// code is refused.
	_, err = f.uc.VerifyOTP(ctx, VerifyOTPInput{Phone: testPhone, Code: "421337", Purpose: entity.OTPPurposePasswordReset})
	if got := businessMsg(t, err); !strings.Contains(got, "expired or not found") {
		t.Errorf("fourth message = %q", got)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	f := newFixture(t)
	issueOTP(t, f, entity.OTPPurposeLogin)

	f.clock.Advance(10*time.Minute + time.Second)

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
		Phone:   testPhone,
		Code:    "421337",
		Purpose: entity.OTPPurposeLogin,
	})
	if err == nil {
		t.Fatal("VerifyOTP() error = nil, want expiry rejection")
	}
	if got := businessMsg(t, err); !strings.Contains(got, "expired or not found") {
		t.Errorf("message = %q", got)
	}
}

func TestVerifyOTPUnknownPhoneIsGeneric(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
		Phone:   "+628999999999",
		Code:    "421337",
		Purpose: entity.OTPPurposeLogin,
	})
	if err == nil {
		t.Fatal("VerifyOTP() error = nil")
	}
	got := businessMsg(t, err)
	if strings.Contains(got, "account") {
		t.Errorf("message %q leaks account existence", got)
	}
	if !strings.Contains(got, "invalid") {
		t.Errorf("message = %q, want generic invalid-code", got)
	}
}

func TestVerifyOTPWrongPurpose(t *testing.T) {
	f := newFixture(t)
	issueOTP(t, f, entity.OTPPurposePasswordReset)

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
		Phone:   testPhone,
		Code:    "421337",
		Purpose: entity.OTPPurposeLogin,
	})
	if err == nil {
		t.Fatal("VerifyOTP() with mismatched purpose error = nil")
	}
	if got := businessMsg(t, err); !strings.Contains(got, "expired or not found") {
		t.Errorf("message = %q", got)
	}
}

func TestVerifyOTPSupersededCodeRefused(t *testing.T) {
	f := newFixture(t)
	f.codes.code = "111111"
	issueOTP(t, f, entity.OTPPurposeLogin)

	f.clock.Advance(61 * time.Second)
	f.codes.code = "222222"
	issueOTP(t, f, entity.OTPPurposeLogin)

	// The first code's record is superseded; submitting it charges an
	// attempt on the live record and fails the comparison.
	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
		Phone:   testPhone,
		Code:    "111111",
		Purpose: entity.OTPPurposeLogin,
	})
	if err == nil {
		t.Fatal("VerifyOTP(old code) error = nil")
	}
	if got := businessMsg(t, err); !strings.Contains(got, "attempt(s) remaining") {
		t.Errorf("message = %q", got)
	}

	if _, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
		Phone:   testPhone,
		Code:    "222222",
		Purpose: entity.OTPPurposeLogin,
	}); err != nil {
		t.Fatalf("VerifyOTP(new code) error = %v", err)
	}
}

func TestVerifyOTPSpentBudgetRefusesCorrectCode(t *testing.T) {
	f := newFixture(t)
	id := issueOTP(t, f, entity.OTPPurposeLogin)

	// Simulate a submission whose pending read landed before concurrent
	// wrong guesses: the snapshot still shows budget left while the
	// stored record has already spent all three attempts.
	stale := *f.repo.otps[id]
	stale.Attempts = 2
	f.repo.pendingSnapshot = &stale
	f.repo.otps[id].Attempts = 3

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{
		Phone:   testPhone,
		Code:    "421337",
		Purpose: entity.OTPPurposeLogin,
	})
	if err == nil {
		t.Fatal("VerifyOTP() past the attempt budget error = nil")
	}
	if got := businessMsg(t, err); !strings.Contains(got, "expired or not found") {
		t.Errorf("message = %q", got)
	}

	rec := f.repo.otps[id]
	if rec.Status == entity.OTPStatusVerified {
		t.Error("record verified past the attempt budget")
	}
	if rec.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", rec.Attempts)
	}
}

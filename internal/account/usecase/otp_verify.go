package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siswanet/siswanet/internal/account/entity"
	"github.com/siswanet/siswanet/internal/pkg/goerror"
)

type VerifyOTPInput struct {
	Phone   string `validate:"required,phone"`
	Code    string `validate:"required,len=6,numeric"`
	Purpose entity.OTPPurpose
}

type VerifyOTPOutput struct {
	AccountID int64
}

// VerifyOTP consumes a pending code. The attempt is charged durably before
// the comparison runs, so a crash or a concurrent submission can never grant
// a free guess.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if err := validPurpose(in.Purpose); err != nil {
		return nil, err
	}

	account, err := s.repoDB.GetAccountByPhone(ctx, in.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		// Same rejection as a wrong code so the endpoint does not reveal
		// which phone numbers exist.
		slog.WarnContext(ctx, "otp verify for unknown phone", "phone", in.Phone)
		return nil, errInvalidCode()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by phone", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	rec, err := s.repoDB.GetPendingOTP(ctx, account.ID, in.Purpose, now)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errCodeGone()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get pending otp", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if rec.Attempts >= s.maxAttempts() {
		s.exhaust(ctx, rec, rec.Attempts)
		return nil, errAttemptsExceeded()
	}

	attempts, err := s.repoDB.IncrementOTPAttempts(ctx, rec.ID, s.maxAttempts())
	if errors.Is(err, goerror.ErrNotFound) {
		// Another submission consumed, exhausted, or spent the budget first.
		return nil, errCodeGone()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo increment otp attempts", "otp_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.codeHash.Verify(rec.CodeHash, in.Code) {
		if attempts >= s.maxAttempts() {
			s.exhaust(ctx, rec, attempts)
			return nil, errAttemptsExceeded()
		}

		remaining := s.maxAttempts() - attempts
		return nil, goerror.NewBusiness(
			fmt.Sprintf("verification code is invalid, %d attempt(s) remaining", remaining),
			goerror.CodeUnauthorized)
	}

	ok, err := s.repoDB.MarkOTPVerified(ctx, rec.ID, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark otp verified", "otp_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		// Lost the single-use race.
		return nil, errCodeGone()
	}

	if err := s.repoMessaging.PublishOTPVerified(ctx, OTPVerifiedEvent{
		OTPID:      rec.ID,
		AccountID:  account.ID,
		Purpose:    in.Purpose,
		VerifiedAt: now,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish otp verified event", "otp_id", rec.ID, "error", err)
	}

	return &VerifyOTPOutput{AccountID: account.ID}, nil
}

package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/siswanet/siswanet/internal/account/entity"
	"github.com/siswanet/siswanet/internal/pkg/goerror"
)

type ConfirmRecentOTPInput struct {
	Phone   string `validate:"required,phone"`
	Code    string `validate:"required,len=6,numeric"`
	Purpose entity.OTPPurpose
}

type ConfirmRecentOTPOutput struct {
	AccountID int64
}

// ConfirmRecentOTP re-checks a code that was already verified within the
// grace window, without consuming anything. It lets a follow-up action
// (typically the password reset form) prove it belongs to the same exchange.
//
// Every miss returns the same generic rejection.
func (s *Usecase) ConfirmRecentOTP(ctx context.Context, in ConfirmRecentOTPInput) (*ConfirmRecentOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "ConfirmRecentOTP")
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
		slog.WarnContext(ctx, "recent otp confirm for unknown phone", "phone", in.Phone)
		return nil, errInvalidCode()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by phone", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	window := s.cfg.GetMinute("modules.account.otp_reset_window_minutes")

	rec, err := s.repoDB.GetRecentVerifiedOTP(ctx, account.ID, in.Purpose, now.Add(-window), now)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, errInvalidCode()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get recent verified otp", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.codeHash.Verify(rec.CodeHash, in.Code) {
		return nil, errInvalidCode()
	}

	return &ConfirmRecentOTPOutput{AccountID: account.ID}, nil
}

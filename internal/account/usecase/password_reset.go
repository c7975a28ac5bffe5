package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siswanet/siswanet/internal/account/entity"
	"github.com/siswanet/siswanet/internal/pkg/goerror"
	"github.com/siswanet/siswanet/internal/pkg/idempotency"
)

type ResetPasswordInput struct {
	Phone       string `validate:"required,phone"`
	Code        string `validate:"required,len=6,numeric"`
	NewPassword string `validate:"required,password"`
}

// ResetPassword replaces the account credential after re-confirming the
// recently verified password-reset code. The write is wrapped in a Redis
// idempotency key so a double-submitted reset form applies once.
func (s *Usecase) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	confirmed, err := s.ConfirmRecentOTP(ctx, ConfirmRecentOTPInput{
		Phone:   in.Phone,
		Code:    in.Code,
		Purpose: entity.OTPPurposePasswordReset,
	})
	if err != nil {
		return err
	}

	digest, err := s.codeHash.Hash(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return goerror.NewServer(err)
	}

	key := fmt.Sprintf("password_reset:%d:%s", confirmed.AccountID, digest)
	err = s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		hashed, err := s.bcrypt.Hash(in.NewPassword)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash new password", "error", err)
			return goerror.NewServer(err)
		}

		if err := s.repoDB.UpdateAccountPassword(ctx, confirmed.AccountID, string(hashed)); err != nil {
			slog.ErrorContext(ctx, "failed to repo update account password",
				"account_id", confirmed.AccountID, "error", err)
			return goerror.NewServer(err)
		}

		return nil
	})

	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		// The first submission already applied this exact reset.
		return nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		return goerror.NewBusiness("a password reset is already being processed", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrAlreadyFailed):
		return goerror.NewBusiness("previous reset attempt failed, please request a new code", goerror.CodeConflict)
	case err != nil:
		return err
	}

	return nil
}

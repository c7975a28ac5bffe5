package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/siswanet/siswanet/internal/account/entity"
	"github.com/siswanet/siswanet/internal/pkg/goerror"
	"github.com/siswanet/siswanet/internal/pkg/sms"
)

type RequestOTPInput struct {
	Phone   string `validate:"required,phone"`
	Purpose entity.OTPPurpose
}

type RequestOTPOutput struct {
	OTPID int64
}

// RequestOTP issues a fresh one-time code for the account behind phone and
// dispatches it over SMS. Any previously pending code for the same purpose is
// superseded; a failed dispatch rolls the new record back entirely.
func (s *Usecase) RequestOTP(ctx context.Context, in RequestOTPInput) (*RequestOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestOTP")
	defer span.End()

	in.Phone = strings.TrimSpace(in.Phone)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}
	if err := validPurpose(in.Purpose); err != nil {
		return nil, err
	}

	account, err := s.repoDB.GetAccountByPhone(ctx, in.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp requested for unknown phone", "phone", in.Phone)
		return nil, goerror.NewBusiness("no account found with this phone number", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by phone", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	if account.Status != entity.AccountStatusActive {
		slog.WarnContext(ctx, "otp requested for inactive account",
			"account_id", account.ID, "status", account.Status.String())
		return nil, goerror.NewBusiness("account is deactivated, please contact your school admin", goerror.CodeForbidden)
	}

	now := s.clock.Now()

	last, err := s.repoDB.GetLatestOTP(ctx, account.ID, in.Purpose)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get latest otp", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if last != nil {
		cooldown := s.cfg.GetSecond("modules.account.otp_resend_cooldown_seconds")
		if elapsed := now.Sub(last.CreatedAt); elapsed < cooldown {
			remaining := int64(math.Ceil((cooldown - elapsed).Seconds()))
			return nil, goerror.NewBusiness(
				fmt.Sprintf("please wait %d second(s) before requesting a new code", remaining),
				goerror.CodeTooManyRequest)
		}
	}

	code, err := s.codes.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	digest, err := s.codeHash.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.SupersedePendingOTPs(ctx, account.ID, in.Purpose); err != nil {
		slog.ErrorContext(ctx, "failed to supersede pending otps", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.cfg.GetMinute("modules.account.otp_ttl_minutes")
	rec := entity.OTPRecord{
		ID:        s.uid.Generate(),
		AccountID: account.ID,
		Purpose:   in.Purpose,
		CodeHash:  string(digest),
		Status:    entity.OTPStatusPending,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.repoDB.CreateOTP(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to repo create otp", "account_id", account.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.cfg.GetBool("modules.account.debug_log_codes") {
		slog.InfoContext(ctx, "issued otp code (debug)", "otp_id", rec.ID, "otp_code", code)
	}

	body := fmt.Sprintf("Your Siswanet verification code is %s. It expires in %d minutes. Do not share it with anyone.",
		code, int(ttl.Minutes()))
	if err := s.sms.Send(ctx, sms.Message{To: account.Phone, Body: body}); err != nil {
		slog.ErrorContext(ctx, "failed to dispatch otp sms", "account_id", account.ID, "error", err)

		// The code the user would receive no longer exists, so the record
		// must not survive either.
		if derr := s.repoDB.DeleteOTP(ctx, rec.ID); derr != nil {
			slog.ErrorContext(ctx, "failed to roll back otp record", "otp_id", rec.ID, "error", derr)
		}

		return nil, goerror.NewBusiness("failed to send verification code, please try again", goerror.CodeInternal)
	}

	if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
		OTPID:     rec.ID,
		AccountID: account.ID,
		Purpose:   in.Purpose,
		IssuedAt:  now,
		ExpiresAt: rec.ExpiresAt,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish otp issued event", "otp_id", rec.ID, "error", err)
	}

	return &RequestOTPOutput{OTPID: rec.ID}, nil
}

package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/siswanet/siswanet/internal/account/entity"
	"github.com/siswanet/siswanet/internal/pkg/clock"
	"github.com/siswanet/siswanet/internal/pkg/config"
	"github.com/siswanet/siswanet/internal/pkg/goerror"
	"github.com/siswanet/siswanet/internal/pkg/goroutine"
	"github.com/siswanet/siswanet/internal/pkg/hash"
	"github.com/siswanet/siswanet/internal/pkg/idempotency"
	"github.com/siswanet/siswanet/internal/pkg/instrument"
	"github.com/siswanet/siswanet/internal/pkg/otpcode"
	"github.com/siswanet/siswanet/internal/pkg/sms"
	"github.com/siswanet/siswanet/internal/pkg/uid"
	"github.com/siswanet/siswanet/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type OTPIssuedEvent struct {
	OTPID     int64
	AccountID int64
	Purpose   entity.OTPPurpose
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type OTPVerifiedEvent struct {
	OTPID      int64
	AccountID  int64
	Purpose    entity.OTPPurpose
	VerifiedAt time.Time
}

type OTPExhaustedEvent struct {
	OTPID     int64
	AccountID int64
	Purpose   entity.OTPPurpose
	Attempts  int32
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
	PublishOTPVerified(ctx context.Context, msg OTPVerifiedEvent) error
	PublishOTPExhausted(ctx context.Context, msg OTPExhaustedEvent) error
}

type repoDB interface {
	GetAccountByPhone(ctx context.Context, phone string) (*entity.Account, error)
	GetLatestOTP(ctx context.Context, accountID int64, purpose entity.OTPPurpose) (*entity.OTPRecord, error)
	GetPendingOTP(ctx context.Context, accountID int64, purpose entity.OTPPurpose, now time.Time) (*entity.OTPRecord, error)
	GetRecentVerifiedOTP(ctx context.Context, accountID int64, purpose entity.OTPPurpose, verifiedAfter, now time.Time) (*entity.OTPRecord, error)

	CreateOTP(ctx context.Context, rec entity.OTPRecord) error
	SupersedePendingOTPs(ctx context.Context, accountID int64, purpose entity.OTPPurpose) error
	DeleteOTP(ctx context.Context, id int64) error

	IncrementOTPAttempts(ctx context.Context, id int64, maxAttempts int32) (int32, error)
	MarkOTPVerified(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkOTPExhausted(ctx context.Context, id int64) error
	DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error)

	UpdateAccountPassword(ctx context.Context, accountID int64, hashed string) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	codeHash      hash.Hash
	bcrypt        hash.Hash
	codes         otpcode.Generator
	sms           sms.SMS
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	CodeHash      hash.Hash
	Bcrypt        hash.Hash
	Codes         otpcode.Generator
	SMS           sms.SMS
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		codeHash:      dep.CodeHash,
		bcrypt:        dep.Bcrypt,
		codes:         dep.Codes,
		sms:           dep.SMS,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

func (s *Usecase) maxAttempts() int32 {
	return s.cfg.GetInt32("modules.account.otp_max_attempts")
}

// errInvalidCode is the deliberately generic rejection used by the verify
// path so callers cannot distinguish a wrong code from a missing account.
func errInvalidCode() error {
	return goerror.NewBusiness("verification code is invalid", goerror.CodeUnauthorized)
}

func errCodeGone() error {
	return goerror.NewBusiness("verification code is expired or not found", goerror.CodeNotFound)
}

func errAttemptsExceeded() error {
	return goerror.NewBusiness("maximum attempts exceeded, please request a new code", goerror.CodeTooManyRequest)
}

func (s *Usecase) exhaust(ctx context.Context, rec *entity.OTPRecord, attempts int32) {
	if err := s.repoDB.MarkOTPExhausted(ctx, rec.ID); err != nil {
		slog.ErrorContext(ctx, "failed to mark otp exhausted", "otp_id", rec.ID, "error", err)
	}

	if err := s.repoMessaging.PublishOTPExhausted(ctx, OTPExhaustedEvent{
		OTPID:     rec.ID,
		AccountID: rec.AccountID,
		Purpose:   rec.Purpose,
		Attempts:  attempts,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish otp exhausted event", "otp_id", rec.ID, "error", err)
	}
}

func validPurpose(p entity.OTPPurpose) error {
	if !p.IsValid() {
		return goerror.NewInvalidInput(nil, "purpose",
			"purpose must be one of: "+strings.Join(entity.OTPPurposeNames(), ", "))
	}
	return nil
}

func notFoundOr(err error, notFound error) error {
	if errors.Is(err, goerror.ErrNotFound) {
		return notFound
	}
	return goerror.NewServer(err)
}

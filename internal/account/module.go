package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/siswanet/siswanet/internal/account/inbound"
	"github.com/siswanet/siswanet/internal/account/outbound/db"
	"github.com/siswanet/siswanet/internal/account/outbound/mq"
	"github.com/siswanet/siswanet/internal/account/usecase"
	"github.com/siswanet/siswanet/internal/pkg/clock"
	"github.com/siswanet/siswanet/internal/pkg/config"
	"github.com/siswanet/siswanet/internal/pkg/goroutine"
	"github.com/siswanet/siswanet/internal/pkg/hash"
	"github.com/siswanet/siswanet/internal/pkg/idempotency"
	"github.com/siswanet/siswanet/internal/pkg/instrument"
	"github.com/siswanet/siswanet/internal/pkg/messaging"
	"github.com/siswanet/siswanet/internal/pkg/otpcode"
	"github.com/siswanet/siswanet/internal/pkg/router"
	"github.com/siswanet/siswanet/internal/pkg/sms"
	"github.com/siswanet/siswanet/internal/pkg/uid"
	"github.com/siswanet/siswanet/internal/pkg/validator"
)

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	CodeHash    hash.Hash                  `validate:"required"`
	Bcrypt      hash.Hash                  `validate:"required"`
	Codes       otpcode.Generator          `validate:"required"`
	SMS         sms.SMS                    `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAccount := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAccount,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		CodeHash:      dep.CodeHash,
		Bcrypt:        dep.Bcrypt,
		Codes:         dep.Codes,
		SMS:           dep.SMS,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	startCleanupLoop(dep, uc)

	return nil
}

// startCleanupLoop periodically removes expired verification codes so the
// table does not accumulate dead rows. The loop stops when the application
// context is canceled.
func startCleanupLoop(dep Dependency, uc *usecase.Usecase) {
	interval := dep.Config.GetMinute("modules.account.otp_cleanup_interval_minutes")
	if interval <= 0 {
		slog.Warn("otp cleanup loop disabled, interval is not configured")
		return
	}

	dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := uc.CleanupExpired(ctx); err != nil {
					slog.ErrorContext(ctx, "otp cleanup run failed", "error", err)
				}
			}
		}
	})
}

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/siswanet/siswanet/internal/account/entity"
	"github.com/siswanet/siswanet/internal/pkg/goerror"
	"github.com/siswanet/siswanet/internal/pkg/instrument"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const schema = `
CREATE TABLE accounts (
	id         BIGINT PRIMARY KEY,
	phone      TEXT NOT NULL UNIQUE,
	email      TEXT NOT NULL DEFAULT '',
	full_name  TEXT NOT NULL DEFAULT '',
	role       SMALLINT NOT NULL DEFAULT 0,
	status     SMALLINT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE account_credentials (
	account_id BIGINT PRIMARY KEY REFERENCES accounts (id),
	password   TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE account_otps (
	id          BIGINT PRIMARY KEY,
	account_id  BIGINT NOT NULL REFERENCES accounts (id),
	purpose     SMALLINT NOT NULL,
	code_hash   TEXT NOT NULL,
	attempts    INT NOT NULL DEFAULT 0,
	status      SMALLINT NOT NULL,
	verified_at TIMESTAMPTZ,
	expires_at  TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX idx_account_otps_lookup ON account_otps (account_id, purpose, status, created_at DESC);

INSERT INTO accounts (id, phone, full_name, role, status)
VALUES (77, '+628111111111', 'Siti Rahma', 1, 1);
`

func setupDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("siswanet_test"),
		tcpostgres.WithUsername("siswanet"),
		tcpostgres.WithPassword("siswanet"),
		testcontainers.WithWaitStrategy(wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(nat.Port("5432/tcp")),
		).WithStartupTimeoutDefault(60*time.Second)),
	)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("schema: %v", err)
	}

	return NewDB(pool, instrument.NewNoop())
}

func pendingOTP(id int64, createdAt time.Time) entity.OTPRecord {
	return entity.OTPRecord{
		ID:        id,
		AccountID: 77,
		Purpose:   entity.OTPPurposePasswordReset,
		CodeHash:  "digest-of-code",
		Status:    entity.OTPStatusPending,
		ExpiresAt: createdAt.Add(10 * time.Minute),
		CreatedAt: createdAt,
	}
}

func TestDBOTPLifecycle(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	acc, err := s.GetAccountByPhone(ctx, "+628111111111")
	if err != nil {
		t.Fatalf("GetAccountByPhone() error = %v", err)
	}
	if acc.ID != 77 || acc.Status != entity.AccountStatusActive {
		t.Fatalf("account = %+v", acc)
	}

	if _, err := s.GetAccountByPhone(ctx, "+628000000000"); !errors.Is(err, goerror.ErrNotFound) {
		t.Errorf("GetAccountByPhone(unknown) error = %v, want ErrNotFound", err)
	}

	if err := s.CreateOTP(ctx, pendingOTP(1, now)); err != nil {
		t.Fatalf("CreateOTP() error = %v", err)
	}

	rec, err := s.GetPendingOTP(ctx, 77, entity.OTPPurposePasswordReset, now)
	if err != nil {
		t.Fatalf("GetPendingOTP() error = %v", err)
	}
	if rec.ID != 1 || rec.Attempts != 0 {
		t.Fatalf("pending record = %+v", rec)
	}

	// Attempts are charged atomically, only while pending, and never
	// past the budget.
	for want := int32(1); want <= 3; want++ {
		got, err := s.IncrementOTPAttempts(ctx, 1, 3)
		if err != nil {
			t.Fatalf("IncrementOTPAttempts() error = %v", err)
		}
		if got != want {
			t.Errorf("attempts = %d, want %d", got, want)
		}
	}
	if _, err := s.IncrementOTPAttempts(ctx, 1, 3); !errors.Is(err, goerror.ErrNotFound) {
		t.Errorf("IncrementOTPAttempts(spent budget) error = %v, want ErrNotFound", err)
	}
	rec, err = s.GetPendingOTP(ctx, 77, entity.OTPPurposePasswordReset, now)
	if err != nil {
		t.Fatalf("GetPendingOTP() after budget spent error = %v", err)
	}
	if rec.Attempts != 3 {
		t.Errorf("attempts after spent budget = %d, want 3", rec.Attempts)
	}

	ok, err := s.MarkOTPVerified(ctx, 1, now)
	if err != nil {
		t.Fatalf("MarkOTPVerified() error = %v", err)
	}
	if !ok {
		t.Fatal("MarkOTPVerified() = false, want true")
	}

	// Terminal: a second consume and further increments must both miss.
	ok, err = s.MarkOTPVerified(ctx, 1, now)
	if err != nil {
		t.Fatalf("second MarkOTPVerified() error = %v", err)
	}
	if ok {
		t.Error("second MarkOTPVerified() = true, want false")
	}
	if _, err := s.IncrementOTPAttempts(ctx, 1, 3); !errors.Is(err, goerror.ErrNotFound) {
		t.Errorf("IncrementOTPAttempts(verified) error = %v, want ErrNotFound", err)
	}

	got, err := s.GetRecentVerifiedOTP(ctx, 77, entity.OTPPurposePasswordReset, now.Add(-5*time.Minute), now)
	if err != nil {
		t.Fatalf("GetRecentVerifiedOTP() error = %v", err)
	}
	if got.ID != 1 || got.VerifiedAt == nil {
		t.Fatalf("recent verified = %+v", got)
	}
}

func TestDBSupersedeAndCleanup(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	if err := s.CreateOTP(ctx, pendingOTP(1, now.Add(-2*time.Minute))); err != nil {
		t.Fatalf("CreateOTP(1) error = %v", err)
	}
	if err := s.SupersedePendingOTPs(ctx, 77, entity.OTPPurposePasswordReset); err != nil {
		t.Fatalf("SupersedePendingOTPs() error = %v", err)
	}
	if err := s.CreateOTP(ctx, pendingOTP(2, now)); err != nil {
		t.Fatalf("CreateOTP(2) error = %v", err)
	}

	rec, err := s.GetPendingOTP(ctx, 77, entity.OTPPurposePasswordReset, now)
	if err != nil {
		t.Fatalf("GetPendingOTP() error = %v", err)
	}
	if rec.ID != 2 {
		t.Errorf("pending id = %d, want 2 (1 superseded)", rec.ID)
	}

	latest, err := s.GetLatestOTP(ctx, 77, entity.OTPPurposePasswordReset)
	if err != nil {
		t.Fatalf("GetLatestOTP() error = %v", err)
	}
	if latest.ID != 2 {
		t.Errorf("latest id = %d, want 2", latest.ID)
	}

	// Expired rows go regardless of status.
	if err := s.CreateOTP(ctx, entity.OTPRecord{
		ID: 3, AccountID: 77, Purpose: entity.OTPPurposeLogin, CodeHash: "x",
		Status: entity.OTPStatusPending, ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-20 * time.Minute),
	}); err != nil {
		t.Fatalf("CreateOTP(3) error = %v", err)
	}

	deleted, err := s.DeleteExpiredOTPs(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredOTPs() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	if err := s.DeleteOTP(ctx, 2); err != nil {
		t.Fatalf("DeleteOTP() error = %v", err)
	}
	if _, err := s.GetPendingOTP(ctx, 77, entity.OTPPurposePasswordReset, now); !errors.Is(err, goerror.ErrNotFound) {
		t.Errorf("GetPendingOTP(after delete) error = %v, want ErrNotFound", err)
	}
}

func TestDBUpdateAccountPassword(t *testing.T) {
	s := setupDB(t)
	ctx := context.Background()

	if err := s.UpdateAccountPassword(ctx, 77, "hash-one"); err != nil {
		t.Fatalf("UpdateAccountPassword() error = %v", err)
	}

	// Upsert path.
	if err := s.UpdateAccountPassword(ctx, 77, "hash-two"); err != nil {
		t.Fatalf("second UpdateAccountPassword() error = %v", err)
	}

	var stored string
	if err := s.conn.QueryRow(ctx, `SELECT password FROM account_credentials WHERE account_id = 77`).Scan(&stored); err != nil {
		t.Fatalf("select credential: %v", err)
	}
	if stored != "hash-two" {
		t.Errorf("stored = %q, want hash-two", stored)
	}
}

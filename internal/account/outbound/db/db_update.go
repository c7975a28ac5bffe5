package db

import (
	"context"
	"time"

	"github.com/siswanet/siswanet/internal/account/entity"
)

const supersedePendingOTPs = `
UPDATE account_otps
SET status = $1
WHERE account_id = $2 AND purpose = $3 AND status = $4`

func (s *DB) SupersedePendingOTPs(ctx context.Context, accountID int64, purpose entity.OTPPurpose) (err error) {
	ctx, span := s.startSpan(ctx, "SupersedePendingOTPs")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, supersedePendingOTPs,
		entity.OTPStatusSuperseded, accountID, purpose, entity.OTPStatusPending)

	err = s.mapError(err)
	return err
}

const incrementOTPAttempts = `
UPDATE account_otps
SET attempts = attempts + 1
WHERE id = $1 AND status = $2 AND attempts < $3
RETURNING attempts`

// IncrementOTPAttempts charges one attempt on a still-pending record with
// budget left and returns the new count. ErrNotFound means the record was
// consumed, exhausted, superseded, or its budget spent concurrently.
func (s *DB) IncrementOTPAttempts(ctx context.Context, id int64, maxAttempts int32) (attempts int32, err error) {
	ctx, span := s.startSpan(ctx, "IncrementOTPAttempts")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, incrementOTPAttempts, id, entity.OTPStatusPending, maxAttempts).Scan(&attempts)
	if err != nil {
		return 0, s.mapError(err)
	}

	return attempts, nil
}

const markOTPVerified = `
UPDATE account_otps
SET status = $1, verified_at = $2
WHERE id = $3 AND status = $4`

// MarkOTPVerified flips a pending record to verified. The false return means
// another submission won the single-use race.
func (s *DB) MarkOTPVerified(ctx context.Context, id int64, at time.Time) (ok bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkOTPVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, markOTPVerified,
		entity.OTPStatusVerified, at, id, entity.OTPStatusPending)
	if err != nil {
		err = s.mapError(err)
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

const markOTPExhausted = `
UPDATE account_otps
SET status = $1
WHERE id = $2 AND status = $3`

func (s *DB) MarkOTPExhausted(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkOTPExhausted")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, markOTPExhausted,
		entity.OTPStatusExhausted, id, entity.OTPStatusPending)

	err = s.mapError(err)
	return err
}

const updateAccountPassword = `
INSERT INTO account_credentials (account_id, password, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (account_id) DO UPDATE SET password = EXCLUDED.password, updated_at = now()`

func (s *DB) UpdateAccountPassword(ctx context.Context, accountID int64, hashed string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountPassword")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, updateAccountPassword, accountID, hashed)

	err = s.mapError(err)
	return err
}

package db

import (
	"context"
	"time"

	"github.com/siswanet/siswanet/internal/account/entity"
)

const getAccountByPhone = `
SELECT id, phone, email, full_name, role, status, created_at
FROM accounts
WHERE phone = $1`

func (s *DB) GetAccountByPhone(ctx context.Context, phone string) (acc *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByPhone")
	defer func() { s.endSpan(span, err) }()

	var out entity.Account
	err = s.conn.QueryRow(ctx, getAccountByPhone, phone).Scan(
		&out.ID, &out.Phone, &out.Email, &out.FullName, &out.Role, &out.Status, &out.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &out, nil
}

const otpColumns = `id, account_id, purpose, code_hash, attempts, status, verified_at, expires_at, created_at`

func (s *DB) scanOTP(row interface{ Scan(dest ...any) error }) (*entity.OTPRecord, error) {
	var out entity.OTPRecord
	err := row.Scan(&out.ID, &out.AccountID, &out.Purpose, &out.CodeHash, &out.Attempts,
		&out.Status, &out.VerifiedAt, &out.ExpiresAt, &out.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &out, nil
}

const getLatestOTP = `
SELECT ` + otpColumns + `
FROM account_otps
WHERE account_id = $1 AND purpose = $2
ORDER BY created_at DESC
LIMIT 1`

// GetLatestOTP returns the most recent issuance for the pair regardless of
// status; the resend cooldown is measured against it.
func (s *DB) GetLatestOTP(ctx context.Context, accountID int64, purpose entity.OTPPurpose) (rec *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestOTP")
	defer func() { s.endSpan(span, err) }()

	rec, err = s.scanOTP(s.conn.QueryRow(ctx, getLatestOTP, accountID, purpose))
	return rec, err
}

const getPendingOTP = `
SELECT ` + otpColumns + `
FROM account_otps
WHERE account_id = $1 AND purpose = $2 AND status = $3 AND expires_at >= $4
ORDER BY created_at DESC
LIMIT 1`

func (s *DB) GetPendingOTP(ctx context.Context, accountID int64, purpose entity.OTPPurpose, now time.Time) (rec *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetPendingOTP")
	defer func() { s.endSpan(span, err) }()

	rec, err = s.scanOTP(s.conn.QueryRow(ctx, getPendingOTP,
		accountID, purpose, entity.OTPStatusPending, now))
	return rec, err
}

const getRecentVerifiedOTP = `
SELECT ` + otpColumns + `
FROM account_otps
WHERE account_id = $1 AND purpose = $2 AND status = $3
  AND verified_at >= $4 AND expires_at >= $5
ORDER BY verified_at DESC
LIMIT 1`

func (s *DB) GetRecentVerifiedOTP(ctx context.Context, accountID int64, purpose entity.OTPPurpose, verifiedAfter, now time.Time) (rec *entity.OTPRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetRecentVerifiedOTP")
	defer func() { s.endSpan(span, err) }()

	rec, err = s.scanOTP(s.conn.QueryRow(ctx, getRecentVerifiedOTP,
		accountID, purpose, entity.OTPStatusVerified, verifiedAfter, now))
	return rec, err
}

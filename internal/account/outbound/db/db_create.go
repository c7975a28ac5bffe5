package db

import (
	"context"

	"github.com/siswanet/siswanet/internal/account/entity"
)

const createOTP = `
INSERT INTO account_otps (id, account_id, purpose, code_hash, attempts, status, verified_at, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (s *DB) CreateOTP(ctx context.Context, rec entity.OTPRecord) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOTP")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createOTP,
		rec.ID, rec.AccountID, rec.Purpose, rec.CodeHash, rec.Attempts,
		rec.Status, rec.VerifiedAt, rec.ExpiresAt, rec.CreatedAt)

	err = s.mapError(err)
	return err
}

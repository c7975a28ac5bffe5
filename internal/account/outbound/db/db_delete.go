package db

import (
	"context"
	"time"
)

const deleteOTP = `DELETE FROM account_otps WHERE id = $1`

func (s *DB) DeleteOTP(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteOTP")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, deleteOTP, id)

	err = s.mapError(err)
	return err
}

const deleteExpiredOTPs = `DELETE FROM account_otps WHERE expires_at < $1`

func (s *DB) DeleteExpiredOTPs(ctx context.Context, now time.Time) (deleted int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpiredOTPs")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, deleteExpiredOTPs, now)
	if err != nil {
		err = s.mapError(err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/siswanet/siswanet/internal/pkg/goerror"
)

// CleanupExpired removes every OTP row whose lifetime has passed, regardless
// of status, and returns the number of rows deleted. The account module runs
// it on a config-driven interval.
func (s *Usecase) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "CleanupExpired")
	defer span.End()

	deleted, err := s.repoDB.DeleteExpiredOTPs(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete expired otps", "error", err)
		return 0, goerror.NewServer(err)
	}

	if deleted > 0 {
		slog.InfoContext(ctx, "expired otp records removed", "count", deleted)
	}

	return deleted, nil
}

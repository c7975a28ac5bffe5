package sms

import (
	"context"
	"log/slog"
)

// Logger is an SMS implementation that only logs deliveries. It is intended
// for local development where no provider credentials exist; the message body
// is masked by the logging pipeline unless code logging is explicitly enabled.
type Logger struct{}

// NewLogger constructs a log-only SMS sender.
func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Close() error { return nil }

func (l *Logger) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "sms delivery (log only)", "to", msg.To, "body", msg.Body)
	return nil
}

// Package sms defines the contracts for sending short text messages.
//
// Use cases work with the SMS interface and Message payload; the concrete
// delivery mechanism (HTTP gateway, log-only sender, etc) is implemented
// elsewhere in this package.
package sms

import (
	"context"
	"io"
)

// Message represents an SMS payload.
type Message struct {
	// To is the recipient phone number in E.164 format.
	To string
	// Body is the message text.
	Body string
}

// SMS abstracts an SMS provider.
type SMS interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}

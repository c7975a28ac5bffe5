package mq

import (
	"context"
	"encoding/json"

	"github.com/siswanet/siswanet/internal/account/usecase"
	"github.com/siswanet/siswanet/internal/pkg/instrument"
	"github.com/siswanet/siswanet/internal/pkg/messaging"
	"github.com/siswanet/siswanet/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishOTPIssued(ctx context.Context, msg usecase.OTPIssuedEvent) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, "PublishOTPIssued")
	defer span.End()

	body, err := json.Marshal(event.OTPIssuedMessage{
		OTPID:     msg.OTPID,
		AccountID: msg.AccountID,
		Purpose:   msg.Purpose.String(),
		IssuedAt:  msg.IssuedAt.Unix(),
		ExpiresAt: msg.ExpiresAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return m.publish(ctx, event.OTPIssuedDestination, body)
}

func (m *Messaging) PublishOTPVerified(ctx context.Context, msg usecase.OTPVerifiedEvent) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, "PublishOTPVerified")
	defer span.End()

	body, err := json.Marshal(event.OTPVerifiedMessage{
		OTPID:      msg.OTPID,
		AccountID:  msg.AccountID,
		Purpose:    msg.Purpose.String(),
		VerifiedAt: msg.VerifiedAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return m.publish(ctx, event.OTPVerifiedDestination, body)
}

func (m *Messaging) PublishOTPExhausted(ctx context.Context, msg usecase.OTPExhaustedEvent) error {
	ctx, span := m.ins.Tracer("account.outbound.mq").Start(ctx, "PublishOTPExhausted")
	defer span.End()

	body, err := json.Marshal(event.OTPExhaustedMessage{
		OTPID:     msg.OTPID,
		AccountID: msg.AccountID,
		Purpose:   msg.Purpose.String(),
		Attempts:  msg.Attempts,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return m.publish(ctx, event.OTPExhaustedDestination, body)
}

func (m *Messaging) publish(ctx context.Context, destination string, body []byte) error {
	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, destination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

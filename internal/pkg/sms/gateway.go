package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrGatewayBaseURLRequired is returned when the gateway base URL is missing.
	ErrGatewayBaseURLRequired = errors.New("sms: gateway base url is required")
	// ErrGatewayNoRecipient is returned when Message.To is empty.
	ErrGatewayNoRecipient = errors.New("sms: no recipient provided")
)

const defaultGatewayTimeout = 10 * time.Second

// GatewayConfig configures the HTTP gateway implementation.
type GatewayConfig struct {
	// BaseURL is the provider endpoint that accepts form-encoded sends.
	BaseURL string
	// APIKey authenticates requests to the provider.
	APIKey string
	// SenderID is the alphanumeric sender shown to recipients.
	SenderID string
	// Timeout bounds each delivery request.
	Timeout time.Duration
}

// Gateway is an SMS implementation backed by a form-POST HTTP provider.
type Gateway struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	senderID string
}

// NewGateway constructs an HTTP gateway SMS sender.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, ErrGatewayBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}

	return &Gateway{
		client:   &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		senderID: cfg.SenderID,
	}, nil
}

// Close releases idle connections held by the HTTP client.
func (g *Gateway) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

// Send delivers a message through the provider.
func (g *Gateway) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return ErrGatewayNoRecipient
	}

	form := url.Values{}
	form.Set("api_key", g.apiKey)
	form.Set("sender_id", g.senderID)
	form.Set("to", msg.To)
	form.Set("message", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/send",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: gateway request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sms: gateway responded with status %d", resp.StatusCode)
	}

	return nil
}

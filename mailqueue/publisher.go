// Package mailqueue publishes outbound email jobs onto a Redis stream.
// A separate mailer process consumes the stream and does the actual
// delivery; the account service only enqueues.
package mailqueue

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

// DefaultStream is the stream the mailer consumes.
const DefaultStream = "mail:outbound"

// DefaultMaxLen caps the stream; older entries get trimmed approximately.
const DefaultMaxLen = 10_000

// Message kinds understood by the mailer.
const (
	KindPasswordReset = "password_reset"
	KindGeneric       = "generic"
)

// Message is a single outbound email job.
type Message struct {
	To        string
	Subject   string
	Body      string
	Kind      string
	AccountID string
}

// Publisher writes messages to the outbound stream.
type Publisher struct {
	client   redis.UniversalClient
	stream   string
	maxLen   int64
	resetURL string
}

// Option customizes the publisher.
type Option func(*Publisher)

// WithStream overrides the stream name.
func WithStream(stream string) Option {
	return func(p *Publisher) {
		if stream != "" {
			p.stream = stream
		}
	}
}

// WithMaxLen overrides the approximate stream cap.
func WithMaxLen(maxLen int64) Option {
	return func(p *Publisher) {
		if maxLen > 0 {
			p.maxLen = maxLen
		}
	}
}

// WithResetURL sets the base URL embedded in password reset emails,
// e.g. "https://app.example.com/reset-password".
func WithResetURL(base string) Option {
	return func(p *Publisher) {
		p.resetURL = base
	}
}

// NewPublisher creates a publisher on the given Redis client.
func NewPublisher(client redis.UniversalClient, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		stream: DefaultStream,
		maxLen: DefaultMaxLen,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Publish enqueues a message and returns the stream entry ID.
func (p *Publisher) Publish(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", goerrors.New("mail message requires a recipient", goerrors.CategoryBadInput)
	}

	kind := msg.Kind
	if kind == "" {
		kind = KindGeneric
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"to":         msg.To,
			"subject":    msg.Subject,
			"body":       msg.Body,
			"kind":       kind,
			"account_id": msg.AccountID,
			"queued_at":  time.Now().UTC().Format(time.RFC3339),
		},
	}).Result()

	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, "failed to enqueue mail message").
			WithMetadata(map[string]any{"stream": p.stream, "kind": kind})
	}

	return id, nil
}

// SendPasswordReset enqueues a reset email carrying the token link.
func (p *Publisher) SendPasswordReset(ctx context.Context, email, accountID, token string) error {
	body := fmt.Sprintf("Use this token to reset your password: %s", token)
	if p.resetURL != "" {
		body = fmt.Sprintf("Reset your password: %s/%s?uid=%s", p.resetURL, token, accountID)
	}

	_, err := p.Publish(ctx, Message{
		To:        email,
		Subject:   "Password reset request",
		Body:      body,
		Kind:      KindPasswordReset,
		AccountID: accountID,
	})

	return err
}

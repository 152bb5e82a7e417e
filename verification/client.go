// Package verification talks to the external email verification
// provider. The provider owns code generation, delivery, and checking;
// this client only relays send and verify requests over HTTP.
package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultRequestTimeout bounds a single provider round trip.
const DefaultRequestTimeout = time.Second * 15

const (
	sendPath   = "/verification/send"
	verifyPath = "/verification/verify"
)

type sendPayload struct {
	Email string `json:"email"`
}

type verifyPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type providerResponse struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
	Error     string `json:"error"`
}

// Client is an HTTP client for the verification provider.
type Client struct {
	baseURL string
	http    *http.Client
	apiKey  string
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAPIKey sets a bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout bounds provider round trips. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// NewClient creates a provider client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: DefaultRequestTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send asks the provider to deliver a verification code to the email.
func (c *Client) Send(ctx context.Context, email string) error {
	res, err := c.post(ctx, sendPath, sendPayload{Email: email})
	if err != nil {
		return err
	}

	if !res.Succeeded {
		return goerrors.New(providerMessage(res, "provider rejected send request"), goerrors.CategoryOperation).
			WithMetadata(map[string]any{"email": email})
	}

	return nil
}

// Check submits a code for verification. A provider rejection is not an
// error: it returns (false, nil) so callers can distinguish a bad code
// from an unreachable provider.
func (c *Client) Check(ctx context.Context, email, code string) (bool, error) {
	res, err := c.post(ctx, verifyPath, verifyPayload{Email: email, Code: code})
	if err != nil {
		return false, err
	}

	return res.Succeeded, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*providerResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode provider payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build provider request")
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "verification provider unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read provider response")
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, goerrors.New(
			fmt.Sprintf("verification provider returned status %d", resp.StatusCode),
			goerrors.CategoryOperation,
		)
	}

	out := &providerResponse{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to decode provider response")
	}

	// non-5xx with a decodable body is the provider speaking; let the
	// succeeded flag drive the outcome
	if resp.StatusCode >= http.StatusBadRequest {
		out.Succeeded = false
	}

	return out, nil
}

func providerMessage(res *providerResponse, fallback string) string {
	if res.Error != "" {
		return res.Error
	}
	if res.Message != "" {
		return res.Message
	}
	return fallback
}

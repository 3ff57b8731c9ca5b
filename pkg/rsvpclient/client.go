// Package rsvpclient drives the RSVP API the way the browser pages do: a submission form with
// its submit state machine, and the admin view that unlocks, fetches, aggregates and sorts.
package rsvpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/akeren/event-rsvp/pkg/constants"
)

const (
	submissionsPath = "/v1/submissions"
	sessionPath     = "/v1/admin/session"

	// GenericSubmitError is shown when a failed write carries no message of its own.
	GenericSubmitError = "Error submitting form"
	// GenericFetchError is shown when a failed read carries no message of its own.
	GenericFetchError = "Error fetching submissions"
)

type Config struct {
	BaseURL string
	// Timeout bounds every request. Zero means constants.DefaultClientTimeout.
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("rsvpclient: base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultClientTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{baseURL: base, timeout: cfg.Timeout, http: cfg.HTTPClient}, nil
}

// APIError is a non-2xx response. Message is the server's message or a generic fallback.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []rsvp.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rsvpclient: %d: %s", e.StatusCode, e.Message)
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Session is the admin session object returned by the unlock endpoint.
type Session struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// CreateSubmission posts the draft. The request never carries a timestamp.
func (c *Client) CreateSubmission(ctx context.Context, draft rsvp.Draft) (*rsvp.Submission, error) {
	var created rsvp.Submission
	if err := c.do(ctx, http.MethodPost, submissionsPath, "", draft, &created, GenericSubmitError); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListSubmissions(ctx context.Context, token string) ([]rsvp.Submission, error) {
	var rows []rsvp.Submission
	if err := c.do(ctx, http.MethodGet, submissionsPath, token, nil, &rows, GenericFetchError); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Login(ctx context.Context, password string) (*Session, error) {
	var s Session
	body := map[string]string{"password": password}
	if err := c.do(ctx, http.MethodPost, sessionPath, "", body, &s, "Incorrect password. Please try again."); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, sessionPath, token, nil, nil, "Logout failed")
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any, fallback string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("rsvpclient: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("rsvpclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rsvpclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}
		if decodeErr == nil {
			if msg := strings.TrimSpace(env.Message); msg != "" {
				apiErr.Message = msg
			}
			// Field errors are optional; any other data shape is ignored.
			_ = json.Unmarshal(env.Data, &apiErr.Fields)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("rsvpclient: decode response: %w", decodeErr)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("rsvpclient: decode data: %w", err)
	}
	return nil
}

// Package apiclient talks to the dashboard REST backend over fasthttp.
//
// Every request carries Content-Type: application/json and an X-Request-ID.
// The Authorization header is taken from the configured HeaderProvider at the
// moment the request is dispatched, never from shared client defaults.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/dashboard/domain"
	appLogger "github.com/fastygo/dashboard/pkg/logger"
)

// DefaultBaseURL is used when no base address is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// DefaultLoginPath is the dj-rest-auth login endpoint.
const DefaultLoginPath = "/api/auth/login/"

// HeaderProvider supplies the Authorization header for an outbound request.
type HeaderProvider interface {
	Header() (string, bool)
}

// Config controls the client.
type Config struct {
	BaseURL   string
	LoginPath string
	Timeout   time.Duration
	UserAgent string
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200]
	}
	if body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, body)
}

// Client calls the dashboard backend.
type Client struct {
	http      *fasthttp.Client
	baseURL   string
	loginPath string
	timeout   time.Duration
	auth      HeaderProvider
	logger    *zap.Logger
}

// New builds a client. auth may be nil for anonymous use.
func New(cfg Config, auth HeaderProvider, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "dashboard-client"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http: &fasthttp.Client{
			Name:                cfg.UserAgent,
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: time.Minute,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		loginPath: cfg.LoginPath,
		timeout:   cfg.Timeout,
		auth:      auth,
		logger:    logger,
	}
}

// WithDialer replaces the dialer, e.g. with an in-memory listener in tests.
func (c *Client) WithDialer(dial fasthttp.DialFunc) *Client {
	c.http.Dial = dial
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login posts credentials to the authentication endpoint and returns the
// issued token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var payload struct {
		Key   string `json:"key"`
		Token string `json:"token"`
	}

	status, body, err := c.send(ctx, http.MethodPost, c.loginPath, creds)
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeUnavailable, "endpoint unavailable", err)
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "", domain.WrapError(domain.ErrCodeUnauthorized, "invalid credentials", &StatusError{StatusCode: status, Body: string(body)})
	case status < 200 || status > 299:
		return "", domain.WrapError(domain.ErrCodeUnavailable, "endpoint unavailable", &StatusError{StatusCode: status, Body: string(body)})
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return "", domain.WrapError(domain.ErrCodeInvalid, "malformed response", err)
	}

	token := payload.Key
	if token == "" {
		token = payload.Token
	}
	if token == "" {
		return "", domain.WrapError(domain.ErrCodeInvalid, "malformed response", errors.New("response carries no token"))
	}
	return token, nil
}

// Classes lists the classes visible to the current user.
func (c *Client) Classes(ctx context.Context) ([]domain.BiologyClass, error) {
	var classes []domain.BiologyClass
	if err := c.Get(ctx, "/api/classes/", &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// ClassDetails loads the class-detail view model.
func (c *Client) ClassDetails(ctx context.Context, id string) (*domain.ClassDetails, error) {
	if id == "" {
		return nil, domain.ErrInvalidPayload
	}
	var details domain.ClassDetails
	if err := c.Get(ctx, "/api/classes/"+url.PathEscape(id)+"/details/", &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// DashboardStats loads the home view counters.
func (c *Client) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	stats := domain.DashboardStats{}
	if err := c.Get(ctx, "/api/dashboard-stats/", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Ping reports whether the backend answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	_, _, err := c.send(ctx, http.MethodHead, "/", nil)
	return err
}

// Get fetches path and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	status, body, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return domain.WrapError(domain.ErrCodeUnavailable, "endpoint unavailable", err)
	}
	if err := mapStatus(status, body); err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "malformed response", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload interface{}) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	// Request and response are not pooled: on cancellation the in-flight
	// call still owns them.
	req := &fasthttp.Request{}
	resp := &fasthttp.Response{}

	req.SetRequestURI(c.baseURL + path)
	// Escaped segments such as %2F must reach the backend as-is, not be
	// decoded and dot-normalized into a different endpoint.
	req.URI().DisablePathNormalizing = true
	req.Header.SetMethod(method)
	if method == http.MethodHead {
		resp.SkipBody = true
	}
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	requestID := appLogger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	if c.auth != nil {
		if value, ok := c.auth.Header(); ok {
			req.Header.Set(fasthttp.HeaderAuthorization, value)
		}
	}

	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		req.SetBodyRaw(body)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- c.http.DoDeadline(req, resp, deadline)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			c.logger.Debug("backend request failed",
				zap.String("method", method),
				zap.String("path", path),
				zap.String("request_id", requestID),
				zap.Error(err))
			return 0, nil, err
		}
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}

	status := resp.StatusCode()
	c.logger.Debug("backend request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", status))

	return status, append([]byte(nil), resp.Body()...), nil
}

func mapStatus(status int, body []byte) error {
	if status >= 200 && status <= 299 {
		return nil
	}
	cause := &StatusError{StatusCode: status, Body: string(body)}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.WrapError(domain.ErrCodeUnauthorized, "unauthorized", cause)
	case http.StatusNotFound:
		return domain.WrapError(domain.ErrCodeNotFound, "resource not found", cause)
	default:
		return domain.WrapError(domain.ErrCodeUnavailable, "endpoint unavailable", cause)
	}
}

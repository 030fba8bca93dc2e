// Package api is the fintrade backend gateway: one thin wrapper per REST
// resource, sharing an HTTP client that attaches the bearer token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/me/fintrade/internal/logging"
	"github.com/me/fintrade/pkg/model"
)

// ErrUnauthorized matches 401 responses from protected endpoints.
var ErrUnauthorized = model.ErrUnauthorized

// TokenSource supplies the bearer token for each request. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client is an HTTP client for the fintrade backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
	Tokens     TokenSource

	// OnUnauthorized, when set, is called with the token a protected call
	// carried after that call is rejected with 401. Sign-in failures never
	// trigger it.
	OnUnauthorized func(token string)
}

// NewClient creates a backend client. baseURL includes the /api prefix.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logging.OrDiscard(logger).With("component", "api"),
	}
}

// Auth returns the authentication endpoints.
func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Portfolio returns the holdings endpoints.
func (c *Client) Portfolio() *PortfolioAPI { return &PortfolioAPI{c: c} }

// Transactions returns the transaction endpoints.
func (c *Client) Transactions() *TransactionAPI { return &TransactionAPI{c: c} }

// Admin returns the user-administration endpoints.
func (c *Client) Admin() *AdminAPI { return &AdminAPI{c: c} }

// call describes one request.
type call struct {
	method    string
	path      string
	query     url.Values
	body      any
	out       any
	anonymous bool // sign-in/sign-up: no token, 401 is not a session problem
}

func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// do performs the request and decodes a 2xx JSON body into call.out.
func (c *Client) do(ctx context.Context, cl call) error {
	u := c.BaseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var bodyReader io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		if !cl.anonymous {
			c.Logger.Debug("HTTP request body", "body", string(data))
		}
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	reqID := requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	var token string
	if !cl.anonymous && c.Tokens != nil {
		if token = c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.Logger.Debug("HTTP request", "method", cl.method, "url", u, "request_id", reqID)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("HTTP response",
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
		"request_id", reqID,
		"bytes", len(respBody),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp.StatusCode, respBody)
		apiErr.RequestID = reqID
		if !cl.anonymous && errors.Is(apiErr, model.ErrUnauthorized) && c.OnUnauthorized != nil {
			c.Logger.Warn("protected call rejected", "path", cl.path, "request_id", reqID)
			c.OnUnauthorized(token)
		}
		return apiErr
	}

	if cl.out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, cl.out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// decodeError extracts the backend's message from an error body. Spring
// answers with either {"message": ...} or its default {"error": ...} body.
func decodeError(status int, body []byte) *model.APIError {
	apiErr := &model.APIError{Status: status}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

// Package remote talks to the diary service: today's entry, the entry index,
// single entries, saves, and the server-side banned-word check.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/diary/pkg/entry"
)

const requestIDHeader = "X-Request-ID"

// Client is a diary service client. The zero value is not usable; build one
// with New.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, e.g. to set a transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, errors.New("remote: base url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("remote: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type entriesResponse struct {
	Entries []string `json:"entries"`
}

type saveRequest struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

type checkRequest struct {
	Content string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Today fetches the entry for the server's current date.
func (c *Client) Today(ctx context.Context) (entry.Entry, error) {
	var e entry.Entry
	if err := c.do(ctx, http.MethodGet, "/api/today", nil, &e); err != nil {
		return entry.Entry{}, err
	}
	return e, nil
}

// Entries fetches the ordered index of dates that have entries.
func (c *Client) Entries(ctx context.Context) (entry.Index, error) {
	var resp entriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/entries", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Entries == nil {
		return entry.Index{}, nil
	}
	return entry.Index(resp.Entries), nil
}

// Entry fetches the entry saved for date.
func (c *Client) Entry(ctx context.Context, date string) (entry.Entry, error) {
	var e entry.Entry
	if err := c.do(ctx, http.MethodGet, "/api/entry/"+url.PathEscape(date), nil, &e); err != nil {
		return entry.Entry{}, err
	}
	if e.Date == "" {
		e.Date = date
	}
	return e, nil
}

// Save stores e, creating the entry for its date if needed.
func (c *Client) Save(ctx context.Context, e entry.Entry) error {
	return c.do(ctx, http.MethodPost, "/api/save", saveRequest{Date: e.Date, Content: e.Content}, nil)
}

// CheckBanned asks the server whether content contains a disallowed word.
func (c *Client) CheckBanned(ctx context.Context, content string) (entry.CheckResult, error) {
	var res entry.CheckResult
	if err := c.do(ctx, http.MethodPost, "/api/banned-words/check", checkRequest{Content: content}, &res); err != nil {
		return entry.CheckResult{}, err
	}
	return res, nil
}

// Rules fetches the banned-word rule metadata.
func (c *Client) Rules(ctx context.Context) (entry.RulesInfo, error) {
	var info entry.RulesInfo
	if err := c.do(ctx, http.MethodGet, "/api/banned-words", nil, &info); err != nil {
		return entry.RulesInfo{}, err
	}
	return info, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	endpoint := c.baseURL.String() + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("remote: create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read %s %s: %w", method, path, err)
	}

	c.logger.Debug("remote request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
		var e errorResponse
		if json.Unmarshal(payload, &e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("remote: decode %s %s: %w", method, path, err)
	}
	return nil
}

package supabase

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

	"donorsetup/internal/infra"
)

// ErrMissingServiceKey indicates that the client was configured without credentials.
var ErrMissingServiceKey = errors.New("supabase: service role key is required")

const defaultPageSize = 1000

// Options configures the Supabase admin client.
type Options struct {
	BaseURL    string
	ServiceKey string
	PageSize   int
	HTTPClient *http.Client
	Logger     *infra.Logger
	// Timeout applies only when HTTPClient is nil. Zero keeps the
	// http.Client default (no timeout).
	Timeout time.Duration
}

// Client talks to the GoTrue admin API and PostgREST of a single project.
type Client struct {
	baseURL    string
	serviceKey string
	pageSize   int
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a client with defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("supabase: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("supabase: invalid base url: %w", err)
	}
	key := strings.TrimSpace(opts.ServiceKey)
	if key == "" {
		return nil, ErrMissingServiceKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Client{
		baseURL:    baseURL,
		serviceKey: key,
		pageSize:   pageSize,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	prefer string
}

// do performs one round trip and classifies it. It never returns a Go error;
// every failure mode is folded into the Outcome.
func (c *Client) do(ctx context.Context, r request) Outcome {
	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var reader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return transportFailure(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, reader)
	if err != nil {
		return transportFailure(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", r.method).Str("path", r.path).Msg("supabase: request failed")
		return transportFailure(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(fmt.Errorf("read response: %w", err))
	}

	outcome := classify(resp.StatusCode, raw)
	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Str("outcome", outcome.Kind.String()).
		Dur("elapsed", time.Since(start)).
		Msg("supabase: response")
	return outcome
}

func decodeBody(o Outcome, v any) error {
	if len(bytes.TrimSpace(o.Body)) == 0 {
		return errors.New("supabase: decode response: empty body")
	}
	if err := json.Unmarshal(o.Body, v); err != nil {
		return fmt.Errorf("supabase: decode response: %w", err)
	}
	return nil
}

// Package agify provides the client for the age-prediction API.
//
// The client issues a single GET per call and hands the decoded JSON back
// untouched; it does not know or check the payload shape.
package agify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/agify-lambda/internal/config"
	"github.com/deppfellow/agify-lambda/internal/errs"
	"github.com/deppfellow/agify-lambda/internal/lib/jsoncodec"
)

// Client wraps an *http.Client configured for the upstream API and a logger.
type Client struct {
	httpClient *http.Client

	// baseURL is concatenated with "?" and the encoded query.
	baseURL string

	userAgent    string
	maxBodyBytes int64

	logger *zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client from the upstream config block.
//
// The default transport is wrapped with New Relic's round tripper, which
// records an external segment whenever the request context carries a
// transaction and is a plain pass-through otherwise.
func NewClient(cfg *config.Config, logger *zerolog.Logger, opts ...Option) *Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: newrelic.NewRoundTripper(http.DefaultTransport),
			Timeout:   cfg.Upstream.Timeout,
		},
		baseURL:      cfg.Upstream.BaseURL,
		userAgent:    cfg.Upstream.UserAgent,
		maxBodyBytes: cfg.Upstream.MaxBodyBytes,
		logger:       logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// URL builds the target URL for name: base + "?" + form-encoded query.
func (c *Client) URL(name string) string {
	params := url.Values{"name": []string{name}}
	return c.baseURL + "?" + params.Encode()
}

// Predict queries the API for name and returns the decoded JSON payload.
//
// Numbers come back as json.Number. Every failure is an *errs.UpstreamError.
func (c *Client) Predict(ctx context.Context, name string) (any, error) {
	target := c.URL(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errs.NewUpstreamError(errs.OpRequest, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("url", target).
		Msg("calling age prediction API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewUpstreamError(errs.OpRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodyBytes))
		return nil, errs.NewStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, errs.NewUpstreamError(errs.OpRead, err)
	}

	if int64(len(body)) > c.maxBodyBytes {
		return nil, errs.NewUpstreamError(errs.OpDecode, fmt.Errorf("body exceeds %d bytes", c.maxBodyBytes))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errs.NewUpstreamError(errs.OpDecode, fmt.Errorf("empty body"))
	}

	if !utf8.Valid(body) {
		return nil, errs.NewUpstreamError(errs.OpDecode, fmt.Errorf("invalid UTF-8 in body"))
	}

	var payload any
	if err := jsoncodec.Unmarshal(body, &payload); err != nil {
		return nil, errs.NewUpstreamError(errs.OpDecode, err)
	}

	return payload, nil
}

// Ping checks that the API host answers HTTP at all. Any status counts as
// reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return errs.NewUpstreamError(errs.OpRequest, err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewUpstreamError(errs.OpRequest, err)
	}
	resp.Body.Close()

	return nil
}

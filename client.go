// Fingertipsgo - UK Public Health Statistics API Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fingertipsgo

/*
client.go - Core Fingertips API client

This file provides the Client struct and HTTP communication layer for the
Fingertips REST API at fingertips.phe.org.uk.

Client features:
  - HTTP client with configurable timeout
  - Circuit breaker protection (sony/gobreaker)
  - Outbound rate limiting (golang.org/x/time/rate)
  - JSON catalog endpoints decoded with goccy/go-json
  - Bulk CSV retrieval endpoints parsed into frame.Frame
  - Context support for cancellation and timeouts
  - TLS verification on by default with an explicit opt-out

The client performs no retries and caches nothing: every call re-fetches from
the API and network faults surface to the caller as-is.

Related files:
  - areas.go: area-type reference and area-code endpoints
  - indicators.go: indicator metadata and profile catalog endpoints
  - data.go: the FetchData entry point
*/
package fingertips

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/fingertipsgo/frame"
	"github.com/tomtom215/fingertipsgo/internal/logging"
	"github.com/tomtom215/fingertipsgo/internal/metrics"
)

// DefaultBaseURL is the public Fingertips API root.
const DefaultBaseURL = "https://fingertips.phe.org.uk/api"

// defaultTimeout bounds each HTTP request when no timeout is configured.
const defaultTimeout = 60 * time.Second

// maxErrorBodySize limits the amount of response body read for error
// reporting, preventing unbounded allocation on large error responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max 64KB).
// Returns the body content or a placeholder message if reading fails.
func readBodyForError(r io.Reader) []byte {
	limitedReader := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root without a trailing slash.
	// Default: DefaultBaseURL.
	BaseURL string

	// Timeout bounds each HTTP request. Default: 60s.
	Timeout time.Duration

	// RequestsPerSecond caps the outbound request rate.
	// Zero disables the limiter.
	RequestsPerSecond float64

	// InsecureSkipVerify disables TLS certificate verification. Verification
	// is on by default; this opt-out exists for parity with legacy
	// deployments behind intercepting proxies.
	InsecureSkipVerify bool

	// ProxyURL routes outbound requests through the given proxy.
	// Empty uses the environment proxy settings.
	ProxyURL string

	// HTTPClient, when set, is used as-is and the Timeout,
	// InsecureSkipVerify and ProxyURL options are ignored.
	HTTPClient *http.Client
}

// Client communicates with the Fingertips HTTP API.
//
// All methods accept a context for cancellation and are safe for concurrent
// use. Each invocation is fully idempotent against an unchanged backing data
// source; nothing is cached between calls.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *breaker
}

// New creates a Client from the given options.
func New(opts Options) (*Client, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}

		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit legacy opt-out
			logging.Warn().Msg("TLS certificate verification disabled for Fingertips API calls")
		}
		if opts.ProxyURL != "" {
			proxyURL, err := url.Parse(opts.ProxyURL)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.ProxyURL, err)
			}
			transport.Proxy = http.ProxyURL(proxyURL)
		}

		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: transport,
		}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		limiter: limiter,
		breaker: newBreaker("fingertips-api"),
	}, nil
}

// get performs one GET against the API, returning the raw response body.
// The endpoint label is used for metrics and logging only.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqURL := c.baseURL + "/" + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	start := time.Now()
	body, err := c.breaker.execute(func() ([]byte, error) {
		return c.doGet(ctx, reqURL)
	})
	metrics.ObserveAPIRequest(endpoint, start, err)

	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}

	log := logging.Ctx(ctx)
	log.Debug().
		Str("endpoint", endpoint).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("API request completed")

	return body, nil
}

// doGet executes a single HTTP GET and reads the full body.
func (c *Client) doGet(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// getJSON performs a GET and decodes the JSON response into result.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, result interface{}) error {
	body, err := c.get(ctx, endpoint, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// getCSV performs a GET against a bulk CSV endpoint and parses the response
// into a Frame.
func (c *Client) getCSV(ctx context.Context, endpoint, path string, params url.Values) (*frame.Frame, error) {
	body, err := c.get(ctx, endpoint, path, params)
	if err != nil {
		return nil, err
	}
	f, err := frame.ReadCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}
	metrics.RowsFetched.WithLabelValues(endpoint).Add(float64(f.Len()))
	return f, nil
}

// Package criminalip fetches the malicious and suspicious reports for an IP
// from the Criminal IP API.
package criminalip

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/obegron/ipscope/internal/errors"
	"github.com/obegron/ipscope/internal/jsonvalue"
)

const (
	DefaultBaseURL      = "https://api.criminalip.io"
	MaliciousEndpoint   = "/v1/feature/ip/malicious-info"
	SuspiciousEndpoint  = "/v1/feature/ip/suspicious-info"
	DefaultTimeout      = 10 * time.Second
	DefaultTarget       = "45.141.215.95"
	maxResponseBodySize = 8 << 20
)

//go:embed testdata/demo_report.json
var demoReport []byte

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// MockFallback returns the demo report instead of an error when a
	// lookup fails.
	MockFallback bool
}

// Client queries the two feature endpoints.
type Client struct {
	baseURL      string
	mockFallback bool
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewClient creates a new Criminal IP client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		mockFallback: cfg.MockFallback,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       logger.With().Str("component", "criminalip").Logger(),
	}
}

// Analyze fetches the malicious report and then the suspicious report for
// ip. With mock fallback enabled any fetch failure is logged and the demo
// report is returned instead.
func (c *Client) Analyze(ctx context.Context, apiKey, ip string) (*Result, error) {
	apiKey = strings.TrimSpace(apiKey)
	ip = strings.TrimSpace(ip)
	if apiKey == "" || ip == "" {
		return nil, errors.NewInputError("API key and IP address are required", errors.ErrMissingCredentials)
	}

	start := time.Now()
	res, err := c.fetch(ctx, apiKey, ip)
	if err != nil {
		c.logger.Error().Err(err).Str("ip", ip).Msg("analysis failed")
		if !c.mockFallback {
			return nil, err
		}
		return DemoResult(), nil
	}

	c.logger.Info().Str("ip", ip).Dur("duration", time.Since(start)).Msg("analysis complete")
	return res, nil
}

func (c *Client) fetch(ctx context.Context, apiKey, ip string) (*Result, error) {
	malicious, err := c.get(ctx, MaliciousEndpoint, "Malicious", apiKey, ip)
	if err != nil {
		return nil, err
	}

	suspicious, err := c.get(ctx, SuspiciousEndpoint, "Suspicious", apiKey, ip)
	if err != nil {
		return nil, err
	}

	return &Result{IP: ip, Malicious: malicious, Suspicious: suspicious}, nil
}

func (c *Client) get(ctx context.Context, endpoint, name, apiKey, ip string) (jsonvalue.Value, error) {
	q := url.Values{}
	q.Set("ip", ip)
	reqURL := c.baseURL + endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return jsonvalue.Value{}, errors.NewInputError("cannot build request", err)
	}
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("endpoint", endpoint).Str("ip", ip).Msg("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return jsonvalue.Value{}, errors.NewNetworkError(fmt.Sprintf("%s API request failed", name), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return jsonvalue.Value{}, errors.NewAPIError(
			fmt.Sprintf("%s API request failed: %s", name, statusText(resp)), nil)
	}

	v, err := jsonvalue.Decode(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return jsonvalue.Value{}, errors.NewParsingError(fmt.Sprintf("%s API returned an unreadable body", name), err)
	}
	return v, nil
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}

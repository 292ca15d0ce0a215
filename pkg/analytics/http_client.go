package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

// HTTPConfig configures the HTTP analytics client.
type HTTPConfig struct {
	BaseURL    string
	HealthPath string
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout    time.Duration
	HTTPClient *http.Client
	Validator  dashboard.PayloadValidator
}

// HTTPClient talks to the store backend over REST.
type HTTPClient struct {
	baseURL    string
	healthPath string
	client     *http.Client
	validator  dashboard.PayloadValidator
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the configured backend.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	healthPath := cfg.HealthPath
	if healthPath == "" {
		healthPath = DefaultHealthPath
	}
	validator := cfg.Validator
	if validator == nil {
		validator = dashboard.NewOverviewValidator()
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		healthPath: "/" + strings.TrimLeft(healthPath, "/"),
		client:     httpClient,
		validator:  validator,
	}, nil
}

// BaseURL returns the backend root the client was built with.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// FetchOverview implements dashboard.OverviewClient.
func (c *HTTPClient) FetchOverview(ctx context.Context) (dashboard.AnalyticsOverview, error) {
	resp, err := c.do(ctx, dashboard.OpFetchOverview, http.MethodGet, OverviewPath)
	if err != nil {
		return dashboard.AnalyticsOverview{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dashboard.AnalyticsOverview{}, transportError(dashboard.OpFetchOverview, fmt.Errorf("analytics: read response: %w", err))
	}
	if err := c.validate(body); err != nil {
		return dashboard.AnalyticsOverview{}, transportError(dashboard.OpFetchOverview, err)
	}
	var overview dashboard.AnalyticsOverview
	if err := json.Unmarshal(body, &overview); err != nil {
		return dashboard.AnalyticsOverview{}, transportError(dashboard.OpFetchOverview, fmt.Errorf("analytics: decode response: %w", err))
	}
	return overview, nil
}

// Seed implements dashboard.OverviewClient. The response body is ignored.
func (c *HTTPClient) Seed(ctx context.Context) error {
	resp, err := c.do(ctx, dashboard.OpSeed, http.MethodPost, SeedPath)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Ping implements dashboard.HealthChecker. Only the status code is inspected.
func (c *HTTPClient) Ping(ctx context.Context) (dashboard.HealthReport, error) {
	report := dashboard.HealthReport{Target: c.baseURL + c.healthPath}
	start := time.Now()
	resp, err := c.send(ctx, http.MethodGet, c.healthPath)
	report.Latency = time.Since(start)
	if err != nil {
		return report, transportError(dashboard.OpPing, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	report.StatusCode = resp.StatusCode
	report.Healthy = isSuccess(resp.StatusCode)
	if !report.Healthy {
		return report, &dashboard.HTTPStatusError{Op: dashboard.OpPing, StatusCode: resp.StatusCode}
	}
	return report, nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string) (*http.Response, error) {
	resp, err := c.send(ctx, method, path)
	if err != nil {
		return nil, transportError(op, err)
	}
	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &dashboard.HTTPStatusError{Op: op, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) validate(body []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return c.validator.Validate(payload)
}

func transportError(op string, err error) error {
	return &dashboard.TransportError{Op: op, Err: err}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

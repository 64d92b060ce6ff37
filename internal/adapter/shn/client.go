// Package shn downloads tide charts published by the Servicio de Hidrografía Naval.
package shn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/tide-draft-report/internal/observability"
)

// maxChartBytes caps the chart download; SHN charts are a few hundred KB.
const maxChartBytes = 16 << 20

// Client implements report.ChartFetcher over HTTP.
type Client struct {
	sourceURL  string
	httpClient *http.Client
	maxBytes   int64
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a chart client for sourceURL with a per-request timeout.
func NewClient(sourceURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		sourceURL: sourceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBytes: maxChartBytes,
		metrics:  metrics,
		logger:   logger,
	}
}

// SourceURL returns the chart location.
func (c *Client) SourceURL() string { return c.sourceURL }

// FetchChart downloads the chart markup. Any non-2xx response is an error.
func (c *Client) FetchChart(ctx context.Context) (string, error) {
	start := time.Now()
	svg, err := c.doRequest(ctx)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("error").Inc()
		return "", err
	}
	c.metrics.FetchRequests.WithLabelValues("success").Inc()
	c.logger.Debug("chart fetched", "url", c.sourceURL, "bytes", len(svg), "duration", time.Since(start))
	return svg, nil
}

func (c *Client) doRequest(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/svg+xml, text/plain;q=0.9, */*;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chart request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("shn chart error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read chart body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return "", fmt.Errorf("chart exceeds %d bytes", c.maxBytes)
	}
	return string(body), nil
}

// Package ndbc fetches NDBC realtime2 feed files over HTTP.
package ndbc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/buoy"
)

// DefaultBaseURL serves the rolling 45-day realtime files.
const DefaultBaseURL = "https://www.ndbc.noaa.gov/data/realtime2"

// maxFeedBytes bounds a feed download; a 45-day spectral file is ~150 KB.
const maxFeedBytes = 4 << 20

// Client implements buoy.Fetcher.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an NDBC feed client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Fetch downloads {base}/{station}.{feed}.
func (c *Client) Fetch(ctx context.Context, station string, feed buoy.Feed) ([]byte, error) {
	u := fmt.Sprintf("%s/%s.%s", c.baseURL, url.PathEscape(strings.ToUpper(station)), feed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", feed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ndbc error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s feed: %w", feed, err)
	}
	c.logger.Debug("ndbc feed fetched",
		"station", station,
		"feed", string(feed),
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return data, nil
}

package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/observability"
	"github.com/couchcryptid/surf-forecast-service/internal/tide"
)

// DefaultBaseURL is the CO-OPS data getter endpoint.
const DefaultBaseURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

const (
	dateLayout = "20060102"
	timeLayout = "2006-01-02 15:04"
)

// Client implements tide.Source using NOAA CO-OPS high/low predictions.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a CO-OPS tide predictions client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Predictions returns the highs and lows from the day before through the day
// after day, in UTC, so every hour of day is bracketed by two extremes.
func (c *Client) Predictions(ctx context.Context, station string, day time.Time) ([]tide.Event, error) {
	day = day.UTC()
	params := url.Values{
		"begin_date":  {day.AddDate(0, 0, -1).Format(dateLayout)},
		"end_date":    {day.AddDate(0, 0, 1).Format(dateLayout)},
		"station":     {station},
		"product":     {"predictions"},
		"datum":       {"MLLW"},
		"time_zone":   {"gmt"},
		"interval":    {"hilo"},
		"units":       {"english"},
		"format":      {"json"},
		"application": {"surf-forecast-service"},
	}

	start := time.Now()
	events, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.TideAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.TideRequests.WithLabelValues("error").Inc()
		return nil, err
	case len(events) == 0:
		c.metrics.TideRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.TideRequests.WithLabelValues("success").Inc()
	}
	c.logger.Debug("tide predictions fetched", "station", station, "day", day.Format(time.DateOnly), "events", len(events))
	return events, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]tide.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tide predictions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("noaa API error: status %d: %s", resp.StatusCode, body)
	}

	var predResp response
	if err := json.NewDecoder(resp.Body).Decode(&predResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	// CO-OPS reports bad stations and date ranges as 200 with an error body.
	if predResp.Error != nil {
		return nil, fmt.Errorf("noaa API error: %s", predResp.Error.Message)
	}

	events := make([]tide.Event, 0, len(predResp.Predictions))
	for _, p := range predResp.Predictions {
		t, err := time.ParseInLocation(timeLayout, p.Time, time.UTC)
		if err != nil {
			continue
		}
		h, err := strconv.ParseFloat(p.Height, 64)
		if err != nil {
			continue
		}
		typ := tide.Low
		if p.Type == "H" || p.Type == "HH" {
			typ = tide.High
		}
		events = append(events, tide.Event{Time: t, Height: h, Type: typ})
	}
	return events, nil
}

// CO-OPS API response types.

type response struct {
	Predictions []prediction `json:"predictions"`
	Error       *apiError    `json:"error,omitempty"`
}

type prediction struct {
	Time   string `json:"t"`
	Height string `json:"v"` // feet, as a string
	Type   string `json:"type"`
}

type apiError struct {
	Message string `json:"message"`
}

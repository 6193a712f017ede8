package buoy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

// Fetcher retrieves the raw text of one realtime feed for a station.
type Fetcher interface {
	Fetch(ctx context.Context, station string, feed Feed) ([]byte, error)
}

// Reader assembles readings from a station's spectral and meteorological feeds.
type Reader struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewReader creates a Reader over the given fetcher.
func NewReader(fetcher Fetcher, logger *slog.Logger) *Reader {
	return &Reader{fetcher: fetcher, logger: logger}
}

// Latest returns the newest valid reading for a station. The spectral feed is
// required; a failing meteorological feed, or one whose newest wind is more
// than StaleAfter from the spectral line, only drops the wind fields.
func (r *Reader) Latest(ctx context.Context, station string) (*domain.BuoyReading, error) {
	spec, err := r.fetcher.Fetch(ctx, station, FeedSpectral)
	if err != nil {
		return nil, fmt.Errorf("fetch spectral feed for %s: %w", station, err)
	}
	reading, err := ParseSpectral(spec)
	if err != nil {
		return nil, fmt.Errorf("station %s: %w", station, err)
	}
	reading.Station = station

	met, err := r.meteorological(ctx, station)
	if err != nil {
		r.logger.Warn("buoy wind unavailable", "station", station, "error", err)
		return reading, nil
	}
	// Wind observed far from the swell line would be reported as current.
	if gap := met.Timestamp.Sub(reading.Timestamp).Abs(); gap > StaleAfter {
		r.logger.Warn("buoy wind dropped, feeds out of step",
			"station", station,
			"spectral_at", reading.Timestamp,
			"wind_at", met.Timestamp,
			"gap", gap,
		)
		return reading, nil
	}
	reading.WindSpeed = met.Wind.Speed
	reading.WindDirection = met.Wind.Direction
	reading.WindGust = met.Wind.Gust
	return reading, nil
}

func (r *Reader) meteorological(ctx context.Context, station string) (*MetReading, error) {
	data, err := r.fetcher.Fetch(ctx, station, FeedMeteorological)
	if err != nil {
		return nil, fmt.Errorf("fetch meteorological feed: %w", err)
	}
	return ParseMeteorological(data)
}

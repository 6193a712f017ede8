package tide

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

// Enrich fills a missing tide on hour from the station's predictions.
// If source is nil, the hour already carries a tide height, or the lookup
// fails, the hour is returned unchanged (graceful degradation). An upstream
// phase is kept when only the height was missing.
func Enrich(ctx context.Context, hour domain.ForecastHour, source Source, station string, logger *slog.Logger) domain.ForecastHour {
	if source == nil || hour.Tide.Height != nil {
		return hour
	}

	day := hour.Time.UTC().Truncate(24 * time.Hour)
	events, err := source.Predictions(ctx, station, day)
	if err != nil {
		logger.Warn("tide predictions failed",
			"spot", hour.Spot,
			"time", hour.Time,
			"station", station,
			"error", err,
		)
		return hour
	}

	t, ok := At(events, hour.Time)
	if !ok {
		logger.Debug("no tide predictions bracket hour",
			"spot", hour.Spot,
			"time", hour.Time,
			"station", station,
			"events", len(events),
		)
		return hour
	}

	if hour.Tide.Phase != domain.TideUnknown {
		t.Phase = hour.Tide.Phase
	}
	hour.Tide = t
	return hour
}

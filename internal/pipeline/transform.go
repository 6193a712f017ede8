package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/forecast"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
	"github.com/couchcryptid/surf-forecast-service/internal/tide"
)

// VerificationLookup finds the verification record for a canonical spot and hour.
// A nil record with a nil error means none has arrived yet.
type VerificationLookup interface {
	Verification(ctx context.Context, spotKey string, t time.Time) (*domain.VerificationRecord, error)
}

// ForecastTransformer turns upstream forecast hours into stamped forecast
// records: parse, fill a missing tide, compute, and join any verification
// already on file.
type ForecastTransformer struct {
	engine        *forecast.Engine
	tides         tide.Source
	tideStation   string
	verifications VerificationLookup
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// ForecastOption configures optional ForecastTransformer stages.
type ForecastOption func(*ForecastTransformer)

// WithTides enables tide enrichment from the given source and station.
func WithTides(src tide.Source, station string) ForecastOption {
	return func(t *ForecastTransformer) {
		t.tides = src
		t.tideStation = station
	}
}

// WithVerifications enables the confidence join.
func WithVerifications(v VerificationLookup) ForecastOption {
	return func(t *ForecastTransformer) {
		t.verifications = v
	}
}

// NewForecastTransformer creates a ForecastTransformer. Without options it
// neither enriches tides nor attaches confidence.
func NewForecastTransformer(engine *forecast.Engine, metrics *observability.Metrics, logger *slog.Logger, opts ...ForecastOption) *ForecastTransformer {
	t := &ForecastTransformer{
		engine:  engine,
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *ForecastTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.ForecastRecord, error) {
	hour, err := domain.ParseForecastHour(raw)
	if err != nil {
		return domain.ForecastRecord{}, err
	}

	hour = tide.Enrich(ctx, hour, t.tides, t.tideStation, t.logger)

	out, err := t.engine.Compute(hour)
	if err != nil {
		return domain.ForecastRecord{}, err
	}
	out.Confidence = t.confidence(ctx, out)

	t.observe(out)
	return domain.StampRecord(out), nil
}

// confidence joins a stored verification. Lookup failures only drop the tag.
func (t *ForecastTransformer) confidence(ctx context.Context, out domain.ForecastOutput) *domain.ConfidenceRecord {
	if t.verifications == nil || out.NoSwell {
		return nil
	}
	v, err := t.verifications.Verification(ctx, out.Spot, out.Time)
	if err != nil {
		t.logger.Warn("verification lookup failed", "spot", out.Spot, "time", out.Time, "error", err)
		return nil
	}
	if v == nil {
		return nil
	}
	rec, err := t.engine.Confidence(out, v)
	if err != nil {
		t.logger.Warn("confidence failed", "spot", out.Spot, "time", out.Time, "error", err)
		return nil
	}
	return rec
}

func (t *ForecastTransformer) observe(out domain.ForecastOutput) {
	t.metrics.ForecastsByRating.WithLabelValues(out.Spot, string(out.Rating)).Inc()
	for _, name := range out.Clamps {
		t.metrics.ClampsFired.WithLabelValues(name).Inc()
	}
	if out.Confidence != nil {
		t.metrics.ConfidenceTiers.WithLabelValues(string(out.Confidence.Tier)).Inc()
	}
}

// VerificationTransformer parses verification records and resolves their spot
// to its canonical key. Unknown spots are transform errors.
type VerificationTransformer struct {
	profiles forecast.ProfileSource
}

// NewVerificationTransformer creates a VerificationTransformer.
func NewVerificationTransformer(profiles forecast.ProfileSource) *VerificationTransformer {
	return &VerificationTransformer{profiles: profiles}
}

func (t *VerificationTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.VerificationRecord, error) {
	v, err := domain.ParseVerification(raw)
	if err != nil {
		return domain.VerificationRecord{}, err
	}
	p, err := t.profiles.Lookup(v.Spot)
	if err != nil {
		return domain.VerificationRecord{}, fmt.Errorf("verification: %w", err)
	}
	v.Spot = p.Key
	return v, nil
}

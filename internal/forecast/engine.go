// Package forecast composes the spot registry, swell selector, height
// calculator and quality scorer into one forecast per (spot, hour).
package forecast

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/confidence"
	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/quality"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
	"github.com/couchcryptid/surf-forecast-service/internal/swell"
)

// noSwellReason is the explicit reason on the degenerate flat output.
const noSwellReason = "No swell data"

// buoyChopPeriod is the period below which the buoy wind sea never competes.
const buoyChopPeriod = 5.0

// ProfileSource resolves spot identifiers to profiles.
type ProfileSource interface {
	Lookup(identifier string) (spot.Profile, error)
}

// Engine computes forecast outputs. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	profiles ProfileSource
	scorer   quality.Scorer
	logger   *slog.Logger
}

// NewEngine creates an Engine. A nil scorer uses quality.Pure.
func NewEngine(profiles ProfileSource, scorer quality.Scorer, logger *slog.Logger) *Engine {
	if scorer == nil {
		scorer = quality.Pure
	}
	return &Engine{profiles: profiles, scorer: scorer, logger: logger}
}

// Compute returns the forecast for one hour. An unknown spot is an error. An
// hour with no usable swell yields the degenerate flat output, not an error.
func (e *Engine) Compute(hour domain.ForecastHour) (domain.ForecastOutput, error) {
	p, err := e.profiles.Lookup(hour.Spot)
	if err != nil {
		return domain.ForecastOutput{}, fmt.Errorf("compute forecast: %w", err)
	}
	return e.compute(hour, p), nil
}

func (e *Engine) compute(hour domain.ForecastHour, p spot.Profile) domain.ForecastOutput {
	dominant, ok := swell.SelectDominant(hour.Components)
	if !ok {
		out := NoSwellOutput(p.Key, hour.Time)
		out.Tide = hour.Tide
		return out
	}

	est := swell.EstimateHeight(dominant, p, hour.Tide)
	in := quality.Input{
		BreakingHeight: est.Height,
		Period:         *dominant.Period,
		Direction:      dominant.Direction,
		Tide:           hour.Tide,
		Wind:           hour.Wind,
		TidePush:       est.TideFactor,
	}
	if sec, ok := hour.Component(domain.ComponentSecondary); ok && sec.Present() && dominant.Type != domain.ComponentSecondary {
		in.Secondary = &sec
	}

	r := e.scorer.Score(in, p)
	return domain.ForecastOutput{
		Spot:           p.Key,
		Time:           hour.Time,
		BreakingHeight: est.Height,
		Score:          r.Score,
		Rating:         r.Rating,
		Breakdown:      r.Breakdown,
		Reason:         r.Reason,
		Tide:           hour.Tide,
		Dominant:       &dominant,
		Clamps:         r.Clamps,
	}
}

// NoSwellOutput is the well-defined flat output for an hour without swell data.
func NoSwellOutput(spotKey string, t time.Time) domain.ForecastOutput {
	return domain.ForecastOutput{
		Spot:    spotKey,
		Time:    t,
		Score:   0,
		Rating:  quality.RatingFor(0),
		Reason:  noSwellReason,
		NoSwell: true,
	}
}

// ComputeWithVerification computes the hour and, when both estimates exist,
// attaches a confidence record. The verification estimate runs through the
// same height calculator with the hour's tide.
func (e *Engine) ComputeWithVerification(hour domain.ForecastHour, v *domain.VerificationRecord) (domain.ForecastOutput, error) {
	p, err := e.profiles.Lookup(hour.Spot)
	if err != nil {
		return domain.ForecastOutput{}, fmt.Errorf("compute forecast: %w", err)
	}
	out := e.compute(hour, p)
	out.Confidence = attachConfidence(out, v, p)
	return out, nil
}

// Confidence compares a stored output against a verification record that
// arrived after the output was computed. The output's own tide is reused.
func (e *Engine) Confidence(out domain.ForecastOutput, v *domain.VerificationRecord) (*domain.ConfidenceRecord, error) {
	p, err := e.profiles.Lookup(out.Spot)
	if err != nil {
		return nil, fmt.Errorf("confidence: %w", err)
	}
	return attachConfidence(out, v, p), nil
}

// VerificationHeight is the breaking height estimate from a verification
// record, or nil when the record has no usable swell.
func VerificationHeight(v *domain.VerificationRecord, p spot.Profile, tide domain.Tide) *float64 {
	if v == nil {
		return nil
	}
	c := v.Component()
	if !c.Present() {
		return nil
	}
	return domain.Float(swell.BreakingHeight(c, p, tide))
}

func attachConfidence(out domain.ForecastOutput, v *domain.VerificationRecord, p spot.Profile) *domain.ConfidenceRecord {
	if out.NoSwell {
		return nil
	}
	primary := out.BreakingHeight
	rec, ok := confidence.Classify(&primary, VerificationHeight(v, p, out.Tide))
	if !ok {
		return nil
	}
	return &rec
}

type hourKey struct {
	spot string
	hour int64
}

// Timeline computes every hour in order. Verification records are matched by
// canonical spot and hour. A failing hour is logged and skipped.
func (e *Engine) Timeline(hours []domain.ForecastHour, verifications []domain.VerificationRecord) []domain.ForecastOutput {
	index := make(map[hourKey]*domain.VerificationRecord, len(verifications))
	for i := range verifications {
		v := &verifications[i]
		p, err := e.profiles.Lookup(v.Spot)
		if err != nil {
			e.logger.Warn("verification for unknown spot ignored", "spot", v.Spot, "time", v.Time)
			continue
		}
		index[hourKey{p.Key, v.Time.Truncate(time.Hour).Unix()}] = v
	}

	out := make([]domain.ForecastOutput, 0, len(hours))
	for _, h := range hours {
		p, err := e.profiles.Lookup(h.Spot)
		if err != nil {
			e.logger.Warn("forecast hour skipped", "spot", h.Spot, "time", h.Time, "error", err)
			continue
		}
		o := e.compute(h, p)
		o.Confidence = attachConfidence(o, index[hourKey{p.Key, h.Time.Truncate(time.Hour).Unix()}], p)
		out = append(out, o)
	}
	return out
}

// FromBuoy builds a forecast hour from a buoy reading. The separated swell is
// the primary component; the wind sea only competes when it is organized
// enough to be surfable.
func FromBuoy(spotKey string, r domain.BuoyReading, tide domain.Tide) domain.ForecastHour {
	hour := domain.ForecastHour{
		Spot: strings.TrimSpace(spotKey),
		Time: r.Timestamp.Truncate(time.Hour),
		Wind: domain.Wind{Speed: r.WindSpeed, Direction: r.WindDirection, Gust: r.WindGust},
		Tide: tide,
	}
	if s := r.Swell(); s.Present() {
		hour.Components = append(hour.Components, s)
	}
	if ww := r.WindWave(); ww.Present() && *ww.Period >= buoyChopPeriod {
		hour.Components = append(hour.Components, ww)
	}
	return hour
}

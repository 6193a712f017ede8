package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RawComponent is one swell component as published by the upstream forecast feed.
type RawComponent struct {
	HeightFt  *float64        `json:"height_ft"`
	PeriodS   *float64        `json:"period_s"`
	Direction json.RawMessage `json:"direction,omitempty"` // degrees or compass token
}

// RawForecastHour is the flat JSON produced by the upstream forecast provider.
type RawForecastHour struct {
	Spot      string        `json:"spot"`
	Time      string        `json:"time"` // RFC 3339; falls back to the message timestamp
	Primary   *RawComponent `json:"primary"`
	Secondary *RawComponent `json:"secondary"`
	WindWave  *RawComponent `json:"wind_wave"`
	Wind      struct {
		SpeedKt   *float64        `json:"speed_kt"`
		GustKt    *float64        `json:"gust_kt"`
		Direction json.RawMessage `json:"direction,omitempty"`
	} `json:"wind"`
	Tide struct {
		HeightFt *float64 `json:"height_ft"`
		Phase    string   `json:"phase"`
	} `json:"tide"`
}

// RawVerification is the flat JSON produced by the verification provider.
type RawVerification struct {
	Spot      string          `json:"spot"`
	Time      string          `json:"time"`
	HeightFt  *float64        `json:"height_ft"`
	PeriodS   *float64        `json:"period_s"`
	Direction json.RawMessage `json:"direction,omitempty"`
	Source    string          `json:"source"`
}

// ErrMissingSpot is returned when an upstream record does not name a spot.
var ErrMissingSpot = errors.New("record has no spot")

// ParseForecastHour deserializes an upstream hour into a ForecastHour.
// Missing or invalid measurements become nil, never zero.
func ParseForecastHour(raw RawEvent) (ForecastHour, error) {
	var rec RawForecastHour
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return ForecastHour{}, fmt.Errorf("parse forecast hour: %w", err)
	}
	if strings.TrimSpace(rec.Spot) == "" {
		return ForecastHour{}, fmt.Errorf("parse forecast hour: %w", ErrMissingSpot)
	}
	t, err := parseRecordTime(rec.Time, raw.Timestamp)
	if err != nil {
		return ForecastHour{}, fmt.Errorf("parse forecast hour: %w", err)
	}

	hour := ForecastHour{
		Spot: strings.TrimSpace(rec.Spot),
		Time: t,
		Wind: Wind{
			Speed:     nonNegative(rec.Wind.SpeedKt),
			Gust:      nonNegative(rec.Wind.GustKt),
			Direction: parseDirection(rec.Wind.Direction),
		},
		Tide: Tide{
			Height: finite(rec.Tide.HeightFt),
			Phase:  parseTidePhase(rec.Tide.Phase),
		},
	}

	for _, c := range []struct {
		typ ComponentType
		raw *RawComponent
	}{
		{ComponentPrimary, rec.Primary},
		{ComponentSecondary, rec.Secondary},
		{ComponentWindGenerated, rec.WindWave},
	} {
		if c.raw == nil {
			continue
		}
		hour.Components = append(hour.Components, SwellComponent{
			Type:      c.typ,
			Height:    nonNegative(c.raw.HeightFt),
			Period:    nonNegative(c.raw.PeriodS),
			Direction: parseDirection(c.raw.Direction),
		})
	}

	return hour, nil
}

// ParseVerification deserializes a verification feed record.
func ParseVerification(raw RawEvent) (VerificationRecord, error) {
	var rec RawVerification
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return VerificationRecord{}, fmt.Errorf("parse verification: %w", err)
	}
	if strings.TrimSpace(rec.Spot) == "" {
		return VerificationRecord{}, fmt.Errorf("parse verification: %w", ErrMissingSpot)
	}
	t, err := parseRecordTime(rec.Time, raw.Timestamp)
	if err != nil {
		return VerificationRecord{}, fmt.Errorf("parse verification: %w", err)
	}
	return VerificationRecord{
		Spot:      strings.TrimSpace(rec.Spot),
		Time:      t,
		Height:    nonNegative(rec.HeightFt),
		Period:    nonNegative(rec.PeriodS),
		Direction: parseDirection(rec.Direction),
		Source:    rec.Source,
	}, nil
}

// SerializeForecastRecord marshals a forecast record for the sink topic.
func SerializeForecastRecord(rec ForecastRecord) (OutputEvent, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize forecast record: %w", err)
	}
	return OutputEvent{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: map[string]string{
			"spot":         rec.Spot,
			"rating":       string(rec.Rating),
			"generated_at": rec.GeneratedAt.Format(time.RFC3339),
		},
	}, nil
}

// parseRecordTime parses an RFC 3339 timestamp, falling back to the message
// time when the record omits one. The result is truncated to the hour in UTC.
func parseRecordTime(s string, fallback time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if fallback.IsZero() {
			return time.Time{}, errors.New("record has no time")
		}
		return fallback.UTC().Truncate(time.Hour), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.UTC().Truncate(time.Hour), nil
}

// parseDirection accepts a JSON number of degrees or a string holding either
// degrees or a compass token. Anything else is nil.
func parseDirection(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return directionValue(num)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return directionValue(v)
	}
	return CompassDegrees(s)
}

func directionValue(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	d := NormalizeDegrees(v)
	return &d
}

func parseTidePhase(s string) TidePhase {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rising", "incoming", "flood":
		return TideRising
	case "falling", "outgoing", "ebb":
		return TideFalling
	case "slack", "high", "low":
		return TideSlack
	default:
		return TideUnknown
	}
}

func nonNegative(v *float64) *float64 {
	if v == nil || *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

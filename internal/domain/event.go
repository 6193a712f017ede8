package domain

import (
	"context"
	"fmt"
	"time"
)

// RawEvent represents an unprocessed message from a source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ComponentType tags a swell component by its origin in the upstream forecast.
// The declaration order is the selector's tie-break priority.
type ComponentType int

const (
	ComponentPrimary ComponentType = iota
	ComponentSecondary
	ComponentWindGenerated
)

func (c ComponentType) String() string {
	switch c {
	case ComponentPrimary:
		return "primary"
	case ComponentSecondary:
		return "secondary"
	case ComponentWindGenerated:
		return "wind"
	default:
		return "unknown"
	}
}

// MarshalText renders the component type as its string form in JSON.
func (c ComponentType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a component type label. Unknown labels are an error
// so a damaged payload cannot change the selector's tie-break order.
func (c *ComponentType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "primary":
		*c = ComponentPrimary
	case "secondary":
		*c = ComponentSecondary
	case "wind":
		*c = ComponentWindGenerated
	default:
		return fmt.Errorf("unknown swell component type %q", b)
	}
	return nil
}

// SwellComponent is one wave train for a single forecast instant.
// Heights are feet, periods seconds, directions degrees the swell arrives from.
type SwellComponent struct {
	Type      ComponentType `json:"type"`
	Height    *float64      `json:"height_ft"`
	Period    *float64      `json:"period_s"`
	Direction *float64      `json:"direction_deg,omitempty"`
}

// Present reports whether the component carries a usable height and period.
func (c SwellComponent) Present() bool {
	return c.Height != nil && c.Period != nil && *c.Height > 0 && *c.Period > 0
}

// Energy is the period-aware energy proxy H²·T, or 0 for an absent component.
func (c SwellComponent) Energy() float64 {
	if !c.Present() {
		return 0
	}
	return *c.Height * *c.Height * *c.Period
}

// TidePhase describes the direction the water level is moving.
type TidePhase string

const (
	TideUnknown TidePhase = ""
	TideRising  TidePhase = "rising"
	TideFalling TidePhase = "falling"
	TideSlack   TidePhase = "slack"
)

// Tide is the water level (feet above MLLW) and phase for one instant.
type Tide struct {
	Height *float64  `json:"height_ft"`
	Phase  TidePhase `json:"phase,omitempty"`
}

// Wind holds speed and gust in knots and the direction the wind blows from.
type Wind struct {
	Speed     *float64 `json:"speed_kt"`
	Direction *float64 `json:"direction_deg"`
	Gust      *float64 `json:"gust_kt,omitempty"`
}

// ForecastHour is the per-spot, per-hour input to the forecast engine.
type ForecastHour struct {
	Spot       string           `json:"spot"`
	Time       time.Time        `json:"time"`
	Components []SwellComponent `json:"components"`
	Wind       Wind             `json:"wind"`
	Tide       Tide             `json:"tide"`
}

// Component returns the first component of the given type, if any.
func (h ForecastHour) Component(t ComponentType) (SwellComponent, bool) {
	for _, c := range h.Components {
		if c.Type == t {
			return c, true
		}
	}
	return SwellComponent{}, false
}

// VerificationRecord is an independently computed swell estimate for the same
// spot and hour as the primary forecast.
type VerificationRecord struct {
	Spot      string    `json:"spot"`
	Time      time.Time `json:"time"`
	Height    *float64  `json:"height_ft"`
	Period    *float64  `json:"period_s"`
	Direction *float64  `json:"direction_deg,omitempty"`
	Source    string    `json:"source,omitempty"`
}

// Component converts the verification swell into a primary component.
func (v VerificationRecord) Component() SwellComponent {
	return SwellComponent{Type: ComponentPrimary, Height: v.Height, Period: v.Period, Direction: v.Direction}
}

// Rating is one of five ordered quality tiers.
type Rating string

const (
	RatingDontBother Rating = "Don't Bother"
	RatingFair       Rating = "Fair"
	RatingGood       Rating = "Good"
	RatingGreat      Rating = "Great"
	RatingEpic       Rating = "Epic"
)

// QualityBreakdown holds the signed sub-scores behind a quality score.
type QualityBreakdown struct {
	Size      int `json:"size"`
	Direction int `json:"direction"`
	Tide      int `json:"tide"`
	Wind      int `json:"wind"`
	Gust      int `json:"gust"`
}

// ConfidenceTier classifies agreement between the primary and verification estimates.
type ConfidenceTier string

const (
	ConfidenceHigh ConfidenceTier = "HIGH"
	ConfidenceMed  ConfidenceTier = "MED"
	ConfidenceLow  ConfidenceTier = "LOW"
)

// ConfidenceRecord is the per-hour comparison of two breaking height estimates.
type ConfidenceRecord struct {
	Primary      float64        `json:"primary_ft"`
	Verification float64        `json:"verification_ft"`
	Difference   float64        `json:"difference_ft"`
	Tier         ConfidenceTier `json:"tier"`
}

// ForecastOutput is the derived signal for one (spot, hour).
type ForecastOutput struct {
	Spot           string            `json:"spot"`
	Time           time.Time         `json:"time"`
	BreakingHeight float64           `json:"breaking_height_ft"`
	Score          int               `json:"score"`
	Rating         Rating            `json:"rating"`
	Breakdown      QualityBreakdown  `json:"breakdown"`
	Reason         string            `json:"reason"`
	Tide           Tide              `json:"tide"`
	NoSwell        bool              `json:"no_swell,omitempty"`
	Dominant       *SwellComponent   `json:"dominant,omitempty"`
	Clamps         []string          `json:"clamps,omitempty"`
	Confidence     *ConfidenceRecord `json:"confidence,omitempty"`
}

// ForecastRecord is a stamped ForecastOutput destined for the sink topic and store.
type ForecastRecord struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	ForecastOutput
}

// BuoyReading is the latest parsed observation from a buoy's realtime feeds.
// Every field except Timestamp may be nil, meaning "no signal".
type BuoyReading struct {
	Station   string    `json:"station"`
	Timestamp time.Time `json:"timestamp"`
	IsStale   bool      `json:"is_stale"`

	SignificantHeight *float64 `json:"significant_height_ft"`

	SwellHeight    *float64 `json:"swell_height_ft"`
	SwellPeriod    *float64 `json:"swell_period_s"`
	SwellDirection *float64 `json:"swell_direction_deg"`

	WindWaveHeight    *float64 `json:"wind_wave_height_ft"`
	WindWavePeriod    *float64 `json:"wind_wave_period_s"`
	WindWaveDirection *float64 `json:"wind_wave_direction_deg"`

	Steepness *string `json:"steepness"`

	DominantHeight    *float64 `json:"dominant_height_ft"`
	DominantPeriod    *float64 `json:"dominant_period_s"`
	DominantDirection *float64 `json:"dominant_direction_deg"`

	WindSpeed     *float64 `json:"wind_speed_kt"`
	WindDirection *float64 `json:"wind_direction_deg"`
	WindGust      *float64 `json:"wind_gust_kt"`
}

// Swell returns the separated swell as a primary component.
func (r BuoyReading) Swell() SwellComponent {
	return SwellComponent{Type: ComponentPrimary, Height: r.SwellHeight, Period: r.SwellPeriod, Direction: r.SwellDirection}
}

// WindWave returns the separated wind sea as a wind-generated component.
func (r BuoyReading) WindWave() SwellComponent {
	return SwellComponent{Type: ComponentWindGenerated, Height: r.WindWaveHeight, Period: r.WindWavePeriod, Direction: r.WindWaveDirection}
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Float returns a pointer to v. Handy for building optional fields.
func Float(v float64) *float64 {
	return &v
}

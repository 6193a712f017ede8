package swell

import (
	"math"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
)

// periodTiers maps the lower bound of each period band to its multiplier.
var periodTiers = []struct {
	atLeast    float64
	multiplier float64
}{
	{14, 1.15},
	{11, 1.1},
	{8, 1.0},
	{5, 0.8},
}

const shortPeriodMultiplier = 0.6

// PeriodMultiplier grows with period: longer-period swell carries more energy
// per unit height and breaks larger.
func PeriodMultiplier(period float64) float64 {
	for _, t := range periodTiers {
		if period >= t.atLeast {
			return t.multiplier
		}
	}
	return shortPeriodMultiplier
}

// DirectionFactor is the height reduction of the profile's direction band
// containing dir. Directions outside every band, and nil, give 1.0.
func DirectionFactor(dir *float64, p spot.Profile) float64 {
	if dir == nil {
		return 1.0
	}
	if b, ok := p.Band(*dir); ok {
		return b.HeightFactor
	}
	return 1.0
}

// Tide push conditions. Shallow rising water over the bar sharpens larger swell.
const (
	tidePushMaxHeight   = 3.0
	tidePushMinSize     = 3.0
	tidePushLargeSize   = 5.0
	tidePushFactor      = 1.15
	tidePushLargeFactor = 1.25
)

// TidePush returns the rising-tide amplification for a pre-tide height, or
// 1.0 when the push does not apply. The scorer reuses it for its score push.
func TidePush(tide domain.Tide, preTideHeight float64) float64 {
	if tide.Height == nil || tide.Phase != domain.TideRising {
		return 1.0
	}
	h := *tide.Height
	if h < 0 || h > tidePushMaxHeight || preTideHeight < tidePushMinSize {
		return 1.0
	}
	if preTideHeight > tidePushLargeSize {
		return tidePushLargeFactor
	}
	return tidePushFactor
}

// Estimate is the breaking height along with the factors behind it.
type Estimate struct {
	Height           float64 `json:"height_ft"`
	PreTideHeight    float64 `json:"pre_tide_height_ft"`
	SpotMultiplier   float64 `json:"spot_multiplier"`
	PeriodMultiplier float64 `json:"period_multiplier"`
	DirectionFactor  float64 `json:"direction_factor"`
	TideFactor       float64 `json:"tide_factor"`
}

// EstimateHeight computes the breaking height of c at the profile's spot. The
// component must be present; an absent component estimates to zero.
func EstimateHeight(c domain.SwellComponent, p spot.Profile, tide domain.Tide) Estimate {
	if !c.Present() {
		return Estimate{}
	}
	h, t := *c.Height, *c.Period

	e := Estimate{
		SpotMultiplier:   p.Multiplier.For(t),
		PeriodMultiplier: PeriodMultiplier(t),
		DirectionFactor:  DirectionFactor(c.Direction, p),
	}
	e.PreTideHeight = h * e.SpotMultiplier * e.PeriodMultiplier * e.DirectionFactor
	e.TideFactor = TidePush(tide, e.PreTideHeight)
	e.Height = round1(e.PreTideHeight * e.TideFactor)
	return e
}

// BreakingHeight returns the estimated breaking height in feet, rounded to 0.1.
func BreakingHeight(c domain.SwellComponent, p spot.Profile, tide domain.Tide) float64 {
	return EstimateHeight(c, p, tide).Height
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Package quality turns breaking height, swell direction, tide and wind into
// a 0-100 surf quality score with a rating label and a short reason.
//
// Score is a pure function. Every sub-scorer and the clamp cascade are
// exported so they can be exercised one rule at a time; logging lives in the
// Traced decorator, never inside the computation.
package quality

import (
	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
)

// Input is everything the scorer needs for one (spot, hour).
type Input struct {
	// BreakingHeight is the calculator's output in feet.
	BreakingHeight float64
	// Period of the dominant component in seconds.
	Period float64
	// Direction of the dominant component, nil when unknown.
	Direction *float64

	Tide domain.Tide
	Wind domain.Wind

	// Secondary is the underlying secondary component, if the forecast had one.
	Secondary *domain.SwellComponent

	// TidePush is the rising-tide factor the height calculator applied.
	// Zero and one both mean no push.
	TidePush float64
}

// Adjustment is a bonus, penalty or multiplier applied after the sub-score sum.
type Adjustment struct {
	Name   string  `json:"name"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// Result is the scorer's output.
type Result struct {
	Score       int                     `json:"score"`
	Rating      domain.Rating           `json:"rating"`
	Breakdown   domain.QualityBreakdown `json:"breakdown"`
	Reason      string                  `json:"reason"`
	WindTier    spot.WindTier           `json:"-"`
	Adjustments []Adjustment            `json:"adjustments,omitempty"`
	// Clamps lists the caps whose condition held, in cascade order.
	Clamps []string `json:"clamps,omitempty"`
}

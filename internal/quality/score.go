package quality

import (
	"math"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
)

const (
	minScore = 0
	maxScore = 100
)

// Score computes the quality result for one (spot, hour). It is deterministic
// and holds no state.
func Score(in Input, p spot.Profile) Result {
	c := newConditions(in, p)

	b := domain.QualityBreakdown{
		Size:      SizeScore(in.BreakingHeight),
		Direction: DirectionScore(in.Direction, p),
		Tide:      TideScore(in.Tide.Height, in.BreakingHeight, p),
		Wind:      WindScore(in.Wind.Speed, c.tier, in.BreakingHeight, p),
		Gust:      GustPenalty(in.Wind.Speed, in.Wind.Gust, c.tier),
	}

	running := float64(b.Size + b.Direction + b.Tide + b.Wind + b.Gust)
	running, applied := applyAdjustments(running, c)
	running, fired := applyClamps(running, c)

	final := finalScore(running)
	return Result{
		Score:       final,
		Rating:      RatingFor(final),
		Breakdown:   b,
		WindTier:    c.tier,
		Adjustments: applied,
		Clamps:      fired,
		Reason: reason(reasonFacts{
			height:    in.BreakingHeight,
			period:    in.Period,
			tide:      in.Tide.Height,
			breakdown: b,
			band:      c.band,
			inBand:    c.inBand,
			minPeriod: p.MinPeriod,
		}),
	}
}

// finalScore rounds half away from zero and clamps to [0, 100].
func finalScore(v float64) int {
	if math.IsNaN(v) {
		return minScore
	}
	r := int(math.Round(v))
	if r < minScore {
		return minScore
	}
	if r > maxScore {
		return maxScore
	}
	return r
}

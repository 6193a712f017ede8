package quality

import "github.com/couchcryptid/surf-forecast-service/internal/spot"

var sizeBands = []struct {
	below float64
	score int
}{
	{1, 5},
	{2, 20},
	{3, 35},
	{5, 50},
}

const maxSizeScore = 60

// SizeScore is a step function of breaking height in [5, 60].
func SizeScore(h float64) int {
	for _, b := range sizeBands {
		if h < b.below {
			return b.score
		}
	}
	return maxSizeScore
}

const outsideWindowPenalty = -10

// DirectionScore is penalty-only. A direction inside one of the profile's
// bands takes that band's score; otherwise it is 0 within tolerance of the
// ideal direction and -10 outside. Unknown direction scores 0.
func DirectionScore(dir *float64, p spot.Profile) int {
	if dir == nil {
		return 0
	}
	if b, ok := p.Band(*dir); ok {
		return b.Score
	}
	if p.InIdealWindow(*dir) {
		return 0
	}
	return outsideWindowPenalty
}

const (
	highTideBand        = 3.5
	shoreBreakTide      = 4.0
	harshHighTidePoint  = -15
	harshHighTideHeight = 3.0
)

var tideBands = []struct {
	below float64
	score int
}{
	{0.5, -5},
	{1.5, 10},
	{2.5, 15},
	{highTideBand, 5},
	{shoreBreakTide, -5},
}

const shoreBreakTideScore = -20

// TideScore buckets the tide height in feet. Profiles flagged with
// HarshHighTideSmallWaves score the 3.5-4.0 ft band at -15 when waves are
// under 3 ft. Unknown tide scores 0.
func TideScore(tide *float64, h float64, p spot.Profile) int {
	if tide == nil {
		return 0
	}
	t := *tide
	for _, b := range tideBands {
		if t < b.below {
			if b.below == shoreBreakTide && p.HarshHighTideSmallWaves && h < harshHighTideHeight {
				return harshHighTidePoint
			}
			return b.score
		}
	}
	return shoreBreakTideScore
}

// WindScore looks up the profile's speed bands for the tier. Unknown speed or
// tier scores 0.
func WindScore(speed *float64, tier spot.WindTier, h float64, p spot.Profile) int {
	if speed == nil || tier == spot.TierUnknown {
		return 0
	}
	for _, b := range p.WindBands(tier, h) {
		if *speed < b.Below {
			return b.Score
		}
	}
	return 0
}

const (
	gustSpread  = 5.0
	gustMinimum = 15.0
)

var gustBands = []struct {
	atMost  float64
	onshore int
	cross   int
}{
	{20, -10, -5},
	{25, -15, -8},
}

const (
	gustTailOnshore = -20
	gustTailCross   = -12
)

// GustPenalty applies when gusts run more than 5 kt above the sustained
// speed and exceed 15 kt, unless the wind is offshore. Onshore gusts are
// penalized harder than cross-shore ones.
func GustPenalty(speed, gust *float64, tier spot.WindTier) int {
	if speed == nil || gust == nil || tier.Offshore() {
		return 0
	}
	g := *gust
	if g-*speed <= gustSpread || g <= gustMinimum {
		return 0
	}
	onshore := tier == spot.TierOnshore
	for _, b := range gustBands {
		if g <= b.atMost {
			if onshore {
				return b.onshore
			}
			return b.cross
		}
	}
	if onshore {
		return gustTailOnshore
	}
	return gustTailCross
}

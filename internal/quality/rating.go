package quality

import (
	"strings"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
)

var ratingBands = []struct {
	atMost int
	rating domain.Rating
}{
	{39, domain.RatingDontBother},
	{59, domain.RatingFair},
	{75, domain.RatingGood},
	{90, domain.RatingGreat},
}

// RatingFor maps a final score to its label.
func RatingFor(score int) domain.Rating {
	for _, b := range ratingBands {
		if score <= b.atMost {
			return b.rating
		}
	}
	return domain.RatingEpic
}

const defaultReason = "Average conditions"

// reasonFacts is what the reason generator reads. It never sees the clamped score.
type reasonFacts struct {
	height    float64
	period    float64
	tide      *float64
	breakdown domain.QualityBreakdown
	band      spot.DirectionBand
	inBand    bool
	minPeriod float64
}

// reasonRules are evaluated in precedence order; every matching phrase is kept.
var reasonRules = []struct {
	phrase string
	when   func(f reasonFacts) bool
}{
	{"flat", func(f reasonFacts) bool { return f.height < 1 }},
	{"junk short-period swell", func(f reasonFacts) bool { return f.period < f.minPeriod }},
	{"blocked swell direction", func(f reasonFacts) bool { return f.breakdown.Direction <= -15 }},
	{"swell wrapping from the east", func(f reasonFacts) bool { return f.inBand && f.band.Kind == spot.BandEastWrap }},
	{"swell outside ideal window", func(f reasonFacts) bool { return !f.inBand && f.breakdown.Direction == outsideWindowPenalty }},
	{"onshore winds", func(f reasonFacts) bool { return f.breakdown.Wind <= -30 }},
	{"cross-shore winds", func(f reasonFacts) bool { return f.breakdown.Wind > -30 && f.breakdown.Wind < 0 }},
	{"favorable winds", func(f reasonFacts) bool { return f.breakdown.Wind >= 10 }},
	{"gusty", func(f reasonFacts) bool { return f.breakdown.Gust < 0 }},
	{"shore-break tide", func(f reasonFacts) bool { return f.tide != nil && *f.tide >= shoreBreakTide }},
	{"good tide", func(f reasonFacts) bool { return f.breakdown.Tide >= 15 }},
	{"solid size", func(f reasonFacts) bool { return f.height >= 3 }},
	{"long-period groundswell", func(f reasonFacts) bool { return f.period >= 13 }},
}

func reason(f reasonFacts) string {
	var phrases []string
	for _, r := range reasonRules {
		if r.when(f) {
			phrases = append(phrases, r.phrase)
		}
	}
	if len(phrases) == 0 {
		return defaultReason
	}
	out := strings.Join(phrases, ", ")
	return strings.ToUpper(out[:1]) + out[1:]
}

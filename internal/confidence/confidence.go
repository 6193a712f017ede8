// Package confidence compares the primary breaking height estimate against an
// independent verification estimate and summarizes agreement over a window.
package confidence

import (
	"math"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

const (
	highBelow = 0.5
	medBelow  = 1.5
)

// Classify compares two breaking height estimates in feet. The bool is false
// when either estimate is missing; absence is not a tier.
func Classify(primary, verification *float64) (domain.ConfidenceRecord, bool) {
	if primary == nil || verification == nil {
		return domain.ConfidenceRecord{}, false
	}
	// Heights carry 0.1 ft precision; tier the rounded difference so float
	// noise cannot move an exact 0.5 or 1.5 across a boundary.
	diff := round2(math.Abs(*primary - *verification))
	return domain.ConfidenceRecord{
		Primary:      *primary,
		Verification: *verification,
		Difference:   diff,
		Tier:         TierFor(diff),
	}, true
}

// TierFor maps an absolute difference to a tier. Boundaries are exclusive on
// the upper side: 0.5 is MED and 1.5 is LOW.
func TierFor(diff float64) domain.ConfidenceTier {
	switch {
	case diff < highBelow:
		return domain.ConfidenceHigh
	case diff < medBelow:
		return domain.ConfidenceMed
	default:
		return domain.ConfidenceLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// worstFirst orders tiers from least to most confident.
var worstFirst = []domain.ConfidenceTier{domain.ConfidenceLow, domain.ConfidenceMed, domain.ConfidenceHigh}

// Policy controls how a window of hourly tiers collapses to one overall tier.
type Policy struct {
	// MinCount is how many hours a tier needs before it can set the overall
	// tier. 1 means a single LOW hour makes the window LOW.
	MinCount int
}

// DefaultPolicy is the pessimistic rule.
var DefaultPolicy = Policy{MinCount: 1}

// Summary is the per-spot aggregate over a window of hours.
type Summary struct {
	Counts  map[domain.ConfidenceTier]int `json:"counts"`
	Total   int                           `json:"total"`
	Missing int                           `json:"missing"`
	Overall domain.ConfidenceTier         `json:"overall,omitempty"`
}

// Summarize counts tiers across records. Nil records are hours without a
// confidence tag and only increase Missing. Overall is the worst tier whose
// count reaches the policy's MinCount; if none does, the worst tier present
// is used. Overall is empty when no hour carries a tier.
func Summarize(records []*domain.ConfidenceRecord, policy Policy) Summary {
	s := Summary{Counts: make(map[domain.ConfidenceTier]int, len(worstFirst))}
	for _, r := range records {
		if r == nil {
			s.Missing++
			continue
		}
		s.Counts[r.Tier]++
		s.Total++
	}
	if s.Total == 0 {
		return s
	}

	minCount := policy.MinCount
	if minCount < 1 {
		minCount = 1
	}
	for _, tier := range worstFirst {
		if s.Counts[tier] >= minCount {
			s.Overall = tier
			return s
		}
	}
	for _, tier := range worstFirst {
		if s.Counts[tier] > 0 {
			s.Overall = tier
			return s
		}
	}
	return s
}

package quality

const (
	smallWaveBonusHeight = 2.5
	smallWaveBonusPeriod = 8.0

	organizedChopPeriod     = 7.0
	organizedSecondaryH     = 1.5
	organizedSecondaryT     = 8.0
	organizedSecondaryBonus = 10.0

	windSlopPeriod  = 5.0
	windSlopHeight  = 2.0
	windSlopPenalty = -15.0
)

// adjustment is one post-sum step. It returns the new score and whether it applied.
type adjustment struct {
	name  string
	apply func(score float64, c conditions) (float64, bool)
}

// adjustments run in order after the sub-scores and gust penalty are summed.
var adjustments = []adjustment{
	{name: "small-wave-offshore-bonus", apply: smallWaveBonus},
	{name: "tide-push", apply: tidePush},
	{name: "secondary-organization-bonus", apply: secondaryBonus},
	{name: "wind-slop", apply: windSlop},
}

func smallWaveBonus(score float64, c conditions) (float64, bool) {
	if c.in.BreakingHeight >= smallWaveBonusHeight || c.in.Period < smallWaveBonusPeriod {
		return score, false
	}
	bonus, ok := c.profile.SmallWaveBonus[c.tier]
	if !ok {
		return score, false
	}
	return score + float64(bonus), true
}

// tidePush scales a positive running score by the height calculator's tide factor.
func tidePush(score float64, c conditions) (float64, bool) {
	if c.in.TidePush <= 1 || score <= 0 {
		return score, false
	}
	return score * c.in.TidePush, true
}

func secondaryBonus(score float64, c conditions) (float64, bool) {
	s := c.in.Secondary
	if c.in.Period >= organizedChopPeriod || s == nil || s.Height == nil || s.Period == nil {
		return score, false
	}
	if *s.Height < organizedSecondaryH || *s.Period < organizedSecondaryT {
		return score, false
	}
	return score + organizedSecondaryBonus, true
}

func windSlop(score float64, c conditions) (float64, bool) {
	if c.in.Period > windSlopPeriod || c.in.BreakingHeight < windSlopHeight {
		return score, false
	}
	return score + windSlopPenalty, true
}

func applyAdjustments(score float64, c conditions) (float64, []Adjustment) {
	var applied []Adjustment
	for _, a := range adjustments {
		next, ok := a.apply(score, c)
		if !ok {
			continue
		}
		applied = append(applied, Adjustment{Name: a.name, Before: score, After: next})
		score = next
	}
	return score, applied
}

package quality

import "github.com/couchcryptid/surf-forecast-service/internal/spot"

// conditions are the facts shared by the adjustment and clamp rules, derived
// once per score.
type conditions struct {
	in      Input
	profile spot.Profile
	tier    spot.WindTier
	band    spot.DirectionBand
	inBand  bool
	// deviation from the offshore axis; valid only when hasWindDir.
	deviation  float64
	hasWindDir bool
}

func newConditions(in Input, p spot.Profile) conditions {
	c := conditions{in: in, profile: p, tier: p.ClassifyWind(in.Wind.Direction)}
	if in.Direction != nil {
		c.band, c.inBand = p.Band(*in.Direction)
	}
	if in.Wind.Direction != nil {
		c.deviation = p.WindDeviation(*in.Wind.Direction)
		c.hasWindDir = true
	}
	return c
}

func (c conditions) speedAbove(kt float64) bool {
	return c.in.Wind.Speed != nil && *c.in.Wind.Speed > kt
}

// clampRule is one named rule of the cap cascade. limit returns the ceiling and
// whether the rule's condition holds.
type clampRule struct {
	name  string
	limit func(c conditions) (int, bool)
}

const (
	smallWaveHeight  = 2.0
	smallWaveCap     = 30
	lenientMinPeriod = 6.0
	lightOnshoreLow  = 4.3
	lightOnshoreHigh = 6.0
	lightOnshoreCap  = 50
	onshoreCap       = 39
	junkOnshoreSpeed = 10.0
	junkCap          = 20
	moderateDevSpeed = 15.0
	moderateDevAngle = 45.0
	moderateDevCap   = 60
	strongDevSpeed   = 20.0
	strongDevAngle   = 30.0
	strongDevCap     = 39
)

// Clamp names, in cascade order.
const (
	ClampSmallWave     = "small-wave"
	ClampDirectionBand = "direction-band"
	ClampOnshore       = "onshore"
	ClampWindDeviation = "wind-deviation"
	ClampJunk          = "junk"
)

// cascade is the ordered clamp table. Each rule can only lower the score.
var cascade = []clampRule{
	{name: ClampSmallWave, limit: smallWaveClamp},
	{name: ClampDirectionBand, limit: directionBandClamp},
	{name: ClampOnshore, limit: onshoreClamp},
	{name: ClampWindDeviation, limit: deviationClamp},
	{name: ClampJunk, limit: junkClamp},
}

func smallWaveClamp(c conditions) (int, bool) {
	if c.in.BreakingHeight >= smallWaveHeight {
		return 0, false
	}
	if c.profile.SmallWaveCaps != nil && c.tier.Offshore() && c.in.Period >= lenientMinPeriod {
		if cp, ok := c.profile.SmallWaveCaps[c.tier]; ok {
			return cp, true
		}
	}
	return smallWaveCap, true
}

func directionBandClamp(c conditions) (int, bool) {
	if !c.inBand {
		return 0, false
	}
	return c.band.Cap, true
}

func onshoreClamp(c conditions) (int, bool) {
	if c.tier != spot.TierOnshore || c.in.Wind.Speed == nil {
		return 0, false
	}
	s := *c.in.Wind.Speed
	switch {
	case s > lightOnshoreHigh:
		return onshoreCap, true
	case s >= lightOnshoreLow:
		return lightOnshoreCap, true
	default:
		return 0, false
	}
}

func deviationClamp(c conditions) (int, bool) {
	if !c.hasWindDir || c.tier.Beneficial() {
		return 0, false
	}
	switch {
	case c.speedAbove(strongDevSpeed) && c.deviation > strongDevAngle:
		return strongDevCap, true
	case c.speedAbove(moderateDevSpeed) && c.deviation > moderateDevAngle:
		return moderateDevCap, true
	default:
		return 0, false
	}
}

func junkClamp(c conditions) (int, bool) {
	if c.in.BreakingHeight >= smallWaveHeight || c.tier != spot.TierOnshore || !c.speedAbove(junkOnshoreSpeed) {
		return 0, false
	}
	return junkCap, true
}

// ApplyClamps runs the cascade over score and returns the capped score along
// with the names of the rules whose condition held.
func ApplyClamps(score float64, in Input, p spot.Profile) (float64, []string) {
	return applyClamps(score, newConditions(in, p))
}

func applyClamps(score float64, c conditions) (float64, []string) {
	var fired []string
	for _, rule := range cascade {
		cp, ok := rule.limit(c)
		if !ok {
			continue
		}
		fired = append(fired, rule.name)
		if float64(cp) < score {
			score = float64(cp)
		}
	}
	return score, fired
}

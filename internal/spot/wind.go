package spot

import "github.com/couchcryptid/surf-forecast-service/internal/domain"

// WindTier classifies wind direction relative to a spot's offshore axis.
type WindTier int

const (
	TierUnknown WindTier = iota
	TierPremiumOffshore
	TierSolidOffshore
	TierWeakOffshore
	TierSideOffshoreGood
	TierSideOffshore
	TierSideShore
	TierBadSideShore
	TierOnshore
)

var tierNames = map[WindTier]string{
	TierUnknown:          "unknown",
	TierPremiumOffshore:  "premium-offshore",
	TierSolidOffshore:    "solid-offshore",
	TierWeakOffshore:     "weak-offshore",
	TierSideOffshoreGood: "side-offshore-good",
	TierSideOffshore:     "side-offshore",
	TierSideShore:        "side-shore",
	TierBadSideShore:     "bad-side-shore",
	TierOnshore:          "onshore",
}

func (t WindTier) String() string {
	return tierNames[t]
}

// Offshore reports whether the tier is one of the three offshore sectors.
func (t WindTier) Offshore() bool {
	return t == TierPremiumOffshore || t == TierSolidOffshore || t == TierWeakOffshore
}

// Beneficial reports whether the tier is offshore or side-offshore.
func (t WindTier) Beneficial() bool {
	return t.Offshore() || t == TierSideOffshoreGood || t == TierSideOffshore
}

// tierBoundaries maps the maximum deviation from the offshore axis (inclusive)
// to a tier. Anything beyond the last row is onshore.
var tierBoundaries = []struct {
	maxDeviation float64
	tier         WindTier
}{
	{22.5, TierPremiumOffshore},
	{45, TierSolidOffshore},
	{67.5, TierWeakOffshore},
	{78.75, TierSideOffshoreGood},
	{90, TierSideOffshore},
	{112.5, TierSideShore},
	{135, TierBadSideShore},
}

// ClassifyWind returns the wind tier for a wind direction at this spot.
// A nil direction is TierUnknown.
func (p Profile) ClassifyWind(direction *float64) WindTier {
	if direction == nil {
		return TierUnknown
	}
	dev := p.WindDeviation(*direction)
	for _, b := range tierBoundaries {
		if dev <= b.maxDeviation {
			return b.tier
		}
	}
	return TierOnshore
}

// WindDeviation is the angle between a wind direction and the offshore axis.
func (p Profile) WindDeviation(direction float64) float64 {
	return domain.AngularDistance(direction, p.OffshoreAxis)
}

const weakOffshoreSizeThreshold = 3.0

// genericWind is the shared tier table. Good tiers improve then plateau with
// speed; bad tiers worsen monotonically.
var genericWind = WindTable{
	TierPremiumOffshore:  {{5, 10}, {10, 15}, {20, 20}, {inf, 20}},
	TierSolidOffshore:    {{5, 8}, {10, 12}, {20, 15}, {inf, 15}},
	TierWeakOffshore:     {{5, 5}, {10, 8}, {20, 10}, {inf, 10}},
	TierSideOffshoreGood: {{5, 2}, {10, 4}, {15, 5}, {inf, 5}},
	TierSideOffshore:     {{5, 0}, {10, 2}, {15, 3}, {inf, 3}},
	TierSideShore:        {{5, -5}, {10, -15}, {15, -25}, {inf, -35}},
	TierBadSideShore:     {{5, -10}, {10, -20}, {15, -35}, {inf, -45}},
	TierOnshore:          {{5, -15}, {10, -30}, {15, -45}, {20, -55}, {inf, -60}},
}

var weakOffshoreSmallWaves = []SpeedBand{{5, 3}, {10, 4}, {20, 5}, {inf, 5}}

// crossShoreTolerant is for beaches whose orientation shrugs off side winds.
var crossShoreTolerant = WindTable{
	TierSideOffshoreGood: {{5, 5}, {10, 8}, {15, 10}, {inf, 10}},
	TierSideOffshore:     {{5, 3}, {10, 5}, {15, 5}, {inf, 5}},
	TierSideShore:        {{5, 0}, {10, -5}, {15, -12}, {inf, -20}},
	TierBadSideShore:     {{5, -5}, {10, -12}, {15, -22}, {inf, -30}},
}

// mergeWind returns the generic table with override rows replacing tiers.
func mergeWind(overrides WindTable) WindTable {
	out := make(WindTable, len(genericWind))
	for tier, bands := range genericWind {
		out[tier] = bands
	}
	for tier, bands := range overrides {
		out[tier] = bands
	}
	return out
}

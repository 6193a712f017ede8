// Package spot holds the static per-location configuration the forecast
// engine is calibrated against. Profiles are built once at process start from
// fixed tables and never mutated; all spot-specific behavior in the scorer is
// read from the profile rather than branched on spot names.
package spot

import (
	"math"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

// BandKind groups direction bands by how the coastline shadows them.
type BandKind int

const (
	BandNone BandKind = iota
	// BandBlocked is landmass-shadowed: swell barely reaches the beach.
	BandBlocked
	// BandBlockedAdjacent sits next to the blocked quadrant.
	BandBlockedAdjacent
	// BandEastWrap is the shadow-adjacent sector on the opposite side, where
	// swell wraps in with graduated losses.
	BandEastWrap
)

func (k BandKind) String() string {
	switch k {
	case BandBlocked:
		return "blocked"
	case BandBlockedAdjacent:
		return "blocked-adjacent"
	case BandEastWrap:
		return "east-wrap"
	default:
		return "none"
	}
}

// DirectionBand is one row of the swell direction table. The arc is the
// half-open [From, To) in degrees. HeightFactor feeds the breaking height
// calculator; Score and Cap feed the quality scorer.
type DirectionBand struct {
	Kind         BandKind
	From, To     float64
	HeightFactor float64
	Score        int
	Cap          int
}

// Contains reports whether a swell direction falls inside the band.
func (b DirectionBand) Contains(deg float64) bool {
	return domain.InArc(deg, b.From, b.To)
}

// SpotMultiplier is a period-tiered amplification constant. Long-period swell
// at or above Threshold engages effects such as channel refraction that
// shorter swell does not.
type SpotMultiplier struct {
	Short     float64
	Long      float64
	Threshold float64
}

// For returns the multiplier that applies to a swell period.
func (m SpotMultiplier) For(period float64) float64 {
	if period >= m.Threshold {
		return m.Long
	}
	return m.Short
}

// SpeedBand scores wind speeds strictly below Below knots. The last band of a
// table uses +Inf.
type SpeedBand struct {
	Below float64
	Score int
}

// WindTable maps each wind tier to its speed bands.
type WindTable map[WindTier][]SpeedBand

// Profile is the immutable configuration of one surf location.
type Profile struct {
	Key  string
	Name string

	IdealDirection float64
	Tolerance      float64
	MinPeriod      float64

	// OffshoreAxis is the wind direction (from) blowing straight offshore.
	OffshoreAxis float64

	Multiplier     SpotMultiplier
	DirectionBands []DirectionBand

	// Wind is the resolved tier table: generic rows merged with overrides.
	Wind WindTable
	// WeakOffshoreSmall replaces the weak-offshore row when waves are small.
	WeakOffshoreSmall []SpeedBand

	// HarshHighTideSmallWaves penalizes small waves harder in the 3.5–4.0 ft tide band.
	HarshHighTideSmallWaves bool
	// SmallWaveCaps holds lenient small-wave caps per offshore tier; nil means flat cap.
	SmallWaveCaps map[WindTier]int
	// SmallWaveBonus holds the small-wave offshore bonus per offshore tier; nil means none.
	SmallWaveBonus map[WindTier]int
}

// Band returns the direction band containing deg, if any.
func (p Profile) Band(deg float64) (DirectionBand, bool) {
	for _, b := range p.DirectionBands {
		if b.Contains(deg) {
			return b, true
		}
	}
	return DirectionBand{}, false
}

// WindBands returns the speed bands for a tier, honoring the small-wave
// variant of the weak offshore row.
func (p Profile) WindBands(tier WindTier, breakingHeight float64) []SpeedBand {
	if tier == TierWeakOffshore && breakingHeight < weakOffshoreSizeThreshold && p.WeakOffshoreSmall != nil {
		return p.WeakOffshoreSmall
	}
	return p.Wind[tier]
}

// InIdealWindow reports whether deg is within the spot's swell tolerance.
func (p Profile) InIdealWindow(deg float64) bool {
	return domain.AngularDistance(deg, p.IdealDirection) <= p.Tolerance
}

var inf = math.Inf(1)

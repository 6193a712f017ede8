package spot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownSpot is returned for identifiers that match no profile. Callers
// must abort the computation for that spot rather than fall back to another.
var ErrUnknownSpot = errors.New("unknown spot")

// southCoastBands is the swell direction table for the south-facing beaches.
// West of the shore is landmass-shadowed; east swell wraps in with graduated
// losses that ease toward the ideal window.
var southCoastBands = []DirectionBand{
	{Kind: BandBlocked, From: 240, To: 315, HeightFactor: 0.10, Score: -18, Cap: 35},
	{Kind: BandBlockedAdjacent, From: 225, To: 240, HeightFactor: 0.50, Score: -15, Cap: 35},
	{Kind: BandEastWrap, From: 75, To: 90, HeightFactor: 0.65, Score: -12, Cap: 42},
	{Kind: BandEastWrap, From: 90, To: 105, HeightFactor: 0.80, Score: -8, Cap: 48},
	{Kind: BandEastWrap, From: 105, To: 120, HeightFactor: 0.92, Score: -4, Cap: 55},
}

var lenientSmallWaveCaps = map[WindTier]int{
	TierPremiumOffshore: 60,
	TierSolidOffshore:   50,
	TierWeakOffshore:    42,
}

var smallWaveOffshoreBonus = map[WindTier]int{
	TierPremiumOffshore: 10,
	TierSolidOffshore:   7,
	TierWeakOffshore:    4,
}

func defaultProfiles() []Profile {
	return []Profile{
		{
			Key:                     "matunuck",
			Name:                    "Matunuck",
			IdealDirection:          185,
			Tolerance:               55,
			MinPeriod:               6,
			OffshoreAxis:            10,
			Multiplier:              SpotMultiplier{Short: 0.90, Long: 1.15, Threshold: 12},
			DirectionBands:          southCoastBands,
			Wind:                    mergeWind(nil),
			WeakOffshoreSmall:       weakOffshoreSmallWaves,
			SmallWaveCaps:           lenientSmallWaveCaps,
			SmallWaveBonus:          smallWaveOffshoreBonus,
			HarshHighTideSmallWaves: false,
		},
		{
			Key:                     "narragansett",
			Name:                    "Narragansett Town Beach",
			IdealDirection:          165,
			Tolerance:               50,
			MinPeriod:               5,
			OffshoreAxis:            315,
			Multiplier:              SpotMultiplier{Short: 1.00, Long: 1.05, Threshold: 11},
			DirectionBands:          southCoastBands,
			Wind:                    mergeWind(crossShoreTolerant),
			WeakOffshoreSmall:       weakOffshoreSmallWaves,
			HarshHighTideSmallWaves: true,
		},
		{
			Key:                     "second-beach",
			Name:                    "Second Beach",
			IdealDirection:          180,
			Tolerance:               45,
			MinPeriod:               6,
			OffshoreAxis:            0,
			Multiplier:              SpotMultiplier{Short: 0.85, Long: 0.95, Threshold: 12},
			DirectionBands:          southCoastBands,
			Wind:                    mergeWind(nil),
			WeakOffshoreSmall:       weakOffshoreSmallWaves,
			SmallWaveCaps:           lenientSmallWaveCaps,
			HarshHighTideSmallWaves: true,
		},
	}
}

// defaultAliases maps short keys and common names to canonical keys.
var defaultAliases = map[string]string{
	"mat":                     "matunuck",
	"matunuck point":          "matunuck",
	"ntb":                     "narragansett",
	"town beach":              "narragansett",
	"narragansett town beach": "narragansett",
	"second":                  "second-beach",
	"sachuest":                "second-beach",
	"second beach":            "second-beach",
}

// Registry resolves identifiers to profiles. It is read-only after construction.
type Registry struct {
	profiles map[string]Profile
	aliases  map[string]string
}

// NewRegistry builds a registry over the given profiles. Each profile's key
// and lower-cased name are registered, plus the alias table.
func NewRegistry(profiles []Profile, aliases map[string]string) *Registry {
	r := &Registry{
		profiles: make(map[string]Profile, len(profiles)),
		aliases:  make(map[string]string, len(aliases)+len(profiles)),
	}
	for _, p := range profiles {
		r.profiles[p.Key] = p
		r.aliases[normalize(p.Name)] = p.Key
	}
	for alias, key := range aliases {
		r.aliases[normalize(alias)] = key
	}
	return r
}

// Default returns the registry of the three calibrated spots.
func Default() *Registry {
	return NewRegistry(defaultProfiles(), defaultAliases)
}

// Lookup resolves a canonical key, name, or alias. Unknown identifiers return
// ErrUnknownSpot wrapped with the identifier.
func (r *Registry) Lookup(identifier string) (Profile, error) {
	id := normalize(identifier)
	if p, ok := r.profiles[id]; ok {
		return p, nil
	}
	if key, ok := r.aliases[id]; ok {
		if p, ok := r.profiles[key]; ok {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownSpot, identifier)
}

// Keys returns the canonical keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package spot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	reg := Default()

	tests := []struct {
		id   string
		want string
	}{
		{"matunuck", "matunuck"},
		{"MAT", "matunuck"},
		{" Matunuck Point ", "matunuck"},
		{"ntb", "narragansett"},
		{"Narragansett Town Beach", "narragansett"},
		{"town beach", "narragansett"},
		{"second", "second-beach"},
		{"Sachuest", "second-beach"},
		{"second-beach", "second-beach"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, err := reg.Lookup(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Key)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Default().Lookup("pipeline")
	require.ErrorIs(t, err, ErrUnknownSpot)
	assert.Contains(t, err.Error(), "pipeline")
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"matunuck", "narragansett", "second-beach"}, Default().Keys())
}

func TestProfileBand(t *testing.T) {
	p, err := Default().Lookup("matunuck")
	require.NoError(t, err)

	tests := []struct {
		deg  float64
		kind BandKind
		cap  int
	}{
		{270, BandBlocked, 35},
		{240, BandBlocked, 35},
		{230, BandBlockedAdjacent, 35},
		{80, BandEastWrap, 42},
		{95, BandEastWrap, 48},
		{110, BandEastWrap, 55},
	}
	for _, tt := range tests {
		b, ok := p.Band(tt.deg)
		require.True(t, ok, "deg %v", tt.deg)
		assert.Equal(t, tt.kind, b.Kind, "deg %v", tt.deg)
		assert.Equal(t, tt.cap, b.Cap, "deg %v", tt.deg)
	}

	_, ok := p.Band(185)
	assert.False(t, ok)
	_, ok = p.Band(315)
	assert.False(t, ok)
}

func TestInIdealWindow(t *testing.T) {
	p, err := Default().Lookup("second-beach")
	require.NoError(t, err)

	assert.True(t, p.InIdealWindow(180))
	assert.True(t, p.InIdealWindow(225))
	assert.False(t, p.InIdealWindow(226))
}

func TestSpotMultiplier(t *testing.T) {
	m := SpotMultiplier{Short: 0.9, Long: 1.15, Threshold: 12}
	assert.Equal(t, 0.9, m.For(11.9))
	assert.Equal(t, 1.15, m.For(12))
}

func TestClassifyWind(t *testing.T) {
	// Offshore axis 10 degrees.
	p, err := Default().Lookup("matunuck")
	require.NoError(t, err)

	tests := []struct {
		dir  float64
		want WindTier
	}{
		{10, TierPremiumOffshore},
		{350, TierPremiumOffshore},
		{45, TierSolidOffshore},
		{70, TierWeakOffshore},
		{85, TierSideOffshoreGood},
		{100, TierSideOffshore},
		{120, TierSideShore},
		{140, TierBadSideShore},
		{190, TierOnshore},
	}
	for _, tt := range tests {
		d := tt.dir
		assert.Equal(t, tt.want, p.ClassifyWind(&d), "dir %v", tt.dir)
	}
	assert.Equal(t, TierUnknown, p.ClassifyWind(nil))
}

func TestWindBands(t *testing.T) {
	reg := Default()
	mat, err := reg.Lookup("matunuck")
	require.NoError(t, err)
	ntb, err := reg.Lookup("narragansett")
	require.NoError(t, err)

	assert.Equal(t, weakOffshoreSmallWaves, mat.WindBands(TierWeakOffshore, 2.5))
	assert.Equal(t, genericWind[TierWeakOffshore], mat.WindBands(TierWeakOffshore, 3))

	assert.Equal(t, genericWind[TierSideShore], mat.WindBands(TierSideShore, 4))
	assert.Equal(t, crossShoreTolerant[TierSideShore], ntb.WindBands(TierSideShore, 4))
	assert.Equal(t, genericWind[TierOnshore], ntb.WindBands(TierOnshore, 4))
}

func TestTierPredicates(t *testing.T) {
	assert.True(t, TierWeakOffshore.Offshore())
	assert.False(t, TierSideOffshoreGood.Offshore())
	assert.True(t, TierSideOffshore.Beneficial())
	assert.False(t, TierSideShore.Beneficial())
	assert.Equal(t, "onshore", TierOnshore.String())
}

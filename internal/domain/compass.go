package domain

import (
	"math"
	"strings"
)

const (
	// MetersToFeet converts NDBC wave heights.
	MetersToFeet = 3.28084
	// MetersPerSecondToKnots converts NDBC wind speeds.
	MetersPerSecondToKnots = 1.94384
)

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

var compassTable = func() map[string]float64 {
	m := make(map[string]float64, len(compassPoints))
	for i, p := range compassPoints {
		m[p] = float64(i) * 22.5
	}
	return m
}()

// CompassDegrees converts a 16-point compass token (e.g. "WNW") to degrees.
// Unrecognized tokens return nil.
func CompassDegrees(token string) *float64 {
	deg, ok := compassTable[strings.ToUpper(strings.TrimSpace(token))]
	if !ok {
		return nil
	}
	return &deg
}

// CompassPoint returns the nearest 16-point compass token for a bearing.
func CompassPoint(deg float64) string {
	idx := int(math.Round(NormalizeDegrees(deg)/22.5)) % len(compassPoints)
	return compassPoints[idx]
}

// NormalizeDegrees maps any bearing into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// AngularDistance returns the smallest angle between two bearings, in [0, 180].
// It is symmetric and wraps correctly: AngularDistance(350, 10) == 20.
func AngularDistance(a, b float64) float64 {
	d := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// InArc reports whether deg lies in the half-open arc [from, to) measured
// clockwise. Arcs may cross north, e.g. [330, 30).
func InArc(deg, from, to float64) bool {
	d := NormalizeDegrees(deg)
	f := NormalizeDegrees(from)
	t := NormalizeDegrees(to)
	if f <= t {
		return d >= f && d < t
	}
	return d >= f || d < t
}

// Package domain holds the value types shared by the surf forecast pipeline:
// swell components, wind and tide observations, buoy readings, and the
// per-(spot, hour) forecast outputs.
//
// # Units
//
// All heights are feet, periods seconds, wind speeds knots. Directions are
// degrees clockwise from true north and always describe where the swell or
// wind is coming FROM:
//
//	swell 180°  →  arriving from due south
//	wind    0°  →  blowing from the north (offshore on a south-facing beach)
//
// Upstream feeds that report meters or meters/second are converted at the
// adapter boundary (see [MetersToFeet] and [MetersPerSecondToKnots]).
//
// # Missing values
//
// Optional measurements are *float64. nil means "no signal" and must never be
// read as zero: a nil swell height is "no data", while 0 ft is "flat". The
// compass table in [CompassDegrees] returns nil for tokens it does not know.
//
// # Compass directions
//
// Cardinal tokens use the 16-point rose: N, NNE, NE, ENE, E, ESE, SE, SSE,
// S, SSW, SW, WSW, W, WNW, NW, NNW. Each point is 22.5° apart starting at N=0.
//
// # Record IDs
//
// Forecast record IDs are name-based (v5) UUIDs of spot|hour. Recomputing the
// same hour yields the same ID, so downstream upserts replace rather than
// duplicate a prior forecast. See [RecordID].
package domain

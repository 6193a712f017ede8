// Package buoy parses NDBC realtime text feeds into readings and keeps the
// latest reading in a shared TTL cache.
//
// Two feeds are read per station. The spectral summary (<station>.spec)
// carries the separated swell and wind-wave trains; the standard
// meteorological feed (<station>.txt) carries wind. Both list observations
// newest first.
package buoy

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/swell"
)

// Feed names one of a station's realtime files by its extension.
type Feed string

const (
	FeedSpectral       Feed = "spec"
	FeedMeteorological Feed = "txt"
)

// ErrNoValidReading is returned when no line of a feed passes validation.
var ErrNoValidReading = errors.New("no valid reading")

// missingTokens are the placeholders NDBC writes for unavailable values.
var missingTokens = map[string]struct{}{
	"MM":     {},
	"-":      {},
	"--":     {},
	"N/A":    {},
	"999":    {},
	"999.0":  {},
	"99.0":   {},
	"99.00":  {},
	"9999.0": {},
}

var steepnessClasses = map[string]struct{}{
	"SWELL":      {},
	"AVERAGE":    {},
	"STEEP":      {},
	"VERY_STEEP": {},
}

// Spectral feed columns: YY MM DD hh mm WVHT SwH SwP WWH WWP SwD WWD STEEPNESS APD MWD.
const (
	specWVHT = 5 + iota
	specSwH
	specSwP
	specWWH
	specWWP
	specSwD
	specWWD
	specSteepness
	specMinFields = specWWD + 1
)

// Standard meteorological columns: YY MM DD hh mm WDIR WSPD GST ...
const (
	metWDIR = 5 + iota
	metWSPD
	metGST
	metMinFields = metWSPD + 1
)

// ParseSpectral returns the newest line with both a swell height and a swell
// period. Lines missing either are skipped rather than turned into partial
// readings.
func ParseSpectral(data []byte) (*domain.BuoyReading, error) {
	var found *domain.BuoyReading
	err := scanLines(data, func(f []string) bool {
		if len(f) < specMinFields {
			return false
		}
		ts, err := parseTimestamp(f)
		if err != nil {
			return false
		}
		swh, swp := meters(f[specSwH]), number(f[specSwP])
		if swh == nil || swp == nil {
			return false
		}

		r := &domain.BuoyReading{
			Timestamp:         ts,
			SignificantHeight: meters(f[specWVHT]),
			SwellHeight:       swh,
			SwellPeriod:       swp,
			SwellDirection:    direction(f[specSwD]),
			WindWaveHeight:    meters(f[specWWH]),
			WindWavePeriod:    number(f[specWWP]),
			WindWaveDirection: direction(f[specWWD]),
		}
		if len(f) > specSteepness {
			r.Steepness = steepness(f[specSteepness])
		}
		setDominant(r)
		found = r
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("parse spectral feed: %w", err)
	}
	if found == nil {
		return nil, fmt.Errorf("parse spectral feed: %w", ErrNoValidReading)
	}
	return found, nil
}

// MetReading is the wind portion of the standard meteorological feed.
type MetReading struct {
	Timestamp time.Time
	Wind      domain.Wind
}

// ParseMeteorological returns wind from the newest line with a wind speed.
func ParseMeteorological(data []byte) (*MetReading, error) {
	var found *MetReading
	err := scanLines(data, func(f []string) bool {
		if len(f) < metMinFields {
			return false
		}
		ts, err := parseTimestamp(f)
		if err != nil {
			return false
		}
		speed := knots(f[metWSPD])
		if speed == nil {
			return false
		}
		m := &MetReading{
			Timestamp: ts,
			Wind:      domain.Wind{Speed: speed, Direction: direction(f[metWDIR])},
		}
		if len(f) > metGST {
			m.Wind.Gust = knots(f[metGST])
		}
		found = m
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("parse meteorological feed: %w", err)
	}
	if found == nil {
		return nil, fmt.Errorf("parse meteorological feed: %w", ErrNoValidReading)
	}
	return found, nil
}

// scanLines calls accept with the fields of each data line until it returns true.
func scanLines(data []byte, accept func(fields []string) bool) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if accept(strings.Fields(line)) {
			return nil
		}
	}
	return sc.Err()
}

// parseTimestamp reads the five leading UTC columns. Two-digit years are 20YY.
func parseTimestamp(f []string) (time.Time, error) {
	var v [5]int
	for i := range v {
		n, err := strconv.Atoi(f[i])
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp column %d: %w", i, err)
		}
		v[i] = n
	}
	year := v[0]
	switch len(f[0]) {
	case 2:
		year += 2000
	case 4:
	default:
		return time.Time{}, fmt.Errorf("invalid year %q", f[0])
	}
	if v[1] < 1 || v[1] > 12 || v[2] < 1 || v[2] > 31 || v[3] > 23 || v[4] > 59 {
		return time.Time{}, fmt.Errorf("invalid timestamp %v", f[:5])
	}
	return time.Date(year, time.Month(v[1]), v[2], v[3], v[4], 0, 0, time.UTC), nil
}

func isMissing(tok string) bool {
	_, ok := missingTokens[strings.ToUpper(tok)]
	return ok
}

// number parses a numeric column. Sentinels and garbage are nil.
func number(tok string) *float64 {
	if isMissing(tok) {
		return nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func meters(tok string) *float64 {
	v := number(tok)
	if v == nil {
		return nil
	}
	ft := *v * domain.MetersToFeet
	return &ft
}

func knots(tok string) *float64 {
	v := number(tok)
	if v == nil {
		return nil
	}
	kt := *v * domain.MetersPerSecondToKnots
	return &kt
}

// direction accepts a 16-point compass token or numeric degrees in [0, 360].
func direction(tok string) *float64 {
	if isMissing(tok) {
		return nil
	}
	if deg := domain.CompassDegrees(tok); deg != nil {
		return deg
	}
	v := number(tok)
	if v == nil || *v < 0 || *v > 360 {
		return nil
	}
	deg := domain.NormalizeDegrees(*v)
	return &deg
}

func steepness(tok string) *string {
	s := strings.ToUpper(tok)
	if _, ok := steepnessClasses[s]; !ok {
		return nil
	}
	return &s
}

// setDominant fills the dominant fields from the swell and wind-wave trains.
func setDominant(r *domain.BuoyReading) {
	d, ok := swell.SelectBuoyDominant(r.Swell(), r.WindWave())
	if !ok {
		return
	}
	r.DominantHeight = d.Height
	r.DominantPeriod = d.Period
	r.DominantDirection = d.Direction
}

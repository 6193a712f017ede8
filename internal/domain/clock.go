package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Only record stamping reads it; the forecast math never does.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for stamping. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock in UTC.
func Now() time.Time {
	return clock.Now().UTC()
}

// StampRecord wraps an output with its deterministic ID and generation time.
func StampRecord(out ForecastOutput) ForecastRecord {
	return ForecastRecord{
		ID:             RecordID(out.Spot, out.Time),
		GeneratedAt:    Now(),
		ForecastOutput: out,
	}
}

// Package tide derives the water level and phase for an instant from a
// station's high/low predictions.
//
// Between two consecutive extremes the level follows half a cosine wave:
//
//	h(t) = h0 + (h1-h0) · (1 - cos(π·f)) / 2,   f = (t-t0)/(t1-t0)
//
// which is flat at each extreme and steepest at mid-tide. Within
// SlackWindow of an extreme the phase is slack; otherwise it is rising when
// the next extreme is higher and falling when it is lower.
package tide

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

// SlackWindow is the distance from a high or low within which the tide is slack.
const SlackWindow = 20 * time.Minute

// EventType marks a prediction as a high or a low.
type EventType string

const (
	High EventType = "H"
	Low  EventType = "L"
)

// Event is one predicted high or low water, height in feet above MLLW.
type Event struct {
	Time   time.Time
	Height float64
	Type   EventType
}

// Source returns the high/low predictions covering day for a station,
// including at least the extremes either side of the day's boundaries.
type Source interface {
	Predictions(ctx context.Context, station string, day time.Time) ([]Event, error)
}

// At interpolates the tide at t. It returns false when t is not bracketed by
// two predictions.
func At(events []Event, t time.Time) (domain.Tide, bool) {
	if len(events) < 2 {
		return domain.Tide{}, false
	}
	sorted := slices.SortedFunc(slices.Values(events), func(a, b Event) int {
		return a.Time.Compare(b.Time)
	})

	for i := 1; i < len(sorted); i++ {
		prev, next := sorted[i-1], sorted[i]
		if t.Before(prev.Time) || t.After(next.Time) {
			continue
		}
		span := next.Time.Sub(prev.Time)
		if span <= 0 {
			continue
		}
		f := float64(t.Sub(prev.Time)) / float64(span)
		h := prev.Height + (next.Height-prev.Height)*(1-math.Cos(math.Pi*f))/2
		h = math.Round(h*100) / 100
		return domain.Tide{Height: &h, Phase: phase(prev, next, t)}, true
	}
	return domain.Tide{}, false
}

func phase(prev, next Event, t time.Time) domain.TidePhase {
	if t.Sub(prev.Time) <= SlackWindow || next.Time.Sub(t) <= SlackWindow {
		return domain.TideSlack
	}
	if next.Height > prev.Height {
		return domain.TideRising
	}
	return domain.TideFalling
}

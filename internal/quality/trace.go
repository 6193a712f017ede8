package quality

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/surf-forecast-service/internal/spot"
)

// Scorer computes a quality result. Score itself satisfies it via ScorerFunc.
type Scorer interface {
	Score(in Input, p spot.Profile) Result
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(in Input, p spot.Profile) Result

func (f ScorerFunc) Score(in Input, p spot.Profile) Result {
	return f(in, p)
}

// Pure is the undecorated scorer.
var Pure Scorer = ScorerFunc(Score)

type tracedScorer struct {
	next   Scorer
	logger *slog.Logger
}

// Traced wraps a scorer and logs each breakdown at debug level. The wrapped
// scorer's result is returned unchanged.
func Traced(next Scorer, logger *slog.Logger) Scorer {
	return &tracedScorer{next: next, logger: logger}
}

func (t *tracedScorer) Score(in Input, p spot.Profile) Result {
	r := t.next.Score(in, p)
	if !t.logger.Enabled(context.Background(), slog.LevelDebug) {
		return r
	}
	adj := make([]string, 0, len(r.Adjustments))
	for _, a := range r.Adjustments {
		adj = append(adj, a.Name)
	}
	t.logger.Debug("quality scored",
		"spot", p.Key,
		"breaking_height", in.BreakingHeight,
		"period", in.Period,
		"wind_tier", r.WindTier.String(),
		"size", r.Breakdown.Size,
		"direction", r.Breakdown.Direction,
		"tide", r.Breakdown.Tide,
		"wind", r.Breakdown.Wind,
		"gust", r.Breakdown.Gust,
		"adjustments", adj,
		"clamps", r.Clamps,
		"score", r.Score,
		"rating", r.Rating,
	)
	return r
}

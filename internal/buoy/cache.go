package buoy

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
)

const (
	// DefaultTTL is how long a cached reading is served before a refresh.
	DefaultTTL = 15 * time.Minute
	// StaleAfter is the observation age past which a reading is flagged stale.
	StaleAfter = 2 * time.Hour
)

// Source provides the latest reading for a station. Reader implements it.
type Source interface {
	Latest(ctx context.Context, station string) (*domain.BuoyReading, error)
}

type slot struct {
	reading   domain.BuoyReading
	fetchedAt time.Time
}

// Cache holds the latest reading for one station in a single shared slot.
// Reads of a fresh slot never block; concurrent refreshes collapse into one
// upstream call; a failed refresh leaves the slot untouched.
type Cache struct {
	source  Source
	station string
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger

	slot  atomic.Pointer[slot]
	group singleflight.Group
}

// NewCache creates a cache decorator for one station.
func NewCache(source Source, station string, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{
		source:  source,
		station: station,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// Station is the station this cache serves.
func (c *Cache) Station() string {
	return c.station
}

// Get returns the cached reading, refreshing it when the TTL has expired.
// IsStale is recomputed from the observation time on every call. A nil
// reading means no data is available, which callers must not treat as flat.
func (c *Cache) Get(ctx context.Context) (*domain.BuoyReading, error) {
	if s, ok := c.fresh(); ok {
		c.metrics.BuoyCache.WithLabelValues("hit").Inc()
		return c.view(s, c.clock.Now()), nil
	}
	c.metrics.BuoyCache.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(c.station, func() (any, error) {
		// A caller that missed just before another refresh finished finds it here.
		if s, ok := c.fresh(); ok {
			return s, nil
		}
		return c.refresh(ctx)
	})
	if err != nil {
		// Keep serving the previous reading through upstream failures.
		if s := c.slot.Load(); s != nil {
			c.logger.Warn("buoy refresh failed, serving cached reading",
				"station", c.station, "error", err, "fetched_at", s.fetchedAt)
			return c.view(s, c.clock.Now()), nil
		}
		return nil, err
	}
	return c.view(v.(*slot), c.clock.Now()), nil
}

func (c *Cache) fresh() (*slot, bool) {
	s := c.slot.Load()
	if s == nil || c.clock.Since(s.fetchedAt) >= c.ttl {
		return nil, false
	}
	return s, true
}

func (c *Cache) refresh(ctx context.Context) (*slot, error) {
	start := c.clock.Now()
	reading, err := c.source.Latest(ctx, c.station)
	if err != nil {
		c.metrics.BuoyFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.BuoyFetches.WithLabelValues("success").Inc()
	s := &slot{reading: *reading, fetchedAt: c.clock.Now()}
	c.slot.Store(s)
	c.logger.Debug("buoy reading refreshed",
		"station", c.station,
		"observed_at", reading.Timestamp,
		"duration", c.clock.Since(start),
	)
	return s, nil
}

// view copies the slot's reading and stamps staleness for this read.
func (c *Cache) view(s *slot, now time.Time) *domain.BuoyReading {
	r := s.reading
	age := now.Sub(r.Timestamp)
	r.IsStale = IsStale(r.Timestamp, now)
	c.metrics.BuoyReadingAge.Set(age.Seconds())
	return &r
}

// IsStale reports whether an observation taken at observed is older than
// StaleAfter at now.
func IsStale(observed, now time.Time) bool {
	return now.Sub(observed) > StaleAfter
}

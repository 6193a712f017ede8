package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/confidence"
	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/forecast"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
	"github.com/couchcryptid/surf-forecast-service/internal/tide"
)

// ForecastStore reads stored forecasts and verifications for a canonical spot.
type ForecastStore interface {
	Forecasts(ctx context.Context, spotKey string, from, to time.Time) ([]domain.ForecastRecord, error)
	Verification(ctx context.Context, spotKey string, t time.Time) (*domain.VerificationRecord, error)
}

// BuoySource returns the latest cached buoy reading, or nil when none exists.
type BuoySource interface {
	Get(ctx context.Context) (*domain.BuoyReading, error)
}

// APIConfig wires the API's collaborators. Tides may be nil.
type APIConfig struct {
	Registry    *spot.Registry
	Engine      *forecast.Engine
	Store       ForecastStore
	Buoy        BuoySource
	Tides       tide.Source
	TideStation string
	Policy      confidence.Policy
	Logger      *slog.Logger
}

// API serves per-spot forecasts, current conditions, and confidence summaries.
type API struct {
	cfg APIConfig
}

// NewAPI creates the forecast API.
func NewAPI(cfg APIConfig) *API {
	return &API{cfg: cfg}
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /spots", a.handleSpots)
	mux.HandleFunc("GET /spots/{spot}/now", a.withSpot(a.handleNow))
	mux.HandleFunc("GET /spots/{spot}/forecast", a.withSpot(a.handleForecast))
	mux.HandleFunc("GET /spots/{spot}/confidence", a.withSpot(a.handleConfidence))
}

type spotHandler func(w http.ResponseWriter, r *http.Request, p spot.Profile)

// withSpot resolves the {spot} path value; unknown spots are 404.
func (a *API) withSpot(next spotHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := a.cfg.Registry.Lookup(r.PathValue("spot"))
		if err != nil {
			writeError(w, http.StatusNotFound, "%v", err)
			return
		}
		next(w, r, p)
	}
}

type spotSummary struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

func (a *API) handleSpots(w http.ResponseWriter, _ *http.Request) {
	keys := a.cfg.Registry.Keys()
	out := make([]spotSummary, 0, len(keys))
	for _, k := range keys {
		p, err := a.cfg.Registry.Lookup(k)
		if err != nil {
			continue
		}
		out = append(out, spotSummary{Key: p.Key, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"spots": out})
}

type nowResponse struct {
	Spot     string                `json:"spot"`
	IsStale  bool                  `json:"is_stale"`
	Reading  *domain.BuoyReading   `json:"reading"`
	Forecast domain.ForecastOutput `json:"forecast"`
}

func (a *API) handleNow(w http.ResponseWriter, r *http.Request, p spot.Profile) {
	reading, err := a.cfg.Buoy.Get(r.Context())
	if reading == nil {
		if err != nil {
			a.cfg.Logger.Warn("buoy reading unavailable", "spot", p.Key, "error", err)
		}
		writeError(w, http.StatusServiceUnavailable, "no data")
		return
	}

	hour := forecast.FromBuoy(p.Key, *reading, domain.Tide{})
	hour = tide.Enrich(r.Context(), hour, a.cfg.Tides, a.cfg.TideStation, a.cfg.Logger)

	out, err := a.cfg.Engine.Compute(hour)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, nowResponse{
		Spot:     p.Key,
		IsStale:  reading.IsStale,
		Reading:  reading,
		Forecast: out,
	})
}

type forecastResponse struct {
	Spot      string                  `json:"spot"`
	Forecasts []domain.ForecastRecord `json:"forecasts"`
}

func (a *API) handleForecast(w http.ResponseWriter, r *http.Request, p spot.Profile) {
	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}
	records, err := a.timeline(r.Context(), p.Key, from, to)
	if err != nil {
		a.cfg.Logger.Error("forecast query failed", "spot", p.Key, "error", err)
		writeError(w, http.StatusInternalServerError, "forecast query failed")
		return
	}
	writeJSON(w, http.StatusOK, forecastResponse{Spot: p.Key, Forecasts: records})
}

type confidenceResponse struct {
	Spot    string             `json:"spot"`
	From    *time.Time         `json:"from,omitempty"`
	To      *time.Time         `json:"to,omitempty"`
	Summary confidence.Summary `json:"summary"`
}

func (a *API) handleConfidence(w http.ResponseWriter, r *http.Request, p spot.Profile) {
	from, to, ok := parseWindow(w, r)
	if !ok {
		return
	}
	records, err := a.timeline(r.Context(), p.Key, from, to)
	if err != nil {
		a.cfg.Logger.Error("confidence query failed", "spot", p.Key, "error", err)
		writeError(w, http.StatusInternalServerError, "confidence query failed")
		return
	}

	tags := make([]*domain.ConfidenceRecord, len(records))
	for i := range records {
		tags[i] = records[i].Confidence
	}
	resp := confidenceResponse{Spot: p.Key, Summary: confidence.Summarize(tags, a.cfg.Policy)}
	if !from.IsZero() {
		resp.From = &from
	}
	if !to.IsZero() {
		resp.To = &to
	}
	writeJSON(w, http.StatusOK, resp)
}

// timeline loads stored records and attaches confidence to hours whose
// verification arrived after the forecast was computed.
func (a *API) timeline(ctx context.Context, spotKey string, from, to time.Time) ([]domain.ForecastRecord, error) {
	records, err := a.cfg.Store.Forecasts(ctx, spotKey, from, to)
	if err != nil {
		return nil, err
	}
	for i := range records {
		rec := &records[i]
		if rec.Confidence != nil || rec.NoSwell {
			continue
		}
		v, err := a.cfg.Store.Verification(ctx, spotKey, rec.Time)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if rec.Confidence, err = a.cfg.Engine.Confidence(rec.ForecastOutput, v); err != nil {
			return nil, err
		}
	}
	if records == nil {
		records = []domain.ForecastRecord{}
	}
	return records, nil
}

var errBadWindow = errors.New("from must be before to")

// parseWindow reads optional RFC 3339 from/to query values. It writes a 400
// and returns false on invalid input.
func parseWindow(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *time.Time
	}{{"from", &from}, {"to", &to}} {
		s := q.Get(f.name)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid %s: %q", f.name, s)
			return time.Time{}, time.Time{}, false
		}
		*f.dst = t.UTC()
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		writeError(w, http.StatusBadRequest, "%v", errBadWindow)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

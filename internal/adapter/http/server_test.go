package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/surf-forecast-service/internal/adapter/http"
	"github.com/couchcryptid/surf-forecast-service/internal/confidence"
	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/forecast"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
)

var (
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
	hour0   = time.Date(2026, 10, 19, 14, 0, 0, 0, time.UTC)
)

// --- fakes ---

type fakeStore struct {
	records       []domain.ForecastRecord
	verifications map[time.Time]*domain.VerificationRecord
	err           error
}

func (f *fakeStore) Forecasts(_ context.Context, spotKey string, from, to time.Time) ([]domain.ForecastRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.ForecastRecord
	for _, r := range f.records {
		if r.Spot != spotKey || (!from.IsZero() && r.Time.Before(from)) || (!to.IsZero() && !r.Time.Before(to)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) Verification(_ context.Context, _ string, t time.Time) (*domain.VerificationRecord, error) {
	return f.verifications[t], nil
}

type fakeBuoy struct {
	reading *domain.BuoyReading
	err     error
}

func (f fakeBuoy) Get(context.Context) (*domain.BuoyReading, error) {
	return f.reading, f.err
}

func newEngine() *forecast.Engine {
	return forecast.NewEngine(spot.Default(), nil, discard)
}

func hourAt(t time.Time, height float64) domain.ForecastHour {
	return domain.ForecastHour{
		Spot: "matunuck",
		Time: t,
		Components: []domain.SwellComponent{
			{Type: domain.ComponentPrimary, Height: domain.Float(height), Period: domain.Float(12), Direction: domain.Float(185)},
		},
		Wind: domain.Wind{Speed: domain.Float(10), Direction: domain.Float(10)},
		Tide: domain.Tide{Height: domain.Float(2), Phase: domain.TideFalling},
	}
}

func storedRecord(t *testing.T, e *forecast.Engine, at time.Time, height float64) domain.ForecastRecord {
	t.Helper()
	out, err := e.Compute(hourAt(at, height))
	require.NoError(t, err)
	return domain.StampRecord(out)
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(readyErr error, api *httpadapter.API) *httpadapter.Server {
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, api, discard)
}

func newAPI(store httpadapter.ForecastStore, buoy httpadapter.BuoySource) *httpadapter.API {
	return httpadapter.NewAPI(httpadapter.APIConfig{
		Registry: spot.Default(),
		Engine:   newEngine(),
		Store:    store,
		Buoy:     buoy,
		Policy:   confidence.DefaultPolicy,
		Logger:   discard,
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(t, newTestServer(fmt.Errorf("not ready yet"), nil), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAllReady(t *testing.T) {
	ok := &mockReadiness{}
	failing := &mockReadiness{err: errors.New("store down")}

	require.NoError(t, httpadapter.AllReady(ok, ok).CheckReadiness(context.Background()))
	require.EqualError(t, httpadapter.AllReady(ok, failing).CheckReadiness(context.Background()), "store down")
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSpotRoutesAbsentWithoutAPI(t *testing.T) {
	rec := get(t, newTestServer(nil, nil), "/spots")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- API ---

func TestSpots(t *testing.T) {
	srv := newTestServer(nil, newAPI(&fakeStore{}, fakeBuoy{}))

	rec := get(t, srv, "/spots")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Spots []struct{ Key, Name string } `json:"spots"`
	}](t, rec)
	require.Len(t, body.Spots, 3)
	assert.Equal(t, "matunuck", body.Spots[0].Key)
}

func TestUnknownSpotIs404(t *testing.T) {
	srv := newTestServer(nil, newAPI(&fakeStore{}, fakeBuoy{}))
	for _, path := range []string{"/spots/waimea/now", "/spots/waimea/forecast", "/spots/waimea/confidence"} {
		rec := get(t, srv, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestNow_NoDataIs503(t *testing.T) {
	srv := newTestServer(nil, newAPI(&fakeStore{}, fakeBuoy{err: errors.New("no valid reading")}))

	rec := get(t, srv, "/spots/mat/now")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "no data", decode[map[string]string](t, rec)["error"])
}

func TestNow_ServesStaleReadingWithFlag(t *testing.T) {
	reading := &domain.BuoyReading{
		Station:        "44097",
		Timestamp:      hour0.Add(-3 * time.Hour),
		IsStale:        true,
		SwellHeight:    domain.Float(3),
		SwellPeriod:    domain.Float(10),
		SwellDirection: domain.Float(180),
		WindSpeed:      domain.Float(6),
		WindDirection:  domain.Float(0),
	}
	srv := newTestServer(nil, newAPI(&fakeStore{}, fakeBuoy{reading: reading}))

	rec := get(t, srv, "/spots/Second%20Beach/now")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Spot     string                `json:"spot"`
		IsStale  bool                  `json:"is_stale"`
		Forecast domain.ForecastOutput `json:"forecast"`
	}](t, rec)
	assert.Equal(t, "second-beach", body.Spot)
	assert.True(t, body.IsStale)
	assert.False(t, body.Forecast.NoSwell)
	assert.Positive(t, body.Forecast.BreakingHeight)
}

func TestForecast_LateVerificationJoin(t *testing.T) {
	e := newEngine()
	store := &fakeStore{
		records: []domain.ForecastRecord{
			storedRecord(t, e, hour0, 4),
			storedRecord(t, e, hour0.Add(time.Hour), 4),
			storedRecord(t, e, hour0.Add(2*time.Hour), 4),
		},
		verifications: map[time.Time]*domain.VerificationRecord{
			hour0: {Spot: "matunuck", Time: hour0, Height: domain.Float(4), Period: domain.Float(12), Direction: domain.Float(185)},
		},
	}
	srv := newTestServer(nil, newAPI(store, fakeBuoy{}))

	rec := get(t, srv, "/spots/matunuck/forecast?to="+hour0.Add(2*time.Hour).Format(time.RFC3339))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Spot      string                  `json:"spot"`
		Forecasts []domain.ForecastRecord `json:"forecasts"`
	}](t, rec)
	require.Len(t, body.Forecasts, 2)
	require.NotNil(t, body.Forecasts[0].Confidence)
	assert.Equal(t, domain.ConfidenceHigh, body.Forecasts[0].Confidence.Tier)
	assert.Nil(t, body.Forecasts[1].Confidence)
}

func TestForecast_EmptyIsArray(t *testing.T) {
	srv := newTestServer(nil, newAPI(&fakeStore{}, fakeBuoy{}))
	rec := get(t, srv, "/spots/ntb/forecast")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"forecasts":[]`)
}

func TestForecast_BadWindow(t *testing.T) {
	srv := newTestServer(nil, newAPI(&fakeStore{}, fakeBuoy{}))

	tests := []string{
		"/spots/ntb/forecast?from=yesterday",
		"/spots/ntb/forecast?to=2026-10-19",
		"/spots/ntb/confidence?from=2026-10-19T15:00:00Z&to=2026-10-19T14:00:00Z",
	}
	for _, target := range tests {
		rec := get(t, srv, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestForecast_StoreErrorIs500(t *testing.T) {
	srv := newTestServer(nil, newAPI(&fakeStore{err: errors.New("disk full")}, fakeBuoy{}))
	rec := get(t, srv, "/spots/ntb/forecast")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestConfidenceSummary(t *testing.T) {
	e := newEngine()
	store := &fakeStore{
		records: []domain.ForecastRecord{
			storedRecord(t, e, hour0, 4),
			storedRecord(t, e, hour0.Add(time.Hour), 4),
			storedRecord(t, e, hour0.Add(2*time.Hour), 4),
		},
		verifications: map[time.Time]*domain.VerificationRecord{
			hour0:                {Height: domain.Float(4), Period: domain.Float(12), Direction: domain.Float(185)},
			hour0.Add(time.Hour): {Height: domain.Float(1.5), Period: domain.Float(12), Direction: domain.Float(185)},
		},
	}
	srv := newTestServer(nil, newAPI(store, fakeBuoy{}))

	rec := get(t, srv, "/spots/mat/confidence?from="+hour0.Format(time.RFC3339))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Spot    string             `json:"spot"`
		From    *time.Time         `json:"from"`
		Summary confidence.Summary `json:"summary"`
	}](t, rec)
	assert.Equal(t, "matunuck", body.Spot)
	require.NotNil(t, body.From)
	assert.Equal(t, 2, body.Summary.Total)
	assert.Equal(t, 1, body.Summary.Missing)
	assert.Equal(t, 1, body.Summary.Counts[domain.ConfidenceHigh])
	assert.Equal(t, 1, body.Summary.Counts[domain.ConfidenceLow])
	assert.Equal(t, domain.ConfidenceLow, body.Summary.Overall, "one LOW hour sets the window")
}

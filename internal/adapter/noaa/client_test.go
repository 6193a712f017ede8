package noaa

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/surf-forecast-service/internal/observability"
	"github.com/couchcryptid/surf-forecast-service/internal/tide"
)

const testStation = "8452660"

const predictionsJSON = `{"predictions":[
{"t":"2026-10-18 21:42","v":"0.312","type":"L"},
{"t":"2026-10-19 03:55","v":"3.904","type":"H"},
{"t":"2026-10-19 10:01","v":"0.154","type":"L"},
{"t":"bad time","v":"1.0","type":"H"},
{"t":"2026-10-19 16:20","v":"x","type":"H"}
]}`

func testClient(baseURL string) (*Client, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return NewClient(baseURL, 5*time.Second, m, slog.New(slog.NewTextHandler(io.Discard, nil))), m
}

func TestClient_Predictions_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, testStation, q.Get("station"))
		assert.Equal(t, "predictions", q.Get("product"))
		assert.Equal(t, "hilo", q.Get("interval"))
		assert.Equal(t, "MLLW", q.Get("datum"))
		assert.Equal(t, "gmt", q.Get("time_zone"))
		assert.Equal(t, "20261018", q.Get("begin_date"))
		assert.Equal(t, "20261020", q.Get("end_date"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(predictionsJSON))
	}))
	defer srv.Close()

	c, m := testClient(srv.URL)
	events, err := c.Predictions(context.Background(), testStation, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, events, 3, "unparseable predictions are skipped")
	assert.Equal(t, tide.Event{Time: time.Date(2026, 10, 19, 3, 55, 0, 0, time.UTC), Height: 3.904, Type: tide.High}, events[1])
	assert.Equal(t, tide.Low, events[2].Type)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TideRequests.WithLabelValues("success")), 1e-9)
}

func TestClient_Predictions_APIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"No Predictions data was found."}}`))
	}))
	defer srv.Close()

	c, m := testClient(srv.URL)
	_, err := c.Predictions(context.Background(), "0000000", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No Predictions")
	assert.InDelta(t, 1, testutil.ToFloat64(m.TideRequests.WithLabelValues("error")), 1e-9)
}

func TestClient_Predictions_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := testClient(srv.URL)
	_, err := c.Predictions(context.Background(), testStation, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Predictions_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"predictions":[]}`))
	}))
	defer srv.Close()

	c, m := testClient(srv.URL)
	events, err := c.Predictions(context.Background(), testStation, time.Now())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TideRequests.WithLabelValues("empty")), 1e-9)
}

func TestClient_Predictions_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Predictions(context.Background(), testStation, time.Now())
	require.Error(t, err)
}

func TestClient_FeedsTideInterpolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(predictionsJSON))
	}))
	defer srv.Close()

	c, _ := testClient(srv.URL)
	events, err := c.Predictions(context.Background(), testStation, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	got, ok := tide.At(events, time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, "falling", string(got.Phase))
}

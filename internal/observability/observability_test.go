package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "info", "json").Info("hello", "spot", "matunuck")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "matunuck", line["spot"])

	buf.Reset()
	newLogger(&buf, "info", "TEXT").Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsForTesting()
	require.NoError(t, m.Register(reg))

	m.ForecastsByRating.WithLabelValues("matunuck", "Good").Inc()
	m.BuoyCache.WithLabelValues("hit").Add(2)

	assert.InDelta(t, 1, testutil.ToFloat64(m.ForecastsByRating.WithLabelValues("matunuck", "Good")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.BuoyCache.WithLabelValues("hit")), 1e-9)

	// A second registration of the same collectors is rejected.
	require.Error(t, NewMetricsForTesting().Register(reg))
}

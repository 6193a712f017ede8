package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
)

func TestRun_ScoresHour(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-spot", "mat",
		"-time", "2026-10-19T14:30:00Z",
		"-height", "4", "-period", "12", "-direction", "S",
		"-wind-speed", "8", "-wind-dir", "N",
		"-tide", "2", "-tide-phase", "Falling",
	}, &stdout, &stderr)
	require.NoError(t, err)

	var out domain.ForecastOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "matunuck", out.Spot)
	assert.Equal(t, time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC), out.Time)
	assert.False(t, out.NoSwell)
	assert.Positive(t, out.BreakingHeight)
	require.NotNil(t, out.Dominant)
	assert.InDelta(t, 180, *out.Dominant.Direction, 0.001)
	assert.Equal(t, domain.TideFalling, out.Tide.Phase)
}

func TestRun_NoSwell(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-spot", "ntb"}, &stdout, &stderr))

	var out domain.ForecastOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.True(t, out.NoSwell)
	assert.Equal(t, "narragansett", out.Spot)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing spot", []string{"-height", "3"}},
		{"unknown spot", []string{"-spot", "pipeline"}},
		{"bad direction", []string{"-spot", "mat", "-direction", "sideways"}},
		{"bad height", []string{"-spot", "mat", "-height", "tall"}},
		{"bad time", []string{"-spot", "mat", "-time", "noon"}},
		{"bad phase", []string{"-spot", "mat", "-tide-phase", "ebb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.Error(t, run(tt.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
		})
	}
}

package buoy

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staleMetFeed's newest wind line is five hours older than specFeed's reading.
const staleMetFeed = `#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE
26 10 19 14 50  MM   MM   MM    MM    MM    MM  MM 1015.2  12.1  15.3   MM   MM   MM    MM
26 10 19 09 10 200  9.0 12.0    MM    MM    MM  MM 1015.2  12.1  15.3   MM   MM   MM    MM
`

func TestReaderLatest(t *testing.T) {
	tests := []struct {
		name     string
		feeds    mapFetcher
		wantWind bool
		wantLog  string
	}{
		{"wind attached when feeds agree", mapFetcher{FeedSpectral: specFeed, FeedMeteorological: metFeed}, true, ""},
		{"met feed missing", mapFetcher{FeedSpectral: specFeed}, false, "buoy wind unavailable"},
		{"met wind hours older than swell", mapFetcher{FeedSpectral: specFeed, FeedMeteorological: staleMetFeed}, false, "feeds out of step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			r := NewReader(tt.feeds, slog.New(slog.NewTextHandler(&logs, nil)))

			reading, err := r.Latest(context.Background(), testStation)
			require.NoError(t, err)
			require.NotNil(t, reading.SwellHeight)
			assert.Equal(t, testStation, reading.Station)

			if tt.wantWind {
				require.NotNil(t, reading.WindSpeed)
				require.NotNil(t, reading.WindDirection)
				assert.Equal(t, 350.0, *reading.WindDirection)
			} else {
				assert.Nil(t, reading.WindSpeed)
				assert.Nil(t, reading.WindDirection)
				assert.Nil(t, reading.WindGust)
			}
			if tt.wantLog != "" {
				assert.Contains(t, logs.String(), tt.wantLog)
			}
		})
	}
}

func TestReaderLatest_SpectralRequired(t *testing.T) {
	r := NewReader(mapFetcher{FeedMeteorological: metFeed}, discard)
	reading, err := r.Latest(context.Background(), testStation)
	require.Error(t, err)
	assert.Nil(t, reading)
}

package ndbc

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/surf-forecast-service/internal/buoy"
)

const specBody = `#YY  MM DD hh mm WVHT  SwH  SwP  WWH  WWP SwD WWD  STEEPNESS  APD MWD
#yr  mo dy hr mn    m    m  sec    m  sec  -  degT     -      sec degT
2026 10 19 14 10  1.3  1.0  9.1  0.6  4.2 SSE   S      SWELL  5.9 165
`

const metBody = `#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE
2026 10 19 14 10  20  4.0  6.0    MM    MM    MM  MM 1015.2  12.1  15.3   MM   MM   MM    MM
`

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/44097.spec":
			_, _ = w.Write([]byte(specBody))
		case "/44097.txt":
			_, _ = w.Write([]byte(metBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	srv := feedServer(t)
	c := NewClient(srv.URL+"/", 5*time.Second, discard)

	data, err := c.Fetch(context.Background(), "44097", buoy.FeedSpectral)
	require.NoError(t, err)
	assert.Equal(t, specBody, string(data))
}

func TestClient_Fetch_NotFound(t *testing.T) {
	srv := feedServer(t)
	c := NewClient(srv.URL, 5*time.Second, discard)

	_, err := c.Fetch(context.Background(), "99999", buoy.FeedSpectral)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 50*time.Millisecond, discard)
	_, err := c.Fetch(context.Background(), "44097", buoy.FeedMeteorological)
	require.Error(t, err)
}

func TestClient_WithReader(t *testing.T) {
	srv := feedServer(t)
	r := buoy.NewReader(NewClient(srv.URL, 5*time.Second, discard), discard)

	reading, err := r.Latest(context.Background(), "44097")
	require.NoError(t, err)
	assert.Equal(t, 9.1, *reading.SwellPeriod)
	assert.Equal(t, 20.0, *reading.WindDirection)
}

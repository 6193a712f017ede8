// Command buoycheck parses locally saved NDBC realtime feeds and prints the
// resulting reading plus the forecast it produces for each spot.
//
// Usage:
//
//	curl -sO https://www.ndbc.noaa.gov/data/realtime2/44097.spec
//	curl -sO https://www.ndbc.noaa.gov/data/realtime2/44097.txt
//	go run ./cmd/buoycheck -dir . -station 44097
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/surf-forecast-service/internal/buoy"
	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/forecast"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, clockwork.NewRealClock()); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "buoycheck:", err)
		}
		os.Exit(1)
	}
}

// dirFetcher serves feeds from {dir}/{STATION}.{feed}, the file names NDBC uses.
type dirFetcher struct {
	dir string
}

func (f dirFetcher) Fetch(_ context.Context, station string, feed buoy.Feed) ([]byte, error) {
	return os.ReadFile(filepath.Join(f.dir, strings.ToUpper(station)+"."+string(feed)))
}

type report struct {
	Reading   *domain.BuoyReading     `json:"reading"`
	Forecasts []domain.ForecastOutput `json:"forecasts"`
}

func run(args []string, stdout, stderr io.Writer, clock clockwork.Clock) error {
	fs := flag.NewFlagSet("buoycheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("dir", ".", "directory holding {station}.spec and optionally {station}.txt")
	station := fs.String("station", "44097", "NDBC station id")
	spotID := fs.String("spot", "", "only forecast this spot (default: all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	registry := spot.Default()

	keys := registry.Keys()
	if *spotID != "" {
		p, err := registry.Lookup(*spotID)
		if err != nil {
			return err
		}
		keys = []string{p.Key}
	}

	reading, err := buoy.NewReader(dirFetcher{dir: *dir}, logger).Latest(context.Background(), *station)
	if err != nil {
		return err
	}
	reading.IsStale = buoy.IsStale(reading.Timestamp, clock.Now())

	engine := forecast.NewEngine(registry, nil, logger)
	rep := report{Reading: reading, Forecasts: make([]domain.ForecastOutput, 0, len(keys))}
	for _, k := range keys {
		out, err := engine.Compute(forecast.FromBuoy(k, *reading, domain.Tide{}))
		if err != nil {
			return err
		}
		rep.Forecasts = append(rep.Forecasts, out)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

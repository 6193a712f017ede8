// Command surfscore scores a single hour from command-line conditions and
// prints the forecast output as JSON.
//
// Usage:
//
//	go run ./cmd/surfscore -spot mat -height 3.5 -period 11 -direction SSW \
//	  -wind-speed 8 -wind-dir N -tide 1.2 -tide-phase rising
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/forecast"
	"github.com/couchcryptid/surf-forecast-service/internal/quality"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "surfscore:", err)
		}
		os.Exit(2)
	}
}

// optFloat is a flag that stays nil unless set.
type optFloat struct{ v *float64 }

func (o *optFloat) String() string {
	if o.v == nil {
		return ""
	}
	return strconv.FormatFloat(*o.v, 'f', -1, 64)
}

func (o *optFloat) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	o.v = &f
	return nil
}

// optDirection accepts degrees or a 16-point compass token.
type optDirection struct{ optFloat }

func (o *optDirection) Set(s string) error {
	if deg := domain.CompassDegrees(s); deg != nil {
		o.v = deg
		return nil
	}
	if err := o.optFloat.Set(s); err != nil {
		return fmt.Errorf("want degrees or a compass point, got %q", s)
	}
	return nil
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("surfscore", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		height, period, windSpeed, gust, tideHeight optFloat
		secHeight, secPeriod                        optFloat
		direction, windDir, secDirection            optDirection
	)
	spotID := fs.String("spot", "", "spot key, name, or alias (required)")
	at := fs.String("time", "", "forecast hour, RFC 3339 (default: current hour)")
	phase := fs.String("tide-phase", "", "rising, falling, or slack")
	verbose := fs.Bool("v", false, "log the quality breakdown to stderr")
	fs.Var(&height, "height", "primary swell height, ft")
	fs.Var(&period, "period", "primary swell period, s")
	fs.Var(&direction, "direction", "primary swell direction, degrees or compass point")
	fs.Var(&secHeight, "sec-height", "secondary swell height, ft")
	fs.Var(&secPeriod, "sec-period", "secondary swell period, s")
	fs.Var(&secDirection, "sec-direction", "secondary swell direction")
	fs.Var(&windSpeed, "wind-speed", "wind speed, kt")
	fs.Var(&windDir, "wind-dir", "wind direction, degrees or compass point")
	fs.Var(&gust, "gust", "wind gust, kt")
	fs.Var(&tideHeight, "tide", "tide height, ft above MLLW")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *spotID == "" {
		fs.Usage()
		return errors.New("missing required flag: -spot")
	}

	hour := domain.ForecastHour{
		Spot: *spotID,
		Time: time.Now().UTC().Truncate(time.Hour),
		Components: []domain.SwellComponent{
			{Type: domain.ComponentPrimary, Height: height.v, Period: period.v, Direction: direction.v},
		},
		Wind: domain.Wind{Speed: windSpeed.v, Direction: windDir.v, Gust: gust.v},
		Tide: domain.Tide{Height: tideHeight.v},
	}
	if secHeight.v != nil || secPeriod.v != nil {
		hour.Components = append(hour.Components, domain.SwellComponent{
			Type: domain.ComponentSecondary, Height: secHeight.v, Period: secPeriod.v, Direction: secDirection.v,
		})
	}
	if *at != "" {
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("invalid -time: %w", err)
		}
		hour.Time = t.UTC()
	}
	switch p := domain.TidePhase(strings.ToLower(*phase)); p {
	case domain.TideUnknown, domain.TideRising, domain.TideFalling, domain.TideSlack:
		hour.Tide.Phase = p
	default:
		return fmt.Errorf("invalid -tide-phase: %q", *phase)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	engine := forecast.NewEngine(spot.Default(), quality.Traced(quality.Pure, logger), logger)

	out, err := engine.Compute(hour)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

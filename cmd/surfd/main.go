// Command surfd consumes upstream forecast and verification hours from Kafka,
// publishes scored forecasts, and serves the per-spot HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/surf-forecast-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/surf-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/surf-forecast-service/internal/adapter/ndbc"
	"github.com/couchcryptid/surf-forecast-service/internal/adapter/noaa"
	"github.com/couchcryptid/surf-forecast-service/internal/adapter/sqlite"
	"github.com/couchcryptid/surf-forecast-service/internal/buoy"
	"github.com/couchcryptid/surf-forecast-service/internal/confidence"
	"github.com/couchcryptid/surf-forecast-service/internal/config"
	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/forecast"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
	"github.com/couchcryptid/surf-forecast-service/internal/pipeline"
	"github.com/couchcryptid/surf-forecast-service/internal/quality"
	"github.com/couchcryptid/surf-forecast-service/internal/spot"
	"github.com/couchcryptid/surf-forecast-service/internal/tide"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("failed to open forecast store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	// Tide enrichment is feature-flagged via TIDE_ENABLED.
	var tides tide.Source
	if cfg.TideEnabled {
		client := noaa.NewClient(cfg.TideBaseURL, cfg.TideTimeout, metrics, logger)
		tides = tide.NewCachedSource(client, cfg.TideCacheSize, metrics)
		metrics.TideEnabled.Set(1)
		logger.Info("tide enrichment enabled", "station", cfg.TideStation, "cache_size", cfg.TideCacheSize)
	} else {
		logger.Info("tide enrichment disabled")
	}

	buoyCache := buoy.NewCache(
		buoy.NewReader(ndbc.NewClient(cfg.NDBCBaseURL, cfg.NDBCTimeout, logger), logger),
		cfg.NDBCStation, cfg.BuoyCacheTTL, clockwork.NewRealClock(), metrics, logger,
	)

	registry := spot.Default()
	engine := forecast.NewEngine(registry, quality.Traced(quality.Pure, logger), logger)

	forecastReader := kafkaadapter.NewReader(cfg.KafkaBrokers, cfg.KafkaSourceTopic, cfg.KafkaGroupID, cfg.BatchFlushInterval, logger)
	verificationReader := kafkaadapter.NewReader(cfg.KafkaBrokers, cfg.KafkaVerificationTopic, cfg.KafkaGroupID+"-verification", cfg.BatchFlushInterval, logger)
	writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)

	forecasts := pipeline.New[domain.ForecastRecord](
		"forecast",
		forecastReader,
		pipeline.NewForecastTransformer(engine, metrics, logger,
			pipeline.WithTides(tides, cfg.TideStation),
			pipeline.WithVerifications(store),
		),
		pipeline.FanOut[domain.ForecastRecord](writer, pipeline.LoaderFunc[domain.ForecastRecord](store.SaveForecasts)),
		logger, metrics, cfg.BatchSize,
	)
	verifications := pipeline.New[domain.VerificationRecord](
		"verification",
		verificationReader,
		pipeline.NewVerificationTransformer(registry),
		pipeline.LoaderFunc[domain.VerificationRecord](store.SaveVerifications),
		logger, metrics, cfg.BatchSize,
	)

	api := httpadapter.NewAPI(httpadapter.APIConfig{
		Registry:    registry,
		Engine:      engine,
		Store:       store,
		Buoy:        buoyCache,
		Tides:       tides,
		TideStation: cfg.TideStation,
		Policy:      confidence.Policy{MinCount: cfg.ConfidenceMinCount},
		Logger:      logger,
	})
	ready := httpadapter.AllReady(httpadapter.ReadinessFunc(store.Ping), forecasts)
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, api, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start both pipelines; either failing stops the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return forecasts.Run(gctx) })
	g.Go(func() error { return verifications.Run(gctx) })

	pipelinesDone := make(chan error, 1)
	go func() { pipelinesDone <- g.Wait() }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		<-pipelinesDone
	case err := <-pipelinesDone:
		if err != nil {
			logger.Error("pipeline error", "error", err)
		}
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := forecastReader.Close(); err != nil {
		logger.Error("kafka reader close error", "topic", cfg.KafkaSourceTopic, "error", err)
	}
	if err := verificationReader.Close(); err != nil {
		logger.Error("kafka reader close error", "topic", cfg.KafkaVerificationTopic, "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("forecast store close error", "error", err)
	}

	logger.Info("shutdown complete")
}

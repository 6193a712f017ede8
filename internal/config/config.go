package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers           []string
	KafkaSourceTopic       string
	KafkaVerificationTopic string
	KafkaSinkTopic         string
	KafkaGroupID           string
	HTTPAddr               string
	LogLevel               string
	LogFormat              string
	ShutdownTimeout        time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Forecast store.
	DBPath string

	// NDBC buoy feed configuration.
	NDBCBaseURL  string
	NDBCStation  string
	NDBCTimeout  time.Duration
	BuoyCacheTTL time.Duration

	// NOAA CO-OPS tide enrichment.
	TideEnabled   bool
	TideBaseURL   string
	TideStation   string
	TideTimeout   time.Duration
	TideCacheSize int

	// ConfidenceMinCount is how many hours a tier needs to set a window's overall tier.
	ConfidenceMinCount int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:           sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:       sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "surf-forecast-hours"),
		KafkaVerificationTopic: sharedcfg.EnvOrDefault("KAFKA_VERIFICATION_TOPIC", "surf-verification-hours"),
		KafkaSinkTopic:         sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "surf-forecasts"),
		KafkaGroupID:           sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "surf-forecast"),
		HTTPAddr:               sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:               sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:        shutdownTimeout,
		BatchSize:              batchSize,
		BatchFlushInterval:     flushInterval,

		DBPath:      sharedcfg.EnvOrDefault("DB_PATH", "data/surf-forecast.db"),
		NDBCBaseURL: sharedcfg.EnvOrDefault("NDBC_BASE_URL", "https://www.ndbc.noaa.gov/data/realtime2"),
		NDBCStation: sharedcfg.EnvOrDefault("NDBC_STATION", "44097"),
		TideBaseURL: sharedcfg.EnvOrDefault("TIDE_BASE_URL", "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"),
		TideStation: sharedcfg.EnvOrDefault("TIDE_STATION", "8452660"),
	}

	if cfg.NDBCTimeout, err = positiveDuration("NDBC_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.BuoyCacheTTL, err = positiveDuration("BUOY_CACHE_TTL", "15m"); err != nil {
		return nil, err
	}
	if cfg.TideTimeout, err = positiveDuration("TIDE_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.TideEnabled, err = boolean("TIDE_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.TideCacheSize, err = positiveInt("TIDE_CACHE_SIZE", 64); err != nil {
		return nil, err
	}
	if cfg.ConfidenceMinCount, err = positiveInt("CONFIDENCE_MIN_COUNT", 1); err != nil {
		return nil, err
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaVerificationTopic == "" {
		return nil, errors.New("KAFKA_VERIFICATION_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.NDBCStation == "" {
		return nil, errors.New("NDBC_STATION is required")
	}
	if cfg.TideEnabled && cfg.TideStation == "" {
		return nil, errors.New("TIDE_ENABLED is true but TIDE_STATION is not set")
	}

	return cfg, nil
}

func positiveDuration(key, def string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func positiveInt(key string, def int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func boolean(key string, def bool) (bool, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return b, nil
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "surf-forecast-hours", cfg.KafkaSourceTopic)
	assert.Equal(t, "surf-verification-hours", cfg.KafkaVerificationTopic)
	assert.Equal(t, "surf-forecasts", cfg.KafkaSinkTopic)
	assert.Equal(t, "surf-forecast", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, "data/surf-forecast.db", cfg.DBPath)
	assert.Equal(t, "44097", cfg.NDBCStation)
	assert.Equal(t, 10*time.Second, cfg.NDBCTimeout)
	assert.Equal(t, 15*time.Minute, cfg.BuoyCacheTTL)
	assert.True(t, cfg.TideEnabled)
	assert.Equal(t, "8452660", cfg.TideStation)
	assert.Equal(t, 30*time.Second, cfg.TideTimeout)
	assert.Equal(t, 64, cfg.TideCacheSize)
	assert.Equal(t, 1, cfg.ConfidenceMinCount)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_VERIFICATION_TOPIC", "custom-verification")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("DB_PATH", "/tmp/surf.db")
	t.Setenv("NDBC_STATION", "44017")
	t.Setenv("NDBC_TIMEOUT", "3s")
	t.Setenv("BUOY_CACHE_TTL", "5m")
	t.Setenv("TIDE_ENABLED", "false")
	t.Setenv("TIDE_TIMEOUT", "12s")
	t.Setenv("TIDE_CACHE_SIZE", "8")
	t.Setenv("CONFIDENCE_MIN_COUNT", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-verification", cfg.KafkaVerificationTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, "/tmp/surf.db", cfg.DBPath)
	assert.Equal(t, "44017", cfg.NDBCStation)
	assert.Equal(t, 3*time.Second, cfg.NDBCTimeout)
	assert.Equal(t, 5*time.Minute, cfg.BuoyCacheTTL)
	assert.False(t, cfg.TideEnabled)
	assert.Equal(t, 12*time.Second, cfg.TideTimeout)
	assert.Equal(t, 8, cfg.TideCacheSize)
	assert.Equal(t, 3, cfg.ConfidenceMinCount)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_BatchSizeTooLarge(t *testing.T) {
	t.Setenv("BATCH_SIZE", "9999")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}

func TestLoad_InvalidBatchFlushInterval(t *testing.T) {
	t.Setenv("BATCH_FLUSH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BATCH_FLUSH_INTERVAL")
}

func TestLoad_InvalidValuesNameTheKey(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"NDBC_TIMEOUT", "soon"},
		{"NDBC_TIMEOUT", "0s"},
		{"BUOY_CACHE_TTL", "-5m"},
		{"TIDE_TIMEOUT", "bad"},
		{"TIDE_ENABLED", "maybe"},
		{"TIDE_CACHE_SIZE", "0"},
		{"CONFIDENCE_MIN_COUNT", "many"},
		{"CONFIDENCE_MIN_COUNT", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

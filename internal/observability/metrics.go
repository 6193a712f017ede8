package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "surf_forecast"

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Pipeline metrics, labeled by pipeline name (forecast, verification).
	MessagesConsumed *prometheus.CounterVec
	MessagesProduced *prometheus.CounterVec
	TransformErrors  *prometheus.CounterVec
	PipelineRunning  *prometheus.GaugeVec

	BatchSize               *prometheus.HistogramVec
	BatchProcessingDuration *prometheus.HistogramVec

	// Forecast output metrics.
	ForecastsByRating *prometheus.CounterVec // labels: spot, rating
	ClampsFired       *prometheus.CounterVec // labels: clamp
	ConfidenceTiers   *prometheus.CounterVec // labels: tier

	// Buoy feed metrics.
	BuoyFetches    *prometheus.CounterVec // labels: outcome={success,error}
	BuoyCache      *prometheus.CounterVec // labels: result={hit,miss}
	BuoyReadingAge prometheus.Gauge

	// Tide prediction metrics.
	TideRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	TideCache       *prometheus.CounterVec // labels: result={hit,miss}
	TideAPIDuration prometheus.Histogram
	TideEnabled     prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total messages read from source topics.",
		}, []string{"pipeline"}),
		MessagesProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total records written by the pipeline loaders.",
		}, []string{"pipeline"}),
		TransformErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total messages skipped because they could not be transformed.",
		}, []string{"pipeline"}),
		PipelineRunning: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}, []string{"pipeline"}),
		BatchSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}, []string{"pipeline"}),
		BatchProcessingDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"pipeline"}),
		ForecastsByRating: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forecasts_total",
			Help:      "Forecast outputs computed, by spot and rating.",
		}, []string{"spot", "rating"}),
		ClampsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clamps_fired_total",
			Help:      "Quality score clamps whose condition held.",
		}, []string{"clamp"}),
		ConfidenceTiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confidence_tiers_total",
			Help:      "Hourly confidence classifications by tier.",
		}, []string{"tier"}),
		BuoyFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buoy_fetches_total",
			Help:      "Buoy feed refreshes by outcome.",
		}, []string{"outcome"}),
		BuoyCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buoy_cache_total",
			Help:      "Buoy cache lookups by result.",
		}, []string{"result"}),
		BuoyReadingAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buoy_reading_age_seconds",
			Help:      "Age of the most recently served buoy observation.",
		}),
		TideRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tide_requests_total",
			Help:      "Tide prediction requests by outcome.",
		}, []string{"outcome"}),
		TideCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tide_cache_total",
			Help:      "Tide prediction cache lookups by result.",
		}, []string{"result"}),
		TideAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tide_api_duration_seconds",
			Help:      "NOAA tide predictions request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		TideEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tide_enabled",
			Help:      "1 when tide enrichment is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ForecastsByRating,
		m.ClampsFired,
		m.ConfidenceTiers,
		m.BuoyFetches,
		m.BuoyCache,
		m.BuoyReadingAge,
		m.TideRequests,
		m.TideCache,
		m.TideAPIDuration,
		m.TideEnabled,
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// Register adds the metrics to a custom registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

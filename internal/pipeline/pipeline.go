package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/surf-forecast-service/internal/domain"
	"github.com/couchcryptid/surf-forecast-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw event into a value of type T.
type Transformer[T any] interface {
	Transform(ctx context.Context, raw domain.RawEvent) (T, error)
}

// BatchLoader writes multiple values to a destination.
type BatchLoader[T any] interface {
	LoadBatch(ctx context.Context, batch []T) error
}

// LoaderFunc adapts a function to BatchLoader.
type LoaderFunc[T any] func(ctx context.Context, batch []T) error

func (f LoaderFunc[T]) LoadBatch(ctx context.Context, batch []T) error {
	return f(ctx, batch)
}

// FanOut loads each batch into every loader in order and stops at the first
// failure. Loaders must be idempotent: a failed batch is retried against all
// of them.
func FanOut[T any](loaders ...BatchLoader[T]) BatchLoader[T] {
	return LoaderFunc[T](func(ctx context.Context, batch []T) error {
		for i, l := range loaders {
			if err := l.LoadBatch(ctx, batch); err != nil {
				return fmt.Errorf("loader %d: %w", i, err)
			}
		}
		return nil
	})
}

// pipelineMetrics are the shared vectors curried with this pipeline's name.
type pipelineMetrics struct {
	consumed  prometheus.Counter
	produced  prometheus.Counter
	errors    prometheus.Counter
	running   prometheus.Gauge
	batchSize prometheus.Observer
	duration  prometheus.Observer
}

func newPipelineMetrics(m *observability.Metrics, name string) pipelineMetrics {
	return pipelineMetrics{
		consumed:  m.MessagesConsumed.WithLabelValues(name),
		produced:  m.MessagesProduced.WithLabelValues(name),
		errors:    m.TransformErrors.WithLabelValues(name),
		running:   m.PipelineRunning.WithLabelValues(name),
		batchSize: m.BatchSize.WithLabelValues(name),
		duration:  m.BatchProcessingDuration.WithLabelValues(name),
	}
}

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline[T any] struct {
	name        string
	extractor   BatchExtractor
	transformer Transformer[T]
	loader      BatchLoader[T]
	logger      *slog.Logger
	metrics     pipelineMetrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a named Pipeline with the given stages and observability. The
// name labels the pipeline's metrics and log lines.
func New[T any](name string, e BatchExtractor, t Transformer[T], l BatchLoader[T], logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline[T] {
	return &Pipeline[T]{
		name:        name,
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger.With("pipeline", name),
		metrics:     newPipelineMetrics(metrics, name),
		batchSize:   batchSize,
	}
}

// Name is the pipeline's label.
func (p *Pipeline[T]) Name() string {
	return p.name
}

// Ready reports whether the pipeline has loaded at least one message.
func (p *Pipeline[T]) Ready() bool {
	return p.ready.Load()
}

// CheckReadiness returns nil if the pipeline has processed at least one message,
// or an error describing why the service is not yet ready.
func (p *Pipeline[T]) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return fmt.Errorf("%s %w", p.name, errNotReady)
	}
	return nil
}

var errNotReady = errors.New("pipeline has not processed any messages yet")

// Run executes the batch ETL loop until the context is cancelled.
func (p *Pipeline[T]) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.running.Set(1)
	defer p.metrics.running.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

// processBatch runs one extract-transform-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline[T]) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return p.backoffOrStop(ctx, backoff)
	}

	if len(rawBatch) == 0 {
		return ctx.Err() == nil
	}

	p.metrics.consumed.Add(float64(len(rawBatch)))
	p.metrics.batchSize.Observe(float64(len(rawBatch)))
	*backoff = initialBackoff

	loaded, ok := p.transformAndLoad(ctx, rawBatch, backoff)
	if !ok {
		return false
	}

	if loaded > 0 {
		p.metrics.duration.Observe(time.Since(start).Seconds())
		p.ready.Store(true)
	}
	return true
}

// transformAndLoad transforms each message in the batch, loads the successes,
// and commits offsets. Returns the number of successfully loaded messages and
// false if the pipeline should stop.
func (p *Pipeline[T]) transformAndLoad(ctx context.Context, rawBatch []domain.RawEvent, backoff *time.Duration) (int, bool) {
	outBatch := make([]T, 0, len(rawBatch))
	successfulRaws := make([]domain.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("transform failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.errors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		outBatch = append(outBatch, out)
		successfulRaws = append(successfulRaws, raw)
	}

	if len(outBatch) == 0 {
		return 0, true
	}

	// Retry the same batch until it loads or the context ends; offsets stay
	// uncommitted meanwhile so a restart replays it.
	for {
		err := p.loader.LoadBatch(ctx, outBatch)
		if err == nil {
			break
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(outBatch))
		if !p.backoffOrStop(ctx, backoff) {
			return 0, false
		}
	}
	*backoff = initialBackoff

	p.metrics.produced.Add(float64(len(outBatch)))

	for _, raw := range successfulRaws {
		p.commitOffset(ctx, raw)
	}

	return len(outBatch), true
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline[T]) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline[T]) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

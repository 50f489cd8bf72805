package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/weacodi-service/internal/domain"
	"github.com/couchcryptid/weacodi-service/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
	drainTimeout   = 5 * time.Second
)

// BatchLoader writes multiple series messages to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, msgs []domain.SeriesMessage) error
}

// Publisher queues derived series and writes them to a BatchLoader in
// batches from a single background loop. It implements SeriesPublisher.
type Publisher struct {
	loader        BatchLoader
	queue         chan domain.SeriesMessage
	batchSize     int
	flushInterval time.Duration
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewPublisher creates a Publisher. A batch is written once it holds
// batchSize messages or flushInterval has passed since its first message.
func NewPublisher(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration) *Publisher {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Publisher{
		loader:        l,
		queue:         make(chan domain.SeriesMessage, batchSize*4),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		logger:        logger,
		metrics:       metrics,
	}
}

// Publish enqueues msg without blocking. When the queue is full the message
// is dropped and counted as a publish error.
func (p *Publisher) Publish(msg domain.SeriesMessage) {
	select {
	case p.queue <- msg:
	default:
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish queue full, dropping series", "key", msg.Key)
	}
}

// Run writes queued messages until the context is cancelled, then flushes
// whatever is still queued using a fresh deadline.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("publisher started", "batch_size", p.batchSize, "flush_interval", p.flushInterval)
	p.metrics.PublisherRunning.Set(1)
	defer p.metrics.PublisherRunning.Set(0)

	backoff := initialBackoff
	for {
		batch, ok := p.collectBatch(ctx)
		if !ok {
			p.logger.Info("publisher stopping", "reason", ctx.Err())
			p.drain(batch)
			return nil
		}
		if p.loadBatch(ctx, batch) {
			backoff = initialBackoff
			continue
		}
		if !p.backoffOrStop(ctx, &backoff) {
			p.drain(nil)
			return nil
		}
	}
}

// collectBatch blocks for the first message, then gathers more until the
// batch is full or the flush interval elapses. Returns false once the
// context is done, along with any partial batch.
func (p *Publisher) collectBatch(ctx context.Context) ([]domain.SeriesMessage, bool) {
	var first domain.SeriesMessage
	select {
	case <-ctx.Done():
		return nil, false
	case first = <-p.queue:
	}

	batch := make([]domain.SeriesMessage, 1, p.batchSize)
	batch[0] = first

	timer := time.NewTimer(p.flushInterval)
	defer timer.Stop()

	for len(batch) < p.batchSize {
		select {
		case msg := <-p.queue:
			batch = append(batch, msg)
		case <-timer.C:
			return batch, true
		case <-ctx.Done():
			return batch, false
		}
	}
	return batch, true
}

// loadBatch writes one batch. A failed batch is dropped; the writer has
// already retried it.
func (p *Publisher) loadBatch(ctx context.Context, batch []domain.SeriesMessage) bool {
	p.metrics.PublishBatchSize.Observe(float64(len(batch)))
	if err := p.loader.LoadBatch(ctx, batch); err != nil {
		p.metrics.PublishErrors.Add(float64(len(batch)))
		p.logger.Error("publish batch failed", "error", err, "batch_size", len(batch))
		return false
	}
	p.metrics.SeriesPublished.Add(float64(len(batch)))
	return true
}

// drain writes pending plus everything left in the queue.
func (p *Publisher) drain(pending []domain.SeriesMessage) {
	pending = append(pending, p.queued()...)
	if len(pending) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	p.logger.Info("flushing queued series", "count", len(pending))
	for start := 0; start < len(pending); start += p.batchSize {
		end := min(start+p.batchSize, len(pending))
		p.loadBatch(ctx, pending[start:end])
	}
}

func (p *Publisher) queued() []domain.SeriesMessage {
	var out []domain.SeriesMessage
	for {
		select {
		case msg := <-p.queue:
			out = append(out, msg)
		default:
			return out
		}
	}
}

// backoffOrStop sleeps with the current backoff and advances it. Returns
// false if the publisher should stop.
func (p *Publisher) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !sleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = nextBackoff(*backoff, maxBackoff)
	return true
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
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

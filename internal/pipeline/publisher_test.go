package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/weacodi-service/internal/domain"
	"github.com/couchcryptid/weacodi-service/internal/observability"
	"github.com/couchcryptid/weacodi-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLoader struct {
	mu      sync.Mutex
	batches [][]domain.SeriesMessage
	err     error
}

func (m *mockLoader) LoadBatch(_ context.Context, msgs []domain.SeriesMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, append([]domain.SeriesMessage(nil), msgs...))
	return nil
}

func (m *mockLoader) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for _, b := range m.batches {
		for _, msg := range b {
			keys = append(keys, msg.Key)
		}
	}
	return keys
}

func (m *mockLoader) batchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sizes := make([]int, len(m.batches))
	for i, b := range m.batches {
		sizes[i] = len(b)
	}
	return sizes
}

func message(i int) domain.SeriesMessage {
	return domain.SeriesMessage{Key: fmt.Sprintf("key-%d", i)}
}

func runPublisher(t *testing.T, p *pipeline.Publisher) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	t.Cleanup(cancel)
	return cancel, done
}

func TestPublisher_BatchesUpToBatchSize(t *testing.T) {
	loader := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.NewPublisher(loader, discardLogger(), metrics, 2, time.Hour)

	for i := range 4 {
		p.Publish(message(i))
	}
	cancel, done := runPublisher(t, p)

	require.Eventually(t, func() bool { return len(loader.keys()) == 4 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []int{2, 2}, loader.batchSizes())
	assert.Equal(t, []string{"key-0", "key-1", "key-2", "key-3"}, loader.keys())
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.SeriesPublished))
	assert.Zero(t, testutil.ToFloat64(metrics.PublisherRunning))
}

func TestPublisher_FlushesPartialBatchAfterInterval(t *testing.T) {
	loader := &mockLoader{}
	p := pipeline.NewPublisher(loader, discardLogger(), observability.NewMetricsForTesting(), 50, 20*time.Millisecond)
	cancel, done := runPublisher(t, p)

	p.Publish(message(1))
	require.Eventually(t, func() bool { return len(loader.keys()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, []int{1}, loader.batchSizes())
}

func TestPublisher_DropsWhenQueueFull(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	// batch size 1 gives a queue of 4.
	p := pipeline.NewPublisher(&mockLoader{}, discardLogger(), metrics, 1, time.Millisecond)

	for i := range 6 {
		p.Publish(message(i))
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PublishErrors))
}

func TestPublisher_LoadErrorIsCounted(t *testing.T) {
	loader := &mockLoader{err: errors.New("broker unavailable")}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.NewPublisher(loader, discardLogger(), metrics, 1, time.Millisecond)
	cancel, done := runPublisher(t, p)

	p.Publish(message(1))
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.PublishErrors) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Zero(t, testutil.ToFloat64(metrics.SeriesPublished))
}

func TestPublisher_DrainsOnShutdown(t *testing.T) {
	loader := &mockLoader{}
	metrics := observability.NewMetricsForTesting()
	p := pipeline.NewPublisher(loader, discardLogger(), metrics, 10, time.Hour)

	for i := range 3 {
		p.Publish(message(i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))

	assert.Equal(t, []string{"key-0", "key-1", "key-2"}, loader.keys())
	assert.Equal(t, []int{3}, loader.batchSizes())
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.SeriesPublished))
}

func TestPublisher_NoMessagesStopsCleanly(t *testing.T) {
	loader := &mockLoader{}
	p := pipeline.NewPublisher(loader, discardLogger(), observability.NewMetricsForTesting(), 0, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, p.Run(ctx))
	assert.Empty(t, loader.keys())
}

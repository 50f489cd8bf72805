package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/weacodi-service/internal/domain"
	"github.com/couchcryptid/weacodi-service/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a derived series is served from the cache.
const DefaultCacheTTL = 3 * time.Hour

// Querier derives a comfort series for normalized query parameters.
type Querier interface {
	Query(ctx context.Context, params domain.QueryParameters) (domain.DerivedSeries, error)
	CheckReadiness(ctx context.Context) error
}

type cacheEntry struct {
	series   domain.DerivedSeries
	storedAt time.Time
}

// CachedService wraps a Querier with a TTL cache keyed by
// QueryParameters.CacheKey. Concurrent misses for one key share a single
// upstream query. Errors are never cached.
type CachedService struct {
	inner   Querier
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCachedService creates a caching decorator around inner. A non-positive
// ttl uses DefaultCacheTTL.
func NewCachedService(inner Querier, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedService{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		entries: make(map[string]cacheEntry),
	}
}

// Query returns the cached series for params when it is younger than the
// TTL, otherwise it queries the inner service and stores the result. hit
// reports whether the series came from the cache.
func (c *CachedService) Query(ctx context.Context, params domain.QueryParameters) (series domain.DerivedSeries, hit bool, err error) {
	start := c.clock.Now()
	defer func() {
		c.metrics.QueryDuration.Observe(c.clock.Since(start).Seconds())
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		c.metrics.Queries.WithLabelValues(outcome).Inc()
	}()

	key := params.CacheKey()
	if s, ok := c.lookup(key); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return s, true, nil
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	// The flight outlives any one caller; each caller only stops waiting
	// when its own context ends. The upstream client timeout bounds it.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// A flight that finished between the lookup above and this call
		// has already stored the series.
		if s, ok := c.lookup(key); ok {
			return s, nil
		}
		s, err := c.inner.Query(flightCtx, params)
		if err != nil {
			return nil, err
		}
		c.store(key, s)
		return s, nil
	})

	select {
	case <-ctx.Done():
		return domain.DerivedSeries{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.DerivedSeries{}, false, res.Err
		}
		return res.Val.(domain.DerivedSeries), false, nil
	}
}

// CheckReadiness delegates to the inner service.
func (c *CachedService) CheckReadiness(ctx context.Context) error {
	return c.inner.CheckReadiness(ctx)
}

// Len returns the number of entries held, including expired ones. Entries
// are replaced on refresh but never removed.
func (c *CachedService) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CachedService) lookup(key string) (domain.DerivedSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.clock.Since(e.storedAt) >= c.ttl {
		return domain.DerivedSeries{}, false
	}
	return e.series, true
}

func (c *CachedService) store(key string, series domain.DerivedSeries) {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{series: series, storedAt: now}
	c.metrics.CacheEntries.Set(float64(len(c.entries)))
}

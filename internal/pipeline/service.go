package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/weacodi-service/internal/domain"
)

// ForecastFetcher retrieves a raw forecast for a location. windowDays is the
// number of forecast days requested in addition to the past day.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context, lat, lon float64, windowDays int) (domain.RawForecast, error)
}

// Pinger checks that the forecast provider answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SeriesPublisher hands freshly derived series to the series topic. Publish
// must not block the query path.
type SeriesPublisher interface {
	Publish(msg domain.SeriesMessage)
}

// Service answers comfort queries by fetching a forecast and deriving the
// series from it.
type Service struct {
	fetcher   ForecastFetcher
	publisher SeriesPublisher
	logger    *slog.Logger
	ready     atomic.Bool
}

// NewService creates a Service. Pass a nil publisher to disable publishing.
func NewService(f ForecastFetcher, p SeriesPublisher, logger *slog.Logger) *Service {
	return &Service{
		fetcher:   f,
		publisher: p,
		logger:    logger,
	}
}

// Query fetches the forecast for params and derives the comfort series.
func (s *Service) Query(ctx context.Context, params domain.QueryParameters) (domain.DerivedSeries, error) {
	raw, err := s.fetcher.FetchForecast(ctx, params.Latitude, params.Longitude, params.WindowDays)
	if err != nil {
		return domain.DerivedSeries{}, fmt.Errorf("fetch forecast: %w", err)
	}

	series, err := domain.BuildSeries(raw, params)
	if err != nil {
		s.logger.Warn("derive series failed",
			"latitude", params.Latitude,
			"longitude", params.Longitude,
			"error", err,
		)
		return domain.DerivedSeries{}, fmt.Errorf("derive series: %w", err)
	}

	s.ready.Store(true)
	if s.publisher != nil {
		s.publisher.Publish(domain.NewSeriesMessage(params, series))
	}

	s.logger.Debug("series derived",
		"key", params.CacheKey(),
		"hours", series.Len(),
		"timezone", raw.Timezone,
	)
	return series, nil
}

// CheckReadiness returns nil once a query has succeeded. Before that it
// pings the forecast provider when the fetcher supports it.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	p, ok := s.fetcher.(Pinger)
	if !ok {
		return errors.New("no comfort query has succeeded yet")
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("forecast provider not reachable: %w", err)
	}
	return nil
}

package domain

import "time"

// SeriesMessage is a freshly derived series as published to the series
// topic. Key is the query's cache key and is carried as the message key.
type SeriesMessage struct {
	Key         string          `json:"-"`
	Query       QueryParameters `json:"query"`
	Series      DerivedSeries   `json:"series"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// NewSeriesMessage stamps a derived series with its query and the current time.
func NewSeriesMessage(params QueryParameters, series DerivedSeries) SeriesMessage {
	return SeriesMessage{
		Key:         params.CacheKey(),
		Query:       params,
		Series:      series,
		GeneratedAt: clock.Now().UTC(),
	}
}

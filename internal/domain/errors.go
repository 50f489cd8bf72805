package domain

import "errors"

var (
	// ErrUpstreamFetch marks failures of the forecast provider: transport
	// errors, non-success statuses, undecodable bodies, or an open breaker.
	ErrUpstreamFetch = errors.New("upstream forecast fetch failed")

	// ErrMalformedPayload is returned when a forecast lacks its hourly or
	// daily section.
	ErrMalformedPayload = errors.New("open-meteo payload is missing required fields")
)

package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weacodi-service/internal/domain"
	"github.com/couchcryptid/weacodi-service/internal/observability"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

const (
	methodForecast = "forecast"
	methodPing     = "ping"
)

// Options configures a Client. Zero values fall back to the defaults noted
// on each field.
type Options struct {
	BaseURL   string        // DefaultBaseURL
	Timeout   time.Duration // 10s
	RateLimit float64       // requests per second, 5
	Burst     int           // 10
}

// Client fetches hourly forecasts from the Open-Meteo API. Requests are rate
// limited and guarded by a circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[domain.RawForecast]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo forecast client.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.Burst < 1 {
		opts.Burst = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL: opts.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		breaker: newBreaker("open-meteo"),
		metrics: metrics,
		logger:  logger,
	}
}

// newBreaker opens after more than five consecutive failures and probes
// again with a single request after 30s. Only server-side failures count.
func newBreaker(name string) *gobreaker.CircuitBreaker[domain.RawForecast] {
	return gobreaker.NewCircuitBreaker[domain.RawForecast](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: isBreakerSuccess,
	})
}

// statusError is a non-200 answer from the API.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("open-meteo API error: status %d: %s", e.Code, e.Body)
}

// isBreakerSuccess reports whether err leaves the API's health unquestioned.
// Rejected requests (4xx) and callers that gave up do not count as failures.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests
	}
	return false
}

// FetchForecast requests windowDays of hourly data plus one past day at the
// given coordinates. Every failure wraps domain.ErrUpstreamFetch.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64, windowDays int) (domain.RawForecast, error) {
	return c.fetch(ctx, forecastParams(lat, lon, windowDays), methodForecast)
}

// Ping requests a one-day forecast at 0,0 to check that the API answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fetch(ctx, forecastParams(0, 0, 1), methodPing)
	return err
}

func forecastParams(lat, lon float64, windowDays int) url.Values {
	hourly := make([]string, len(domain.HourlyFields))
	for i, f := range domain.HourlyFields {
		hourly[i] = string(f)
	}

	return url.Values{
		"latitude":      {strconv.FormatFloat(lat, 'f', 4, 64)},
		"longitude":     {strconv.FormatFloat(lon, 'f', 4, 64)},
		"hourly":        {strings.Join(hourly, ",")},
		"daily":         {strings.Join(domain.DailyFields, ",")},
		"forecast_days": {strconv.Itoa(windowDays)},
		"past_days":     {"1"},
		"timezone":      {"auto"},
	}
}

func (c *Client) fetch(ctx context.Context, params url.Values, method string) (domain.RawForecast, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(method, "rate_limited").Inc()
		return domain.RawForecast{}, fmt.Errorf("%w: rate limit wait: %w", domain.ErrUpstreamFetch, err)
	}

	fullURL := c.baseURL + "?" + params.Encode()
	start := time.Now()
	raw, err := c.breaker.Execute(func() (domain.RawForecast, error) {
		return c.doRequest(ctx, fullURL)
	})
	c.metrics.UpstreamDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "circuit_open"
		}
		c.metrics.UpstreamRequests.WithLabelValues(method, outcome).Inc()
		c.logger.Warn("open-meteo request failed",
			"method", method,
			"outcome", outcome,
			"latitude", params.Get("latitude"),
			"longitude", params.Get("longitude"),
			"error", err,
		)
		return domain.RawForecast{}, fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
	}

	c.metrics.UpstreamRequests.WithLabelValues(method, "success").Inc()
	c.logger.Debug("open-meteo request succeeded",
		"method", method,
		"latitude", params.Get("latitude"),
		"longitude", params.Get("longitude"),
		"timezone", raw.Timezone,
	)
	return raw, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.RawForecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawForecast{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return domain.RawForecast{}, &statusError{Code: resp.StatusCode, Body: string(body)}
	}

	var raw domain.RawForecast
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.RawForecast{}, fmt.Errorf("decode response: %w", err)
	}
	return raw, nil
}

package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/weacodi-service/internal/domain"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const headerRequestID = "X-Request-ID"

// ComfortQuerier answers normalized comfort queries. hit reports whether the
// series was served from the cache.
type ComfortQuerier interface {
	Query(ctx context.Context, params domain.QueryParameters) (series domain.DerivedSeries, hit bool, err error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the comfort API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	querier    ComfortQuerier
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /v1/comfort, /healthz, /readyz, and
// /metrics routes.
func NewServer(addr string, q ComfortQuerier, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withRequestID(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		querier: q,
		logger:  logger,
	}

	mux.Handle("GET /v1/comfort", gzhttp.GzipHandler(http.HandlerFunc(s.handleComfort)))
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(q))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleComfort(w http.ResponseWriter, r *http.Request) {
	params := domain.NormalizeQuery(rawQuery(r.URL.Query()))

	series, hit, err := s.querier.Query(r.Context(), params)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUpstreamFetch) || errors.Is(err, domain.ErrMalformedPayload) {
			status = http.StatusBadGateway
		}
		s.logger.Warn("comfort query failed",
			"request_id", w.Header().Get(headerRequestID),
			"cache_key", params.CacheKey(),
			"status", status,
			"error", err,
		)
		sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	cache := "miss"
	if hit {
		cache = "hit"
	}
	w.Header().Set("X-Cache", cache)
	sharedobs.WriteJSON(w, http.StatusOK, series)
}

func rawQuery(v url.Values) domain.RawQuery {
	return domain.RawQuery{
		Latitude:    v.Get("lat"),
		Longitude:   v.Get("lon"),
		Days:        v.Get("days"),
		Sensitivity: v.Get("sensitivity"),
		Intensity:   v.Get("intensity"),
		Units:       v.Get("units"),
	}
}

// withRequestID echoes the caller's X-Request-ID or assigns a new one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

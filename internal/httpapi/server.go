// Package httpapi exposes the dispatcher's search and health operations
// over plain HTTP for callers that can't speak MCP stdio or shell out to
// the CLI: POST /search, GET /health, and GET /metrics for Prometheus
// scraping. It is intentionally small — two JSON routes and a metrics
// handler don't need a router dependency on top of net/http.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ricegrep/ricegrep/internal/dispatch"
	ricegreperrors "github.com/ricegrep/ricegrep/internal/errors"
	"github.com/ricegrep/ricegrep/internal/search"
	"github.com/ricegrep/ricegrep/internal/telemetry"
)

// Server wraps a dispatch.Dispatcher behind an http.Handler.
type Server struct {
	dispatcher *dispatch.Dispatcher
	metrics    *telemetry.PrometheusMetrics
	logger     *slog.Logger

	mux *http.ServeMux
}

// Config configures a Server.
type Config struct {
	// Metrics, when non-nil, is registered with the dispatcher and
	// exposed at GET /metrics. Nil disables the metrics route entirely.
	Metrics *telemetry.PrometheusMetrics
	Logger  *slog.Logger
}

// NewServer builds a Server around dispatcher, wiring it to cfg.Metrics if
// set and registering /search, /health, and (conditionally) /metrics.
func NewServer(dispatcher *dispatch.Dispatcher, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		dispatcher: dispatcher,
		metrics:    cfg.Metrics,
		logger:     logger,
		mux:        http.NewServeMux(),
	}
	if cfg.Metrics != nil {
		dispatcher.SetMetrics(cfg.Metrics)
	}

	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/health", s.handleHealth)
	if cfg.Metrics != nil {
		s.mux.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{}))
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type searchRequestBody struct {
	Query           string   `json:"query"`
	Paths           []string `json:"paths,omitempty"`
	MaxCount        int      `json:"max_count,omitempty"`
	Language        string   `json:"language,omitempty"`
	RepositoryID    *uint32  `json:"repository_id,omitempty"`
	FilePathPattern string   `json:"file_path_pattern,omitempty"`
	TimeoutMs       int64    `json:"timeout_ms,omitempty"`
}

type searchResponseBody struct {
	RequestID   string                 `json:"request_id"`
	Results     []*search.SearchResult `json:"results"`
	TotalFound  int                    `json:"total_found"`
	QueryTimeMs int64                  `json:"query_time_ms"`
	Timeout     bool                   `json:"timeout"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body searchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req := search.SearchRequest{
		Query:           body.Query,
		Paths:           body.Paths,
		MaxCount:        body.MaxCount,
		Language:        body.Language,
		RepositoryID:    body.RepositoryID,
		FilePathPattern: body.FilePathPattern,
	}
	if body.TimeoutMs > 0 {
		req.Timeout = time.Duration(body.TimeoutMs) * time.Millisecond
	}

	resp, err := s.dispatcher.Search(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		var ricegrepErr *ricegreperrors.RicegrepError
		if errors.As(err, &ricegrepErr) {
			switch ricegrepErr.Code {
			case ricegreperrors.ErrCodeQueryEmpty:
				status = http.StatusBadRequest
			case ricegreperrors.ErrCodeIndexNotReady:
				status = http.StatusServiceUnavailable
			}
		}
		s.logger.Error("search request failed", slog.String("error", err.Error()))
		writeJSONError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, searchResponseBody{
		RequestID:   resp.RequestID,
		Results:     resp.Results,
		TotalFound:  resp.TotalFound,
		QueryTimeMs: resp.QueryTimeMs,
		Timeout:     resp.Timeout,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := s.dispatcher.Health(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !resp.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// ListenAndServe starts the HTTP server on addr and blocks until ctx is
// cancelled or the server fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/qsolog/internal/domain"
	"github.com/couchcryptid/qsolog/internal/query"
	"github.com/couchcryptid/qsolog/internal/render"
)

// Report table sizes for /stats.
const (
	recentRows  = 25
	distantRows = 40
)

// Store provides the merged QSO set once it has been loaded.
type Store interface {
	sharedobs.ReadinessChecker
	QSOs() []domain.QSO
}

// Server exposes health, readiness, metrics, and read-only QSO endpoints.
type Server struct {
	httpServer *http.Server
	store      Store
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, /qsos and /stats routes.
func NewServer(addr string, store Store, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:  store,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(store))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /qsos", s.requireReady(s.handleQSOs))
	mux.HandleFunc("GET /stats", s.requireReady(s.handleStats))

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

func (s *Server) requireReady(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.store.CheckReadiness(r.Context()); err != nil {
			sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		next(w, r)
	}
}

// handleQSOs serves the merged set, filtered by the call, mode, grid and
// confirmed query parameters.
func (s *Server) handleQSOs(w http.ResponseWriter, r *http.Request) {
	g, err := s.group(r)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	qsos := g.QSOs
	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirmed")); confirmed {
		qsos = g.QSLs
	}
	if qsos == nil {
		qsos = []domain.QSO{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, qsos)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	g, err := s.group(r)
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, render.NewReport(g, recentRows, distantRows))
}

func (s *Server) group(r *http.Request) (query.Group, error) {
	q := r.URL.Query()
	if v := q.Get("confirmed"); v != "" {
		if _, err := strconv.ParseBool(v); err != nil {
			return query.Group{}, fmt.Errorf("invalid confirmed parameter %q", v)
		}
	}
	return query.NewGroup(s.store.QSOs(), query.Filter{
		Call: q.Get("call"),
		Mode: q.Get("mode"),
		Grid: q.Get("grid"),
	}), nil
}

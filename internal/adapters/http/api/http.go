// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/cors"

	"github.com/okian/mindthegap/internal/adapters/render"
	service "github.com/okian/mindthegap/internal/app"
	"github.com/okian/mindthegap/internal/domain/chart"
	"github.com/okian/mindthegap/internal/domain/model"
	"github.com/okian/mindthegap/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Filters(ctx context.Context) (service.FilterOptions, error)
	Bundle(ctx context.Context, fs model.FilterState) (chart.Bundle, error)
	Figure(ctx context.Context, fs model.FilterState, id string) (chart.Figure, error)
	Render(ctx context.Context, fs model.FilterState, id string, format render.Format, w io.Writer) error
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	filtersHandler *FiltersHandler
	chartsHandler  *ChartsHandler

	allowedOrigins []string
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.filtersHandler = NewFiltersHandler(deps)
	s.chartsHandler = NewChartsHandler(deps, s.logger)
	return s
}

// Register attaches all API routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/filters", MetricsMiddleware(s.filtersHandler.HandleGetFilters, "filters"))
	mux.HandleFunc("/api/v1/charts", MetricsMiddleware(s.chartsHandler.HandleGetBundle, "charts"))
	mux.HandleFunc("/api/v1/charts/", MetricsMiddleware(s.chartsHandler.HandleGetFigure, "chart"))
}

// Handler wraps next with request IDs and CORS.
func (s *Server) Handler(next http.Handler) http.Handler {
	c := cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         corsMaxAge,
	})
	return RequestIDMiddleware(c(next))
}

const corsMaxAge = 300

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/Divaprk/DAaaS-Platform-G36/internal/app"
	repository "github.com/Divaprk/DAaaS-Platform-G36/internal/adapters/repository"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/engine"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/report"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Defaults() service.Defaults

	Tradeoff(ctx context.Context, f repository.Filter, p report.TradeoffParams) (report.TradeoffResult, error)
	RelativePerformance(ctx context.Context, f repository.Filter, p report.RelativeParams) (report.RelativeResult, error)
	UniversityComparison(ctx context.Context, f repository.Filter, p report.UniversityParams) (report.UniversityResult, error)
	Overview(ctx context.Context, f repository.Filter) (service.OverviewResult, error)
	Filters(ctx context.Context) (report.FilterOptions, error)
	Reload(ctx context.Context) (*repository.Snapshot, error)
}

// Server wires HTTP routes for the analytics API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	analysisHandler *AnalysisHandler
	reloadHandler   *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		analysisHandler: NewAnalysisHandler(deps),
		reloadHandler:   NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/tradeoff", MetricsMiddleware(s.analysisHandler.HandleTradeoff, "tradeoff"))
	mux.HandleFunc("/v1/relative-performance", MetricsMiddleware(s.analysisHandler.HandleRelativePerformance, "relative_performance"))
	mux.HandleFunc("/v1/universities", MetricsMiddleware(s.analysisHandler.HandleUniversities, "universities"))
	mux.HandleFunc("/v1/overview", MetricsMiddleware(s.analysisHandler.HandleOverview, "overview"))
	mux.HandleFunc("/v1/filters", MetricsMiddleware(s.analysisHandler.HandleFilters, "filters"))
	mux.HandleFunc("/v1/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := errorResponse{Code: code, Message: http.StatusText(status)}
	if err != nil {
		resp.Message = err.Error()
	}
	var mf *engine.MissingFieldsError
	if errors.As(err, &mf) {
		resp.Fields = mf.Fields
	}
	writeJSON(w, status, resp)
}

// writeFailure maps err onto an HTTP status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrMethodNotAllowed):
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", err)
	case errors.Is(err, engine.ErrMissingFields):
		writeError(w, http.StatusUnprocessableEntity, "missing_fields", err)
	case errors.Is(err, repository.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "not_loaded", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

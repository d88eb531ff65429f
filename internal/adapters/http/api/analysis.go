package api

import (
	"net/http"

	service "github.com/Divaprk/DAaaS-Platform-G36/internal/app"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/engine"
)

// AnalysisHandler serves the survey analyses.
type AnalysisHandler struct {
	deps Dependencies
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps Dependencies) *AnalysisHandler {
	return &AnalysisHandler{deps: deps}
}

// HandleTradeoff handles GET /v1/tradeoff requests.
func (h *AnalysisHandler) HandleTradeoff(w http.ResponseWriter, r *http.Request) {
	const op = "api.tradeoff"
	if r.Method != http.MethodGet {
		writeFailure(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	q := r.URL.Query()
	f, err := filterParams(q, true)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	p := h.deps.Defaults().Tradeoff
	p.Settings.MinSampleSize = intParam(q, "min_sample_size", p.Settings.MinSampleSize)
	p.Settings.TopN = intParam(q, "top_n", p.Settings.TopN)
	p.Trendline = boolParam(q, "add_trendline", p.Trendline)

	res, err := h.deps.Tradeoff(r.Context(), f, p)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRelativePerformance handles GET /v1/relative-performance requests.
func (h *AnalysisHandler) HandleRelativePerformance(w http.ResponseWriter, r *http.Request) {
	const op = "api.relative_performance"
	if r.Method != http.MethodGet {
		writeFailure(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	q := r.URL.Query()
	f, err := filterParams(q, true)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	p := h.deps.Defaults().Relative
	if col := q.Get("salary_column"); col != "" {
		p.SalaryColumn = col
	}
	if groupBy := listParam(q, "group_by"); len(groupBy) > 0 {
		p.GroupBy = groupBy
	}
	p.Settings.MinSampleSize = intParam(q, "min_sample_size", p.Settings.MinSampleSize)
	if q.Has("weight_mode") {
		p.Settings.WeightMode = engine.ParseWeightMode(q.Get("weight_mode"))
	}
	p.Settings.TopK = intParam(q, "top_k", p.Settings.TopK)
	p.Settings.MinPeriodsPresent = intParam(q, "min_years", p.Settings.MinPeriodsPresent)
	p.Settings.StdFloor = floatParam(q, "std_floor", p.Settings.StdFloor)
	if focus := listParam(q, "focus_courses"); len(focus) > 0 {
		p.Settings.Focus = focus
	}

	res, err := h.deps.RelativePerformance(r.Context(), f, p)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleUniversities handles GET /v1/universities requests.
func (h *AnalysisHandler) HandleUniversities(w http.ResponseWriter, r *http.Request) {
	const op = "api.universities"
	if r.Method != http.MethodGet {
		writeFailure(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	q := r.URL.Query()
	f, err := filterParams(q, false)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	d := h.deps.Defaults()
	f.MinRecordsPerUniversity = intParam(q, "min_records", 0)
	f = service.MergeFilter(f, d.UniversityFilter)

	p := d.University
	if cats := listParam(q, "categories"); len(cats) > 0 {
		p.Categories = cats
	}
	p.TopCategories = intParam(q, "top_categories", p.TopCategories)

	res, err := h.deps.UniversityComparison(r.Context(), f, p)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleOverview handles GET /v1/overview requests.
func (h *AnalysisHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.overview"
	if r.Method != http.MethodGet {
		writeFailure(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	f, err := filterParams(r.URL.Query(), true)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	res, err := h.deps.Overview(r.Context(), f)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleFilters handles GET /v1/filters requests.
func (h *AnalysisHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	const op = "api.filters"
	if r.Method != http.MethodGet {
		writeFailure(w, NewKind(op, ErrMethodNotAllowed))
		return
	}
	res, err := h.deps.Filters(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

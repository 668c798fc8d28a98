// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/palmares/internal/adapters/chart"
	service "github.com/okian/palmares/internal/app"
	"github.com/okian/palmares/internal/domain/selection"
	"github.com/okian/palmares/internal/domain/view"
)

// Query parameters understood by the dashboard routes.
const (
	paramYear    = "year"
	paramGroup   = "group"
	paramQuery   = "q"
	paramPartial = "partial"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Dashboard builds the dashboard of a selection.
	Dashboard(ctx context.Context, p selection.Params) (view.Dashboard, error)
	// Detail describes one college for the year of p.
	Detail(ctx context.Context, p selection.Params, id string) (view.Detail, error)

	// SearchDebounce is the delay the page script waits after typing.
	SearchDebounce() time.Duration
	// RankSize is the length of the top and bottom lists.
	RankSize() int
}

// Server wires HTTP routes for the dashboard.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	collegeHandler   *CollegeHandler
	chartHandler     *ChartHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, renderer *chart.Renderer) *Server {
	if renderer == nil {
		renderer = chart.New()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps),
		collegeHandler:   NewCollegeHandler(deps),
		chartHandler:     NewChartHandler(deps, renderer),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.dashboardHandler.HandlePage, "dashboard"))
	mux.HandleFunc("GET /api/dashboard", MetricsMiddleware(s.dashboardHandler.HandleJSON, "api_dashboard"))

	mux.HandleFunc("GET /colleges/{id}", MetricsMiddleware(s.collegeHandler.HandlePage, "college"))
	mux.HandleFunc("GET /api/colleges/{id}", MetricsMiddleware(s.collegeHandler.HandleJSON, "api_college"))

	mux.HandleFunc("GET /charts/axes.svg", MetricsMiddleware(s.chartHandler.HandleAxes, "chart_axes"))
	mux.HandleFunc("GET /charts/colleges/{file}", MetricsMiddleware(s.chartHandler.HandleCollege, "chart_college"))
}

// paramsFrom reads the selection from the URL query. Values are kept
// verbatim; the query is not trimmed.
func paramsFrom(r *http.Request) selection.Params {
	q := r.URL.Query()
	return selection.Params{
		Year:  q.Get(paramYear),
		Group: q.Get(paramGroup),
		Query: q.Get(paramQuery),
	}
}

// encodeParams is the query string that resolves back to p.
func encodeParams(p selection.Params) string {
	v := url.Values{}
	if p.Year != "" {
		v.Set(paramYear, p.Year)
	}
	if p.Group != "" {
		v.Set(paramGroup, p.Group)
	}
	if p.Query != "" {
		v.Set(paramQuery, p.Query)
	}
	return v.Encode()
}

func partial(r *http.Request) bool {
	return r.URL.Query().Get(paramPartial) == "1"
}

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

// statusOf maps service errors to an HTTP status and error code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, "dataset_unavailable"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrNoData):
		return http.StatusNotFound, "no_data"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrRender):
		return http.StatusInternalServerError, "render_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

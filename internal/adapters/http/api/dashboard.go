package api

import (
	"html/template"
	"net/http"
)

// DashboardHandler serves the dashboard page and its JSON form.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandlePage handles GET / requests. With partial=1 only the content block
// is rendered, for the page script to swap in. When the dataset is missing
// the degraded page is served with 503.
func (h *DashboardHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	p := paramsFrom(r)
	d, err := h.deps.Dashboard(r.Context(), p)
	status := http.StatusOK
	if err != nil {
		status, _ = statusOf(err)
	}

	page := dashboardPage{
		D:          d,
		RankSize:   h.deps.RankSize(),
		DebounceMS: h.deps.SearchDebounce().Milliseconds(),
		// #nosec G203 -- built from url.Values.Encode
		ChartURL: template.URL("/charts/axes.svg?" + encodeParams(d.Params())),
	}
	name := tmplDashboard
	if partial(r) {
		name = tmplContent
	}
	renderHTML(w, r, status, name, page)
}

// HandleJSON handles GET /api/dashboard requests.
func (h *DashboardHandler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	d, err := h.deps.Dashboard(r.Context(), paramsFrom(r))
	if err != nil {
		status, code := statusOf(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

package api

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/okian/palmares/internal/domain/selection"
)

// CollegeHandler serves the detail of one college.
type CollegeHandler struct {
	deps Dependencies
}

// NewCollegeHandler creates a new college handler.
func NewCollegeHandler(deps Dependencies) *CollegeHandler {
	return &CollegeHandler{deps: deps}
}

// HandlePage handles GET /colleges/{id} requests. With partial=1 only the
// modal body is rendered.
func (h *CollegeHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_college_page"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, NewKind(op, ErrBadRequest).Error(), http.StatusBadRequest)
		return
	}
	p := paramsFrom(r)
	d, err := h.deps.Detail(r.Context(), p, id)
	if err != nil {
		status, _ := statusOf(err)
		http.Error(w, Wrap(op, err).Error(), status)
		return
	}

	page := detailPage{
		D: d,
		// #nosec G203 -- built from url.Values.Encode
		BackURL: template.URL("/?" + encodeParams(p)),
		// #nosec G203 -- built from url.Values.Encode
		ChartURL: template.URL("/charts/colleges/" + escapeSegment(d.ID) + ".svg?" +
			encodeParams(selection.Params{Year: d.Year})),
	}
	name := tmplDetailPage
	if partial(r) {
		name = tmplDetail
	}
	renderHTML(w, r, http.StatusOK, name, page)
}

// HandleJSON handles GET /api/colleges/{id} requests.
func (h *CollegeHandler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_college"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	d, err := h.deps.Detail(r.Context(), paramsFrom(r), id)
	if err != nil {
		status, code := statusOf(err)
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

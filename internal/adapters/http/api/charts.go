package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/palmares/internal/adapters/chart"
)

const svgSuffix = ".svg"

// ChartHandler serves SVG bar charts.
type ChartHandler struct {
	deps     Dependencies
	renderer *chart.Renderer
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps Dependencies, renderer *chart.Renderer) *ChartHandler {
	return &ChartHandler{deps: deps, renderer: renderer}
}

// HandleAxes handles GET /charts/axes.svg requests: the axis averages of
// the selection.
func (h *ChartHandler) HandleAxes(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_axes_chart"
	d, err := h.deps.Dashboard(r.Context(), paramsFrom(r))
	if err != nil {
		h.fail(w, Wrap(op, err))
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, chart.KindAxes, "Moyennes par axe - "+d.Year, d.Matrix); err != nil {
		h.fail(w, WrapKind(op, ErrRender, err))
		return
	}
	writeSVG(w, buf.Bytes())
}

// HandleCollege handles GET /charts/colleges/{id}.svg requests: the axis
// scores of one college for the year.
func (h *ChartHandler) HandleCollege(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_college_chart"
	file := r.PathValue("file")
	id, ok := strings.CutSuffix(file, svgSuffix)
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}
	d, err := h.deps.Detail(r.Context(), paramsFrom(r), id)
	if err != nil {
		h.fail(w, Wrap(op, err))
		return
	}
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, chart.KindCollege, d.Title+" - "+d.Year, d.Bars); err != nil {
		h.fail(w, WrapKind(op, ErrRender, err))
		return
	}
	writeSVG(w, buf.Bytes())
}

func (h *ChartHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, chart.ErrNoBars) {
		err = WrapKind("api.chart", ErrNoData, err)
	}
	status, _ := statusOf(err)
	http.Error(w, err.Error(), status)
}

func writeSVG(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func escapeSegment(s string) string {
	return url.PathEscape(s)
}

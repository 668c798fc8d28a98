package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/okian/palmares/internal/domain/view"
	"github.com/okian/palmares/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages holds every HTML template, parsed once.
var pages = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

// Template names.
const (
	tmplDashboard  = "dashboard"
	tmplContent    = "content"
	tmplDetail     = "detail"
	tmplDetailPage = "detailPage"
)

// dashboardPage is the data of the dashboard templates.
type dashboardPage struct {
	D          view.Dashboard
	RankSize   int
	DebounceMS int64
	ChartURL   template.URL
}

// detailPage is the data of the detail templates.
type detailPage struct {
	D        view.Detail
	BackURL  template.URL
	ChartURL template.URL
}

// renderHTML executes name into a buffer first so a failing template never
// sends a partial page.
func renderHTML(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		err = WrapKind("api.render_html", ErrRender, err)
		logger.Get().Error(r.Context(), "template render failed",
			logger.String("template", name),
			logger.Error(err),
		)
		status, _ := statusOf(err)
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/palmares/internal/adapters/chart"
	"github.com/okian/palmares/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRenderFailures(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}

	Convey("Given a template that cannot be executed", t, func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		renderHTML(w, r, http.StatusOK, "missing", nil)

		Convey("Then a 500 is sent instead of a partial page", func() {
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Header().Get("Content-Type"), ShouldNotEqual, "text/html; charset=utf-8")
		})
	})

	Convey("Given a classified render error", t, func() {
		err := WrapKind("api.render_html", ErrRender, errors.New("boom"))
		status, code := statusOf(err)

		Convey("Then it maps to render_failed", func() {
			So(errors.Is(err, ErrRender), ShouldBeTrue)
			So(status, ShouldEqual, http.StatusInternalServerError)
			So(code, ShouldEqual, "render_failed")
		})
	})

	Convey("Given a chart without bars", t, func() {
		h := &ChartHandler{}
		w := httptest.NewRecorder()
		h.fail(w, WrapKind("api.get_axes_chart", ErrRender, fmt.Errorf("axes: %w", chart.ErrNoBars)))

		Convey("Then the empty chart is reported as no data", func() {
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

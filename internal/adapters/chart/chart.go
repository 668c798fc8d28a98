// Package chart renders axis bars as SVG bar charts.
package chart

import (
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/palmares/internal/domain/scoring"
	"github.com/okian/palmares/internal/domain/view"
	"github.com/okian/palmares/pkg/metrics"
)

// Chart kinds, used as metric labels.
const (
	KindAxes    = "axes"
	KindCollege = "college"
)

// Default chart size and layout.
const (
	defaultWidth  = 720
	defaultHeight = 360
	sidePadding   = 100
	minBarWidth   = 10
)

// ContentType is the media type of rendered charts.
const ContentType = "image/svg+xml"

// ErrNoBars is returned when there is nothing to draw.
var ErrNoBars = errors.New("chart has no bars")

// Badge colors, matching the dashboard stylesheet.
var (
	colorGood = drawing.ColorFromHex("2e7d32")
	colorWarn = drawing.ColorFromHex("f9a825")
	colorBad  = drawing.ColorFromHex("c62828")
	colorNone = drawing.ColorFromHex("bdbdbd")
)

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithSize sets the chart size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// Renderer draws bar charts on the 0-4 scale.
type Renderer struct {
	width  int
	height int
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes bars as an SVG document. Bars without a score are drawn at
// zero in grey and labelled "-".
func (r *Renderer) Render(w io.Writer, kind, title string, bars []view.AxisBar) error {
	if len(bars) == 0 {
		metrics.RecordChartError(kind)
		return ErrNoBars
	}
	bc := gochart.BarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   r.barWidth(len(bars)),
		BarSpacing: r.barWidth(len(bars)) / 2,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.Style{FontSize: 9},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: scoring.MinScore, Max: scoring.MaxScore},
			Ticks: []gochart.Tick{
				{Value: 0, Label: "0"},
				{Value: 1, Label: "1"},
				{Value: 2, Label: "2"},
				{Value: 3, Label: "3"},
				{Value: 4, Label: "4"},
			},
		},
		Bars: Values(bars),
	}
	if err := bc.Render(gochart.SVG, w); err != nil {
		metrics.RecordChartError(kind)
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	metrics.RecordChartRender(kind)
	return nil
}

func (r *Renderer) barWidth(n int) int {
	// n bars plus n-1 half-width gaps fit in the plot area.
	bw := 2 * (r.width - sidePadding) / (3*n - 1)
	if bw < minBarWidth {
		return minBarWidth
	}
	return bw
}

// Values converts axis bars to chart values.
func Values(bars []view.AxisBar) []gochart.Value {
	values := make([]gochart.Value, len(bars))
	for i, b := range bars {
		color := barColor(b.Score)
		values[i] = gochart.Value{
			Value: b.Score.Value,
			Label: b.Label + " (" + b.Score.String() + ")",
			Style: gochart.Style{FillColor: color, StrokeColor: color},
		}
	}
	return values
}

func barColor(s scoring.Score) drawing.Color {
	switch scoring.Badge(s) {
	case scoring.BadgeGood:
		return colorGood
	case scoring.BadgeWarn:
		return colorWarn
	case scoring.BadgeBad:
		return colorBad
	default:
		return colorNone
	}
}

// Package view derives the dashboard view model from a selection state.
// Every builder is a pure function; writers (HTML, JSON, SVG) only format
// what these builders return.
package view

import (
	"fmt"
	"strings"

	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/internal/domain/ranking"
	"github.com/okian/palmares/internal/domain/scoring"
	"github.com/okian/palmares/internal/domain/selection"
	"github.com/okian/palmares/internal/domain/types"
)

// Display texts.
const (
	placeholder     = "-"
	metaSeparator   = " • "
	defaultTitle    = "palmares"
	topTag          = "Top"
	bottomTag       = "À renforcer"
	highlightsTitle = "Points saillants"
	notesTitle      = "Points d'attention"
	errorGlobal     = "Erreur"
	errorGlobalNote = "données"
)

// Options tune the view builders.
type Options struct {
	// RankSize is the length of the top and bottom lists.
	RankSize int
	// AllLabel labels the "all groups" option.
	AllLabel string
}

func (o Options) rankSize() int {
	if o.RankSize <= 0 {
		return ranking.DefaultSize
	}
	return o.RankSize
}

// BuildInfo describes the loaded dataset.
type BuildInfo struct {
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
	Text      string `json:"text"`
}

// KPIs are the headline cards.
type KPIs struct {
	Global       scoring.Score `json:"global"`
	GlobalText   string        `json:"global_text"`
	GlobalNote   string        `json:"global_note"`
	Count        int           `json:"count"`
	BestAxis     string        `json:"best_axis"`
	BestAxisNote string        `json:"best_axis_note"`
	WeakAxis     string        `json:"weak_axis"`
	WeakAxisNote string        `json:"weak_axis_note"`
}

// AxisBar is one line of the axis matrix or of a detail chart.
type AxisBar struct {
	Key     string        `json:"key"`
	Label   string        `json:"label"`
	Score   scoring.Score `json:"score"`
	Text    string        `json:"text"`
	Percent float64       `json:"percent"`
}

// RankItem is one entry of the top or bottom list.
type RankItem struct {
	ID    string        `json:"id"`
	Year  string        `json:"year"`
	Name  string        `json:"name"`
	Meta  string        `json:"meta"`
	Avg   scoring.Score `json:"avg"`
	Text  string        `json:"text"`
	Badge string        `json:"badge"`
}

// Ranking holds the top and bottom lists.
type Ranking struct {
	Top    []RankItem `json:"top"`
	Bottom []RankItem `json:"bottom"`
}

// Empty reports that no row has an average.
func (r Ranking) Empty() bool { return len(r.Top) == 0 }

// Cell is one axis value in the table.
type Cell struct {
	Key   string        `json:"key"`
	Score scoring.Score `json:"score"`
	Text  string        `json:"text"`
}

// TableRow is one line of the table.
type TableRow struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	City       string        `json:"city"`
	Type       string        `json:"type"`
	GroupLabel string        `json:"group_label"`
	Avg        scoring.Score `json:"avg"`
	AvgText    string        `json:"avg_text"`
	Badge      string        `json:"badge"`
	Cells      []Cell        `json:"cells"`
}

// Dashboard is the full view model of one selection.
type Dashboard struct {
	Info       BuildInfo      `json:"info"`
	Years      []types.Option `json:"years"`
	Year       string         `json:"year"`
	Groups     []types.Option `json:"groups"`
	GroupKey   string         `json:"group"`
	Query      string         `json:"query"`
	Axes       dataset.Axes   `json:"axes"`
	KPIs       KPIs           `json:"kpis"`
	Matrix     []AxisBar      `json:"matrix"`
	MatrixHint string         `json:"matrix_hint"`
	Ranking    Ranking        `json:"ranking"`
	Table      []TableRow     `json:"table"`
	// Unavailable is set when the dataset could not be loaded.
	Unavailable bool `json:"unavailable"`
}

// Build derives the dashboard of state s.
func Build(ds *dataset.Dataset, s selection.State, opts Options) Dashboard {
	filtered := s.Filtered()
	avgs := AxisAverages(filtered, s.Table.Axes)

	return Dashboard{
		Info:       Info(ds),
		Years:      selection.YearOptions(ds),
		Year:       s.Year,
		Groups:     selection.GroupOptions(s.Table.Cohort, opts.AllLabel),
		GroupKey:   s.GroupKey,
		Query:      s.Query,
		Axes:       s.Table.Axes,
		KPIs:       BuildKPIs(len(filtered), avgs),
		Matrix:     Matrix(avgs),
		MatrixHint: MatrixHint(s),
		Ranking:    BuildRanking(filtered, opts.rankSize()),
		Table:      Table(filtered, s.Table.Axes),
	}
}

// Params returns the parameters that resolve back to the selection of d.
func (d Dashboard) Params() selection.Params {
	return selection.Params{Year: d.Year, Group: d.GroupKey, Query: d.Query}
}

// Unavailable is the degraded dashboard shown when loading failed. Nothing
// else is rendered.
func Unavailable() Dashboard {
	return Dashboard{
		KPIs: KPIs{
			GlobalText:   errorGlobal,
			GlobalNote:   errorGlobalNote,
			BestAxis:     placeholder,
			BestAxisNote: placeholder,
			WeakAxis:     placeholder,
			WeakAxisNote: placeholder,
		},
		Unavailable: true,
	}
}

// Info describes the dataset build.
func Info(ds *dataset.Dataset) BuildInfo {
	var meta dataset.Meta
	if ds != nil {
		meta = ds.Meta
	}
	info := BuildInfo{
		Title:     meta.Title.Or(defaultTitle),
		UpdatedAt: meta.UpdatedAt.Or(placeholder),
	}
	info.Text = "Dataset: " + info.Title + metaSeparator + "Updated: " + info.UpdatedAt
	return info
}

// AxisAverages averages every axis over rows.
func AxisAverages(rows []types.Row, axes dataset.Axes) scoring.Averages {
	sets := make([]dataset.Scores, len(rows))
	for i, r := range rows {
		sets[i] = r.Scores
	}
	return scoring.AxisAverages(sets, axes)
}

// BuildKPIs fills the headline cards from the axis averages of the
// filtered rows.
func BuildKPIs(count int, avgs scoring.Averages) KPIs {
	global := scoring.GlobalAverage(avgs)
	k := KPIs{
		Global:       global,
		GlobalText:   global.String(),
		Count:        count,
		BestAxis:     placeholder,
		BestAxisNote: placeholder,
		WeakAxis:     placeholder,
		WeakAxisNote: placeholder,
	}
	if best, worst, ok := scoring.Extremes(avgs); ok {
		k.BestAxis = labelOf(best.Axis)
		k.BestAxisNote = outOfScale(best.Score)
		k.WeakAxis = labelOf(worst.Axis)
		k.WeakAxisNote = outOfScale(worst.Score)
	}
	return k
}

// Matrix turns axis averages into bars.
func Matrix(avgs scoring.Averages) []AxisBar {
	bars := make([]AxisBar, len(avgs))
	for i, av := range avgs {
		bars[i] = AxisBar{
			Key:     av.Axis.Key,
			Label:   labelOf(av.Axis),
			Score:   av.Score,
			Text:    av.Score.String(),
			Percent: av.Score.Percent(),
		}
	}
	return bars
}

// MatrixHint explains what the matrix averages cover.
func MatrixHint(s selection.State) string {
	label := ""
	if l := string(s.Table.Cohort.Label); l != "" {
		label = "- " + l
	}
	return fmt.Sprintf("Averages sur le filtre courant (année %s%s)", s.Year, label)
}

// BuildRanking derives the top and bottom lists.
func BuildRanking(rows []types.Row, n int) Ranking {
	r := ranking.Extremes(rows, n)
	out := Ranking{
		Top:    make([]RankItem, len(r.Top)),
		Bottom: make([]RankItem, len(r.Bottom)),
	}
	for i, row := range r.Top {
		out.Top[i] = rankItem(row, topTag)
	}
	for i, row := range r.Bottom {
		out.Bottom[i] = rankItem(row, bottomTag)
	}
	return out
}

func rankItem(r types.Row, tag string) RankItem {
	return RankItem{
		ID:    r.ID,
		Year:  r.Year,
		Name:  r.Name,
		Meta:  r.City + metaSeparator + r.Type + metaSeparator + tag,
		Avg:   r.Avg,
		Text:  r.Avg.String(),
		Badge: scoring.Badge(r.Avg),
	}
}

// Table sorts rows by average and lays out one cell per axis.
func Table(rows []types.Row, axes dataset.Axes) []TableRow {
	sorted := ranking.ByAverage(rows)
	out := make([]TableRow, len(sorted))
	for i, r := range sorted {
		cells := make([]Cell, len(axes))
		for j, ax := range axes {
			s := r.Score(ax.Key)
			cells[j] = Cell{Key: ax.Key, Score: s, Text: s.Raw()}
		}
		out[i] = TableRow{
			ID:         r.ID,
			Name:       r.Name,
			City:       r.City,
			Type:       r.Type,
			GroupLabel: r.GroupLabel,
			Avg:        r.Avg,
			AvgText:    r.Avg.String(),
			Badge:      scoring.Badge(r.Avg),
			Cells:      cells,
		}
	}
	return out
}

func labelOf(ax dataset.Axis) string {
	if ax.Label == "" {
		return ax.Key
	}
	return ax.Label
}

func outOfScale(s scoring.Score) string {
	return s.String() + " / 4"
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

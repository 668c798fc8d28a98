package view

import (
	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/internal/domain/scoring"
	"github.com/okian/palmares/internal/domain/selection"
	"github.com/okian/palmares/internal/domain/types"
)

// Note is a highlight or a point of attention.
type Note struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Detail is the full data of one college for the selected year.
type Detail struct {
	ID       string        `json:"id"`
	Year     string        `json:"year"`
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Avg      scoring.Score `json:"avg"`
	Pills    []string      `json:"pills"`
	Bars     []AxisBar     `json:"bars"`
	Notes    []Note        `json:"notes"`
	Source   string        `json:"source"`
}

// BuildDetail describes the row id of the selected year. It looks at every
// row of the year, not only the filtered ones, and leaves s untouched.
func BuildDetail(s selection.State, id string) (Detail, bool) {
	r, ok := s.Row(id)
	if !ok {
		return Detail{}, false
	}
	subtitle := joinNonEmpty(metaSeparator, r.City, r.Type, r.GroupLabel)
	if subtitle == "" {
		subtitle = placeholder
	}
	source := "Source: " + placeholder
	if r.SourceRef != "" {
		source = "Source: " + r.SourceRef
	}
	return Detail{
		ID:       r.ID,
		Year:     r.Year,
		Title:    r.Name,
		Subtitle: subtitle,
		Avg:      r.Avg,
		Pills:    pills(r),
		Bars:     RowBars(r, s.Table.Axes),
		Notes:    notes(r),
		Source:   source,
	}, true
}

// RowBars lays out one bar per axis with the row's own values.
func RowBars(r types.Row, axes dataset.Axes) []AxisBar {
	bars := make([]AxisBar, len(axes))
	for i, ax := range axes {
		s := r.Score(ax.Key)
		bars[i] = AxisBar{
			Key:     ax.Key,
			Label:   labelOf(ax),
			Score:   s,
			Text:    s.Raw(),
			Percent: s.Percent(),
		}
	}
	return bars
}

func pills(r types.Row) []string {
	var out []string
	if r.Type != "" {
		out = append(out, "Type: "+r.Type)
	}
	if r.GroupLabel != "" {
		out = append(out, "Groupe: "+r.GroupLabel)
	}
	if r.City != "" {
		out = append(out, "Ville: "+r.City)
	}
	if r.Avg.Valid {
		out = append(out, "Score moyen: "+r.Avg.String()+" / 4")
	}
	return out
}

func notes(r types.Row) []Note {
	out := make([]Note, 0, len(r.Highlights)+len(r.Notes))
	for _, t := range r.Highlights {
		out = append(out, Note{Title: highlightsTitle, Text: t})
	}
	for _, t := range r.Notes {
		out = append(out, Note{Title: notesTitle, Text: t})
	}
	return out
}

// Package types contains the derived types shared by the domain packages.
package types

import (
	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/internal/domain/scoring"
)

// Row joins a cohort member, its college metadata and its score record for
// one year. Rows are rebuilt whenever the year changes and never mutated.
type Row struct {
	ID         string         `json:"id"`
	Year       string         `json:"year"`
	Name       string         `json:"name"`
	City       string         `json:"city"`
	Type       string         `json:"type"`
	GroupKey   string         `json:"group_key"`
	GroupLabel string         `json:"group_label"`
	Notes      []string       `json:"notes"`
	Highlights []string       `json:"highlights"`
	Scores     dataset.Scores `json:"scores"`
	Avg        scoring.Score  `json:"avg"`
	SourceRef  string         `json:"source_ref"`
}

// Score returns the row's usable value for an axis.
func (r Row) Score(axisKey string) scoring.Score {
	return scoring.Axis(r.Scores, axisKey)
}

// Option is an entry of a selection list (years, groups).
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

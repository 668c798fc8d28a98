// Package rows joins cohort membership, college metadata and score records
// of one year into flat display rows.
package rows

import (
	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/internal/domain/scoring"
	"github.com/okian/palmares/internal/domain/types"
)

// Table is the row set of one year.
type Table struct {
	Year   string
	Cohort dataset.Cohort
	// Known is false when the dataset has no cohort for Year.
	Known bool
	Axes  dataset.Axes
	Rows  []types.Row
}

// Build resolves the cohort of year and produces one row per member, in
// cohort order. Axes come from the dataset mapping, so an axis nobody
// scored is still present. An unknown year yields an empty table.
func Build(ds *dataset.Dataset, year string) Table {
	t := Table{Year: year}
	if ds == nil {
		return t
	}
	t.Axes = ds.Axes
	cohort, ok := ds.Cohort(year)
	if !ok {
		return t
	}
	t.Cohort = cohort
	t.Known = true

	labels := make(map[string]string, len(cohort.Groups))
	for _, g := range cohort.Groups {
		if _, seen := labels[string(g.Key)]; !seen {
			labels[string(g.Key)] = string(g.Label)
		}
	}
	axisKeys := ds.AxisKeys()

	t.Rows = make([]types.Row, 0, len(cohort.Colleges))
	for _, m := range cohort.Colleges {
		t.Rows = append(t.Rows, buildRow(ds, year, m, labels, axisKeys))
	}
	return t
}

func buildRow(ds *dataset.Dataset, year string, m dataset.CohortMember, groupLabels map[string]string, axisKeys []string) types.Row {
	id := string(m.ID)
	meta, _ := ds.CollegeByID(id)
	rec, _ := ds.ScoreFor(id, year)

	scores := rec.Scores
	if scores == nil {
		scores = dataset.Scores{}
	}
	groupLabel := groupLabels[string(m.GroupKey)]
	if groupLabel == "" {
		groupLabel = string(m.GroupKey)
	}

	return types.Row{
		ID:         id,
		Year:       year,
		Name:       meta.Name.Or(m.Name.Or(id)),
		City:       string(meta.City),
		Type:       string(m.Type),
		GroupKey:   string(m.GroupKey),
		GroupLabel: groupLabel,
		Notes:      copyStrings(m.Notes),
		Highlights: copyStrings(m.Highlights),
		Scores:     scores,
		Avg:        scoring.RowAverage(scores, axisKeys),
		SourceRef:  string(rec.SourceRef),
	}
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

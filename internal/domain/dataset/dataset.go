// Package dataset holds the evaluation dataset document and read accessors
// over it. The document is treated as external input: its shape is implicit,
// and irregular values are absorbed as absent data instead of failing.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Dataset is the root document.
type Dataset struct {
	Axes          Axes              `json:"axes"`
	Cohorts       map[string]Cohort `json:"cohorts"`
	Colleges      []College         `json:"colleges"`
	CollegeScores []ScoreRecord     `json:"college_scores"`
	Meta          Meta              `json:"meta"`
}

// Meta describes the dataset build.
type Meta struct {
	Title     Text `json:"title"`
	UpdatedAt Text `json:"updated_at"`
}

// Cohort is the membership snapshot of one year.
type Cohort struct {
	Label    Text           `json:"label"`
	Colleges []CohortMember `json:"colleges"`
	Groups   []Group        `json:"groups"`
}

// CohortMember is a college as listed in a cohort.
type CohortMember struct {
	ID         Text     `json:"id"`
	Name       Text     `json:"name"`
	GroupKey   Text     `json:"groupKey"`
	Type       Text     `json:"type"`
	Notes      TextList `json:"notes"`
	Highlights TextList `json:"highlights"`
}

// Group is a label-tagged subset of a cohort.
type Group struct {
	Key   Text `json:"key"`
	Label Text `json:"label"`
}

// College is the static metadata of an institution.
type College struct {
	ID   Text `json:"id"`
	Name Text `json:"name"`
	City Text `json:"city"`
}

// ScoreRecord holds the axis scores of one college for one year.
type ScoreRecord struct {
	CollegeID Text   `json:"college_id"`
	Year      Year   `json:"year"`
	Scores    Scores `json:"scores"`
	SourceRef Text   `json:"source_ref"`
}

// Decode reads a dataset document. Any read or syntax failure is reported
// as ErrUnavailable.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return &ds, nil
}

// CollegeByID returns the first college whose id matches.
func (d *Dataset) CollegeByID(id string) (College, bool) {
	if d == nil {
		return College{}, false
	}
	for _, c := range d.Colleges {
		if string(c.ID) == id {
			return c, true
		}
	}
	return College{}, false
}

// ScoreFor returns the first score record for (collegeID, year). Years are
// compared numerically so "2024" and 2024 designate the same year.
func (d *Dataset) ScoreFor(collegeID, year string) (ScoreRecord, bool) {
	if d == nil {
		return ScoreRecord{}, false
	}
	want, ok := parseYear(year)
	if !ok {
		return ScoreRecord{}, false
	}
	for _, rec := range d.CollegeScores {
		if string(rec.CollegeID) != collegeID {
			continue
		}
		if got, ok := rec.Year.Number(); ok && got == want {
			return rec, true
		}
	}
	return ScoreRecord{}, false
}

// Cohort returns the cohort registered for year.
func (d *Dataset) Cohort(year string) (Cohort, bool) {
	if d == nil || d.Cohorts == nil {
		return Cohort{}, false
	}
	c, ok := d.Cohorts[year]
	return c, ok
}

// Years lists the cohort years that parse as numbers, most recent first.
func (d *Dataset) Years() []string {
	if d == nil {
		return nil
	}
	type year struct {
		label string
		n     float64
	}
	years := make([]year, 0, len(d.Cohorts))
	for k := range d.Cohorts {
		if n, ok := parseYear(k); ok {
			years = append(years, year{label: k, n: n})
		}
	}
	sort.Slice(years, func(i, j int) bool {
		if years[i].n != years[j].n {
			return years[i].n > years[j].n
		}
		return years[i].label < years[j].label
	})
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = y.label
	}
	return out
}

// DefaultYear is the most recent year, or "" when there is none.
func (d *Dataset) DefaultYear() string {
	years := d.Years()
	if len(years) == 0 {
		return ""
	}
	return years[0]
}

// AxisKeys returns the axis keys in document order.
func (d *Dataset) AxisKeys() []string {
	if d == nil {
		return nil
	}
	return d.Axes.Keys()
}

func parseYear(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

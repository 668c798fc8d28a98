// Package filter narrows a row set by group and free-text search.
package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/okian/palmares/internal/domain/types"
)

// AllGroups is the group key that disables group filtering.
const AllGroups = "all"

// haystackSeparator joins the searchable fields of a row.
const haystackSeparator = " | "

// Criteria selects rows.
type Criteria struct {
	GroupKey string
	Query    string
}

// Apply returns, in input order, the rows that belong to the selected group
// and whose searchable text contains the query. Matching is a plain
// substring test on case-folded, accent-stripped text. The input slice is
// never modified.
func Apply(rows []types.Row, c Criteria) []types.Row {
	q := Normalize(c.Query)
	out := make([]types.Row, 0, len(rows))
	for _, r := range rows {
		if Match(r, c.GroupKey, q) {
			out = append(out, r)
		}
	}
	return out
}

// Match tests a single row against a group key and an already normalized
// query.
func Match(r types.Row, groupKey, normalizedQuery string) bool {
	if groupKey != "" && groupKey != AllGroups && r.GroupKey != groupKey {
		return false
	}
	if normalizedQuery == "" {
		return true
	}
	return strings.Contains(Normalize(Haystack(r)), normalizedQuery)
}

// Haystack is the searchable text of a row.
func Haystack(r types.Row) string {
	parts := make([]string, 0, 4+len(r.Highlights)+len(r.Notes))
	parts = append(parts, r.Name, r.City, r.Type, r.GroupLabel)
	parts = append(parts, r.Highlights...)
	parts = append(parts, r.Notes...)
	return strings.Join(parts, haystackSeparator)
}

// Normalize lower-cases s and strips its diacritics, so "Collège" and
// "college" compare equal.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(
		cases.Lower(language.Und),
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

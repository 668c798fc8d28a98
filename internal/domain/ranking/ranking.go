// Package ranking orders rows by their average score.
package ranking

import (
	"sort"

	"github.com/okian/palmares/internal/domain/types"
)

// DefaultSize is the length of the top and bottom lists.
const DefaultSize = 3

// Ranking holds the best and the weakest rows of a set.
type Ranking struct {
	// Top is ordered best first.
	Top []types.Row
	// Bottom is ordered worst first.
	Bottom []types.Row
}

// Extremes derives Top-n and Bottom-n from one descending order of the rows
// that have an average. Rows without an average are left out of both lists.
// On small sets the two lists overlap.
func Extremes(rows []types.Row, n int) Ranking {
	if n <= 0 {
		return Ranking{}
	}
	scored := make([]types.Row, 0, len(rows))
	for _, r := range rows {
		if r.Avg.Valid {
			scored = append(scored, r)
		}
	}
	sortDesc(scored)

	top := scored[:min(n, len(scored))]
	bottom := scored[max(0, len(scored)-n):]

	res := Ranking{
		Top:    make([]types.Row, len(top)),
		Bottom: make([]types.Row, len(bottom)),
	}
	copy(res.Top, top)
	for i, r := range bottom {
		res.Bottom[len(bottom)-1-i] = r
	}
	return res
}

// ByAverage returns a copy of rows sorted by average, best first. Rows
// without an average sort last and keep their relative order.
func ByAverage(rows []types.Row) []types.Row {
	out := make([]types.Row, len(rows))
	copy(out, rows)
	sortDesc(out)
	return out
}

func sortDesc(rows []types.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Avg, rows[j].Avg
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Valid && a.Value > b.Value
	})
}

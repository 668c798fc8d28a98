// Package scoring aggregates axis scores: per-axis averages across rows, a
// row's own average, and the global average shown in the KPI cards.
//
// Only usable values take part in a mean: finite JSON numbers within the
// 0–4 scale. Everything else is absent data, never zero.
package scoring

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/okian/palmares/internal/domain/dataset"
)

// Scale bounds and badge thresholds.
const (
	MinScore = 0.0
	MaxScore = 4.0

	goodThreshold = 3.2
	warnThreshold = 2.4
)

// Badge classes used by the ranking and table views.
const (
	BadgeGood = "badge--good"
	BadgeWarn = "badge--warn"
	BadgeBad  = "badge--bad"
	BadgeNone = "badge--none"
)

// Score is a nullable score value.
type Score struct {
	Value float64
	Valid bool
}

// Null is the absent score.
var Null = Score{}

// Of returns a valid Score when v is usable, Null otherwise.
func Of(v float64) Score {
	if !Usable(v) {
		return Null
	}
	return Score{Value: v, Valid: true}
}

// Usable reports whether v may take part in an average.
func Usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= MinScore && v <= MaxScore
}

// MarshalJSON writes null for an absent score.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// Round1 rounds to one decimal.
func (s Score) Round1() float64 {
	return math.Round(s.Value*10) / 10
}

// String renders the score rounded to one decimal, or "-".
func (s Score) String() string {
	if !s.Valid {
		return "-"
	}
	return strconv.FormatFloat(s.Round1(), 'f', -1, 64)
}

// Raw renders the score unrounded, or "-".
func (s Score) Raw() string {
	if !s.Valid {
		return "-"
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

// Percent is the share of the scale covered by the score, clamped to
// [0, 100]. An absent score is 0.
func (s Score) Percent() float64 {
	if !s.Valid {
		return 0
	}
	return math.Max(0, math.Min(1, s.Value/MaxScore)) * 100
}

// Badge returns the badge class for an average.
func Badge(s Score) string {
	switch {
	case !s.Valid:
		return BadgeNone
	case s.Value >= goodThreshold:
		return BadgeGood
	case s.Value >= warnThreshold:
		return BadgeWarn
	default:
		return BadgeBad
	}
}

// Axis reads one axis value from a score mapping.
func Axis(scores dataset.Scores, key string) Score {
	v, ok := scores.Number(key)
	if !ok {
		return Null
	}
	return Of(v)
}

// RowAverage is the mean of the row's own usable axis values.
func RowAverage(scores dataset.Scores, axisKeys []string) Score {
	var sum float64
	var n int
	for _, k := range axisKeys {
		if s := Axis(scores, k); s.Valid {
			sum += s.Value
			n++
		}
	}
	if n == 0 {
		return Null
	}
	return Score{Value: sum / float64(n), Valid: true}
}

// AxisAverage is the average of one axis over a set of rows.
type AxisAverage struct {
	Axis  dataset.Axis `json:"axis"`
	Score Score        `json:"score"`
}

// Averages is a list of axis averages in axis order.
type Averages []AxisAverage

// Get returns the average of key, Null when the key is unknown.
func (a Averages) Get(key string) Score {
	for _, av := range a {
		if av.Axis.Key == key {
			return av.Score
		}
	}
	return Null
}

// AxisAverages computes, for every axis, the mean of the usable values found
// across sets. An axis nobody scored averages to Null.
func AxisAverages(sets []dataset.Scores, axes dataset.Axes) Averages {
	out := make(Averages, len(axes))
	for i, ax := range axes {
		var sum float64
		var n int
		for _, scores := range sets {
			if s := Axis(scores, ax.Key); s.Valid {
				sum += s.Value
				n++
			}
		}
		out[i] = AxisAverage{Axis: ax, Score: Null}
		if n > 0 {
			out[i].Score = Score{Value: sum / float64(n), Valid: true}
		}
	}
	return out
}

// GlobalAverage is the mean of the non-null axis averages. It is not the
// mean of the row averages.
func GlobalAverage(avgs Averages) Score {
	var sum float64
	var n int
	for _, av := range avgs {
		if av.Score.Valid {
			sum += av.Score.Value
			n++
		}
	}
	if n == 0 {
		return Null
	}
	return Score{Value: sum / float64(n), Valid: true}
}

// Extremes returns the strongest and the weakest scored axis. Ties keep
// axis order. ok is false when no axis has a score.
func Extremes(avgs Averages) (best, worst AxisAverage, ok bool) {
	scored := make(Averages, 0, len(avgs))
	for _, av := range avgs {
		if av.Score.Valid {
			scored = append(scored, av)
		}
	}
	if len(scored) == 0 {
		return AxisAverage{}, AxisAverage{}, false
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score.Value > scored[j].Score.Value
	})
	return scored[0], scored[len(scored)-1], true
}

// Package selection is the dashboard selection state machine.
//
// A State is an immutable value. Transitions are reducer functions that
// return a new State; rows are rebuilt only when the year changes, group
// and search changes reuse the year's rows and only change the filter.
package selection

import (
	"github.com/okian/palmares/internal/domain/dataset"
	"github.com/okian/palmares/internal/domain/filter"
	"github.com/okian/palmares/internal/domain/rows"
	"github.com/okian/palmares/internal/domain/types"
)

// DefaultAllLabel labels the sentinel "all groups" option.
const DefaultAllLabel = "Tous"

// State is the current selection plus the rows of the selected year.
type State struct {
	Year     string
	GroupKey string
	Query    string
	Table    rows.Table
}

// Kind identifies a transition.
type Kind int

// Transitions.
const (
	YearChanged Kind = iota + 1
	GroupChanged
	QueryChanged
)

// Action is a user event.
type Action struct {
	Kind  Kind
	Value string
}

// SelectYear builds a year change action.
func SelectYear(year string) Action { return Action{Kind: YearChanged, Value: year} }

// SelectGroup builds a group change action.
func SelectGroup(key string) Action { return Action{Kind: GroupChanged, Value: key} }

// Search builds a search change action.
func Search(q string) Action { return Action{Kind: QueryChanged, Value: q} }

// Init is the state right after the dataset is loaded: most recent year,
// every group, empty search.
func Init(ds *dataset.Dataset) State {
	year := ds.DefaultYear()
	return State{
		Year:     year,
		GroupKey: filter.AllGroups,
		Table:    rows.Build(ds, year),
	}
}

// Reduce applies one action. A year change rebuilds the rows and resets the
// group and the search.
func Reduce(ds *dataset.Dataset, s State, a Action) State {
	switch a.Kind {
	case YearChanged:
		return State{
			Year:     a.Value,
			GroupKey: filter.AllGroups,
			Table:    rows.Build(ds, a.Value),
		}
	case GroupChanged:
		s.GroupKey = a.Value
		if s.GroupKey == "" {
			s.GroupKey = filter.AllGroups
		}
		return s
	case QueryChanged:
		s.Query = a.Value
		return s
	default:
		return s
	}
}

// Params is a selection requested from outside (URL query).
type Params struct {
	Year  string
	Group string
	Query string
}

// TableFunc returns the rows of a year.
type TableFunc func(year string) rows.Table

// Resolve replays params on top of Init. A year without cohort is ignored
// and a group the cohort does not define falls back to every group.
func Resolve(ds *dataset.Dataset, p Params) State {
	return ResolveTables(ds, p, func(year string) rows.Table { return rows.Build(ds, year) })
}

// ResolveTables is Resolve with rows taken from tables, so callers can
// share the rows of a year between requests. It yields the same state as
// replaying Init, SelectYear, SelectGroup and Search.
func ResolveTables(ds *dataset.Dataset, p Params, tables TableFunc) State {
	year := ds.DefaultYear()
	if p.Year != "" && p.Year != year {
		if _, ok := ds.Cohort(p.Year); ok {
			year = p.Year
		}
	}
	s := State{Year: year, GroupKey: filter.AllGroups, Table: tables(year)}
	if p.Group != "" && HasGroup(s.Table.Cohort, p.Group) {
		s = Reduce(ds, s, SelectGroup(p.Group))
	}
	if p.Query != "" {
		s = Reduce(ds, s, Search(p.Query))
	}
	return s
}

// Params returns the parameters that resolve back to s.
func (s State) Params() Params {
	return Params{Year: s.Year, Group: s.GroupKey, Query: s.Query}
}

// Filtered runs the filter stage on the year's rows.
func (s State) Filtered() []types.Row {
	return filter.Apply(s.Table.Rows, filter.Criteria{GroupKey: s.GroupKey, Query: s.Query})
}

// Row finds a row of the selected year by id, regardless of the filter.
func (s State) Row(id string) (types.Row, bool) {
	for _, r := range s.Table.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return types.Row{}, false
}

// HasGroup reports whether key is the sentinel or a group of the cohort.
func HasGroup(c dataset.Cohort, key string) bool {
	if key == filter.AllGroups {
		return true
	}
	for _, g := range c.Groups {
		if string(g.Key) == key {
			return true
		}
	}
	return false
}

// YearOptions lists the selectable years, most recent first.
func YearOptions(ds *dataset.Dataset) []types.Option {
	years := ds.Years()
	out := make([]types.Option, len(years))
	for i, y := range years {
		out[i] = types.Option{Key: y, Label: y}
	}
	return out
}

// GroupOptions lists the sentinel option followed by the cohort groups.
func GroupOptions(c dataset.Cohort, allLabel string) []types.Option {
	if allLabel == "" {
		allLabel = DefaultAllLabel
	}
	out := make([]types.Option, 0, len(c.Groups)+1)
	out = append(out, types.Option{Key: filter.AllGroups, Label: allLabel})
	for _, g := range c.Groups {
		out = append(out, types.Option{Key: string(g.Key), Label: string(g.Label)})
	}
	return out
}

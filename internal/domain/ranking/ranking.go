// Package ranking assigns dense within-role ranks to composite and
// underrated scores.
package ranking

import (
	"sort"

	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/schema"
	"github.com/okian/squadrank/internal/domain/table"
	"github.com/okian/squadrank/internal/domain/zscore"
)

// Kinds of ranking.
const (
	KindScore      = "score"
	KindUnderrated = "underrated"
)

// Entry is one ranked row.
type Entry struct {
	Row   int
	Score float64
	Rank  int
}

// Sort orders entries by score descending, then row ascending.
func Sort(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Row < entries[j].Row
	})
}

// Dense sorts entries and assigns dense ranks: equal scores share a rank and
// the next distinct score takes the following integer.
func Dense(entries []Entry) {
	Sort(entries)
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}

// Ranks ranks the defined scores of eligible rows. The result is undefined
// for every other row.
func Ranks(scores []model.Value, eligible []bool) []model.Value {
	entries := make([]Entry, 0, len(scores))
	for i, s := range scores {
		if s.Ok && eligible[i] {
			entries = append(entries, Entry{Row: i, Score: s.V})
		}
	}
	Dense(entries)
	out := make([]model.Value, len(scores))
	for _, e := range entries {
		out[e.Row] = model.Some(float64(e.Rank))
	}
	return out
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMinNineties sets the eligibility floor.
func WithMinNineties(floor float64) Option {
	return func(e *Engine) {
		if floor >= 0 {
			e.floor = floor
		}
	}
}

// Engine ranks per-role scores over eligible cohorts.
type Engine struct {
	floor float64
}

// NewEngine creates an engine with the default floor.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{floor: model.DefaultMinNineties}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Outcome holds the series written by one ranking pass.
type Outcome struct {
	Scores   map[model.Role][]model.Value
	Ranks    map[model.Role][]model.Value
	Eligible map[model.Role]int
}

func newOutcome() Outcome {
	return Outcome{
		Scores:   make(map[model.Role][]model.Value, len(model.Roles)),
		Ranks:    make(map[model.Role][]model.Value, len(model.Roles)),
		Eligible: make(map[model.Role]int, len(model.Roles)),
	}
}

func (e *Engine) eligibility(r model.Role, roles []model.Role, minutes, mv []model.Value) []bool {
	out := make([]bool, len(roles))
	for i := range roles {
		out[i] = roles[i] == r && zscore.Eligible(minutes[i], e.floor)
		if mv != nil {
			out[i] = out[i] && mv[i].Ok
		}
	}
	return out
}

func count(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// Rank writes <role>_rank for every role. A player is eligible when their
// role matches and 90s played is defined and at least the floor.
func (e *Engine) Rank(t *table.Table, roles []model.Role, scores map[model.Role][]model.Value) Outcome {
	minutes := t.Floats(schema.Nineties)
	out := newOutcome()
	for _, r := range model.Roles {
		s := pad(scores[r], t.Len())
		eligible := e.eligibility(r, roles, minutes, nil)
		ranks := Ranks(s, eligible)
		t.SetFloats(schema.RankColumn(r), ranks)
		out.Scores[r] = s
		out.Ranks[r] = ranks
		out.Eligible[r] = count(eligible)
	}
	return out
}

// Underrated writes <role>_underrated = score / market value and its rank.
// The score is defined when the role matches and the market value is
// defined; the rank additionally needs the minutes floor.
func (e *Engine) Underrated(t *table.Table, roles []model.Role, scores map[model.Role][]model.Value, mv []model.Value) Outcome {
	minutes := t.Floats(schema.Nineties)
	out := newOutcome()
	for _, r := range model.Roles {
		s := pad(scores[r], t.Len())
		under := make([]model.Value, t.Len())
		for i := range under {
			if roles[i] == r && s[i].Ok && mv[i].Ok {
				under[i] = model.Some(s[i].V / mv[i].V)
			}
		}
		eligible := e.eligibility(r, roles, minutes, mv)
		ranks := Ranks(under, eligible)
		t.SetFloats(schema.UnderratedColumn(r), under)
		t.SetFloats(schema.UnderratedRankColumn(r), ranks)
		out.Scores[r] = under
		out.Ranks[r] = ranks
		out.Eligible[r] = count(eligible)
	}
	return out
}

func pad(values []model.Value, n int) []model.Value {
	if len(values) >= n {
		return values
	}
	out := make([]model.Value, n)
	copy(out, values)
	return out
}

// Package scoring combines within-role standardized statistics into one
// weighted composite score per role.
package scoring

import (
	"context"
	"fmt"

	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/schema"
	"github.com/okian/squadrank/internal/domain/table"
	"github.com/okian/squadrank/internal/domain/zscore"
)

// Discipline composite coefficients.
const (
	yellowCoefficient = 0.7
	redCoefficient    = 1.3
)

// Term is one signed, weighted input of a composite score.
type Term struct {
	Name   string
	Weight float64
	values func(t *table.Table) []model.Value
}

// Stat weights a table column.
func Stat(column string, weight float64) Term {
	return Term{
		Name:   column,
		Weight: weight,
		values: func(t *table.Table) []model.Value { return t.Floats(column) },
	}
}

// Discipline weights 0.7×yellow/90 + 1.3×red/90, standardized as one
// statistic. Pass a negative weight to penalize.
func Discipline(weight float64) Term {
	return Term{
		Name:   "discipline",
		Weight: weight,
		values: DisciplineValues,
	}
}

// DisciplineValues computes the discipline composite; it is undefined when
// either rate is.
func DisciplineValues(t *table.Table) []model.Value {
	yc := t.Floats(schema.YellowCards90)
	rc := t.Floats(schema.RedCards90)
	out := make([]model.Value, len(yc))
	for i := range yc {
		if yc[i].Ok && rc[i].Ok {
			out[i] = model.Some(yellowCoefficient*yc[i].V + redCoefficient*rc[i].V)
		}
	}
	return out
}

// DefaultWeights returns the weight table of every role. Term order is the
// summation order.
func DefaultWeights() map[model.Role][]Term {
	return map[model.Role][]Term{
		model.Forward: {
			Stat(schema.Goals90, 0.40),
			Stat(schema.NPXG90, 0.15),
			Stat(schema.XG90, 0.10),
			Stat(schema.Assists90, 0.10),
			Stat(schema.XAG90, 0.10),
			Stat(schema.ProgCarries90Any, 0.05),
			Stat(schema.ProgPassesRec90Any, 0.10),
			Discipline(-0.05),
		},
		model.Midfielder: {
			Stat(schema.MFShotCreatingActions90, 0.25),
			Stat(schema.ProgPasses90Any, 0.20),
			Stat(schema.ProgCarries90Any, 0.15),
			Stat(schema.ProgPassesRec90Any, 0.05),
			Stat(schema.Assists90, 0.10),
			Stat(schema.MFPassesAttempted90, 0.10),
			Stat(schema.MFPassCompletionPct, 0.10),
			Stat(schema.MFTackles90, 0.05),
			Stat(schema.MFInterceptions90, 0.05),
		},
		model.Defender: {
			Stat(schema.DFInterceptions90, 0.20),
			Stat(schema.DFTackles90, 0.20),
			Stat(schema.DFBlocks90, 0.15),
			Stat(schema.DFClearances90, 0.15),
			Stat(schema.DFAerialsWon90, 0.15),
			Stat(schema.DFProgressivePassesRec, 0.10),
			Discipline(-0.05),
		},
		model.Goalkeeper: {
			Stat(schema.GKSavePercentage, 0.40),
			Stat(schema.GKCleanSheetPercentage, 0.20),
			Stat(schema.GKCrossesStoppedPct, 0.10),
			Stat(schema.GKDefActionsOutsidePen, 0.10),
			Stat(schema.GKAvgDistanceOfDefAction, 0.05),
			Stat(schema.GKSavePctPenaltyKicks, 0.10),
			Stat(schema.GKPSxGPerSoT, 0.05),
		},
	}
}

// Option applies a configuration option to the Composite scorer.
type Option func(*Composite)

// WithMinNineties sets the standardization cohort floor.
func WithMinNineties(floor float64) Option {
	return func(c *Composite) {
		if floor >= 0 {
			c.floor = floor
		}
	}
}

// WithWeights replaces the weight table of one role.
func WithWeights(r model.Role, terms ...Term) Option {
	return func(c *Composite) {
		if r.Valid() && len(terms) > 0 {
			c.weights[r] = terms
		}
	}
}

// Scorer computes per-role composite scores over a table.
type Scorer interface {
	// Score returns one series per role, honoring ctx for cancellation.
	Score(ctx context.Context, t *table.Table, roles []model.Role) (map[model.Role][]model.Value, error)
}

// Composite implements Scorer with fixed weight tables.
type Composite struct {
	floor   float64
	weights map[model.Role][]Term
}

// NewComposite creates a scorer with the default weights and floor.
func NewComposite(opts ...Option) *Composite {
	c := &Composite{
		floor:   model.DefaultMinNineties,
		weights: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Floor returns the standardization cohort floor.
func (c *Composite) Floor() float64 { return c.floor }

// Weights returns the terms of r.
func (c *Composite) Weights(r model.Role) []Term { return c.weights[r] }

// Score computes every role's composite. A player's score is defined exactly
// when their role matches; ineligible players of the role score 0.
func (c *Composite) Score(ctx context.Context, t *table.Table, roles []model.Role) (map[model.Role][]model.Value, error) {
	if len(roles) != t.Len() {
		return nil, fmt.Errorf("scoring: %d roles for %d rows", len(roles), t.Len())
	}
	minutes := t.Floats(schema.Nineties)
	out := make(map[model.Role][]model.Value, len(model.Roles))
	for _, r := range model.Roles {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}
		sum := make([]float64, t.Len())
		for _, term := range c.weights[r] {
			if term.values == nil {
				continue
			}
			z := zscore.ByRole(term.values(t), roles, minutes, c.floor)
			for i := range sum {
				sum[i] += term.Weight * z[i]
			}
		}
		scores := make([]model.Value, t.Len())
		for i := range scores {
			if roles[i] == r {
				scores[i] = model.Some(sum[i])
			}
		}
		out[r] = scores
	}
	return out, nil
}

// Apply writes the score columns of every role to t.
func Apply(t *table.Table, scores map[model.Role][]model.Value) {
	for _, r := range model.Roles {
		t.SetFloats(schema.ScoreColumn(r), scores[r])
	}
}

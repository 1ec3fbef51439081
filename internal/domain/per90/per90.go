// Package per90 derives per-90-minute rates with ordered fallbacks.
package per90

import (
	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/schema"
	"github.com/okian/squadrank/internal/domain/table"
)

// SafeDiv divides num by den. The result is defined only when both are
// defined and den is strictly positive.
func SafeDiv(num, den model.Value) model.Value {
	if !num.Ok || !den.Ok || den.V <= 0 {
		return model.None
	}
	return model.Some(num.V / den.V)
}

// FirstDefined merges series element-wise: the first defined value wins and
// later series never overwrite it.
func FirstDefined(series ...[]model.Value) []model.Value {
	if len(series) == 0 {
		return nil
	}
	out := make([]model.Value, len(series[0]))
	for _, s := range series {
		for i := range out {
			if !out[i].Ok && i < len(s) {
				out[i] = s[i]
			}
		}
	}
	return out
}

// Rate divides every value of num by the matching value of den.
func Rate(num, den []model.Value) []model.Value {
	out := make([]model.Value, len(num))
	for i := range num {
		if i < len(den) {
			out[i] = SafeDiv(num[i], den[i])
		}
	}
	return out
}

// Derivation resolves one derived column from precomputed fields first and
// a season total divided by 90s played last.
type Derivation struct {
	Column      string
	Precomputed []string
	Total       string
}

// Derivations lists the rate columns written by Normalize.
var Derivations = []Derivation{ //nolint:gochecknoglobals // fixed vocabulary
	{
		Column:      schema.ProgCarries90Any,
		Precomputed: []string{schema.MFProgressiveCarries90},
		Total:       schema.ProgressiveCarries,
	},
	{
		Column:      schema.ProgPassesRec90Any,
		Precomputed: []string{schema.MFProgressivePassesRec, schema.DFProgressivePassesRec},
		Total:       schema.ProgressivePassesReceived,
	},
	{
		Column:      schema.ProgPasses90Any,
		Precomputed: []string{schema.MFProgressivePasses90},
		Total:       schema.ProgressivePasses,
	},
	{Column: schema.YellowCards90, Total: schema.YellowCards},
	{Column: schema.RedCards90, Total: schema.RedCards},
}

// Resolve computes d over t without writing it.
func (d Derivation) Resolve(t *table.Table) []model.Value {
	series := make([][]model.Value, 0, len(d.Precomputed)+1)
	for _, c := range d.Precomputed {
		series = append(series, t.Floats(c))
	}
	series = append(series, Rate(t.Floats(d.Total), t.Floats(schema.Nineties)))
	return FirstDefined(series...)
}

// Normalize appends every derived rate column to t and returns the number of
// undefined cells per column.
func Normalize(t *table.Table) map[string]int {
	undefined := make(map[string]int, len(Derivations))
	for _, d := range Derivations {
		values := d.Resolve(t)
		t.SetFloats(d.Column, values)
		for _, v := range values {
			if !v.Ok {
				undefined[d.Column]++
			}
		}
	}
	return undefined
}

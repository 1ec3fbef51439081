// Package coerce turns numeric-looking text cells into numbers.
package coerce

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/squadrank/internal/domain/table"
)

// Report summarizes one coercion pass.
type Report struct {
	// Columns accepted as numeric, in header order.
	Columns []string
	// Cells converted to numbers.
	Cells int
	// Residual counts non-empty cells left as text inside accepted columns.
	Residual int
}

// Number parses s as a float after trimming whitespace and one trailing "%".
// NaN, infinities and hexadecimal forms are rejected.
func Number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, false
	}
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Table coerces every text column of t in place. A column is accepted when
// at least one non-empty cell parses; inside an accepted column each parsed
// cell gains a numeric reading and every other cell keeps its text.
func Table(t *table.Table) Report {
	var rep Report
	for _, name := range t.Header() {
		cells, _ := t.Column(name)
		parsed := 0
		residual := 0
		for i, c := range cells {
			if c.Numeric {
				continue
			}
			if v, ok := Number(c.Text); ok {
				cells[i] = table.Cell{Text: c.Text, Num: v, Numeric: true}
				parsed++
			} else if !c.Empty() {
				residual++
			}
		}
		if parsed == 0 {
			continue
		}
		t.SetCells(name, cells)
		rep.Columns = append(rep.Columns, name)
		rep.Cells += parsed
		rep.Residual += residual
	}
	return rep
}

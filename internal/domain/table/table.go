// Package table holds the in-memory player snapshot: an ordered header and
// rows of loosely typed cells. Derived columns are appended; row order never
// changes.
package table

import (
	"strconv"
	"strings"

	"github.com/okian/squadrank/internal/domain/model"
)

// Cell is one table value: the raw text plus an optional numeric reading.
type Cell struct {
	Text    string
	Num     float64
	Numeric bool
}

// Text returns a textual cell.
func Text(s string) Cell { return Cell{Text: s} }

// Number returns a numeric cell. Undefined values become empty cells.
func Number(v model.Value) Cell {
	if !v.Ok {
		return Cell{}
	}
	return Cell{Text: FormatFloat(v.V), Num: v.V, Numeric: true}
}

// Empty reports whether the cell carries neither a number nor text.
func (c Cell) Empty() bool {
	return !c.Numeric && strings.TrimSpace(c.Text) == ""
}

// Value returns the numeric reading of the cell.
func (c Cell) Value() model.Value {
	if !c.Numeric {
		return model.None
	}
	return model.Some(c.Num)
}

// String renders the cell for output.
func (c Cell) String() string {
	if c.Numeric {
		return FormatFloat(c.Num)
	}
	return c.Text
}

// FormatFloat renders v in the shortest form that parses back to v.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Table is a column-addressable, row-ordered snapshot.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]Cell
}

// New creates an empty table. Repeated header names are suffixed ".1", ".2"…
func New(header []string) *Table {
	t := &Table{index: make(map[string]int, len(header))}
	for _, h := range header {
		t.addColumn(uniqueName(t.index, h))
	}
	return t
}

func uniqueName(index map[string]int, name string) string {
	if _, ok := index[name]; !ok {
		return name
	}
	for i := 1; ; i++ {
		candidate := name + "." + strconv.Itoa(i)
		if _, ok := index[candidate]; !ok {
			return candidate
		}
	}
}

func (t *Table) addColumn(name string) int {
	t.index[name] = len(t.header)
	t.header = append(t.header, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], Cell{})
	}
	return len(t.header) - 1
}

// AppendRow adds a row, padding or truncating it to the header width.
func (t *Table) AppendRow(cells []Cell) {
	row := make([]Cell, len(t.header))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// AppendTextRow adds a row of raw text values.
func (t *Table) AppendTextRow(values []string) {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Text(v)
	}
	t.AppendRow(cells)
}

// Header returns a copy of the column names in order.
func (t *Table) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// First returns the first of names present in the table.
func (t *Table) First(names ...string) (string, bool) {
	for _, n := range names {
		if t.Has(n) {
			return n, true
		}
	}
	return "", false
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Cell {
	out := make([]Cell, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Cell returns the cell at row i of column name.
func (t *Table) Cell(i int, name string) (Cell, bool) {
	j, ok := t.index[name]
	if !ok || i < 0 || i >= len(t.rows) {
		return Cell{}, false
	}
	return t.rows[i][j], true
}

// Column returns a copy of the column's cells.
func (t *Table) Column(name string) ([]Cell, bool) {
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]Cell, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out, true
}

// Floats returns the numeric view of a column. An absent column reads as
// entirely undefined.
func (t *Table) Floats(name string) []model.Value {
	out := make([]model.Value, len(t.rows))
	j, ok := t.index[name]
	if !ok {
		return out
	}
	for i, r := range t.rows {
		out[i] = r[j].Value()
	}
	return out
}

// Texts returns the raw text of a column; an absent column reads as empty.
func (t *Table) Texts(name string) []string {
	out := make([]string, len(t.rows))
	j, ok := t.index[name]
	if !ok {
		return out
	}
	for i, r := range t.rows {
		out[i] = r[j].Text
	}
	return out
}

// SetCells replaces a column, appending it when new. cells must have one
// entry per row.
func (t *Table) SetCells(name string, cells []Cell) {
	j, ok := t.index[name]
	if !ok {
		j = t.addColumn(name)
	}
	for i := range t.rows {
		if i < len(cells) {
			t.rows[i][j] = cells[i]
		} else {
			t.rows[i][j] = Cell{}
		}
	}
}

// SetFloats writes a numeric column.
func (t *Table) SetFloats(name string, values []model.Value) {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Number(v)
	}
	t.SetCells(name, cells)
}

// SetTexts writes a text column.
func (t *Table) SetTexts(name string, values []string) {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Text(v)
	}
	t.SetCells(name, cells)
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := New(t.header)
	c.rows = make([][]Cell, len(t.rows))
	for i, r := range t.rows {
		c.rows[i] = append([]Cell(nil), r...)
	}
	return c
}

// Records renders the table as header plus string rows.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.rows)+1)
	out = append(out, t.Header())
	for _, r := range t.rows {
		rec := make([]string, len(r))
		for j, c := range r {
			rec[j] = c.String()
		}
		out = append(out, rec)
	}
	return out
}

// Concat stacks tables vertically. The header is the union of the input
// headers in order of first appearance; missing cells are empty.
func Concat(tables ...*Table) *Table {
	var header []string
	seen := make(map[string]bool)
	for _, tb := range tables {
		for _, h := range tb.header {
			if !seen[h] {
				seen[h] = true
				header = append(header, h)
			}
		}
	}
	out := New(header)
	for _, tb := range tables {
		for _, r := range tb.rows {
			row := make([]Cell, len(header))
			for j, h := range tb.header {
				row[out.index[h]] = r[j]
			}
			out.rows = append(out.rows, row)
		}
	}
	return out
}

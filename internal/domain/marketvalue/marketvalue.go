// Package marketvalue parses heterogeneous market-value cells into euros.
package marketvalue

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/table"
)

// DefaultCandidates is the ordered list of recognised source columns.
func DefaultCandidates() []string {
	return []string{
		"market_value_eur", "Market value", "Market Value", "market value",
		"TM_Market_Value", "tm_market_value", "value", "Value", "mv",
	}
}

var (
	million  = decimal.NewFromInt(1_000_000) //nolint:gochecknoglobals // constant multiplier
	thousand = decimal.NewFromInt(1_000)     //nolint:gochecknoglobals // constant multiplier
)

// FindColumn returns the first candidate present in t.
func FindColumn(t *table.Table, candidates []string) (string, error) {
	if name, ok := t.First(candidates...); ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: add one of: %s", ErrNoMarketValueColumn, strings.Join(candidates, ", "))
}

// ParseText parses strings such as "€50m", "€750k", "50,000,000" or
// "£1.2m". Currency symbols, thousands separators and whitespace are
// ignored; a trailing m or k scales the number. Anything unparsable, and
// any value not strictly positive, is undefined.
func ParseText(s string) model.Value {
	s = strings.ToLower(strings.Map(func(r rune) rune {
		switch {
		case r == '€', r == '$', r == '£', r == ',', unicode.IsSpace(r):
			return -1
		}
		return r
	}, s))

	mult := decimal.NewFromInt(1)
	switch {
	case strings.HasSuffix(s, "m"):
		mult = million
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "k"):
		mult = thousand
		s = s[:len(s)-1]
	}

	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if digits == "" || strings.Count(digits, ".") > 1 || digits == "." {
		return model.None
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return model.None
	}
	return positive(d.Mul(mult).InexactFloat64())
}

// Parse reads a table cell. Numeric cells are taken as euros.
func Parse(c table.Cell) model.Value {
	if c.Numeric {
		return positive(c.Num)
	}
	return ParseText(c.Text)
}

// Column parses every cell of the named column.
func Column(t *table.Table, name string) []model.Value {
	cells, ok := t.Column(name)
	out := make([]model.Value, t.Len())
	if !ok {
		return out
	}
	for i, c := range cells {
		out[i] = Parse(c)
	}
	return out
}

func positive(v float64) model.Value {
	if v <= 0 {
		return model.None
	}
	return model.Some(v)
}

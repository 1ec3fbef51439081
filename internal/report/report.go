// Package report prints the console summary of a ranked table.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/schema"
	"github.com/okian/squadrank/internal/domain/table"
)

// identityColumns are shown in the underrated listing when present.
var identityColumns = []string{schema.Player, "Player", "Name", schema.Squad, schema.Club} //nolint:gochecknoglobals // fixed vocabulary

func present(t *table.Table, names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if t.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// TopRanked returns the rows of role r ranked first for r, in row order.
func TopRanked(t *table.Table, r model.Role) []int {
	var rows []int
	ranks := t.Floats(schema.RankColumn(r))
	for i, rank := range ranks {
		if rank.Ok && rank.V == 1 {
			rows = append(rows, i)
		}
	}
	return rows
}

// MostUnderrated returns up to n rows of role r with an underrated rank,
// best first; equal ranks keep row order.
func MostUnderrated(t *table.Table, r model.Role, n int) []int {
	ranks := t.Floats(schema.UnderratedRankColumn(r))
	var rows []int
	for i, rank := range ranks {
		if rank.Ok {
			rows = append(rows, i)
		}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return ranks[rows[a]].V < ranks[rows[b]].V
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func writeRows(w io.Writer, t *table.Table, cols []string, rows []int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(cols, "\t")); err != nil {
		return err
	}
	if len(rows) == 0 {
		if _, err := fmt.Fprintln(tw, "(none)"); err != nil {
			return err
		}
	}
	for _, i := range rows {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cell, _ := t.Cell(i, c)
			cells[j] = cell.String()
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Print writes the top-ranked players of every role and the topN most
// underrated players of every role.
func Print(w io.Writer, t *table.Table, topN int) error {
	rankCols := make([]string, 0, len(model.Roles))
	for _, r := range model.Roles {
		rankCols = append(rankCols, schema.RankColumn(r))
	}
	topCols := present(t, append([]string{schema.Player, schema.Club}, rankCols...)...)

	for _, r := range model.Roles {
		if _, err := fmt.Fprintf(w, "\nTop %s:\n", r); err != nil {
			return err
		}
		if err := writeRows(w, t, topCols, TopRanked(t, r)); err != nil {
			return err
		}
	}

	if topN == 0 {
		return nil
	}
	for _, r := range model.Roles {
		col := schema.UnderratedRankColumn(r)
		if _, err := fmt.Fprintf(w, "\nMost underrated top %d, %s:\n", topN, r); err != nil {
			return err
		}
		cols := present(t, append(append([]string{}, identityColumns...), col)...)
		if err := writeRows(w, t, cols, MostUnderrated(t, r, topN)); err != nil {
			return err
		}
	}
	return nil
}

// Package enrich merges optional per-player fields from secondary sources
// into the base snapshot.
package enrich

import (
	"sort"

	"github.com/okian/squadrank/internal/domain/dedupe"
	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/schema"
	"github.com/okian/squadrank/internal/domain/table"
)

// Record carries the fields one source knows about one player. An empty Club
// matches the player at any club.
type Record struct {
	Name   string
	Club   string
	Fields map[string]string
}

// Identity returns the player identity of r.
func (r Record) Identity() model.Identity {
	return model.Identity{Name: r.Name, Club: r.Club}
}

// MergeReport summarizes a merge.
type MergeReport struct {
	Records    int
	Identities int
	Duplicates int
	Matched    int
	Unused     int
	Added      []string
	Filled     int
}

// Merge left-joins records onto base and returns a new table; base is not
// modified. A field becomes a new column when base lacks it; otherwise it
// only fills cells that are empty in base. The first record for an identity
// wins. Fields naming derived columns are ignored.
func Merge(base *table.Table, records []Record) (*table.Table, MergeReport) {
	rep := MergeReport{Records: len(records)}
	seen := dedupe.New(dedupe.WithCapacity(len(records)))
	byKey := make(map[string]int, len(records))
	byName := make(map[string]int)
	fieldSet := make(map[string]struct{})
	for i, r := range records {
		if seen.SeenIdentity(r.Identity()) {
			rep.Duplicates++
			continue
		}
		if r.Club == "" {
			byName[model.NormalizeName(r.Name)] = i
		} else {
			byKey[r.Identity().Key()] = i
		}
		for f := range r.Fields {
			if !schema.IsDerived(f) {
				fieldSet[f] = struct{}{}
			}
		}
	}

	fields := make([]string, 0, len(fieldSet))
	for f := range fieldSet {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	ids := schema.Identities(base)
	match := make([]int, len(ids))
	used := make(map[int]bool)
	for row, id := range ids {
		match[row] = -1
		if i, ok := byKey[id.Key()]; ok {
			match[row] = i
		} else if i, ok := byName[model.NormalizeName(id.Name)]; ok {
			match[row] = i
		}
		if match[row] >= 0 {
			rep.Matched++
			used[match[row]] = true
		}
	}
	rep.Identities = seen.Size()
	rep.Unused = len(records) - rep.Duplicates - len(used)

	out := base.Clone()
	for _, f := range fields {
		existing, had := out.Column(f)
		if !had {
			existing = make([]table.Cell, out.Len())
			rep.Added = append(rep.Added, f)
		}
		for row, i := range match {
			if i < 0 {
				continue
			}
			v, ok := records[i].Fields[f]
			if !ok || !existing[row].Empty() {
				continue
			}
			existing[row] = table.Text(v)
			if had {
				rep.Filled++
			}
		}
		out.SetCells(f, existing)
	}
	return out, rep
}

// Records reads one record per row of an enrichment table. The identity
// columns become the record key; every other non-empty cell becomes a field.
// Rows without a player name are skipped.
func Records(t *table.Table) []Record {
	nameCol, _ := t.First(schema.NameColumns...)
	clubCol, _ := t.First(schema.ClubColumns...)
	ids := schema.Identities(t)
	out := make([]Record, 0, t.Len())
	for i, id := range ids {
		if id.Name == "" {
			continue
		}
		row := t.Row(i)
		fields := make(map[string]string)
		for j, name := range t.Header() {
			if name == nameCol || name == clubCol {
				continue
			}
			if c := row[j]; !c.Empty() {
				fields[name] = c.String()
			}
		}
		out = append(out, Record{Name: id.Name, Club: id.Club, Fields: fields})
	}
	return out
}

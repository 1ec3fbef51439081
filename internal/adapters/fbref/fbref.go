// Package fbref extracts squad statistics and scouting reports from saved
// FBref pages.
package fbref

import (
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/squadrank/internal/domain/enrich"
	"github.com/okian/squadrank/internal/domain/schema"
	"github.com/okian/squadrank/internal/domain/table"
)

// SquadTableID is the id of the combined standard stats table.
const SquadTableID = "stats_standard_combined"

// dropped columns carry no information the ranking uses.
var dropped = map[string]bool{"pos": true, "starts": true, "matches": true} //nolint:gochecknoglobals // fixed vocabulary

// renames map normalized FBref headers to the snapshot vocabulary. The "_1"
// forms are the per-90 repeats of the season totals.
var renames = map[string]string{ //nolint:gochecknoglobals // fixed vocabulary
	"90s":    schema.Nineties,
	"crdy":   schema.YellowCards,
	"crdr":   schema.RedCards,
	"prgc":   schema.ProgressiveCarries,
	"prgp":   schema.ProgressivePasses,
	"prgr":   schema.ProgressivePassesReceived,
	"gls_1":  schema.Goals90,
	"ast_1":  schema.Assists90,
	"xg_1":   schema.XG90,
	"npxg_1": schema.NPXG90,
	"xag_1":  schema.XAG90,
}

// Player is one squad row with the link to the player's own page.
type Player struct {
	Name     string
	Href     string
	Position string
	Role     string
}

// ProfileFile is the file name a saved player page is expected under: the
// last path segment of its link plus ".html".
func (p Player) ProfileFile() string {
	if p.Href == "" {
		return ""
	}
	return path.Base(p.Href) + ".html"
}

// Squad is a parsed squad page.
type Squad struct {
	Table   *table.Table
	Players []Player
}

// Profile holds what a player page adds to the squad row.
type Profile struct {
	Achievements []string
	Stats        map[string]string
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FindTable returns the table with id, looking inside the commented-out
// wrapper div FBref uses for lazily rendered tables.
func FindTable(doc *goquery.Document, id string) (*goquery.Selection, error) {
	if t := doc.Find("table#" + id).First(); t.Length() > 0 {
		return t, nil
	}
	wrapper := doc.Find("div#all_" + id).First()
	if wrapper.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}
	inner, err := wrapper.Html()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	inner = strings.NewReplacer("<!--", "", "-->", "").Replace(inner)
	sub, err := goquery.NewDocumentFromReader(strings.NewReader(inner))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if t := sub.Find("table#" + id).First(); t.Length() > 0 {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
}

// uniqueHeaders suffixes repeated header texts with "_n".
func uniqueHeaders(headers []string) []string {
	counts := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		if n := counts[h]; n > 0 {
			out[i] = h + "_" + strconv.Itoa(n)
		} else {
			out[i] = h
		}
		counts[h]++
	}
	return out
}

// normalizeHeader trims, replaces spaces with underscores and lower-cases.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", "_"))
}

// ParseSquad reads a saved squad page. When club is not empty a Club column
// is added. Header rows repeated inside the body are skipped.
func ParseSquad(r io.Reader, club string) (*Squad, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	tbl, err := FindTable(doc, SquadTableID)
	if err != nil {
		return nil, err
	}

	var raw []string
	tbl.Find("thead tr").Last().Find("th, td").Each(func(_ int, c *goquery.Selection) {
		raw = append(raw, clean(c.Text()))
	})
	headers := uniqueHeaders(raw)

	squad := &Squad{}
	var rows [][]string
	tbl.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("thead") {
			return
		}
		first := tr.Find("th").First()
		if first.Length() == 0 {
			return
		}
		name := clean(first.Text())
		href, _ := first.Find("a[href]").First().Attr("href")
		pos := clean(tr.Find(`td[data-stat="position"]`).First().Text())
		squad.Players = append(squad.Players, Player{Name: name, Href: href, Position: pos, Role: CoarseRole(pos)})

		cells := []string{name}
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, clean(td.Text()))
		})
		rows = append(rows, cells)
	})

	keep := make([]int, 0, len(headers))
	names := make([]string, 0, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		n := normalizeHeader(h)
		if dropped[n] {
			continue
		}
		if to, ok := renames[n]; ok {
			n = to
		}
		if seen[n] {
			n += " 90s"
		}
		seen[n] = true
		keep = append(keep, i)
		names = append(names, n)
	}
	if club != "" && !seen[schema.Club] {
		names = append(names, schema.Club)
	}

	t := table.New(names)
	for _, cells := range rows {
		rec := make([]string, 0, len(names))
		for _, i := range keep {
			if i < len(cells) {
				rec = append(rec, cells[i])
			} else {
				rec = append(rec, "")
			}
		}
		if len(rec) < len(names) {
			rec = append(rec, club)
		}
		t.AppendTextRow(rec)
	}
	squad.Table = t
	return squad, nil
}

// ParseProfile reads a saved player page: the honours list and, for the
// given coarse role, the per-90 column of the scouting report tables.
func ParseProfile(r io.Reader, role string) (Profile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	p := Profile{Stats: make(map[string]string)}
	doc.Find("ul#bling li.important.poptip").Each(func(_ int, li *goquery.Selection) {
		p.Achievements = append(p.Achievements, clean(li.Text()))
	})

	labels := LabelsFor(role)
	if len(labels) == 0 {
		return p, nil
	}
	doc.Find("table.stats_table").EachWithBreak(func(_ int, tb *goquery.Selection) bool {
		if !isScoutingTable(tb) {
			return true
		}
		tb.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			th := tr.Find("th").First()
			td := tr.Find("td").First()
			if th.Length() == 0 || td.Length() == 0 {
				return
			}
			label := NormLabel(clean(th.Text()))
			value := clean(td.Text())
			for _, l := range labels {
				if p.Stats[l.Field] != "" {
					continue
				}
				for _, syn := range l.Synonyms {
					if label == syn {
						p.Stats[l.Field] = value
						break
					}
				}
			}
		})
		return !complete(p.Stats, labels)
	})
	return p, nil
}

func complete(stats map[string]string, labels []Label) bool {
	for _, l := range labels {
		if stats[l.Field] == "" {
			return false
		}
	}
	return true
}

func isScoutingTable(tb *goquery.Selection) bool {
	var per90, percentile bool
	tb.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		h := strings.ToLower(clean(th.Text()))
		per90 = per90 || strings.Contains(h, "per 90")
		percentile = percentile || strings.Contains(h, "percentile")
	})
	return per90 && percentile
}

// Record turns a profile into an enrichment record for the player at club.
// Every field of the role is present, empty when the report lacks it.
func (p Profile) Record(name, club, role string) enrich.Record {
	fields := make(map[string]string, len(p.Stats)+1)
	for _, l := range LabelsFor(role) {
		fields[l.Field] = p.Stats[l.Field]
	}
	fields["achievements"] = strings.Join(p.Achievements, ", ")
	return enrich.Record{Name: name, Club: club, Fields: fields}
}

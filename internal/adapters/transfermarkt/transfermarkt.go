// Package transfermarkt extracts squad lists with positions and market
// values from saved Transfermarkt squad pages.
package transfermarkt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/squadrank/internal/domain/enrich"
	"github.com/okian/squadrank/internal/domain/schema"
	"github.com/okian/squadrank/internal/domain/table"
)

// Output columns.
const (
	ColPlayer      = "Player"
	ColDateOfBirth = "Date of birth / Age"
	ColHeight      = "Height"
	ColFoot        = "Foot"
	ColMarketValue = "Market value"
	ColLeague      = "League"
)

// Column positions among all cells of a row, nested cells included.
const (
	cellPlayer      = 1
	cellDateOfBirth = 5
	cellHeight      = 8
	cellFoot        = 9
	cellMarketValue = 12
)

// Sentinel kinds for Transfermarkt page errors.
var (
	ErrNoRows = errors.New("transfermarkt squad table has no player rows")
	ErrParse  = errors.New("transfermarkt page parse failed")
)

// Row is one squad member.
type Row struct {
	Player      string
	Position    string
	DateOfBirth string
	Height      string
	Foot        string
	MarketValue string
	Club        string
	League      string
}

// Header lists the columns of Table in order.
func Header() []string {
	return []string{ColPlayer, schema.Position, ColDateOfBirth, ColHeight, ColFoot, ColMarketValue, schema.Club, ColLeague}
}

func (r Row) values() []string {
	return []string{r.Player, r.Position, r.DateOfBirth, r.Height, r.Foot, r.MarketValue, r.Club, r.League}
}

// Record returns the fields the ranking snapshot takes from this row.
func (r Row) Record() enrich.Record {
	return enrich.Record{
		Name: r.Player,
		Club: r.Club,
		Fields: map[string]string{
			schema.Position: r.Position,
			ColDateOfBirth:  r.DateOfBirth,
			ColHeight:       r.Height,
			ColFoot:         r.Foot,
			ColMarketValue:  r.MarketValue,
			ColLeague:       r.League,
		},
	}
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// lines returns the visual lines of a cell: one per nested table row, or
// the text split on newlines when the cell has no nested rows.
func lines(td *goquery.Selection) []string {
	var out []string
	if rows := td.Find("tr"); rows.Length() > 0 {
		rows.Each(func(_ int, tr *goquery.Selection) {
			if l := clean(tr.Text()); l != "" {
				out = append(out, l)
			}
		})
		return out
	}
	for _, l := range strings.Split(td.Text(), "\n") {
		if l = clean(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// ParseSquad reads a saved squad page in its detailed view.
func ParseSquad(r io.Reader, club, league string) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	var out []Row
	doc.Find("table.items > tbody > tr.odd, table.items > tbody > tr.even").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		cell := func(i int) string {
			if i >= tds.Length() {
				return ""
			}
			return clean(tds.Eq(i).Text())
		}

		var player, position string
		if tds.Length() > cellPlayer {
			l := lines(tds.Eq(cellPlayer))
			if len(l) > 0 {
				player = l[0]
			}
			if len(l) > 1 {
				position = l[1]
			}
		}
		mv := cell(cellMarketValue)
		if mv == "—" {
			mv = "N/A"
		}
		out = append(out, Row{
			Player:      player,
			Position:    position,
			DateOfBirth: cell(cellDateOfBirth),
			Height:      cell(cellHeight),
			Foot:        cell(cellFoot),
			MarketValue: mv,
			Club:        club,
			League:      league,
		})
	})
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// Table renders rows with Header as columns.
func Table(rows []Row) *table.Table {
	t := table.New(Header())
	for _, r := range rows {
		t.AppendTextRow(r.values())
	}
	return t
}

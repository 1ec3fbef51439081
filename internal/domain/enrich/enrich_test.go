package enrich_test

import (
	"testing"

	enrich "github.com/okian/squadrank/internal/domain/enrich"
	"github.com/okian/squadrank/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func base() *table.Table {
	tb := table.New([]string{"player", "Club", "df_tackles_90"})
	tb.AppendTextRow([]string{"William Saliba", "Arsenal", ""})
	tb.AppendTextRow([]string{"Declan Rice", "Arsenal", "1.9"})
	tb.AppendTextRow([]string{"Cole Palmer", "Chelsea", ""})
	return tb
}

func TestMerge(t *testing.T) {
	Convey("Given a base snapshot and enrichment records", t, func() {
		tb := base()
		records := []enrich.Record{
			{Name: "william saliba", Club: "ARSENAL", Fields: map[string]string{"df_tackles_90": "1.4", "df_blocks_90": "0.9"}},
			{Name: "Declan Rice", Club: "Arsenal", Fields: map[string]string{"df_tackles_90": "9.9", "Market value": "€100m"}},
			{Name: "William Saliba", Club: "Arsenal", Fields: map[string]string{"df_blocks_90": "7"}},
			{Name: "Cole Palmer", Fields: map[string]string{"Market value": "€80m", "fwd_rank": "1"}},
			{Name: "Nobody", Club: "Nowhere", Fields: map[string]string{"x": "1"}},
		}

		Convey("When merged", func() {
			out, rep := enrich.Merge(tb, records)

			Convey("Then new fields should be appended in name order", func() {
				So(out.Header(), ShouldResemble, []string{"player", "Club", "df_tackles_90", "Market value", "df_blocks_90", "x"})
				So(rep.Added, ShouldResemble, []string{"Market value", "df_blocks_90", "x"})
			})

			Convey("Then existing values should win over record values", func() {
				So(out.Texts("df_tackles_90"), ShouldResemble, []string{"1.4", "1.9", ""})
				So(rep.Filled, ShouldEqual, 1)
			})

			Convey("Then the first record per identity should win", func() {
				So(out.Texts("df_blocks_90")[0], ShouldEqual, "0.9")
				So(rep.Duplicates, ShouldEqual, 1)
			})

			Convey("Then a record without a club should match by name", func() {
				So(out.Texts("Market value"), ShouldResemble, []string{"", "€100m", "€80m"})
			})

			Convey("Then derived columns should not be imported", func() {
				So(out.Has("fwd_rank"), ShouldBeFalse)
			})

			Convey("Then the report should count matches", func() {
				So(rep.Records, ShouldEqual, 5)
				So(rep.Identities, ShouldEqual, 4)
				So(rep.Matched, ShouldEqual, 3)
				So(rep.Unused, ShouldEqual, 1)
			})

			Convey("Then the base table should be untouched", func() {
				So(tb.Header(), ShouldResemble, []string{"player", "Club", "df_tackles_90"})
				So(tb.Texts("df_tackles_90")[0], ShouldEqual, "")
			})
		})
	})

	Convey("Given no records", t, func() {
		out, rep := enrich.Merge(base(), nil)

		Convey("Then the result should equal the base", func() {
			So(out.Records(), ShouldResemble, base().Records())
			So(rep.Matched, ShouldEqual, 0)
		})
	})
}

func TestRecords(t *testing.T) {
	Convey("Given an enrichment table", t, func() {
		tb := table.New([]string{"player", "Club", "Market value", "Foot"})
		tb.AppendTextRow([]string{"Bukayo Saka", "Arsenal", "€140.00m", "left"})
		tb.AppendTextRow([]string{"", "Arsenal", "€1m", ""})
		tb.AppendTextRow([]string{"Cole Palmer", "", "€80m", ""})

		Convey("When it is read as records", func() {
			records := enrich.Records(tb)

			Convey("Then rows without a name should be skipped", func() {
				So(records, ShouldHaveLength, 2)
			})

			Convey("Then identity columns should key the record", func() {
				So(records[0].Name, ShouldEqual, "Bukayo Saka")
				So(records[0].Club, ShouldEqual, "Arsenal")
				So(records[0].Fields, ShouldResemble, map[string]string{"Market value": "€140.00m", "Foot": "left"})
			})

			Convey("Then empty cells should not become fields", func() {
				So(records[1].Club, ShouldEqual, "")
				So(records[1].Fields, ShouldResemble, map[string]string{"Market value": "€80m"})
			})
		})
	})
}

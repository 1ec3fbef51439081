package table_test

import (
	"testing"

	"github.com/okian/squadrank/internal/domain/model"
	table "github.com/okian/squadrank/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	Convey("Given a table with a repeated header", t, func() {
		tb := table.New([]string{"player", "Gls", "Gls"})
		tb.AppendTextRow([]string{"A", "1", "2"})
		tb.AppendTextRow([]string{"B"})

		Convey("Then duplicate names should be made unique", func() {
			So(tb.Header(), ShouldResemble, []string{"player", "Gls", "Gls.1"})
		})

		Convey("Then short rows should be padded", func() {
			So(tb.Len(), ShouldEqual, 2)
			So(tb.Texts("Gls.1"), ShouldResemble, []string{"2", ""})
		})

		Convey("When a derived numeric column is appended", func() {
			tb.SetFloats("x", []model.Value{model.Some(0.5), model.None})

			Convey("Then it should be placed last and read back", func() {
				So(tb.Header()[3], ShouldEqual, "x")
				So(tb.Floats("x"), ShouldResemble, []model.Value{model.Some(0.5), model.None})
			})

			Convey("Then records should render undefined values as empty", func() {
				recs := tb.Records()
				So(recs[1][3], ShouldEqual, "0.5")
				So(recs[2][3], ShouldEqual, "")
			})
		})

		Convey("When an existing column is replaced", func() {
			tb.SetTexts("Gls", []string{"9", "8"})

			Convey("Then the column keeps its position", func() {
				So(tb.Header(), ShouldResemble, []string{"player", "Gls", "Gls.1"})
				So(tb.Texts("Gls"), ShouldResemble, []string{"9", "8"})
			})
		})

		Convey("When reading an absent column", func() {
			Convey("Then it should be undefined everywhere", func() {
				So(tb.Floats("missing"), ShouldResemble, []model.Value{model.None, model.None})
				So(tb.Has("missing"), ShouldBeFalse)
				_, ok := tb.Column("missing")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the table is cloned", func() {
			c := tb.Clone()
			c.SetTexts("player", []string{"Z", "Z"})

			Convey("Then the source table should be untouched", func() {
				So(tb.Texts("player"), ShouldResemble, []string{"A", "B"})
			})
		})
	})
}

func TestFirstAndConcat(t *testing.T) {
	Convey("Given two tables with overlapping headers", t, func() {
		a := table.New([]string{"player", "Club"})
		a.AppendTextRow([]string{"A", "X"})
		b := table.New([]string{"player", "Value"})
		b.AppendTextRow([]string{"B", "€1m"})

		Convey("When they are concatenated", func() {
			c := table.Concat(a, b)

			Convey("Then the header should be the ordered union", func() {
				So(c.Header(), ShouldResemble, []string{"player", "Club", "Value"})
				So(c.Texts("Club"), ShouldResemble, []string{"X", ""})
				So(c.Texts("Value"), ShouldResemble, []string{"", "€1m"})
			})

			Convey("Then First should return the earliest present name", func() {
				name, ok := c.First("Name", "Value", "Club")
				So(ok, ShouldBeTrue)
				So(name, ShouldEqual, "Value")
				_, ok = c.First("nope")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestCell(t *testing.T) {
	Convey("Given cells", t, func() {
		Convey("Then numeric cells render without trailing zeros", func() {
			So(table.Number(model.Some(2)).String(), ShouldEqual, "2")
			So(table.Number(model.Some(0.1)).String(), ShouldEqual, "0.1")
			So(table.Number(model.None).Empty(), ShouldBeTrue)
		})

		Convey("Then whitespace-only text is empty", func() {
			So(table.Text("  ").Empty(), ShouldBeTrue)
			So(table.Text("x").Value(), ShouldResemble, model.None)
		})
	})
}

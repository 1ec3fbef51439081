package coerce_test

import (
	"testing"

	coerce "github.com/okian/squadrank/internal/domain/coerce"
	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNumber(t *testing.T) {
	Convey("Given raw cell text", t, func() {
		cases := []struct {
			in   string
			want float64
			ok   bool
		}{
			{"12", 12, true},
			{" 3.5 ", 3.5, true},
			{"71.4%", 71.4, true},
			{"-0.2", -0.2, true},
			{"", 0, false},
			{"%", 0, false},
			{"N/A", 0, false},
			{"1,000", 0, false},
			{"NaN", 0, false},
			{"inf", 0, false},
			{"0x10", 0, false},
		}

		Convey("Then each should parse as expected", func() {
			for _, c := range cases {
				v, ok := coerce.Number(c.in)
				So(ok, ShouldEqual, c.ok)
				So(v, ShouldEqual, c.want)
			}
		})
	})
}

func TestTable(t *testing.T) {
	Convey("Given a table of text cells", t, func() {
		tb := table.New([]string{"player", "Gls", "Save%", "Mixed"})
		tb.AppendTextRow([]string{"A", "3", "70%", "1.5"})
		tb.AppendTextRow([]string{"B", "", "65.5%", "unknown"})

		Convey("When it is coerced", func() {
			rep := coerce.Table(tb)

			Convey("Then only columns with a parsable value should be accepted", func() {
				So(rep.Columns, ShouldResemble, []string{"Gls", "Save%", "Mixed"})
				So(rep.Cells, ShouldEqual, 4)
				So(rep.Residual, ShouldEqual, 1)
			})

			Convey("Then parsed cells should be numeric and the rest undefined", func() {
				So(tb.Floats("Save%"), ShouldResemble, []model.Value{model.Some(70), model.Some(65.5)})
				So(tb.Floats("Gls"), ShouldResemble, []model.Value{model.Some(3), model.None})
				So(tb.Floats("Mixed")[1], ShouldResemble, model.None)
			})

			Convey("Then unparsed text should be preserved", func() {
				So(tb.Texts("Mixed")[1], ShouldEqual, "unknown")
				So(tb.Texts("player"), ShouldResemble, []string{"A", "B"})
			})

			Convey("Then a second pass should change nothing", func() {
				again := coerce.Table(tb)
				So(again.Cells, ShouldEqual, 0)
				So(again.Columns, ShouldBeEmpty)
			})
		})
	})
}

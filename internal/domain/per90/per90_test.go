package per90_test

import (
	"testing"

	"github.com/okian/squadrank/internal/domain/coerce"
	"github.com/okian/squadrank/internal/domain/model"
	per90 "github.com/okian/squadrank/internal/domain/per90"
	"github.com/okian/squadrank/internal/domain/schema"
	"github.com/okian/squadrank/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSafeDiv(t *testing.T) {
	Convey("Given numerators and denominators", t, func() {
		Convey("Then division should need a positive defined denominator", func() {
			So(per90.SafeDiv(model.Some(10), model.Some(4)), ShouldResemble, model.Some(2.5))
			So(per90.SafeDiv(model.Some(10), model.Some(0)), ShouldResemble, model.None)
			So(per90.SafeDiv(model.Some(10), model.Some(-1)), ShouldResemble, model.None)
			So(per90.SafeDiv(model.None, model.Some(2)), ShouldResemble, model.None)
			So(per90.SafeDiv(model.Some(1), model.None), ShouldResemble, model.None)
		})
	})
}

func TestFirstDefined(t *testing.T) {
	Convey("Given overlapping series", t, func() {
		a := []model.Value{model.Some(1), model.None, model.None}
		b := []model.Value{model.Some(9), model.Some(2), model.None}
		c := []model.Value{model.Some(8), model.Some(8), model.Some(3)}

		Convey("Then earlier values should never be overwritten", func() {
			So(per90.FirstDefined(a, b, c), ShouldResemble,
				[]model.Value{model.Some(1), model.Some(2), model.Some(3)})
		})

		Convey("Then no series should yield nil", func() {
			So(per90.FirstDefined(), ShouldBeNil)
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Given players with mixed precomputed and total fields", t, func() {
		tb := table.New([]string{
			schema.Nineties,
			schema.MFProgressiveCarries90, schema.ProgressiveCarries,
			schema.MFProgressivePassesRec, schema.DFProgressivePassesRec, schema.ProgressivePassesReceived,
			schema.ProgressivePasses, schema.YellowCards,
		})
		tb.AppendTextRow([]string{"20", "3.1", "40", "", "1.5", "60", "100", "4"})
		tb.AppendTextRow([]string{"10", "", "40", "2.2", "1.5", "60", "", "0"})
		tb.AppendTextRow([]string{"0", "", "40", "", "", "60", "100", "1"})
		coerce.Table(tb)

		Convey("When rates are normalized", func() {
			undefined := per90.Normalize(tb)

			Convey("Then precomputed fields should win over totals", func() {
				So(tb.Floats(schema.ProgCarries90Any), ShouldResemble,
					[]model.Value{model.Some(3.1), model.Some(4), model.None})
			})

			Convey("Then the midfielder field should win over the defender field", func() {
				So(tb.Floats(schema.ProgPassesRec90Any), ShouldResemble,
					[]model.Value{model.Some(1.5), model.Some(2.2), model.None})
			})

			Convey("Then totals should be divided by 90s played", func() {
				So(tb.Floats(schema.ProgPasses90Any), ShouldResemble,
					[]model.Value{model.Some(5), model.None, model.None})
				So(tb.Floats(schema.YellowCards90), ShouldResemble,
					[]model.Value{model.Some(0.2), model.Some(0), model.None})
			})

			Convey("Then an absent total should leave the rate undefined", func() {
				So(tb.Floats(schema.RedCards90), ShouldResemble,
					[]model.Value{model.None, model.None, model.None})
				So(undefined[schema.RedCards90], ShouldEqual, 3)
				So(undefined[schema.ProgCarries90Any], ShouldEqual, 1)
			})
		})
	})
}

package dedupe_test

import (
	"testing"

	dedupe "github.com/okian/squadrank/internal/domain/dedupe"
	"github.com/okian/squadrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	Convey("Given a new set", t, func() {
		d := dedupe.New(dedupe.WithCapacity(8))

		Convey("Then it should be empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When a key is recorded twice", func() {
			first := d.SeenAndRecord("saka")
			second := d.SeenAndRecord("saka")

			Convey("Then only the second call should report it as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And another key is recorded", func() {
				So(d.SeenAndRecord("rice"), ShouldBeFalse)

				Convey("Then both should be counted", func() {
					So(d.Size(), ShouldEqual, 2)
				})
			})
		})
	})
}

func TestSeenIdentity(t *testing.T) {
	Convey("Given identities differing only in case and spacing", t, func() {
		s := dedupe.New()
		a := model.Identity{Name: "Martin  Ødegaard", Club: "Arsenal"}
		b := model.Identity{Name: "martin ødegaard", Club: " ARSENAL "}

		Convey("Then they should be treated as the same player", func() {
			So(s.SeenIdentity(a), ShouldBeFalse)
			So(s.SeenIdentity(b), ShouldBeTrue)
		})

		Convey("Then another club should be a different player", func() {
			So(s.SeenIdentity(a), ShouldBeFalse)
			So(s.SeenIdentity(model.Identity{Name: a.Name, Club: "Chelsea"}), ShouldBeFalse)
		})
	})
}

package role_test

import (
	"strings"
	"testing"

	"github.com/okian/squadrank/internal/domain/model"
	role "github.com/okian/squadrank/internal/domain/role"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given position texts", t, func() {
		cases := map[string]model.Role{
			"Goalkeeper":                  model.Goalkeeper,
			"Defender - Centre-Back":      model.Defender,
			"RIGHT-BACK":                  model.Defender,
			"Midfield - Central Midfield": model.Midfielder,
			"Attack - Left Winger":        model.Forward,
			"Attack - Centre-Forward":     model.Forward,
			"Attack - Second Striker":     model.Unclassified,
			"":                            model.Unclassified,
			"   ":                         model.Unclassified,
		}

		Convey("Then each should map to the expected role", func() {
			for in, want := range cases {
				So(role.Classify(in), ShouldEqual, want)
			}
		})

		Convey("When a text matches several keyword sets", func() {
			got := role.Classify("Left-Back / Defensive Midfield")

			Convey("Then the earlier set should win", func() {
				So(got, ShouldEqual, model.Defender)
			})
		})
	})
}

func TestCustomRules(t *testing.T) {
	Convey("Given a classifier with a custom predicate rule", t, func() {
		c := role.New(
			role.Rule{Role: model.Forward, Match: func(p string) bool { return strings.HasPrefix(p, "st") }},
			role.Keywords(model.Goalkeeper, "GK"),
		)

		Convey("Then rules should be evaluated in order", func() {
			So(c.ClassifyAll([]string{"ST", "gk", "cb"}), ShouldResemble,
				[]model.Role{model.Forward, model.Goalkeeper, model.Unclassified})
		})
	})
}

package config_test

import (
	"errors"
	"testing"

	"github.com/okian/squadrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Input, convey.ShouldEqual, "all_squads.csv")
			convey.So(cfg.Output, convey.ShouldEqual, "all_squads_ranked.csv")
			convey.So(cfg.MinNineties, convey.ShouldEqual, 20)
			convey.So(cfg.TopUnderrated, convey.ShouldEqual, 10)
			convey.So(cfg.MarketValueColumns[0], convey.ShouldEqual, "market_value_eur")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with invalid values", t, func() {
		cases := map[string]func(*config.Config){
			"empty input":        func(c *config.Config) { c.Input = "" },
			"empty output":       func(c *config.Config) { c.Output = "" },
			"negative floor":     func(c *config.Config) { c.MinNineties = -1 },
			"negative top":       func(c *config.Config) { c.TopUnderrated = -1 },
			"no candidates":      func(c *config.Config) { c.MarketValueColumns = nil },
			"negative workers":   func(c *config.Config) { c.WorkerCount = -2 },
			"empty addr":         func(c *config.Config) { c.Addr = "" },
			"zero limit":         func(c *config.Config) { c.MaxLeaderboardLimit = 0 },
			"page without path":  func(c *config.Config) { c.FBrefPages = []config.Page{{Club: "Arsenal"}} },
			"tm page, no path":   func(c *config.Config) { c.TransfermarktPages = []config.Page{{League: "EPL"}} },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)

			convey.Convey("Then "+name+" should be rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then a zero floor should be accepted", func() {
			cfg := config.New()
			cfg.MinNineties = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/squadrank/internal/adapters/csvtable"
	"github.com/okian/squadrank/internal/config"
	"github.com/okian/squadrank/internal/domain/types"
	"github.com/okian/squadrank/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	// serve logs through the global logger
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const snapshot = "player,Club,Position,90s Played,Goals scored per 90 minutes,Yellow Cards,Market value\n" +
	"Striker One,Arsenal,Centre-Forward,30,0.71,4,€80.00m\n" +
	"Striker Two,Chelsea,Left Winger,22,0.40,2,€35m\n" +
	"Back One,Arsenal,Centre-Back,31,0.05,6,€70m\n" +
	"Keeper One,Arsenal,Goalkeeper,33,0,0,€30m\n"

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestRun(t *testing.T) {
	convey.Convey("Given the squadrank command", t, func() {
		ctx := context.Background()
		in := writeTemp(t, "all_squads.csv", snapshot)
		dir := t.TempDir()
		out := filepath.Join(dir, "ranked.csv")
		var stdout, stderr bytes.Buffer

		convey.Convey("When ranking with flags", func() {
			prom := filepath.Join(dir, "squadrank.prom")
			code := run(ctx, []string{"-in", in, "-out", out, "-top", "2", "-metrics-file", prom}, &stdout, &stderr)

			convey.Convey("Then the ranked table and the report should be written", func() {
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Saved: "+out)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Top FWD:")
				convey.So(stdout.String(), convey.ShouldContainSubstring, "Most underrated top 2, GK:")

				ranked, err := csvtable.ReadFile(out)
				convey.So(err, convey.ShouldBeNil)
				convey.So(ranked.Texts("fwd_rank"), convey.ShouldResemble, []string{"1", "2", "", ""})

				_, err = os.Stat(prom)
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the rank subcommand is named explicitly", func() {
			code := run(ctx, []string{"rank", "-in", in, "-out", out, "-top", "0"}, &stdout, &stderr)

			convey.Convey("Then the underrated listing should be skipped", func() {
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(stdout.String(), convey.ShouldNotContainSubstring, "Most underrated")
			})
		})

		convey.Convey("When the command is unknown", func() {
			code := run(ctx, []string{"publish"}, &stdout, &stderr)

			convey.Convey("Then it should exit with a usage error", func() {
				convey.So(code, convey.ShouldEqual, 2)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "unknown command")
			})
		})

		convey.Convey("When a flag is unknown", func() {
			convey.So(run(ctx, []string{"-nope"}, &stdout, &stderr), convey.ShouldEqual, 2)
		})

		convey.Convey("When the input is missing", func() {
			code := run(ctx, []string{"-in", filepath.Join(dir, "missing.csv"), "-out", out}, &stdout, &stderr)

			convey.Convey("Then it should fail with one stderr line", func() {
				convey.So(code, convey.ShouldEqual, 1)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "squadrank: ")
				_, err := os.Stat(out)
				convey.So(os.IsNotExist(err), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a flag makes the config invalid", func() {
			code := run(ctx, []string{"-in", in, "-out", out, "-min90s", "-1"}, &stdout, &stderr)

			convey.Convey("Then it should fail validation", func() {
				convey.So(code, convey.ShouldEqual, 1)
				convey.So(stderr.String(), convey.ShouldContainSubstring, config.ErrInvalidConfig.Error())
			})
		})

		convey.Convey("When collect has no pages configured", func() {
			convey.So(run(ctx, []string{"collect", "-in", filepath.Join(dir, "collected.csv")}, &stdout, &stderr), convey.ShouldEqual, 1)
		})
	})
}

const tmPage = `<html><body><table class="items"><tbody>
<tr class="odd"><td>9</td><td><table class="inline-table"><tr><td><img alt=""></td><td><a>Striker One</a></td></tr><tr><td>Centre-Forward</td></tr></table></td>
<td>Jan 1, 2000 (25)</td><td></td><td></td><td>1,85m</td><td>right</td><td></td><td></td><td>€80.00m</td></tr>
</tbody></table></body></html>`

func TestCollect(t *testing.T) {
	convey.Convey("Given a config listing a saved Transfermarkt page", t, func() {
		page := writeTemp(t, "arsenal.html", tmPage)
		collected := filepath.Join(t.TempDir(), "collected.csv")
		cfgPath := writeTemp(t, "squadrank.yaml", "transfermarkt_pages:\n  - path: "+page+"\n    club: Arsenal\n    league: Premier League\n")
		var stdout, stderr bytes.Buffer

		convey.Convey("When collect runs", func() {
			code := run(context.Background(), []string{"collect", "-config", cfgPath, "-in", collected}, &stdout, &stderr)

			convey.Convey("Then the snapshot should hold the squad", func() {
				convey.So(code, convey.ShouldEqual, 0)
				convey.So(stdout.String(), convey.ShouldContainSubstring, "(1 players)")
				tb, err := csvtable.ReadFile(collected)
				convey.So(err, convey.ShouldBeNil)
				convey.So(tb.Texts("Player"), convey.ShouldResemble, []string{"Striker One"})
				convey.So(tb.Texts("Club"), convey.ShouldResemble, []string{"Arsenal"})
			})
		})
	})
}

func TestServe(t *testing.T) {
	convey.Convey("Given a ranked snapshot being served", t, func() {
		cfg := config.New()
		cfg.Input = writeTemp(t, "all_squads.csv", snapshot)
		cfg.Addr = "127.0.0.1:0"

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ready := make(chan string, 1)
		done := make(chan error, 1)
		go func() { done <- serve(ctx, cfg, ready) }()

		var addr string
		select {
		case addr = <-ready:
		case err := <-done:
			t.Fatalf("serve returned early: %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not start")
		}

		convey.Convey("When the forward leaderboard is requested", func() {
			resp, err := http.Get("http://" + addr + "/leaderboard?role=fwd&limit=1")
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			convey.Convey("Then the top forward should be returned", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				var lb types.Leaderboard
				convey.So(json.NewDecoder(resp.Body).Decode(&lb), convey.ShouldBeNil)
				convey.So(lb.Total, convey.ShouldEqual, 2)
				convey.So(lb.Entries[0].Player, convey.ShouldEqual, "Striker One")
			})
		})

		convey.Convey("When the OpenAPI document is requested", func() {
			resp, err := http.Get("http://" + addr + "/openapi.yaml")
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()

			convey.Convey("Then it should be served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			cancel()

			convey.Convey("Then the server should shut down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("serve did not stop")
				}
			})
		})
	})
}

package fbref_test

import (
	"errors"
	"strings"
	"testing"

	fbref "github.com/okian/squadrank/internal/adapters/fbref"
	"github.com/okian/squadrank/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

const squadPage = `<html><body>
<div id="all_stats_standard_combined" class="table_wrapper">
<!--
<table id="stats_standard_combined" class="stats_table">
<thead>
<tr><th colspan="4"></th><th colspan="7">Performance</th></tr>
<tr><th>Player</th><th>Pos</th><th>Starts</th><th>90s</th><th>Gls</th><th>Ast</th><th>CrdY</th><th>CrdR</th>
<th>xG</th><th>npxG</th><th>xAG</th><th>PrgC</th><th>PrgP</th><th>PrgR</th>
<th>Gls</th><th>Ast</th><th>xG</th><th>xAG</th><th>npxG</th><th>Matches</th></tr>
</thead>
<tbody>
<tr><th data-stat="player"><a href="/en/players/bc7dc64d/Bukayo-Saka">Bukayo Saka</a></th>
<td data-stat="position">FW,MF</td><td>20</td><td>21.3</td><td>6</td><td>10</td><td>2</td><td>0</td>
<td>5.1</td><td>4.3</td><td>7.0</td><td>90</td><td>80</td><td>250</td>
<td>0.28</td><td>0.47</td><td>0.24</td><td>0.33</td><td>0.20</td><td>Matches</td></tr>
<tr class="thead"><th>Player</th><td>Pos</td></tr>
<tr><th data-stat="player"><a href="/en/players/972aeb2a/William-Saliba">William Saliba</a></th>
<td data-stat="position">DF</td><td>30</td><td>30.0</td><td>2</td><td>0</td><td>5</td><td>1</td></tr>
</tbody>
</table>
-->
</div>
</body></html>`

const profilePage = `<html><body>
<ul id="bling">
<li class="important poptip">2x Premier League Champion</li>
<li class="poptip">Youth cap</li>
</ul>
<table class="stats_table"><thead><tr><th>Season</th><th>Squad</th></tr></thead>
<tbody><tr><th>Tackles</th><td>99</td></tr></tbody></table>
<table class="stats_table">
<thead><tr><th>Statistic</th><th>Per 90</th><th>Percentile</th></tr></thead>
<tbody>
<tr><th>Tackles</th><td>1.20</td><td>70</td></tr>
<tr><th>Interceptions</th><td>0.90</td><td>55</td></tr>
<tr><th>Progressive Passes Rec</th><td>3.10</td><td>40</td></tr>
<tr><th>Blocks</th><td>1.05</td><td>60</td></tr>
<tr><th>Tackles</th><td>7.77</td><td>1</td></tr>
</tbody>
</table>
</body></html>`

func TestParseSquad(t *testing.T) {
	Convey("Given a saved squad page with a commented-out table", t, func() {
		squad, err := fbref.ParseSquad(strings.NewReader(squadPage), "Arsenal")

		Convey("Then the table should be found and parsed", func() {
			So(err, ShouldBeNil)
			So(squad.Table.Len(), ShouldEqual, 2)
		})

		Convey("Then headers should be normalized, renamed and pruned", func() {
			So(squad.Table.Header(), ShouldResemble, []string{
				"player", schema.Nineties, "gls", "ast", schema.YellowCards, schema.RedCards,
				"xg", "npxg", "xag",
				schema.ProgressiveCarries, schema.ProgressivePasses, schema.ProgressivePassesReceived,
				schema.Goals90, schema.Assists90, schema.XG90, schema.XAG90, schema.NPXG90,
				schema.Club,
			})
		})

		Convey("Then rows should carry values and the club", func() {
			So(squad.Table.Texts(schema.Goals90), ShouldResemble, []string{"0.28", ""})
			So(squad.Table.Texts(schema.RedCards), ShouldResemble, []string{"0", "1"})
			So(squad.Table.Texts(schema.Club), ShouldResemble, []string{"Arsenal", "Arsenal"})
		})

		Convey("Then players should carry links and coarse roles", func() {
			So(squad.Players, ShouldHaveLength, 2)
			So(squad.Players[0].Role, ShouldEqual, fbref.RoleMidfielder)
			So(squad.Players[1].Role, ShouldEqual, fbref.RoleDefender)
			So(squad.Players[1].ProfileFile(), ShouldEqual, "William-Saliba.html")
		})
	})

	Convey("Given a page without the table", t, func() {
		_, err := fbref.ParseSquad(strings.NewReader("<html><body><p>nope</p></body></html>"), "")

		Convey("Then ErrTableNotFound should be returned", func() {
			So(errors.Is(err, fbref.ErrTableNotFound), ShouldBeTrue)
		})
	})
}

func TestParseProfile(t *testing.T) {
	Convey("Given a saved defender page", t, func() {
		p, err := fbref.ParseProfile(strings.NewReader(profilePage), fbref.RoleDefender)

		Convey("Then only important honours should be collected", func() {
			So(err, ShouldBeNil)
			So(p.Achievements, ShouldResemble, []string{"2x Premier League Champion"})
		})

		Convey("Then per-90 values should come from the scouting table only", func() {
			So(p.Stats[schema.DFTackles90], ShouldEqual, "1.20")
			So(p.Stats[schema.DFInterceptions90], ShouldEqual, "0.90")
			So(p.Stats[schema.DFProgressivePassesRec], ShouldEqual, "3.10")
			So(p.Stats[schema.DFBlocks90], ShouldEqual, "1.05")
		})

		Convey("Then the record should hold every defender field", func() {
			rec := p.Record("William Saliba", "Arsenal", fbref.RoleDefender)
			So(rec.Fields, ShouldContainKey, schema.DFClearances90)
			So(rec.Fields[schema.DFClearances90], ShouldEqual, "")
			So(rec.Fields["achievements"], ShouldEqual, "2x Premier League Champion")
		})
	})

	Convey("Given an attacker", t, func() {
		p, err := fbref.ParseProfile(strings.NewReader(profilePage), "")

		Convey("Then no scouting fields should be collected", func() {
			So(err, ShouldBeNil)
			So(p.Stats, ShouldBeEmpty)
		})
	})
}

func TestLabels(t *testing.T) {
	Convey("Given scouting labels", t, func() {
		Convey("Then they should normalize to bare tokens", func() {
			So(fbref.NormLabel("Save% (Penalty Kicks)"), ShouldEqual, "savepercentpenaltykicks")
			So(fbref.NormLabel("PSxG/SoT"), ShouldEqual, "psxgsot")
			So(fbref.NormLabel("Shot-Creating Actions per 90"), ShouldEqual, "shotcreatingactions")
			So(fbref.NormLabel("Def. Actions Outside Pen. Area"), ShouldEqual, "defactionsoutsidepenarea")
		})

		Convey("Then coarse roles should follow the first matching group", func() {
			So(fbref.CoarseRole("GK"), ShouldEqual, fbref.RoleGoalkeeper)
			So(fbref.CoarseRole("DF,MF"), ShouldEqual, fbref.RoleDefender)
			So(fbref.CoarseRole("Central Midfield"), ShouldEqual, fbref.RoleMidfielder)
			So(fbref.CoarseRole("Defensive Midfield"), ShouldEqual, fbref.RoleMidfielder)
			So(fbref.CoarseRole("Attacking Midfield"), ShouldEqual, fbref.RoleMidfielder)
			So(fbref.CoarseRole("MF, DF"), ShouldEqual, fbref.RoleDefender)
			So(fbref.CoarseRole("Centre-Back"), ShouldEqual, fbref.RoleDefender)
			So(fbref.CoarseRole("DM"), ShouldEqual, fbref.RoleMidfielder)
			So(fbref.CoarseRole("Hamstring"), ShouldEqual, "")
			So(fbref.CoarseRole("FW"), ShouldEqual, "")
			So(fbref.CoarseRole(""), ShouldEqual, "")
		})
	})
}

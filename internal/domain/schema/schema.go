// Package schema declares the column vocabulary of the player snapshot and
// validates a loaded table against it.
package schema

import (
	"slices"

	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/table"
)

// Identity and eligibility columns.
const (
	Player    = "player"
	Club      = "Club"
	Squad     = "Squad"
	Position  = "Position"
	Nineties  = "90s Played"
	RoleLabel = "role"
)

// Season totals delivered by the stats collector.
const (
	YellowCards               = "Yellow Cards"
	RedCards                  = "Red Cards"
	ProgressiveCarries        = "Progressive Carries"
	ProgressivePasses         = "Progressive Passes"
	ProgressivePassesReceived = "Progressive Passes Received"
)

// Attacking per-90 columns.
const (
	Goals90   = "Goals scored per 90 minutes"
	NPXG90    = "npxg per 90 minutes"
	XG90      = "xg per 90 minutes"
	Assists90 = "Assists per 90 minutes"
	XAG90     = "xag per 90 minutes"
)

// Midfielder scouting fields.
const (
	MFShotCreatingActions90 = "mf_shot_creating_actions_90"
	MFPassesAttempted90     = "mf_passes_attempted_90"
	MFPassCompletionPct     = "mf_pass_completion_pct"
	MFTackles90             = "mf_tackles_90"
	MFInterceptions90       = "mf_interceptions_90"
	MFProgressiveCarries90  = "mf_progressive_carries_90"
	MFProgressivePasses90   = "mf_progressive_passes_90"
	MFProgressivePassesRec  = "mf_progressive_passes_rec_90"
)

// Defender scouting fields.
const (
	DFInterceptions90      = "df_interceptions_90"
	DFTackles90            = "df_tackles_90"
	DFBlocks90             = "df_blocks_90"
	DFClearances90         = "df_clearances_90"
	DFAerialsWon90         = "df_aerials_won_90"
	DFProgressivePassesRec = "df_progressive_passes_rec_90"
)

// Goalkeeper scouting fields.
const (
	GKSavePercentage         = "gk_save_percentage"
	GKCleanSheetPercentage   = "gk_clean_sheet_percentage"
	GKCrossesStoppedPct      = "gk_crosses_stopped_pct"
	GKDefActionsOutsidePen   = "gk_def_actions_outside_pen_area"
	GKAvgDistanceOfDefAction = "gk_avg_distance_of_def_actions"
	GKSavePctPenaltyKicks    = "gk_save_pct_penalty_kicks"
	GKPSxGPerSoT             = "gk_psxg_per_sot"
)

// Derived columns.
const (
	ProgCarries90Any   = "prog_carries_90_any"
	ProgPassesRec90Any = "prog_passes_rec_90_any"
	ProgPasses90Any    = "prog_passes_90_any"
	YellowCards90      = "yc_90"
	RedCards90         = "rc_90"
	MarketValueEUR     = "_market_value_eur"
)

// NameColumns lists the player-name columns in lookup order.
var NameColumns = []string{Player, "Player", "Name"} //nolint:gochecknoglobals // fixed vocabulary

// ClubColumns lists the club columns in lookup order.
var ClubColumns = []string{Club, Squad} //nolint:gochecknoglobals // fixed vocabulary

// ScoreColumn is the composite score column of r, e.g. "fwd_score".
func ScoreColumn(r model.Role) string { return r.Prefix() + "_score" }

// RankColumn is the dense rank column of r.
func RankColumn(r model.Role) string { return r.Prefix() + "_rank" }

// UnderratedColumn is the score-per-euro column of r.
func UnderratedColumn(r model.Role) string { return r.Prefix() + "_underrated" }

// UnderratedRankColumn is the underrated rank column of r.
func UnderratedRankColumn(r model.Role) string { return r.Prefix() + "_underrated_rank" }

// Presence says whether a field must exist for a run to proceed.
type Presence int

const (
	Optional Presence = iota
	Required
)

// Field is one declared input column.
type Field struct {
	Name     string
	Presence Presence
}

// Fields is the declared input schema.
var Fields = []Field{ //nolint:gochecknoglobals // fixed vocabulary
	{Position, Required},
	{Nineties, Required},
	{Goals90, Optional},
	{NPXG90, Optional},
	{XG90, Optional},
	{Assists90, Optional},
	{XAG90, Optional},
	{YellowCards, Optional},
	{RedCards, Optional},
	{ProgressiveCarries, Optional},
	{ProgressivePasses, Optional},
	{ProgressivePassesReceived, Optional},
	{MFShotCreatingActions90, Optional},
	{MFPassesAttempted90, Optional},
	{MFPassCompletionPct, Optional},
	{MFTackles90, Optional},
	{MFInterceptions90, Optional},
	{MFProgressiveCarries90, Optional},
	{MFProgressivePasses90, Optional},
	{MFProgressivePassesRec, Optional},
	{DFInterceptions90, Optional},
	{DFTackles90, Optional},
	{DFBlocks90, Optional},
	{DFClearances90, Optional},
	{DFAerialsWon90, Optional},
	{DFProgressivePassesRec, Optional},
	{GKSavePercentage, Optional},
	{GKCleanSheetPercentage, Optional},
	{GKCrossesStoppedPct, Optional},
	{GKDefActionsOutsidePen, Optional},
	{GKAvgDistanceOfDefAction, Optional},
	{GKSavePctPenaltyKicks, Optional},
	{GKPSxGPerSoT, Optional},
}

// Report lists the declared fields absent from a table.
type Report struct {
	MissingRequired []string
	MissingOptional []string
}

// OK reports whether every required field is present.
func (r Report) OK() bool { return len(r.MissingRequired) == 0 }

// Validate checks t against Fields. It never fails; callers decide what a
// missing required field means.
func Validate(t *table.Table) Report {
	var rep Report
	for _, f := range Fields {
		if t.Has(f.Name) {
			continue
		}
		if f.Presence == Required {
			rep.MissingRequired = append(rep.MissingRequired, f.Name)
		} else {
			rep.MissingOptional = append(rep.MissingOptional, f.Name)
		}
	}
	return rep
}

// Identities resolves the name and club of every row using the first present
// column of NameColumns and ClubColumns.
func Identities(t *table.Table) []model.Identity {
	out := make([]model.Identity, t.Len())
	var names, clubs []string
	if c, ok := t.First(NameColumns...); ok {
		names = t.Texts(c)
	}
	if c, ok := t.First(ClubColumns...); ok {
		clubs = t.Texts(c)
	}
	for i := range out {
		if names != nil {
			out[i].Name = names[i]
		}
		if clubs != nil {
			out[i].Club = clubs[i]
		}
	}
	return out
}

// IsDerived reports whether name is a column the pipeline writes.
func IsDerived(name string) bool {
	if slices.Contains([]string{RoleLabel, ProgCarries90Any, ProgPassesRec90Any, ProgPasses90Any, YellowCards90, RedCards90, MarketValueEUR}, name) {
		return true
	}
	for _, r := range model.Roles {
		if name == ScoreColumn(r) || name == RankColumn(r) || name == UnderratedColumn(r) || name == UnderratedRankColumn(r) {
			return true
		}
	}
	return false
}

package fbref

import (
	"regexp"
	"strings"

	"github.com/okian/squadrank/internal/domain/schema"
)

// Coarse roles used to pick the scouting fields of a player.
const (
	RoleGoalkeeper = "goalkeeper"
	RoleDefender   = "defender"
	RoleMidfielder = "midfielder"
)

// Label maps normalized scouting-report labels to one output field.
type Label struct {
	Field    string
	Synonyms []string
}

// DefenderLabels are the scouting fields collected for defenders.
var DefenderLabels = []Label{ //nolint:gochecknoglobals // fixed vocabulary
	{schema.DFProgressivePassesRec, []string{"progressivepassesrec", "progressivepassesreceived"}},
	{schema.DFTackles90, []string{"tackles"}},
	{schema.DFInterceptions90, []string{"interceptions"}},
	{schema.DFBlocks90, []string{"blocks"}},
	{schema.DFClearances90, []string{"clearances"}},
	{schema.DFAerialsWon90, []string{"aerialswon"}},
}

// MidfielderLabels are the scouting fields collected for midfielders.
var MidfielderLabels = []Label{ //nolint:gochecknoglobals // fixed vocabulary
	{schema.MFShotCreatingActions90, []string{"shotcreatingactions"}},
	{schema.MFPassesAttempted90, []string{"passesattempted"}},
	{schema.MFPassCompletionPct, []string{"passcompletionpercent", "passcompletion"}},
	{schema.MFProgressivePasses90, []string{"progressivepasses"}},
	{schema.MFProgressiveCarries90, []string{"progressivecarries"}},
	{schema.MFProgressivePassesRec, []string{"progressivepassesrec", "progressivepassesreceived"}},
	{schema.MFTackles90, []string{"tackles"}},
	{schema.MFInterceptions90, []string{"interceptions"}},
	{"mf_blocks_90", []string{"blocks"}},
	{"mf_clearances_90", []string{"clearances"}},
	{"mf_aerials_won_90", []string{"aerialswon"}},
}

// GoalkeeperLabels are the scouting fields collected for goalkeepers.
var GoalkeeperLabels = []Label{ //nolint:gochecknoglobals // fixed vocabulary
	{schema.GKSavePercentage, []string{"savepercentage", "savepercent"}},
	{schema.GKPSxGPerSoT, []string{"psxgsot"}},
	{schema.GKSavePctPenaltyKicks, []string{"savepercentpenaltykicks", "savepenaltykicks"}},
	{schema.GKCleanSheetPercentage, []string{"cleansheetpercentage"}},
	{schema.GKCrossesStoppedPct, []string{"crossesstoppedpercent"}},
	{schema.GKDefActionsOutsidePen, []string{"defactionsoutsidepenarea"}},
	{schema.GKAvgDistanceOfDefAction, []string{"avgdistanceofdefactions"}},
}

// LabelsFor returns the scouting fields of a coarse role, or nil.
func LabelsFor(role string) []Label {
	switch role {
	case RoleGoalkeeper:
		return GoalkeeperLabels
	case RoleDefender:
		return DefenderLabels
	case RoleMidfielder:
		return MidfielderLabels
	}
	return nil
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`) //nolint:gochecknoglobals // compiled once

// NormLabel lower-cases a scouting label, drops "per 90", spells out "%"
// and removes everything but letters and digits.
func NormLabel(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("–", "-", "’", "'", "per 90", "", "%", " percent").Replace(s)
	return nonAlnum.ReplaceAllString(s, "")
}

// CoarseRole maps FBref position codes and words to a coarse role. Codes
// such as "DF" or "CM" must appear as whole tokens; words match anywhere.
// Attackers and unknown text map to "".
func CoarseRole(pos string) string {
	t := strings.ToLower(strings.TrimSpace(pos))
	if t == "" {
		return ""
	}
	tokens := strings.FieldsFunc(t, func(r rune) bool { return r < 'a' || r > 'z' })
	has := func(codes, words []string) bool {
		for _, tok := range tokens {
			for _, c := range codes {
				if tok == c {
					return true
				}
			}
		}
		for _, w := range words {
			if strings.Contains(t, w) {
				return true
			}
		}
		return false
	}
	switch {
	case has([]string{"gk"}, []string{"goalkeeper"}):
		return RoleGoalkeeper
	case has([]string{"df", "cb", "lb", "rb"}, []string{"defender", "back"}):
		return RoleDefender
	case has([]string{"mf", "cm", "am", "dm"}, []string{"midfield"}):
		return RoleMidfielder
	}
	return ""
}

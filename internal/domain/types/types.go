// Package types contains common types used across the application
package types

import (
	"errors"
	"strings"

	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/ranking"
)

// Leaderboard lookup errors shared by the service and its transports.
var (
	ErrUnknownBoard = errors.New("unknown leaderboard")
	ErrNoRun        = errors.New("no completed run")
)

// Entry represents a leaderboard entry
type Entry struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Club   string  `json:"club,omitempty"`
	Role   string  `json:"role"`
	Board  string  `json:"board"`
	Score  float64 `json:"score"`
}

// Leaderboard is one page of a leaderboard.
type Leaderboard struct {
	Board   string  `json:"board"`
	Total   int     `json:"total"`
	Entries []Entry `json:"entries"`
}

// Board names the leaderboard of a role and ranking kind, e.g. "fwd_score".
func Board(r model.Role, kind string) string {
	return r.Prefix() + "_" + kind
}

// ParseBoard splits a board name built by Board.
func ParseBoard(name string) (model.Role, string, bool) {
	prefix, kind, ok := strings.Cut(name, "_")
	if !ok || (kind != ranking.KindScore && kind != ranking.KindUnderrated) {
		return model.Unclassified, "", false
	}
	r, ok := model.ParseRole(prefix)
	return r, kind, ok
}

// Package repository holds the per-role leaderboards served after a run.
package repository

import "context"

// Entry represents a leaderboard row.
type Entry struct {
	Rank   int
	Row    int
	Player string
	Club   string
	Score  float64
}

// Store provides read/write access to one leaderboard.
type Store interface {
	// Name returns the leaderboard name, e.g. "fwd_score".
	Name() string

	// Put inserts or replaces the entry of e.Row. Rank is ignored.
	Put(ctx context.Context, e Entry) error

	// Find returns every entry whose player name matches, best first.
	// Returns ErrNotFound when none does.
	Find(ctx context.Context, player string) ([]Entry, error)

	// TopN returns the top-N entries ordered by score desc, then row asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of entries on the leaderboard.
	Count(ctx context.Context) int
}

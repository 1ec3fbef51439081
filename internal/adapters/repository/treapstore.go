package repository

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/squadrank/internal/domain/model"
	"github.com/okian/squadrank/internal/domain/ranking"
	"github.com/okian/squadrank/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: score DESC, then row ASC (deterministic). "less" means ranks
// earlier, so in-order traversal yields the leaderboard from best to worst.

// Snapshot is an immutable ranked view of the leaderboard.
type Snapshot struct {
	Entries    []Entry
	IndexByRow map[int]int
	RowsByName map[string][]int
}

type node struct {
	row   int
	score float64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aRow) should appear before (bScore, bRow).
func less(aScore float64, aRow int, bScore float64, bRow int) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aRow < bRow
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// rowPriority hashes the row with splitmix64 so the heap order is random
// looking but reproducible.
func rowPriority(row int) uint64 {
	z := uint64(row) + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func insert(n *node, row int, score float64) *node {
	if n == nil {
		return &node{row: row, score: score, prio: rowPriority(row), size: 1}
	}
	if less(score, row, n.score, n.row) {
		n.left = insert(n.left, row, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, row, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, row int, score float64) *node {
	if n == nil {
		return nil
	}
	if score == n.score && row == n.row {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, row, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, row, score)
		}
	} else if less(score, row, n.score, n.row) {
		n.left = deleteNode(n.left, row, score)
	} else {
		n.right = deleteNode(n.right, row, score)
	}
	fix(n)
	return n
}

// collectAll appends all entries in leaderboard order.
func collectAll(n *node, byRow map[int]Entry, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byRow, out)
	if e, ok := byRow[n.row]; ok {
		*out = append(*out, e)
	}
	collectAll(n.right, byRow, out)
}

var _ Store = (*TreapStore)(nil)

// TreapStore implements Store. Reads are served from a lazily rebuilt
// snapshot that every Put invalidates.
type TreapStore struct {
	mu    sync.RWMutex
	root  *node
	byRow map[int]Entry
	name  string

	snapshot atomic.Pointer[Snapshot]
}

// NewTreapStore constructs an empty leaderboard.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{
		name:  "default",
		byRow: make(map[int]Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Store.Name.
func (s *TreapStore) Name() string { return s.name }

// Put implements Store.Put in O(log n) expected time.
func (s *TreapStore) Put(_ context.Context, e Entry) error {
	if math.IsNaN(e.Score) || math.IsInf(e.Score, 0) {
		metrics.RecordError("repository", "invalid_score")
		return ErrInvalidScore
	}
	e.Rank = 0

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byRow[e.Row]; ok {
		s.root = deleteNode(s.root, old.Row, old.Score)
	}
	s.byRow[e.Row] = e
	s.root = insert(s.root, e.Row, e.Score)
	s.snapshot.Store(nil)
	return nil
}

// current returns the published snapshot, rebuilding it when stale.
func (s *TreapStore) current() *Snapshot {
	if snap := s.snapshot.Load(); snap != nil {
		return snap
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap := s.snapshot.Load(); snap != nil {
		return snap
	}
	snap := s.buildSnapshot()
	s.snapshot.Store(snap)
	metrics.SetLeaderboardEntries(s.name, len(snap.Entries))
	return snap
}

// buildSnapshot ranks every entry. Caller holds s.mu.
func (s *TreapStore) buildSnapshot() *Snapshot {
	entries := make([]Entry, 0, len(s.byRow))
	collectAll(s.root, s.byRow, &entries)

	ranked := make([]ranking.Entry, len(entries))
	for i, e := range entries {
		ranked[i] = ranking.Entry{Row: e.Row, Score: e.Score}
	}
	ranking.Dense(ranked)
	rankByRow := make(map[int]int, len(ranked))
	for _, r := range ranked {
		rankByRow[r.Row] = r.Rank
	}

	snap := &Snapshot{
		Entries:    entries,
		IndexByRow: make(map[int]int, len(entries)),
		RowsByName: make(map[string][]int),
	}
	for i := range entries {
		entries[i].Rank = rankByRow[entries[i].Row]
		snap.IndexByRow[entries[i].Row] = i
		name := model.NormalizeName(entries[i].Player)
		snap.RowsByName[name] = append(snap.RowsByName[name], entries[i].Row)
	}
	return snap
}

func observe(start time.Time) {
	metrics.ObserveQuery(time.Since(start))
}

// Find returns every entry of a player name, best first.
func (s *TreapStore) Find(_ context.Context, player string) ([]Entry, error) {
	defer observe(time.Now())

	snap := s.current()
	rows := snap.RowsByName[model.NormalizeName(player)]
	if len(rows) == 0 {
		metrics.RecordError("repository", "not_found")
		return nil, ErrNotFound
	}
	out := make([]Entry, len(rows))
	for i, row := range rows {
		out[i] = snap.Entries[snap.IndexByRow[row]]
	}
	return out, nil
}

// TopN returns the top N entries.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	defer observe(time.Now())

	if n < 1 {
		metrics.RecordError("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	snap := s.current()
	n = min(n, len(snap.Entries))
	out := make([]Entry, n)
	copy(out, snap.Entries[:n])
	return out, nil
}

// Count returns the number of entries.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byRow)
}

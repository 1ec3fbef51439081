// Package dedupe tracks player identities already seen while merging
// snapshots from several sources.
package dedupe

import (
	"github.com/okian/squadrank/internal/domain/model"
)

// Set records seen identity keys. It is not safe for concurrent use; merges run
// on a single goroutine.
type Set struct {
	seen     map[string]struct{}
	capacity int
}

// New creates an empty set.
func New(opts ...Option) *Set {
	s := &Set{}
	for _, opt := range opts {
		opt(s)
	}
	s.seen = make(map[string]struct{}, s.capacity)
	return s
}

// SeenAndRecord reports whether key was already seen and records it if not.
func (s *Set) SeenAndRecord(key string) bool {
	if _, ok := s.seen[key]; ok {
		return true
	}
	s.seen[key] = struct{}{}
	return false
}

// SeenIdentity is SeenAndRecord on the identity's normalized key.
func (s *Set) SeenIdentity(id model.Identity) bool {
	return s.SeenAndRecord(id.Key())
}

// Size returns the number of recorded keys.
func (s *Set) Size() int {
	return len(s.seen)
}

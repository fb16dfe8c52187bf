package transition

import "sync"

// Session remembers the last snapshot it resolved so each new snapshot is
// diffed against the one before it. The first snapshot is resolved
// against an empty one, which puts every element in Stable.
type Session[G, I comparable, P any] struct {
	mu       sync.Mutex
	resolver Resolver[G, I, P]
	previous *GroupedSnapshot[G, I]
}

// NewSession creates a session with no history.
func NewSession[G, I comparable, P any](r Resolver[G, I, P]) *Session[G, I, P] {
	return &Session[G, I, P]{resolver: r}
}

// Resolve diffs next against the previous snapshot and makes next the new
// previous.
func (s *Session[G, I, P]) Resolve(next *GroupedSnapshot[G, I]) Plan[G, I, P] {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.previous
	if prev == nil {
		prev = Empty[G, I]()
	}
	s.previous = next
	return s.resolver.Resolve(prev, next)
}

// Previous returns the last resolved snapshot, or nil before the first.
func (s *Session[G, I, P]) Previous() *GroupedSnapshot[G, I] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previous
}

// SetResolver swaps the resolver. History is kept.
func (s *Session[G, I, P]) SetResolver(r Resolver[G, I, P]) {
	s.mu.Lock()
	s.resolver = r
	s.mu.Unlock()
}

// Reset forgets history; the next Resolve starts from empty.
func (s *Session[G, I, P]) Reset() {
	s.mu.Lock()
	s.previous = nil
	s.mu.Unlock()
}

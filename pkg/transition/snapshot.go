// Package transition diffs two groupings of items and produces a plan
// describing how each visual element should move between them.
//
// The package is content-agnostic: group keys G and items I are opaque
// comparable identities, and positions P are whatever the caller renders
// with. Knowledge of maps lives in the resolver's position callbacks.
package transition

import "sync"

// Group is one set of items under a key. Items are expected to be
// distinct within a group.
type Group[G, I comparable] struct {
	Key   G
	Items []I
}

// Size is the number of items in the group.
func (g Group[G, I]) Size() int {
	return len(g.Items)
}

// GroupedSnapshot is an immutable grouping of items. The item→group index
// is built on first use and then answers GroupOf in O(1).
//
// An item must not appear in two groups of one snapshot. This is not
// checked; if it happens the later group wins in the index.
type GroupedSnapshot[G, I comparable] struct {
	groups []Group[G, I]

	once  sync.Once
	index map[I]int // item → position in groups
	all   []I
}

// NewSnapshot wraps groups. The slice is retained and must not be
// modified afterwards.
func NewSnapshot[G, I comparable](groups []Group[G, I]) *GroupedSnapshot[G, I] {
	return &GroupedSnapshot[G, I]{groups: groups}
}

// Empty returns a snapshot with no groups.
func Empty[G, I comparable]() *GroupedSnapshot[G, I] {
	return NewSnapshot[G, I](nil)
}

// Groups returns the groups in construction order.
func (s *GroupedSnapshot[G, I]) Groups() []Group[G, I] {
	return s.groups
}

// Len is the number of groups.
func (s *GroupedSnapshot[G, I]) Len() int {
	return len(s.groups)
}

// GroupOf returns the group containing item.
func (s *GroupedSnapshot[G, I]) GroupOf(item I) (Group[G, I], bool) {
	s.build()
	i, ok := s.index[item]
	if !ok {
		return Group[G, I]{}, false
	}
	return s.groups[i], true
}

// AllItems returns every item across all groups, ordered by first
// appearance.
func (s *GroupedSnapshot[G, I]) AllItems() []I {
	s.build()
	return s.all
}

func (s *GroupedSnapshot[G, I]) build() {
	s.once.Do(func() {
		n := 0
		for _, g := range s.groups {
			n += len(g.Items)
		}
		s.index = make(map[I]int, n)
		s.all = make([]I, 0, n)
		for gi, g := range s.groups {
			for _, item := range g.Items {
				if _, seen := s.index[item]; !seen {
					s.all = append(s.all, item)
				}
				s.index[item] = gi
			}
		}
	})
}

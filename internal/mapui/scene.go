package mapui

import (
	"github.com/wesen/clustermap/pkg/clustering"
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/transition"
)

type (
	marker    = *clustering.Marker
	groupKey  = clustering.ClusterKey[marker]
	element   = transition.VisualElement[groupKey, marker]
	elementID = transition.ElementID[groupKey, marker]
)

const (
	clusterKind = transition.ClusterKind
	itemKind    = transition.ItemKind
)

// sceneEntry is one element as currently drawn. origin is where it was
// first drawn under the current plan, so a trail can show how far it has
// moved.
type sceneEntry struct {
	el     element
	pos    geo.LatLng
	origin geo.LatLng
	gen    int
}

// moving reports whether the entry is away from where its plan started it.
func (e *sceneEntry) moving() bool { return e.pos != e.origin }

// scene is the playback sink: the set of elements on the map, in the order
// they were first rendered.
type scene struct {
	entries map[elementID]*sceneEntry
	order   []elementID
	gen     int
}

func newScene() *scene {
	return &scene{entries: make(map[elementID]*sceneEntry)}
}

// Render implements playback.Sink.
func (s *scene) Render(el element, pos geo.LatLng) {
	id := el.ID()
	e, ok := s.entries[id]
	if !ok {
		e = &sceneEntry{}
		s.entries[id] = e
		s.order = append(s.order, id)
	}
	if !ok || e.gen != s.gen {
		e.origin, e.gen = pos, s.gen
	}
	e.el, e.pos = el, pos
}

// Remove implements playback.Sink.
func (s *scene) Remove(id elementID) {
	if _, ok := s.entries[id]; !ok {
		return
	}
	delete(s.entries, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// beginPlan makes the next Render of every element reset its origin.
func (s *scene) beginPlan() { s.gen++ }

// settle drops all trails.
func (s *scene) settle() {
	for _, e := range s.entries {
		e.origin = e.pos
	}
}

func (s *scene) get(id elementID) (*sceneEntry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// each visits entries in render order.
func (s *scene) each(fn func(elementID, *sceneEntry)) {
	for _, id := range s.order {
		fn(id, s.entries[id])
	}
}

func (s *scene) Len() int { return len(s.entries) }

// itemCount is the number of items the drawn elements stand for.
func (s *scene) itemCount() int {
	n := 0
	for _, e := range s.entries {
		n += e.el.Size()
	}
	return n
}

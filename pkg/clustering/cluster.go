package clustering

import (
	"iter"

	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/orderedset"
)

// Cluster is one group produced by a clustering pass. Its position is the
// position of its anchor, the candidate that created it, never a centroid.
// Clusters are rebuilt on every pass.
type Cluster[T ClusterItem] struct {
	anchor   T
	position geo.LatLng
	items    *orderedset.Set[T]
}

func newCluster[T ClusterItem](anchor T) *Cluster[T] {
	return &Cluster[T]{
		anchor:   anchor,
		position: anchor.Position(),
		items:    orderedset.New[T](),
	}
}

// Position is the anchor's position.
func (c *Cluster[T]) Position() geo.LatLng { return c.position }

// Anchor is the item that created the cluster.
func (c *Cluster[T]) Anchor() T { return c.anchor }

// Size is the member count.
func (c *Cluster[T]) Size() int { return c.items.Len() }

// Items returns the members in the order they joined.
func (c *Cluster[T]) Items() []T { return c.items.Values() }

// All iterates the members in the order they joined.
func (c *Cluster[T]) All() iter.Seq[T] { return c.items.All() }

// Contains reports whether item is a member.
func (c *Cluster[T]) Contains(item T) bool { return c.items.Contains(item) }

// ZIndex is the first member's z-index, or 0.
func (c *Cluster[T]) ZIndex() float32 {
	first, ok := c.items.First()
	if !ok {
		return 0
	}
	z, _ := first.ZIndex()
	return z
}

// Key identifies the cluster across passes. Two passes that produce a
// cluster with the same anchor at the same place yield equal keys.
func (c *Cluster[T]) Key() ClusterKey[T] {
	return ClusterKey[T]{Anchor: c.anchor, Position: c.position}
}

// ClusterKey is a comparable cluster identity.
type ClusterKey[T ClusterItem] struct {
	Anchor   T
	Position geo.LatLng
}

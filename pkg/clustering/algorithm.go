package clustering

import (
	"math"

	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/orderedset"
	"github.com/wesen/clustermap/pkg/quadtree"
)

const (
	// MaxDistanceAtZoom is the clustering radius in screen points at any
	// integer zoom.
	MaxDistanceAtZoom = 100
	// TileSize is the width in points of one world tile at zoom 0.
	TileSize = 256
)

// Algorithm holds an item set and groups it for a zoom level. It is not
// safe for concurrent use; Manager serializes access.
type Algorithm[T ClusterItem] interface {
	// AddItems adds items; items already present are ignored.
	AddItems(items ...T)
	ClearItems()
	Items() []T
	Clusters(zoom float64) []*Cluster[T]
}

// Span is the side of the square searched around each candidate, in unit
// plane coordinates. zoom is floored first.
func Span(zoom float64) float64 {
	return MaxDistanceAtZoom / math.Pow(2, math.Floor(zoom)) / TileSize
}

type quadItem[T ClusterItem] struct {
	item  T
	point geo.Point
}

func (q quadItem[T]) Point() geo.Point { return q.point }

// NonHierarchicalDistanceBased clusters greedily: candidates are visited
// in insertion order, and each unvisited candidate claims everything in
// the square around it. An item already claimed moves to the new cluster
// only if it is strictly closer to the new anchor.
type NonHierarchicalDistanceBased[T ClusterItem] struct {
	items  *orderedset.Set[T]
	points map[T]geo.Point
	tree   *quadtree.PointQuadTree[quadItem[T]]
}

// NewNonHierarchicalDistanceBased creates an empty algorithm over the unit
// plane.
func NewNonHierarchicalDistanceBased[T ClusterItem]() *NonHierarchicalDistanceBased[T] {
	return &NonHierarchicalDistanceBased[T]{
		items:  orderedset.New[T](),
		points: make(map[T]geo.Point),
		tree:   quadtree.New[quadItem[T]](0, 1, 0, 1),
	}
}

// AddItems implements Algorithm.
func (a *NonHierarchicalDistanceBased[T]) AddItems(items ...T) {
	for _, item := range items {
		if !a.items.Add(item) {
			continue
		}
		p := geo.UnitProjection.ToPoint(item.Position())
		a.points[item] = p
		a.tree.Add(quadItem[T]{item: item, point: p})
	}
}

// ClearItems implements Algorithm.
func (a *NonHierarchicalDistanceBased[T]) ClearItems() {
	a.items.Clear()
	clear(a.points)
	a.tree.Clear()
}

// Items implements Algorithm.
func (a *NonHierarchicalDistanceBased[T]) Items() []T {
	return a.items.Values()
}

// Len is the number of distinct items.
func (a *NonHierarchicalDistanceBased[T]) Len() int {
	return a.items.Len()
}

// Clusters implements Algorithm. Results are in creation order, so the
// same items added in the same order always give the same output.
func (a *NonHierarchicalDistanceBased[T]) Clusters(zoom float64) []*Cluster[T] {
	span := Span(zoom)
	world := a.tree.Bounds()

	visited := make(map[T]struct{}, a.items.Len())
	distance := make(map[T]float64, a.items.Len())
	owner := make(map[T]*Cluster[T], a.items.Len())
	var results []*Cluster[T]

	for candidate := range a.items.All() {
		if _, ok := visited[candidate]; ok {
			continue
		}
		cp := a.points[candidate]

		// Points off the tree (polar latitudes) can't be searched for.
		var found []quadItem[T]
		if world.ContainsPoint(cp) {
			found = a.tree.Search(geo.BoundsAround(cp, span))
		}
		if len(found) <= 1 {
			single := newCluster(candidate)
			single.items.Add(candidate)
			results = append(results, single)
			visited[candidate] = struct{}{}
			distance[candidate] = 0
			owner[candidate] = single
			continue
		}

		cluster := newCluster(candidate)
		results = append(results, cluster)

		for _, q := range found {
			d := distanceSquared(q.point, cp)
			if existing, ok := distance[q.item]; ok {
				// Ties stay with the earlier cluster.
				if existing <= d {
					continue
				}
				owner[q.item].items.Remove(q.item)
			}
			distance[q.item] = d
			cluster.items.Add(q.item)
			owner[q.item] = cluster
		}
		for _, q := range found {
			visited[q.item] = struct{}{}
		}
	}

	out := results[:0]
	for _, c := range results {
		if c.Size() > 0 {
			out = append(out, c)
		}
	}
	return out
}

func distanceSquared(a, b geo.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Package quadtree provides a point quad-tree over the projected plane.
//
// A node is either a leaf holding an insertion-ordered set of items or an
// internal node with exactly four children. A leaf splits once it holds
// more than MaxElements items, unless it is already at MaxDepth, in which
// case it keeps growing. Splits are never undone until Clear.
//
// The tree is not safe for concurrent use.
package quadtree

import (
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/orderedset"
)

const (
	// MaxElements is the leaf capacity before a split.
	MaxElements = 50
	// MaxDepth is the depth below which leaves may split.
	MaxDepth = 40
)

// Item is anything with a fixed position on the projected plane.
type Item interface {
	comparable
	Point() geo.Point
}

// PointQuadTree indexes items by their projected point.
type PointQuadTree[T Item] struct {
	bounds   geo.Bounds
	depth    int
	items    *orderedset.Set[T] // nil until first insert, nil again after split
	children []*PointQuadTree[T]
}

// New creates an empty tree covering the given extent.
func New[T Item](minX, maxX, minY, maxY float64) *PointQuadTree[T] {
	return NewWithBounds[T](geo.NewBounds(minX, maxX, minY, maxY))
}

// NewWithBounds creates an empty tree covering b.
func NewWithBounds[T Item](b geo.Bounds) *PointQuadTree[T] {
	return newNode[T](b, 0)
}

func newNode[T Item](b geo.Bounds, depth int) *PointQuadTree[T] {
	return &PointQuadTree[T]{bounds: b, depth: depth}
}

// Bounds returns the extent covered by the tree.
func (q *PointQuadTree[T]) Bounds() geo.Bounds {
	return q.bounds
}

// Add inserts item. Items whose point lies outside the tree bounds are
// dropped without error.
func (q *PointQuadTree[T]) Add(item T) {
	p := item.Point()
	if q.bounds.Contains(p.X, p.Y) {
		q.insert(p, item)
	}
}

func (q *PointQuadTree[T]) insert(p geo.Point, item T) {
	if q.children != nil {
		q.children[q.childIndex(p)].insert(p, item)
		return
	}
	if q.items == nil {
		q.items = orderedset.New[T]()
	}
	q.items.Add(item)
	if q.items.Len() > MaxElements && q.depth < MaxDepth {
		q.split()
	}
}

// childIndex picks the quadrant: columns split on MidX, rows on MidY,
// values equal to the midpoint go to the higher quadrant.
func (q *PointQuadTree[T]) childIndex(p geo.Point) int {
	col, row := 0, 0
	if p.X >= q.bounds.MidX {
		col = 1
	}
	if p.Y >= q.bounds.MidY {
		row = 2
	}
	return row + col
}

func (q *PointQuadTree[T]) split() {
	b, d := q.bounds, q.depth+1
	q.children = []*PointQuadTree[T]{
		newNode[T](geo.NewBounds(b.MinX, b.MidX, b.MinY, b.MidY), d),
		newNode[T](geo.NewBounds(b.MidX, b.MaxX, b.MinY, b.MidY), d),
		newNode[T](geo.NewBounds(b.MinX, b.MidX, b.MidY, b.MaxY), d),
		newNode[T](geo.NewBounds(b.MidX, b.MaxX, b.MidY, b.MaxY), d),
	}

	old := q.items
	q.items = nil
	for item := range old.All() {
		q.insert(item.Point(), item)
	}
}

// Clear removes every item and collapses the tree back to a single leaf.
func (q *PointQuadTree[T]) Clear() {
	q.children = nil
	if q.items != nil {
		q.items.Clear()
	}
}

// Search returns every item whose point lies within b.
func (q *PointQuadTree[T]) Search(b geo.Bounds) []T {
	var out []T
	q.search(b, &out)
	return out
}

func (q *PointQuadTree[T]) search(b geo.Bounds, out *[]T) {
	// Points on a node edge belong to only one side, so a node that merely
	// touches b may still hold matches.
	if !q.bounds.Touches(b) {
		return
	}
	if q.children != nil {
		for _, c := range q.children {
			c.search(b, out)
		}
		return
	}
	if q.items == nil {
		return
	}
	if b.ContainsBounds(q.bounds) {
		*out = q.items.AppendTo(*out)
		return
	}
	for item := range q.items.All() {
		if b.ContainsPoint(item.Point()) {
			*out = append(*out, item)
		}
	}
}

// Len counts the items stored in the tree.
func (q *PointQuadTree[T]) Len() int {
	if q.children != nil {
		n := 0
		for _, c := range q.children {
			n += c.Len()
		}
		return n
	}
	if q.items == nil {
		return 0
	}
	return q.items.Len()
}

// Depth returns the depth of the deepest node, 0 for a single leaf.
func (q *PointQuadTree[T]) Depth() int {
	if q.children == nil {
		return q.depth
	}
	deepest := q.depth
	for _, c := range q.children {
		deepest = max(deepest, c.Depth())
	}
	return deepest
}

package transition

// ElementKind tags a VisualElement.
type ElementKind uint8

const (
	// ClusterKind is a group drawn as one marker.
	ClusterKind ElementKind = iota + 1
	// ItemKind is a single item drawn on its own.
	ItemKind
)

// String implements fmt.Stringer.
func (k ElementKind) String() string {
	switch k {
	case ClusterKind:
		return "cluster"
	case ItemKind:
		return "item"
	default:
		return "unknown"
	}
}

// VisualElement is what appears on screen: either a whole group drawn as
// one cluster marker, or an individual item. Kind says which payload is
// set.
type VisualElement[G, I comparable] struct {
	Kind ElementKind

	// ClusterKind payload.
	Key   G
	Items []I

	// ItemKind payload.
	Item I
}

// ClusterElement builds a cluster element for a group.
func ClusterElement[G, I comparable](key G, items []I) VisualElement[G, I] {
	return VisualElement[G, I]{Kind: ClusterKind, Key: key, Items: items}
}

// ItemElement builds an element for a single item.
func ItemElement[G, I comparable](item I) VisualElement[G, I] {
	return VisualElement[G, I]{Kind: ItemKind, Item: item}
}

// IsCluster reports whether e is a cluster element.
func (e VisualElement[G, I]) IsCluster() bool {
	return e.Kind == ClusterKind
}

// Size is the number of items the element stands for.
func (e VisualElement[G, I]) Size() int {
	if e.Kind == ClusterKind {
		return len(e.Items)
	}
	return 1
}

// ID returns the element's identity: the group key for clusters, the item
// for individual elements. Two elements with equal IDs are the same thing
// on screen, even if a cluster's membership changed.
func (e VisualElement[G, I]) ID() ElementID[G, I] {
	if e.Kind == ClusterKind {
		return ElementID[G, I]{Kind: ClusterKind, Key: e.Key}
	}
	return ElementID[G, I]{Kind: ItemKind, Item: e.Item}
}

// ElementID is a comparable identity for a VisualElement, usable as a map
// key.
type ElementID[G, I comparable] struct {
	Kind ElementKind
	Key  G
	Item I
}

// ElementTransition moves one element from From to To.
type ElementTransition[G, I comparable, P any] struct {
	Element VisualElement[G, I]
	From    P
	To      P
}

// Plan is the complete transition between two snapshots.
type Plan[G, I comparable, P any] struct {
	// Entering elements animate From → To and stay.
	Entering []ElementTransition[G, I, P]
	// Exiting elements animate From → To and are then removed.
	Exiting []ElementTransition[G, I, P]
	// Stable elements are drawn at To immediately; From == To.
	Stable []ElementTransition[G, I, P]
}

// Len is the total number of transitions in the plan.
func (p Plan[G, I, P]) Len() int {
	return len(p.Entering) + len(p.Exiting) + len(p.Stable)
}

// Contains reports whether any transition in the plan is for id.
func (p Plan[G, I, P]) Contains(id ElementID[G, I]) bool {
	for _, list := range [][]ElementTransition[G, I, P]{p.Entering, p.Exiting, p.Stable} {
		for _, tr := range list {
			if tr.Element.ID() == id {
				return true
			}
		}
	}
	return false
}

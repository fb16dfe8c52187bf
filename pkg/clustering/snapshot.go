package clustering

import (
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/transition"
)

// Snapshot converts a clustering pass into a transition snapshot keyed by
// cluster identity.
func Snapshot[T ClusterItem](clusters []*Cluster[T]) *transition.GroupedSnapshot[ClusterKey[T], T] {
	groups := make([]transition.Group[ClusterKey[T], T], 0, len(clusters))
	for _, c := range clusters {
		groups = append(groups, transition.Group[ClusterKey[T], T]{
			Key:   c.Key(),
			Items: c.Items(),
		})
	}
	return transition.NewSnapshot(groups)
}

// NewResolver returns a membership resolver over cluster snapshots.
// isCluster is consulted on every resolve, so it may change between calls.
func NewResolver[T ClusterItem](isCluster func(size int) bool) *transition.MembershipResolver[ClusterKey[T], T, geo.LatLng] {
	return transition.NewMembershipResolver(
		func(item T) geo.LatLng { return item.Position() },
		func(g transition.Group[ClusterKey[T], T]) geo.LatLng { return g.Key.Position },
		func(g transition.Group[ClusterKey[T], T]) bool { return isCluster(g.Size()) },
	)
}

// NewResolverWithPrevious is NewResolver with wasCluster deciding for the
// groups of the previous snapshot, e.g. a zoom-aware policy evaluated at
// the zoom that snapshot was clustered at.
func NewResolverWithPrevious[T ClusterItem](isCluster, wasCluster func(size int) bool) *transition.MembershipResolver[ClusterKey[T], T, geo.LatLng] {
	return NewResolver[T](isCluster).WithPrevious(
		func(g transition.Group[ClusterKey[T], T]) bool { return wasCluster(g.Size()) },
	)
}

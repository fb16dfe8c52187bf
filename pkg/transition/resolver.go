package transition

// Resolver computes the transition plan from one snapshot to the next.
type Resolver[G, I comparable, P any] interface {
	Resolve(from, to *GroupedSnapshot[G, I]) Plan[G, I, P]
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc[G, I comparable, P any] func(from, to *GroupedSnapshot[G, I]) Plan[G, I, P]

// Resolve implements Resolver.
func (f ResolverFunc[G, I, P]) Resolve(from, to *GroupedSnapshot[G, I]) Plan[G, I, P] {
	return f(from, to)
}

// MembershipResolver pairs old and new groups by shared items. An item in
// old group A and new group B makes A and B correspond, which is what lets
// a cluster split into its items or items merge into a cluster.
type MembershipResolver[G, I, P comparable] struct {
	itemPosition  func(I) P
	groupPosition func(Group[G, I]) P
	isCluster     func(Group[G, I]) bool
	wasCluster    func(Group[G, I]) bool
}

// NewMembershipResolver builds a resolver. isCluster decides whether a
// group is drawn as one cluster element or as its individual items.
func NewMembershipResolver[G, I, P comparable](
	itemPosition func(I) P,
	groupPosition func(Group[G, I]) P,
	isCluster func(Group[G, I]) bool,
) *MembershipResolver[G, I, P] {
	return &MembershipResolver[G, I, P]{
		itemPosition:  itemPosition,
		groupPosition: groupPosition,
		isCluster:     isCluster,
	}
}

// WithPrevious sets a separate cluster test for groups of the old
// snapshot, for when the decision depends on state that differed when the
// old snapshot was made (a zoom threshold, say). By default both
// snapshots use isCluster.
func (r *MembershipResolver[G, I, P]) WithPrevious(wasCluster func(Group[G, I]) bool) *MembershipResolver[G, I, P] {
	r.wasCluster = wasCluster
	return r
}

func (r *MembershipResolver[G, I, P]) oldIsCluster(g Group[G, I]) bool {
	if r.wasCluster != nil {
		return r.wasCluster(g)
	}
	return r.isCluster(g)
}

// Resolve implements Resolver.
//
// Clusters in the new state animate from the first old group they share
// an item with, if that group was elsewhere. Items in the new state
// animate out of the old cluster they belonged to (split). Individual old
// items whose new group is a cluster animate into it and leave (merge).
// Old clusters that split are not reported as exiting: their items
// entering from the cluster position already show the split.
func (r *MembershipResolver[G, I, P]) Resolve(from, to *GroupedSnapshot[G, I]) Plan[G, I, P] {
	var plan Plan[G, I, P]
	handled := make(map[I]struct{})

	// ── New state: what enters or stays ──
	for _, g := range to.Groups() {
		if r.isCluster(g) {
			r.newCluster(g, from, &plan)
			continue
		}
		for _, item := range g.Items {
			handled[item] = struct{}{}
			r.newItem(item, from, &plan)
		}
	}

	// ── Old state: what exits ──
	for _, g := range from.Groups() {
		if r.oldIsCluster(g) {
			continue
		}
		for _, item := range g.Items {
			if _, ok := handled[item]; ok {
				continue
			}
			next, ok := to.GroupOf(item)
			if ok && r.isCluster(next) {
				plan.Exiting = append(plan.Exiting, ElementTransition[G, I, P]{
					Element: ItemElement[G](item),
					From:    r.itemPosition(item),
					To:      r.groupPosition(next),
				})
			}
		}
	}

	return plan
}

func (r *MembershipResolver[G, I, P]) newCluster(g Group[G, I], from *GroupedSnapshot[G, I], plan *Plan[G, I, P]) {
	el := ClusterElement(g.Key, g.Items)
	target := r.groupPosition(g)

	if src, ok := overlapping(g, from); ok {
		if pos := r.groupPosition(src); pos != target {
			plan.Entering = append(plan.Entering, ElementTransition[G, I, P]{Element: el, From: pos, To: target})
			return
		}
	}
	plan.Stable = append(plan.Stable, ElementTransition[G, I, P]{Element: el, From: target, To: target})
}

func (r *MembershipResolver[G, I, P]) newItem(item I, from *GroupedSnapshot[G, I], plan *Plan[G, I, P]) {
	el := ItemElement[G](item)
	target := r.itemPosition(item)

	if old, ok := from.GroupOf(item); ok && r.oldIsCluster(old) {
		plan.Entering = append(plan.Entering, ElementTransition[G, I, P]{
			Element: el,
			From:    r.groupPosition(old),
			To:      target,
		})
		return
	}
	plan.Stable = append(plan.Stable, ElementTransition[G, I, P]{Element: el, From: target, To: target})
}

// overlapping returns the old group of the first item of g that has one.
// It does not look for the best overlap.
func overlapping[G, I comparable](g Group[G, I], snap *GroupedSnapshot[G, I]) (Group[G, I], bool) {
	for _, item := range g.Items {
		if old, ok := snap.GroupOf(item); ok {
			return old, true
		}
	}
	return Group[G, I]{}, false
}

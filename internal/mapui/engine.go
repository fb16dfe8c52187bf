package mapui

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wesen/clustermap/internal/clusterpolicy"
	"github.com/wesen/clustermap/internal/logging"
	"github.com/wesen/clustermap/pkg/clustering"
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/playback"
	"github.com/wesen/clustermap/pkg/transition"
)

const maxEvents = 8

// engine is the state shared by every copy of the Model: the clustering
// manager, the transition session and the player drawing into the scene.
// It is only touched from Update, except Manager.Clusters which runs in
// commands.
type engine struct {
	ctx     context.Context
	manager *clustering.Manager[marker]
	session *transition.Session[groupKey, marker, geo.LatLng]
	player  *playback.Player[groupKey, marker, geo.LatLng]
	scene   *scene
	policy  *clusterpolicy.Policy
	log     *logrus.Entry
	now     func() time.Time

	// zoom of the grouping on screen and of the one before it
	zoom, prevZoom float64

	clusters map[groupKey]*clustering.Cluster[marker]
	lastPlan [3]int // entering, exiting, stable
	events   []string
}

func newEngine(opts Options) (*engine, error) {
	policy, err := clusterpolicy.Compile(opts.Policy, opts.MinClusterSize)
	if err != nil {
		return nil, err
	}

	log := opts.Log
	if log == nil {
		log = logging.For("mapui")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var mopts []clustering.ManagerOption
	mopts = append(mopts, clustering.WithMinClusterSize(opts.MinClusterSize), clustering.WithLogger(log))
	popts := []playback.Option{playback.WithEnterSpec(opts.EnterSpec), playback.WithExitSpec(opts.ExitSpec)}
	if opts.Observer != nil {
		mopts = append(mopts, clustering.WithObserver(opts.Observer))
		popts = append(popts, playback.WithObserver(opts.Observer))
	}

	e := &engine{
		ctx:      ctx,
		manager:  clustering.NewManager[marker](nil, mopts...),
		scene:    newScene(),
		policy:   policy,
		log:      log,
		now:      time.Now,
		clusters: make(map[groupKey]*clustering.Cluster[marker]),
	}
	e.session = transition.NewSession[groupKey, marker, geo.LatLng](
		clustering.NewResolverWithPrevious[marker](e.isCluster, e.wasCluster),
	)
	e.player = playback.NewPlayer[groupKey, marker, geo.LatLng](e.scene, geo.Lerp, popts...)
	e.manager.SetItems(opts.Markers)
	e.listen()
	return e, nil
}

// isCluster is the resolver's cluster test for the new grouping. It
// always reads the current policy, so a policy edit applies to the next
// resolve.
func (e *engine) isCluster(size int) bool {
	return e.policy.IsClusterAt(size, e.zoom)
}

// wasCluster judges the previous grouping at the zoom it was made for, so
// crossing a zoom threshold in the policy animates like a split or merge.
func (e *engine) wasCluster(size int) bool {
	return e.policy.IsClusterAt(size, e.prevZoom)
}

func (e *engine) setPolicy(p *clusterpolicy.Policy) {
	e.policy = p
	e.manager.SetMinClusterSize(p.MinClusterSize())
	e.log.WithField("policy", p.Source()).Info("policy changed")
}

// apply turns a clustering pass into a transition and starts playing it.
func (e *engine) apply(clusters []*clustering.Cluster[marker], zoom float64) transition.Plan[groupKey, marker, geo.LatLng] {
	e.prevZoom, e.zoom = e.zoom, zoom
	e.policy.SetZoom(zoom)
	clear(e.clusters)
	for _, c := range clusters {
		e.clusters[c.Key()] = c
	}

	plan := e.session.Resolve(clustering.Snapshot(clusters))
	e.scene.beginPlan()
	e.player.Apply(plan, e.now())
	e.lastPlan = [3]int{len(plan.Entering), len(plan.Exiting), len(plan.Stable)}

	e.log.WithFields(logrus.Fields{
		"zoom":     zoom,
		"groups":   len(clusters),
		"entering": len(plan.Entering),
		"exiting":  len(plan.Exiting),
		"stable":   len(plan.Stable),
	}).Debug("transition")
	return plan
}

// advance steps playback to now. Returns true while anything moves.
func (e *engine) advance(now time.Time) bool {
	if e.player.Advance(now) {
		return true
	}
	e.scene.settle()
	return false
}

// setItems replaces the items and forgets the previous grouping, so the
// new set appears without transitions from unrelated markers.
func (e *engine) setItems(items []marker) {
	e.manager.SetItems(items)
	e.player.Clear()
	e.session.Reset()
	clear(e.clusters)
}

func (e *engine) cluster(key groupKey) (*clustering.Cluster[marker], bool) {
	c, ok := e.clusters[key]
	return c, ok
}

// ── Listeners ──

func (e *engine) listen() {
	e.manager.OnClusterClick(func(c *clustering.Cluster[marker]) bool {
		e.event(fmt.Sprintf("cluster %d items @ %s", c.Size(), c.Position()))
		return false
	})
	e.manager.OnItemClick(func(m marker) bool {
		e.event("item " + m.Title())
		return false
	})
	e.manager.OnInfoWindowClick(func(m marker) {
		e.event("info " + m.Title() + ": " + m.Snippet())
	})
	e.manager.OnInfoWindowLongClick(func(m marker) {
		e.event("info (long) " + m.Title())
	})
}

func (e *engine) event(s string) {
	e.log.WithField("event", s).Info("click")
	e.events = append(e.events, s)
	if len(e.events) > maxEvents {
		e.events = e.events[len(e.events)-maxEvents:]
	}
}

package clustering

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultMinClusterSize is the smallest group drawn as a cluster.
const DefaultMinClusterSize = 4

// Observer is told about every clustering pass that actually ran.
type Observer interface {
	ObserveClustering(items, clusters int, elapsed time.Duration)
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	minClusterSize int
	log            *logrus.Entry
	observer       Observer
}

// WithMinClusterSize sets the cluster threshold.
func WithMinClusterSize(n int) ManagerOption {
	return func(o *managerOptions) { o.minClusterSize = n }
}

// WithLogger sets the logger. The default discards.
func WithLogger(log *logrus.Entry) ManagerOption {
	return func(o *managerOptions) { o.log = log }
}

// WithObserver registers a pass observer.
func WithObserver(obs Observer) ManagerOption {
	return func(o *managerOptions) { o.observer = obs }
}

// Manager owns an Algorithm and makes it safe to use from several
// goroutines. Identical concurrent Clusters calls (same item set, same
// floored zoom) share one pass.
type Manager[T ClusterItem] struct {
	mu             sync.Mutex
	algorithm      Algorithm[T]
	generation     uint64
	minClusterSize int

	flight   singleflight.Group
	log      *logrus.Entry
	observer Observer

	lmu                 sync.RWMutex
	onClusterClick      func(*Cluster[T]) bool
	onItemClick         func(T) bool
	onInfoWindowClick   func(T)
	onInfoWindowLongClk func(T)
}

// NewManager creates a manager around algo, or around a
// NonHierarchicalDistanceBased algorithm if algo is nil.
func NewManager[T ClusterItem](algo Algorithm[T], opts ...ManagerOption) *Manager[T] {
	o := managerOptions{minClusterSize: DefaultMinClusterSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.log = logrus.NewEntry(l)
	}
	if algo == nil {
		algo = NewNonHierarchicalDistanceBased[T]()
	}
	return &Manager[T]{
		algorithm:      algo,
		minClusterSize: o.minClusterSize,
		log:            o.log,
		observer:       o.observer,
	}
}

// ── Items ──

// SetItems replaces the item set.
func (m *Manager[T]) SetItems(items []T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.algorithm.ClearItems()
	m.algorithm.AddItems(items...)
	m.generation++
	m.log.WithField("items", len(items)).Debug("items replaced")
}

// AddItems adds items to the set.
func (m *Manager[T]) AddItems(items ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.algorithm.AddItems(items...)
	m.generation++
}

// ClearItems empties the set.
func (m *Manager[T]) ClearItems() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.algorithm.ClearItems()
	m.generation++
}

// Items returns the current items in insertion order.
func (m *Manager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.algorithm.Items()
}

// Generation changes every time the item set is modified.
func (m *Manager[T]) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// ── Clustering ──

// Clusters runs a clustering pass at zoom. The returned clusters may be
// shared with other callers and must not be modified.
func (m *Manager[T]) Clusters(ctx context.Context, zoom float64) ([]*Cluster[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	key := fmt.Sprintf("%d/%v", m.generation, math.Floor(zoom))
	m.mu.Unlock()

	ch := m.flight.DoChan(key, func() (any, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		start := time.Now()
		clusters := m.algorithm.Clusters(zoom)
		elapsed := time.Since(start)

		n := len(m.algorithm.Items())
		m.log.WithFields(logrus.Fields{
			"zoom":     zoom,
			"items":    n,
			"clusters": len(clusters),
			"elapsed":  elapsed,
		}).Debug("clustered")
		if m.observer != nil {
			m.observer.ObserveClustering(n, len(clusters), elapsed)
		}
		return clusters, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*Cluster[T]), nil
	}
}

// MinClusterSize returns the cluster threshold.
func (m *Manager[T]) MinClusterSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.minClusterSize
}

// SetMinClusterSize changes the cluster threshold.
func (m *Manager[T]) SetMinClusterSize(n int) {
	m.mu.Lock()
	m.minClusterSize = n
	m.mu.Unlock()
}

// IsCluster reports whether a group of size items is drawn as a cluster.
func (m *Manager[T]) IsCluster(size int) bool {
	return size >= m.MinClusterSize()
}

// ── Listeners ──

// OnClusterClick sets the cluster click listener. It returns true when it
// consumed the click.
func (m *Manager[T]) OnClusterClick(fn func(*Cluster[T]) bool) {
	m.lmu.Lock()
	m.onClusterClick = fn
	m.lmu.Unlock()
}

// OnItemClick sets the item click listener.
func (m *Manager[T]) OnItemClick(fn func(T) bool) {
	m.lmu.Lock()
	m.onItemClick = fn
	m.lmu.Unlock()
}

// OnInfoWindowClick sets the info window click listener.
func (m *Manager[T]) OnInfoWindowClick(fn func(T)) {
	m.lmu.Lock()
	m.onInfoWindowClick = fn
	m.lmu.Unlock()
}

// OnInfoWindowLongClick sets the info window long click listener.
func (m *Manager[T]) OnInfoWindowLongClick(fn func(T)) {
	m.lmu.Lock()
	m.onInfoWindowLongClk = fn
	m.lmu.Unlock()
}

// ClickCluster dispatches a cluster click. Returns whether a listener
// consumed it.
func (m *Manager[T]) ClickCluster(c *Cluster[T]) bool {
	m.lmu.RLock()
	fn := m.onClusterClick
	m.lmu.RUnlock()
	return fn != nil && fn(c)
}

// ClickItem dispatches an item click.
func (m *Manager[T]) ClickItem(item T) bool {
	m.lmu.RLock()
	fn := m.onItemClick
	m.lmu.RUnlock()
	return fn != nil && fn(item)
}

// InfoWindowClick dispatches an info window click.
func (m *Manager[T]) InfoWindowClick(item T) {
	m.lmu.RLock()
	fn := m.onInfoWindowClick
	m.lmu.RUnlock()
	if fn != nil {
		fn(item)
	}
}

// InfoWindowLongClick dispatches an info window long click.
func (m *Manager[T]) InfoWindowLongClick(item T) {
	m.lmu.RLock()
	fn := m.onInfoWindowLongClk
	m.lmu.RUnlock()
	if fn != nil {
		fn(item)
	}
}

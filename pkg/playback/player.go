package playback

import (
	"time"

	"github.com/wesen/clustermap/pkg/transition"
)

// Sink draws elements. Render is called repeatedly for the same element
// as it moves; Remove is called once when it leaves the screen.
type Sink[G, I comparable, P any] interface {
	Render(el transition.VisualElement[G, I], pos P)
	Remove(id transition.ElementID[G, I])
}

// Interpolator blends two positions; fraction 0 is from, 1 is to.
type Interpolator[P any] func(from, to P, fraction float64) P

// Observer receives playback counts.
type Observer interface {
	ObservePlan(entering, exiting, stable int)
	ObserveAnimating(n int)
}

// Option configures a Player.
type Option func(*options)

type options struct {
	enter, exit Spec
	observer    Observer
}

// WithEnterSpec sets the animation for entering elements.
func WithEnterSpec(s Spec) Option { return func(o *options) { o.enter = s } }

// WithExitSpec sets the animation for exiting elements.
func WithExitSpec(s Spec) Option { return func(o *options) { o.exit = s } }

// WithObserver registers a playback observer.
func WithObserver(obs Observer) Option { return func(o *options) { o.observer = obs } }

type track[G, I comparable, P any] struct {
	el        transition.VisualElement[G, I]
	from, to  P
	pos       P
	start     time.Time
	spec      Spec
	animating bool
	exiting   bool
}

// Player keeps the rendered set in step with the latest plan. Time is
// passed in explicitly so callers drive it from their own frame clock.
// A Player is not safe for concurrent use.
type Player[G, I comparable, P any] struct {
	sink     Sink[G, I, P]
	lerp     Interpolator[P]
	opts     options
	rendered map[transition.ElementID[G, I]]*track[G, I, P]
	order    []transition.ElementID[G, I]
}

// NewPlayer creates a player drawing into sink.
func NewPlayer[G, I comparable, P any](sink Sink[G, I, P], lerp Interpolator[P], opts ...Option) *Player[G, I, P] {
	o := options{enter: DefaultSpec, exit: DefaultSpec}
	for _, opt := range opts {
		opt(&o)
	}
	return &Player[G, I, P]{
		sink:     sink,
		lerp:     lerp,
		opts:     o,
		rendered: make(map[transition.ElementID[G, I]]*track[G, I, P]),
	}
}

// Apply switches to plan. In-flight animations stop where they are, then
// anything rendered that plan does not mention is removed. Stable elements
// are drawn at their target; entering and exiting elements are drawn at
// their source and start moving.
func (p *Player[G, I, P]) Apply(plan transition.Plan[G, I, P], now time.Time) {
	for _, id := range p.order {
		p.Cancel(id)
	}

	next := make(map[transition.ElementID[G, I]]struct{}, plan.Len())
	for _, list := range [][]transition.ElementTransition[G, I, P]{plan.Stable, plan.Entering, plan.Exiting} {
		for _, tr := range list {
			next[tr.Element.ID()] = struct{}{}
		}
	}
	for _, id := range p.order {
		if _, ok := next[id]; !ok {
			p.sink.Remove(id)
		}
	}
	p.order = p.order[:0]
	clear(p.rendered)

	for _, tr := range plan.Stable {
		p.place(tr, Spec{}, false, false, now)
	}
	for _, tr := range plan.Entering {
		p.place(tr, p.opts.enter, true, false, now)
	}
	for _, tr := range plan.Exiting {
		p.place(tr, p.opts.exit, true, true, now)
	}

	if p.opts.observer != nil {
		p.opts.observer.ObservePlan(len(plan.Entering), len(plan.Exiting), len(plan.Stable))
		p.opts.observer.ObserveAnimating(p.Animating())
	}
}

func (p *Player[G, I, P]) place(tr transition.ElementTransition[G, I, P], spec Spec, animate, exiting bool, now time.Time) {
	id := tr.Element.ID()
	t := &track[G, I, P]{
		el:        tr.Element,
		from:      tr.From,
		to:        tr.To,
		pos:       tr.To,
		start:     now,
		spec:      spec,
		animating: animate,
		exiting:   exiting,
	}
	if animate {
		t.pos = tr.From
	}
	if _, ok := p.rendered[id]; !ok {
		p.order = append(p.order, id)
	}
	p.rendered[id] = t
	p.sink.Render(t.el, t.pos)
}

// Advance moves every animation to its state at now. Finished exiting
// elements are removed. Returns true while anything is still animating.
func (p *Player[G, I, P]) Advance(now time.Time) bool {
	active := 0
	kept := p.order[:0]
	for _, id := range p.order {
		t := p.rendered[id]
		if t.animating {
			f, done := t.spec.progress(now.Sub(t.start))
			if done {
				t.pos = t.to
				t.animating = false
			} else {
				t.pos = p.lerp(t.from, t.to, f)
				active++
			}
			if done && t.exiting {
				p.sink.Remove(id)
				delete(p.rendered, id)
				continue
			}
			p.sink.Render(t.el, t.pos)
		}
		kept = append(kept, id)
	}
	p.order = kept

	if p.opts.observer != nil {
		p.opts.observer.ObserveAnimating(active)
	}
	return active > 0
}

// Cancel stops the animation of id, leaving it drawn where it currently
// is. It stays rendered until the next Apply decides its fate.
func (p *Player[G, I, P]) Cancel(id transition.ElementID[G, I]) {
	t, ok := p.rendered[id]
	if !ok || !t.animating {
		return
	}
	t.animating = false
	t.from, t.to = t.pos, t.pos
}

// Animating is the number of elements still in motion.
func (p *Player[G, I, P]) Animating() int {
	n := 0
	for _, t := range p.rendered {
		if t.animating {
			n++
		}
	}
	return n
}

// Position returns where id is currently drawn.
func (p *Player[G, I, P]) Position(id transition.ElementID[G, I]) (P, bool) {
	t, ok := p.rendered[id]
	if !ok {
		var zero P
		return zero, false
	}
	return t.pos, true
}

// Len is the number of rendered elements.
func (p *Player[G, I, P]) Len() int {
	return len(p.rendered)
}

// Clear removes everything from the sink.
func (p *Player[G, I, P]) Clear() {
	for _, id := range p.order {
		p.sink.Remove(id)
	}
	clear(p.rendered)
	p.order = p.order[:0]
}

// Package mapui is the interactive terminal map: it clusters markers for
// the current camera, animates between groupings and dispatches clicks to
// the cluster manager's listeners.
package mapui

import (
	"context"
	"math"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/wesen/clustermap/pkg/clustering"
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/playback"
)

// Observer receives both clustering and playback counts, e.g. metrics.
type Observer interface {
	clustering.Observer
	playback.Observer
}

// Options configures a Model. Zero values fall back to the package
// defaults of the underlying libraries.
type Options struct {
	Markers        []*clustering.Marker
	Camera         geo.CameraPosition
	IdleDelay      time.Duration
	MinClusterSize int
	Policy         string
	EnterSpec      playback.Spec
	ExitSpec       playback.Spec
	Overlay        *geo.GroundOverlayPosition
	// Regenerate supplies a fresh item set for the r key. Nil disables it.
	Regenerate func() []*clustering.Marker
	Observer   Observer
	Log        *logrus.Entry
	Context    context.Context
}

// Model is the viewer state. Engine state lives behind a pointer, so
// copies of Model made by bubbletea share it.
type Model struct {
	Width, Height  int
	MouseX, MouseY int
	Camera         geo.CameraPosition

	idleDelay time.Duration
	moveSeq   int  // bumped on every camera change
	moving    bool // camera changed and not idle yet
	reqSeq    int  // id of the newest clustering request
	pending   bool // a clustering request is in flight
	ticking   bool // frame ticks are scheduled

	// floored zoom of the newest clustering request; NaN after a failure
	clusterZoom float64

	eng        *engine
	overlay    *geo.GroundOverlayPosition
	regenerate func() []*clustering.Marker

	Selected *elementID
	Status   string

	// Policy editor modal
	EditOpen bool
	Editor   textinput.Model
	EditErr  string
}

// NewModel builds a viewer over opts.Markers.
func NewModel(opts Options) (Model, error) {
	if opts.MinClusterSize <= 0 {
		opts.MinClusterSize = clustering.DefaultMinClusterSize
	}
	if opts.EnterSpec.Easing == nil {
		opts.EnterSpec = playback.DefaultSpec
	}
	if opts.ExitSpec.Easing == nil {
		opts.ExitSpec = playback.DefaultSpec
	}
	if opts.Camera == (geo.CameraPosition{}) {
		opts.Camera = geo.CameraFromLatLngZoom(clustering.DemoCenter, geo.DefaultZoom)
	}

	eng, err := newEngine(opts)
	if err != nil {
		return Model{}, err
	}
	return Model{
		Camera:     opts.Camera,
		idleDelay:  opts.IdleDelay,
		eng:        eng,
		overlay:    opts.Overlay,
		regenerate: opts.Regenerate,
		pending:    true,
		// Init clusters for the starting camera.
		clusterZoom: math.Floor(opts.Camera.Zoom),
	}, nil
}

// Init implements tea.Model: cluster for the starting camera.
func (m Model) Init() tea.Cmd {
	return m.clusterCmd()
}

// Animating reports whether playback is in progress.
func (m Model) Animating() bool { return m.ticking }

// Pending reports whether a clustering request is in flight.
func (m Model) Pending() bool { return m.pending }

// Rendered is the number of elements on the map.
func (m Model) Rendered() int { return m.eng.scene.Len() }

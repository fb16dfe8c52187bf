package mapui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/clustermap/pkg/clustering"
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/playback"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// testMarkers is a tight row of ten markers on the equator plus two far
// away. At zoom 5 the row is one cluster; at zoom 20 every marker stands
// alone.
func testMarkers() []*clustering.Marker {
	var ms []*clustering.Marker
	for i := range 10 {
		ms = append(ms, clustering.NewMarker(fmt.Sprintf("m%d", i),
			geo.NewLatLng(0, float64(i)*1e-4), fmt.Sprintf("Marker %d", i), fmt.Sprintf("Snippet %d", i)))
	}
	ms = append(ms,
		clustering.NewMarker("north", geo.NewLatLng(10, 10), "North", ""),
		clustering.NewMarker("south", geo.NewLatLng(-10, -10), "South", ""),
	)
	return ms
}

type countingObserver struct {
	passes, plans int
}

func (o *countingObserver) ObserveClustering(items, clusters int, elapsed time.Duration) { o.passes++ }
func (o *countingObserver) ObservePlan(entering, exiting, stable int)                    { o.plans++ }
func (o *countingObserver) ObserveAnimating(n int)                                       {}

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Markers == nil {
		opts.Markers = testMarkers()
	}
	if opts.Camera == (geo.CameraPosition{}) {
		opts.Camera = geo.CameraFromLatLngZoom(geo.NewLatLng(0, 0), 5)
	}
	spec, _ := playback.NewSpec(100*time.Millisecond, playback.Linear)
	opts.EnterSpec, opts.ExitSpec = spec, spec

	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	m.eng.now = func() time.Time { return t0 }
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = run(t, m, m.Init())
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return update(m, cmd())
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	r := []rune(s)
	return tea.KeyPressMsg{Code: r[0], Text: s}
}

// settle finishes all running animations.
func settle(m Model) Model {
	m, _ = update(m, frameMsg(t0.Add(time.Hour)))
	return m
}

// layerFor finds where the element is drawn on screen.
func layerFor(t *testing.T, m Model, match func(elementID) bool) (x, y int) {
	t.Helper()
	layers, ids := m.markerLayers(splitScreen(m.Width, m.Height).Map)
	for _, l := range layers {
		if id, ok := ids[l.GetID()]; ok && match(id) {
			return l.GetX(), l.GetY()
		}
	}
	t.Fatal("element not drawn")
	return 0, 0
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ── Layout ──

func TestSplitScreen(t *testing.T) {
	s := splitScreen(120, 40)
	if s.Toolbar.Dy() != 1 || s.Footer.Min.Y != 39 {
		t.Errorf("chrome: unexpected toolbar %v footer %v", s.Toolbar, s.Footer)
	}
	if s.Panel.Dx() != panelWidth || s.Panel.Max.X != 120 {
		t.Errorf("panel: expected %d wide at the right, got %v", panelWidth, s.Panel)
	}
	if s.Map.Max.X != 120-panelWidth-1 || s.Map.Min.Y != 1 || s.Map.Max.Y != 39 {
		t.Errorf("map: got %v", s.Map)
	}

	narrow := splitScreen(50, 10)
	if !narrow.Panel.Empty() || narrow.Map.Dx() != 50 {
		t.Errorf("narrow: expected no panel and full-width map, got panel %v map %v", narrow.Panel, narrow.Map)
	}
	if z := splitScreen(0, 0); !z.Map.Empty() {
		t.Errorf("zero size: expected empty map, got %v", z.Map)
	}
}

// ── Scene ──

func TestSceneOriginAndSettle(t *testing.T) {
	s := newScene()
	a := clustering.NewMarker("a", geo.NewLatLng(0, 0), "A", "")
	el := element{Kind: itemKind, Item: a}

	s.Render(el, geo.NewLatLng(1, 1))
	s.Render(el, geo.NewLatLng(2, 2))
	e, _ := s.get(el.ID())
	if e.origin != geo.NewLatLng(1, 1) || !e.moving() {
		t.Errorf("origin: expected first position and moving, got %v", e.origin)
	}

	s.beginPlan()
	s.Render(el, geo.NewLatLng(3, 3))
	if e.origin != geo.NewLatLng(3, 3) {
		t.Errorf("new plan: expected origin reset, got %v", e.origin)
	}

	s.Render(el, geo.NewLatLng(4, 4))
	s.settle()
	if e.moving() {
		t.Error("settle: expected no trail")
	}

	b := element{Kind: itemKind, Item: clustering.NewMarker("b", geo.NewLatLng(0, 0), "B", "")}
	s.Render(b, geo.NewLatLng(0, 0))
	s.Remove(el.ID())
	s.Remove(el.ID())
	if s.Len() != 1 || len(s.order) != 1 || s.order[0] != b.ID() {
		t.Errorf("Remove: expected only b left, got %v", s.order)
	}
}

// ── Clustering flow ──

func TestInitialClustering(t *testing.T) {
	obs := &countingObserver{}
	m := newTestModel(t, Options{Observer: obs})

	if m.Pending() {
		t.Error("expected the first pass to have landed")
	}
	if m.Rendered() != 3 {
		t.Errorf("expected one cluster and two items, got %d elements", m.Rendered())
	}
	if n := m.eng.scene.itemCount(); n != 12 {
		t.Errorf("drawn elements should stand for 12 items, got %d", n)
	}
	if m.Animating() {
		t.Error("first grouping should appear without animation")
	}
	if obs.passes != 1 || obs.plans != 1 {
		t.Errorf("observer: expected 1 pass and 1 plan, got %d and %d", obs.passes, obs.plans)
	}
}

func TestZoomInSplitsClusterWithAnimation(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Camera.Zoom = 20

	m, cmd := m.requestClusters()
	m, cmd = run(t, m, cmd)
	if want := [3]int{10, 0, 2}; m.eng.lastPlan != want {
		t.Errorf("plan: expected %v, got %v", want, m.eng.lastPlan)
	}
	if !m.Animating() || cmd == nil {
		t.Fatal("expected frame ticks while items fly out of the cluster")
	}

	// Items start at the cluster's position.
	fifth := m.eng.manager.Items()[5]
	id := elementID{Kind: itemKind, Item: fifth}
	e, ok := m.eng.scene.get(id)
	if !ok || e.pos != geo.NewLatLng(0, 0) {
		t.Errorf("entering item: expected to start at cluster position, got %+v", e)
	}

	m, cmd = update(m, frameMsg(t0.Add(50*time.Millisecond)))
	if cmd == nil || !m.Animating() {
		t.Error("halfway: expected more frames")
	}
	if !e.moving() {
		t.Error("halfway: expected a trail")
	}

	m, cmd = update(m, frameMsg(t0.Add(time.Second)))
	if cmd != nil || m.Animating() {
		t.Error("done: expected ticks to stop")
	}
	if m.Rendered() != 12 {
		t.Errorf("done: expected 12 items, got %d", m.Rendered())
	}
	if e.pos != fifth.Position() || e.moving() {
		t.Errorf("done: expected item at its own position, got %v", e.pos)
	}
}

func TestCameraIdleDebounce(t *testing.T) {
	m := newTestModel(t, Options{})

	m, first := update(m, key("+"))
	m, second := update(m, key("+"))
	if m.Camera.Zoom != 7 {
		t.Errorf("zoom: expected 7, got %v", m.Camera.Zoom)
	}

	m, cmd := run(t, m, first)
	if cmd != nil || m.Pending() {
		t.Error("stale idle message should not recluster")
	}
	m, cmd = run(t, m, second)
	if cmd == nil || !m.Pending() {
		t.Fatal("latest idle message should start clustering")
	}
	m, _ = run(t, m, cmd)
	if m.Pending() {
		t.Error("clustering should have landed")
	}
}

func TestZoomIsClamped(t *testing.T) {
	m := newTestModel(t, Options{Camera: geo.CameraFromLatLngZoom(geo.NewLatLng(0, 0), 0.5)})
	m, _ = update(m, key("-"))
	if m.Camera.Zoom != minZoom {
		t.Errorf("zoom out: expected %v, got %v", minZoom, m.Camera.Zoom)
	}
	m, _ = update(m, key("]"))
	if m.Camera.Zoom != 0.25 {
		t.Errorf("fine zoom: expected 0.25, got %v", m.Camera.Zoom)
	}
}

func TestPanMovesCamera(t *testing.T) {
	m := newTestModel(t, Options{})
	m, cmd := update(m, key("right"))
	if m.Camera.Target.Longitude <= 0 || cmd == nil {
		t.Errorf("pan right: expected east of 0 and an idle timer, got %v", m.Camera.Target)
	}
}

func TestIdleReclustersOnlyOnNewZoomLevel(t *testing.T) {
	obs := &countingObserver{}
	m := newTestModel(t, Options{Observer: obs})

	m, cmd := update(m, key("right"))
	m, cmd = run(t, m, cmd)
	if cmd != nil || m.Pending() {
		t.Error("pan: expected the grouping to be kept")
	}
	m, cmd = update(m, key("]"))
	m, cmd = run(t, m, cmd)
	if cmd != nil || m.Pending() {
		t.Errorf("fine zoom to %v: expected the grouping to be kept", m.Camera.Zoom)
	}
	if obs.passes != 1 {
		t.Errorf("passes: expected 1, got %d", obs.passes)
	}

	m, cmd = update(m, key("+"))
	m, cmd = run(t, m, cmd)
	if cmd == nil || !m.Pending() {
		t.Fatal("new zoom level: expected a clustering pass")
	}
	m, _ = run(t, m, cmd)
	if obs.passes != 2 {
		t.Errorf("passes: expected 2, got %d", obs.passes)
	}
}

func TestIdleRetriesAfterFailedClustering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := newTestModel(t, Options{Context: ctx})
	cancel()

	m, cmd := update(m, key("+"))
	m, cmd = run(t, m, cmd)
	m, _ = run(t, m, cmd)
	if !strings.HasPrefix(m.Status, "clustering failed") {
		t.Fatalf("status: expected a failure, got %q", m.Status)
	}

	m, cmd = update(m, key("right"))
	m, cmd = run(t, m, cmd)
	if cmd == nil || !m.Pending() {
		t.Error("after a failure the next idle camera should cluster again")
	}
}

func TestZoomDependentPolicyJudgesEachGroupingAtItsZoom(t *testing.T) {
	m := newTestModel(t, Options{Policy: "size >= minClusterSize && zoom < 6"})
	if m.Rendered() != 3 {
		t.Fatalf("zoom 5: expected one cluster and two items, got %d elements", m.Rendered())
	}

	m.Camera.Zoom = 6
	m, cmd := m.requestClusters()
	m, cmd = run(t, m, cmd)
	if want := [3]int{10, 0, 2}; m.eng.lastPlan != want {
		t.Errorf("plan: expected %v, got %v", want, m.eng.lastPlan)
	}
	if !m.Animating() || cmd == nil {
		t.Error("expected the cluster to split with animation")
	}
	m = settle(m)
	if m.Rendered() != 12 {
		t.Errorf("zoom 6: expected 12 items, got %d", m.Rendered())
	}
}

func TestStaleClusteringIgnored(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Camera.Zoom = 20
	m, old := m.requestClusters()
	m, latest := m.requestClusters()

	m, _ = run(t, m, old)
	if !m.Pending() || m.Rendered() != 3 {
		t.Error("an outdated result must not be applied")
	}
	m, _ = run(t, m, latest)
	if m.Pending() {
		t.Error("latest result should be applied")
	}
}

// ── Clicks ──

func TestClickClusterZoomsIn(t *testing.T) {
	m := newTestModel(t, Options{})
	x, y := layerFor(t, m, func(id elementID) bool { return id.Kind == clusterKind })

	m, cmd := update(m, tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	if m.Selected == nil || m.Selected.Kind != clusterKind {
		t.Fatal("expected the cluster to be selected")
	}
	if len(m.eng.events) != 1 || !strings.HasPrefix(m.eng.events[0], "cluster 10 items") {
		t.Errorf("listener: expected cluster event, got %v", m.eng.events)
	}
	if m.Camera.Zoom != 6 || m.Camera.Target != geo.NewLatLng(0, 0) || cmd == nil {
		t.Errorf("default action: expected zoom 6 on the cluster, got %v", m.Camera)
	}
}

func TestClickConsumedByListener(t *testing.T) {
	m := newTestModel(t, Options{})
	var got int
	m.eng.manager.OnClusterClick(func(c *clustering.Cluster[marker]) bool {
		got = c.Size()
		return true
	})
	x, y := layerFor(t, m, func(id elementID) bool { return id.Kind == clusterKind })

	m, cmd := update(m, tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	if got != 10 || cmd != nil || m.Camera.Zoom != 5 {
		t.Errorf("consumed click: expected listener only, got size %d zoom %v", got, m.Camera.Zoom)
	}
}

func TestClickItemTwiceOpensInfoWindow(t *testing.T) {
	m := newTestModel(t, Options{Camera: geo.CameraFromLatLngZoom(geo.NewLatLng(0, 0), 20)})
	m = settle(m)
	target := m.eng.manager.Items()[0]
	x, y := layerFor(t, m, func(id elementID) bool { return id.Kind == itemKind && id.Item == target })

	click := tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}
	m, _ = update(m, click)
	m, _ = update(m, click)
	if m.Selected == nil || m.Selected.Item != target {
		t.Fatal("expected the item to be selected")
	}
	want := []string{"item Marker 0", "info Marker 0: Snippet 0"}
	if strings.Join(m.eng.events, "|") != strings.Join(want, "|") {
		t.Errorf("events: expected %v, got %v", want, m.eng.events)
	}

	m, _ = update(m, key("i"))
	if last := m.eng.events[len(m.eng.events)-1]; last != "info (long) Marker 0" {
		t.Errorf("long click: got %q", last)
	}

	m, _ = update(m, tea.MouseClickMsg{X: 0, Y: 1, Button: tea.MouseLeft})
	if m.Selected != nil {
		t.Error("click on empty map should clear the selection")
	}
}

// ── Policy editor ──

func TestPolicyEditor(t *testing.T) {
	m := newTestModel(t, Options{})

	m, _ = update(m, key("e"))
	if !m.EditOpen || m.Editor.Value() != "size >= minClusterSize" {
		t.Fatalf("editor: expected open on the default policy, got %v %q", m.EditOpen, m.Editor.Value())
	}

	m.Editor.SetValue("size +")
	m, _ = update(m, key("enter"))
	if !m.EditOpen || m.EditErr == "" {
		t.Error("invalid policy: expected editor to stay open with an error")
	}

	m.Editor.SetValue("size >= 100")
	m, cmd := update(m, key("enter"))
	if m.EditOpen || m.eng.policy.Source() != "size >= 100" {
		t.Fatalf("valid policy: expected it applied, got %q", m.eng.policy.Source())
	}
	m, _ = run(t, m, cmd)
	if m.Rendered() != 12 {
		t.Errorf("no group reaches 100, expected 12 items drawn, got %d", m.Rendered())
	}

	m, _ = update(m, key("e"))
	m, _ = update(m, key("esc"))
	if m.EditOpen {
		t.Error("escape should close the editor")
	}
}

// ── Items ──

func TestRegenerate(t *testing.T) {
	m := newTestModel(t, Options{Regenerate: func() []*clustering.Marker {
		return []*clustering.Marker{
			clustering.NewMarker("x", geo.NewLatLng(20, 20), "X", ""),
			clustering.NewMarker("y", geo.NewLatLng(-20, -20), "Y", ""),
		}
	}})
	m, cmd := update(m, key("r"))
	if m.Rendered() != 0 {
		t.Errorf("regenerate: expected old markers cleared, got %d", m.Rendered())
	}
	m, _ = run(t, m, cmd)
	if m.Rendered() != 2 || m.Animating() {
		t.Errorf("regenerate: expected 2 markers without animation, got %d", m.Rendered())
	}

	plain := newTestModel(t, Options{})
	plain, cmd = update(plain, key("r"))
	if cmd != nil || plain.Status == "" {
		t.Error("without a generator r should only report")
	}
}

// ── View ──

func TestRender(t *testing.T) {
	m := newTestModel(t, Options{})
	out := stripANSI(m.render())
	for _, want := range []string{"clustermap", "CAMERA", "CLUSTERS", "10+", "●"} {
		if !strings.Contains(out, want) {
			t.Errorf("render: expected %q on screen", want)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) != 40 {
		t.Errorf("render: expected 40 rows, got %d", len(lines))
	}

	m, _ = update(m, key("e"))
	if !strings.Contains(stripANSI(m.render()), "CLUSTER POLICY") {
		t.Error("render: expected the policy editor")
	}

	var empty Model
	if empty.render() != "" {
		t.Error("render before the first resize should be empty")
	}
}

func TestOverlayDrawn(t *testing.T) {
	b := geo.LatLngBounds{Southwest: geo.NewLatLng(-2, -2), Northeast: geo.NewLatLng(2, 2)}
	pos, err := geo.OverlayFromBounds(b)
	if err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, Options{Overlay: &pos})
	if !strings.Contains(stripANSI(m.render()), "┌") {
		t.Error("expected the overlay outline on the map")
	}
}

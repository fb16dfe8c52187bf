// clusterdemo clusters a marker set once and prints the map to stdout, so
// groupings and transitions can be checked without the interactive viewer.
// It can also export the clusters and the generated items as GeoJSON.
//
// Run: go run ./cmd/clusterdemo --zoom 8 --zoom-to 10 --out clusters.geojson
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/wesen/clustermap/internal/clusterpolicy"
	"github.com/wesen/clustermap/internal/config"
	"github.com/wesen/clustermap/internal/logging"
	"github.com/wesen/clustermap/pkg/clustering"
	"github.com/wesen/clustermap/pkg/clusterstyle"
	"github.com/wesen/clustermap/pkg/drawutil"
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/geojsonio"
	"github.com/wesen/clustermap/pkg/mapcanvas"
	"github.com/wesen/clustermap/pkg/transition"
)

type (
	marker   = *clustering.Marker
	groupKey = clustering.ClusterKey[marker]
	plan     = transition.Plan[groupKey, marker, geo.LatLng]
)

// Style keys. Badge keys are badgeBase+bucket.
const (
	keyBG mapcanvas.StyleKey = iota
	keyGrid
	keyTrail
	keyOverlay
	keyItem
	badgeBase mapcanvas.StyleKey = 100
)

const noZoom = -1

var baseStyles = map[mapcanvas.StyleKey]lipgloss.Style{
	keyBG:      lipgloss.NewStyle().Foreground(lipgloss.Color("#16324a")).Background(lipgloss.Color("#07111a")),
	keyGrid:    lipgloss.NewStyle().Foreground(lipgloss.Color("#16324a")).Background(lipgloss.Color("#07111a")),
	keyTrail:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5fa8d3")).Background(lipgloss.Color("#07111a")),
	keyOverlay: lipgloss.NewStyle().Foreground(lipgloss.Color("#c8a04a")).Background(lipgloss.Color("#07111a")),
	keyItem:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7fd1b9")).Background(lipgloss.Color("#07111a")).Bold(true),
}

type demoOptions struct {
	width, height int
	zoomTo        float64
	out           string
	saveItems     string
	plain         bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := config.Flags("clusterdemo")
	var o demoOptions
	fs.IntVar(&o.width, "width", 80, "map width in cells")
	fs.IntVar(&o.height, "height", 24, "map height in cells")
	fs.Float64Var(&o.zoomTo, "zoom-to", noZoom, "also resolve the transition to this zoom and draw its trails")
	fs.StringVar(&o.out, "out", "", "write the clusters as GeoJSON (.zst compresses)")
	fs.StringVar(&o.saveItems, "save-items", "", "write the markers as GeoJSON (.zst compresses)")
	fs.BoolVar(&o.plain, "plain", false, "print without colour")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.LoadFlags(fs)
	if err != nil {
		return err
	}
	if _, err := logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: stderr,
	}); err != nil {
		return err
	}
	defer logging.Close()

	markers, err := cfg.Markers()
	if err != nil {
		return err
	}
	policy, err := clusterpolicy.Compile(cfg.Clustering.Policy, cfg.Clustering.MinClusterSize)
	if err != nil {
		return err
	}
	overlay, hasOverlay, err := cfg.OverlayPosition()
	if err != nil {
		return err
	}

	d := &demo{
		log:     logging.For("clusterdemo"),
		policy:  policy,
		manager: clustering.NewManager[marker](nil, clustering.WithLogger(logging.For("manager"))),
	}
	d.manager.SetItems(markers)
	if hasOverlay {
		d.overlay = &overlay
	}

	ctx := context.Background()
	camera := cfg.InitialCamera()
	clusters, p, err := d.resolve(ctx, camera.Zoom, o.zoomTo)
	if err != nil {
		return err
	}
	if o.zoomTo != noZoom {
		camera = geo.CameraFromLatLngZoom(camera.Target, o.zoomTo)
	}

	canvas, styles := d.draw(camera, o.width, o.height, p)
	if o.plain {
		fmt.Fprintln(stdout, canvas.Plain())
	} else {
		fmt.Fprintln(stdout, canvas.Render(styles))
	}
	fmt.Fprintf(stderr, "%d items, %d groups at zoom %.2f; entering %d exiting %d stable %d\n",
		len(markers), len(clusters), camera.Zoom, len(p.Entering), len(p.Exiting), len(p.Stable))

	if o.out != "" {
		if err := geojsonio.SaveClusters(o.out, clusters); err != nil {
			return err
		}
		d.log.WithField("path", o.out).Info("wrote clusters")
	}
	if o.saveItems != "" {
		if err := geojsonio.SaveMarkers(o.saveItems, markers); err != nil {
			return err
		}
		d.log.WithField("path", o.saveItems).Info("wrote items")
	}
	return nil
}

type demo struct {
	log     *logrus.Entry
	policy  *clusterpolicy.Policy
	manager *clustering.Manager[marker]
	overlay *geo.GroundOverlayPosition
}

// resolve clusters at zoom and, when zoomTo is set, at zoomTo too. The
// plan leads into the last grouping; with one zoom everything enters in
// place. Each grouping is judged by the policy at its own zoom.
func (d *demo) resolve(ctx context.Context, zoom, zoomTo float64) ([]*clustering.Cluster[marker], plan, error) {
	from, to := zoom, zoom
	resolver := clustering.NewResolverWithPrevious[marker](
		func(n int) bool { return d.policy.IsClusterAt(n, to) },
		func(n int) bool { return d.policy.IsClusterAt(n, from) },
	)
	session := transition.NewSession[groupKey, marker, geo.LatLng](resolver)

	clusters, err := d.manager.Clusters(ctx, zoom)
	if err != nil {
		return nil, plan{}, err
	}
	p := session.Resolve(clustering.Snapshot(clusters))
	if zoomTo == noZoom {
		return clusters, p, nil
	}

	clusters, err = d.manager.Clusters(ctx, zoomTo)
	if err != nil {
		return nil, plan{}, err
	}
	to = zoomTo
	p = session.Resolve(clustering.Snapshot(clusters))
	d.log.WithFields(logrus.Fields{
		"from":     zoom,
		"to":       zoomTo,
		"entering": len(p.Entering),
		"exiting":  len(p.Exiting),
	}).Debug("transition")
	return clusters, p, nil
}

// draw renders the plan's end state. Moving elements leave a trail from
// where they start; exiting elements are shown only by their trail.
func (d *demo) draw(camera geo.CameraPosition, w, h int, p plan) (*mapcanvas.Canvas, map[mapcanvas.StyleKey]lipgloss.Style) {
	v := mapcanvas.NewViewport(camera, w, h)
	buf := mapcanvas.New(w, h, keyBG)
	styles := make(map[mapcanvas.StyleKey]lipgloss.Style, len(baseStyles))
	for k, s := range baseStyles {
		styles[k] = s
	}

	if d.overlay != nil {
		drawutil.DrawBounds(buf, v, d.overlay.Extent(), keyOverlay)
	}
	for _, list := range [][]transition.ElementTransition[groupKey, marker, geo.LatLng]{p.Entering, p.Exiting} {
		for _, t := range list {
			if t.From == t.To {
				continue
			}
			from, okFrom := v.Cell(t.From)
			to, okTo := v.Cell(t.To)
			if !okFrom && !okTo {
				continue
			}
			if max(abs(from.X-to.X), abs(from.Y-to.Y)) > 4*max(w, h) {
				continue
			}
			drawutil.DrawTrail(buf, from, to, keyTrail)
		}
	}
	drawutil.DrawGraticule(buf, v, drawutil.GraticuleStep(v, 10), keyGrid)

	shown := append(append([]transition.ElementTransition[groupKey, marker, geo.LatLng]{}, p.Stable...), p.Entering...)
	// Small elements first so big badges end up on top.
	sort.SliceStable(shown, func(i, j int) bool {
		return shown[i].Element.Size() < shown[j].Element.Size()
	})
	for _, t := range shown {
		pt, ok := v.Cell(t.To)
		if !ok {
			continue
		}
		if !t.Element.IsCluster() {
			buf.Set(pt.X, pt.Y, '●', keyItem)
			continue
		}
		s := clusterstyle.ForSize(t.Element.Size())
		key := badgeBase + mapcanvas.StyleKey(s.Bucket)
		if _, ok := styles[key]; !ok {
			styles[key] = lipgloss.NewStyle().
				Background(lipgloss.Color(s.FillHex())).
				Foreground(clusterstyle.Text).
				Bold(true)
		}
		buf.CenteredText(pt.X, pt.Y, " "+s.Label+" ", key)
	}
	return buf, styles
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Package geojsonio reads markers from GeoJSON and writes clustering
// results back out as GeoJSON. Paths ending in ".zst" are zstd compressed.
package geojsonio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/wesen/clustermap/pkg/clustering"
	"github.com/wesen/clustermap/pkg/clusterstyle"
	"github.com/wesen/clustermap/pkg/geo"
)

// ErrNotFeatureCollection is returned when the document root is not a
// FeatureCollection.
var ErrNotFeatureCollection = errors.New("geojsonio: document is not a FeatureCollection")

// ── Reading ──

// ReadMarkers decodes a FeatureCollection and returns one marker per Point
// feature, in document order. Other geometries are skipped. Features
// without an id get a random UUID.
func ReadMarkers(r io.Reader) ([]*clustering.Marker, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	if head.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w (type %q)", ErrNotFeatureCollection, head.Type)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	markers := make([]*clustering.Marker, 0, len(fc.Features))
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		m := clustering.NewMarker(
			featureID(f),
			geo.NewLatLng(pt.Lat(), pt.Lon()),
			f.Properties.MustString("title", ""),
			f.Properties.MustString("snippet", ""),
		)
		if _, ok := f.Properties["zIndex"]; ok {
			m.SetZIndex(float32(f.Properties.MustFloat64("zIndex", 0)))
		}
		markers = append(markers, m)
	}
	return markers, nil
}

func featureID(f *geojson.Feature) string {
	switch id := f.ID.(type) {
	case nil:
		return uuid.NewString()
	case string:
		if id == "" {
			return uuid.NewString()
		}
		return id
	default:
		return fmt.Sprint(id)
	}
}

// LoadMarkers reads markers from a file.
func LoadMarkers(path string) ([]*clustering.Marker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader for %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}
	return ReadMarkers(r)
}

// ── Writing ──

type identified interface {
	ID() string
}

func itemID[T clustering.ClusterItem](item T) string {
	if v, ok := any(item).(identified); ok {
		return v.ID()
	}
	return item.Title()
}

// ClusterFeatures renders one Point feature per cluster with its size,
// badge label and colour, anchor id and member ids.
func ClusterFeatures[T clustering.ClusterItem](clusters []*clustering.Cluster[T]) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range clusters {
		pos := c.Position()
		f := geojson.NewFeature(orb.Point{pos.Longitude, pos.Latitude})

		ids := make([]string, 0, c.Size())
		for item := range c.All() {
			ids = append(ids, itemID(item))
		}
		style := clusterstyle.ForSize(c.Size())

		f.ID = itemID(c.Anchor())
		f.Properties["cluster_size"] = c.Size()
		f.Properties["label"] = style.Label
		f.Properties["color"] = style.FillHex()
		f.Properties["anchor"] = itemID(c.Anchor())
		f.Properties["member_ids"] = ids
		fc.Append(f)
	}
	return fc
}

// WriteClusters encodes clusters as a FeatureCollection.
func WriteClusters[T clustering.ClusterItem](w io.Writer, clusters []*clustering.Cluster[T]) error {
	data, err := ClusterFeatures(clusters).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}

// SaveClusters writes clusters to a file.
func SaveClusters[T clustering.ClusterItem](path string, clusters []*clustering.Cluster[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if compressed(path) {
		enc, err := zstd.NewWriter(buf, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return fmt.Errorf("zstd writer for %s: %w", path, err)
		}
		if err := WriteClusters(enc, clusters); err != nil {
			enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("close encoder: %w", err)
		}
	} else if err := WriteClusters(buf, clusters); err != nil {
		return err
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

// SaveMarkers writes markers as Point features, the format ReadMarkers
// accepts.
func SaveMarkers(path string, markers []*clustering.Marker) error {
	fc := geojson.NewFeatureCollection()
	for _, m := range markers {
		pos := m.Position()
		f := geojson.NewFeature(orb.Point{pos.Longitude, pos.Latitude})
		f.ID = m.ID()
		f.Properties["title"] = m.Title()
		f.Properties["snippet"] = m.Snippet()
		if z, ok := m.ZIndex(); ok {
			f.Properties["zIndex"] = z
		}
		fc.Append(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if !compressed(path) {
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("zstd writer for %s: %w", path, err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}
	return f.Close()
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

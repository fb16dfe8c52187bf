package clustering

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/wesen/clustermap/pkg/geo"
)

// DemoCenter is where demo markers are scattered by default (Singapore).
var DemoCenter = geo.NewLatLng(1.35, 103.87)

// DemoMarkers scatters n markers north-east of center, each offset by up
// to spread degrees on both axes. The same rng seed yields the same
// markers, IDs included.
func DemoMarkers(rng *rand.Rand, n int, center geo.LatLng, spread float64) []*Marker {
	out := make([]*Marker, 0, n)
	for i := range n {
		pos := geo.NewLatLng(
			center.Latitude+rng.Float64()*spread,
			center.Longitude+rng.Float64()*spread,
		)
		id, err := uuid.NewRandomFromReader(rng)
		if err != nil {
			id = uuid.New()
		}
		out = append(out, NewMarker(id.String(), pos, fmt.Sprintf("Marker %d", i), fmt.Sprintf("Snippet %d", i)))
	}
	return out
}

// Package clusterstyle is the default look of a cluster badge: a size
// bucket, a label and a fill colour that runs from blue for small clusters
// to red for large ones.
package clusterstyle

import (
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Buckets are the sizes labels snap down to.
var Buckets = [...]int{10, 20, 50, 100, 200, 500, 1000}

const (
	hueRange  = 220.0
	sizeRange = 300.0
)

var (
	// Outline is the semi-transparent white ring around a badge.
	Outline = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x80}
	// Text is the label colour.
	Text = color.NRGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
)

// Bucket snaps size down to the largest bucket not above it. Sizes up to
// the first bucket are returned unchanged.
func Bucket(size int) int {
	if size <= Buckets[0] {
		return size
	}
	for i := 0; i < len(Buckets)-1; i++ {
		if size < Buckets[i+1] {
			return Buckets[i]
		}
	}
	return Buckets[len(Buckets)-1]
}

// Label formats a bucket: the plain count below the first bucket, "N+"
// from there on.
func Label(bucket int) string {
	if bucket < Buckets[0] {
		return strconv.Itoa(bucket)
	}
	return strconv.Itoa(bucket) + "+"
}

// Hue is the fill hue in degrees for n: 220 at 0, 0 at 300 and above.
func Hue(n int) float64 {
	s := min(float64(n), sizeRange)
	return (sizeRange - s) * (sizeRange - s) / (sizeRange * sizeRange) * hueRange
}

// Fill is the badge colour for n.
func Fill(n int) colorful.Color {
	return colorful.Hsv(Hue(n), 1, 0.6)
}

// Style is everything needed to draw one badge.
type Style struct {
	Bucket int
	Label  string
	Fill   colorful.Color
}

// ForSize computes the badge for a cluster of size members. The colour
// follows the bucket, not the raw size.
func ForSize(size int) Style {
	b := Bucket(size)
	return Style{Bucket: b, Label: Label(b), Fill: Fill(b)}
}

// FillHex is Fill as "#rrggbb".
func (s Style) FillHex() string {
	return s.Fill.Hex()
}

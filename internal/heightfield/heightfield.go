// Package heightfield implements a lazy, composable 2-D height field.
//
// Each transformation in this package returns a new HeightTile whose Sample
// method calls back into its source; none of them allocate proportional to
// area except Materialize, which is the only snapshot point. This mirrors
// the teacher's TileData: a handful of small structs with methods rather
// than a class hierarchy, except here there are seven variants instead of
// two (uniform vs. full image) because each spec transformation needs its
// own sampling rule.
package heightfield

import "math"

// HeightTile is a virtual 2-D grid. Sample may be called with coordinates
// outside [0, Width) × [0, Height) when the tile is a composition (e.g. a
// neighbor-stitched view); such calls return NaN unless the concrete type's
// documentation says otherwise.
type HeightTile interface {
	Width() int
	Height() int
	// Sample returns the elevation at (x, y), or NaN if invalid/out of range.
	Sample(x, y int) float32
}

// NaN32 is the canonical "invalid sample" sentinel used throughout this
// package.
var NaN32 = float32(math.NaN())

func isNaN(v float32) bool {
	return v != v
}

package heightfield

import "github.com/elevatio/contourtile/internal/dem"

// rawTile is the leaf HeightTile backed directly by a decoded DemTile.
type rawTile struct {
	src *dem.Tile
}

// FromRaw wraps a decoded DemTile as a HeightTile. Sample returns NaN for
// out-of-range coordinates or values outside the valid elevation band
// (dem.Valid), exactly as spec.md §3 defines "missing".
func FromRaw(t *dem.Tile) HeightTile {
	return &rawTile{src: t}
}

func (r *rawTile) Width() int  { return r.src.Width }
func (r *rawTile) Height() int { return r.src.Height }

func (r *rawTile) Sample(x, y int) float32 {
	if x < 0 || x >= r.src.Width || y < 0 || y >= r.src.Height {
		return NaN32
	}
	v := r.src.At(x, y)
	if !dem.Valid(v) {
		return NaN32
	}
	return v
}

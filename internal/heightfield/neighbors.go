package heightfield

import "errors"

// ErrMissingCenter is returned by CombineNeighbors when the center tile is
// nil; per spec.md §7 this is the one HeightTile-layer error the pipeline
// turns into a successful empty MVT rather than propagating as a failure.
var ErrMissingCenter = errors.New("heightfield: missing center tile")

// Neighbor position indices into the 9-element slice passed to
// CombineNeighbors, in row-major reading order (nw, n, ne, w, c, e, sw, s, se).
const (
	NW = iota
	N
	NE
	W
	C
	E
	SW
	S
	SE
)

type stitchedTile struct {
	neighbors [9]HeightTile
	w, h      int
}

// CombineNeighbors stitches a center tile with its eight neighbors into one
// continuous HeightTile. neighbors must be indexed with the NW..SE
// constants; a nil entry means that neighbor is missing (out of bounds or
// unfetched) and samples into it return NaN. Fails with ErrMissingCenter if
// neighbors[C] is nil.
//
// Sampling at (x, y) in [-w, 2w) × [-h, 2h) returns the corresponding
// neighbor's value at wrapped-local coordinates; outside that range it
// returns NaN (no wraparound beyond one tile).
func CombineNeighbors(neighbors [9]HeightTile) (HeightTile, error) {
	center := neighbors[C]
	if center == nil {
		return nil, ErrMissingCenter
	}
	return &stitchedTile{neighbors: neighbors, w: center.Width(), h: center.Height()}, nil
}

func (s *stitchedTile) Width() int  { return s.w }
func (s *stitchedTile) Height() int { return s.h }

func (s *stitchedTile) Sample(x, y int) float32 {
	col, localX, okX := region(x, s.w)
	row, localY, okY := region(y, s.h)
	if !okX || !okY {
		return NaN32
	}

	idx := neighborIndex(row, col)
	n := s.neighbors[idx]
	if n == nil {
		return NaN32
	}
	return n.Sample(localX, localY)
}

// region classifies v against [0, size) into which adjacent tile it falls
// in (-1 = previous, 0 = this tile, 1 = next) and the corresponding local
// coordinate within that tile. Values more than one tile away from
// [0, size) are reported as out of range via ok=false — no wraparound
// beyond a single neighboring tile.
func region(v, size int) (region, local int, ok bool) {
	switch {
	case v < -size || v >= 2*size:
		return 0, 0, false
	case v < 0:
		return -1, v + size, true
	case v < size:
		return 0, v, true
	default:
		return 1, v - size, true
	}
}

func neighborIndex(row, col int) int {
	switch {
	case row == -1 && col == -1:
		return NW
	case row == -1 && col == 0:
		return N
	case row == -1 && col == 1:
		return NE
	case row == 0 && col == -1:
		return W
	case row == 0 && col == 0:
		return C
	case row == 0 && col == 1:
		return E
	case row == 1 && col == -1:
		return SW
	case row == 1 && col == 0:
		return S
	default:
		return SE
	}
}

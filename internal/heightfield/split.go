package heightfield

import "fmt"

type splitTile struct {
	src        HeightTile
	w, h       int
	offX, offY int
}

// Split crops tile to the (subx, suby) cell of a 2^subz × 2^subz grid over
// it, per spec.md §4.2. Requires subz ≥ 0 and subx, suby < 2^subz.
func Split(tile HeightTile, subz, subx, suby int) (HeightTile, error) {
	if subz < 0 {
		return nil, fmt.Errorf("heightfield: split requires subz >= 0, got %d", subz)
	}
	n := 1 << uint(subz)
	if subx < 0 || subx >= n || suby < 0 || suby >= n {
		return nil, fmt.Errorf("heightfield: split subx/suby must be in [0, %d), got (%d, %d)", n, subx, suby)
	}

	w := tile.Width() >> uint(subz)
	h := tile.Height() >> uint(subz)
	return &splitTile{
		src:  tile,
		w:    w,
		h:    h,
		offX: subx * tile.Width() / n,
		offY: suby * tile.Height() / n,
	}, nil
}

func (s *splitTile) Width() int  { return s.w }
func (s *splitTile) Height() int { return s.h }

func (s *splitTile) Sample(x, y int) float32 {
	return s.src.Sample(x+s.offX, y+s.offY)
}

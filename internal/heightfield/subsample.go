package heightfield

import "math"

type subsampledTile struct {
	src    HeightTile
	factor int
	w, h   int
}

// SubsamplePixelCenters upsamples tile by an integer factor, bilinearly
// interpolating between pixel *centers* per spec.md §4.2. NaN sources are
// skipped one dimension at a time: if only one of a pair is NaN, the valid
// value is used outright; if both are NaN, the result is NaN.
func SubsamplePixelCenters(tile HeightTile, factor int) HeightTile {
	return &subsampledTile{
		src:    tile,
		factor: factor,
		w:      tile.Width() * factor,
		h:      tile.Height() * factor,
	}
}

func (s *subsampledTile) Width() int  { return s.w }
func (s *subsampledTile) Height() int { return s.h }

func (s *subsampledTile) Sample(x, y int) float32 {
	f := float64(s.factor)
	u := float64(x)/f - (0.5 - 1/(2*f))
	v := float64(y)/f - (0.5 - 1/(2*f))

	x0 := int(math.Floor(u))
	y0 := int(math.Floor(v))
	fx := u - float64(x0)
	fy := v - float64(y0)

	s00 := s.src.Sample(x0, y0)
	s10 := s.src.Sample(x0+1, y0)
	s01 := s.src.Sample(x0, y0+1)
	s11 := s.src.Sample(x0+1, y0+1)

	top := lerpNaN(s00, s10, fx)
	bot := lerpNaN(s01, s11, fx)
	return lerpNaN(top, bot, fy)
}

// lerpNaN linearly interpolates a and b at parameter t, skipping whichever
// operand is NaN. Returns NaN only if both are NaN.
func lerpNaN(a, b float32, t float64) float32 {
	aNaN := isNaN(a)
	bNaN := isNaN(b)
	switch {
	case aNaN && bNaN:
		return NaN32
	case aNaN:
		return b
	case bNaN:
		return a
	default:
		return float32(float64(a)*(1-t) + float64(b)*t)
	}
}

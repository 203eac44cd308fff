package heightfield

type griddedTile struct {
	src    HeightTile
	radius int
	w, h   int
}

// AveragePixelCentersToGrid shifts the coordinate reference from pixel
// center to pixel corner (top-left of pixel): each output vertex (x, y)
// averages the valid (non-NaN) pixel-center samples in the 2·radius ×
// 2·radius neighborhood [x-radius, x+radius) × [y-radius, y+radius). A
// vertex with no valid samples in its neighborhood is NaN. Output shape is
// (w+1, h+1).
func AveragePixelCentersToGrid(tile HeightTile, radius int) HeightTile {
	return &griddedTile{
		src:    tile,
		radius: radius,
		w:      tile.Width() + 1,
		h:      tile.Height() + 1,
	}
}

func (g *griddedTile) Width() int  { return g.w }
func (g *griddedTile) Height() int { return g.h }

func (g *griddedTile) Sample(x, y int) float32 {
	var sum float64
	var count int
	for dy := y - g.radius; dy < y+g.radius; dy++ {
		for dx := x - g.radius; dx < x+g.radius; dx++ {
			v := g.src.Sample(dx, dy)
			if isNaN(v) {
				continue
			}
			sum += float64(v)
			count++
		}
	}
	if count == 0 {
		return NaN32
	}
	return float32(sum / float64(count))
}

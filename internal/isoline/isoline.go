// Package isoline traces contour lines through a height field using a
// single-pass marching-squares variant that handles every elevation
// threshold in one sweep, joining open fragments by their shared grid-edge
// endpoints as it goes.
package isoline

import (
	"math"

	"github.com/elevatio/contourtile/internal/heightfield"
)

// TraceRaw sweeps tile once and returns, for every elevation threshold that
// is a multiple of interval and falls within some cell's corner range, the
// set of polylines crossing it. Coordinates are in cell space (pixel-corner
// units, unscaled) as float64 pairs — rounding to MVT integer coordinates is
// the caller's job (see Trace) so that fragment joining never accumulates
// rounding error.
func TraceRaw(tile heightfield.HeightTile, interval float64, buffer int) map[float64][][]float64 {
	width, height := tile.Width(), tile.Height()
	indices := make(map[float64]*fragmentIndex)

	for r := 1 - buffer; r < height+buffer; r++ {
		for c := 1 - buffer; c < width+buffer; c++ {
			cx, cy := c-1, r-1
			tl := float64(tile.Sample(cx, cy))
			tr := float64(tile.Sample(cx+1, cy))
			bl := float64(tile.Sample(cx, cy+1))
			br := float64(tile.Sample(cx+1, cy+1))
			if math.IsNaN(tl) || math.IsNaN(tr) || math.IsNaN(bl) || math.IsNaN(br) {
				continue
			}

			lo := math.Min(math.Min(tl, tr), math.Min(bl, br))
			hi := math.Max(math.Max(tl, tr), math.Max(bl, br))
			start := math.Ceil(lo/interval) * interval
			if start > hi {
				continue
			}
			steps := int(math.Round((hi - start) / interval))

			for i := 0; i <= steps; i++ {
				t := start + float64(i)*interval
				idx := caseIndex(tl, tr, br, bl, t)
				segs := caseSegments[idx]
				if len(segs) == 0 {
					continue
				}
				fi := indices[t]
				if fi == nil {
					fi = newFragmentIndex()
					indices[t] = fi
				}
				for _, seg := range segs {
					sx, sy := edgePoint(seg.start, cx, cy, tl, tr, br, bl, t)
					ex, ey := edgePoint(seg.end, cx, cy, tl, tr, br, bl, t)
					sid := edgeID(seg.start, cx, cy, width)
					eid := edgeID(seg.end, cx, cy, width)
					fi.add(sid, eid, sx, sy, ex, ey)
				}
			}
		}
	}

	out := make(map[float64][][]float64, len(indices))
	for t, fi := range indices {
		polylines := fi.finalize()
		if len(polylines) > 0 {
			out[t] = polylines
		}
	}
	return out
}

// Trace scales TraceRaw's cell-space fragments into integer MVT coordinates
// per tile.width − 1 cells spanning extent, rounding (nearest, half away
// from zero) once per coordinate at this final step.
func Trace(tile heightfield.HeightTile, interval float64, extent, buffer int) map[float64][][]int32 {
	raw := TraceRaw(tile, interval, buffer)
	mul := float64(extent) / float64(tile.Width()-1)

	out := make(map[float64][][]int32, len(raw))
	for t, polylines := range raw {
		lines := make([][]int32, len(polylines))
		for i, pts := range polylines {
			line := make([]int32, len(pts))
			for j := 0; j < len(pts); j++ {
				line[j] = roundAwayFromZero(pts[j] * mul)
			}
			lines[i] = line
		}
		out[t] = lines
	}
	return out
}

func roundAwayFromZero(v float64) int32 {
	if v >= 0 {
		return int32(math.Floor(v + 0.5))
	}
	return int32(math.Ceil(v - 0.5))
}

func caseIndex(tl, tr, br, bl, t float64) int {
	idx := 0
	if tl > t {
		idx |= 8
	}
	if tr > t {
		idx |= 4
	}
	if br > t {
		idx |= 2
	}
	if bl > t {
		idx |= 1
	}
	return idx
}

// Package tilecoord resolves web-map tile coordinates into the source
// tile(s) a contour request needs: overzoom source-zoom selection and the
// eight neighbor coordinates around a center tile.
package tilecoord

// Key identifies a single z/x/y tile.
type Key struct {
	Z, X, Y int
}

// NeighborTile is one of the nine source tiles CombineNeighbors needs. OK
// is false when the tile falls outside the zoom level's valid y range and
// should be treated as missing rather than fetched.
type NeighborTile struct {
	Key Key
	OK  bool
}

// ResolveSource picks the zoom level contour data is actually fetched at
// for a request at zoom z: min(z − overzoom, maxzoom), clamped at 0, per
// spec.md §4.6 step 3. Whenever that is below z, the request tile is cropped
// ("overzoomed") from the source tile rather than fetched at z.
//
// subZ is how many zoom levels the request sits above the source; div is
// 2^subZ, the number of request tiles per source tile edge.
func ResolveSource(z, overzoom, maxzoom int) (srcZ, subZ, div int) {
	srcZ = z - overzoom
	if srcZ > maxzoom {
		srcZ = maxzoom
	}
	if srcZ < 0 {
		srcZ = 0
	}
	subZ = z - srcZ
	div = 1 << uint(subZ)
	return
}

// CenterSource returns the source-zoom tile and the (subx, suby) cell
// within it that the request tile (z, x, y) crops from, given div from
// ResolveSource.
func CenterSource(x, y, div int) (nx, ny, subx, suby int) {
	nx = x / div
	ny = y / div
	subx = x % div
	suby = y % div
	return
}

// Neighbors returns the 3x3 grid of source-zoom tile keys around (nx, ny)
// at srcZ, in row-major (dj, di) order starting at (-1,-1). A cell whose y
// falls outside [0, 2^srcZ) is reported as missing (OK=false); x wraps
// around the zoom level's full width instead of clipping.
func Neighbors(srcZ, nx, ny int) [9]NeighborTile {
	n := 1 << uint(srcZ)
	var out [9]NeighborTile
	i := 0
	for dj := -1; dj <= 1; dj++ {
		for di := -1; di <= 1; di++ {
			y := ny + dj
			if y < 0 || y >= n {
				out[i] = NeighborTile{OK: false}
				i++
				continue
			}
			x := ((nx+di)%n + n) % n
			out[i] = NeighborTile{Key: Key{Z: srcZ, X: x, Y: y}, OK: true}
			i++
		}
	}
	return out
}

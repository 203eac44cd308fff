package mvt

// GeomType mirrors the MVT geometry type enum (vector_tile.proto
// GeomType); only LineString is exercised by the contour pipeline but Point
// and Polygon follow the same command rules for interchange.
type GeomType uint32

const (
	GeomUnknown    GeomType = 0
	GeomPoint      GeomType = 1
	GeomLineString GeomType = 2
	GeomPolygon    GeomType = 3
)

const (
	cmdMoveTo    = 1
	cmdLineTo    = 2
	cmdClosePath = 7
)

func cmdInt(cmd uint32, count uint32) uint32 {
	return (cmd & 0x7) | (count << 3)
}

// encodeGeometry packs parts (lines for LineString/Polygon, or a single
// multipoint part for Point) into MVT geometry commands. The (x, y) cursor
// persists across parts of the same feature, per the MVT spec.
func encodeGeometry(geomType GeomType, parts [][][2]int32) []uint32 {
	var cx, cy int32
	var cmds []uint32

	switch geomType {
	case GeomPoint:
		if len(parts) == 0 {
			return nil
		}
		pts := parts[0]
		cmds = append(cmds, cmdInt(cmdMoveTo, uint32(len(pts))))
		for _, p := range pts {
			cmds = append(cmds, zigzag(p[0]-cx), zigzag(p[1]-cy))
			cx, cy = p[0], p[1]
		}
	case GeomPolygon:
		for _, ring := range parts {
			if len(ring) == 0 {
				continue
			}
			cmds = append(cmds, cmdInt(cmdMoveTo, 1))
			cmds = append(cmds, zigzag(ring[0][0]-cx), zigzag(ring[0][1]-cy))
			cx, cy = ring[0][0], ring[0][1]
			if len(ring) > 1 {
				cmds = append(cmds, cmdInt(cmdLineTo, uint32(len(ring)-1)))
				for _, p := range ring[1:] {
					cmds = append(cmds, zigzag(p[0]-cx), zigzag(p[1]-cy))
					cx, cy = p[0], p[1]
				}
			}
			cmds = append(cmds, cmdInt(cmdClosePath, 1))
		}
	default: // GeomLineString
		for _, line := range parts {
			if len(line) == 0 {
				continue
			}
			cmds = append(cmds, cmdInt(cmdMoveTo, 1))
			cmds = append(cmds, zigzag(line[0][0]-cx), zigzag(line[0][1]-cy))
			cx, cy = line[0][0], line[0][1]
			if len(line) > 1 {
				cmds = append(cmds, cmdInt(cmdLineTo, uint32(len(line)-1)))
				for _, p := range line[1:] {
					cmds = append(cmds, zigzag(p[0]-cx), zigzag(p[1]-cy))
					cx, cy = p[0], p[1]
				}
			}
		}
	}
	return cmds
}

// decodeGeometry is the inverse of encodeGeometry, splitting the command
// stream back into parts. Polygon rings are terminated by closepath and
// re-close their first point so callers see the same ring they encoded.
func decodeGeometry(geomType GeomType, cmds []uint32) [][][2]int32 {
	var parts [][][2]int32
	var cur [][2]int32
	var cx, cy int32

	i := 0
	for i < len(cmds) {
		cmdAndCount := cmds[i]
		i++
		cmd := cmdAndCount & 0x7
		count := cmdAndCount >> 3

		switch cmd {
		case cmdMoveTo:
			if geomType != GeomPoint && len(cur) > 0 {
				parts = append(parts, cur)
				cur = nil
			}
			for n := uint32(0); n < count && i+1 < len(cmds); n++ {
				dx := unzigzag(cmds[i])
				dy := unzigzag(cmds[i+1])
				i += 2
				cx += dx
				cy += dy
				cur = append(cur, [2]int32{cx, cy})
			}
		case cmdLineTo:
			for n := uint32(0); n < count && i < len(cmds); n++ {
				dx := unzigzag(cmds[i])
				dy := unzigzag(cmds[i+1])
				i += 2
				cx += dx
				cy += dy
				cur = append(cur, [2]int32{cx, cy})
			}
		case cmdClosePath:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
				parts = append(parts, cur)
				cur = nil
			}
		}
	}
	if len(cur) > 0 {
		parts = append(parts, cur)
	}
	return parts
}

package isoline

// edge identifies one side of a marching-squares cell. The cell's top-left
// corner is (cx, cy); left/right edges are vertical, top/bottom horizontal.
type edge int

const (
	edgeLeft edge = iota
	edgeTop
	edgeRight
	edgeBottom
)

type segment struct{ start, end edge }

// caseSegments is the 16-entry marching-squares table indexed by
// tl·8|tr·4|br·2|bl·1 (corner bit set when its sample exceeds the
// threshold). Segment direction keeps the region above the threshold on a
// consistent side of travel, so that adjacent cells' crossings chain into
// continuous fragments regardless of which cell is visited first. Cases 5
// and 10 are the ambiguous saddles: each resolves to two disjoint segments,
// leaving the saddle unconnected rather than choosing a diagonal.
var caseSegments = [16][]segment{
	0:  nil,
	1:  {{edgeBottom, edgeLeft}},
	2:  {{edgeRight, edgeBottom}},
	3:  {{edgeRight, edgeLeft}},
	4:  {{edgeTop, edgeRight}},
	5:  {{edgeTop, edgeRight}, {edgeBottom, edgeLeft}},
	6:  {{edgeTop, edgeBottom}},
	7:  {{edgeTop, edgeLeft}},
	8:  {{edgeLeft, edgeTop}},
	9:  {{edgeBottom, edgeTop}},
	10: {{edgeLeft, edgeTop}, {edgeRight, edgeBottom}},
	11: {{edgeRight, edgeTop}},
	12: {{edgeLeft, edgeRight}},
	13: {{edgeBottom, edgeRight}},
	14: {{edgeLeft, edgeBottom}},
	15: nil,
}

// edgePoint linearly interpolates the crossing point of e at threshold t,
// given the cell's top-left grid coordinate (cx, cy) and its four corner
// samples.
func edgePoint(e edge, cx, cy int, tl, tr, br, bl, t float64) (x, y float64) {
	fx, fy := float64(cx), float64(cy)
	switch e {
	case edgeLeft:
		return fx, fy + (t-tl)/(bl-tl)
	case edgeTop:
		return fx + (t-tl)/(tr-tl), fy
	case edgeRight:
		return fx + 1, fy + (t-tr)/(br-tr)
	default: // edgeBottom
		return fx + (t-bl)/(br-bl), fy + 1
	}
}

// edgeID packs e's position into a grid-wide id shared by the two cells
// that meet along it, so fragments started from either side join up.
// Positions are expressed in half-cell units (cell corners at even
// coordinates, edge midpoints at odd ones).
func edgeID(e edge, cx, cy, width int) int64 {
	stride := int64(width+1) * 2
	x2, y2 := int64(2*cx), int64(2*cy)
	switch e {
	case edgeLeft:
		return x2 + (y2+1)*stride
	case edgeTop:
		return (x2 + 1) + y2*stride
	case edgeRight:
		return (x2 + 2) + (y2+1)*stride
	default: // edgeBottom
		return (x2 + 1) + (y2+2)*stride
	}
}

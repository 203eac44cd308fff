package isoline

// fragment is an open polyline under construction: pts is its flat
// x0,y0,x1,y1,... point list, start and end are the packed grid-edge ids of
// its two loose ends.
type fragment struct {
	start, end int64
	pts        []float64
}

// fragmentIndex joins per-cell segments into polylines for one elevation
// threshold, indexing each open fragment by the packed edge ids of its
// current start (byStart) and end (byEnd).
type fragmentIndex struct {
	byStart map[int64]*fragment
	byEnd   map[int64]*fragment
	closed  [][]float64
}

func newFragmentIndex() *fragmentIndex {
	return &fragmentIndex{
		byStart: make(map[int64]*fragment),
		byEnd:   make(map[int64]*fragment),
	}
}

// add joins the new segment (s, sx, sy) → (e, ex, ey) into the index,
// extending, prepending, merging, or closing existing fragments as
// described in spec.md §4.3 step 6.
func (fi *fragmentIndex) add(s, e int64, sx, sy, ex, ey float64) {
	if f, ok := fi.byEnd[s]; ok {
		delete(fi.byEnd, s)
		f.pts = append(f.pts, ex, ey)
		f.end = e

		if e == f.start {
			delete(fi.byStart, f.start)
			fi.closed = append(fi.closed, f.pts)
			return
		}
		if f2, ok := fi.byStart[e]; ok {
			delete(fi.byStart, e)
			delete(fi.byEnd, f2.end)
			f.pts = append(f.pts, f2.pts[2:]...)
			f.end = f2.end
			fi.byEnd[f.end] = f
			return
		}
		fi.byEnd[f.end] = f
		return
	}

	if f, ok := fi.byStart[e]; ok {
		delete(fi.byStart, e)
		f.pts = append([]float64{sx, sy}, f.pts...)
		f.start = s
		fi.byStart[s] = f
		return
	}

	f := &fragment{start: s, end: e, pts: []float64{sx, sy, ex, ey}}
	fi.byStart[s] = f
	fi.byEnd[e] = f
}

// finalize returns every closed ring plus every fragment still open at the
// end of the sweep, each as a flat point list.
func (fi *fragmentIndex) finalize() [][]float64 {
	out := make([][]float64, 0, len(fi.closed)+len(fi.byStart))
	out = append(out, fi.closed...)
	for _, f := range fi.byStart {
		if len(f.pts) > 0 {
			out = append(out, f.pts)
		}
	}
	return out
}

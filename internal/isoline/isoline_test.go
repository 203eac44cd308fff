package isoline

import (
	"math"
	"testing"

	"github.com/elevatio/contourtile/internal/heightfield"
)

type blockTile struct {
	w, h int
	data []float32
}

func (b *blockTile) Width() int  { return b.w }
func (b *blockTile) Height() int { return b.h }
func (b *blockTile) Sample(x, y int) float32 {
	if x < 0 || x >= b.w || y < 0 || y >= b.h {
		return float32(math.NaN())
	}
	return b.data[y*b.w+x]
}

func block(w, h int, vals ...float32) heightfield.HeightTile {
	return &blockTile{w: w, h: h, data: vals}
}

func approxEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-6 {
			return false
		}
	}
	return true
}

// S3 — single-cell corner crossing.
func TestTraceRawSingleCellCrossing(t *testing.T) {
	tile := block(2, 2, 1, 1, 1, 3)
	out := TraceRaw(tile, 2, 0)

	polylines, ok := out[2]
	if !ok {
		t.Fatalf("no polylines at elevation 2, got keys %v", out)
	}
	if len(polylines) != 1 {
		t.Fatalf("got %d polylines, want 1", len(polylines))
	}
	want := []float64{1, 0.5, 0.5, 1}
	if !approxEqual(polylines[0], want) {
		t.Errorf("polyline = %v, want %v", polylines[0], want)
	}
}

// S4 — saddle: two disjoint arcs, diagonal left unconnected.
func TestTraceRawSaddle(t *testing.T) {
	const hi = float32(2.333333333333333)
	tile := block(2, 2, 1, hi, hi, 1)
	out := TraceRaw(tile, 2, 0)

	polylines, ok := out[2]
	if !ok {
		t.Fatalf("no polylines at elevation 2, got keys %v", out)
	}
	if len(polylines) != 2 {
		t.Fatalf("got %d polylines, want 2", len(polylines))
	}

	want1 := []float64{0.75, 0, 1, 0.25}
	want2 := []float64{0.25, 1, 0, 0.75}
	matched1, matched2 := false, false
	for _, p := range polylines {
		if approxEqual(p, want1) {
			matched1 = true
		}
		if approxEqual(p, want2) {
			matched2 = true
		}
	}
	if !matched1 || !matched2 {
		t.Errorf("polylines = %v, want %v and %v", polylines, want1, want2)
	}
}

// S5 — ring closure: a raised interior surrounded by lower border closes
// into one ring per elevation crossing.
func TestTraceRawRingClosure(t *testing.T) {
	tile := block(4, 4,
		1, 1, 1, 1,
		1, 3, 3, 1,
		1, 3, 3, 1,
		1, 1, 1, 1,
	)
	out := TraceRaw(tile, 2, 0)

	polylines, ok := out[2]
	if !ok {
		t.Fatalf("no polylines at elevation 2")
	}
	if len(polylines) != 1 {
		t.Fatalf("got %d polylines, want 1 closed ring", len(polylines))
	}
	ring := polylines[0]
	n := len(ring)
	if n < 6 {
		t.Fatalf("ring has %d coordinates, too short to close", n)
	}
	if math.Abs(ring[0]-ring[n-2]) > 1e-6 || math.Abs(ring[1]-ring[n-1]) > 1e-6 {
		t.Errorf("ring does not close: first=(%v,%v) last=(%v,%v)", ring[0], ring[1], ring[n-2], ring[n-1])
	}
}

func TestTraceRawSkipsNaNCells(t *testing.T) {
	nan := float32(math.NaN())
	tile := block(2, 2, 1, nan, 1, 3)
	out := TraceRaw(tile, 2, 0)
	if len(out) != 0 {
		t.Errorf("expected no polylines when a corner is NaN, got %v", out)
	}
}

func TestTraceRawDeterministic(t *testing.T) {
	tile := block(4, 4,
		1, 1, 1, 1,
		1, 3, 3, 1,
		1, 3, 3, 1,
		1, 1, 1, 1,
	)
	a := TraceRaw(tile, 2, 0)
	b := TraceRaw(tile, 2, 0)
	if len(a[2]) != len(b[2]) {
		t.Fatalf("non-deterministic fragment count: %d vs %d", len(a[2]), len(b[2]))
	}
	if !approxEqual(a[2][0], b[2][0]) {
		t.Errorf("non-deterministic fragment order/points: %v vs %v", a[2][0], b[2][0])
	}
}

func TestTraceScalesAndRounds(t *testing.T) {
	tile := block(2, 2, 1, 1, 1, 3)
	out := Trace(tile, 2, 1, 0)
	lines, ok := out[2]
	if !ok || len(lines) != 1 {
		t.Fatalf("Trace(extent=1) = %v", out)
	}
	// cell-space [1, 0.5, 0.5, 1] rounds (half away from zero) to [1,1,1,1].
	want := []int32{1, 1, 1, 1}
	got := lines[0]
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("coord[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

package mvt

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	layers := []Layer{
		{
			Name:   "contours",
			Extent: 4096,
			Features: []Feature{
				{
					Type: GeomLineString,
					Lines: [][][2]int32{
						{{10, 20}, {30, 20}, {30, 40}},
					},
					Properties: map[string]interface{}{
						"e": float64(100),
						"l": int(2),
					},
				},
			},
		},
	}

	encoded := Encode(layers)
	if len(encoded) == 0 {
		t.Fatal("Encode produced no bytes")
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d layers, want 1", len(decoded))
	}
	layer := decoded[0]
	if layer.Name != "contours" {
		t.Errorf("layer name = %q, want contours", layer.Name)
	}
	if layer.Extent != 4096 {
		t.Errorf("extent = %d, want 4096", layer.Extent)
	}
	if len(layer.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(layer.Features))
	}

	f := layer.Features[0]
	if f.Type != GeomLineString {
		t.Errorf("type = %v, want LineString", f.Type)
	}
	wantGeom := [][2]int32{{10, 20}, {30, 20}, {30, 40}}
	if len(f.Lines) != 1 || len(f.Lines[0]) != len(wantGeom) {
		t.Fatalf("geometry = %v, want one line with %v", f.Lines, wantGeom)
	}
	for i, p := range wantGeom {
		if f.Lines[0][i] != p {
			t.Errorf("point[%d] = %v, want %v", i, f.Lines[0][i], p)
		}
	}

	if got := f.Properties["e"]; got != float64(100) {
		t.Errorf("property e = %v (%T), want 100 (float64)", got, got)
	}
	if got := f.Properties["l"]; got != int64(2) {
		t.Errorf("property l = %v (%T), want 2 (int64)", got, got)
	}
}

func TestValueDeduplication(t *testing.T) {
	layers := []Layer{
		{
			Name: "c",
			Features: []Feature{
				{Type: GeomLineString, Lines: [][][2]int32{{{0, 0}, {1, 1}}}, Properties: map[string]interface{}{"e": float64(10)}},
				{Type: GeomLineString, Lines: [][][2]int32{{{2, 2}, {3, 3}}}, Properties: map[string]interface{}{"e": float64(10)}},
			},
		},
	}
	encoded := Encode(layers)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded[0].Features) != 2 {
		t.Fatalf("got %d features, want 2", len(decoded[0].Features))
	}
	for i, f := range decoded[0].Features {
		if f.Properties["e"] != float64(10) {
			t.Errorf("feature %d: e = %v, want 10", i, f.Properties["e"])
		}
	}
}

func TestNilPropertiesOmitted(t *testing.T) {
	layers := []Layer{
		{
			Name: "c",
			Features: []Feature{
				{
					Type:  GeomLineString,
					Lines: [][][2]int32{{{0, 0}, {1, 1}}},
					Properties: map[string]interface{}{
						"e":      float64(10),
						"absent": nil,
					},
				},
			},
		},
	}
	decoded, err := Decode(Encode(layers))
	if err != nil {
		t.Fatal(err)
	}
	f := decoded[0].Features[0]
	if _, ok := f.Properties["absent"]; ok {
		t.Error("nil-valued property should be omitted, found it in decoded output")
	}
	if len(f.Properties) != 1 {
		t.Errorf("got %d properties, want 1", len(f.Properties))
	}
}

func TestEncodePolygonRingClosesOnDecode(t *testing.T) {
	layers := []Layer{
		{
			Name: "polys",
			Features: []Feature{
				{
					Type:  GeomPolygon,
					Lines: [][][2]int32{{{0, 0}, {10, 0}, {10, 10}, {0, 10}}},
				},
			},
		},
	}
	decoded, err := Decode(Encode(layers))
	if err != nil {
		t.Fatal(err)
	}
	ring := decoded[0].Features[0].Lines[0]
	if ring[0] != ring[len(ring)-1] {
		t.Errorf("ring does not close: first=%v last=%v", ring[0], ring[len(ring)-1])
	}
}

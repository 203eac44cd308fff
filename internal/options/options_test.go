package options

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := GlobalContourOptions{
		Thresholds: map[int][]float64{
			9:  {500, 100},
			12: {50, 10, 5},
		},
		ContourLayer:   "contours",
		ElevationKey:   "ele",
		LevelKey:       "level",
		Extent:         4096,
		Buffer:         1,
		Overzoom:       2,
		SubsampleBelow: 128,
		Multiplier:     3.28084,
		Encoding:       "terrarium",
	}

	encoded := Encode(g)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(g, decoded) {
		t.Errorf("round trip mismatch:\n  original: %+v\n  decoded:  %+v", g, decoded)
	}
}

func TestEncodeSortsKeysLexicographically(t *testing.T) {
	g := GlobalContourOptions{ContourLayer: "c", ElevationKey: "e", Extent: 4096}
	got := Encode(g)
	want := "contourLayer=c&elevationKey=e&extent=4096"
	if got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

func TestEncodeThresholdsFormat(t *testing.T) {
	g := GlobalContourOptions{Thresholds: map[int][]float64{11: {20, 10}, 14: {5}}}
	got := Encode(g)
	want := "thresholds=" + escapedTildeThresholds
	if got != want {
		t.Errorf("Encode = %q, want %q", got, want)
	}
}

// escapedTildeThresholds is "11*20*10~14*5" URL-escaped (url.QueryEscape
// turns each '*' into "%2A" and leaves '~' untouched — spelled out so the
// expectation doesn't silently depend on net/url's behavior).
const escapedTildeThresholds = "11%2A20%2A10~14%2A5"

func TestDecodeRejectsUnknownKey(t *testing.T) {
	if _, err := Decode("bogus=1"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestForZoomPicksHighestApplicableThreshold(t *testing.T) {
	g := GlobalContourOptions{
		Thresholds: map[int][]float64{
			9:  {500},
			12: {100},
		},
	}
	if got := g.ForZoom(10).Levels; !reflect.DeepEqual(got, []float64{500}) {
		t.Errorf("ForZoom(10).Levels = %v, want [500]", got)
	}
	if got := g.ForZoom(14).Levels; !reflect.DeepEqual(got, []float64{100}) {
		t.Errorf("ForZoom(14).Levels = %v, want [100]", got)
	}
	if got := g.ForZoom(5).Levels; got != nil {
		t.Errorf("ForZoom(5).Levels = %v, want nil (below any threshold)", got)
	}
}

func TestEncodeIndividualUsesCommaSeparator(t *testing.T) {
	o := ContourOptions{ContourLayer: "c", Extent: 4096}
	got := EncodeIndividual(o)
	want := "contourLayer=c,extent=4096"
	if got != want {
		t.Errorf("EncodeIndividual = %q, want %q", got, want)
	}
}

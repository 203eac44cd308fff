package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/elevatio/contourtile/internal/dem"
	"github.com/elevatio/contourtile/internal/fetch"
	"github.com/elevatio/contourtile/internal/mvt"
	"github.com/elevatio/contourtile/internal/options"
	"github.com/elevatio/contourtile/internal/rasterdecode"
)

// singleTileFetcher serves one fixed PNG payload for a single tile
// coordinate and fetch.ErrNotFound for everything else, so every neighbor
// of the center tile is missing and samples into it are NaN.
type singleTileFetcher struct {
	z, x, y int
	data    []byte
}

func (f *singleTileFetcher) Fetch(ctx context.Context, z, x, y int) ([]byte, error) {
	if z == f.z && x == f.x && y == f.y {
		return f.data, nil
	}
	return nil, fetch.ErrNotFound
}

func encodeTerrariumPNG(t *testing.T, width, height int, elevations []float64) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, e := range elevations {
		r, g, b := dem.EncodeTerrariumPixel(e)
		img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2], img.Pix[i*4+3] = r, g, b, 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// TestFetchContourTileEndToEnd reproduces the worked scenario of a 4x4
// elevation grid with a single raised interior 2x2 block, upsampled until
// it is at least 100 pixels wide and traced at interval 10 with no
// neighbor buffer.
func TestFetchContourTileEndToEnd(t *testing.T) {
	elevations := []float64{
		5, 5, 5, 5,
		5, 15, 15, 5,
		5, 15, 15, 5,
		5, 5, 5, 5,
	}
	data := encodeTerrariumPNG(t, 4, 4, elevations)

	z, x, y := 11, 328, 790
	fetcher := &singleTileFetcher{z: z, x: x, y: y, data: data}
	p := New(fetcher, rasterdecode.PNG, dem.Terrarium, 14, 16)

	opts := options.ContourOptions{
		Levels:         []float64{10},
		ContourLayer:   "c",
		ElevationKey:   "e",
		LevelKey:       "l",
		Extent:         4096,
		Buffer:         0,
		SubsampleBelow: 100,
		Multiplier:     1,
	}

	out, err := p.FetchContourTile(context.Background(), "http://example/tiles/11/328/790", z, x, y, opts)
	if err != nil {
		t.Fatalf("FetchContourTile: %v", err)
	}

	layers, err := mvt.Decode(out)
	if err != nil {
		t.Fatalf("mvt.Decode: %v", err)
	}
	if len(layers) != 1 {
		t.Fatalf("got %d layers, want 1", len(layers))
	}
	layer := layers[0]
	if layer.Name != "c" || layer.Extent != 4096 {
		t.Errorf("layer = %+v, want name=c extent=4096", layer)
	}
	if len(layer.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(layer.Features))
	}
	f := layer.Features[0]
	if f.Properties["e"] != float64(10) {
		t.Errorf("e = %v, want 10", f.Properties["e"])
	}
	if f.Properties["l"] != int64(0) && f.Properties["l"] != int(0) {
		t.Errorf("l = %v (%T), want 0", f.Properties["l"], f.Properties["l"])
	}

	var sumX, sumY, n float64
	for _, part := range f.Lines {
		for _, pt := range part {
			sumX += float64(pt[0])
			sumY += float64(pt[1])
			n++
		}
	}
	if n == 0 {
		t.Fatal("no geometry points produced")
	}
	cx, cy := sumX/n, sumY/n
	if math.Abs(cx-2049) > 5 || math.Abs(cy-2052) > 5 {
		t.Errorf("centroid = (%v, %v), want approximately (2049, 2052)", cx, cy)
	}
}

func TestFetchContourTileEmptyLevels(t *testing.T) {
	fetcher := &singleTileFetcher{}
	p := New(fetcher, rasterdecode.PNG, dem.Terrarium, 14, 16)
	out, err := p.FetchContourTile(context.Background(), "http://example/tiles/1/1/1", 1, 1, 1, options.ContourOptions{})
	if err != nil {
		t.Fatalf("FetchContourTile: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d bytes, want 0 (empty levels short-circuit)", len(out))
	}
}

func TestFetchContourTileMissingCenter(t *testing.T) {
	fetcher := &singleTileFetcher{z: -1, x: -1, y: -1}
	p := New(fetcher, rasterdecode.PNG, dem.Terrarium, 14, 16)
	opts := options.ContourOptions{Levels: []float64{10}, Extent: 4096, Multiplier: 1}
	out, err := p.FetchContourTile(context.Background(), "http://example/tiles/1/1/1", 1, 1, 1, opts)
	if err != nil {
		t.Fatalf("FetchContourTile: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d bytes, want 0 (missing center)", len(out))
	}
}

func TestLevelIndexPicksHighestDivisor(t *testing.T) {
	levels := []float64{10, 50, 100}
	if got := levelIndex(100, levels); got != 2 {
		t.Errorf("levelIndex(100) = %d, want 2", got)
	}
	if got := levelIndex(50, levels); got != 1 {
		t.Errorf("levelIndex(50) = %d, want 1", got)
	}
	if got := levelIndex(30, levels); got != 0 {
		t.Errorf("levelIndex(30) = %d, want 0", got)
	}
	if got := levelIndex(7, levels); got != 0 {
		t.Errorf("levelIndex(7) = %d, want 0 (none divide evenly, falls back)", got)
	}
}

// Package pipeline implements the end-to-end contour tile request: fetch
// the nine source-zoom neighbor tiles, decode and stitch them into one
// height field, trace isolines, and encode the result as an MVT.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/elevatio/contourtile/internal/dem"
	"github.com/elevatio/contourtile/internal/fetch"
	"github.com/elevatio/contourtile/internal/heightfield"
	"github.com/elevatio/contourtile/internal/isoline"
	"github.com/elevatio/contourtile/internal/mvt"
	"github.com/elevatio/contourtile/internal/options"
	"github.com/elevatio/contourtile/internal/rasterdecode"
	"github.com/elevatio/contourtile/internal/tilecoord"

	"github.com/elevatio/contourtile/internal/cache"
)

// emptyTile is the canonical zero-length MVT returned whenever a request
// resolves to no contours — an empty layer list encodes to zero bytes.
var emptyTile = mvt.Encode(nil)

// Pipeline owns the three caching tiers (raw bytes, decoded grids,
// rendered tiles) and the external fetch/decode collaborators they wrap.
type Pipeline struct {
	Fetcher  fetch.Fetcher
	Format   rasterdecode.Format
	Encoding dem.Encoding
	MaxZoom  int

	rawCache    *cache.Cache[tilecoord.Key, []byte]
	gridCache   *cache.Cache[tilecoord.Key, heightfield.HeightTile]
	renderCache *cache.Cache[string, []byte]
}

// New constructs a Pipeline. cacheSize bounds each of the three cache
// tiers independently.
func New(fetcher fetch.Fetcher, format rasterdecode.Format, encoding dem.Encoding, maxZoom, cacheSize int) *Pipeline {
	return &Pipeline{
		Fetcher:     fetcher,
		Format:      format,
		Encoding:    encoding,
		MaxZoom:     maxZoom,
		rawCache:    cache.New[tilecoord.Key, []byte](cacheSize),
		gridCache:   cache.New[tilecoord.Key, heightfield.HeightTile](cacheSize),
		renderCache: cache.New[string, []byte](cacheSize),
	}
}

// FetchContourTile implements spec.md §4.6's fetch_contour_tile: given a
// request URL (used only as cache-key material, never dereferenced) and
// resolved per-request options, it returns an encoded MVT byte buffer.
func (p *Pipeline) FetchContourTile(ctx context.Context, requestURL string, z, x, y int, opts options.ContourOptions) ([]byte, error) {
	if len(opts.Levels) == 0 {
		return emptyTile, nil
	}

	key := requestURL + "?" + options.EncodeIndividual(opts)
	return p.renderCache.Get(ctx, key, func(ctx context.Context, _ string) ([]byte, error) {
		return p.render(ctx, z, x, y, opts)
	})
}

func (p *Pipeline) render(ctx context.Context, z, x, y int, opts options.ContourOptions) ([]byte, error) {
	srcZ, subZ, div := tilecoord.ResolveSource(z, opts.Overzoom, p.MaxZoom)
	nx, ny, subx, suby := tilecoord.CenterSource(x, y, div)
	neighbors := tilecoord.Neighbors(srcZ, nx, ny)

	var grids [9]heightfield.HeightTile
	var wg sync.WaitGroup
	for i, nb := range neighbors {
		if !nb.OK {
			continue
		}
		wg.Add(1)
		go func(i int, key tilecoord.Key) {
			defer wg.Done()
			tile, err := p.fetchSplitGrid(ctx, key, subZ, subx, suby)
			if err != nil {
				return
			}
			grids[i] = tile
		}(i, nb.Key)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return emptyTile, nil
	}

	stitched, err := heightfield.CombineNeighbors(grids)
	if err != nil {
		if errors.Is(err, heightfield.ErrMissingCenter) {
			return emptyTile, nil
		}
		return nil, err
	}

	subsampleBelow := opts.SubsampleBelow
	field := stitched
	if subsampleBelow > 0 && field.Width() < subsampleBelow {
		for field.Width() < subsampleBelow {
			field = heightfield.SubsamplePixelCenters(field, 2)
			field = heightfield.Materialize(field, 2)
		}
	} else {
		field = heightfield.Materialize(field, 2)
	}

	field = heightfield.AveragePixelCentersToGrid(field, 1)
	field = heightfield.ScaleElevation(field, opts.Multiplier)
	field = heightfield.Materialize(field, 1)

	lines := isoline.Trace(field, opts.Levels[0], opts.Extent, opts.Buffer)

	layer := mvt.Layer{Name: opts.ContourLayer, Extent: uint32(opts.Extent)}
	for ele, polylines := range lines {
		parts := make([][][2]int32, len(polylines))
		for i, pts := range polylines {
			part := make([][2]int32, len(pts)/2)
			for j := range part {
				part[j] = [2]int32{pts[2*j], pts[2*j+1]}
			}
			parts[i] = part
		}
		layer.Features = append(layer.Features, mvt.Feature{
			Type:  mvt.GeomLineString,
			Lines: parts,
			Properties: map[string]interface{}{
				opts.ElevationKey: ele,
				opts.LevelKey:     levelIndex(ele, opts.Levels),
			},
		})
	}

	return mvt.Encode([]mvt.Layer{layer}), nil
}

func (p *Pipeline) fetchSplitGrid(ctx context.Context, key tilecoord.Key, subZ, subx, suby int) (heightfield.HeightTile, error) {
	full, err := p.fetchGrid(ctx, key)
	if err != nil {
		return nil, err
	}
	if subZ == 0 {
		return full, nil
	}
	return heightfield.Split(full, subZ, subx, suby)
}

func (p *Pipeline) fetchGrid(ctx context.Context, key tilecoord.Key) (heightfield.HeightTile, error) {
	return p.gridCache.Get(ctx, key, func(ctx context.Context, key tilecoord.Key) (heightfield.HeightTile, error) {
		raw, err := p.fetchRaw(ctx, key)
		if err != nil {
			return nil, err
		}
		tile, err := rasterdecode.Decode(raw, p.Format, p.Encoding)
		if err != nil {
			return nil, fmt.Errorf("pipeline: decoding %+v: %w", key, err)
		}
		return heightfield.FromRaw(tile), nil
	})
}

func (p *Pipeline) fetchRaw(ctx context.Context, key tilecoord.Key) ([]byte, error) {
	return p.rawCache.Get(ctx, key, func(ctx context.Context, key tilecoord.Key) ([]byte, error) {
		return p.Fetcher.Fetch(ctx, key.Z, key.X, key.Y)
	})
}

// levelIndex finds the highest index i for which ele is (within floating
// point tolerance) a multiple of levels[i], or 0 if none divide evenly.
func levelIndex(ele float64, levels []float64) int {
	const epsilon = 1e-6
	for i := len(levels) - 1; i >= 0; i-- {
		d := levels[i]
		if d == 0 {
			continue
		}
		r := math.Mod(math.Abs(ele), d)
		if r < epsilon || d-r < epsilon {
			return i
		}
	}
	return 0
}

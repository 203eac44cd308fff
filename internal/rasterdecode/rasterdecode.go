// Package rasterdecode turns raw source-tile bytes into a decoded
// elevation grid. It is the default "decode" external collaborator: the
// pipeline talks to it only through Decode, so a caller free to swap in a
// different codec (or a GeoTIFF reader, or anything else) never has to
// touch internal/pipeline.
package rasterdecode

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/gen2brain/webp"

	"github.com/elevatio/contourtile/internal/dem"
)

// Format names a source tile's container format, independent of its
// elevation encoding.
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
)

// ParseFormat validates a format name from request options or a source
// template's file extension.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PNG, WebP:
		return Format(s), nil
	default:
		return "", fmt.Errorf("rasterdecode: unsupported format %q (supported: png, webp)", s)
	}
}

// Decode decodes a raster tile's bytes in the given container format and
// elevation encoding into a dem.Tile.
func Decode(data []byte, format Format, enc dem.Encoding) (*dem.Tile, error) {
	img, err := decodeImage(data, format)
	if err != nil {
		return nil, fmt.Errorf("rasterdecode: %w", err)
	}

	rgba := toRGBA(img)
	bounds := rgba.Bounds()
	return dem.Decode(rgba.Pix, bounds.Dx(), bounds.Dy(), enc)
}

func decodeImage(data []byte, format Format) (image.Image, error) {
	r := bytes.NewReader(data)
	switch format {
	case PNG:
		return png.Decode(r)
	case WebP:
		return webp.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported raster format %q", format)
	}
}

// toRGBA normalizes any decoded image to *image.RGBA so dem.Decode always
// sees a tight 4-byte-per-pixel buffer, regardless of the source codec's
// native color model.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Bounds().Dx()*4 {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

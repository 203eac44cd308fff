package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/elevatio/contourtile/internal/dem"
	"github.com/elevatio/contourtile/internal/fetch"
	"github.com/elevatio/contourtile/internal/heightfield"
	"github.com/elevatio/contourtile/internal/rasterdecode"
	"github.com/elevatio/contourtile/internal/tilecoord"
)

func main() {
	if len(os.Args) < 7 {
		fmt.Println("usage: contourdebug <archive-dir> <format: png|webp> <encoding: terrarium|mapbox> <z> <x> <y>")
		os.Exit(1)
	}

	dir := os.Args[1]
	format, err := rasterdecode.ParseFormat(os.Args[2])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	encoding, err := dem.ParseEncoding(os.Args[3])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	z, x, y := atoiOrExit(os.Args[4]), atoiOrExit(os.Args[5]), atoiOrExit(os.Args[6])

	f := fetch.NewArchiveFetcher(dir, string(format))
	raw, err := f.Fetch(context.Background(), z, x, y)
	if err != nil {
		fmt.Printf("Error fetching %d/%d/%d: %v\n", z, x, y, err)
		os.Exit(1)
	}
	fmt.Printf("Fetched: %d bytes\n", len(raw))

	demTile, err := rasterdecode.Decode(raw, format, encoding)
	if err != nil {
		fmt.Printf("Error decoding: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Decoded: %dx%d\n", demTile.Width, demTile.Height)

	tile := heightfield.FromRaw(demTile)
	fmt.Printf("Key: %+v\n", tilecoord.Key{Z: z, X: x, Y: y})

	nanCount := 0
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for py := 0; py < tile.Height(); py++ {
		for px := 0; px < tile.Width(); px++ {
			v := float64(tile.Sample(px, py))
			if math.IsNaN(v) {
				nanCount++
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	total := tile.Width() * tile.Height()
	fmt.Printf("NaN: %d/%d, range: [%.2f, %.2f]\n", nanCount, total, minVal, maxVal)
}

func atoiOrExit(s string) int {
	var v int
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		fmt.Printf("Error: invalid integer %q\n", s)
		os.Exit(1)
	}
	return v
}

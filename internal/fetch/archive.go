package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ArchiveFetcher reads pre-downloaded source tiles from a directory tree
// laid out as "{root}/{z}/{x}/{y}.{ext}", mirroring the file-backed access
// pattern of a directly opened source rather than a network round trip.
// Useful for tests and offline demos.
type ArchiveFetcher struct {
	Root string
	Ext  string
}

// NewArchiveFetcher constructs an ArchiveFetcher rooted at dir, reading
// files with the given extension (e.g. "png", "webp").
func NewArchiveFetcher(dir, ext string) *ArchiveFetcher {
	return &ArchiveFetcher{Root: dir, Ext: ext}
}

func (f *ArchiveFetcher) Fetch(ctx context.Context, z, x, y int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(f.Root, fmt.Sprintf("%d", z), fmt.Sprintf("%d", x), fmt.Sprintf("%d.%s", y, f.Ext))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch: reading %s: %w", path, err)
	}
	return data, nil
}

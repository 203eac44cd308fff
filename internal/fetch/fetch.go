// Package fetch implements the default "fetch" external collaborators: a
// Fetcher retrieves a single source tile's raw bytes given its z/x/y
// coordinate. contourtile's pipeline depends only on this interface, so a
// production deployment can supply any transport (S3, a tile cache, a
// custom proxy) without touching internal/pipeline.
package fetch

import (
	"context"
	"fmt"
)

// Fetcher retrieves the raw bytes of a single source tile. Implementations
// must respect ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, z, x, y int) ([]byte, error)
}

// ErrNotFound is returned by a Fetcher when a tile does not exist at the
// requested coordinate (as opposed to a transport failure).
var ErrNotFound = fmt.Errorf("fetch: tile not found")

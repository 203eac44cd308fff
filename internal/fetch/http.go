package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPFetcher retrieves source tiles over HTTP(S) from a URL template
// containing "{z}", "{x}", and "{y}" placeholders, e.g.
// "https://example.com/terrain/{z}/{x}/{y}.png".
type HTTPFetcher struct {
	Template string
	Client   *http.Client
	Timeout  time.Duration
}

// NewHTTPFetcher constructs an HTTPFetcher with a sane default client and
// per-request timeout.
func NewHTTPFetcher(template string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		Template: template,
		Client:   http.DefaultClient,
		Timeout:  timeout,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, z, x, y int) ([]byte, error) {
	url := expandTemplate(f.Template, z, x, y)

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: building request for %s: %w", url, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: reading body from %s: %w", url, err)
	}
	return body, nil
}

func expandTemplate(template string, z, x, y int) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	)
	return r.Replace(template)
}

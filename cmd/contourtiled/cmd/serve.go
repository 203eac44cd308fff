package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/elevatio/contourtile/internal/dem"
	"github.com/elevatio/contourtile/internal/fetch"
	"github.com/elevatio/contourtile/internal/options"
	"github.com/elevatio/contourtile/internal/pipeline"
	"github.com/elevatio/contourtile/internal/rasterdecode"
	"github.com/elevatio/contourtile/internal/server"
)

func runServe(cmd *cobra.Command, args []string) error {
	source := viper.GetString("source")
	if source == "" {
		return fmt.Errorf("--source is required")
	}

	format, err := rasterdecode.ParseFormat(viper.GetString("source-format"))
	if err != nil {
		return err
	}
	encoding, err := dem.ParseEncoding(viper.GetString("encoding"))
	if err != nil {
		return err
	}

	f, err := buildFetcher(source, string(format))
	if err != nil {
		return err
	}

	thresholds, err := parseThresholds(viper.GetStringSlice("thresholds"))
	if err != nil {
		return fmt.Errorf("parsing --thresholds: %w", err)
	}

	p := pipeline.New(f, format, encoding, viper.GetInt("maxzoom"), viper.GetInt("cache-size"))

	defaults := options.GlobalContourOptions{
		Thresholds:     thresholds,
		ContourLayer:   viper.GetString("contour-layer"),
		ElevationKey:   viper.GetString("elevation-key"),
		LevelKey:       viper.GetString("level-key"),
		Extent:         viper.GetInt("extent"),
		Buffer:         viper.GetInt("buffer"),
		Overzoom:       viper.GetInt("overzoom"),
		SubsampleBelow: viper.GetInt("subsample-below"),
		Multiplier:     viper.GetFloat64("multiplier"),
	}

	timeout := viper.GetDuration("timeout")
	srv := server.New(p, defaults, viper.GetInt("workers"))
	defer srv.Close()

	addr := fmt.Sprintf("%s:%d", viper.GetString("bind"), viper.GetInt("port"))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Router(timeout),
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "contourtiled listening on %s\n", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func buildFetcher(source, ext string) (fetch.Fetcher, error) {
	if strings.Contains(source, "{z}") {
		return fetch.NewHTTPFetcher(source, 10*time.Second), nil
	}
	return fetch.NewArchiveFetcher(source, ext), nil
}

// parseThresholds parses CLI threshold entries of the form "z*level[*level...]"
// into the per-zoom table ForZoom resolves requests against.
func parseThresholds(entries []string) (map[int][]float64, error) {
	out := make(map[int][]float64)
	for _, entry := range entries {
		parts := strings.Split(entry, "*")
		if len(parts) < 2 {
			return nil, fmt.Errorf("malformed threshold entry %q", entry)
		}
		z, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("malformed threshold zoom %q: %w", parts[0], err)
		}
		levels := make([]float64, len(parts)-1)
		for i, p := range parts[1:] {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed threshold level %q: %w", p, err)
			}
			levels[i] = v
		}
		out[z] = levels
	}
	return out, nil
}

// Package server is the ambient HTTP front door over internal/pipeline:
// a chi-routed handler translating "GET /tiles/{z}/{x}/{y}.mvt" requests
// into pipeline calls, bounding CPU-bound work with a fixed worker pool.
package server

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/elevatio/contourtile/internal/options"
	"github.com/elevatio/contourtile/internal/pipeline"
)

// Server holds the shared pipeline and default tileset options used to
// resolve each request's ContourOptions.
type Server struct {
	Pipeline *pipeline.Pipeline
	Defaults options.GlobalContourOptions

	pool *workerPool
}

// New constructs a Server with a worker pool bounding concurrent CPU-bound
// requests to workers goroutines.
func New(p *pipeline.Pipeline, defaults options.GlobalContourOptions, workers int) *Server {
	return &Server{
		Pipeline: p,
		Defaults: defaults,
		pool:     newWorkerPool(workers),
	}
}

// Close drains the worker pool, waiting for in-flight requests to finish.
func (s *Server) Close() {
	s.pool.Close()
}

// Router builds the chi handler tree: request-id/real-ip/logger/recoverer
// middleware (plus a timeout middleware when timeout > 0), the health
// route, and the tile route.
func (s *Server) Router(timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/tiles/{z}/{x}/{y}.mvt", s.handleTile)
	return r
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	z, x, y, err := parseZXY(chi.URLParam(r, "z"), chi.URLParam(r, "x"), chi.URLParam(r, "y"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := s.Defaults.ForZoom(z)
	if levels, ok := r.URL.Query()["levels"]; ok && len(levels) > 0 {
		parsed, err := parseLevels(levels[0])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts.Levels = parsed
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	s.pool.Submit(func() {
		requestURL := "tile://" + r.URL.Path
		data, err := s.Pipeline.FetchContourTile(r.Context(), requestURL, z, x, y, opts)
		done <- result{data, err}
	})

	select {
	case res := <-done:
		if res.err != nil {
			log.Printf("contourtile: fetch_contour_tile %d/%d/%d: %v", z, x, y, res.err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.mapbox-vector-tile")
		w.Write(res.data)
	case <-r.Context().Done():
		http.Error(w, "request canceled", http.StatusRequestTimeout)
	}
}

func parseZXY(zs, xs, ys string) (z, x, y int, err error) {
	z, err = strconv.Atoi(zs)
	if err != nil {
		return 0, 0, 0, err
	}
	x, err = strconv.Atoi(xs)
	if err != nil {
		return 0, 0, 0, err
	}
	y, err = strconv.Atoi(ys)
	if err != nil {
		return 0, 0, 0, err
	}
	return z, x, y, nil
}

func parseLevels(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Package cmd implements contourtiled's command-line interface: flag/
// env/config-file resolution via cobra+viper, modeled directly on the
// pack's own tile-serving CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "contourtiled",
	Short: "Serve on-demand contour vector tiles",
	Long: `contourtiled fetches raster elevation tiles, traces contour lines
from them, and serves the result as Mapbox Vector Tiles over HTTP.

Examples:
  # Serve from a local tile archive
  contourtiled --source ./terrain --source-format png --encoding terrarium

  # Serve from a remote terrain-RGB tileset
  contourtiled --source https://example.com/terrain/{z}/{x}/{y}.png`,
	RunE: runServe,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.contourtiled.yaml)")

	rootCmd.Flags().String("bind", "localhost", "bind address")
	rootCmd.Flags().Int("port", 8080, "port to listen on")
	rootCmd.Flags().Duration("timeout", 30_000_000_000, "request timeout")

	rootCmd.Flags().String("source", "", "source tile template (URL with {z}/{x}/{y}, or a local archive directory)")
	rootCmd.Flags().String("source-format", "png", "source raster format (png|webp)")
	rootCmd.Flags().String("encoding", "terrarium", "source elevation encoding (terrarium|mapbox)")
	rootCmd.Flags().Int("maxzoom", 14, "maximum source zoom level")
	rootCmd.Flags().Int("cache-size", 512, "max entries per cache tier (raw/grid/render)")
	rootCmd.Flags().Int("workers", 4, "CPU-bound request worker pool size")

	rootCmd.Flags().StringSlice("thresholds", []string{"0*100*20"}, "per-zoom contour thresholds as z*level[*level...]")
	rootCmd.Flags().String("contour-layer", "contours", "output layer name")
	rootCmd.Flags().String("elevation-key", "ele", "elevation property name")
	rootCmd.Flags().String("level-key", "level", "level-tag property name")
	rootCmd.Flags().Int("extent", 4096, "MVT extent")
	rootCmd.Flags().Int("buffer", 1, "pixel buffer into neighboring tiles")
	rootCmd.Flags().Int("overzoom", 0, "zoom levels to crop from a lower-resolution source")
	rootCmd.Flags().Int("subsample-below", 0, "upsample stitched tiles narrower than this")
	rootCmd.Flags().Float64("multiplier", 1, "elevation multiplier (e.g. meters to feet)")

	for _, name := range []string{
		"bind", "port", "timeout",
		"source", "source-format", "encoding", "maxzoom", "cache-size", "workers",
		"thresholds", "contour-layer", "elevation-key", "level-key",
		"extent", "buffer", "overzoom", "subsample-below", "multiplier",
	} {
		viper.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".contourtiled")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

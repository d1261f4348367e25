// Command readpipe reads URLs into structured markdown. It runs either as
// a one-shot CLI (read a URL, print or save the report) or as a service
// exposing the pipeline over HTTP and MCP.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/readpipe/browser"
	"github.com/hazyhaar/readpipe/readpipe"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "readpipe",
	Short: "readpipe — turn URLs into clean structured markdown",
	Long: `readpipe classifies a URL as HTML or PDF, fetches it through a rendering
browser or a plain download, extracts the main content and metadata, mines
academic references, and emits a markdown report.

Examples:
  readpipe read https://example.com/article
  readpipe read https://arxiv.org/pdf/2301.00001 --save paper
  readpipe serve --mcp`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging(flagLogLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "readpipe.yaml", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}

// loadAppConfig resolves the config file, treating the default location as
// optional and an explicit --config as required.
func loadAppConfig(cmd *cobra.Command) (*appConfig, error) {
	required := cmd.Flags().Changed("config") || rootCmd.PersistentFlags().Changed("config")
	cfg, err := loadConfig(flagConfig, required)
	if err != nil {
		return nil, err
	}
	if flagLogLevel == "" && cfg.LogLevel != "" {
		setupLogging(cfg.LogLevel)
	}
	return cfg, nil
}

// buildPipeline wires a pipeline from the app config.
func buildPipeline(cfg *appConfig, obs readpipe.Observer) *readpipe.Pipeline {
	var rendererOpts []browser.Option
	if cfg.UserAgent != "" {
		rendererOpts = append(rendererOpts, browser.WithUserAgent(cfg.UserAgent))
	}
	if cfg.Locale != "" && cfg.Timezone != "" {
		rendererOpts = append(rendererOpts, browser.WithLocale(cfg.Locale, cfg.Timezone))
	}
	rendererOpts = append(rendererOpts, browser.WithNavTimeout(cfg.HTMLTimeout))

	return readpipe.New(readpipe.Config{
		Renderer:    browser.New(rendererOpts...),
		HTMLTimeout: cfg.HTMLTimeout,
		PDFTimeout:  cfg.PDFTimeout,
		Observer:    obs,
	})
}

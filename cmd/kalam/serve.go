package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ayusman/kalam/internal/app"
	"github.com/ayusman/kalam/internal/metrics"
	"github.com/ayusman/kalam/internal/plugin"
	"github.com/ayusman/kalam/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	plugins := plugin.NewManager(cfg.PluginDir)
	if err := plugins.Discover(); err != nil {
		log.Warn().Err(err).Str("dir", cfg.PluginDir).Msg("plugin discovery failed")
	}
	log.Info().Int("plugins", len(plugins.List())).Str("dir", cfg.PluginDir).Msg("plugins discovered")

	hub := server.NewHub()
	a := app.New(app.Config{
		Persister: st,
		Runner:    plugin.NewRunner(plugins, plugin.NewExecutor(time.Duration(cfg.PluginTimeoutMS)*time.Millisecond)),
		Metrics:   metrics.New(),
		Events:    hub,
		States:    cfg.StateCount,
		Cycles:    &cfg.TrainCycles,
		Training:  cfg.Training,
	})
	if err := a.Load(ctx); err != nil {
		return fmt.Errorf("failed to load letters: %w", err)
	}

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir(cfg.DataDir)
	}
	if staticDir != "" {
		log.Info().Str("dir", staticDir).Msg("serving static files")
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		App:       a,
		Events:    hub,
		Plugins:   plugins,
		Gatherer:  prometheus.DefaultGatherer,
	})
	return srv.Run(ctx, cfg.Addr)
}

// findWebDir searches for a web UI in "web", "../web" and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}

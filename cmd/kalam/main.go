// Package main provides the CLI entrypoint for kalam.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ayusman/kalam/internal/app"
	"github.com/ayusman/kalam/internal/boltstore"
	"github.com/ayusman/kalam/internal/config"
	"github.com/ayusman/kalam/internal/logging"
	"github.com/ayusman/kalam/internal/store"
)

var configPath string

func main() {
	// A missing .env is fine; anything else is worth a warning.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "kalam",
		Short:        "Air-writing letter recognizer",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default: $KALAM_CONFIG)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTrainCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newLettersCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

// loadConfig reads the configuration and sets up logging.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, err
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogPretty); err != nil {
		return nil, err
	}
	return cfg, nil
}

// persister is an app.Persister that owns a database handle.
type persister interface {
	app.Persister
	Close() error
}

// openStore opens the database selected by cfg.StorageDriver, creating the
// data directory if needed.
func openStore(cfg *config.Config) (persister, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	path := cfg.DatabasePath()
	log.Debug().Str("driver", cfg.StorageDriver).Str("path", path).Msg("opening store")

	switch cfg.StorageDriver {
	case config.DriverBolt:
		st, err := boltstore.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		return st, nil
	default:
		st, err := store.New(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return st, nil
	}
}

func closeStore(st persister) {
	if err := st.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close store")
	}
}

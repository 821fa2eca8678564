package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/kalam/internal/app"
	"github.com/ayusman/kalam/internal/letters"
)

var exportFormat string

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored letter to stdout",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or yaml")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	if exportFormat != "json" && exportFormat != "yaml" {
		return fmt.Errorf("unknown format %q", exportFormat)
	}

	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	snap, err := st.LoadSnapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load letters: %w", err)
	}
	return writeSnapshot(cmd.OutOrStdout(), snap, exportFormat)
}

func writeSnapshot(w io.Writer, snap letters.Snapshot, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the stored letters with a JSON or YAML snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	snap, err := readSnapshot(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	a := app.New(app.Config{Persister: st, States: cfg.StateCount, Cycles: &cfg.TrainCycles})
	if err := a.Import(cmd.Context(), snap); err != nil {
		return fmt.Errorf("failed to import %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d letters\n", len(a.Letters()))
	return nil
}

// readSnapshot parses a snapshot file. YAML is a superset of JSON, so one
// decoder covers both export formats.
func readSnapshot(path string) (letters.Snapshot, error) {
	var snap letters.Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return snap, nil
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/kalam/internal/client"
)

const clientTimeout = 10 * time.Second

var (
	trainLabel   string
	trainFile    string
	classifyFile string
	serverURL    string
)

// gestureFile is a recorded stroke. JSON files parse as YAML too.
type gestureFile struct {
	X []float64 `yaml:"x"`
	Y []float64 `yaml:"y"`
}

func readGesture(path string) (*gestureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gesture: %w", err)
	}
	var g gestureFile
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to parse gesture %s: %w", path, err)
	}
	if len(g.X) == 0 || len(g.Y) == 0 {
		return nil, fmt.Errorf("gesture %s: x and y must not be empty", path)
	}
	return &g, nil
}

func newClient(cmd *cobra.Command) (*client.Client, error) {
	base := serverURL
	if base == "" {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return nil, err
		}
		base = cfg.ServerURL
	}
	return client.New(base, clientTimeout), nil
}

func addServerFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serverURL, "server", "", "server URL (default: server_url from config)")
}

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Add a recorded gesture as an example of a letter",
		Args:  cobra.NoArgs,
		RunE:  runTrainCmd,
	}
	cmd.Flags().StringVar(&trainLabel, "label", "", "letter to train")
	cmd.Flags().StringVar(&trainFile, "file", "", "gesture file (JSON or YAML with x and y)")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("file")
	addServerFlag(cmd)
	return cmd
}

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	g, err := readGesture(trainFile)
	if err != nil {
		return err
	}
	c, err := newClient(cmd)
	if err != nil {
		return err
	}

	s, err := c.AddExample(cmd.Context(), trainLabel, g.X, g.Y)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d examples (%d/%d states)\n", s.Label, s.Examples, s.StatesX, s.StatesY)
	return nil
}

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a recorded gesture",
		Args:  cobra.NoArgs,
		RunE:  runClassifyCmd,
	}
	cmd.Flags().StringVar(&classifyFile, "file", "", "gesture file (JSON or YAML with x and y)")
	_ = cmd.MarkFlagRequired("file")
	addServerFlag(cmd)
	return cmd
}

func runClassifyCmd(cmd *cobra.Command, _ []string) error {
	g, err := readGesture(classifyFile)
	if err != nil {
		return err
	}
	c, err := newClient(cmd)
	if err != nil {
		return err
	}

	out, err := c.Classify(cmd.Context(), g.X, g.Y)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LETTER\tSCORE")
	for _, cand := range out.Candidates {
		fmt.Fprintf(w, "%s\t%.4f\n", cand.Label, cand.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if out.Action != nil && out.Action.Error != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "action %s/%s failed: %s\n", out.Action.Plugin, out.Action.Action, out.Action.Error)
	}
	return nil
}

func newLettersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "letters",
		Short: "List trained letters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			list, err := c.Letters(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LETTER\tEXAMPLES\tSTATES")
			for _, l := range list {
				fmt.Fprintf(w, "%s\t%d\t%d/%d\n", l.Label, l.Examples, l.StatesX, l.StatesY)
			}
			return w.Flush()
		},
	}
	addServerFlag(cmd)
	return cmd
}

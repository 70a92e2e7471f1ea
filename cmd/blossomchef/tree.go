package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/blossomchef/internal/config"
	"github.com/nao1215/blossomchef/internal/pipeline"
	"github.com/nao1215/blossomchef/internal/report"
)

// NewTreeCmd creates the tree command.
func NewTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Inspect the persisted trees",
		Long: `Tree prints a Markdown summary of the content tree in the data directory.

Examples:
  # Summary of content_tree.json
  blossomchef tree

  # Outline of the first two levels
  blossomchef tree --outline --depth 2

  # Per-language counts of raw_resource_tree.json
  blossomchef tree --raw`,
		Args: cobra.NoArgs,
		RunE: runTreeCmd,
	}

	cmd.Flags().StringP("data-dir", "d", config.DefaultDataDir,
		"Directory holding the tree artifacts")
	cmd.Flags().Bool("raw", false,
		"Inspect the raw resource tree instead of the content tree")
	cmd.Flags().Bool("outline", false,
		"Print an outline of the content tree instead of the summary")
	cmd.Flags().Int("depth", 0,
		"Number of outline levels to print (0 = all)")

	return cmd
}

func runTreeCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	dataDir, err := flags.GetString("data-dir")
	if err != nil {
		return err
	}
	raw, err := flags.GetBool("raw")
	if err != nil {
		return err
	}
	outline, err := flags.GetBool("outline")
	if err != nil {
		return err
	}
	depth, err := flags.GetInt("depth")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	cfg.DataDir = dataDir
	out := cmd.OutOrStdout()

	if raw {
		tree, err := pipeline.LoadResourceTree(cfg.RawTreePath())
		if err != nil {
			return err
		}
		_, err = report.NewSimpleWriter(out).WriteRaw(tree)
		return err
	}

	ch, err := pipeline.LoadChannel(cfg.ContentTreePath())
	if err != nil {
		return err
	}
	if outline {
		_, err = report.NewSimpleWriter(out,
			report.WithMaxDepth(depth),
			report.WithVerbose(getVerboseFlag(cmd)),
		).WriteTree(ch)
		return err
	}

	summary, err := report.NewSummary(ch)
	if err != nil {
		return fmt.Errorf("failed to summarize %s: %w", filepath.Base(cfg.ContentTreePath()), err)
	}
	_, err = report.NewMarkdownWriter(out).Write(summary)
	return err
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for blossomchef.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blossomchef",
		Short: "Import MIT Blossoms video lessons as a content channel",
		Long: `blossomchef crawls the MIT Blossoms lesson site, scrapes every lesson page
and merges the per-language listings into one content tree.

The import runs in stages. Each stage persists its result in the data
directory so later stages can be rerun on their own:
  crawl    discover languages, topics, clusters and lessons
  scrape   extract lesson pages and build the content tree
  channel  validate the content tree and write the channel summary`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewTreeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

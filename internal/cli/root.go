// Package cli provides the Cobra command structure for wscpublish.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/WarpspeedSCP/wscpublish/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// rootOptions holds the global flags shared by all subcommands.
type rootOptions struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root wscpublish command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "wscpublish",
		Short: "A Markdown-to-HTML compiler for publishing",
		Long: `wscpublish compiles Markdown sources into semantic HTML documents.

It implements a pragmatic Markdown dialect with raw HTML and script
passthrough, fenced code with language classes, nested lists and quotes,
and '+++' frontmatter handled by the surrounding publishing pipeline.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newBuildCommand(opts))
	rootCmd.AddCommand(newTokensCommand(opts))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// Package main provides the lexdrift CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lexdrift",
	Short: "Semantic-change detection over time-sliced word embeddings",
	Long: `lexdrift measures how much a word's meaning shifted between two
time periods. It extracts contextual embeddings for target words from
time-sliced corpora, clusters each word's pooled embeddings into sense
clusters, and scores the shift in sense usage between the two periods
with Jensen-Shannon divergence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "podcastogist",
	Short: "Podcast processing pipeline: transcription plus AI content generation",
	Long: `podcastogist turns uploaded podcast audio into generated content.
- serve runs the HTTP API that accepts uploads and pipeline events
- worker runs the Temporal worker that executes the processing workflows
- process runs a single project through the pipeline locally with fixtures`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"github.com/spf13/cobra"
)

const app = "matchfeed"

var (
	dataDir  string
	debug    bool
	jsonLogs bool

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "Swipe-feed matching engine",
		Long:  "Fetches candidate profiles from every configured source, scores them against the subject and serves a ranked, deduplicated feed.",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $MATCHFEED_DATA_DIR or .)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log in json instead of console encoding")
}

package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repcrecd <subcommand>",
	Short: "runs replicated, snapshot-isolated transaction scripts",
	Long:  `repcrecd drives a ten-site replicated key-value store through a textual transaction script, applying snapshot isolation with a serialization-graph commit check.`,
	Run:   nil,
}

func init() {
	cobra.OnInitialize()
	rootCmd.PersistentFlags().StringP("config-file", "c", "", "Path to the config file (eg ./config.yaml) [Optional]")
}

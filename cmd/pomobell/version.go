package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pomobell/internal/config"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pomobell",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pomobell version %s\n", Version)
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the supported POMOBELL_* environment variables",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, envCmd)
}

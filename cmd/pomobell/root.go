package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"pomobell/internal/client"
	"pomobell/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "pomobell",
	Short:         "Interval timer and pomodoro cycles with desktop notifications",
	Long:          `pomobell runs one notification regime at a time: a repeating interval timer or a pomodoro work/break cycle.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (env POMOBELL_* overrides it)")
	rootCmd.PersistentFlags().String("server", "", "Address of a running pomobell server (default: server.addr from config)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newClient(cmd *cobra.Command) (*client.Client, error) {
	addr, _ := cmd.Flags().GetString("server")
	if addr == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		addr = cfg.Server.Addr
	}
	return client.New(addr), nil
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

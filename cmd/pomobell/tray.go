package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pomobell/internal/app"
	"pomobell/internal/app/gui"
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Run the desktop app in the system tray",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("server"); addr != "" {
			cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = rt.Close()
		}()
		rt.StartPersistence(context.WithoutCancel(ctx))

		serve, _ := cmd.Flags().GetBool("serve")
		volume, _ := cmd.Flags().GetFloat64("volume")
		return gui.Run(ctx, rt, gui.Options{Serve: serve, Volume: volume})
	},
}

func init() {
	rootCmd.AddCommand(trayCmd)

	trayCmd.Flags().Bool("serve", false, "Also expose the HTTP API so CLI commands can control the tray app")
	trayCmd.Flags().Float64("volume", 0, "Sound volume adjustment (beep exponential scale)")
}

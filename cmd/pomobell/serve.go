package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pomobell/internal/app"
	"pomobell/internal/notify"
	"pomobell/internal/sound"
	"pomobell/resources"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler headless behind the HTTP API",
	Long: `Starts the scheduler without a desktop. Commands arrive over HTTP, every status
broadcast is mirrored into the status store, and notifications are logged
(and played when --sound is set).`,
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

		var notifiers []notify.Notifier
		if withSound, _ := cmd.Flags().GetBool("sound"); withSound {
			volume, _ := cmd.Flags().GetFloat64("volume")
			notifiers = append(notifiers, sound.NewPlayer(resources.Sounds(), volume, rt.Logger))
		}
		rt.SetNotifier(notifiers...)
		rt.StartPersistence(context.WithoutCancel(ctx))

		return rt.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("sound", false, "Play notification sounds on this machine")
	serveCmd.Flags().Float64("volume", 0, "Sound volume adjustment (beep exponential scale)")
}

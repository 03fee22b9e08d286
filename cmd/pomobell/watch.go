package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"pomobell/internal/dto"
	"pomobell/internal/ui/terminal"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live countdown in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		initial, err := c.Status(ctx)
		if err != nil {
			return err
		}

		events := make(chan dto.Event, 16)
		streamErr := make(chan error, 1)
		go func() {
			defer close(events)
			streamErr <- c.Events(ctx, func(event dto.Event) error {
				select {
				case events <- event:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		}()

		err = terminal.Run(ctx, events, terminal.Options{
			Initial: initial,
			Reset: func() error {
				return c.ResetTimer(context.WithoutCancel(ctx))
			},
		})
		stop()
		if err != nil {
			return err
		}
		if err := <-streamErr; err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pomobell/internal/app"
	"pomobell/internal/dto"
	"pomobell/internal/logging"
	"pomobell/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current status as JSON",
	Long: `Prints the live status from the running server. With --last the persisted
timerStatus snapshot is printed instead; --store reads it straight from the
configured status store without a server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetBool("last")
		fromStore, _ := cmd.Flags().GetBool("store")

		var (
			status *dto.Status
			err    error
		)
		switch {
		case fromStore:
			status, err = loadStoredStatus(cmd)
		case last:
			c, clientErr := newClient(cmd)
			if clientErr != nil {
				return clientErr
			}
			status, err = c.LastStatus(cmd.Context())
		default:
			c, clientErr := newClient(cmd)
			if clientErr != nil {
				return clientErr
			}
			status, err = c.Status(cmd.Context())
		}

		if errors.Is(err, storage.ErrNoStatus) {
			status, err = nil, nil
		}
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), status)
	},
}

func loadStoredStatus(cmd *cobra.Command) (*dto.Status, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	store, closeStore, err := app.OpenStore(cmd.Context(), cfg.Redis, logging.NewNop())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closeStore()
	}()
	return store.Load(cmd.Context())
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("last", false, "Print the persisted status from the server")
	statusCmd.Flags().Bool("store", false, "Read the persisted status directly from the status store")
}

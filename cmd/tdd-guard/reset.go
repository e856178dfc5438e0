package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/michael-freling/claude-tdd-guard/internal/storage"
)

func newResetCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear stored evidence",
		Long: `Deletes the stored test, lint, todo, and modification evidence and any reminders.
The per-session guard state is kept unless --all is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var keep []storage.Key
			if !all {
				keep = append(keep, storage.KeyConfig)
			}

			store := storage.NewFileStorage(cfg.DataDir)
			if err := storage.Reset(store, keep...); err != nil {
				return fmt.Errorf("failed to reset %s: %w", store.DataDir(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset evidence in %s\n", store.DataDir())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "also clear the guard on/off state")

	return cmd
}

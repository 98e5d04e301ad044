package main

import (
	"time"

	"github.com/spf13/cobra"

	clierrors "github.com/lmspick-dev/lmspick/internal/errors"
	"github.com/lmspick-dev/lmspick/internal/history"
	"github.com/lmspick-dev/lmspick/internal/output"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recently picked files",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryClearCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recent picks, newest first",
		Long:  `Display recently picked file paths with timestamps, newest first.`,
		Example: `  lmspick history list
  lmspick history list --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			picks, err := history.Load()
			if err != nil {
				return clierrors.ConfigFailed("read history", err)
			}

			if out.JSON {
				return out.PrintJSON(picks)
			}

			if len(picks) == 0 {
				out.Muted("No picks recorded yet.")
				return nil
			}

			for _, p := range picks {
				if p.Store != "" {
					out.Print("%s  %s  (%s)\n", p.PickedAt.Format(time.RFC3339), p.Path, p.Store)
				} else {
					out.Print("%s  %s\n", p.PickedAt.Format(time.RFC3339), p.Path)
				}
			}

			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Delete the pick history",
		Long:    `Remove the recorded pick history file.`,
		Example: `  lmspick history clear`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if err := history.Clear(); err != nil {
				return clierrors.ConfigFailed("clear history", err)
			}

			out.Success("History cleared")

			return nil
		},
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/lmspick-dev/lmspick/internal/output"
	"github.com/lmspick-dev/lmspick/internal/wizard"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Setup lmspick for first use",
		Long: `Initialize lmspick with a guided setup wizard.

The wizard will:
  1. Prompt for your access token
  2. Validate the connection
  3. Store credentials securely
  4. Configure the store name
  5. Show next steps

If credentials already exist, use --force to overwrite them.`,
		Example: `  lmspick init`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			w := wizard.New(out, force)

			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing credentials without prompting")

	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/lmspick-dev/lmspick/internal/doctor"
	"github.com/lmspick-dev/lmspick/internal/output"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: `Run diagnostic checks to identify configuration and connectivity issues.

Checks performed:
  - Content store connectivity and response time
  - Authentication status and credential source
  - Browser availability for the authorization flow
  - CLI version against latest release`,
		Example: `  lmspick doctor`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			out.Println("lmspick Doctor")
			out.Println("==============")
			out.Println()

			runner := doctor.New()
			results := runner.Run(cmd.Context())

			doctor.RenderResults(results, out.Print, out.Success, out.Warning, out.Failure, out.Muted)

			// Summary
			passed, failed, warnings := doctor.Summary(results)
			out.Println()
			out.Print("%d passed", passed)
			if failed > 0 {
				out.Print(", %d failed", failed)
			}
			if warnings > 0 {
				out.Print(", %d warning(s)", warnings)
			}
			out.Println()

			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	selfupdate "github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/lmspick-dev/lmspick/internal/buildinfo"
	"github.com/lmspick-dev/lmspick/internal/output"
	"github.com/lmspick-dev/lmspick/internal/update"
)

func newUpdateCmd() *cobra.Command {
	var (
		targetVersion string
		force         bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update lmspick to the latest version",
		Long: `Update lmspick to the latest version from GitHub Releases.

Downloads the new binary, verifies its checksum, and replaces the current
executable. If the binary is not writable, sudo is requested automatically.

Set LMSPICK_UPDATE_DISABLED=1 to disable update checks.`,
		Example: `  lmspick update
  lmspick update --version 1.2.3`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			return runUpdate(cmd, out, targetVersion, force)
		},
	}

	cmd.Flags().StringVar(&targetVersion, "version", "", "Install a specific version (e.g. 1.2.3)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Force update even if already up to date")

	return cmd
}

func runUpdate(cmd *cobra.Command, out *output.Writer, targetVersion string, force bool) error {
	if update.IsDisabled() {
		out.Warning("Updates are disabled (LMSPICK_UPDATE_DISABLED is set)")
		return nil
	}

	current := buildinfo.Version
	if current == "dev" && targetVersion == "" {
		// No comparable version to update from; pinning still works.
		out.Warning("Development build — cannot determine current version")
		out.Info("Install a release build: https://github.com/lmspick-dev/lmspick/releases")

		return nil
	}

	updater, err := update.NewUpdater()
	if err != nil {
		return fmt.Errorf("failed to initialize updater: %w", err)
	}

	if targetVersion != "" {
		return installVersion(cmd.Context(), out, updater, strings.TrimPrefix(targetVersion, "v"))
	}

	return installLatest(cmd.Context(), out, updater, current, force)
}

func installLatest(ctx context.Context, out *output.Writer, updater *update.Updater, current string, force bool) error {
	// JSON mode reports the check result and never applies; spinners
	// would corrupt the stdout document anyway.
	if out.JSON {
		info, err := updater.CheckLatest(ctx, current)
		if err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}

		return out.PrintJSON(info)
	}

	spin := out.Spinner("Checking for updates")
	spin.Start()

	info, err := updater.CheckLatest(ctx, current)
	if err != nil {
		spin.StopWithFailure(fmt.Sprintf("Failed to check for updates: %v", err))
		if strings.Contains(err.Error(), "403") {
			out.Info("Set GITHUB_TOKEN to avoid rate limits")
		}

		return fmt.Errorf("update check failed: %w", err)
	}

	if !info.UpdateAvailable && !force {
		spin.StopWithSuccess(fmt.Sprintf("Already up to date (v%s)", current))
		rememberCheck(current, info)

		return nil
	}

	if info.Release == nil {
		spin.StopWithFailure("No release found for this platform")
		return fmt.Errorf("no release found for this platform")
	}

	if info.UpdateAvailable {
		spin.StopWithSuccess(fmt.Sprintf("Update available: v%s → v%s", current, info.LatestVersion))
	} else {
		spin.StopWithSuccess(fmt.Sprintf("Reinstalling v%s", info.LatestVersion))
	}

	if handedOff, err := handOffToSudo(); err != nil || handedOff {
		return err
	}

	spin = out.Spinner(fmt.Sprintf("Downloading v%s", info.LatestVersion))
	spin.Start()

	if err := updater.Apply(ctx, info.Release); err != nil {
		spin.StopWithFailure(fmt.Sprintf("Update failed: %v", err))
		return fmt.Errorf("update failed: %w", err)
	}

	spin.StopWithSuccess(fmt.Sprintf("Updated to v%s", info.LatestVersion))
	if info.ReleaseURL != "" {
		out.Muted("Release notes: %s", info.ReleaseURL)
	}

	rememberCheck(current, info)

	return nil
}

func installVersion(ctx context.Context, out *output.Writer, updater *update.Updater, version string) error {
	if handedOff, err := handOffToSudo(); err != nil || handedOff {
		return err
	}

	var spin *output.Spinner
	if !out.JSON {
		spin = out.Spinner(fmt.Sprintf("Installing v%s", version))
		spin.Start()
	}

	release, err := updater.ApplyVersion(ctx, version)
	if err != nil {
		if spin != nil {
			spin.StopWithFailure(fmt.Sprintf("Failed to install v%s: %v", version, err))
		}
		if strings.Contains(err.Error(), "not found") {
			out.Info("Check available versions at https://github.com/lmspick-dev/lmspick/releases")
		}

		return fmt.Errorf("install failed: %w", err)
	}

	if spin != nil {
		spin.StopWithSuccess(fmt.Sprintf("Installed v%s", release.Version()))
	}

	return nil
}

// handOffToSudo re-execs the updater under sudo when the install
// directory is not writable. True means this process is done and the
// elevated one takes over.
func handOffToSudo() (bool, error) {
	execPath, err := selfupdate.ExecutablePath()
	if err != nil || !update.NeedsElevation(execPath) {
		return false, nil
	}

	if err := update.ReExecWithSudo(); err != nil {
		return false, fmt.Errorf("re-exec updater with sudo: %w", err)
	}

	return true, nil
}

// rememberCheck refreshes the background-check cache so the post-run
// notice does not re-announce a release the user just saw.
func rememberCheck(current string, info *update.Info) {
	_ = update.SaveState(&update.State{
		LastCheckedAt:  time.Now(),
		LatestVersion:  info.LatestVersion,
		CurrentVersion: current,
		ReleaseURL:     info.ReleaseURL,
	})
}

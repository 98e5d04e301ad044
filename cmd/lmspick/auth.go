package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmspick-dev/lmspick/internal/auth"
	"github.com/lmspick-dev/lmspick/internal/config"
	clierrors "github.com/lmspick-dev/lmspick/internal/errors"
	"github.com/lmspick-dev/lmspick/internal/output"
	"github.com/lmspick-dev/lmspick/internal/prompt"
	"github.com/lmspick-dev/lmspick/internal/store"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  `Authenticate against the content store with your access token.`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var tokenFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store your access token",
		Long: `Authenticate against the content store.

Your access token will be stored securely in your system's keyring
(macOS Keychain, Windows Credential Manager, or Linux Secret Service).

You can also set the LMSPICK_TOKEN environment variable.`,
		Example: `  lmspick auth login
  lmspick auth login --token <access-token>`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			prompter := prompt.New(out)

			// Check if already authenticated via env var
			if token := os.Getenv("LMSPICK_TOKEN"); token != "" {
				out.Info("LMSPICK_TOKEN environment variable is set")
				out.Muted("Environment variable takes precedence over stored credentials")
				out.Println()
			}

			var token string
			if tokenFlag != "" {
				token = tokenFlag
			} else {
				// Interactive flow: prompt for the token
				if !prompter.CanPrompt() {
					return clierrors.CannotPrompt("LMSPICK_TOKEN")
				}

				var err error

				token, err = prompt.Token(out)
				if err != nil {
					return fmt.Errorf("read token prompt: %w", err)
				}
			}

			if token == "" {
				return clierrors.TokenEmpty()
			}

			// Validate with spinner
			spin := out.Spinner("Validating access token")
			spin.Start()

			cfg := config.Load()
			client := store.New(token).WithBaseURL(cfg.APIURL())

			identity, err := client.ValidateToken(cmd.Context())
			if err != nil {
				spin.StopWithFailure("Invalid access token")
				return clierrors.AuthFailed(err)
			}

			spin.Stop()

			// Store in keyring
			if err := auth.StoreToken(token); err != nil {
				return clierrors.ConfigFailed("store credentials", err)
			}

			out.Success("Authenticated as %s (Store: %s)", identity.User, identity.Store)

			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "Access token for non-interactive login (prefer LMSPICK_TOKEN env var to avoid shell history exposure)")

	return cmd
}

// AuthStatus represents authentication status for JSON output.
type AuthStatus struct {
	Source string `json:"source"`
	User   string `json:"user"`
	Store  string `json:"store"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long:  `Validate the stored credentials and show which user and store they belong to.`,
		Example: `  lmspick auth status
  lmspick auth status --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			source, client, err := newStoreClient()
			if err != nil {
				return err
			}

			// Validate with spinner
			spin := out.Spinner("Checking credentials")
			spin.Start()

			identity, err := client.ValidateToken(cmd.Context())
			if err != nil {
				spin.StopWithFailure("Credentials invalid")
				return clierrors.TokenInvalid(err)
			}

			spin.StopWithSuccess("Authenticated")

			if out.JSON {
				if err := out.PrintJSON(AuthStatus{
					Source: string(source),
					User:   identity.User,
					Store:  identity.Store,
				}); err != nil {
					return fmt.Errorf("print auth status json: %w", err)
				}

				return nil
			}

			out.Print("Source: %s\n", source)
			out.Print("User:   %s\n", identity.User)
			out.Print("Store:  %s\n", identity.Store)

			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Clear stored credentials",
		Long:    `Remove the access token from the system keyring.`,
		Example: `  lmspick auth logout`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if err := auth.DeleteToken(); err != nil {
				// If the token doesn't exist, that's fine
				if strings.Contains(err.Error(), "not found") {
					out.Muted("No stored credentials found")
					return nil
				}

				return clierrors.ConfigFailed("clear credentials", err)
			}

			out.Success("Logged out successfully")

			if os.Getenv("LMSPICK_TOKEN") != "" {
				out.Println()
				out.Warning("LMSPICK_TOKEN environment variable is still set")
			}

			return nil
		},
	}
}

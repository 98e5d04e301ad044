package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lmspick-dev/lmspick/internal/authwin"
	"github.com/lmspick-dev/lmspick/internal/config"
	clierrors "github.com/lmspick-dev/lmspick/internal/errors"
	"github.com/lmspick-dev/lmspick/internal/history"
	"github.com/lmspick-dev/lmspick/internal/output"
	"github.com/lmspick-dev/lmspick/internal/picker"
	"github.com/lmspick-dev/lmspick/internal/store"
	"github.com/lmspick-dev/lmspick/internal/tui/dialog"
)

// PickResult is the selection for JSON output.
type PickResult struct {
	Path     string    `json:"path"`
	Store    string    `json:"store"`
	PickedAt time.Time `json:"pickedAt"`
}

func newPickCmd() *cobra.Command {
	var (
		storeName string
		startPath string
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Open the file picker",
		Long: `Open the interactive file picker against the content store.

If the store has not been authorized for your token yet, a browser
window opens for the grant; the listing resumes once it completes.
The picked file's path is printed on stdout, so the command composes
with shell pipelines:

  curl -O "$API/files$(lmspick pick)"`,
		Example: `  lmspick pick
  lmspick pick --store "Campus LMS" --path /2024
  lmspick pick --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if !out.Terminal().IsTTY || out.NoInput {
				return &clierrors.CLIError{
					Message: "The file picker needs an interactive terminal",
					Hint:    "Run lmspick from a terminal, without --no-input",
					Code:    clierrors.ExitUsage,
				}
			}

			return runPick(cmd, out, storeName, startPath)
		},
	}

	cmd.Flags().StringVar(&storeName, "store", "", "Store display name (defaults to config store.name)")
	cmd.Flags().StringVar(&startPath, "path", "", "Directory to open in (defaults to config picker.start_path)")

	return cmd
}

func runPick(cmd *cobra.Command, out *output.Writer, storeName, startPath string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	_, client, err := newStoreClient()
	if err != nil {
		return err
	}

	if storeName == "" {
		storeName = cfg.StoreName()
	}
	if storeName == "" {
		return clierrors.StoreRequired()
	}

	if startPath == "" {
		startPath = cfg.StartPath()
	}
	if startPath == "/" {
		// The store addresses its root as the empty string.
		startPath = ""
	}

	// The nonce ties the authorization redirect back to this session.
	nonce := uuid.NewString()

	model := dialog.New(ctx, storeName)

	pk := picker.New(picker.Options{
		Lister:  client,
		Windows: &authwin.BrowserOpener{},
		WindowConfig: authwin.Config{
			AuthorizeURL: func(redirectURI string) string {
				return client.AuthorizeURL(storeName, nonce, redirectURI)
			},
			CallbackPort: cfg.CallbackPort(),
		},
		StartPath: startPath,
		OnState:   model.StateSink(),
		OnSelect:  model.SelectSink(),
		OnCancel:  model.CancelSink(),
	})
	model.SetPicker(pk)

	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	switch {
	case model.Err() != nil:
		return pickError(model.Err(), pk.State().Path, cfg.CallbackPort())

	case model.Canceled():
		return clierrors.PickCancelled()
	}

	path, ok := model.Selection()
	if !ok {
		return clierrors.PickCancelled()
	}

	pick := history.Pick{Path: path, Store: storeName, PickedAt: time.Now()}
	if histErr := history.Record(pick); histErr != nil {
		// History is best-effort; the selection still stands.
		out.Debug("record history: %v", histErr)
	}

	if out.JSON {
		return out.PrintJSON(PickResult{Path: path, Store: storeName, PickedAt: pick.PickedAt})
	}

	out.Print("%s\n", path)

	return nil
}

// pickError maps picker failures onto CLI errors.
func pickError(err error, path string, callbackPort int) error {
	var cliErr *clierrors.CLIError
	if clierrors.As(err, &cliErr) {
		return cliErr
	}

	if store.IsAuthError(err) {
		// A navigation fetch lost authorization mid-session; the picker
		// does not rerun the grant flow for those.
		return clierrors.AuthorizationIncomplete(err)
	}

	msg := err.Error()

	if strings.Contains(msg, "start auth callback listener") {
		return clierrors.CallbackPortBusy(callbackPort, err)
	}

	if strings.Contains(msg, "open authorization window") {
		return clierrors.BrowserNotFound(err)
	}

	return clierrors.ListingFailed(displayRoot(path), err)
}

func displayRoot(path string) string {
	if path == "" {
		return "/"
	}

	return path
}

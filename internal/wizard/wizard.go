// Package wizard provides the initialization wizard for the lmspick CLI.
//
// The wizard guides users through first-time setup:
//  1. Welcome message
//  2. Access token input and validation
//  3. Credential storage
//  4. Store name configuration
//  5. Next steps guidance
package wizard

import (
	"context"
	"fmt"

	"github.com/lmspick-dev/lmspick/internal/auth"
	"github.com/lmspick-dev/lmspick/internal/config"
	"github.com/lmspick-dev/lmspick/internal/output"
	"github.com/lmspick-dev/lmspick/internal/prompt"
	"github.com/lmspick-dev/lmspick/internal/store"
)

// Wizard handles the initialization flow.
type Wizard struct {
	out      *output.Writer
	prompter *prompt.Prompter
	force    bool
}

// New creates a new initialization wizard.
func New(out *output.Writer, force bool) *Wizard {
	return &Wizard{
		out:      out,
		prompter: prompt.New(out),
		force:    force,
	}
}

// Run executes the initialization wizard.
func (w *Wizard) Run(ctx context.Context) error {
	// Welcome
	w.out.Println("Welcome to lmspick!")
	w.out.Println("===================")
	w.out.Println()
	w.out.Println("lmspick browses your LMS content store from the terminal and")
	w.out.Println("prints the path of the file you pick.")
	w.out.Println()

	// Check for existing credentials
	source, existingToken := auth.GetToken()
	if existingToken != "" && !w.force {
		w.out.Warning("Existing credentials found (via %s)", source)

		if !w.prompter.CanPrompt() {
			w.out.Println()
			w.out.Info("Run with --force to overwrite existing credentials")
			return nil
		}

		overwrite, err := w.prompter.Confirm("Overwrite existing credentials?", false)
		if err != nil {
			return err
		}
		if !overwrite {
			w.out.Println()
			w.out.Success("Keeping existing credentials")
			w.showNextSteps()
			return nil
		}
		w.out.Println()
	}

	// Check for non-interactive mode
	if !w.prompter.CanPrompt() {
		w.out.Failure("Cannot run init wizard in non-interactive mode")
		w.out.Println()
		w.out.Info("Either:")
		w.out.Print("  1. Run without --no-input flag\n")
		w.out.Print("  2. Set LMSPICK_TOKEN environment variable\n")
		w.out.Print("  3. Run 'lmspick auth login' interactively\n")
		return nil
	}

	// Get the access token
	w.out.Println("Step 1: Authentication")
	w.out.Println("----------------------")
	w.out.Println("Enter your content store access token.")
	w.out.Muted("Get a token from your LMS account settings.")
	w.out.Println()

	token, err := w.prompter.Password("Access token")
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}

	if token == "" {
		w.out.Failure("Access token cannot be empty")
		return nil
	}

	// Validate with spinner
	w.out.Println()
	spin := w.out.Spinner("Validating access token")
	spin.Start()

	cfg := config.Load()
	c := store.New(token).WithBaseURL(cfg.APIURL())

	identity, err := c.ValidateToken(ctx)
	if err != nil {
		spin.StopWithFailure("Invalid access token")
		w.out.Muted("%s", err.Error())
		return nil
	}

	spin.StopWithSuccess("Authenticated")
	w.out.Print("User:  %s\n", identity.User)
	w.out.Print("Store: %s\n", identity.Store)

	// Store credentials before store configuration (so they persist even if user cancels)
	w.out.Println()
	spin = w.out.Spinner("Storing credentials")
	spin.Start()

	if storeErr := auth.StoreToken(token); storeErr != nil {
		spin.StopWithFailure("Failed to store credentials")
		w.out.Muted("%s", storeErr.Error())
		return nil
	}

	spin.StopWithSuccess("Credentials stored securely")

	// Step 2: Store name
	w.out.Println()
	w.out.Println("Step 2: Store name")
	w.out.Println("------------------")
	w.out.Println("The store name appears in the picker dialog title.")
	w.out.Println()

	if identity.Store != "" && cfg.StoreName() == "" {
		if err := cfg.Set("store.name", identity.Store); err != nil {
			w.out.Warning("Failed to save store name to config: %s", err.Error())
		} else {
			w.out.Success("Store name set to %q", identity.Store)
		}
	} else if cfg.StoreName() != "" {
		w.out.Info("Keeping configured store name %q", cfg.StoreName())
	} else {
		w.out.Info("Set one later with 'lmspick config set store.name <name>'")
	}

	// Success
	w.out.Println()
	w.out.Success("lmspick is ready!")
	w.showNextSteps()

	return nil
}

func (w *Wizard) showNextSteps() {
	w.out.Println()
	w.out.Println("Next steps:")
	w.out.Println("  lmspick doctor     Check your setup")
	w.out.Println("  lmspick pick       Open the file picker")
	w.out.Println("  lmspick --help     See all commands")
}

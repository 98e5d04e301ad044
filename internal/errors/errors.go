// Package errors provides structured CLI error types for lmspick.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// to provide consistent, actionable error output across all commands.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for CLI errors.
const (
	ExitSuccess   = 0  // Successful execution
	ExitGeneral   = 1  // General error
	ExitAuth      = 2  // Authentication or authorization error
	ExitNetwork   = 3  // Network/API error
	ExitConfig    = 4  // Configuration error
	ExitCancelled = 5  // Pick cancelled by the user
	ExitUsage     = 64 // Command line usage error (BSD convention)
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Common error constructors ---

// NotAuthenticated returns an error indicating a missing access token.
func NotAuthenticated() *CLIError {
	return &CLIError{
		Message: "Not authenticated",
		Hint:    "Run 'lmspick auth login' to store an access token",
		Code:    ExitAuth,
	}
}

// AuthFailed returns an error for failed authentication.
func AuthFailed(cause error) *CLIError {
	return &CLIError{
		Message: "Authentication failed",
		Hint:    "Check your token or run 'lmspick auth login'",
		Cause:   cause,
		Code:    ExitAuth,
	}
}

// TokenInvalid returns an error for an invalid stored token.
func TokenInvalid(cause error) *CLIError {
	return &CLIError{
		Message: "Stored token invalid",
		Hint:    "Run 'lmspick auth login' to re-authenticate",
		Cause:   cause,
		Code:    ExitAuth,
	}
}

// TokenEmpty returns an error when the token is empty.
func TokenEmpty() *CLIError {
	return &CLIError{
		Message: "Token cannot be empty",
		Hint:    "Enter a valid token or set LMSPICK_TOKEN environment variable",
		Code:    ExitAuth,
	}
}

// AuthorizationIncomplete returns an error when the browser grant never arrived.
func AuthorizationIncomplete(cause error) *CLIError {
	return &CLIError{
		Message: "Store authorization did not complete",
		Hint:    "Finish the grant in the browser window, or press 'o' to reopen it",
		Cause:   cause,
		Code:    ExitAuth,
	}
}

// CannotPrompt returns an error when interactive prompts are unavailable.
func CannotPrompt(envVar string) *CLIError {
	return &CLIError{
		Message: "Cannot prompt in non-interactive mode",
		Hint:    fmt.Sprintf("Set %s environment variable instead", envVar),
		Code:    ExitUsage,
	}
}

// ConfigFailed returns an error for configuration save failures.
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check file permissions for your lmspick config directory or run 'lmspick doctor'",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// StoreRequired returns an error when no content store is configured.
func StoreRequired() *CLIError {
	return &CLIError{
		Message: "No content store configured",
		Hint:    "Set store.name in your config or pass --store",
		Code:    ExitConfig,
	}
}

// PickCancelled returns an error for a pick dismissed without a selection.
func PickCancelled() *CLIError {
	return &CLIError{
		Message: "Pick cancelled",
		Code:    ExitCancelled,
	}
}

// BrowserNotFound returns an error when no browser launcher is available.
func BrowserNotFound(cause error) *CLIError {
	return &CLIError{
		Message: "Could not open a browser for authorization",
		Hint:    "Install a default browser or set BROWSER to a launcher command",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// ListingFailed returns an error for file listing failures.
// It detects common failure patterns and provides specific hints.
func ListingFailed(path string, cause error) *CLIError {
	msg := fmt.Sprintf("Failed to list files at %s", path)
	hint := "Check your network connection and store URL"

	if cause != nil {
		switch {
		case containsAny(cause.Error(), "rate limit", "rate_limit", "429"):
			msg = "Store rate limit exceeded"
			hint = "Wait a moment and try again"
		case containsAny(cause.Error(), "503", "service unavailable", "overloaded"):
			msg = "Store is temporarily unavailable"
			hint = "Wait a moment and try again"
		case containsAny(cause.Error(), "connection refused", "no such host", "timeout"):
			msg = "Could not reach the content store"
			hint = "Check your network connection and the api.url config value"
		}
	}

	return &CLIError{
		Message: msg,
		Hint:    hint,
		Cause:   cause,
		Code:    ExitNetwork,
	}
}

// CallbackPortBusy returns an error when the authorization callback port is taken.
func CallbackPortBusy(port int, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Callback port %d is already in use", port),
		Hint:    "Set auth.callback_port to a free port, or 0 to pick one automatically",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// containsAny checks if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}

	return false
}

// Package paths resolves the user directories lmspick writes to.
//
// Resolution honors the XDG base-directory variables first, then the
// OS-specific defaults, then a home-directory fallback.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "lmspick"

func rootWithFallback(xdgEnv string, osFn func() (string, error), fallbackDir string) (string, error) {
	// Priority 1: Explicit XDG env var (cross-platform).
	if xdg := os.Getenv(xdgEnv); xdg != "" && filepath.IsAbs(xdg) {
		return filepath.Join(xdg, appName), nil
	}

	// Priority 2: OS-specific default (macOS ~/Library/..., Windows %AppData%, Linux ~/.config).
	root, err := osFn()
	if err == nil && root != "" {
		return filepath.Join(root, appName), nil
	}

	// Priority 3: Home-dir fallback.
	home, homeErr := os.UserHomeDir()
	if homeErr == nil && home != "" {
		return filepath.Join(home, fallbackDir, appName), nil
	}

	if err != nil {
		return "", err
	}

	return "", fmt.Errorf("resolve user home directory")
}

// ConfigRoot returns the user config root directory.
func ConfigRoot() (string, error) {
	return rootWithFallback("XDG_CONFIG_HOME", os.UserConfigDir, ".config")
}

// StateRoot returns the user state root directory.
func StateRoot() (string, error) {
	noOSDefault := func() (string, error) {
		return "", fmt.Errorf("no OS state directory function")
	}

	return rootWithFallback("XDG_STATE_HOME", noOSDefault, filepath.Join(".local", "state"))
}

// CredentialsFile returns the path of the token file fallback used when
// no OS keyring is available.
func CredentialsFile() (string, error) {
	root, err := ConfigRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, "credentials"), nil
}

// HistoryFile returns the path of the recent-picks state file.
func HistoryFile() (string, error) {
	root, err := StateRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, "history.toml"), nil
}

// UpdateStateFile returns the update state file path.
func UpdateStateFile() (string, error) {
	root, err := StateRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, "update-check.json"), nil
}

// LogsDir returns the default log directory.
func LogsDir() (string, error) {
	root, err := StateRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, "logs"), nil
}

// DefaultLogFile returns the default log file path.
func DefaultLogFile() (string, error) {
	logsDir, err := LogsDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(logsDir, "lmspick.log"), nil
}

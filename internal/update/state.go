package update

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lmspick-dev/lmspick/internal/paths"
)

const (
	stateFileName = "update-check.json"
	checkInterval = 24 * time.Hour
)

// State caches the last background release check so ordinary commands
// never pay for a network round trip.
type State struct {
	LastCheckedAt  time.Time `json:"lastCheckedAt"`
	LatestVersion  string    `json:"latestVersion,omitempty"`
	CurrentVersion string    `json:"currentVersion,omitempty"`
	ReleaseURL     string    `json:"releaseURL,omitempty"`
}

// ShouldCheck reports whether the cached result has aged out.
func (s *State) ShouldCheck() bool {
	if s.LastCheckedAt.IsZero() {
		return true
	}

	return time.Since(s.LastCheckedAt) >= checkInterval
}

// HasUpdate reports whether the cached latest version is newer than
// the running one. Unset or non-semver versions never report an
// update; the notice must not nag dev builds.
func (s *State) HasUpdate(currentVersion string) bool {
	if s.LatestVersion == "" || currentVersion == "" {
		return false
	}

	return newerThan(s.LatestVersion, currentVersion)
}

// LoadState reads the cached check result. A missing, unreadable-path,
// or corrupt file all load as a fresh zero state; the cache is
// disposable by design and must never block a command.
func LoadState() (*State, error) {
	path, err := paths.UpdateStateFile()
	if err != nil {
		return &State{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}

		return nil, fmt.Errorf("read update state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return &State{}, nil
	}

	return &state, nil
}

// SaveState persists the check result atomically, so a command killed
// mid-write leaves either the old cache or the new one, never a torn
// file.
func SaveState(state *State) error {
	path, err := paths.UpdateStateFile()
	if err != nil {
		return fmt.Errorf("resolve update state path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create update state directory: %w", err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal update state: %w", err)
	}

	return replaceFile(path, data)
}

// replaceFile writes data to path via a unique temp file and rename.
// On Windows rename fails over an existing file, so it removes the
// destination and retries once.
func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, stateFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp update state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("write temp update state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp update state file: %w", err)
	}

	if err := os.Rename(tmpName, path); err == nil {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		_ = os.Remove(tmpName)
		return fmt.Errorf("remove existing update state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace update state file: %w", err)
	}

	return nil
}

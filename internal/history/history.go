// Package history records recently picked files in a TOML state file.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lmspick-dev/lmspick/internal/paths"
)

// maxEntries bounds how many picks are retained.
const maxEntries = 50

// Pick is one recorded selection.
type Pick struct {
	Path     string    `toml:"path" json:"path"`
	Store    string    `toml:"store,omitempty" json:"store,omitempty"`
	PickedAt time.Time `toml:"picked_at" json:"pickedAt"`
}

type file struct {
	Picks []Pick `toml:"picks"`
}

// Load reads the pick history, newest first.
// A missing or corrupted file yields an empty history.
func Load() ([]Pick, error) {
	path, err := paths.HistoryFile()
	if err != nil {
		return nil, fmt.Errorf("resolve history path: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path from controlled state directory
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read history file: %w", err)
	}

	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		// Corrupted history is not worth failing a pick over.
		return nil, nil //nolint:nilerr
	}

	return f.Picks, nil
}

// Record prepends a pick and persists the bounded history.
func Record(pick Pick) error {
	picks, err := Load()
	if err != nil {
		return err
	}

	picks = append([]Pick{pick}, picks...)
	if len(picks) > maxEntries {
		picks = picks[:maxEntries]
	}

	return save(picks)
}

// Clear removes the history file.
func Clear() error {
	path, err := paths.HistoryFile()
	if err != nil {
		return fmt.Errorf("resolve history path: %w", err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history file: %w", err)
	}

	return nil
}

func save(picks []Pick) error {
	path, err := paths.HistoryFile()
	if err != nil {
		return fmt.Errorf("resolve history path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := toml.Marshal(file{Picks: picks})
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}

	return nil
}

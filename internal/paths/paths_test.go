package paths

import (
	"path/filepath"
	"testing"
)

func TestConfigRoot_UsesXDGConfigHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	got, err := ConfigRoot()
	if err != nil {
		t.Fatalf("ConfigRoot() error = %v", err)
	}

	want := filepath.Join(tmp, "lmspick")
	if got != want {
		t.Fatalf("ConfigRoot() = %q, want %q", got, want)
	}
}

func TestStateRoot_UsesXDGStateHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)

	got, err := StateRoot()
	if err != nil {
		t.Fatalf("StateRoot() error = %v", err)
	}

	want := filepath.Join(tmp, "lmspick")
	if got != want {
		t.Fatalf("StateRoot() = %q, want %q", got, want)
	}
}

func TestStateRoot_RelativeXDGIgnored(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "relative/state")
	t.Setenv("HOME", t.TempDir())

	got, err := StateRoot()
	if err != nil {
		t.Fatalf("StateRoot() error = %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("StateRoot() = %q, want absolute path", got)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := t.TempDir()
	state := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfg)
	t.Setenv("XDG_STATE_HOME", state)

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"credentials", CredentialsFile, filepath.Join(cfg, "lmspick", "credentials")},
		{"history", HistoryFile, filepath.Join(state, "lmspick", "history.toml")},
		{"update state", UpdateStateFile, filepath.Join(state, "lmspick", "update-check.json")},
		{"log file", DefaultLogFile, filepath.Join(state, "lmspick", "logs", "lmspick.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

package update

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolateState points the XDG state dir at a temp dir so tests never
// touch the user's real update cache.
func isolateState(t *testing.T) string {
	t.Helper()

	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)

	return filepath.Join(tmp, "lmspick", stateFileName)
}

func TestLoadState_MissingFileIsFresh(t *testing.T) {
	isolateState(t)

	state, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState() error: %v", err)
	}

	if !state.LastCheckedAt.IsZero() || state.LatestVersion != "" {
		t.Errorf("missing file should load as zero state, got %+v", state)
	}
}

func TestLoadState_CorruptFileIsFresh(t *testing.T) {
	stateFile := isolateState(t)

	if err := os.MkdirAll(filepath.Dir(stateFile), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stateFile, []byte("not json{{{"), 0o600); err != nil {
		t.Fatal(err)
	}

	state, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState() error on corrupt file: %v", err)
	}
	if !state.LastCheckedAt.IsZero() {
		t.Error("corrupt cache should load as zero state")
	}
}

func TestSaveState_RoundTrip(t *testing.T) {
	stateFile := isolateState(t)

	checked := time.Now().Truncate(time.Second)
	saved := &State{
		LastCheckedAt:  checked,
		LatestVersion:  "1.2.3",
		CurrentVersion: "1.0.0",
		ReleaseURL:     "https://github.com/lmspick-dev/lmspick/releases/tag/v1.2.3",
	}

	if err := SaveState(saved); err != nil {
		t.Fatalf("SaveState() error: %v", err)
	}
	if _, err := os.Stat(stateFile); err != nil {
		t.Fatalf("state file not written: %v", err)
	}

	loaded, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState() error: %v", err)
	}

	if !loaded.LastCheckedAt.Equal(checked) {
		t.Errorf("LastCheckedAt = %v, want %v", loaded.LastCheckedAt, checked)
	}
	if loaded.LatestVersion != saved.LatestVersion || loaded.CurrentVersion != saved.CurrentVersion {
		t.Errorf("versions = %q/%q, want %q/%q",
			loaded.LatestVersion, loaded.CurrentVersion, saved.LatestVersion, saved.CurrentVersion)
	}
	if loaded.ReleaseURL != saved.ReleaseURL {
		t.Errorf("ReleaseURL = %q, want %q", loaded.ReleaseURL, saved.ReleaseURL)
	}
}

func TestSaveState_ReplacesPreviousCheck(t *testing.T) {
	isolateState(t)

	if err := SaveState(&State{LatestVersion: "1.0.0", LastCheckedAt: time.Now()}); err != nil {
		t.Fatalf("first SaveState(): %v", err)
	}
	if err := SaveState(&State{LatestVersion: "2.0.0", LastCheckedAt: time.Now()}); err != nil {
		t.Fatalf("second SaveState(): %v", err)
	}

	loaded, err := LoadState()
	if err != nil {
		t.Fatalf("LoadState(): %v", err)
	}
	if loaded.LatestVersion != "2.0.0" {
		t.Errorf("LatestVersion = %q after overwrite, want 2.0.0", loaded.LatestVersion)
	}
}

func TestShouldCheck(t *testing.T) {
	tests := []struct {
		name    string
		checked time.Time
		want    bool
	}{
		{"never checked", time.Time{}, true},
		{"checked just now", time.Now(), false},
		{"checked yesterday", time.Now().Add(-25 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{LastCheckedAt: tt.checked}
			if got := s.ShouldCheck(); got != tt.want {
				t.Errorf("ShouldCheck() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasUpdate(t *testing.T) {
	tests := []struct {
		name    string
		cached  string
		current string
		want    bool
	}{
		{"newer cached", "2.0.0", "1.0.0", true},
		{"same version", "1.0.0", "1.0.0", false},
		{"older cached", "0.9.0", "1.0.0", false},
		{"nothing cached", "", "1.0.0", false},
		{"no current version", "2.0.0", "", false},
		{"dev build never nagged", "2.0.0", "dev", false},
		{"garbage cached", "not-a-version", "1.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{LatestVersion: tt.cached}
			if got := s.HasUpdate(tt.current); got != tt.want {
				t.Errorf("HasUpdate(%q) = %v, want %v", tt.current, got, tt.want)
			}
		})
	}
}

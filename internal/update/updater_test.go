package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	selfupdate "github.com/creativeprojects/go-selfupdate"
)

// releaseJSON fakes the GitHub release list response. withAsset
// controls whether the release carries an archive for this platform;
// without one, DetectLatest treats the release as not found.
func releaseJSON(tag string, withAsset bool) string {
	assets := []any{}
	if withAsset {
		name := fmt.Sprintf("lmspick_%s_%s_%s.tar.gz", tag, runtime.GOOS, runtime.GOARCH)
		assets = append(assets, map[string]any{
			"id":                   1,
			"name":                 name,
			"browser_download_url": "https://example.com/download/" + name,
		})
	}

	data, _ := json.Marshal(map[string]any{
		"tag_name":   "v" + tag,
		"name":       "lmspick v" + tag,
		"prerelease": false,
		"draft":      false,
		"body":       "notes for " + tag,
		"assets":     assets,
	})

	return string(data)
}

func releaseServer(t *testing.T, handler http.HandlerFunc) *Updater {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{
		EnterpriseBaseURL: server.URL + "/",
	})
	if err != nil {
		t.Fatalf("create source: %v", err)
	}

	u, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		t.Fatalf("create updater: %v", err)
	}

	return &Updater{updater: u}
}

func serveReleases(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func TestCheckLatest(t *testing.T) {
	tests := []struct {
		name          string
		releases      string
		current       string
		wantAvailable bool
		wantLatest    string
	}{
		{
			name:          "newer release available",
			releases:      "[" + releaseJSON("2.0.0", true) + "]",
			current:       "1.0.0",
			wantAvailable: true,
			wantLatest:    "2.0.0",
		},
		{
			name:          "already current",
			releases:      "[" + releaseJSON("1.0.0", true) + "]",
			current:       "1.0.0",
			wantAvailable: false,
			wantLatest:    "1.0.0",
		},
		{
			name:          "dev build always offered a release",
			releases:      "[" + releaseJSON("1.0.0", true) + "]",
			current:       "dev",
			wantAvailable: true,
			wantLatest:    "1.0.0",
		},
		{
			name:          "no releases published",
			releases:      "[]",
			current:       "1.0.0",
			wantAvailable: false,
			wantLatest:    "1.0.0",
		},
		{
			name:          "release without an asset for this platform",
			releases:      "[" + releaseJSON("2.0.0", false) + "]",
			current:       "1.0.0",
			wantAvailable: false,
			wantLatest:    "1.0.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := releaseServer(t, serveReleases(tt.releases))

			info, err := u.CheckLatest(context.Background(), tt.current)
			if err != nil {
				t.Fatalf("CheckLatest() error: %v", err)
			}

			if info.UpdateAvailable != tt.wantAvailable {
				t.Errorf("UpdateAvailable = %v, want %v", info.UpdateAvailable, tt.wantAvailable)
			}
			if info.LatestVersion != tt.wantLatest {
				t.Errorf("LatestVersion = %q, want %q", info.LatestVersion, tt.wantLatest)
			}
			if info.CurrentVersion != tt.current {
				t.Errorf("CurrentVersion = %q, want %q", info.CurrentVersion, tt.current)
			}
		})
	}
}

func TestCheckLatest_APIFailure(t *testing.T) {
	u := releaseServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := u.CheckLatest(context.Background(), "1.0.0"); err == nil {
		t.Fatal("expected error when the release API fails")
	}
}

func TestNewerThan(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"2.0.0", "1.0.0", true},
		{"1.0.1", "1.0.0", true},
		{"1.0.0", "1.0.0", false},
		{"0.9.0", "1.0.0", false},
		{"not-a-version", "1.0.0", false},
		{"2.0.0", "dev", false},
	}

	for _, tt := range tests {
		if got := newerThan(tt.latest, tt.current); got != tt.want {
			t.Errorf("newerThan(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
		}
	}
}

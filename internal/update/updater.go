// Package update keeps the installed binary current. Checks and binary
// swaps go through go-selfupdate against the project's GitHub releases,
// validated against the checksums.txt asset. A 24h-cached background
// check feeds the "new version available" notice after normal commands.
package update

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
	selfupdate "github.com/creativeprojects/go-selfupdate"
)

const repoSlug = "lmspick-dev/lmspick"

// IsDisabled reports whether LMSPICK_UPDATE_DISABLED turns update
// checks off, for air-gapped and package-manager installs.
func IsDisabled() bool {
	v := os.Getenv("LMSPICK_UPDATE_DISABLED")
	return v == "1" || strings.EqualFold(v, "true")
}

// newerThan reports whether latest is a release after current. Either
// side failing to parse as semver compares as not-newer.
func newerThan(latest, current string) bool {
	l, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}

	c, err := semver.NewVersion(current)
	if err != nil {
		return false
	}

	return l.GreaterThan(c)
}

// Info is the outcome of a release check, shaped for --json output.
type Info struct {
	CurrentVersion  string `json:"currentVersion"`
	LatestVersion   string `json:"latestVersion"`
	UpdateAvailable bool   `json:"updateAvailable"`
	ReleaseURL      string `json:"releaseURL,omitempty"`

	// Release carries the metadata Apply needs; nil when no release
	// matched this platform.
	Release *selfupdate.Release `json:"-"`
}

// Updater checks for and applies releases.
type Updater struct {
	updater *selfupdate.Updater
}

// NewUpdater builds an Updater against GitHub Releases for the current
// platform. GITHUB_TOKEN raises the unauthenticated rate limit.
func NewUpdater() (*Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{
		APIToken: os.Getenv("GITHUB_TOKEN"),
	})
	if err != nil {
		return nil, fmt.Errorf("create github source: %w", err)
	}

	u, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:    source,
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	})
	if err != nil {
		return nil, fmt.Errorf("create updater: %w", err)
	}

	return &Updater{updater: u}, nil
}

// CheckLatest compares the newest published release against
// currentVersion. A current version that is not semver (a "dev" build)
// always reports an update, so source builds can move onto releases.
func (u *Updater) CheckLatest(ctx context.Context, currentVersion string) (*Info, error) {
	latest, found, err := u.updater.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return nil, fmt.Errorf("detect latest release: %w", err)
	}

	info := &Info{CurrentVersion: currentVersion}
	if !found {
		info.LatestVersion = currentVersion
		return info, nil
	}

	info.LatestVersion = latest.Version()
	info.ReleaseURL = latest.URL
	info.Release = latest

	if _, parseErr := semver.NewVersion(currentVersion); parseErr != nil {
		info.UpdateAvailable = true
	} else {
		info.UpdateAvailable = newerThan(info.LatestVersion, currentVersion)
	}

	return info, nil
}

// Apply replaces the running binary with the given release.
func (u *Updater) Apply(ctx context.Context, release *selfupdate.Release) error {
	execPath, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("find executable path: %w", err)
	}

	if err := u.updater.UpdateTo(ctx, release, execPath); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	return nil
}

// ApplyVersion installs one specific published version, for pinning
// and rollbacks.
func (u *Updater) ApplyVersion(ctx context.Context, version string) (*selfupdate.Release, error) {
	release, found, err := u.updater.DetectVersion(ctx, selfupdate.ParseSlug(repoSlug), version)
	if err != nil {
		return nil, fmt.Errorf("detect version %s: %w", version, err)
	}
	if !found {
		return nil, fmt.Errorf("version %s not found", version)
	}

	if err := u.Apply(ctx, release); err != nil {
		return nil, err
	}

	return release, nil
}

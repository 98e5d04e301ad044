// Package doctor provides diagnostic checks for lmspick CLI health.
//
// This package implements a check framework that validates:
//   - Content store connectivity and response time
//   - Authentication status and credential source
//   - Browser availability for the authorization flow
//   - CLI version against latest release
package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lmspick-dev/lmspick/internal/auth"
	"github.com/lmspick-dev/lmspick/internal/authwin"
	"github.com/lmspick-dev/lmspick/internal/buildinfo"
	"github.com/lmspick-dev/lmspick/internal/config"
	"github.com/lmspick-dev/lmspick/internal/store"
	"github.com/lmspick-dev/lmspick/internal/update"
)

// Status represents the result of a diagnostic check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical failure.
	StatusFail
)

// Result holds the outcome of a single check.
type Result struct {
	Name    string
	Status  Status
	Message string
	Detail  string // Optional additional detail
}

// Check is a diagnostic check function.
type Check func(ctx context.Context) Result

// Runner executes diagnostic checks.
type Runner struct {
	checks []namedCheck
}

type namedCheck struct {
	name  string
	check Check
}

// New creates a new diagnostic runner.
func New() *Runner {
	r := &Runner{}

	// Register default checks
	r.AddCheck("Store Connectivity", checkStoreConnectivity)
	r.AddCheck("Authentication", checkAuthentication)
	r.AddCheck("Browser", checkBrowser)
	r.AddCheck("CLI Version", checkCLIVersion)

	return r
}

// AddCheck registers a diagnostic check.
func (r *Runner) AddCheck(name string, check Check) {
	r.checks = append(r.checks, namedCheck{name: name, check: check})
}

// Run executes all registered checks and returns the results.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.checks))

	for _, nc := range r.checks {
		result := nc.check(ctx)
		result.Name = nc.name
		results = append(results, result)
	}

	return results
}

// Summary returns counts of passed, failed, and warning checks.
func Summary(results []Result) (passed, failed, warnings int) {
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusWarn:
			warnings++
		}
	}

	return passed, failed, warnings
}

// checkStoreConnectivity tests connection to the content store endpoint.
func checkStoreConnectivity(ctx context.Context) Result {
	cfg := config.Load()
	apiURL := cfg.APIURL()

	start := time.Now()

	c := store.New("probe-token").WithBaseURL(apiURL)

	_, err := c.ValidateToken(ctx)
	elapsed := time.Since(start)

	// A rejected probe token still proves the endpoint answered.
	if err == nil || strings.Contains(err.Error(), "invalid") {
		return Result{
			Status:  StatusPass,
			Message: fmt.Sprintf("%s (%dms)", apiURL, elapsed.Milliseconds()),
		}
	}

	return Result{
		Status:  StatusFail,
		Message: apiURL,
		Detail:  err.Error(),
	}
}

// checkAuthentication validates the stored token.
func checkAuthentication(ctx context.Context) Result {
	source, token := auth.GetToken()

	if token == "" {
		return Result{
			Status:  StatusFail,
			Message: "Not authenticated",
			Detail:  "Run 'lmspick auth login' to store an access token",
		}
	}

	cfg := config.Load()
	c := store.New(token).WithBaseURL(cfg.APIURL())

	identity, err := c.ValidateToken(ctx)
	if err != nil {
		return Result{
			Status:  StatusFail,
			Message: fmt.Sprintf("Invalid token (via %s)", source),
			Detail:  err.Error(),
		}
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s (via %s)", identity.User, source),
	}
}

// checkBrowser verifies a browser launcher is available for authorization.
func checkBrowser(_ context.Context) Result {
	name, err := authwin.BrowserAvailable()
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: "No browser launcher found",
			Detail:  "Store authorization needs a browser; set BROWSER or install one",
		}
	}

	return Result{
		Status:  StatusPass,
		Message: name,
	}
}

// checkCLIVersion checks the CLI version against the latest release.
func checkCLIVersion(ctx context.Context) Result {
	current := buildinfo.Version

	if current == "dev" {
		return Result{
			Status:  StatusWarn,
			Message: "Development build (version check skipped)",
		}
	}

	if update.IsDisabled() {
		return Result{
			Status:  StatusPass,
			Message: fmt.Sprintf("v%s (update checks disabled)", current),
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	updater, err := update.NewUpdater()
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("v%s (could not check for updates)", current),
			Detail:  err.Error(),
		}
	}

	info, err := updater.CheckLatest(checkCtx, current)
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("v%s (could not check for updates)", current),
			Detail:  err.Error(),
		}
	}

	if info.UpdateAvailable {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("v%s (v%s available)", current, info.LatestVersion),
			Detail:  "Run 'lmspick update' to update",
		}
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("v%s (latest)", current),
	}
}

// RenderResults formats diagnostic results to the given output writer.
func RenderResults(results []Result, printFn, successFn, warningFn, failureFn, mutedFn func(format string, args ...any)) {
	maxNameLen := 0
	for _, r := range results {
		if len(r.Name) > maxNameLen {
			maxNameLen = len(r.Name)
		}
	}

	for _, r := range results {
		symbol := r.Status.Symbol()
		padding := maxNameLen - len(r.Name) + 4

		switch r.Status {
		case StatusPass:
			successFn("%-*s%s", len(r.Name)+padding, r.Name, r.Message)
		case StatusWarn:
			warningFn("%-*s%s", len(r.Name)+padding, r.Name, r.Message)
		case StatusFail:
			failureFn("%-*s%s", len(r.Name)+padding, r.Name, r.Message)
		default:
			printFn("%s %-*s%s\n", symbol, len(r.Name)+padding, r.Name, r.Message)
		}

		if r.Detail != "" {
			mutedFn("    %s", r.Detail)
		}
	}
}

// Symbol returns the status symbol for display.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return checkMark
	case StatusWarn:
		return warningMark
	case StatusFail:
		return xMark
	default:
		return "?"
	}
}

const (
	checkMark   = "\u2713" // ✓
	xMark       = "\u2717" // ✗
	warningMark = "\u26A0" // ⚠
)

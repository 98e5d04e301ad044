package authwin

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// LaunchBrowser opens url in the user's default browser. The launch is
// fire-and-forget; the process is not waited on.
func LaunchBrowser(url string) error {
	var cmd *exec.Cmd

	if browser := os.Getenv("BROWSER"); browser != "" {
		cmd = exec.Command(browser, url) //nolint:gosec // G204: user-chosen launcher
	} else {
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	// Reap the child so it doesn't linger as a zombie.
	go func() { _ = cmd.Wait() }()

	return nil
}

// BrowserAvailable returns the launcher command that would open URLs,
// or an error if none is available. Used by 'lmspick doctor'.
func BrowserAvailable() (string, error) {
	if browser := os.Getenv("BROWSER"); browser != "" {
		return browser, nil
	}

	switch runtime.GOOS {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", nil
	default:
		if _, err := exec.LookPath("xdg-open"); err != nil {
			return "", fmt.Errorf("xdg-open not found in PATH")
		}

		return "xdg-open", nil
	}
}

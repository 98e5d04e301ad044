//go:build windows

package update

import "fmt"

// NeedsElevation is always false on Windows; there is no sudo-style
// re-exec to offer, so the update attempt surfaces the access error.
func NeedsElevation(binaryPath string) bool {
	return false
}

// ReExecWithSudo has no Windows equivalent.
func ReExecWithSudo() error {
	return fmt.Errorf("automatic elevation is not available on Windows; rerun this command as Administrator")
}

//go:build !windows

package update

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"
)

// NeedsElevation reports whether replacing the binary at binaryPath
// would fail for lack of write access to its directory. Typical for
// installs under /usr/local/bin.
func NeedsElevation(binaryPath string) bool {
	return unix.Access(filepath.Dir(binaryPath), unix.W_OK) != nil
}

// ReExecWithSudo replaces the current process with "sudo <self> <args>"
// so the update can write the install directory. On success this never
// returns.
func ReExecWithSudo() error {
	sudo, err := exec.LookPath("sudo")
	if err != nil {
		return fmt.Errorf("sudo not found in PATH; rerun this command with write access to the install directory")
	}

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve own executable: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Elevated permissions required. Requesting sudo...")

	argv := append([]string{"sudo", self}, os.Args[1:]...)
	if err := syscall.Exec(sudo, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec sudo: %w", err)
	}

	return nil
}

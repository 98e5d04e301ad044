// Package terminal answers one question for the rest of the CLI: what
// kind of terminal, if any, is stdout attached to. The picker refuses
// to run without a TTY, and the output writer keys colors and spinners
// off the capabilities reported here.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Info describes the terminal on stdout at process start.
type Info struct {
	IsTTY   bool
	NoColor bool
	Width   int
	Height  int

	// ForceFlag records that --no-color was passed, which overrides
	// whatever was detected.
	ForceFlag bool
}

// Detect probes stdout once. Size falls back to 80x24 when the probe
// fails or stdout is a pipe.
func Detect() *Info {
	info := &Info{
		NoColor: colorSuppressed(),
		Width:   80,
		Height:  24,
	}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return info
	}

	info.IsTTY = true
	if w, h, err := term.GetSize(fd); err == nil {
		info.Width, info.Height = w, h
	}

	return info
}

// colorSuppressed honors the NO_COLOR convention (https://no-color.org)
// and treats TERM=dumb as unable to render escape sequences.
func colorSuppressed() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}

	return os.Getenv("TERM") == "dumb"
}

// ColorEnabled reports whether styled output should be emitted.
func (t *Info) ColorEnabled() bool {
	return t.IsTTY && !t.NoColor && !t.ForceFlag
}

// InteractiveEnabled reports whether the user can be prompted.
func (t *Info) InteractiveEnabled() bool {
	return t.IsTTY
}

// SpinnersEnabled reports whether animated progress is appropriate.
// Spinners repaint with escape sequences, so they follow color support
// rather than bare TTY presence.
func (t *Info) SpinnersEnabled() bool {
	return t.IsTTY && !t.NoColor
}

// Package output is the write side of the CLI.
//
// Commands never touch os.Stdout directly; they pull a Writer out of
// the command context and speak through it. The Writer owns the two
// streams, the quiet/JSON mode switches, and color handling, so a
// bytes.Buffer can stand in for the terminal under test.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/lmspick-dev/lmspick/internal/terminal"
)

// Status line marks. Kept as plain runes so non-color output stays
// greppable in CI logs.
const (
	markOK   = "✓"
	markFail = "✗"
	markWarn = "⚠"
	markInfo = "ℹ"
)

// Writer carries a command's output streams and modes.
type Writer struct {
	Out     io.Writer
	Err     io.Writer
	JSON    bool
	Quiet   bool
	Verbose bool
	NoInput bool

	term  *terminal.Info
	tones tones
}

// tones groups the status colors so they are built in one place.
type tones struct {
	ok    *color.Color
	fail  *color.Color
	warn  *color.Color
	info  *color.Color
	muted *color.Color
}

// Default returns a Writer bound to the process streams.
func Default() *Writer {
	return NewWriter(os.Stdout, os.Stderr, terminal.Detect())
}

// NewWriter builds a Writer over the given streams. Tests pass buffers
// and a hand-made terminal.Info.
func NewWriter(out, err io.Writer, term *terminal.Info) *Writer {
	if !term.ColorEnabled() {
		color.NoColor = true
	}

	return &Writer{
		Out:  out,
		Err:  err,
		term: term,
		tones: tones{
			ok:    color.New(color.FgGreen),
			fail:  color.New(color.FgRed),
			warn:  color.New(color.FgYellow),
			info:  color.New(color.FgCyan),
			muted: color.New(color.FgHiBlack),
		},
	}
}

type contextKey struct{}

// WithContext stores the Writer in ctx for FromContext to find.
func (w *Writer) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, w)
}

// FromContext returns the Writer stored in ctx, or Default.
func FromContext(ctx context.Context) *Writer {
	if w, ok := ctx.Value(contextKey{}).(*Writer); ok {
		return w
	}

	return Default()
}

// Terminal exposes the detected terminal capabilities.
func (w *Writer) Terminal() *terminal.Info {
	return w.term
}

// SetNoColor forces colors off, for the --no-color flag.
func (w *Writer) SetNoColor(disabled bool) {
	w.term.ForceFlag = disabled
	if disabled {
		color.NoColor = true
	}
}

// Print writes formatted text to stdout. Suppressed in quiet mode.
func (w *Writer) Print(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	fmt.Fprintf(w.Out, format, args...)
}

// Println writes a line to stdout. Suppressed in quiet mode.
func (w *Writer) Println(args ...interface{}) {
	if w.Quiet {
		return
	}
	fmt.Fprintln(w.Out, args...)
}

// PrintJSON encodes v onto stdout, indented. Quiet mode does not apply;
// JSON output is the contract in scripting use.
func (w *Writer) PrintJSON(v interface{}) error {
	enc := json.NewEncoder(w.Out)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// Debug writes a muted diagnostic line, only in verbose mode.
func (w *Writer) Debug(format string, args ...interface{}) {
	if !w.Verbose {
		return
	}
	w.tones.muted.Fprintf(w.Out, "[debug] "+format+"\n", args...)
}

// Success writes a ✓ status line to stdout.
func (w *Writer) Success(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	w.status(w.Out, w.tones.ok, markOK, format, args...)
}

// Failure writes a ✗ status line to stderr. Not silenced by quiet
// mode; errors always reach the user.
func (w *Writer) Failure(format string, args ...interface{}) {
	w.status(w.Err, w.tones.fail, markFail, format, args...)
}

// Warning writes a ⚠ status line to stdout.
func (w *Writer) Warning(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	w.status(w.Out, w.tones.warn, markWarn, format, args...)
}

// Info writes an ℹ status line to stdout.
func (w *Writer) Info(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	w.status(w.Out, w.tones.info, markInfo, format, args...)
}

// Muted writes a dimmed line to stdout, plain when colors are off.
func (w *Writer) Muted(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if w.term.ColorEnabled() {
		w.tones.muted.Fprintln(w.Out, msg)
		return
	}
	fmt.Fprintln(w.Out, msg)
}

// status renders "<mark> <message>\n". Only the mark is colored so the
// message stays readable on unusual terminal themes.
func (w *Writer) status(dst io.Writer, tone *color.Color, mark, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.term.ColorEnabled() {
		tone.Fprint(dst, mark+" ")
		fmt.Fprintln(dst, msg)
		return
	}
	fmt.Fprintln(dst, mark+" "+msg)
}

// Spinner returns a progress spinner for a long operation. On a
// non-TTY, in quiet mode, or with colors off it degrades to plain
// "message... done" lines.
func (w *Writer) Spinner(message string) *Spinner {
	if w.Quiet || !w.term.SpinnersEnabled() {
		return &Spinner{writer: w, message: message, plain: true}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = w.Out
	s.Suffix = " " + message

	return &Spinner{writer: w, message: message, spin: s}
}

// Spinner animates while an operation runs, with a plain-text fallback.
type Spinner struct {
	writer  *Writer
	spin    *spinner.Spinner
	message string
	plain   bool
}

// Start begins the animation, or prints the message in plain mode.
func (s *Spinner) Start() {
	if s.plain {
		s.writer.Print("%s... ", s.message)
		return
	}
	s.spin.Start()
}

// Stop halts the animation without a verdict line.
func (s *Spinner) Stop() {
	if s.plain {
		return
	}
	s.spin.Stop()
}

// StopWithSuccess halts the animation and reports success.
func (s *Spinner) StopWithSuccess(message string) {
	if s.plain {
		s.writer.Println("done")
	} else {
		s.spin.Stop()
	}
	if message != "" {
		s.writer.Success("%s", message)
	}
}

// StopWithFailure halts the animation and reports failure.
func (s *Spinner) StopWithFailure(message string) {
	if s.plain {
		s.writer.Println("failed")
	} else {
		s.spin.Stop()
	}
	if message != "" {
		s.writer.Failure("%s", message)
	}
}

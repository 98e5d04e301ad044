package output

import (
	"bytes"
	"context"
	"testing"

	"github.com/lmspick-dev/lmspick/internal/terminal"
	"github.com/lmspick-dev/lmspick/internal/testutil"
)

// plainTerminal is a non-TTY, color-off terminal so output bytes are
// deterministic.
func plainTerminal() *terminal.Info {
	return &terminal.Info{IsTTY: false, NoColor: true, Width: 80, Height: 24}
}

func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	var out, errBuf bytes.Buffer
	return NewWriter(&out, &errBuf, plainTerminal()), &out, &errBuf
}

func TestPrint(t *testing.T) {
	tests := []struct {
		name   string
		quiet  bool
		format string
		args   []interface{}
		want   string
	}{
		{
			name:   "picked path",
			format: "%s\n",
			args:   []interface{}{"/2024/week-03/slides.pdf"},
			want:   "/2024/week-03/slides.pdf\n",
		},
		{
			name:   "quiet suppresses stdout",
			quiet:  true,
			format: "%s\n",
			args:   []interface{}{"/2024/week-03/slides.pdf"},
			want:   "",
		},
		{
			name:   "plain message",
			format: "Opening picker",
			want:   "Opening picker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out, _ := newTestWriter()
			w.Quiet = tt.quiet

			w.Print(tt.format, tt.args...)

			if got := out.String(); got != tt.want {
				t.Errorf("Print() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintln_Quiet(t *testing.T) {
	w, out, _ := newTestWriter()
	w.Quiet = true

	w.Println("Campus LMS")

	if out.Len() != 0 {
		t.Errorf("Println in quiet mode wrote %q", out.String())
	}
}

func TestPrintJSON_Golden(t *testing.T) {
	w, out, _ := newTestWriter()

	err := w.PrintJSON(struct {
		Path  string `json:"path"`
		Store string `json:"store"`
	}{
		Path:  "/2024/syllabus.pdf",
		Store: "Campus LMS",
	})
	if err != nil {
		t.Fatalf("PrintJSON() error: %v", err)
	}

	testutil.AssertGolden(t, out.String(), "pick_result.golden")
}

func TestPrintJSON_IgnoresQuiet(t *testing.T) {
	w, out, _ := newTestWriter()
	w.Quiet = true

	if err := w.PrintJSON(map[string]string{"path": "/notes.md"}); err != nil {
		t.Fatalf("PrintJSON() error: %v", err)
	}

	if out.Len() == 0 {
		t.Error("PrintJSON must emit even in quiet mode")
	}
}

func TestStatusLines_Golden(t *testing.T) {
	w, out, _ := newTestWriter()

	w.Success("Token validated for %s", "alice@campus.edu")
	w.Warning("Store %q has not been authorized yet", "Campus LMS")
	w.Info("Run 'lmspick auth login' to store a token")
	w.Muted("3 picks recorded this week")

	testutil.AssertGolden(t, out.String(), "status_lines.golden")
}

func TestFailure_WritesStderrEvenWhenQuiet(t *testing.T) {
	w, out, errBuf := newTestWriter()
	w.Quiet = true

	w.Failure("Could not list %s", "/2024")

	if out.Len() != 0 {
		t.Errorf("Failure wrote to stdout: %q", out.String())
	}
	if got, want := errBuf.String(), "✗ Could not list /2024\n"; got != want {
		t.Errorf("Failure wrote %q, want %q", got, want)
	}
}

func TestStatusLines_QuietSuppressed(t *testing.T) {
	w, out, _ := newTestWriter()
	w.Quiet = true

	w.Success("authorized")
	w.Warning("stale token")
	w.Info("checking store")
	w.Muted("detail")

	if out.Len() != 0 {
		t.Errorf("quiet mode leaked status lines: %q", out.String())
	}
}

func TestDebug_VerboseOnly(t *testing.T) {
	w, out, _ := newTestWriter()

	w.Debug("record history: %v", "permission denied")
	if out.Len() != 0 {
		t.Errorf("Debug wrote without verbose: %q", out.String())
	}

	w.Verbose = true
	w.Debug("record history: %v", "permission denied")
	if got, want := out.String(), "[debug] record history: permission denied\n"; got != want {
		t.Errorf("Debug wrote %q, want %q", got, want)
	}
}

func TestContextRoundTrip(t *testing.T) {
	w, _, _ := newTestWriter()

	ctx := w.WithContext(context.Background())
	if got := FromContext(ctx); got != w {
		t.Error("FromContext did not return the stored Writer")
	}
}

func TestFromContext_Fallback(t *testing.T) {
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext on an empty context must return a default Writer")
	}
}

func TestSetNoColor(t *testing.T) {
	w, _, _ := newTestWriter()

	w.SetNoColor(true)

	if w.Terminal().ColorEnabled() {
		t.Error("ColorEnabled() still true after SetNoColor(true)")
	}
}

func TestSpinner_PlainFallback(t *testing.T) {
	w, out, _ := newTestWriter()

	s := w.Spinner("Validating token")
	s.Start()
	s.StopWithSuccess("Token is valid")

	want := "Validating token... done\n✓ Token is valid\n"
	if got := out.String(); got != want {
		t.Errorf("plain spinner wrote %q, want %q", got, want)
	}
}

func TestSpinner_PlainFailure(t *testing.T) {
	w, out, errBuf := newTestWriter()

	s := w.Spinner("Contacting store")
	s.Start()
	s.StopWithFailure("Store unreachable")

	if got, want := out.String(), "Contacting store... failed\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
	if got, want := errBuf.String(), "✗ Store unreachable\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestSpinner_QuietIsSilent(t *testing.T) {
	w, out, _ := newTestWriter()
	w.Quiet = true

	s := w.Spinner("Downloading")
	s.Start()
	s.Stop()

	if out.Len() != 0 {
		t.Errorf("quiet spinner wrote %q", out.String())
	}
}

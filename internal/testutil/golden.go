// Package testutil holds the golden-file helper shared by the CLI's
// output tests.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// Passing -update to go test rewrites golden files from the current
// output instead of comparing against them.
var update = flag.Bool("update", false, "rewrite golden files from current output")

// AssertGolden fails the test unless got matches testdata/<name>
// byte for byte. With -update it writes got to the file instead.
func AssertGolden(t *testing.T, got, name string) {
	t.Helper()

	path := filepath.Join("testdata", name)

	if *update {
		writeGolden(t, path, got)
		return
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("no golden file %s; create it with -update", path)
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	if got != string(want) {
		t.Errorf("output does not match %s\ngot:\n%s\nwant:\n%s\n(-update rewrites the file)", path, got, want)
	}
}

func writeGolden(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create testdata dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write golden file %s: %v", path, err)
	}
	t.Logf("rewrote %s", path)
}

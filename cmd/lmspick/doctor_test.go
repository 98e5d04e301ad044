package main

import (
	"bytes"
	"testing"

	"github.com/lmspick-dev/lmspick/internal/doctor"
	"github.com/lmspick-dev/lmspick/internal/output"
	"github.com/lmspick-dev/lmspick/internal/terminal"
	"github.com/lmspick-dev/lmspick/internal/testutil"
)

// renderDoctorOutput reproduces the doctor command's output formatting logic
// with the given results, so golden tests can run without real checks.
func renderDoctorOutput(results []doctor.Result) string {
	var buf bytes.Buffer

	term := &terminal.Info{IsTTY: false, NoColor: true, Width: 80, Height: 24}
	out := output.NewWriter(&buf, &buf, term)

	out.Println("lmspick Doctor")
	out.Println("==============")
	out.Println()

	doctor.RenderResults(results, out.Print, out.Success, out.Warning, out.Failure, out.Muted)

	passed, failed, warnings := doctor.Summary(results)

	out.Println()
	out.Print("%d passed", passed)

	if failed > 0 {
		out.Print(", %d failed", failed)
	}

	if warnings > 0 {
		out.Print(", %d warning(s)", warnings)
	}

	out.Println()

	return buf.String()
}

func TestDoctorOutput_AllPass_Golden(t *testing.T) {
	results := []doctor.Result{
		{Name: "Store Connectivity", Status: doctor.StatusPass, Message: "https://lms.example.edu (42ms)"},
		{Name: "Authentication", Status: doctor.StatusPass, Message: "instructor@campus.edu (via keyring)"},
		{Name: "Browser", Status: doctor.StatusPass, Message: "xdg-open"},
		{Name: "CLI Version", Status: doctor.StatusPass, Message: "v1.2.0 (latest)"},
	}

	got := renderDoctorOutput(results)
	testutil.AssertGolden(t, got, "doctor_all_pass.golden")
}

func TestDoctorOutput_Mixed_Golden(t *testing.T) {
	results := []doctor.Result{
		{Name: "Store Connectivity", Status: doctor.StatusPass, Message: "https://lms.example.edu (42ms)"},
		{Name: "Authentication", Status: doctor.StatusFail, Message: "Not authenticated", Detail: "Run 'lmspick auth login' to store an access token"},
		{Name: "Browser", Status: doctor.StatusWarn, Message: "No browser launcher found", Detail: "Store authorization needs a browser; set BROWSER or install one"},
		{Name: "CLI Version", Status: doctor.StatusWarn, Message: "v1.1.0 (v1.2.0 available)", Detail: "Run 'lmspick update' to update"},
	}

	got := renderDoctorOutput(results)
	testutil.AssertGolden(t, got, "doctor_mixed.golden")
}

func TestDoctorOutput_AllFail_Golden(t *testing.T) {
	results := []doctor.Result{
		{Name: "Store Connectivity", Status: doctor.StatusFail, Message: "https://lms.example.edu", Detail: "connection refused"},
		{Name: "Authentication", Status: doctor.StatusFail, Message: "Not authenticated", Detail: "Run 'lmspick auth login' to store an access token"},
		{Name: "Browser", Status: doctor.StatusWarn, Message: "No browser launcher found", Detail: "Store authorization needs a browser; set BROWSER or install one"},
		{Name: "CLI Version", Status: doctor.StatusWarn, Message: "Development build (version check skipped)"},
	}

	got := renderDoctorOutput(results)
	testutil.AssertGolden(t, got, "doctor_all_fail.golden")
}

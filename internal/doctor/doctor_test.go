package doctor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRunner_RunCustomChecks(t *testing.T) {
	r := &Runner{}
	r.AddCheck("Always Pass", func(context.Context) Result {
		return Result{Status: StatusPass, Message: "ok"}
	})
	r.AddCheck("Always Fail", func(context.Context) Result {
		return Result{Status: StatusFail, Message: "broken", Detail: "details here"}
	})

	results := r.Run(context.Background())

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Name != "Always Pass" || results[0].Status != StatusPass {
		t.Errorf("results[0] = %+v, want named pass", results[0])
	}
	if results[1].Name != "Always Fail" || results[1].Status != StatusFail {
		t.Errorf("results[1] = %+v, want named fail", results[1])
	}
}

func TestCheckStoreConnectivity_AuthRejectionStillPasses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	t.Setenv("LMSPICK_API_URL", server.URL)

	result := checkStoreConnectivity(context.Background())

	if result.Status != StatusPass {
		t.Errorf("status = %v, want pass when endpoint rejects the probe token", result.Status)
	}
	if !strings.Contains(result.Message, server.URL) {
		t.Errorf("message = %q, want to contain endpoint", result.Message)
	}
}

func TestCheckStoreConnectivity_Unreachable(t *testing.T) {
	// Reserved port with nothing listening.
	t.Setenv("LMSPICK_API_URL", "http://127.0.0.1:1")

	result := checkStoreConnectivity(context.Background())

	if result.Status != StatusFail {
		t.Errorf("status = %v, want fail for unreachable endpoint", result.Status)
	}
}

func TestSummary(t *testing.T) {
	results := []Result{
		{Status: StatusPass},
		{Status: StatusPass},
		{Status: StatusWarn},
		{Status: StatusFail},
	}

	passed, failed, warnings := Summary(results)

	if passed != 2 || failed != 1 || warnings != 1 {
		t.Errorf("Summary() = (%d, %d, %d), want (2, 1, 1)", passed, failed, warnings)
	}
}

func TestStatus_Symbol(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPass, checkMark},
		{StatusWarn, warningMark},
		{StatusFail, xMark},
		{Status(99), "?"},
	}

	for _, tt := range tests {
		if got := tt.status.Symbol(); got != tt.want {
			t.Errorf("Symbol(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRenderResults(t *testing.T) {
	results := []Result{
		{Name: "Short", Status: StatusPass, Message: "fine"},
		{Name: "Much Longer Name", Status: StatusFail, Message: "bad", Detail: "why it is bad"},
	}

	var lines []string
	record := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	RenderResults(results, record, record, record, record, record)

	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3 (two results plus one detail)", len(lines))
	}
	if !strings.Contains(lines[0], "fine") {
		t.Errorf("lines[0] = %q, want message", lines[0])
	}
	if !strings.Contains(lines[2], "why it is bad") {
		t.Errorf("lines[2] = %q, want detail", lines[2])
	}
}

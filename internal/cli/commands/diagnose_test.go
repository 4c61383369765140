package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewDiagnoseCommand(t *testing.T) {
	cmd := NewDiagnoseCommand()

	if cmd.Use != "diagnose <log-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if cmd.Flags().Lookup("verbose") == nil {
		t.Error("Missing verbose flag")
	}
}

func TestCheckLogFile_NotFound(t *testing.T) {
	result := checkLogFile("/nonexistent/highs.log")

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "not found") {
		t.Errorf("Expected 'not found' in message, got: %s", result.Message)
	}
}

func TestCheckLogFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(path, []byte{}, 0644); err != nil {
		t.Fatal(err)
	}

	result := checkLogFile(path)
	if result.Status != "warning" {
		t.Errorf("Expected warning status, got %s", result.Status)
	}
}

func TestCheckLogFile_Directory(t *testing.T) {
	result := checkLogFile(t.TempDir())

	if result.Status != "error" {
		t.Errorf("Expected error status, got %s", result.Status)
	}
}

func TestCheckLogFile_Success(t *testing.T) {
	result := checkLogFile(testLog("highs_mip.log"))

	if result.Status != "ok" {
		t.Errorf("Expected ok status, got %s: %s", result.Status, result.Message)
	}
}

func TestRunDiagnose_RowVerdicts(t *testing.T) {
	var buf bytes.Buffer
	err := runDiagnose(context.Background(), &buf, testLog("highs_interrupted.log"), &DiagnoseOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"[WARN] Run Selection",
		"[WARN] Progress Rows",
		"4 of 5 rows parsed, 1 rejected",
		"line     8  ok        t=0s bound=- solution=- gap=-%",
		"line     9  ok        t=0.2s bound=-50 solution=-20 gap=-%",
		"line    11  REJECTED  malformed progress row: Expl.% column",
		"Summary: 3 passed, 2 warnings, 0 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if ExitCode != ExitOK {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitOK)
	}
}

func TestRunDiagnose_Verbose(t *testing.T) {
	var buf bytes.Buffer
	err := runDiagnose(context.Background(), &buf, testLog("highs_mip.log"), &DiagnoseOptions{Verbose: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Run 1: line 1, 26 lines, completed") {
		t.Errorf("Expected run details in verbose output:\n%s", out)
	}
	if !strings.Contains(out, "T      25       2        10  62.50%") {
		t.Errorf("Expected raw row text in verbose output:\n%s", out)
	}
	if !strings.Contains(out, "The log looks good!") {
		t.Errorf("Expected clean verdict:\n%s", out)
	}
}

func TestRunDiagnose_NoProgressRows(t *testing.T) {
	var buf bytes.Buffer
	err := runDiagnose(context.Background(), &buf, testLog("no_progress.log"), &DiagnoseOptions{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "[FAIL] Progress Rows") {
		t.Errorf("Expected failed row check:\n%s", buf.String())
	}
	if ExitCode != ExitNoData {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitNoData)
	}
}

func TestRunDiagnose_MissingLog(t *testing.T) {
	cmd := NewDiagnoseCommand()
	stdout, _, err := execute(t, cmd, "/nonexistent/highs.log")

	// Should not error, just print diagnostics
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "[FAIL] Log File") {
		t.Errorf("Expected failed log check:\n%s", stdout)
	}
	if ExitCode != ExitError {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitError)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a long string", 10, "this is..."},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

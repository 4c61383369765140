package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunDetect_Text(t *testing.T) {
	stdout, _, err := execute(t, NewDetectCommand(), testLog("highs_mip.log"))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	for _, want := range []string{
		"=== Solver Log Detection ===",
		"Runs: 3 (2 completed)",
		"2. line 27, 29 lines, completed",
		"Progress header: line 15",
		"Progress rows: 10 (10 parsed, 0 rejected)",
		"13 columns (source label): 4 rows",
		"Confidence: 100%",
		"Detected: HiGHS MIP log",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunDetect_RejectedRowsWarning(t *testing.T) {
	stdout, _, err := execute(t, NewDetectCommand(), testLog("highs_interrupted.log"))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(stdout, "WARNING: some progress rows do not parse") {
		t.Errorf("Expected warning:\n%s", stdout)
	}
}

func TestRunDetect_NotSupported(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(logPath, []byte("2024-01-15T10:30:00 started\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, NewDetectCommand(), logPath)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(stdout, "No supported solver log layout detected.") {
		t.Errorf("Expected unsupported notice:\n%s", stdout)
	}
	if !strings.Contains(stdout, "no run-start marker") {
		t.Errorf("Expected marker notice:\n%s", stdout)
	}
	if ExitCode != ExitNoData {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitNoData)
	}
}

func TestRunDetect_JSON(t *testing.T) {
	stdout, _, err := execute(t, NewDetectCommand(), "-o", "json", testLog("highs_mip.log"))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if !out.Supported || len(out.Runs) != 3 || len(out.Layouts) != 2 {
		t.Errorf("Unexpected detection %+v", out)
	}
	if out.Layouts[0].Columns != 12 || out.Layouts[0].MatchCount != 6 {
		t.Errorf("Unexpected first layout %+v", out.Layouts[0])
	}
}

func TestRunDetect_MissingFile(t *testing.T) {
	if _, _, err := execute(t, NewDetectCommand(), "/nonexistent/highs.log"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunDetect_WriteConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "miplog.yaml")

	_, stderr, err := execute(t, NewDetectCommand(), "-w", configPath, testLog("highs_mip.log"))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(stderr, "Wrote starter config to: "+configPath) {
		t.Errorf("Unexpected stderr %q", stderr)
	}

	// The generated file must validate.
	if _, _, err := execute(t, NewValidateCommand(), configPath); err != nil {
		t.Errorf("generated config does not validate: %v", err)
	}

	// A second run must not overwrite it.
	_, _, err = execute(t, NewDetectCommand(), "-w", configPath, testLog("highs_mip.log"))
	if err == nil || !strings.Contains(err.Error(), "will not overwrite") {
		t.Errorf("Expected overwrite refusal, got %v", err)
	}
}

func TestDetectOptions_Defaults(t *testing.T) {
	cmd := NewDetectCommand()

	if v, _ := cmd.Flags().GetString("output"); v != "text" {
		t.Errorf("Expected default output text, got %s", v)
	}
	if v, _ := cmd.Flags().GetInt("sample"); v != 0 {
		t.Errorf("Expected default sample 0, got %d", v)
	}
}

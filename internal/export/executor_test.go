package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ayusman/repwatch/internal/analysis"
)

func TestExecutor_Export(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "repwatch-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// A shell script that echoes a success JSON response
	scriptContent := `#!/bin/sh
cat >/dev/null
echo '{"success":true}'
`
	scriptPath := filepath.Join(tmpDir, "test-exporter.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	exporter := &Exporter{
		Manifest: Manifest{
			Name:       "test-exporter",
			Version:    "1.0.0",
			Executable: "test-exporter.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	req := NewRequest("session-1", analysis.SessionResult{
		TotalCount: 3,
		Feedback: []analysis.FeedbackEvent{
			{Rep: 1, Category: analysis.GoodJob},
			{Rep: 2, Category: analysis.TooFast},
			{Rep: 3, Category: analysis.GoodJob},
		},
	})

	executor := NewExecutor(5000)
	resp, err := executor.Export(exporter, req)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	if !resp.Success {
		t.Error("expected success=true, got false")
	}
	if resp.Error != "" {
		t.Errorf("expected empty error, got %q", resp.Error)
	}
}

func TestExecutor_Export_ReceivesRequestOnStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "repwatch-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// A shell script that copies stdin to a file and replies success
	capturePath := filepath.Join(tmpDir, "received.json")
	scriptContent := `#!/bin/sh
cat > received.json
echo '{"success":true}'
`
	scriptPath := filepath.Join(tmpDir, "echo-exporter.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	exporter := &Exporter{
		Manifest: Manifest{
			Name:       "echo-exporter",
			Version:    "1.0.0",
			Executable: "echo-exporter.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	req := NewRequest("session-42", analysis.SessionResult{
		TotalCount: 1,
		Feedback: []analysis.FeedbackEvent{
			{Rep: 1, Category: analysis.HipTooLow},
		},
	})

	executor := NewExecutor(5000)
	if _, err := executor.Export(exporter, req); err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	received, err := os.ReadFile(capturePath)
	if err != nil {
		t.Fatalf("exporter never received the request: %v", err)
	}

	var got Request
	if err := json.Unmarshal(received, &got); err != nil {
		t.Fatalf("failed to unmarshal received request: %v", err)
	}
	if got.SessionID != "session-42" {
		t.Errorf("expected session ID 'session-42', got %q", got.SessionID)
	}
	if got.TotalCount != 1 {
		t.Errorf("expected total count 1, got %d", got.TotalCount)
	}
	if len(got.Feedback) != 1 || got.Feedback[0].Category != analysis.HipTooLow {
		t.Errorf("unexpected feedback: %+v", got.Feedback)
	}
}

func TestExecutor_Export_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "repwatch-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	scriptContent := `#!/bin/sh
sleep 10
`
	scriptPath := filepath.Join(tmpDir, "slow-exporter.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	exporter := &Exporter{
		Manifest: Manifest{
			Name:       "slow-exporter",
			Version:    "1.0.0",
			Executable: "slow-exporter.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	executor := NewExecutor(100)
	_, err = executor.Export(exporter, NewRequest("session-1", analysis.SessionResult{}))
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestExecutor_Export_MalformedResponse(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir, err := os.MkdirTemp("", "repwatch-executor-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	scriptContent := `#!/bin/sh
cat >/dev/null
echo 'not json at all'
`
	scriptPath := filepath.Join(tmpDir, "bad-exporter.sh")
	if err := os.WriteFile(scriptPath, []byte(scriptContent), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	exporter := &Exporter{
		Manifest: Manifest{
			Name:       "bad-exporter",
			Version:    "1.0.0",
			Executable: "bad-exporter.sh",
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}

	executor := NewExecutor(5000)
	_, err = executor.Export(exporter, NewRequest("session-1", analysis.SessionResult{}))
	if err == nil {
		t.Fatal("expected parse error for malformed response")
	}
}

// Package main provides a file report exporter.
// It writes each completed session summary to a text file under
// ~/.repwatch/reports.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Request represents the session summary from the export executor.
type Request struct {
	SessionID   string          `json:"session_id"`
	CompletedAt string          `json:"completed_at"`
	TotalCount  int             `json:"total_count"`
	Feedback    []FeedbackEvent `json:"feedback"`
}

// FeedbackEvent is one per-rep form classification.
type FeedbackEvent struct {
	Rep      int    `json:"rep"`
	Category string `json:"category"`
}

// Response represents the output to the export executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if err := writeReport(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to write report: %v", err))
		return
	}

	writeSuccessResponse()
}

// writeReport renders the session summary and writes it to the report file.
func writeReport(req *Request) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	reportDir := filepath.Join(homeDir, ".repwatch", "reports")
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session %s\n", req.SessionID)
	fmt.Fprintf(&b, "Completed: %s\n", req.CompletedAt)
	fmt.Fprintf(&b, "Total reps: %d\n", req.TotalCount)
	for _, fb := range req.Feedback {
		fmt.Fprintf(&b, "  rep %d: %s\n", fb.Rep, fb.Category)
	}

	reportPath := filepath.Join(reportDir, req.SessionID+".txt")
	return os.WriteFile(reportPath, []byte(b.String()), 0644)
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// Package export delivers completed session summaries to external exporter
// programs discovered on disk.
package export

import (
	"time"

	"github.com/ayusman/repwatch/internal/analysis"
)

// Manifest describes an exporter's metadata.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
}

// Request is the session summary sent to an exporter on stdin.
type Request struct {
	SessionID   string                   `json:"session_id"`
	CompletedAt string                   `json:"completed_at"`
	TotalCount  int                      `json:"total_count"`
	Feedback    []analysis.FeedbackEvent `json:"feedback"`
}

// NewRequest builds an export request from a finished session.
func NewRequest(sessionID string, result analysis.SessionResult) *Request {
	return &Request{
		SessionID:   sessionID,
		CompletedAt: time.Now().Format(time.RFC3339),
		TotalCount:  result.TotalCount,
		Feedback:    result.Feedback,
	}
}

// Response is the exporter's reply on stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Exporter represents a discovered exporter with its manifest and location.
type Exporter struct {
	Manifest   Manifest
	Path       string
	Executable string
}

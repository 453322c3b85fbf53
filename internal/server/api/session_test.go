package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/repwatch/internal/analysis"
	"github.com/ayusman/repwatch/internal/app"
	"github.com/ayusman/repwatch/internal/capture"
	"github.com/ayusman/repwatch/internal/pose"
	"gocv.io/x/gocv"
)

// newTestApp creates an App backed by a mock camera and estimator.
func newTestApp(t *testing.T) *app.App {
	t.Helper()

	a := app.New(app.Config{Analysis: analysis.DefaultConfig()})

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() {
		frame.Close()
	})
	a.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))
	a.SetEstimator(pose.NewMockEstimator())

	return a
}

func TestSessionHandler_Status(t *testing.T) {
	a := newTestApp(t)
	handler := NewSessionHandler(a)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var status app.Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Running {
		t.Error("expected session not running initially")
	}
}

func TestSessionHandler_StartStop(t *testing.T) {
	a := newTestApp(t)
	handler := NewSessionHandler(a)

	// Start the session
	req := httptest.NewRequest(http.MethodPost, "/api/session/start", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("start: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var status app.Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !status.Running {
		t.Error("expected session running after start")
	}
	if status.SessionID == "" {
		t.Error("expected a session ID after start")
	}

	// Stop the session
	req = httptest.NewRequest(http.MethodPost, "/api/session/stop", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("stop: expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Running {
		t.Error("expected session stopped after stop")
	}

	// Stopping again is a no-op, not an error
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/session/stop", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("second stop: expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	a := newTestApp(t)
	handler := NewSessionHandler(a)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/session"},
		{http.MethodGet, "/api/session/start"},
		{http.MethodGet, "/api/session/stop"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected status %d, got %d", tt.method, tt.path, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}

func TestSessionHandler_UnknownPath(t *testing.T) {
	a := newTestApp(t)
	handler := NewSessionHandler(a)

	req := httptest.NewRequest(http.MethodPost, "/api/session/pause", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

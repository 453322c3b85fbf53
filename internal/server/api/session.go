package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/repwatch/internal/app"
)

// SessionHandler exposes start/stop control and status for the live session.
type SessionHandler struct {
	app *app.App
}

// NewSessionHandler creates a new SessionHandler driving the given App.
func NewSessionHandler(a *app.App) *SessionHandler {
	return &SessionHandler{app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests.
// Expected paths: /api/session, /api/session/start, /api/session/stop
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.status(w, r)
	case "start":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.start(w, r)
	case "stop":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.stop(w, r)
	default:
		http.NotFound(w, r)
	}
}

// status handles GET /api/session and returns the session snapshot.
func (h *SessionHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Status())
}

// start handles POST /api/session/start.
func (h *SessionHandler) start(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Start(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to start session: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.app.Status())
}

// stop handles POST /api/session/stop. Stopping an idle session is a no-op.
func (h *SessionHandler) stop(w http.ResponseWriter, r *http.Request) {
	h.app.Stop()
	writeJSON(w, http.StatusOK, h.app.Status())
}

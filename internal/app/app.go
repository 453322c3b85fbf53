// Package app wires the capture, estimation, and analysis stages into the
// two ingestion pipelines RepWatch supports: live camera and sampled video.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/repwatch/internal/analysis"
	"github.com/ayusman/repwatch/internal/capture"
	"github.com/ayusman/repwatch/internal/export"
	"github.com/ayusman/repwatch/internal/pose"
	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// Config holds configuration options for the application.
type Config struct {
	CameraID  int
	Analysis  analysis.Config
	Callbacks analysis.Callbacks
	Exporters *export.Manager
}

// Status is a point-in-time snapshot of the running session.
type Status struct {
	Running   bool              `json:"running"`
	SessionID string            `json:"session_id,omitempty"`
	Count     int               `json:"count"`
	State     analysis.State    `json:"state"`
	Feedback  analysis.Category `json:"last_feedback,omitempty"`
}

// App drives a live-camera analysis session: frames flow from the camera
// through the pose estimator into the repetition counter, one at a time.
type App struct {
	config    Config
	camera    capture.Camera
	estimator pose.Estimator
	counter   *analysis.Counter

	mu        sync.Mutex // session lifecycle
	stopCh    chan struct{}
	wg        sync.WaitGroup
	slot      chan *gocv.Mat
	sessionID string

	stateMu      sync.RWMutex // status mirror, written from the worker
	lastCount    int
	lastState    analysis.State
	lastFeedback analysis.Category
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	a := &App{
		config: config,
		camera: capture.NewCamera(config.CameraID),
	}
	a.counter = analysis.NewCounter(config.Analysis, a.wrapCallbacks(config.Callbacks))

	// Try the BlazePose sidecar first, fall back to the mock estimator
	if bp, err := pose.NewBlazePoseEstimator(pose.DefaultConfig()); err == nil {
		a.estimator = bp
		log.Println("Using BlazePose estimation")
	} else {
		log.Printf("BlazePose not available (%v), using mock estimator", err)
		a.estimator = pose.NewMockEstimator()
	}

	return a
}

// SetCamera replaces the camera implementation. Only valid between sessions.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetEstimator replaces the pose estimator. Only valid between sessions.
func (a *App) SetEstimator(e pose.Estimator) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.estimator = e
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.camera
}

// Estimator returns the pose estimator.
func (a *App) Estimator() pose.Estimator {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.estimator
}

// Status returns a snapshot of the current session.
func (a *App) Status() Status {
	a.mu.Lock()
	running := a.stopCh != nil
	sessionID := a.sessionID
	a.mu.Unlock()

	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	return Status{
		Running:   running,
		SessionID: sessionID,
		Count:     a.lastCount,
		State:     a.lastState,
		Feedback:  a.lastFeedback,
	}
}

// wrapCallbacks mirrors counter events into the status snapshot before
// forwarding them, and hooks session completion for export.
func (a *App) wrapCallbacks(cb analysis.Callbacks) analysis.Callbacks {
	return analysis.Callbacks{
		OnCount: func(count int) {
			a.stateMu.Lock()
			a.lastCount = count
			a.stateMu.Unlock()
			if cb.OnCount != nil {
				cb.OnCount(count)
			}
		},
		OnState: func(state analysis.State) {
			a.stateMu.Lock()
			a.lastState = state
			a.stateMu.Unlock()
			if cb.OnState != nil {
				cb.OnState(state)
			}
		},
		OnReady: func() {
			a.stateMu.Lock()
			a.lastState = analysis.StateUp
			a.stateMu.Unlock()
			if cb.OnReady != nil {
				cb.OnReady()
			}
		},
		OnFeedback: func(rep int, category analysis.Category) {
			a.stateMu.Lock()
			a.lastFeedback = category
			a.stateMu.Unlock()
			if cb.OnFeedback != nil {
				cb.OnFeedback(rep, category)
			}
		},
		OnTargetReached: cb.OnTargetReached,
		OnComplete: func(result analysis.SessionResult) {
			if cb.OnComplete != nil {
				cb.OnComplete(result)
			}
			a.runExporters(result)
		},
	}
}

// runExporters hands the completed session to every discovered exporter.
// Export failures are logged and never affect the session outcome.
func (a *App) runExporters(result analysis.SessionResult) {
	if a.config.Exporters == nil {
		return
	}

	req := export.NewRequest(a.sessionID, result)
	executor := export.NewExecutor(export.DefaultTimeoutMs)
	for _, exp := range a.config.Exporters.List() {
		resp, err := executor.Export(exp, req)
		if err != nil {
			log.Printf("exporter %s failed: %v", exp.Manifest.Name, err)
			continue
		}
		if !resp.Success {
			log.Printf("exporter %s rejected the session: %s", exp.Manifest.Name, resp.Error)
		}
	}
}

// Start begins a live analysis session.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.sessionID = uuid.New().String()
	a.stateMu.Lock()
	a.lastCount = 0
	a.lastState = analysis.StateNotReady
	a.lastFeedback = ""
	a.stateMu.Unlock()

	a.counter.Start()

	a.stopCh = make(chan struct{})
	a.slot = newFrameSlot()
	a.wg.Add(2)
	go a.captureLoop(a.stopCh, a.slot)
	go a.estimateLoop(a.stopCh, a.slot)

	log.Printf("Live session %s started", a.sessionID)
	return nil
}

// Stop halts the live pipeline, finalizes the session, and releases the
// camera. The session summary is emitted through OnComplete.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	slot := a.slot
	a.slot = nil
	a.mu.Unlock()

	// Wait for both loops so no frame is in flight through the counter.
	a.wg.Wait()
	drainFrameSlot(slot)

	a.counter.Stop()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.estimator.Close(); err != nil {
		log.Printf("Error closing estimator: %v", err)
	}

	log.Println("Live session stopped")
}

// Package tray provides a system tray interface for controlling RepWatch sessions.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(active bool)
	onDashboard func()
	onQuit      func()
	active      bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuCount    *systray.MenuItem
	menuFeedback *systray.MenuItem
}

// New creates a new Tray instance with no session running.
func New() *Tray {
	return &Tray{}
}

// OnToggle sets the callback called when a workout is started or stopped.
func (t *Tray) OnToggle(fn func(active bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnDashboard sets the callback called when the dashboard menu item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("RepWatch")
	systray.SetTooltip("RepWatch Push-Up Counter")

	t.menuToggle = systray.AddMenuItem("Start Workout", "Start or stop a push-up session")
	systray.AddSeparator()

	t.menuCount = systray.AddMenuItem("Reps: 0", "Repetitions this session")
	t.menuCount.Disable()
	t.menuFeedback = systray.AddMenuItem("Feedback: none", "Latest form feedback")
	t.menuFeedback.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit RepWatch")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggle handles the start/stop menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.active = !t.active
	active := t.active

	if active {
		t.menuToggle.SetTitle("Stop Workout")
		t.menuCount.SetTitle("Reps: 0")
		t.menuFeedback.SetTitle("Feedback: none")
	} else {
		t.menuToggle.SetTitle("Start Workout")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(active)
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetCount updates the repetition count display in the menu.
func (t *Tray) SetCount(count int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuCount != nil {
		t.menuCount.SetTitle(fmt.Sprintf("Reps: %d", count))
	}
}

// SetFeedback updates the latest feedback display in the menu.
func (t *Tray) SetFeedback(category string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuFeedback != nil {
		if category == "" {
			t.menuFeedback.SetTitle("Feedback: none")
		} else {
			t.menuFeedback.SetTitle("Feedback: " + category)
		}
	}
}

// SetActive updates the session state shown in the menu. Used when a session
// ends on its own, for example when a repetition target is reached.
func (t *Tray) SetActive(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = active
	if t.menuToggle == nil {
		return
	}
	if active {
		t.menuToggle.SetTitle("Stop Workout")
	} else {
		t.menuToggle.SetTitle("Start Workout")
	}
}

// IsActive returns whether a workout session is currently running.
func (t *Tray) IsActive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active
}

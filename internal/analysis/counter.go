package analysis

import (
	"log"

	"github.com/ayusman/repwatch/internal/pose"
)

// Counter is the repetition state machine. It owns the exercise state, the
// count, and the current cycle window, and is their sole mutator.
//
// The counter is single-threaded and not reentrant: ProcessFrame must never
// be invoked concurrently with itself. Callers serialize frames so at most
// one is in flight through the counter at a time.
type Counter struct {
	cfg      Config
	selector *SideSelector
	cb       Callbacks

	running     bool
	state       State
	count       int
	window      CycleWindow
	feedbackLog []FeedbackEvent
	targetFired bool
}

// NewCounter creates a counter with the given thresholds and event callbacks.
func NewCounter(cfg Config, cb Callbacks) *Counter {
	return &Counter{
		cfg:      cfg,
		selector: NewSideSelector(cfg.VisibilityThreshold),
		cb:       cb,
		state:    StateNotReady,
	}
}

// Start resets the counter for a new session and emits the initial count.
// The initial phase is NOT_READY, which is never reported through OnState.
func (c *Counter) Start() {
	c.running = true
	c.state = StateNotReady
	c.count = 0
	c.feedbackLog = nil
	c.window.Reset()
	c.targetFired = false

	c.cb.emitCount(0)
}

// Stop finalizes the session and emits the result. Idempotent: a second
// Stop without an intervening Start emits nothing.
func (c *Counter) Stop() {
	if !c.running {
		return
	}
	c.running = false

	result := SessionResult{
		TotalCount: c.count,
		Feedback:   append([]FeedbackEvent(nil), c.feedbackLog...),
	}
	c.cb.emitComplete(result)
}

// Running reports whether a session is in progress.
func (c *Counter) Running() bool { return c.running }

// Count returns the current repetition count.
func (c *Counter) Count() int { return c.count }

// State returns the current exercise phase.
func (c *Counter) State() State { return c.state }

// FeedbackLog returns the per-rep feedback recorded so far.
func (c *Counter) FeedbackLog() []FeedbackEvent {
	return append([]FeedbackEvent(nil), c.feedbackLog...)
}

// ProcessFrame ingests one pose estimate. It returns false when the frame
// was unusable (no valid side on some joint, or no session running), in
// which case no state was mutated.
func (c *Counter) ProcessFrame(f *pose.Frame) bool {
	if !c.running {
		return false
	}

	angles, ok := c.selector.Select(f)
	if !ok {
		return false
	}

	switch c.state {
	case StateNotReady:
		c.checkReady(angles)
	case StateUp, StateDown:
		c.step(angles, f.TimestampMs)
	}
	return true
}

// checkReady tests the readiness ranges. The triggering frame's angles are
// not added to any cycle window.
func (c *Counter) checkReady(a FrameAngles) {
	if !c.cfg.ReadyElbowRange.Contains(a.Elbow.Degrees) ||
		!c.cfg.ReadyHipRange.Contains(a.Hip.Degrees) ||
		!c.cfg.ReadyKneeRange.Contains(a.Knee.Degrees) {
		return
	}

	c.state = StateUp
	c.cb.emitReady()
}

// step runs one active-phase frame through the hysteresis state machine.
func (c *Counter) step(a FrameAngles, timestampMs int64) {
	c.window.Add(a)

	lowerStable := c.cfg.HipRange.Contains(a.Hip.Degrees) &&
		c.cfg.KneeRange.Contains(a.Knee.Degrees)
	if !lowerStable {
		return
	}

	switch {
	case c.state == StateUp && a.Elbow.Degrees < c.cfg.ElbowDownThreshold:
		c.state = StateDown
		c.window.MarkDown(timestampMs)
		c.cb.emitState(StateDown)

	case c.state == StateDown && a.Elbow.Degrees > c.cfg.ElbowUpThreshold:
		c.completeRep(timestampMs)
	}
}

// completeRep handles the DOWN -> READY_UP transition, the only place the
// count increments.
func (c *Counter) completeRep(timestampMs int64) {
	c.count++
	c.state = StateUp
	c.cb.emitCount(c.count)
	c.cb.emitState(StateUp)

	if c.window.Samples() > 0 {
		var durationMs int64
		if start, ok := c.window.DownEnteredMs(); ok {
			durationMs = timestampMs - start
		}
		category := Classify(&c.window, durationMs, c.cfg)
		c.cb.emitFeedback(c.count, category)
		c.feedbackLog = append(c.feedbackLog, FeedbackEvent{Rep: c.count, Category: category})
	} else {
		log.Printf("rep %d completed with an empty cycle window, no feedback", c.count)
	}
	c.window.Reset()

	if c.cfg.TargetCount > 0 && c.count >= c.cfg.TargetCount && !c.targetFired {
		c.targetFired = true
		c.cb.emitTargetReached()
	}
}

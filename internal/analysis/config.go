// Package analysis turns per-frame pose estimates into repetition counts,
// exercise state, and form feedback for a push-up session.
package analysis

// Range is an inclusive angle interval in degrees.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Config holds every tunable threshold used by the analyzer. All values are
// explicit so tuning and testing never require a rebuild.
type Config struct {
	// TargetCount is the repetition goal. 0 means unlimited.
	TargetCount int `json:"target_count"`

	// VisibilityThreshold is the minimum landmark confidence for a triad
	// landmark to count as visible (0.0-1.0).
	VisibilityThreshold float64 `json:"visibility_threshold"`

	// ElbowUpThreshold and ElbowDownThreshold bound the hysteresis band of
	// the counter. A rep bottoms out below the down threshold and completes
	// above the up threshold; the gap between them prevents oscillation
	// around a single boundary angle.
	ElbowUpThreshold   float64 `json:"elbow_up_threshold"`
	ElbowDownThreshold float64 `json:"elbow_down_threshold"`

	// HipRange and KneeRange define lower-body alignment. Both must hold
	// for a state transition to fire.
	HipRange  Range `json:"hip_range"`
	KneeRange Range `json:"knee_range"`

	// Readiness ranges gate the start of counting: all three must hold on
	// a single frame before any repetition is counted.
	ReadyElbowRange Range `json:"ready_elbow_range"`
	ReadyHipRange   Range `json:"ready_hip_range"`
	ReadyKneeRange  Range `json:"ready_knee_range"`

	// TooFastMs is the minimum acceptable cycle duration in milliseconds.
	TooFastMs int64 `json:"too_fast_ms"`

	// Form classification thresholds, evaluated over per-rep extrema.
	ElbowNotUpEnough   float64 `json:"elbow_not_up_enough"`   // max elbow below this: arms never extended
	ElbowNotDownEnough float64 `json:"elbow_not_down_enough"` // min elbow above this: descent too shallow
	HipTooLow          float64 `json:"hip_too_low"`           // min hip below this: hips sagging
	KneeBentTooMuch    float64 `json:"knee_bent_too_much"`    // min knee below this: knees collapsing
}

// DefaultConfig returns a Config tuned for a standard push-up.
func DefaultConfig() Config {
	return Config{
		TargetCount:         0,
		VisibilityThreshold: 0.6,
		ElbowUpThreshold:    160,
		ElbowDownThreshold:  100,
		HipRange:            Range{Min: 140, Max: 180},
		KneeRange:           Range{Min: 140, Max: 180},
		ReadyElbowRange:     Range{Min: 150, Max: 180},
		ReadyHipRange:       Range{Min: 150, Max: 180},
		ReadyKneeRange:      Range{Min: 150, Max: 180},
		TooFastMs:           1000,
		ElbowNotUpEnough:    150,
		ElbowNotDownEnough:  110,
		HipTooLow:           130,
		KneeBentTooMuch:     130,
	}
}

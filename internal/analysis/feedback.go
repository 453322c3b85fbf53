package analysis

// Category classifies the form quality of one completed repetition.
type Category string

const (
	TooFast            Category = "too_fast"
	NotElbowUpEnough   Category = "not_elbow_up_enough"
	NotElbowDownEnough Category = "not_elbow_down_enough"
	HipTooLow          Category = "hip_too_low"
	KneeBentTooMuch    Category = "knee_bent_too_much"
	GoodJob            Category = "good_job"

	// HipTooHigh is part of the category taxonomy for forward compatibility
	// but no rule in the classifier chain currently produces it.
	HipTooHigh Category = "hip_too_high"
)

// Classify maps one repetition's extrema and duration to a feedback
// category. Rules are evaluated in priority order; the first match wins and
// exactly one category is returned.
func Classify(w *CycleWindow, durationMs int64, cfg Config) Category {
	switch {
	case durationMs < cfg.TooFastMs:
		return TooFast
	case w.MaxElbow() < cfg.ElbowNotUpEnough:
		return NotElbowUpEnough
	case w.MinElbow() > cfg.ElbowNotDownEnough:
		return NotElbowDownEnough
	case w.MinHip() < cfg.HipTooLow:
		return HipTooLow
	case w.MinKnee() < cfg.KneeBentTooMuch:
		return KneeBentTooMuch
	default:
		return GoodJob
	}
}

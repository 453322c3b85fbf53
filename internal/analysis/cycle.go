package analysis

// CycleWindow accumulates the angle extrema of one repetition: every usable
// frame between two completed reps (or since readiness, for the first rep)
// contributes one sample. The counter resets it exactly once per completed
// rep, right after feedback has been derived from it.
type CycleWindow struct {
	samples      int
	maxElbow     float64
	minElbow     float64
	minHip       float64
	minKnee      float64
	downEnteredA bool
	downEnteredM int64
}

// Add folds one frame's angles into the running extrema.
func (w *CycleWindow) Add(a FrameAngles) {
	if w.samples == 0 {
		w.maxElbow = a.Elbow.Degrees
		w.minElbow = a.Elbow.Degrees
		w.minHip = a.Hip.Degrees
		w.minKnee = a.Knee.Degrees
		w.samples = 1
		return
	}

	if a.Elbow.Degrees > w.maxElbow {
		w.maxElbow = a.Elbow.Degrees
	}
	if a.Elbow.Degrees < w.minElbow {
		w.minElbow = a.Elbow.Degrees
	}
	if a.Hip.Degrees < w.minHip {
		w.minHip = a.Hip.Degrees
	}
	if a.Knee.Degrees < w.minKnee {
		w.minKnee = a.Knee.Degrees
	}
	w.samples++
}

// MarkDown records the timestamp at which the rep entered the down state.
func (w *CycleWindow) MarkDown(timestampMs int64) {
	w.downEnteredA = true
	w.downEnteredM = timestampMs
}

// DownEnteredMs returns the down-entry timestamp and whether one was recorded.
func (w *CycleWindow) DownEnteredMs() (int64, bool) {
	return w.downEnteredM, w.downEnteredA
}

// Samples returns the number of accumulated frames.
func (w *CycleWindow) Samples() int { return w.samples }

// MaxElbow returns the maximum accumulated elbow angle.
func (w *CycleWindow) MaxElbow() float64 { return w.maxElbow }

// MinElbow returns the minimum accumulated elbow angle.
func (w *CycleWindow) MinElbow() float64 { return w.minElbow }

// MinHip returns the minimum accumulated hip angle.
func (w *CycleWindow) MinHip() float64 { return w.minHip }

// MinKnee returns the minimum accumulated knee angle.
func (w *CycleWindow) MinKnee() float64 { return w.minKnee }

// Reset clears the window for the next repetition.
func (w *CycleWindow) Reset() {
	*w = CycleWindow{}
}

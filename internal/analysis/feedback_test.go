package analysis

import "testing"

// window builds a CycleWindow with the given extrema baked in.
func window(elbowMin, elbowMax, hipMin, kneeMin float64) *CycleWindow {
	w := &CycleWindow{}
	w.Add(FrameAngles{
		Elbow: JointAngle{Degrees: elbowMax},
		Hip:   JointAngle{Degrees: hipMin},
		Knee:  JointAngle{Degrees: kneeMin},
	})
	w.Add(FrameAngles{
		Elbow: JointAngle{Degrees: elbowMin},
		Hip:   JointAngle{Degrees: hipMin},
		Knee:  JointAngle{Degrees: kneeMin},
	})
	return w
}

func TestClassify_PriorityChain(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name       string
		w          *CycleWindow
		durationMs int64
		want       Category
	}{
		{"good rep", window(90, 170, 170, 170), 2000, GoodJob},
		{"too fast", window(90, 170, 170, 170), 500, TooFast},
		{"never extended", window(90, 140, 170, 170), 2000, NotElbowUpEnough},
		{"too shallow", window(120, 170, 170, 170), 2000, NotElbowDownEnough},
		{"hips sagging", window(90, 170, 120, 170), 2000, HipTooLow},
		{"knees collapsing", window(90, 170, 170, 120), 2000, KneeBentTooMuch},
		// Too-fast outranks every form fault
		{"fast and shallow", window(120, 140, 120, 120), 300, TooFast},
		// Elbow extension outranks depth and lower-body faults
		{"bad everywhere but slow", window(120, 140, 120, 120), 2000, NotElbowUpEnough},
		// Depth outranks hip and knee
		{"shallow with sagging hips", window(120, 170, 120, 120), 2000, NotElbowDownEnough},
		// Hip outranks knee
		{"hips and knees both off", window(90, 170, 120, 120), 2000, HipTooLow},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.w, c.durationMs, cfg)
			if got != c.want {
				t.Errorf("Classify() = %s, want %s", got, c.want)
			}
		})
	}
}

func TestClassify_HipTooHighNeverProduced(t *testing.T) {
	cfg := DefaultConfig()

	// Sweep a grid of extrema; no combination may yield HipTooHigh
	for elbowMin := 60.0; elbowMin <= 180; elbowMin += 20 {
		for hipMin := 60.0; hipMin <= 180; hipMin += 20 {
			for kneeMin := 60.0; kneeMin <= 180; kneeMin += 20 {
				got := Classify(window(elbowMin, 180, hipMin, kneeMin), 2000, cfg)
				if got == HipTooHigh {
					t.Fatalf("HipTooHigh produced for elbow=%f hip=%f knee=%f",
						elbowMin, hipMin, kneeMin)
				}
			}
		}
	}
}

func TestCycleWindow_TracksExtrema(t *testing.T) {
	w := &CycleWindow{}

	angles := []FrameAngles{
		{Elbow: JointAngle{Degrees: 170}, Hip: JointAngle{Degrees: 175}, Knee: JointAngle{Degrees: 168}},
		{Elbow: JointAngle{Degrees: 120}, Hip: JointAngle{Degrees: 160}, Knee: JointAngle{Degrees: 165}},
		{Elbow: JointAngle{Degrees: 85}, Hip: JointAngle{Degrees: 150}, Knee: JointAngle{Degrees: 158}},
		{Elbow: JointAngle{Degrees: 130}, Hip: JointAngle{Degrees: 165}, Knee: JointAngle{Degrees: 170}},
	}
	for _, a := range angles {
		w.Add(a)
	}

	if w.Samples() != 4 {
		t.Errorf("Samples() = %d, want 4", w.Samples())
	}
	if w.MaxElbow() != 170 {
		t.Errorf("MaxElbow() = %f, want 170", w.MaxElbow())
	}
	if w.MinElbow() != 85 {
		t.Errorf("MinElbow() = %f, want 85", w.MinElbow())
	}
	if w.MinHip() != 150 {
		t.Errorf("MinHip() = %f, want 150", w.MinHip())
	}
	if w.MinKnee() != 158 {
		t.Errorf("MinKnee() = %f, want 158", w.MinKnee())
	}
}

func TestCycleWindow_Reset(t *testing.T) {
	w := &CycleWindow{}
	w.Add(FrameAngles{Elbow: JointAngle{Degrees: 90}})
	w.MarkDown(1234)

	w.Reset()

	if w.Samples() != 0 {
		t.Errorf("Samples() after reset = %d, want 0", w.Samples())
	}
	if _, ok := w.DownEnteredMs(); ok {
		t.Error("down-entry timestamp should be cleared by reset")
	}
}

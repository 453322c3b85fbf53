package pose

import (
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// MockEstimator is a test implementation of the Estimator interface.
// It allows tests to script the estimation results frame by frame.
type MockEstimator struct {
	mu    sync.Mutex
	queue []*Frame
	frame *Frame
	err   error
}

// NewMockEstimator creates a new MockEstimator instance.
func NewMockEstimator() *MockEstimator {
	return &MockEstimator{}
}

// SetFrame sets the frame returned by every Estimate call once the queue is drained.
func (m *MockEstimator) SetFrame(f *Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = f
}

// SetError sets the error that will be returned by Estimate.
func (m *MockEstimator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Enqueue appends frames to be returned by successive Estimate calls, in order.
func (m *MockEstimator) Enqueue(frames ...*Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// Estimate returns the next queued frame, the fixed frame, or the configured error.
func (m *MockEstimator) Estimate(frame *gocv.Mat) (*Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		f := m.queue[0]
		m.queue = m.queue[1:]
		return f, nil
	}
	if m.frame != nil {
		return m.frame, nil
	}
	return nil, ErrNoPose
}

// Close is a no-op for the mock estimator.
func (m *MockEstimator) Close() error {
	return nil
}

// BodyFrame builds a full-body pose frame whose elbow, hip, and knee angles
// equal the given values (in degrees) on both sides, with every landmark at
// the given confidence. The skeleton is laid out as a kinematic chain
// wrist-elbow-shoulder-hip-knee-ankle with the requested bend at each joint,
// so the frame exercises the real angle math instead of canned numbers.
func BodyFrame(elbowDeg, hipDeg, kneeDeg, confidence float64) *Frame {
	const segment = 0.12

	dir := func(rad float64) (float64, float64) {
		return math.Cos(rad) * segment, math.Sin(rad) * segment
	}

	wristX, wristY := 0.2, 0.8
	heading := 0.0

	dx, dy := dir(heading)
	elbowX, elbowY := wristX+dx, wristY+dy

	// Bend at the elbow: the ray back to the wrist points at heading+pi,
	// the ray to the shoulder sits elbowDeg away from it.
	heading = heading + math.Pi - elbowDeg*math.Pi/180
	dx, dy = dir(heading)
	shoulderX, shoulderY := elbowX+dx, elbowY+dy

	// Straight through the shoulder to the hip.
	dx, dy = dir(heading)
	hipX, hipY := shoulderX+dx, shoulderY+dy

	heading = heading + math.Pi - hipDeg*math.Pi/180
	dx, dy = dir(heading)
	kneeX, kneeY := hipX+dx, hipY+dy

	heading = heading + math.Pi - kneeDeg*math.Pi/180
	dx, dy = dir(heading)
	ankleX, ankleY := kneeX+dx, kneeY+dy

	positions := map[Part][2]float64{
		Wrist:    {wristX, wristY},
		Elbow:    {elbowX, elbowY},
		Shoulder: {shoulderX, shoulderY},
		Hip:      {hipX, hipY},
		Knee:     {kneeX, kneeY},
		Ankle:    {ankleX, ankleY},
	}

	f := &Frame{Landmarks: make(map[Joint]Landmark, 12)}
	for part, p := range positions {
		for _, side := range []Side{SideLeft, SideRight} {
			f.Landmarks[Joint{Part: part, Side: side}] = Landmark{
				X:          p[0],
				Y:          p[1],
				Confidence: confidence,
			}
		}
	}
	return f
}

// UpFrame is an extended push-up position: arms, hips, and knees near straight.
func UpFrame() *Frame {
	return BodyFrame(170, 170, 170, 0.95)
}

// DownFrame is the bottom of a push-up: elbows bent, body still aligned.
func DownFrame() *Frame {
	return BodyFrame(90, 170, 170, 0.95)
}

// SaggingHipFrame is a bottom position with the hips dropped out of alignment.
func SaggingHipFrame() *Frame {
	return BodyFrame(90, 120, 170, 0.95)
}

// BentKneeFrame is a bottom position with the knees bent too far.
func BentKneeFrame() *Frame {
	return BodyFrame(90, 170, 120, 0.95)
}

// ShallowFrame is a partial descent that never reaches the down threshold.
func ShallowFrame() *Frame {
	return BodyFrame(120, 170, 170, 0.95)
}

// LowConfidenceFrame is a well-formed pose whose landmarks are all below
// any reasonable visibility threshold.
func LowConfidenceFrame() *Frame {
	return BodyFrame(170, 170, 170, 0.2)
}

// WithSideConfidence returns a copy of the frame with every landmark on the
// given side set to the given confidence. Used to force side selection.
func WithSideConfidence(f *Frame, side Side, confidence float64) *Frame {
	out := &Frame{
		TimestampMs: f.TimestampMs,
		Landmarks:   make(map[Joint]Landmark, len(f.Landmarks)),
	}
	for j, lm := range f.Landmarks {
		if j.Side == side {
			lm.Confidence = confidence
		}
		out.Landmarks[j] = lm
	}
	return out
}

// Package pose provides body pose estimation interfaces and types for exercise analysis.
package pose

// Side identifies the left or right half of the body.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Part identifies a named body joint, independent of side.
type Part string

const (
	Shoulder Part = "shoulder"
	Elbow    Part = "elbow"
	Wrist    Part = "wrist"
	Hip      Part = "hip"
	Knee     Part = "knee"
	Ankle    Part = "ankle"
)

// Joint identifies one body joint on one side.
type Joint struct {
	Part Part
	Side Side
}

// Landmark is a single detected joint position with its detection confidence.
// Confidence is in [0,1]; positions are normalized image coordinates.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Frame is one pose estimate: a timestamped set of joint landmarks.
// A Frame is built once by an estimator and never mutated afterwards.
type Frame struct {
	TimestampMs int64
	Landmarks   map[Joint]Landmark
}

// Landmark returns the landmark for the given joint, if the estimator produced one.
func (f *Frame) Landmark(j Joint) (Landmark, bool) {
	if f == nil || f.Landmarks == nil {
		return Landmark{}, false
	}
	lm, ok := f.Landmarks[j]
	return lm, ok
}

// Joints lists every joint the analyzer cares about, both sides.
func Joints() []Joint {
	parts := []Part{Shoulder, Elbow, Wrist, Hip, Knee, Ankle}
	joints := make([]Joint, 0, len(parts)*2)
	for _, p := range parts {
		joints = append(joints, Joint{Part: p, Side: SideLeft}, Joint{Part: p, Side: SideRight})
	}
	return joints
}

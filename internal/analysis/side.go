package analysis

import "github.com/ayusman/repwatch/internal/pose"

// JointAngle is one computed joint angle: the side it was measured on, the
// angle in degrees, and the mean confidence of the three contributing
// landmarks. Computed fresh per frame and never persisted.
type JointAngle struct {
	Side       pose.Side
	Degrees    float64
	Confidence float64
}

// FrameAngles holds the three monitored joint angles for one usable frame.
type FrameAngles struct {
	Elbow JointAngle
	Hip   JointAngle
	Knee  JointAngle
}

// triads maps each monitored joint to the three landmarks forming its angle,
// ordered (p1, vertex, p3).
var triads = map[pose.Part][3]pose.Part{
	pose.Elbow: {pose.Shoulder, pose.Elbow, pose.Wrist},
	pose.Hip:   {pose.Shoulder, pose.Hip, pose.Knee},
	pose.Knee:  {pose.Hip, pose.Knee, pose.Ankle},
}

// SideSelector picks, per frame and per joint, the body side whose landmark
// triad is most trustworthy.
type SideSelector struct {
	visibility float64
}

// NewSideSelector creates a selector with the given visibility threshold.
func NewSideSelector(visibilityThreshold float64) *SideSelector {
	return &SideSelector{visibility: visibilityThreshold}
}

// Select computes the elbow, hip, and knee angles for the frame, choosing a
// side per joint. It returns ok=false when any joint has no usable side, in
// which case the whole frame must be skipped without mutating state.
func (s *SideSelector) Select(f *pose.Frame) (FrameAngles, bool) {
	elbow, ok := s.selectJoint(f, pose.Elbow)
	if !ok {
		return FrameAngles{}, false
	}
	hip, ok := s.selectJoint(f, pose.Hip)
	if !ok {
		return FrameAngles{}, false
	}
	knee, ok := s.selectJoint(f, pose.Knee)
	if !ok {
		return FrameAngles{}, false
	}
	return FrameAngles{Elbow: elbow, Hip: hip, Knee: knee}, true
}

// selectJoint evaluates both sides of one joint triad and picks the winner.
// Both valid: higher mean confidence, ties going to the right side. One
// valid: that side. Neither: ok=false.
func (s *SideSelector) selectJoint(f *pose.Frame, part pose.Part) (JointAngle, bool) {
	left, leftOK := s.sideAngle(f, part, pose.SideLeft)
	right, rightOK := s.sideAngle(f, part, pose.SideRight)

	switch {
	case leftOK && rightOK:
		if left.Confidence > right.Confidence {
			return left, true
		}
		return right, true
	case leftOK:
		return left, true
	case rightOK:
		return right, true
	default:
		return JointAngle{}, false
	}
}

// sideAngle computes the triad angle for one side. The angle is only valid
// when all three landmarks exist and clear the visibility threshold; the
// mean confidence is reported either way so partially visible sides can
// still be ranked.
func (s *SideSelector) sideAngle(f *pose.Frame, part pose.Part, side pose.Side) (JointAngle, bool) {
	triad := triads[part]

	var lms [3]pose.Landmark
	var confSum float64
	valid := true
	for i, p := range triad {
		lm, present := f.Landmark(pose.Joint{Part: p, Side: side})
		if !present {
			return JointAngle{}, false
		}
		lms[i] = lm
		confSum += lm.Confidence
		if lm.Confidence < s.visibility {
			valid = false
		}
	}

	angle := JointAngle{
		Side:       side,
		Confidence: confSum / 3,
	}
	if !valid {
		return angle, false
	}

	angle.Degrees = Angle(lms[0].X, lms[0].Y, lms[1].X, lms[1].Y, lms[2].X, lms[2].Y)
	return angle, true
}

package analysis

import "math"

// epsilon below which a ray is considered degenerate (point on the vertex).
const epsilon = 1e-9

// Angle computes the angle in degrees at vertex between the rays toward p1
// and p3, in [0,180]. Degenerate geometry (either point coinciding with the
// vertex) yields 0 rather than an error, and the result is never NaN.
func Angle(p1x, p1y, vx, vy, p3x, p3y float64) float64 {
	ax := p1x - vx
	ay := p1y - vy
	bx := p3x - vx
	by := p3y - vy

	magA := math.Sqrt(ax*ax + ay*ay)
	magB := math.Sqrt(bx*bx + by*by)
	if magA < epsilon || magB < epsilon {
		return 0
	}

	cos := (ax*bx + ay*by) / (magA * magB)

	// Clamp before acos to guard against floating-point overshoot.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	deg := math.Acos(cos) * 180 / math.Pi
	if math.IsNaN(deg) {
		return 0
	}
	return deg
}

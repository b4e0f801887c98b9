package stereo

import "math"

// horopterDistance approximates the viewer's distance from the screen as a
// multiple of the eye separation.
const horopterDistance = 20

// Sep returns the pixel distance between the left and right eye samples of a
// point at normalized depth z. z is clamped to [0,1].
func Sep(z, fieldDepth, separation float64) float64 {
	if !(z > 0) {
		z = 0
	}
	if z > 1 {
		z = 1
	}
	return (1 - fieldDepth*z) * (2 * separation) / (2 - fieldDepth*z)
}

// ComputeSeparation returns Sep at full field depth, rounded to pixels. depth
// is expected to already carry any field depth factor, so
// ComputeSeparation(s, 0) == s and ComputeSeparation(s, 1) == 0.
func ComputeSeparation(separation, depth float64) int {
	return int(math.Round(Sep(depth, 1, separation)))
}

// HoropterDepth returns the normalized depth of the neutral convergence
// surface at column, modelled as a circular arc of radius 20×separation
// around midpoint. Columns beyond the arc lie on the far plane.
func HoropterDepth(column, midpoint int, separation float64) float64 {
	r := horopterDistance * separation
	d := float64(column - midpoint)
	sq := r*r - d*d
	if sq < 0 {
		return 1
	}
	return 1 - math.Sqrt(sq)/r
}

// outermost returns whichever of a and b is further from midpoint; b on a tie.
func outermost(a, b, midpoint int) int {
	if abs(midpoint-a) > abs(midpoint-b) {
		return a
	}
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

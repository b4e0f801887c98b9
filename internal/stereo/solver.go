package stereo

import "math"

// rowSolver resolves one scanline into a constraint forest: every column ends
// up pointing, possibly through other columns, at the root column whose
// texture sample it copies. A solver is read-only once built and may be
// shared by all workers; per-row state lives in the caller's scratch slices.
type rowSolver struct {
	width        int
	midpoint     int
	separation   float64
	fieldDepth   float64
	removeHidden bool

	// centreOut visits columns mid, mid-1, mid+1, mid-2, ... so that every
	// column nearer the centre is processed before any column further out.
	centreOut []int
	// horopter holds HoropterDepth/fieldDepth per column; it only depends
	// on the column so it is computed once.
	horopter []float64
}

func newRowSolver(width int, separation, fieldDepth float64, removeHidden bool) *rowSolver {
	s := &rowSolver{
		width:        width,
		midpoint:     width / 2,
		separation:   separation,
		fieldDepth:   fieldDepth,
		removeHidden: removeHidden,
		centreOut:    make([]int, width),
		horopter:     make([]float64, width),
	}

	offset := s.midpoint
	flip := -1
	for i := 0; i < width; i++ {
		s.centreOut[i] = offset
		offset += (i + 1) * flip
		flip = -flip
	}

	// With no field depth Sep ignores z entirely, and dividing by zero
	// would only produce NaN.
	if fieldDepth > 0 {
		for i := range s.horopter {
			s.horopter[i] = HoropterDepth(i, s.midpoint, separation) / fieldDepth
		}
	}
	return s
}

// solve fills constraints for one row of normalized depths and returns the
// number of points rejected by the hidden surface test. constraints must have
// length width; hidden, when non-nil, receives a per-column flag.
func (s *rowSolver) solve(depth []float32, constraints []int, hidden []bool) int {
	for i := range constraints {
		constraints[i] = i
	}
	if hidden != nil {
		clear(hidden)
	}

	var maxDepth float32
	nHidden := 0
	for _, i := range s.centreOut {
		z := depth[i]
		sep := int(math.Round(Sep(float64(z)-s.horopter[i], s.fieldDepth, s.separation)))

		left := i - sep/2
		right := left + sep
		if left < 0 || right >= s.width {
			continue
		}

		if s.removeHidden && s.occluded(depth, i, maxDepth) {
			nHidden++
			if hidden != nil {
				hidden[i] = true
			}
		} else {
			// Constrain the outer point to the inner one so chains
			// always lead back towards the centre.
			constrainee := outermost(left, right, s.midpoint)
			constrainer := left
			if constrainee == left {
				constrainer = right
			}
			constraints[constrainee] = root(constraints, constrainer)
		}

		// Only columns nearer the centre can hide later ones, and all
		// of those have been through here already.
		if z > maxDepth {
			maxDepth = z
		}
	}
	return nHidden
}

// occluded marches the lines of sight from column i outwards on both sides
// and reports whether any nearer column blocks them. Once the ray climbs past
// the deepest point seen so far nothing further out can block it.
func (s *rowSolver) occluded(depth []float32, i int, maxDepth float32) bool {
	if s.fieldDepth == 0 {
		return false
	}
	zt := float64(depth[i])
	// Slope of the line of sight.
	delta := 2 * (2 - s.fieldDepth*zt) / (s.fieldDepth * s.separation * 2)
	for t := 1; ; t++ {
		zt += delta
		l, r := i-t, i+t
		if l >= 0 && float64(depth[l]) >= zt {
			return true
		}
		if r < s.width && float64(depth[r]) >= zt {
			return true
		}
		if zt >= float64(maxDepth) || (l < 0 && r >= s.width) {
			return false
		}
	}
}

// root follows constraints from column c to the column that points at itself.
// Entries only ever point at roots when written, so the walk cannot cycle.
func root(constraints []int, c int) int {
	for constraints[c] != c {
		c = constraints[c]
	}
	return c
}

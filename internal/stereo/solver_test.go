package stereo

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func constantRow(w int, z float32) []float32 {
	row := make([]float32, w)
	for i := range row {
		row[i] = z
	}
	return row
}

// walk follows constraints from c and reports the root and the number of
// steps taken, giving up after len(constraints) steps.
func walk(constraints []int, c int) (root, steps int, ok bool) {
	for steps = 0; steps <= len(constraints); steps++ {
		if constraints[c] == c {
			return c, steps, true
		}
		c = constraints[c]
	}
	return -1, steps, false
}

func TestCentreOutOrder(t *testing.T) {
	for _, w := range []int{1, 2, 5, 8, 255, 256} {
		s := newRowSolver(w, 16, 0.3, false)
		if s.centreOut[0] != w/2 {
			t.Errorf("width %d: first column %d; want %d", w, s.centreOut[0], w/2)
		}
		sorted := slices.Clone(s.centreOut)
		slices.Sort(sorted)
		for i, c := range sorted {
			if c != i {
				t.Fatalf("width %d: order is not a permutation: %v", w, s.centreOut)
			}
		}
		for i := 1; i < w; i++ {
			if abs(s.centreOut[i]-w/2) < abs(s.centreOut[i-1]-w/2) {
				t.Fatalf("width %d: column %d visited after further column %d", w, s.centreOut[i], s.centreOut[i-1])
			}
		}
	}
}

func TestSolveConstantRowRepeats(t *testing.T) {
	const (
		w   = 256
		sep = 64
		fd  = 0.3333
	)
	for _, removeHidden := range []bool{false, true} {
		s := newRowSolver(w, sep, fd, removeHidden)
		constraints := make([]int, w)
		hidden := make([]bool, w)
		if n := s.solve(constantRow(w, 0.5), constraints, hidden); n != 0 {
			t.Errorf("removeHidden=%v: %d hidden points on a flat row", removeHidden, n)
		}

		// round(Sep(0.5 - horopter)) is 58 across the whole row.
		const period = 58
		for l := 0; l+period < w; l++ {
			a, _, _ := walk(constraints, l)
			b, _, _ := walk(constraints, l+period)
			if a != b {
				t.Fatalf("removeHidden=%v: root(%d) = %d, root(%d) = %d", removeHidden, l, a, l+period, b)
			}
		}

		roots := map[int]bool{}
		for i := range constraints {
			r, _, _ := walk(constraints, i)
			roots[r] = true
		}
		if len(roots) != period {
			t.Errorf("removeHidden=%v: %d distinct roots; want %d", removeHidden, len(roots), period)
		}
	}
}

func TestSolveEdgeColumnsSelfConstrained(t *testing.T) {
	// Every pair straddles the row, so nothing can be linked.
	const w = 40
	s := newRowSolver(w, 64, 0.3333, true)
	constraints := make([]int, w)
	for i := range constraints {
		constraints[i] = -1
	}
	if n := s.solve(constantRow(w, 0), constraints, nil); n != 0 {
		t.Errorf("hidden = %d; want 0", n)
	}
	for i, c := range constraints {
		if c != i {
			t.Errorf("constraints[%d] = %d; want self", i, c)
		}
	}
}

func blockRow() []float32 {
	row := make([]float32, 512)
	for i := 192; i < 320; i++ {
		row[i] = 1
	}
	return row
}

func TestSolveBlockHidesColumnsBehindIt(t *testing.T) {
	const (
		sep = 64
		fd  = 0.3333
	)
	row := blockRow()
	w := len(row)

	s := newRowSolver(w, sep, fd, true)
	constraints := make([]int, w)
	hidden := make([]bool, w)
	n := s.solve(row, constraints, hidden)

	// The ray from a background column climbs about 0.094 per column, so
	// the ten background columns on each side of the block cannot see past it.
	var want []int
	for i := 182; i < 192; i++ {
		want = append(want, i)
	}
	for i := 320; i < 330; i++ {
		want = append(want, i)
	}
	var got []int
	for i, h := range hidden {
		if h {
			got = append(got, i)
		}
	}
	if n != len(want) || !slices.Equal(got, want) {
		t.Fatalf("hidden = %v (n=%d); want %v", got, n, want)
	}

	// A hidden column must not have linked its two eye points.
	for _, i := range want {
		sepPx := ComputeSeparation(sep, 0)
		left := i - sepPx/2
		right := left + sepPx
		a, _, _ := walk(constraints, left)
		b, _, _ := walk(constraints, right)
		if a == b {
			t.Errorf("hidden column %d: eye points %d and %d share root %d", i, left, right, a)
		}
	}

	// Without removal the same pairs are linked and nothing is reported.
	plain := newRowSolver(w, sep, fd, false)
	if n := plain.solve(row, constraints, hidden); n != 0 {
		t.Errorf("hidden without removal = %d", n)
	}
	if slices.Contains(hidden, true) {
		t.Error("hidden flags set without removal")
	}
}

func TestSolveZeroFieldDepth(t *testing.T) {
	const w = 300
	s := newRowSolver(w, 50, 0, true)
	constraints := make([]int, w)
	rng := rand.New(rand.NewPCG(1, 2))
	row := make([]float32, w)
	for i := range row {
		row[i] = rng.Float32()
	}
	if n := s.solve(row, constraints, nil); n != 0 {
		t.Errorf("hidden = %d with zero field depth", n)
	}
	// Depth has no effect, so the row repeats every 50 columns.
	for l := 0; l+50 < w; l++ {
		a, _, _ := walk(constraints, l)
		b, _, _ := walk(constraints, l+50)
		if a != b {
			t.Fatalf("root(%d) = %d, root(%d) = %d", l, a, l+50, b)
		}
	}
}

func checkForest(t testing.TB, constraints []int) {
	t.Helper()
	for i := range constraints {
		c := constraints[i]
		if c < 0 || c >= len(constraints) {
			t.Fatalf("constraints[%d] = %d out of range", i, c)
		}
		if _, steps, ok := walk(constraints, i); !ok {
			t.Fatalf("walk from %d did not terminate within %d steps", i, steps)
		}
	}
}

func TestSolveRandomRowsTerminate(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	step := 1
	if testing.Short() {
		step = 61
	}
	for w := 1; w <= 4096; w += step {
		row := make([]float32, w)
		for i := range row {
			row[i] = rng.Float32()
		}
		sep := 1 + rng.Float64()*float64(w)/4
		fd := rng.Float64()
		s := newRowSolver(w, sep, fd, rng.IntN(2) == 0)
		constraints := make([]int, w)
		s.solve(row, constraints, nil)
		checkForest(t, constraints)
	}
}

func FuzzSolveRow(f *testing.F) {
	f.Add(uint64(1), uint16(256), 64.0, 0.3333, true)
	f.Add(uint64(2), uint16(1), 1.0, 1.0, false)
	f.Add(uint64(3), uint16(4096), 300.0, 0.9, true)
	f.Fuzz(func(t *testing.T, seed uint64, width uint16, sep, fd float64, removeHidden bool) {
		w := int(width)%4096 + 1
		if !(sep >= 1 && sep <= 4096) {
			t.Skip()
		}
		if !(fd >= 0 && fd <= 1) {
			t.Skip()
		}
		rng := rand.New(rand.NewPCG(seed, seed+1))
		row := make([]float32, w)
		for i := range row {
			row[i] = rng.Float32()
		}
		s := newRowSolver(w, sep, fd, removeHidden)
		constraints := make([]int, w)
		s.solve(row, constraints, nil)
		checkForest(t, constraints)
	})
}

func BenchmarkSolveRow(b *testing.B) {
	const w = 2048
	rng := rand.New(rand.NewPCG(3, 4))
	row := make([]float32, w)
	for i := range row {
		row[i] = rng.Float32()
	}
	s := newRowSolver(w, 256, 0.3333, true)
	constraints := make([]int, w)
	b.ResetTimer()
	for range b.N {
		s.solve(row, constraints, nil)
	}
}

package linsolve

import "testing"

func TestSolve3x3Identity(t *testing.T) {
	a := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	b := [3]float64{1, 2, 3}
	x, ok := Solve3x3(a, b)
	if !ok {
		t.Fatal("expected solvable system")
	}
	for i, want := range b {
		if diff := x[i] - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("x[%d]=%v, want %v", i, x[i], want)
		}
	}
}

func TestSolve3x3Known(t *testing.T) {
	// A = diag(2,4,8), x = [1,1,1] => b = [2,4,8]
	a := [9]float64{2, 0, 0, 0, 4, 0, 0, 0, 8}
	b := [3]float64{2, 4, 8}
	x, ok := Solve3x3(a, b)
	if !ok {
		t.Fatal("expected solvable system")
	}
	for i := range x {
		if diff := x[i] - 1; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("x[%d]=%v, want 1", i, x[i])
		}
	}
}

func TestSolve3x3Singular(t *testing.T) {
	a := [9]float64{1, 2, 3, 2, 4, 6, 1, 1, 1}
	b := [3]float64{1, 2, 3}
	_, ok := Solve3x3(a, b)
	if ok {
		t.Error("expected singular system to report not ok")
	}
}

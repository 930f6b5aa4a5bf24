// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package kaze

import "testing"

func TestDiffusivityZeroGradientIsOne(t *testing.T) {
	k := float32(0.01)
	if got := pmG1(0, 0, k); got != 1 {
		t.Errorf("pmG1(0,0) = %v, want 1", got)
	}
	if got := pmG2(0, 0, k); got != 1 {
		t.Errorf("pmG2(0,0) = %v, want 1", got)
	}
	if got := weickert(0, 0, k); got != 1 {
		t.Errorf("weickert(0,0) = %v, want 1", got)
	}
}

func TestDiffusivityBounds(t *testing.T) {
	k := float32(0.05)
	cases := []struct{ lx, ly float32 }{
		{0.01, 0.01}, {0.1, 0.2}, {1, 1}, {10, -5},
	}
	for _, c := range cases {
		for name, f := range map[string]func(float32, float32, float32) float32{
			"pmG1": pmG1, "pmG2": pmG2, "weickert": weickert,
		} {
			v := f(c.lx, c.ly, k)
			if v <= 0 || v > 1 {
				t.Errorf("%s(%v,%v) = %v, want in (0,1]", name, c.lx, c.ly, v)
			}
		}
	}
}

func TestComputeFlowDispatch(t *testing.T) {
	lx := []float32{0, 1, 2}
	ly := []float32{0, 1, -2}
	dst := make([]float32, 3)

	computeFlow(DiffusivityPMG1, lx, ly, 1, dst)
	for i := range dst {
		if want := pmG1(lx[i], ly[i], 1); dst[i] != want {
			t.Errorf("PMG1 dispatch mismatch at %d: got %v want %v", i, dst[i], want)
		}
	}

	computeFlow(DiffusivityWeickert, lx, ly, 1, dst)
	for i := range dst {
		if want := weickert(lx[i], ly[i], 1); dst[i] != want {
			t.Errorf("Weickert dispatch mismatch at %d: got %v want %v", i, dst[i], want)
		}
	}
}

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

func TestIsLocalMax3x3(t *testing.T) {
	w := 3
	resp := []float32{
		1, 1, 1,
		1, 5, 1,
		1, 1, 1,
	}
	if !isLocalMax3x3(resp, 1, 1, w, 5) {
		t.Error("center pixel should be a local max")
	}
	resp[0] = 9
	if isLocalMax3x3(resp, 1, 1, w, 5) {
		t.Error("center pixel should not be a local max once a neighbor exceeds it")
	}
}

func TestDedupCandidatesMergesNearbySameScale(t *testing.T) {
	candidates := []Keypoint{
		{X: 10, Y: 10, Size: 4, Response: 1, ClassID: 2},
		{X: 10.5, Y: 10.2, Size: 4, Response: 2, ClassID: 2},
		{X: 100, Y: 100, Size: 4, Response: 1, ClassID: 2},
	}
	accepted := dedupCandidates(candidates)
	if len(accepted) != 2 {
		t.Fatalf("got %d accepted candidates, want 2", len(accepted))
	}
	for _, kp := range accepted {
		if kp.X == 10 && kp.Response != 2 {
			t.Errorf("merge should keep the higher-response candidate, got response %v", kp.Response)
		}
	}
}

func TestDedupCandidatesKeepsFarApart(t *testing.T) {
	candidates := []Keypoint{
		{X: 0, Y: 0, Size: 2, Response: 1, ClassID: 1},
		{X: 50, Y: 50, Size: 2, Response: 1, ClassID: 1},
	}
	accepted := dedupCandidates(candidates)
	if len(accepted) != 2 {
		t.Fatalf("got %d accepted candidates, want 2", len(accepted))
	}
}

func TestDedupCandidatesIncumbentWinsTie(t *testing.T) {
	candidates := []Keypoint{
		{X: 10, Y: 10, Size: 4, Response: 3, ClassID: 1},
		{X: 10.1, Y: 10.1, Size: 4, Response: 3, ClassID: 1},
	}
	accepted := dedupCandidates(candidates)
	if len(accepted) != 1 {
		t.Fatalf("got %d accepted candidates, want 1", len(accepted))
	}
	if accepted[0].X != 10 {
		t.Errorf("tie should keep the incumbent, got X=%v", accepted[0].X)
	}
}

func TestDetectLevelThresholdsResponse(t *testing.T) {
	opt := DefaultOptions(16, 16)
	opt.Omax, opt.NSublevels = 1, 3
	opt.DThreshold = 0.5
	k, err := New(opt)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w, h := opt.Width, opt.Height
	for i := range k.levels {
		k.levels[i].Ldet = make([]float32, w*h)
		k.levels[i].Esigma = 1
		k.levels[i].SigmaSize = 1
	}
	mid := &k.levels[1]
	mid.Ldet[8*w+8] = 0.1 // below threshold, must not be emitted
	kpts := k.detectLevel(1)
	for _, kp := range kpts {
		if kp.Response < opt.DThreshold {
			t.Errorf("detectLevel emitted a keypoint below threshold: %+v", kp)
		}
	}
}

func TestAbs(t *testing.T) {
	if abs(-3) != 3 || abs(3) != 3 || abs(0) != 0 {
		t.Error("abs is wrong")
	}
}

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

func TestSortKeypointsByResponseDesc(t *testing.T) {
	a := []Keypoint{
		{Response: 1}, {Response: 5}, {Response: 3}, {Response: 0}, {Response: 4},
	}
	sortKeypointsByResponseDesc(a)
	for i := 1; i < len(a); i++ {
		if a[i].Response > a[i-1].Response {
			t.Fatalf("not sorted descending at %d: %v > %v", i, a[i].Response, a[i-1].Response)
		}
	}
}

func TestSortKeypointsByResponseDescEmptyAndSingle(t *testing.T) {
	sortKeypointsByResponseDesc(nil)
	a := []Keypoint{{Response: 1}}
	sortKeypointsByResponseDesc(a)
	if a[0].Response != 1 {
		t.Error("single-element sort should be a no-op")
	}
}

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

import (
	"math"

	"github.com/ykwang/kaze/internal/linsolve"
)

// Per-descriptor-family border margin used by the reference implementation
// to exclude keypoints whose support region would fall outside the image.
// Computed for parity but never actually applied: see detectLevel, which
// preserves the reference's is_out=false dead assignment.
const (
	surfSMax  = 11 * 1.4142135623730951
	msurfSMax = 12 * 1.4142135623730951
)

// detect scans the detector-response volume for local extrema, deduplicates
// across adjacent levels, and sub-pixel refines survivors.
func (k *KAZE) detect() []Keypoint {
	var all []Keypoint
	for i := 1; i < len(k.levels)-1; i++ {
		all = append(all, k.detectLevel(i)...)
	}

	accepted := dedupCandidates(all)

	out := make([]Keypoint, 0, len(accepted))
	for _, kp := range accepted {
		if refined, ok := k.refine(kp); ok {
			out = append(out, refined)
		}
	}
	return out
}

// detectLevel finds extrema of Ldet at level i against its own 3x3
// neighborhood and the 3x3 neighborhoods at levels i-1 and i+1.
func (k *KAZE) detectLevel(i int) []Keypoint {
	w, h := k.opt.Width, k.opt.Height
	lvl := &k.levels[i]
	below := &k.levels[i-1]
	above := &k.levels[i+1]

	floor := DefaultMinDetectorThreshold
	var out []Keypoint

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := y*w + x
			v := lvl.Ldet[idx]
			if !(v > k.opt.DThreshold && v >= floor) {
				continue
			}
			if !(v > lvl.Ldet[idx-1]) { // strict left-neighbor comparator
				continue
			}
			if !isLocalMax3x3(lvl.Ldet, x, y, w, v) {
				continue
			}
			if !isLocalMax3x3(below.Ldet, x, y, w, v) {
				continue
			}
			if !isLocalMax3x3(above.Ldet, x, y, w, v) {
				continue
			}

			// smax is computed per the reference but never used to
			// filter candidates; is_out is always cleared right after
			// being computed. Preserved verbatim.
			smax := surfSMax
			if k.opt.Descriptor == DescriptorMSURF {
				smax = msurfSMax
			}
			border := smax * float64(lvl.SigmaSize)
			isOut := float64(x) < border || float64(x) > float64(w)-border ||
				float64(y) < border || float64(y) > float64(h)-border
			isOut = false // dead assignment, preserved from the reference

			_ = isOut

			out = append(out, Keypoint{
				X:        float32(x),
				Y:        float32(y),
				Response: float32(math.Abs(float64(v))),
				Size:     lvl.Esigma,
				Octave:   lvl.Octave,
				ClassID:  i,
				Angle:    float32(lvl.Sublevel),
			})
		}
	}
	return out
}

// isLocalMax3x3 reports whether v is >= every pixel in the 3x3 window of
// resp centered on (x,y).
func isLocalMax3x3(resp []float32, x, y, w int, v float32) bool {
	for dy := -1; dy <= 1; dy++ {
		row := (y + dy) * w
		for dx := -1; dx <= 1; dx++ {
			if resp[row+x+dx] > v {
				return false
			}
		}
	}
	return true
}

// dedupCandidates merges candidates in level-then-raster order: a
// candidate is merged into an already-accepted keypoint within one
// class_id of it if their squared pixel distance is below
// sigma_size[min(class_id)]^2, keeping whichever has the larger response.
// An incumbent wins ties.
//
// This keys the threshold on min(class_id) per spec property 6, rather
// than on the candidate's own level (evolution[level].sigma_size, with
// level=i+1) as Determinant_Hessian_Parallel does; the two clauses of the
// spec disagree here and this follows the property, not the narrative
// text. See DESIGN.md Open Questions.
func dedupCandidates(candidates []Keypoint) []Keypoint {
	var accepted []Keypoint
	for _, cand := range candidates {
		merged := false
		for i := range accepted {
			inc := &accepted[i]
			if abs(inc.ClassID-cand.ClassID) > 1 {
				continue
			}
			dx := float64(inc.X - cand.X)
			dy := float64(inc.Y - cand.Y)
			d2 := dx*dx + dy*dy

			minClass := inc.ClassID
			if cand.ClassID < minClass {
				minClass = cand.ClassID
			}
			sigmaSize := sigmaSizeForClass(candidates, minClass)
			thresh := float64(sigmaSize) * float64(sigmaSize)

			if d2 < thresh {
				merged = true
				if cand.Response > inc.Response {
					*inc = cand
				}
				break
			}
		}
		if !merged {
			accepted = append(accepted, cand)
		}
	}
	return accepted
}

// sigmaSizeForClass looks up the integer sigma_size carried by any
// candidate produced at the given class_id (evolution-level index); all
// candidates from the same level share the same sigma_size.
func sigmaSizeForClass(candidates []Keypoint, classID int) int {
	for _, c := range candidates {
		if c.ClassID == classID {
			return int(c.Size + 0.5)
		}
	}
	return 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// refine performs quadratic sub-pixel refinement of a candidate keypoint
// over (x, y, s) using central differences and a 3x3 LU solve. It returns
// ok=false if the refinement step exceeds unit magnitude in any
// dimension, in which case the keypoint must be dropped silently.
func (k *KAZE) refine(kp Keypoint) (Keypoint, bool) {
	i := kp.ClassID
	if i <= 0 || i >= len(k.levels)-1 {
		return kp, false
	}
	w := k.opt.Width
	x, y := int(kp.X), int(kp.Y)
	if x <= 0 || x >= w-1 || y <= 0 || y >= k.opt.Height-1 {
		return kp, false
	}

	cur := k.levels[i].Ldet
	below := k.levels[i-1].Ldet
	above := k.levels[i+1].Ldet

	at := func(d []float32, dx, dy int) float64 { return float64(d[(y+dy)*w+(x+dx)]) }

	v := at(cur, 0, 0)
	dx := (at(cur, 1, 0) - at(cur, -1, 0)) / 2
	dy := (at(cur, 0, 1) - at(cur, 0, -1)) / 2
	ds := (at(above, 0, 0) - at(below, 0, 0)) / 2

	dxx := at(cur, 1, 0) - 2*v + at(cur, -1, 0)
	dyy := at(cur, 0, 1) - 2*v + at(cur, 0, -1)
	dss := at(above, 0, 0) - 2*v + at(below, 0, 0)
	dxy := (at(cur, 1, 1) - at(cur, -1, 1) - at(cur, 1, -1) + at(cur, -1, -1)) / 4
	dxs := (at(above, 1, 0) - at(above, -1, 0) - at(below, 1, 0) + at(below, -1, 0)) / 4
	dys := (at(above, 0, 1) - at(above, 0, -1) - at(below, 0, 1) + at(below, 0, -1)) / 4

	h := [9]float64{dxx, dxy, dxs, dxy, dyy, dys, dxs, dys, dss}
	g := [3]float64{-dx, -dy, -ds}

	delta, ok := linsolve.Solve3x3(h, g)
	if !ok {
		return kp, false
	}
	if absF(delta[0]) > 1 || absF(delta[1]) > 1 || absF(delta[2]) > 1 {
		return kp, false
	}

	lvl := k.levels[i]
	kp.X += float32(delta[0])
	kp.Y += float32(delta[1])
	dsc := float64(lvl.Octave) + (float64(lvl.Sublevel)+delta[2])/float64(k.opt.NSublevels)
	kp.Size = 2 * k.opt.SOffset * float32(math.Pow(2, dsc))
	kp.Angle = 0
	return kp, true
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

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

import "math"

// describeSURF fills out (len 64 or 128) with the SURF descriptor for kp:
// a 20s x 20s grid of 4x4 cells, each a non-overlapping 5x5-sample window,
// unweighted, built from the raw Lx,Ly derivatives of the level kp was
// detected on.
func (k *KAZE) describeSURF(kp *Keypoint, out []float32) []float32 {
	lvl := &k.levels[kp.ClassID]
	w, h := k.opt.Width, k.opt.Height
	s := sampleScale(kp)

	co, si := math.Cos(float64(kp.Angle)), math.Sin(float64(kp.Angle))
	rotated := !k.opt.Upright

	for _, gy := range cellGridOffsets {
		for _, gx := range cellGridOffsets {
			cx, cy := cellCenter(gx), cellCenter(gy)
			var acc cellSums
			for dj := -2; dj <= 2; dj++ {
				for di := -2; di <= 2; di++ {
					tx, ty := cx+float64(di), cy+float64(dj)
					rx, ry := tx, ty
					if rotated {
						rx, ry = rotate2D(tx, ty, co, si)
					}
					sx := float64(kp.X) + rx*s
					sy := float64(kp.Y) + ry*s

					lx := bilinearAt(lvl.Lx, w, h, sx, sy)
					ly := bilinearAt(lvl.Ly, w, h, sx, sy)
					d1, d2 := lx, ly
					if rotated {
						rd1, rd2 := rotate2D(float64(lx), float64(ly), co, si)
						d1, d2 = float32(rd1), float32(rd2)
					}
					acc.addSURF(d1, d2, 1, d2, d1)
				}
			}
			out = acc.appendTo(out, k.opt.Extended)
		}
	}
	return out
}

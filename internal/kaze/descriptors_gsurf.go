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

// describeGSURF fills out with the G-SURF descriptor for kp: geometrically
// identical to SURF (20s x 20s grid, 4x4 cells, unweighted 5x5-sample
// windows) but built from the gauge derivatives Lww, Lvv instead of the
// raw Lx, Ly. The 128-dim split keys the x-half by sign(Lww) and the
// y-half by sign(Lvv) but stores the other quantity in each bucket - see
// cellSums.addGSURF.
func (k *KAZE) describeGSURF(kp *Keypoint, out []float32) []float32 {
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
					lxx := bilinearAt(lvl.Lxx, w, h, sx, sy)
					lxy := bilinearAt(lvl.Lxy, w, h, sx, sy)
					lyy := bilinearAt(lvl.Lyy, w, h, sx, sy)

					lww, lvv := gaugeDerivatives(lx, ly, lxx, lxy, lyy)
					acc.addGSURF(lww, lvv, 1)
				}
			}
			out = acc.appendTo(out, k.opt.Extended)
		}
	}
	return out
}

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

// describeMSURF fills out with the M-SURF descriptor for kp: a 24s x 24s
// grid of 4x4 cells, each a 9x9-sample window overlapping its neighbors by
// 4 samples, weighted by an inner Gaussian (sigma 2.5s, centered on the
// cell) and an outer Gaussian (sigma 1.5, over the cell-grid position).
//
// The reference mixes two integer-rounding conventions when locating the
// bilinear corners of a rotated sample: the low corner is computed with
// round-half-away-from-zero on (sample-0.5), the high corner by truncating
// (sample+0.5). bilinearAt always floors, so msurfBilinear reproduces the
// mismatch directly instead of going through the shared helper.
func (k *KAZE) describeMSURF(kp *Keypoint, out []float32) []float32 {
	lvl := &k.levels[kp.ClassID]
	w, h := k.opt.Width, k.opt.Height
	s := sampleScale(kp)

	co, si := math.Cos(float64(kp.Angle)), math.Sin(float64(kp.Angle))
	rotated := !k.opt.Upright

	for _, gy := range cellGridOffsets {
		for _, gx := range cellGridOffsets {
			cx, cy := cellCenter(gx), cellCenter(gy)
			var acc cellSums
			// Outer Gaussian weight is evaluated in grid-index units
			// (spec: "outer sigma=1.5 over cell grid"), not pixel-space.
			outerW := float32(gauss2D(gx, gy, 1.5))

			for dj := -4; dj <= 4; dj++ {
				for di := -4; di <= 4; di++ {
					tx, ty := cx+float64(di), cy+float64(dj)
					rx, ry := tx, ty
					if rotated {
						rx, ry = rotate2D(tx, ty, co, si)
					}
					sx := float64(kp.X) + rx*s
					sy := float64(kp.Y) + ry*s

					var lx, ly float32
					if rotated {
						lx, ly = msurfBilinear(lvl.Lx, w, h, sx, sy), msurfBilinear(lvl.Ly, w, h, sx, sy)
					} else {
						lx, ly = bilinearAt(lvl.Lx, w, h, sx, sy), bilinearAt(lvl.Ly, w, h, sx, sy)
					}
					d1, d2 := lx, ly
					if rotated {
						rd1, rd2 := rotate2D(float64(lx), float64(ly), co, si)
						d1, d2 = float32(rd1), float32(rd2)
					}

					innerW := float32(gauss2D(float64(di), float64(dj), 2.5))
					weight := innerW * outerW
					acc.addSURF(d1, d2, weight, d2, d1)
				}
			}
			out = acc.appendTo(out, k.opt.Extended)
		}
	}
	return out
}

// msurfBilinear reproduces the reference's mixed-rounding corner
// computation for the rotated M-SURF sampler: x1,y1 use
// round(sample-0.5), x2,y2 use the truncating int cast of (sample+0.5).
// Preserved verbatim; see SPEC_FULL.md Open Questions.
func msurfBilinear(field []float32, w, h int, x, y float64) float32 {
	x1 := int(math.Round(x - 0.5))
	y1 := int(math.Round(y - 0.5))
	x2 := int(x + 0.5)
	y2 := int(y + 0.5)

	fx := float32(x - float64(x1))
	fy := float32(y - float64(y1))

	x1c, x2c := clampInt(x1, 0, w-1), clampInt(x2, 0, w-1)
	y1c, y2c := clampInt(y1, 0, h-1), clampInt(y2, 0, h-1)

	v00 := field[y1c*w+x1c]
	v10 := field[y1c*w+x2c]
	v01 := field[y2c*w+x1c]
	v11 := field[y2c*w+x2c]

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

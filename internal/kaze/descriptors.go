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

	"gonum.org/v1/gonum/floats"
)

// cellSums accumulates the per-subcell sums shared by all three descriptor
// families: four values for the 64-dim case (dx, mdx, dy, mdy), or twelve
// values tracked so the eight-value 128-dim case can be read out directly
// (the positive/negative split of dx,mdx,dy,mdy).
type cellSums struct {
	dx, mdx, dy, mdy float32
	dxPos, dxNeg     float32
	mdxPos, mdxNeg   float32
	dyPos, dyNeg     float32
	mdyPos, mdyNeg   float32
}

// addSURF accumulates one weighted sample for the SURF/M-SURF family: d1 is
// the x-role derivative component, d2 the y-role component, keyY/keyX are
// the sign keys for the extended (128-dim) split (dx,mdx keyed by sign of
// keyY; dy,mdy keyed by sign of keyX, per spec).
func (c *cellSums) addSURF(d1, d2, weight, keyY, keyX float32) {
	wd1, wd2 := weight*d1, weight*d2
	amd1, amd2 := weight*absF32(d1), weight*absF32(d2)

	c.dx += wd1
	c.mdx += amd1
	c.dy += wd2
	c.mdy += amd2

	if keyY >= 0 {
		c.dxPos += wd1
		c.mdxPos += amd1
	} else {
		c.dxNeg += wd1
		c.mdxNeg += amd1
	}
	if keyX >= 0 {
		c.dyPos += wd2
		c.mdyPos += amd2
	} else {
		c.dyNeg += wd2
		c.mdyNeg += amd2
	}
}

// addGSURF accumulates one weighted gauge-derivative sample. The 128-dim
// split keys the x-half by sign(Lww) and the y-half by sign(Lvv), but -
// preserved verbatim from the reference - stores Lvv values in the
// x-keyed bucket and Lww values in the y-keyed bucket.
func (c *cellSums) addGSURF(lww, lvv, weight float32) {
	www, wvv := weight*lww, weight*lvv
	awww, awvv := weight*absF32(lww), weight*absF32(lvv)

	c.dx += www
	c.mdx += awww
	c.dy += wvv
	c.mdy += awvv

	if lww >= 0 {
		c.dxPos += wvv
		c.mdxPos += awvv
	} else {
		c.dxNeg += wvv
		c.mdxNeg += awvv
	}
	if lvv >= 0 {
		c.dyPos += www
		c.mdyPos += awww
	} else {
		c.dyNeg += www
		c.mdyNeg += awww
	}
}

func (c *cellSums) appendTo(out []float32, extended bool) []float32 {
	if extended {
		return append(out, c.dxPos, c.dxNeg, c.mdxPos, c.mdxNeg, c.dyPos, c.dyNeg, c.mdyPos, c.mdyNeg)
	}
	return append(out, c.dx, c.mdx, c.dy, c.mdy)
}

// cellGridOffsets are the four sub-cell grid indices along one axis, for
// the shared 4x4 cell grid every family uses. M-SURF's outer Gaussian
// weight is evaluated directly in these grid-index units (spec: "outer
// sigma=1.5 over cell grid"). Actual pixel-space sample positions use
// cellCenter, which carries the 5s sub-cell step.
var cellGridOffsets = [4]float64{-1.5, -0.5, 0.5, 1.5}

// cellCenter converts a cellGridOffsets grid index into the pixel-space
// (units of s) center of that sub-cell: sub-cell step is 5s.
func cellCenter(gridIdx float64) float64 {
	return gridIdx * 5
}

// sampleScale returns the pixel sampling step s = round(kp.Size/2) used by
// orientation estimation and all three descriptor families (spec §4.7),
// floored at 1. This must be derived from the keypoint's final, possibly
// sub-pixel-refined Size, not from the producing level's integer
// SigmaSize, which does not reflect the refinement's scale delta.
func sampleScale(kp *Keypoint) float64 {
	s := math.Floor(float64(kp.Size)/2 + 0.5)
	if s < 1 {
		s = 1
	}
	return s
}

// rotate2D applies the keypoint-frame rotation spec.md uses throughout:
// (r'x, r'y) = (-x*si + y*co, x*co + y*si).
func rotate2D(x, y, co, si float64) (float64, float64) {
	return -x*si + y*co, x*co + y*si
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// bilinearAt samples field (row-major, w*h) at floating-point (x, y) with
// bilinear interpolation, clamping the integer corner coordinates to
// [0,w-1]x[0,h-1] per spec's out-of-bounds policy.
func bilinearAt(field []float32, w, h int, x, y float64) float32 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := float32(x - float64(x0))
	fy := float32(y - float64(y0))

	x0c, x1c := clampInt(x0, 0, w-1), clampInt(x0+1, 0, w-1)
	y0c, y1c := clampInt(y0, 0, h-1), clampInt(y0+1, 0, h-1)

	v00 := field[y0c*w+x0c]
	v10 := field[y0c*w+x1c]
	v01 := field[y1c*w+x0c]
	v11 := field[y1c*w+x1c]

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gaugeDerivatives computes the rotation-invariant gauge derivatives Lww
// (curvature along the gradient direction) and Lvv (curvature across it)
// from the raw derivatives at one sample, substituting zero when the
// gradient magnitude is degenerate.
func gaugeDerivatives(lx, ly, lxx, lxy, lyy float32) (lww, lvv float32) {
	g2 := lx*lx + ly*ly
	if g2 == 0 {
		return 0, 0
	}
	lww = (lx*lx*lxx + 2*lx*lxy*ly + ly*ly*lyy) / g2
	lvv = (-2*lx*lxy*ly + lxx*ly*ly + lx*lx*lyy) / g2
	return lww, lvv
}

// normalizeDescriptor L2-normalizes row in place, and if opt enables it,
// iteratively clamps components to +-ratio/sqrt(D) and renormalizes.
func normalizeDescriptor(row []float32, opt Options) {
	l2normalize(row)
	if !opt.UseClippingNormalization {
		return
	}
	limit := opt.ClippingNormalizationRatio / float32(math.Sqrt(float64(len(row))))
	for iter := 0; iter < opt.ClippingNormalizationNIter; iter++ {
		for i, v := range row {
			if v > limit {
				row[i] = limit
			} else if v < -limit {
				row[i] = -limit
			}
		}
		l2normalize(row)
	}
}

// l2normalize L2-normalizes row in place. The squared-norm reduction goes
// through gonum/floats.Dot (promoted to float64 for a stable sum) rather
// than a hand-rolled accumulator.
func l2normalize(row []float32) {
	buf := make([]float64, len(row))
	for i, v := range row {
		buf[i] = float64(v)
	}
	sum := floats.Dot(buf, buf)
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range row {
		row[i] /= norm
	}
}

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

const twoPi = 2 * math.Pi

// computeMainOrientation estimates the SURF-style dominant orientation of
// kp from the first-order derivatives of the level it was detected on, and
// writes the result (radians, [0, 2*pi)) into kp.Angle.
func (k *KAZE) computeMainOrientation(kp *Keypoint) {
	lvl := &k.levels[kp.ClassID]
	w, h := k.opt.Width, k.opt.Height
	s := sampleScale(kp)

	type sample struct{ resX, resY, ang float32 }
	var samples []sample

	for j := -6; j <= 6; j++ {
		for i := -6; i <= 6; i++ {
			if i*i+j*j >= 36 {
				continue
			}
			xf := float64(kp.X) + float64(i)*s
			yf := float64(kp.Y) + float64(j)*s
			x, y := int(xf+0.5), int(yf+0.5)

			var lx, ly float32
			if x >= 0 && x < w && y >= 0 && y < h {
				idx := y*w + x
				lx, ly = lvl.Lx[idx], lvl.Ly[idx]
			}

			gweight := gauss2D(float64(i)*s, float64(j)*s, 3.5*s)
			resX := float32(gweight) * lx
			resY := float32(gweight) * ly
			samples = append(samples, sample{resX, resY, angleOf(resX, resY)})
		}
	}

	bestSumX, bestSumY := float32(0), float32(0)
	bestMag2 := float32(-1)

	for a := float32(0); a < twoPi; a += 0.15 {
		sumX, sumY := float32(0), float32(0)
		for _, sm := range samples {
			if inArc(sm.ang, a, math.Pi/3) {
				sumX += sm.resX
				sumY += sm.resY
			}
		}
		mag2 := sumX*sumX + sumY*sumY
		if mag2 > bestMag2 {
			bestMag2 = mag2
			bestSumX, bestSumY = sumX, sumY
		}
	}

	kp.Angle = angleOf(bestSumX, bestSumY)
}

// gauss2D evaluates an isotropic 2D Gaussian (unnormalized, peak 1) of
// standard deviation sigma at offset (x, y).
func gauss2D(x, y, sigma float64) float64 {
	return math.Exp(-(x*x + y*y) / (2 * sigma * sigma))
}

// angleOf computes atan2-equivalent angle in [0, 2*pi), matching the
// reference's quadrant-by-quadrant Get_Angle rather than calling
// math.Atan2 directly, so that signed-zero and axis-aligned edge cases
// match bit-for-bit across implementations.
func angleOf(x, y float32) float32 {
	if x == 0 && y == 0 {
		return 0
	}
	if x >= 0 && y >= 0 {
		return float32(math.Atan(float64(y / x)))
	}
	if x < 0 && y >= 0 {
		return float32(math.Pi - math.Atan(float64(-y/x)))
	}
	if x < 0 && y < 0 {
		return float32(math.Pi + math.Atan(float64(y/x)))
	}
	return float32(twoPi - math.Atan(float64(-y/x)))
}

// inArc reports whether angle ang lies within the half-open pi/3-wide arc
// starting at start and wrapping past 2*pi.
func inArc(ang, start float32, width float64) bool {
	end := start + float32(width)
	if end <= twoPi {
		return ang >= start && ang < end
	}
	return ang >= start || ang < end-twoPi
}

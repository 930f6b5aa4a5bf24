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

// computeFlow fills dst (Lflow) from the gradient components lx, ly and the
// k-contrast normalizer k, using the diffusivity function selected by d.
// All three choices satisfy 0 < Lflow <= 1, equal to 1 where |grad L| = 0.
func computeFlow(d Diffusivity, lx, ly []float32, k float32, dst []float32) {
	switch d {
	case DiffusivityPMG1:
		for i := range dst {
			dst[i] = pmG1(lx[i], ly[i], k)
		}
	case DiffusivityPMG2:
		for i := range dst {
			dst[i] = pmG2(lx[i], ly[i], k)
		}
	case DiffusivityWeickert:
		for i := range dst {
			dst[i] = weickert(lx[i], ly[i], k)
		}
	default:
		for i := range dst {
			dst[i] = pmG2(lx[i], ly[i], k)
		}
	}
}

// pmG1 is the Perona-Malik g1 diffusivity: exp(-|grad L|^2 / k^2).
func pmG1(lx, ly, k float32) float32 {
	g2 := lx*lx + ly*ly
	v := float32(math.Exp(-float64(g2) / float64(k*k)))
	if v == 0 { // exp underflow; keep the conductivity strictly positive
		v = math.SmallestNonzeroFloat32
	}
	return v
}

// pmG2 is the Perona-Malik g2 diffusivity: 1 / (1 + |grad L|^2 / k^2).
func pmG2(lx, ly, k float32) float32 {
	g2 := lx*lx + ly*ly
	return 1.0 / (1.0 + g2/(k*k))
}

// weickert is the Weickert diffusivity: 1 - exp(-3.315 / (|grad L|/k)^8)
// for |grad L| > 0, else 1.
func weickert(lx, ly, k float32) float32 {
	g2 := lx*lx + ly*ly
	if g2 == 0 {
		return 1
	}
	mag := float32(math.Sqrt(float64(g2)))
	ratio := mag / k
	p := ratio * ratio * ratio * ratio
	p = p * p // ratio^8
	// -Expm1(-y) is 1 - exp(-y) without cancellation for tiny y
	v := float32(-math.Expm1(-3.315 / float64(p)))
	if v == 0 {
		v = math.SmallestNonzeroFloat32
	}
	return v
}

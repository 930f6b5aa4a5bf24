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

	"github.com/ykwang/kaze/internal/imageops"
)

// allocateLevels builds the empty evolution-level sequence for the
// configured number of octaves and sublevels, filling in esigma, etime,
// sigma_size, octave and sublevel for every entry. Storage order is outer
// loop octave, inner loop sublevel, so etime is monotonic over the
// sequence (spec property 1).
func allocateLevels(opt Options) []EvolutionLevel {
	n := opt.Width * opt.Height
	levels := make([]EvolutionLevel, 0, opt.Omax*opt.NSublevels)

	for o := 0; o < opt.Omax; o++ {
		for s := 0; s < opt.NSublevels; s++ {
			esigma := opt.SOffset * float32(math.Pow(2, float64(s)/float64(opt.NSublevels)+float64(o)))
			etime := 0.5 * esigma * esigma
			lvl := EvolutionLevel{
				Lt:      make([]float32, n),
				Lsmooth: make([]float32, n),
				Lx:      make([]float32, n),
				Ly:      make([]float32, n),
				Lxx:     make([]float32, n),
				Lxy:     make([]float32, n),
				Lyy:     make([]float32, n),
				Lflow:   make([]float32, n),
				Ldet:    make([]float32, n),
				Esigma:    esigma,
				Etime:     etime,
				SigmaSize: int(esigma + 0.5),
				Octave:    o,
				Sublevel:  s,
			}
			levels = append(levels, lvl)
		}
	}
	return levels
}

// buildScaleSpace fills k.levels in place from the input image: level 0 is
// the Gaussian-prefiltered input, and every subsequent level is produced by
// one AOS nonlinear-diffusion step driven by the conductivity field derived
// from the previous level's smoothed gradient.
func (k *KAZE) buildScaleSpace(img []float32) error {
	if len(img) != k.opt.Width*k.opt.Height {
		return &kazeError{"buildScaleSpace: image size does not match configured dimensions"}
	}

	w, h := k.opt.Width, k.opt.Height
	levels := k.levels

	levels[0].Lt = k.filter.GaussianBlur(img, w, h, k.opt.SOffset)
	levels[0].Lsmooth = k.filter.GaussianBlur(levels[0].Lt, w, h, k.opt.SDerivatives)

	kcontrast := float32(1.0)
	if k.opt.ComputeKContrast {
		kcontrast = imageops.GradientPercentile(levels[0].Lt, w, h, k.opt.KContrastPercentile, k.opt.SDerivatives, k.opt.KContrastNBins, k.filter)
		if kcontrast <= 0 {
			kcontrast = 0.001
		}
	}
	k.kcontrast = kcontrast

	for i := 1; i < len(levels); i++ {
		prev := &levels[i-1]
		cur := &levels[i]

		cur.Lsmooth = k.filter.GaussianBlur(prev.Lt, w, h, k.opt.SDerivatives)
		lx := k.filter.Scharr(cur.Lsmooth, w, h, 1, 0, 1)
		ly := k.filter.Scharr(cur.Lsmooth, w, h, 0, 1, 1)
		computeFlow(k.opt.Diffusivity, lx, ly, kcontrast, cur.Lflow)

		tau := cur.Etime - prev.Etime
		k.aosStep(prev.Lt, cur.Lflow, tau, cur.Lt)

		if k.opt.Verbose {
			k.logEvolutionStep(i, cur)
		}
	}
	return nil
}

type kazeError struct{ msg string }

func (e *kazeError) Error() string { return e.msg }

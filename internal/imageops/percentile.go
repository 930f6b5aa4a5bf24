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

package imageops

import (
	"math"

	"github.com/valyala/fastrand"
)

// maxSampleSize bounds the number of pixels histogrammed for percentile
// estimation on large images, mirroring the bounded-sample philosophy of
// FastApproxMedian: estimate a distributional statistic from a capped
// sample instead of touching every pixel.
const maxSampleSize = 1 << 20

// GradientPercentile estimates the percentile-th quantile (0..100) of the
// gradient magnitude of img after blurring with the given sigma, using a
// histogram of nbins bins. This backs k-contrast estimation in the
// scale-space builder.
func GradientPercentile(img []float32, w, h int, percentile, sigma float32, nbins int, filt Filter) float32 {
	if len(img) == 0 || nbins <= 0 {
		return 0
	}

	smoothed := filt.GaussianBlur(img, w, h, sigma)
	lx := filt.Scharr(smoothed, w, h, 1, 0, 1)
	ly := filt.Scharr(smoothed, w, h, 0, 1, 1)

	mag := make([]float32, len(smoothed))
	for i := range mag {
		mag[i] = float32(math.Sqrt(float64(lx[i]*lx[i] + ly[i]*ly[i])))
	}

	sample := mag
	if len(mag) > maxSampleSize {
		sample = sampleValues(mag, maxSampleSize)
	}

	return quantileFromHistogram(sample, percentile, nbins)
}

// sampleValues draws a fixed-size random subset of values, mirroring the
// teacher's FastApproxMedian subsampling idiom. fastrand.RNG self-seeds from
// process state on first use, so this trades bit-for-bit determinism for
// speed on images above maxSampleSize; see DESIGN.md.
func sampleValues(values []float32, n int) []float32 {
	rng := fastrand.RNG{}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		idx := int(rng.Uint32n(uint32(len(values))))
		out[i] = values[idx]
	}
	return out
}

func quantileFromHistogram(values []float32, percentile float32, nbins int) float32 {
	min, max := float32(math.MaxFloat32), float32(-math.MaxFloat32)
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max <= min {
		return 0
	}

	hist := make([]int, nbins)
	scale := float32(nbins-1) / (max - min)
	for _, v := range values {
		bin := int((v - min) * scale)
		if bin < 0 {
			bin = 0
		}
		if bin >= nbins {
			bin = nbins - 1
		}
		hist[bin]++
	}

	target := int(percentile * 0.01 * float32(len(values)))
	count := 0
	for i, h := range hist {
		count += h
		if count >= target {
			return min + (float32(i)+0.5)*(max-min)/float32(nbins)
		}
	}
	return max
}

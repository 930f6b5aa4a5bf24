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

// Package imageops hosts the image primitives the core detector consumes
// through narrow interfaces instead of implementing itself: separable
// Gaussian blur, Scharr derivatives, gradient-magnitude percentile
// estimation, and a parallel-for executor used by the descriptor
// extractors.
package imageops

// Filter performs the separable smoothing and derivative convolutions the
// scale-space builder and derivative pass need. Implementations operate on
// flat row-major float32 buffers of length w*h with reflecting borders.
type Filter interface {
	// GaussianBlur returns a new buffer, the source smoothed by a
	// symmetric separable Gaussian kernel of standard deviation sigma.
	GaussianBlur(src []float32, w, h int, sigma float32) []float32

	// Scharr returns a new buffer holding the orderX,orderY-order Scharr
	// derivative of src, with the kernel dilated by scale (scale=1
	// reproduces OpenCV's unit-scale Scharr kernel; scale>1 dilates it for
	// multi-scale derivatives).
	Scharr(src []float32, w, h int, orderX, orderY int, scale float32) []float32
}

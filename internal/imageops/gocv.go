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
	"image"

	"gocv.io/x/gocv"
)

// GocvFilter implements Filter with OpenCV bindings. It is the sole adapter
// between the module's flat float32 image buffers and a real convolution
// backend; the detector core never touches a gocv.Mat directly.
type GocvFilter struct{}

// NewGocvFilter returns a Filter backed by gocv.
func NewGocvFilter() *GocvFilter {
	return &GocvFilter{}
}

func toMat(src []float32, w, h int) gocv.Mat {
	m := gocv.NewMatWithSize(h, w, gocv.MatTypeCV32F)
	data, err := m.DataPtrFloat32()
	if err != nil {
		return m
	}
	copy(data, src)
	return m
}

func fromMat(m gocv.Mat, w, h int) []float32 {
	out := make([]float32, w*h)
	data, err := m.DataPtrFloat32()
	if err != nil {
		return out
	}
	copy(out, data)
	return out
}

// GaussianBlur implements Filter.
func (f *GocvFilter) GaussianBlur(src []float32, w, h int, sigma float32) []float32 {
	src32 := toMat(src, w, h)
	defer src32.Close()

	ksize := kernelSizeForSigma(sigma)
	dst := gocv.NewMat()
	defer dst.Close()

	gocv.GaussianBlur(src32, &dst, image.Pt(ksize, ksize), float64(sigma), float64(sigma), gocv.BorderReflect101)
	return fromMat(dst, w, h)
}

// Scharr implements Filter. scale==1 uses OpenCV's built-in 3x3 Scharr
// operator; scale>1 builds the scale-dilated separable kernel used for
// multiscale derivatives and applies it with SepFilter2D.
func (f *GocvFilter) Scharr(src []float32, w, h int, orderX, orderY int, scale float32) []float32 {
	src32 := toMat(src, w, h)
	defer src32.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	if scale <= 1 {
		gocv.Scharr(src32, &dst, gocv.MatTypeCV32F, orderX, orderY, 1, 0, gocv.BorderReflect101)
		return fromMat(dst, w, h)
	}

	kx := dilatedScharrKernel(orderX, int(scale))
	ky := dilatedScharrKernel(orderY, int(scale))
	kxMat := rowKernelToMat(kx)
	kyMat := rowKernelToMat(ky)
	defer kxMat.Close()
	defer kyMat.Close()

	gocv.SepFilter2D(src32, &dst, gocv.MatTypeCV32F, kxMat, kyMat, image.Pt(-1, -1), 0, gocv.BorderReflect101)
	return fromMat(dst, w, h)
}

func kernelSizeForSigma(sigma float32) int {
	k := int(4*sigma + 0.5)
	if k%2 == 0 {
		k++
	}
	if k < 3 {
		k = 3
	}
	return k
}

// dilatedScharrKernel builds the scale-dilated 1D Scharr kernel used by
// KAZE's multiscale derivative pass, of length 3+2*(scale-1): order 0 is a
// smoothing kernel with the taps norm, w*norm and norm at the first,
// middle and last positions (zero elsewhere), order 1 is the antisymmetric
// [-1, 0..0, 1] difference kernel. Any other order gives an all-zero kernel.
func dilatedScharrKernel(order, scale int) []float32 {
	if scale < 1 {
		scale = 1
	}
	ksize := 3 + 2*(scale-1)
	k := make([]float32, ksize)
	switch order {
	case 0:
		const w = float32(10.0 / 3.0)
		norm := float32(1.0) / (2 * float32(scale) * (w + 2))
		k[0] = norm
		k[ksize/2] = w * norm
		k[ksize-1] = norm
	case 1:
		k[0] = -1
		k[ksize-1] = 1
	}
	return k
}

func rowKernelToMat(k []float32) gocv.Mat {
	m := gocv.NewMatWithSize(len(k), 1, gocv.MatTypeCV32F)
	data, err := m.DataPtrFloat32()
	if err != nil {
		return m
	}
	copy(data, k)
	return m
}

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
	"testing"
)

func TestCellSumsAddSURFSignSplit(t *testing.T) {
	var c cellSums
	c.addSURF(1, -2, 1, 1, -1) // keyY>=0 -> dxPos, keyX<0 -> dyNeg
	if c.dxPos != 1 || c.dxNeg != 0 {
		t.Errorf("dxPos/dxNeg split wrong: pos=%v neg=%v", c.dxPos, c.dxNeg)
	}
	if c.dyNeg != -2 || c.dyPos != 0 {
		t.Errorf("dyPos/dyNeg split wrong: pos=%v neg=%v", c.dyPos, c.dyNeg)
	}
}

func TestCellSumsAppendToDims(t *testing.T) {
	var c cellSums
	c.addSURF(1, 2, 1, 1, 1)
	out := c.appendTo(nil, false)
	if len(out) != 4 {
		t.Fatalf("64-dim cell append got %d values, want 4", len(out))
	}
	out = c.appendTo(nil, true)
	if len(out) != 8 {
		t.Fatalf("128-dim cell append got %d values, want 8", len(out))
	}
}

func TestBilinearAtExactGridPoint(t *testing.T) {
	field := []float32{
		1, 2,
		3, 4,
	}
	if got := bilinearAt(field, 2, 2, 1, 1); got != 4 {
		t.Errorf("bilinearAt at exact corner = %v, want 4", got)
	}
	if got := bilinearAt(field, 2, 2, 0.5, 0.5); math.Abs(float64(got-2.5)) > 1e-6 {
		t.Errorf("bilinearAt center = %v, want 2.5", got)
	}
}

func TestBilinearAtClampsOutOfBounds(t *testing.T) {
	field := []float32{1, 2, 3, 4}
	inBounds := bilinearAt(field, 2, 2, 0, 0)
	outOfBounds := bilinearAt(field, 2, 2, -5, -5)
	if inBounds != outOfBounds {
		t.Errorf("out-of-bounds sample should clamp to the nearest edge: got %v vs %v", outOfBounds, inBounds)
	}
}

func TestGaugeDerivativesZeroGradient(t *testing.T) {
	lww, lvv := gaugeDerivatives(0, 0, 1, 2, 3)
	if lww != 0 || lvv != 0 {
		t.Errorf("gaugeDerivatives with zero gradient should be (0,0), got (%v,%v)", lww, lvv)
	}
}

func TestRotate2DSwapsAxesAtZeroAngle(t *testing.T) {
	x, y := rotate2D(3, 4, 1, 0)
	if math.Abs(x-4) > 1e-9 || math.Abs(y-3) > 1e-9 {
		t.Errorf("rotate2D at angle 0 should swap to (y,x) per the convention, got (%v,%v)", x, y)
	}
}

func TestNormalizeDescriptorUnitNorm(t *testing.T) {
	row := []float32{3, 4, 0, 0}
	opt := DefaultOptions(32, 32)
	normalizeDescriptor(row, opt)
	var sum float64
	for _, v := range row {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("normalized descriptor squared-norm = %v, want 1", sum)
	}
}

func TestNormalizeDescriptorAllZeroIsNoop(t *testing.T) {
	row := make([]float32, 8)
	opt := DefaultOptions(32, 32)
	normalizeDescriptor(row, opt)
	for _, v := range row {
		if v != 0 {
			t.Errorf("all-zero descriptor should remain all-zero, got %v", row)
			break
		}
	}
}

func TestNormalizeDescriptorClippingStaysUnitNorm(t *testing.T) {
	row := []float32{10, 0.1, 0.1, 0.1}
	opt := DefaultOptions(32, 32)
	opt.UseClippingNormalization = true
	opt.ClippingNormalizationNIter = 5
	opt.ClippingNormalizationRatio = 0.2
	normalizeDescriptor(row, opt)
	var sum float64
	for _, v := range row {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1) > 1e-4 {
		t.Errorf("clipped descriptor squared-norm = %v, want 1", sum)
	}
}

func TestDescribeSURFProducesNormalizedRows(t *testing.T) {
	opt := DefaultOptions(32, 32)
	opt.Omax, opt.NSublevels = 1, 3
	opt.Descriptor = DescriptorSURF
	k, err := New(opt)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img := randomImage(32, 32, 7)
	if err := k.BuildScaleSpace(img); err != nil {
		t.Fatalf("BuildScaleSpace: %v", err)
	}
	kp := Keypoint{X: 16, Y: 16, ClassID: 1, Size: 2}
	desc, dim, err := k.Describe([]Keypoint{kp})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if dim != 64 {
		t.Fatalf("dim = %d, want 64", dim)
	}
	var sum float64
	for _, v := range desc {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		t.Skip("degenerate all-zero gradient for this random seed")
	}
	if math.Abs(sum-1) > 1e-3 {
		t.Errorf("descriptor squared-norm = %v, want ~1", sum)
	}
}

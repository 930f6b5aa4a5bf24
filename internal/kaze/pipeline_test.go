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

import "testing"

func TestNewRejectsInvalidOptions(t *testing.T) {
	opt := DefaultOptions(4, 4)
	if _, err := New(opt); err == nil {
		t.Error("New should reject images smaller than the minimum usable size")
	}

	opt = DefaultOptions(64, 64)
	opt.Omax = 0
	if _, err := New(opt); err == nil {
		t.Error("New should reject Omax <= 0")
	}
}

func TestDetectBeforeBuildScaleSpaceErrors(t *testing.T) {
	k, err := New(DefaultOptions(32, 32))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := k.Detect(); err == nil {
		t.Error("Detect before BuildScaleSpace should return an error")
	}
	if _, _, err := k.Describe(nil); err == nil {
		t.Error("Describe before BuildScaleSpace should return an error")
	}
}

func TestPipelineEndToEndSmoke(t *testing.T) {
	opt := DefaultOptions(64, 64)
	opt.Omax, opt.NSublevels = 2, 3
	k, err := New(opt)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	img := randomImage(64, 64, 42)
	if err := k.BuildScaleSpace(img); err != nil {
		t.Fatalf("BuildScaleSpace: %v", err)
	}
	kpts, err := k.Detect()
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(kpts) == 0 {
		t.Skip("no keypoints detected on this random image, nothing further to check")
	}

	dim := opt.DescriptorDim()
	desc, gotDim, err := k.Describe(kpts)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if gotDim != dim {
		t.Fatalf("Describe dim = %d, want %d", gotDim, dim)
	}
	if len(desc) != len(kpts)*dim {
		t.Fatalf("Describe matrix len = %d, want %d", len(desc), len(kpts)*dim)
	}
}

func TestPipelineUprightSkipsOrientation(t *testing.T) {
	opt := DefaultOptions(48, 48)
	opt.Omax, opt.NSublevels = 1, 3
	opt.Upright = true
	k, err := New(opt)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img := randomImage(48, 48, 3)
	if err := k.BuildScaleSpace(img); err != nil {
		t.Fatalf("BuildScaleSpace: %v", err)
	}
	kpts, err := k.Detect()
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for _, kp := range kpts {
		if kp.Angle != 0 {
			t.Errorf("upright keypoint angle should stay zeroed by refine, got %v", kp.Angle)
		}
	}
}

func TestDescriptorFuncDispatch(t *testing.T) {
	opt := DefaultOptions(32, 32)
	for _, fam := range []DescriptorFamily{DescriptorSURF, DescriptorMSURF, DescriptorGSURF} {
		opt.Descriptor = fam
		k, err := New(opt)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if k.descriptorFunc() == nil {
			t.Errorf("descriptorFunc returned nil for family %v", fam)
		}
	}
}

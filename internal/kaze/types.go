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

// Package kaze implements a scale-invariant feature detector and
// descriptor extractor over an anisotropic nonlinear diffusion
// scale-space: blob-like keypoints are found as extrema of the Hessian
// determinant across scale, and rotation-aware or upright descriptors are
// built around each one from one of three families (SURF, M-SURF, G-SURF).
package kaze

import "fmt"

// Diffusivity selects the edge-stopping nonlinearity used to build the
// conductivity field at every scale-space level.
type Diffusivity int

// Diffusivity function identifiers.
const (
	DiffusivityPMG1 Diffusivity = iota
	DiffusivityPMG2
	DiffusivityWeickert
)

// DescriptorFamily selects which of the three descriptor geometries to
// extract.
type DescriptorFamily int

const (
	DescriptorSURF DescriptorFamily = iota
	DescriptorMSURF
	DescriptorGSURF
)

// DefaultMinDetectorThreshold is the hard floor below which no keypoint is
// ever accepted, regardless of the caller-configured Options.DThreshold.
const DefaultMinDetectorThreshold = float32(0.00001)

// EvolutionLevel is the per-(octave,sublevel) bundle carried through the
// scale-space build, the derivative pass and the detector. All fields are
// flat row-major float32 buffers of length Width*Height except where noted.
type EvolutionLevel struct {
	Lt      []float32 // evolved image at this level
	Lsmooth []float32 // pre-derivative smoothed view of Lt
	Lx, Ly  []float32 // first derivatives of Lsmooth
	Lxx, Lxy, Lyy []float32 // second derivatives
	Lflow   []float32 // conductivity field for the step into this level
	Ldet    []float32 // Hessian-determinant response

	Esigma float32 // scale of this level
	Etime  float32 // evolution time

	SigmaSize int // rounded integer scale, dilates derivative kernels
	Octave    int
	Sublevel  int
}

// Keypoint is a detected feature. Angle starts as the producing level's
// Sublevel (a temporary placeholder), is zeroed by sub-pixel refinement,
// and is then overwritten by the dominant orientation, in radians within
// [0, 2*pi), during orientation estimation (skipped when Options.Upright
// is set).
type Keypoint struct {
	X, Y     float32
	Size     float32 // diameter in pixels at original image resolution
	Response float32 // |Ldet| at the detection site
	Angle    float32
	Octave   int
	ClassID  int // index into the evolution-level slice that detected it
}

// Options configures a KAZE pipeline. All fields are fixed at construction;
// New validates and fails fast on invalid combinations.
type Options struct {
	Width, Height int

	Omax       int // number of octaves
	NSublevels int

	SOffset      float32 // base scale, default near 1.6
	SDerivatives float32 // pre-derivative smoothing sigma

	Diffusivity Diffusivity
	Descriptor  DescriptorFamily
	Extended    bool // false -> 64 dims, true -> 128 dims
	Upright     bool

	DThreshold float32

	UseClippingNormalization      bool
	ClippingNormalizationNIter    int
	ClippingNormalizationRatio    float32

	KContrastPercentile float32
	KContrastNBins      int
	ComputeKContrast    bool

	NumWorkers  int  // 0 -> runtime.NumCPU()
	ParallelAOS bool // gate the optional row/column AOS task split
	Verbose     bool
}

// DefaultOptions returns the options used by the reference KAZE
// configuration: four octaves, four sublevels per octave, Perona-Malik g2
// diffusivity, rotated (non-upright) 64-dim M-SURF descriptors.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:  width,
		Height: height,

		Omax:       4,
		NSublevels: 4,

		SOffset:      1.6,
		SDerivatives: 1.5,

		Diffusivity: DiffusivityPMG2,
		Descriptor:  DescriptorMSURF,
		Extended:    false,
		Upright:     false,

		DThreshold: 0.001,

		UseClippingNormalization:   false,
		ClippingNormalizationNIter: 5,
		ClippingNormalizationRatio: 0.2,

		KContrastPercentile: 70,
		KContrastNBins:      300,
		ComputeKContrast:    true,

		NumWorkers:  0,
		ParallelAOS: false,
		Verbose:     false,
	}
}

func (o Options) validate() error {
	if o.Omax <= 0 {
		return fmt.Errorf("kaze: Omax must be > 0, got %d", o.Omax)
	}
	if o.NSublevels <= 0 {
		return fmt.Errorf("kaze: NSublevels must be > 0, got %d", o.NSublevels)
	}
	const minDim = 16
	if o.Width < minDim || o.Height < minDim {
		return fmt.Errorf("kaze: image dimensions %dx%d below minimum usable size %dx%d", o.Width, o.Height, minDim, minDim)
	}
	if o.SOffset <= 0 {
		return fmt.Errorf("kaze: SOffset must be > 0, got %g", o.SOffset)
	}
	if o.SDerivatives <= 0 {
		return fmt.Errorf("kaze: SDerivatives must be > 0, got %g", o.SDerivatives)
	}
	if o.KContrastNBins <= 0 {
		return fmt.Errorf("kaze: KContrastNBins must be > 0, got %d", o.KContrastNBins)
	}
	return nil
}

// DescriptorDim returns the row width of the descriptor matrix produced by
// Describe under these options: 64 or 128.
func (o Options) DescriptorDim() int {
	if o.Extended {
		return 128
	}
	return 64
}

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
	"fmt"

	"github.com/ykwang/kaze/internal/imageops"
	"github.com/rs/zerolog"
)

// KAZE owns the evolution-level volume and AOS scratch buffers for one
// image's lifetime, and orchestrates build -> detect -> describe.
type KAZE struct {
	opt    Options
	filter imageops.Filter
	levels []EvolutionLevel
	aos    *aosScratch

	kcontrast float32
	built     bool

	log zerolog.Logger
}

// New allocates all level buffers and AOS scratch for the given options.
// It fails fast on invalid configuration (Omax<=0, NSublevels<=0, image
// dimensions below the minimum usable size).
func New(opt Options) (*KAZE, error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	return &KAZE{
		opt:    opt,
		filter: imageops.NewGocvFilter(),
		levels: allocateLevels(opt),
		aos:    newAOSScratch(opt.Width, opt.Height),
		log:    zerolog.Nop(),
	}, nil
}

// SetLogger attaches a zerolog.Logger used for Options.Verbose progress
// narration. The default is a no-op logger.
func (k *KAZE) SetLogger(l zerolog.Logger) { k.log = l }

// BuildScaleSpace evolves the nonlinear diffusion scale-space from img (a
// flat row-major buffer of length Width*Height). It returns an error only
// if the image size does not match the configured dimensions; the
// pipeline's own buffers are always initialized by New.
func (k *KAZE) BuildScaleSpace(img []float32) error {
	if err := k.buildScaleSpace(img); err != nil {
		return err
	}
	k.computeMultiscaleDerivatives()
	k.built = true
	return nil
}

// Detect scans the scale-space for Hessian-determinant extrema, cross-level
// deduplicates, sub-pixel refines, estimates dominant orientation for
// every surviving keypoint unless Options.Upright is set, and returns the
// keypoints strongest response first. Returns an error and an empty slice if the
// scale-space has not been built yet.
func (k *KAZE) Detect() ([]Keypoint, error) {
	if !k.built {
		return nil, fmt.Errorf("kaze: Detect called before BuildScaleSpace")
	}
	kpts := k.detect()
	for i := range kpts {
		if !k.opt.Upright {
			k.computeMainOrientation(&kpts[i])
		}
	}
	sortKeypointsByResponseDesc(kpts)
	return kpts, nil
}

// Describe extracts descriptors for kpts into a caller-owned dense N*D
// matrix, D given by Options.DescriptorDim(). Extraction is parallelized
// over keypoints; each worker writes exactly one row and may mutate only
// its own keypoint's Angle (already finalized by Detect, so no-op here for
// upright/non-upright paths alike).
func (k *KAZE) Describe(kpts []Keypoint) ([]float32, int, error) {
	if !k.built {
		return nil, 0, fmt.Errorf("kaze: Describe called before BuildScaleSpace")
	}
	dim := k.opt.DescriptorDim()
	matrix := make([]float32, len(kpts)*dim)

	describeOne := k.descriptorFunc()

	imageops.ParallelFor(len(kpts), k.opt.NumWorkers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			row := matrix[i*dim : i*dim : i*dim+dim]
			row = describeOne(&kpts[i], row)
			normalizeDescriptor(row, k.opt)
		}
	})
	return matrix, dim, nil
}

// descriptorFunc binds one descriptor-extraction function for the whole
// call, per the tagged-variant dispatch spec.md calls for (avoiding
// per-keypoint virtual dispatch).
func (k *KAZE) descriptorFunc() func(kp *Keypoint, out []float32) []float32 {
	switch k.opt.Descriptor {
	case DescriptorSURF:
		return k.describeSURF
	case DescriptorMSURF:
		return k.describeMSURF
	case DescriptorGSURF:
		return k.describeGSURF
	default:
		return k.describeMSURF
	}
}

func (k *KAZE) logEvolutionStep(i int, lvl *EvolutionLevel) {
	k.log.Debug().
		Int("level", i).
		Float32("etime", lvl.Etime).
		Float32("esigma", lvl.Esigma).
		Msg("computed image evolution step")
}

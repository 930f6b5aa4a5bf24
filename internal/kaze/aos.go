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

import "github.com/ykwang/kaze/internal/kaze/tridiag"

// aosScratch holds the buffers reused across every AOS step for one
// pipeline instance. They are overwritten on every call and never observed
// across steps, so a single instance-owned set suffices.
type aosScratch struct {
	w, h int

	qr, qc     []float32 // row/column Laplacian pair sums (qc transposed: [j*h+i])
	py, px     []float32 // row/column Laplacian stencil weight sums (px transposed)
	ay, by     []float32 // row-pass tridiagonal diagonal/off-diagonal
	ax, bx     []float32 // column-pass tridiagonal diagonal/off-diagonal (transposed)
	lty, ltx   []float32 // row-pass and column-pass solutions (ltx un-transposed on write-back)
	ldprevT    []float32 // transposed copy of ldprev for the column pass
	ltxT       []float32 // column-pass solution, still transposed
}

func newAOSScratch(w, h int) *aosScratch {
	return &aosScratch{
		w: w, h: h,
		qr: make([]float32, (h-1)*w),
		qc: make([]float32, w*h),
		py: make([]float32, h*w),
		px: make([]float32, w*h),
		ay: make([]float32, h*w),
		by: make([]float32, (h-1)*w),
		ax: make([]float32, w*h),
		bx: make([]float32, (w-1)*h),
		lty: make([]float32, h*w),
		ltx: make([]float32, w*h),
		ldprevT: make([]float32, w*h),
		ltxT: make([]float32, w*h),
	}
}

// aosStep performs one nonlinear-diffusion timestep: given the previous
// level ldprev, conductivity field c (both w*h, row-major) and stepsize
// tau, writes the evolved level into ld (w*h). ld may alias ldprev.
func (k *KAZE) aosStep(ldprev, c []float32, tau float32, ld []float32) {
	s := k.aos
	if k.opt.ParallelAOS {
		done := make(chan struct{})
		go func() {
			s.aosRows(ldprev, c, tau)
			close(done)
		}()
		s.aosColumns(ldprev, c, tau)
		<-done
	} else {
		s.aosRows(ldprev, c, tau)
		s.aosColumns(ldprev, c, tau)
	}

	for i := range ld {
		ld[i] = 0.5 * (s.lty[i] + s.ltx[i])
	}
}

// aosRows solves the row-pass 1D implicit diffusion system: for each
// column, a tridiagonal system along the h rows, coupling vertically
// adjacent pixels through the conductivity pair sums qr.
func (s *aosScratch) aosRows(ldprev, c []float32, tau float32) {
	w, h := s.w, s.h

	// qr[i,j] = c[i,j] + c[i+1,j] for i in [0, h-2]
	for i := 0; i < h-1; i++ {
		for j := 0; j < w; j++ {
			s.qr[i*w+j] = c[i*w+j] + c[(i+1)*w+j]
		}
	}

	// py[i,j]: qr[0,j] at top, qr[h-2,j] at bottom, qr[i-1,j]+qr[i,j] else
	for j := 0; j < w; j++ {
		s.py[j] = s.qr[j]
		s.py[(h-1)*w+j] = s.qr[(h-2)*w+j]
	}
	for i := 1; i < h-1; i++ {
		for j := 0; j < w; j++ {
			s.py[i*w+j] = s.qr[(i-1)*w+j] + s.qr[i*w+j]
		}
	}

	// diagonal ay = 1 + tau*py; off-diagonal by = -tau*qr; solve per
	// column, i.e. n=h rows, m=w independent systems.
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			s.ay[i*w+j] = 1 + tau*s.py[i*w+j]
		}
	}
	for i := 0; i < h-1; i++ {
		for j := 0; j < w; j++ {
			s.by[i*w+j] = -tau * s.qr[i*w+j]
		}
	}

	tridiag.SolveInto(s.ay, s.by, ldprev, h, w, s.lty)
}

// aosColumns solves the column-pass 1D implicit diffusion system, the same
// procedure rotated: one tridiagonal system per image row, coupling
// horizontally adjacent pixels. The buffers are transposed so that these
// systems become the columns of a w x h array, the layout the solver takes.
func (s *aosScratch) aosColumns(ldprev, c []float32, tau float32) {
	w, h := s.w, s.h

	// qc[i,j] = c[i,j] + c[i,j+1] for j in [0, w-2], stored transposed at
	// [j*h+i] so the w dimension becomes the solver's n (system length).
	for i := 0; i < h; i++ {
		for j := 0; j < w-1; j++ {
			s.qc[j*h+i] = c[i*w+j] + c[i*w+j+1]
		}
	}

	for i := 0; i < h; i++ {
		s.px[i] = s.qc[i]
		s.px[(w-1)*h+i] = s.qc[(w-2)*h+i]
	}
	for j := 1; j < w-1; j++ {
		for i := 0; i < h; i++ {
			s.px[j*h+i] = s.qc[(j-1)*h+i] + s.qc[j*h+i]
		}
	}

	for j := 0; j < w; j++ {
		for i := 0; i < h; i++ {
			s.ax[j*h+i] = 1 + tau*s.px[j*h+i]
		}
	}
	for j := 0; j < w-1; j++ {
		for i := 0; i < h; i++ {
			s.bx[j*h+i] = -tau * s.qc[j*h+i]
		}
	}

	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			s.ldprevT[j*h+i] = ldprev[i*w+j]
		}
	}

	tridiag.SolveInto(s.ax, s.bx, s.ldprevT, w, h, s.ltxT)

	// transpose back into row-major s.ltx
	for j := 0; j < w; j++ {
		for i := 0; i < h; i++ {
			s.ltx[i*w+j] = s.ltxT[j*h+i]
		}
	}
}

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

// computeMultiscaleDerivatives fills Lx, Ly, Lxx, Lxy, Lyy and Ldet for
// every level, using Scharr derivatives dilated by each level's
// sigma_size and normalized by the derivative order so responses are
// comparable across scale.
func (k *KAZE) computeMultiscaleDerivatives() {
	for i := range k.levels {
		lvl := &k.levels[i]
		scale := float32(lvl.SigmaSize)

		lvl.Lx = k.filter.Scharr(lvl.Lsmooth, k.opt.Width, k.opt.Height, 1, 0, scale)
		lvl.Ly = k.filter.Scharr(lvl.Lsmooth, k.opt.Width, k.opt.Height, 0, 1, scale)

		lvl.Lxx = k.filter.Scharr(lvl.Lx, k.opt.Width, k.opt.Height, 1, 0, scale)
		lvl.Lxy = k.filter.Scharr(lvl.Lx, k.opt.Width, k.opt.Height, 0, 1, scale)
		lvl.Lyy = k.filter.Scharr(lvl.Ly, k.opt.Width, k.opt.Height, 0, 1, scale)

		for j := range lvl.Lx {
			lvl.Lx[j] *= scale
			lvl.Ly[j] *= scale
		}

		scale2 := scale * scale
		for j := range lvl.Lxx {
			lvl.Lxx[j] *= scale2
			lvl.Lxy[j] *= scale2
			lvl.Lyy[j] *= scale2
			lvl.Ldet[j] = lvl.Lxx[j]*lvl.Lyy[j] - lvl.Lxy[j]*lvl.Lxy[j]
		}
	}
}

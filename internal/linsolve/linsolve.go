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

// Package linsolve provides the small dense linear solve used once per
// candidate keypoint during sub-pixel refinement.
package linsolve

import "gonum.org/v1/gonum/mat"

// Solve3x3 solves A*x = b for a 3x3 system by LU decomposition, returning
// ok=false if A is singular to working precision. A is row-major, 9
// elements; b and the returned x have 3 elements.
func Solve3x3(a [9]float64, b [3]float64) (x [3]float64, ok bool) {
	A := mat.NewDense(3, 3, a[:])
	B := mat.NewVecDense(3, b[:])

	var lu mat.LU
	lu.Factorize(A)
	if lu.Cond() > 1e12 {
		return x, false
	}

	var X mat.VecDense
	if err := lu.SolveVecTo(&X, false, B); err != nil {
		return x, false
	}
	x[0], x[1], x[2] = X.AtVec(0), X.AtVec(1), X.AtVec(2)
	return x, true
}

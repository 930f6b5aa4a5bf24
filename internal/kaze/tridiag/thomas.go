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

// Package tridiag solves batches of symmetric tridiagonal systems with the
// Thomas algorithm, the forward-elimination/back-substitution specialization
// of Gaussian elimination for banded matrices.
package tridiag

// Solve solves A·x = d for m independent systems sharing a row dimension
// n, stored as row-major arrays with one system per column: entry i of
// system j is at [i*m+j]. a holds the n diagonal entries per system (n*m),
// b holds the n-1 shared sub/super-diagonal entries per system ((n-1)*m),
// d holds the n right-hand-side entries per system (n*m). x is returned with the same shape
// as d. Scratch space is allocated internally; callers needing to avoid
// per-call allocation should use SolveInto.
//
// Requires a to be strictly diagonally dominant; the caller (the AOS
// stepper) guarantees this by construction, so no pivoting is performed.
func Solve(a, b, d []float32, n, m int) []float32 {
	x := make([]float32, n*m)
	SolveInto(a, b, d, n, m, x)
	return x
}

// SolveInto is Solve with a caller-supplied output buffer to avoid the
// result allocation in hot loops; forward-elimination scratch is still
// allocated internally. x must have length n*m and may alias d.
func SolveInto(a, b, d []float32, n, m int, x []float32) {
	if n == 0 || m == 0 {
		return
	}
	cp := make([]float32, n*m)
	dp := make([]float32, n*m)

	// forward elimination
	copy(cp[0:m], a[0:m])
	copy(dp[0:m], d[0:m])
	for i := 1; i < n; i++ {
		row, prev := i*m, (i-1)*m
		brow := (i - 1) * m
		for j := 0; j < m; j++ {
			w := b[brow+j] / cp[prev+j]
			cp[row+j] = a[row+j] - w*b[brow+j]
			dp[row+j] = d[row+j] - w*dp[prev+j]
		}
	}

	// back substitution
	last := (n - 1) * m
	for j := 0; j < m; j++ {
		x[last+j] = dp[last+j] / cp[last+j]
	}
	for i := n - 2; i >= 0; i-- {
		row, next := i*m, (i+1)*m
		brow := i * m
		for j := 0; j < m; j++ {
			x[row+j] = (dp[row+j] - b[brow+j]*x[next+j]) / cp[row+j]
		}
	}
}

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

import "runtime"

// ParallelFor splits the half-open range [0,n) into 8*NumWorkers batches,
// bounded to NumWorkers concurrent goroutines via a semaphore channel, and
// blocks until every batch has run worker(lo, hi). Workers must touch only
// their own [lo,hi) range; there is no shared mutable state across batches.
//
// numWorkers<=0 defaults to runtime.NumCPU(), matching the teacher's
// ApplyPixelFunction default.
func ParallelFor(n, numWorkers int, worker func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	numBatches := 8 * numWorkers
	batchSize := (n + numBatches - 1) / numBatches
	if batchSize < 1 {
		batchSize = 1
	}
	sem := make(chan bool, numWorkers)

	for lo := 0; lo < n; lo += batchSize {
		hi := lo + batchSize
		if hi > n {
			hi = n
		}

		sem <- true
		go func(lo, hi int) {
			worker(lo, hi)
			<-sem
		}(lo, hi)
	}

	for i := 0; i < cap(sem); i++ { // wait for goroutines to finish
		sem <- true
	}
}

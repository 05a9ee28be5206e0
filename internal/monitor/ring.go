// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package monitor

// ring keeps the last values pushed into it.
// Once full, every push overwrites the oldest value.
type ring struct {
	values []float64
	head   int
	count  int
}

func newRing(size int) *ring {
	return &ring{values: make([]float64, size)}
}

func (r *ring) push(v float64) {
	r.values[r.head] = v
	r.head = (r.head + 1) % len(r.values)
	if r.count < len(r.values) {
		r.count++
	}
}

// average returns the mean of the stored values, or 0 if there are none.
func (r *ring) average() float64 {
	if r.count == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r.values[:r.count] {
		sum += v
	}
	return sum / float64(r.count)
}

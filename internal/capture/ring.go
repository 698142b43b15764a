// SPDX-License-Identifier: MIT

// Package capture feeds live audio through the analysis chain on a
// fixed cadence. A bounded ring keeps only the most recent samples, so
// a stalled consumer costs freshness, never memory.
package capture

import "sync"

// RingBuffer is a fixed-capacity sample ring that overwrites the
// oldest samples on overflow. Safe for one writer and any number of
// readers.
type RingBuffer struct {
	mu    sync.Mutex
	data  []float64
	head  int    // next write position
	total uint64 // samples ever written
}

// NewRingBuffer returns a ring holding up to capacity samples.
// Capacity must cover at least one analysis window.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{data: make([]float64, capacity)}
}

// Capacity returns the fixed size of the ring.
func (r *RingBuffer) Capacity() int { return len(r.data) }

// Write appends samples, overwriting the oldest when full. Writes
// larger than the ring keep only their tail.
func (r *RingBuffer) Write(samples []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(samples) > len(r.data) {
		samples = samples[len(samples)-len(r.data):]
	}
	for _, v := range samples {
		r.data[r.head] = v
		r.head = (r.head + 1) % len(r.data)
	}
	r.total += uint64(len(samples))
}

// Total returns the number of samples written since creation (or the
// last Reset), including overwritten ones.
func (r *RingBuffer) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// ReadLatest copies the most recent len(dst) samples into dst, oldest
// first, and reports how many were valid. When fewer samples than
// len(dst) have ever been written, the leading part of dst is zeroed
// and only the tail is real data.
func (r *RingBuffer) ReadLatest(dst []float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(dst)
	if n > len(r.data) {
		n = len(r.data)
	}
	valid := n
	if r.total < uint64(n) {
		valid = int(r.total)
	}

	for i := range dst {
		dst[i] = 0
	}
	start := ((r.head-n)%len(r.data) + len(r.data)) % len(r.data)
	for i := 0; i < n; i++ {
		dst[len(dst)-n+i] = r.data[(start+i)%len(r.data)]
	}
	// Zero the slots that predate any real write.
	for i := 0; i < n-valid; i++ {
		dst[len(dst)-n+i] = 0
	}
	return valid
}

// Reset discards all buffered samples and the write counter.
func (r *RingBuffer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data {
		r.data[i] = 0
	}
	r.head = 0
	r.total = 0
}

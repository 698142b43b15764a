// SPDX-License-Identifier: MIT
/*
Package bitint provides power-of-two helpers for FFT and buffer sizing.

All operations are O(1), allocation free and safe to call from the
real-time analysis path.
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of 2 greater than or equal
// to size. Values of 2 or less (including negatives) map to 1, as a
// zero-length transform is never valid. Note the size-1 term: without
// it, exact powers of two would be doubled.
func NextPowerOfTwo(size int) int {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len64(uint64(size-1))
}

// NextPowerOfTwo32 is NextPowerOfTwo for int32 sizes.
func NextPowerOfTwo32(size int32) int32 {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len32(uint32(size-1))
}

// NextPowerOfTwo64 is NextPowerOfTwo for int64 sizes.
func NextPowerOfTwo64(size int64) int64 {
	if size <= 1 {
		return 1
	}
	return 1 << bits.Len64(uint64(size-1))
}

// IsPowerOfTwo reports whether n is an exact power of 2.
// Zero and negative values are not powers of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// IsPowerOfTwo32 is IsPowerOfTwo for int32 values.
func IsPowerOfTwo32(n int32) bool {
	return n > 0 && n&(n-1) == 0
}

// IsPowerOfTwo64 is IsPowerOfTwo for int64 values.
func IsPowerOfTwo64(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

// SPDX-License-Identifier: MIT
package bitint

import (
	"fmt"
	"testing"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{-10, 1},     // Negative number
		{0, 1},       // Zero
		{1, 1},       // One
		{2, 2},       // Already power of two
		{8, 8},       // Already power of two
		{10, 16},     // Not power of two
		{1000, 1024}, // Large number
		{3, 4},       // Small non-power
		{8192, 8192}, // Typical tuner window
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d→%d", tt.n, tt.expected), func(t *testing.T) {
			result := NextPowerOfTwo(tt.n)
			if result != tt.expected {
				t.Errorf("NextPowerOfTwo(%d) = %d, expected %d", tt.n, result, tt.expected)
			}
		})
	}
}

func TestNextPowerOfTwo32(t *testing.T) {
	tests := []struct {
		n        int32
		expected int32
	}{
		{-10, 1},
		{0, 1},
		{16, 16},
		{31, 32},
		{1023, 1024},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d→%d", tt.n, tt.expected), func(t *testing.T) {
			result := NextPowerOfTwo32(tt.n)
			if result != tt.expected {
				t.Errorf("NextPowerOfTwo32(%d) = %d, expected %d", tt.n, result, tt.expected)
			}
		})
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	powers := []int{1, 2, 4, 8, 512, 1024, 4096, 1 << 20}
	for _, n := range powers {
		if !IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = false, expected true", n)
		}
	}

	nonPowers := []int{-8, 0, 3, 5, 6, 7, 100, 1000}
	for _, n := range nonPowers {
		if IsPowerOfTwo(n) {
			t.Errorf("IsPowerOfTwo(%d) = true, expected false", n)
		}
	}
}

func TestNextPowerOfTwoZeroAllocs(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		_ = NextPowerOfTwo(1000)
		_ = NextPowerOfTwo64(1 << 40)
		_ = IsPowerOfTwo(4096)
	})

	if allocs > 0 {
		t.Errorf("Expected zero allocations in bitint helpers, got %.1f", allocs)
	}
}

// SPDX-License-Identifier: MIT

// Package bitint holds the power-of-two helpers used when sizing device
// buffers and FFT frames.
package bitint

import "math/bits"

// NextPowerOfTwo returns the smallest power of two >= n. Values <= 0 map to 1.
//
// n-1 is taken before measuring the bit length so that exact powers of two
// are returned unchanged (8 -> 8, not 16).
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// PrevPowerOfTwo returns the largest power of two <= n. Values <= 0 map to 1.
func PrevPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << (bits.Len(uint(n)) - 1)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// ClampPowerOfTwo rounds n up to a power of two and clamps the result to
// [lo, hi]. Both bounds are expected to be powers of two themselves.
func ClampPowerOfTwo(n, lo, hi int) int {
	p := NextPowerOfTwo(n)
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}

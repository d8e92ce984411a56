package utils

import "math/bits"

// IsPowerOfTwo checks if a number is a power of 2
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Log2 returns the base-2 logarithm of a power of two as a column
// log-size. The boolean is false when n is not a power of two.
func Log2(n int) (uint32, bool) {
	if !IsPowerOfTwo(n) {
		return 0, false
	}
	return uint32(bits.TrailingZeros(uint(n))), true
}

// CeilLog2 returns the smallest k such that 2^k >= n
func CeilLog2(n int) uint32 {
	logSize, _ := Log2(NextPowerOfTwo(n))
	return logSize
}

// NextPowerOfTwo returns the smallest power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

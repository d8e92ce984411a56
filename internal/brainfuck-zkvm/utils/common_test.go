package utils

import "testing"

// TestIsPowerOfTwo tests the IsPowerOfTwo function
func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected bool
	}{
		{"zero", 0, false},
		{"negative", -1, false},
		{"one", 1, true},
		{"two", 2, true},
		{"three", 3, false},
		{"eight", 8, true},
		{"fifteen", 15, false},
		{"large power", 1 << 20, true},
		{"large non-power", (1 << 20) - 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsPowerOfTwo(tt.input); result != tt.expected {
				t.Errorf("IsPowerOfTwo(%d) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

// TestLog2 tests the Log2 function
func TestLog2(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected uint32
		ok       bool
	}{
		{"one", 1, 0, true},
		{"two", 2, 1, true},
		{"sixteen", 16, 4, true},
		{"1024", 1024, 10, true},
		{"non-power of 2", 3, 0, false},
		{"zero", 0, 0, false},
		{"negative", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := Log2(tt.input)
			if result != tt.expected || ok != tt.ok {
				t.Errorf("Log2(%d) = (%d, %v), expected (%d, %v)",
					tt.input, result, ok, tt.expected, tt.ok)
			}
		})
	}
}

// TestCeilLog2 tests the CeilLog2 function
func TestCeilLog2(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected uint32
	}{
		{"zero", 0, 0},
		{"one", 1, 0},
		{"two", 2, 1},
		{"three", 3, 2},
		{"four", 4, 2},
		{"five", 5, 3},
		{"thousand", 1000, 10},
		{"power of two", 1024, 10},
		{"just above power", 1025, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := CeilLog2(tt.input); result != tt.expected {
				t.Errorf("CeilLog2(%d) = %d, expected %d", tt.input, result, tt.expected)
			}
		})
	}
}

// TestNextPowerOfTwo tests the NextPowerOfTwo function
func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"zero", 0, 1},
		{"negative", -5, 1},
		{"one", 1, 1},
		{"three", 3, 4},
		{"five", 5, 8},
		{"eight", 8, 8},
		{"nine", 9, 16},
		{"hundred", 100, 128},
		{"already power", 1024, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NextPowerOfTwo(tt.input)
			if result != tt.expected {
				t.Errorf("NextPowerOfTwo(%d) = %d, expected %d", tt.input, result, tt.expected)
			}
			if !IsPowerOfTwo(result) {
				t.Errorf("NextPowerOfTwo(%d) = %d, which is not a power of 2", tt.input, result)
			}
		})
	}
}

// TestLog2Consistency tests that Log2 and NextPowerOfTwo agree
func TestLog2Consistency(t *testing.T) {
	for i := 1; i <= 1024; i++ {
		next := NextPowerOfTwo(i)
		log, ok := Log2(next)
		if !ok || 1<<log != next {
			t.Errorf("Inconsistency for i=%d: NextPowerOfTwo=%d, Log2=%d", i, next, log)
		}
		if CeilLog2(i) != log {
			t.Errorf("CeilLog2(%d) = %d, expected %d", i, CeilLog2(i), log)
		}
	}
}

package errors

import (
	"fmt"
	"math"
)

// Epsilon is the smallest magnitude treated as non-zero by the guards below.
const Epsilon = 1e-10

// CheckFiniteMatrix returns a ValueError naming the first NaN or Inf entry of m.
// Split thresholds compare with <, so a NaN feature would silently route right.
func CheckFiniteMatrix(operation string, m interface {
	At(int, int) float64
	Dims() (int, int)
}) error {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewValueError(operation, fmt.Sprintf("non-finite value %v at (%d, %d)", v, i, j))
			}
		}
	}
	return nil
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < Epsilon {
		return 0
	}
	return numerator / denominator
}

// ClipValue clips a value to the range [min, max].
func ClipValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// StabilizeLog computes log with protection against log(0).
// Returns log(max(value, Epsilon)).
func StabilizeLog(value float64) float64 {
	if value < Epsilon {
		return math.Log(Epsilon)
	}
	return math.Log(value)
}

// Package approx centralizes epsilon-based float64 comparisons.
//
// Every cost comparison and move-acceptance rule in the solver goes through
// this package, so the improvement threshold lives in exactly one place.
// Movement acceptance requires strict improvement by more than Epsilon.
//
// Complexity: all helpers are O(1) with no allocations.
package approx

import "math"

// Epsilon is the tolerance used by all solver cost comparisons.
const Epsilon = 1e-6

// Eq reports a ≈ b within Epsilon.
func Eq(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// Lt reports a < b by strictly more than Epsilon.
func Lt(a, b float64) bool {
	return a < b-Epsilon
}

// Lte reports a < b or a ≈ b.
func Lte(a, b float64) bool {
	return a < b || Eq(a, b)
}

// Gt reports a > b by strictly more than Epsilon.
func Gt(a, b float64) bool {
	return a > b+Epsilon
}

// Gte reports a > b or a ≈ b.
func Gte(a, b float64) bool {
	return a > b || Eq(a, b)
}

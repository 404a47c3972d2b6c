package vrp

import "errors"

// Sentinel errors returned by problem construction.
var (
	// ErrEmptyProblem indicates the node set has no customers.
	ErrEmptyProblem = errors.New("vrp: problem has no customers")

	// ErrNonPositiveCapacity indicates the vehicle capacity is zero or negative.
	ErrNonPositiveCapacity = errors.New("vrp: non-positive vehicle capacity")

	// ErrNaNDistance indicates a distance evaluated to NaN during construction.
	ErrNaNDistance = errors.New("vrp: NaN distance")

	// ErrExplicitMatrixShape indicates the explicit lower-row matrix does not
	// match the problem dimension.
	ErrExplicitMatrixShape = errors.New("vrp: explicit matrix shape mismatch")
)

// Coordinate is a 2-D location.
type Coordinate struct {
	X float64
	Y float64
}

// Node is one location of the problem. Index 0 is the depot (Demand 0).
type Node struct {
	ID     int
	Coord  Coordinate
	Demand float64
}

// Vehicle describes the homogeneous fleet: every vehicle carries Cap.
type Vehicle struct {
	Cap float64
}

package vrp

import "math"

// euclidean returns the straight-line distance between two coordinates.
func euclidean(a, b Coordinate) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceOptions configures distance matrix construction.
type DistanceOptions struct {
	// Rounded rounds every distance to the nearest integer-valued double
	// (the classical TSPLIB convention).
	Rounded bool

	// Precompute stores the full n×n matrix; when false, distances are
	// evaluated from coordinates on every lookup. Ignored (forced true) when
	// Explicit is set.
	Precompute bool

	// Explicit supplies the distances as a lower-row matrix: row i holds the
	// distances from node i+1 to nodes 0..i.
	Explicit [][]float64
}

// DistanceMatrix is the symmetric, zero-diagonal distance table of a problem.
// Lookups are O(1); in lazy mode each lookup recomputes the Euclidean value.
type DistanceMatrix struct {
	locations   []Coordinate
	storage     []float64
	n           int
	precomputed bool
	rounded     bool
	maxDistance float64
	hasMax      bool
}

// NewDistanceMatrix builds the distance table for the given locations.
// Returns ErrNaNDistance if any entry evaluates to NaN and
// ErrExplicitMatrixShape if an explicit input does not match len(locations).
func NewDistanceMatrix(locations []Coordinate, opts DistanceOptions) (*DistanceMatrix, error) {
	n := len(locations)
	dm := &DistanceMatrix{
		locations: locations,
		n:         n,
		rounded:   opts.Rounded,
	}

	for _, c := range locations {
		if math.IsNaN(c.X) || math.IsNaN(c.Y) {
			return nil, ErrNaNDistance
		}
	}

	switch {
	case opts.Explicit != nil:
		if len(opts.Explicit) != n-1 {
			return nil, ErrExplicitMatrixShape
		}
		dm.precomputed = true
		dm.storage = make([]float64, n*n)
		for i, row := range opts.Explicit {
			if len(row) != i+1 {
				return nil, ErrExplicitMatrixShape
			}
			for j, d := range row {
				if math.IsNaN(d) {
					return nil, ErrNaNDistance
				}
				if dm.rounded {
					d = math.Round(d)
				}
				dm.storage[(i+1)*n+j] = d
				dm.storage[j*n+(i+1)] = d
				dm.noteMax(d)
			}
		}

	case opts.Precompute:
		dm.precomputed = true
		dm.storage = make([]float64, n*n)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				d := euclidean(locations[i], locations[j])
				if math.IsNaN(d) {
					return nil, ErrNaNDistance
				}
				if dm.rounded {
					d = math.Round(d)
				}
				dm.storage[i*n+j] = d
				dm.storage[j*n+i] = d
				dm.noteMax(d)
			}
		}

	default:
		// Lazy mode: nothing to precompute; Max stays unknown.
	}

	return dm, nil
}

func (dm *DistanceMatrix) noteMax(d float64) {
	if !dm.hasMax || d > dm.maxDistance {
		dm.maxDistance = d
		dm.hasMax = true
	}
}

// Get returns the distance between locations i and j.
func (dm *DistanceMatrix) Get(i, j int) float64 {
	if dm.precomputed {
		return dm.storage[i*dm.n+j]
	}
	d := euclidean(dm.locations[i], dm.locations[j])
	if dm.rounded {
		d = math.Round(d)
	}
	return d
}

// Size returns the number of locations.
func (dm *DistanceMatrix) Size() int {
	return dm.n
}

// Max returns the largest distance in the table; ok is false in lazy mode
// where the maximum is not tracked.
func (dm *DistanceMatrix) Max() (float64, bool) {
	return dm.maxDistance, dm.hasMax
}

// Rounded reports whether distances are rounded to integer values.
func (dm *DistanceMatrix) Rounded() bool {
	return dm.rounded
}

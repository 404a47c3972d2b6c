// Package vrp holds the immutable problem model of the solver: locations and
// demands, the vehicle capacity, the distance matrix, per-customer nearest
// neighbour and correlation lists, and quantised polar angles around the depot.
//
// Everything in this package is built once at startup and read-only afterwards.
//
// # Distances
//
// Distances are Euclidean from coordinates, optionally rounded to the nearest
// integer-valued double, or taken verbatim from an explicit lower-row input
// matrix. The matrix is symmetric with a zero diagonal and is either fully
// precomputed (dense float64 storage, O(1) lookup) or evaluated lazily above a
// configurable size limit.
//
// # Correlations and neighbours
//
// For each customer the correlation list holds its min(2·granularity, n−2)
// closest other customers in ascending distance order, excluding the depot and
// itself; it bounds neighbourhood exploration in the local search. The full
// neighbour list additionally keeps all customers ordered by distance
// (including the customer itself in front) and drives the ruin walk.
//
// # Angles
//
// Polar angles relative to the depot are quantised to integers in [0, 65536);
// CircleSector tracks the angular span of a route for SWAP* pair pruning.
package vrp

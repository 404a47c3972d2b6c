package vrp

import (
	"math"
	"sort"
)

// Default build parameters.
const (
	// DefaultGranularity is the local-search granularity used when the build
	// options leave it unset.
	DefaultGranularity = 20

	// DefaultPrecomputeSizeLimit is the customer count above which the
	// distance matrix switches to lazy evaluation.
	DefaultPrecomputeSizeLimit = 10000

	// dynamicGranularityMaxRounds bounds the mean-distance rescaling loop.
	dynamicGranularityMaxRounds = 1000
)

// BuildOptions parameterises problem preprocessing.
type BuildOptions struct {
	// Granularity is the local-search granularity g; correlation rows hold up
	// to min(2g, n−2) entries. Zero selects DefaultGranularity.
	Granularity int

	// DynamicGranularity derives a per-node granularity from the mean
	// correlate distance instead of using the fixed target everywhere.
	DynamicGranularity bool

	// GranularityMin floors per-node granularities in dynamic mode.
	GranularityMin int

	// RoundDistances rounds every distance to the nearest integer value.
	RoundDistances bool

	// PrecomputeSizeLimit is the customer count above which distances are
	// evaluated lazily. Zero selects DefaultPrecomputeSizeLimit.
	PrecomputeSizeLimit int

	// ExplicitMatrix supplies distances as a lower-row matrix instead of
	// computing them from coordinates.
	ExplicitMatrix [][]float64
}

// Problem is the immutable CVRP instance: depot and customers, fleet capacity,
// distance and correlation tables, neighbour lists and polar angles.
type Problem struct {
	Nodes   []Node
	Vehicle Vehicle

	Distance     *DistanceMatrix
	Correlations *CorrelationMatrix

	// neighbors holds, per customer, all customers sorted by ascending
	// distance; row i starts at i*(n-1). The customer itself sits in front
	// (distance zero): the ruin walk relies on it to seed its own route.
	neighbors []int

	angles        []int
	granularities []int
	maxDemand     float64
	totalDemand   float64
}

// NewProblem preprocesses a raw instance. Node 0 is the depot.
func NewProblem(nodes []Node, vehicle Vehicle, opts BuildOptions) (*Problem, error) {
	if len(nodes) < 2 {
		return nil, ErrEmptyProblem
	}
	if vehicle.Cap <= 0 {
		return nil, ErrNonPositiveCapacity
	}
	if opts.Granularity <= 0 {
		opts.Granularity = DefaultGranularity
	}
	if opts.PrecomputeSizeLimit <= 0 {
		opts.PrecomputeSizeLimit = DefaultPrecomputeSizeLimit
	}

	n := len(nodes)
	locations := make([]Coordinate, n)
	p := &Problem{Nodes: nodes, Vehicle: vehicle}
	for i, node := range nodes {
		locations[i] = node.Coord
		if node.Demand > p.maxDemand {
			p.maxDemand = node.Demand
		}
		p.totalDemand += node.Demand
	}

	distance, err := NewDistanceMatrix(locations, DistanceOptions{
		Rounded:    opts.RoundDistances,
		Precompute: n-1 < opts.PrecomputeSizeLimit,
		Explicit:   opts.ExplicitMatrix,
	})
	if err != nil {
		return nil, err
	}
	p.Distance = distance

	p.Correlations = NewCorrelationMatrix(distance, 2*opts.Granularity)
	p.buildNeighbors()
	p.buildAngles()
	p.buildGranularities(opts)

	return p, nil
}

// buildNeighbors sorts, for every customer, all customers by distance.
func (p *Problem) buildNeighbors() {
	n := p.Dim()
	p.neighbors = make([]int, n*(n-1))
	row := make([]int, n-1)
	for i := 1; i < n; i++ {
		for j := 1; j < n; j++ {
			row[j-1] = j
		}
		i := i
		sort.SliceStable(row, func(a, b int) bool {
			return p.Distance.Get(i, row[a]) < p.Distance.Get(i, row[b])
		})
		copy(p.neighbors[i*(n-1):(i+1)*(n-1)], row)
	}
}

// buildAngles quantises the polar angle of every location around the depot.
func (p *Problem) buildAngles() {
	n := p.Dim()
	p.angles = make([]int, n)
	depot := p.Nodes[0].Coord
	for i := 1; i < n; i++ {
		x := p.Nodes[i].Coord.X - depot.X
		y := p.Nodes[i].Coord.Y - depot.Y
		angle := int(math.Round(math.Atan2(y, x) / math.Pi * 32768))
		p.angles[i] = positiveMod(angle, maxAngle)
	}
}

// buildGranularities fixes the per-node neighbourhood width, either uniformly
// or derived from the mean correlate distance (dynamic mode).
func (p *Problem) buildGranularities(opts BuildOptions) {
	n := p.Dim()
	width := p.Correlations.Width()
	target := opts.Granularity
	if target > width {
		target = width
	}

	p.granularities = make([]int, n)
	if !opts.DynamicGranularity || width == 0 {
		for i := range p.granularities {
			p.granularities[i] = target
		}
		return
	}

	var total float64
	for i := 0; i < n; i++ {
		for _, c := range p.Correlations.Get(i) {
			total += p.Distance.Get(i, c)
		}
	}
	mean := total / float64(n*width)

	for round := 0; round < dynamicGranularityMaxRounds; round++ {
		sum := 0
		for i := 0; i < n; i++ {
			g := 0
			for _, c := range p.Correlations.Get(i) {
				if p.Distance.Get(i, c) <= mean {
					g++
				} else {
					break
				}
			}
			if g < opts.GranularityMin {
				g = opts.GranularityMin
			}
			if g > width {
				g = width
			}
			p.granularities[i] = g
			sum += g
		}
		average := int(math.Round(float64(sum) / float64(n)))
		switch {
		case average < target:
			mean *= 1.1
		case average > target:
			mean *= 0.9
		default:
			return
		}
	}
}

// Dim returns the number of locations (depot included).
func (p *Problem) Dim() int {
	return len(p.Nodes)
}

// NumCustomers returns the number of customer locations.
func (p *Problem) NumCustomers() int {
	return p.Dim() - 1
}

// Demand returns the demand of location i.
func (p *Problem) Demand(i int) float64 {
	return p.Nodes[i].Demand
}

// Angle returns the quantised polar angle of location i in [0, 65536).
func (p *Problem) Angle(i int) int {
	return p.angles[i]
}

// Neighbors returns all customers sorted by ascending distance from customer i.
func (p *Problem) Neighbors(i int) []int {
	m := p.Dim() - 1
	return p.neighbors[i*m : (i+1)*m]
}

// Granularity returns the neighbourhood width of location i.
func (p *Problem) Granularity(i int) int {
	return p.granularities[i]
}

// MaxDemand returns the largest customer demand.
func (p *Problem) MaxDemand() float64 {
	return p.maxDemand
}

// TotalDemand returns the sum of all demands.
func (p *Problem) TotalDemand() float64 {
	return p.totalDemand
}

// VehicleLowerBound is the bin-packing bound ⌈Σdemand / Q⌉.
func (p *Problem) VehicleLowerBound() int {
	return int(math.Ceil(p.totalDemand / p.Vehicle.Cap))
}

// InitialVehicleCount adds a safety margin of 20% + 2 on the lower bound.
func (p *Problem) InitialVehicleCount() int {
	return int(math.Ceil(1.2*float64(p.VehicleLowerBound()) + 2.0))
}

// fallbackPenalty is used when the matrix maximum is unknown (lazy mode).
const fallbackPenalty = 100.0

// InitialPenalty estimates the starting capacity penalty as
// clamp(maxDistance / maxDemand, 1e-4, 1e4).
func (p *Problem) InitialPenalty() float64 {
	maxDist, ok := p.Distance.Max()
	if !ok || p.maxDemand == 0 {
		return fallbackPenalty
	}
	return math.Max(0.0001, math.Min(10000.0, maxDist/p.maxDemand))
}

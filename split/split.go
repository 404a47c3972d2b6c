// Package split converts a giant customer tour into depot-anchored routes by
// shortest path over the implicit route DAG.
//
// Two variants run in sequence: an unlimited-fleet split solved in O(n)
// amortised with a monotone deque of candidate predecessors, and — when the
// result uses more routes than allowed — a limited-fleet dynamic program over
// (vehicle, position) with the same deque acceleration per row. A quadratic
// Bellman fallback (bounded by the split capacity factor) is kept behind
// Config.LinearSplit=false.
//
// The resulting phenotype minimises Σ(route_distance + penalty·overload⁺),
// is padded with empty routes to the configured fleet size, and is sorted by
// centroid polar angle before re-evaluation.
package split

import (
	"github.com/katalvlaran/hybridcvrp/approx"
	"github.com/katalvlaran/hybridcvrp/solution"
	"github.com/katalvlaran/hybridcvrp/solver"
)

// unreached marks DP states no path has settled yet.
const unreached = 1e30

// nodeSplit caches the per-position figures the DP recurrences read.
type nodeSplit struct {
	demand        float64
	distanceDepot float64
	distanceNext  float64
}

// Splitter owns the DP working state. It is reused across calls; Run reloads
// it from the individual's genotype every time.
type Splitter struct {
	// pathCost and preds are (numVehicles+1)×dim matrices stored row-major;
	// row k holds shortest-path costs using exactly k routes.
	pathCost []float64
	preds    []int
	cols     int
	rows     int

	nodes       []nodeSplit
	cumDistance []float64
	cumLoad     []float64

	vehicleCap      float64
	penaltyCapacity float64

	queue deque
}

// NewSplitter sizes the working state for the given context.
func NewSplitter(ctx *solver.Context) *Splitter {
	rows := ctx.Config.NumVehicles + 1
	cols := ctx.Problem.Dim()
	return &Splitter{
		pathCost:    make([]float64, rows*cols),
		preds:       make([]int, rows*cols),
		rows:        rows,
		cols:        cols,
		nodes:       make([]nodeSplit, cols),
		cumDistance: make([]float64, cols),
		cumLoad:     make([]float64, cols),
		vehicleCap:  ctx.Problem.Vehicle.Cap,
		queue:       deque{items: make([]int, 0, cols)},
	}
}

func (s *Splitter) cost(k, i int) float64 {
	return s.pathCost[k*s.cols+i]
}

func (s *Splitter) setCost(k, i int, v float64) {
	s.pathCost[k*s.cols+i] = v
}

func (s *Splitter) pred(k, i int) int {
	return s.preds[k*s.cols+i]
}

func (s *Splitter) setPred(k, i, p int) {
	s.preds[k*s.cols+i] = p
}

// load refreshes the prefix sums from the individual's genotype.
func (s *Splitter) load(ctx *solver.Context, ind *solution.Individual) {
	s.penaltyCapacity = ctx.Config.PenaltyCapacity
	dim := ctx.Problem.Dim()
	for i := 1; i < dim; i++ {
		gene := ind.Genotype[i-1]
		s.nodes[i].demand = ctx.Problem.Demand(gene)
		s.nodes[i].distanceDepot = ctx.Problem.Distance.Get(gene, 0)
		if i < dim-1 {
			s.nodes[i].distanceNext = ctx.Problem.Distance.Get(gene, ind.Genotype[i])
		} else {
			s.nodes[i].distanceNext = -unreached
		}
		s.cumDistance[i] = s.cumDistance[i-1] + s.nodes[i-1].distanceNext
		s.cumLoad[i] = s.cumLoad[i-1] + s.nodes[i].demand
	}
}

// reset prepares the DP matrices; limitedFleet clears every row.
func (s *Splitter) reset(limitedFleet bool) {
	s.setCost(0, 0, 0)
	if limitedFleet {
		for row := 0; row < s.rows; row++ {
			for col := 1; col < s.cols; col++ {
				s.setCost(row, col, unreached)
			}
		}
		return
	}
	for col := 1; col < s.cols; col++ {
		s.setCost(0, col, unreached)
	}
}

// propagate is the cost of settling position j from candidate predecessor i
// on DP row k: close the route [i+1..j] against the depot and pay the
// capacity penalty of its load.
func (s *Splitter) propagate(i, j, k int) float64 {
	overload := s.cumLoad[j] - s.cumLoad[i] - s.vehicleCap
	cost := s.cost(k, i) + s.cumDistance[j] - s.cumDistance[i+1] +
		s.nodes[i+1].distanceDepot + s.nodes[j].distanceDepot
	if overload > 0 {
		cost += s.penaltyCapacity * overload
	}
	return cost
}

// dominates reports that extending from i is already no worse than from j for
// every future position, load penalty included.
func (s *Splitter) dominates(i, j, k int) bool {
	return s.cost(k, j)+s.nodes[j+1].distanceDepot >
		s.cost(k, i)+s.nodes[i+1].distanceDepot+
			s.cumDistance[j+1]-s.cumDistance[i+1]+
			s.penaltyCapacity*(s.cumLoad[j]-s.cumLoad[i])
}

// dominatesRight reports that the newer candidate j propagates at least as
// well as the older candidate i, which can therefore be discarded.
func (s *Splitter) dominatesRight(i, j, k int) bool {
	return approx.Lte(
		s.cost(k, j)+s.nodes[j+1].distanceDepot,
		s.cost(k, i)+s.nodes[i+1].distanceDepot+s.cumDistance[j+1]-s.cumDistance[i+1],
	)
}

// Run splits the individual's genotype into at most maxVehicles routes (never
// below the problem's vehicle lower bound), then sorts and re-evaluates.
func (s *Splitter) Run(ctx *solver.Context, ind *solution.Individual, maxVehicles int) {
	if lb := ctx.Problem.VehicleLowerBound(); maxVehicles < lb {
		maxVehicles = lb
	}
	if maxVehicles > ctx.Config.NumVehicles {
		maxVehicles = ctx.Config.NumVehicles
	}

	s.load(ctx, ind)
	if !s.split(ctx, ind, maxVehicles) {
		s.splitLimitedFleet(ctx, ind, maxVehicles)
	}
	ind.SortRoutes(ctx)
	ind.Evaluate(ctx)
}

// split runs the unlimited-fleet variant and reports whether the resulting
// route count respects maxVehicles.
func (s *Splitter) split(ctx *solver.Context, ind *solution.Individual, maxVehicles int) bool {
	s.reset(false)
	dim := ctx.Problem.Dim()

	if ctx.Config.LinearSplit {
		q := &s.queue
		q.clear()
		q.pushBack(0)

		for i := 1; i < dim; i++ {
			front := q.front()
			s.setCost(0, i, s.propagate(front, i, 0))
			s.setPred(0, i, front)

			if i < dim-1 {
				if !s.dominates(q.back(), i, 0) {
					for q.len() > 0 && s.dominatesRight(q.back(), i, 0) {
						q.popBack()
					}
					q.pushBack(i)
				}
				for q.len() > 1 && approx.Gte(s.propagate(q.front(), i+1, 0), s.propagate(q.second(), i+1, 0)) {
					q.popFront()
				}
			}
		}
	} else {
		s.bellman(ctx, ind, 0, 0, 0)
	}

	ind.Phenotype = ind.Phenotype[:0]
	end := dim - 1
	for end > 0 {
		begin := s.pred(0, end)
		ind.Phenotype = append(ind.Phenotype, append([]int(nil), ind.Genotype[begin:end]...))
		end = begin
	}

	numRoutes := len(ind.Phenotype)
	s.pad(ctx, ind)
	return numRoutes <= maxVehicles
}

// splitLimitedFleet runs the (vehicle, position) DP and reports whether a
// path back to the start was found.
func (s *Splitter) splitLimitedFleet(ctx *solver.Context, ind *solution.Individual, maxVehicles int) bool {
	s.reset(true)
	dim := ctx.Problem.Dim()

	if ctx.Config.LinearSplit {
		q := &s.queue
		for k := 0; k < maxVehicles; k++ {
			q.clear()
			q.pushBack(k)

			for i := k + 1; i < dim; i++ {
				if q.len() == 0 {
					break
				}
				s.setCost(k+1, i, s.propagate(q.front(), i, k))
				s.setPred(k+1, i, q.front())

				if i < dim-1 {
					if !s.dominates(q.back(), i, k) {
						for q.len() > 0 && s.dominatesRight(q.back(), i, k) {
							q.popBack()
						}
						q.pushBack(i)
					}
					for q.len() > 1 && approx.Gte(s.propagate(q.front(), i+1, k), s.propagate(q.second(), i+1, k)) {
						q.popFront()
					}
				}
			}
		}
	} else {
		for k := 0; k < maxVehicles; k++ {
			s.bellman(ctx, ind, k, k+1, k)
		}
	}

	// Cheapest path over all fleet sizes up to maxVehicles; ties keep the
	// larger fleet scanned first, matching the reconstruction below.
	last := dim - 1
	minCost := s.cost(maxVehicles, last)
	numRoutes := maxVehicles
	for k := 1; k < maxVehicles; k++ {
		if s.cost(k, last) < minCost {
			minCost = s.cost(k, last)
			numRoutes = k
		}
	}

	ind.Phenotype = ind.Phenotype[:0]
	end := last
	for k := numRoutes; k > 0; k-- {
		begin := s.pred(k, end)
		route := append([]int(nil), ind.Genotype[begin:end]...)
		ind.Phenotype = append([][]int{route}, ind.Phenotype...)
		end = begin
	}

	s.pad(ctx, ind)
	return end == 0
}

// bellman is the quadratic relaxation bounded by the split capacity factor:
// states on readRow extend one route [from+1..to] into writeRow. The
// unlimited variant relaxes row 0 onto itself; the limited DP relaxes row k
// onto row k+1 starting at position k.
func (s *Splitter) bellman(ctx *solver.Context, ind *solution.Individual, readRow, writeRow, startFrom int) {
	dim := ctx.Problem.Dim()
	capLimit := s.vehicleCap * ctx.Config.SplitCapacityFactor

	for from := startFrom; from < dim-1; from++ {
		if s.cost(readRow, from) >= unreached {
			if readRow != writeRow {
				break
			}
			continue
		}
		load := 0.0
		cost := 0.0
		for to := from + 1; to < dim; to++ {
			gene := ind.Genotype[to-1]
			if !approx.Lte(load+ctx.Problem.Demand(gene), capLimit) {
				break
			}
			load += ctx.Problem.Demand(gene)
			if to == from+1 {
				cost = ctx.Problem.Distance.Get(0, gene)
			} else {
				cost += ctx.Problem.Distance.Get(ind.Genotype[to-2], gene)
			}
			newCost := s.cost(readRow, from) + cost + ctx.Problem.Distance.Get(gene, 0)
			if overload := load - s.vehicleCap; approx.Gt(overload, 0) {
				newCost += overload * s.penaltyCapacity
			}
			if newCost < s.cost(writeRow, to) {
				s.setCost(writeRow, to, newCost)
				s.setPred(writeRow, to, from)
			}
		}
	}
}

// pad fills the phenotype with empty routes up to the configured fleet size.
func (s *Splitter) pad(ctx *solver.Context, ind *solution.Individual) {
	for len(ind.Phenotype) < ctx.Config.NumVehicles {
		ind.Phenotype = append(ind.Phenotype, nil)
	}
}

// deque is the monotone candidate queue of the linear split.
type deque struct {
	items []int
}

func (d *deque) len() int      { return len(d.items) }
func (d *deque) clear()        { d.items = d.items[:0] }
func (d *deque) pushBack(v int) { d.items = append(d.items, v) }
func (d *deque) front() int    { return d.items[0] }
func (d *deque) back() int     { return d.items[len(d.items)-1] }

// second returns the element behind the front; callers guarantee len > 1.
func (d *deque) second() int { return d.items[1] }

func (d *deque) popFront() {
	d.items = d.items[1:]
}

func (d *deque) popBack() {
	d.items = d.items[:len(d.items)-1]
}

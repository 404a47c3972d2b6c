// Package solution defines the individual representation of the genetic
// search — a giant-tour genotype plus a phenotype of routes — together with
// its cached evaluation and the broken-pairs diversity distance.
package solution

import (
	"math"

	"github.com/katalvlaran/hybridcvrp/solver"
)

// RouteCost is the penalised cost of one route:
// distance + penalty·max(0, overload).
func RouteCost(distance, overload, penalty float64) float64 {
	if overload > 0 {
		return distance + penalty*overload
	}
	return distance
}

// RouteEvaluation caches the evaluation of a single route.
type RouteEvaluation struct {
	Distance      float64
	Overload      float64
	PenalizedCost float64
}

// IsFeasible reports whether the route respects the vehicle capacity.
func (r RouteEvaluation) IsFeasible() bool {
	return r.Overload <= 0
}

// SolutionEvaluation caches the whole-solution evaluation: per-route figures,
// per-node successor/predecessor (depot 0 as sentinel), feasibility, and the
// total penalised cost.
type SolutionEvaluation struct {
	PenalizedCost float64
	Feasible      bool

	Routes []RouteEvaluation

	// Predecessors and Successors are indexed by node; entry 0 belongs to the
	// depot sentinel.
	Predecessors []int
	Successors   []int
}

// NewSolutionEvaluation returns an empty evaluation with infinite cost.
func NewSolutionEvaluation() SolutionEvaluation {
	return SolutionEvaluation{PenalizedCost: math.Inf(1)}
}

func (e *SolutionEvaluation) reset(numRoutes, numNodes int) {
	if cap(e.Routes) < numRoutes {
		e.Routes = make([]RouteEvaluation, numRoutes)
	}
	e.Routes = e.Routes[:numRoutes]
	if cap(e.Predecessors) < numNodes {
		e.Predecessors = make([]int, numNodes)
		e.Successors = make([]int, numNodes)
	}
	e.Predecessors = e.Predecessors[:numNodes]
	e.Successors = e.Successors[:numNodes]
}

// Evaluate refreshes the caches from the given phenotype under the current
// capacity penalty.
func (e *SolutionEvaluation) Evaluate(ctx *solver.Context, phenotype [][]int) {
	e.reset(len(phenotype), ctx.Problem.Dim())

	const depot = 0
	capacity := ctx.Problem.Vehicle.Cap
	penalty := ctx.Config.PenaltyCapacity

	total := 0.0
	feasible := true

	for routeIndex, route := range phenotype {
		lastNode := depot
		load := 0.0
		distance := 0.0

		for _, node := range route {
			distance += ctx.Problem.Distance.Get(lastNode, node)
			load += ctx.Problem.Demand(node)
			e.Predecessors[node] = lastNode
			e.Successors[lastNode] = node
			lastNode = node
		}
		e.Successors[lastNode] = depot
		distance += ctx.Problem.Distance.Get(lastNode, depot)

		overload := load - capacity
		e.Routes[routeIndex] = RouteEvaluation{
			Distance:      distance,
			Overload:      overload,
			PenalizedCost: RouteCost(distance, overload, penalty),
		}
		total += e.Routes[routeIndex].PenalizedCost
		if overload > 0 {
			feasible = false
		}
	}

	e.Feasible = feasible
	e.PenalizedCost = total
}

// IsFeasible reports the cached whole-solution feasibility.
func (e *SolutionEvaluation) IsFeasible() bool {
	return e.Feasible
}

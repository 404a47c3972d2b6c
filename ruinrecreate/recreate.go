package ruinrecreate

import (
	"math"
	"sort"

	"github.com/katalvlaran/hybridcvrp/approx"
	"github.com/katalvlaran/hybridcvrp/solver"
)

// Recreate reinserts every unassigned customer into the working solution.
type Recreate interface {
	Run(ctx *solver.Context, sol *Solution)
}

// GreedyBlink reinserts customers greedily at their cheapest feasible
// position, ordering the unassigned list by a randomly drawn policy
// (shuffle 4/11, descending demand 4/11, farthest from depot 2/11, closest
// to depot 1/11). When no feasible position exists the customer is inserted
// at the cheapest penalised position instead of failing.
type GreedyBlink struct{}

func (GreedyBlink) sortUnassigned(ctx *solver.Context, sol *Solution) {
	switch draw := ctx.Rand.IntRange(0, 11); {
	case draw < 4:
		ctx.Rand.ShuffleInts(sol.Unassigned)
	case draw < 8:
		sort.SliceStable(sol.Unassigned, func(a, b int) bool {
			return ctx.Problem.Demand(sol.Unassigned[a]) > ctx.Problem.Demand(sol.Unassigned[b])
		})
	case draw < 10:
		sort.SliceStable(sol.Unassigned, func(a, b int) bool {
			return ctx.Problem.Distance.Get(sol.Unassigned[a], 0) > ctx.Problem.Distance.Get(sol.Unassigned[b], 0)
		})
	default:
		sort.SliceStable(sol.Unassigned, func(a, b int) bool {
			return ctx.Problem.Distance.Get(sol.Unassigned[a], 0) < ctx.Problem.Distance.Get(sol.Unassigned[b], 0)
		})
	}
}

// Run empties the unassigned list, refreshes the touched routes' reverse
// index, and clears the ruined-route set.
func (g GreedyBlink) Run(ctx *solver.Context, sol *Solution) {
	g.sortUnassigned(ctx, sol)

	updated := make(map[int]struct{}, len(sol.RuinedRoutes))
	for routeIndex := range sol.RuinedRoutes {
		updated[routeIndex] = struct{}{}
	}

	for len(sol.Unassigned) > 0 {
		customer := sol.Unassigned[0]
		sol.Unassigned = sol.Unassigned[1:]
		demand := ctx.Problem.Demand(customer)

		bestRoute := -1
		bestIndex := 0
		bestDistance := math.Inf(1)

		for routeIndex := range sol.Routes {
			route := &sol.Routes[routeIndex]
			if !approx.Lte(route.Overload+demand, 0) {
				continue
			}
			for index := 0; index <= len(route.Nodes); index++ {
				if delta := route.DeltaDistance(ctx, index, customer); approx.Lt(delta, bestDistance) {
					bestDistance = delta
					bestIndex = index
					bestRoute = routeIndex
				}
			}
		}

		if bestRoute < 0 {
			// No feasible position: insert at the cheapest penalised one.
			bestCost := math.Inf(1)
			for routeIndex := range sol.Routes {
				route := &sol.Routes[routeIndex]
				overloadCost := math.Max(0, route.Overload+demand) * ctx.Config.PenaltyCapacity
				for index := 0; index <= len(route.Nodes); index++ {
					if cost := route.DeltaDistance(ctx, index, customer) + overloadCost; approx.Lt(cost, bestCost) {
						bestCost = cost
						bestIndex = index
						bestRoute = routeIndex
					}
				}
			}
		}

		sol.Routes[bestRoute].Add(ctx, bestIndex, customer)
		updated[bestRoute] = struct{}{}
	}

	sol.Evaluate(ctx, updated)
	for routeIndex := range sol.RuinedRoutes {
		delete(sol.RuinedRoutes, routeIndex)
	}
}

package ruinrecreate

import "github.com/katalvlaran/hybridcvrp/solver"

// Ruin removes a subset of customers from the working solution, leaving them
// on the unassigned list.
type Ruin interface {
	Run(ctx *solver.Context, sol *Solution)
}

// splitStringDecay is the probability of stopping the preserved-window growth
// at each step of the split-string procedure.
const splitStringDecay = 0.01

// splitStringProbability selects between the pure-string and split-string
// removal variants.
const splitStringProbability = 0.5

// AdjacentStringRemoval ruins strings of adjacent customers around a random
// seed, following the seed's nearest-neighbour list so the removed strings
// cluster spatially.
type AdjacentStringRemoval struct {
	// cavg is the average number of customers removed per ruin.
	cavg int
	// lmax caps the length of a removed string.
	lmax int
}

// NewAdjacentStringRemoval reads its parameters from the configuration.
func NewAdjacentStringRemoval(ctx *solver.Context) *AdjacentStringRemoval {
	return &AdjacentStringRemoval{
		cavg: ctx.Config.AverageRuinCardinality,
		lmax: ctx.Config.MaxRuinStringLength,
	}
}

// averageTourCardinality is the mean customer count over non-empty
// routes.
func (a *AdjacentStringRemoval) averageTourCardinality(sol *Solution) float64 {
	total := 0
	nonEmpty := 0
	for i := range sol.Routes {
		if n := len(sol.Routes[i].Nodes); n > 0 {
			total += n
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	return float64(total) / float64(nonEmpty)
}

// Run removes up to ks adjacent strings around a uniformly chosen seed
// customer.
func (a *AdjacentStringRemoval) Run(ctx *solver.Context, sol *Solution) {
	lsmax := a.averageTourCardinality(sol)
	if float64(a.lmax) < lsmax {
		lsmax = float64(a.lmax)
	}

	ksmax := 4.0*float64(a.cavg)/(1.0+lsmax) - 1.0
	if ksmax < 0 {
		ksmax = 0
	}
	ks := int(ctx.Rand.Float64()*ksmax) + 1

	seed := ctx.Rand.IntRange(1, ctx.Problem.Dim())
	for _, neighbor := range ctx.Problem.Neighbors(seed) {
		routeIndex := sol.Locations[neighbor].RouteIndex
		if containsInt(sol.Unassigned, neighbor) {
			continue
		}
		if _, ruined := sol.RuinedRoutes[routeIndex]; ruined {
			continue
		}

		ltmax := lsmax
		if routeLen := float64(len(sol.Routes[routeIndex].Nodes)); routeLen < ltmax {
			ltmax = routeLen
		}
		lt := int(ctx.Rand.Float64()*ltmax) + 1

		a.ruinRoute(ctx, sol, neighbor, routeIndex, lt)

		if len(sol.RuinedRoutes) >= ks {
			break
		}
	}
}

// ruinRoute removes a string of length lt containing node from the route —
// either contiguously, or as a split string whose removal window
// [start, start+lt+m) spares a preserved sub-window of length m.
func (a *AdjacentStringRemoval) ruinRoute(ctx *solver.Context, sol *Solution, node, routeIndex, lt int) {
	nodeIndex := sol.Locations[node].NodeIndex
	route := &sol.Routes[routeIndex]
	routeLength := len(route.Nodes)

	if ctx.Rand.Float64() < splitStringProbability {
		// Contiguous string containing nodeIndex.
		start := stringStart(ctx, nodeIndex, lt, routeLength)
		for i := 0; i < lt; i++ {
			sol.Unassigned = append(sol.Unassigned, route.Remove(ctx, start))
		}
	} else {
		// Split string: grow the window by m preserved customers.
		mMax := routeLength - lt
		m := 1
		if mMax > 0 {
			for m < mMax && ctx.Rand.Float64() > splitStringDecay {
				m++
			}
		} else {
			m = 0
		}

		removeSize := lt + m
		start := stringStart(ctx, nodeIndex, removeSize, routeLength)
		mIndex := ctx.Rand.IntRange(start, start+lt)

		for index := start + lt + m - 1; index >= start; index-- {
			if index >= mIndex+m || index < mIndex {
				sol.Unassigned = append(sol.Unassigned, route.Remove(ctx, index))
			}
		}
	}

	sol.RuinedRoutes[routeIndex] = struct{}{}
}

// stringStart picks a uniform legal start offset so that the window of the
// given size stays inside the route and contains nodeIndex.
func stringStart(ctx *solver.Context, nodeIndex, size, routeLength int) int {
	minStart := nodeIndex - size + 1
	if minStart < 0 {
		minStart = 0
	}
	maxStart := routeLength - size
	if nodeIndex < maxStart {
		maxStart = nodeIndex
	}
	if minStart < maxStart {
		return ctx.Rand.IntRange(minStart, maxStart+1)
	}
	return minStart
}

func containsInt(values []int, v int) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

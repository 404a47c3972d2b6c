// Package localsearch implements the steepest-descent improvement core over
// an intrusive doubly-linked route representation.
//
// Customers are visited as pivots in a uniformly shuffled order; for each
// pivot only its closest correlates are tried as partners (granular search),
// and a pair is re-examined only when one of its routes changed since the
// pivot's last test. The first strictly improving move (by more than the
// shared epsilon) is applied and exploration continues from the updated
// pivot. After the classical moves converge, the cross-route SWAP* pass runs
// over every pair of routes whose circular sectors overlap. Passes repeat
// until a full pass performs no move.
//
// The working state is owned by this package between Run's load of an
// individual and its write-back; only the final state reaches the genotype
// and phenotype.
package localsearch

import (
	"github.com/katalvlaran/hybridcvrp/approx"
	"github.com/katalvlaran/hybridcvrp/solution"
	"github.com/katalvlaran/hybridcvrp/solver"
)

// LocalSearch owns the linked route graph and the move machinery. One
// instance is reused across educate calls; Run reloads it every time.
type LocalSearch struct {
	ctx *solver.Context

	routes    []*Route
	nodes     []*Node
	customers []int

	startDepots []*Node
	endDepots   []*Node

	// correlations are per-node candidate lists copied from the problem;
	// occasional reshuffles persist across passes by design.
	correlations  [][]int
	granularities []int

	moveCount int64
	moves     moveSet

	// bestInserts[routeIndex][nodeNumber] caches the three cheapest
	// insertions used by SWAP*.
	bestInserts [][]ThreeBestInserts

	emptyRoutes map[int]struct{}

	penaltyCapacity float64
}

// New builds the working state for the given context. penaltyMultiplier
// scales the shared capacity penalty (repair runs use 10×).
func New(ctx *solver.Context, penaltyMultiplier float64) *LocalSearch {
	dim := ctx.Problem.Dim()
	numVehicles := ctx.Config.NumVehicles

	ls := &LocalSearch{
		ctx:             ctx,
		nodes:           make([]*Node, dim),
		customers:       make([]int, dim-1),
		correlations:    make([][]int, dim),
		granularities:   make([]int, dim),
		moves:           newMoveSet(ctx.Config),
		emptyRoutes:     make(map[int]struct{}, numVehicles),
		penaltyCapacity: ctx.Config.PenaltyCapacity * penaltyMultiplier,
	}

	for i := 0; i < dim; i++ {
		ls.nodes[i] = newNode(i, ctx.Problem.Angle(i))
		ls.correlations[i] = append([]int(nil), ctx.Problem.Correlations.Get(i)...)
		ls.granularities[i] = ctx.Problem.Granularity(i)
	}
	for i := range ls.customers {
		ls.customers[i] = i + 1
	}

	ls.routes = make([]*Route, numVehicles)
	ls.startDepots = make([]*Node, numVehicles)
	ls.endDepots = make([]*Node, numVehicles)
	ls.bestInserts = make([][]ThreeBestInserts, numVehicles)
	for r := 0; r < numVehicles; r++ {
		ls.startDepots[r] = newNode(0, 0)
		ls.endDepots[r] = newNode(0, 0)
		ls.routes[r] = newRoute(r, ls.startDepots[r], ls.endDepots[r])
		ls.bestInserts[r] = make([]ThreeBestInserts, dim)
		for n := range ls.bestInserts[r] {
			ls.bestInserts[r][n].reset()
		}
	}

	return ls
}

// Run loads the individual into the linked representation, descends until no
// improving move remains, and writes the result back.
func (ls *LocalSearch) Run(ctx *solver.Context, ind *solution.Individual, penaltyMultiplier float64) {
	ls.ctx = ctx
	ls.reset()
	ls.penaltyCapacity = ctx.Config.PenaltyCapacity * penaltyMultiplier
	ls.loadIndividual(ind)
	ls.search()
	ls.writeIndividual(ind)
}

func (ls *LocalSearch) reset() {
	ls.moveCount = 0
	for _, node := range ls.nodes {
		node.LastTested = -1
	}
}

// loadIndividual rebuilds the linked chains from the phenotype. The
// phenotype must be padded to the configured fleet size.
func (ls *LocalSearch) loadIndividual(ind *solution.Individual) {
	if len(ind.Phenotype) != len(ls.routes) {
		panic("localsearch: phenotype size does not match fleet size")
	}
	for routeIndex, route := range ind.Phenotype {
		last := ls.startDepots[routeIndex]
		for _, nodeIndex := range route {
			node := ls.nodes[nodeIndex]
			linkNodes(last, node)
			last = node
		}
		linkNodes(last, ls.endDepots[routeIndex])

		r := ls.routes[routeIndex]
		r.LastTestedSwapStar = -1
		for n := range ls.bestInserts[routeIndex] {
			ls.bestInserts[routeIndex][n].reset()
			ls.bestInserts[routeIndex][n].LastCalculated = -1
		}
		ls.updateRoute(r)
	}
}

// search is the pass loop: shuffled pivots over granular neighbourhoods,
// depot-anchored and empty-route variants, then the SWAP* sweep. At least
// two passes run, so the empty-route moves of the second pass are always tried.
func (ls *LocalSearch) search() {
	loopCount := 0
	improvement := true

	for improvement || loopCount < 2 {
		improvement = false
		ls.ctx.Rand.ShuffleInts(ls.customers)

		for _, uIndex := range ls.customers {
			granularity := ls.granularities[uIndex]
			cor := ls.correlations[uIndex]
			if granularity < len(cor) {
				cor = cor[:granularity]
			}
			if len(cor) > 0 && ls.ctx.Rand.IntRange(0, len(cor)) == 0 {
				ls.ctx.Rand.ShuffleInts(cor)
			}

			u := ls.nodes[uIndex]
			routeU := u.Route
			lastTestU := u.LastTested
			u.LastTested = ls.moveCount

		vLoop:
			for _, vIndex := range cor {
				v := ls.nodes[vIndex]
				routeV := v.Route

				// Lazy skipping: only revisit the pair when one of the two
				// routes changed since u was last tested.
				if loopCount != 0 && maxInt64(routeU.LastModified, routeV.LastModified) <= lastTestU {
					continue
				}

				for _, m := range ls.moves.neighbor {
					if delta := m.Delta(ls, u, v); approx.Lt(delta, 0) {
						ls.moveCount++
						m.Perform(ls, u, v)
						routeU = u.Route
						improvement = true
						continue vLoop
					}
				}
				if v.Predecessor.IsDepot() {
					for _, m := range ls.moves.depot {
						if delta := m.Delta(ls, u, v.Predecessor); approx.Lt(delta, 0) {
							ls.moveCount++
							m.Perform(ls, u, v.Predecessor)
							routeU = u.Route
							improvement = true
							continue vLoop
						}
					}
				}
			}

			// Empty-route moves only from the second pass onward, to avoid
			// prematurely inflating the vehicle count.
			if loopCount > 0 && len(ls.emptyRoutes) > 0 {
				if empty := ls.firstEmptyRoute(); empty != nil {
					v := empty.StartDepot
					for _, m := range ls.moves.emptyRoute {
						if delta := m.Delta(ls, u, v); approx.Lt(delta, 0) {
							ls.moveCount++
							m.Perform(ls, u, v)
							improvement = true
							break
						}
					}
				}
			}
		}

		if ls.ctx.Config.SwapStar {
			for i := 0; i < len(ls.routes); i++ {
				r1 := ls.routes[i]
				lastTested := r1.LastTestedSwapStar
				r1.LastTestedSwapStar = ls.moveCount
				for j := i + 1; j < len(ls.routes); j++ {
					r2 := ls.routes[j]
					if r1.IsEmpty() || r2.IsEmpty() {
						continue
					}
					if loopCount != 0 && maxInt64(r1.LastTestedSwapStar, r2.LastTestedSwapStar) <= lastTested {
						continue
					}
					if r1.Sector.Overlaps(r2.Sector) && ls.swapStar(r1, r2) {
						improvement = true
					}
				}
			}
		}

		loopCount++
		if ls.ctx.Terminate() {
			break
		}
	}
}

// firstEmptyRoute returns the empty route with the smallest index; scanning
// in index order keeps seeded runs reproducible.
func (ls *LocalSearch) firstEmptyRoute() *Route {
	for _, r := range ls.routes {
		if r.IsEmpty() {
			return r
		}
	}
	return nil
}

// updateRoute recomputes the cumulative sums, sector, load, overload,
// penalised cost, customer count, and modification stamp of a route after a
// move touched it.
func (ls *LocalSearch) updateRoute(r *Route) {
	problem := ls.ctx.Problem

	distance := 0.0
	load := 0.0
	numCustomers := 0

	last := r.StartDepot
	last.Route = r
	last.Position = 0
	r.Sector.Reset()

	position := 1
	for node := last.Successor; node != nil; node = node.Successor {
		distance += problem.Distance.Get(last.Number, node.Number)
		load += problem.Demand(node.Number)

		if !node.IsDepot() {
			r.Sector.Extend(node.Angle)
			numCustomers++
		}
		node.CumDistance = distance
		node.CumLoad = load
		node.Route = r
		node.Position = position
		position++
		last = node
	}

	r.Distance = distance
	r.Load = load
	r.Overload = load - problem.Vehicle.Cap
	r.LastModified = ls.moveCount
	r.NumCustomers = numCustomers
	ls.startDepots[r.Index].Predecessor = nil
	ls.endDepots[r.Index].Successor = nil
	r.Cost = solution.RouteCost(r.Distance, r.Overload, ls.penaltyCapacity)

	if r.IsEmpty() {
		ls.emptyRoutes[r.Index] = struct{}{}
	} else {
		delete(ls.emptyRoutes, r.Index)
	}
}

// writeIndividual concatenates the route chains back into the genotype and
// phenotype, then restores the canonical route order and evaluation.
func (ls *LocalSearch) writeIndividual(ind *solution.Individual) {
	ind.Genotype = ind.Genotype[:0]
	for routeIndex, route := range ls.routes {
		customers := route.Customers()
		ind.Genotype = append(ind.Genotype, customers...)
		ind.Phenotype[routeIndex] = customers
	}
	ind.SortRoutes(ls.ctx)
	ind.Evaluate(ls.ctx)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

package localsearch

import (
	"math"

	"github.com/katalvlaran/hybridcvrp/approx"
)

// bestSwapStar is the best candidate found during one SWAP* pass over a pair
// of routes. A nil u or v marks the degenerate single-relocation variants.
type bestSwapStar struct {
	cost float64
	u    *Node
	v    *Node
	posU *Node
	posV *Node
}

func newBestSwapStar() bestSwapStar {
	return bestSwapStar{cost: math.Inf(1)}
}

// preprocessInsertions caches, for every customer u of r1, its removal delta
// and its three cheapest insertion positions in r2 (with a dedicated
// candidate for the position right after r2's start depot). The cache is
// refreshed only when r2 changed since it was last computed.
func (ls *LocalSearch) preprocessInsertions(r1, r2 *Route) {
	dist := ls.ctx.Problem.Distance

	for u := r1.StartDepot.Successor; !u.IsDepot(); u = u.Successor {
		uPrev := u.Predecessor
		x := u.Successor
		u.DeltaRemoval = dist.Get(uPrev.Number, x.Number) -
			dist.Get(uPrev.Number, u.Number) -
			dist.Get(u.Number, x.Number)

		best := &ls.bestInserts[r2.Index][u.Number]
		if r2.LastModified <= best.LastCalculated {
			continue
		}
		best.reset()
		best.LastCalculated = ls.moveCount

		first := r2.StartDepot.Successor
		best.add(InsertLocation{
			Cost: dist.Get(0, u.Number) + dist.Get(u.Number, first.Number) - dist.Get(0, first.Number),
			Node: r2.StartDepot,
		})
		for v := first; !v.IsDepot(); v = v.Successor {
			y := v.Successor
			best.add(InsertLocation{
				Cost: dist.Get(v.Number, u.Number) + dist.Get(u.Number, y.Number) - dist.Get(v.Number, y.Number),
				Node: v,
			})
		}
	}
}

// cheapestInsertAndRemoval finds the cheapest insertion of u into v's route
// given that v is being removed: cached candidates adjacent to v are
// discarded, with "u takes v's exact position" as the fallback.
func (ls *LocalSearch) cheapestInsertAndRemoval(u, v *Node) (*Node, float64) {
	best := &ls.bestInserts[v.Route.Index][u.Number]

	bestNode := best.Locations[0].Node
	bestCost := best.Locations[0].Cost
	found := bestNode != nil && bestNode.Number != v.Number && bestNode.Successor.Number != v.Number
	if !found && best.Locations[1].Node != nil {
		bestNode = best.Locations[1].Node
		bestCost = best.Locations[1].Cost
		found = bestNode.Number != v.Number && bestNode.Successor.Number != v.Number
		if !found && best.Locations[2].Node != nil {
			bestNode = best.Locations[2].Node
			bestCost = best.Locations[2].Cost
			found = true
		}
	}

	dist := ls.ctx.Problem.Distance
	vPrev := v.Predecessor
	y := v.Successor
	deltaCost := dist.Get(vPrev.Number, u.Number) +
		dist.Get(u.Number, y.Number) -
		dist.Get(vPrev.Number, y.Number)

	if !found || deltaCost < bestCost {
		bestNode = v.Predecessor
		bestCost = deltaCost
	}

	return bestNode, bestCost
}

// swapStar runs one SWAP* evaluation over the route pair (r1, r2) and applies
// the best candidate if it improves. It considers every cross-route exchange
// (u, v) with each node reinserted at its best position in the other route,
// plus the degenerate relocations where only one node moves.
func (ls *LocalSearch) swapStar(r1, r2 *Route) bool {
	best := newBestSwapStar()
	problem := ls.ctx.Problem
	penalty := ls.penaltyCapacity

	ls.preprocessInsertions(r1, r2)
	ls.preprocessInsertions(r2, r1)

	deltaPenalty := func(overload, removed, added float64) float64 {
		return math.Max(0, overload-removed+added)*penalty - math.Max(0, overload)*penalty
	}

	for u := r1.StartDepot.Successor; !u.IsDepot(); u = u.Successor {
		uDemand := problem.Demand(u.Number)
		for v := r2.StartDepot.Successor; !v.IsDepot(); v = v.Successor {
			vDemand := problem.Demand(v.Number)
			deltaPenaltyR1 := deltaPenalty(r1.Overload, uDemand, vDemand)
			deltaPenaltyR2 := deltaPenalty(r2.Overload, vDemand, uDemand)

			// Fast reject: even free reinsertions cannot pay off.
			if u.DeltaRemoval+v.DeltaRemoval+deltaPenaltyR1+deltaPenaltyR2 > 0 {
				continue
			}

			m := newBestSwapStar()
			m.u = u
			m.v = v
			posU, extraV := ls.cheapestInsertAndRemoval(u, v)
			posV, extraU := ls.cheapestInsertAndRemoval(v, u)
			m.posU = posU
			m.posV = posV
			m.cost = u.DeltaRemoval + deltaPenaltyR1 + extraU +
				v.DeltaRemoval + deltaPenaltyR2 + extraV
			if m.cost < best.cost {
				best = m
			}
		}
	}

	// Degenerate variants: only u moves to r2, or only v moves to r1.
	for u := r1.StartDepot.Successor; !u.IsDepot(); u = u.Successor {
		uDemand := problem.Demand(u.Number)
		m := newBestSwapStar()
		m.u = u
		insert := &ls.bestInserts[r2.Index][u.Number].Locations[0]
		m.posU = insert.Node
		m.cost = u.DeltaRemoval + insert.Cost +
			deltaPenalty(r1.Overload, uDemand, 0) +
			deltaPenalty(r2.Overload, 0, uDemand)
		if m.cost < best.cost {
			best = m
		}
	}
	for v := r2.StartDepot.Successor; !v.IsDepot(); v = v.Successor {
		vDemand := problem.Demand(v.Number)
		m := newBestSwapStar()
		m.v = v
		insert := &ls.bestInserts[r1.Index][v.Number].Locations[0]
		m.posV = insert.Node
		m.cost = v.DeltaRemoval + insert.Cost +
			deltaPenalty(r2.Overload, vDemand, 0) +
			deltaPenalty(r1.Overload, 0, vDemand)
		if m.cost < best.cost {
			best = m
		}
	}

	if !approx.Lt(best.cost, 0) {
		return false
	}

	ls.moveCount++
	if best.posU != nil {
		insertAfter(best.u, best.posU)
	}
	if best.posV != nil {
		insertAfter(best.v, best.posV)
	}
	ls.updateRoute(r1)
	ls.updateRoute(r2)

	return true
}

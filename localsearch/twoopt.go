package localsearch

import "github.com/katalvlaran/hybridcvrp/solution"

// TwoOptIntraReverse reverses the segment between u and v within one route.
type TwoOptIntraReverse struct{}

func (TwoOptIntraReverse) Name() string { return "TwoOptIntraReverse" }

func (TwoOptIntraReverse) Delta(ls *LocalSearch, u, v *Node) float64 {
	r1 := u.Route
	r2 := v.Route
	if r1.Index != r2.Index {
		return 0
	}

	x := u.Successor
	y := v.Successor
	if u.Position > v.Position || x.Number == v.Number {
		return 0
	}

	dist := ls.ctx.Problem.Distance
	return -dist.Get(u.Number, x.Number) -
		dist.Get(v.Number, y.Number) +
		dist.Get(u.Number, v.Number) +
		dist.Get(x.Number, y.Number)
}

func (TwoOptIntraReverse) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	x := u.Successor
	y := v.Successor
	backwardReverse(v, x, nil)
	linkNodes(u, v)
	linkNodes(x, y)
	ls.updateRoute(r1)
}

// TwoOptInterReverse swaps the tails of two routes, reversing both moved
// segments: (…u | x…) and (…v | y…) become (…u v̄…) and (…x̄ y…).
type TwoOptInterReverse struct{}

func (TwoOptInterReverse) Name() string { return "TwoOptInterReverse" }

func (TwoOptInterReverse) Delta(ls *LocalSearch, u, v *Node) float64 {
	r1 := u.Route
	r2 := v.Route
	if r1.Index == r2.Index {
		return 0
	}

	dist := ls.ctx.Problem.Distance
	x := u.Successor
	y := v.Successor
	capacity := ls.ctx.Problem.Vehicle.Cap

	distanceOne := u.CumDistance + v.CumDistance + dist.Get(u.Number, v.Number)
	distanceTwo := r1.Distance - x.CumDistance + r2.Distance - y.CumDistance +
		dist.Get(x.Number, y.Number)
	overloadOne := u.CumLoad + v.CumLoad - capacity
	overloadTwo := r1.Load - u.CumLoad + r2.Load - v.CumLoad - capacity

	oldCost := r1.Cost + r2.Cost
	newCost := solution.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solution.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

func (TwoOptInterReverse) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route
	x := u.Successor
	y := v.Successor

	if !v.IsDepot() {
		backwardReverse(v, nil, r1.EndDepot)
	} else {
		v = r1.EndDepot
	}
	linkNodes(u, v)
	if !x.IsDepot() {
		forwardReverse(x, nil, r2.StartDepot)
	} else {
		x = r2.StartDepot
	}
	linkNodes(x, y)

	ls.updateRoute(r1)
	ls.updateRoute(r2)
}

// TwoOptInter swaps the tails of two routes without reversal:
// (…u | x…) and (…v | y…) become (…u y…) and (…v x…).
type TwoOptInter struct{}

func (TwoOptInter) Name() string { return "TwoOptInter" }

func (TwoOptInter) Delta(ls *LocalSearch, u, v *Node) float64 {
	r1 := u.Route
	r2 := v.Route
	if r1.Index == r2.Index {
		return 0
	}

	dist := ls.ctx.Problem.Distance
	x := u.Successor
	y := v.Successor
	capacity := ls.ctx.Problem.Vehicle.Cap

	distanceOne := u.CumDistance + r2.Distance - y.CumDistance + dist.Get(u.Number, y.Number)
	distanceTwo := v.CumDistance + r1.Distance - x.CumDistance + dist.Get(v.Number, x.Number)
	overloadOne := u.CumLoad + r2.Load - v.CumLoad - capacity
	overloadTwo := v.CumLoad + r1.Load - u.CumLoad - capacity

	oldCost := r1.Cost + r2.Cost
	newCost := solution.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solution.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

func (TwoOptInter) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route
	x := u.Successor
	y := v.Successor

	linkNodes(u, y)
	linkNodes(v, x)
	replaceEndDepot(v, r2.EndDepot)
	replaceEndDepot(u, r1.EndDepot)

	ls.updateRoute(r1)
	ls.updateRoute(r2)
}

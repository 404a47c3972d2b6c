package localsearch

import "github.com/katalvlaran/hybridcvrp/solution"

// SwapOneWithOne exchanges u and v.
type SwapOneWithOne struct{}

func (SwapOneWithOne) Name() string { return "SwapOneWithOne" }

func (SwapOneWithOne) Delta(ls *LocalSearch, u, v *Node) float64 {
	dist := ls.ctx.Problem.Distance
	uPrev := u.Predecessor
	x := u.Successor
	vPrev := v.Predecessor
	y := v.Successor
	r1 := u.Route
	r2 := v.Route

	if u.Number == y.Number || u.Number == vPrev.Number {
		return 0
	}

	distanceOne := r1.Distance -
		dist.Get(uPrev.Number, u.Number) -
		dist.Get(u.Number, x.Number) +
		dist.Get(uPrev.Number, v.Number) +
		dist.Get(v.Number, x.Number)

	distanceTwo := r2.Distance -
		dist.Get(vPrev.Number, v.Number) -
		dist.Get(v.Number, y.Number) +
		dist.Get(vPrev.Number, u.Number) +
		dist.Get(u.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		uDemand := ls.ctx.Problem.Demand(u.Number)
		vDemand := ls.ctx.Problem.Demand(v.Number)
		overloadOne += vDemand - uDemand
		overloadTwo += uDemand - vDemand
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solution.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solution.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

func (SwapOneWithOne) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	vPrev := v.Predecessor
	y := v.Successor

	linkNodes(uPrev, v)
	linkNodes(v, x)
	linkNodes(vPrev, u)
	linkNodes(u, y)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

// SwapTwoWithOne exchanges the pair (u, x) with v.
type SwapTwoWithOne struct{}

func (SwapTwoWithOne) Name() string { return "SwapTwoWithOne" }

func (SwapTwoWithOne) Delta(ls *LocalSearch, u, v *Node) float64 {
	dist := ls.ctx.Problem.Distance
	uPrev := u.Predecessor
	x := u.Successor
	if x.IsDepot() {
		return 0
	}
	xNext := x.Successor
	vPrev := v.Predecessor
	y := v.Successor
	r1 := u.Route
	r2 := v.Route

	if u.Number == vPrev.Number || x.Number == vPrev.Number || u.Number == y.Number {
		return 0
	}

	distanceOne := r1.Distance -
		dist.Get(uPrev.Number, u.Number) -
		dist.Get(u.Number, x.Number) -
		dist.Get(x.Number, xNext.Number) +
		dist.Get(uPrev.Number, v.Number) +
		dist.Get(v.Number, xNext.Number)

	distanceTwo := r2.Distance -
		dist.Get(vPrev.Number, v.Number) -
		dist.Get(v.Number, y.Number) +
		dist.Get(vPrev.Number, u.Number) +
		dist.Get(u.Number, x.Number) +
		dist.Get(x.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		uDemand := ls.ctx.Problem.Demand(u.Number)
		xDemand := ls.ctx.Problem.Demand(x.Number)
		vDemand := ls.ctx.Problem.Demand(v.Number)
		overloadOne += vDemand - uDemand - xDemand
		overloadTwo += uDemand + xDemand - vDemand
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solution.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solution.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

func (SwapTwoWithOne) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	xNext := x.Successor
	vPrev := v.Predecessor
	y := v.Successor

	linkNodes(uPrev, v)
	linkNodes(v, xNext)
	linkNodes(vPrev, u)
	linkNodes(x, y)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

// SwapTwoWithTwo exchanges the pair (u, x) with the pair (v, y).
type SwapTwoWithTwo struct{}

func (SwapTwoWithTwo) Name() string { return "SwapTwoWithTwo" }

func (SwapTwoWithTwo) Delta(ls *LocalSearch, u, v *Node) float64 {
	dist := ls.ctx.Problem.Distance
	uPrev := u.Predecessor
	x := u.Successor
	if x.IsDepot() {
		return 0
	}
	xNext := x.Successor
	vPrev := v.Predecessor
	y := v.Successor
	if y.IsDepot() {
		return 0
	}
	yNext := y.Successor
	r1 := u.Route
	r2 := v.Route

	if u.Number == y.Number || v.Number == x.Number ||
		y.Number == uPrev.Number || v.Number == xNext.Number {
		return 0
	}

	distanceOne := r1.Distance -
		dist.Get(uPrev.Number, u.Number) -
		dist.Get(u.Number, x.Number) -
		dist.Get(x.Number, xNext.Number) +
		dist.Get(uPrev.Number, v.Number) +
		dist.Get(v.Number, y.Number) +
		dist.Get(y.Number, xNext.Number)

	distanceTwo := r2.Distance -
		dist.Get(vPrev.Number, v.Number) -
		dist.Get(v.Number, y.Number) -
		dist.Get(y.Number, yNext.Number) +
		dist.Get(vPrev.Number, u.Number) +
		dist.Get(u.Number, x.Number) +
		dist.Get(x.Number, yNext.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		moved := ls.ctx.Problem.Demand(u.Number) + ls.ctx.Problem.Demand(x.Number) -
			ls.ctx.Problem.Demand(v.Number) - ls.ctx.Problem.Demand(y.Number)
		overloadOne -= moved
		overloadTwo += moved
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solution.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solution.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

func (SwapTwoWithTwo) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	xNext := x.Successor
	vPrev := v.Predecessor
	y := v.Successor
	yNext := y.Successor

	linkNodes(uPrev, v)
	linkNodes(y, xNext)
	linkNodes(vPrev, u)
	linkNodes(x, yNext)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

package localsearch

import "github.com/katalvlaran/hybridcvrp/solution"

// RelocateSingle moves u right after v.
type RelocateSingle struct{}

func (RelocateSingle) Name() string { return "RelocateSingle" }

func (RelocateSingle) Delta(ls *LocalSearch, u, v *Node) float64 {
	dist := ls.ctx.Problem.Distance
	uPrev := u.Predecessor
	x := u.Successor
	y := v.Successor
	r1 := u.Route
	r2 := v.Route

	// Nothing happens
	if y.Number == u.Number {
		return 0
	}

	distanceOne := r1.Distance -
		dist.Get(uPrev.Number, u.Number) -
		dist.Get(u.Number, x.Number) +
		dist.Get(uPrev.Number, x.Number)

	distanceTwo := r2.Distance -
		dist.Get(v.Number, y.Number) +
		dist.Get(v.Number, u.Number) +
		dist.Get(u.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		demand := ls.ctx.Problem.Demand(u.Number)
		overloadOne -= demand
		overloadTwo += demand
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solution.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solution.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

func (RelocateSingle) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	linkNodes(u.Predecessor, u.Successor)
	next := v.Successor
	linkNodes(v, u)
	linkNodes(u, next)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

// RelocateDouble moves the pair (u, x=succ(u)) right after v.
type RelocateDouble struct{}

func (RelocateDouble) Name() string { return "RelocateDouble" }

func (RelocateDouble) Delta(ls *LocalSearch, u, v *Node) float64 {
	dist := ls.ctx.Problem.Distance
	uPrev := u.Predecessor
	x := u.Successor
	if x.IsDepot() {
		return 0
	}
	xNext := x.Successor
	y := v.Successor
	r1 := u.Route
	r2 := v.Route

	if u.Number == y.Number || v.Number == x.Number {
		return 0
	}

	distanceOne := r1.Distance -
		dist.Get(uPrev.Number, u.Number) -
		dist.Get(u.Number, x.Number) -
		dist.Get(x.Number, xNext.Number) +
		dist.Get(uPrev.Number, xNext.Number)

	distanceTwo := r2.Distance -
		dist.Get(v.Number, y.Number) +
		dist.Get(v.Number, u.Number) +
		dist.Get(u.Number, x.Number) +
		dist.Get(x.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		moved := ls.ctx.Problem.Demand(u.Number) + ls.ctx.Problem.Demand(x.Number)
		overloadOne -= moved
		overloadTwo += moved
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solution.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solution.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

func (RelocateDouble) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	xNext := x.Successor
	y := v.Successor

	// (uPrev, u, x, xNext) → (uPrev, xNext); (v, y) → (v, u, x, y)
	linkNodes(uPrev, xNext)
	linkNodes(v, u)
	linkNodes(x, y)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

// RelocateDoubleReverse moves the pair (u, x) right after v in reversed
// order (x, u).
type RelocateDoubleReverse struct{}

func (RelocateDoubleReverse) Name() string { return "RelocateDoubleReverse" }

func (RelocateDoubleReverse) Delta(ls *LocalSearch, u, v *Node) float64 {
	dist := ls.ctx.Problem.Distance
	uPrev := u.Predecessor
	x := u.Successor
	if x.IsDepot() {
		return 0
	}
	xNext := x.Successor
	y := v.Successor
	r1 := u.Route
	r2 := v.Route

	if u.Number == y.Number || v.Number == x.Number {
		return 0
	}

	distanceOne := r1.Distance -
		dist.Get(uPrev.Number, u.Number) -
		dist.Get(u.Number, x.Number) -
		dist.Get(x.Number, xNext.Number) +
		dist.Get(uPrev.Number, xNext.Number)

	distanceTwo := r2.Distance -
		dist.Get(v.Number, y.Number) +
		dist.Get(v.Number, x.Number) +
		dist.Get(x.Number, u.Number) +
		dist.Get(u.Number, y.Number)

	overloadOne := r1.Overload
	overloadTwo := r2.Overload
	if r1.Index != r2.Index {
		moved := ls.ctx.Problem.Demand(u.Number) + ls.ctx.Problem.Demand(x.Number)
		overloadOne -= moved
		overloadTwo += moved
	}

	oldCost := r1.Cost + r2.Cost
	newCost := solution.RouteCost(distanceOne, overloadOne, ls.penaltyCapacity) +
		solution.RouteCost(distanceTwo, overloadTwo, ls.penaltyCapacity)

	return newCost - oldCost
}

func (RelocateDoubleReverse) Perform(ls *LocalSearch, u, v *Node) {
	r1 := u.Route
	r2 := v.Route

	uPrev := u.Predecessor
	x := u.Successor
	xNext := x.Successor
	y := v.Successor

	// (uPrev, u, x, xNext) → (uPrev, xNext); (v, y) → (v, x, u, y)
	linkNodes(uPrev, xNext)
	linkNodes(v, x)
	linkNodes(x, u)
	linkNodes(u, y)

	ls.updateRoute(r1)
	if r1.Index != r2.Index {
		ls.updateRoute(r2)
	}
}

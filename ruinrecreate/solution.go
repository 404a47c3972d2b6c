// Package ruinrecreate implements the large-neighbourhood improvement step:
// adjacent-string removal followed by greedy blink reinsertion, driven by a
// simulated-annealing acceptance schedule.
//
// The working representation is deliberately flat — plain route slices with
// cached distance and overload plus a per-customer reverse index — so ruin
// and recreate can splice strings without pointer surgery.
package ruinrecreate

import (
	"math"

	"github.com/katalvlaran/hybridcvrp/solution"
	"github.com/katalvlaran/hybridcvrp/solver"
)

// NodeLocation is the reverse index of one customer: which route holds it
// and at which position.
type NodeLocation struct {
	RouteIndex int
	NodeIndex  int
}

// Route is one flat route with cached distance and overload.
type Route struct {
	Nodes    []int
	Distance float64
	Overload float64
}

// Remove deletes the node at index, patches the cached figures, and returns
// the removed customer.
func (r *Route) Remove(ctx *solver.Context, index int) int {
	prev := 0
	if index > 0 {
		prev = r.Nodes[index-1]
	}
	next := 0
	if index < len(r.Nodes)-1 {
		next = r.Nodes[index+1]
	}

	node := r.Nodes[index]
	dist := ctx.Problem.Distance
	r.Distance += -dist.Get(prev, node) - dist.Get(node, next) + dist.Get(prev, next)
	r.Overload -= ctx.Problem.Demand(node)

	r.Nodes = append(r.Nodes[:index], r.Nodes[index+1:]...)
	return node
}

// DeltaDistance is the distance change of inserting node before position
// index (index == len(Nodes) appends).
func (r *Route) DeltaDistance(ctx *solver.Context, index, node int) float64 {
	prev := 0
	if index > 0 {
		prev = r.Nodes[index-1]
	}
	next := 0
	if index < len(r.Nodes) {
		next = r.Nodes[index]
	}

	dist := ctx.Problem.Distance
	return -dist.Get(prev, next) + dist.Get(prev, node) + dist.Get(node, next)
}

// Add inserts node before position index and patches the cached figures.
func (r *Route) Add(ctx *solver.Context, index, node int) {
	r.Distance += r.DeltaDistance(ctx, index, node)
	r.Overload += ctx.Problem.Demand(node)
	r.Nodes = append(r.Nodes, 0)
	copy(r.Nodes[index+1:], r.Nodes[index:])
	r.Nodes[index] = node
}

func (r *Route) copyFrom(other *Route) {
	r.Distance = other.Distance
	r.Overload = other.Overload
	r.Nodes = append(r.Nodes[:0], other.Nodes...)
}

// Solution is the ruin-and-recreate working state: flat routes, the
// transiently unassigned customers, the routes ruined this pass, the
// per-customer reverse index, and the total penalised cost.
type Solution struct {
	Routes       []Route
	Unassigned   []int
	RuinedRoutes map[int]struct{}
	Locations    []NodeLocation
	Cost         float64
}

// NewSolution sizes the state for the configured fleet.
func NewSolution(ctx *solver.Context) *Solution {
	return &Solution{
		Routes:       make([]Route, ctx.Config.NumVehicles),
		Unassigned:   make([]int, 0, ctx.Problem.Dim()),
		RuinedRoutes: make(map[int]struct{}),
		Locations:    make([]NodeLocation, ctx.Problem.Dim()),
		Cost:         math.Inf(1),
	}
}

// CopyFrom deep-copies other into s (routes, index, cost).
func (s *Solution) CopyFrom(other *Solution) {
	s.Cost = other.Cost
	copy(s.Locations, other.Locations)
	for i := range s.Routes {
		s.Routes[i].copyFrom(&other.Routes[i])
	}
	s.Unassigned = s.Unassigned[:0]
}

// Clone allocates an independent copy.
func (s *Solution) Clone() *Solution {
	clone := &Solution{
		Routes:       make([]Route, len(s.Routes)),
		Unassigned:   append([]int(nil), s.Unassigned...),
		RuinedRoutes: make(map[int]struct{}),
		Locations:    append([]NodeLocation(nil), s.Locations...),
		Cost:         s.Cost,
	}
	for i := range s.Routes {
		clone.Routes[i].copyFrom(&s.Routes[i])
	}
	return clone
}

// Load fills the state from an individual's phenotype and cached evaluation.
// The phenotype must be padded to the fleet size.
func (s *Solution) Load(ind *solution.Individual) {
	if len(ind.Phenotype) != len(s.Routes) {
		panic("ruinrecreate: phenotype size does not match fleet size")
	}
	for routeIndex := range s.Routes {
		route := &s.Routes[routeIndex]
		route.Nodes = append(route.Nodes[:0], ind.Phenotype[routeIndex]...)
		route.Distance = ind.Evaluation.Routes[routeIndex].Distance
		route.Overload = ind.Evaluation.Routes[routeIndex].Overload
		for nodeIndex, node := range route.Nodes {
			s.Locations[node] = NodeLocation{RouteIndex: routeIndex, NodeIndex: nodeIndex}
		}
	}
	s.Unassigned = s.Unassigned[:0]
}

// IsFeasible reports whether no route is overloaded.
func (s *Solution) IsFeasible() bool {
	for i := range s.Routes {
		if s.Routes[i].Overload > 0 {
			return false
		}
	}
	return true
}

// Evaluate recomputes the total penalised cost and refreshes the reverse
// index of the given routes.
func (s *Solution) Evaluate(ctx *solver.Context, updatedRoutes map[int]struct{}) {
	s.Reevaluate(ctx)
	for routeIndex := range updatedRoutes {
		for nodeIndex, node := range s.Routes[routeIndex].Nodes {
			s.Locations[node] = NodeLocation{RouteIndex: routeIndex, NodeIndex: nodeIndex}
		}
	}
}

// Reevaluate recomputes the total penalised cost under the current penalty.
func (s *Solution) Reevaluate(ctx *solver.Context) {
	penalty := ctx.Config.PenaltyCapacity
	total := 0.0
	for i := range s.Routes {
		total += solution.RouteCost(s.Routes[i].Distance, s.Routes[i].Overload, penalty)
	}
	s.Cost = total
}

// WriteTo copies the routes back into an individual and re-evaluates it.
// Calling this with unassigned customers is a programmer error.
func (s *Solution) WriteTo(ctx *solver.Context, ind *solution.Individual) {
	if len(s.Unassigned) != 0 {
		panic("ruinrecreate: cannot write a solution with unassigned customers")
	}
	ind.Genotype = ind.Genotype[:0]
	for routeIndex := range s.Routes {
		ind.Phenotype[routeIndex] = append([]int(nil), s.Routes[routeIndex].Nodes...)
		ind.Genotype = append(ind.Genotype, s.Routes[routeIndex].Nodes...)
	}
	ind.SortRoutes(ctx)
	ind.Evaluate(ctx)
}

package solution

import (
	"math"
	"sort"

	"github.com/katalvlaran/hybridcvrp/solver"
)

// emptyRouteAngle sorts empty routes behind all customer routes; real
// centroid angles lie in (−π, π].
const emptyRouteAngle = 10.0

// Individual is one member of the genetic population.
//
// The genotype is a permutation of the customers 1…n−1 (no depot, no
// repeats); the phenotype partitions the same customers into routes, padded
// with empty routes to the configured fleet size. The genotype is always the
// concatenation of the non-empty routes in phenotype order.
type Individual struct {
	// Number is the monotonic serial assigned on population insertion; it
	// keys the diversity table.
	Number uint64

	Genotype  []int
	Phenotype [][]int

	// Fitness is the biased fitness set by the population.
	Fitness float64

	Evaluation SolutionEvaluation
}

// New wraps a genotype into an unevaluated individual.
func New(genotype []int, number uint64) *Individual {
	return &Individual{
		Number:     number,
		Genotype:   genotype,
		Fitness:    math.Inf(1),
		Evaluation: NewSolutionEvaluation(),
	}
}

// NewRandom creates an individual with a uniformly shuffled genotype and an
// empty phenotype sized to the configured fleet.
func NewRandom(ctx *solver.Context, number uint64) *Individual {
	genotype := make([]int, ctx.Problem.NumCustomers())
	for i := range genotype {
		genotype[i] = i + 1
	}
	ctx.Rand.ShuffleInts(genotype)

	ind := New(genotype, number)
	ind.Phenotype = make([][]int, ctx.Config.NumVehicles)
	return ind
}

// Clone deep-copies the individual.
func (ind *Individual) Clone() *Individual {
	clone := &Individual{
		Number:   ind.Number,
		Genotype: append([]int(nil), ind.Genotype...),
		Fitness:  ind.Fitness,
		Evaluation: SolutionEvaluation{
			PenalizedCost: ind.Evaluation.PenalizedCost,
			Feasible:      ind.Evaluation.Feasible,
			Routes:        append([]RouteEvaluation(nil), ind.Evaluation.Routes...),
			Predecessors:  append([]int(nil), ind.Evaluation.Predecessors...),
			Successors:    append([]int(nil), ind.Evaluation.Successors...),
		},
	}
	clone.Phenotype = make([][]int, len(ind.Phenotype))
	for i, route := range ind.Phenotype {
		clone.Phenotype[i] = append([]int(nil), route...)
	}
	return clone
}

// Evaluate refreshes the cached evaluation from the phenotype.
func (ind *Individual) Evaluate(ctx *solver.Context) {
	ind.Evaluation.Evaluate(ctx, ind.Phenotype)
}

// IsFeasible reports the cached feasibility.
func (ind *Individual) IsFeasible() bool {
	return ind.Evaluation.IsFeasible()
}

// PenalizedCost returns the cached total penalised cost.
func (ind *Individual) PenalizedCost() float64 {
	return ind.Evaluation.PenalizedCost
}

// Successor returns the cached successor of node (depot 0 as sentinel).
func (ind *Individual) Successor(node int) int {
	return ind.Evaluation.Successors[node]
}

// Predecessor returns the cached predecessor of node.
func (ind *Individual) Predecessor(node int) int {
	return ind.Evaluation.Predecessors[node]
}

// NumRoutes returns the phenotype capacity (empty routes included).
func (ind *Individual) NumRoutes() int {
	return len(ind.Phenotype)
}

// NumNonEmptyRoutes counts the routes that visit at least one customer.
func (ind *Individual) NumNonEmptyRoutes() int {
	count := 0
	for _, route := range ind.Phenotype {
		if len(route) > 0 {
			count++
		}
	}
	return count
}

// BrokenPairsDistance counts customer arcs present in ind but absent from
// other; the depot acts as a wildcard for the route-start case. It is the
// diversity metric of the population: zero means the two individuals encode
// the same set of routes.
func (ind *Individual) BrokenPairsDistance(other *Individual) int {
	distance := 0
	size := len(ind.Genotype) + 1

	for node := 1; node < size; node++ {
		succ := ind.Successor(node)
		if succ != other.Successor(node) && succ != other.Predecessor(node) {
			distance++
		}
		if ind.Predecessor(node) == 0 && other.Predecessor(node) != 0 && other.Successor(0) != 0 {
			distance++
		}
	}

	return distance
}

// SortRoutes orders the phenotype by centroid polar angle ascending (empty
// routes last) and rebuilds the genotype as the concatenation of the routes.
// Keeping a canonical route order stabilises crossover behaviour.
func (ind *Individual) SortRoutes(ctx *solver.Context) {
	type routeAngle struct {
		angle float64
		index int
	}
	angles := make([]routeAngle, 0, len(ind.Phenotype))

	depot := ctx.Problem.Nodes[0].Coord
	for routeIndex, route := range ind.Phenotype {
		if len(route) == 0 {
			angles = append(angles, routeAngle{angle: emptyRouteAngle, index: routeIndex})
			continue
		}
		x, y := 0.0, 0.0
		for _, node := range route {
			x += ctx.Problem.Nodes[node].Coord.X
			y += ctx.Problem.Nodes[node].Coord.Y
		}
		x = x/float64(len(route)) - depot.X
		y = y/float64(len(route)) - depot.Y
		angles = append(angles, routeAngle{angle: math.Atan2(y, x), index: routeIndex})
	}

	sort.SliceStable(angles, func(a, b int) bool {
		return angles[a].angle < angles[b].angle
	})

	sorted := make([][]int, len(ind.Phenotype))
	for position, ra := range angles {
		sorted[position] = ind.Phenotype[ra.index]
	}
	ind.Phenotype = sorted

	index := 0
	for _, route := range ind.Phenotype {
		for _, node := range route {
			ind.Genotype[index] = node
			index++
		}
	}
}

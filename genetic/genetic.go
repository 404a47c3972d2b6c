package genetic

import (
	"fmt"
	"math"

	"github.com/katalvlaran/hybridcvrp/approx"
	"github.com/katalvlaran/hybridcvrp/localsearch"
	"github.com/katalvlaran/hybridcvrp/ruinrecreate"
	"github.com/katalvlaran/hybridcvrp/solution"
	"github.com/katalvlaran/hybridcvrp/solver"
	"github.com/katalvlaran/hybridcvrp/split"
)

// Penalty clamp bounds of the adaptation rule.
const (
	penaltyMin = 1e-4
	penaltyMax = 1e7
)

// penaltyDeadband is the tolerated distance from the feasibility target
// before the penalty moves.
const penaltyDeadband = 0.05

// repairPenaltyMultiplier scales the capacity penalty during the second,
// repairing local-search run on infeasible children.
const repairPenaltyMultiplier = 10.0

// state is the phase of the genetic state machine.
type state int

const (
	stateCreated state = iota
	stateEliteEducation
	stateInitialization
	stateCycle
	stateTerminated
)

// GeneticAlgorithm is the orchestrating metaheuristic: it owns the
// population, the improvement engines, and the split procedure, and advances
// one unit of work per Step.
type GeneticAlgorithm struct {
	population *Population
	ls         *localsearch.LocalSearch
	rr         *ruinrecreate.RuinRecreate
	splitter   *split.Splitter

	state       state
	initialized int

	iterations        uint64
	bestIteration     uint64
	nextPenaltyUpdate uint64
	nextLogInterval   uint64

	currentBestCost float64
	bestSolution    *solution.Individual

	history *solver.SearchHistory
}

// New assembles the metaheuristic over the given context.
func New(ctx *solver.Context) *GeneticAlgorithm {
	return &GeneticAlgorithm{
		population:      NewPopulation(ctx),
		ls:              localsearch.New(ctx, 1.0),
		rr:              ruinrecreate.New(ctx),
		splitter:        split.NewSplitter(ctx),
		currentBestCost: math.Inf(1),
		history:         ctx.History,
	}
}

// History returns the run's search history.
func (ga *GeneticAlgorithm) History() *solver.SearchHistory {
	return ga.history
}

// Terminated reports whether the state machine reached its final state.
func (ga *GeneticAlgorithm) Terminated() bool {
	return ga.state == stateTerminated
}

// BestSolution returns the best feasible individual found, or nil.
func (ga *GeneticAlgorithm) BestSolution() *solution.Individual {
	return ga.bestSolution
}

// Population exposes the current population (used by tests and logging).
func (ga *GeneticAlgorithm) Population() *Population {
	return ga.population
}

// Step advances the state machine by one unit of work: a state transition,
// one elite-education warm-up, one initial individual, or one generation.
func (ga *GeneticAlgorithm) Step(ctx *solver.Context) {
	switch ga.state {
	case stateCreated:
		if ctx.Config.EliteEducation &&
			ctx.Problem.NumCustomers() > ctx.Config.EliteEducationProblemSizeLimit {
			ga.state = stateEliteEducation
		} else {
			ga.state = stateInitialization
			ga.history.AddMessage("Generating population")
		}

	case stateEliteEducation:
		ga.eliteEducation(ctx)
		ga.state = stateInitialization
		ga.history.AddMessage("Generating population")

	case stateInitialization:
		ga.generateInitialIndividual(ctx)
		if ga.initialized >= ctx.Config.InitialIndividuals {
			ga.history.AddMessage("Population generated")
			ga.state = stateCycle
		}

	case stateCycle:
		ga.cycle(ctx)

	case stateTerminated:
		return
	}

	if ctx.Terminate() {
		ga.state = stateTerminated
		ga.history.AddMessage(fmt.Sprintf("Cost of best solution found: %.2f", ga.history.BestCost))
	}
}

// eliteEducation runs the ruin-and-recreate warm-up on one random individual
// educated to feasibility, then admits the result.
func (ga *GeneticAlgorithm) eliteEducation(ctx *solver.Context) {
	ga.history.AddMessage("Elite Education")

	child := solution.NewRandom(ctx, 0)
	ga.splitter.Run(ctx, child, ctx.Config.NumVehicles)
	ga.educate(ctx, child)

	// Escalate the repair penalty until the warm-up seed is feasible;
	// regenerate from scratch when escalation tops out.
	penaltyMultiplier := 1.0
	for !child.IsFeasible() && !ctx.Terminate() {
		if penaltyMultiplier < 1000 {
			penaltyMultiplier *= 5
			ga.ls.Run(ctx, child, penaltyMultiplier)
		} else {
			child = solution.NewRandom(ctx, 0)
			penaltyMultiplier = 1.0
			ga.splitter.Run(ctx, child, ctx.Config.NumVehicles)
			ga.educate(ctx, child)
		}
	}

	ga.rr.SetupElite(ctx)
	ga.rr.Run(ctx, child)
	ga.rr.WriteBest(ctx, child)
	ga.updateBest(ctx, child)
	ga.population.Add(ctx, child, false)
	ga.history.AddMessage("Elite Education Complete")
	ga.rr.SetupMutation(ctx)
}

// generateInitialIndividual admits one random split-then-educated individual.
func (ga *GeneticAlgorithm) generateInitialIndividual(ctx *solver.Context) {
	child := solution.NewRandom(ctx, ga.population.TotalIndividualsCount)
	ga.splitter.Run(ctx, child, ctx.Config.NumVehicles)
	ga.educate(ctx, child)
	ga.population.Add(ctx, child, true)
	ga.initialized++
}

// cycle is one generation: select, recombine, split, educate, admit, adapt,
// log, and reset on stagnation.
func (ga *GeneticAlgorithm) cycle(ctx *solver.Context) {
	parentOne := ga.population.Parent(ctx)
	parentTwo := ga.population.Parent(ctx)
	child := ga.crossover(ctx, parentOne, parentTwo)

	maxRoutes := parentOne.NumNonEmptyRoutes()
	ga.splitter.Run(ctx, child, maxRoutes)
	ga.educate(ctx, child)
	ga.population.Add(ctx, child, true)

	if ga.iterations >= ga.nextPenaltyUpdate {
		ga.updatePenalty(ctx)
	}
	if ga.iterations >= ga.nextLogInterval {
		ga.log(ctx)
	}

	if ga.iterations-ga.bestIteration > ctx.Config.MaxIterationsWithoutImprovement {
		ga.reset(ctx)
		return
	}

	ga.iterations++
	ctx.NextIteration()
}

// crossover performs OX over two distinct cut points.
func (ga *GeneticAlgorithm) crossover(ctx *solver.Context, parentOne, parentTwo *solution.Individual) *solution.Individual {
	length := len(parentOne.Genotype)
	start := ctx.Rand.IntRange(0, length)
	end := start
	for end == start {
		end = ctx.Rand.IntRange(0, length)
	}
	return ga.crossoverOX(ctx, parentOne, parentTwo, start, end)
}

// crossoverOX copies parent one's segment [start..end] (cyclic, inclusive)
// and fills the remaining positions with parent two's genes in their order
// of appearance from end+1 onward.
func (ga *GeneticAlgorithm) crossoverOX(ctx *solver.Context, parentOne, parentTwo *solution.Individual, start, end int) *solution.Individual {
	length := len(parentOne.Genotype)
	wrap := func(index int) int {
		if index == length {
			return 0
		}
		return index
	}

	genotype := append([]int(nil), parentOne.Genotype...)
	added := make(map[int]struct{}, length)

	index := start
	for {
		added[genotype[index]] = struct{}{}
		if index == end {
			index = wrap(index + 1)
			break
		}
		index = wrap(index + 1)
	}

	for i := 0; i < length; i++ {
		gene := parentTwo.Genotype[(end+1+i)%length]
		if _, ok := added[gene]; ok {
			continue
		}
		added[gene] = struct{}{}
		genotype[index] = gene
		index = wrap(index + 1)
	}

	child := solution.New(genotype, ga.population.TotalIndividualsCount)
	child.Phenotype = make([][]int, ctx.Config.NumVehicles)
	return child
}

// educate improves the child by local search, probabilistically by
// ruin-and-recreate, and possibly by a penalty-boosted repair run admitted
// as an extra individual.
func (ga *GeneticAlgorithm) educate(ctx *solver.Context, child *solution.Individual) {
	cfg := ctx.Config

	if cfg.LSEnabled {
		ga.ls.Run(ctx, child, 1.0)
	}

	if cfg.RRMutation && ctx.Rand.Float64() < cfg.RRProbability {
		ga.rr.Run(ctx, child)
		if ga.rr.BestCost()+approx.Epsilon < ga.currentBestCost ||
			ctx.Rand.Float64() < 1.0-cfg.RRAcceptanceAlpha {
			ga.rr.WriteBest(ctx, child)
		} else {
			ga.rr.WriteCurrent(ctx, child)
		}
	}

	if !child.IsFeasible() && ctx.Rand.Float64() < cfg.RepairProbability {
		repaired := child.Clone()
		if cfg.LSEnabled {
			ga.ls.Run(ctx, repaired, repairPenaltyMultiplier)
		}
		if repaired.IsFeasible() {
			ga.updateBest(ctx, repaired)
			ga.population.Add(ctx, repaired, false)
		}
	}

	ga.updateBest(ctx, child)
}

// updateBest tracks the best feasible individual and reports strict global
// improvements through the search history.
func (ga *GeneticAlgorithm) updateBest(ctx *solver.Context, ind *solution.Individual) {
	if !ind.IsFeasible() || ind.PenalizedCost() >= ga.currentBestCost {
		return
	}
	ga.bestIteration = ga.iterations
	ga.currentBestCost = ind.PenalizedCost()
	if ga.currentBestCost < ga.history.BestCost {
		ga.bestSolution = ind.Clone()
		ga.history.AddMessage(fmt.Sprintf("New best: %.2f", ind.PenalizedCost()))
		ga.history.Add(ind.Phenotype, ind.PenalizedCost())
	}
}

// updatePenalty adapts the shared capacity penalty toward the feasibility
// target and refreshes the infeasible sub-population under the new value.
func (ga *GeneticAlgorithm) updatePenalty(ctx *solver.Context) {
	ga.nextPenaltyUpdate += ctx.Config.PenaltyUpdateInterval

	fraction := ga.population.HistoryFraction()
	cfg := ctx.Config
	switch {
	case fraction < cfg.FeasibilityProportionTarget-penaltyDeadband:
		cfg.PenaltyCapacity *= cfg.PenaltyIncMultiplier
	case fraction > cfg.FeasibilityProportionTarget+penaltyDeadband:
		cfg.PenaltyCapacity *= cfg.PenaltyDecMultiplier
	}
	cfg.PenaltyCapacity = math.Max(penaltyMin, math.Min(penaltyMax, cfg.PenaltyCapacity))

	ga.population.Infeasible.Reevaluate(ctx)
}

// log emits one progress line at the configured interval.
func (ga *GeneticAlgorithm) log(ctx *solver.Context) {
	ga.nextLogInterval += ctx.Config.LogInterval

	customers := float64(ctx.Problem.NumCustomers())
	ga.history.AddMessage(fmt.Sprintf(
		"Iter %6d %4d | Feas %d %.2f %.2f | Inf %d %.2f %.2f | Div %.2f %.2f | Feas %.2f | Pen %.2f",
		ga.iterations,
		ga.iterations-ga.bestIteration,
		ga.population.Feasible.Size(),
		ga.population.Feasible.BestCost(),
		ga.population.Feasible.AverageCost(ctx),
		ga.population.Infeasible.Size(),
		ga.population.Infeasible.BestCost(),
		ga.population.Infeasible.AverageCost(ctx),
		ga.population.Feasible.Diversity(ctx)/customers,
		ga.population.Infeasible.Diversity(ctx)/customers,
		ga.population.HistoryFraction(),
		ctx.Config.PenaltyCapacity,
	))
}

// reset discards both sub-populations after stagnation and restarts the
// state machine from Created.
func (ga *GeneticAlgorithm) reset(ctx *solver.Context) {
	ga.history.AddMessage("Resetting")
	ga.population = NewPopulation(ctx)
	ga.initialized = 0
	ga.nextPenaltyUpdate = ga.iterations
	ga.nextLogInterval = ga.iterations
	ga.currentBestCost = math.Inf(1)
	ga.bestIteration = ga.iterations
	ga.state = stateCreated
}

package ruinrecreate

import (
	"math"

	"github.com/katalvlaran/hybridcvrp/approx"
	"github.com/katalvlaran/hybridcvrp/solution"
	"github.com/katalvlaran/hybridcvrp/solver"
)

const (
	// terminateCheckInterval is how often the wall clock is polled.
	terminateCheckInterval = 100

	// penaltyUpdateInterval is how often the shared capacity penalty adapts
	// during elite education.
	penaltyUpdateInterval = 1000

	// Penalty clamp bounds shared with the genetic adaptation.
	penaltyMin = 1e-4
	penaltyMax = 1e7
)

// RuinRecreate is the large-neighbourhood engine. It owns three solutions
// between Load and write-back: the accepted current solution, the working
// copy each iteration mutates, and the best solution seen.
type RuinRecreate struct {
	ruin     Ruin
	recreate Recreate

	current *Solution
	working *Solution
	best    *Solution

	schedule Acceptance

	// updatePenalty enables the shared-penalty adaptation (elite education
	// only; disabled in mutation mode).
	updatePenalty bool
}

// New builds an engine configured for mutation mode.
func New(ctx *solver.Context) *RuinRecreate {
	rr := &RuinRecreate{
		ruin:     NewAdjacentStringRemoval(ctx),
		recreate: GreedyBlink{},
		current:  NewSolution(ctx),
		working:  NewSolution(ctx),
	}
	rr.SetupMutation(ctx)
	return rr
}

// SetupMutation configures the short schedule used on each educated child:
// γ·(n−1) iterations, rounded to the nearest integer, from the mutation
// start temperature.
func (rr *RuinRecreate) SetupMutation(ctx *solver.Context) {
	iterations := int(math.Round(ctx.Config.RRGamma * float64(ctx.Problem.NumCustomers())))
	rr.schedule = NewIterationSchedule(ctx.Config.RRStartTemp, ctx.Config.RRFinalTemp, iterations)
	rr.updatePenalty = false
}

// SetupElite configures the long warm-up schedule of elite education, with
// shared-penalty adaptation enabled.
func (rr *RuinRecreate) SetupElite(ctx *solver.Context) {
	iterations := int(math.Round(ctx.Config.EliteEducationGamma * float64(ctx.Problem.NumCustomers())))
	rr.schedule = NewIterationSchedule(ctx.Config.EliteEducationStartTemp, ctx.Config.EliteEducationFinalTemp, iterations)
	rr.updatePenalty = true
}

// Run loads the individual and searches until the schedule completes or the
// run's budget expires.
func (rr *RuinRecreate) Run(ctx *solver.Context, ind *solution.Individual) {
	rr.current.Load(ind)
	rr.current.Reevaluate(ctx)
	rr.best = rr.current.Clone()
	rr.schedule.Reset()
	rr.search(ctx)
}

func (rr *RuinRecreate) search(ctx *solver.Context) {
	terminateTick := terminateCheckInterval
	penaltyTick := penaltyUpdateInterval
	rr.working.CopyFrom(rr.current)

	for !rr.schedule.Completed() {
		terminateTick--
		if terminateTick == 0 {
			if ctx.Terminate() {
				break
			}
			terminateTick = terminateCheckInterval
		}
		if rr.updatePenalty {
			penaltyTick--
			if penaltyTick == 0 {
				rr.adaptPenalty(ctx)
				penaltyTick = penaltyUpdateInterval
			}
		}

		costBefore := rr.working.Cost
		rr.ruin.Run(ctx, rr.working)
		rr.recreate.Run(ctx, rr.working)

		if rr.schedule.Accept(rr.working.Cost, costBefore, ctx.Rand) {
			if approx.Lt(rr.working.Cost, rr.best.Cost) {
				rr.updateBest(ctx, rr.working)
			}
			rr.current.CopyFrom(rr.working)
		}
		rr.working.CopyFrom(rr.current)
		rr.schedule.Update()
	}
}

// adaptPenalty nudges the shared capacity penalty toward the feasibility
// boundary and re-evaluates all three cached solutions under the new value.
func (rr *RuinRecreate) adaptPenalty(ctx *solver.Context) {
	cfg := ctx.Config
	if rr.current.IsFeasible() {
		cfg.PenaltyCapacity *= cfg.PenaltyDecMultiplier
	} else {
		cfg.PenaltyCapacity *= cfg.PenaltyIncMultiplier
	}
	cfg.PenaltyCapacity = math.Max(penaltyMin, math.Min(penaltyMax, cfg.PenaltyCapacity))

	rr.best.Reevaluate(ctx)
	rr.current.Reevaluate(ctx)
	rr.working.Reevaluate(ctx)
}

// updateBest records a new best solution and reports it through the search
// history when it improves the global best feasibly.
func (rr *RuinRecreate) updateBest(ctx *solver.Context, sol *Solution) {
	rr.best = sol.Clone()
	if sol.IsFeasible() && sol.Cost < ctx.History.BestCost {
		routes := make([][]int, 0, len(sol.Routes))
		for i := range sol.Routes {
			if len(sol.Routes[i].Nodes) > 0 {
				routes = append(routes, append([]int(nil), sol.Routes[i].Nodes...))
			}
		}
		ctx.History.AddMessage("New best from ruin-and-recreate")
		ctx.History.Add(routes, sol.Cost)
	}
}

// BestCost returns the cost of the best solution seen by the last Run.
func (rr *RuinRecreate) BestCost() float64 {
	if rr.best == nil {
		return math.Inf(1)
	}
	return rr.best.Cost
}

// WriteBest copies the best solution into the individual.
func (rr *RuinRecreate) WriteBest(ctx *solver.Context, ind *solution.Individual) {
	if rr.best != nil {
		rr.best.WriteTo(ctx, ind)
	}
}

// WriteCurrent copies the accepted current solution into the individual.
func (rr *RuinRecreate) WriteCurrent(ctx *solver.Context, ind *solution.Individual) {
	rr.current.WriteTo(ctx, ind)
}

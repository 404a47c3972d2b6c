// Package solver wires the problem, configuration, shared randomness, and
// search history into a Context and drives a Metaheuristic over it.
//
// Scheduling model: single-threaded, cooperative. One logical thread of
// control runs the whole metaheuristic; termination is polled at explicit
// points (every genetic tick, every local-search pass, every hundredth
// ruin-and-recreate iteration) and never aborts a move in progress.
package solver

import (
	"math"
	"time"

	"github.com/katalvlaran/hybridcvrp/config"
	"github.com/katalvlaran/hybridcvrp/rng"
	"github.com/katalvlaran/hybridcvrp/vrp"
)

var inf = math.Inf(1)

// Context bundles the shared, mostly read-only state of one solver run.
// Config is mutated in exactly two places after construction: NumVehicles
// (once, here) and PenaltyCapacity (by penalty adaptation).
type Context struct {
	Problem *vrp.Problem
	Config  *config.Config
	Rand    *rng.Rand
	History *SearchHistory

	iteration uint64
}

// NewContext prepares a run: seeds the shared PRNG, fixes the fleet size from
// the problem's initial vehicle count, and resets the capacity penalty.
func NewContext(problem *vrp.Problem, cfg *config.Config, history *SearchHistory) *Context {
	var random *rng.Rand
	if cfg.Deterministic {
		history.AddMessage("Deterministic run")
		random = rng.FromSeed(cfg.Seed)
	} else {
		random = rng.New()
	}

	cfg.NumVehicles = problem.InitialVehicleCount()
	cfg.PenaltyCapacity = problem.InitialPenalty()

	return &Context{
		Problem: problem,
		Config:  cfg,
		Rand:    random,
		History: history,
	}
}

// Elapsed returns the wall-clock time since the run started.
func (c *Context) Elapsed() time.Duration {
	return c.History.Elapsed()
}

// Terminate reports whether the time or iteration budget is exhausted.
func (c *Context) Terminate() bool {
	if uint64(c.Elapsed().Seconds()) >= c.Config.TimeLimit {
		return true
	}
	return c.Config.MaxIterations > 0 && c.iteration >= c.Config.MaxIterations
}

// NextIteration advances the global tick counter.
func (c *Context) NextIteration() {
	c.iteration++
}

// Iteration returns the global tick counter.
func (c *Context) Iteration() uint64 {
	return c.iteration
}

// Metaheuristic is the state machine driven by the Solver: one unit of work
// per Step until Terminated reports true.
type Metaheuristic interface {
	Step(ctx *Context)
	Terminated() bool
	History() *SearchHistory
}

// Solver runs a Metaheuristic to completion.
type Solver struct {
	Ctx  *Context
	Meta Metaheuristic
}

// New pairs a context with a metaheuristic.
func New(ctx *Context, meta Metaheuristic) *Solver {
	return &Solver{Ctx: ctx, Meta: meta}
}

// Run drives the metaheuristic until termination and returns its history.
func (s *Solver) Run() *SearchHistory {
	for !s.Meta.Terminated() {
		s.Meta.Step(s.Ctx)
	}
	return s.Meta.History()
}

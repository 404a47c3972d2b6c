package solver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hybridcvrp/config"
	"github.com/katalvlaran/hybridcvrp/solver"
	"github.com/katalvlaran/hybridcvrp/vrp"
)

func newContext(t *testing.T, cfg *config.Config) *solver.Context {
	t.Helper()
	nodes := []vrp.Node{
		{ID: 1},
		{ID: 2, Coord: vrp.Coordinate{X: 1}, Demand: 1},
		{ID: 3, Coord: vrp.Coordinate{X: 2}, Demand: 1},
	}
	problem, err := vrp.NewProblem(nodes, vrp.Vehicle{Cap: 2}, vrp.BuildOptions{Granularity: 1})
	require.NoError(t, err)
	return solver.NewContext(problem, cfg, solver.NewSearchHistory(time.Now()))
}

func TestContextSetsFleetAndPenalty(t *testing.T) {
	cfg := config.Default()
	ctx := newContext(t, &cfg)

	require.Equal(t, ctx.Problem.InitialVehicleCount(), cfg.NumVehicles)
	require.Equal(t, ctx.Problem.InitialPenalty(), cfg.PenaltyCapacity)
}

func TestTerminateOnIterationLimit(t *testing.T) {
	cfg := config.Default()
	cfg.MaxIterations = 3
	cfg.TimeLimit = 3600
	ctx := newContext(t, &cfg)

	require.False(t, ctx.Terminate())
	for i := 0; i < 3; i++ {
		ctx.NextIteration()
	}
	require.True(t, ctx.Terminate())
}

func TestHistoryKeepsOnlyLatestRoutes(t *testing.T) {
	h := solver.NewSearchHistory(time.Now())
	h.Add([][]int{{1, 2}}, 10)
	h.Add([][]int{{2, 1}}, 8)

	require.Equal(t, 8.0, h.BestCost)
	entries := h.Entries()
	require.Len(t, entries, 2)
	require.Nil(t, entries[0].Solution.Routes)
	require.Equal(t, [][]int{{2, 1}}, entries[1].Solution.Routes)
	require.Equal(t, entries[1], *h.LastEntry())
}

// stubMeta terminates after a fixed number of steps.
type stubMeta struct {
	steps   int
	history *solver.SearchHistory
}

func (s *stubMeta) Step(ctx *solver.Context) {
	s.steps--
	ctx.NextIteration()
}

func (s *stubMeta) Terminated() bool {
	return s.steps <= 0
}

func (s *stubMeta) History() *solver.SearchHistory {
	return s.history
}

func TestSolverDrivesMetaheuristicToTermination(t *testing.T) {
	cfg := config.Default()
	ctx := newContext(t, &cfg)
	meta := &stubMeta{steps: 5, history: ctx.History}

	history := solver.New(ctx, meta).Run()
	require.Zero(t, meta.steps)
	require.Equal(t, uint64(5), ctx.Iteration())
	require.Same(t, ctx.History, history)
}

package ruinrecreate_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hybridcvrp/config"
	"github.com/katalvlaran/hybridcvrp/rng"
	"github.com/katalvlaran/hybridcvrp/ruinrecreate"
	"github.com/katalvlaran/hybridcvrp/solution"
	"github.com/katalvlaran/hybridcvrp/solver"
	"github.com/katalvlaran/hybridcvrp/split"
	"github.com/katalvlaran/hybridcvrp/vrp"
)

// circleContext places numCustomers unit-demand customers on a circle around
// the depot.
func circleContext(t *testing.T, numCustomers int, capacity float64) *solver.Context {
	t.Helper()
	nodes := make([]vrp.Node, numCustomers+1)
	nodes[0] = vrp.Node{ID: 1}
	for i := 1; i <= numCustomers; i++ {
		angle := 2 * math.Pi * float64(i-1) / float64(numCustomers)
		nodes[i] = vrp.Node{
			ID:     i + 1,
			Coord:  vrp.Coordinate{X: 10 * math.Cos(angle), Y: 10 * math.Sin(angle)},
			Demand: 1,
		}
	}
	problem, err := vrp.NewProblem(nodes, vrp.Vehicle{Cap: capacity}, vrp.BuildOptions{Granularity: 5})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Deterministic = true
	cfg.Seed = 11
	return solver.NewContext(problem, &cfg, solver.NewSearchHistory(time.Now()))
}

func splitRandom(t *testing.T, ctx *solver.Context) *solution.Individual {
	t.Helper()
	ind := solution.NewRandom(ctx, 0)
	split.NewSplitter(ctx).Run(ctx, ind, ctx.Config.NumVehicles)
	return ind
}

func TestIterationScheduleTemperatures(t *testing.T) {
	s := ruinrecreate.NewIterationSchedule(100.0, 0.0, 1000)

	for i := 0; i < 100; i++ {
		s.Update()
	}
	// t = 0.1: (e^(−2t) − t·e⁻²)·100
	require.InDelta(t, 80.51972247543206, s.Temp(), 1e-9)

	for i := 0; i < 400; i++ {
		s.Update()
	}
	// t = 0.5
	require.InDelta(t, 30.0211799553136, s.Temp(), 1e-9)

	for i := 0; i < 400; i++ {
		s.Update()
	}
	// t = 0.9
	require.InDelta(t, 4.34971333086351, s.Temp(), 1e-9)

	require.False(t, s.Completed())
	for i := 0; i < 100; i++ {
		s.Update()
	}
	require.True(t, s.Completed())

	s.Reset()
	require.False(t, s.Completed())
	require.Equal(t, 100.0, s.Temp())
}

func TestScheduleRespectsFinalTemp(t *testing.T) {
	s := ruinrecreate.NewIterationSchedule(100.0, 5.0, 10)
	for i := 0; i < 10; i++ {
		s.Update()
	}
	require.Equal(t, 5.0, s.Temp())
}

func TestMetropolisAcceptance(t *testing.T) {
	random := rng.FromSeed(3)

	// A strictly cheaper solution is always accepted: −T·ln(r) ≥ 0.
	warm := ruinrecreate.NewIterationSchedule(50.0, 0.0, 10)
	for i := 0; i < 100; i++ {
		require.True(t, warm.Accept(5.0, 10.0, random))
	}

	// At T = 0 a strictly worse solution is rejected.
	cold := ruinrecreate.NewIterationSchedule(0.0, 0.0, 10)
	for i := 0; i < 100; i++ {
		require.False(t, cold.Accept(10.0, 5.0, random))
	}
}

func TestTimeScheduleCompletes(t *testing.T) {
	s := ruinrecreate.NewTimeSchedule(100.0, 0.0, 10*time.Millisecond)
	s.SetUpdateRate(1)
	require.False(t, s.Completed())
	time.Sleep(15 * time.Millisecond)
	s.Update()
	require.True(t, s.Completed())
}

func requirePermutation(t *testing.T, sol *ruinrecreate.Solution, numCustomers int) {
	t.Helper()
	seen := map[int]int{}
	for i := range sol.Routes {
		for _, node := range sol.Routes[i].Nodes {
			seen[node]++
		}
	}
	require.Len(t, seen, numCustomers)
	for c := 1; c <= numCustomers; c++ {
		require.Equal(t, 1, seen[c])
	}
}

func TestRuinThenRecreateRoundTrip(t *testing.T) {
	ctx := circleContext(t, 12, 4)
	ind := splitRandom(t, ctx)

	sol := ruinrecreate.NewSolution(ctx)
	sol.Load(ind)
	sol.Reevaluate(ctx)

	ruin := ruinrecreate.NewAdjacentStringRemoval(ctx)
	ruin.Run(ctx, sol)
	require.NotEmpty(t, sol.Unassigned)
	require.NotEmpty(t, sol.RuinedRoutes)

	ruinrecreate.GreedyBlink{}.Run(ctx, sol)
	require.Empty(t, sol.Unassigned)
	require.Empty(t, sol.RuinedRoutes)
	requirePermutation(t, sol, 12)

	// Cached cost agrees with a from-scratch re-evaluation.
	cached := sol.Cost
	sol.Reevaluate(ctx)
	require.InDelta(t, cached, sol.Cost, 1e-6)

	// Route-load invariant: cached overload matches summed demands.
	for i := range sol.Routes {
		load := 0.0
		for _, node := range sol.Routes[i].Nodes {
			load += ctx.Problem.Demand(node)
		}
		require.InDelta(t, load-ctx.Problem.Vehicle.Cap, sol.Routes[i].Overload, 1e-9)
	}

	// Reverse index matches route contents.
	for i := range sol.Routes {
		for j, node := range sol.Routes[i].Nodes {
			require.Equal(t, ruinrecreate.NodeLocation{RouteIndex: i, NodeIndex: j}, sol.Locations[node])
		}
	}
}

func TestEngineProducesValidIndividual(t *testing.T) {
	ctx := circleContext(t, 12, 4)
	ind := splitRandom(t, ctx)
	costBefore := ind.PenalizedCost()

	rr := ruinrecreate.New(ctx)
	rr.Run(ctx, ind)
	require.LessOrEqual(t, rr.BestCost(), costBefore+1e-6)

	rr.WriteBest(ctx, ind)
	seen := map[int]int{}
	for _, route := range ind.Phenotype {
		for _, node := range route {
			seen[node]++
		}
	}
	require.Len(t, seen, 12)
	require.InDelta(t, rr.BestCost(), ind.PenalizedCost(), 1e-6)
}

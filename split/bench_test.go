package split_test

import (
	"math"
	"testing"
	"time"

	"github.com/katalvlaran/hybridcvrp/config"
	"github.com/katalvlaran/hybridcvrp/solution"
	"github.com/katalvlaran/hybridcvrp/solver"
	"github.com/katalvlaran/hybridcvrp/split"
	"github.com/katalvlaran/hybridcvrp/vrp"
)

func benchContext(b *testing.B, numCustomers int, linear bool) *solver.Context {
	b.Helper()
	nodes := make([]vrp.Node, numCustomers+1)
	nodes[0] = vrp.Node{ID: 1}
	for i := 1; i <= numCustomers; i++ {
		angle := 2 * math.Pi * float64(i-1) / float64(numCustomers)
		nodes[i] = vrp.Node{
			ID:     i + 1,
			Coord:  vrp.Coordinate{X: 100 * math.Cos(angle), Y: 100 * math.Sin(angle)},
			Demand: 1,
		}
	}
	problem, err := vrp.NewProblem(nodes, vrp.Vehicle{Cap: 10}, vrp.BuildOptions{Granularity: 10})
	if err != nil {
		b.Fatal(err)
	}
	cfg := config.Default()
	cfg.Deterministic = true
	cfg.Seed = 1
	cfg.LinearSplit = linear
	return solver.NewContext(problem, &cfg, solver.NewSearchHistory(time.Now()))
}

func benchmarkSplit(b *testing.B, linear bool) {
	ctx := benchContext(b, 100, linear)
	ind := solution.NewRandom(ctx, 0)
	s := split.NewSplitter(ctx)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Run(ctx, ind, ctx.Config.NumVehicles)
	}
}

func BenchmarkSplitLinear(b *testing.B) {
	benchmarkSplit(b, true)
}

func BenchmarkSplitBellman(b *testing.B) {
	benchmarkSplit(b, false)
}

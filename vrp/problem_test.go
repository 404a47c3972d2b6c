package vrp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hybridcvrp/vrp"
)

// tinyNodes is the five-location fixture used across the solver tests:
// depot at the origin, four unit-demand customers on a 2×1 grid.
func tinyNodes() []vrp.Node {
	coords := []vrp.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}}
	nodes := make([]vrp.Node, len(coords))
	for i, c := range coords {
		demand := 1.0
		if i == 0 {
			demand = 0
		}
		nodes[i] = vrp.Node{ID: i + 1, Coord: c, Demand: demand}
	}
	return nodes
}

func TestNewProblemValidation(t *testing.T) {
	nodes := tinyNodes()

	_, err := vrp.NewProblem(nodes, vrp.Vehicle{Cap: 0}, vrp.BuildOptions{})
	require.ErrorIs(t, err, vrp.ErrNonPositiveCapacity)

	_, err = vrp.NewProblem(nodes[:1], vrp.Vehicle{Cap: 2}, vrp.BuildOptions{})
	require.ErrorIs(t, err, vrp.ErrEmptyProblem)

	bad := tinyNodes()
	bad[2].Coord.X = math.NaN()
	_, err = vrp.NewProblem(bad, vrp.Vehicle{Cap: 2}, vrp.BuildOptions{})
	require.ErrorIs(t, err, vrp.ErrNaNDistance)
}

func TestDistancesSymmetricZeroDiagonal(t *testing.T) {
	p, err := vrp.NewProblem(tinyNodes(), vrp.Vehicle{Cap: 2}, vrp.BuildOptions{})
	require.NoError(t, err)

	for i := 0; i < p.Dim(); i++ {
		require.Zero(t, p.Distance.Get(i, i))
		for j := 0; j < p.Dim(); j++ {
			require.Equal(t, p.Distance.Get(i, j), p.Distance.Get(j, i))
			require.GreaterOrEqual(t, p.Distance.Get(i, j), 0.0)
		}
	}
	require.InDelta(t, math.Sqrt(5), p.Distance.Get(0, 3), 1e-9)
}

func TestRoundedDistances(t *testing.T) {
	p, err := vrp.NewProblem(tinyNodes(), vrp.Vehicle{Cap: 2}, vrp.BuildOptions{RoundDistances: true})
	require.NoError(t, err)
	// dist(0,3) = sqrt(5) ≈ 2.236 rounds to 2.
	require.Equal(t, 2.0, p.Distance.Get(0, 3))
}

func TestExplicitLowerRowMatrix(t *testing.T) {
	nodes := tinyNodes()[:3]
	explicit := [][]float64{
		{4},
		{3, 5},
	}
	p, err := vrp.NewProblem(nodes, vrp.Vehicle{Cap: 10}, vrp.BuildOptions{ExplicitMatrix: explicit})
	require.NoError(t, err)
	require.Equal(t, 4.0, p.Distance.Get(1, 0))
	require.Equal(t, 3.0, p.Distance.Get(2, 0))
	require.Equal(t, 5.0, p.Distance.Get(2, 1))
	require.Equal(t, 5.0, p.Distance.Get(1, 2))

	_, err = vrp.NewProblem(nodes, vrp.Vehicle{Cap: 10}, vrp.BuildOptions{ExplicitMatrix: explicit[:1]})
	require.ErrorIs(t, err, vrp.ErrExplicitMatrixShape)
}

func TestCorrelationsExcludeDepotAndSelf(t *testing.T) {
	p, err := vrp.NewProblem(tinyNodes(), vrp.Vehicle{Cap: 2}, vrp.BuildOptions{Granularity: 3})
	require.NoError(t, err)

	// width = min(2g, n-2) = min(6, 3) = 3.
	require.Equal(t, 3, p.Correlations.Width())
	for i := 1; i < p.Dim(); i++ {
		row := p.Correlations.Get(i)
		require.Len(t, row, 3)
		last := -1.0
		for _, c := range row {
			require.NotEqual(t, 0, c)
			require.NotEqual(t, i, c)
			d := p.Distance.Get(i, c)
			require.GreaterOrEqual(t, d, last)
			last = d
		}
	}
}

func TestNeighborsSortedSelfFirst(t *testing.T) {
	p, err := vrp.NewProblem(tinyNodes(), vrp.Vehicle{Cap: 2}, vrp.BuildOptions{})
	require.NoError(t, err)

	for i := 1; i < p.Dim(); i++ {
		row := p.Neighbors(i)
		require.Len(t, row, p.NumCustomers())
		require.Equal(t, i, row[0])
		last := -1.0
		for _, c := range row {
			d := p.Distance.Get(i, c)
			require.GreaterOrEqual(t, d, last)
			last = d
		}
	}
}

func TestAngles(t *testing.T) {
	p, err := vrp.NewProblem(tinyNodes(), vrp.Vehicle{Cap: 2}, vrp.BuildOptions{})
	require.NoError(t, err)

	// Customer 1 lies due east of the depot: angle 0.
	require.Equal(t, 0, p.Angle(1))
	// Customer 4 at (1,1): 45° → 8192.
	require.Equal(t, 8192, p.Angle(4))
	for i := 1; i < p.Dim(); i++ {
		require.GreaterOrEqual(t, p.Angle(i), 0)
		require.Less(t, p.Angle(i), 65536)
	}
}

func TestFleetBoundsAndPenalty(t *testing.T) {
	p, err := vrp.NewProblem(tinyNodes(), vrp.Vehicle{Cap: 2}, vrp.BuildOptions{})
	require.NoError(t, err)

	require.Equal(t, 2, p.VehicleLowerBound())           // ceil(4/2)
	require.Equal(t, 5, p.InitialVehicleCount())         // ceil(1.2*2+2)
	require.InDelta(t, math.Sqrt(5), p.InitialPenalty(), 1e-9) // maxDist / maxDemand
}

func TestCircleSector(t *testing.T) {
	var s vrp.CircleSector
	s.Extend(100)
	require.True(t, s.IsEnclosed(100))
	s.Extend(200)
	require.True(t, s.IsEnclosed(150))
	require.False(t, s.IsEnclosed(300))

	// Wrap-around sector.
	var w vrp.CircleSector
	w.FromAngle(65000)
	w.Extend(500)
	require.True(t, w.IsEnclosed(65500))
	require.True(t, w.IsEnclosed(200))
	require.False(t, w.IsEnclosed(30000))

	other := vrp.CircleSector{Start: 150, End: 400}
	require.True(t, s.Overlaps(other))
	require.True(t, other.Overlaps(s))
	far := vrp.CircleSector{Start: 30000, End: 31000}
	require.False(t, s.Overlaps(far))
	require.False(t, far.Overlaps(s))
}

func TestDynamicGranularity(t *testing.T) {
	p, err := vrp.NewProblem(tinyNodes(), vrp.Vehicle{Cap: 2}, vrp.BuildOptions{
		Granularity:        2,
		DynamicGranularity: true,
		GranularityMin:     1,
	})
	require.NoError(t, err)
	for i := 0; i < p.Dim(); i++ {
		g := p.Granularity(i)
		require.GreaterOrEqual(t, g, 1)
		require.LessOrEqual(t, g, p.Correlations.Width())
	}
}

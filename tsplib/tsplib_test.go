package tsplib_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hybridcvrp/tsplib"
)

const euclideanInstance = `NAME : tiny
TYPE : CVRP
DIMENSION : 5
EDGE_WEIGHT_TYPE : EUC_2D
CAPACITY : 2
NODE_COORD_SECTION
1 0 0
2 1 0
3 2 0
4 2 1
5 1 1
DEMAND_SECTION
1 0
2 1
3 1
4 1
5 1
DEPOT_SECTION
1
-1
EOF
`

const explicitInstance = `NAME : tiny-explicit
DIMENSION : 3
EDGE_WEIGHT_TYPE : EXPLICIT
EDGE_WEIGHT_FORMAT : LOWER_ROW
CAPACITY : 10
NODE_COORD_SECTION
1 0 0
2 0 0
3 0 0
DEMAND_SECTION
1 0
2 1
3 1
EDGE_WEIGHT_SECTION
4
3 5
EOF
`

func TestParseEuclidean(t *testing.T) {
	instance, err := tsplib.Parse(strings.NewReader(euclideanInstance))
	require.NoError(t, err)
	require.Equal(t, 5, instance.Dimension)
	require.Equal(t, 2.0, instance.Capacity)
	require.Len(t, instance.Nodes, 5)
	require.Nil(t, instance.Matrix)

	require.Equal(t, 0.0, instance.Nodes[0].Demand)
	require.Equal(t, 1.0, instance.Nodes[4].Demand)
	require.Equal(t, 2.0, instance.Nodes[3].Coord.X)
	require.Equal(t, 1.0, instance.Nodes[3].Coord.Y)
}

func TestParseExplicitLowerRow(t *testing.T) {
	instance, err := tsplib.Parse(strings.NewReader(explicitInstance))
	require.NoError(t, err)
	require.Equal(t, [][]float64{{4}, {3, 5}}, instance.Matrix)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"missing dimension", "CAPACITY : 5\n", tsplib.ErrMissingDimension},
		{"missing capacity", "DIMENSION : 3\n", tsplib.ErrMissingCapacity},
		{
			"unknown weight type",
			"DIMENSION : 3\nCAPACITY : 5\nEDGE_WEIGHT_TYPE : GEO\n",
			tsplib.ErrUnknownEdgeWeightType,
		},
		{
			"truncated coords",
			"DIMENSION : 3\nCAPACITY : 5\nNODE_COORD_SECTION\n1 0 0\n",
			tsplib.ErrMissingSection,
		},
		{
			"negative demand",
			strings.Replace(euclideanInstance, "5 1\nDEPOT_SECTION", "5 -1\nDEPOT_SECTION", 1),
			tsplib.ErrNegativeDemand,
		},
		{
			"malformed coordinate",
			strings.Replace(euclideanInstance, "2 1 0", "2 one 0", 1),
			tsplib.ErrMalformedValue,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tsplib.Parse(strings.NewReader(tc.doc))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWriteSolution(t *testing.T) {
	var sb strings.Builder
	routes := [][]int{{1, 2}, {}, {3, 4}}
	require.NoError(t, tsplib.WriteSolution(&sb, routes, 8.4))

	want := "Route #1: 1 2\nRoute #2: 3 4\nCost 8\n"
	require.Equal(t, want, sb.String())
}

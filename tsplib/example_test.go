package tsplib_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/hybridcvrp/tsplib"
)

func ExampleParse() {
	instance, err := tsplib.Parse(strings.NewReader(euclideanInstance))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(instance.Dimension, instance.Capacity)
	// Output:
	// 5 2
}

func ExampleWriteSolution() {
	_ = tsplib.WriteSolution(os.Stdout, [][]int{{1, 2}, {}, {3, 4}}, 8.4)
	// Output:
	// Route #1: 1 2
	// Route #2: 3 4
	// Cost 8
}

// Package tsplib reads TSPLIB-style CVRP instances and writes solution
// files in the classical "Route #k: …" format.
//
// Supported headers: DIMENSION, CAPACITY, EDGE_WEIGHT_TYPE (EUC_2D or
// EXPLICIT), EDGE_WEIGHT_FORMAT (LOWER_ROW); sections NODE_COORD_SECTION,
// DEMAND_SECTION, and EDGE_WEIGHT_SECTION. Node 1 is the depot.
package tsplib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/hybridcvrp/vrp"
)

// Sentinel errors for malformed instances.
var (
	// ErrMissingDimension indicates the DIMENSION header is absent.
	ErrMissingDimension = errors.New("tsplib: missing DIMENSION")

	// ErrMissingCapacity indicates the CAPACITY header is absent.
	ErrMissingCapacity = errors.New("tsplib: missing CAPACITY")

	// ErrMissingSection indicates a required section is absent or short.
	ErrMissingSection = errors.New("tsplib: missing or truncated section")

	// ErrUnknownEdgeWeightType indicates an unsupported EDGE_WEIGHT_TYPE.
	ErrUnknownEdgeWeightType = errors.New("tsplib: unknown EDGE_WEIGHT_TYPE")

	// ErrUnknownEdgeWeightFormat indicates an unsupported EDGE_WEIGHT_FORMAT.
	ErrUnknownEdgeWeightFormat = errors.New("tsplib: unknown EDGE_WEIGHT_FORMAT")

	// ErrMalformedValue indicates a token that failed numeric parsing.
	ErrMalformedValue = errors.New("tsplib: malformed value")

	// ErrNegativeDemand indicates a customer with negative demand.
	ErrNegativeDemand = errors.New("tsplib: negative demand")
)

// Instance is a parsed problem file.
type Instance struct {
	Dimension int
	Capacity  float64
	Nodes     []vrp.Node

	// Matrix holds the explicit lower-row distances; nil for EUC_2D.
	Matrix [][]float64
}

type edgeWeightType int

const (
	euclidean2D edgeWeightType = iota
	explicit
)

// ParseFile reads and parses the instance at path.
func ParseFile(path string) (*Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tsplib: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads a TSPLIB-style instance from r.
func Parse(r io.Reader) (*Instance, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	dimension, err := parseIntHeader(lines, "DIMENSION", ErrMissingDimension)
	if err != nil {
		return nil, err
	}
	capacity, err := parseFloatHeader(lines, "CAPACITY", ErrMissingCapacity)
	if err != nil {
		return nil, err
	}

	weightType, err := parseEdgeWeightType(lines)
	if err != nil {
		return nil, err
	}

	coords, err := parseCoords(lines, dimension)
	if err != nil {
		return nil, err
	}
	demands, err := parseDemands(lines, dimension)
	if err != nil {
		return nil, err
	}

	instance := &Instance{
		Dimension: dimension,
		Capacity:  capacity,
		Nodes:     make([]vrp.Node, dimension),
	}
	for i := 0; i < dimension; i++ {
		instance.Nodes[i] = vrp.Node{ID: i + 1, Coord: coords[i], Demand: demands[i]}
	}

	if weightType == explicit {
		if err := requireLowerRow(lines); err != nil {
			return nil, err
		}
		matrix, err := parseLowerRowMatrix(lines, dimension)
		if err != nil {
			return nil, err
		}
		instance.Matrix = matrix
	}

	return instance, nil
}

// readLines splits the file into whitespace- and colon-separated tokens.
func readLines(r io.Reader) ([][]string, error) {
	var lines [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.FieldsFunc(scanner.Text(), func(c rune) bool {
			return c == ' ' || c == '\t' || c == ':'
		})
		tokens := fields[:0]
		for _, field := range fields {
			if field != "" {
				tokens = append(tokens, field)
			}
		}
		lines = append(lines, tokens)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tsplib: %w", err)
	}
	return lines, nil
}

func findHeader(lines [][]string, key string) ([]string, bool) {
	for _, line := range lines {
		if len(line) > 0 && line[0] == key {
			return line, true
		}
	}
	return nil, false
}

func parseIntHeader(lines [][]string, key string, missing error) (int, error) {
	line, ok := findHeader(lines, key)
	if !ok || len(line) < 2 {
		return 0, missing
	}
	value, err := strconv.Atoi(line[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedValue, key, line[1])
	}
	return value, nil
}

func parseFloatHeader(lines [][]string, key string, missing error) (float64, error) {
	line, ok := findHeader(lines, key)
	if !ok || len(line) < 2 {
		return 0, missing
	}
	value, err := strconv.ParseFloat(line[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedValue, key, line[1])
	}
	return value, nil
}

func parseEdgeWeightType(lines [][]string) (edgeWeightType, error) {
	line, ok := findHeader(lines, "EDGE_WEIGHT_TYPE")
	if !ok || len(line) < 2 {
		// EUC_2D instances commonly omit the header.
		return euclidean2D, nil
	}
	switch line[1] {
	case "EUC_2D":
		return euclidean2D, nil
	case "EXPLICIT":
		return explicit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEdgeWeightType, line[1])
	}
}

func requireLowerRow(lines [][]string) error {
	line, ok := findHeader(lines, "EDGE_WEIGHT_FORMAT")
	if !ok || len(line) < 2 {
		return ErrUnknownEdgeWeightFormat
	}
	if line[1] != "LOWER_ROW" {
		return fmt.Errorf("%w: %q", ErrUnknownEdgeWeightFormat, line[1])
	}
	return nil
}

func sectionBody(lines [][]string, section string, count int) ([][]string, error) {
	for number, line := range lines {
		if len(line) > 0 && line[0] == section {
			if number+1+count > len(lines) {
				return nil, fmt.Errorf("%w: %s", ErrMissingSection, section)
			}
			return lines[number+1 : number+1+count], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingSection, section)
}

func parseCoords(lines [][]string, dimension int) ([]vrp.Coordinate, error) {
	body, err := sectionBody(lines, "NODE_COORD_SECTION", dimension)
	if err != nil {
		return nil, err
	}
	coords := make([]vrp.Coordinate, dimension)
	for i, line := range body {
		if len(line) < 3 {
			return nil, fmt.Errorf("%w: NODE_COORD_SECTION", ErrMissingSection)
		}
		x, errX := strconv.ParseFloat(line[1], 64)
		y, errY := strconv.ParseFloat(line[2], 64)
		if errX != nil || errY != nil || math.IsNaN(x) || math.IsNaN(y) {
			return nil, fmt.Errorf("%w: coordinate %v", ErrMalformedValue, line)
		}
		coords[i] = vrp.Coordinate{X: x, Y: y}
	}
	return coords, nil
}

func parseDemands(lines [][]string, dimension int) ([]float64, error) {
	body, err := sectionBody(lines, "DEMAND_SECTION", dimension)
	if err != nil {
		return nil, err
	}
	demands := make([]float64, dimension)
	for i, line := range body {
		if len(line) < 2 {
			return nil, fmt.Errorf("%w: DEMAND_SECTION", ErrMissingSection)
		}
		demand, err := strconv.ParseFloat(line[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: demand %q", ErrMalformedValue, line[1])
		}
		if demand < 0 {
			return nil, ErrNegativeDemand
		}
		demands[i] = demand
	}
	return demands, nil
}

func parseLowerRowMatrix(lines [][]string, dimension int) ([][]float64, error) {
	body, err := sectionBody(lines, "EDGE_WEIGHT_SECTION", dimension-1)
	if err != nil {
		return nil, err
	}
	matrix := make([][]float64, dimension-1)
	for i, line := range body {
		row := make([]float64, len(line))
		for j, token := range line {
			value, err := strconv.ParseFloat(token, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: edge weight %q", ErrMalformedValue, token)
			}
			row[j] = value
		}
		matrix[i] = row
	}
	return matrix, nil
}

// WriteSolution writes one line per non-empty route followed by the rounded
// total cost of the best feasible solution.
func WriteSolution(w io.Writer, routes [][]int, cost float64) error {
	routeNumber := 1
	for _, route := range routes {
		if len(route) == 0 {
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Route #%d:", routeNumber)
		for _, stop := range route {
			fmt.Fprintf(&sb, " %d", stop)
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return fmt.Errorf("tsplib: %w", err)
		}
		routeNumber++
	}
	if _, err := fmt.Fprintf(w, "Cost %d\n", int64(math.Round(cost))); err != nil {
		return fmt.Errorf("tsplib: %w", err)
	}
	return nil
}

// WriteSolutionFile writes the solution to path, truncating any existing
// file.
func WriteSolutionFile(path string, routes [][]int, cost float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tsplib: %w", err)
	}
	defer file.Close()
	return WriteSolution(file, routes, cost)
}

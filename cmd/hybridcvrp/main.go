// Command hybridcvrp solves a CVRP instance with the hybrid genetic
// metaheuristic and writes the best solution found to a file.
//
// Usage:
//
//	hybridcvrp [flags] <instance>
//
// The instance is a TSPLIB-style CVRP file. Options may come from a YAML
// configuration document (-config) and are overridden by flags.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/hybridcvrp/config"
	"github.com/katalvlaran/hybridcvrp/genetic"
	"github.com/katalvlaran/hybridcvrp/solver"
	"github.com/katalvlaran/hybridcvrp/tsplib"
	"github.com/katalvlaran/hybridcvrp/vrp"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Error("hybridcvrp failed")
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath    = flag.String("config", "", "path to YAML configuration")
		solutionPath  = flag.String("o", "", "path to solution output")
		timeLimit     = flag.Uint64("t", 0, "time limit in seconds")
		maxIterations = flag.Uint64("i", 0, "maximum number of iterations")
		rounded       = flag.Bool("round", false, "round distances to integer values")
		seed          = flag.Int64("seed", 0, "random seed (implies deterministic)")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("instance path is required")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	startTime := time.Now()
	history := solver.NewSearchHistory(startTime)

	cfg := config.Default()
	if *configPath != "" {
		if err := cfg.PatchYAMLFile(*configPath); err != nil {
			return err
		}
	}
	cfg.InstancePath = flag.Arg(0)
	if *solutionPath != "" {
		cfg.SolutionPath = *solutionPath
	}
	if *timeLimit > 0 {
		cfg.TimeLimit = *timeLimit
	}
	if *maxIterations > 0 {
		cfg.MaxIterations = *maxIterations
	}
	if *rounded {
		cfg.RoundDistances = true
	}
	if *seed != 0 {
		cfg.Deterministic = true
		cfg.Seed = *seed
	}

	instance, err := tsplib.ParseFile(cfg.InstancePath)
	if err != nil {
		return err
	}
	history.AddMessage(fmt.Sprintf("Loading problem %s complete", cfg.InstancePath))

	problem, err := vrp.NewProblem(instance.Nodes, vrp.Vehicle{Cap: instance.Capacity}, vrp.BuildOptions{
		Granularity:         cfg.LocalSearchGranularity,
		DynamicGranularity:  cfg.DynamicGranularity,
		GranularityMin:      cfg.GranularityMin,
		RoundDistances:      cfg.RoundDistances,
		PrecomputeSizeLimit: cfg.PrecomputeDistanceSizeLimit,
		ExplicitMatrix:      instance.Matrix,
	})
	if err != nil {
		return err
	}
	if err := cfg.Validate(problem.Dim()); err != nil {
		return err
	}

	ctx := solver.NewContext(problem, &cfg, history)
	meta := genetic.New(ctx)
	solver.New(ctx, meta).Run()

	last := history.LastEntry()
	if last == nil {
		history.AddMessage("No feasible solution found")
		return nil
	}
	if err := tsplib.WriteSolutionFile(cfg.SolutionPath, last.Solution.Routes, last.Solution.Cost); err != nil {
		return err
	}
	history.AddMessage(fmt.Sprintf("Solution written to %s", cfg.SolutionPath))
	return nil
}

// Package hybridcvrp is an anytime hybrid metaheuristic solver for the
// Capacitated Vehicle Routing Problem (CVRP).
//
// Given a depot, a set of customers with demands, and a homogeneous fleet of
// capacitated vehicles, the solver searches for a partition of customers into
// depot-anchored routes of minimum total distance, returning progressively
// better feasible solutions until a wall-clock or iteration budget runs out.
//
// The engine combines three tightly coupled subsystems:
//
//   - a population-based genetic framework with two ranked sub-populations
//     (feasible / infeasible) and biased-fitness selection driven by both
//     cost and diversity (package genetic);
//   - a Split procedure converting a giant customer tour into routes by
//     shortest path, optionally under a vehicle-count bound (package split);
//   - an improvement core of granular Local Search over a linked route graph,
//     including the cross-route SWAP* move (package localsearch), and a
//     Ruin-and-Recreate large-neighbourhood search under a simulated-annealing
//     acceptance schedule (package ruinrecreate).
//
// Supporting packages:
//
//	vrp/          — problem model: distance matrix, correlations, polar angles
//	solution/     — individual representation and solution evaluation
//	config/       — configuration record, YAML patching, validation
//	solver/       — context, search history, solver loop
//	tsplib/       — TSPLIB-style instance parser and solution writer
//	rng/          — single seeded PRNG shared by all components
//	approx/       — centralized epsilon float comparisons
//
// The solver is single-threaded and cooperative: one logical thread drives
// the whole metaheuristic and termination is polled at explicit points. With
// deterministic=true and a fixed seed, two runs on the same instance produce
// identical best-cost trajectories.
//
//	go get github.com/katalvlaran/hybridcvrp
package hybridcvrp

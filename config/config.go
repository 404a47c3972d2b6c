// Package config defines the solver configuration record, its documented
// defaults, YAML patching, and startup validation.
//
// The configuration is loaded once: defaults, then an optional YAML document
// (unknown keys ignored, missing keys keep defaults), then command-line
// overrides. After startup it is mutated in exactly two places:
// PenaltyCapacity (by penalty adaptation) and NumVehicles (once, from the
// problem's initial vehicle count).
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sentinel errors surfaced by Validate.
var (
	// ErrTargetOutOfRange indicates a feasibility target outside [0, 1].
	ErrTargetOutOfRange = errors.New("config: feasibility target outside [0, 1]")

	// ErrGranularityTooLarge indicates a granularity not below the dimension.
	ErrGranularityTooLarge = errors.New("config: granularity must be below the problem dimension")

	// ErrNonPositiveSize indicates a population size or interval that must be positive.
	ErrNonPositiveSize = errors.New("config: non-positive size parameter")
)

// Config enumerates every solver option. Field names map to snake_case YAML
// keys (see the yaml tags).
type Config struct {
	// General
	InstancePath string `yaml:"instance_path"`
	SolutionPath string `yaml:"solution_path"`
	TimeLimit    uint64 `yaml:"time_limit"` // seconds
	// MaxIterations bounds genetic ticks; zero means unlimited.
	MaxIterations uint64 `yaml:"max_iterations"`
	NumVehicles   int    `yaml:"num_vehicles"`
	LogInterval   uint64 `yaml:"log_interval"`

	// Randomization
	Deterministic bool  `yaml:"deterministic"`
	Seed          int64 `yaml:"seed"`

	// Genetic algorithm
	MinPopulationSize               int     `yaml:"min_population_size"`
	InitialIndividuals              int     `yaml:"initial_individuals"`
	PopulationLambda                int     `yaml:"population_lambda"`
	NumElites                       int     `yaml:"num_elites"`
	NumDiversityClosest             int     `yaml:"num_diversity_closest"`
	FeasibilityProportionTarget     float64 `yaml:"feasibility_proportion_target"`
	TournamentSize                  int     `yaml:"tournament_size"`
	RepairProbability               float64 `yaml:"repair_probability"`
	MaxIterationsWithoutImprovement uint64  `yaml:"max_iterations_without_improvement"`

	// Split
	SplitCapacityFactor float64 `yaml:"split_capacity_factor"`
	LinearSplit         bool    `yaml:"linear_split"`

	// Local search
	LSEnabled              bool `yaml:"ls_enabled"`
	LocalSearchGranularity int  `yaml:"local_search_granularity"`
	DynamicGranularity     bool `yaml:"dynamic_granularity"`
	GranularityMin         int  `yaml:"granularity_min"`

	// Local search moves
	RelocateSingle        bool `yaml:"relocate_single"`
	RelocateDouble        bool `yaml:"relocate_double"`
	RelocateDoubleReverse bool `yaml:"relocate_double_reverse"`
	SwapOneWithOne        bool `yaml:"swap_one_with_one"`
	SwapTwoWithOne        bool `yaml:"swap_two_with_one"`
	SwapTwoWithTwo        bool `yaml:"swap_two_with_two"`
	TwoOptIntraReverse    bool `yaml:"two_opt_intra_reverse"`
	TwoOptInterReverse    bool `yaml:"two_opt_inter_reverse"`
	TwoOptInter           bool `yaml:"two_opt_inter"`
	SwapStar              bool `yaml:"swap_star"`

	// Penalties
	PenaltyCapacity       float64 `yaml:"penalty_capacity"`
	PenaltyUpdateInterval uint64  `yaml:"penalty_update_interval"`
	PenaltyIncMultiplier  float64 `yaml:"penalty_inc_multiplier"`
	PenaltyDecMultiplier  float64 `yaml:"penalty_dec_multiplier"`

	// Ruin and recreate
	AverageRuinCardinality int     `yaml:"average_ruin_cardinality"`
	MaxRuinStringLength    int     `yaml:"max_ruin_string_length"`
	RRMutation             bool    `yaml:"rr_mutation"`
	RRProbability          float64 `yaml:"rr_probability"`
	RRGamma                float64 `yaml:"rr_gamma"`
	RRFinalTemp            float64 `yaml:"rr_final_temp"`
	RRStartTemp            float64 `yaml:"rr_start_temp"`
	RRAcceptanceAlpha      float64 `yaml:"rr_acceptance_alpha"`

	// Elite education (ruin-and-recreate warm-up)
	EliteEducation                 bool    `yaml:"elite_education"`
	EliteEducationProblemSizeLimit int     `yaml:"elite_education_problem_size_limit"`
	EliteEducationGamma            float64 `yaml:"elite_education_gamma"`
	EliteEducationFinalTemp        float64 `yaml:"elite_education_final_temp"`
	EliteEducationStartTemp        float64 `yaml:"elite_education_start_temp"`

	// Problem preprocessing
	RoundDistances              bool `yaml:"round_distances"`
	PrecomputeDistanceSizeLimit int  `yaml:"precompute_distance_size_limit"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		// General
		SolutionPath:  "output.sol",
		TimeLimit:     60,
		MaxIterations: 20000,
		NumVehicles:   1000000,
		LogInterval:   100,

		// Randomization
		Deterministic: false,
		Seed:          1,

		// Genetic algorithm
		MinPopulationSize:               25,
		InitialIndividuals:              100,
		PopulationLambda:                40,
		NumElites:                       4,
		NumDiversityClosest:             5,
		FeasibilityProportionTarget:     0.2,
		TournamentSize:                  2,
		RepairProbability:               0.5,
		MaxIterationsWithoutImprovement: 10000,

		// Split
		SplitCapacityFactor: 1.5,
		LinearSplit:         true,

		// Local search
		LSEnabled:              true,
		LocalSearchGranularity: 20,
		DynamicGranularity:     false,
		GranularityMin:         10,

		// Local search moves
		RelocateSingle:        true,
		RelocateDouble:        true,
		RelocateDoubleReverse: false,
		SwapOneWithOne:        true,
		SwapTwoWithOne:        true,
		SwapTwoWithTwo:        true,
		TwoOptIntraReverse:    true,
		TwoOptInterReverse:    true,
		TwoOptInter:           true,
		SwapStar:              true,

		// Penalties
		PenaltyCapacity:       100.0,
		PenaltyUpdateInterval: 10,
		PenaltyIncMultiplier:  1.2,
		PenaltyDecMultiplier:  0.85,

		// Ruin and recreate
		AverageRuinCardinality: 10,
		MaxRuinStringLength:    10,
		RRMutation:             true,
		RRProbability:          1.0,
		RRGamma:                1.0,
		RRFinalTemp:            1.0,
		RRStartTemp:            10.0,
		RRAcceptanceAlpha:      0.8,

		// Elite education
		EliteEducation:                 false,
		EliteEducationProblemSizeLimit: 1,
		EliteEducationGamma:            1000.0,
		EliteEducationFinalTemp:        1.0,
		EliteEducationStartTemp:        50.0,

		// Problem preprocessing
		RoundDistances:              false,
		PrecomputeDistanceSizeLimit: 10000,
	}
}

// PatchYAML overlays the YAML document onto c. Unknown keys are ignored and
// keys absent from the document keep their current values.
func (c *Config) PatchYAML(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// PatchYAMLFile reads path and overlays it onto c.
func (c *Config) PatchYAMLFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return c.PatchYAML(data)
}

// Validate checks the startup invariants against the problem dimension.
func (c *Config) Validate(dim int) error {
	if c.FeasibilityProportionTarget < 0 || c.FeasibilityProportionTarget > 1 {
		return ErrTargetOutOfRange
	}
	if c.LocalSearchGranularity >= dim {
		return ErrGranularityTooLarge
	}
	if c.MinPopulationSize <= 0 || c.PopulationLambda <= 0 || c.TournamentSize <= 0 ||
		c.PenaltyUpdateInterval == 0 || c.InitialIndividuals <= 0 {
		return ErrNonPositiveSize
	}
	return nil
}

package progression

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// Config holds every tunable threshold of the engine. The values below
// come from the usual strength-training heuristics; treat them as
// configuration, not validated constants.
type Config struct {
	// plateau detection
	MinSessions            int     `toml:"min_sessions"`
	StagnationWeeks        int     `toml:"stagnation_weeks"`
	RPEElevationThreshold  float64 `toml:"rpe_elevation_threshold"`
	CompletionDropWindow   int     `toml:"completion_drop_window"`
	CompletionThreshold    float64 `toml:"completion_threshold"`
	FormDropThreshold      float64 `toml:"form_drop_threshold"`
	MinActiveIndicators    int     `toml:"min_active_indicators"`
	VolumePlateauThreshold float64 `toml:"volume_plateau_threshold"`

	// progression
	MinCompletionRate   float64 `toml:"min_completion_rate"`
	ProgressionRPELimit float64 `toml:"progression_rpe_limit"`
	DeloadRPEThreshold  float64 `toml:"deload_rpe_threshold"`
	TargetRPE           float64 `toml:"target_rpe"`
	CompoundIncrement   float64 `toml:"compound_increment"`
	IsolationIncrement  float64 `toml:"isolation_increment"`
	WeeklyIncreaseCap   float64 `toml:"weekly_increase_cap"`
	MinIncrease         float64 `toml:"min_increase"`
	WeightRoundingUnit  float64 `toml:"weight_rounding_unit"`
	StartWeightCompound float64 `toml:"start_weight_compound"`
	StartWeightIsolated float64 `toml:"start_weight_isolated"`

	// workout assembly
	MaxExercises     int     `toml:"max_exercises"`
	SetupMinutes     float64 `toml:"setup_minutes"`
	DurationBuffer   float64 `toml:"duration_buffer"`
	RetirementScore  float64 `toml:"retirement_score"`
	MaxNewExercises  int     `toml:"max_new_exercises"`
	MaxVariations    int     `toml:"max_variations"`
	SecondsPerRep    float64 `toml:"seconds_per_rep"`
	DeloadConfidence float64 `toml:"deload_confidence"`
}

func DefaultConfig() Config {
	return Config{
		MinSessions:            4,
		StagnationWeeks:        4,
		RPEElevationThreshold:  8.5,
		CompletionDropWindow:   4,
		CompletionThreshold:    0.80,
		FormDropThreshold:      0.15,
		MinActiveIndicators:    2,
		VolumePlateauThreshold: 0.10,

		MinCompletionRate:   0.85,
		ProgressionRPELimit: 7.5,
		DeloadRPEThreshold:  9.5,
		TargetRPE:           7.5,
		CompoundIncrement:   2.5,
		IsolationIncrement:  1.25,
		WeeklyIncreaseCap:   10,
		MinIncrease:         0.5,
		WeightRoundingUnit:  0.25,
		StartWeightCompound: 20,
		StartWeightIsolated: 10,

		MaxExercises:     6,
		SetupMinutes:     3,
		DurationBuffer:   1.2,
		RetirementScore:  30,
		MaxNewExercises:  2,
		MaxVariations:    5,
		SecondsPerRep:    3,
		DeloadConfidence: 60,
	}
}

// Validate rejects configurations that would make the engine produce
// nonsense. Called from NewEngine, so a bad config fails fast instead of
// surfacing as weird recommendations at runtime.
func (c Config) Validate() error {
	var err error

	checkRPE := func(name string, v float64) {
		if v < 1 || v > 10 {
			err = multierr.Append(err, fmt.Errorf("%s must be within [1, 10], got %v", name, v))
		}
	}
	checkRPE("rpe_elevation_threshold", c.RPEElevationThreshold)
	checkRPE("progression_rpe_limit", c.ProgressionRPELimit)
	checkRPE("deload_rpe_threshold", c.DeloadRPEThreshold)
	checkRPE("target_rpe", c.TargetRPE)

	checkRatio := func(name string, v float64) {
		if v <= 0 || v > 1 {
			err = multierr.Append(err, fmt.Errorf("%s must be within (0, 1], got %v", name, v))
		}
	}
	checkRatio("completion_threshold", c.CompletionThreshold)
	checkRatio("min_completion_rate", c.MinCompletionRate)
	checkRatio("form_drop_threshold", c.FormDropThreshold)
	checkRatio("volume_plateau_threshold", c.VolumePlateauThreshold)

	checkPositive := func(name string, v float64) {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			err = multierr.Append(err, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	checkPositive("compound_increment", c.CompoundIncrement)
	checkPositive("isolation_increment", c.IsolationIncrement)
	checkPositive("weekly_increase_cap", c.WeeklyIncreaseCap)
	checkPositive("min_increase", c.MinIncrease)
	checkPositive("weight_rounding_unit", c.WeightRoundingUnit)
	checkPositive("setup_minutes", c.SetupMinutes)
	checkPositive("seconds_per_rep", c.SecondsPerRep)

	if c.MinSessions < 1 {
		err = multierr.Append(err, fmt.Errorf("min_sessions must be at least 1, got %d", c.MinSessions))
	}
	if c.StagnationWeeks < 1 {
		err = multierr.Append(err, fmt.Errorf("stagnation_weeks must be at least 1, got %d", c.StagnationWeeks))
	}
	if c.CompletionDropWindow < 1 {
		err = multierr.Append(err, fmt.Errorf("completion_drop_window must be at least 1, got %d", c.CompletionDropWindow))
	}
	if c.MaxExercises < 1 {
		err = multierr.Append(err, fmt.Errorf("max_exercises must be at least 1, got %d", c.MaxExercises))
	}
	if c.DurationBuffer < 1 {
		err = multierr.Append(err, fmt.Errorf("duration_buffer must be at least 1, got %v", c.DurationBuffer))
	}

	return err
}

// RoundWeight quantizes a weight to the configured rounding unit.
// Idempotent: RoundWeight(RoundWeight(w)) == RoundWeight(w).
func (c Config) RoundWeight(w float64) float64 {
	if w <= 0 {
		return 0
	}
	return math.Round(w/c.WeightRoundingUnit) * c.WeightRoundingUnit
}

// Increment returns the base weight increment for the exercise type.
func (c Config) Increment(t ExerciseType) float64 {
	if t == ExerciseTypeIsolation {
		return c.IsolationIncrement
	}
	return c.CompoundIncrement
}

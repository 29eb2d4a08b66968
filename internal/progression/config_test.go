package progression_test

import (
	"testing"

	"github.com/fitforge/server/internal/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, progression.DefaultConfig().Validate())

	_, err := progression.NewEngine(progression.DefaultConfig())
	require.NoError(t, err)
}

func TestConfigValidate_CollectsAllProblems(t *testing.T) {
	cfg := progression.DefaultConfig()
	cfg.TargetRPE = 12
	cfg.MinCompletionRate = 0
	cfg.CompoundIncrement = -2.5
	cfg.MinSessions = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_rpe")
	assert.Contains(t, err.Error(), "min_completion_rate")
	assert.Contains(t, err.Error(), "compound_increment")
	assert.Contains(t, err.Error(), "min_sessions")

	_, engineErr := progression.NewEngine(cfg)
	assert.Error(t, engineErr)
}

func TestConfigValidate_DurationBuffer(t *testing.T) {
	cfg := progression.DefaultConfig()
	cfg.DurationBuffer = 0.8

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration_buffer")
}

func TestRoundWeight(t *testing.T) {
	cfg := progression.DefaultConfig()

	assert.Equal(t, 102.5, cfg.RoundWeight(102.4))
	assert.Equal(t, 102.5, cfg.RoundWeight(102.6))
	assert.Equal(t, 0.0, cfg.RoundWeight(-5))
	assert.Equal(t, 0.0, cfg.RoundWeight(0))

	// idempotent for any input
	for _, w := range []float64{0.1, 7.33, 20, 61.87, 140.01} {
		once := cfg.RoundWeight(w)
		assert.Equal(t, once, cfg.RoundWeight(once), "w=%v", w)
	}

	// plate-sized rounding unit
	cfg.WeightRoundingUnit = 2.5
	assert.Equal(t, 100.0, cfg.RoundWeight(101.2))
	assert.Equal(t, 102.5, cfg.RoundWeight(101.3))
}

func TestIncrementByExerciseType(t *testing.T) {
	cfg := progression.DefaultConfig()
	assert.Equal(t, 2.5, cfg.Increment(progression.ExerciseTypeCompound))
	assert.Equal(t, 1.25, cfg.Increment(progression.ExerciseTypeIsolation))
}

package progression_test

import (
	"testing"

	"github.com/fitforge/server/internal/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectStrategy_PriorityOrder(t *testing.T) {
	engine := progression.NewDefaultEngine()

	deloadDetection := progression.PlateauDetection{RecommendedAction: progression.ActionDeloadProtocol}
	noDetection := progression.PlateauDetection{RecommendedAction: progression.ActionMaintainCurrent}

	sessions := steadyProgressSessions(4, 100, 2.5, 7.5)

	// no history at all always starts linear, regardless of type
	assert.Equal(t, progression.StrategyLinear,
		engine.SelectStrategy(isolationHistory("curl", nil), progression.ExerciseMetrics{}, deloadDetection))

	// plateau-driven deload beats everything
	assert.Equal(t, progression.StrategyDeload,
		engine.SelectStrategy(compoundHistory("squat", sessions),
			progression.ExerciseMetrics{AverageRPE: 7.0, HasReliableRPEData: true}, deloadDetection))

	// raw RPE above the deload threshold
	assert.Equal(t, progression.StrategyDeload,
		engine.SelectStrategy(compoundHistory("squat", sessions),
			progression.ExerciseMetrics{AverageRPE: 9.8}, noDetection))

	// isolation work uses double progression
	assert.Equal(t, progression.StrategyDouble,
		engine.SelectStrategy(isolationHistory("curl", sessions),
			progression.ExerciseMetrics{AverageRPE: 7.0, HasReliableRPEData: true}, noDetection))

	// compound with set-level RPE history auto-regulates
	assert.Equal(t, progression.StrategyAutoRegulation,
		engine.SelectStrategy(compoundHistory("squat", sessions),
			progression.ExerciseMetrics{AverageRPE: 7.0, HasReliableRPEData: true}, noDetection))

	// compound without reliable RPE falls back to linear
	assert.Equal(t, progression.StrategyLinear,
		engine.SelectStrategy(compoundHistory("squat", sessions),
			progression.ExerciseMetrics{AverageRPE: 7.0}, noDetection))
}

// 8 sessions of clean progress at RPE 7.5, top weight 117.5: the lifter
// is ready and gets the standard +2.5 compound increment.
func TestRecommendExercise_SteadyCompoundProgress(t *testing.T) {
	engine := progression.NewDefaultEngine()
	history := compoundHistory("barbell-squat", steadyProgressSessions(8, 117.5, 2.5, 7.5))

	rec, err := engine.RecommendExercise(history, progression.DefaultAdaptationProfile(), testDay)
	require.NoError(t, err)

	assert.Equal(t, progression.StrategyLinear, rec.Strategy)
	assert.Equal(t, 120.0, rec.Suggestion.SuggestedWeight)
	assert.Equal(t, 2.5, rec.Suggestion.IncreaseAmount)
	assert.Equal(t, progression.ConfidenceHigh, rec.Suggestion.ConfidenceLevel)
	assert.Equal(t, 120.0, rec.NextPlan.TargetWeight)
	assert.Equal(t, 8, rec.NextPlan.TargetReps)
	assert.Equal(t, 3, rec.NextPlan.TargetSets)
	assert.Equal(t, 180, rec.NextPlan.RestTimeSeconds)
}

// The latest session's exertion reshapes the next plan: a grinder drops
// a set and earns longer rest, an easy session adds a set and extra reps.
func TestRecommendExercise_ExertionReshapesNextPlan(t *testing.T) {
	engine := progression.NewDefaultEngine()
	profile := progression.DefaultAdaptationProfile()

	hard, err := engine.RecommendExercise(
		compoundHistory("barbell-squat", steadyProgressSessions(6, 100, 2.5, 9.3)), profile, testDay)
	require.NoError(t, err)
	assert.Equal(t, -1, hard.Autoregulation.Modification.SetAdjustment)
	assert.Equal(t, 30, hard.Autoregulation.Modification.RestAdjustmentSec)
	assert.Equal(t, 2, hard.NextPlan.TargetSets)
	assert.Equal(t, 8, hard.NextPlan.TargetReps)
	assert.Equal(t, 210, hard.NextPlan.RestTimeSeconds)

	easy, err := engine.RecommendExercise(
		compoundHistory("barbell-squat", steadyProgressSessions(6, 100, 2.5, 5.0)), profile, testDay)
	require.NoError(t, err)
	assert.Equal(t, 1, easy.Autoregulation.Modification.SetAdjustment)
	assert.Equal(t, 2, easy.Autoregulation.Modification.RepAdjustment)
	assert.Equal(t, 4, easy.NextPlan.TargetSets)
	assert.Equal(t, 10, easy.NextPlan.TargetReps)
	assert.Equal(t, 180, easy.NextPlan.RestTimeSeconds)

	// moderate exertion leaves the carried-forward targets untouched
	steady, err := engine.RecommendExercise(
		compoundHistory("barbell-squat", steadyProgressSessions(6, 100, 2.5, 7.5)), profile, testDay)
	require.NoError(t, err)
	assert.Zero(t, steady.Autoregulation.Modification.SetAdjustment)
	assert.Equal(t, 3, steady.NextPlan.TargetSets)
	assert.Equal(t, 180, steady.NextPlan.RestTimeSeconds)
}

// A grinder on a single-set plan still keeps at least one working set.
func TestRecommendExercise_PlanNeverDropsBelowOneSet(t *testing.T) {
	engine := progression.NewDefaultEngine()
	history := compoundHistory("barbell-squat", buildSessions([]sessionSpec{
		{weight: 100, targetReps: 8, targetSets: 1, reps: []int{8}, rpe: floatPtr(9.5), completed: true},
		{weight: 100, targetReps: 8, targetSets: 1, reps: []int{8}, rpe: floatPtr(9.5), completed: true},
	}))

	rec, err := engine.RecommendExercise(history, progression.DefaultAdaptationProfile(), testDay)
	require.NoError(t, err)
	assert.Equal(t, -1, rec.Autoregulation.Modification.SetAdjustment)
	assert.Equal(t, 1, rec.NextPlan.TargetSets)
}

func TestRecommendExercise_NoHistoryStartWeights(t *testing.T) {
	engine := progression.NewDefaultEngine()
	profile := progression.DefaultAdaptationProfile()

	compound, err := engine.RecommendExercise(compoundHistory("barbell-squat", nil), profile, testDay)
	require.NoError(t, err)
	assert.Equal(t, progression.StrategyLinear, compound.Strategy)
	assert.Equal(t, 20.0, compound.Suggestion.SuggestedWeight)
	assert.Equal(t, progression.ConfidenceMedium, compound.Suggestion.ConfidenceLevel)

	isolation, err := engine.RecommendExercise(isolationHistory("bicep-curl", nil), profile, testDay)
	require.NoError(t, err)
	assert.Equal(t, progression.StrategyLinear, isolation.Strategy)
	assert.Equal(t, 10.0, isolation.Suggestion.SuggestedWeight)
	assert.Equal(t, progression.ConfidenceMedium, isolation.Suggestion.ConfidenceLevel)
}

func TestRecommendExercise_RejectsEmptySession(t *testing.T) {
	engine := progression.NewDefaultEngine()
	history := compoundHistory("deadlift", []progression.WorkoutSession{
		{Date: testDay, TargetReps: 5, TargetSets: 3},
	})

	rec, err := engine.RecommendExercise(history, progression.DefaultAdaptationProfile(), testDay)
	require.Nil(t, rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, progression.ErrEmptySession)

	var exErr *progression.ExerciseError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, "deadlift", exErr.ExerciseID)
}

func TestGenerateSuggestion_DoubleProgression(t *testing.T) {
	engine := progression.NewDefaultEngine()
	profile := progression.DefaultAdaptationProfile()

	// every set two reps over target: weight goes up
	exceeded := isolationHistory("bicep-curl", buildSessions([]sessionSpec{
		{weight: 12.5, targetReps: 10, targetSets: 3, reps: []int{12, 12, 12}, completed: true},
		{weight: 12.5, targetReps: 10, targetSets: 3, reps: []int{11, 11, 10}, completed: true},
		{weight: 12.5, targetReps: 10, targetSets: 3, reps: []int{10, 10, 10}, completed: true},
	}))
	metrics := engine.AnalyzeMetrics(exceeded)
	suggestion := engine.GenerateSuggestion(exceeded, metrics, progression.StrategyDouble, profile)
	assert.Equal(t, 13.75, suggestion.SuggestedWeight)

	// targets not exceeded yet: hold the weight, add reps
	building := isolationHistory("bicep-curl", buildSessions([]sessionSpec{
		{weight: 12.5, targetReps: 10, targetSets: 3, reps: []int{11, 10, 10}, completed: true},
		{weight: 12.5, targetReps: 10, targetSets: 3, reps: []int{10, 10, 10}, completed: true},
	}))
	metrics = engine.AnalyzeMetrics(building)
	suggestion = engine.GenerateSuggestion(building, metrics, progression.StrategyDouble, profile)
	assert.Equal(t, 12.5, suggestion.SuggestedWeight)
	assert.Zero(t, suggestion.IncreaseAmount)
}

func TestGenerateSuggestion_Deload(t *testing.T) {
	engine := progression.NewDefaultEngine()
	history := compoundHistory("bench-press", steadyProgressSessions(6, 100, 0, 9.8))

	metrics := engine.AnalyzeMetrics(history)
	suggestion := engine.GenerateSuggestion(history, metrics, progression.StrategyDeload, progression.DefaultAdaptationProfile())

	assert.Equal(t, 90.0, suggestion.SuggestedWeight)
	assert.Equal(t, -10.0, suggestion.IncreaseAmount)
}

// Holding everything else fixed, a higher reported RPE must never produce
// a heavier suggestion.
func TestGenerateSuggestion_AutoRegulationMonotonic(t *testing.T) {
	engine := progression.NewDefaultEngine()
	profile := progression.DefaultAdaptationProfile()

	buildWithRPE := func(rpe float64) progression.ExerciseHistory {
		sessions := steadyProgressSessions(5, 100, 2.5, rpe)
		for i := range sessions {
			for j := range sessions[i].Sets {
				sessions[i].Sets[j].RPE = floatPtr(rpe)
			}
		}
		return compoundHistory("barbell-squat", sessions)
	}

	var previous float64 = 1e9
	for _, rpe := range []float64{5.0, 6.0, 6.5, 7.0, 7.5, 8.0, 8.5, 9.0} {
		history := buildWithRPE(rpe)
		metrics := engine.AnalyzeMetrics(history)
		suggestion := engine.GenerateSuggestion(history, metrics, progression.StrategyAutoRegulation, profile)
		assert.LessOrEqual(t, suggestion.SuggestedWeight, previous, "rpe=%v", rpe)
		previous = suggestion.SuggestedWeight
	}
}

func TestGenerateSuggestion_AutoRegulationClampsDelta(t *testing.T) {
	engine := progression.NewDefaultEngine()
	history := compoundHistory("barbell-squat", steadyProgressSessions(5, 100, 2.5, 1.0))

	metrics := engine.AnalyzeMetrics(history)
	suggestion := engine.GenerateSuggestion(history, metrics, progression.StrategyAutoRegulation, progression.DefaultAdaptationProfile())

	// (7.5 - 1.0) * 2.5 would be +16.25, clamped to two increments
	assert.Equal(t, 105.0, suggestion.SuggestedWeight)
}

func TestGenerateSuggestion_WeeklyIncreaseCap(t *testing.T) {
	cfg := progression.DefaultConfig()
	cfg.CompoundIncrement = 15
	engine, err := progression.NewEngine(cfg)
	require.NoError(t, err)

	history := compoundHistory("barbell-squat", steadyProgressSessions(6, 100, 2.5, 7.5))
	metrics := engine.AnalyzeMetrics(history)
	require.True(t, metrics.ReadyForProgression)

	suggestion := engine.GenerateSuggestion(history, metrics, progression.StrategyLinear, progression.DefaultAdaptationProfile())

	// +15 would exceed the 10/week cap, so the weight repeats
	assert.Equal(t, 100.0, suggestion.SuggestedWeight)
	assert.Zero(t, suggestion.IncreaseAmount)
}

func TestGenerateSuggestion_AlternativeLadder(t *testing.T) {
	engine := progression.NewDefaultEngine()
	history := compoundHistory("barbell-squat", steadyProgressSessions(8, 117.5, 2.5, 7.5))

	metrics := engine.AnalyzeMetrics(history)
	suggestion := engine.GenerateSuggestion(history, metrics, progression.StrategyLinear, progression.DefaultAdaptationProfile())
	require.Equal(t, 120.0, suggestion.SuggestedWeight)

	assert.Equal(t, []float64{117.5, 118.75, 121.25, 122.5}, suggestion.AlternativeWeights)
	for _, alt := range suggestion.AlternativeWeights {
		assert.NotEqual(t, suggestion.SuggestedWeight, alt)
		assert.Positive(t, alt)
	}
}

func TestTargetRPEFollowsStyle(t *testing.T) {
	engine := progression.NewDefaultEngine()

	conservative := progression.DefaultAdaptationProfile()
	conservative.PreferredStyle = progression.StyleConservative
	aggressive := progression.DefaultAdaptationProfile()
	aggressive.PreferredStyle = progression.StyleAggressive

	history := compoundHistory("barbell-squat", steadyProgressSessions(4, 100, 2.5, 7.5))

	standard, err := engine.RecommendExercise(history, progression.DefaultAdaptationProfile(), testDay)
	require.NoError(t, err)
	low, err := engine.RecommendExercise(history, conservative, testDay)
	require.NoError(t, err)
	high, err := engine.RecommendExercise(history, aggressive, testDay)
	require.NoError(t, err)

	assert.Equal(t, 7.5, standard.NextPlan.TargetRPE)
	assert.Equal(t, 7.0, low.NextPlan.TargetRPE)
	assert.Equal(t, 8.0, high.NextPlan.TargetRPE)
}

package progression_test

import (
	"testing"

	"github.com/fitforge/server/internal/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 12 sessions: weight flat at 100 for the last 4, elevated RPE trending
// up, completion dropping. All three session-level indicators fire and
// the combined evidence points at a deload.
func TestDetectPlateau_GrindingStall(t *testing.T) {
	engine := progression.NewDefaultEngine()

	specs := []sessionSpec{
		{weight: 100, targetReps: 10, targetSets: 2, reps: []int{7, 7}, rpe: floatPtr(9.6)},
		{weight: 100, targetReps: 10, targetSets: 2, reps: []int{8, 7}, rpe: floatPtr(9.3)},
		{weight: 100, targetReps: 10, targetSets: 2, reps: []int{8, 7}, rpe: floatPtr(9.0)},
		{weight: 100, targetReps: 10, targetSets: 2, reps: []int{8, 7}, rpe: floatPtr(8.6)},
	}
	for i := 0; i < 8; i++ {
		specs = append(specs, sessionSpec{
			weight:     97.5 - float64(i)*2.5,
			targetReps: 10,
			targetSets: 2,
			reps:       []int{10, 10},
			rpe:        floatPtr(7.5),
			completed:  true,
		})
	}
	history := compoundHistory("bench-press", buildSessions(specs))

	detection := engine.DetectPlateau(history, testDay)

	assert.True(t, detection.Active.WeightStagnation)
	assert.True(t, detection.Active.RPEElevation)
	assert.True(t, detection.Active.CompletionDrop)
	assert.False(t, detection.Active.FormDegradation)
	assert.Greater(t, detection.PlateauConfidence, 70.0)
	assert.Equal(t, progression.ActionDeloadProtocol, detection.RecommendedAction)
	assert.Equal(t, progression.EvidenceHigh, detection.EvidenceStrength)
	assert.Len(t, detection.Indicators, 3)
	assert.Equal(t, testDay.AddDate(0, 0, 14), detection.NextEvaluationDate)
}

// 8 sessions of clean +2.5/session progress at a steady RPE must not
// look like a plateau.
func TestDetectPlateau_SteadyProgress(t *testing.T) {
	engine := progression.NewDefaultEngine()
	history := compoundHistory("barbell-squat", steadyProgressSessions(8, 117.5, 2.5, 7.5))

	detection := engine.DetectPlateau(history, testDay)

	assert.Less(t, detection.PlateauConfidence, 30.0)
	assert.False(t, detection.Active.WeightStagnation)
	assert.False(t, detection.Active.RPEElevation)
	assert.False(t, detection.Active.CompletionDrop)
	assert.Equal(t, progression.ActionMaintainCurrent, detection.RecommendedAction)
	assert.Equal(t, progression.EvidenceLow, detection.EvidenceStrength)
}

func TestDetectPlateau_InsufficientHistory(t *testing.T) {
	engine := progression.NewDefaultEngine()
	history := compoundHistory("deadlift", steadyProgressSessions(3, 140, 2.5, 8))

	detection := engine.DetectPlateau(history, testDay)

	assert.Zero(t, detection.PlateauConfidence)
	assert.Equal(t, progression.EvidenceLow, detection.EvidenceStrength)
	assert.False(t, detection.Active.WeightStagnation)
	assert.False(t, detection.Active.RPEElevation)
	assert.False(t, detection.Active.CompletionDrop)
	assert.False(t, detection.Active.FormDegradation)
	assert.Empty(t, detection.Indicators)
}

func TestDetectPlateau_StagnationSeverityScalesWithDuration(t *testing.T) {
	engine := progression.NewDefaultEngine()

	buildFlat := func(flatWeeks int) progression.ExerciseHistory {
		specs := make([]sessionSpec, 0, flatWeeks+4)
		for i := 0; i < flatWeeks; i++ {
			specs = append(specs, sessionSpec{
				weight: 80, targetReps: 8, targetSets: 3,
				reps: []int{8, 8, 8}, rpe: floatPtr(7.0), completed: true,
			})
		}
		for i := 0; i < 4; i++ {
			specs = append(specs, sessionSpec{
				weight: 77.5 - float64(i)*2.5, targetReps: 8, targetSets: 3,
				reps: []int{8, 8, 8}, rpe: floatPtr(7.0), completed: true,
			})
		}
		return compoundHistory("overhead-press", buildSessions(specs))
	}

	for _, tc := range []struct {
		flatWeeks int
		severity  progression.Severity
	}{
		{flatWeeks: 4, severity: progression.SeverityMild},
		{flatWeeks: 5, severity: progression.SeverityModerate},
		{flatWeeks: 6, severity: progression.SeveritySevere},
		{flatWeeks: 8, severity: progression.SeveritySevere},
	} {
		detection := engine.DetectPlateau(buildFlat(tc.flatWeeks), testDay)
		require.True(t, detection.Active.WeightStagnation, "flatWeeks=%d", tc.flatWeeks)
		require.NotEmpty(t, detection.Indicators)
		assert.Equal(t, tc.severity, detection.Indicators[0].Severity, "flatWeeks=%d", tc.flatWeeks)
		assert.Equal(t, tc.flatWeeks, detection.Indicators[0].WeeksDuration)
	}
}

func TestDetectPlateau_FormDegradation(t *testing.T) {
	engine := progression.NewDefaultEngine()

	// recent form well below baseline, everything else healthy
	specs := make([]sessionSpec, 0, 8)
	for i := 0; i < 4; i++ {
		specs = append(specs, sessionSpec{
			weight: 60 - float64(i)*1.25, targetReps: 10, targetSets: 3,
			reps: []int{10, 10, 10}, rpe: floatPtr(7.0),
			formScore: floatPtr(6.0), completed: true,
		})
	}
	for i := 0; i < 4; i++ {
		specs = append(specs, sessionSpec{
			weight: 55 - float64(i)*1.25, targetReps: 10, targetSets: 3,
			reps: []int{10, 10, 10}, rpe: floatPtr(7.0),
			formScore: floatPtr(8.5), completed: true,
		})
	}
	history := compoundHistory("barbell-row", buildSessions(specs))

	detection := engine.DetectPlateau(history, testDay)

	require.True(t, detection.Active.FormDegradation)
	assert.Equal(t, progression.ActionTechniqueFocus, detection.RecommendedAction)
}

func TestDetectPlateau_ConfidenceAlwaysInRange(t *testing.T) {
	engine := progression.NewDefaultEngine()

	histories := []progression.ExerciseHistory{
		compoundHistory("a", nil),
		compoundHistory("b", steadyProgressSessions(1, 50, 2.5, 7)),
		compoundHistory("c", steadyProgressSessions(20, 150, 0, 9.9)),
		isolationHistory("d", steadyProgressSessions(12, 30, 1.25, 5)),
	}
	for _, history := range histories {
		detection := engine.DetectPlateau(history, testDay)
		assert.GreaterOrEqual(t, detection.PlateauConfidence, 0.0)
		assert.LessOrEqual(t, detection.PlateauConfidence, 100.0)
	}
}

// weekly volumes 1000, 1000, 1050: a 5% rise is below the 10% threshold
// and counts as a volume plateau
func TestCheckVolumePlateau(t *testing.T) {
	engine := progression.NewDefaultEngine()

	result := engine.CheckVolumePlateau([]float64{1000, 1000, 1050})
	assert.True(t, result.IsPlateaued)
	assert.InDelta(t, 5.0, result.IncreasePercent, 0.001)

	result = engine.CheckVolumePlateau([]float64{1000, 1100, 1250})
	assert.False(t, result.IsPlateaued)

	// zero baseline must degrade to a neutral result, not NaN
	result = engine.CheckVolumePlateau([]float64{0, 500})
	assert.False(t, result.IsPlateaued)
	assert.Zero(t, result.IncreasePercent)

	result = engine.CheckVolumePlateau(nil)
	assert.False(t, result.IsPlateaued)
}

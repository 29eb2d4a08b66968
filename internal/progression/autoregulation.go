package progression

// autoregDefaultRPE is assumed for the most recent session when it has
// no RPE data; slightly above the all-session default to bias the
// real-time adjustment toward caution.
const autoregDefaultRPE = 7.5

type SessionModification struct {
	SetAdjustment     int    `json:"setAdjustment"`
	RepAdjustment     int    `json:"repAdjustment"`
	RestAdjustmentSec int    `json:"restAdjustmentSec"`
	Note              string `json:"note,omitempty"`
}

type AutoregulationResult struct {
	AverageRPE           float64             `json:"averageRpe"`
	TargetRPE            float64             `json:"targetRpe"`
	Deviation            float64             `json:"deviation"`
	WeightAdjustment     float64             `json:"weightAdjustment"`
	Modification         SessionModification `json:"sessionModification"`
	PredictionConfidence float64             `json:"predictionConfidence"`
}

// Autoregulate derives the real-time adjustment for the next session
// from the most recent session's perceived exertion. Holding everything
// else fixed, a higher average RPE never yields a larger weight
// adjustment.
func (e *Engine) Autoregulate(history ExerciseHistory, profile UserAdaptationProfile) AutoregulationResult {
	actual := autoregDefaultRPE
	if len(history.Sessions) > 0 {
		if rpe, ok := history.Sessions[0].SessionRPE(); ok {
			actual = rpe
		}
	}

	target := e.targetRPE(profile)
	deviation := actual - target
	increment := e.cfg.Increment(history.Type)

	var adjustment float64
	switch {
	case deviation > 1.0:
		adjustment = -increment / 2
	case deviation < -1.0:
		adjustment = increment / 2
	case deviation > 0.5:
		adjustment = -increment / 4
	case deviation < -0.5:
		adjustment = increment / 4
	}

	result := AutoregulationResult{
		AverageRPE:           actual,
		TargetRPE:            target,
		Deviation:            deviation,
		WeightAdjustment:     adjustment,
		PredictionConfidence: 50,
	}
	if len(history.Sessions) >= 3 {
		result.PredictionConfidence = 75
	}

	switch {
	case actual > 9.0:
		result.Modification = SessionModification{
			SetAdjustment:     -1,
			RestAdjustmentSec: 30,
			Note:              "very high exertion, dropping a set and extending rest",
		}
	case actual < 6.0:
		result.Modification = SessionModification{
			SetAdjustment: 1,
			RepAdjustment: 2,
			Note:          "low exertion, adding a set and extra reps",
		}
	}

	return result
}

package progression

type DeloadType string

const (
	DeloadIntensity DeloadType = "intensity_deload"
	DeloadVolume    DeloadType = "volume_deload"
	DeloadComplete  DeloadType = "complete_deload"
	DeloadTechnique DeloadType = "technique_deload"
)

// RampWeek holds the intensity/volume level, as a percentage of normal
// training, for one week of the return ramp.
type RampWeek struct {
	Week             int     `json:"week"`
	IntensityPercent float64 `json:"intensityPercent"`
	VolumePercent    float64 `json:"volumePercent"`
}

type DeloadProtocol struct {
	Type                      DeloadType `json:"type"`
	IntensityReductionPercent float64    `json:"intensityReductionPercent"`
	VolumeReductionPercent    float64    `json:"volumeReductionPercent"`
	DurationWeeks             int        `json:"durationWeeks"`
	ReturnRamp                []RampWeek `json:"returnRamp"`
}

type deloadReduction struct {
	intensity float64
	volume    float64
}

var deloadReductions = map[DeloadType]deloadReduction{
	DeloadIntensity: {intensity: 15, volume: 0},
	DeloadVolume:    {intensity: 0, volume: 40},
	DeloadComplete:  {intensity: 20, volume: 50},
	DeloadTechnique: {intensity: 25, volume: 20},
}

// GenerateDeload produces a deload protocol plus a 3-week return ramp.
// Returns nil when neither the plateau confidence nor the overtraining
// indicators warrant one.
func (e *Engine) GenerateDeload(
	history ExerciseHistory,
	detection PlateauDetection,
	profile UserAdaptationProfile,
) *DeloadProtocol {
	if detection.PlateauConfidence < e.cfg.DeloadConfidence && !e.overtrainingPresent(history) {
		return nil
	}

	deloadType := DeloadVolume
	switch {
	case detection.Active.FormDegradation:
		deloadType = DeloadTechnique
	case detection.Active.RPEElevation && detection.Active.CompletionDrop:
		deloadType = DeloadComplete
	case detection.Active.RPEElevation:
		deloadType = DeloadIntensity
	}

	reduction := deloadReductions[deloadType]

	duration := 2
	switch profile.RecoveryCapacity {
	case RecoveryHigh:
		duration = 1
	case RecoveryLow:
		duration = 3
	}

	// ramp back over 3 weeks, restoring 70% / 40% / 0% of the reduction
	rampFactors := []float64{0.7, 0.4, 0}
	ramp := make([]RampWeek, 0, len(rampFactors))
	for i, f := range rampFactors {
		ramp = append(ramp, RampWeek{
			Week:             i + 1,
			IntensityPercent: 100 - reduction.intensity*f,
			VolumePercent:    100 - reduction.volume*f,
		})
	}

	return &DeloadProtocol{
		Type:                      deloadType,
		IntensityReductionPercent: reduction.intensity,
		VolumeReductionPercent:    reduction.volume,
		DurationWeeks:             duration,
		ReturnRamp:                ramp,
	}
}

// overtrainingPresent checks for at least 4 recent sessions with mean
// RPE above 9.0 combined with mean completion below 0.75.
func (e *Engine) overtrainingPresent(history ExerciseHistory) bool {
	window := recentSessions(history, 4)
	if len(window) < 4 {
		return false
	}

	var rpeSum, completionSum float64
	var rpeCount int
	for _, s := range window {
		if rpe, ok := s.SessionRPE(); ok {
			rpeSum += rpe
			rpeCount++
		}
		completionSum += s.CompletionRatio()
	}
	if rpeCount == 0 {
		return false
	}

	meanRPE := rpeSum / float64(rpeCount)
	meanCompletion := completionSum / float64(len(window))
	return meanRPE > 9.0 && meanCompletion < 0.75
}

package progression

import "time"

type TrainingPhase string

const (
	PhaseStrength    TrainingPhase = "strength"
	PhaseHypertrophy TrainingPhase = "hypertrophy"
	PhasePower       TrainingPhase = "power"
	PhaseDeload      TrainingPhase = "deload"
	PhaseTechnique   TrainingPhase = "technique"
)

// PhaseParameters are the static training parameters for a phase.
type PhaseParameters struct {
	RepsRange        [2]int     `json:"repsRange"`
	SetsRange        [2]int     `json:"setsRange"`
	IntensityPercent [2]int     `json:"intensityPercent"`
	RPERange         [2]float64 `json:"rpeRange"`
	RestSeconds      int        `json:"restSeconds"`
}

type MicrocycleDay struct {
	Day       int    `json:"day"`
	Focus     string `json:"focus"`
	Intensity string `json:"intensity"`
}

var phaseParameters = map[TrainingPhase]PhaseParameters{
	PhaseStrength: {
		RepsRange:        [2]int{3, 6},
		SetsRange:        [2]int{4, 6},
		IntensityPercent: [2]int{80, 92},
		RPERange:         [2]float64{7.5, 9},
		RestSeconds:      180,
	},
	PhaseHypertrophy: {
		RepsRange:        [2]int{8, 12},
		SetsRange:        [2]int{3, 5},
		IntensityPercent: [2]int{65, 78},
		RPERange:         [2]float64{7, 8.5},
		RestSeconds:      90,
	},
	PhasePower: {
		RepsRange:        [2]int{2, 5},
		SetsRange:        [2]int{4, 6},
		IntensityPercent: [2]int{75, 90},
		RPERange:         [2]float64{7, 8.5},
		RestSeconds:      180,
	},
	PhaseDeload: {
		RepsRange:        [2]int{8, 10},
		SetsRange:        [2]int{2, 3},
		IntensityPercent: [2]int{50, 65},
		RPERange:         [2]float64{5, 6.5},
		RestSeconds:      120,
	},
	PhaseTechnique: {
		RepsRange:        [2]int{5, 8},
		SetsRange:        [2]int{3, 4},
		IntensityPercent: [2]int{55, 70},
		RPERange:         [2]float64{5.5, 7},
		RestSeconds:      120,
	},
}

var phaseMicrocycles = map[TrainingPhase][]MicrocycleDay{
	PhaseStrength: {
		{Day: 1, Focus: "heavy singles and triples", Intensity: "high"},
		{Day: 2, Focus: "speed work at moderate load", Intensity: "moderate"},
		{Day: 3, Focus: "back-off volume", Intensity: "moderate"},
	},
	PhaseHypertrophy: {
		{Day: 1, Focus: "high-volume compounds", Intensity: "moderate"},
		{Day: 2, Focus: "isolation pump work", Intensity: "low"},
		{Day: 3, Focus: "heavier top sets", Intensity: "high"},
	},
	PhasePower: {
		{Day: 1, Focus: "explosive doubles", Intensity: "high"},
		{Day: 2, Focus: "dynamic effort", Intensity: "moderate"},
		{Day: 3, Focus: "technique under load", Intensity: "moderate"},
	},
	PhaseDeload: {
		{Day: 1, Focus: "light movement practice", Intensity: "low"},
		{Day: 2, Focus: "mobility and recovery", Intensity: "low"},
		{Day: 3, Focus: "easy full-body session", Intensity: "low"},
	},
	PhaseTechnique: {
		{Day: 1, Focus: "slow eccentrics", Intensity: "low"},
		{Day: 2, Focus: "paused reps", Intensity: "moderate"},
		{Day: 3, Focus: "positional drills", Intensity: "low"},
	},
}

// phase cycling used when the current phase stops being productive
var nextPhaseCycle = map[TrainingPhase]TrainingPhase{
	PhaseStrength:    PhaseHypertrophy,
	PhaseHypertrophy: PhaseStrength,
	PhasePower:       PhaseStrength,
	PhaseDeload:      PhaseHypertrophy,
	PhaseTechnique:   PhaseStrength,
}

type PhaseRecommendation struct {
	CurrentPhase     TrainingPhase   `json:"currentPhase"`
	RecommendedPhase TrainingPhase   `json:"recommendedPhase"`
	ShouldTransition bool            `json:"shouldTransition"`
	PhaseOptimality  float64         `json:"phaseOptimality"`
	TransitionDate   time.Time       `json:"transitionDate"`
	Parameters       PhaseParameters `json:"parameters"`
	Microcycle       []MicrocycleDay `json:"microcycle"`
}

// PlanPhase infers the current training phase from the most recent
// session, scores how well it is working, and recommends a transition
// when it is not.
func (e *Engine) PlanPhase(
	history ExerciseHistory,
	metrics ExerciseMetrics,
	detection PlateauDetection,
	asOf time.Time,
) PhaseRecommendation {
	current := e.inferPhase(history)

	optimality := clampPercent(e.recentProgressScore(history)*50 + e.adherenceScore(history)*50)

	rec := PhaseRecommendation{
		CurrentPhase:     current,
		RecommendedPhase: current,
		PhaseOptimality:  optimality,
	}

	if optimality < 60 || detection.PlateauConfidence > 50 {
		rec.ShouldTransition = true
		switch detection.RecommendedAction {
		case ActionDeloadProtocol:
			rec.RecommendedPhase = PhaseDeload
		case ActionTechniqueFocus:
			rec.RecommendedPhase = PhaseTechnique
		default:
			rec.RecommendedPhase = nextPhaseCycle[current]
		}
	}

	transitionDays := 14
	if optimality < 40 {
		transitionDays = 7
	}
	rec.TransitionDate = asOf.AddDate(0, 0, transitionDays)

	rec.Parameters = phaseParameters[rec.RecommendedPhase]
	rec.Microcycle = phaseMicrocycles[rec.RecommendedPhase]
	return rec
}

// inferPhase buckets on average reps per set of the most recent
// session. The buckets overlap on purpose, this is a heuristic and not a
// strict partition: very low reps read as strength, 4-5 as power, 6-8 as
// strength again, more as hypertrophy.
func (e *Engine) inferPhase(history ExerciseHistory) TrainingPhase {
	if len(history.Sessions) == 0 {
		return PhaseHypertrophy
	}
	latest := history.Sessions[0]
	if len(latest.Sets) == 0 {
		return PhaseHypertrophy
	}
	var reps int
	for _, set := range latest.Sets {
		reps += set.Reps
	}
	avg := float64(reps) / float64(len(latest.Sets))

	switch {
	case avg <= 3:
		return PhaseStrength
	case avg <= 5:
		return PhasePower
	case avg <= 8:
		return PhaseStrength
	default:
		return PhaseHypertrophy
	}
}

// recentProgressScore is the fraction of recent session-to-session
// transitions where the top weight went up, normalized 0-1.
func (e *Engine) recentProgressScore(history ExerciseHistory) float64 {
	weights := topWeights(recentSessions(history, trendWindow))
	if len(weights) < 2 {
		return 0.5
	}
	var gains int
	for i := 0; i < len(weights)-1; i++ {
		if weights[i] > weights[i+1] {
			gains++
		}
	}
	return float64(gains) / float64(len(weights)-1)
}

// adherenceScore is the mean completion ratio over the recent window.
func (e *Engine) adherenceScore(history ExerciseHistory) float64 {
	window := recentSessions(history, trendWindow)
	if len(window) == 0 {
		return 0.5
	}
	var sum float64
	for _, s := range window {
		sum += s.CompletionRatio()
	}
	return sum / float64(len(window))
}

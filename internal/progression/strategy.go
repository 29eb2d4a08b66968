package progression

import (
	"fmt"
	"math"
	"sort"
	"time"
)

type Strategy string

const (
	StrategyLinear         Strategy = "linear_progression"
	StrategyDouble         Strategy = "double_progression"
	StrategyAutoRegulation Strategy = "auto_regulation"
	StrategyDeload         Strategy = "deload_protocol"
	StrategyWave           Strategy = "wave_loading"
)

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

type WeightSuggestion struct {
	SuggestedWeight    float64         `json:"suggestedWeight"`
	ConfidenceLevel    ConfidenceLevel `json:"confidenceLevel"`
	Reasoning          string          `json:"reasoning"`
	IncreaseAmount     float64         `json:"increaseAmount"`
	AlternativeWeights []float64       `json:"alternativeWeights"`
	LastSessionSummary string          `json:"lastSessionSummary"`
}

type NextSessionPlan struct {
	TargetWeight    float64 `json:"targetWeight"`
	TargetReps      int     `json:"targetReps"`
	TargetSets      int     `json:"targetSets"`
	TargetRPE       float64 `json:"targetRpe"`
	RestTimeSeconds int     `json:"restTimeSeconds"`
}

type ProgressionRecommendation struct {
	ExerciseID     string               `json:"exerciseId"`
	Strategy       Strategy             `json:"strategy"`
	Suggestion     WeightSuggestion     `json:"suggestion"`
	Metrics        ExerciseMetrics      `json:"metrics"`
	Autoregulation AutoregulationResult `json:"autoregulation"`
	NextPlan       NextSessionPlan      `json:"nextSessionPlan"`
}

// SelectStrategy applies the strategy decision table. Priority order is
// deliberate: a deload recommendation coming out of plateau detection
// overrides everything, then the raw RPE check, then exercise-type based
// selection.
func (e *Engine) SelectStrategy(
	history ExerciseHistory,
	metrics ExerciseMetrics,
	detection PlateauDetection,
) Strategy {
	if len(history.Sessions) == 0 {
		return StrategyLinear
	}
	if detection.RecommendedAction == ActionDeloadProtocol {
		return StrategyDeload
	}
	if metrics.AverageRPE > e.cfg.DeloadRPEThreshold {
		return StrategyDeload
	}
	if history.Type == ExerciseTypeIsolation {
		return StrategyDouble
	}
	if history.Type == ExerciseTypeCompound && metrics.HasReliableRPEData {
		return StrategyAutoRegulation
	}
	return StrategyLinear
}

// RecommendExercise runs the full single-exercise pipeline: metrics,
// plateau detection, strategy selection and weight suggestion.
func (e *Engine) RecommendExercise(
	history ExerciseHistory,
	profile UserAdaptationProfile,
	asOf time.Time,
) (*ProgressionRecommendation, error) {
	for _, s := range history.Sessions {
		if len(s.Sets) == 0 {
			return nil, &ExerciseError{ExerciseID: history.ExerciseID, Err: ErrEmptySession}
		}
	}

	metrics := e.AnalyzeMetrics(history)
	detection := e.DetectPlateau(history, asOf)
	strategy := e.SelectStrategy(history, metrics, detection)
	suggestion := e.GenerateSuggestion(history, metrics, strategy, profile)
	autoreg := e.Autoregulate(history, profile)

	return &ProgressionRecommendation{
		ExerciseID:     history.ExerciseID,
		Strategy:       strategy,
		Suggestion:     suggestion,
		Metrics:        metrics,
		Autoregulation: autoreg,
		NextPlan:       e.nextSessionPlan(history, suggestion, profile, autoreg),
	}, nil
}

// GenerateSuggestion computes the concrete next-session weight for the
// selected strategy, then applies the safety clamps and builds the
// alternative-weight ladder.
func (e *Engine) GenerateSuggestion(
	history ExerciseHistory,
	metrics ExerciseMetrics,
	strategy Strategy,
	profile UserAdaptationProfile,
) WeightSuggestion {
	increment := e.cfg.Increment(history.Type)

	if len(history.Sessions) == 0 {
		start := e.cfg.StartWeightCompound
		if history.Type == ExerciseTypeIsolation {
			start = e.cfg.StartWeightIsolated
		}
		start = e.cfg.RoundWeight(start)
		return WeightSuggestion{
			SuggestedWeight:    start,
			ConfidenceLevel:    ConfidenceMedium,
			Reasoning:          "no training history recorded, starting with a conservative default weight",
			AlternativeWeights: e.weightLadder(start, increment, start),
			LastSessionSummary: "no sessions recorded",
		}
	}

	lastWeight := history.LastWeight()
	suggested := lastWeight
	var reasoning string

	switch strategy {
	case StrategyDeload:
		suggested = lastWeight * 0.9
		reasoning = "deload: reducing load by 10% to allow recovery"

	case StrategyDouble:
		if e.allSetsExceedTargetBy(history.Sessions[0], 2) {
			suggested = lastWeight + increment
			reasoning = "double progression: rep targets exceeded on every set, increasing weight"
		} else {
			reasoning = "double progression: add reps first, weight increases once every set exceeds target by 2"
		}

	case StrategyAutoRegulation:
		target := e.targetRPE(profile)
		delta := (target - metrics.AverageRPE) * increment
		cap := 2 * increment
		if delta > cap {
			delta = cap
		}
		if delta < -cap {
			delta = -cap
		}
		suggested = lastWeight + delta
		reasoning = fmt.Sprintf("auto-regulation: RPE %.1f vs target %.1f", metrics.AverageRPE, target)

	default: // linear
		if metrics.ReadyForProgression {
			suggested = lastWeight + increment
			reasoning = "linear progression: all targets met, increasing weight"
		} else {
			reasoning = "linear progression: repeating current weight until targets are met"
		}
	}

	suggested = e.cfg.RoundWeight(suggested)

	// weekly increase cap: never prescribe a jump bigger than the cap
	// over the weight lifted a week ago
	weekAgoWeight, ok := e.weightOneWeekBack(history)
	if ok && suggested-weekAgoWeight > e.cfg.WeeklyIncreaseCap {
		suggested = e.cfg.RoundWeight(lastWeight)
		reasoning = "weekly increase cap reached, repeating current weight"
	}

	// below the minimum meaningful increase, round the increase up
	if inc := suggested - lastWeight; inc > 0 && inc < e.cfg.MinIncrease {
		suggested = e.cfg.RoundWeight(lastWeight + e.cfg.MinIncrease)
	}

	if suggested < 0 {
		suggested = 0
	}

	return WeightSuggestion{
		SuggestedWeight:    suggested,
		ConfidenceLevel:    e.suggestionConfidence(metrics),
		Reasoning:          reasoning,
		IncreaseAmount:     suggested - lastWeight,
		AlternativeWeights: e.weightLadder(suggested, increment, lastWeight),
		LastSessionSummary: summarizeSession(history.Sessions[0]),
	}
}

func (e *Engine) targetRPE(profile UserAdaptationProfile) float64 {
	switch profile.PreferredStyle {
	case StyleConservative:
		return e.cfg.TargetRPE - 0.5
	case StyleAggressive:
		return e.cfg.TargetRPE + 0.5
	default:
		return e.cfg.TargetRPE
	}
}

func (e *Engine) allSetsExceedTargetBy(session WorkoutSession, margin int) bool {
	if len(session.Sets) == 0 {
		return false
	}
	for _, set := range session.Sets {
		if set.Reps < session.TargetReps+margin {
			return false
		}
	}
	return true
}

// weightOneWeekBack finds the top weight of the oldest session within
// the trailing 7 days of the most recent one.
func (e *Engine) weightOneWeekBack(history ExerciseHistory) (float64, bool) {
	if len(history.Sessions) == 0 {
		return 0, false
	}
	cutoff := history.Sessions[0].Date.AddDate(0, 0, -7)
	var weight float64
	var found bool
	for _, s := range history.Sessions {
		if s.Date.Before(cutoff) {
			break
		}
		for _, set := range s.Sets {
			if set.Weight > weight {
				weight = set.Weight
			}
		}
		found = true
	}
	return weight, found
}

func (e *Engine) suggestionConfidence(metrics ExerciseMetrics) ConfidenceLevel {
	switch {
	case metrics.RecordedSessionCount >= 6 && metrics.ConsistencyScore >= 0.7:
		return ConfidenceHigh
	case metrics.RecordedSessionCount >= 3:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// weightLadder builds the alternative-weight options around the
// suggestion: one increment down/up, half an increment down/up and the
// current weight, deduplicated and sorted.
func (e *Engine) weightLadder(suggested, increment, current float64) []float64 {
	candidates := []float64{
		suggested - increment,
		suggested - increment/2,
		suggested + increment/2,
		suggested + increment,
		current,
	}
	seen := make(map[float64]bool)
	ladder := make([]float64, 0, len(candidates))
	for _, c := range candidates {
		w := e.cfg.RoundWeight(c)
		if w <= 0 || seen[w] || w == suggested {
			continue
		}
		seen[w] = true
		ladder = append(ladder, w)
	}
	sort.Float64s(ladder)
	return ladder
}

// nextSessionPlan carries the latest session's targets forward and then
// applies the autoregulation session modification on top, so a very hard
// or very easy last session reshapes the set count, reps and rest of the
// next one.
func (e *Engine) nextSessionPlan(
	history ExerciseHistory,
	suggestion WeightSuggestion,
	profile UserAdaptationProfile,
	autoreg AutoregulationResult,
) NextSessionPlan {
	plan := NextSessionPlan{
		TargetWeight:    suggestion.SuggestedWeight,
		TargetReps:      8,
		TargetSets:      3,
		TargetRPE:       e.targetRPE(profile),
		RestTimeSeconds: restSecondsForCategory(history.Category),
	}
	if len(history.Sessions) > 0 {
		latest := history.Sessions[0]
		if latest.TargetReps > 0 {
			plan.TargetReps = latest.TargetReps
		}
		if latest.TargetSets > 0 {
			plan.TargetSets = latest.TargetSets
		}
	}

	plan.TargetSets += autoreg.Modification.SetAdjustment
	if plan.TargetSets < 1 {
		plan.TargetSets = 1
	}
	plan.TargetReps += autoreg.Modification.RepAdjustment
	if plan.TargetReps < 1 {
		plan.TargetReps = 1
	}
	plan.RestTimeSeconds += autoreg.Modification.RestAdjustmentSec
	if plan.RestTimeSeconds < 0 {
		plan.RestTimeSeconds = 0
	}

	return plan
}

func restSecondsForCategory(category ExerciseCategory) int {
	switch category {
	case CategoryStrength:
		return 180
	case CategoryEndurance:
		return 60
	default:
		return 90
	}
}

func summarizeSession(s WorkoutSession) string {
	var totalReps int
	var topWeight float64
	for _, set := range s.Sets {
		totalReps += set.Reps
		if set.Weight > topWeight {
			topWeight = set.Weight
		}
	}
	summary := fmt.Sprintf(
		"%s: %d sets, %d reps total, top weight %s",
		s.Date.Format("2006-01-02"), len(s.Sets), totalReps, trimFloat(topWeight),
	)
	if rpe, ok := s.SessionRPE(); ok {
		summary += fmt.Sprintf(", avg RPE %.1f", rpe)
	}
	return summary
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

package progression

import (
	"fmt"
	"sort"
	"time"
)

type IntensityProfile string

const (
	IntensityLow      IntensityProfile = "low"
	IntensityModerate IntensityProfile = "moderate"
	IntensityHigh     IntensityProfile = "high"
	IntensityMixed    IntensityProfile = "mixed"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type RiskAssessment struct {
	Overtraining RiskLevel `json:"overtraining"`
	Injury       RiskLevel `json:"injury"`
	Plateau      RiskLevel `json:"plateau"`
}

// ExercisePrescription is the per-exercise slot of the final workout.
type ExercisePrescription struct {
	ExerciseID       string           `json:"exerciseId"`
	Name             string           `json:"name"`
	Type             ExerciseType     `json:"type"`
	Category         ExerciseCategory `json:"category"`
	Strategy         Strategy         `json:"strategy"`
	Suggestion       WeightSuggestion `json:"suggestion"`
	Plan             NextSessionPlan  `json:"plan"`
	PerformanceScore float64          `json:"performanceScore"`
	IsNew            bool             `json:"isNew"`
}

// PlateauIntervention bundles everything the engine prescribes for a
// plateaued exercise.
type PlateauIntervention struct {
	ExerciseID string              `json:"exerciseId"`
	Detection  PlateauDetection    `json:"detection"`
	Deload     *DeloadProtocol     `json:"deload,omitempty"`
	Phase      PhaseRecommendation `json:"phase"`
	Variations []ScoredVariation   `json:"variations,omitempty"`
}

type SkippedExercise struct {
	ExerciseID string `json:"exerciseId"`
	Reason     string `json:"reason"`
}

type WorkoutRecommendation struct {
	Prescriptions        []ExercisePrescription `json:"prescriptions"`
	TotalDurationMinutes float64                `json:"totalDurationMinutes"`
	VolumeLoad           float64                `json:"volumeLoad"`
	Intensity            IntensityProfile       `json:"intensityProfile"`
	Reasoning            []string               `json:"reasoning"`
	ExpectedOutcomes     []string               `json:"expectedOutcomes"`
	Risk                 RiskAssessment         `json:"riskAssessment"`
	AdaptationTargets    []string               `json:"adaptationTargets"`
	ProgressionInsights  []string               `json:"progressionInsights"`
	Interventions        []PlateauIntervention  `json:"plateauInterventions"`
	Skipped              []SkippedExercise      `json:"skippedExercises,omitempty"`
	ConfidenceScore      float64                `json:"confidenceScore"`
}

// RecommendParams carries everything a recommendation run needs. The
// profile is optional; defaults are applied when nil. AsOf pins the
// evaluation time so identical inputs always produce identical outputs.
type RecommendParams struct {
	Histories []ExerciseHistory
	Goals     UserGoals
	Profile   *UserAdaptationProfile
	AsOf      time.Time
}

// Recommend assembles the complete multi-exercise workout
// recommendation. Exercises are processed independently: a malformed
// one lands in Skipped instead of failing the batch.
func (e *Engine) Recommend(params RecommendParams) *WorkoutRecommendation {
	profile := DefaultAdaptationProfile()
	if params.Profile != nil {
		profile = *params.Profile
	}

	rec := &WorkoutRecommendation{}

	var results []exerciseResult
	for _, history := range params.Histories {
		if !goalAligned(history, params.Goals) {
			rec.Skipped = append(rec.Skipped, SkippedExercise{
				ExerciseID: history.ExerciseID,
				Reason:     "not aligned with current goals",
			})
			continue
		}

		progRec, err := e.RecommendExercise(history, profile, params.AsOf)
		if err != nil {
			rec.Skipped = append(rec.Skipped, SkippedExercise{
				ExerciseID: history.ExerciseID,
				Reason:     err.Error(),
			})
			continue
		}

		score := e.performanceScore(progRec.Metrics)
		if score < e.cfg.RetirementScore && len(history.Sessions) >= e.cfg.MinSessions {
			rec.Skipped = append(rec.Skipped, SkippedExercise{
				ExerciseID: history.ExerciseID,
				Reason:     fmt.Sprintf("retired, performance score %.0f below %.0f", score, e.cfg.RetirementScore),
			})
			continue
		}

		results = append(results, exerciseResult{
			history:      history,
			progression:  progRec,
			detection:    e.DetectPlateau(history, params.AsOf),
			score:        score,
			sessionCount: len(history.Sessions),
		})
	}

	// interventions for plateaued exercises
	var plateauedCount int
	for _, res := range results {
		if res.detection.PlateauConfidence < e.cfg.DeloadConfidence {
			continue
		}
		plateauedCount++
		metrics := res.progression.Metrics
		rec.Interventions = append(rec.Interventions, PlateauIntervention{
			ExerciseID: res.history.ExerciseID,
			Detection:  res.detection,
			Deload:     e.GenerateDeload(res.history, res.detection, profile),
			Phase:      e.PlanPhase(res.history, metrics, res.detection, params.AsOf),
			Variations: e.ScoreVariations(res.history.ExerciseID, params.Goals),
		})
	}

	prescriptions := make([]ExercisePrescription, 0, len(results))
	for _, res := range results {
		prescriptions = append(prescriptions, ExercisePrescription{
			ExerciseID:       res.history.ExerciseID,
			Name:             res.history.Name,
			Type:             res.history.Type,
			Category:         res.history.Category,
			Strategy:         res.progression.Strategy,
			Suggestion:       res.progression.Suggestion,
			Plan:             res.progression.NextPlan,
			PerformanceScore: res.score,
		})
	}

	prescriptions = append(prescriptions, e.newExercisePrescriptions(prescriptions, params.Goals, profile)...)
	orderPrescriptions(prescriptions)

	if len(prescriptions) > e.cfg.MaxExercises {
		prescriptions = prescriptions[:e.cfg.MaxExercises]
	}

	// iteratively drop trailing exercises until the raw session time
	// fits the user's budget
	budget := float64(params.Goals.WorkoutDurationMinutes)
	for budget > 0 && len(prescriptions) > 1 && e.rawDuration(prescriptions) > budget {
		prescriptions = prescriptions[:len(prescriptions)-1]
	}

	rec.Prescriptions = prescriptions
	rec.TotalDurationMinutes = e.rawDuration(prescriptions) * e.cfg.DurationBuffer
	rec.VolumeLoad = volumeLoad(prescriptions)
	rec.Intensity = e.intensityProfile(results)
	rec.Risk = e.assessRisk(rec.VolumeLoad, rec.Intensity, results, plateauedCount)
	rec.ConfidenceScore = e.overallConfidence(results, params.Profile != nil)
	rec.AdaptationTargets = adaptationTargets(params.Goals)
	rec.ExpectedOutcomes = expectedOutcomes(params.Goals, plateauedCount)
	rec.Reasoning = e.buildReasoning(results, plateauedCount, len(rec.Skipped))
	rec.ProgressionInsights = e.buildInsights(results)

	return rec
}

// performanceScore is a 0-100 composite of completion, consistency and
// trend direction.
func (e *Engine) performanceScore(metrics ExerciseMetrics) float64 {
	score := metrics.CompletionRate*50 + metrics.ConsistencyScore*30
	switch metrics.WeightTrend {
	case TrendIncreasing:
		score += 20
	case TrendStable:
		score += 10
	}
	return clampPercent(score)
}

// newExercisePrescriptions adds up to MaxNewExercises goal-aligned
// exercises the user is not already doing.
func (e *Engine) newExercisePrescriptions(
	existing []ExercisePrescription,
	goals UserGoals,
	profile UserAdaptationProfile,
) []ExercisePrescription {
	current := make(map[string]bool, len(existing))
	for _, p := range existing {
		current[p.ExerciseID] = true
	}
	disliked := make(map[string]bool, len(goals.DislikedExercises))
	for _, d := range goals.DislikedExercises {
		disliked[d] = true
	}

	var added []ExercisePrescription
	for _, candidate := range goalExerciseMap[goals.Primary] {
		if len(added) >= e.cfg.MaxNewExercises {
			break
		}
		if current[candidate.ExerciseID] || disliked[candidate.ExerciseID] {
			continue
		}
		history := ExerciseHistory{
			ExerciseID: candidate.ExerciseID,
			Name:       candidate.Name,
			Type:       candidate.Type,
			Category:   categoryForGoal(goals.Primary),
		}
		metrics := e.AnalyzeMetrics(history)
		suggestion := e.GenerateSuggestion(history, metrics, StrategyLinear, profile)
		// no history yet, so autoregulation stays neutral here
		autoreg := e.Autoregulate(history, profile)
		added = append(added, ExercisePrescription{
			ExerciseID: candidate.ExerciseID,
			Name:       candidate.Name,
			Type:       candidate.Type,
			Category:   history.Category,
			Strategy:   StrategyLinear,
			Suggestion: suggestion,
			Plan:       e.nextSessionPlan(history, suggestion, profile, autoreg),
			IsNew:      true,
		})
		current[candidate.ExerciseID] = true
	}
	return added
}

func categoryForGoal(goal GoalObjective) ExerciseCategory {
	switch goal {
	case GoalStrength:
		return CategoryStrength
	case GoalEndurance, GoalWeightLoss:
		return CategoryEndurance
	default:
		return CategoryHypertrophy
	}
}

// orderPrescriptions puts compounds first, most complex first, then
// isolations.
func orderPrescriptions(prescriptions []ExercisePrescription) {
	sort.SliceStable(prescriptions, func(i, j int) bool {
		pi, pj := prescriptions[i], prescriptions[j]
		if pi.Type != pj.Type {
			return pi.Type == ExerciseTypeCompound
		}
		return complexityScores[pi.ExerciseID] > complexityScores[pj.ExerciseID]
	})
}

// rawDuration estimates the session length in minutes before the
// scheduling buffer: per-exercise setup plus working and rest time.
func (e *Engine) rawDuration(prescriptions []ExercisePrescription) float64 {
	var minutes float64
	for _, p := range prescriptions {
		sets := float64(p.Plan.TargetSets)
		perSet := float64(p.Plan.TargetReps)*e.cfg.SecondsPerRep + float64(p.Plan.RestTimeSeconds)
		minutes += e.cfg.SetupMinutes + sets*perSet/60
	}
	return minutes
}

func volumeLoad(prescriptions []ExercisePrescription) float64 {
	var volume float64
	for _, p := range prescriptions {
		volume += p.Suggestion.SuggestedWeight * float64(p.Plan.TargetReps) * float64(p.Plan.TargetSets)
	}
	return volume
}

type exerciseResult struct {
	history      ExerciseHistory
	progression  *ProgressionRecommendation
	detection    PlateauDetection
	score        float64
	sessionCount int
}

func (e *Engine) intensityProfile(results []exerciseResult) IntensityProfile {
	if len(results) == 0 {
		return IntensityModerate
	}
	var sum float64
	for _, res := range results {
		sum += res.progression.Metrics.AverageRPE
	}
	mean := sum / float64(len(results))
	switch {
	case mean < 6:
		return IntensityLow
	case mean < 8:
		return IntensityModerate
	case mean < 9:
		return IntensityHigh
	default:
		return IntensityMixed
	}
}

func (e *Engine) assessRisk(
	volume float64,
	intensity IntensityProfile,
	results []exerciseResult,
	plateauedCount int,
) RiskAssessment {
	risk := RiskAssessment{
		Overtraining: RiskLow,
		Injury:       RiskLow,
		Plateau:      RiskLow,
	}

	highIntensity := intensity == IntensityHigh
	switch {
	case volume > 50000 && highIntensity:
		risk.Overtraining = RiskHigh
	case volume > 30000 || highIntensity:
		risk.Overtraining = RiskMedium
	}

	avgScore := averagePerformanceScore(results)
	switch {
	case avgScore < 40 && highIntensity:
		risk.Injury = RiskHigh
	case avgScore < 60:
		risk.Injury = RiskMedium
	}

	switch {
	case len(results) > 0 && plateauedCount*2 > len(results):
		risk.Plateau = RiskHigh
	case plateauedCount > 0:
		risk.Plateau = RiskMedium
	}

	return risk
}

func averagePerformanceScore(results []exerciseResult) float64 {
	if len(results) == 0 {
		return 50
	}
	var sum float64
	for _, res := range results {
		sum += res.score
	}
	return sum / float64(len(results))
}

// overallConfidence starts at 50 and moves with data depth, performance
// clarity, plateau-signal clarity and whether a real adaptation profile
// was supplied. Clamped to [0, 100].
func (e *Engine) overallConfidence(results []exerciseResult, profileProvided bool) float64 {
	confidence := 50.0

	var sessionSum int
	for _, res := range results {
		sessionSum += res.sessionCount
	}
	avgSessions := 0.0
	if len(results) > 0 {
		avgSessions = float64(sessionSum) / float64(len(results))
	}
	switch {
	case avgSessions >= 8:
		confidence += 20
	case avgSessions >= 4:
		confidence += 10
	case avgSessions < 2:
		confidence -= 10
	}

	avgScore := averagePerformanceScore(results)
	switch {
	case avgScore >= 70:
		confidence += 10
	case avgScore < 40:
		confidence -= 10
	}

	var bestEvidence EvidenceStrength
	for _, res := range results {
		switch res.detection.EvidenceStrength {
		case EvidenceHigh:
			bestEvidence = EvidenceHigh
		case EvidenceModerate:
			if bestEvidence != EvidenceHigh {
				bestEvidence = EvidenceModerate
			}
		}
	}
	switch bestEvidence {
	case EvidenceHigh:
		confidence += 10
	case EvidenceModerate:
		confidence += 5
	}

	if profileProvided {
		confidence += 5
	}

	return clampPercent(confidence)
}

func adaptationTargets(goals UserGoals) []string {
	switch goals.Primary {
	case GoalStrength:
		return []string{"maximal strength", "neural drive efficiency"}
	case GoalHypertrophy:
		return []string{"muscle cross-sectional area", "work capacity"}
	case GoalEndurance:
		return []string{"muscular endurance", "recovery between sets"}
	case GoalWeightLoss:
		return []string{"energy expenditure", "lean-mass retention"}
	default:
		return []string{"general fitness"}
	}
}

func expectedOutcomes(goals UserGoals, plateauedCount int) []string {
	outcomes := []string{
		fmt.Sprintf("steady progression toward the %s goal", goals.Primary),
	}
	if plateauedCount > 0 {
		outcomes = append(outcomes,
			fmt.Sprintf("plateau resolution on %d exercise(s) within the intervention timeline", plateauedCount))
	}
	return outcomes
}

func (e *Engine) buildReasoning(results []exerciseResult, plateauedCount, skippedCount int) []string {
	reasoning := []string{
		fmt.Sprintf("analyzed %d exercise(s) with tracked history", len(results)),
	}
	if plateauedCount > 0 {
		reasoning = append(reasoning,
			fmt.Sprintf("%d exercise(s) show plateau evidence, interventions attached", plateauedCount))
	}
	if skippedCount > 0 {
		reasoning = append(reasoning,
			fmt.Sprintf("%d exercise(s) skipped or retired, see skippedExercises", skippedCount))
	}

	var sparse int
	for _, res := range results {
		if res.sessionCount < e.cfg.MinSessions {
			sparse++
		}
	}
	if sparse > 0 {
		reasoning = append(reasoning,
			fmt.Sprintf("insufficient data for %d exercise(s), using conservative defaults", sparse))
	}
	return reasoning
}

func (e *Engine) buildInsights(results []exerciseResult) []string {
	var insights []string
	for _, res := range results {
		metrics := res.progression.Metrics
		switch {
		case metrics.WeightTrend == TrendIncreasing:
			insights = append(insights,
				fmt.Sprintf("%s: load trending up, keep the current approach", res.history.ExerciseID))
		case res.detection.PlateauConfidence >= e.cfg.DeloadConfidence:
			insights = append(insights,
				fmt.Sprintf("%s: plateau confidence %.0f%%, action: %s",
					res.history.ExerciseID, res.detection.PlateauConfidence, res.detection.RecommendedAction))
		case metrics.ReadyForProgression:
			insights = append(insights,
				fmt.Sprintf("%s: ready for the next load increase", res.history.ExerciseID))
		}
	}
	return insights
}

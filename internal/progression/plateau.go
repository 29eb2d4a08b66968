package progression

import (
	"math"
	"time"
)

type IndicatorType string

const (
	IndicatorWeightStagnation IndicatorType = "weight_stagnation"
	IndicatorRPEElevation     IndicatorType = "rpe_elevation"
	IndicatorCompletionDrop   IndicatorType = "completion_drop"
	IndicatorFormDegradation  IndicatorType = "form_degradation"
)

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

type PlateauIndicator struct {
	Type          IndicatorType `json:"type"`
	Severity      Severity      `json:"severity"`
	Threshold     float64       `json:"threshold"`
	ActualValue   float64       `json:"actualValue"`
	WeeksDuration int           `json:"weeksDuration"`
}

type PlateauAction string

const (
	ActionDeloadProtocol   PlateauAction = "deload_protocol"
	ActionTechniqueFocus   PlateauAction = "technique_focus"
	ActionDUPPeriodization PlateauAction = "dup_periodization"
	ActionMaintainCurrent  PlateauAction = "maintain_current"
)

type EvidenceStrength string

const (
	EvidenceHigh     EvidenceStrength = "high"
	EvidenceModerate EvidenceStrength = "moderate"
	EvidenceLow      EvidenceStrength = "low"
)

type ActiveIndicators struct {
	WeightStagnation bool `json:"weightStagnation"`
	RPEElevation     bool `json:"rpeElevation"`
	CompletionDrop   bool `json:"completionDrop"`
	FormDegradation  bool `json:"formDegradation"`
}

type PlateauDetection struct {
	PlateauConfidence  float64            `json:"plateauConfidence"`
	Active             ActiveIndicators   `json:"activeIndicators"`
	Indicators         []PlateauIndicator `json:"indicators"`
	RecommendedAction  PlateauAction      `json:"recommendedAction"`
	EvidenceStrength   EvidenceStrength   `json:"evidenceStrength"`
	TimelineWeeks      int                `json:"timelineWeeks"`
	NextEvaluationDate time.Time          `json:"nextEvaluationDate"`
}

// severity weights used in the combined confidence score
var severityWeights = map[Severity]float64{
	SeverityMild:     10,
	SeverityModerate: 20,
	SeveritySevere:   30,
}

// DetectPlateau evaluates the four indicators and combines them into a
// confidence score and a recommended action. Below the minimum session
// count it short-circuits to a zero-confidence result instead of a
// partial judgement.
func (e *Engine) DetectPlateau(history ExerciseHistory, asOf time.Time) PlateauDetection {
	if len(history.Sessions) < e.cfg.MinSessions {
		return PlateauDetection{
			PlateauConfidence:  0,
			RecommendedAction:  ActionMaintainCurrent,
			EvidenceStrength:   EvidenceLow,
			NextEvaluationDate: asOf.AddDate(0, 0, 7*e.cfg.MinSessions),
		}
	}

	stagnation := e.checkWeightStagnation(history)
	rpeElevation := e.checkRPEElevation(history)
	completionDrop := e.checkCompletionDrop(history)
	formDegradation := e.checkFormDegradation(history)

	detection := PlateauDetection{
		Active: ActiveIndicators{
			WeightStagnation: stagnation != nil,
			RPEElevation:     rpeElevation != nil,
			CompletionDrop:   completionDrop != nil,
			FormDegradation:  formDegradation != nil,
		},
	}

	var activeCount int
	var severitySum float64
	var maxDuration int
	for _, ind := range []*PlateauIndicator{stagnation, rpeElevation, completionDrop, formDegradation} {
		if ind == nil {
			continue
		}
		detection.Indicators = append(detection.Indicators, *ind)
		activeCount++
		severitySum += severityWeights[ind.Severity]
		if ind.WeeksDuration > maxDuration {
			maxDuration = ind.WeeksDuration
		}
	}
	if severitySum > 40 {
		severitySum = 40
	}

	confidence := 60*(float64(activeCount)/4) + severitySum
	if activeCount >= e.cfg.MinActiveIndicators {
		confidence += 20
	}
	confidence += math.Min(float64(maxDuration)*2, 15)
	detection.PlateauConfidence = clampPercent(confidence)

	switch {
	case detection.PlateauConfidence >= 85 && activeCount >= 2:
		detection.EvidenceStrength = EvidenceHigh
	case detection.PlateauConfidence >= 60:
		detection.EvidenceStrength = EvidenceModerate
	default:
		detection.EvidenceStrength = EvidenceLow
	}

	switch {
	case detection.Active.RPEElevation && detection.Active.CompletionDrop:
		detection.RecommendedAction = ActionDeloadProtocol
	case detection.Active.FormDegradation:
		detection.RecommendedAction = ActionTechniqueFocus
	case detection.Active.WeightStagnation && !detection.Active.RPEElevation:
		detection.RecommendedAction = ActionDUPPeriodization
	default:
		detection.RecommendedAction = ActionMaintainCurrent
	}

	detection.TimelineWeeks = actionTimelineWeeks[detection.RecommendedAction]
	evalInWeeks := detection.TimelineWeeks
	if evalInWeeks == 0 {
		evalInWeeks = 4
	}
	detection.NextEvaluationDate = asOf.AddDate(0, 0, 7*evalInWeeks)

	return detection
}

var actionTimelineWeeks = map[PlateauAction]int{
	ActionDeloadProtocol:   2,
	ActionTechniqueFocus:   3,
	ActionDUPPeriodization: 4,
	ActionMaintainCurrent:  0,
}

// checkWeightStagnation counts consecutive sessions, newest backward,
// whose top weight has not dropped below the most recent top weight,
// i.e. sessions spent at or above the current load without breaking
// through it.
func (e *Engine) checkWeightStagnation(history ExerciseHistory) *PlateauIndicator {
	weights := topWeights(history.Sessions)
	if len(weights) == 0 {
		return nil
	}
	current := weights[0]

	count := 0
	for _, w := range weights {
		if w < current {
			break
		}
		count++
	}

	if count < e.cfg.StagnationWeeks {
		return nil
	}

	severity := SeverityMild
	switch {
	case count >= e.cfg.StagnationWeeks+2:
		severity = SeveritySevere
	case count >= e.cfg.StagnationWeeks+1:
		severity = SeverityModerate
	}

	return &PlateauIndicator{
		Type:          IndicatorWeightStagnation,
		Severity:      severity,
		Threshold:     float64(e.cfg.StagnationWeeks),
		ActualValue:   float64(count),
		WeeksDuration: count,
	}
}

// checkRPEElevation looks at the last 2 x stagnationWeeks sessions and
// flags when at least stagnationWeeks of them carry an RPE at or above
// the elevation threshold.
func (e *Engine) checkRPEElevation(history ExerciseHistory) *PlateauIndicator {
	window := recentSessions(history, 2*e.cfg.StagnationWeeks)

	var elevated int
	var elevatedSum float64
	for _, s := range window {
		rpe, ok := s.SessionRPE()
		if !ok {
			continue
		}
		if rpe >= e.cfg.RPEElevationThreshold {
			elevated++
			elevatedSum += rpe
		}
	}

	if elevated < e.cfg.StagnationWeeks {
		return nil
	}

	meanElevated := elevatedSum / float64(elevated)
	severity := SeverityMild
	switch {
	case meanElevated >= 9.5:
		severity = SeveritySevere
	case meanElevated >= 9.0:
		severity = SeverityModerate
	}

	return &PlateauIndicator{
		Type:          IndicatorRPEElevation,
		Severity:      severity,
		Threshold:     e.cfg.RPEElevationThreshold,
		ActualValue:   meanElevated,
		WeeksDuration: elevated,
	}
}

// checkCompletionDrop flags when the mean completion ratio over the
// configured window falls below the completion threshold.
func (e *Engine) checkCompletionDrop(history ExerciseHistory) *PlateauIndicator {
	window := recentSessions(history, e.cfg.CompletionDropWindow)
	if len(window) < e.cfg.CompletionDropWindow {
		return nil
	}

	var sum float64
	for _, s := range window {
		sum += s.CompletionRatio()
	}
	mean := sum / float64(len(window))

	if mean >= e.cfg.CompletionThreshold {
		return nil
	}

	below := e.cfg.CompletionThreshold - mean
	severity := SeverityMild
	switch {
	case below >= 0.15:
		severity = SeveritySevere
	case below >= 0.08:
		severity = SeverityModerate
	}

	return &PlateauIndicator{
		Type:          IndicatorCompletionDrop,
		Severity:      severity,
		Threshold:     e.cfg.CompletionThreshold,
		ActualValue:   mean,
		WeeksDuration: len(window),
	}
}

// checkFormDegradation compares mean form score of the most recent
// stagnationWeeks sessions against a baseline window further back.
// Skipped entirely when there is not enough form-scored history.
func (e *Engine) checkFormDegradation(history ExerciseHistory) *PlateauIndicator {
	weeks := e.cfg.StagnationWeeks
	if len(history.Sessions) < 2*weeks {
		return nil
	}

	recentMean, recentOK := meanFormScore(history.Sessions[:weeks])
	baselineMean, baselineOK := meanFormScore(history.Sessions[weeks : 2*weeks])
	if !recentOK || !baselineOK || baselineMean == 0 {
		return nil
	}

	drop := (baselineMean - recentMean) / baselineMean
	if drop <= e.cfg.FormDropThreshold {
		return nil
	}

	severity := SeverityMild
	switch {
	case drop >= 0.30:
		severity = SeveritySevere
	case drop >= 0.22:
		severity = SeverityModerate
	}

	return &PlateauIndicator{
		Type:          IndicatorFormDegradation,
		Severity:      severity,
		Threshold:     e.cfg.FormDropThreshold,
		ActualValue:   drop,
		WeeksDuration: weeks,
	}
}

func meanFormScore(sessions []WorkoutSession) (float64, bool) {
	var sum float64
	var count int
	for _, s := range sessions {
		for _, set := range s.Sets {
			if set.FormScore != nil {
				sum += *set.FormScore
				count++
			}
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// VolumePlateauResult is the weekly-volume complement to the per-session
// indicators above.
type VolumePlateauResult struct {
	IsPlateaued     bool    `json:"isPlateaued"`
	IncreasePercent float64 `json:"increasePercent"`
	Threshold       float64 `json:"threshold"`
}

// CheckVolumePlateau takes weekly training volumes ordered oldest-first
// and flags a plateau when the newest week's volume has not grown more
// than the configured fraction over the first week. Divide-by-zero
// degrades to a neutral non-plateau result.
func (e *Engine) CheckVolumePlateau(weeklyVolumes []float64) VolumePlateauResult {
	result := VolumePlateauResult{Threshold: e.cfg.VolumePlateauThreshold * 100}
	if len(weeklyVolumes) < 2 {
		return result
	}
	first := weeklyVolumes[0]
	last := weeklyVolumes[len(weeklyVolumes)-1]
	if first <= 0 {
		return result
	}
	increase := (last - first) / first
	result.IncreasePercent = increase * 100
	result.IsPlateaued = increase < e.cfg.VolumePlateauThreshold
	return result
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

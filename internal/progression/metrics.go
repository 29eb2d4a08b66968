package progression

import "math"

type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendStable     TrendDirection = "stable"
	TrendDecreasing TrendDirection = "decreasing"
)

// trendWindow is the number of trailing sessions used for slope and
// consistency calculations.
const trendWindow = 5

// defaultRPE is assumed when a session has no RPE data recorded at all.
const defaultRPE = 7.0

// ExerciseMetrics is the per-exercise performance snapshot derived from
// the most recent session and a short trailing window.
type ExerciseMetrics struct {
	CompletionRate       float64        `json:"completionRate"`
	AverageRPE           float64        `json:"averageRpe"`
	WeightTrend          TrendDirection `json:"weightTrend"`
	VolumeTrend          TrendDirection `json:"volumeTrend"`
	ConsistencyScore     float64        `json:"consistencyScore"`
	SessionsSinceGain    int            `json:"sessionsSinceGain"`
	ReadyForProgression  bool           `json:"readyForProgression"`
	HasReliableRPEData   bool           `json:"hasReliableRpeData"`
	RecordedSessionCount int            `json:"recordedSessionCount"`
}

// AnalyzeMetrics computes ExerciseMetrics from history. Pure function of
// the input, no side effects.
func (e *Engine) AnalyzeMetrics(history ExerciseHistory) ExerciseMetrics {
	metrics := ExerciseMetrics{
		AverageRPE:           defaultRPE,
		WeightTrend:          TrendStable,
		VolumeTrend:          TrendStable,
		RecordedSessionCount: len(history.Sessions),
	}
	if len(history.Sessions) == 0 {
		return metrics
	}

	latest := history.Sessions[0]
	metrics.CompletionRate = latest.CompletionRatio()
	if rpe, ok := latest.SessionRPE(); ok {
		metrics.AverageRPE = rpe
	}

	window := recentSessions(history, trendWindow)
	metrics.WeightTrend = e.classifyTrend(topWeights(window))
	metrics.VolumeTrend = e.classifyTrend(sessionVolumes(window))
	metrics.ConsistencyScore = consistencyScore(topWeights(window))
	metrics.SessionsSinceGain = sessionsSinceGain(history.Sessions)
	metrics.HasReliableRPEData = reliableRPESessions(history.Sessions) >= 3

	allCompleted := true
	allAtTarget := true
	for _, set := range latest.Sets {
		if !set.Completed {
			allCompleted = false
		}
		if set.Reps < latest.TargetReps {
			allAtTarget = false
		}
	}
	metrics.ReadyForProgression = len(latest.Sets) > 0 &&
		metrics.CompletionRate >= e.cfg.MinCompletionRate &&
		metrics.AverageRPE <= e.cfg.ProgressionRPELimit &&
		allCompleted && allAtTarget

	return metrics
}

// recentSessions returns up to n most recent sessions, still newest-first.
func recentSessions(history ExerciseHistory, n int) []WorkoutSession {
	if len(history.Sessions) < n {
		n = len(history.Sessions)
	}
	return history.Sessions[:n]
}

// topWeights extracts the heaviest set weight per session, newest-first.
func topWeights(sessions []WorkoutSession) []float64 {
	weights := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		var top float64
		for _, set := range s.Sets {
			if set.Weight > top {
				top = set.Weight
			}
		}
		weights = append(weights, top)
	}
	return weights
}

func sessionVolumes(sessions []WorkoutSession) []float64 {
	volumes := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		volumes = append(volumes, s.Volume())
	}
	return volumes
}

// classifyTrend fits a least-squares slope over the values (given
// newest-first) and classifies the total change against a band of 2% of
// the mean or one rounding-adjusted unit, whichever is larger.
func (e *Engine) classifyTrend(newestFirst []float64) TrendDirection {
	n := len(newestFirst)
	if n < 2 {
		return TrendStable
	}

	// oldest-first for a natural slope sign
	values := make([]float64, n)
	for i, v := range newestFirst {
		values[n-1-i] = v
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := float64(n)*sumXX - sumX*sumX
	if denom == 0 {
		return TrendStable
	}
	slope := (float64(n)*sumXY - sumX*sumY) / denom
	totalChange := slope * float64(n-1)

	mean := sumY / float64(n)
	band := 0.02 * mean
	if band < 1 {
		band = 1
	}

	switch {
	case totalChange > band:
		return TrendIncreasing
	case totalChange < -band:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// consistencyScore is 1 minus the coefficient of variation of the recent
// weights, clamped to [0, 1].
func consistencyScore(weights []float64) float64 {
	if len(weights) == 0 {
		return 0
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	mean := sum / float64(len(weights))
	if mean == 0 {
		return 0
	}
	var variance float64
	for _, w := range weights {
		variance += (w - mean) * (w - mean)
	}
	variance /= float64(len(weights))
	cv := math.Sqrt(variance) / mean
	score := 1 - cv
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// sessionsSinceGain counts sessions since the top weight last increased
// over the preceding (older) session.
func sessionsSinceGain(newestFirst []WorkoutSession) int {
	weights := topWeights(newestFirst)
	for i := 0; i < len(weights)-1; i++ {
		if weights[i] > weights[i+1] {
			return i
		}
	}
	return len(weights)
}

// reliableRPESessions counts sessions with set-level RPE logging. A
// session-level average alone is not enough to drive auto-regulation.
func reliableRPESessions(sessions []WorkoutSession) int {
	var count int
	for _, s := range sessions {
		for _, set := range s.Sets {
			if set.RPE != nil {
				count++
				break
			}
		}
	}
	return count
}

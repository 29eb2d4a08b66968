package progression

import "sort"

// ExerciseVariation is a swap candidate for a plateaued exercise.
type ExerciseVariation struct {
	ExerciseID string       `json:"exerciseId"`
	Name       string       `json:"name"`
	Equipment  string       `json:"equipment"`
	Type       ExerciseType `json:"type"`
}

type ScoredVariation struct {
	ExerciseVariation
	Score float64 `json:"score"`
}

// variationTable maps an exercise to its common substitutes.
var variationTable = map[string][]ExerciseVariation{
	"barbell-squat": {
		{ExerciseID: "front-squat", Name: "Front Squat", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "goblet-squat", Name: "Goblet Squat", Equipment: "dumbbell", Type: ExerciseTypeCompound},
		{ExerciseID: "leg-press", Name: "Leg Press", Equipment: "machine", Type: ExerciseTypeCompound},
		{ExerciseID: "bulgarian-split-squat", Name: "Bulgarian Split Squat", Equipment: "dumbbell", Type: ExerciseTypeCompound},
		{ExerciseID: "hack-squat", Name: "Hack Squat", Equipment: "machine", Type: ExerciseTypeCompound},
		{ExerciseID: "box-squat", Name: "Box Squat", Equipment: "barbell", Type: ExerciseTypeCompound},
	},
	"bench-press": {
		{ExerciseID: "incline-bench-press", Name: "Incline Bench Press", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "dumbbell-bench-press", Name: "Dumbbell Bench Press", Equipment: "dumbbell", Type: ExerciseTypeCompound},
		{ExerciseID: "weighted-dips", Name: "Weighted Dips", Equipment: "bodyweight", Type: ExerciseTypeCompound},
		{ExerciseID: "machine-chest-press", Name: "Machine Chest Press", Equipment: "machine", Type: ExerciseTypeCompound},
		{ExerciseID: "close-grip-bench", Name: "Close-Grip Bench Press", Equipment: "barbell", Type: ExerciseTypeCompound},
	},
	"deadlift": {
		{ExerciseID: "romanian-deadlift", Name: "Romanian Deadlift", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "trap-bar-deadlift", Name: "Trap Bar Deadlift", Equipment: "trap-bar", Type: ExerciseTypeCompound},
		{ExerciseID: "rack-pull", Name: "Rack Pull", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "deficit-deadlift", Name: "Deficit Deadlift", Equipment: "barbell", Type: ExerciseTypeCompound},
	},
	"overhead-press": {
		{ExerciseID: "seated-dumbbell-press", Name: "Seated Dumbbell Press", Equipment: "dumbbell", Type: ExerciseTypeCompound},
		{ExerciseID: "push-press", Name: "Push Press", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "machine-shoulder-press", Name: "Machine Shoulder Press", Equipment: "machine", Type: ExerciseTypeCompound},
		{ExerciseID: "landmine-press", Name: "Landmine Press", Equipment: "barbell", Type: ExerciseTypeCompound},
	},
	"barbell-row": {
		{ExerciseID: "dumbbell-row", Name: "One-Arm Dumbbell Row", Equipment: "dumbbell", Type: ExerciseTypeCompound},
		{ExerciseID: "cable-row", Name: "Seated Cable Row", Equipment: "cable", Type: ExerciseTypeCompound},
		{ExerciseID: "chest-supported-row", Name: "Chest-Supported Row", Equipment: "machine", Type: ExerciseTypeCompound},
		{ExerciseID: "pendlay-row", Name: "Pendlay Row", Equipment: "barbell", Type: ExerciseTypeCompound},
	},
	"bicep-curl": {
		{ExerciseID: "hammer-curl", Name: "Hammer Curl", Equipment: "dumbbell", Type: ExerciseTypeIsolation},
		{ExerciseID: "cable-curl", Name: "Cable Curl", Equipment: "cable", Type: ExerciseTypeIsolation},
		{ExerciseID: "preacher-curl", Name: "Preacher Curl", Equipment: "machine", Type: ExerciseTypeIsolation},
	},
	"tricep-extension": {
		{ExerciseID: "cable-pushdown", Name: "Cable Pushdown", Equipment: "cable", Type: ExerciseTypeIsolation},
		{ExerciseID: "skull-crusher", Name: "Skull Crusher", Equipment: "barbell", Type: ExerciseTypeIsolation},
		{ExerciseID: "overhead-cable-extension", Name: "Overhead Cable Extension", Equipment: "cable", Type: ExerciseTypeIsolation},
	},
}

// goalExerciseMap provides the additions per primary goal: up to
// MaxNewExercises of these are appended when a user has room.
var goalExerciseMap = map[GoalObjective][]ExerciseVariation{
	GoalStrength: {
		{ExerciseID: "barbell-squat", Name: "Barbell Squat", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "deadlift", Name: "Deadlift", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "bench-press", Name: "Bench Press", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "overhead-press", Name: "Overhead Press", Equipment: "barbell", Type: ExerciseTypeCompound},
	},
	GoalHypertrophy: {
		{ExerciseID: "incline-bench-press", Name: "Incline Bench Press", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "barbell-row", Name: "Barbell Row", Equipment: "barbell", Type: ExerciseTypeCompound},
		{ExerciseID: "bicep-curl", Name: "Bicep Curl", Equipment: "dumbbell", Type: ExerciseTypeIsolation},
		{ExerciseID: "tricep-extension", Name: "Tricep Extension", Equipment: "cable", Type: ExerciseTypeIsolation},
	},
	GoalEndurance: {
		{ExerciseID: "goblet-squat", Name: "Goblet Squat", Equipment: "dumbbell", Type: ExerciseTypeCompound},
		{ExerciseID: "push-up", Name: "Push-Up", Equipment: "bodyweight", Type: ExerciseTypeCompound},
		{ExerciseID: "cable-row", Name: "Seated Cable Row", Equipment: "cable", Type: ExerciseTypeCompound},
	},
	GoalWeightLoss: {
		{ExerciseID: "goblet-squat", Name: "Goblet Squat", Equipment: "dumbbell", Type: ExerciseTypeCompound},
		{ExerciseID: "dumbbell-row", Name: "One-Arm Dumbbell Row", Equipment: "dumbbell", Type: ExerciseTypeCompound},
		{ExerciseID: "push-up", Name: "Push-Up", Equipment: "bodyweight", Type: ExerciseTypeCompound},
	},
}

// complexityScores rank compound movements for session ordering, most
// technically demanding first.
var complexityScores = map[string]int{
	"deadlift":       95,
	"barbell-squat":  90,
	"front-squat":    88,
	"overhead-press": 80,
	"bench-press":    75,
	"push-press":     74,
	"barbell-row":    70,
	"pendlay-row":    68,
	"romanian-deadlift": 66,
}

// ScoreVariations ranks swap candidates for an exercise against the
// user's equipment and stated preferences: base 70, +15 when the needed
// equipment is available (-20 when not), +10 preferred, -30 disliked.
func (e *Engine) ScoreVariations(exerciseID string, goals UserGoals) []ScoredVariation {
	candidates, ok := variationTable[exerciseID]
	if !ok {
		return nil
	}

	equipment := make(map[string]bool, len(goals.AvailableEquipment))
	for _, eq := range goals.AvailableEquipment {
		equipment[eq] = true
	}
	preferred := make(map[string]bool, len(goals.PreferredExercises))
	for _, p := range goals.PreferredExercises {
		preferred[p] = true
	}
	disliked := make(map[string]bool, len(goals.DislikedExercises))
	for _, d := range goals.DislikedExercises {
		disliked[d] = true
	}

	scored := make([]ScoredVariation, 0, len(candidates))
	for _, candidate := range candidates {
		score := 70.0
		if candidate.Equipment == "bodyweight" || equipment[candidate.Equipment] {
			score += 15
		} else {
			score -= 20
		}
		if preferred[candidate.ExerciseID] {
			score += 10
		}
		if disliked[candidate.ExerciseID] {
			score -= 30
		}
		scored = append(scored, ScoredVariation{
			ExerciseVariation: candidate,
			Score:             clampPercent(score),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > e.cfg.MaxVariations {
		scored = scored[:e.cfg.MaxVariations]
	}
	return scored
}

// goalAligned reports whether an exercise serves the user's primary or
// secondary objective.
func goalAligned(history ExerciseHistory, goals UserGoals) bool {
	aligned := func(goal GoalObjective) bool {
		switch goal {
		case GoalStrength:
			return history.Category == CategoryStrength || history.Type == ExerciseTypeCompound
		case GoalHypertrophy:
			return history.Category != CategoryEndurance
		case GoalEndurance, GoalWeightLoss:
			return history.Category == CategoryEndurance || history.Type == ExerciseTypeCompound
		default:
			return true
		}
	}
	if goals.Primary != "" && aligned(goals.Primary) {
		return true
	}
	return goals.Secondary != "" && aligned(goals.Secondary)
}

package progression

import "time"

type ExerciseType string

const (
	ExerciseTypeCompound  ExerciseType = "compound"
	ExerciseTypeIsolation ExerciseType = "isolation"
)

type ExerciseCategory string

const (
	CategoryStrength    ExerciseCategory = "strength"
	CategoryHypertrophy ExerciseCategory = "hypertrophy"
	CategoryEndurance   ExerciseCategory = "endurance"
)

// WorkoutSet is a single performed set within a session.
// RPE and FormScore are optional, they are only present when the user
// actually logged them.
type WorkoutSet struct {
	SetNumber int      `json:"setNumber"`
	Weight    float64  `json:"weight"`
	Reps      int      `json:"reps"`
	RPE       *float64 `json:"rpe,omitempty"`
	FormScore *float64 `json:"formScore,omitempty"`
	Completed bool     `json:"completed"`
}

type WorkoutSession struct {
	Date       time.Time    `json:"date"`
	TargetReps int          `json:"targetReps"`
	TargetSets int          `json:"targetSets"`
	Sets       []WorkoutSet `json:"sets"`
	AverageRPE *float64     `json:"averageRpe,omitempty"`
}

// ExerciseHistory holds the per-exercise session log.
// Sessions are ordered newest-first; the engine relies on that ordering
// and never mutates the slice.
type ExerciseHistory struct {
	ExerciseID string           `json:"exerciseId"`
	Name       string           `json:"name"`
	Type       ExerciseType     `json:"type"`
	Category   ExerciseCategory `json:"category"`
	Sessions   []WorkoutSession `json:"sessions"`
}

// LastWeight returns the heaviest weight of the most recent session,
// or 0 when there is no history.
func (h ExerciseHistory) LastWeight() float64 {
	if len(h.Sessions) == 0 {
		return 0
	}
	var maxWeight float64
	for _, set := range h.Sessions[0].Sets {
		if set.Weight > maxWeight {
			maxWeight = set.Weight
		}
	}
	return maxWeight
}

// SessionRPE returns the average RPE of a session. It prefers the
// session-level average when present, otherwise it is computed from the
// sets that have RPE recorded. The second return value is false when no
// RPE data exists at all.
func (s WorkoutSession) SessionRPE() (float64, bool) {
	if s.AverageRPE != nil {
		return *s.AverageRPE, true
	}
	var sum float64
	var count int
	for _, set := range s.Sets {
		if set.RPE != nil {
			sum += *set.RPE
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// CompletionRatio returns actual reps / target reps for the session,
// guarded against zero targets.
func (s WorkoutSession) CompletionRatio() float64 {
	target := s.TargetReps * s.TargetSets
	if target == 0 {
		return 0
	}
	var actual int
	for _, set := range s.Sets {
		actual += set.Reps
	}
	ratio := float64(actual) / float64(target)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// Volume returns total weight x reps for the session.
func (s WorkoutSession) Volume() float64 {
	var volume float64
	for _, set := range s.Sets {
		volume += set.Weight * float64(set.Reps)
	}
	return volume
}

type GoalObjective string

const (
	GoalStrength    GoalObjective = "strength"
	GoalHypertrophy GoalObjective = "hypertrophy"
	GoalEndurance   GoalObjective = "endurance"
	GoalWeightLoss  GoalObjective = "weight_loss"
)

type UserGoals struct {
	Primary            GoalObjective `json:"primary"`
	Secondary          GoalObjective `json:"secondary,omitempty"`
	TimeframeWeeks     int           `json:"timeframeWeeks"`
	AvailableEquipment []string      `json:"availableEquipment"`
	PreferredExercises []string      `json:"preferredExercises"`
	DislikedExercises  []string      `json:"dislikedExercises"`
	// WorkoutDurationMinutes is the time budget for a single session.
	WorkoutDurationMinutes int `json:"workoutDurationMinutes"`
}

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

type RecoveryCapacity string

const (
	RecoveryLow    RecoveryCapacity = "low"
	RecoveryMedium RecoveryCapacity = "medium"
	RecoveryHigh   RecoveryCapacity = "high"
)

type ProgressionStyle string

const (
	StyleConservative ProgressionStyle = "conservative"
	StyleStandard     ProgressionStyle = "standard"
	StyleAggressive   ProgressionStyle = "aggressive"
)

// UserAdaptationProfile is read-only configuration for a single
// computation. All fields have sane defaults, see DefaultAdaptationProfile.
type UserAdaptationProfile struct {
	ExperienceLevel       ExperienceLevel  `json:"experienceLevel"`
	AdaptationRate        float64          `json:"adaptationRate"`
	RecoveryCapacity      RecoveryCapacity `json:"recoveryCapacity"`
	PlateauSusceptibility float64          `json:"plateauSusceptibility"`
	PreferredStyle        ProgressionStyle `json:"preferredProgressionStyle"`
	InjuryHistory         []string         `json:"injuryHistory,omitempty"`
	StressLevel           float64          `json:"stressLevel"`
	SleepQuality          float64          `json:"sleepQuality"`
	NutritionQuality      float64          `json:"nutritionQuality"`
}

func DefaultAdaptationProfile() UserAdaptationProfile {
	return UserAdaptationProfile{
		ExperienceLevel:       ExperienceIntermediate,
		AdaptationRate:        1.0,
		RecoveryCapacity:      RecoveryMedium,
		PlateauSusceptibility: 0.5,
		PreferredStyle:        StyleStandard,
		StressLevel:           0.5,
		SleepQuality:          0.7,
		NutritionQuality:      0.7,
	}
}

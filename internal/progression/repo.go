package progression

import (
	"context"
	"errors"
	"time"

	"github.com/fitforge/server/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// UserHistories loads the complete per-exercise training log for a user,
// sessions ordered newest-first as the engine expects.
func (r *Repo) UserHistories(ctx context.Context, userID string) (_ []ExerciseHistory, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.userHistories")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exists, err := r.userExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownUser
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				e.exercise_id, e.name, e.type, e.category,
				ws.id, ws.performed_at, ws.target_reps, ws.target_sets, ws.average_rpe
			FROM workout_session ws
				JOIN exercise e ON e.exercise_id = ws.exercise_id
			WHERE ws.user_id = $1
			ORDER BY e.exercise_id, ws.performed_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	histories, sessionIDs, err := r.rows2histories(rows)
	if err != nil {
		return nil, err
	}
	if len(histories) == 0 {
		return nil, nil
	}

	if err := r.attachSets(ctx, sessionIDs, histories); err != nil {
		return nil, err
	}

	result := make([]ExerciseHistory, 0, len(histories))
	for _, h := range histories {
		result = append(result, *h)
	}
	return result, nil
}

// ExerciseHistory loads the training log of a single exercise for a user.
func (r *Repo) ExerciseHistory(ctx context.Context, userID, exerciseID string) (_ ExerciseHistory, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.exerciseHistory")
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("exercise.id", exerciseID),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exists, err := r.userExists(ctx, userID)
	if err != nil {
		return ExerciseHistory{}, err
	}
	if !exists {
		return ExerciseHistory{}, ErrUnknownUser
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				e.exercise_id, e.name, e.type, e.category,
				ws.id, ws.performed_at, ws.target_reps, ws.target_sets, ws.average_rpe
			FROM workout_session ws
				JOIN exercise e ON e.exercise_id = ws.exercise_id
			WHERE ws.user_id = $1 AND ws.exercise_id = $2
			ORDER BY ws.performed_at DESC;`,
		userID, exerciseID,
	)
	if err != nil {
		return ExerciseHistory{}, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return ExerciseHistory{}, err
	}

	histories, sessionIDs, err := r.rows2histories(rows)
	if err != nil {
		return ExerciseHistory{}, err
	}

	history, ok := histories[exerciseID]
	if !ok {
		return ExerciseHistory{}, ErrHistoryMissing
	}

	if err := r.attachSets(ctx, sessionIDs, histories); err != nil {
		return ExerciseHistory{}, err
	}

	return *history, nil
}

// UserGoals loads the stored training goals, falling back to sane
// defaults when the user never set any.
func (r *Repo) UserGoals(ctx context.Context, userID string) (_ UserGoals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.userGoals")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				primary_goal, secondary_goal, timeframe_weeks,
				available_equipment, preferred_exercises, disliked_exercises,
				workout_duration_minutes
			FROM user_goals
			WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return UserGoals{}, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return UserGoals{}, err
	}

	if !rows.Next() {
		return UserGoals{
			Primary:                GoalHypertrophy,
			TimeframeWeeks:         12,
			WorkoutDurationMinutes: 60,
		}, nil
	}

	var goals UserGoals
	var secondary *string
	if err := rows.Scan(
		&goals.Primary,
		&secondary,
		&goals.TimeframeWeeks,
		&goals.AvailableEquipment,
		&goals.PreferredExercises,
		&goals.DislikedExercises,
		&goals.WorkoutDurationMinutes,
	); err != nil {
		return UserGoals{}, err
	}
	if secondary != nil {
		goals.Secondary = GoalObjective(*secondary)
	}

	return goals, nil
}

// AdaptationProfile loads the per-user adaptation profile. A nil profile
// with nil error means the user has none recorded; the engine then uses
// its defaults.
func (r *Repo) AdaptationProfile(ctx context.Context, userID string) (_ *UserAdaptationProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.adaptationProfile")
	span.SetAttributes(attribute.String("user.id", userID))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				experience_level, adaptation_rate, recovery_capacity,
				plateau_susceptibility, preferred_style, injury_history,
				stress_level, sleep_quality, nutrition_quality
			FROM user_adaptation_profile
			WHERE user_id = $1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, nil
	}

	var profile UserAdaptationProfile
	if err := rows.Scan(
		&profile.ExperienceLevel,
		&profile.AdaptationRate,
		&profile.RecoveryCapacity,
		&profile.PlateauSusceptibility,
		&profile.PreferredStyle,
		&profile.InjuryHistory,
		&profile.StressLevel,
		&profile.SleepQuality,
		&profile.NutritionQuality,
	); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *Repo) userExists(ctx context.Context, userID string) (bool, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM user_account WHERE id = $1);`,
		userID,
	)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return false, err
	}

	if !rows.Next() {
		return false, errors.New("unexpected error, failed to check user existence")
	}

	var exists bool
	if err := rows.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// rows2histories groups session rows per exercise, preserving the
// newest-first ordering of the query. Returned sessions have no sets yet,
// attachSets fills those in.
func (r *Repo) rows2histories(rows pgx.Rows) (map[string]*ExerciseHistory, map[int]sessionRef, error) {
	histories := make(map[string]*ExerciseHistory)
	sessionIDs := make(map[int]sessionRef)
	for rows.Next() {
		var exerciseID, name string
		var exerciseType ExerciseType
		var category ExerciseCategory
		var sessionID int
		var performedAt time.Time
		var targetReps, targetSets int
		var averageRPE *float64
		if err := rows.Scan(
			&exerciseID, &name, &exerciseType, &category,
			&sessionID, &performedAt, &targetReps, &targetSets, &averageRPE,
		); err != nil {
			return nil, nil, err
		}

		history, ok := histories[exerciseID]
		if !ok {
			history = &ExerciseHistory{
				ExerciseID: exerciseID,
				Name:       name,
				Type:       exerciseType,
				Category:   category,
			}
			histories[exerciseID] = history
		}

		history.Sessions = append(history.Sessions, WorkoutSession{
			Date:       performedAt,
			TargetReps: targetReps,
			TargetSets: targetSets,
			AverageRPE: averageRPE,
		})
		sessionIDs[sessionID] = sessionRef{
			exerciseID:   exerciseID,
			sessionIndex: len(history.Sessions) - 1,
		}
	}
	return histories, sessionIDs, nil
}

type sessionRef struct {
	exerciseID   string
	sessionIndex int
}

// attachSets loads all sets of the given sessions in one query and slots
// them into the right session of the right history.
func (r *Repo) attachSets(
	ctx context.Context,
	sessionIDs map[int]sessionRef,
	histories map[string]*ExerciseHistory,
) error {
	if len(sessionIDs) == 0 {
		return nil
	}

	ids := make([]int, 0, len(sessionIDs))
	for id := range sessionIDs {
		ids = append(ids, id)
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				session_id, set_number, weight, reps, rpe, form_score, completed
			FROM workout_set
			WHERE session_id = ANY($1)
			ORDER BY session_id, set_number;`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	for rows.Next() {
		var sessionID int
		var set WorkoutSet
		if err := rows.Scan(
			&sessionID, &set.SetNumber, &set.Weight, &set.Reps,
			&set.RPE, &set.FormScore, &set.Completed,
		); err != nil {
			return err
		}

		ref, ok := sessionIDs[sessionID]
		if !ok {
			continue
		}
		history := histories[ref.exerciseID]
		history.Sessions[ref.sessionIndex].Sets = append(history.Sessions[ref.sessionIndex].Sets, set)
	}

	return nil
}

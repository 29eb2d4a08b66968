package progression

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fitforge/server/internal/cache"
	"github.com/fitforge/server/internal/telemetry/metrics"
	"github.com/fitforge/server/internal/telemetry/tracing"
	"github.com/fitforge/server/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progression_test

type trainingRepo interface {
	UserHistories(ctx context.Context, userID string) ([]ExerciseHistory, error)
	ExerciseHistory(ctx context.Context, userID, exerciseID string) (ExerciseHistory, error)
	UserGoals(ctx context.Context, userID string) (UserGoals, error)
	AdaptationProfile(ctx context.Context, userID string) (*UserAdaptationProfile, error)
}

type ExerciseRecommendationResponse struct {
	UserID         string                     `json:"userId"`
	Recommendation *ProgressionRecommendation `json:"recommendation"`
}

type PlateauAnalysisResponse struct {
	UserID     string           `json:"userId"`
	ExerciseID string           `json:"exerciseId"`
	Detection  PlateauDetection `json:"detection"`
}

type Handler struct {
	repo           trainingRepo
	engine         *Engine
	cache          *cache.Recommendations
	metricsManager *metrics.Manager
}

func NewHandler(
	repo trainingRepo,
	engine *Engine,
	recommendationsCache *cache.Recommendations,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		engine:         engine,
		cache:          recommendationsCache,
		metricsManager: metricsManager,
	}
}

// HandleWorkoutRecommendation assembles the full multi-exercise workout
// recommendation for a user. Responses are cached briefly per user.
func (handler *Handler) HandleWorkoutRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.workoutRecommendation")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userID"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	cacheKey := cache.WorkoutKey(userID)
	if cached, ok := handler.cache.Get(cacheKey); ok {
		handler.metricsManager.CounterCacheHits.Inc()
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}

	histories, err := handler.repo.UserHistories(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get histories for user %s: %s", userID, err)
		http.Error(w, "failed to get workout recommendation", http.StatusInternalServerError)
		return
	}

	goals, err := handler.repo.UserGoals(ctx, userID)
	if err != nil {
		log.Errorf("failed to get goals for user %s: %s", userID, err)
		http.Error(w, "failed to get workout recommendation", http.StatusInternalServerError)
		return
	}

	profile, err := handler.repo.AdaptationProfile(ctx, userID)
	if err != nil {
		log.Errorf("failed to get adaptation profile for user %s: %s", userID, err)
		http.Error(w, "failed to get workout recommendation", http.StatusInternalServerError)
		return
	}

	started := time.Now()
	recommendation := handler.engine.Recommend(RecommendParams{
		Histories: histories,
		Goals:     goals,
		Profile:   profile,
		AsOf:      time.Now(),
	})
	handler.metricsManager.HistRecommendationDuration.Observe(time.Since(started).Seconds())

	handler.metricsManager.CounterRecommendations.Inc()
	for _, intervention := range recommendation.Interventions {
		handler.metricsManager.CounterPlateausDetected.Inc()
		if intervention.Deload != nil {
			handler.metricsManager.CounterDeloadsPrescribed.Inc()
		}
	}

	recJson, err := json.Marshal(recommendation)
	if err != nil {
		log.Errorf("failed to marshal workout recommendation for user %s: %s", userID, err)
		http.Error(w, "failed to get workout recommendation", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set(cacheKey, recJson); err != nil {
		log.Warnf("failed to cache workout recommendation for user %s: %s", userID, err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, recJson, http.StatusOK)
}

// HandleExerciseRecommendation runs the single-exercise progression
// pipeline: metrics, plateau detection, strategy and weight suggestion.
func (handler *Handler) HandleExerciseRecommendation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.exerciseRecommendation")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userID"]
	exerciseID := vars["exerciseID"]
	if userID == "" || exerciseID == "" {
		http.Error(w, "error, user id or exercise id empty", http.StatusBadRequest)
		return
	}

	cacheKey := cache.ExerciseKey(userID, exerciseID)
	if cached, ok := handler.cache.Get(cacheKey); ok {
		handler.metricsManager.CounterCacheHits.Inc()
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cached, http.StatusOK)
		return
	}

	history, err := handler.repo.ExerciseHistory(ctx, userID, exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownUser):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, ErrHistoryMissing):
			http.Error(w, "exercise history not found", http.StatusNotFound)
		default:
			log.Errorf("failed to get history [%s] for user %s: %s", exerciseID, userID, err)
			http.Error(w, "failed to get exercise recommendation", http.StatusInternalServerError)
		}
		return
	}

	profile, err := handler.repo.AdaptationProfile(ctx, userID)
	if err != nil {
		log.Errorf("failed to get adaptation profile for user %s: %s", userID, err)
		http.Error(w, "failed to get exercise recommendation", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		defaultProfile := DefaultAdaptationProfile()
		profile = &defaultProfile
	}

	recommendation, err := handler.engine.RecommendExercise(history, *profile, time.Now())
	if err != nil {
		log.Errorf("failed to recommend [%s] for user %s: %s", exerciseID, userID, err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	respJson, err := json.Marshal(ExerciseRecommendationResponse{
		UserID:         userID,
		Recommendation: recommendation,
	})
	if err != nil {
		log.Errorf("failed to marshal exercise recommendation: %s", err)
		http.Error(w, "failed to get exercise recommendation", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set(cacheKey, respJson); err != nil {
		log.Warnf("failed to cache exercise recommendation for user %s: %s", userID, err)
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

// HandlePlateauAnalysis returns the raw plateau detection for a single
// exercise, without prescribing anything.
func (handler *Handler) HandlePlateauAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.plateauAnalysis")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userID"]
	exerciseID := vars["exerciseID"]
	if userID == "" || exerciseID == "" {
		http.Error(w, "error, user id or exercise id empty", http.StatusBadRequest)
		return
	}

	history, err := handler.repo.ExerciseHistory(ctx, userID, exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownUser):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, ErrHistoryMissing):
			http.Error(w, "exercise history not found", http.StatusNotFound)
		default:
			log.Errorf("failed to get history [%s] for user %s: %s", exerciseID, userID, err)
			http.Error(w, "failed to analyze plateau", http.StatusInternalServerError)
		}
		return
	}

	detection := handler.engine.DetectPlateau(history, time.Now())
	if detection.PlateauConfidence >= handler.engine.cfg.DeloadConfidence {
		handler.metricsManager.CounterPlateausDetected.Inc()
	}

	respJson, err := json.Marshal(PlateauAnalysisResponse{
		UserID:     userID,
		ExerciseID: exerciseID,
		Detection:  detection,
	})
	if err != nil {
		log.Errorf("failed to marshal plateau analysis: %s", err)
		http.Error(w, "failed to analyze plateau", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kmcgarry1/workout-planner/services"
	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

type WorkoutHandler struct {
	workoutService   *services.WorkoutService
	challengeService *services.ChallengeService
}

func NewWorkoutHandler(workoutService *services.WorkoutService, challengeService *services.ChallengeService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService:   workoutService,
		challengeService: challengeService,
	}
}

// GET /api/v1/workouts
func (h *WorkoutHandler) GetWorkouts(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.workoutService.List())
}

// GET /api/v1/workouts/{id}
func (h *WorkoutHandler) GetWorkout(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	wk, err := h.workoutService.Get(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Workout not found")
		return
	}

	respondWithJSON(w, http.StatusOK, wk)
}

// POST /api/v1/workouts - Create or update a workout
func (h *WorkoutHandler) SaveWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var wk workout.Workout
	if err := json.NewDecoder(r.Body).Decode(&wk); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved := h.workoutService.Save(ctx, &wk)
	respondWithJSON(w, http.StatusCreated, saved)
}

// DELETE /api/v1/workouts/{id}
func (h *WorkoutHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	if err := h.workoutService.Delete(ctx, vars["id"]); err != nil {
		respondWithError(w, http.StatusNotFound, "Workout not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Workout deleted"})
}

// POST /api/v1/workouts/{id}/duplicate
func (h *WorkoutHandler) DuplicateWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	dup, err := h.workoutService.Duplicate(ctx, vars["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Workout not found")
		return
	}

	respondWithJSON(w, http.StatusCreated, dup)
}

// POST /api/v1/workouts/{id}/complete - Mark done and feed the challenge engine
func (h *WorkoutHandler) CompleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	wk, firstCompletion, err := h.workoutService.Complete(ctx, vars["id"])
	if errors.Is(err, services.ErrWorkoutNotFound) {
		respondWithError(w, http.StatusNotFound, "Workout not found")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Only the first completion counts as a workout event.
	if firstCompletion {
		userID, _ := h.challengeService.SessionUser()
		h.challengeService.RecordWorkoutEvent(ctx, wk, userID)
	}

	respondWithJSON(w, http.StatusOK, wk)
}

// GET /api/v1/exercises/custom
func (h *WorkoutHandler) GetCustomExercises(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.workoutService.CustomExercises())
}

// POST /api/v1/exercises/custom
func (h *WorkoutHandler) SaveCustomExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var ex workout.Exercise
	if err := json.NewDecoder(r.Body).Decode(&ex); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if ex.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Exercise name is required")
		return
	}

	saved := h.workoutService.SaveCustomExercise(ctx, &ex)
	respondWithJSON(w, http.StatusCreated, saved)
}

// DELETE /api/v1/exercises/custom/{id}
func (h *WorkoutHandler) DeleteCustomExercise(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	if err := h.workoutService.DeleteCustomExercise(ctx, vars["id"]); err != nil {
		respondWithError(w, http.StatusNotFound, "Exercise not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Exercise deleted"})
}

// GET /api/v1/exercises/favorites
func (h *WorkoutHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.workoutService.Favorites())
}

// POST /api/v1/exercises/{id}/favorite
func (h *WorkoutHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	favorited := h.workoutService.ToggleFavorite(ctx, vars["id"])
	respondWithJSON(w, http.StatusOK, map[string]bool{"favorited": favorited})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

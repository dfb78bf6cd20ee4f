package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/kmcgarry1/workout-planner/internal/types/share"
	"github.com/kmcgarry1/workout-planner/services"
)

type ShareHandler struct {
	sharingService *services.SharingService
	workoutService *services.WorkoutService
}

func NewShareHandler(sharingService *services.SharingService, workoutService *services.WorkoutService) *ShareHandler {
	return &ShareHandler{
		sharingService: sharingService,
		workoutService: workoutService,
	}
}

type shareWorkoutRequest struct {
	WorkoutID string         `json:"workout_id" validate:"required"`
	Settings  share.Settings `json:"settings"`
}

// POST /api/v1/shares - Package a workout as a shareable template
func (h *ShareHandler) ShareWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req shareWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	wk, err := h.workoutService.Get(req.WorkoutID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Workout not found")
		return
	}

	shared, err := h.sharingService.Share(ctx, wk, req.Settings)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, shared)
}

// GET /api/v1/shares - List or search shared workouts
func (h *ShareHandler) GetSharedWorkouts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	tagsParam := r.URL.Query().Get("tags")

	if query != "" || tagsParam != "" {
		var tags []string
		if tagsParam != "" {
			tags = strings.Split(tagsParam, ",")
		}
		respondWithJSON(w, http.StatusOK, h.sharingService.Search(query, tags))
		return
	}

	respondWithJSON(w, http.StatusOK, h.sharingService.SharedWorkouts())
}

// GET /api/v1/shares/popular
func (h *ShareHandler) GetPopular(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.sharingService.PopularWorkouts())
}

// GET /api/v1/shares/recent
func (h *ShareHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.sharingService.RecentlyShared())
}

// GET /api/v1/shares/stats
func (h *ShareHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.sharingService.Stats())
}

// GET /api/v1/shares/received - Workouts imported from other users
func (h *ShareHandler) GetReceived(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.sharingService.ReceivedWorkouts())
}

// GET /api/v1/shares/history
func (h *ShareHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.sharingService.History())
}

// GET /api/v1/shares/{id}
func (h *ShareHandler) GetSharedWorkout(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shared, err := h.sharingService.Get(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Shared workout not found")
		return
	}

	respondWithJSON(w, http.StatusOK, shared)
}

// POST /api/v1/shares/{id}/import - Materialize a share as a local workout
func (h *ShareHandler) ImportSharedWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	shared, err := h.sharingService.Get(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Shared workout not found")
		return
	}

	imported, err := h.sharingService.Import(ctx, shared)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, imported)
}

type rateRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

// POST /api/v1/shares/{id}/rate
func (h *ShareHandler) RateSharedWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.sharingService.Rate(ctx, vars["id"], req.Rating)
	switch {
	case errors.Is(err, services.ErrSharedWorkoutNotFound):
		respondWithError(w, http.StatusNotFound, "Shared workout not found")
	case errors.Is(err, services.ErrInvalidRating):
		respondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	default:
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Rating recorded"})
	}
}

// POST /api/v1/shares/{id}/like
func (h *ShareHandler) LikeSharedWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	if err := h.sharingService.Like(ctx, vars["id"]); err != nil {
		respondWithError(w, http.StatusNotFound, "Shared workout not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Liked"})
}

// DELETE /api/v1/shares/{id}
func (h *ShareHandler) DeleteSharedWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	if err := h.sharingService.Delete(ctx, vars["id"]); err != nil {
		respondWithError(w, http.StatusNotFound, "Shared workout not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Shared workout deleted"})
}

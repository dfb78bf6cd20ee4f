package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kmcgarry1/workout-planner/internal/types/profile"
	"github.com/kmcgarry1/workout-planner/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GET /api/v1/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profileService.Current()
	if err != nil {
		respondWithError(w, http.StatusNotFound, "No profile exists")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

// POST /api/v1/profile - Create (or replace) the local profile
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var p profile.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if p.Username == "" {
		respondWithError(w, http.StatusBadRequest, "Username is required")
		return
	}

	created := h.profileService.Create(ctx, &p)
	respondWithJSON(w, http.StatusCreated, created)
}

// PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updates struct {
		DisplayName           *string  `json:"display_name,omitempty"`
		Bio                   *string  `json:"bio,omitempty"`
		Avatar                *string  `json:"avatar,omitempty"`
		IsPublic              *bool    `json:"is_public,omitempty"`
		FitnessLevel          *string  `json:"fitness_level,omitempty"`
		PrimaryGoals          []string `json:"primary_goals,omitempty"`
		PreferredWorkoutTypes []string `json:"preferred_workout_types,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.profileService.Update(ctx, func(p *profile.UserProfile) {
		if updates.DisplayName != nil {
			p.DisplayName = *updates.DisplayName
		}
		if updates.Bio != nil {
			p.Bio = *updates.Bio
		}
		if updates.Avatar != nil {
			p.Avatar = *updates.Avatar
		}
		if updates.IsPublic != nil {
			p.IsPublic = *updates.IsPublic
		}
		if updates.FitnessLevel != nil {
			p.FitnessLevel = profile.FitnessLevel(*updates.FitnessLevel)
		}
		if updates.PrimaryGoals != nil {
			p.PrimaryGoals = updates.PrimaryGoals
		}
		if updates.PreferredWorkoutTypes != nil {
			p.PreferredWorkoutTypes = updates.PreferredWorkoutTypes
		}
	})
	if errors.Is(err, services.ErrNoProfile) {
		respondWithError(w, http.StatusNotFound, "No profile exists")
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// GET /api/v1/profile/achievements
func (h *ProfileHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.profileService.Achievements())
}

// POST /api/v1/profile/achievements - Unlock an achievement by id
func (h *ProfileHandler) UnlockAchievement(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var a profile.Achievement
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if a.ID == "" {
		respondWithError(w, http.StatusBadRequest, "Achievement ID is required")
		return
	}

	if err := h.profileService.UnlockAchievement(ctx, a); err != nil {
		if errors.Is(err, services.ErrAchievementUnlocked) {
			respondWithError(w, http.StatusConflict, "Achievement already unlocked")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Achievement unlocked"})
}

// GET /api/v1/profile/stats
func (h *ProfileHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.profileService.Stats()
	if err != nil {
		respondWithError(w, http.StatusNotFound, "No profile exists")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

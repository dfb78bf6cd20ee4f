package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/kmcgarry1/workout-planner/services"
)

var validate = validator.New()

type ChallengeHandler struct {
	challengeService *services.ChallengeService
}

func NewChallengeHandler(challengeService *services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
	}
}

// GET /api/v1/challenges - List all known challenges
func (h *ChallengeHandler) GetChallenges(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("filter") {
	case "mine":
		respondWithJSON(w, http.StatusOK, h.challengeService.MyChallenges())
	case "active":
		respondWithJSON(w, http.StatusOK, h.challengeService.ActiveChallenges())
	case "completed":
		respondWithJSON(w, http.StatusOK, h.challengeService.CompletedChallenges())
	case "recommended":
		respondWithJSON(w, http.StatusOK, h.challengeService.RecommendedChallenges())
	default:
		respondWithJSON(w, http.StatusOK, h.challengeService.Challenges())
	}
}

// GET /api/v1/challenges/deadlines - Challenges ending within three days
func (h *ChallengeHandler) GetUpcomingDeadlines(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.challengeService.UpcomingDeadlines())
}

// GET /api/v1/challenges/{id}
func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	challenge, err := h.challengeService.GetChallenge(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Challenge not found")
		return
	}

	respondWithJSON(w, http.StatusOK, challenge)
}

type createChallengeRequest struct {
	TemplateID      string     `json:"template_id" validate:"required"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	Duration        int        `json:"duration,omitempty" validate:"gte=0,lte=365"`
	IsPublic        *bool      `json:"is_public,omitempty"`
	MaxParticipants int        `json:"max_participants,omitempty" validate:"gte=0"`
}

// POST /api/v1/challenges - Create a challenge from a template
func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req createChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	challenge, err := h.challengeService.CreateChallengeFromTemplate(ctx, req.TemplateID, services.Customization{
		StartDate:       req.StartDate,
		DurationDays:    req.Duration,
		IsPublic:        req.IsPublic,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			respondWithError(w, http.StatusNotFound, "Template not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, challenge)
}

type joinChallengeRequest struct {
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

// POST /api/v1/challenges/{id}/join
func (h *ChallengeHandler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)

	var req joinChallengeRequest
	if r.Body != nil {
		// Body is optional; an empty body joins as the session user.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.UserID == "" {
		req.UserID, req.UserName = h.challengeService.SessionUser()
	}

	err := h.challengeService.JoinChallenge(ctx, vars["id"], req.UserID, req.UserName)
	switch {
	case errors.Is(err, services.ErrChallengeNotFound):
		respondWithError(w, http.StatusNotFound, "Challenge not found")
	case errors.Is(err, services.ErrChallengeFull):
		respondWithError(w, http.StatusConflict, "Challenge is full")
	case errors.Is(err, services.ErrAlreadyJoined):
		respondWithError(w, http.StatusConflict, "Already participating in this challenge")
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	default:
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Joined challenge"})
	}
}

// GET /api/v1/challenges/{id}/leaderboard
func (h *ChallengeHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	leaderboard, err := h.challengeService.Leaderboard(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Challenge not found")
		return
	}

	respondWithJSON(w, http.StatusOK, leaderboard)
}

// GET /api/v1/challenges/{id}/progress - Session user's progress record
func (h *ChallengeHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	progress, err := h.challengeService.Progress(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, "No progress for this challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

// GET /api/v1/challenges/templates
func (h *ChallengeHandler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.challengeService.Templates())
}

// GET /api/v1/challenges/templates/{id}
func (h *ChallengeHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tmpl := h.challengeService.Template(vars["id"])
	if tmpl == nil {
		respondWithError(w, http.StatusNotFound, "Template not found")
		return
	}

	respondWithJSON(w, http.StatusOK, tmpl)
}

// GET /api/v1/challenges/stats - Cross-challenge summary for the session user
func (h *ChallengeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.challengeService.Stats())
}

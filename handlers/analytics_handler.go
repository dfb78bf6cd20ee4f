package handlers

import (
	"net/http"

	"github.com/kmcgarry1/workout-planner/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GET /api/v1/analytics/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.analyticsService.Summary())
}

// GET /api/v1/analytics/streaks
func (h *AnalyticsHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]int{
		"current_streak": h.analyticsService.CurrentStreak(),
		"longest_streak": h.analyticsService.LongestStreak(),
	})
}

// GET /api/v1/analytics/exercises - Frequency ranking and type breakdown
func (h *AnalyticsHandler) GetExerciseAnalytics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"frequency": h.analyticsService.ExerciseFrequency(),
		"most_used": h.analyticsService.MostUsedExercise(),
		"breakdown": h.analyticsService.ExerciseTypeBreakdown(),
	})
}

// GET /api/v1/analytics/records
func (h *AnalyticsHandler) GetPersonalRecords(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.analyticsService.PersonalRecords())
}

// GET /api/v1/analytics/progress/weekly
func (h *AnalyticsHandler) GetWeeklyProgress(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.analyticsService.WeeklyProgress())
}

// GET /api/v1/analytics/progress/monthly
func (h *AnalyticsHandler) GetMonthlyProgress(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.analyticsService.MonthlyProgress())
}

// GET /api/v1/analytics/goals
func (h *AnalyticsHandler) GetGoalProgress(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]services.GoalProgress{
		"weekly":  h.analyticsService.WeeklyGoalProgress(),
		"monthly": h.analyticsService.MonthlyGoalProgress(),
	})
}

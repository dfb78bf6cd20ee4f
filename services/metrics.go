package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "workout_events_total",
			Help: "Total number of completed-workout events recorded",
		},
	)
	challengesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "challenges_completed_total",
			Help: "Total number of challenges completed",
		},
	)
	rewardsUnlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rewards_unlocked_total",
			Help: "Total number of challenge rewards unlocked",
		},
	)
)

// InitMetrics registers the engine-level metrics. Call this from main.go
// alongside the HTTP middleware metrics.
func InitMetrics() {
	prometheus.MustRegister(workoutEventsTotal)
	prometheus.MustRegister(challengesCompletedTotal)
	prometheus.MustRegister(rewardsUnlockedTotal)
}

// Package challenge holds the pure decision logic behind the challenge
// engine: requirement matching and streak arithmetic. Nothing in here touches
// storage or emits notifications.
package challenge

import (
	"strings"

	chtypes "github.com/kmcgarry1/workout-planner/internal/types/challenge"
	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

var strengthIndicators = []string{"squat", "bench", "deadlift", "press", "curl"}
var cardioIndicators = []string{"run", "bike", "swim", "jump", "burpee"}

// Matches reports whether a workout counts toward a challenge's
// requirements. With no constraints clause every workout qualifies; with one,
// every specified restriction must hold.
func Matches(w *workout.Workout, reqs chtypes.Requirements) bool {
	constraints := reqs.Constraints
	if constraints == nil {
		return true
	}

	if len(constraints.WorkoutTypes) > 0 {
		workoutType := DetermineWorkoutType(w)
		found := false
		for _, t := range constraints.WorkoutTypes {
			if t == workoutType {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if constraints.MinDuration > 0 {
		if EstimateDuration(w) < constraints.MinDuration {
			return false
		}
	}

	if len(constraints.Exercises) > 0 {
		hasRequired := false
		for _, we := range w.Exercises {
			name := strings.ToLower(we.Exercise.Name)
			for _, required := range constraints.Exercises {
				if name == required {
					hasRequired = true
					break
				}
			}
			if hasRequired {
				break
			}
		}
		if !hasRequired {
			return false
		}
	}

	return true
}

// DetermineWorkoutType classifies a workout as "strength", "cardio" or
// "mixed" by counting exercise names that contain known indicator keywords.
// This is a feature-level heuristic, not a precise classification.
func DetermineWorkoutType(w *workout.Workout) string {
	strengthCount := 0
	cardioCount := 0

	for _, we := range w.Exercises {
		name := strings.ToLower(we.Exercise.Name)
		if containsAny(name, strengthIndicators) {
			strengthCount++
		}
		if containsAny(name, cardioIndicators) {
			cardioCount++
		}
	}

	if strengthCount > cardioCount {
		return "strength"
	}
	if cardioCount > strengthCount {
		return "cardio"
	}
	return "mixed"
}

// EstimateDuration approximates workout length in minutes: 3 minutes per
// exercise plus 10 for rest and setup.
func EstimateDuration(w *workout.Workout) int {
	return len(w.Exercises)*3 + 10
}

func containsAny(name string, indicators []string) bool {
	for _, indicator := range indicators {
		if strings.Contains(name, indicator) {
			return true
		}
	}
	return false
}

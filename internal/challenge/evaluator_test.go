package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	chtypes "github.com/kmcgarry1/workout-planner/internal/types/challenge"
	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

func workoutWith(names ...string) *workout.Workout {
	w := &workout.Workout{ID: "w1", Name: "Test Workout"}
	for i, name := range names {
		w.Exercises = append(w.Exercises, workout.WorkoutExercise{
			ID:       name,
			Exercise: workout.Exercise{Name: name},
			Order:    i,
		})
	}
	return w
}

func TestDetermineWorkoutType(t *testing.T) {
	tests := []struct {
		name      string
		exercises []string
		expected  string
	}{
		{"all strength", []string{"Back Squat", "Bench Press", "Deadlift"}, "strength"},
		{"all cardio", []string{"5k Run", "Bike Sprints"}, "cardio"},
		{"tie is mixed", []string{"Squat", "Run"}, "mixed"},
		{"no indicators is mixed", []string{"Yoga Flow", "Plank"}, "mixed"},
		{"empty workout is mixed", nil, "mixed"},
		{"case insensitive", []string{"BARBELL CURL", "leg press"}, "strength"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineWorkoutType(workoutWith(tt.exercises...)))
		})
	}
}

func TestEstimateDuration(t *testing.T) {
	assert.Equal(t, 10, EstimateDuration(workoutWith()))
	assert.Equal(t, 13, EstimateDuration(workoutWith("Squat")))
	assert.Equal(t, 25, EstimateDuration(workoutWith("a", "b", "c", "d", "e")))
}

func TestMatchesNoConstraints(t *testing.T) {
	reqs := chtypes.Requirements{
		Frequency: &chtypes.Frequency{Count: 7, Period: chtypes.PeriodTotal},
	}
	assert.True(t, Matches(workoutWith(), reqs))
	assert.True(t, Matches(workoutWith("Anything At All"), reqs))
}

func TestMatchesWorkoutTypes(t *testing.T) {
	reqs := chtypes.Requirements{
		Constraints: &chtypes.Constraints{WorkoutTypes: []string{"strength"}},
	}

	assert.True(t, Matches(workoutWith("Squat", "Bench Press"), reqs))
	assert.False(t, Matches(workoutWith("Run", "Bike"), reqs))
	// A tie classifies as mixed, which is not in the allowed list.
	assert.False(t, Matches(workoutWith("Squat", "Run"), reqs))
}

func TestMatchesMinDuration(t *testing.T) {
	reqs := chtypes.Requirements{
		Constraints: &chtypes.Constraints{MinDuration: 30},
	}

	// 7 exercises estimate to 31 minutes, 6 to 28.
	assert.True(t, Matches(workoutWith("a", "b", "c", "d", "e", "f", "g"), reqs))
	assert.False(t, Matches(workoutWith("a", "b", "c", "d", "e", "f"), reqs))
}

func TestMatchesRequiredExercises(t *testing.T) {
	reqs := chtypes.Requirements{
		Constraints: &chtypes.Constraints{Exercises: []string{"deadlift", "front squat"}},
	}

	assert.True(t, Matches(workoutWith("Deadlift", "Lunges"), reqs))
	assert.True(t, Matches(workoutWith("FRONT SQUAT"), reqs))
	// Substring is not enough; the whole name must match.
	assert.False(t, Matches(workoutWith("Romanian Deadlifts"), reqs))
	assert.False(t, Matches(workoutWith("Lunges"), reqs))
}

func TestMatchesCombinedConstraints(t *testing.T) {
	reqs := chtypes.Requirements{
		Constraints: &chtypes.Constraints{
			WorkoutTypes: []string{"strength"},
			MinDuration:  20,
			Exercises:    []string{"bench press"},
		},
	}

	assert.True(t, Matches(workoutWith("Bench Press", "Squat", "Curl", "Overhead Press"), reqs))
	// Right type and duration, missing the required exercise.
	assert.False(t, Matches(workoutWith("Squat", "Deadlift", "Curl", "Leg Press"), reqs))
}

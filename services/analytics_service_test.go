package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcgarry1/workout-planner/internal/storage"
	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

func newTestAnalytics(t *testing.T) (*AnalyticsService, *WorkoutService) {
	t.Helper()

	workouts, err := NewWorkoutService(storage.NewMemoryStore())
	require.NoError(t, err)

	analytics := NewAnalyticsService(workouts)
	return analytics, workouts
}

func completedOn(id string, date time.Time, exercises ...workout.WorkoutExercise) *workout.Workout {
	return &workout.Workout{
		ID:        id,
		Name:      id,
		Date:      date,
		Exercises: exercises,
		Completed: true,
	}
}

func benchSets(weight float64, reps int) workout.WorkoutExercise {
	return workout.WorkoutExercise{
		Exercise: workout.Exercise{Name: "Bench Press", Type: workout.TypeStrength},
		Sets: []workout.ExerciseSet{
			{SetNumber: 1, Weight: weight, Reps: reps},
		},
	}
}

func TestCompletionRate(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	assert.Equal(t, 0.0, analytics.CompletionRate())

	now := time.Now()
	workouts.Save(ctx, completedOn("w1", now))
	workouts.Save(ctx, completedOn("w2", now))
	workouts.Save(ctx, &workout.Workout{ID: "w3", Date: now})

	assert.InDelta(t, 66.67, analytics.CompletionRate(), 0.01)
}

func TestCurrentStreakCountsBackFromToday(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	now := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	analytics.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		workouts.Save(ctx, completedOn("w"+string(rune('a'+i)), now.AddDate(0, 0, -i)))
	}

	assert.Equal(t, 3, analytics.CurrentStreak())
}

func TestCurrentStreakBrokenByGap(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	now := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	analytics.now = func() time.Time { return now }

	workouts.Save(ctx, completedOn("w1", now))
	workouts.Save(ctx, completedOn("w2", now.AddDate(0, 0, -3)))

	assert.Equal(t, 1, analytics.CurrentStreak())
}

func TestLongestStreakToleratesOneRestDay(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	// Days 1, 3, 5: each gap is two days, which the rule allows.
	workouts.Save(ctx, completedOn("w1", base))
	workouts.Save(ctx, completedOn("w2", base.AddDate(0, 0, 2)))
	workouts.Save(ctx, completedOn("w3", base.AddDate(0, 0, 4)))
	// Day 10 is too far from day 5.
	workouts.Save(ctx, completedOn("w4", base.AddDate(0, 0, 9)))

	assert.Equal(t, 3, analytics.LongestStreak())
}

func TestExerciseFrequencyTopTen(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	now := time.Now()
	workouts.Save(ctx, completedOn("w1", now, benchSets(100, 5), benchSets(100, 5)))
	workouts.Save(ctx, completedOn("w2", now, benchSets(100, 5),
		workout.WorkoutExercise{Exercise: workout.Exercise{Name: "Squat", Type: workout.TypeStrength}}))

	freq := analytics.ExerciseFrequency()
	require.Len(t, freq, 2)
	assert.Equal(t, "Bench Press", freq[0].Name)
	assert.Equal(t, 3, freq[0].Count)
	assert.Equal(t, "Bench Press", analytics.MostUsedExercise())
}

func TestTotalVolumeStrengthOnly(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	cardio := workout.WorkoutExercise{
		Exercise: workout.Exercise{Name: "Row", Type: workout.TypeConditioning},
		Sets:     []workout.ExerciseSet{{SetNumber: 1, Time: 600}},
	}
	workouts.Save(ctx, completedOn("w1", time.Now(), benchSets(100, 5), cardio))

	assert.Equal(t, 500.0, analytics.TotalVolume())
}

func TestPersonalRecordsUseEstimatedOneRepMax(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	day1 := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 7)

	// 100x5 estimates to 116.7; 110x1 to 113.7. The rep set wins.
	workouts.Save(ctx, completedOn("w1", day1, benchSets(100, 5)))
	workouts.Save(ctx, completedOn("w2", day2, benchSets(110, 1)))

	records := analytics.PersonalRecords()
	require.Len(t, records, 1)
	assert.Equal(t, "Bench Press", records[0].Exercise)
	assert.Equal(t, 100.0, records[0].Weight)
	assert.Equal(t, 5, records[0].Reps)
	assert.True(t, records[0].Date.Equal(day1))
	assert.InDelta(t, 116.67, records[0].OneRepMax, 0.01)
}

func TestGoalProgress(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	analytics.now = func() time.Time { return now }

	workouts.Save(ctx, completedOn("w1", now.AddDate(0, 0, -1)))
	workouts.Save(ctx, completedOn("w2", now.AddDate(0, 0, -2)))

	weekly := analytics.WeeklyGoalProgress()
	assert.Equal(t, 2, weekly.Current)
	assert.Equal(t, 3, weekly.Target)
	assert.Equal(t, 67, weekly.Percentage)

	monthly := analytics.MonthlyGoalProgress()
	assert.Equal(t, 2, monthly.Current)
	assert.Equal(t, 12, monthly.Target)
	assert.Equal(t, 17, monthly.Percentage)
}

func TestSummaryStats(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	analytics.now = func() time.Time { return now }

	workouts.Save(ctx, completedOn("w1", now.AddDate(0, 0, -1), benchSets(100, 5)))

	summary := analytics.Summary()
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 100, summary.CompletionRate)
	assert.Equal(t, 1, summary.ThisWeek)
	assert.Equal(t, 500.0, summary.TotalVolume)
	assert.Equal(t, "Bench Press", summary.MostUsedExercise)
	assert.Equal(t, 100, summary.ExerciseBreakdown.Strength)
}

func TestWeeklyProgressWindow(t *testing.T) {
	analytics, workouts := newTestAnalytics(t)
	ctx := context.Background()

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	analytics.now = func() time.Time { return now }

	workouts.Save(ctx, completedOn("recent", now.AddDate(0, 0, -1)))
	workouts.Save(ctx, &workout.Workout{ID: "old", Date: now.AddDate(0, 0, -100)})

	weeks := analytics.WeeklyProgress()
	require.Len(t, weeks, 12)
	assert.Equal(t, "Week 1", weeks[0].Week)
	assert.Equal(t, "Week 12", weeks[11].Week)

	total := 0
	for _, wp := range weeks {
		total += wp.Workouts
	}
	// The 100-day-old workout falls outside the 12-week window.
	assert.Equal(t, 1, total)
}

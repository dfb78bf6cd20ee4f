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

func TestWorkoutSaveAssignsID(t *testing.T) {
	ws, err := NewWorkoutService(storage.NewMemoryStore())
	require.NoError(t, err)
	ctx := context.Background()

	saved := ws.Save(ctx, &workout.Workout{Name: "Push Day"})
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.Date.IsZero())

	loaded, err := ws.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push Day", loaded.Name)
}

func TestWorkoutSaveUpdatesExisting(t *testing.T) {
	ws, err := NewWorkoutService(storage.NewMemoryStore())
	require.NoError(t, err)
	ctx := context.Background()

	saved := ws.Save(ctx, &workout.Workout{Name: "Push Day"})
	saved.Name = "Pull Day"
	ws.Save(ctx, saved)

	assert.Len(t, ws.List(), 1)
	loaded, err := ws.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pull Day", loaded.Name)
}

func TestWorkoutDelete(t *testing.T) {
	ws, err := NewWorkoutService(storage.NewMemoryStore())
	require.NoError(t, err)
	ctx := context.Background()

	saved := ws.Save(ctx, &workout.Workout{Name: "Push Day"})
	require.NoError(t, ws.Delete(ctx, saved.ID))
	assert.Empty(t, ws.List())

	assert.ErrorIs(t, ws.Delete(ctx, saved.ID), ErrWorkoutNotFound)
}

func TestWorkoutDuplicateResetsCompletion(t *testing.T) {
	ws, err := NewWorkoutService(storage.NewMemoryStore())
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Now()
	original := ws.Save(ctx, &workout.Workout{
		Name:        "Leg Day",
		Completed:   true,
		CompletedAt: &now,
		Exercises: []workout.WorkoutExercise{
			{
				ID:       "we-1",
				Exercise: workout.Exercise{Name: "Squat"},
				Sets: []workout.ExerciseSet{
					{SetNumber: 1, Reps: 5, Weight: 100, Completed: true, CompletedAt: &now},
				},
			},
		},
	})

	dup, err := ws.Duplicate(ctx, original.ID)
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, dup.ID)
	assert.Equal(t, "Leg Day (Copy)", dup.Name)
	assert.False(t, dup.Completed)
	assert.Nil(t, dup.CompletedAt)
	require.Len(t, dup.Exercises, 1)
	assert.NotEqual(t, "we-1", dup.Exercises[0].ID)
	assert.False(t, dup.Exercises[0].Sets[0].Completed)
	// Planned numbers carry over.
	assert.Equal(t, 100.0, dup.Exercises[0].Sets[0].Weight)

	// The original is untouched.
	assert.True(t, original.Completed)
	assert.True(t, original.Exercises[0].Sets[0].Completed)
}

func TestWorkoutCompleteIsIdempotent(t *testing.T) {
	ws, err := NewWorkoutService(storage.NewMemoryStore())
	require.NoError(t, err)
	ctx := context.Background()

	saved := ws.Save(ctx, &workout.Workout{Name: "Push Day"})

	done, first, err := ws.Complete(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, first)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	completedAt := *done.CompletedAt

	// Completing again reports false and keeps the original timestamp.
	done, first, err = ws.Complete(ctx, saved.ID)
	require.NoError(t, err)
	assert.False(t, first)
	assert.Equal(t, completedAt, *done.CompletedAt)

	_, _, err = ws.Complete(ctx, "missing")
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestCustomExercisesAndFavorites(t *testing.T) {
	ws, err := NewWorkoutService(storage.NewMemoryStore())
	require.NoError(t, err)
	ctx := context.Background()

	ex := ws.SaveCustomExercise(ctx, &workout.Exercise{Name: "Sled Push", Type: workout.TypeConditioning})
	assert.NotEmpty(t, ex.ID)
	assert.True(t, ex.IsCustom)
	assert.Len(t, ws.CustomExercises(), 1)

	assert.True(t, ws.ToggleFavorite(ctx, ex.ID))
	assert.Equal(t, []string{ex.ID}, ws.Favorites())
	assert.False(t, ws.ToggleFavorite(ctx, ex.ID))
	assert.Empty(t, ws.Favorites())

	// Deleting an exercise clears any favorite entry too.
	ws.ToggleFavorite(ctx, ex.ID)
	require.NoError(t, ws.DeleteCustomExercise(ctx, ex.ID))
	assert.Empty(t, ws.CustomExercises())
	assert.Empty(t, ws.Favorites())
}

func TestWorkoutStatePersistsAcrossRestart(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	ws, err := NewWorkoutService(store)
	require.NoError(t, err)
	saved := ws.Save(ctx, &workout.Workout{Name: "Push Day"})
	ex := ws.SaveCustomExercise(ctx, &workout.Exercise{Name: "Sled Push"})
	ws.ToggleFavorite(ctx, ex.ID)

	revived, err := NewWorkoutService(store)
	require.NoError(t, err)

	loaded, err := revived.Get(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push Day", loaded.Name)
	assert.Len(t, revived.CustomExercises(), 1)
	assert.Equal(t, []string{ex.ID}, revived.Favorites())
}

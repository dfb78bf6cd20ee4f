package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmcgarry1/workout-planner/internal/storage"
	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

var ErrWorkoutNotFound = errors.New("workout not found")
var ErrExerciseNotFound = errors.New("exercise not found")

// WorkoutService owns the workout log, custom exercises and favorites. It is
// the event source for the challenge engine: completing a workout here is
// what produces a workout event.
type WorkoutService struct {
	mu              sync.Mutex
	store           storage.Store
	workouts        []*workout.Workout
	customExercises []*workout.Exercise
	favorites       map[string]bool
}

func NewWorkoutService(store storage.Store) (*WorkoutService, error) {
	s := &WorkoutService{
		store:     store,
		favorites: make(map[string]bool),
	}
	if err := s.load(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *WorkoutService) List() []*workout.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*workout.Workout, len(s.workouts))
	copy(out, s.workouts)
	return out
}

func (s *WorkoutService) Get(id string) (*workout.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.findLocked(id)
	if w == nil {
		return nil, ErrWorkoutNotFound
	}
	return w, nil
}

// Save creates or updates a workout. New workouts without an id get one.
func (s *WorkoutService) Save(ctx context.Context, w *workout.Workout) *workout.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		w.ID = fmt.Sprintf("workout-%s", uuid.New().String())
	}
	if w.Date.IsZero() {
		w.Date = time.Now()
	}

	if existing := s.findLocked(w.ID); existing != nil {
		*existing = *w
	} else {
		s.workouts = append(s.workouts, w)
	}

	s.persistWorkoutsLocked(ctx)
	return w
}

func (s *WorkoutService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.workouts {
		if w.ID == id {
			s.workouts = append(s.workouts[:i], s.workouts[i+1:]...)
			s.persistWorkoutsLocked(ctx)
			return nil
		}
	}
	return ErrWorkoutNotFound
}

// Duplicate copies a workout as a fresh, uncompleted plan dated now.
func (s *WorkoutService) Duplicate(ctx context.Context, id string) (*workout.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original := s.findLocked(id)
	if original == nil {
		return nil, ErrWorkoutNotFound
	}

	dup := *original
	dup.ID = fmt.Sprintf("workout-%s", uuid.New().String())
	dup.Name = original.Name + " (Copy)"
	dup.Date = time.Now()
	dup.Completed = false
	dup.StartedAt = nil
	dup.CompletedAt = nil

	dup.Exercises = make([]workout.WorkoutExercise, len(original.Exercises))
	for i, we := range original.Exercises {
		copied := we
		copied.ID = fmt.Sprintf("we-%s", uuid.New().String())
		copied.Sets = make([]workout.ExerciseSet, len(we.Sets))
		for j, set := range we.Sets {
			set.Completed = false
			set.CompletedAt = nil
			copied.Sets[j] = set
		}
		dup.Exercises[i] = copied
	}

	s.workouts = append(s.workouts, &dup)
	s.persistWorkoutsLocked(ctx)
	return &dup, nil
}

// Complete marks a workout done and returns it so the caller can feed the
// challenge engine. Completing an already-completed workout is a no-op.
func (s *WorkoutService) Complete(ctx context.Context, id string) (*workout.Workout, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.findLocked(id)
	if w == nil {
		return nil, false, ErrWorkoutNotFound
	}
	if w.Completed {
		return w, false, nil
	}

	now := time.Now()
	w.Completed = true
	w.CompletedAt = &now

	s.persistWorkoutsLocked(ctx)
	return w, true, nil
}

// Custom exercise management.

func (s *WorkoutService) CustomExercises() []*workout.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*workout.Exercise, len(s.customExercises))
	copy(out, s.customExercises)
	return out
}

func (s *WorkoutService) SaveCustomExercise(ctx context.Context, ex *workout.Exercise) *workout.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ex.ID == "" {
		ex.ID = fmt.Sprintf("exercise-%s", uuid.New().String())
	}
	ex.IsCustom = true
	if ex.CreatedAt == nil {
		now := time.Now()
		ex.CreatedAt = &now
	}

	for i, existing := range s.customExercises {
		if existing.ID == ex.ID {
			s.customExercises[i] = ex
			s.persistExercisesLocked(ctx)
			return ex
		}
	}
	s.customExercises = append(s.customExercises, ex)
	s.persistExercisesLocked(ctx)
	return ex
}

func (s *WorkoutService) DeleteCustomExercise(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ex := range s.customExercises {
		if ex.ID == id {
			s.customExercises = append(s.customExercises[:i], s.customExercises[i+1:]...)
			delete(s.favorites, id)
			s.persistExercisesLocked(ctx)
			s.persistFavoritesLocked(ctx)
			return nil
		}
	}
	return ErrExerciseNotFound
}

// ToggleFavorite flips an exercise's favorite flag and reports the new state.
func (s *WorkoutService) ToggleFavorite(ctx context.Context, exerciseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.favorites[exerciseID] {
		delete(s.favorites, exerciseID)
	} else {
		s.favorites[exerciseID] = true
	}
	s.persistFavoritesLocked(ctx)
	return s.favorites[exerciseID]
}

func (s *WorkoutService) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		out = append(out, id)
	}
	return out
}

func (s *WorkoutService) findLocked(id string) *workout.Workout {
	for _, w := range s.workouts {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (s *WorkoutService) load(ctx context.Context) error {
	raw, err := s.store.Load(ctx, storage.NSWorkouts)
	if err == nil {
		if decodeErr := storage.Decode(storage.NSWorkouts, raw, &s.workouts); decodeErr != nil {
			return decodeErr
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	raw, err = s.store.Load(ctx, storage.NSCustomExercises)
	if err == nil {
		if decodeErr := storage.Decode(storage.NSCustomExercises, raw, &s.customExercises); decodeErr != nil {
			return decodeErr
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	raw, err = s.store.Load(ctx, storage.NSFavorites)
	if err == nil {
		var ids []string
		if decodeErr := storage.Decode(storage.NSFavorites, raw, &ids); decodeErr != nil {
			return decodeErr
		}
		for _, id := range ids {
			s.favorites[id] = true
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	return nil
}

func (s *WorkoutService) persistWorkoutsLocked(ctx context.Context) {
	data, err := storage.Encode(storage.NSWorkouts, s.workouts)
	if err == nil {
		err = s.store.Save(ctx, storage.NSWorkouts, data)
	}
	if err != nil {
		log.Printf("Failed to save workouts: %v", err)
	}
}

func (s *WorkoutService) persistExercisesLocked(ctx context.Context) {
	data, err := storage.Encode(storage.NSCustomExercises, s.customExercises)
	if err == nil {
		err = s.store.Save(ctx, storage.NSCustomExercises, data)
	}
	if err != nil {
		log.Printf("Failed to save custom exercises: %v", err)
	}
}

func (s *WorkoutService) persistFavoritesLocked(ctx context.Context) {
	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	data, err := storage.Encode(storage.NSFavorites, ids)
	if err == nil {
		err = s.store.Save(ctx, storage.NSFavorites, data)
	}
	if err != nil {
		log.Printf("Failed to save favorites: %v", err)
	}
}

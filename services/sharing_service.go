package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmcgarry1/workout-planner/internal/storage"
	"github.com/kmcgarry1/workout-planner/internal/types/share"
	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

var ErrSharedWorkoutNotFound = errors.New("shared workout not found")
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// SharingService packages workouts into shareable templates, tracks what
// has been shared and imported, and keeps per-share usage stats.
type SharingService struct {
	mu       sync.Mutex
	store    storage.Store
	workouts *WorkoutService

	shared   []*share.SharedWorkout
	received []*workout.Workout
	history  []share.HistoryEntry
}

func NewSharingService(store storage.Store, workouts *WorkoutService) (*SharingService, error) {
	s := &SharingService{
		store:    store,
		workouts: workouts,
	}
	if err := s.load(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

type ShareStats struct {
	TotalShared    int     `json:"total_shared"`
	TotalDownloads int     `json:"total_downloads"`
	TotalLikes     int     `json:"total_likes"`
	AverageRating  float64 `json:"average_rating"`
}

// Share packages a workout as a template. Completion state is stripped so
// the template imports as a fresh plan.
func (s *SharingService) Share(ctx context.Context, w *workout.Workout, settings share.Settings) (*share.SharedWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	name := settings.Title
	if name == "" {
		name = w.Name
	}
	if name == "" {
		name = "Shared Workout"
	}

	sharedBy := settings.SharedBy
	if sharedBy == "" {
		sharedBy = "Anonymous"
	}

	isPublic := true
	if settings.IsPublic != nil {
		isPublic = *settings.IsPublic
	}
	isTemplate := true
	if settings.IsTemplate != nil {
		isTemplate = *settings.IsTemplate
	}

	category := settings.Category
	if category == "" {
		category = "General"
	}
	difficulty := settings.Difficulty
	if difficulty == "" {
		difficulty = "Intermediate"
	}
	duration := settings.EstimatedDuration
	if duration == 0 {
		duration = estimateWorkoutDuration(w)
	}

	sw := &share.SharedWorkout{
		ID:                fmt.Sprintf("share-%s", uuid.New().String()),
		OriginalWorkoutID: w.ID,
		Name:              name,
		Description:       settings.Description,
		Tags:              settings.Tags,
		SharedBy:          sharedBy,
		SharedAt:          now,
		IsPublic:          isPublic,
		IsTemplate:        isTemplate,
		Exercises:         templateExercises(w),
		Metadata: share.Metadata{
			Category:           category,
			Difficulty:         difficulty,
			EstimatedDuration:  duration,
			TargetMuscleGroups: extractMuscleGroups(w),
			EquipmentNeeded:    extractEquipment(w),
		},
		Versions: []share.Version{
			{Version: 1, CreatedAt: now, Changes: "Initial version"},
		},
	}

	s.shared = append(s.shared, sw)
	s.history = append(s.history, share.HistoryEntry{
		WorkoutID: w.ID,
		ShareID:   sw.ID,
		SharedAt:  now,
	})

	s.persistSharedLocked(ctx)
	s.persistHistoryLocked(ctx)
	return sw, nil
}

// Import materializes a shared template as a new local workout and bumps
// its download count.
func (s *SharingService) Import(ctx context.Context, sw *share.SharedWorkout) (*workout.Workout, error) {
	imported := &workout.Workout{
		ID:            fmt.Sprintf("workout-%s", uuid.New().String()),
		Name:          sw.Name + " (Imported)",
		Date:          time.Now(),
		Exercises:     importedExercises(sw),
		Tags:          sw.Tags,
		Notes:         fmt.Sprintf("Imported from: %s\n\n%s", sw.SharedBy, sw.Description),
		TotalDuration: sw.Metadata.EstimatedDuration,
	}

	s.workouts.Save(ctx, imported)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.received = append(s.received, imported)
	s.persistReceivedLocked(ctx)

	for _, existing := range s.shared {
		if existing.ID == sw.ID {
			existing.Stats.Downloads++
			s.persistSharedLocked(ctx)
			break
		}
	}

	return imported, nil
}

func (s *SharingService) Get(shareID string) (*share.SharedWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sw := s.findLocked(shareID); sw != nil {
		return sw, nil
	}
	return nil, ErrSharedWorkoutNotFound
}

// Search matches public shares against a free-text query and optional tags.
func (s *SharingService) Search(query string, tags []string) []*share.SharedWorkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var out []*share.SharedWorkout
	for _, sw := range s.shared {
		if !sw.IsPublic {
			continue
		}

		matchesQuery := q == "" ||
			strings.Contains(strings.ToLower(sw.Name), q) ||
			strings.Contains(strings.ToLower(sw.Description), q) ||
			strings.Contains(strings.ToLower(sw.SharedBy), q)

		matchesTags := len(tags) == 0
		for _, tag := range tags {
			if containsString(sw.Tags, tag) {
				matchesTags = true
				break
			}
		}

		if matchesQuery && matchesTags {
			out = append(out, sw)
		}
	}
	return out
}

func (s *SharingService) Rate(ctx context.Context, shareID string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sw := s.findLocked(shareID)
	if sw == nil {
		return ErrSharedWorkoutNotFound
	}

	total := sw.Stats.Rating*float64(sw.Stats.TotalRatings) + float64(rating)
	sw.Stats.TotalRatings++
	sw.Stats.Rating = math.Round(total/float64(sw.Stats.TotalRatings)*10) / 10

	s.persistSharedLocked(ctx)
	return nil
}

func (s *SharingService) Like(ctx context.Context, shareID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw := s.findLocked(shareID)
	if sw == nil {
		return ErrSharedWorkoutNotFound
	}
	sw.Stats.Likes++
	s.persistSharedLocked(ctx)
	return nil
}

func (s *SharingService) Delete(ctx context.Context, shareID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sw := range s.shared {
		if sw.ID == shareID {
			s.shared = append(s.shared[:i], s.shared[i+1:]...)
			s.persistSharedLocked(ctx)
			return nil
		}
	}
	return ErrSharedWorkoutNotFound
}

func (s *SharingService) SharedWorkouts() []*share.SharedWorkout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*share.SharedWorkout, len(s.shared))
	copy(out, s.shared)
	return out
}

func (s *SharingService) ReceivedWorkouts() []*workout.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*workout.Workout, len(s.received))
	copy(out, s.received)
	return out
}

func (s *SharingService) History() []share.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]share.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// RecentlyShared returns the five most recent shares, newest first.
func (s *SharingService) RecentlyShared() []*share.SharedWorkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := make([]*share.SharedWorkout, len(s.shared))
	copy(sorted, s.shared)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SharedAt.After(sorted[j].SharedAt)
	})
	if len(sorted) > 5 {
		sorted = sorted[:5]
	}
	return sorted
}

// PopularWorkouts ranks public shares by downloads plus likes, top ten.
func (s *SharingService) PopularWorkouts() []*share.SharedWorkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	var public []*share.SharedWorkout
	for _, sw := range s.shared {
		if sw.IsPublic {
			public = append(public, sw)
		}
	}
	sort.SliceStable(public, func(i, j int) bool {
		return public[i].Stats.Downloads+public[i].Stats.Likes >
			public[j].Stats.Downloads+public[j].Stats.Likes
	})
	if len(public) > 10 {
		public = public[:10]
	}
	return public
}

func (s *SharingService) Stats() ShareStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := ShareStats{TotalShared: len(s.shared)}
	var ratingSum float64
	for _, sw := range s.shared {
		stats.TotalDownloads += sw.Stats.Downloads
		stats.TotalLikes += sw.Stats.Likes
		ratingSum += sw.Stats.Rating
	}
	if len(s.shared) > 0 {
		stats.AverageRating = ratingSum / float64(len(s.shared))
	}
	return stats
}

func (s *SharingService) findLocked(shareID string) *share.SharedWorkout {
	for _, sw := range s.shared {
		if sw.ID == shareID {
			return sw
		}
	}
	return nil
}

// templateExercises copies a workout's exercises with set completion reset.
func templateExercises(w *workout.Workout) []workout.WorkoutExercise {
	out := make([]workout.WorkoutExercise, len(w.Exercises))
	for i, we := range w.Exercises {
		copied := we
		copied.Sets = make([]workout.ExerciseSet, len(we.Sets))
		for j, set := range we.Sets {
			set.Completed = false
			set.CompletedAt = nil
			set.ActualReps = 0
			set.ActualWeight = 0
			set.ActualTime = 0
			copied.Sets[j] = set
		}
		out[i] = copied
	}
	return out
}

func importedExercises(sw *share.SharedWorkout) []workout.WorkoutExercise {
	out := make([]workout.WorkoutExercise, len(sw.Exercises))
	for i, we := range sw.Exercises {
		copied := we
		copied.ID = fmt.Sprintf("we-%s", uuid.New().String())
		copied.Sets = make([]workout.ExerciseSet, len(we.Sets))
		for j, set := range we.Sets {
			set.Completed = false
			set.CompletedAt = nil
			copied.Sets[j] = set
		}
		out[i] = copied
	}
	return out
}

// estimateWorkoutDuration approximates minutes from set counts: 45s per
// strength set, 3m per conditioning set, plus rest.
func estimateWorkoutDuration(w *workout.Workout) int {
	var seconds int
	for _, we := range w.Exercises {
		for _, set := range we.Sets {
			if set.Time > 0 {
				seconds += set.Time
			} else if we.Exercise.Type == workout.TypeStrength {
				seconds += 45
			} else {
				seconds += 180
			}

			if set.Rest > 0 {
				seconds += set.Rest
			} else {
				seconds += 60
			}
		}
	}
	return int(math.Round(float64(seconds) / 60))
}

func extractMuscleGroups(w *workout.Workout) []string {
	seen := make(map[string]bool)
	var out []string
	for _, we := range w.Exercises {
		for _, mg := range we.Exercise.MuscleGroups {
			if !seen[mg] {
				seen[mg] = true
				out = append(out, mg)
			}
		}
	}
	return out
}

func extractEquipment(w *workout.Workout) []string {
	seen := make(map[string]bool)
	var out []string
	for _, we := range w.Exercises {
		for _, eq := range we.Exercise.Equipment {
			if !seen[eq] {
				seen[eq] = true
				out = append(out, eq)
			}
		}
	}
	return out
}

func (s *SharingService) load(ctx context.Context) error {
	raw, err := s.store.Load(ctx, storage.NSSharedWorkouts)
	if err == nil {
		if decodeErr := storage.Decode(storage.NSSharedWorkouts, raw, &s.shared); decodeErr != nil {
			return decodeErr
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	raw, err = s.store.Load(ctx, storage.NSReceivedWorkouts)
	if err == nil {
		if decodeErr := storage.Decode(storage.NSReceivedWorkouts, raw, &s.received); decodeErr != nil {
			return decodeErr
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	raw, err = s.store.Load(ctx, storage.NSShareHistory)
	if err == nil {
		if decodeErr := storage.Decode(storage.NSShareHistory, raw, &s.history); decodeErr != nil {
			return decodeErr
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	return nil
}

func (s *SharingService) persistSharedLocked(ctx context.Context) {
	data, err := storage.Encode(storage.NSSharedWorkouts, s.shared)
	if err == nil {
		err = s.store.Save(ctx, storage.NSSharedWorkouts, data)
	}
	if err != nil {
		log.Printf("Failed to save shared workouts: %v", err)
	}
}

func (s *SharingService) persistReceivedLocked(ctx context.Context) {
	data, err := storage.Encode(storage.NSReceivedWorkouts, s.received)
	if err == nil {
		err = s.store.Save(ctx, storage.NSReceivedWorkouts, data)
	}
	if err != nil {
		log.Printf("Failed to save received workouts: %v", err)
	}
}

func (s *SharingService) persistHistoryLocked(ctx context.Context) {
	data, err := storage.Encode(storage.NSShareHistory, s.history)
	if err == nil {
		err = s.store.Save(ctx, storage.NSShareHistory, data)
	}
	if err != nil {
		log.Printf("Failed to save share history: %v", err)
	}
}

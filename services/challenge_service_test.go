package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcgarry1/workout-planner/internal/storage"
	chtypes "github.com/kmcgarry1/workout-planner/internal/types/challenge"
	"github.com/kmcgarry1/workout-planner/internal/types/notification"
	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

func newTestEngine(t *testing.T) (*ChallengeService, *NotificationService, storage.Store) {
	t.Helper()

	store := storage.NewMemoryStore()
	notifications := NewNotificationService(store)
	t.Cleanup(notifications.Stop)

	engine, err := NewChallengeService(store, notifications, DefaultTemplates(), "local-user", "You")
	require.NoError(t, err)
	return engine, notifications, store
}

func strengthWorkout(id string) *workout.Workout {
	return &workout.Workout{
		ID:   id,
		Name: "Leg Day",
		Exercises: []workout.WorkoutExercise{
			{Exercise: workout.Exercise{Name: "Back Squat"}},
			{Exercise: workout.Exercise{Name: "Deadlift"}},
			{Exercise: workout.Exercise{Name: "Leg Press"}},
		},
		Completed: true,
	}
}

func countNotifications(notifications *NotificationService, typ notification.NotificationType) int {
	n := 0
	for _, item := range notifications.List(false).Notifications {
		if item.Type == typ {
			n++
		}
	}
	return n
}

func TestCreateChallengeFromTemplate(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return start }

	ch, err := engine.CreateChallengeFromTemplate(ctx, "consistency-7-day", Customization{})
	require.NoError(t, err)

	assert.Equal(t, "7-Day Consistency Challenge", ch.Name)
	assert.Equal(t, chtypes.StatusActive, ch.Status)
	assert.Equal(t, 7, ch.Duration.TotalDays)
	assert.True(t, ch.Duration.End.Equal(start.AddDate(0, 0, 7)))

	// Creator is auto-enrolled with a fresh progress record.
	require.Len(t, ch.Participants, 1)
	assert.Equal(t, "local-user", ch.Participants[0].UserID)

	progress, err := engine.Progress(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.0, progress.TargetValue)
	assert.Equal(t, "workouts", progress.Unit)
	assert.Equal(t, 0.0, progress.CurrentValue)
	assert.False(t, progress.IsCompleted)
}

func TestCreateChallengeUnknownTemplate(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.CreateChallengeFromTemplate(context.Background(), "no-such-template", Customization{})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestCreateChallengeCustomization(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	isPublic := true
	ch, err := engine.CreateChallengeFromTemplate(ctx, "consistency-7-day", Customization{
		StartDate:       &start,
		DurationDays:    14,
		IsPublic:        &isPublic,
		MaxParticipants: 2,
	})
	require.NoError(t, err)

	assert.True(t, ch.Duration.Start.Equal(start))
	assert.Equal(t, 14, ch.Duration.TotalDays)
	assert.True(t, ch.IsPublic)
	assert.Equal(t, 2, ch.MaxParticipants)
	// Rewards are deep-copied; the template stays pristine.
	ch.Rewards[0].Name = "changed"
	assert.Equal(t, "Consistency Champion", engine.Template("consistency-7-day").Rewards[0].Name)
}

func TestJoinChallenge(t *testing.T) {
	engine, notifications, _ := newTestEngine(t)
	ctx := context.Background()

	ch, err := engine.CreateChallengeFromTemplate(ctx, "consistency-7-day", Customization{MaxParticipants: 2})
	require.NoError(t, err)

	require.NoError(t, engine.JoinChallenge(ctx, ch.ID, "friend-1", "Alex"))
	assert.Len(t, ch.Participants, 2)

	// Duplicate join is rejected without touching the participant list.
	assert.ErrorIs(t, engine.JoinChallenge(ctx, ch.ID, "friend-1", "Alex"), ErrAlreadyJoined)
	assert.Len(t, ch.Participants, 2)

	// Capacity is enforced.
	assert.ErrorIs(t, engine.JoinChallenge(ctx, ch.ID, "friend-2", "Sam"), ErrChallengeFull)
	assert.Len(t, ch.Participants, 2)

	assert.ErrorIs(t, engine.JoinChallenge(ctx, "nope", "friend-2", "Sam"), ErrChallengeNotFound)

	assert.Equal(t, 1, countNotifications(notifications, notification.TypeNewParticipant))
}

func TestRecordWorkoutEventProgressAndStreak(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	current := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return current }

	ch, err := engine.CreateChallengeFromTemplate(ctx, "consistency-7-day", Customization{})
	require.NoError(t, err)

	engine.RecordWorkoutEvent(ctx, strengthWorkout("w1"), "local-user")

	progress, err := engine.Progress(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, progress.CurrentValue)
	assert.InDelta(t, 100.0/7.0, progress.CompletionPercentage, 0.01)
	assert.Equal(t, 1, progress.StreakData.Current)
	require.Len(t, progress.DailyProgress, 1)
	assert.Equal(t, []string{"w1"}, progress.DailyProgress[0].WorkoutsCompleted)

	// Second workout the same day adds value but not streak.
	engine.RecordWorkoutEvent(ctx, strengthWorkout("w2"), "local-user")
	assert.Equal(t, 2.0, progress.CurrentValue)
	assert.Equal(t, 1, progress.StreakData.Current)
	require.Len(t, progress.DailyProgress, 1)
	assert.Equal(t, 2.0, progress.DailyProgress[0].Value)
}

func TestRecordWorkoutEventIgnoresNonQualifying(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	// strength-30-day requires strength workouts of at least 30 minutes.
	ch, err := engine.CreateChallengeFromTemplate(ctx, "strength-30-day", Customization{})
	require.NoError(t, err)

	cardio := &workout.Workout{
		ID: "c1",
		Exercises: []workout.WorkoutExercise{
			{Exercise: workout.Exercise{Name: "5k Run"}},
			{Exercise: workout.Exercise{Name: "Bike Sprints"}},
			{Exercise: workout.Exercise{Name: "Jump Rope"}},
			{Exercise: workout.Exercise{Name: "Burpees"}},
			{Exercise: workout.Exercise{Name: "Swim"}},
			{Exercise: workout.Exercise{Name: "Box Jumps"}},
			{Exercise: workout.Exercise{Name: "Sprints Run"}},
		},
	}
	engine.RecordWorkoutEvent(ctx, cardio, "local-user")

	progress, err := engine.Progress(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, progress.CurrentValue)
	assert.Empty(t, progress.DailyProgress)
	assert.Equal(t, 0, progress.StreakData.Current)
}

func TestRecordWorkoutEventUnknownUser(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	ch, err := engine.CreateChallengeFromTemplate(ctx, "consistency-7-day", Customization{})
	require.NoError(t, err)

	engine.RecordWorkoutEvent(ctx, strengthWorkout("w1"), "stranger")

	progress, err := engine.Progress(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, progress.CurrentValue)
}

func TestSevenDayChallengeEndToEnd(t *testing.T) {
	engine, notifications, _ := newTestEngine(t)
	ctx := context.Background()

	current := time.Date(2026, 2, 1, 7, 30, 0, 0, time.UTC)
	engine.now = func() time.Time { return current }

	ch, err := engine.CreateChallengeFromTemplate(ctx, "consistency-7-day", Customization{})
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		engine.RecordWorkoutEvent(ctx, strengthWorkout("w"+string(rune('a'+i))), "local-user")
		current = current.AddDate(0, 0, 1)
	}

	progress, err := engine.Progress(ch.ID)
	require.NoError(t, err)
	assert.True(t, progress.IsCompleted)
	require.NotNil(t, progress.CompletedAt)
	assert.Equal(t, 100.0, progress.CompletionPercentage)
	assert.Equal(t, 7.0, progress.CurrentValue)
	assert.Equal(t, 7, progress.StreakData.Current)
	assert.Equal(t, 7, progress.StreakData.Longest)

	assert.Equal(t, chtypes.StatusCompleted, ch.Status)

	// Exactly one completion notification and one reward unlock.
	assert.Equal(t, 1, countNotifications(notifications, notification.TypeChallengeCompleted))
	assert.Equal(t, 1, countNotifications(notifications, notification.TypeRewardUnlocked))

	require.NotNil(t, ch.Rewards[0].UnlockedAt)
	unlockedAt := *ch.Rewards[0].UnlockedAt

	stats := engine.Stats()
	assert.Equal(t, 50, stats.TotalPoints)
	assert.Equal(t, 1, stats.BadgesEarned)
	assert.Equal(t, 1, stats.CompletedChallenges)

	// A completed challenge stops accepting events; the reward stays as-is.
	engine.RecordWorkoutEvent(ctx, strengthWorkout("extra"), "local-user")
	assert.Equal(t, 7.0, progress.CurrentValue)
	assert.Equal(t, unlockedAt, *ch.Rewards[0].UnlockedAt)
	assert.Equal(t, 1, countNotifications(notifications, notification.TypeChallengeCompleted))
}

func TestRecordWorkoutEventAfterWindow(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	current := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return current }

	ch, err := engine.CreateChallengeFromTemplate(ctx, "consistency-7-day", Customization{})
	require.NoError(t, err)

	current = current.AddDate(0, 0, 8)
	engine.RecordWorkoutEvent(ctx, strengthWorkout("late"), "local-user")

	progress, err := engine.Progress(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, progress.CurrentValue)
}

func TestLeaderboardOrdering(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	ch, err := engine.CreateChallengeFromTemplate(ctx, "consistency-7-day", Customization{})
	require.NoError(t, err)
	require.NoError(t, engine.JoinChallenge(ctx, ch.ID, "friend-1", "Alex"))

	engine.RecordWorkoutEvent(ctx, strengthWorkout("w1"), "friend-1")
	engine.RecordWorkoutEvent(ctx, strengthWorkout("w2"), "friend-1")
	engine.RecordWorkoutEvent(ctx, strengthWorkout("w3"), "local-user")

	lb, err := engine.Leaderboard(ch.ID)
	require.NoError(t, err)
	require.Len(t, lb.Rankings, 2)
	assert.Equal(t, "friend-1", lb.Rankings[0].UserID)
	assert.Equal(t, 1, lb.Rankings[0].Rank)
	assert.Equal(t, "local-user", lb.Rankings[1].UserID)
	assert.Equal(t, 2, lb.Rankings[1].Rank)
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	store := storage.NewMemoryStore()
	notifications := NewNotificationService(store)
	t.Cleanup(notifications.Stop)
	ctx := context.Background()

	engine, err := NewChallengeService(store, notifications, DefaultTemplates(), "local-user", "You")
	require.NoError(t, err)

	ch, err := engine.CreateChallengeFromTemplate(ctx, "consistency-7-day", Customization{})
	require.NoError(t, err)
	engine.RecordWorkoutEvent(ctx, strengthWorkout("w1"), "local-user")

	revived, err := NewChallengeService(store, notifications, DefaultTemplates(), "local-user", "You")
	require.NoError(t, err)

	loaded, err := revived.GetChallenge(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, ch.Name, loaded.Name)

	progress, err := revived.Progress(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, progress.CurrentValue)
	assert.Equal(t, 1, progress.StreakData.Current)

	// The revived progress record is the same one linked into the
	// participant entry, not a detached copy.
	assert.Same(t, progress, loaded.Participant("local-user").Progress)
}

func TestUserLevelThresholds(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	assert.Equal(t, chtypes.DifficultyBeginner, engine.UserLevel())
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcgarry1/workout-planner/internal/storage"
	"github.com/kmcgarry1/workout-planner/internal/types/profile"
)

func newTestProfile(t *testing.T) *ProfileService {
	t.Helper()

	store := storage.NewMemoryStore()
	notifications := NewNotificationService(store)
	t.Cleanup(notifications.Stop)

	ps, err := NewProfileService(store, notifications)
	require.NoError(t, err)
	return ps
}

func TestCreateProfileFillsDefaults(t *testing.T) {
	ps := newTestProfile(t)

	_, err := ps.Current()
	assert.ErrorIs(t, err, ErrNoProfile)

	created := ps.Create(context.Background(), &profile.UserProfile{Username: "kmcgarry"})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "kmcgarry", created.DisplayName)
	assert.Equal(t, profile.LevelBeginner, created.FitnessLevel)
	assert.False(t, created.JoinedDate.IsZero())

	current, err := ps.Current()
	require.NoError(t, err)
	assert.Equal(t, created.ID, current.ID)
}

func TestUpdateProfileRequiresOne(t *testing.T) {
	ps := newTestProfile(t)
	ctx := context.Background()

	_, err := ps.Update(ctx, func(p *profile.UserProfile) { p.Bio = "x" })
	assert.ErrorIs(t, err, ErrNoProfile)

	ps.Create(ctx, &profile.UserProfile{Username: "kmcgarry"})
	updated, err := ps.Update(ctx, func(p *profile.UserProfile) { p.Bio = "lifting things" })
	require.NoError(t, err)
	assert.Equal(t, "lifting things", updated.Bio)
}

func TestUnlockAchievementSetOnce(t *testing.T) {
	ps := newTestProfile(t)
	ctx := context.Background()

	catalog := DefaultAchievements()
	require.NoError(t, ps.UnlockAchievement(ctx, catalog[0]))

	unlocked := ps.Achievements()
	require.Len(t, unlocked, 1)
	assert.NotNil(t, unlocked[0].UnlockedAt)

	// Second unlock of the same achievement is rejected.
	assert.ErrorIs(t, ps.UnlockAchievement(ctx, catalog[0]), ErrAchievementUnlocked)
	assert.Len(t, ps.Achievements(), 1)
}

func TestProfileStatsLevel(t *testing.T) {
	ps := newTestProfile(t)
	ctx := context.Background()

	ps.Create(ctx, &profile.UserProfile{Username: "kmcgarry", Followers: 10, SharedWorkouts: 4})

	// Two commons and one rare: 45 points, still level 1.
	require.NoError(t, ps.UnlockAchievement(ctx, profile.Achievement{ID: "a1", Name: "A", Rarity: profile.RarityCommon}))
	require.NoError(t, ps.UnlockAchievement(ctx, profile.Achievement{ID: "a2", Name: "B", Rarity: profile.RarityCommon}))
	require.NoError(t, ps.UnlockAchievement(ctx, profile.Achievement{ID: "a3", Name: "C", Rarity: profile.RarityRare}))

	stats, err := ps.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 3, stats.TotalAchievements)
	assert.Equal(t, 1, stats.RareAchievements)
	assert.Equal(t, 40, stats.SocialScore)

	// A legendary pushes the total to 145 points: level 2.
	require.NoError(t, ps.UnlockAchievement(ctx, profile.Achievement{ID: "a4", Name: "D", Rarity: profile.RarityLegendary}))
	stats, err = ps.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Level)
}

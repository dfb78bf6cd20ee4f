package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chtypes "github.com/kmcgarry1/workout-planner/internal/types/challenge"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	progress := map[string]*chtypes.Progress{
		"challenge-1": {
			UserID:       "local-user",
			ChallengeID:  "challenge-1",
			StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			CurrentValue: 3,
			TargetValue:  7,
			Unit:         "workouts",
			StreakData:   chtypes.StreakData{Current: 3, Longest: 3},
		},
	}

	data, err := Encode(NSProgress, progress)
	require.NoError(t, err)

	var revived map[string]*chtypes.Progress
	require.NoError(t, Decode(NSProgress, data, &revived))

	require.Contains(t, revived, "challenge-1")
	assert.Equal(t, 3.0, revived["challenge-1"].CurrentValue)
	assert.Equal(t, 3, revived["challenge-1"].StreakData.Current)
	assert.True(t, progress["challenge-1"].StartDate.Equal(revived["challenge-1"].StartDate))
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	data := []byte(`{"version": 99, "saved_at": "2026-01-01T00:00:00Z", "data": {}}`)

	var out map[string]any
	err := Decode(NSChallenges, data, &out)
	require.Error(t, err)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, NSChallenges, perr.Namespace)
	assert.Equal(t, "decode", perr.Op)
}

func TestDecodeRejectsMalformedDate(t *testing.T) {
	data := []byte(`{"version": 1, "saved_at": "2026-01-01T00:00:00Z", ` +
		`"data": {"user_id": "u", "start_date": "not-a-date"}}`)

	var out chtypes.Progress
	err := Decode(NSProgress, data, &out)
	require.Error(t, err)

	var perr *PersistenceError
	assert.ErrorAs(t, err, &perr)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	var out map[string]any
	err := Decode(NSWorkouts, []byte("not json at all"), &out)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, NSWorkouts, perr.Namespace)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Load(ctx, NSChallenges)
	assert.ErrorIs(t, err, ErrNotFound)

	payload := []byte(`{"version":1,"data":[]}`)
	require.NoError(t, store.Save(ctx, NSChallenges, payload))

	loaded, err := store.Load(ctx, NSChallenges)
	require.NoError(t, err)
	assert.Equal(t, payload, loaded)

	// The store keeps its own copy; mutating the original is invisible.
	payload[0] = 'X'
	loaded, err = store.Load(ctx, NSChallenges)
	require.NoError(t, err)
	assert.Equal(t, byte('{'), loaded[0])

	require.NoError(t, store.Close())
}

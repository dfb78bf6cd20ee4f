package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcgarry1/workout-planner/internal/storage"
	"github.com/kmcgarry1/workout-planner/internal/types/notification"
)

func newTestNotifications(t *testing.T) *NotificationService {
	t.Helper()
	ns := NewNotificationService(storage.NewMemoryStore())
	t.Cleanup(ns.Stop)
	return ns
}

func TestNotifyNewestFirst(t *testing.T) {
	ns := newTestNotifications(t)
	ctx := context.Background()

	ns.Notify(ctx, &notification.Notification{Type: notification.TypeNewParticipant, Title: "first"})
	ns.Notify(ctx, &notification.Notification{Type: notification.TypeNewParticipant, Title: "second"})

	list := ns.List(false)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, "second", list.Notifications[0].Title)
	assert.Equal(t, 2, list.UnreadCount)
}

func TestMarkAsReadAndUnreadFilter(t *testing.T) {
	ns := newTestNotifications(t)
	ctx := context.Background()

	first := &notification.Notification{Type: notification.TypeNewParticipant, Title: "first"}
	ns.Notify(ctx, first)
	ns.Notify(ctx, &notification.Notification{Type: notification.TypeNewParticipant, Title: "second"})

	require.NoError(t, ns.MarkAsRead(ctx, first.ID))
	assert.Equal(t, 1, ns.UnreadCount())

	unread := ns.List(true)
	require.Len(t, unread.Notifications, 1)
	assert.Equal(t, "second", unread.Notifications[0].Title)

	ns.MarkAllAsRead(ctx)
	assert.Equal(t, 0, ns.UnreadCount())
}

func TestPreferencesGateNotifications(t *testing.T) {
	ns := newTestNotifications(t)
	ctx := context.Background()

	prefs := ns.GetPreferences()
	prefs.Challenges = false
	ns.UpdatePreferences(ctx, prefs)

	ns.Notify(ctx, &notification.Notification{Type: notification.TypeChallengeCompleted, Title: "dropped"})
	ns.Notify(ctx, &notification.Notification{Type: notification.TypeRewardUnlocked, Title: "kept"})

	list := ns.List(false)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, "kept", list.Notifications[0].Title)
}

func TestDeleteNotification(t *testing.T) {
	ns := newTestNotifications(t)
	ctx := context.Background()

	n := &notification.Notification{Type: notification.TypeNewParticipant, Title: "bye"}
	ns.Notify(ctx, n)

	require.NoError(t, ns.Delete(ctx, n.ID))
	assert.Empty(t, ns.List(false).Notifications)
	assert.Error(t, ns.Delete(ctx, n.ID))
}

func TestNotificationsPersistAcrossRestart(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	ns := NewNotificationService(store)
	ns.Notify(ctx, &notification.Notification{
		Type:  notification.TypeChallengeCompleted,
		Title: "Challenge Completed!",
		Data:  notification.ChallengeCompletedData{ChallengeName: "7-Day", TargetValue: 7, DaysTaken: 7},
	})
	ns.Stop()

	revived := NewNotificationService(store)
	t.Cleanup(revived.Stop)

	list := revived.List(false)
	require.Len(t, list.Notifications, 1)

	// The typed payload survives the roundtrip.
	data, ok := list.Notifications[0].Data.(notification.ChallengeCompletedData)
	require.True(t, ok)
	assert.Equal(t, "7-Day", data.ChallengeName)
	assert.Equal(t, 7, data.DaysTaken)
}

package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmcgarry1/workout-planner/internal/storage"
	"github.com/kmcgarry1/workout-planner/internal/types/notification"
)

// NotificationService is the sink for everything the engine and services
// emit. Delivery to connected clients is fire-and-forget through the
// dispatcher; the list itself is kept newest-first and persisted.
type NotificationService struct {
	mu            sync.Mutex
	store         storage.Store
	dispatcher    *NotificationDispatcher
	notifications []*notification.Notification
	prefs         notification.Preferences
}

func NewNotificationService(store storage.Store) *NotificationService {
	service := &NotificationService{
		store: store,
		prefs: notification.DefaultPreferences(),
	}

	service.dispatcher = NewNotificationDispatcher()

	if err := service.load(context.Background()); err != nil {
		log.Printf("Failed to load notifications: %v", err)
	}

	return service
}

// SetPushProvider injects the live delivery channel (the websocket hub).
func (s *NotificationService) SetPushProvider(provider PushProvider) {
	s.dispatcher.SetPushProvider(provider)
}

// Stop shuts the dispatcher workers down.
func (s *NotificationService) Stop() {
	s.dispatcher.Stop()
}

// Notify records a notification and queues it for delivery. It never returns
// an error: a failed save is logged and the in-memory list stays
// authoritative for the session.
func (s *NotificationService) Notify(ctx context.Context, n *notification.Notification) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.mu.Lock()
	if !s.enabled(n.Type) {
		s.mu.Unlock()
		log.Printf("Notification type %s disabled, dropping %s", n.Type, n.ID)
		return
	}
	// Newest first, same as the feed order clients render.
	s.notifications = append([]*notification.Notification{n}, s.notifications...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.dispatcher.Dispatch(ctx, n)
}

func (s *NotificationService) List(unreadOnly bool) *notification.ListResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*notification.Notification, 0, len(s.notifications))
	unread := 0
	for _, n := range s.notifications {
		if !n.Read {
			unread++
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}

	return &notification.ListResponse{
		Notifications: out,
		UnreadCount:   unread,
		TotalCount:    len(s.notifications),
	}
}

func (s *NotificationService) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.ID == id {
			n.Read = true
			s.persistLocked(ctx)
			return nil
		}
	}
	return errors.New("notification not found")
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		n.Read = true
	}
	s.persistLocked(ctx)
}

func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			s.persistLocked(ctx)
			return nil
		}
	}
	return errors.New("notification not found")
}

func (s *NotificationService) GetPreferences() notification.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, prefs notification.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
	if err := s.savePrefsLocked(ctx); err != nil {
		log.Printf("Failed to save notification preferences: %v", err)
	}
}

func (s *NotificationService) enabled(t notification.NotificationType) bool {
	switch t {
	case notification.TypeRewardUnlocked:
		return s.prefs.Achievements
	case notification.TypeChallengeCompleted, notification.TypeMilestoneReached,
		notification.TypeStreakBroken, notification.TypeNewParticipant,
		notification.TypeLeaderboardChange:
		return s.prefs.Challenges
	}
	return true
}

func (s *NotificationService) load(ctx context.Context) error {
	raw, err := s.store.Load(ctx, storage.NSNotifications)
	if err == nil {
		var list []*notification.Notification
		if decodeErr := storage.Decode(storage.NSNotifications, raw, &list); decodeErr != nil {
			return decodeErr
		}
		s.notifications = list
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	raw, err = s.store.Load(ctx, storage.NSNotifSettings)
	if err == nil {
		var prefs notification.Preferences
		if decodeErr := storage.Decode(storage.NSNotifSettings, raw, &prefs); decodeErr != nil {
			return decodeErr
		}
		s.prefs = prefs
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	return nil
}

func (s *NotificationService) persistLocked(ctx context.Context) {
	data, err := storage.Encode(storage.NSNotifications, s.notifications)
	if err == nil {
		err = s.store.Save(ctx, storage.NSNotifications, data)
	}
	if err != nil {
		log.Printf("Failed to save notifications: %v", err)
	}
}

func (s *NotificationService) savePrefsLocked(ctx context.Context) error {
	data, err := storage.Encode(storage.NSNotifSettings, s.prefs)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, storage.NSNotifSettings, data)
}

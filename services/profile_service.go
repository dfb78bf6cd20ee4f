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
	"github.com/kmcgarry1/workout-planner/internal/types/notification"
	"github.com/kmcgarry1/workout-planner/internal/types/profile"
)

var ErrNoProfile = errors.New("no profile exists")
var ErrAchievementUnlocked = errors.New("achievement already unlocked")

// ProfileService manages the local user profile and the achievement
// collection. Achievements unlock at most once.
type ProfileService struct {
	mu            sync.Mutex
	store         storage.Store
	notifications *NotificationService

	current      *profile.UserProfile
	achievements []*profile.Achievement
}

func NewProfileService(store storage.Store, notifications *NotificationService) (*ProfileService, error) {
	s := &ProfileService{
		store:         store,
		notifications: notifications,
	}
	if err := s.load(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

type ProfileStats struct {
	Level             int `json:"level"`
	TotalAchievements int `json:"total_achievements"`
	RareAchievements  int `json:"rare_achievements"`
	JoinedDays        int `json:"joined_days"`
	SocialScore       int `json:"social_score"`
}

func (s *ProfileService) Current() (*profile.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoProfile
	}
	return s.current, nil
}

// Create builds a profile from partial input, filling defaults, and persists
// it. An existing profile is replaced.
func (s *ProfileService) Create(ctx context.Context, p *profile.UserProfile) *profile.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = fmt.Sprintf("user-%s", uuid.New().String())
	}
	if p.DisplayName == "" {
		p.DisplayName = p.Username
	}
	if p.JoinedDate.IsZero() {
		p.JoinedDate = time.Now()
	}
	if p.FitnessLevel == "" {
		p.FitnessLevel = profile.LevelBeginner
	}
	if p.PrimaryGoals == nil {
		p.PrimaryGoals = []string{}
	}
	if p.PreferredWorkoutTypes == nil {
		p.PreferredWorkoutTypes = []string{}
	}

	s.current = p
	s.persistProfileLocked(ctx)
	return p
}

func (s *ProfileService) Update(ctx context.Context, apply func(*profile.UserProfile)) (*profile.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoProfile
	}
	apply(s.current)
	s.persistProfileLocked(ctx)
	return s.current, nil
}

// UnlockAchievement records an achievement the first time it is earned.
// A second unlock of the same id returns ErrAchievementUnlocked.
func (s *ProfileService) UnlockAchievement(ctx context.Context, a profile.Achievement) error {
	s.mu.Lock()

	for _, existing := range s.achievements {
		if existing.ID == a.ID {
			s.mu.Unlock()
			return ErrAchievementUnlocked
		}
	}

	now := time.Now()
	a.UnlockedAt = &now
	s.achievements = append(s.achievements, &a)
	s.persistAchievementsLocked(ctx)
	s.mu.Unlock()

	if s.notifications != nil {
		s.notifications.Notify(ctx, &notification.Notification{
			Type:    notification.TypeRewardUnlocked,
			Title:   "Achievement Unlocked!",
			Message: a.Name,
			Data: notification.RewardUnlockedData{
				RewardID:   a.ID,
				RewardName: a.Name,
				RewardType: "badge",
			},
		})
	}
	return nil
}

func (s *ProfileService) Achievements() []*profile.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*profile.Achievement, len(s.achievements))
	copy(out, s.achievements)
	return out
}

// Stats summarizes the profile for display. Level grows with achievement
// points: 10 per common, 25 rare, 50 epic, 100 legendary.
func (s *ProfileService) Stats() (ProfileStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ProfileStats{}, ErrNoProfile
	}

	var points, rare int
	for _, a := range s.achievements {
		switch a.Rarity {
		case profile.RarityCommon:
			points += 10
		case profile.RarityRare:
			points += 25
			rare++
		case profile.RarityEpic:
			points += 50
			rare++
		case profile.RarityLegendary:
			points += 100
			rare++
		}
	}

	social := s.current.Followers*2 + s.current.Following + s.current.SharedWorkouts*5
	if social > 100 {
		social = 100
	}

	return ProfileStats{
		Level:             points/100 + 1,
		TotalAchievements: len(s.achievements),
		RareAchievements:  rare,
		JoinedDays:        int(time.Since(s.current.JoinedDate).Hours() / 24),
		SocialScore:       social,
	}, nil
}

// DefaultAchievements is the built-in locked achievement catalog.
func DefaultAchievements() []profile.Achievement {
	return []profile.Achievement{
		{
			ID:          "first_workout",
			Name:        "Getting Started",
			Description: "Complete your first workout",
			Icon:        "star",
			Category:    profile.CategorySpecial,
			Rarity:      profile.RarityCommon,
		},
		{
			ID:          "week_streak",
			Name:        "Week Warrior",
			Description: "Work out 7 days in a row",
			Icon:        "check",
			Category:    profile.CategoryConsistency,
			Rarity:      profile.RarityCommon,
		},
		{
			ID:          "month_streak",
			Name:        "Monthly Master",
			Description: "Work out for 30 days straight",
			Icon:        "star",
			Category:    profile.CategoryConsistency,
			Rarity:      profile.RarityRare,
		},
		{
			ID:          "first_pr",
			Name:        "Personal Best",
			Description: "Set your first personal record",
			Icon:        "star",
			Category:    profile.CategoryStrength,
			Rarity:      profile.RarityCommon,
		},
		{
			ID:          "social_sharer",
			Name:        "Sharing is Caring",
			Description: "Share your first workout with the community",
			Icon:        "star",
			Category:    profile.CategorySocial,
			Rarity:      profile.RarityCommon,
		},
	}
}

func (s *ProfileService) load(ctx context.Context) error {
	raw, err := s.store.Load(ctx, storage.NSProfile)
	if err == nil {
		if decodeErr := storage.Decode(storage.NSProfile, raw, &s.current); decodeErr != nil {
			return decodeErr
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	raw, err = s.store.Load(ctx, storage.NSAchievements)
	if err == nil {
		if decodeErr := storage.Decode(storage.NSAchievements, raw, &s.achievements); decodeErr != nil {
			return decodeErr
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	return nil
}

func (s *ProfileService) persistProfileLocked(ctx context.Context) {
	data, err := storage.Encode(storage.NSProfile, s.current)
	if err == nil {
		err = s.store.Save(ctx, storage.NSProfile, data)
	}
	if err != nil {
		log.Printf("Failed to save profile: %v", err)
	}
}

func (s *ProfileService) persistAchievementsLocked(ctx context.Context) {
	data, err := storage.Encode(storage.NSAchievements, s.achievements)
	if err == nil {
		err = s.store.Save(ctx, storage.NSAchievements, data)
	}
	if err != nil {
		log.Printf("Failed to save achievements: %v", err)
	}
}

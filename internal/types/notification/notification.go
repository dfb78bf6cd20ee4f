package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	TypeMilestoneReached   NotificationType = "milestone_reached"
	TypeChallengeCompleted NotificationType = "challenge_completed"
	TypeRewardUnlocked     NotificationType = "reward_unlocked"
	TypeStreakBroken       NotificationType = "streak_broken"
	TypeNewParticipant     NotificationType = "new_participant"
	TypeLeaderboardChange  NotificationType = "leaderboard_change"
)

// Data is the typed payload attached to a notification. Each notification
// kind has exactly one payload variant; there is no free-form map.
type Data interface {
	Kind() NotificationType
}

type ChallengeCompletedData struct {
	ChallengeName string `json:"challenge_name"`
	TargetValue   float64 `json:"target_value"`
	DaysTaken     int    `json:"days_taken"`
}

func (ChallengeCompletedData) Kind() NotificationType { return TypeChallengeCompleted }

type RewardUnlockedData struct {
	RewardID   string `json:"reward_id"`
	RewardName string `json:"reward_name"`
	RewardType string `json:"reward_type"`
	Points     int    `json:"points"`
}

func (RewardUnlockedData) Kind() NotificationType { return TypeRewardUnlocked }

type MilestoneReachedData struct {
	MilestoneID      string  `json:"milestone_id"`
	MilestoneName    string  `json:"milestone_name"`
	TargetPercentage float64 `json:"target_percentage"`
}

func (MilestoneReachedData) Kind() NotificationType { return TypeMilestoneReached }

type StreakBrokenData struct {
	PreviousStreak int `json:"previous_streak"`
}

func (StreakBrokenData) Kind() NotificationType { return TypeStreakBroken }

type NewParticipantData struct {
	UserName string `json:"user_name"`
}

func (NewParticipantData) Kind() NotificationType { return TypeNewParticipant }

type Notification struct {
	ID          uuid.UUID        `json:"id"`
	Type        NotificationType `json:"type"`
	ChallengeID string           `json:"challenge_id"`
	UserID      string           `json:"user_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        Data             `json:"data,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// envelope carries the payload variant through JSON alongside its kind tag so
// the revival step can pick the right concrete type.
type envelope struct {
	ID          uuid.UUID        `json:"id"`
	Type        NotificationType `json:"type"`
	ChallengeID string           `json:"challenge_id"`
	UserID      string           `json:"user_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        json.RawMessage  `json:"data,omitempty"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (n Notification) MarshalJSON() ([]byte, error) {
	env := envelope{
		ID:          n.ID,
		Type:        n.Type,
		ChallengeID: n.ChallengeID,
		UserID:      n.UserID,
		Title:       n.Title,
		Message:     n.Message,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
	if n.Data != nil {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}

func (n *Notification) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	n.ID = env.ID
	n.Type = env.Type
	n.ChallengeID = env.ChallengeID
	n.UserID = env.UserID
	n.Title = env.Title
	n.Message = env.Message
	n.Read = env.Read
	n.CreatedAt = env.CreatedAt
	n.Data = nil

	if len(env.Data) == 0 {
		return nil
	}

	switch env.Type {
	case TypeChallengeCompleted:
		var d ChallengeCompletedData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		n.Data = d
	case TypeRewardUnlocked:
		var d RewardUnlockedData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		n.Data = d
	case TypeMilestoneReached:
		var d MilestoneReachedData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		n.Data = d
	case TypeStreakBroken:
		var d StreakBrokenData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		n.Data = d
	case TypeNewParticipant, TypeLeaderboardChange:
		var d NewParticipantData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return err
		}
		n.Data = d
	default:
		return fmt.Errorf("unknown notification type %q", env.Type)
	}
	return nil
}

// Preferences mirror the original app's notification settings toggles.
type Preferences struct {
	Achievements     bool `json:"achievements"`
	Challenges       bool `json:"challenges"`
	WorkoutReminders bool `json:"workout_reminders"`
	WeeklyProgress   bool `json:"weekly_progress"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Achievements:     true,
		Challenges:       true,
		WorkoutReminders: true,
		WeeklyProgress:   true,
	}
}

type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
	TotalCount    int             `json:"total_count"`
}

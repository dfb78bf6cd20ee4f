package profile

import (
	"time"
)

type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "Beginner"
	LevelIntermediate FitnessLevel = "Intermediate"
	LevelAdvanced     FitnessLevel = "Advanced"
	LevelExpert       FitnessLevel = "Expert"
)

type UserProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	Bio         string `json:"bio,omitempty"`
	JoinedDate  time.Time `json:"joined_date"`
	IsPublic    bool   `json:"is_public"`

	FitnessLevel          FitnessLevel `json:"fitness_level"`
	PrimaryGoals          []string     `json:"primary_goals"`
	PreferredWorkoutTypes []string     `json:"preferred_workout_types"`

	Followers      int `json:"followers"`
	Following      int `json:"following"`
	SharedWorkouts int `json:"shared_workouts"`

	ShowStats        bool `json:"show_stats"`
	ShowWorkouts     bool `json:"show_workouts"`
	ShowAchievements bool `json:"show_achievements"`
	AllowMessages    bool `json:"allow_messages"`
}

type AchievementCategory string

const (
	CategoryConsistency AchievementCategory = "Consistency"
	CategoryStrength    AchievementCategory = "Strength"
	CategoryVolume      AchievementCategory = "Volume"
	CategorySocial      AchievementCategory = "Social"
	CategorySpecial     AchievementCategory = "Special"
)

type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// Achievement is earned at most once; UnlockedAt is set when it is earned.
type Achievement struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Rarity      Rarity              `json:"rarity"`
	UnlockedAt  *time.Time          `json:"unlocked_at,omitempty"`
	Progress    float64             `json:"progress,omitempty"` // 0-100 for progress-based achievements
	Target      float64             `json:"target,omitempty"`
}

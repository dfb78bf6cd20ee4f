package challenge

import (
	"time"
)

type ChallengeType string

const (
	TypeStreak      ChallengeType = "streak"
	TypeTarget      ChallengeType = "target"
	TypeCompetition ChallengeType = "competition"
	TypeGroup       ChallengeType = "group"
)

type Category string

const (
	CategoryStrength    Category = "strength"
	CategoryCardio      Category = "cardio"
	CategoryConsistency Category = "consistency"
	CategoryEndurance   Category = "endurance"
	CategoryMixed       Category = "mixed"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type FrequencyPeriod string

const (
	PeriodDaily  FrequencyPeriod = "daily"
	PeriodWeekly FrequencyPeriod = "weekly"
	PeriodTotal  FrequencyPeriod = "total"
)

// Duration is the challenge time window. End is always Start plus TotalDays.
type Duration struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	TotalDays int       `json:"total_days"`
}

type Frequency struct {
	Count  int             `json:"count" yaml:"count"`
	Period FrequencyPeriod `json:"period" yaml:"period"`
}

type Target struct {
	Metric string  `json:"metric" yaml:"metric"`
	Value  float64 `json:"value" yaml:"value"`
	Unit   string  `json:"unit" yaml:"unit"`
}

// Constraints restrict which workouts count toward a challenge. A workout
// qualifies only if every specified clause holds.
type Constraints struct {
	WorkoutTypes []string `json:"workout_types,omitempty" yaml:"workout_types"`
	MinDuration  int      `json:"min_duration,omitempty" yaml:"min_duration"` // minutes
	Exercises    []string `json:"exercises,omitempty" yaml:"exercises"`       // lowercase names
}

type Requirements struct {
	Frequency   *Frequency   `json:"frequency,omitempty" yaml:"frequency"`
	Target      *Target      `json:"target,omitempty" yaml:"target"`
	Constraints *Constraints `json:"constraints,omitempty" yaml:"constraints"`
}

// DailyProgress holds the qualifying activity for one calendar day. Date is
// normalized to midnight; there is at most one entry per day.
type DailyProgress struct {
	Date              time.Time `json:"date"`
	Value             float64   `json:"value"`
	WorkoutsCompleted []string  `json:"workouts_completed"`
	Notes             string    `json:"notes,omitempty"`
	Validated         bool      `json:"validated"`
}

type StreakData struct {
	Current    int       `json:"current"`
	Longest    int       `json:"longest"`
	LastUpdate time.Time `json:"last_update"`
}

// Progress is the per-user tracking record against a challenge target. It is
// owned by the challenge engine and mutated only through workout events and
// completion logic.
type Progress struct {
	UserID      string    `json:"user_id"`
	ChallengeID string    `json:"challenge_id"`
	StartDate   time.Time `json:"start_date"`

	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Unit         string  `json:"unit"`

	DailyProgress []DailyProgress `json:"daily_progress"`
	StreakData    StreakData      `json:"streak_data"`

	IsCompleted          bool       `json:"is_completed"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	CompletionPercentage float64    `json:"completion_percentage"`
}

type RewardType string

const (
	RewardBadge       RewardType = "badge"
	RewardPoints      RewardType = "points"
	RewardTitle       RewardType = "title"
	RewardAchievement RewardType = "achievement"
)

type RewardRequirementType string

const (
	RequireCompletion RewardRequirementType = "completion"
	RequireMilestone  RewardRequirementType = "milestone"
	RequireStreak     RewardRequirementType = "streak"
	RequireRanking    RewardRequirementType = "ranking"
)

type RewardRequirement struct {
	Type  RewardRequirementType `json:"type" yaml:"type"`
	Value int                   `json:"value" yaml:"value"`
}

// Reward is unlocked at most once; UnlockedAt is set-once.
type Reward struct {
	ID          string            `json:"id" yaml:"id"`
	Type        RewardType        `json:"type" yaml:"type"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description"`
	Value       int               `json:"value" yaml:"value"`
	UnlockedAt  *time.Time        `json:"unlocked_at,omitempty" yaml:"-"`
	Requirement RewardRequirement `json:"requirement" yaml:"requirement"`
}

// Milestone is a completion-percentage checkpoint. UnlockedBy records the
// users whose progress has crossed TargetPercentage.
type Milestone struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description,omitempty" yaml:"description"`
	TargetPercentage float64  `json:"target_percentage" yaml:"target_percentage"`
	Reward           *Reward  `json:"reward,omitempty" yaml:"reward"`
	UnlockedBy       []string `json:"unlocked_by" yaml:"-"`
}

type Participant struct {
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name"`
	JoinedAt time.Time `json:"joined_at"`
	Progress *Progress `json:"progress"`
	Rank     int       `json:"rank,omitempty"`
	IsActive bool      `json:"is_active"`
}

type Challenge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Type        ChallengeType `json:"type"`
	Category    Category      `json:"category"`
	Difficulty  Difficulty    `json:"difficulty"`

	Duration     Duration     `json:"duration"`
	Requirements Requirements `json:"requirements"`

	Progress   *Progress    `json:"progress"`
	Rewards    []*Reward    `json:"rewards"`
	Milestones []*Milestone `json:"milestones"`

	IsPublic        bool           `json:"is_public"`
	Participants    []*Participant `json:"participants"`
	CreatedBy       string         `json:"created_by"`
	MaxParticipants int            `json:"max_participants,omitempty"` // 0 = unlimited

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Participant returns the participant record for userID, or nil.
func (c *Challenge) Participant(userID string) *Participant {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// Template is a reusable, pre-authored challenge blueprint.
type Template struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Type        ChallengeType `json:"type" yaml:"type"`
	Category    Category      `json:"category" yaml:"category"`
	Difficulty  Difficulty    `json:"difficulty" yaml:"difficulty"`

	DefaultDuration int          `json:"default_duration" yaml:"default_duration"` // days
	Requirements    Requirements `json:"requirements" yaml:"requirements"`
	Rewards         []*Reward    `json:"rewards" yaml:"rewards"`
	Milestones      []*Milestone `json:"milestones" yaml:"milestones"`

	UsageCount int      `json:"usage_count" yaml:"usage_count"`
	Rating     float64  `json:"rating" yaml:"rating"`
	Tags       []string `json:"tags" yaml:"tags"`
	IsOfficial bool     `json:"is_official" yaml:"is_official"`
}

type LeaderboardEntry struct {
	Rank                 int       `json:"rank"`
	UserID               string    `json:"user_id"`
	UserName             string    `json:"user_name"`
	Progress             float64   `json:"progress"`
	TargetValue          float64   `json:"target_value"`
	CompletionPercentage float64   `json:"completion_percentage"`
	StreakDays           int       `json:"streak_days"`
	LastActivity         time.Time `json:"last_activity"`
}

type Leaderboard struct {
	ChallengeID       string             `json:"challenge_id"`
	Rankings          []LeaderboardEntry `json:"rankings"`
	LastUpdated       time.Time          `json:"last_updated"`
	TotalParticipants int                `json:"total_participants"`
}

// Stats is the cross-challenge summary for the current user.
type Stats struct {
	TotalChallenges     int `json:"total_challenges"`
	ActiveChallenges    int `json:"active_challenges"`
	CompletedChallenges int `json:"completed_challenges"`
	CurrentStreak       int `json:"current_streak"`
	LongestStreak       int `json:"longest_streak"`
	TotalPoints         int `json:"total_points"`
	BadgesEarned        int `json:"badges_earned"`
}

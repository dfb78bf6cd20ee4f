package workout

import (
	"time"
)

type ExerciseType string

const (
	TypeStrength     ExerciseType = "strength"
	TypeConditioning ExerciseType = "conditioning"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Exercise is a single movement definition, either built-in or user-created.
type Exercise struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         ExerciseType `json:"type"`
	Category     string       `json:"category,omitempty"` // e.g. "Upper Body", "Cardio", "Core"
	Description  string       `json:"description,omitempty"`
	MuscleGroups []string     `json:"muscle_groups,omitempty"`
	Equipment    []string     `json:"equipment,omitempty"`
	Difficulty   Difficulty   `json:"difficulty,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Tips         string       `json:"tips,omitempty"`
	IsCustom     bool         `json:"is_custom"`
	IsFavorite   bool         `json:"is_favorite"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
	LastUsed     *time.Time   `json:"last_used,omitempty"`
}

// ExerciseSet is one planned (and possibly executed) set within a workout.
type ExerciseSet struct {
	SetNumber  int        `json:"set_number"`
	Reps       int        `json:"reps,omitempty"`
	Weight     float64    `json:"weight,omitempty"`
	WeightUnit string     `json:"weight_unit,omitempty"` // "lbs" or "kg"
	Time       int        `json:"time,omitempty"`        // seconds, for conditioning
	Rest       int        `json:"rest,omitempty"`        // seconds between sets
	Completed  bool       `json:"completed"`

	ActualReps   int        `json:"actual_reps,omitempty"`
	ActualWeight float64    `json:"actual_weight,omitempty"`
	ActualTime   int        `json:"actual_time,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

// WorkoutExercise is one exercise instance inside a workout, with its sets.
type WorkoutExercise struct {
	ID         string        `json:"id"`
	ExerciseID string        `json:"exercise_id"`
	Exercise   Exercise      `json:"exercise"` // denormalized for convenience
	Sets       []ExerciseSet `json:"sets"`
	Notes      string        `json:"notes,omitempty"`
	Order      int           `json:"order"`
}

type Workout struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Date          time.Time         `json:"date"`
	Exercises     []WorkoutExercise `json:"exercises"`
	TotalDuration int               `json:"total_duration,omitempty"` // minutes
	Notes         string            `json:"notes,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	Completed     bool              `json:"completed"`
	StartedAt     *time.Time        `json:"started_at,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`

	PlannedDuration  int     `json:"planned_duration,omitempty"`
	ActualDuration   int     `json:"actual_duration,omitempty"`
	PerformanceScore float64 `json:"performance_score,omitempty"`
}

// PersonalRecord is the best set on record for an exercise, ranked by
// estimated one-rep max.
type PersonalRecord struct {
	Exercise  string    `json:"exercise"`
	Weight    float64   `json:"weight"`
	Reps      int       `json:"reps"`
	Date      time.Time `json:"date"`
	OneRepMax float64   `json:"one_rep_max,omitempty"`
}

type Goal struct {
	Exercise     string     `json:"exercise"`
	TargetWeight float64    `json:"target_weight"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	Achieved     bool       `json:"achieved"`
	AchievedDate *time.Time `json:"achieved_date,omitempty"`
}

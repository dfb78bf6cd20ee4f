package share

import (
	"time"

	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

// SharedWorkout is a workout packaged for export: exercises with completion
// state stripped, plus descriptive metadata and usage stats.
type SharedWorkout struct {
	ID                 string    `json:"id"`
	OriginalWorkoutID  string    `json:"original_workout_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Tags               []string  `json:"tags"`
	SharedBy           string    `json:"shared_by"`
	SharedAt           time.Time `json:"shared_at"`
	IsPublic           bool      `json:"is_public"`
	IsTemplate         bool      `json:"is_template"`

	Exercises []workout.WorkoutExercise `json:"exercises"`

	Metadata Metadata `json:"metadata"`
	Stats    Stats    `json:"stats"`
	Versions []Version `json:"versions"`
}

type Metadata struct {
	Category           string   `json:"category"`
	Difficulty         string   `json:"difficulty"`
	EstimatedDuration  int      `json:"estimated_duration"` // minutes
	TargetMuscleGroups []string `json:"target_muscle_groups"`
	EquipmentNeeded    []string `json:"equipment_needed"`
}

type Stats struct {
	Downloads    int     `json:"downloads"`
	Likes        int     `json:"likes"`
	Rating       float64 `json:"rating"`
	TotalRatings int     `json:"total_ratings"`
}

type Version struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Changes   string    `json:"changes"`
}

// Settings are the caller-supplied options when sharing a workout.
type Settings struct {
	Title             string   `json:"title,omitempty"`
	Description       string   `json:"description,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	SharedBy          string   `json:"shared_by,omitempty"`
	IsPublic          *bool    `json:"is_public,omitempty"`
	IsTemplate        *bool    `json:"is_template,omitempty"`
	Category          string   `json:"category,omitempty"`
	Difficulty        string   `json:"difficulty,omitempty"`
	EstimatedDuration int      `json:"estimated_duration,omitempty"`
}

// HistoryEntry records one share action.
type HistoryEntry struct {
	WorkoutID string    `json:"workout_id"`
	ShareID   string    `json:"share_id"`
	SharedAt  time.Time `json:"shared_at"`
}

package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	chtypes "github.com/kmcgarry1/workout-planner/internal/types/challenge"
)

// LoadTemplates reads a challenge template catalog from a YAML file.
func LoadTemplates(path string) ([]*chtypes.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var doc struct {
		Templates []*chtypes.Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}

	for _, t := range doc.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template %q has no id", t.Name)
		}
		if t.DefaultDuration <= 0 {
			return nil, fmt.Errorf("template %q has invalid default_duration %d", t.ID, t.DefaultDuration)
		}
	}
	return doc.Templates, nil
}

// DefaultTemplates is the built-in catalog used when no template file is
// configured.
func DefaultTemplates() []*chtypes.Template {
	return []*chtypes.Template{
		{
			ID:              "consistency-7-day",
			Name:            "7-Day Consistency Challenge",
			Description:     "Work out every day for a week to build the habit",
			Type:            chtypes.TypeStreak,
			Category:        chtypes.CategoryConsistency,
			Difficulty:      chtypes.DifficultyBeginner,
			DefaultDuration: 7,
			Requirements: chtypes.Requirements{
				Frequency: &chtypes.Frequency{Count: 7, Period: chtypes.PeriodTotal},
			},
			Rewards: []*chtypes.Reward{
				{
					ID:          "consistency-badge-1",
					Type:        chtypes.RewardBadge,
					Name:        "Consistency Champion",
					Description: "Worked out 7 days in a row",
					Value:       50,
					Requirement: chtypes.RewardRequirement{Type: chtypes.RequireCompletion, Value: 1},
				},
			},
			Rating:     4.5,
			Tags:       []string{"beginner", "habit", "consistency"},
			IsOfficial: true,
		},
		{
			ID:              "strength-30-day",
			Name:            "30-Day Strength Challenge",
			Description:     "Complete 20 strength workouts in 30 days",
			Type:            chtypes.TypeTarget,
			Category:        chtypes.CategoryStrength,
			Difficulty:      chtypes.DifficultyIntermediate,
			DefaultDuration: 30,
			Requirements: chtypes.Requirements{
				Frequency: &chtypes.Frequency{Count: 20, Period: chtypes.PeriodTotal},
				Constraints: &chtypes.Constraints{
					WorkoutTypes: []string{"strength"},
					MinDuration:  30,
				},
			},
			Rewards: []*chtypes.Reward{
				{
					ID:          "strength-badge-1",
					Type:        chtypes.RewardBadge,
					Name:        "Iron Warrior",
					Description: "Completed 30-day strength challenge",
					Value:       200,
					Requirement: chtypes.RewardRequirement{Type: chtypes.RequireCompletion, Value: 1},
				},
			},
			Rating:     4.7,
			Tags:       []string{"strength", "intermediate", "30-day"},
			IsOfficial: true,
		},
	}
}

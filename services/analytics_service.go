package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kmcgarry1/workout-planner/internal/challenge"
	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

// AnalyticsService derives statistics from the workout log. It holds no
// state of its own; every call reads the current log from the workout
// service.
type AnalyticsService struct {
	workouts *WorkoutService
	now      func() time.Time
}

func NewAnalyticsService(workouts *WorkoutService) *AnalyticsService {
	return &AnalyticsService{
		workouts: workouts,
		now:      time.Now,
	}
}

type ExerciseCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type TypeBreakdown struct {
	Strength     int `json:"strength"`
	Conditioning int `json:"conditioning"`
}

type GoalProgress struct {
	Current    int `json:"current"`
	Target     int `json:"target"`
	Percentage int `json:"percentage"`
}

type WeekProgress struct {
	Week          string `json:"week"`
	Date          string `json:"date"`
	Workouts      int    `json:"workouts"`
	Completed     int    `json:"completed"`
	TotalDuration int    `json:"total_duration"`
}

type MonthProgress struct {
	Month       string  `json:"month"`
	Date        string  `json:"date"`
	Workouts    int     `json:"workouts"`
	Completed   int     `json:"completed"`
	TotalVolume float64 `json:"total_volume"`
}

type SummaryStats struct {
	Total             int           `json:"total"`
	Completed         int           `json:"completed"`
	CompletionRate    int           `json:"completion_rate"`
	CurrentStreak     int           `json:"current_streak"`
	LongestStreak     int           `json:"longest_streak"`
	ThisWeek          int           `json:"this_week"`
	ThisMonth         int           `json:"this_month"`
	AverageDuration   int           `json:"average_duration"`
	AveragePerWeek    float64       `json:"average_per_week"`
	TotalVolume       float64       `json:"total_volume"`
	MostUsedExercise  string        `json:"most_used_exercise,omitempty"`
	ExerciseBreakdown TypeBreakdown `json:"exercise_breakdown"`
}

func (s *AnalyticsService) TotalWorkouts() int {
	return len(s.workouts.List())
}

func (s *AnalyticsService) completed(all []*workout.Workout) []*workout.Workout {
	var out []*workout.Workout
	for _, w := range all {
		if w.Completed {
			out = append(out, w)
		}
	}
	return out
}

func (s *AnalyticsService) CompletionRate() float64 {
	all := s.workouts.List()
	if len(all) == 0 {
		return 0
	}
	return float64(len(s.completed(all))) / float64(len(all)) * 100
}

func (s *AnalyticsService) since(cutoff time.Time) []*workout.Workout {
	var out []*workout.Workout
	for _, w := range s.workouts.List() {
		if !w.Date.Before(cutoff) {
			out = append(out, w)
		}
	}
	return out
}

func (s *AnalyticsService) WorkoutsThisWeek() []*workout.Workout {
	return s.since(s.now().AddDate(0, 0, -7))
}

func (s *AnalyticsService) WorkoutsThisMonth() []*workout.Workout {
	return s.since(s.now().AddDate(0, -1, 0))
}

func (s *AnalyticsService) WorkoutsThisYear() []*workout.Workout {
	return s.since(s.now().AddDate(-1, 0, 0))
}

// CurrentStreak counts consecutive days of completed workouts walking
// backwards from today. A workout today or yesterday keeps the chain alive.
func (s *AnalyticsService) CurrentStreak() int {
	sorted := s.completed(s.workouts.List())
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) == 0 {
		return 0
	}

	streak := 0
	cursor := challenge.Midnight(s.now())

	for _, w := range sorted {
		day := challenge.Midnight(w.Date)
		diffDays := int(cursor.Sub(day).Hours() / 24)

		if diffDays <= streak+1 {
			if diffDays == streak {
				streak++
			} else if diffDays == streak+1 {
				streak++
				cursor = cursor.AddDate(0, 0, -1)
			}
		} else {
			break
		}
	}

	return streak
}

// LongestStreak scans the completed log in date order, tolerating a single
// rest day between workouts.
func (s *AnalyticsService) LongestStreak() int {
	sorted := s.completed(s.workouts.List())
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	if len(sorted) == 0 {
		return 0
	}

	maxStreak := 1
	current := 1

	for i := 1; i < len(sorted); i++ {
		prev := challenge.Midnight(sorted[i-1].Date)
		cur := challenge.Midnight(sorted[i].Date)
		diffDays := int(cur.Sub(prev).Hours() / 24)

		if diffDays <= 2 {
			current++
		} else {
			if current > maxStreak {
				maxStreak = current
			}
			current = 1
		}
	}

	if current > maxStreak {
		maxStreak = current
	}
	return maxStreak
}

// ExerciseFrequency returns the ten most used exercises by appearance count.
func (s *AnalyticsService) ExerciseFrequency() []ExerciseCount {
	freq := make(map[string]int)
	var order []string
	for _, w := range s.workouts.List() {
		for _, we := range w.Exercises {
			if _, seen := freq[we.Exercise.Name]; !seen {
				order = append(order, we.Exercise.Name)
			}
			freq[we.Exercise.Name]++
		}
	}

	out := make([]ExerciseCount, 0, len(order))
	for _, name := range order {
		out = append(out, ExerciseCount{Name: name, Count: freq[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func (s *AnalyticsService) MostUsedExercise() string {
	freq := s.ExerciseFrequency()
	if len(freq) == 0 {
		return ""
	}
	return freq[0].Name
}

func (s *AnalyticsService) ExerciseTypeBreakdown() TypeBreakdown {
	var strength, conditioning, total int
	for _, w := range s.workouts.List() {
		for _, we := range w.Exercises {
			total++
			switch we.Exercise.Type {
			case workout.TypeStrength:
				strength++
			case workout.TypeConditioning:
				conditioning++
			}
		}
	}
	if total == 0 {
		return TypeBreakdown{}
	}
	return TypeBreakdown{
		Strength:     int(math.Round(float64(strength) / float64(total) * 100)),
		Conditioning: int(math.Round(float64(conditioning) / float64(total) * 100)),
	}
}

// TotalVolume sums weight*reps over every strength set ever logged.
func (s *AnalyticsService) TotalVolume() float64 {
	var total float64
	for _, w := range s.workouts.List() {
		total += workoutVolume(w)
	}
	return total
}

func workoutVolume(w *workout.Workout) float64 {
	var total float64
	for _, we := range w.Exercises {
		if we.Exercise.Type != workout.TypeStrength {
			continue
		}
		for _, set := range we.Sets {
			if set.Weight > 0 && set.Reps > 0 {
				total += set.Weight * float64(set.Reps)
			}
		}
	}
	return total
}

func (s *AnalyticsService) AverageWorkoutDuration() int {
	var total, count int
	for _, w := range s.workouts.List() {
		if w.TotalDuration > 0 {
			total += w.TotalDuration
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}

func (s *AnalyticsService) AverageWorkoutsPerWeek() float64 {
	all := s.workouts.List()
	if len(all) == 0 {
		return 0
	}

	earliest := all[0].Date
	for _, w := range all[1:] {
		if w.Date.Before(earliest) {
			earliest = w.Date
		}
	}

	weeks := int(s.now().Sub(earliest).Hours() / (24 * 7))
	if weeks < 1 {
		weeks = 1
	}

	return math.Round(float64(len(all))/float64(weeks)*10) / 10
}

// WeeklyProgress covers the last 12 rolling weeks, oldest first.
func (s *AnalyticsService) WeeklyProgress() []WeekProgress {
	all := s.workouts.List()
	now := s.now()

	weeks := make([]WeekProgress, 0, 12)
	for i := 11; i >= 0; i-- {
		weekStart := challenge.Midnight(now.AddDate(0, 0, -i*7))
		weekEnd := weekStart.AddDate(0, 0, 7)

		wp := WeekProgress{
			Week: fmt.Sprintf("Week %d", 12-i),
			Date: weekStart.Format("2006-01-02"),
		}
		for _, w := range all {
			if w.Date.Before(weekStart) || !w.Date.Before(weekEnd) {
				continue
			}
			wp.Workouts++
			if w.Completed {
				wp.Completed++
			}
			wp.TotalDuration += w.TotalDuration
		}
		weeks = append(weeks, wp)
	}
	return weeks
}

// MonthlyProgress covers the last 12 calendar months, oldest first.
func (s *AnalyticsService) MonthlyProgress() []MonthProgress {
	all := s.workouts.List()
	now := s.now()

	months := make([]MonthProgress, 0, 12)
	for i := 11; i >= 0; i-- {
		ref := now.AddDate(0, -i, 0)
		monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		monthEnd := monthStart.AddDate(0, 1, 0)

		mp := MonthProgress{
			Month: monthStart.Format("Jan 2006"),
			Date:  monthStart.Format("2006-01-02"),
		}
		for _, w := range all {
			if w.Date.Before(monthStart) || !w.Date.Before(monthEnd) {
				continue
			}
			mp.Workouts++
			if w.Completed {
				mp.Completed++
			}
			mp.TotalVolume += workoutVolume(w)
		}
		months = append(months, mp)
	}
	return months
}

// PersonalRecords finds the heaviest effective set per strength exercise,
// ranked by estimated one-rep max (Epley formula).
func (s *AnalyticsService) PersonalRecords() []workout.PersonalRecord {
	records := make(map[string]workout.PersonalRecord)
	var order []string

	for _, w := range s.workouts.List() {
		for _, we := range w.Exercises {
			if we.Exercise.Type != workout.TypeStrength {
				continue
			}
			for _, set := range we.Sets {
				if set.Weight <= 0 || set.Reps <= 0 {
					continue
				}
				oneRepMax := set.Weight * (1 + float64(set.Reps)/30)
				current, exists := records[we.Exercise.Name]
				if !exists {
					order = append(order, we.Exercise.Name)
				}
				currentMax := current.Weight * (1 + float64(current.Reps)/30)
				if !exists || oneRepMax > currentMax {
					records[we.Exercise.Name] = workout.PersonalRecord{
						Exercise:  we.Exercise.Name,
						Weight:    set.Weight,
						Reps:      set.Reps,
						Date:      w.Date,
						OneRepMax: oneRepMax,
					}
				}
			}
		}
	}

	out := make([]workout.PersonalRecord, 0, len(order))
	for _, name := range order {
		out = append(out, records[name])
	}
	return out
}

const (
	weeklyGoal  = 3
	monthlyGoal = 12
)

func (s *AnalyticsService) WeeklyGoalProgress() GoalProgress {
	var done int
	for _, w := range s.WorkoutsThisWeek() {
		if w.Completed {
			done++
		}
	}
	return GoalProgress{
		Current:    done,
		Target:     weeklyGoal,
		Percentage: int(math.Round(float64(done) / weeklyGoal * 100)),
	}
}

func (s *AnalyticsService) MonthlyGoalProgress() GoalProgress {
	var done int
	for _, w := range s.WorkoutsThisMonth() {
		if w.Completed {
			done++
		}
	}
	return GoalProgress{
		Current:    done,
		Target:     monthlyGoal,
		Percentage: int(math.Round(float64(done) / monthlyGoal * 100)),
	}
}

func (s *AnalyticsService) Summary() SummaryStats {
	all := s.workouts.List()
	return SummaryStats{
		Total:             len(all),
		Completed:         len(s.completed(all)),
		CompletionRate:    int(math.Round(s.CompletionRate())),
		CurrentStreak:     s.CurrentStreak(),
		LongestStreak:     s.LongestStreak(),
		ThisWeek:          len(s.WorkoutsThisWeek()),
		ThisMonth:         len(s.WorkoutsThisMonth()),
		AverageDuration:   s.AverageWorkoutDuration(),
		AveragePerWeek:    s.AverageWorkoutsPerWeek(),
		TotalVolume:       s.TotalVolume(),
		MostUsedExercise:  s.MostUsedExercise(),
		ExerciseBreakdown: s.ExerciseTypeBreakdown(),
	}
}

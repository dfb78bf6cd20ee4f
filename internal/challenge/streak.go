package challenge

import (
	"time"

	chtypes "github.com/kmcgarry1/workout-planner/internal/types/challenge"
)

// Midnight normalizes t to 00:00:00 in its own location. All daily-progress
// dates are stored this way so calendar days compare with Equal.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// UpdateStreak applies one day of streak bookkeeping to sd, given the daily
// progress entries and today's (midnight-normalized) date.
//
// The reset rule is deliberately lenient: a single missed day does not break
// the streak unless LastUpdate has fallen strictly before yesterday by the
// time the check runs. That threshold (`<`, not `<=`) matches the shipped
// behavior and is pinned by tests; do not tighten it.
func UpdateStreak(sd *chtypes.StreakData, daily []chtypes.DailyProgress, today time.Time) {
	today = Midnight(today)
	yesterday := today.AddDate(0, 0, -1)

	workedOutToday := activityOn(daily, today)
	workedOutYesterday := activityOn(daily, yesterday)

	if workedOutToday {
		if workedOutYesterday || sd.Current == 0 {
			sd.Current++
			if sd.Current > sd.Longest {
				sd.Longest = sd.Current
			}
		}
		sd.LastUpdate = today
	} else if !workedOutYesterday && sd.LastUpdate.Before(yesterday) {
		// Streak broken: no activity yesterday and the last update is at
		// least two days old.
		sd.Current = 0
	}
}

func activityOn(daily []chtypes.DailyProgress, day time.Time) bool {
	for _, dp := range daily {
		if dp.Date.Equal(day) && dp.Value > 0 {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	core "github.com/kmcgarry1/workout-planner/internal/challenge"
	"github.com/kmcgarry1/workout-planner/internal/storage"
	chtypes "github.com/kmcgarry1/workout-planner/internal/types/challenge"
	"github.com/kmcgarry1/workout-planner/internal/types/notification"
	"github.com/kmcgarry1/workout-planner/internal/types/workout"
)

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeFull     = errors.New("challenge is full")
	ErrAlreadyJoined     = errors.New("already participating in this challenge")
	ErrTemplateNotFound  = errors.New("challenge template not found")
)

// Customization tweaks a challenge created from a template.
type Customization struct {
	StartDate       *time.Time `json:"start_date,omitempty"`
	DurationDays    int        `json:"duration,omitempty"`
	IsPublic        *bool      `json:"is_public,omitempty"`
	MaxParticipants int        `json:"max_participants,omitempty"`
}

// ChallengeService owns the challenge lifecycle: creation from templates,
// joins, progress tracking against workout events, streaks, milestones and
// reward unlocking. All state lives in memory and is snapshotted through the
// store after every mutation; a failed save is logged and the session state
// stays authoritative.
//
// A single mutex serializes access. The engine itself is single-writer by
// design (one logical user session); the lock only guards against the HTTP
// host calling in from multiple connections.
type ChallengeService struct {
	mu            sync.Mutex
	store         storage.Store
	notifications *NotificationService

	userID   string
	userName string

	// now is swappable so date arithmetic is testable.
	now func() time.Time

	challenges []*chtypes.Challenge
	templates  []*chtypes.Template

	// progress indexes the session user's progress records by challenge id.
	// The records are shared with the participant entries, never copied.
	progress map[string]*chtypes.Progress

	stats chtypes.Stats
}

func NewChallengeService(store storage.Store, notifications *NotificationService, templates []*chtypes.Template, userID, userName string) (*ChallengeService, error) {
	s := &ChallengeService{
		store:         store,
		notifications: notifications,
		userID:        userID,
		userName:      userName,
		now:           time.Now,
		templates:     templates,
		progress:      make(map[string]*chtypes.Progress),
	}

	if err := s.load(context.Background()); err != nil {
		return nil, err
	}
	s.refreshStatsLocked()

	return s, nil
}

// SessionUser returns the id and display name the engine was configured with.
func (s *ChallengeService) SessionUser() (string, string) {
	return s.userID, s.userName
}

// CreateChallenge instantiates a challenge from a template. The creator is
// auto-enrolled as the sole participant with a fresh progress record; the
// challenge starts active.
func (s *ChallengeService) CreateChallenge(ctx context.Context, tmpl *chtypes.Template, custom Customization) *chtypes.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	startDate := now
	if custom.StartDate != nil {
		startDate = *custom.StartDate
	}
	durationDays := tmpl.DefaultDuration
	if custom.DurationDays > 0 {
		durationDays = custom.DurationDays
	}
	endDate := startDate.AddDate(0, 0, durationDays)

	isPublic := false
	if custom.IsPublic != nil {
		isPublic = *custom.IsPublic
	}

	progress := s.newProgress("", startDate, tmpl.Requirements, durationDays)

	ch := &chtypes.Challenge{
		ID:          fmt.Sprintf("challenge-%s", uuid.New().String()),
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Type:        tmpl.Type,
		Category:    tmpl.Category,
		Difficulty:  tmpl.Difficulty,

		Duration: chtypes.Duration{
			Start:     startDate,
			End:       endDate,
			TotalDays: durationDays,
		},

		Requirements: tmpl.Requirements,
		Rewards:      cloneRewards(tmpl.Rewards),
		Milestones:   cloneMilestones(tmpl.Milestones),

		Progress: progress,

		IsPublic:        isPublic,
		MaxParticipants: custom.MaxParticipants,
		CreatedBy:       s.userID,

		Status:    chtypes.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	progress.ChallengeID = ch.ID
	progress.UserID = s.userID

	ch.Participants = []*chtypes.Participant{{
		UserID:   s.userID,
		UserName: s.userName,
		JoinedAt: now,
		Progress: progress,
		IsActive: true,
	}}

	s.challenges = append(s.challenges, ch)
	s.progress[ch.ID] = progress

	s.persistLocked(ctx)
	s.refreshStatsLocked()

	log.Printf("Created challenge %s (%s) from template %s", ch.ID, ch.Name, tmpl.ID)
	return ch
}

// CreateChallengeFromTemplate resolves a template by id and creates from it.
func (s *ChallengeService) CreateChallengeFromTemplate(ctx context.Context, templateID string, custom Customization) (*chtypes.Challenge, error) {
	tmpl := s.Template(templateID)
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}
	return s.CreateChallenge(ctx, tmpl, custom), nil
}

// JoinChallenge enrolls a user into an existing challenge. Failures leave
// the participant list untouched.
func (s *ChallengeService) JoinChallenge(ctx context.Context, challengeID, userID, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.findLocked(challengeID)
	if ch == nil {
		return ErrChallengeNotFound
	}
	if ch.MaxParticipants > 0 && len(ch.Participants) >= ch.MaxParticipants {
		return ErrChallengeFull
	}
	if ch.Participant(userID) != nil {
		return ErrAlreadyJoined
	}

	now := s.now()
	progress := s.newProgress(ch.ID, now, ch.Requirements, ch.Duration.TotalDays)
	progress.UserID = userID

	ch.Participants = append(ch.Participants, &chtypes.Participant{
		UserID:   userID,
		UserName: userName,
		JoinedAt: now,
		Progress: progress,
		IsActive: true,
	})

	if userID == s.userID {
		s.progress[ch.ID] = progress
	}

	s.notifications.Notify(ctx, &notification.Notification{
		Type:        notification.TypeNewParticipant,
		ChallengeID: ch.ID,
		UserID:      userID,
		Title:       "New Participant",
		Message:     fmt.Sprintf("%s joined the %q challenge", userName, ch.Name),
		Data:        notification.NewParticipantData{UserName: userName},
	})

	s.persistLocked(ctx)
	s.refreshStatsLocked()

	return nil
}

// RecordWorkoutEvent fans a completed workout out to every challenge where
// userID is an active participant, the challenge is active and still inside
// its window. Challenges the workout does not qualify for are silently
// skipped; the call never fails.
func (s *ChallengeService) RecordWorkoutEvent(ctx context.Context, w *workout.Workout, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	workoutEventsTotal.Inc()

	now := s.now()
	today := core.Midnight(now)

	// Insertion order, so repeated runs over identical state are identical.
	for _, ch := range s.challenges {
		if ch.Status != chtypes.StatusActive {
			continue
		}
		if now.After(ch.Duration.End) {
			continue
		}
		part := ch.Participant(userID)
		if part == nil || !part.IsActive {
			continue
		}
		if !core.Matches(w, ch.Requirements) {
			continue
		}

		progress := part.Progress

		entry := findDaily(progress, today)
		if entry == nil {
			progress.DailyProgress = append(progress.DailyProgress, chtypes.DailyProgress{
				Date:              today,
				WorkoutsCompleted: []string{},
				Validated:         true,
			})
			entry = &progress.DailyProgress[len(progress.DailyProgress)-1]
		}
		entry.Value++
		entry.WorkoutsCompleted = append(entry.WorkoutsCompleted, w.ID)

		progress.CurrentValue++
		progress.CompletionPercentage = completionPercentage(progress.CurrentValue, progress.TargetValue)

		core.UpdateStreak(&progress.StreakData, progress.DailyProgress, today)

		s.checkMilestonesLocked(ctx, ch, part)

		if progress.CompletionPercentage >= 100 && !progress.IsCompleted {
			s.completeChallengeLocked(ctx, ch, part)
		}
	}

	s.persistLocked(ctx)
	s.refreshStatsLocked()
}

// checkMilestonesLocked unlocks every milestone the participant's completion
// percentage has crossed for the first time, one notification per unlock.
func (s *ChallengeService) checkMilestonesLocked(ctx context.Context, ch *chtypes.Challenge, part *chtypes.Participant) {
	progress := part.Progress
	for _, m := range ch.Milestones {
		if containsString(m.UnlockedBy, part.UserID) {
			continue
		}
		if progress.CompletionPercentage < m.TargetPercentage {
			continue
		}

		m.UnlockedBy = append(m.UnlockedBy, part.UserID)

		s.notifications.Notify(ctx, &notification.Notification{
			Type:        notification.TypeMilestoneReached,
			ChallengeID: ch.ID,
			UserID:      part.UserID,
			Title:       "Milestone Reached!",
			Message:     fmt.Sprintf("You've reached %.0f%% of the %q challenge", m.TargetPercentage, ch.Name),
			Data: notification.MilestoneReachedData{
				MilestoneID:      m.ID,
				MilestoneName:    m.Name,
				TargetPercentage: m.TargetPercentage,
			},
		})

		if m.Reward != nil {
			s.unlockRewardLocked(ctx, ch, part, m.Reward)
		}
	}
}

// completeChallengeLocked marks the participant's progress finished, flips
// the shared challenge record to completed and evaluates reward unlocks.
// First-to-finish completes the challenge for everyone, matching the
// original behavior.
func (s *ChallengeService) completeChallengeLocked(ctx context.Context, ch *chtypes.Challenge, part *chtypes.Participant) {
	now := s.now()
	progress := part.Progress

	progress.IsCompleted = true
	progress.CompletedAt = &now
	progress.CompletionPercentage = 100

	ch.Status = chtypes.StatusCompleted
	ch.UpdatedAt = now

	daysTaken := int(core.Midnight(now).Sub(core.Midnight(progress.StartDate)).Hours()/24) + 1

	s.notifications.Notify(ctx, &notification.Notification{
		Type:        notification.TypeChallengeCompleted,
		ChallengeID: ch.ID,
		UserID:      part.UserID,
		Title:       "Challenge Completed!",
		Message:     fmt.Sprintf("You've completed the %q challenge!", ch.Name),
		Data: notification.ChallengeCompletedData{
			ChallengeName: ch.Name,
			TargetValue:   progress.TargetValue,
			DaysTaken:     daysTaken,
		},
	})
	challengesCompletedTotal.Inc()

	for _, reward := range ch.Rewards {
		if reward.UnlockedAt == nil && rewardSatisfied(reward, progress) {
			s.unlockRewardLocked(ctx, ch, part, reward)
		}
	}
}

// unlockRewardLocked is set-once: an already-unlocked reward is never
// unlocked or counted again.
func (s *ChallengeService) unlockRewardLocked(ctx context.Context, ch *chtypes.Challenge, part *chtypes.Participant, reward *chtypes.Reward) {
	if reward.UnlockedAt != nil {
		return
	}
	now := s.now()
	reward.UnlockedAt = &now

	if part.UserID == s.userID {
		s.stats.TotalPoints += reward.Value
		if reward.Type == chtypes.RewardBadge {
			s.stats.BadgesEarned++
		}
	}

	s.notifications.Notify(ctx, &notification.Notification{
		Type:        notification.TypeRewardUnlocked,
		ChallengeID: ch.ID,
		UserID:      part.UserID,
		Title:       "Reward Unlocked!",
		Message:     fmt.Sprintf("You've earned %s!", reward.Name),
		Data: notification.RewardUnlockedData{
			RewardID:   reward.ID,
			RewardName: reward.Name,
			RewardType: string(reward.Type),
			Points:     reward.Value,
		},
	})
	rewardsUnlockedTotal.Inc()
}

func rewardSatisfied(reward *chtypes.Reward, progress *chtypes.Progress) bool {
	switch reward.Requirement.Type {
	case chtypes.RequireCompletion:
		return progress.IsCompleted
	case chtypes.RequireStreak:
		return progress.StreakData.Longest >= reward.Requirement.Value
	case chtypes.RequireMilestone, chtypes.RequireRanking:
		// Milestone rewards unlock through the milestone path; ranking
		// rewards need a settled leaderboard and are never auto-unlocked.
		return false
	}
	return false
}

// Challenges returns every challenge the engine knows about.
func (s *ChallengeService) Challenges() []*chtypes.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*chtypes.Challenge, len(s.challenges))
	copy(out, s.challenges)
	return out
}

// MyChallenges returns challenges the session user participates in.
func (s *ChallengeService) MyChallenges() []*chtypes.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.myChallengesLocked()
}

func (s *ChallengeService) myChallengesLocked() []*chtypes.Challenge {
	var out []*chtypes.Challenge
	for _, ch := range s.challenges {
		if ch.Participant(s.userID) != nil {
			out = append(out, ch)
		}
	}
	return out
}

// ActiveChallenges returns the session user's challenges that are active and
// still inside their window.
func (s *ChallengeService) ActiveChallenges() []*chtypes.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeChallengesLocked()
}

func (s *ChallengeService) activeChallengesLocked() []*chtypes.Challenge {
	now := s.now()
	var out []*chtypes.Challenge
	for _, ch := range s.myChallengesLocked() {
		if ch.Status == chtypes.StatusActive && !now.After(ch.Duration.End) {
			out = append(out, ch)
		}
	}
	return out
}

func (s *ChallengeService) CompletedChallenges() []*chtypes.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedChallengesLocked()
}

func (s *ChallengeService) completedChallengesLocked() []*chtypes.Challenge {
	var out []*chtypes.Challenge
	for _, ch := range s.myChallengesLocked() {
		if ch.Status == chtypes.StatusCompleted {
			out = append(out, ch)
		}
	}
	return out
}

// UpcomingDeadlines returns active challenges ending within three days,
// soonest first.
func (s *ChallengeService) UpcomingDeadlines() []*chtypes.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(3 * 24 * time.Hour)
	var out []*chtypes.Challenge
	for _, ch := range s.activeChallengesLocked() {
		if !ch.Duration.End.After(cutoff) {
			out = append(out, ch)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Duration.End.Before(out[j].Duration.End)
	})
	return out
}

// RecommendedChallenges suggests up to six public challenges matched to the
// user's level (derived from completed-challenge count).
func (s *ChallengeService) RecommendedChallenges() []*chtypes.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()

	level := s.userLevelLocked()
	var out []*chtypes.Challenge
	for _, ch := range s.challenges {
		if !ch.IsPublic || ch.Participant(s.userID) != nil {
			continue
		}
		if ch.Difficulty == level || (level == chtypes.DifficultyAdvanced && ch.Difficulty == chtypes.DifficultyIntermediate) {
			out = append(out, ch)
		}
		if len(out) == 6 {
			break
		}
	}
	return out
}

// UserLevel buckets the session user by completed challenges.
func (s *ChallengeService) UserLevel() chtypes.Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userLevelLocked()
}

func (s *ChallengeService) userLevelLocked() chtypes.Difficulty {
	completed := len(s.completedChallengesLocked())
	if completed < 3 {
		return chtypes.DifficultyBeginner
	}
	if completed < 10 {
		return chtypes.DifficultyIntermediate
	}
	return chtypes.DifficultyAdvanced
}

func (s *ChallengeService) GetChallenge(id string) (*chtypes.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.findLocked(id)
	if ch == nil {
		return nil, ErrChallengeNotFound
	}
	return ch, nil
}

// Leaderboard ranks a challenge's participants by completion percentage,
// then current value.
func (s *ChallengeService) Leaderboard(challengeID string) (*chtypes.Leaderboard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.findLocked(challengeID)
	if ch == nil {
		return nil, ErrChallengeNotFound
	}

	entries := make([]chtypes.LeaderboardEntry, 0, len(ch.Participants))
	for _, p := range ch.Participants {
		lastActivity := p.JoinedAt
		if n := len(p.Progress.DailyProgress); n > 0 {
			lastActivity = p.Progress.DailyProgress[n-1].Date
		}
		entries = append(entries, chtypes.LeaderboardEntry{
			UserID:               p.UserID,
			UserName:             p.UserName,
			Progress:             p.Progress.CurrentValue,
			TargetValue:          p.Progress.TargetValue,
			CompletionPercentage: p.Progress.CompletionPercentage,
			StreakDays:           p.Progress.StreakData.Current,
			LastActivity:         lastActivity,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CompletionPercentage != entries[j].CompletionPercentage {
			return entries[i].CompletionPercentage > entries[j].CompletionPercentage
		}
		return entries[i].Progress > entries[j].Progress
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &chtypes.Leaderboard{
		ChallengeID:       challengeID,
		Rankings:          entries,
		LastUpdated:       s.now(),
		TotalParticipants: len(ch.Participants),
	}, nil
}

func (s *ChallengeService) Templates() []*chtypes.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*chtypes.Template, len(s.templates))
	copy(out, s.templates)
	return out
}

func (s *ChallengeService) Template(id string) *chtypes.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.templates {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *ChallengeService) Stats() chtypes.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Progress returns the session user's progress for a challenge.
func (s *ChallengeService) Progress(challengeID string) (*chtypes.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.progress[challengeID]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	return p, nil
}

func (s *ChallengeService) newProgress(challengeID string, startDate time.Time, reqs chtypes.Requirements, durationDays int) *chtypes.Progress {
	// Target priority: explicit target value, then frequency count, then one
	// qualifying workout per day of the challenge.
	targetValue := float64(durationDays)
	unit := "workouts"
	if reqs.Target != nil {
		targetValue = reqs.Target.Value
		if reqs.Target.Unit != "" {
			unit = reqs.Target.Unit
		}
	} else if reqs.Frequency != nil {
		targetValue = float64(reqs.Frequency.Count)
	}

	return &chtypes.Progress{
		UserID:      s.userID,
		ChallengeID: challengeID,
		StartDate:   startDate,
		TargetValue: targetValue,
		Unit:        unit,
		StreakData: chtypes.StreakData{
			LastUpdate: startDate,
		},
	}
}

func (s *ChallengeService) findLocked(id string) *chtypes.Challenge {
	for _, ch := range s.challenges {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

func (s *ChallengeService) refreshStatsLocked() {
	my := s.myChallengesLocked()
	s.stats.TotalChallenges = len(my)
	s.stats.ActiveChallenges = len(s.activeChallengesLocked())
	s.stats.CompletedChallenges = len(s.completedChallengesLocked())

	current, longest := 0, 0
	for _, p := range s.progress {
		if p.StreakData.Current > current {
			current = p.StreakData.Current
		}
		if p.StreakData.Longest > longest {
			longest = p.StreakData.Longest
		}
	}
	s.stats.CurrentStreak = current
	s.stats.LongestStreak = longest
}

func (s *ChallengeService) load(ctx context.Context) error {
	raw, err := s.store.Load(ctx, storage.NSChallenges)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return err
	}

	var challenges []*chtypes.Challenge
	if err := storage.Decode(storage.NSChallenges, raw, &challenges); err != nil {
		return err
	}
	s.challenges = challenges

	// Re-link the session user's progress map to the participant records.
	for _, ch := range s.challenges {
		if p := ch.Participant(s.userID); p != nil && p.Progress != nil {
			s.progress[ch.ID] = p.Progress
		}
	}

	// Points and badges are recovered from unlocked rewards.
	for _, ch := range s.challenges {
		if ch.Participant(s.userID) == nil {
			continue
		}
		for _, r := range ch.Rewards {
			if r.UnlockedAt != nil {
				s.stats.TotalPoints += r.Value
				if r.Type == chtypes.RewardBadge {
					s.stats.BadgesEarned++
				}
			}
		}
	}

	return nil
}

func (s *ChallengeService) persistLocked(ctx context.Context) {
	data, err := storage.Encode(storage.NSChallenges, s.challenges)
	if err == nil {
		err = s.store.Save(ctx, storage.NSChallenges, data)
	}
	if err != nil {
		log.Printf("Failed to save challenges: %v", err)
		return
	}

	data, err = storage.Encode(storage.NSProgress, s.progress)
	if err == nil {
		err = s.store.Save(ctx, storage.NSProgress, data)
	}
	if err != nil {
		log.Printf("Failed to save challenge progress: %v", err)
	}
}

func completionPercentage(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := current / target * 100
	if pct > 100 {
		return 100
	}
	return pct
}

func findDaily(p *chtypes.Progress, day time.Time) *chtypes.DailyProgress {
	for i := range p.DailyProgress {
		if p.DailyProgress[i].Date.Equal(day) {
			return &p.DailyProgress[i]
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cloneRewards(in []*chtypes.Reward) []*chtypes.Reward {
	out := make([]*chtypes.Reward, 0, len(in))
	for _, r := range in {
		c := *r
		c.UnlockedAt = nil
		out = append(out, &c)
	}
	return out
}

func cloneMilestones(in []*chtypes.Milestone) []*chtypes.Milestone {
	out := make([]*chtypes.Milestone, 0, len(in))
	for _, m := range in {
		c := *m
		c.UnlockedBy = []string{}
		if m.Reward != nil {
			r := *m.Reward
			r.UnlockedAt = nil
			c.Reward = &r
		}
		out = append(out, &c)
	}
	return out
}

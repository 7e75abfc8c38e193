package services

import (
	"context"
	"time"

	"github.com/daybook-app/daybook/internal/core/domain"
)

// AnalyticsService composes window computation with the data-access
// collaborators to produce derived metrics. It owns no state of its own:
// every call resolves the user's timezone fresh and samples "now" exactly
// once, threading the same instant through window, bucketing and streak
// comparisons.
type AnalyticsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	taskRepo       domain.TaskRepository
	userRepo       domain.UserRepository
	now            func() time.Time
}

func NewAnalyticsService(
	habitRepo domain.HabitRepository,
	completionRepo domain.CompletionRepository,
	taskRepo domain.TaskRepository,
	userRepo domain.UserRepository,
) *AnalyticsService {
	return &AnalyticsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		taskRepo:       taskRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// userLocation validates the stored zone at call time. Timezone errors are
// raised here, before any data-access call, so no partial work happens on a
// misconfigured account.
func (s *AnalyticsService) userLocation(ctx context.Context, userID string) (*time.Location, string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	loc, err := user.Location()
	if err != nil {
		return nil, "", err
	}
	return loc, user.Timezone, nil
}

// GetWeeklyStats reports completion rates for the current local week so far,
// Monday through today. Per-habit rates are judged against the days that
// have already elapsed, and the overall rate counts raw completion records,
// so over-completion can push it above 100.
func (s *AnalyticsService) GetWeeklyStats(ctx context.Context, userID string) (*domain.WeeklyStats, error) {
	loc, tzName, err := s.userLocation(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	window, err := domain.WeekSoFarWindow(now, loc)
	if err != nil {
		return nil, err
	}
	daysElapsed := domain.DaysElapsedInWeek(now, loc)
	today := domain.DateOf(now, loc)
	weekStart := today.AddDays(-(daysElapsed - 1))

	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.ListByUserIDInWindow(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	// Bucket by habit and local calendar date. Grouping by local date, not
	// by 24h UTC slices, keeps late-evening completions on the right day.
	valueByDay := make(map[string]map[domain.LocalDate]int)
	for _, c := range completions {
		day := domain.DateOf(c.OccurredAt, loc)
		if _, ok := valueByDay[c.HabitID]; !ok {
			valueByDay[c.HabitID] = make(map[domain.LocalDate]int)
		}
		valueByDay[c.HabitID][day] += c.Value
	}

	stats := &domain.WeeklyStats{
		StartDate:       weekStart.String(),
		EndDate:         today.String(),
		Timezone:        tzName,
		DaysElapsed:     daysElapsed,
		TotalHabits:     len(habits),
		CompletionCount: len(completions),
		HabitStats:      make([]domain.HabitStat, 0, len(habits)),
	}

	activeHabits := 0
	for _, h := range habits {
		if h.ArchivedAt != nil {
			continue
		}
		activeHabits++

		hStat := domain.HabitStat{
			HabitID:       h.ID,
			HabitTitle:    h.Title,
			Color:         h.Color,
			Icon:          h.Icon,
			TargetValue:   h.TargetValue,
			Unit:          h.Unit,
			DailyProgress: make([]int, 0, daysElapsed),
		}

		daysAchieved := 0
		for day := weekStart; !today.Before(day); day = day.AddDays(1) {
			val := valueByDay[h.ID][day]
			hStat.TotalValue += val
			hStat.DailyProgress = append(hStat.DailyProgress, val)
			if val >= h.TargetValue {
				daysAchieved++
			}
		}

		hStat.DaysCompleted = daysAchieved
		hStat.CompletionRate = domain.WeeklyPercentage(daysAchieved, 1, daysElapsed)

		stats.HabitStats = append(stats.HabitStats, hStat)
	}

	stats.OverallRate = domain.WeeklyPercentage(len(completions), activeHabits, daysElapsed)

	return stats, nil
}

// GetStreak recomputes both streak counters for one habit from its full
// completion history, in the owner's local calendar.
func (s *AnalyticsService) GetStreak(ctx context.Context, userID, habitID string) (*domain.StreakReport, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	loc, _, err := s.userLocation(ctx, userID)
	if err != nil {
		return nil, err
	}

	completions, err := s.completionRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	instants := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		instants = append(instants, c.OccurredAt)
	}

	current, longest := domain.Streaks(instants, loc, s.now())

	return &domain.StreakReport{
		HabitID:       habitID,
		CurrentStreak: current,
		LongestStreak: longest,
	}, nil
}

// GetTodayTaskProgress reports how much of today's task load is done in the
// user's local calendar.
func (s *AnalyticsService) GetTodayTaskProgress(ctx context.Context, userID string) (*domain.TaskProgress, error) {
	loc, _, err := s.userLocation(ctx, userID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := domain.DailyTaskProgress(tasks, loc, s.now())
	return &progress, nil
}

// GetRecentCompletions lists a habit's completions over the last n local
// days, today included.
func (s *AnalyticsService) GetRecentCompletions(ctx context.Context, userID, habitID string, days int) ([]*domain.Completion, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	loc, _, err := s.userLocation(ctx, userID)
	if err != nil {
		return nil, err
	}

	window, err := domain.LastNDaysWindow(s.now(), days, loc)
	if err != nil {
		return nil, err
	}

	return s.completionRepo.ListByHabitIDInWindow(ctx, habitID, window)
}

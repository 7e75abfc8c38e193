package domain

import (
	"math"
	"time"
)

// WeeklyPercentage is the completion rate over a partial week: completions
// against trackables times the days already elapsed. Result is rounded to
// two decimals and deliberately not capped at 100, since logging a habit
// twice in one day is real signal, not an error. A week with nothing to
// track reads as zero rather than dividing by zero.
func WeeklyPercentage(completions, trackables, daysElapsed int) float64 {
	expected := trackables * daysElapsed
	if expected <= 0 {
		return 0
	}
	pct := float64(completions) / float64(expected) * 100
	return math.Round(pct*100) / 100
}

type TaskProgress struct {
	Completed  int     `json:"completed"`
	Expected   int     `json:"expected"`
	Percentage float64 `json:"percentage"`
}

// DailyTaskProgress reports today's task load in the user's local calendar.
// A task counts toward today if it is due today, whether or not it is done.
// A task with no due date joins the denominator only once it is completed
// today: finishing unplanned work raises both counters instead of diluting
// the rate.
func DailyTaskProgress(tasks []*Task, loc *time.Location, now time.Time) TaskProgress {
	today := DateOf(now, loc)

	var p TaskProgress
	for _, t := range tasks {
		switch {
		case t.DueDate != nil && t.dueLocalDate() == today:
			p.Expected++
			if t.CompletedAt != nil {
				p.Completed++
			}
		case t.DueDate == nil && t.CompletedAt != nil && DateOf(*t.CompletedAt, loc) == today:
			p.Expected++
			p.Completed++
		}
	}

	if p.Expected > 0 {
		p.Percentage = math.Round(float64(p.Completed)/float64(p.Expected)*10000) / 100
	}
	return p
}

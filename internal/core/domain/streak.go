package domain

import (
	"sort"
	"time"
)

// Streaks derives both streak counters from a habit's completion history.
// Days are the owner's local calendar days: a late-evening completion that
// lands on the next UTC day still counts for the local day it happened on.
//
// The current streak counts consecutive local days with at least one
// completion, ending today or yesterday. A run that ended two or more days
// ago reads as zero; a run ending yesterday is still alive because today is
// not over. Multiple completions on one day count once.
//
// The longest streak is the longest consecutive run anywhere in the history,
// alive or not.
func Streaks(instants []time.Time, loc *time.Location, now time.Time) (current, longest int) {
	seen := make(map[LocalDate]bool, len(instants))
	for _, t := range instants {
		seen[DateOf(t, loc)] = true
	}
	if len(seen) == 0 {
		return 0, 0
	}

	dates := make([]LocalDate, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[j].Before(dates[i])
	})

	today := DateOf(now, loc)
	yesterday := today.AddDays(-1)

	if dates[0] == today || dates[0] == yesterday {
		current = 1
		for i := 1; i < len(dates); i++ {
			if dates[i] != dates[i-1].AddDays(-1) {
				break
			}
			current++
		}
	}

	run := 1
	longest = 1
	for i := 1; i < len(dates); i++ {
		if dates[i] == dates[i-1].AddDays(-1) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return current, longest
}

// CurrentStreak is Streaks for callers that only need the live counter.
func CurrentStreak(instants []time.Time, loc *time.Location, now time.Time) int {
	current, _ := Streaks(instants, loc, now)
	return current
}

package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/core/domain"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := domain.LoadTimezone(name)
	require.NoError(t, err)
	return loc
}

func TestLoadTimezone(t *testing.T) {
	t.Run("Success: Valid IANA zone", func(t *testing.T) {
		loc, err := domain.LoadTimezone("America/New_York")
		require.NoError(t, err)
		assert.Equal(t, "America/New_York", loc.String())
	})

	t.Run("Error: Unknown zone", func(t *testing.T) {
		_, err := domain.LoadTimezone("Mars/Olympus_Mons")
		assert.ErrorIs(t, err, domain.ErrUnknownTimezone)
	})

	t.Run("Error: Empty name", func(t *testing.T) {
		_, err := domain.LoadTimezone("")
		assert.ErrorIs(t, err, domain.ErrUnknownTimezone)
	})
}

func TestParseInstant(t *testing.T) {
	t.Run("Success: UTC timestamp", func(t *testing.T) {
		got, err := domain.ParseInstant("2025-09-29T10:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 9, 29, 10, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("Success: Offset timestamp names the same instant", func(t *testing.T) {
		got, err := domain.ParseInstant("2025-09-29T06:00:00-04:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 9, 29, 10, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("Error: Timestamp without offset is rejected, not guessed", func(t *testing.T) {
		_, err := domain.ParseInstant("2025-09-29T10:00:00")
		assert.ErrorIs(t, err, domain.ErrNaiveInstant)
	})

	t.Run("Error: Garbage is a plain parse error", func(t *testing.T) {
		_, err := domain.ParseInstant("not-a-time")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNaiveInstant)
	})
}

func TestLocalDate(t *testing.T) {
	t.Run("DateOf: Same instant, different calendars", func(t *testing.T) {
		ny := mustLoad(t, "America/New_York")
		instant := time.Date(2025, 9, 29, 3, 30, 0, 0, time.UTC)

		assert.Equal(t, domain.LocalDate{Year: 2025, Month: 9, Day: 29}, domain.DateOf(instant, time.UTC))
		assert.Equal(t, domain.LocalDate{Year: 2025, Month: 9, Day: 28}, domain.DateOf(instant, ny),
			"23:30 in New York is still the previous day")
	})

	t.Run("AddDays: Crosses month and year boundaries", func(t *testing.T) {
		d := domain.LocalDate{Year: 2025, Month: 12, Day: 31}
		assert.Equal(t, domain.LocalDate{Year: 2026, Month: 1, Day: 1}, d.AddDays(1))
		assert.Equal(t, domain.LocalDate{Year: 2025, Month: 12, Day: 1}, d.AddDays(-30))
	})

	t.Run("Before: Total order", func(t *testing.T) {
		a := domain.LocalDate{Year: 2025, Month: 9, Day: 28}
		b := domain.LocalDate{Year: 2025, Month: 9, Day: 29}
		assert.True(t, a.Before(b))
		assert.False(t, b.Before(a))
		assert.False(t, a.Before(a))
	})

	t.Run("String: ISO date with padding", func(t *testing.T) {
		d := domain.LocalDate{Year: 2025, Month: 3, Day: 9}
		assert.Equal(t, "2025-03-09", d.String())
	})
}

func TestDayWindow(t *testing.T) {
	t.Run("UTC: Plain 24 hour day", func(t *testing.T) {
		w, err := domain.DayWindow(domain.LocalDate{Year: 2025, Month: 9, Day: 29}, time.UTC)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), w.End)
		assert.Equal(t, 24*time.Hour, w.Duration())
	})

	t.Run("DST: Spring forward day is 23 hours", func(t *testing.T) {
		ny := mustLoad(t, "America/New_York")

		w, err := domain.DayWindow(domain.LocalDate{Year: 2025, Month: 3, Day: 9}, ny)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 3, 9, 5, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC), w.End)
		assert.Equal(t, 23*time.Hour, w.Duration())
	})

	t.Run("DST: Fall back day is 25 hours", func(t *testing.T) {
		ny := mustLoad(t, "America/New_York")

		w, err := domain.DayWindow(domain.LocalDate{Year: 2025, Month: 11, Day: 2}, ny)
		require.NoError(t, err)
		assert.Equal(t, 25*time.Hour, w.Duration())
	})

	t.Run("Error: Nil location", func(t *testing.T) {
		_, err := domain.DayWindow(domain.LocalDate{Year: 2025, Month: 9, Day: 29}, nil)
		assert.ErrorIs(t, err, domain.ErrUnknownTimezone)
	})
}

func TestWindow_Contains(t *testing.T) {
	w := domain.Window{
		Start: time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Start), "Start is inside")
	assert.True(t, w.Contains(w.End.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.End), "End belongs to the next window")
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
}

func TestTodayWindow(t *testing.T) {
	t.Run("Success: Contains now", func(t *testing.T) {
		ny := mustLoad(t, "America/New_York")
		now := time.Date(2025, 9, 29, 10, 0, 0, 0, time.UTC)

		w, err := domain.TodayWindow(now, ny)
		require.NoError(t, err)
		assert.True(t, w.Contains(now))
		assert.Equal(t, time.Date(2025, 9, 29, 4, 0, 0, 0, time.UTC), w.Start)
	})

	t.Run("Error: Zero instant", func(t *testing.T) {
		_, err := domain.TodayWindow(time.Time{}, time.UTC)
		assert.ErrorIs(t, err, domain.ErrNaiveInstant)
	})
}

func TestLastNDaysWindow(t *testing.T) {
	now := time.Date(2025, 9, 29, 10, 0, 0, 0, time.UTC)

	t.Run("Success: Seven UTC days, today included", func(t *testing.T) {
		w, err := domain.LastNDaysWindow(now, 7, time.UTC)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 9, 23, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("Success: n of 1 equals TodayWindow", func(t *testing.T) {
		ny := mustLoad(t, "America/New_York")

		oneDay, err := domain.LastNDaysWindow(now, 1, ny)
		require.NoError(t, err)
		today, err := domain.TodayWindow(now, ny)
		require.NoError(t, err)

		assert.Equal(t, today, oneDay)
	})

	t.Run("Success: Window spanning spring forward loses an hour", func(t *testing.T) {
		ny := mustLoad(t, "America/New_York")
		after := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

		w, err := domain.LastNDaysWindow(after, 3, ny)
		require.NoError(t, err)
		assert.Equal(t, 3*24*time.Hour-time.Hour, w.Duration())
	})

	t.Run("Error: Zero days", func(t *testing.T) {
		_, err := domain.LastNDaysWindow(now, 0, time.UTC)
		assert.ErrorIs(t, err, domain.ErrInvalidWindowRequest)
	})

	t.Run("Error: Negative days", func(t *testing.T) {
		_, err := domain.LastNDaysWindow(now, -3, time.UTC)
		assert.ErrorIs(t, err, domain.ErrInvalidWindowRequest)
	})

	t.Run("Error: Zero instant", func(t *testing.T) {
		_, err := domain.LastNDaysWindow(time.Time{}, 7, time.UTC)
		assert.ErrorIs(t, err, domain.ErrNaiveInstant)
	})
}

func TestWeekSoFarWindow(t *testing.T) {
	t.Run("Monday: Window is a single day", func(t *testing.T) {
		// 2025-09-29 is a Monday.
		now := time.Date(2025, 9, 29, 10, 0, 0, 0, time.UTC)

		w, err := domain.WeekSoFarWindow(now, time.UTC)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("Sunday: Window spans the full week", func(t *testing.T) {
		now := time.Date(2025, 10, 5, 10, 0, 0, 0, time.UTC)

		w, err := domain.WeekSoFarWindow(now, time.UTC)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC), w.End)
	})

	t.Run("Timezone decides the weekday", func(t *testing.T) {
		ny := mustLoad(t, "America/New_York")
		// Monday 02:00 UTC is still Sunday evening in New York.
		now := time.Date(2025, 9, 29, 2, 0, 0, 0, time.UTC)

		assert.Equal(t, 1, domain.DaysElapsedInWeek(now, time.UTC))
		assert.Equal(t, 7, domain.DaysElapsedInWeek(now, ny))
	})
}

func TestDaysElapsedInWeek(t *testing.T) {
	cases := []struct {
		day  int
		want int
	}{
		{29, 1}, // Monday
		{30, 2},
		{1, 3}, // October
		{2, 4},
		{3, 5},
		{4, 6},
		{5, 7}, // Sunday
	}

	for _, tc := range cases {
		month := time.September
		if tc.day < 10 {
			month = time.October
		}
		now := time.Date(2025, month, tc.day, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, tc.want, domain.DaysElapsedInWeek(now, time.UTC), "day %d", tc.day)
	}
}

package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownTimezone      = errors.New("unknown timezone")
	ErrNaiveInstant         = errors.New("instant carries no utc offset")
	ErrInvalidWindowRequest = errors.New("window must span at least one day")
)

// Window is a half-open UTC interval [Start, End). All range queries in the
// system use this shape: an instant exactly at End belongs to the next
// window, never to two at once.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// LoadTimezone resolves an IANA zone name. Every stored timezone passes
// through here, so a zone the host's database no longer knows surfaces as
// ErrUnknownTimezone instead of a silent UTC fallback.
func LoadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return nil, ErrUnknownTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	return loc, nil
}

// ParseInstant parses an RFC 3339 timestamp. A timestamp without a UTC
// offset is rejected with ErrNaiveInstant rather than guessed at: the client
// must say which instant it means.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	if _, naive := time.Parse("2006-01-02T15:04:05", s); naive == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNaiveInstant, s)
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
}

// LocalDate is a calendar day in some unstated timezone. It is a comparable
// value type so it can key maps; which wall clock it belongs to is decided
// by whoever created it.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf answers "what day is it at instant t for someone in loc".
func DateOf(t time.Time, loc *time.Location) LocalDate {
	y, m, d := t.In(loc).Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// AddDays steps across the calendar, letting the time package normalize
// month and year boundaries.
func (d LocalDate) AddDays(n int) LocalDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	y, m, day := t.Date()
	return LocalDate{Year: y, Month: m, Day: day}
}

func (d LocalDate) Before(other LocalDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// startIn is the first instant of the day in loc. On DST transition days
// this is how a "day" ends up 23 or 25 hours long.
func (d LocalDate) startIn(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// DayWindow converts one local calendar day into its UTC window. The window
// runs from local midnight to the next local midnight, so its length follows
// the zone's clock changes instead of assuming 24 hours.
func DayWindow(date LocalDate, loc *time.Location) (Window, error) {
	if loc == nil {
		return Window{}, ErrUnknownTimezone
	}
	return Window{
		Start: date.startIn(loc).UTC(),
		End:   date.AddDays(1).startIn(loc).UTC(),
	}, nil
}

// TodayWindow is the window of the local day containing now.
func TodayWindow(now time.Time, loc *time.Location) (Window, error) {
	if now.IsZero() {
		return Window{}, ErrNaiveInstant
	}
	return DayWindow(DateOf(now, loc), loc)
}

// LastNDaysWindow spans the n most recent local days, today included, ending
// at the upcoming local midnight. n of 1 is exactly TodayWindow.
func LastNDaysWindow(now time.Time, n int, loc *time.Location) (Window, error) {
	if n < 1 {
		return Window{}, ErrInvalidWindowRequest
	}
	if now.IsZero() {
		return Window{}, ErrNaiveInstant
	}
	if loc == nil {
		return Window{}, ErrUnknownTimezone
	}

	today := DateOf(now, loc)
	return Window{
		Start: today.AddDays(-(n - 1)).startIn(loc).UTC(),
		End:   today.AddDays(1).startIn(loc).UTC(),
	}, nil
}

// WeekSoFarWindow spans the current local week from Monday through the end
// of today. Monday is day one; on a Monday the window is a single day.
func WeekSoFarWindow(now time.Time, loc *time.Location) (Window, error) {
	if now.IsZero() {
		return Window{}, ErrNaiveInstant
	}
	if loc == nil {
		return Window{}, ErrUnknownTimezone
	}
	return LastNDaysWindow(now, DaysElapsedInWeek(now, loc), loc)
}

// DaysElapsedInWeek counts how many days of the local week have started,
// today included: Monday is 1, Sunday is 7.
func DaysElapsedInWeek(now time.Time, loc *time.Location) int {
	wd := int(now.In(loc).Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

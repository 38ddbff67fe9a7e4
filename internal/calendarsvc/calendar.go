// Package calendarsvc implements the Calendar Service (spec.md component
// C1): mapping calendar dates to working-day offsets and back, applying
// working hours, the weekly pattern, holidays, and exceptions.
package calendarsvc

import (
	"time"

	"tessera/internal/model"
)

// IsWorking reports whether date is a working day on cal. Exceptions
// override holidays, which override the weekly pattern (spec.md 4.1).
func IsWorking(cal model.Calendar, date time.Time) bool {
	date = truncateToDay(date)

	if exc, ok := findException(cal, date); ok {
		switch exc.Kind {
		case model.ExceptionWorking:
			return true
		case model.ExceptionNonWorking:
			return false
		case model.ExceptionHalfDay:
			return true
		}
	}

	if isHoliday(cal, date) {
		return false
	}

	return cal.WorkingDays[date.Weekday()]
}

// IsHalfDay reports whether date is flagged as a half-day exception on cal.
func IsHalfDay(cal model.Calendar, date time.Time) bool {
	date = truncateToDay(date)
	exc, ok := findException(cal, date)
	return ok && exc.Kind == model.ExceptionHalfDay
}

// HoursPerDay returns the effective working hours for date on cal: half of
// the calendar's daily hours on a HalfDay exception, the full daily hours
// otherwise. Non-working days have zero hours.
func HoursPerDay(cal model.Calendar, date time.Time) float64 {
	if !IsWorking(cal, date) {
		return 0
	}
	if IsHalfDay(cal, date) {
		return cal.Window.DailyHours / 2
	}
	return cal.Window.DailyHours
}

// BaseHoursPerDay returns the calendar's nominal daily hours, ignoring any
// per-date exception.
func BaseHoursPerDay(cal model.Calendar) float64 {
	return cal.Window.DailyHours
}

// AddWorkingDays advances from by n working days (n may be zero or
// negative) on cal, skipping non-working days entirely. A HalfDay
// exception still counts as one full working day for this offset
// computation (spec.md 9 Open Question: HalfDay only affects
// duration-from-effort derivation, not calendar-day offsets).
func AddWorkingDays(cal model.Calendar, from time.Time, n int) time.Time {
	cur := truncateToDay(from)

	if n == 0 {
		return NextWorkingDay(cal, cur)
	}

	step := 1
	remaining := n
	if n < 0 {
		step = -1
		remaining = -n
	}

	for remaining > 0 {
		cur = cur.AddDate(0, 0, step)
		if IsWorking(cal, cur) {
			remaining--
		}
	}

	return cur
}

// NextWorkingDay returns date itself if it is already a working day,
// otherwise the next working day on or after date.
func NextWorkingDay(cal model.Calendar, date time.Time) time.Time {
	cur := truncateToDay(date)
	for !IsWorking(cal, cur) {
		cur = cur.AddDate(0, 0, 1)
	}
	return cur
}

// PreviousWorkingDay returns date itself if it is already a working day,
// otherwise the nearest working day on or before date. This is the true
// mirror of NextWorkingDay, used wherever a backward-pass computation
// needs to snap toward the past instead of the future (spec.md 4.3.3).
func PreviousWorkingDay(cal model.Calendar, date time.Time) time.Time {
	cur := truncateToDay(date)
	for !IsWorking(cal, cur) {
		cur = cur.AddDate(0, 0, -1)
	}
	return cur
}

// WorkingDaysBetween counts the working days in [start, end) on cal, used
// to measure a duration on the effective calendar while skipping
// non-working days (spec.md 4.3.1).
func WorkingDaysBetween(cal model.Calendar, start, end time.Time) int {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if !end.After(start) {
		return 0
	}

	count := 0
	for cur := start; cur.Before(end); cur = cur.AddDate(0, 0, 1) {
		if IsWorking(cal, cur) {
			count++
		}
	}
	return count
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func findException(cal model.Calendar, date time.Time) (model.Exception, bool) {
	for _, exc := range cal.Exceptions {
		if sameDay(exc.Date, date) {
			return exc, true
		}
	}
	return model.Exception{}, false
}

func isHoliday(cal model.Calendar, date time.Time) bool {
	for _, h := range cal.Holidays {
		if h.Recurring {
			if h.Date.Month() == date.Month() && h.Date.Day() == date.Day() {
				return true
			}
			continue
		}
		if sameDay(h.Date, date) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

package calendarsvc

import (
	"testing"
	"time"

	"tessera/internal/model"
)

func mustDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsWorking_WeeklyPattern(t *testing.T) {
	cal := model.NewStandardCalendar("standard")

	tests := []struct {
		date time.Time
		want bool
	}{
		{mustDate(2026, time.March, 2), true},  // Monday
		{mustDate(2026, time.March, 6), true},  // Friday
		{mustDate(2026, time.March, 7), false}, // Saturday
		{mustDate(2026, time.March, 8), false}, // Sunday
	}

	for _, tt := range tests {
		got := IsWorking(cal, tt.date)
		if got != tt.want {
			t.Errorf("IsWorking(%v) = %v, want %v", tt.date.Weekday(), got, tt.want)
		}
	}
}

func TestIsWorking_RecurringHoliday(t *testing.T) {
	cal := model.NewStandardCalendar("standard")
	cal.Holidays = append(cal.Holidays, model.Holiday{
		Name:      "New Year's Day",
		Date:      mustDate(2000, time.January, 1),
		Recurring: true,
	})

	if IsWorking(cal, mustDate(2026, time.January, 1)) {
		t.Error("recurring holiday should make Jan 1 non-working regardless of year")
	}
	if !IsWorking(cal, mustDate(2026, time.January, 2)) {
		t.Error("Jan 2, 2026 (Friday) should be working")
	}
}

func TestIsWorking_ExceptionOverridesHoliday(t *testing.T) {
	cal := model.NewStandardCalendar("standard")
	holiday := mustDate(2026, time.July, 3) // Friday
	cal.Holidays = append(cal.Holidays, model.Holiday{Name: "Company day off", Date: holiday})
	cal.Exceptions = append(cal.Exceptions, model.Exception{Date: holiday, Kind: model.ExceptionWorking})

	if !IsWorking(cal, holiday) {
		t.Error("an explicit Working exception should override a holiday")
	}
}

func TestIsWorking_ExceptionForcesNonWorking(t *testing.T) {
	cal := model.NewStandardCalendar("standard")
	monday := mustDate(2026, time.March, 2)
	cal.Exceptions = append(cal.Exceptions, model.Exception{Date: monday, Kind: model.ExceptionNonWorking})

	if IsWorking(cal, monday) {
		t.Error("NonWorking exception should force a weekday off")
	}
}

func TestHoursPerDay_HalfDay(t *testing.T) {
	cal := model.NewStandardCalendar("standard")
	monday := mustDate(2026, time.March, 2)
	cal.Exceptions = append(cal.Exceptions, model.Exception{Date: monday, Kind: model.ExceptionHalfDay})

	if got := HoursPerDay(cal, monday); got != 4 {
		t.Errorf("HoursPerDay on HalfDay = %v, want 4", got)
	}
	if !IsWorking(cal, monday) {
		t.Error("HalfDay should still count as working")
	}
}

func TestAddWorkingDays_SkipsWeekend(t *testing.T) {
	cal := model.NewStandardCalendar("standard")
	friday := mustDate(2026, time.March, 6)

	got := AddWorkingDays(cal, friday, 1)
	want := mustDate(2026, time.March, 9) // next Monday
	if !got.Equal(want) {
		t.Errorf("AddWorkingDays(Friday, 1) = %v, want %v", got, want)
	}
}

func TestAddWorkingDays_ZeroSnapsForward(t *testing.T) {
	cal := model.NewStandardCalendar("standard")
	saturday := mustDate(2026, time.March, 7)

	got := AddWorkingDays(cal, saturday, 0)
	want := mustDate(2026, time.March, 9)
	if !got.Equal(want) {
		t.Errorf("AddWorkingDays(Saturday, 0) = %v, want %v", got, want)
	}
}

func TestWorkingDaysBetween(t *testing.T) {
	cal := model.NewStandardCalendar("standard")
	start := mustDate(2026, time.March, 2)  // Monday
	end := mustDate(2026, time.March, 9)    // following Monday

	if got := WorkingDaysBetween(cal, start, end); got != 5 {
		t.Errorf("WorkingDaysBetween = %d, want 5", got)
	}
}

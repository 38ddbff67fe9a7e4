package schedule

import (
	"math"

	"tessera/internal/calendarsvc"
	"tessera/internal/model"
	"tessera/internal/store"
)

// effectiveCalendar resolves the calendar a task runs on: the first
// assigned resource's bound calendar, falling back to the project default
// (spec.md 3.2).
func effectiveCalendar(snap store.Snapshot, t model.Task) model.Calendar {
	for _, a := range t.Assignments {
		if r, ok := snap.Resource(a.ResourceID); ok && r.CalendarID != nil {
			if cal, ok := snap.Calendar(*r.CalendarID); ok {
				return cal
			}
		}
	}
	return snap.DefaultCalendar()
}

// totalAllocationHoursPerDay sums, across every resource assignment, the
// hours per day that resource contributes to this task: the calendar's
// base daily hours scaled by both the resource's availability and the
// task-specific allocation percentage.
func totalAllocationHoursPerDay(snap store.Snapshot, t model.Task, cal model.Calendar) float64 {
	hoursPerDay := calendarsvc.BaseHoursPerDay(cal)

	total := 0.0
	for _, a := range t.Assignments {
		r, ok := snap.Resource(a.ResourceID)
		if !ok {
			continue
		}
		availability := r.AvailabilityPct / 100.0
		allocation := a.AllocationPercent / 100.0
		total += hoursPerDay * availability * allocation
	}
	return total
}

// durationAndEffort derives effective_duration (days; rounded up to whole
// working days for EffortDriven and FixedWork, as declared for
// FixedDuration) and effective_effort (hours) for a task per its
// task_type, following spec.md 4.3.2.
func durationAndEffort(snap store.Snapshot, t model.Task, cal model.Calendar) (durationDays float64, effortHours float64) {
	hoursPerDay := calendarsvc.BaseHoursPerDay(cal)

	switch t.TaskType {
	case model.MilestoneTask:
		return 0, 0

	case model.EffortDriven:
		effort := valueOr(t.EstimatedHours, 0)
		perDay := totalAllocationHoursPerDay(snap, t, cal)
		if perDay <= 0 {
			perDay = 8 // fallback per spec.md 4.3.2
		}
		days := effort / perDay
		return math.Ceil(days), effort

	case model.FixedDuration:
		days := valueOr(t.DurationDays, 0)
		allocSum := 0.0
		for _, a := range t.Assignments {
			allocSum += a.AllocationPercent / 100.0
		}
		effort := days * hoursPerDay * allocSum
		return days, effort

	case model.FixedWork:
		effort := valueOr(t.WorkUnits, 0)
		perDay := totalAllocationHoursPerDay(snap, t, cal)
		if perDay <= 0 {
			perDay = 8
		}
		days := effort / perDay
		return math.Ceil(days), effort

	default:
		return 0, 0
	}
}

// estimatedCost rolls up a task's estimated cost from its resource
// assignments (spec.md 4.3.5). A resource with no bill rate contributes
// zero (spec.md 9: no implicit fallback rate).
func estimatedCost(snap store.Snapshot, t model.Task, cal model.Calendar, durationDays float64) float64 {
	hoursPerDay := calendarsvc.BaseHoursPerDay(cal)

	total := 0.0
	for _, a := range t.Assignments {
		r, ok := snap.Resource(a.ResourceID)
		if !ok || r.BillRatePerHour == nil {
			continue
		}
		allocation := a.AllocationPercent / 100.0
		total += allocation * durationDays * hoursPerDay * (*r.BillRatePerHour)
	}
	return total
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

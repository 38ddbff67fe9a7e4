package model

// Resource is a person or piece of equipment assignable to tasks
// (spec.md 3.2).
type Resource struct {
	ID               ID
	Name             string
	Role             string
	BillRatePerHour  *float64 // nil = no explicit rate; cost roll-up treats as 0
	AvailabilityPct  float64  // [0,100]
	SkillTags        []string
	CalendarID       *ID // nil falls back to the project default calendar
}

// DailyHourBudget returns the non-negative daily hour budget this resource
// contributes at its availability percentage, against a calendar's
// hours-per-day.
func (r Resource) DailyHourBudget(calendarHoursPerDay float64) float64 {
	budget := calendarHoursPerDay * (r.AvailabilityPct / 100.0)
	if budget < 0 {
		return 0
	}
	return budget
}

// ResourceAssignment attaches a resource to a task at a given allocation.
type ResourceAssignment struct {
	ResourceID        ID
	AllocationPercent float64 // (0,100]
	Role              string
}

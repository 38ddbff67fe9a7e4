package model

import "time"

// TaskType controls how duration and effort are derived for a task
// (spec.md 3.2, 4.3.2).
type TaskType int

const (
	EffortDriven TaskType = iota
	FixedDuration
	FixedWork
	MilestoneTask
)

// Priority is an informational ranking; it does not affect CPM arithmetic.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// DependencyType is one of the four CPM relationship kinds (spec.md 4.3.1).
type DependencyType int

const (
	FinishToStart DependencyType = iota
	StartToStart
	FinishToFinish
	StartToFinish
)

// TaskDependency is a typed, lagged edge pointing at a predecessor.
// LagDays is interpreted in calendar days; negative values are lead time.
type TaskDependency struct {
	PredecessorID ID
	Type          DependencyType
	LagDays       float64
}

// Task is a schedulable unit of work (spec.md 3.2).
type Task struct {
	ID          ID
	Name        string
	Description string

	TaskType TaskType
	Priority Priority

	EstimatedHours *float64 // used by EffortDriven
	DurationDays   *float64 // used by FixedDuration
	WorkUnits      *float64 // used by FixedWork

	Assignments  []ResourceAssignment
	Dependencies []TaskDependency

	ProgressPercentage float64 // [0,100]

	FixedStart *time.Time
	FixedEnd   *time.Time

	// ActualCost is the cost actually incurred so far, used by EVM (spec.md
	// 4.3.6). nil means no actual cost has been recorded.
	ActualCost *float64
}

// IsMilestone reports whether this task behaves as a zero-duration,
// zero-effort milestone node in the graph.
func (t Task) IsMilestone() bool {
	return t.TaskType == MilestoneTask
}

// Milestone is a zero-duration event with its own dependency list and a
// target/actual date (spec.md 3.2).
type Milestone struct {
	ID           ID
	Name         string
	TargetDate   time.Time
	ActualDate   *time.Time
	Dependencies []TaskDependency
}

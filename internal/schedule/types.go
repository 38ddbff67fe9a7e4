// Package schedule implements the Schedule Solver (spec.md component C4):
// a forward/backward Critical Path Method pass over the dependency graph
// built by internal/graph, producing earliest/latest dates, float, the
// critical path, resource cost roll-up, and Earned Value Management
// metrics.
package schedule

import (
	"time"

	"tessera/internal/model"
)

// NodeResult carries the CPM outputs for one task or milestone node
// (spec.md 6).
type NodeResult struct {
	ID            model.ID
	EarliestStart time.Time
	EarliestFinish time.Time
	LatestStart   time.Time
	LatestFinish  time.Time
	TotalFloat    float64 // in days
	FreeFloat     float64 // in days
	IsCritical    bool

	DurationDays   float64
	EstimatedCost  float64
	ActualCost     float64
}

// EVMMetrics holds the Earned Value Management roll-up (spec.md 4.3.6).
type EVMMetrics struct {
	BAC float64
	PV  float64
	EV  float64
	AC  float64

	CV float64
	SV float64

	CPI float64
	SPI float64

	EAC float64
	ETC float64
	VAC float64
}

// Schedule is the full result of compute_schedule (spec.md 6).
type Schedule struct {
	ProjectStart time.Time
	ProjectEnd   time.Time

	TotalDurationDays float64
	TotalCost         float64

	CriticalPath []model.ID

	Nodes map[model.ID]NodeResult

	// ResourceUtilization maps a resource id to a map of "YYYY-MM-DD" date
	// keys to the hours that resource is booked on that date.
	ResourceUtilization map[model.ID]map[string]float64

	EVM *EVMMetrics
}

// Package tessera is the public facade over the scheduling and
// tolerance-analysis engines: four entry points matching spec.md §6
// (compute_schedule, analyze_stackup, analyze_mate, generate_bom),
// re-exporting the internal packages' types so a host application never
// imports tessera/internal directly.
package tessera

import (
	"time"

	"tessera/internal/bom"
	"tessera/internal/graph"
	"tessera/internal/logging"
	"tessera/internal/model"
	"tessera/internal/schedule"
	"tessera/internal/stackup"
	"tessera/internal/store"
)

// Re-exported domain types, so callers only ever import this package.
type (
	ID = model.ID

	Task            = model.Task
	Milestone       = model.Milestone
	Resource        = model.Resource
	ResourceAssignment = model.ResourceAssignment
	TaskDependency  = model.TaskDependency
	Calendar        = model.Calendar
	Component       = model.Component
	Feature         = model.Feature
	Mate            = model.Mate
	Stackup         = model.Stackup
	Quote           = model.Quote
	QuantityPrice   = model.QuantityPrice
	Assembly        = model.Assembly
	ContainmentLink = model.ContainmentLink

	Schedule       = schedule.Schedule
	NodeResult     = schedule.NodeResult
	EVMMetrics     = schedule.EVMMetrics

	StackupResult = stackup.StackupResult
	StackupConfig = stackup.Config
	MateResult    = stackup.MateResult

	BomResult = bom.BomResult

	Snapshot      = store.Snapshot
	InMemoryStore = store.InMemoryStore

	// Logger is the optional diagnostics sink accepted by ComputeSchedule,
	// AnalyzeStackup, and GenerateBOM. A nil *Logger disables logging.
	Logger = logging.Logger
)

// NewLogger builds a Logger with the given line prefix, configured from
// the TESSERA_LOG_* environment variables.
func NewLogger(prefix string) *Logger {
	return logging.NewLogger(prefix)
}

// NewDefaultLogger returns the process-wide default Logger.
func NewDefaultLogger() *Logger {
	return logging.NewDefaultLogger()
}

// Re-exported enums/constants callers need to build requests.
const (
	WorstCase  = stackup.WorstCase
	RSS        = stackup.RSS
	MonteCarlo = stackup.MonteCarlo

	EffortDriven  = model.EffortDriven
	FixedDuration = model.FixedDuration
	FixedWork     = model.FixedWork
	MilestoneTask = model.MilestoneTask

	FinishToStart  = model.FinishToStart
	StartToStart   = model.StartToStart
	FinishToFinish = model.FinishToFinish
	StartToFinish  = model.StartToFinish

	AssemblyToComponent = model.AssemblyToComponent
	AssemblyToAssembly  = model.AssemblyToAssembly
)

// NewStandardCalendar returns a Monday-Friday, 8-hour-day calendar with no
// holidays (model.NewStandardCalendar).
func NewStandardCalendar(name string) Calendar {
	return model.NewStandardCalendar(name)
}

// NewStore constructs an empty, mutable entity store. Populate it with
// Put* calls, then take a Snapshot() before calling any of the four
// operations below.
func NewStore() *InMemoryStore {
	return store.New()
}

// ComputeSchedule runs the Schedule Solver (spec.md 4.3, C4): builds the
// dependency graph from the snapshot's tasks and milestones, then the
// forward/backward CPM pass, critical path, resource utilization, and
// (when now is non-nil) Earned Value Management. logger may be nil.
func ComputeSchedule(snap Snapshot, projectStart time.Time, now *time.Time, logger *Logger) (*Schedule, error) {
	g, err := graph.Build(snap.Tasks(), snap.Milestones())
	if err != nil {
		return nil, err
	}
	return schedule.ComputeSchedule(snap, g, projectStart, now, logger)
}

// AnalyzeStackup runs the Stackup Solver (spec.md 4.4, C5) for one of
// WorstCase, RSS, or MonteCarlo. logger may be nil.
func AnalyzeStackup(snap Snapshot, s Stackup, cfg StackupConfig, logger *Logger) (*StackupResult, error) {
	return stackup.Analyze(snap, s, cfg, logger)
}

// AnalyzeMate runs shaft/hole MMC/LMC mate analysis (spec.md 4.4.6).
func AnalyzeMate(snap Snapshot, m Mate) (*MateResult, error) {
	result, err := stackup.AnalyzeMate(snap, m)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateBOM runs the BOM & Cost Interpolator (spec.md 4.5, C6) for one
// production volume. logger may be nil.
func GenerateBOM(snap Snapshot, assemblyID ID, volume uint32, logger *Logger) (*BomResult, error) {
	return bom.Generate(snap, assemblyID, volume, logger)
}

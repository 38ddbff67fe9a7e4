package schedule

import (
	"testing"
	"time"

	"tessera/internal/graph"
	"tessera/internal/model"
	"tessera/internal/store"
)

func ptr(f float64) *float64 { return &f }

func mustDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newStoreWithCalendar() *store.InMemoryStore {
	s := store.New()
	s.PutCalendar(model.NewStandardCalendar("standard"))
	return s
}

func fsDep(pred model.ID) model.TaskDependency {
	return model.TaskDependency{PredecessorID: pred, Type: model.FinishToStart}
}

func dep(pred model.ID, typ model.DependencyType, lagDays float64) model.TaskDependency {
	return model.TaskDependency{PredecessorID: pred, Type: typ, LagDays: lagDays}
}

// TestComputeSchedule_LinearChain mirrors spec.md 8.2 scenario 1: three
// fixed-duration tasks chained A -> B -> C with no resources should place
// B and C back to back on working days, all three critical.
func TestComputeSchedule_LinearChain(t *testing.T) {
	s := newStoreWithCalendar()

	a := model.ID("A")
	b := model.ID("B")
	c := model.ID("C")

	s.PutTask(model.Task{ID: a, TaskType: model.FixedDuration, DurationDays: ptr(2)})
	s.PutTask(model.Task{ID: b, TaskType: model.FixedDuration, DurationDays: ptr(3), Dependencies: []model.TaskDependency{fsDep(a)}})
	s.PutTask(model.Task{ID: c, TaskType: model.FixedDuration, DurationDays: ptr(1), Dependencies: []model.TaskDependency{fsDep(b)}})

	snap := s.Snapshot()
	g, err := graph.Build(snap.Tasks(), snap.Milestones())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	start := mustDate(2026, time.March, 2) // Monday
	sched, err := ComputeSchedule(snap, g, start, nil, nil)
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	for _, id := range []model.ID{a, b, c} {
		nr := sched.Nodes[id]
		if !nr.IsCritical {
			t.Errorf("node %s: expected critical, total float = %v", id, nr.TotalFloat)
		}
	}

	if !sched.Nodes[b].EarliestStart.Equal(sched.Nodes[a].EarliestFinish) {
		t.Errorf("B should start when A finishes: A.EF=%v B.ES=%v",
			sched.Nodes[a].EarliestFinish, sched.Nodes[b].EarliestStart)
	}
	if !sched.Nodes[c].EarliestStart.Equal(sched.Nodes[b].EarliestFinish) {
		t.Errorf("C should start when B finishes: B.EF=%v C.ES=%v",
			sched.Nodes[b].EarliestFinish, sched.Nodes[c].EarliestStart)
	}

	want := []model.ID{a, b, c}
	if len(sched.CriticalPath) != len(want) {
		t.Fatalf("critical path = %v, want length %d", sched.CriticalPath, len(want))
	}
	for i := range want {
		if sched.CriticalPath[i] != want[i] {
			t.Errorf("critical path[%d] = %s, want %s", i, sched.CriticalPath[i], want[i])
		}
	}
}

// TestComputeSchedule_Diamond mirrors spec.md 8.2 scenario 2: A feeds both
// B and C, which both feed D. The longer of B/C should be critical and
// carry zero float; the shorter branch should carry positive float.
func TestComputeSchedule_Diamond(t *testing.T) {
	s := newStoreWithCalendar()

	a := model.ID("A")
	b := model.ID("B")
	c := model.ID("C")
	d := model.ID("D")

	s.PutTask(model.Task{ID: a, TaskType: model.FixedDuration, DurationDays: ptr(1)})
	s.PutTask(model.Task{ID: b, TaskType: model.FixedDuration, DurationDays: ptr(5), Dependencies: []model.TaskDependency{fsDep(a)}})
	s.PutTask(model.Task{ID: c, TaskType: model.FixedDuration, DurationDays: ptr(2), Dependencies: []model.TaskDependency{fsDep(a)}})
	s.PutTask(model.Task{ID: d, TaskType: model.FixedDuration, DurationDays: ptr(1), Dependencies: []model.TaskDependency{fsDep(b), fsDep(c)}})

	snap := s.Snapshot()
	g, err := graph.Build(snap.Tasks(), snap.Milestones())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	start := mustDate(2026, time.March, 2)
	sched, err := ComputeSchedule(snap, g, start, nil, nil)
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	if !sched.Nodes[b].IsCritical {
		t.Errorf("B (longer branch) should be critical, total float = %v", sched.Nodes[b].TotalFloat)
	}
	if sched.Nodes[c].IsCritical {
		t.Errorf("C (shorter branch) should not be critical, total float = %v", sched.Nodes[c].TotalFloat)
	}
	if sched.Nodes[c].TotalFloat <= 0 {
		t.Errorf("C should carry positive float, got %v", sched.Nodes[c].TotalFloat)
	}
	if !sched.Nodes[d].IsCritical {
		t.Errorf("D should be critical")
	}
}

// TestComputeSchedule_StartToStart checks that a StartToStart dependency
// pins the successor's earliest start to the predecessor's earliest
// start rather than its finish (spec.md 4.3.1).
func TestComputeSchedule_StartToStart(t *testing.T) {
	s := newStoreWithCalendar()

	a := model.ID("A")
	b := model.ID("B")

	s.PutTask(model.Task{ID: a, TaskType: model.FixedDuration, DurationDays: ptr(3)})
	s.PutTask(model.Task{ID: b, TaskType: model.FixedDuration, DurationDays: ptr(1), Dependencies: []model.TaskDependency{dep(a, model.StartToStart, 0)}})

	snap := s.Snapshot()
	g, err := graph.Build(snap.Tasks(), snap.Milestones())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	start := mustDate(2026, time.March, 2) // Monday
	sched, err := ComputeSchedule(snap, g, start, nil, nil)
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	if !sched.Nodes[b].EarliestStart.Equal(sched.Nodes[a].EarliestStart) {
		t.Errorf("B should start when A starts: A.ES=%v B.ES=%v",
			sched.Nodes[a].EarliestStart, sched.Nodes[b].EarliestStart)
	}
}

// TestComputeSchedule_FinishToFinish checks that a FinishToFinish
// dependency pins the successor's earliest finish to the predecessor's
// earliest finish (spec.md 4.3.1).
func TestComputeSchedule_FinishToFinish(t *testing.T) {
	s := newStoreWithCalendar()

	a := model.ID("A")
	b := model.ID("B")

	s.PutTask(model.Task{ID: a, TaskType: model.FixedDuration, DurationDays: ptr(3)})
	s.PutTask(model.Task{ID: b, TaskType: model.FixedDuration, DurationDays: ptr(1), Dependencies: []model.TaskDependency{dep(a, model.FinishToFinish, 0)}})

	snap := s.Snapshot()
	g, err := graph.Build(snap.Tasks(), snap.Milestones())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	start := mustDate(2026, time.March, 2) // Monday
	sched, err := ComputeSchedule(snap, g, start, nil, nil)
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	if !sched.Nodes[b].EarliestFinish.Equal(sched.Nodes[a].EarliestFinish) {
		t.Errorf("B should finish when A finishes: A.EF=%v B.EF=%v",
			sched.Nodes[a].EarliestFinish, sched.Nodes[b].EarliestFinish)
	}
	if sched.Nodes[b].EarliestStart.Equal(start) {
		t.Errorf("B's start should be pulled later than the project start to satisfy the FF constraint, got %v", sched.Nodes[b].EarliestStart)
	}
}

// TestComputeSchedule_StartToFinish checks that a StartToFinish
// dependency forces the successor to finish no earlier than the
// predecessor starts, even when the successor's own duration would
// otherwise let it finish sooner (spec.md 4.3.1).
func TestComputeSchedule_StartToFinish(t *testing.T) {
	s := newStoreWithCalendar()

	a := model.ID("A")
	b := model.ID("B")

	laterStart := mustDate(2026, time.March, 12) // Thursday
	s.PutTask(model.Task{ID: a, TaskType: model.FixedDuration, DurationDays: ptr(1), FixedStart: &laterStart})
	s.PutTask(model.Task{ID: b, TaskType: model.FixedDuration, DurationDays: ptr(1), Dependencies: []model.TaskDependency{dep(a, model.StartToFinish, 0)}})

	snap := s.Snapshot()
	g, err := graph.Build(snap.Tasks(), snap.Milestones())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	start := mustDate(2026, time.March, 2) // Monday
	sched, err := ComputeSchedule(snap, g, start, nil, nil)
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	if !sched.Nodes[b].EarliestFinish.Equal(sched.Nodes[a].EarliestStart) {
		t.Errorf("B should not finish before A starts: A.ES=%v B.EF=%v",
			sched.Nodes[a].EarliestStart, sched.Nodes[b].EarliestFinish)
	}
	if sched.Nodes[b].EarliestStart.Equal(start) {
		t.Errorf("B's start should be pulled later than the project start to satisfy the SF constraint, got %v", sched.Nodes[b].EarliestStart)
	}
}

// TestComputeSchedule_LagCrossesWeekend regression-tests the backward
// pass's lag snap direction: a one-day FinishToStart lag subtracted from a
// Monday lands on Sunday and must snap back to the preceding Friday, not forward past the
// weekend, or the predecessor picks up spurious total float (maintainer
// report: Thu 2026-03-05 start, A and B each one day, B depends FS on A
// with lag=1, A must come out fully critical).
func TestComputeSchedule_LagCrossesWeekend(t *testing.T) {
	s := newStoreWithCalendar()

	a := model.ID("A")
	b := model.ID("B")

	s.PutTask(model.Task{ID: a, TaskType: model.FixedDuration, DurationDays: ptr(1)})
	s.PutTask(model.Task{ID: b, TaskType: model.FixedDuration, DurationDays: ptr(1), Dependencies: []model.TaskDependency{dep(a, model.FinishToStart, 1)}})

	snap := s.Snapshot()
	g, err := graph.Build(snap.Tasks(), snap.Milestones())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	start := mustDate(2026, time.March, 5) // Thursday
	sched, err := ComputeSchedule(snap, g, start, nil, nil)
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	wantLF := mustDate(2026, time.March, 6) // Friday
	if !sched.Nodes[a].LatestFinish.Equal(wantLF) {
		t.Errorf("A.LatestFinish = %v, want %v", sched.Nodes[a].LatestFinish, wantLF)
	}
	if !sched.Nodes[a].IsCritical {
		t.Errorf("A should be critical (zero float), got total float = %v", sched.Nodes[a].TotalFloat)
	}
}

// TestComputeSchedule_EVMSingleTask mirrors spec.md 8.2 scenario 8: one
// task half-done by cost but fully elapsed by schedule should show
// negative schedule variance and an SPI below 1.
func TestComputeSchedule_EVMSingleTask(t *testing.T) {
	s := newStoreWithCalendar()

	rate := 100.0
	r := model.Resource{ID: model.NewID(), Name: "eng", AvailabilityPct: 100, BillRatePerHour: &rate}
	s.PutResource(r)

	task := model.ID("T")
	s.PutTask(model.Task{
		ID:                 task,
		TaskType:           model.FixedDuration,
		DurationDays:       ptr(4),
		Assignments:        []model.ResourceAssignment{{ResourceID: r.ID, AllocationPercent: 100}},
		ProgressPercentage: 50,
		ActualCost:         ptr(2000),
	})

	snap := s.Snapshot()
	g, err := graph.Build(snap.Tasks(), snap.Milestones())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	start := mustDate(2026, time.March, 2)
	now := mustDate(2026, time.March, 10) // well after the 4 working days elapse
	sched, err := ComputeSchedule(snap, g, start, &now, nil)
	if err != nil {
		t.Fatalf("ComputeSchedule: %v", err)
	}

	if sched.EVM == nil {
		t.Fatal("expected EVM metrics")
	}
	evm := sched.EVM

	if evm.PV != evm.BAC {
		t.Errorf("status date is past planned finish: PV should equal BAC, got PV=%v BAC=%v", evm.PV, evm.BAC)
	}
	if evm.EV >= evm.PV {
		t.Errorf("50%% earned value should trail full planned value: EV=%v PV=%v", evm.EV, evm.PV)
	}
	if evm.SV >= 0 {
		t.Errorf("expected negative schedule variance, got %v", evm.SV)
	}
	if evm.SPI >= 1 {
		t.Errorf("expected SPI < 1, got %v", evm.SPI)
	}
	if evm.CV != evm.EV-evm.AC {
		t.Errorf("CV must equal EV-AC")
	}
}

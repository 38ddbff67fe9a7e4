package schedule

import (
	"time"

	"tessera/internal/model"
	"tessera/internal/store"
)

// computeEVM rolls up Earned Value Management metrics as of statusDate,
// following spec.md 4.3.6 exactly: PV counts a task's full estimated cost
// once its scheduled (earliest) start has passed, not a prorated fraction.
// Per spec.md 9, a resource assignment with no bill rate contributes zero
// cost rather than an implicit fallback rate — this propagates into
// BAC/PV/EV/AC without adjustment.
func computeEVM(snap store.Snapshot, order []model.ID, nodes map[model.ID]NodeResult, statusDate time.Time) *EVMMetrics {
	m := &EVMMetrics{}

	for _, id := range order {
		t, ok := snap.Task(id)
		if !ok {
			continue // milestones carry no cost
		}
		nr := nodes[id]

		m.BAC += nr.EstimatedCost
		m.AC += nr.ActualCost
		m.EV += (t.ProgressPercentage / 100.0) * nr.EstimatedCost
		if !statusDate.Before(nr.EarliestStart) {
			m.PV += nr.EstimatedCost
		}
	}

	m.CV = m.EV - m.AC
	m.SV = m.EV - m.PV

	if m.AC != 0 {
		m.CPI = m.EV / m.AC
	} else {
		m.CPI = 1.0
	}
	if m.PV != 0 {
		m.SPI = m.EV / m.PV
	} else {
		m.SPI = 1.0
	}

	m.EAC = m.BAC / m.CPI
	m.ETC = m.EAC - m.AC
	m.VAC = m.BAC - m.EAC

	return m
}

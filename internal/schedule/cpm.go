package schedule

import (
	"time"

	"tessera/internal/calendarsvc"
	"tessera/internal/graph"
	"tessera/internal/logging"
	"tessera/internal/model"
	"tessera/internal/store"
	"tessera/internal/tesseraerr"
)

// criticalEpsilonDays is one calendar hour expressed in days (spec.md
// 4.3.4).
const criticalEpsilonDays = 1.0 / 24.0

type nodeInfo struct {
	id           model.ID
	isMilestone  bool
	cal          model.Calendar
	durationDays float64
	effortHours  float64
	fixedStart   *time.Time
	fixedEnd     *time.Time
	progressPct  float64
	estCost      float64
	actualCost   float64
}

// ComputeSchedule runs the forward and backward CPM passes plus EVM over
// the graph's nodes, given a project start date and an optional status
// date (now) for Earned Value Management (spec.md 4.3, 6). logger may be
// nil; when non-nil it receives one line per pass.
func ComputeSchedule(snap store.Snapshot, g *graph.Graph, projectStart time.Time, now *time.Time, logger *logging.Logger) (*Schedule, error) {
	logger = logger.WithField("node_count", len(g.Nodes()))
	logger.Info("computing schedule")

	order, err := graph.TopoSort(g)
	if err != nil {
		return nil, err
	}

	infos := make(map[model.ID]*nodeInfo, len(order))
	for _, id := range order {
		if t, ok := snap.Task(id); ok {
			if err := validateTask(t); err != nil {
				return nil, err
			}
			cal := effectiveCalendar(snap, t)
			dur, effort := durationAndEffort(snap, t, cal)
			cost := estimatedCost(snap, t, cal, dur)
			actual := 0.0
			if t.ActualCost != nil {
				actual = *t.ActualCost
			}
			infos[id] = &nodeInfo{
				id:           id,
				cal:          cal,
				durationDays: dur,
				effortHours:  effort,
				fixedStart:   t.FixedStart,
				fixedEnd:     t.FixedEnd,
				progressPct:  t.ProgressPercentage,
				estCost:      cost,
				actualCost:   actual,
			}
			continue
		}
		if _, ok := snap.Milestone(id); ok {
			infos[id] = &nodeInfo{
				id:          id,
				isMilestone: true,
				cal:         snap.DefaultCalendar(),
			}
			continue
		}
		return nil, &tesseraerr.MissingEntityError{Kind: "node", ID: string(id)}
	}

	es := make(map[model.ID]time.Time, len(order))
	ef := make(map[model.ID]time.Time, len(order))

	for _, id := range order {
		n := infos[id]
		esCandidates := []time.Time{}
		efCandidates := []time.Time{}

		if n.fixedStart != nil {
			esCandidates = append(esCandidates, *n.fixedStart)
		}
		if len(g.Incoming(id)) == 0 {
			esCandidates = append(esCandidates, projectStart)
		}

		for _, e := range g.Incoming(id) {
			predCal := infos[e.From].cal
			var t time.Time
			switch e.Type {
			case model.FinishToStart, model.FinishToFinish:
				t = ef[e.From]
			default: // StartToStart, StartToFinish
				t = es[e.From]
			}
			contribution := applyLag(predCal, t, e.Lag)

			switch e.Type {
			case model.FinishToStart, model.StartToStart:
				esCandidates = append(esCandidates, contribution)
			case model.FinishToFinish, model.StartToFinish:
				efCandidates = append(efCandidates, contribution)
			}
		}

		nodeES, nodeEF := resolveForward(n, esCandidates, efCandidates, projectStart)
		es[id] = nodeES
		ef[id] = nodeEF
	}

	projectEnd := projectStart
	for _, id := range order {
		if ef[id].After(projectEnd) {
			projectEnd = ef[id]
		}
	}
	logger.WithField("pass", "forward").WithField("project_end", projectEnd.Format("2006-01-02")).Debug("forward pass complete")

	ls := make(map[model.ID]time.Time, len(order))
	lf := make(map[model.ID]time.Time, len(order))

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := infos[id]

		lfCandidates := []time.Time{}
		lsCandidates := []time.Time{}

		if len(g.Outgoing(id)) == 0 {
			lfCandidates = append(lfCandidates, projectEnd)
		}

		for _, e := range g.Outgoing(id) {
			succID := e.To
			var t time.Time
			switch e.Type {
			case model.FinishToStart:
				t = ls[succID]
			case model.StartToStart:
				t = ls[succID]
			case model.FinishToFinish:
				t = lf[succID]
			case model.StartToFinish:
				t = lf[succID]
			}
			contribution := subtractLag(n.cal, t, e.Lag)

			switch e.Type {
			case model.FinishToStart, model.FinishToFinish:
				lfCandidates = append(lfCandidates, contribution)
			default: // StartToStart, StartToFinish
				lsCandidates = append(lsCandidates, contribution)
			}
		}

		nodeLF, nodeLS := resolveBackward(n, lfCandidates, lsCandidates, projectEnd)
		lf[id] = nodeLF
		ls[id] = nodeLS
	}
	logger.WithField("pass", "backward").Debug("backward pass complete")

	nodes := make(map[model.ID]NodeResult, len(order))
	for _, id := range order {
		n := infos[id]
		totalFloat := daysBetween(es[id], ls[id])
		freeFloat := freeFloatFor(g, id, ef, es)

		nodes[id] = NodeResult{
			ID:             id,
			EarliestStart:  es[id],
			EarliestFinish: ef[id],
			LatestStart:    ls[id],
			LatestFinish:   lf[id],
			TotalFloat:     totalFloat,
			FreeFloat:      freeFloat,
			IsCritical:     totalFloat <= criticalEpsilonDays,
			DurationDays:   n.durationDays,
			EstimatedCost:  n.estCost,
			ActualCost:     n.actualCost,
		}
	}

	totalCost := 0.0
	for _, nr := range nodes {
		totalCost += nr.EstimatedCost
	}

	sched := &Schedule{
		ProjectStart:        projectStart,
		ProjectEnd:          projectEnd,
		TotalDurationDays:   daysBetween(projectStart, projectEnd),
		TotalCost:           totalCost,
		Nodes:               nodes,
		CriticalPath:        criticalPath(g, order, nodes),
		ResourceUtilization: resourceUtilization(snap, order, infos, es),
	}

	if now != nil {
		sched.EVM = computeEVM(snap, order, nodes, *now)
		logger.WithField("status_date", now.Format("2006-01-02")).Debug("earned value computed")
	}

	logger.WithField("critical_path_length", len(sched.CriticalPath)).Info("schedule computed")

	return sched, nil
}

func validateTask(t model.Task) error {
	if t.TaskType == model.MilestoneTask {
		if t.DurationDays != nil && *t.DurationDays != 0 {
			return &tesseraerr.InvalidTaskTypeError{TaskID: string(t.ID), Message: "milestone task must have zero duration"}
		}
		if t.EstimatedHours != nil && *t.EstimatedHours != 0 {
			return &tesseraerr.InvalidTaskTypeError{TaskID: string(t.ID), Message: "milestone task must have zero effort"}
		}
	}
	return nil
}

// applyLag adds lag calendar days to t, then snaps forward to the next
// working day on cal (spec.md 4.3.1).
func applyLag(cal model.Calendar, t time.Time, lagDays float64) time.Time {
	shifted := t.AddDate(0, 0, int(lagDays))
	return calendarsvc.NextWorkingDay(cal, shifted)
}

// subtractLag mirrors applyLag for the backward pass: it subtracts lag
// calendar days, then snaps backward to the previous working day, the
// true mirror of applyLag's forward snap.
func subtractLag(cal model.Calendar, t time.Time, lagDays float64) time.Time {
	shifted := t.AddDate(0, 0, -int(lagDays))
	return calendarsvc.PreviousWorkingDay(cal, shifted)
}

func resolveForward(n *nodeInfo, esCandidates, efCandidates []time.Time, projectStart time.Time) (time.Time, time.Time) {
	if n.isMilestone {
		start := maxTime(esCandidates, projectStart)
		if len(efCandidates) > 0 {
			start = maxTimeOf(start, maxTime(efCandidates, projectStart))
		}
		return start, start
	}

	esBound := maxTime(esCandidates, projectStart)

	if len(efCandidates) == 0 {
		endDate := calendarsvc.AddWorkingDays(n.cal, esBound, int(n.durationDays))
		return esBound, endDate
	}

	efBound := maxTime(efCandidates, projectStart)
	// ES must also satisfy EF >= efBound, i.e. ES >= efBound - duration.
	impliedES := calendarsvc.AddWorkingDays(n.cal, efBound, -int(n.durationDays))
	finalES := maxTimeOf(esBound, impliedES)
	finalEF := calendarsvc.AddWorkingDays(n.cal, finalES, int(n.durationDays))
	if finalEF.Before(efBound) {
		finalEF = efBound
	}
	return finalES, finalEF
}

func resolveBackward(n *nodeInfo, lfCandidates, lsCandidates []time.Time, projectEnd time.Time) (time.Time, time.Time) {
	if n.isMilestone {
		end := minTime(lfCandidates, projectEnd)
		if len(lsCandidates) > 0 {
			end = minTimeOf(end, minTime(lsCandidates, projectEnd))
		}
		return end, end
	}

	lfBound := minTime(lfCandidates, projectEnd)

	if len(lsCandidates) == 0 {
		start := calendarsvc.AddWorkingDays(n.cal, lfBound, -int(n.durationDays))
		return lfBound, start
	}

	lsBound := minTime(lsCandidates, projectEnd)
	impliedLF := calendarsvc.AddWorkingDays(n.cal, lsBound, int(n.durationDays))
	finalLF := minTimeOf(lfBound, impliedLF)
	finalLS := calendarsvc.AddWorkingDays(n.cal, finalLF, -int(n.durationDays))
	if finalLS.After(lsBound) {
		finalLS = lsBound
	}
	return finalLF, finalLS
}

func maxTime(candidates []time.Time, fallback time.Time) time.Time {
	best := fallback
	found := false
	for _, c := range candidates {
		if !found || c.After(best) {
			best = c
			found = true
		}
	}
	return best
}

func maxTimeOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func minTime(candidates []time.Time, fallback time.Time) time.Time {
	best := fallback
	found := false
	for _, c := range candidates {
		if !found || c.Before(best) {
			best = c
			found = true
		}
	}
	return best
}

func minTimeOf(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func daysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24.0
}

func freeFloatFor(g *graph.Graph, id model.ID, ef, es map[model.ID]time.Time) float64 {
	succs := g.Outgoing(id)
	if len(succs) == 0 {
		return 0
	}
	min := daysBetween(ef[id], es[succs[0].To])
	for _, e := range succs[1:] {
		if d := daysBetween(ef[id], es[e.To]); d < min {
			min = d
		}
	}
	if min < 0 {
		min = 0
	}
	return min
}

// criticalPath finds the longest chain of critical nodes from any source
// to any sink, ties broken by first discovered in topological order
// (spec.md 4.3.4, 5).
func criticalPath(g *graph.Graph, order []model.ID, nodes map[model.ID]NodeResult) []model.ID {
	best := make(map[model.ID]float64, len(order))
	prev := make(map[model.ID]model.ID, len(order))
	hasPrev := make(map[model.ID]bool, len(order))

	for _, id := range order {
		nr := nodes[id]
		if !nr.IsCritical {
			continue
		}
		best[id] = nr.DurationDays

		for _, e := range g.Incoming(id) {
			pred := e.From
			if !nodes[pred].IsCritical {
				continue
			}
			candidate := best[pred] + nr.DurationDays
			if candidate > best[id] {
				best[id] = candidate
				prev[id] = pred
				hasPrev[id] = true
			}
		}
	}

	var endNode model.ID
	found := false
	for _, id := range order {
		if !nodes[id].IsCritical {
			continue
		}
		if !found || best[id] > best[endNode] {
			endNode = id
			found = true
		}
	}
	if !found {
		return nil
	}

	var path []model.ID
	cur := endNode
	for {
		path = append([]model.ID{cur}, path...)
		if !hasPrev[cur] {
			break
		}
		cur = prev[cur]
	}
	return path
}

func resourceUtilization(snap store.Snapshot, order []model.ID, infos map[model.ID]*nodeInfo, es map[model.ID]time.Time) map[model.ID]map[string]float64 {
	util := make(map[model.ID]map[string]float64)

	for _, id := range order {
		t, ok := snap.Task(id)
		if !ok {
			continue
		}
		n := infos[id]
		start := es[id]

		for _, a := range t.Assignments {
			r, ok := snap.Resource(a.ResourceID)
			if !ok {
				continue
			}
			if util[a.ResourceID] == nil {
				util[a.ResourceID] = make(map[string]float64)
			}
			hoursPerDay := calendarsvc.BaseHoursPerDay(n.cal) * (r.AvailabilityPct / 100.0) * (a.AllocationPercent / 100.0)

			cur := start
			for day := 0; day < int(n.durationDays); day++ {
				if calendarsvc.IsWorking(n.cal, cur) {
					key := cur.Format("2006-01-02")
					util[a.ResourceID][key] += hoursPerDay
					cur = calendarsvc.AddWorkingDays(n.cal, cur, 1)
				} else {
					cur = calendarsvc.NextWorkingDay(n.cal, cur)
				}
			}
		}
	}

	return util
}

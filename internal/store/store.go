// Package store defines the Entity Store contract (spec.md component C2):
// a pure read interface the solvers use to resolve tasks, milestones,
// resources, calendars, features, components, stackups, quotes, and
// assembly-containment links by identifier.
//
// The contract is read-mostly: a caller hands a solver a Snapshot and the
// solver never mutates it. Concurrent mutation of the underlying manager
// while a Snapshot is in use is undefined behavior at the contract level
// (spec.md 5); InMemoryStore.Snapshot defends against this by deep-copying
// on read.
package store

import (
	"tessera/internal/model"
	"tessera/internal/tesseraerr"
)

// Snapshot is the read-only view solvers consume for the duration of one
// compute_schedule / analyze call.
type Snapshot interface {
	Task(id model.ID) (model.Task, bool)
	Milestone(id model.ID) (model.Milestone, bool)
	Tasks() []model.Task
	Milestones() []model.Milestone

	Resource(id model.ID) (model.Resource, bool)
	Resources() []model.Resource

	Calendar(id model.ID) (model.Calendar, bool)
	DefaultCalendar() model.Calendar

	Component(id model.ID) (model.Component, bool)
	Feature(id model.ID) (model.Feature, bool)
	Mate(id model.ID) (model.Mate, bool)
	Stackup(id model.ID) (model.Stackup, bool)
	Quote(id model.ID) (model.Quote, bool)
	QuotesForComponent(componentID model.ID) []model.Quote

	Assembly(id model.ID) (model.Assembly, bool)
	ContainmentLinksFrom(parentID model.ID) []model.ContainmentLink
}

// InMemoryStore is a mutable entity manager. Call Snapshot() to obtain an
// immutable view before running a solver.
type InMemoryStore struct {
	tasks      map[model.ID]model.Task
	milestones map[model.ID]model.Milestone
	resources  map[model.ID]model.Resource
	calendars  map[model.ID]model.Calendar
	defaultCal model.ID

	components map[model.ID]model.Component
	features   map[model.ID]model.Feature
	mates      map[model.ID]model.Mate
	stackups   map[model.ID]model.Stackup
	quotes     map[model.ID]model.Quote

	assemblies  map[model.ID]model.Assembly
	containment []model.ContainmentLink
}

// New creates an empty store. Use the Put* methods to populate it.
func New() *InMemoryStore {
	return &InMemoryStore{
		tasks:      make(map[model.ID]model.Task),
		milestones: make(map[model.ID]model.Milestone),
		resources:  make(map[model.ID]model.Resource),
		calendars:  make(map[model.ID]model.Calendar),
		components: make(map[model.ID]model.Component),
		features:   make(map[model.ID]model.Feature),
		mates:      make(map[model.ID]model.Mate),
		stackups:   make(map[model.ID]model.Stackup),
		quotes:     make(map[model.ID]model.Quote),
		assemblies: make(map[model.ID]model.Assembly),
	}
}

func (s *InMemoryStore) PutTask(t model.Task)           { s.tasks[t.ID] = t }
func (s *InMemoryStore) PutMilestone(m model.Milestone) { s.milestones[m.ID] = m }
func (s *InMemoryStore) PutResource(r model.Resource)   { s.resources[r.ID] = r }

// PutCalendar adds a calendar. The first calendar added becomes the project
// default unless SetDefaultCalendar is called explicitly.
func (s *InMemoryStore) PutCalendar(c model.Calendar) {
	s.calendars[c.ID] = c
	if s.defaultCal == "" {
		s.defaultCal = c.ID
	}
}

func (s *InMemoryStore) SetDefaultCalendar(id model.ID) { s.defaultCal = id }

func (s *InMemoryStore) PutComponent(c model.Component) { s.components[c.ID] = c }
func (s *InMemoryStore) PutFeature(f model.Feature)     { s.features[f.ID] = f }
func (s *InMemoryStore) PutMate(m model.Mate)           { s.mates[m.ID] = m }
func (s *InMemoryStore) PutStackup(st model.Stackup)    { s.stackups[st.ID] = st }
func (s *InMemoryStore) PutQuote(q model.Quote)         { s.quotes[q.ID] = q }
func (s *InMemoryStore) PutAssembly(a model.Assembly)   { s.assemblies[a.ID] = a }
func (s *InMemoryStore) PutContainmentLink(l model.ContainmentLink) {
	s.containment = append(s.containment, l)
}

// Snapshot returns an immutable, deep-copied view of the store's current
// contents.
func (s *InMemoryStore) Snapshot() Snapshot {
	cp := &memSnapshot{
		tasks:      make(map[model.ID]model.Task, len(s.tasks)),
		milestones: make(map[model.ID]model.Milestone, len(s.milestones)),
		resources:  make(map[model.ID]model.Resource, len(s.resources)),
		calendars:  make(map[model.ID]model.Calendar, len(s.calendars)),
		defaultCal: s.defaultCal,
		components: make(map[model.ID]model.Component, len(s.components)),
		features:   make(map[model.ID]model.Feature, len(s.features)),
		mates:      make(map[model.ID]model.Mate, len(s.mates)),
		stackups:   make(map[model.ID]model.Stackup, len(s.stackups)),
		quotes:     make(map[model.ID]model.Quote, len(s.quotes)),
		assemblies: make(map[model.ID]model.Assembly, len(s.assemblies)),
	}
	for k, v := range s.tasks {
		cp.tasks[k] = v
	}
	for k, v := range s.milestones {
		cp.milestones[k] = v
	}
	for k, v := range s.resources {
		cp.resources[k] = v
	}
	for k, v := range s.calendars {
		cp.calendars[k] = v
	}
	for k, v := range s.components {
		cp.components[k] = v
	}
	for k, v := range s.features {
		cp.features[k] = v
	}
	for k, v := range s.mates {
		cp.mates[k] = v
	}
	for k, v := range s.stackups {
		cp.stackups[k] = v
	}
	for k, v := range s.quotes {
		cp.quotes[k] = v
	}
	for k, v := range s.assemblies {
		cp.assemblies[k] = v
	}
	cp.containment = append([]model.ContainmentLink(nil), s.containment...)

	return cp
}

type memSnapshot struct {
	tasks      map[model.ID]model.Task
	milestones map[model.ID]model.Milestone
	resources  map[model.ID]model.Resource
	calendars  map[model.ID]model.Calendar
	defaultCal model.ID

	components map[model.ID]model.Component
	features   map[model.ID]model.Feature
	mates      map[model.ID]model.Mate
	stackups   map[model.ID]model.Stackup
	quotes     map[model.ID]model.Quote

	assemblies  map[model.ID]model.Assembly
	containment []model.ContainmentLink
}

func (s *memSnapshot) Task(id model.ID) (model.Task, bool) { t, ok := s.tasks[id]; return t, ok }
func (s *memSnapshot) Milestone(id model.ID) (model.Milestone, bool) {
	m, ok := s.milestones[id]
	return m, ok
}

func (s *memSnapshot) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

func (s *memSnapshot) Milestones() []model.Milestone {
	out := make([]model.Milestone, 0, len(s.milestones))
	for _, m := range s.milestones {
		out = append(out, m)
	}
	return out
}

func (s *memSnapshot) Resource(id model.ID) (model.Resource, bool) {
	r, ok := s.resources[id]
	return r, ok
}

func (s *memSnapshot) Resources() []model.Resource {
	out := make([]model.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		out = append(out, r)
	}
	return out
}

func (s *memSnapshot) Calendar(id model.ID) (model.Calendar, bool) {
	c, ok := s.calendars[id]
	return c, ok
}

func (s *memSnapshot) DefaultCalendar() model.Calendar {
	if c, ok := s.calendars[s.defaultCal]; ok {
		return c
	}
	return model.NewStandardCalendar("default")
}

func (s *memSnapshot) Component(id model.ID) (model.Component, bool) {
	c, ok := s.components[id]
	return c, ok
}

func (s *memSnapshot) Feature(id model.ID) (model.Feature, bool) {
	f, ok := s.features[id]
	return f, ok
}

func (s *memSnapshot) Mate(id model.ID) (model.Mate, bool) { m, ok := s.mates[id]; return m, ok }
func (s *memSnapshot) Stackup(id model.ID) (model.Stackup, bool) {
	st, ok := s.stackups[id]
	return st, ok
}

func (s *memSnapshot) Quote(id model.ID) (model.Quote, bool) { q, ok := s.quotes[id]; return q, ok }

func (s *memSnapshot) QuotesForComponent(componentID model.ID) []model.Quote {
	out := make([]model.Quote, 0)
	for _, q := range s.quotes {
		if q.ComponentID == componentID {
			out = append(out, q)
		}
	}
	return out
}

func (s *memSnapshot) Assembly(id model.ID) (model.Assembly, bool) {
	a, ok := s.assemblies[id]
	return a, ok
}

func (s *memSnapshot) ContainmentLinksFrom(parentID model.ID) []model.ContainmentLink {
	out := make([]model.ContainmentLink, 0)
	for _, l := range s.containment {
		if l.ParentID == parentID {
			out = append(out, l)
		}
	}
	return out
}

// RequireFeature resolves a feature or returns a MissingEntityError,
// matching the boundary error kinds of spec.md 6.
func RequireFeature(snap Snapshot, id model.ID) (model.Feature, error) {
	f, ok := snap.Feature(id)
	if !ok {
		return model.Feature{}, &tesseraerr.MissingEntityError{Kind: "feature", ID: string(id)}
	}
	return f, nil
}

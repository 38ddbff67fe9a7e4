// Package graph implements the Dependency Graph Builder (spec.md component
// C3): assembling an acyclic directed graph of tasks and milestones with
// typed, lagged edges, and detecting cycles via topological sort.
package graph

import (
	"sort"

	"tessera/internal/model"
	"tessera/internal/tesseraerr"
)

// Edge is a typed, lagged dependency edge from a predecessor to a
// successor node.
type Edge struct {
	From model.ID
	To   model.ID
	Type model.DependencyType
	Lag  float64
}

// Graph is a directed graph whose nodes are task or milestone identifiers.
type Graph struct {
	nodes []model.ID
	// incoming[n] lists every edge whose To == n.
	incoming map[model.ID][]Edge
	// outgoing[n] lists every edge whose From == n.
	outgoing map[model.ID][]Edge
	index    map[model.ID]bool
}

// Nodes returns all node identifiers, sorted lexicographically for
// deterministic downstream iteration (spec.md 5).
func (g *Graph) Nodes() []model.ID {
	out := append([]model.ID(nil), g.nodes...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Incoming returns the edges pointing at node n.
func (g *Graph) Incoming(n model.ID) []Edge {
	return g.incoming[n]
}

// Outgoing returns the edges leaving node n.
func (g *Graph) Outgoing(n model.ID) []Edge {
	return g.outgoing[n]
}

// Build assembles the dependency graph from tasks and milestones.
// Unresolved predecessors fail with UnresolvedDependencyError (spec.md 4.2).
func Build(tasks []model.Task, milestones []model.Milestone) (*Graph, error) {
	g := &Graph{
		incoming: make(map[model.ID][]Edge),
		outgoing: make(map[model.ID][]Edge),
		index:    make(map[model.ID]bool),
	}

	for _, t := range tasks {
		g.addNode(t.ID)
	}
	for _, m := range milestones {
		g.addNode(m.ID)
	}

	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if !g.index[dep.PredecessorID] {
				return nil, &tesseraerr.UnresolvedDependencyError{
					NodeID:        string(t.ID),
					PredecessorID: string(dep.PredecessorID),
				}
			}
			g.addEdge(Edge{From: dep.PredecessorID, To: t.ID, Type: dep.Type, Lag: dep.LagDays})
		}
	}

	for _, m := range milestones {
		for _, dep := range m.Dependencies {
			if !g.index[dep.PredecessorID] {
				return nil, &tesseraerr.UnresolvedDependencyError{
					NodeID:        string(m.ID),
					PredecessorID: string(dep.PredecessorID),
				}
			}
			g.addEdge(Edge{From: dep.PredecessorID, To: m.ID, Type: dep.Type, Lag: dep.LagDays})
		}
	}

	if _, err := TopoSort(g); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Graph) addNode(id model.ID) {
	if g.index[id] {
		return
	}
	g.index[id] = true
	g.nodes = append(g.nodes, id)
}

func (g *Graph) addEdge(e Edge) {
	g.outgoing[e.From] = append(g.outgoing[e.From], e)
	g.incoming[e.To] = append(g.incoming[e.To], e)
}

// TopoSort returns the nodes in topological order, with ties among nodes
// that have no remaining dependency broken by identifier lexicographic
// order (spec.md 5). If the graph has a cycle, it returns
// DependencyCycleError naming one edge on the cycle.
func TopoSort(g *Graph) ([]model.ID, error) {
	inDegree := make(map[model.ID]int, len(g.nodes))
	for _, n := range g.nodes {
		inDegree[n] = len(g.incoming[n])
	}

	var ready []model.ID
	for _, n := range g.nodes {
		if inDegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	var order []model.ID
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		for _, e := range g.outgoing[n] {
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				ready = append(ready, e.To)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, cycleError(g, inDegree)
	}

	return order, nil
}

// cycleError finds one edge that participates in a remaining cycle, for a
// readable DependencyCycleError. Every unsorted node has an unsorted
// predecessor, so walking predecessors from one must revisit a node; the
// edge that closes that walk lies on a cycle.
func cycleError(g *Graph, inDegree map[model.ID]int) error {
	for _, n := range g.Nodes() {
		if inDegree[n] == 0 {
			continue
		}
		seen := map[model.ID]bool{}
		for cur := n; ; {
			seen[cur] = true
			for _, e := range g.incoming[cur] {
				if inDegree[e.From] > 0 {
					if seen[e.From] {
						return &tesseraerr.DependencyCycleError{Edge: []string{string(e.From), string(e.To)}}
					}
					cur = e.From
					break
				}
			}
		}
	}
	return &tesseraerr.DependencyCycleError{}
}

package graph

import (
	"testing"

	"tessera/internal/model"
)

func task(id model.ID, deps ...model.TaskDependency) model.Task {
	return model.Task{ID: id, Dependencies: deps}
}

func fsDep(pred model.ID) model.TaskDependency {
	return model.TaskDependency{PredecessorID: pred, Type: model.FinishToStart}
}

func TestBuild_LinearChain(t *testing.T) {
	a := model.ID("A")
	b := model.ID("B")
	c := model.ID("C")

	tasks := []model.Task{
		task(a),
		task(b, fsDep(a)),
		task(c, fsDep(b)),
	}

	g, err := Build(tasks, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	order, err := TopoSort(g)
	if err != nil {
		t.Fatalf("TopoSort: %v", err)
	}

	want := []model.ID{a, b, c}
	if len(order) != len(want) {
		t.Fatalf("order length = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestBuild_UnresolvedDependency(t *testing.T) {
	a := model.ID("A")
	tasks := []model.Task{task(a, fsDep(model.ID("ghost")))}

	_, err := Build(tasks, nil)
	if err == nil {
		t.Fatal("expected UnresolvedDependencyError")
	}
}

func TestBuild_Cycle(t *testing.T) {
	a := model.ID("A")
	b := model.ID("B")
	tasks := []model.Task{
		task(a, fsDep(b)),
		task(b, fsDep(a)),
	}

	_, err := Build(tasks, nil)
	if err == nil {
		t.Fatal("expected DependencyCycleError")
	}
}

func TestBuild_Diamond(t *testing.T) {
	a, b, c, d := model.ID("A"), model.ID("B"), model.ID("C"), model.ID("D")

	tasks := []model.Task{
		task(a),
		task(b, fsDep(a)),
		task(c, fsDep(a)),
		task(d, fsDep(b), fsDep(c)),
	}

	g, err := Build(tasks, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	order, err := TopoSort(g)
	if err != nil {
		t.Fatalf("TopoSort: %v", err)
	}
	if order[0] != a || order[len(order)-1] != d {
		t.Errorf("diamond order = %v, want A first and D last", order)
	}
}

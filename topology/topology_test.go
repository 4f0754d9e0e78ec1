package topology

import (
	"testing"

	"github.com/fadingrose/qmlcheck/model"
	"github.com/fadingrose/qmlcheck/qmlerr"
	"github.com/fadingrose/qmlcheck/smt"
)

func mkItems(ids ...string) []*model.Item {
	items := make([]*model.Item, len(ids))
	for i, id := range ids {
		items[i] = &model.Item{ID: id, Kind: model.Question, OriginIndex: i}
	}
	return items
}

func TestComputeAcyclicOrder(t *testing.T) {
	items := mkItems("a", "b", "c")
	edges := []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}}
	res, err := Compute(smt.NewContext(), items, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(res.Order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, res.Order)
	}
	for i, id := range want {
		if res.Order[i] != id {
			t.Errorf("order[%d] = %q, want %q", i, res.Order[i], id)
		}
	}
}

func TestComputeOrderTiesBrokenByOriginIndex(t *testing.T) {
	// b and c both have no predecessors once a is emitted; origin_index
	// must break the tie in favor of the one declared earlier in the file.
	items := mkItems("a", "c", "b")
	edges := []Edge{{From: "a", To: "b"}, {From: "a", To: "c"}}
	res, err := Compute(smt.NewContext(), items, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Order[0] != "a" {
		t.Fatalf("expected 'a' first, got %v", res.Order)
	}
	if res.Order[1] != "c" || res.Order[2] != "b" {
		t.Errorf("expected origin_index tie-break to emit 'c' before 'b', got %v", res.Order)
	}
}

func TestComputeDetectsCycle(t *testing.T) {
	items := mkItems("a", "b", "c")
	edges := []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}}
	_, err := Compute(smt.NewContext(), items, edges)
	if err == nil {
		t.Fatal("expected a cycle to be detected")
	}
	if err.Kind != qmlerr.CycleDetected {
		t.Errorf("expected CycleDetected, got %v", err.Kind)
	}
	if len(err.Cycle) == 0 {
		t.Errorf("expected a non-empty cycle path")
	}
}

func TestComputeLayers(t *testing.T) {
	items := mkItems("a", "b", "c")
	edges := []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}}
	res, err := Compute(smt.NewContext(), items, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for id, layer := range want {
		if res.Layers[id] != layer {
			t.Errorf("layer[%q] = %d, want %d", id, res.Layers[id], layer)
		}
	}
}

func TestComputeComponents(t *testing.T) {
	items := mkItems("a", "b", "c", "d")
	edges := []Edge{{From: "a", To: "b"}}
	res, err := Compute(smt.NewContext(), items, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Components["a"] != res.Components["b"] {
		t.Errorf("expected 'a' and 'b' to share a component")
	}
	if res.Components["c"] == res.Components["a"] {
		t.Errorf("expected 'c' to be in its own component")
	}
	if res.Components["d"] == res.Components["a"] || res.Components["d"] == res.Components["c"] {
		t.Errorf("expected 'd' to be in its own component")
	}
}

func TestComputeNoEdgesIsFullyParallel(t *testing.T) {
	items := mkItems("a", "b")
	res, err := Compute(smt.NewContext(), items, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Layers["a"] != 0 || res.Layers["b"] != 0 {
		t.Errorf("expected both items at layer 0, got %+v", res.Layers)
	}
	if res.Components["a"] == res.Components["b"] {
		t.Errorf("expected disconnected items to land in different components")
	}
}

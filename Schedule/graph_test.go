package Schedule

import (
	"errors"
	"testing"

	"Mason/Models"
)

func diamondGraph() *Graph {
	// 1 -> 2 -> 4, 1 -> 3 -> 4
	tasks := []Models.ScheduleTask{
		newTask(1, monday, 3),
		newTask(2, monday, 2),
		newTask(3, monday, 4),
		newTask(4, monday, 2),
	}
	deps := []Models.TaskDependency{
		newEdge(1, 1, 2, Models.DepFinishToStart, 0),
		newEdge(2, 1, 3, Models.DepFinishToStart, 0),
		newEdge(3, 2, 4, Models.DepFinishToStart, 0),
		newEdge(4, 3, 4, Models.DepFinishToStart, 0),
	}
	return BuildGraph(1, tasks, deps)
}

func TestTopologicalOrder(t *testing.T) {
	t.Run("predecessors come first, ties break on id", func(t *testing.T) {
		order, err := diamondGraph().TopologicalOrder()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []uint{1, 2, 3, 4}
		if len(order) != len(want) {
			t.Fatalf("order length %d, want %d", len(order), len(want))
		}
		for i := range want {
			if order[i] != want[i] {
				t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
			}
		}
	})

	t.Run("cycle reports ErrGraphInconsistent", func(t *testing.T) {
		tasks := []Models.ScheduleTask{
			newTask(1, monday, 1),
			newTask(2, monday, 1),
		}
		deps := []Models.TaskDependency{
			newEdge(1, 1, 2, Models.DepFinishToStart, 0),
			newEdge(2, 2, 1, Models.DepFinishToStart, 0),
		}
		_, err := BuildGraph(1, tasks, deps).TopologicalOrder()
		if !errors.Is(err, ErrGraphInconsistent) {
			t.Errorf("expected ErrGraphInconsistent, got %v", err)
		}
	})
}

func TestCanReach(t *testing.T) {
	g := diamondGraph()

	if !g.CanReach(1, 4) {
		t.Error("1 should reach 4")
	}
	if g.CanReach(4, 1) {
		t.Error("4 should not reach 1")
	}
	if g.CanReach(2, 3) {
		t.Error("siblings should not reach each other")
	}
	if !g.CanReach(2, 2) {
		t.Error("a task reaches itself")
	}
}

func TestDownstream(t *testing.T) {
	g := diamondGraph()

	downstream := g.Downstream(1)
	if len(downstream) != 3 {
		t.Fatalf("downstream of 1 should be 3 tasks, got %v", downstream)
	}
	seen := map[uint]bool{}
	for _, id := range downstream {
		seen[id] = true
	}
	for _, id := range []uint{2, 3, 4} {
		if !seen[id] {
			t.Errorf("expected %d downstream of 1", id)
		}
	}
	if len(g.Downstream(4)) != 0 {
		t.Error("sink has no downstream tasks")
	}
}

func TestBuildGraphSkipsInactiveAndDanglingEdges(t *testing.T) {
	tasks := []Models.ScheduleTask{
		newTask(1, monday, 1),
		newTask(2, monday, 1),
	}
	inactive := newEdge(1, 1, 2, Models.DepFinishToStart, 0)
	inactive.Active = false
	dangling := newEdge(2, 1, 99, Models.DepFinishToStart, 0)

	g := BuildGraph(1, tasks, []Models.TaskDependency{inactive, dangling})
	if len(g.PredecessorsOf(2)) != 0 {
		t.Error("inactive edge should not be indexed")
	}
	if len(g.SuccessorsOf(1)) != 0 {
		t.Error("edge to unknown task should not be indexed")
	}
}

package Schedule

import (
	"testing"

	"Mason/Models"
)

func TestRequiredStart(t *testing.T) {
	pred := newTask(1, monday, 2) // ends Wednesday 06-04
	tests := []struct {
		name    string
		depType string
		lag     int
		succDur int
		want    string
	}{
		{"FS starts the day after the finish", Models.DepFinishToStart, 0, 3, "2025-06-05"},
		{"FS lag pushes further out", Models.DepFinishToStart, 2, 3, "2025-06-07"},
		{"FS negative lag overlaps", Models.DepFinishToStart, -2, 3, "2025-06-03"},
		{"SS follows the start", Models.DepStartToStart, 2, 3, "2025-06-04"},
		{"FF backs out from the finish", Models.DepFinishToFinish, 0, 1, "2025-06-03"},
		{"SF backs out from the start bound", Models.DepStartToFinish, 5, 2, "2025-06-05"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			succ := newTask(2, monday, tc.succDur)
			edge := newEdge(1, 1, 2, tc.depType, tc.lag)
			got := requiredStart(&edge, &pred, &succ)
			if got.Format("2006-01-02") != tc.want {
				t.Errorf("requiredStart = %s, want %s", got.Format("2006-01-02"), tc.want)
			}
		})
	}
}

func TestCascadeDates(t *testing.T) {
	cal := workWeekCalendar()

	t.Run("successor follows a finish-to-start chain", func(t *testing.T) {
		tasks := []Models.ScheduleTask{
			newTask(1, monday, 2),
			newTask(2, monday, 3),
		}
		deps := []Models.TaskDependency{newEdge(1, 1, 2, Models.DepFinishToStart, 0)}
		g := BuildGraph(1, tasks, deps)

		result, err := cascadeDates(g, cal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.UpdatedTasks) != 1 {
			t.Fatalf("expected 1 move, got %d", len(result.UpdatedTasks))
		}
		assertDate(t, g.Tasks[2].StartDate, date(2025, 6, 5), "successor start")
		assertDate(t, g.Tasks[2].EndDate, date(2025, 6, 8), "successor end")
	})

	t.Run("weekend landing rolls to Monday", func(t *testing.T) {
		tasks := []Models.ScheduleTask{
			newTask(1, monday, 4), // ends Friday
			newTask(2, monday, 2),
		}
		deps := []Models.TaskDependency{newEdge(1, 1, 2, Models.DepFinishToStart, 0)}
		g := BuildGraph(1, tasks, deps)

		if _, err := cascadeDates(g, cal); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Friday finish + 1 = Saturday, which is not workable.
		assertDate(t, g.Tasks[2].StartDate, date(2025, 6, 9), "successor start")
	})

	t.Run("latest predecessor requirement wins", func(t *testing.T) {
		tasks := []Models.ScheduleTask{
			newTask(1, monday, 2),
			newTask(2, monday, 4),
			newTask(3, monday, 1),
		}
		deps := []Models.TaskDependency{
			newEdge(1, 1, 3, Models.DepFinishToStart, 0),
			newEdge(2, 2, 3, Models.DepFinishToStart, 0),
		}
		g := BuildGraph(1, tasks, deps)

		if _, err := cascadeDates(g, cal); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Task 2 finishes Friday 06-06; Saturday rolls to Monday 06-09.
		assertDate(t, g.Tasks[3].StartDate, date(2025, 6, 9), "successor start")
	})

	t.Run("locked task pins but successors still follow it", func(t *testing.T) {
		pinned := newTask(2, date(2025, 6, 12), 2)
		pinned.ManuallyPositioned = true
		tasks := []Models.ScheduleTask{
			newTask(1, monday, 2),
			pinned,
			newTask(3, monday, 1),
		}
		deps := []Models.TaskDependency{
			newEdge(1, 1, 2, Models.DepFinishToStart, 0),
			newEdge(2, 2, 3, Models.DepFinishToStart, 0),
		}
		g := BuildGraph(1, tasks, deps)

		result, err := cascadeDates(g, cal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertDate(t, g.Tasks[2].StartDate, date(2025, 6, 12), "pinned task stays")
		if len(result.LockedHeld) != 1 || result.LockedHeld[0] != 2 {
			t.Errorf("expected task 2 reported locked, got %v", result.LockedHeld)
		}
		// 06-14 is a Saturday finish; +1 = Sunday rolls to Monday 06-16.
		assertDate(t, g.Tasks[3].StartDate, date(2025, 6, 16), "successor of pinned task")
	})

	t.Run("held task is pinned the same way", func(t *testing.T) {
		held := newTask(2, date(2025, 6, 10), 1)
		held.IsHoldTask = true
		tasks := []Models.ScheduleTask{
			newTask(1, monday, 2),
			held,
		}
		deps := []Models.TaskDependency{newEdge(1, 1, 2, Models.DepFinishToStart, 0)}
		g := BuildGraph(1, tasks, deps)

		result, err := cascadeDates(g, cal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertDate(t, g.Tasks[2].StartDate, date(2025, 6, 10), "held task stays")
		if len(result.UpdatedTasks) != 0 {
			t.Errorf("expected no moves, got %v", result.UpdatedTasks)
		}
	})

	t.Run("second pass is a no-op", func(t *testing.T) {
		tasks := []Models.ScheduleTask{
			newTask(1, monday, 2),
			newTask(2, monday, 3),
			newTask(3, monday, 1),
		}
		deps := []Models.TaskDependency{
			newEdge(1, 1, 2, Models.DepFinishToStart, 0),
			newEdge(2, 2, 3, Models.DepStartToStart, 1),
		}
		g := BuildGraph(1, tasks, deps)

		first, err := cascadeDates(g, cal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(first.UpdatedTasks) == 0 {
			t.Fatal("first pass should move tasks")
		}

		second, err := cascadeDates(g, cal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(second.UpdatedTasks) != 0 {
			t.Errorf("cascade is not idempotent: second pass moved %v", second.UpdatedTasks)
		}
	})
}

func TestCascadePreview(t *testing.T) {
	cal := workWeekCalendar()

	locked := newTask(3, monday, 2)
	locked.SupplierConfirm = true
	tasks := []Models.ScheduleTask{
		newTask(1, monday, 2),
		newTask(2, monday, 3),
		locked,
	}
	deps := []Models.TaskDependency{
		newEdge(1, 1, 2, Models.DepFinishToStart, 0),
		newEdge(2, 1, 3, Models.DepFinishToStart, 0),
	}
	g := BuildGraph(1, tasks, deps)

	newStart := date(2025, 6, 9)
	result, err := CascadePreview(g, 1, newStart, cal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.UnlockedSuccessors) != 1 || result.UnlockedSuccessors[0].TaskID != 2 {
		t.Fatalf("expected task 2 in unlocked successors, got %+v", result.UnlockedSuccessors)
	}
	// Moved task would end 06-11; FS puts the successor on 06-12.
	assertDate(t, result.UnlockedSuccessors[0].NewStartDate, date(2025, 6, 12), "unlocked successor start")

	if len(result.BlockedSuccessors) != 1 || result.BlockedSuccessors[0].TaskID != 3 {
		t.Fatalf("expected task 3 in blocked successors, got %+v", result.BlockedSuccessors)
	}
	blocked := result.BlockedSuccessors[0]
	if blocked.LockType != "supplier_confirm" {
		t.Errorf("blocked lock type = %q, want supplier_confirm", blocked.LockType)
	}
	if !blocked.Unlockable {
		t.Error("supplier confirm should be unlockable")
	}

	// Preview must not touch the graph.
	assertDate(t, g.Tasks[1].StartDate, monday, "previewed task unchanged")
	assertDate(t, g.Tasks[2].StartDate, monday, "successor unchanged")

	if _, err := CascadePreview(g, 99, newStart, cal); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown task, got %v", err)
	}
}

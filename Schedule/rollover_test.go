package Schedule

import (
	"testing"

	"Mason/Models"
)

func TestRollover(t *testing.T) {
	cal := workWeekCalendar()

	t.Run("past due unstarted work moves to the next working day", func(t *testing.T) {
		db := openTestDB(t)
		stale := newTask(1, date(2025, 5, 26), 2)
		seedProjectTasks(t, db, stale)

		// Saturday: the roll target is the following Monday.
		result, err := Rollover(db, 1, date(2025, 6, 7), cal)
		if err != nil {
			t.Fatalf("Rollover: %v", err)
		}
		if len(result.RolledTasks) != 1 {
			t.Fatalf("rolled %d tasks, want 1", len(result.RolledTasks))
		}
		change := result.RolledTasks[0]
		assertDate(t, change.NewStartDate, date(2025, 6, 9), "new start")
		assertDate(t, change.NewEndDate, date(2025, 6, 11), "new end")

		var saved Models.ScheduleTask
		if err := db.First(&saved, 1).Error; err != nil {
			t.Fatalf("reload task: %v", err)
		}
		assertDate(t, saved.StartDate, date(2025, 6, 9), "persisted start")
		assertDate(t, saved.EndDate, date(2025, 6, 11), "persisted end")
	})

	t.Run("started and locked tasks stay put", func(t *testing.T) {
		db := openTestDB(t)
		started := newTask(1, date(2025, 5, 26), 3)
		started.Status = Models.StatusStarted
		confirmed := newTask(2, date(2025, 5, 26), 3)
		confirmed.SupplierConfirm = true
		held := newTask(3, date(2025, 5, 26), 3)
		held.IsHoldTask = true
		seedProjectTasks(t, db, started, confirmed, held)

		result, err := Rollover(db, 1, monday, cal)
		if err != nil {
			t.Fatalf("Rollover: %v", err)
		}
		if len(result.RolledTasks) != 0 {
			t.Errorf("rolled %d tasks, want 0", len(result.RolledTasks))
		}
		if result.CascadeAfter != nil {
			t.Error("no roll should mean no recompute")
		}
		for _, id := range []uint{2, 3} {
			var saved Models.ScheduleTask
			if err := db.First(&saved, id).Error; err != nil {
				t.Fatalf("reload task %d: %v", id, err)
			}
			assertDate(t, saved.StartDate, date(2025, 5, 26), "pinned start")
		}
	})

	t.Run("future and current tasks are untouched", func(t *testing.T) {
		db := openTestDB(t)
		startsToday := newTask(1, monday, 2)
		future := newTask(2, date(2025, 6, 16), 2)
		seedProjectTasks(t, db, startsToday, future)

		result, err := Rollover(db, 1, monday, cal)
		if err != nil {
			t.Fatalf("Rollover: %v", err)
		}
		if len(result.RolledTasks) != 0 {
			t.Errorf("rolled %d tasks, want 0", len(result.RolledTasks))
		}
	})

	t.Run("successors cascade after the roll", func(t *testing.T) {
		db := openTestDB(t)
		stale := newTask(1, date(2025, 5, 28), 2)
		successor := newTask(2, date(2025, 5, 30), 2)
		seedProjectTasks(t, db, stale, successor)
		if err := db.Create(&Models.TaskDependency{
			ProjectID:         1,
			PredecessorTaskID: 1,
			SuccessorTaskID:   2,
			DependencyType:    Models.DepFinishToStart,
			Active:            true,
		}).Error; err != nil {
			t.Fatalf("seed dependency: %v", err)
		}

		result, err := Rollover(db, 1, monday, cal)
		if err != nil {
			t.Fatalf("Rollover: %v", err)
		}
		if len(result.RolledTasks) != 2 {
			t.Fatalf("rolled %d tasks, want 2", len(result.RolledTasks))
		}
		if result.CascadeAfter == nil {
			t.Fatal("expected a cascade after the roll")
		}

		// Both landed on today; the cascade then pushes the successor
		// behind its predecessor again.
		var succ Models.ScheduleTask
		if err := db.First(&succ, 2).Error; err != nil {
			t.Fatalf("reload successor: %v", err)
		}
		assertDate(t, succ.StartDate, date(2025, 6, 5), "successor start")
	})
}

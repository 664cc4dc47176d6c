package Schedule

import (
	"testing"

	"Mason/Models"
)

func TestLockHierarchy(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Models.ScheduleTask)
		lockType   string
		priority   int
		unlockable bool
	}{
		{
			name:     "unlocked",
			mutate:   func(t *Models.ScheduleTask) {},
			lockType: "", priority: 0, unlockable: false,
		},
		{
			name:     "supplier confirm",
			mutate:   func(t *Models.ScheduleTask) { t.SupplierConfirm = true },
			lockType: "supplier_confirm", priority: 1, unlockable: true,
		},
		{
			name:     "builder confirm",
			mutate:   func(t *Models.ScheduleTask) { t.Confirm = true },
			lockType: "confirm", priority: 2, unlockable: true,
		},
		{
			name:     "started",
			mutate:   func(t *Models.ScheduleTask) { t.Status = Models.StatusStarted },
			lockType: "started", priority: 3, unlockable: false,
		},
		{
			name:     "completed",
			mutate:   func(t *Models.ScheduleTask) { t.Status = Models.StatusCompleted },
			lockType: "completed", priority: 4, unlockable: false,
		},
		{
			name:     "manually positioned",
			mutate:   func(t *Models.ScheduleTask) { t.ManuallyPositioned = true },
			lockType: "manually_positioned", priority: 5, unlockable: true,
		},
		{
			name: "supplier confirm outranks started",
			mutate: func(t *Models.ScheduleTask) {
				t.SupplierConfirm = true
				t.Status = Models.StatusStarted
			},
			lockType: "supplier_confirm", priority: 1, unlockable: false,
		},
		{
			name: "confirm outranks manual position",
			mutate: func(t *Models.ScheduleTask) {
				t.Confirm = true
				t.ManuallyPositioned = true
			},
			lockType: "confirm", priority: 2, unlockable: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := newTask(1, monday, 2)
			tc.mutate(&task)

			if got := LockType(&task); got != tc.lockType {
				t.Errorf("LockType = %q, want %q", got, tc.lockType)
			}
			if got := LockPriority(&task); got != tc.priority {
				t.Errorf("LockPriority = %d, want %d", got, tc.priority)
			}
			if got := Unlockable(&task); got != tc.unlockable {
				t.Errorf("Unlockable = %v, want %v", got, tc.unlockable)
			}
			wantLocked := tc.lockType != ""
			if got := IsLocked(&task); got != wantLocked {
				t.Errorf("IsLocked = %v, want %v", got, wantLocked)
			}
		})
	}
}

func TestIsMovable(t *testing.T) {
	t.Run("plain task is movable", func(t *testing.T) {
		task := newTask(1, monday, 2)
		if !IsMovable(&task) {
			t.Error("expected movable")
		}
	})

	t.Run("held task is pinned without being locked", func(t *testing.T) {
		task := newTask(1, monday, 2)
		task.IsHoldTask = true
		if IsMovable(&task) {
			t.Error("held task must not be movable")
		}
		if IsLocked(&task) {
			t.Error("hold is not a lock")
		}
	})

	t.Run("locked task is not movable", func(t *testing.T) {
		task := newTask(1, monday, 2)
		task.ManuallyPositioned = true
		if IsMovable(&task) {
			t.Error("locked task must not be movable")
		}
	})
}

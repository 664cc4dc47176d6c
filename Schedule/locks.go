package Schedule

import (
	"Mason/Models"
)

// Lock hierarchy. A locked task represents an externally committed fact
// (supplier confirmed a date, work started or finished, or a human pinned
// it) and must never be silently moved by the cascade engine.
// Priority: supplier_confirm > confirm > started > completed > manually_positioned.

var lockPriority = map[string]int{
	"supplier_confirm":    1,
	"confirm":             2,
	"started":             3,
	"completed":           4,
	"manually_positioned": 5,
}

// IsLocked reports whether any lock bit is set on the task.
func IsLocked(t *Models.ScheduleTask) bool {
	return t.SupplierConfirm ||
		t.Confirm ||
		t.Status == Models.StatusStarted ||
		t.Status == Models.StatusCompleted ||
		t.ManuallyPositioned
}

// IsMovable reports whether the cascade engine may assign the task new
// dates. Held tasks are paused, not locked: they stay put until released.
func IsMovable(t *Models.ScheduleTask) bool {
	return !IsLocked(t) && !t.IsHoldTask
}

// LockType returns the strongest active lock name, or "" when unlocked.
func LockType(t *Models.ScheduleTask) string {
	switch {
	case t.SupplierConfirm:
		return "supplier_confirm"
	case t.Confirm:
		return "confirm"
	case t.Status == Models.StatusStarted:
		return "started"
	case t.Status == Models.StatusCompleted:
		return "completed"
	case t.ManuallyPositioned:
		return "manually_positioned"
	}
	return ""
}

// LockPriority returns the priority of the strongest active lock
// (lower = stronger), or 0 when unlocked.
func LockPriority(t *Models.ScheduleTask) int {
	return lockPriority[LockType(t)]
}

// Unlockable reports whether the task's locks can be cleared by a user.
// Started and completed are facts and cannot be unlocked; the confirmation
// and manual-position bits can.
func Unlockable(t *Models.ScheduleTask) bool {
	if t.Status == Models.StatusStarted || t.Status == Models.StatusCompleted {
		return false
	}
	return t.SupplierConfirm || t.Confirm || t.ManuallyPositioned
}

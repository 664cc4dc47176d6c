package Schedule

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"Mason/Models"
)

// Monday. All test dates are relative to this week so weekend rolls are
// easy to reason about.
var monday = date(2025, 6, 2)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newTask(id uint, start time.Time, durationDays int) Models.ScheduleTask {
	return Models.ScheduleTask{
		Model:        gorm.Model{ID: id},
		ProjectID:    1,
		TaskNumber:   int(id),
		Name:         "task",
		Status:       Models.StatusNotStarted,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, durationDays),
		DurationDays: durationDays,
	}
}

func newEdge(id, pred, succ uint, depType string, lag int) Models.TaskDependency {
	return Models.TaskDependency{
		Model:             gorm.Model{ID: id},
		ProjectID:         1,
		PredecessorTaskID: pred,
		SuccessorTaskID:   succ,
		DependencyType:    depType,
		LagDays:           lag,
		Active:            true,
	}
}

func workWeekCalendar() Calendar {
	return NewCalendar(DefaultWorkingDays())
}

func assertDate(t *testing.T, got, want time.Time, label string) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s: got %s, want %s", label, got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}

package Schedule

import (
	"testing"

	"Mason/Models"
)

func TestCompareSnapshot(t *testing.T) {
	snapshot := map[string]BaselineEntry{
		"1": {StartDate: "2025-06-02", EndDate: "2025-06-04", DurationDays: 2, Name: "slab"},
		"2": {StartDate: "2025-06-05", EndDate: "2025-06-08", DurationDays: 3, Name: "frame"},
		"3": {StartDate: "2025-06-09", EndDate: "2025-06-12", DurationDays: 3, Name: "roof"},
		"4": {StartDate: "2025-06-13", EndDate: "2025-06-14", DurationDays: 1, Name: "demolished"},
	}

	onTrack := newTask(1, date(2025, 6, 2), 2)
	delayed := newTask(2, date(2025, 6, 8), 3) // ends 06-11, three days late
	ahead := newTask(3, date(2025, 6, 7), 3)   // ends 06-10, two days early
	current := []Models.ScheduleTask{onTrack, delayed, ahead}

	report := CompareSnapshot(snapshot, current)

	if len(report.Tasks) != 3 {
		t.Fatalf("compared %d tasks, want 3", len(report.Tasks))
	}

	byID := map[uint]TaskVariance{}
	for _, tv := range report.Tasks {
		byID[tv.TaskID] = tv
	}

	if byID[1].Status != "on_track" || byID[1].EndVarianceDays != 0 {
		t.Errorf("task 1 = %+v, want on_track with zero variance", byID[1])
	}
	if byID[2].Status != "delayed" || byID[2].EndVarianceDays != 3 {
		t.Errorf("task 2 = %+v, want delayed by 3", byID[2])
	}
	if byID[3].Status != "ahead" || byID[3].EndVarianceDays != -2 {
		t.Errorf("task 3 = %+v, want ahead by 2", byID[3])
	}

	if report.DelayedCount != 1 || report.AheadCount != 1 || report.OnTrackCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1",
			report.DelayedCount, report.AheadCount, report.OnTrackCount)
	}
	if report.WorstDelayDays != 3 {
		t.Errorf("worst delay = %d, want 3", report.WorstDelayDays)
	}
	if len(report.RemovedTasks) != 1 || report.RemovedTasks[0].TaskID != 4 {
		t.Errorf("removed tasks = %+v, want just task 4", report.RemovedTasks)
	}
	// One of three delayed crosses the 20% line.
	if report.ScheduleHealth != "at_risk" {
		t.Errorf("health = %q, want at_risk", report.ScheduleHealth)
	}
}

func TestScheduleHealth(t *testing.T) {
	tests := []struct {
		name     string
		delayed  int
		compared int
		worst    int
		want     string
	}{
		{"nothing compared", 0, 0, 0, "healthy"},
		{"no delays", 0, 10, 0, "healthy"},
		{"one late out of ten", 1, 10, 2, "healthy"},
		{"fifth of tasks late", 2, 10, 3, "at_risk"},
		{"single week-long delay", 1, 10, 7, "at_risk"},
		{"half the project late", 5, 10, 3, "critical"},
		{"fortnight delay", 1, 10, 14, "critical"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := scheduleHealth(tc.delayed, tc.compared, tc.worst); got != tc.want {
				t.Errorf("scheduleHealth(%d,%d,%d) = %q, want %q",
					tc.delayed, tc.compared, tc.worst, got, tc.want)
			}
		})
	}
}

func TestCreateAndCompareBaseline(t *testing.T) {
	db := openTestDB(t)
	seedProjectTasks(t, db,
		newTask(1, monday, 2),
		newTask(2, date(2025, 6, 5), 3),
	)

	first, err := CreateBaseline(db, 1, "contract program", nil)
	if err != nil {
		t.Fatalf("create baseline: %v", err)
	}
	if !first.Active || first.TaskCount != 2 {
		t.Fatalf("baseline = %+v, want active with 2 tasks", first)
	}

	// A second baseline takes over as the active one.
	second, err := CreateBaseline(db, 1, "revised program", nil)
	if err != nil {
		t.Fatalf("create second baseline: %v", err)
	}
	var reloaded Models.Baseline
	if err := db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatalf("reload first baseline: %v", err)
	}
	if reloaded.Active {
		t.Error("first baseline should have been deactivated")
	}
	if !second.Active {
		t.Error("second baseline should be active")
	}

	// Slip the second task a week and compare.
	err = db.Model(&Models.ScheduleTask{}).Where("task_number = ?", 2).
		Updates(map[string]interface{}{
			"start_date": date(2025, 6, 12),
			"end_date":   date(2025, 6, 15),
		}).Error
	if err != nil {
		t.Fatalf("slip task: %v", err)
	}

	report, err := CompareBaseline(db, second.ID)
	if err != nil {
		t.Fatalf("compare baseline: %v", err)
	}
	if report.DelayedCount != 1 {
		t.Errorf("delayed count = %d, want 1", report.DelayedCount)
	}
	if report.WorstDelayDays != 7 {
		t.Errorf("worst delay = %d, want 7", report.WorstDelayDays)
	}
	if report.BaselineName != "revised program" {
		t.Errorf("baseline name = %q", report.BaselineName)
	}

	if _, err := CompareBaseline(db, 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing baseline, got %v", err)
	}
}

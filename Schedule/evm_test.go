package Schedule

import (
	"testing"
	"time"

	"Mason/Models"
)

func costedTask(id uint, start time.Time, durationDays int, cost float64) Models.ScheduleTask {
	t := newTask(id, start, durationDays)
	t.EstimatedCost = cost
	return t
}

func TestComputeEvmFromData(t *testing.T) {
	asOf := monday

	t.Run("completed under budget", func(t *testing.T) {
		task := costedTask(1, date(2025, 5, 1), 9, 1000)
		task.Status = Models.StatusCompleted
		entries := []Models.TimeEntry{
			{TaskID: 1, EntryDate: date(2025, 5, 5), Hours: 8, HourlyRate: 100},
		}

		m := ComputeEvmFromData([]Models.ScheduleTask{task}, nil, entries, nil, asOf, DefaultThresholds())

		if m.PlannedValue != 1000 || m.EarnedValue != 1000 || m.ActualCost != 800 {
			t.Errorf("PV/EV/AC = %v/%v/%v, want 1000/1000/800", m.PlannedValue, m.EarnedValue, m.ActualCost)
		}
		if m.SPI == nil || *m.SPI != 1 {
			t.Errorf("SPI = %v, want 1", m.SPI)
		}
		if m.CPI == nil || *m.CPI != 1.25 {
			t.Errorf("CPI = %v, want 1.25", m.CPI)
		}
		if m.EstimateAtCompletion != 800 {
			t.Errorf("EAC = %v, want 800", m.EstimateAtCompletion)
		}
		if m.VarianceAtCompletion != 200 {
			t.Errorf("VAC = %v, want 200", m.VarianceAtCompletion)
		}
		if m.Health != "on_track" {
			t.Errorf("health = %q, want on_track", m.Health)
		}
		if m.PercentComplete != 100 || m.PercentSpent != 80 {
			t.Errorf("percent complete/spent = %v/%v, want 100/80", m.PercentComplete, m.PercentSpent)
		}
	})

	t.Run("nothing started yet has no indices", func(t *testing.T) {
		task := costedTask(1, date(2025, 7, 1), 5, 500)

		m := ComputeEvmFromData([]Models.ScheduleTask{task}, nil, nil, nil, asOf, DefaultThresholds())

		if m.PlannedValue != 0 || m.ActualCost != 0 {
			t.Errorf("PV/AC = %v/%v, want 0/0", m.PlannedValue, m.ActualCost)
		}
		if m.SPI != nil || m.CPI != nil {
			t.Errorf("SPI/CPI should be nil before work is planned or paid for")
		}
		if m.EstimateAtCompletion != m.BudgetAtCompletion {
			t.Errorf("EAC = %v, want BAC %v with no CPI", m.EstimateAtCompletion, m.BudgetAtCompletion)
		}
		if m.Health != "on_track" {
			t.Errorf("health = %q, want on_track", m.Health)
		}
	})

	t.Run("behind schedule mid-task goes critical", func(t *testing.T) {
		// 10-day window, half elapsed, only 30% done.
		task := costedTask(1, monday, 10, 100)
		task.ProgressPercent = 30
		entries := []Models.TimeEntry{
			{TaskID: 1, EntryDate: date(2025, 6, 5), Hours: 2, HourlyRate: 10},
			{TaskID: 1, EntryDate: date(2025, 6, 9), Hours: 4, HourlyRate: 10}, // after as-of
		}

		m := ComputeEvmFromData([]Models.ScheduleTask{task}, nil, entries, nil, date(2025, 6, 7), DefaultThresholds())

		if m.PlannedValue != 50 {
			t.Errorf("PV = %v, want 50 (half the window elapsed)", m.PlannedValue)
		}
		if m.EarnedValue != 30 {
			t.Errorf("EV = %v, want 30", m.EarnedValue)
		}
		if m.ActualCost != 20 {
			t.Errorf("AC = %v, want 20 (entry after as-of excluded)", m.ActualCost)
		}
		if m.SPI == nil || *m.SPI != 0.6 {
			t.Errorf("SPI = %v, want 0.6", m.SPI)
		}
		if m.Health != "critical" {
			t.Errorf("health = %q, want critical with SPI 0.6", m.Health)
		}
	})

	t.Run("task value falls back to planned allocations", func(t *testing.T) {
		task := newTask(1, date(2025, 5, 1), 2)
		task.Status = Models.StatusCompleted
		allocations := []Models.ResourceAllocation{
			{TaskID: 1, PlannedHours: 10, Resource: Models.Resource{HourlyRate: 50}},
			{TaskID: 2, PlannedHours: 99, Resource: Models.Resource{HourlyRate: 50}}, // other task
		}

		m := ComputeEvmFromData([]Models.ScheduleTask{task}, allocations, nil, nil, asOf, DefaultThresholds())
		if m.BudgetAtCompletion != 500 {
			t.Errorf("BAC = %v, want 500 from allocations", m.BudgetAtCompletion)
		}
	})

	t.Run("baseline snapshot overrides live planned window", func(t *testing.T) {
		// Live dates slipped into the future, but the baseline says the
		// task should already be done, so PV is the full value.
		task := costedTask(1, date(2025, 7, 1), 5, 400)
		snapshot := map[string]BaselineEntry{
			"1": {StartDate: "2025-05-01", EndDate: "2025-05-10", DurationDays: 5},
		}

		m := ComputeEvmFromData([]Models.ScheduleTask{task}, nil, nil, snapshot, asOf, DefaultThresholds())
		if m.PlannedValue != 400 {
			t.Errorf("PV = %v, want 400 from the baseline window", m.PlannedValue)
		}
	})
}

func TestEntryCost(t *testing.T) {
	t.Run("entry rate wins when set", func(t *testing.T) {
		e := Models.TimeEntry{Hours: 3, HourlyRate: 40, Resource: Models.Resource{HourlyRate: 90}}
		if got := entryCost(&e); got != 120 {
			t.Errorf("entryCost = %v, want 120", got)
		}
	})
	t.Run("zero rate uses the resource rate", func(t *testing.T) {
		e := Models.TimeEntry{Hours: 3, Resource: Models.Resource{HourlyRate: 90}}
		if got := entryCost(&e); got != 270 {
			t.Errorf("entryCost = %v, want 270", got)
		}
	})
}

func TestEvmHealth(t *testing.T) {
	v := func(f float64) *float64 { return &f }
	th := DefaultThresholds()

	tests := []struct {
		name string
		spi  *float64
		cpi  *float64
		want string
	}{
		{"both healthy", v(1.0), v(0.98), "on_track"},
		{"one slipping", v(0.9), v(1.1), "at_risk"},
		{"one critical", v(0.5), v(1.0), "critical"},
		{"only one measurable", nil, v(0.9), "at_risk"},
		{"none measurable", nil, nil, "on_track"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := evmHealth(tc.spi, tc.cpi, th); got != tc.want {
				t.Errorf("evmHealth = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSCurveFromData(t *testing.T) {
	tasks := []Models.ScheduleTask{
		costedTask(1, monday, 5, 500),
		costedTask(2, date(2025, 6, 9), 10, 1000),
	}
	done := date(2025, 6, 6)
	tasks[0].Status = Models.StatusCompleted
	tasks[0].CompletedAt = &done

	asOf := date(2025, 6, 16)
	points := SCurveFromData(tasks, nil, nil, nil, asOf)
	if len(points) == 0 {
		t.Fatal("expected sample points")
	}

	if points[0].Date != "2025-06-02" {
		t.Errorf("first sample = %s, want project start", points[0].Date)
	}
	last := points[len(points)-1]
	if last.Date != "2025-06-19" {
		t.Errorf("last sample = %s, want final planned date", last.Date)
	}

	// Planned value must be cumulative and non-decreasing.
	for i := 1; i < len(points); i++ {
		if points[i].PlannedValue < points[i-1].PlannedValue {
			t.Errorf("PV decreased between %s and %s", points[i-1].Date, points[i].Date)
		}
	}

	// Earned value appears from the completion date onward.
	for _, p := range points {
		sample, _ := time.Parse("2006-01-02", p.Date)
		if sample.Before(done) && p.EarnedValue != 0 {
			t.Errorf("EV before completion at %s = %v", p.Date, p.EarnedValue)
		}
		if !sample.Before(done) && p.EarnedValue != 500 {
			t.Errorf("EV after completion at %s = %v, want 500", p.Date, p.EarnedValue)
		}
	}
}

package Schedule

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/gorm"

	"Mason/Models"
)

// Thresholds are the SPI/CPI cut-offs for the overall health label. They
// are configuration, not invariants.
type Thresholds struct {
	OnTrack  float64 // both indices at or above this: on_track
	Critical float64 // either index below this: critical
}

func DefaultThresholds() Thresholds {
	return Thresholds{OnTrack: 0.95, Critical: 0.8}
}

// EvmMetrics is the earned-value report for one project as of a date.
// SPI and CPI are nil when PV or AC is zero ("not yet measurable").
type EvmMetrics struct {
	AsOfDate string `json:"as_of_date"`

	PlannedValue       float64 `json:"planned_value"`
	EarnedValue        float64 `json:"earned_value"`
	ActualCost         float64 `json:"actual_cost"`
	BudgetAtCompletion float64 `json:"budget_at_completion"`

	ScheduleVariance float64  `json:"schedule_variance"`
	CostVariance     float64  `json:"cost_variance"`
	SPI              *float64 `json:"spi"`
	CPI              *float64 `json:"cpi"`

	EstimateAtCompletion float64  `json:"estimate_at_completion"`
	EstimateToComplete   float64  `json:"estimate_to_complete"`
	VarianceAtCompletion float64  `json:"variance_at_completion"`
	TCPI                 *float64 `json:"tcpi"`

	PercentComplete float64 `json:"percent_complete"`
	PercentSpent    float64 `json:"percent_spent"`
	Health          string  `json:"health"` // on_track, at_risk, critical
}

// SCurvePoint is one sample of the cumulative curves for charting.
type SCurvePoint struct {
	Date         string  `json:"date"`
	PlannedValue float64 `json:"planned_value"`
	EarnedValue  float64 `json:"earned_value"`
	ActualCost   float64 `json:"actual_cost"`
}

// taskValue is the cost weight of a task: its estimated cost, or when that
// is unset, the cost of its planned resource allocations.
func taskValue(t *Models.ScheduleTask, allocations []Models.ResourceAllocation) float64 {
	if t.EstimatedCost > 0 {
		return t.EstimatedCost
	}
	value := 0.0
	for _, a := range allocations {
		if a.TaskID == t.ID {
			value += a.PlannedHours * a.Resource.HourlyRate
		}
	}
	return value
}

// plannedValueAt prorates a task's value by how much of its planned window
// has elapsed by the date, clamped to [0,1].
func plannedValueAt(value float64, start, end, asOf time.Time) float64 {
	if start.After(asOf) {
		return 0
	}
	if !end.After(asOf) {
		return value
	}
	total := daysBetween(start, end)
	if total <= 0 {
		return value
	}
	elapsed := daysBetween(start, asOf)
	fraction := float64(elapsed) / float64(total)
	if fraction > 1 {
		fraction = 1
	}
	if fraction < 0 {
		fraction = 0
	}
	return value * fraction
}

// earnedValue uses current percent complete; progress is not time-sliced,
// so EV as of a past date is an approximation by design.
func earnedValue(t *Models.ScheduleTask, value float64) float64 {
	if t.Status == Models.StatusCompleted {
		return value
	}
	progress := t.ProgressPercent
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return value * progress / 100
}

func entryCost(e *Models.TimeEntry) float64 {
	rate := e.HourlyRate
	if rate == 0 {
		rate = e.Resource.HourlyRate
	}
	return e.Hours * rate
}

// plannedWindow picks the task's planned dates: the active baseline capture
// when one exists, otherwise the live dates.
func plannedWindow(t *Models.ScheduleTask, snapshot map[string]BaselineEntry) (time.Time, time.Time) {
	if snapshot != nil {
		if entry, ok := snapshot[uintKey(t.ID)]; ok {
			start, err1 := time.Parse(dateLayout, entry.StartDate)
			end, err2 := time.Parse(dateLayout, entry.EndDate)
			if err1 == nil && err2 == nil {
				return start, end
			}
		}
	}
	return t.StartDate, t.EndDate
}

// ComputeEvmFromData is the pure calculation; ComputeEvm wires it to the
// database.
func ComputeEvmFromData(
	tasks []Models.ScheduleTask,
	allocations []Models.ResourceAllocation,
	entries []Models.TimeEntry,
	snapshot map[string]BaselineEntry,
	asOf time.Time,
	th Thresholds,
) *EvmMetrics {
	m := &EvmMetrics{AsOfDate: asOf.Format(dateLayout)}

	for i := range tasks {
		t := &tasks[i]
		value := taskValue(t, allocations)
		m.BudgetAtCompletion += value
		start, end := plannedWindow(t, snapshot)
		m.PlannedValue += plannedValueAt(value, start, end, asOf)
		m.EarnedValue += earnedValue(t, value)
	}
	for i := range entries {
		if !entries[i].EntryDate.After(asOf) {
			m.ActualCost += entryCost(&entries[i])
		}
	}

	m.ScheduleVariance = m.EarnedValue - m.PlannedValue
	m.CostVariance = m.EarnedValue - m.ActualCost

	if m.PlannedValue > 0 {
		spi := round3(m.EarnedValue / m.PlannedValue)
		m.SPI = &spi
	}
	if m.ActualCost > 0 {
		cpi := round3(m.EarnedValue / m.ActualCost)
		m.CPI = &cpi
	}

	// Forecasts assume remaining work performs at current cost efficiency.
	m.EstimateAtCompletion = m.BudgetAtCompletion
	if m.CPI != nil && *m.CPI > 0 {
		m.EstimateAtCompletion = m.ActualCost + (m.BudgetAtCompletion-m.EarnedValue)/(*m.CPI)
	}
	m.EstimateToComplete = m.EstimateAtCompletion - m.ActualCost
	m.VarianceAtCompletion = m.BudgetAtCompletion - m.EstimateAtCompletion

	if remainingBudget := m.BudgetAtCompletion - m.ActualCost; remainingBudget > 0 {
		tcpi := round3((m.BudgetAtCompletion - m.EarnedValue) / remainingBudget)
		m.TCPI = &tcpi
	}

	if m.BudgetAtCompletion > 0 {
		m.PercentComplete = round1(m.EarnedValue / m.BudgetAtCompletion * 100)
		m.PercentSpent = round1(m.ActualCost / m.BudgetAtCompletion * 100)
	}

	m.Health = evmHealth(m.SPI, m.CPI, th)
	return m
}

// evmHealth: both indices healthy means on_track, either one badly off
// means critical, anything else is at risk. Unmeasurable indices don't
// count against the project.
func evmHealth(spi, cpi *float64, th Thresholds) string {
	if spi == nil && cpi == nil {
		return "on_track"
	}
	critical := false
	onTrack := true
	for _, index := range []*float64{spi, cpi} {
		if index == nil {
			continue
		}
		if *index < th.Critical {
			critical = true
		}
		if *index < th.OnTrack {
			onTrack = false
		}
	}
	switch {
	case critical:
		return "critical"
	case onTrack:
		return "on_track"
	default:
		return "at_risk"
	}
}

func loadEvmData(db *gorm.DB, projectID uint) ([]Models.ScheduleTask, []Models.ResourceAllocation, []Models.TimeEntry, map[string]BaselineEntry, error) {
	var tasks []Models.ScheduleTask
	if err := db.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	var allocations []Models.ResourceAllocation
	var entries []Models.TimeEntry
	if len(ids) > 0 {
		if err := db.Preload("Resource").Where("task_id IN ?", ids).Find(&allocations).Error; err != nil {
			return nil, nil, nil, nil, err
		}
		if err := db.Preload("Resource").Where("task_id IN ?", ids).Find(&entries).Error; err != nil {
			return nil, nil, nil, nil, err
		}
	}

	snapshot := activeBaselineSnapshot(db, projectID)
	return tasks, allocations, entries, snapshot, nil
}

func activeBaselineSnapshot(db *gorm.DB, projectID uint) map[string]BaselineEntry {
	var baseline Models.Baseline
	err := db.Where("project_id = ? AND active = ?", projectID, true).
		Order("created_at DESC").First(&baseline).Error
	if err != nil {
		return nil
	}
	var snapshot map[string]BaselineEntry
	if jsonErr := json.Unmarshal(baseline.Snapshot, &snapshot); jsonErr != nil {
		return nil
	}
	return snapshot
}

// ComputeEvm reports earned-value metrics for a project as of a date.
func ComputeEvm(db *gorm.DB, projectID uint, asOf time.Time, th Thresholds) (*EvmMetrics, error) {
	tasks, allocations, entries, snapshot, err := loadEvmData(db, projectID)
	if err != nil {
		return nil, err
	}
	return ComputeEvmFromData(tasks, allocations, entries, snapshot, asOf, th), nil
}

// SCurve samples the cumulative PV/EV/AC curves weekly from the earliest
// planned start through the later of asOf and the last planned finish.
func SCurve(db *gorm.DB, projectID uint, asOf time.Time) ([]SCurvePoint, error) {
	tasks, allocations, entries, snapshot, err := loadEvmData(db, projectID)
	if err != nil {
		return nil, err
	}
	return SCurveFromData(tasks, allocations, entries, snapshot, asOf), nil
}

func SCurveFromData(
	tasks []Models.ScheduleTask,
	allocations []Models.ResourceAllocation,
	entries []Models.TimeEntry,
	snapshot map[string]BaselineEntry,
	asOf time.Time,
) []SCurvePoint {
	if len(tasks) == 0 {
		return nil
	}

	var first, last time.Time
	for i := range tasks {
		start, end := plannedWindow(&tasks[i], snapshot)
		if first.IsZero() || start.Before(first) {
			first = start
		}
		if end.After(last) {
			last = end
		}
	}
	if asOf.After(last) {
		last = asOf
	}

	var points []SCurvePoint
	for sample := first; !sample.After(last); sample = sample.AddDate(0, 0, 7) {
		points = append(points, sCurvePointAt(tasks, allocations, entries, snapshot, sample))
	}
	// Always close the series on the final date.
	if len(points) == 0 || points[len(points)-1].Date != last.Format(dateLayout) {
		points = append(points, sCurvePointAt(tasks, allocations, entries, snapshot, last))
	}
	return points
}

func sCurvePointAt(
	tasks []Models.ScheduleTask,
	allocations []Models.ResourceAllocation,
	entries []Models.TimeEntry,
	snapshot map[string]BaselineEntry,
	date time.Time,
) SCurvePoint {
	point := SCurvePoint{Date: date.Format(dateLayout)}
	for i := range tasks {
		t := &tasks[i]
		value := taskValue(t, allocations)
		start, end := plannedWindow(t, snapshot)
		point.PlannedValue += plannedValueAt(value, start, end, date)
		// Earned value is credited on the completion date; in-progress
		// credit only appears from the current percent complete once the
		// sample reaches today.
		if t.CompletedAt != nil && !t.CompletedAt.After(date) {
			point.EarnedValue += value
		}
	}
	for i := range entries {
		if !entries[i].EntryDate.After(date) {
			point.ActualCost += entryCost(&entries[i])
		}
	}
	point.PlannedValue = round2(point.PlannedValue)
	point.EarnedValue = round2(point.EarnedValue)
	point.ActualCost = round2(point.ActualCost)
	return point
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

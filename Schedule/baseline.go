package Schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	"Mason/Models"
)

const dateLayout = "2006-01-02"

// uintKey is the snapshot map key for a task id (JSON object keys are strings).
func uintKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// BaselineEntry is the captured state of one task inside a baseline snapshot.
type BaselineEntry struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int    `json:"duration_days"`
	Name         string `json:"name"`
}

// CreateBaseline snapshots every task's dates for the project. The snapshot
// is immutable from then on. The new baseline becomes the active one; any
// previously active baseline is deactivated in the same transaction.
func CreateBaseline(db *gorm.DB, projectID uint, name string, userID *uint) (*Models.Baseline, error) {
	var baseline *Models.Baseline
	err := db.Transaction(func(tx *gorm.DB) error {
		var tasks []Models.ScheduleTask
		if err := tx.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
			return err
		}

		snapshot := make(map[string]BaselineEntry, len(tasks))
		for _, t := range tasks {
			snapshot[uintKey(t.ID)] = BaselineEntry{
				StartDate:    t.StartDate.Format(dateLayout),
				EndDate:      t.EndDate.Format(dateLayout),
				DurationDays: t.DurationDays,
				Name:         t.Name,
			}
		}
		raw, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}

		err = tx.Model(&Models.Baseline{}).
			Where("project_id = ? AND active = ?", projectID, true).
			Update("active", false).Error
		if err != nil {
			return err
		}

		baseline = &Models.Baseline{
			ProjectID:    projectID,
			Name:         name,
			BaselineDate: time.Now(),
			Active:       true,
			TaskCount:    len(tasks),
			Snapshot:     raw,
			CreatedByID:  userID,
		}
		return tx.Create(baseline).Error
	})
	if err != nil {
		return nil, err
	}
	return baseline, nil
}

// TaskVariance compares one task against its baseline capture.
type TaskVariance struct {
	TaskID            uint   `json:"task_id"`
	Name              string `json:"name"`
	BaselineStartDate string `json:"baseline_start_date"`
	BaselineEndDate   string `json:"baseline_end_date"`
	CurrentStartDate  string `json:"current_start_date"`
	CurrentEndDate    string `json:"current_end_date"`
	StartVarianceDays int    `json:"start_variance_days"`
	EndVarianceDays   int    `json:"end_variance_days"`
	Status            string `json:"status"` // delayed, ahead, on_track
}

type RemovedTask struct {
	TaskID uint   `json:"task_id"`
	Name   string `json:"name"`
}

type VarianceReport struct {
	BaselineID     uint           `json:"baseline_id"`
	BaselineName   string         `json:"baseline_name"`
	BaselineDate   string         `json:"baseline_date"`
	Tasks          []TaskVariance `json:"tasks"`
	RemovedTasks   []RemovedTask  `json:"removed_tasks"`
	DelayedCount   int            `json:"delayed_count"`
	AheadCount     int            `json:"ahead_count"`
	OnTrackCount   int            `json:"on_track_count"`
	WorstDelayDays int            `json:"worst_delay_days"`
	ScheduleHealth string         `json:"schedule_health"` // healthy, at_risk, critical
}

// CompareSnapshot classifies every task present in both the snapshot and the
// current state, and lists tasks deleted since the baseline separately.
func CompareSnapshot(snapshot map[string]BaselineEntry, current []Models.ScheduleTask) *VarianceReport {
	byID := make(map[string]*Models.ScheduleTask, len(current))
	for i := range current {
		byID[uintKey(current[i].ID)] = &current[i]
	}

	report := &VarianceReport{}
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})

	for _, key := range keys {
		entry := snapshot[key]
		task, exists := byID[key]
		if !exists {
			id, _ := strconv.ParseUint(key, 10, 64)
			report.RemovedTasks = append(report.RemovedTasks, RemovedTask{TaskID: uint(id), Name: entry.Name})
			continue
		}

		baseStart, _ := time.Parse(dateLayout, entry.StartDate)
		baseEnd, _ := time.Parse(dateLayout, entry.EndDate)
		startVar := daysBetween(baseStart, task.StartDate)
		endVar := daysBetween(baseEnd, task.EndDate)

		status := "on_track"
		switch {
		case endVar > 0:
			status = "delayed"
			report.DelayedCount++
			if endVar > report.WorstDelayDays {
				report.WorstDelayDays = endVar
			}
		case endVar < 0:
			status = "ahead"
			report.AheadCount++
		default:
			report.OnTrackCount++
		}

		report.Tasks = append(report.Tasks, TaskVariance{
			TaskID:            task.ID,
			Name:              task.Name,
			BaselineStartDate: entry.StartDate,
			BaselineEndDate:   entry.EndDate,
			CurrentStartDate:  task.StartDate.Format(dateLayout),
			CurrentEndDate:    task.EndDate.Format(dateLayout),
			StartVarianceDays: startVar,
			EndVarianceDays:   endVar,
			Status:            status,
		})
	}

	report.ScheduleHealth = scheduleHealth(report.DelayedCount, len(report.Tasks), report.WorstDelayDays)
	return report
}

// scheduleHealth grades the overall schedule from the proportion of delayed
// tasks and the worst single delay. Half the project late, or any task more
// than two weeks late, is critical; a fifth late or a task a week late is
// at risk.
func scheduleHealth(delayed, compared, worstDelay int) string {
	if compared == 0 {
		return "healthy"
	}
	ratio := float64(delayed) / float64(compared)
	switch {
	case ratio >= 0.5 || worstDelay >= 14:
		return "critical"
	case ratio >= 0.2 || worstDelay >= 7:
		return "at_risk"
	default:
		return "healthy"
	}
}

// CompareBaseline loads a stored baseline and compares it to the current
// task state. The snapshot is read-only; later task edits never change what
// a baseline reports for its captured values.
func CompareBaseline(db *gorm.DB, baselineID uint) (*VarianceReport, error) {
	var baseline Models.Baseline
	if err := db.First(&baseline, baselineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var snapshot map[string]BaselineEntry
	if err := json.Unmarshal(baseline.Snapshot, &snapshot); err != nil {
		return nil, fmt.Errorf("baseline %d has a corrupt snapshot: %w", baselineID, err)
	}

	var current []Models.ScheduleTask
	if err := db.Where("project_id = ?", baseline.ProjectID).Find(&current).Error; err != nil {
		return nil, err
	}

	report := CompareSnapshot(snapshot, current)
	report.BaselineID = baseline.ID
	report.BaselineName = baseline.Name
	report.BaselineDate = baseline.BaselineDate.Format(dateLayout)
	return report, nil
}

func daysBetween(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

package Schedule

import (
	"time"

	"gorm.io/gorm"

	"Mason/Models"
)

// RolloverResult summarizes one nightly rollover pass for a project.
type RolloverResult struct {
	ProjectID    uint           `json:"project_id"`
	RolledTasks  []TaskChange   `json:"rolled_tasks"`
	CascadeAfter *CascadeResult `json:"cascade_after,omitempty"`
}

// Rollover pushes every past-due, not-started, movable task forward to the
// next working day on or after today, then recomputes the project so
// successors follow. Locked and held tasks stay where they are: past-due
// locked work is a fact for a human to resolve, not for automation.
func Rollover(db *gorm.DB, projectID uint, today time.Time, cal Calendar) (*RolloverResult, error) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	target := cal.NextWorkingDay(today)

	result := &RolloverResult{ProjectID: projectID}
	err := db.Transaction(func(tx *gorm.DB) error {
		var tasks []Models.ScheduleTask
		err := tx.Where("project_id = ? AND status = ? AND start_date < ?",
			projectID, Models.StatusNotStarted, today).Find(&tasks).Error
		if err != nil {
			return err
		}

		for i := range tasks {
			t := &tasks[i]
			if !IsMovable(t) {
				continue
			}
			change := TaskChange{
				TaskID:       t.ID,
				TaskNumber:   t.TaskNumber,
				Name:         t.Name,
				OldStartDate: t.StartDate,
				OldEndDate:   t.EndDate,
				NewStartDate: target,
				NewEndDate:   target.AddDate(0, 0, t.DurationDays),
			}
			err := tx.Model(&Models.ScheduleTask{}).
				Where("id = ?", t.ID).
				Updates(map[string]interface{}{
					"start_date": change.NewStartDate,
					"end_date":   change.NewEndDate,
				}).Error
			if err != nil {
				return err
			}
			result.RolledTasks = append(result.RolledTasks, change)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.RolledTasks) > 0 {
		cascade, err := Recompute(db, projectID, cal)
		if err != nil {
			return nil, err
		}
		result.CascadeAfter = cascade
	}
	return result, nil
}

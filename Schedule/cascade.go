package Schedule

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"Mason/Models"
)

// Concurrent cascades for the same project would read the graph while the
// other is half-written, so each project's recompute is serialized.
// Different projects run in parallel.
var projectLocks sync.Map // projectID -> *sync.Mutex

func lockProject(projectID uint) *sync.Mutex {
	mu, _ := projectLocks.LoadOrStore(projectID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m
}

// TaskChange records one date move produced by a cascade pass.
type TaskChange struct {
	TaskID       uint      `json:"task_id"`
	TaskNumber   int       `json:"task_number"`
	Name         string    `json:"name"`
	OldStartDate time.Time `json:"old_start_date"`
	NewStartDate time.Time `json:"new_start_date"`
	OldEndDate   time.Time `json:"old_end_date"`
	NewEndDate   time.Time `json:"new_end_date"`
}

// CascadeResult summarizes one recompute pass.
type CascadeResult struct {
	UpdatedTasks []TaskChange `json:"updated_tasks"`
	LockedHeld   []uint       `json:"locked_or_held_task_ids"`
}

// requiredStart computes the earliest start the edge allows for the
// successor, given the predecessor's current dates.
//
//	FS: predecessor end + lag + 1 (next day after it finishes, plus lag)
//	SS: predecessor start + lag
//	FF: successor must end by predecessor end + lag; back out via duration
//	SF: successor must end by predecessor start + lag; back out via duration
//
// Lag counts calendar days; negative lag is lead time and intentionally
// produces overlap.
func requiredStart(edge *Models.TaskDependency, pred, succ *Models.ScheduleTask) time.Time {
	switch edge.DependencyType {
	case Models.DepStartToStart:
		return pred.StartDate.AddDate(0, 0, edge.LagDays)
	case Models.DepFinishToFinish:
		requiredEnd := pred.EndDate.AddDate(0, 0, edge.LagDays)
		return requiredEnd.AddDate(0, 0, -succ.DurationDays)
	case Models.DepStartToFinish:
		requiredEnd := pred.StartDate.AddDate(0, 0, edge.LagDays)
		return requiredEnd.AddDate(0, 0, -succ.DurationDays)
	default: // finish-to-start
		return pred.EndDate.AddDate(0, 0, edge.LagDays+1)
	}
}

// cascadeDates walks the graph in topological order and moves every movable
// task to the latest start its predecessors require. Locked and held tasks
// keep their dates but still act as pin points their successors are
// evaluated against. The graph snapshot is mutated in place; persistence is
// the caller's job.
func cascadeDates(g *Graph, cal Calendar) (*CascadeResult, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	result := &CascadeResult{}
	for _, taskID := range order {
		task := g.Tasks[taskID]
		edges := g.PredecessorsOf(taskID)
		if len(edges) == 0 {
			continue
		}

		if !IsMovable(task) {
			result.LockedHeld = append(result.LockedHeld, taskID)
			continue
		}

		// A task cannot start before every predecessor constraint is
		// satisfied: the latest requirement wins.
		var candidate time.Time
		for _, edge := range edges {
			pred := g.Tasks[edge.PredecessorTaskID]
			req := requiredStart(edge, pred, task)
			if candidate.IsZero() || req.After(candidate) {
				candidate = req
			}
		}

		// Unlocked tasks must land on a working day.
		candidate = cal.NextWorkingDay(candidate)
		if candidate.Equal(task.StartDate) {
			continue
		}

		change := TaskChange{
			TaskID:       task.ID,
			TaskNumber:   task.TaskNumber,
			Name:         task.Name,
			OldStartDate: task.StartDate,
			OldEndDate:   task.EndDate,
			NewStartDate: candidate,
			NewEndDate:   candidate.AddDate(0, 0, task.DurationDays),
		}
		task.StartDate = change.NewStartDate
		task.EndDate = change.NewEndDate
		result.UpdatedTasks = append(result.UpdatedTasks, change)
	}
	return result, nil
}

// Recompute runs a full cascade pass over one project and persists the
// moved dates. The whole pass is one transaction: either every recomputed
// date commits or none does. Calling it twice with no intervening change is
// a no-op the second time.
func Recompute(db *gorm.DB, projectID uint, cal Calendar) (*CascadeResult, error) {
	mu := lockProject(projectID)
	defer mu.Unlock()

	var result *CascadeResult
	err := db.Transaction(func(tx *gorm.DB) error {
		graph, err := LoadGraph(tx, projectID)
		if err != nil {
			return err
		}
		result, err = cascadeDates(graph, cal)
		if err != nil {
			return err
		}
		for _, change := range result.UpdatedTasks {
			err := tx.Model(&Models.ScheduleTask{}).
				Where("id = ?", change.TaskID).
				Updates(map[string]interface{}{
					"start_date": change.NewStartDate,
					"end_date":   change.NewEndDate,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SuccessorPreview describes what would happen to one direct successor if
// the moved task took its proposed dates.
type SuccessorPreview struct {
	TaskID         uint      `json:"task_id"`
	TaskNumber     int       `json:"task_number"`
	Name           string    `json:"name"`
	DependencyType string    `json:"dependency_type"`
	LagDays        int       `json:"lag_days"`
	OldStartDate   time.Time `json:"old_start_date"`
	NewStartDate   time.Time `json:"new_start_date"`
	OldEndDate     time.Time `json:"old_end_date"`
	NewEndDate     time.Time `json:"new_end_date"`
	LockType       string    `json:"lock_type,omitempty"`
	Unlockable     bool      `json:"unlockable"`
}

// CascadePreview reports how moving a task to newStart would ripple to its
// direct successors, split into those that would move and those pinned by a
// lock. Nothing is persisted.
type PreviewResult struct {
	TaskID             uint               `json:"task_id"`
	OldStartDate       time.Time          `json:"old_start_date"`
	NewStartDate       time.Time          `json:"new_start_date"`
	OldEndDate         time.Time          `json:"old_end_date"`
	NewEndDate         time.Time          `json:"new_end_date"`
	UnlockedSuccessors []SuccessorPreview `json:"unlocked_successors"`
	BlockedSuccessors  []SuccessorPreview `json:"blocked_successors"`
}

func CascadePreview(g *Graph, taskID uint, newStart time.Time, cal Calendar) (*PreviewResult, error) {
	task, ok := g.Tasks[taskID]
	if !ok {
		return nil, ErrNotFound
	}

	moved := *task
	moved.StartDate = newStart
	moved.EndDate = newStart.AddDate(0, 0, task.DurationDays)

	result := &PreviewResult{
		TaskID:       taskID,
		OldStartDate: task.StartDate,
		NewStartDate: moved.StartDate,
		OldEndDate:   task.EndDate,
		NewEndDate:   moved.EndDate,
	}

	for _, edge := range g.SuccessorsOf(taskID) {
		succ := g.Tasks[edge.SuccessorTaskID]
		candidate := cal.NextWorkingDay(requiredStart(edge, &moved, succ))
		preview := SuccessorPreview{
			TaskID:         succ.ID,
			TaskNumber:     succ.TaskNumber,
			Name:           succ.Name,
			DependencyType: edge.DependencyType,
			LagDays:        edge.LagDays,
			OldStartDate:   succ.StartDate,
			NewStartDate:   candidate,
			OldEndDate:     succ.EndDate,
			NewEndDate:     candidate.AddDate(0, 0, succ.DurationDays),
		}
		if IsMovable(succ) {
			result.UnlockedSuccessors = append(result.UnlockedSuccessors, preview)
		} else {
			preview.LockType = LockType(succ)
			preview.Unlockable = Unlockable(succ)
			result.BlockedSuccessors = append(result.BlockedSuccessors, preview)
		}
	}
	return result, nil
}

package Schedule

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"Mason/Models"
)

func validDependencyType(depType string) bool {
	switch depType {
	case Models.DepFinishToStart, Models.DepStartToStart,
		Models.DepFinishToFinish, Models.DepStartToFinish:
		return true
	}
	return false
}

// AddDependency validates and persists a new active edge, then cascades the
// project so the successor picks up its new constraint.
//
// Rejections, in order: self reference, unknown tasks / cross-project pair,
// duplicate active edge, cycle. A cycle exists iff the successor can already
// reach the predecessor through active edges.
func AddDependency(db *gorm.DB, projectID, predID, succID uint, depType string, lagDays int, userID *uint, cal Calendar) (*Models.TaskDependency, error) {
	if predID == succID {
		return nil, dependencyErr(ErrSelfReference, predID, succID)
	}
	if depType == "" {
		depType = Models.DepFinishToStart
	}
	if !validDependencyType(depType) {
		return nil, &DependencyError{Kind: ErrNotFound, PredecessorTaskID: predID, SuccessorTaskID: succID, Msg: "unknown dependency type " + depType}
	}

	var dep *Models.TaskDependency
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&Models.ScheduleTask{}).
			Where("id IN ? AND project_id = ?", []uint{predID, succID}, projectID).
			Count(&count)
		if count != 2 {
			return dependencyErr(ErrNotFound, predID, succID)
		}

		var existing int64
		tx.Model(&Models.TaskDependency{}).
			Where("predecessor_task_id = ? AND successor_task_id = ? AND active = ?", predID, succID, true).
			Count(&existing)
		if existing > 0 {
			return dependencyErr(ErrDuplicateDependency, predID, succID)
		}

		graph, err := LoadGraph(tx, projectID)
		if err != nil {
			return err
		}
		if graph.CanReach(succID, predID) {
			return dependencyErr(ErrCyclicDependency, predID, succID)
		}

		dep = &Models.TaskDependency{
			ProjectID:         projectID,
			PredecessorTaskID: predID,
			SuccessorTaskID:   succID,
			DependencyType:    depType,
			LagDays:           lagDays,
			Active:            true,
			CreatedByID:       userID,
		}
		return tx.Create(dep).Error
	})
	if err != nil {
		return nil, err
	}

	if _, err := Recompute(db, projectID, cal); err != nil {
		return nil, err
	}
	return dep, nil
}

// RemoveDependency soft-deletes an edge: Active is cleared and the audit
// fields are stamped. Removing a constraint never pushes dates forward, so
// no cascade runs; it only frees the successor for future cascades.
func RemoveDependency(db *gorm.DB, depID uint, reason string, userID *uint) (*Models.TaskDependency, error) {
	var dep Models.TaskDependency
	if err := db.First(&dep, depID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !dep.Active {
		return &dep, nil
	}

	now := time.Now()
	dep.Active = false
	dep.DeactivatedAt = &now
	dep.DeletedReason = reason
	dep.DeletedByID = userID
	if err := db.Save(&dep).Error; err != nil {
		return nil, err
	}
	return &dep, nil
}

// RestoreDependency reactivates a soft-deleted edge after re-validating it
// against the *current* active set. Other edges may have changed since the
// deletion, so restoration is not guaranteed to succeed: it fails the same
// ways AddDependency does.
func RestoreDependency(db *gorm.DB, depID uint, cal Calendar) (*Models.TaskDependency, error) {
	var dep Models.TaskDependency
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dep, depID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if dep.Active {
			return nil
		}

		var existing int64
		tx.Model(&Models.TaskDependency{}).
			Where("predecessor_task_id = ? AND successor_task_id = ? AND active = ?",
				dep.PredecessorTaskID, dep.SuccessorTaskID, true).
			Count(&existing)
		if existing > 0 {
			return dependencyErr(ErrDuplicateDependency, dep.PredecessorTaskID, dep.SuccessorTaskID)
		}

		graph, err := LoadGraph(tx, dep.ProjectID)
		if err != nil {
			return err
		}
		if graph.CanReach(dep.SuccessorTaskID, dep.PredecessorTaskID) {
			return dependencyErr(ErrCyclicDependency, dep.PredecessorTaskID, dep.SuccessorTaskID)
		}

		dep.Active = true
		dep.DeactivatedAt = nil
		dep.DeletedReason = ""
		dep.DeletedByID = nil
		return tx.Save(&dep).Error
	})
	if err != nil {
		return nil, err
	}

	if _, err := Recompute(db, dep.ProjectID, cal); err != nil {
		return nil, err
	}
	return &dep, nil
}

// ActiveDependencyCount reports how many active edges reference the task in
// either direction. Tasks with active edges cannot be hard-deleted.
func ActiveDependencyCount(db *gorm.DB, taskID uint) (int64, error) {
	var count int64
	err := db.Model(&Models.TaskDependency{}).
		Where("(predecessor_task_id = ? OR successor_task_id = ?) AND active = ?", taskID, taskID, true).
		Count(&count).Error
	return count, err
}

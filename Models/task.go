package Models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task status values
const (
	StatusNotStarted = "not_started"
	StatusStarted    = "started"
	StatusCompleted  = "completed"
)

// Dependency types
const (
	DepFinishToStart  = "FS"
	DepStartToStart   = "SS"
	DepFinishToFinish = "FF"
	DepStartToFinish  = "SF"
)

// ScheduleTask is a schedulable unit of work on a project Gantt.
// EndDate is always StartDate + DurationDays in calendar days; the two are
// kept consistent by the schedule engine whenever either input changes.
type ScheduleTask struct {
	gorm.Model
	ProjectID     uint    `json:"project_id" gorm:"index;not null"`
	TaskNumber    int     `json:"task_number"`
	Name          string  `json:"name" gorm:"not null"`
	Trade         string  `json:"trade"`
	Status        string  `json:"status" gorm:"default:not_started"`
	SequenceOrder float64 `json:"sequence_order"`
	ParentTaskID  *uint   `json:"parent_task_id" gorm:"index"` // subtask tree, separate from dependencies

	StartDate    time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate      time.Time `json:"end_date" gorm:"type:date;not null"`
	DurationDays int       `json:"duration_days" gorm:"not null"`

	ProgressPercent float64 `json:"progress_percent"`
	EstimatedCost   float64 `json:"estimated_cost"`

	// Lock hierarchy flags. A task with any of these set (or status
	// started/completed) is never moved by the cascade engine.
	// Priority: supplier_confirm > confirm > started > completed > manually_positioned
	SupplierConfirm      bool       `json:"supplier_confirm"`
	SupplierConfirmedAt  *time.Time `json:"supplier_confirmed_at"`
	SupplierConfirmedBy  *uint      `json:"supplier_confirmed_by"`
	Confirm              bool       `json:"confirm"`
	ManuallyPositioned   bool       `json:"manually_positioned"`
	ManuallyPositionedAt *time.Time `json:"manually_positioned_at"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Hold state. A held task is paused: cascade will not assign it new
	// dates, but it is not a lock bit.
	IsHoldTask     bool       `json:"is_hold_task"`
	HoldReasonID   *uint      `json:"hold_reason_id"`
	HoldNotes      string     `json:"hold_notes"`
	HoldStartedAt  *time.Time `json:"hold_started_at"`
	HoldReleasedAt *time.Time `json:"hold_released_at"`

	SupplierID     *uint `json:"supplier_id"`
	AssignedUserID *uint `json:"assigned_user_id"`
	CreatedByID    *uint `json:"created_by_id"`
	UpdatedByID    *uint `json:"updated_by_id"`
}

func (ScheduleTask) TableName() string {
	return "schedule_tasks"
}

// TaskDependency is a directed typed edge between two tasks of the same
// project. Edges are never hard-deleted: removing one clears Active and
// stamps the audit fields so the edge can be restored later.
type TaskDependency struct {
	gorm.Model
	ProjectID         uint   `json:"project_id" gorm:"index;not null"`
	PredecessorTaskID uint   `json:"predecessor_task_id" gorm:"index;not null"`
	SuccessorTaskID   uint   `json:"successor_task_id" gorm:"index;not null"`
	DependencyType    string `json:"dependency_type" gorm:"default:FS"` // FS, SS, FF, SF
	LagDays           int    `json:"lag_days"`                          // negative = lead time

	Active        bool       `json:"active" gorm:"default:true;index"`
	DeactivatedAt *time.Time `json:"deactivated_at"`
	DeletedReason string     `json:"deleted_reason"`
	DeletedByID   *uint      `json:"deleted_by_id"`
	CreatedByID   *uint      `json:"created_by_id"`
}

func (TaskDependency) TableName() string {
	return "task_dependencies"
}

// Baseline is an immutable snapshot of a project's task dates at a moment in
// time. Snapshot maps task id to captured {start_date,end_date,duration_days}.
type Baseline struct {
	gorm.Model
	ProjectID    uint           `json:"project_id" gorm:"index;not null"`
	Name         string         `json:"name"`
	BaselineDate time.Time      `json:"baseline_date" gorm:"type:date"`
	Active       bool           `json:"active" gorm:"default:true"`
	TaskCount    int            `json:"task_count"`
	Snapshot     datatypes.JSON `json:"snapshot"`
	CreatedByID  *uint          `json:"created_by_id"`
}

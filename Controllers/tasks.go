package Controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mason/Models"
	"Mason/Schedule"
)

// TaskController handles schedule task CRUD and the lifecycle operations
// (start, complete, hold, release, confirm, unlock).
type TaskController struct {
	DB *gorm.DB
}

func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{DB: db}
}

type CreateTaskRequest struct {
	ProjectID     uint    `json:"project_id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Trade         string  `json:"trade"`
	StartDate     string  `json:"start_date" validate:"required"`
	DurationDays  int     `json:"duration_days" validate:"required,gt=0"`
	SequenceOrder float64 `json:"sequence_order"`
	ParentTaskID  *uint   `json:"parent_task_id"`
	EstimatedCost float64 `json:"estimated_cost"`
	SupplierID    *uint   `json:"supplier_id"`
}

type UpdateTaskRequest struct {
	Name          *string  `json:"name"`
	Trade         *string  `json:"trade"`
	StartDate     *string  `json:"start_date"`
	DurationDays  *int     `json:"duration_days"`
	SequenceOrder *float64 `json:"sequence_order"`
	EstimatedCost *float64 `json:"estimated_cost"`
	Progress      *float64 `json:"progress_percent"`
	SupplierID    *uint    `json:"supplier_id"`
	// Override moves a date-locked task anyway and marks it manually
	// positioned.
	Override bool `json:"override"`
}

// GetTasks lists all tasks of a project in sequence order
func (tc *TaskController) GetTasks(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var tasks []Models.ScheduleTask
	if err := tc.DB.Where("project_id = ?", projectID).
		Order("sequence_order, id").Find(&tasks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tasks"})
	}
	return ctx.JSON(tasks)
}

// GetTask retrieves a single task with its lock state
func (tc *TaskController) GetTask(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.ScheduleTask
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	return ctx.JSON(fiber.Map{
		"task":       task,
		"locked":     Schedule.IsLocked(&task),
		"lock_type":  Schedule.LockType(&task),
		"unlockable": Schedule.Unlockable(&task),
	})
}

// CreateTask creates a task and recomputes the project schedule
func (tc *TaskController) CreateTask(ctx *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msgs := ValidateStruct(req); msgs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": msgs})
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
	}

	var project Models.Project
	if err := tc.DB.First(&project, req.ProjectID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	var maxNumber int
	tc.DB.Model(&Models.ScheduleTask{}).Where("project_id = ?", req.ProjectID).
		Select("COALESCE(MAX(task_number), 0)").Scan(&maxNumber)

	task := Models.ScheduleTask{
		ProjectID:     req.ProjectID,
		TaskNumber:    maxNumber + 1,
		Name:          req.Name,
		Trade:         req.Trade,
		Status:        Models.StatusNotStarted,
		SequenceOrder: req.SequenceOrder,
		ParentTaskID:  req.ParentTaskID,
		StartDate:     start,
		EndDate:       start.AddDate(0, 0, req.DurationDays),
		DurationDays:  req.DurationDays,
		EstimatedCost: req.EstimatedCost,
		SupplierID:    req.SupplierID,
		CreatedByID:   currentUserID(ctx),
	}
	if err := tc.DB.Create(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}

	if _, err := Schedule.Recompute(tc.DB, task.ProjectID, companyCalendar()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Task created but schedule recompute failed"})
	}

	tc.DB.First(&task, task.ID)
	return ctx.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask edits a task. Date or duration changes on a locked task are
// rejected unless override is set; an override (or any manual date edit)
// marks the task manually positioned so later cascades leave it alone.
func (tc *TaskController) UpdateTask(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.ScheduleTask
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	var req UpdateTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	datesTouched := req.StartDate != nil || req.DurationDays != nil
	if datesTouched && Schedule.IsLocked(&task) && !req.Override {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     fmt.Sprintf("Task is locked (%s), pass override to move it", Schedule.LockType(&task)),
			"lock_type": Schedule.LockType(&task),
		})
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Trade != nil {
		task.Trade = *req.Trade
	}
	if req.SequenceOrder != nil {
		task.SequenceOrder = *req.SequenceOrder
	}
	if req.EstimatedCost != nil {
		task.EstimatedCost = *req.EstimatedCost
	}
	if req.SupplierID != nil {
		task.SupplierID = req.SupplierID
	}
	if req.Progress != nil {
		p := *req.Progress
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		task.ProgressPercent = p
	}

	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid start_date, expected YYYY-MM-DD"})
		}
		task.StartDate = start
	}
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "duration_days must be positive"})
		}
		task.DurationDays = *req.DurationDays
	}
	if datesTouched {
		task.EndDate = task.StartDate.AddDate(0, 0, task.DurationDays)
		now := time.Now()
		task.ManuallyPositioned = true
		task.ManuallyPositionedAt = &now
	}
	task.UpdatedByID = currentUserID(ctx)

	if err := tc.DB.Save(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
	}

	result, err := Schedule.Recompute(tc.DB, task.ProjectID, companyCalendar())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Task updated but schedule recompute failed"})
	}

	tc.DB.First(&task, task.ID)
	return ctx.JSON(fiber.Map{
		"task":    task,
		"cascade": result,
	})
}

// DeleteTask removes a task unless active dependencies still reference it
func (tc *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.ScheduleTask
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	count, err := Schedule.ActiveDependencyCount(tc.DB, id)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to check dependencies"})
	}
	if count > 0 {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":               "Task has active dependencies, remove them first",
			"active_dependencies": count,
		})
	}

	if err := tc.DB.Delete(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete task"})
	}
	return ctx.JSON(fiber.Map{"message": "Task deleted"})
}

// StartTask marks a task started, which locks its dates
func (tc *TaskController) StartTask(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.ScheduleTask
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	if task.Status != Models.StatusNotStarted {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task already " + task.Status})
	}

	now := time.Now()
	task.Status = Models.StatusStarted
	task.StartedAt = &now
	task.UpdatedByID = currentUserID(ctx)
	if err := tc.DB.Save(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start task"})
	}
	return ctx.JSON(task)
}

// CompleteTask marks a task completed with 100% progress
func (tc *TaskController) CompleteTask(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.ScheduleTask
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	if task.Status == Models.StatusCompleted {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task already completed"})
	}

	now := time.Now()
	task.Status = Models.StatusCompleted
	task.CompletedAt = &now
	task.ProgressPercent = 100
	if task.StartedAt == nil {
		task.StartedAt = &now
	}
	task.UpdatedByID = currentUserID(ctx)
	if err := tc.DB.Save(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete task"})
	}
	return ctx.JSON(task)
}

type ConfirmTaskRequest struct {
	// Level is "confirm" or "supplier_confirm"
	Level string `json:"level" validate:"required,oneof=confirm supplier_confirm"`
}

// ConfirmTask sets a confirmation lock on the task dates
func (tc *TaskController) ConfirmTask(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var req ConfirmTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msgs := ValidateStruct(req); msgs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": msgs})
	}

	var task Models.ScheduleTask
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}

	now := time.Now()
	if req.Level == "supplier_confirm" {
		task.SupplierConfirm = true
		task.SupplierConfirmedAt = &now
		task.SupplierConfirmedBy = currentUserID(ctx)
	} else {
		task.Confirm = true
	}
	task.UpdatedByID = currentUserID(ctx)
	if err := tc.DB.Save(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to confirm task"})
	}
	return ctx.JSON(fiber.Map{
		"task":      task,
		"lock_type": Schedule.LockType(&task),
	})
}

type HoldTaskRequest struct {
	HoldReasonID uint   `json:"hold_reason_id" validate:"required"`
	Notes        string `json:"notes"`
}

// HoldTask pauses a task. Held tasks keep their dates until released.
func (tc *TaskController) HoldTask(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var req HoldTaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msgs := ValidateStruct(req); msgs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": msgs})
	}

	var reason Models.HoldReason
	if err := tc.DB.First(&reason, req.HoldReasonID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Hold reason not found"})
	}

	var task Models.ScheduleTask
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	if task.IsHoldTask {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task is already on hold"})
	}
	if task.Status == Models.StatusCompleted {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Completed task cannot be put on hold"})
	}

	now := time.Now()
	task.IsHoldTask = true
	task.HoldReasonID = &req.HoldReasonID
	task.HoldNotes = req.Notes
	task.HoldStartedAt = &now
	task.HoldReleasedAt = nil
	task.UpdatedByID = currentUserID(ctx)
	if err := tc.DB.Save(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hold task"})
	}
	return ctx.JSON(task)
}

// ReleaseHold takes a task off hold and recomputes the schedule so it picks
// up any dates that shifted while it was paused
func (tc *TaskController) ReleaseHold(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.ScheduleTask
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	if !task.IsHoldTask {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task is not on hold"})
	}

	now := time.Now()
	task.IsHoldTask = false
	task.HoldReleasedAt = &now
	task.UpdatedByID = currentUserID(ctx)
	if err := tc.DB.Save(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to release hold"})
	}

	result, err := Schedule.Recompute(tc.DB, task.ProjectID, companyCalendar())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Hold released but schedule recompute failed"})
	}

	tc.DB.First(&task, task.ID)
	return ctx.JSON(fiber.Map{
		"task":    task,
		"cascade": result,
	})
}

// UnlockTask clears confirmation and manual-position locks. Started and
// completed tasks cannot be unlocked.
func (tc *TaskController) UnlockTask(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.ScheduleTask
	if err := tc.DB.First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	if !Schedule.IsLocked(&task) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task is not locked"})
	}
	if !Schedule.Unlockable(&task) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "Task has been " + task.Status + " and cannot be unlocked",
			"lock_type": Schedule.LockType(&task),
		})
	}

	task.SupplierConfirm = false
	task.SupplierConfirmedAt = nil
	task.SupplierConfirmedBy = nil
	task.Confirm = false
	task.ManuallyPositioned = false
	task.ManuallyPositionedAt = nil
	task.UpdatedByID = currentUserID(ctx)
	if err := tc.DB.Save(&task).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to unlock task"})
	}

	result, err := Schedule.Recompute(tc.DB, task.ProjectID, companyCalendar())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Task unlocked but schedule recompute failed"})
	}

	tc.DB.First(&task, task.ID)
	return ctx.JSON(fiber.Map{
		"task":    task,
		"cascade": result,
	})
}

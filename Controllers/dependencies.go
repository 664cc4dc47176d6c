package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mason/Models"
	"Mason/Schedule"
)

// DependencyController handles the dependency edges between tasks
type DependencyController struct {
	DB *gorm.DB
}

func NewDependencyController(db *gorm.DB) *DependencyController {
	return &DependencyController{DB: db}
}

type CreateDependencyRequest struct {
	PredecessorTaskID uint   `json:"predecessor_task_id" validate:"required"`
	SuccessorTaskID   uint   `json:"successor_task_id" validate:"required"`
	DependencyType    string `json:"dependency_type" validate:"omitempty,oneof=FS SS FF SF"`
	LagDays           int    `json:"lag_days"`
}

type RemoveDependencyRequest struct {
	Reason string `json:"reason"`
}

// GetDependencies lists a project's dependencies. Pass ?include_inactive=true
// to also return soft-deleted edges.
func (dc *DependencyController) GetDependencies(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	query := dc.DB.Where("project_id = ?", projectID)
	if ctx.Query("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var deps []Models.TaskDependency
	if err := query.Order("id").Find(&deps).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve dependencies"})
	}
	return ctx.JSON(deps)
}

// CreateDependency adds an edge after validating it against self-reference,
// duplicates and cycles, then recomputes the schedule
func (dc *DependencyController) CreateDependency(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var req CreateDependencyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msgs := ValidateStruct(req); msgs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": msgs})
	}

	depType := req.DependencyType
	if depType == "" {
		depType = Models.DepFinishToStart
	}

	dep, err := Schedule.AddDependency(dc.DB, projectID,
		req.PredecessorTaskID, req.SuccessorTaskID,
		depType, req.LagDays, currentUserID(ctx), companyCalendar())
	if err != nil {
		return ctx.Status(dependencyErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(dep)
}

// RemoveDependency soft-deletes an edge. Dates of downstream tasks are left
// where they are until the next recompute.
func (dc *DependencyController) RemoveDependency(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid dependency ID"})
	}

	var req RemoveDependencyRequest
	_ = ctx.BodyParser(&req)

	dep, err := Schedule.RemoveDependency(dc.DB, id, req.Reason, currentUserID(ctx))
	if err != nil {
		return ctx.Status(dependencyErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(dep)
}

// RestoreDependency reactivates a removed edge after re-running the
// duplicate and cycle checks against the current graph
func (dc *DependencyController) RestoreDependency(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid dependency ID"})
	}

	dep, err := Schedule.RestoreDependency(dc.DB, id, companyCalendar())
	if err != nil {
		return ctx.Status(dependencyErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(dep)
}

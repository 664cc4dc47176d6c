package Controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mason/Schedule"
)

// ScheduleController exposes the cascade engine and critical path analysis
type ScheduleController struct {
	DB *gorm.DB
}

func NewScheduleController(db *gorm.DB) *ScheduleController {
	return &ScheduleController{DB: db}
}

// Recompute runs a full cascade over the project and persists any date
// changes
func (sc *ScheduleController) Recompute(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	result, err := Schedule.Recompute(sc.DB, projectID, companyCalendar())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Schedule recompute failed: " + err.Error()})
	}
	return ctx.JSON(result)
}

// CriticalPath returns the CPM forward/backward pass analysis for a project
func (sc *ScheduleController) CriticalPath(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	g, err := Schedule.LoadGraph(sc.DB, projectID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load schedule"})
	}

	result, err := Schedule.AnalyzeCriticalPath(g)
	if err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}

// DelayImpact simulates delaying one task by N days and reports which
// downstream tasks shift and by how much. Nothing is persisted.
func (sc *ScheduleController) DelayImpact(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}
	taskID, err := paramID(ctx, "task_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	delayDays, err := strconv.Atoi(ctx.Query("days", "1"))
	if err != nil || delayDays <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "days must be a positive integer"})
	}

	g, err := Schedule.LoadGraph(sc.DB, projectID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load schedule"})
	}

	result, err := Schedule.DelayImpact(g, taskID, delayDays)
	if err != nil {
		return ctx.Status(dependencyErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}

// CascadePreview shows which successors would move if a task were dragged to
// a new start date, split into movable and blocked
func (sc *ScheduleController) CascadePreview(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}
	taskID, err := paramID(ctx, "task_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	newStart, err := parseDate(ctx.Query("new_start", time.Now().Format(dateLayout)))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid new_start, expected YYYY-MM-DD"})
	}

	g, err := Schedule.LoadGraph(sc.DB, projectID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load schedule"})
	}

	result, err := Schedule.CascadePreview(g, taskID, newStart, companyCalendar())
	if err != nil {
		return ctx.Status(dependencyErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}

// Rollover moves past-due unstarted tasks of one project to the next working
// day. Normally driven by the nightly cron but exposed for manual runs.
func (sc *ScheduleController) Rollover(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	result, err := Schedule.Rollover(sc.DB, projectID, time.Now(), companyCalendar())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Rollover failed: " + err.Error()})
	}
	return ctx.JSON(result)
}

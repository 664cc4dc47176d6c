package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mason/Models"
	"Mason/Schedule"
)

// BaselineController handles schedule baselines and variance reports
type BaselineController struct {
	DB *gorm.DB
}

func NewBaselineController(db *gorm.DB) *BaselineController {
	return &BaselineController{DB: db}
}

type CreateBaselineRequest struct {
	Name string `json:"name" validate:"required"`
}

// GetBaselines lists a project's baselines, newest first
func (bc *BaselineController) GetBaselines(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var baselines []Models.Baseline
	if err := bc.DB.Where("project_id = ?", projectID).
		Order("created_at DESC").Find(&baselines).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve baselines"})
	}
	return ctx.JSON(baselines)
}

// CreateBaseline snapshots current task dates. The new baseline becomes the
// active one; any previous active baseline is deactivated.
func (bc *BaselineController) CreateBaseline(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var req CreateBaselineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msgs := ValidateStruct(req); msgs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": msgs})
	}

	baseline, err := Schedule.CreateBaseline(bc.DB, projectID, req.Name, currentUserID(ctx))
	if err != nil {
		return ctx.Status(dependencyErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(baseline)
}

// CompareBaseline returns a variance report of current dates against the
// baseline snapshot
func (bc *BaselineController) CompareBaseline(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid baseline ID"})
	}

	report, err := Schedule.CompareBaseline(bc.DB, id)
	if err != nil {
		return ctx.Status(dependencyErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(report)
}

// DeleteBaseline removes a baseline. Deleting the active baseline leaves the
// project without one until the next snapshot.
func (bc *BaselineController) DeleteBaseline(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid baseline ID"})
	}

	if err := bc.DB.Delete(&Models.Baseline{}, id).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete baseline"})
	}
	return ctx.JSON(fiber.Map{"message": "Baseline deleted"})
}

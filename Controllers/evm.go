package Controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mason/Schedule"
)

// EvmController exposes the earned-value metrics and s-curve endpoints
type EvmController struct {
	DB *gorm.DB
}

func NewEvmController(db *gorm.DB) *EvmController {
	return &EvmController{DB: db}
}

func asOfDate(ctx *fiber.Ctx) (time.Time, error) {
	value := ctx.Query("as_of")
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return parseDate(value)
}

// GetMetrics returns the full earned-value report for a project as of a
// date (default today)
func (ec *EvmController) GetMetrics(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	asOf, err := asOfDate(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid as_of, expected YYYY-MM-DD"})
	}

	metrics, err := Schedule.ComputeEvm(ec.DB, projectID, asOf, Schedule.DefaultThresholds())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute earned value"})
	}
	return ctx.JSON(metrics)
}

// GetSCurve returns weekly cumulative PV/EV/AC samples for charting
func (ec *EvmController) GetSCurve(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	asOf, err := asOfDate(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid as_of, expected YYYY-MM-DD"})
	}

	points, err := Schedule.SCurve(ec.DB, projectID, asOf)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute s-curve"})
	}
	return ctx.JSON(fiber.Map{"points": points})
}

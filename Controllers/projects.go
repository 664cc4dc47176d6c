package Controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mason/Models"
)

// ProjectController handles project CRUD and company settings
type ProjectController struct {
	DB *gorm.DB
}

func NewProjectController(db *gorm.DB) *ProjectController {
	return &ProjectController{DB: db}
}

type CreateProjectRequest struct {
	Title   string `json:"title" validate:"required"`
	Address string `json:"address"`
	Status  string `json:"status" validate:"omitempty,oneof=active completed archived"`
}

// GetProjects retrieves all projects
func (pc *ProjectController) GetProjects(ctx *fiber.Ctx) error {
	var projects []Models.Project
	if err := pc.DB.Order("id").Find(&projects).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve projects"})
	}
	return ctx.JSON(projects)
}

// GetProject retrieves a single project with its tasks
func (pc *ProjectController) GetProject(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if err := pc.DB.Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order, id")
	}).First(&project, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}
	return ctx.JSON(project)
}

// CreateProject creates a new project
func (pc *ProjectController) CreateProject(ctx *fiber.Ctx) error {
	var req CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msgs := ValidateStruct(req); msgs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": msgs})
	}

	status := req.Status
	if status == "" {
		status = "active"
	}
	project := Models.Project{
		Title:   req.Title,
		Address: req.Address,
		Status:  status,
	}
	if err := pc.DB.Create(&project).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create project"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject updates title, address or status
func (pc *ProjectController) UpdateProject(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if err := pc.DB.First(&project, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	var req CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title != "" {
		project.Title = req.Title
	}
	if req.Address != "" {
		project.Address = req.Address
	}
	if req.Status != "" {
		project.Status = req.Status
	}
	if err := pc.DB.Save(&project).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update project"})
	}
	return ctx.JSON(project)
}

// DeleteProject soft-deletes a project
func (pc *ProjectController) DeleteProject(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}
	if err := pc.DB.Delete(&Models.Project{}, id).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete project"})
	}
	return ctx.JSON(fiber.Map{"message": "Project deleted"})
}

// GetCompanySettings returns the company configuration row
func (pc *ProjectController) GetCompanySettings(ctx *fiber.Ctx) error {
	setting, err := Models.GetCompanySetting()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}
	return ctx.JSON(setting)
}

type UpdateWorkingDaysRequest struct {
	WorkingDays map[string]bool `json:"working_days" validate:"required"`
}

// UpdateWorkingDays replaces the company working-day configuration. At least
// one day must remain enabled or every schedule cascade would loop forever.
func (pc *ProjectController) UpdateWorkingDays(ctx *fiber.Ctx) error {
	var req UpdateWorkingDaysRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	anyEnabled := false
	for _, enabled := range req.WorkingDays {
		if enabled {
			anyEnabled = true
			break
		}
	}
	if !anyEnabled {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "At least one working day is required"})
	}

	setting, err := Models.GetCompanySetting()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}

	raw, err := json.Marshal(req.WorkingDays)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to encode working days"})
	}
	setting.WorkingDays = raw
	if err := pc.DB.Save(&setting).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}
	return ctx.JSON(setting)
}

// GetHoldReasons lists active hold reasons
func (pc *ProjectController) GetHoldReasons(ctx *fiber.Ctx) error {
	var reasons []Models.HoldReason
	if err := pc.DB.Where("active = ?", true).Order("id").Find(&reasons).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve hold reasons"})
	}
	return ctx.JSON(reasons)
}

// CreateHoldReason adds a new hold reason
func (pc *ProjectController) CreateHoldReason(ctx *fiber.Ctx) error {
	var reason Models.HoldReason
	if err := ctx.BodyParser(&reason); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if reason.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}
	reason.Active = true
	if err := pc.DB.Create(&reason).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create hold reason"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(reason)
}

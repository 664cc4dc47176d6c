package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Mason/Models"
)

// ResourceController handles resources, planned allocations and logged time
type ResourceController struct {
	DB *gorm.DB
}

func NewResourceController(db *gorm.DB) *ResourceController {
	return &ResourceController{DB: db}
}

type CreateResourceRequest struct {
	Name         string  `json:"name" validate:"required"`
	ResourceType string  `json:"resource_type" validate:"omitempty,oneof=labour equipment subcontractor"`
	HourlyRate   float64 `json:"hourly_rate" validate:"gte=0"`
}

type AllocationRequest struct {
	TaskID         uint    `json:"task_id" validate:"required"`
	ResourceID     uint    `json:"resource_id" validate:"required"`
	AllocationDate string  `json:"allocation_date" validate:"required"`
	PlannedHours   float64 `json:"planned_hours" validate:"gt=0"`
}

type TimeEntryRequest struct {
	TaskID     uint    `json:"task_id" validate:"required"`
	ResourceID uint    `json:"resource_id" validate:"required"`
	EntryDate  string  `json:"entry_date" validate:"required"`
	Hours      float64 `json:"hours" validate:"gt=0"`
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
	Notes      string  `json:"notes"`
}

// GetResources lists active resources
func (rc *ResourceController) GetResources(ctx *fiber.Ctx) error {
	var resources []Models.Resource
	if err := rc.DB.Where("active = ?", true).Order("name").Find(&resources).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve resources"})
	}
	return ctx.JSON(resources)
}

// CreateResource adds a resource
func (rc *ResourceController) CreateResource(ctx *fiber.Ctx) error {
	var req CreateResourceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msgs := ValidateStruct(req); msgs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": msgs})
	}

	resource := Models.Resource{
		Name:         req.Name,
		ResourceType: req.ResourceType,
		HourlyRate:   req.HourlyRate,
		Active:       true,
	}
	if err := rc.DB.Create(&resource).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create resource"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(resource)
}

// UpdateResource edits name, type, rate or active flag
func (rc *ResourceController) UpdateResource(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid resource ID"})
	}

	var resource Models.Resource
	if err := rc.DB.First(&resource, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	}

	var body struct {
		Name         *string  `json:"name"`
		ResourceType *string  `json:"resource_type"`
		HourlyRate   *float64 `json:"hourly_rate"`
		Active       *bool    `json:"active"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if body.Name != nil {
		resource.Name = *body.Name
	}
	if body.ResourceType != nil {
		resource.ResourceType = *body.ResourceType
	}
	if body.HourlyRate != nil {
		resource.HourlyRate = *body.HourlyRate
	}
	if body.Active != nil {
		resource.Active = *body.Active
	}
	if err := rc.DB.Save(&resource).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update resource"})
	}
	return ctx.JSON(resource)
}

// GetTaskAllocations lists planned allocations for a task
func (rc *ResourceController) GetTaskAllocations(ctx *fiber.Ctx) error {
	taskID, err := paramID(ctx, "task_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var allocations []Models.ResourceAllocation
	if err := rc.DB.Preload("Resource").Where("task_id = ?", taskID).
		Order("allocation_date").Find(&allocations).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve allocations"})
	}
	return ctx.JSON(allocations)
}

// CreateAllocation plans hours for a resource on a task
func (rc *ResourceController) CreateAllocation(ctx *fiber.Ctx) error {
	var req AllocationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msgs := ValidateStruct(req); msgs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": msgs})
	}

	date, err := parseDate(req.AllocationDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid allocation_date, expected YYYY-MM-DD"})
	}

	var task Models.ScheduleTask
	if err := rc.DB.First(&task, req.TaskID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	var resource Models.Resource
	if err := rc.DB.First(&resource, req.ResourceID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	}

	allocation := Models.ResourceAllocation{
		TaskID:         req.TaskID,
		ResourceID:     req.ResourceID,
		AllocationDate: date,
		PlannedHours:   req.PlannedHours,
	}
	if err := rc.DB.Create(&allocation).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create allocation"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(allocation)
}

// DeleteAllocation removes a planned allocation
func (rc *ResourceController) DeleteAllocation(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid allocation ID"})
	}
	if err := rc.DB.Delete(&Models.ResourceAllocation{}, id).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete allocation"})
	}
	return ctx.JSON(fiber.Map{"message": "Allocation deleted"})
}

// GetTaskTimeEntries lists logged time for a task
func (rc *ResourceController) GetTaskTimeEntries(ctx *fiber.Ctx) error {
	taskID, err := paramID(ctx, "task_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var entries []Models.TimeEntry
	if err := rc.DB.Preload("Resource").Where("task_id = ?", taskID).
		Order("entry_date").Find(&entries).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve time entries"})
	}
	return ctx.JSON(entries)
}

// CreateTimeEntry logs actual hours against a task. A zero hourly_rate means
// the resource's current rate applies.
func (rc *ResourceController) CreateTimeEntry(ctx *fiber.Ctx) error {
	var req TimeEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if msgs := ValidateStruct(req); msgs != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed", "details": msgs})
	}

	date, err := parseDate(req.EntryDate)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid entry_date, expected YYYY-MM-DD"})
	}

	var task Models.ScheduleTask
	if err := rc.DB.First(&task, req.TaskID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	var resource Models.Resource
	if err := rc.DB.First(&resource, req.ResourceID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Resource not found"})
	}

	entry := Models.TimeEntry{
		TaskID:     req.TaskID,
		ResourceID: req.ResourceID,
		EntryDate:  date,
		Hours:      req.Hours,
		HourlyRate: req.HourlyRate,
		Notes:      req.Notes,
	}
	if err := rc.DB.Create(&entry).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create time entry"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(entry)
}

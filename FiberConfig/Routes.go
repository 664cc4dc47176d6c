package FiberConfig

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"Mason/Controllers"
	"Mason/Models"
	"Mason/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	projectController := Controllers.NewProjectController(db)
	taskController := Controllers.NewTaskController(db)
	dependencyController := Controllers.NewDependencyController(db)
	scheduleController := Controllers.NewScheduleController(db)
	baselineController := Controllers.NewBaselineController(db)
	evmController := Controllers.NewEvmController(db)
	exportController := Controllers.NewExportController(db)
	resourceController := Controllers.NewResourceController(db)

	// API group
	api := app.Group("/api")

	// Project routes
	projects := api.Group("/projects", middleware.Verify(1))
	projects.Get("/", projectController.GetProjects)
	projects.Post("/", middleware.Verify(3), projectController.CreateProject)
	projects.Get("/:id", projectController.GetProject)
	projects.Put("/:id", middleware.Verify(3), projectController.UpdateProject)
	projects.Delete("/:id", middleware.Verify(4), projectController.DeleteProject)

	// Task routes under projects
	projects.Get("/:project_id/tasks", taskController.GetTasks)

	// Direct task routes
	tasks := api.Group("/tasks", middleware.Verify(1))
	tasks.Post("/", middleware.Verify(2), taskController.CreateTask)
	tasks.Get("/:id", taskController.GetTask)
	tasks.Put("/:id", middleware.Verify(2), taskController.UpdateTask)
	tasks.Delete("/:id", middleware.Verify(3), taskController.DeleteTask)

	// Task lifecycle
	tasks.Post("/:id/start", middleware.Verify(2), taskController.StartTask)
	tasks.Post("/:id/complete", middleware.Verify(2), taskController.CompleteTask)
	tasks.Post("/:id/confirm", middleware.Verify(2), taskController.ConfirmTask)
	tasks.Post("/:id/hold", middleware.Verify(2), taskController.HoldTask)
	tasks.Post("/:id/release_hold", middleware.Verify(2), taskController.ReleaseHold)
	tasks.Post("/:id/unlock", middleware.Verify(3), taskController.UnlockTask)

	// Dependency routes
	projects.Get("/:project_id/dependencies", dependencyController.GetDependencies)
	projects.Post("/:project_id/dependencies", middleware.Verify(2), dependencyController.CreateDependency)
	dependencies := api.Group("/dependencies", middleware.Verify(2))
	dependencies.Delete("/:id", dependencyController.RemoveDependency)
	dependencies.Post("/:id/restore", dependencyController.RestoreDependency)

	// Schedule engine routes
	projects.Post("/:project_id/recompute", middleware.Verify(2), scheduleController.Recompute)
	projects.Get("/:project_id/critical_path", scheduleController.CriticalPath)
	projects.Get("/:project_id/tasks/:task_id/delay_impact", scheduleController.DelayImpact)
	projects.Get("/:project_id/tasks/:task_id/cascade_preview", scheduleController.CascadePreview)
	projects.Post("/:project_id/rollover", middleware.Verify(3), scheduleController.Rollover)

	// Baseline routes
	projects.Get("/:project_id/baselines", baselineController.GetBaselines)
	projects.Post("/:project_id/baselines", middleware.Verify(3), baselineController.CreateBaseline)
	baselines := api.Group("/baselines", middleware.Verify(1))
	baselines.Get("/:id/compare", baselineController.CompareBaseline)
	baselines.Delete("/:id", middleware.Verify(3), baselineController.DeleteBaseline)

	// Earned value routes
	projects.Get("/:project_id/evm", evmController.GetMetrics)
	projects.Get("/:project_id/evm/s_curve", evmController.GetSCurve)

	// Export routes
	projects.Get("/:project_id/export", exportController.ExportSchedule)
	baselines.Get("/:id/export", exportController.ExportVariance)

	// Resource routes
	resources := api.Group("/resources", middleware.Verify(1))
	resources.Get("/", resourceController.GetResources)
	resources.Post("/", middleware.Verify(2), resourceController.CreateResource)
	resources.Put("/:id", middleware.Verify(2), resourceController.UpdateResource)
	tasks.Get("/:task_id/allocations", resourceController.GetTaskAllocations)
	tasks.Get("/:task_id/time_entries", resourceController.GetTaskTimeEntries)
	api.Post("/allocations", middleware.Verify(2), resourceController.CreateAllocation)
	api.Delete("/allocations/:id", middleware.Verify(2), resourceController.DeleteAllocation)
	api.Post("/time_entries", middleware.Verify(1), resourceController.CreateTimeEntry)

	// Company settings
	api.Get("/settings", middleware.Verify(1), projectController.GetCompanySettings)
	api.Put("/settings/working_days", middleware.Verify(4), projectController.UpdateWorkingDays)
	api.Get("/hold_reasons", middleware.Verify(1), projectController.GetHoldReasons)
	api.Post("/hold_reasons", middleware.Verify(3), projectController.CreateHoldReason)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New(fiber.Config{})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*", // Allow all origins
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,  // Max age for preflight requests caching (5 minutes)
	}))

	SetupRoutes(app, Models.DB)

	app.Post("/api/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)
	app.Get("/api/FetchUsers", middleware.Verify(4), Controllers.FetchUsers)
	app.Post("/api/Login", Controllers.Login)
	app.Use("/api/User", middleware.Verify(1), Controllers.User)
	app.Use("/api/Logout", Controllers.Logout)

	// Logs API routes
	app.Get("/api/logs", middleware.Verify(4), Controllers.GetLogs)
	app.Get("/api/logs/stats", middleware.Verify(4), Controllers.GetLogStats)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}

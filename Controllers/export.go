package Controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Mason/Models"
	"Mason/Schedule"
)

// ExportController produces Excel workbooks of the schedule and the
// baseline variance report
type ExportController struct {
	DB *gorm.DB
}

func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
	})
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 16)
	}
	return nil
}

func sendWorkbook(ctx *fiber.Ctx, f *excelize.File, filename string) error {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate workbook"})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	ctx.Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	return ctx.Send(buf.Bytes())
}

// ExportSchedule writes the project's tasks with dates, locks and critical
// path flags to an xlsx workbook
func (xc *ExportController) ExportSchedule(ctx *fiber.Ctx) error {
	projectID, err := paramID(ctx, "project_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid project ID"})
	}

	var project Models.Project
	if err := xc.DB.First(&project, projectID).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Project not found"})
	}

	g, err := Schedule.LoadGraph(xc.DB, projectID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load schedule"})
	}

	critical := map[uint]bool{}
	slack := map[uint]int{}
	if analysis, err := Schedule.AnalyzeCriticalPath(g); err == nil {
		for _, ta := range analysis.Tasks {
			critical[ta.TaskID] = ta.IsCritical
			slack[ta.TaskID] = ta.Slack
		}
	}

	var tasks []Models.ScheduleTask
	if err := xc.DB.Where("project_id = ?", projectID).
		Order("sequence_order, id").Find(&tasks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tasks"})
	}

	f := excelize.NewFile()
	sheet := "Schedule"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"#", "Task", "Trade", "Status", "Start", "End", "Duration", "Progress %", "Lock", "Slack", "Critical"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to style workbook"})
	}

	for i, task := range tasks {
		row := i + 2
		lock := Schedule.LockType(&task)
		values := []interface{}{
			task.TaskNumber,
			task.Name,
			task.Trade,
			task.Status,
			task.StartDate.Format(dateLayout),
			task.EndDate.Format(dateLayout),
			task.DurationDays,
			task.ProgressPercent,
			lock,
			slack[task.ID],
			critical[task.ID],
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	filename := fmt.Sprintf("schedule_%d_%s.xlsx", projectID, time.Now().Format("20060102"))
	return sendWorkbook(ctx, f, filename)
}

// ExportVariance writes the variance report against a baseline to xlsx
func (xc *ExportController) ExportVariance(ctx *fiber.Ctx) error {
	baselineID, err := paramID(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid baseline ID"})
	}

	report, err := Schedule.CompareBaseline(xc.DB, baselineID)
	if err != nil {
		return ctx.Status(dependencyErrorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Variance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Task", "Baseline Start", "Baseline End", "Current Start", "Current End", "Start Var (days)", "End Var (days)", "Status"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to style workbook"})
	}

	for i, tv := range report.Tasks {
		row := i + 2
		values := []interface{}{
			tv.Name,
			tv.BaselineStartDate,
			tv.BaselineEndDate,
			tv.CurrentStartDate,
			tv.CurrentEndDate,
			tv.StartVarianceDays,
			tv.EndVarianceDays,
			tv.Status,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, value)
		}
	}

	summaryRow := len(report.Tasks) + 3
	summary := []interface{}{
		fmt.Sprintf("Delayed: %d", report.DelayedCount),
		fmt.Sprintf("Ahead: %d", report.AheadCount),
		fmt.Sprintf("On track: %d", report.OnTrackCount),
		fmt.Sprintf("Worst delay: %d days", report.WorstDelayDays),
		fmt.Sprintf("Health: %s", report.ScheduleHealth),
	}
	for j, value := range summary {
		cell, _ := excelize.CoordinatesToCellName(j+1, summaryRow)
		f.SetCellValue(sheet, cell, value)
	}

	filename := fmt.Sprintf("variance_%d_%s.xlsx", baselineID, time.Now().Format("20060102"))
	return sendWorkbook(ctx, f, filename)
}

package controllers

import (
	"strings"

	"fitclub_go/middleware"
	"fitclub_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ScheduleImportController loads a trainer's weekly schedule from an XLSX
// upload. Expected columns: day_of_week, start_time. The whole sheet
// replaces the trainer's current schedule in one shot.
type ScheduleImportController struct {
	Schedules *services.ScheduleService
	Activity  *middleware.ActivityRecorder
}

// POST /api/trainers/:id/schedule/import
// Multipart form with file field: file
func (ic *ScheduleImportController) Import(c *fiber.Ctx) error {
	trainerID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported file type (xlsx)"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot open file"})
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot read xlsx file"})
	}
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	rows, err := workbook.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "sheet is empty"})
	}

	dayCol, timeCol := -1, -1
	for i, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "day_of_week", "day":
			dayCol = i
		case "start_time", "time":
			timeCol = i
		}
	}
	if dayCol < 0 || timeCol < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing columns: day_of_week, start_time",
		})
	}

	var slots []services.SlotInput
	for _, row := range rows[1:] {
		if len(row) <= dayCol || len(row) <= timeCol {
			continue
		}
		day := strings.TrimSpace(row[dayCol])
		start := strings.TrimSpace(row[timeCol])
		if day == "" && start == "" {
			continue
		}
		slots = append(slots, services.SlotInput{DayOfWeek: day, StartTime: start})
	}

	adminID := middleware.CurrentUserID(c)
	count, err := ic.Schedules.ReplaceTrainerSchedule(trainerID, slots, &adminID)
	if err != nil {
		return respondError(c, err)
	}

	ic.Activity.Log(c, "IMPORT", "trainer_schedule", trainerID, fiber.Map{
		"file":  fileHeader.Filename,
		"slots": count,
	})
	return c.JSON(fiber.Map{
		"message": "Schedule imported",
		"slots":   count,
	})
}

package controllers

import (
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/middleware"
	"fitclub_go/services"
	"fitclub_go/timeslot"

	"github.com/gofiber/fiber/v2"
)

type ScheduleController struct {
	Schedules    *services.ScheduleService
	Availability *services.AvailabilityService
	Activity     *middleware.ActivityRecorder
}

// GetTrainerSchedule returns a trainer's weekly schedule.
func (sc *ScheduleController) GetTrainerSchedule(c *fiber.Ctx) error {
	trainerID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	slots, err := sc.Schedules.TrainerSchedule(trainerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"schedule": slots})
}

// ReplaceSchedule swaps a trainer's whole weekly schedule (admin only).
func (sc *ScheduleController) ReplaceSchedule(c *fiber.Ctx) error {
	trainerID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Slots []services.SlotInput `json:"slots"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	adminID := middleware.CurrentUserID(c)
	count, err := sc.Schedules.ReplaceTrainerSchedule(trainerID, req.Slots, &adminID)
	if err != nil {
		return respondError(c, err)
	}

	sc.Activity.Log(c, "UPDATE", "trainer_schedule", trainerID, fiber.Map{"slots": count})
	return c.JSON(fiber.Map{
		"message": "Schedule replaced",
		"slots":   count,
	})
}

// UpdateSlot moves one schedule slot (admin only).
func (sc *ScheduleController) UpdateSlot(c *fiber.Ctx) error {
	slotID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req services.SlotInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	slot, err := sc.Schedules.UpdateSlot(slotID, req)
	if err != nil {
		return respondError(c, err)
	}
	sc.Activity.Log(c, "UPDATE", "trainer_schedule", slotID, nil)
	return c.JSON(fiber.Map{"slot": slot})
}

// DeleteSlot removes one schedule slot (admin only).
func (sc *ScheduleController) DeleteSlot(c *fiber.Ctx) error {
	slotID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := sc.Schedules.DeleteSlot(slotID); err != nil {
		return respondError(c, err)
	}
	sc.Activity.Log(c, "DELETE", "trainer_schedule", slotID, nil)
	return c.JSON(fiber.Map{"message": "Slot deleted"})
}

// AvailableTrainers lists trainers free at ?date=YYYY-MM-DD&time=HH:MM.
func (sc *ScheduleController) AvailableTrainers(c *fiber.Ctx) error {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return respondError(c, apperrors.Validation("invalid_date", "date must be YYYY-MM-DD"))
	}
	tod, err := timeslot.ParseTimeOfDay(c.Query("time"))
	if err != nil {
		return respondError(c, apperrors.Validation("invalid_time", "time must be HH:MM"))
	}

	trainers, err := sc.Availability.AvailableForTime(date, tod)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"trainers": trainers})
}

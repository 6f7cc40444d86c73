package controllers

import (
	"fitclub_go/middleware"
	"fitclub_go/services"

	"github.com/gofiber/fiber/v2"
)

type GroupSessionController struct {
	Sessions *services.GroupSessionService
	Activity *middleware.ActivityRecorder
}

// GetSessions lists the class catalog.
func (gc *GroupSessionController) GetSessions(c *fiber.Ctx) error {
	sessions, err := gc.Sessions.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

// GetSession returns one class.
func (gc *GroupSessionController) GetSession(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	session, err := gc.Sessions.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"session": session})
}

// CreateSession adds a class (admin only).
func (gc *GroupSessionController) CreateSession(c *fiber.Ctx) error {
	var req services.GroupSessionInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	session, err := gc.Sessions.Create(req)
	if err != nil {
		return respondError(c, err)
	}
	gc.Activity.Log(c, "CREATE", "group_sessions", session.ID, fiber.Map{"name": session.Name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session": session})
}

// UpdateSession edits a class (admin only).
func (gc *GroupSessionController) UpdateSession(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req services.GroupSessionInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	session, err := gc.Sessions.Update(id, req)
	if err != nil {
		return respondError(c, err)
	}
	gc.Activity.Log(c, "UPDATE", "group_sessions", id, nil)
	return c.JSON(fiber.Map{"session": session})
}

// DeleteSession removes a class without live seats (admin only).
func (gc *GroupSessionController) DeleteSession(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := gc.Sessions.Delete(id); err != nil {
		return respondError(c, err)
	}
	gc.Activity.Log(c, "DELETE", "group_sessions", id, nil)
	return c.JSON(fiber.Map{"message": "Session deleted"})
}

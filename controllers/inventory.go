package controllers

import (
	"fitclub_go/apperrors"
	"fitclub_go/middleware"
	"fitclub_go/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InventoryController struct {
	DB       *gorm.DB
	Activity *middleware.ActivityRecorder
}

// GetItems lists bookable equipment.
func (ic *InventoryController) GetItems(c *fiber.Ctx) error {
	var items []models.InventoryItem
	if err := ic.DB.Order("name").Find(&items).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	return c.JSON(fiber.Map{"inventory": items})
}

// GetItem returns one equipment item.
func (ic *InventoryController) GetItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var item models.InventoryItem
	if err := ic.DB.First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return respondError(c, apperrors.NotFound(apperrors.CodeInventoryNotFound, "inventory item not found"))
		}
		return respondError(c, apperrors.Infrastructure(err))
	}
	return c.JSON(fiber.Map{"item": item})
}

// CreateItem adds an equipment item (admin only).
func (ic *InventoryController) CreateItem(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}
	item := models.InventoryItem{Name: req.Name}
	if err := ic.DB.Create(&item).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	ic.Activity.Log(c, "CREATE", "inventory", item.ID, fiber.Map{"name": item.Name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
}

// UpdateItem renames an equipment item (admin only).
func (ic *InventoryController) UpdateItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}

	var item models.InventoryItem
	if err := ic.DB.First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return respondError(c, apperrors.NotFound(apperrors.CodeInventoryNotFound, "inventory item not found"))
		}
		return respondError(c, apperrors.Infrastructure(err))
	}
	item.Name = req.Name
	if err := ic.DB.Save(&item).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	ic.Activity.Log(c, "UPDATE", "inventory", id, nil)
	return c.JSON(fiber.Map{"item": item})
}

// DeleteItem removes equipment not referenced by upcoming bookings (admin only).
func (ic *InventoryController) DeleteItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var inUse int64
	err = ic.DB.Model(&models.PersonalBooking{}).
		Where("inventory_id = ? AND status IN ?", id,
			[]string{models.BookingPending, models.BookingConfirmed}).
		Count(&inUse).Error
	if err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	if inUse > 0 {
		return respondError(c, apperrors.Conflict(apperrors.CodeHasUpcomingBookings,
			"item is reserved by upcoming bookings"))
	}

	res := ic.DB.Delete(&models.InventoryItem{}, id)
	if res.Error != nil {
		return respondError(c, apperrors.Infrastructure(res.Error))
	}
	if res.RowsAffected == 0 {
		return respondError(c, apperrors.NotFound(apperrors.CodeInventoryNotFound, "inventory item not found"))
	}
	ic.Activity.Log(c, "DELETE", "inventory", id, nil)
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

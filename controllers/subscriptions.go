package controllers

import (
	"fitclub_go/apperrors"
	"fitclub_go/middleware"
	"fitclub_go/models"
	"fitclub_go/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SubscriptionController struct {
	DB           *gorm.DB
	Entitlements *services.EntitlementService
	Activity     *middleware.ActivityRecorder
}

// GetTypes lists the purchasable subscription catalog.
func (sc *SubscriptionController) GetTypes(c *fiber.Ctx) error {
	var types []models.SubscriptionType
	if err := sc.DB.Order("category, price").Find(&types).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	return c.JSON(fiber.Map{"subscription_types": types})
}

// Purchase buys a subscription for the caller.
func (sc *SubscriptionController) Purchase(c *fiber.Ctx) error {
	var req struct {
		SubscriptionTypeID uint `json:"subscription_type_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.SubscriptionTypeID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "subscription_type_id is required",
		})
	}

	sub, err := sc.Entitlements.Purchase(middleware.CurrentUserID(c), req.SubscriptionTypeID)
	if err != nil {
		return respondError(c, err)
	}
	sc.Activity.Log(c, "CREATE", "user_subscriptions", sub.ID, fiber.Map{
		"subscription_type_id": req.SubscriptionTypeID,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscription": sub})
}

// MySubscriptions lists the caller's subscriptions, active first.
// ?active=true narrows to live entitlements only.
func (sc *SubscriptionController) MySubscriptions(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	var (
		subs []models.UserSubscription
		err  error
	)
	if c.QueryBool("active") {
		subs, err = sc.Entitlements.ActiveByUser(userID)
	} else {
		subs, err = sc.Entitlements.AllByUser(userID)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"subscriptions": subs})
}

// MainSubscription returns the caller's primary active subscription, combo
// preferred when several are live.
func (sc *SubscriptionController) MainSubscription(c *fiber.Ctx) error {
	sub, err := sc.Entitlements.MainByUser(middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"subscription": sub})
}

// Admin catalog management.

// CreateType adds a catalog entry (admin only).
func (sc *SubscriptionController) CreateType(c *fiber.Ctx) error {
	var req models.SubscriptionType
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	switch req.Category {
	case models.CategoryGroup, models.CategoryGym, models.CategoryCombo:
	default:
		return respondError(c, apperrors.Validation("invalid_category",
			"category must be group, gym or combo"))
	}
	if req.Name == "" || req.VisitsCount <= 0 || req.DurationDays <= 0 {
		return respondError(c, apperrors.Validation("invalid_type",
			"name, visits_count and duration_days are required"))
	}

	if err := sc.DB.Create(&req).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	sc.Activity.Log(c, "CREATE", "subscription_types", req.ID, fiber.Map{"name": req.Name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscription_type": req})
}

// UpdateType edits a catalog entry (admin only). Existing purchases keep
// the terms they were bought with.
func (sc *SubscriptionController) UpdateType(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var st models.SubscriptionType
	if err := sc.DB.First(&st, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return respondError(c, apperrors.NotFound(apperrors.CodeSubscriptionType,
				"subscription type not found"))
		}
		return respondError(c, apperrors.Infrastructure(err))
	}

	var req struct {
		Name         *string  `json:"name"`
		Description  *string  `json:"description"`
		Price        *float64 `json:"price"`
		VisitsCount  *int     `json:"visits_count"`
		DurationDays *int     `json:"duration_days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.Description != nil {
		st.Description = *req.Description
	}
	if req.Price != nil {
		st.Price = *req.Price
	}
	if req.VisitsCount != nil && *req.VisitsCount > 0 {
		st.VisitsCount = *req.VisitsCount
	}
	if req.DurationDays != nil && *req.DurationDays > 0 {
		st.DurationDays = *req.DurationDays
	}
	if err := sc.DB.Save(&st).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}

	sc.Activity.Log(c, "UPDATE", "subscription_types", id, nil)
	return c.JSON(fiber.Map{"subscription_type": st})
}

// DeleteType removes a catalog entry (admin only). Sold subscriptions keep
// working; only future purchases are blocked.
func (sc *SubscriptionController) DeleteType(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	res := sc.DB.Delete(&models.SubscriptionType{}, id)
	if res.Error != nil {
		return respondError(c, apperrors.Infrastructure(res.Error))
	}
	if res.RowsAffected == 0 {
		return respondError(c, apperrors.NotFound(apperrors.CodeSubscriptionType,
			"subscription type not found"))
	}
	sc.Activity.Log(c, "DELETE", "subscription_types", id, nil)
	return c.JSON(fiber.Map{"message": "Subscription type deleted"})
}

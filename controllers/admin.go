package controllers

import (
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/middleware"
	"fitclub_go/models"
	"fitclub_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB       *gorm.DB
	Activity *middleware.ActivityRecorder
}

// GetUsers lists accounts, optionally filtered by ?role=.
func (ac *AdminController) GetUsers(c *fiber.Ctx) error {
	q := ac.DB.Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		if !utils.IsValidRole(role) {
			return respondError(c, apperrors.Validation("invalid_role",
				"role must be client, trainer or admin"))
		}
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	return c.JSON(fiber.Map{"users": users})
}

// DeleteUser removes a client account without upcoming bookings.
func (ac *AdminController) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var user models.User
	if err := ac.DB.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return respondError(c, apperrors.NotFound("user_not_found", "user not found"))
		}
		return respondError(c, apperrors.Infrastructure(err))
	}
	if user.Role == models.RoleTrainer {
		return respondError(c, apperrors.Validation("is_trainer",
			"delete trainers through the trainer endpoint"))
	}

	today := time.Now().Format("2006-01-02")
	var upcoming int64
	err = ac.DB.Model(&models.PersonalBooking{}).
		Where("user_id = ? AND booking_date >= ? AND status IN ?",
			id, today, []string{models.BookingPending, models.BookingConfirmed}).
		Count(&upcoming).Error
	if err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	var groupSeats int64
	err = ac.DB.Model(&models.GroupBooking{}).
		Where("user_id = ? AND status <> ?", id, models.BookingCancelled).
		Count(&groupSeats).Error
	if err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	if upcoming > 0 || groupSeats > 0 {
		return respondError(c, apperrors.Conflict(apperrors.CodeHasUpcomingBookings,
			"user has upcoming bookings, cancel them first"))
	}

	if err := ac.DB.Delete(&user).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	ac.Activity.Log(c, "DELETE", "users", id, nil)
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// GetStats reports headline numbers plus a six month booking trend.
func (ac *AdminController) GetStats(c *fiber.Ctx) error {
	var totalUsers, totalTrainers, activeSubs int64
	now := time.Now()

	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleClient).Count(&totalUsers)
	ac.DB.Model(&models.Trainer{}).Count(&totalTrainers)
	ac.DB.Model(&models.UserSubscription{}).
		Where("status = ? AND expires_at > ?", models.SubscriptionActive, now).
		Count(&activeSubs)

	type monthBucket struct {
		Month    string `json:"month"`
		Personal int64  `json:"personal_bookings"`
		Group    int64  `json:"group_bookings"`
	}
	months := make([]monthBucket, 0, 6)
	for i := 5; i >= 0; i-- {
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)
		bucket := monthBucket{Month: from.Format("2006-01")}
		ac.DB.Model(&models.PersonalBooking{}).
			Where("created_at >= ? AND created_at < ? AND status <> ?", from, to, models.BookingCancelled).
			Count(&bucket.Personal)
		ac.DB.Model(&models.GroupBooking{}).
			Where("created_at >= ? AND created_at < ? AND status <> ?", from, to, models.BookingCancelled).
			Count(&bucket.Group)
		months = append(months, bucket)
	}

	return c.JSON(fiber.Map{
		"clients":              totalUsers,
		"trainers":             totalTrainers,
		"active_subscriptions": activeSubs,
		"bookings_by_month":    months,
	})
}

// GetActivityLogs pages through the audit trail, newest first.
func (ac *AdminController) GetActivityLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := c.QueryInt("offset", 0)

	var logs []models.ActivityLog
	err := ac.DB.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	if err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	return c.JSON(fiber.Map{"logs": logs})
}

// MyNotifications lists the caller's notifications, unread first.
func (ac *AdminController) MyNotifications(c *fiber.Ctx) error {
	var notes []models.Notification
	err := ac.DB.Where("user_id = ?", middleware.CurrentUserID(c)).
		Order("read, created_at DESC").
		Limit(100).
		Find(&notes).Error
	if err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	return c.JSON(fiber.Map{"notifications": notes})
}

// MarkNotificationRead flags one of the caller's notifications as read.
func (ac *AdminController) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	now := time.Now()
	res := ac.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, middleware.CurrentUserID(c)).
		Updates(map[string]interface{}{"read": true, "read_at": &now})
	if res.Error != nil {
		return respondError(c, apperrors.Infrastructure(res.Error))
	}
	if res.RowsAffected == 0 {
		return respondError(c, apperrors.NotFound("notification_not_found", "notification not found"))
	}
	return c.JSON(fiber.Map{"message": "Notification read"})
}

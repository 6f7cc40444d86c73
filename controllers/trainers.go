package controllers

import (
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/middleware"
	"fitclub_go/models"
	"fitclub_go/services"
	"fitclub_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TrainerController struct {
	DB       *gorm.DB
	Reviews  *services.ReviewService
	Activity *middleware.ActivityRecorder
}

// GetTrainers lists all trainers with their user profiles.
func (tc *TrainerController) GetTrainers(c *fiber.Ctx) error {
	var trainers []models.Trainer
	if err := tc.DB.Preload("User").Order("rating DESC").Find(&trainers).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	return c.JSON(fiber.Map{"trainers": trainers})
}

// GetTrainer returns one trainer with profile and reviews.
func (tc *TrainerController) GetTrainer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var trainer models.Trainer
	if err := tc.DB.Preload("User").First(&trainer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return respondError(c, apperrors.NotFound(apperrors.CodeTrainerNotFound, "trainer not found"))
		}
		return respondError(c, apperrors.Infrastructure(err))
	}

	reviews, err := tc.Reviews.ByTrainer(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"trainer": trainer, "reviews": reviews})
}

// CreateTrainerRequest carries the admin create payload; the user account
// is created alongside the trainer profile.
type CreateTrainerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	Experience     string `json:"experience"`
	Specialization string `json:"specialization"`
	Bio            string `json:"bio"`
}

// CreateTrainer creates a trainer account plus profile (admin only).
func (tc *TrainerController) CreateTrainer(c *fiber.Ctx) error {
	var req CreateTrainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and email are required",
		})
	}

	// Omitted password gets a generated temporary one, returned once in
	// the response so the admin can hand it over.
	tempPassword := ""
	if req.Password == "" {
		generated, err := utils.GenerateRandomString(12)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to generate password",
			})
		}
		tempPassword = generated
		req.Password = generated
	} else if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 6 characters",
		})
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process password",
		})
	}

	var trainer models.Trainer
	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: hashed,
			Phone:    req.Phone,
			Role:     models.RoleTrainer,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		trainer = models.Trainer{
			UserID:         user.ID,
			Experience:     req.Experience,
			Specialization: req.Specialization,
			Bio:            req.Bio,
		}
		if err := tx.Create(&trainer).Error; err != nil {
			return err
		}
		trainer.User = user
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to create trainer, email may already exist",
		})
	}

	tc.Activity.Log(c, "CREATE", "trainers", trainer.ID, fiber.Map{"email": req.Email})
	body := fiber.Map{"trainer": trainer}
	if tempPassword != "" {
		body["temporary_password"] = tempPassword
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// UpdateTrainer edits a trainer profile (admin only).
func (tc *TrainerController) UpdateTrainer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var trainer models.Trainer
	if err := tc.DB.First(&trainer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return respondError(c, apperrors.NotFound(apperrors.CodeTrainerNotFound, "trainer not found"))
		}
		return respondError(c, apperrors.Infrastructure(err))
	}

	var req struct {
		Experience     *string `json:"experience"`
		Specialization *string `json:"specialization"`
		Bio            *string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Experience != nil {
		trainer.Experience = *req.Experience
	}
	if req.Specialization != nil {
		trainer.Specialization = *req.Specialization
	}
	if req.Bio != nil {
		trainer.Bio = *req.Bio
	}
	if err := tc.DB.Save(&trainer).Error; err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}

	tc.Activity.Log(c, "UPDATE", "trainers", trainer.ID, nil)
	return c.JSON(fiber.Map{"trainer": trainer})
}

// DeleteTrainer removes a trainer unless they still have upcoming personal
// bookings or assigned group sessions (admin only).
func (tc *TrainerController) DeleteTrainer(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var trainer models.Trainer
	if err := tc.DB.First(&trainer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return respondError(c, apperrors.NotFound(apperrors.CodeTrainerNotFound, "trainer not found"))
		}
		return respondError(c, apperrors.Infrastructure(err))
	}

	today := time.Now().Format("2006-01-02")
	var upcoming int64
	err = tc.DB.Model(&models.PersonalBooking{}).
		Where("trainer_id = ? AND booking_date >= ? AND status IN ?",
			id, today, []string{models.BookingPending, models.BookingConfirmed}).
		Count(&upcoming).Error
	if err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	if upcoming > 0 {
		return respondError(c, apperrors.Conflict(apperrors.CodeHasUpcomingBookings,
			"trainer has upcoming bookings, cancel or reassign them first"))
	}

	var sessions int64
	err = tc.DB.Model(&models.GroupSession{}).Where("trainer_id = ?", id).Count(&sessions).Error
	if err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}
	if sessions > 0 {
		return respondError(c, apperrors.Conflict(apperrors.CodeHasUpcomingBookings,
			"trainer still leads group sessions, reassign them first"))
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("trainer_id = ?", id).
			Delete(&models.TrainerScheduleSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&trainer).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, trainer.UserID).Error
	})
	if err != nil {
		return respondError(c, apperrors.Infrastructure(err))
	}

	tc.Activity.Log(c, "DELETE", "trainers", id, nil)
	return c.JSON(fiber.Map{"message": "Trainer deleted"})
}

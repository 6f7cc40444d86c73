package controllers

import (
	"fitclub_go/middleware"
	"fitclub_go/services"

	"github.com/gofiber/fiber/v2"
)

type ReviewController struct {
	Reviews  *services.ReviewService
	Activity *middleware.ActivityRecorder
}

// GetTrainerReviews lists a trainer's reviews.
func (rc *ReviewController) GetTrainerReviews(c *fiber.Ctx) error {
	trainerID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	reviews, err := rc.Reviews.ByTrainer(trainerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

// CreateReview adds the caller's review of a trainer.
func (rc *ReviewController) CreateReview(c *fiber.Ctx) error {
	var req struct {
		TrainerID uint   `json:"trainer_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil || req.TrainerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "trainer_id is required",
		})
	}

	review, err := rc.Reviews.Create(middleware.CurrentUserID(c), req.TrainerID, req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	rc.Activity.Log(c, "CREATE", "reviews", review.ID, fiber.Map{"trainer_id": req.TrainerID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"review": review})
}

// UpdateReview edits the caller's own review.
func (rc *ReviewController) UpdateReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	review, err := rc.Reviews.Update(id, middleware.CurrentUserID(c), req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	rc.Activity.Log(c, "UPDATE", "reviews", id, nil)
	return c.JSON(fiber.Map{"review": review})
}

// DeleteReview removes the caller's own review.
func (rc *ReviewController) DeleteReview(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := rc.Reviews.Delete(id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	rc.Activity.Log(c, "DELETE", "reviews", id, nil)
	return c.JSON(fiber.Map{"message": "Review deleted"})
}

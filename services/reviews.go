package services

import (
	"fitclub_go/apperrors"
	"fitclub_go/models"

	"gorm.io/gorm"
)

// ReviewService handles trainer reviews. A client may review a trainer
// only after booking with them, once per trainer; every mutation
// recomputes the trainer's denormalized average rating in the same
// transaction.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// hasBookedWith reports whether the user ever booked the trainer, either a
// personal session or a seat in one of the trainer's group sessions.
// Cancelled bookings do not count.
func (s *ReviewService) hasBookedWith(tx *gorm.DB, userID, trainerID uint) (bool, error) {
	var personal int64
	err := tx.Model(&models.PersonalBooking{}).
		Where("user_id = ? AND trainer_id = ? AND status <> ?", userID, trainerID, models.BookingCancelled).
		Count(&personal).Error
	if err != nil {
		return false, apperrors.Infrastructure(err)
	}
	if personal > 0 {
		return true, nil
	}

	var group int64
	err = tx.Model(&models.GroupBooking{}).
		Joins("JOIN group_sessions ON group_sessions.id = bookings.session_id").
		Where("bookings.user_id = ? AND group_sessions.trainer_id = ? AND bookings.status <> ?",
			userID, trainerID, models.BookingCancelled).
		Count(&group).Error
	if err != nil {
		return false, apperrors.Infrastructure(err)
	}
	return group > 0, nil
}

func recomputeRating(tx *gorm.DB, trainerID uint) error {
	var avg float64
	err := tx.Model(&models.Review{}).
		Where("trainer_id = ?", trainerID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return apperrors.Infrastructure(err)
	}
	err = tx.Model(&models.Trainer{}).Where("id = ?", trainerID).
		Update("rating", avg).Error
	if err != nil {
		return apperrors.Infrastructure(err)
	}
	return nil
}

// Create adds a review and updates the trainer's rating.
func (s *ReviewService) Create(userID, trainerID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("invalid_rating", "rating must be between 1 and 5")
	}

	var review *models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var trainer models.Trainer
		if err := tx.First(&trainer, trainerID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound(apperrors.CodeTrainerNotFound, "trainer not found")
			}
			return apperrors.Infrastructure(err)
		}

		earned, err := s.hasBookedWith(tx, userID, trainerID)
		if err != nil {
			return err
		}
		if !earned {
			return apperrors.Conflict(apperrors.CodeReviewNotEarned,
				"you can review a trainer only after booking with them")
		}

		var dup int64
		err = tx.Model(&models.Review{}).
			Where("user_id = ? AND trainer_id = ?", userID, trainerID).
			Count(&dup).Error
		if err != nil {
			return apperrors.Infrastructure(err)
		}
		if dup > 0 {
			return apperrors.Conflict(apperrors.CodeDuplicateReview,
				"you already reviewed this trainer")
		}

		review = &models.Review{UserID: userID, TrainerID: trainerID, Rating: rating, Comment: comment}
		if err := tx.Create(review).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		return recomputeRating(tx, trainerID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Update changes the author's own review and recomputes the rating.
func (s *ReviewService) Update(reviewID, userID uint, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("invalid_rating", "rating must be between 1 and 5")
	}

	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound(apperrors.CodeReviewNotFound, "review not found")
			}
			return apperrors.Infrastructure(err)
		}
		review.Rating = rating
		review.Comment = comment
		if err := tx.Save(&review).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		return recomputeRating(tx, review.TrainerID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete removes the author's own review and recomputes the rating.
func (s *ReviewService) Delete(reviewID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		err := tx.Where("id = ? AND user_id = ?", reviewID, userID).First(&review).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound(apperrors.CodeReviewNotFound, "review not found")
			}
			return apperrors.Infrastructure(err)
		}
		if err := tx.Unscoped().Delete(&review).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		return recomputeRating(tx, review.TrainerID)
	})
}

// ByTrainer lists a trainer's reviews, newest first.
func (s *ReviewService) ByTrainer(trainerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("trainer_id = ?", trainerID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return reviews, nil
}

package services

import (
	"math"
	"testing"
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/models"
	"fitclub_go/timeslot"
)

func bookWithTrainer(t *testing.T, svc *BookingService, userID, trainerID uint) {
	t.Helper()
	in := PersonalBookingInput{
		UserID:        userID,
		TrainerID:     &trainerID,
		Date:          mustDate(t, time.Monday),
		Time:          timeslot.TimeOfDay{Hour: 9},
		PaymentMethod: models.PaymentCash,
	}
	if _, err := svc.BookPersonal(in); err != nil {
		t.Fatalf("book with trainer: %v", err)
	}
}

func TestReviewRequiresBooking(t *testing.T) {
	db := openTestDB(t)
	svc := NewReviewService(db)
	trainer := createTrainer(t, db, "bob")
	user := createUser(t, db, "alice", models.RoleClient)

	_, err := svc.Create(user.ID, trainer.ID, 5, "great")
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeReviewNotEarned {
		t.Fatalf("want review_not_earned, got %v", err)
	}
}

func TestReviewLifecycleRecomputesRating(t *testing.T) {
	db := openTestDB(t)
	ent := NewEntitlementService(db)
	bookings := NewBookingService(db, ent, NewAvailabilityService(db))
	svc := NewReviewService(db)

	trainer := createTrainer(t, db, "bob")
	createSlot(t, db, trainer.ID, "monday", "09:00:00", "10:00:00")
	createSlot(t, db, trainer.ID, "monday", "10:00:00", "11:00:00")

	alice := createUser(t, db, "alice", models.RoleClient)
	carol := createUser(t, db, "carol", models.RoleClient)
	bookWithTrainer(t, bookings, alice.ID, trainer.ID)
	in := PersonalBookingInput{
		UserID:        carol.ID,
		TrainerID:     &trainer.ID,
		Date:          mustDate(t, time.Monday),
		Time:          timeslot.TimeOfDay{Hour: 10},
		PaymentMethod: models.PaymentCash,
	}
	if _, err := bookings.BookPersonal(in); err != nil {
		t.Fatalf("book carol: %v", err)
	}

	if _, err := svc.Create(alice.ID, trainer.ID, 5, "great"); err != nil {
		t.Fatalf("alice review: %v", err)
	}
	review, err := svc.Create(carol.ID, trainer.ID, 2, "meh")
	if err != nil {
		t.Fatalf("carol review: %v", err)
	}

	rating := func() float64 {
		var tr models.Trainer
		if err := db.First(&tr, trainer.ID).Error; err != nil {
			t.Fatalf("reload trainer: %v", err)
		}
		return tr.Rating
	}
	if got := rating(); math.Abs(got-3.5) > 0.001 {
		t.Fatalf("rating: want 3.5, got %v", got)
	}

	// One review per (user, trainer).
	_, err = svc.Create(alice.ID, trainer.ID, 4, "again")
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeDuplicateReview {
		t.Fatalf("want duplicate_review, got %v", err)
	}

	if _, err := svc.Update(review.ID, carol.ID, 4, "better"); err != nil {
		t.Fatalf("update review: %v", err)
	}
	if got := rating(); math.Abs(got-4.5) > 0.001 {
		t.Fatalf("rating after update: want 4.5, got %v", got)
	}

	if err := svc.Delete(review.ID, carol.ID); err != nil {
		t.Fatalf("delete review: %v", err)
	}
	if got := rating(); math.Abs(got-5) > 0.001 {
		t.Fatalf("rating after delete: want 5, got %v", got)
	}

	// Only the author can touch a review.
	if _, err := svc.Update(review.ID, alice.ID, 1, "nope"); err == nil {
		t.Fatal("foreign update allowed")
	}
}

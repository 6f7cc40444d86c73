package services

import (
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/models"
	"fitclub_go/timeslot"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingService runs the booking and cancellation transactions. Every
// mutation happens inside a single DB transaction so a failure at any step
// (availability, entitlement consumption, insert) leaves no partial state.
type BookingService struct {
	db           *gorm.DB
	entitlements *EntitlementService
	availability *AvailabilityService
}

func NewBookingService(db *gorm.DB, ent *EntitlementService, avail *AvailabilityService) *BookingService {
	return &BookingService{db: db, entitlements: ent, availability: avail}
}

// PersonalBookingInput carries a personal booking request. TrainerID is nil
// for trainerless gym visits. SubscriptionID optionally pins the entitlement
// to charge; when nil and PaymentMethod is subscription, a usable one is
// picked automatically.
type PersonalBookingInput struct {
	UserID         uint
	TrainerID      *uint
	Date           time.Time
	Time           timeslot.TimeOfDay
	PaymentMethod  string
	SubscriptionID *uint
	InventoryID    *uint
	Notes          string
}

// BookPersonal books a gym visit or a personal training slot.
func (s *BookingService) BookPersonal(in PersonalBookingInput) (*models.PersonalBooking, error) {
	if in.Date.IsZero() {
		return nil, apperrors.Validation("missing_date", "booking date is required")
	}
	switch in.PaymentMethod {
	case models.PaymentQRCode, models.PaymentCash, models.PaymentSubscription:
	default:
		return nil, apperrors.Validation("invalid_payment_method", "unknown payment method")
	}

	var booking *models.PersonalBooking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.TrainerID != nil {
			var trainer models.Trainer
			if err := tx.First(&trainer, *in.TrainerID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.NotFound(apperrors.CodeTrainerNotFound, "trainer not found")
				}
				return apperrors.Infrastructure(err)
			}
			if _, err := s.availability.Resolve(tx, *in.TrainerID, in.Date, in.Time, true); err != nil {
				return err
			}
		}

		var entitlementID *uint
		if in.PaymentMethod == models.PaymentSubscription {
			// A trainer session is a gym-category visit; group sessions go
			// through BookGroup.
			sub, err := s.entitlements.findUsableTx(tx, in.UserID, in.SubscriptionID,
				[]string{models.CategoryGym, models.CategoryCombo})
			if err != nil {
				return err
			}
			if sub == nil {
				return apperrors.Entitlement(apperrors.CodeNoEntitlement,
					"no active subscription with remaining visits")
			}
			entitlementID = &sub.ID
		}

		if in.InventoryID != nil {
			var item models.InventoryItem
			if err := tx.First(&item, *in.InventoryID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return apperrors.NotFound(apperrors.CodeInventoryNotFound, "inventory item not found")
				}
				return apperrors.Infrastructure(err)
			}
		}

		if entitlementID != nil {
			ok, err := s.entitlements.consumeTx(tx, *entitlementID, in.UserID)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.Entitlement(apperrors.CodeEntitlementConsumed,
					"subscription has no remaining visits")
			}
		}

		booking = &models.PersonalBooking{
			Code:           uuid.NewString(),
			UserID:         in.UserID,
			TrainerID:      in.TrainerID,
			BookingDate:    in.Date,
			BookingTime:    in.Time.Normalize(),
			PaymentMethod:  in.PaymentMethod,
			SubscriptionID: entitlementID,
			InventoryID:    in.InventoryID,
			Notes:          in.Notes,
			Status:         models.BookingConfirmed,
		}
		if err := tx.Create(booking).Error; err != nil {
			return apperrors.Infrastructure(err)
		}

		note := models.Notification{
			UserID:  in.UserID,
			Title:   "Booking confirmed",
			Type:    "success",
			Message: "Your booking for " + in.Date.Format("2006-01-02") + " at " + in.Time.HHMM() + " is confirmed",
		}
		if err := tx.Create(&note).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelPersonal cancels a user's booking and refunds the visit when it was
// paid from a subscription. Already-cancelled bookings are invisible to the
// lookup, so a second cancel cannot refund twice.
func (s *BookingService) CancelPersonal(bookingID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.PersonalBooking
		err := tx.Where("id = ? AND user_id = ? AND status <> ?", bookingID, userID, models.BookingCancelled).
			First(&booking).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound(apperrors.CodeBookingNotFound, "booking not found")
			}
			return apperrors.Infrastructure(err)
		}

		if booking.PaymentMethod == models.PaymentSubscription && booking.SubscriptionID != nil {
			if err := s.entitlements.refundTx(tx, *booking.SubscriptionID, userID); err != nil {
				return err
			}
		}

		if err := tx.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
			return apperrors.Infrastructure(err)
		}

		note := models.Notification{
			UserID:  userID,
			Title:   "Booking cancelled",
			Type:    "info",
			Message: "Your booking for " + booking.BookingDate.Format("2006-01-02") + " was cancelled",
		}
		if err := tx.Create(&note).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		return nil
	})
}

// BookGroup reserves a seat in a group session, charging one visit from a
// group-capable subscription. Capacity is enforced against a live count of
// non-cancelled seats, with the session row locked for the duration of the
// transaction.
func (s *BookingService) BookGroup(userID, sessionID uint, subscriptionID *uint) (*models.GroupBooking, error) {
	var booking *models.GroupBooking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var session models.GroupSession
		if err := lockForUpdate(tx).First(&session, sessionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound(apperrors.CodeSessionNotFound, "group session not found")
			}
			return apperrors.Infrastructure(err)
		}

		var seats int64
		err := tx.Model(&models.GroupBooking{}).
			Where("session_id = ? AND status <> ?", sessionID, models.BookingCancelled).
			Count(&seats).Error
		if err != nil {
			return apperrors.Infrastructure(err)
		}
		if seats >= int64(session.MaxParticipants) {
			return apperrors.Conflict(apperrors.CodeSessionFull, "group session is full")
		}

		var dup int64
		err = tx.Model(&models.GroupBooking{}).
			Where("user_id = ? AND session_id = ? AND status <> ?", userID, sessionID, models.BookingCancelled).
			Count(&dup).Error
		if err != nil {
			return apperrors.Infrastructure(err)
		}
		if dup > 0 {
			return apperrors.Conflict(apperrors.CodeAlreadyBooked, "you already have a seat in this session")
		}

		sub, err := s.entitlements.findUsableTx(tx, userID, subscriptionID,
			[]string{models.CategoryGroup, models.CategoryCombo})
		if err != nil {
			return err
		}
		if sub == nil {
			return apperrors.Entitlement(apperrors.CodeNoEntitlement,
				"no active group subscription with remaining visits")
		}
		ok, err := s.entitlements.consumeTx(tx, sub.ID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.Entitlement(apperrors.CodeEntitlementConsumed,
				"subscription has no remaining visits")
		}

		booking = &models.GroupBooking{
			Code:           uuid.NewString(),
			UserID:         userID,
			SessionID:      sessionID,
			SubscriptionID: &sub.ID,
			BookingDate:    time.Now(),
			Status:         models.BookingConfirmed,
		}
		if err := tx.Create(booking).Error; err != nil {
			return apperrors.Infrastructure(err)
		}

		err = tx.Model(&models.GroupSession{}).Where("id = ?", sessionID).
			Update("current_participants", gorm.Expr("current_participants + 1")).Error
		if err != nil {
			return apperrors.Infrastructure(err)
		}

		note := models.Notification{
			UserID:  userID,
			Title:   "Seat reserved",
			Type:    "success",
			Message: "Your seat in " + session.Name + " is confirmed",
		}
		if err := tx.Create(&note).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CancelGroup releases a seat, refunds the visit and decrements the session
// counter, clamped at zero.
func (s *BookingService) CancelGroup(bookingID, userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.GroupBooking
		err := tx.Where("id = ? AND user_id = ? AND status <> ?", bookingID, userID, models.BookingCancelled).
			First(&booking).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound(apperrors.CodeBookingNotFound, "booking not found")
			}
			return apperrors.Infrastructure(err)
		}

		if booking.SubscriptionID != nil {
			if err := s.entitlements.refundTx(tx, *booking.SubscriptionID, userID); err != nil {
				return err
			}
		}

		if err := tx.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
			return apperrors.Infrastructure(err)
		}

		err = tx.Model(&models.GroupSession{}).Where("id = ?", booking.SessionID).
			Update("current_participants",
				gorm.Expr("CASE WHEN current_participants > 0 THEN current_participants - 1 ELSE 0 END")).Error
		if err != nil {
			return apperrors.Infrastructure(err)
		}

		note := models.Notification{
			UserID:  userID,
			Title:   "Seat released",
			Type:    "info",
			Message: "Your group session seat was cancelled",
		}
		if err := tx.Create(&note).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		return nil
	})
}

// PersonalByUser returns a user's personal bookings, newest first. With
// upcomingOnly set, only future non-cancelled bookings are returned, soonest
// first.
func (s *BookingService) PersonalByUser(userID uint, upcomingOnly bool) ([]models.PersonalBooking, error) {
	q := s.db.Where("user_id = ?", userID).
		Preload("Trainer").Preload("Trainer.User")
	if upcomingOnly {
		q = q.Where("booking_date >= ? AND status IN ?",
			time.Now().Format("2006-01-02"),
			[]string{models.BookingPending, models.BookingConfirmed}).
			Order("booking_date, booking_time")
	} else {
		q = q.Order("booking_date DESC, booking_time DESC")
	}
	var bookings []models.PersonalBooking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return bookings, nil
}

// GroupByUser returns a user's group seats with their sessions.
func (s *BookingService) GroupByUser(userID uint) ([]models.GroupBooking, error) {
	var bookings []models.GroupBooking
	err := s.db.Where("user_id = ?", userID).
		Preload("Session").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, apperrors.Infrastructure(err)
	}
	return bookings, nil
}

// CheckInByCode marks a confirmed booking as completed when its QR code is
// scanned at the front desk.
func (s *BookingService) CheckInByCode(code string) (*models.PersonalBooking, error) {
	var booking *models.PersonalBooking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var b models.PersonalBooking
		if err := tx.Where("code = ?", code).First(&b).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound(apperrors.CodeBookingNotFound, "booking not found")
			}
			return apperrors.Infrastructure(err)
		}
		if b.Status != models.BookingConfirmed {
			return apperrors.Conflict("not_checkable", "booking is "+b.Status)
		}
		if err := tx.Model(&b).Update("status", models.BookingCompleted).Error; err != nil {
			return apperrors.Infrastructure(err)
		}
		b.Status = models.BookingCompleted
		booking = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// PersonalByCode looks a booking up by its public code, used by the QR
// check-in endpoint.
func (s *BookingService) PersonalByCode(code string) (*models.PersonalBooking, error) {
	var booking models.PersonalBooking
	err := s.db.Where("code = ?", code).First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound(apperrors.CodeBookingNotFound, "booking not found")
		}
		return nil, apperrors.Infrastructure(err)
	}
	return &booking, nil
}

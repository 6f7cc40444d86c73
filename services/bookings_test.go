package services

import (
	"testing"
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/models"
	"fitclub_go/timeslot"
)

func TestBookAndCancelGymVisit(t *testing.T) {
	db := openTestDB(t)
	ent := NewEntitlementService(db)
	svc := NewBookingService(db, ent, NewAvailabilityService(db))

	user := createUser(t, db, "alice", models.RoleClient)
	gymType := createSubscriptionType(t, db, "Gym 10", models.CategoryGym, 10, 30)
	sub, err := ent.Purchase(user.ID, gymType.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	date := mustDate(t, time.Monday)
	booking, err := svc.BookPersonal(PersonalBookingInput{
		UserID:        user.ID,
		Date:          date,
		Time:          timeslot.TimeOfDay{Hour: 9},
		PaymentMethod: models.PaymentSubscription,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if booking.Status != models.BookingConfirmed {
		t.Fatalf("status: want confirmed, got %s", booking.Status)
	}
	if booking.Code == "" {
		t.Fatal("booking code not assigned")
	}
	if got := remainingVisits(t, db, sub.ID); got != 9 {
		t.Fatalf("visits after booking: want 9, got %d", got)
	}

	if err := svc.CancelPersonal(booking.ID, user.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := remainingVisits(t, db, sub.ID); got != 10 {
		t.Fatalf("visits after cancel: want 10, got %d", got)
	}

	// Cancelling again finds nothing and must not refund twice.
	err = svc.CancelPersonal(booking.ID, user.ID)
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeBookingNotFound {
		t.Fatalf("second cancel: want booking_not_found, got %v", err)
	}
	if got := remainingVisits(t, db, sub.ID); got != 10 {
		t.Fatalf("visits after double cancel: want 10, got %d", got)
	}
}

func TestBookTrainerSlotTaken(t *testing.T) {
	db := openTestDB(t)
	ent := NewEntitlementService(db)
	svc := NewBookingService(db, ent, NewAvailabilityService(db))

	trainer := createTrainer(t, db, "bob")
	createSlot(t, db, trainer.ID, "monday", "09:00:00", "10:00:00")

	alice := createUser(t, db, "alice", models.RoleClient)
	carol := createUser(t, db, "carol", models.RoleClient)
	gymType := createSubscriptionType(t, db, "Gym 10", models.CategoryGym, 10, 30)
	if _, err := ent.Purchase(alice.ID, gymType.ID); err != nil {
		t.Fatalf("purchase alice: %v", err)
	}
	if _, err := ent.Purchase(carol.ID, gymType.ID); err != nil {
		t.Fatalf("purchase carol: %v", err)
	}

	date := mustDate(t, time.Monday)
	in := PersonalBookingInput{
		UserID:        alice.ID,
		TrainerID:     &trainer.ID,
		Date:          date,
		Time:          timeslot.TimeOfDay{Hour: 9},
		PaymentMethod: models.PaymentSubscription,
	}
	if _, err := svc.BookPersonal(in); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	in.UserID = carol.ID
	_, err := svc.BookPersonal(in)
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeSlotTaken {
		t.Fatalf("second booking: want slot_taken, got %v", err)
	}
}

func TestBookTrainerAvailabilityErrors(t *testing.T) {
	db := openTestDB(t)
	ent := NewEntitlementService(db)
	svc := NewBookingService(db, ent, NewAvailabilityService(db))

	trainer := createTrainer(t, db, "bob")
	user := createUser(t, db, "alice", models.RoleClient)

	in := PersonalBookingInput{
		UserID:        user.ID,
		TrainerID:     &trainer.ID,
		Date:          mustDate(t, time.Monday),
		Time:          timeslot.TimeOfDay{Hour: 9},
		PaymentMethod: models.PaymentCash,
	}

	// No schedule at all.
	_, err := svc.BookPersonal(in)
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeNoSchedule {
		t.Fatalf("want no_schedule, got %v", err)
	}

	createSlot(t, db, trainer.ID, "tuesday", "09:00:00", "10:00:00")

	// Works tuesdays, asked for monday.
	_, err = svc.BookPersonal(in)
	appErr, ok = apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeDayNotAvailable {
		t.Fatalf("want day_not_available, got %v", err)
	}
	days, _ := appErr.Details["available_days"].([]string)
	if len(days) != 1 || days[0] != "tuesday" {
		t.Fatalf("available_days detail: got %v", appErr.Details["available_days"])
	}

	// Right day, wrong time.
	in.Date = mustDate(t, time.Tuesday)
	in.Time = timeslot.TimeOfDay{Hour: 11}
	_, err = svc.BookPersonal(in)
	appErr, ok = apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeTimeNotAvailable {
		t.Fatalf("want time_not_available, got %v", err)
	}
	ranges, _ := appErr.Details["available_times"].([]string)
	if len(ranges) != 1 || ranges[0] != "09:00-10:00" {
		t.Fatalf("available_times detail: got %v", appErr.Details["available_times"])
	}

	// Exact slot start works.
	in.Time = timeslot.TimeOfDay{Hour: 9}
	if _, err := svc.BookPersonal(in); err != nil {
		t.Fatalf("valid booking: %v", err)
	}
}

func TestBookPersonalWithoutEntitlement(t *testing.T) {
	db := openTestDB(t)
	ent := NewEntitlementService(db)
	svc := NewBookingService(db, ent, NewAvailabilityService(db))

	user := createUser(t, db, "alice", models.RoleClient)
	groupType := createSubscriptionType(t, db, "Group 8", models.CategoryGroup, 8, 30)
	if _, err := ent.Purchase(user.ID, groupType.ID); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	// A group-only subscription cannot pay for a gym visit.
	_, err := svc.BookPersonal(PersonalBookingInput{
		UserID:        user.ID,
		Date:          mustDate(t, time.Monday),
		Time:          timeslot.TimeOfDay{Hour: 9},
		PaymentMethod: models.PaymentSubscription,
	})
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeNoEntitlement {
		t.Fatalf("want no_entitlement, got %v", err)
	}
}

func TestGroupBookingCapacity(t *testing.T) {
	db := openTestDB(t)
	ent := NewEntitlementService(db)
	svc := NewBookingService(db, ent, NewAvailabilityService(db))

	session := &models.GroupSession{
		Name:            "Yoga",
		Days:            "monday,wednesday",
		Time:            "18:00:00",
		Duration:        60,
		MaxParticipants: 2,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}

	groupType := createSubscriptionType(t, db, "Group 8", models.CategoryGroup, 8, 30)
	users := make([]*models.User, 3)
	for i, name := range []string{"alice", "bob", "carol"} {
		users[i] = createUser(t, db, name, models.RoleClient)
		if _, err := ent.Purchase(users[i].ID, groupType.ID); err != nil {
			t.Fatalf("purchase %s: %v", name, err)
		}
	}

	first, err := svc.BookGroup(users[0].ID, session.ID, nil)
	if err != nil {
		t.Fatalf("first seat: %v", err)
	}

	// Duplicate seat for the same user while room remains. Capacity is
	// checked first, so this must be attempted before the session fills.
	_, err = svc.BookGroup(users[0].ID, session.ID, nil)
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeAlreadyBooked {
		t.Fatalf("want already_booked, got %v", err)
	}

	if _, err := svc.BookGroup(users[1].ID, session.ID, nil); err != nil {
		t.Fatalf("second seat: %v", err)
	}

	// Full.
	_, err = svc.BookGroup(users[2].ID, session.ID, nil)
	appErr, ok = apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeSessionFull {
		t.Fatalf("want session_full, got %v", err)
	}

	var reloaded models.GroupSession
	if err := db.First(&reloaded, session.ID).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if reloaded.CurrentParticipants != 2 {
		t.Fatalf("counter: want 2, got %d", reloaded.CurrentParticipants)
	}

	// A full session reports full even to a user already holding a seat.
	_, err = svc.BookGroup(users[0].ID, session.ID, nil)
	appErr, ok = apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeSessionFull {
		t.Fatalf("want session_full for duplicate on full session, got %v", err)
	}

	// Cancelling frees the seat and decrements the counter.
	if err := svc.CancelGroup(first.ID, users[0].ID); err != nil {
		t.Fatalf("cancel seat: %v", err)
	}
	if err := db.First(&reloaded, session.ID).Error; err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if reloaded.CurrentParticipants != 1 {
		t.Fatalf("counter after cancel: want 1, got %d", reloaded.CurrentParticipants)
	}
	if _, err := svc.BookGroup(users[2].ID, session.ID, nil); err != nil {
		t.Fatalf("seat after cancel: %v", err)
	}
}

func TestGroupBookingRefund(t *testing.T) {
	db := openTestDB(t)
	ent := NewEntitlementService(db)
	svc := NewBookingService(db, ent, NewAvailabilityService(db))

	session := &models.GroupSession{
		Name:            "Spin",
		Days:            "friday",
		Time:            "19:00:00",
		Duration:        45,
		MaxParticipants: 10,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}

	user := createUser(t, db, "alice", models.RoleClient)
	comboType := createSubscriptionType(t, db, "Combo 20", models.CategoryCombo, 20, 60)
	sub, err := ent.Purchase(user.ID, comboType.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	booking, err := svc.BookGroup(user.ID, session.ID, nil)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if got := remainingVisits(t, db, sub.ID); got != 19 {
		t.Fatalf("visits after booking: want 19, got %d", got)
	}

	if err := svc.CancelGroup(booking.ID, user.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := remainingVisits(t, db, sub.ID); got != 20 {
		t.Fatalf("visits after cancel: want 20, got %d", got)
	}
}

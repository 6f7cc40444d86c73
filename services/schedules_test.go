package services

import (
	"testing"

	"fitclub_go/apperrors"
	"fitclub_go/models"
	"fitclub_go/timeslot"
)

func TestReplaceTrainerSchedule(t *testing.T) {
	db := openTestDB(t)
	svc := NewScheduleService(db)
	trainer := createTrainer(t, db, "bob")

	createSlot(t, db, trainer.ID, "friday", "15:00:00", "16:00:00")

	count, err := svc.ReplaceTrainerSchedule(trainer.ID, []SlotInput{
		{DayOfWeek: "monday", StartTime: "09:00"},
		{DayOfWeek: "monday", StartTime: "10:00"},
		{DayOfWeek: "Wednesday", StartTime: "14:00"},
		{DayOfWeek: "monday", StartTime: "09:00"}, // duplicate, collapsed
	}, nil)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if count != 3 {
		t.Fatalf("slot count: want 3, got %d", count)
	}

	// The old friday slot is gone; replace is total.
	var slots []models.TrainerScheduleSlot
	if err := db.Where("trainer_id = ?", trainer.ID).Find(&slots).Error; err != nil {
		t.Fatalf("load slots: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("stored slots: want 3, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.DayOfWeek == "friday" {
			t.Fatal("old schedule survived the replace")
		}
		if slot.StartTime == "09:00:00" && slot.EndTime != "10:00:00" {
			t.Fatalf("slot end: want 10:00:00, got %s", slot.EndTime)
		}
	}
}

func TestReplaceScheduleRejectsOverlap(t *testing.T) {
	db := openTestDB(t)
	svc := NewScheduleService(db)
	trainer := createTrainer(t, db, "bob")

	_, err := svc.ReplaceTrainerSchedule(trainer.ID, []SlotInput{
		{DayOfWeek: "monday", StartTime: "09:00"},
		{DayOfWeek: "monday", StartTime: "09:30"},
	}, nil)
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeScheduleOverlap {
		t.Fatalf("want schedule_overlap, got %v", err)
	}

	// Nothing was written.
	var count int64
	db.Model(&models.TrainerScheduleSlot{}).Where("trainer_id = ?", trainer.ID).Count(&count)
	if count != 0 {
		t.Fatalf("rejected replace wrote %d slots", count)
	}
}

func TestReplaceScheduleRejectsEmpty(t *testing.T) {
	db := openTestDB(t)
	svc := NewScheduleService(db)
	trainer := createTrainer(t, db, "bob")

	_, err := svc.ReplaceTrainerSchedule(trainer.ID, nil, nil)
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeEmptySchedule {
		t.Fatalf("want empty_schedule, got %v", err)
	}
}

func TestUpdateSlot(t *testing.T) {
	db := openTestDB(t)
	svc := NewScheduleService(db)
	trainer := createTrainer(t, db, "bob")
	slot := createSlot(t, db, trainer.ID, "monday", "09:00:00", "10:00:00")
	createSlot(t, db, trainer.ID, "monday", "11:00:00", "12:00:00")

	// Without an end time the slot stays one hour.
	updated, err := svc.UpdateSlot(slot.ID, SlotInput{DayOfWeek: "tuesday", StartTime: "14:00"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DayOfWeek != "tuesday" || updated.StartTime != "14:00:00" || updated.EndTime != "15:00:00" {
		t.Fatalf("moved slot: got %s %s-%s", updated.DayOfWeek, updated.StartTime, updated.EndTime)
	}

	// An explicit end time overrides the one-hour default.
	updated, err = svc.UpdateSlot(slot.ID, SlotInput{
		DayOfWeek: "tuesday", StartTime: "14:00", EndTime: "15:30",
	})
	if err != nil {
		t.Fatalf("update with end: %v", err)
	}
	if updated.EndTime != "15:30:00" {
		t.Fatalf("end time: want 15:30:00, got %s", updated.EndTime)
	}

	// End before start is rejected.
	_, err = svc.UpdateSlot(slot.ID, SlotInput{
		DayOfWeek: "tuesday", StartTime: "14:00", EndTime: "13:00",
	})
	if appErr, ok := apperrors.As(err); !ok || appErr.Code != "invalid_time" {
		t.Fatalf("want invalid_time, got %v", err)
	}

	// A stretched slot still may not overlap a sibling.
	_, err = svc.UpdateSlot(slot.ID, SlotInput{
		DayOfWeek: "monday", StartTime: "10:00", EndTime: "11:30",
	})
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeScheduleOverlap {
		t.Fatalf("want schedule_overlap, got %v", err)
	}
}

func TestValidateGroupAssignment(t *testing.T) {
	db := openTestDB(t)
	svc := NewScheduleService(db)
	trainer := createTrainer(t, db, "bob")
	createSlot(t, db, trainer.ID, "monday", "09:00:00", "10:00:00")

	// Class starting mid-slot collides.
	err := svc.ValidateGroupAssignment(trainer.ID,
		[]timeslot.Weekday{timeslot.Monday}, timeslot.TimeOfDay{Hour: 9, Minute: 30}, 60, nil)
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeScheduleOverlap {
		t.Fatalf("want schedule_overlap, got %v", err)
	}

	// Back-to-back is allowed.
	err = svc.ValidateGroupAssignment(trainer.ID,
		[]timeslot.Weekday{timeslot.Monday}, timeslot.TimeOfDay{Hour: 10}, 60, nil)
	if err != nil {
		t.Fatalf("back-to-back class rejected: %v", err)
	}

	// Same time another day is allowed.
	err = svc.ValidateGroupAssignment(trainer.ID,
		[]timeslot.Weekday{timeslot.Tuesday}, timeslot.TimeOfDay{Hour: 9, Minute: 30}, 60, nil)
	if err != nil {
		t.Fatalf("other-day class rejected: %v", err)
	}
}

func TestValidateGroupAssignmentAgainstSessions(t *testing.T) {
	db := openTestDB(t)
	svc := NewScheduleService(db)
	trainer := createTrainer(t, db, "bob")

	existing := &models.GroupSession{
		Name:            "HIIT",
		Days:            "monday,thursday",
		Time:            "18:00:00",
		Duration:        60,
		MaxParticipants: 12,
		TrainerID:       &trainer.ID,
	}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}

	err := svc.ValidateGroupAssignment(trainer.ID,
		[]timeslot.Weekday{timeslot.Thursday}, timeslot.TimeOfDay{Hour: 18, Minute: 30}, 60, nil)
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeScheduleOverlap {
		t.Fatalf("want schedule_overlap, got %v", err)
	}

	// Editing the session itself must not conflict with its own old slot.
	err = svc.ValidateGroupAssignment(trainer.ID,
		[]timeslot.Weekday{timeslot.Thursday}, timeslot.TimeOfDay{Hour: 18, Minute: 30}, 60, &existing.ID)
	if err != nil {
		t.Fatalf("self-conflict on edit: %v", err)
	}
}

func TestGroupSessionCreateValidatesTrainer(t *testing.T) {
	db := openTestDB(t)
	schedules := NewScheduleService(db)
	svc := NewGroupSessionService(db, schedules)
	trainer := createTrainer(t, db, "bob")
	createSlot(t, db, trainer.ID, "monday", "09:00:00", "10:00:00")

	_, err := svc.Create(GroupSessionInput{
		Name:            "Pilates",
		Days:            []string{"monday"},
		Time:            "09:30",
		Duration:        60,
		MaxParticipants: 8,
		TrainerID:       &trainer.ID,
	})
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Code != apperrors.CodeScheduleOverlap {
		t.Fatalf("want schedule_overlap, got %v", err)
	}

	session, err := svc.Create(GroupSessionInput{
		Name:            "Pilates",
		Days:            []string{"monday"},
		Time:            "10:00",
		Duration:        60,
		MaxParticipants: 8,
		TrainerID:       &trainer.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.Time != "10:00:00" {
		t.Fatalf("stored time: want 10:00:00, got %s", session.Time)
	}
}

package services

import (
	"path/filepath"
	"testing"
	"time"

	"fitclub_go/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Trainer{},
		&models.TrainerScheduleSlot{},
		&models.PersonalBooking{},
		&models.GroupSession{},
		&models.GroupBooking{},
		&models.SubscriptionType{},
		&models.UserSubscription{},
		&models.InventoryItem{},
		&models.Review{},
		&models.ActivityLog{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTrainer(t *testing.T, db *gorm.DB, name string) *models.Trainer {
	t.Helper()
	user := createUser(t, db, name, models.RoleTrainer)
	trainer := &models.Trainer{UserID: user.ID, Specialization: "strength"}
	if err := db.Create(trainer).Error; err != nil {
		t.Fatalf("create trainer: %v", err)
	}
	return trainer
}

func createSubscriptionType(t *testing.T, db *gorm.DB, name, category string, visits, days int) *models.SubscriptionType {
	t.Helper()
	st := &models.SubscriptionType{
		Name:         name,
		Category:     category,
		Price:        100,
		VisitsCount:  visits,
		DurationDays: days,
	}
	if err := db.Create(st).Error; err != nil {
		t.Fatalf("create subscription type: %v", err)
	}
	return st
}

func createSlot(t *testing.T, db *gorm.DB, trainerID uint, day, start, end string) *models.TrainerScheduleSlot {
	t.Helper()
	slot := &models.TrainerScheduleSlot{
		TrainerID: trainerID,
		DayOfWeek: day,
		StartTime: start,
		EndTime:   end,
		SlotType:  "personal",
		MaxSlots:  1,
	}
	if err := db.Create(slot).Error; err != nil {
		t.Fatalf("create schedule slot: %v", err)
	}
	return slot
}

// mustDate builds a date that falls on the named weekday so schedule
// lookups behave deterministically. 2026-03-02 is a Monday.
func mustDate(t *testing.T, day time.Weekday) time.Time {
	t.Helper()
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	offset := (int(day) - int(time.Monday) + 7) % 7
	return base.AddDate(0, 0, offset)
}

func remainingVisits(t *testing.T, db *gorm.DB, subID uint) int {
	t.Helper()
	var sub models.UserSubscription
	if err := db.First(&sub, subID).Error; err != nil {
		t.Fatalf("load subscription: %v", err)
	}
	return sub.RemainingVisits
}

package seeders

import (
	"log"

	"fitclub_go/models"
	"fitclub_go/timeslot"
	"fitclub_go/utils"

	"gorm.io/gorm"
)

// SeedAll runs all seeders
func SeedAll(db *gorm.DB) {
	log.Println("Starting database seeding...")

	SeedSubscriptionTypes(db)
	SeedAdmin(db)
	SeedTrainers(db)
	SeedGroupSessions(db)
	SeedInventory(db)

	log.Println("Database seeding completed successfully!")
}

// SeedSubscriptionTypes seeds the purchase catalog
func SeedSubscriptionTypes(db *gorm.DB) {
	var count int64
	db.Model(&models.SubscriptionType{}).Count(&count)
	if count > 0 {
		log.Println("Subscription types already seeded, skipping...")
		return
	}

	types := []models.SubscriptionType{
		{Name: "Gym 10", Category: models.CategoryGym, Description: "10 gym visits", Price: 3500, VisitsCount: 10, DurationDays: 60},
		{Name: "Gym 20", Category: models.CategoryGym, Description: "20 gym visits", Price: 6000, VisitsCount: 20, DurationDays: 90},
		{Name: "Group 8", Category: models.CategoryGroup, Description: "8 group classes", Price: 2800, VisitsCount: 8, DurationDays: 45},
		{Name: "Group 16", Category: models.CategoryGroup, Description: "16 group classes", Price: 5000, VisitsCount: 16, DurationDays: 90},
		{Name: "Combo 20", Category: models.CategoryCombo, Description: "20 visits, gym and classes", Price: 7500, VisitsCount: 20, DurationDays: 90},
	}
	if err := db.Create(&types).Error; err != nil {
		log.Printf("Failed to seed subscription types: %v", err)
	}
}

// SeedAdmin creates the initial administrator account
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		log.Println("Admin already seeded, skipping...")
		return
	}

	hashed, err := utils.HashPassword("admin12345")
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}
	admin := models.User{
		Name:     "Administrator",
		Email:    "admin@fitclub.local",
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin: %v", err)
	}
}

// SeedTrainers creates demo trainers with weekly schedules
func SeedTrainers(db *gorm.DB) {
	var count int64
	db.Model(&models.Trainer{}).Count(&count)
	if count > 0 {
		log.Println("Trainers already seeded, skipping...")
		return
	}

	demo := []struct {
		name, email, specialization, experience string
	}{
		{"Ivan Petrov", "ivan@fitclub.local", "Strength training", "7 years"},
		{"Maria Sokolova", "maria@fitclub.local", "Functional training", "5 years"},
	}

	for _, d := range demo {
		hashed, err := utils.HashPassword("trainer12345")
		if err != nil {
			log.Printf("Failed to hash trainer password: %v", err)
			return
		}
		user := models.User{
			Name:     d.name,
			Email:    d.email,
			Password: hashed,
			Role:     models.RoleTrainer,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to seed trainer user %s: %v", d.email, err)
			continue
		}
		trainer := models.Trainer{
			UserID:         user.ID,
			Specialization: d.specialization,
			Experience:     d.experience,
		}
		if err := db.Create(&trainer).Error; err != nil {
			log.Printf("Failed to seed trainer profile %s: %v", d.email, err)
			continue
		}

		// Weekday morning slots
		for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
			for _, start := range []string{"09:00:00", "10:00:00", "11:00:00"} {
				st, _ := timeslot.ParseTimeOfDay(start)
				end := st.AddMinutes(60).Normalize()
				slot := models.TrainerScheduleSlot{
					TrainerID: trainer.ID,
					DayOfWeek: day,
					StartTime: start,
					EndTime:   end,
					SlotType:  "personal",
					MaxSlots:  1,
				}
				if err := db.Create(&slot).Error; err != nil {
					log.Printf("Failed to seed schedule slot: %v", err)
				}
			}
		}
	}
}

// SeedGroupSessions creates demo classes
func SeedGroupSessions(db *gorm.DB) {
	var count int64
	db.Model(&models.GroupSession{}).Count(&count)
	if count > 0 {
		log.Println("Group sessions already seeded, skipping...")
		return
	}

	sessions := []models.GroupSession{
		{Name: "Morning Yoga", Description: "Slow flow to start the day", Days: "monday,wednesday,friday", Time: "08:00:00", Duration: 60, MaxParticipants: 12},
		{Name: "Evening HIIT", Description: "High intensity intervals", Days: "tuesday,thursday", Time: "19:00:00", Duration: 45, MaxParticipants: 10},
		{Name: "Weekend Stretch", Description: "Mobility and recovery", Days: "saturday", Time: "11:00:00", Duration: 60, MaxParticipants: 15},
	}
	if err := db.Create(&sessions).Error; err != nil {
		log.Printf("Failed to seed group sessions: %v", err)
	}
}

// SeedInventory creates demo equipment
func SeedInventory(db *gorm.DB) {
	var count int64
	db.Model(&models.InventoryItem{}).Count(&count)
	if count > 0 {
		log.Println("Inventory already seeded, skipping...")
		return
	}

	items := []models.InventoryItem{
		{Name: "Squat rack 1"},
		{Name: "Squat rack 2"},
		{Name: "Treadmill row"},
		{Name: "Boxing ring"},
	}
	if err := db.Create(&items).Error; err != nil {
		log.Printf("Failed to seed inventory: %v", err)
	}
}

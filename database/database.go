package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"fitclub_go/config"
	"fitclub_go/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the MySQL connection and runs migrations. The handle is
// returned rather than stored in a package global so services receive it
// by injection.
func Connect() *gorm.DB {
	dsn := config.AppConfig.GetDSN()

	var gormLogger logger.Interface
	if config.AppConfig.AppEnv == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	// Retry logic for transient tunnel issues
	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= 8; attempt++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: gormLogger,
		})
		if err == nil {
			break
		}
		log.Printf("Database connect attempt %d failed: %v", attempt, err)
		time.Sleep(time.Duration(attempt*attempt) * 300 * time.Millisecond)
	}
	if err != nil {
		log.Fatal("Failed to connect to database after retries:", err)
	}

	log.Println("Database connected successfully")

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(55 * time.Minute)

	if !config.AppConfig.SkipMigrate {
		if err := AutoMigrate(db); err != nil {
			log.Fatal("Auto migration failed:", err)
		}
		log.Println("Database migration completed successfully")
	}

	return db
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Trainer{},
		&models.TrainerScheduleSlot{},
		&models.SubscriptionType{},
		&models.UserSubscription{},
		&models.InventoryItem{},
		&models.PersonalBooking{},
		&models.GroupSession{},
		&models.GroupBooking{},
		&models.Review{},
		&models.ActivityLog{},
		&models.Notification{},
	)
}

// ConnectRedis opens the Redis connection used for activity-log buffering.
// A nil client is returned when Redis is unreachable; callers fall back to
// direct database writes.
func ConnectRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", config.AppConfig.RedisHost, config.AppConfig.RedisPort),
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Redis connection failed: %v", err)
		log.Println("Continuing without Redis - activity logs will be saved directly to database")
		return nil
	}

	log.Println("Redis connected successfully")
	return client
}

// Close closes the underlying sql.DB.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Println("Error getting database instance:", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Println("Error closing database connection:", err)
		return
	}
	log.Println("Database connection closed")
}

package main

import (
	"log"
	"os"

	"fitclub_go/config"
	"fitclub_go/database"
	"fitclub_go/database/seeders"
	"fitclub_go/middleware"
	"fitclub_go/routes"
	"fitclub_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

func main() {
	setupLogging()
	config.LoadConfig()

	db := database.Connect()
	defer database.Close(db)

	redisClient := database.ConnectRedis()

	if config.AppConfig.SeedDemo {
		seeders.SeedAll(db)
	}

	// Service wiring
	entitlements := services.NewEntitlementService(db)
	availability := services.NewAvailabilityService(db)
	bookings := services.NewBookingService(db, entitlements, availability)
	schedules := services.NewScheduleService(db)
	groupSessions := services.NewGroupSessionService(db, schedules)
	reviews := services.NewReviewService(db)

	activityLogs := services.NewActivityLogService(db, redisClient)
	logCron := activityLogs.StartMaintenanceScheduler(config.AppConfig.LogRetentionDays)
	defer logCron.Stop()

	activity := middleware.NewActivityRecorder(activityLogs)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(middleware.LoggerMiddleware())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "FitClub API",
			"version": "1.0.0",
		})
	})

	routes.SetupRoutes(app, routes.Deps{
		DB:            db,
		Activity:      activity,
		Entitlements:  entitlements,
		Availability:  availability,
		Bookings:      bookings,
		Schedules:     schedules,
		GroupSessions: groupSessions,
		Reviews:       reviews,
	})

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Route not found",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})

	log.Printf("Server starting on port %s (env %s)", config.AppConfig.Port, config.AppConfig.AppEnv)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// setupLogging configures the logging system
func setupLogging() {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Warning: Could not create logs directory: %v", err)
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Log to stdout in development, to a file otherwise
	if os.Getenv("APP_ENV") == "development" {
		logrus.SetOutput(os.Stdout)
	} else {
		file, err := os.OpenFile("logs/app.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			logrus.SetOutput(file)
		}
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// customErrorHandler handles application errors
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	logrus.WithFields(logrus.Fields{
		"error":  err.Error(),
		"path":   c.Path(),
		"method": c.Method(),
		"ip":     c.IP(),
		"status": code,
	}).Error("Request error")

	return c.Status(code).JSON(fiber.Map{
		"error":  message,
		"code":   code,
		"path":   c.Path(),
		"method": c.Method(),
	})
}

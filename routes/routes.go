package routes

import (
	"fitclub_go/controllers"
	"fitclub_go/middleware"
	"fitclub_go/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps carries everything route handlers need.
type Deps struct {
	DB       *gorm.DB
	Activity *middleware.ActivityRecorder

	Entitlements  *services.EntitlementService
	Availability  *services.AvailabilityService
	Bookings      *services.BookingService
	Schedules     *services.ScheduleService
	GroupSessions *services.GroupSessionService
	Reviews       *services.ReviewService
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, deps Deps) {
	authController := &controllers.AuthController{DB: deps.DB, Activity: deps.Activity}
	trainerController := &controllers.TrainerController{DB: deps.DB, Reviews: deps.Reviews, Activity: deps.Activity}
	scheduleController := &controllers.ScheduleController{Schedules: deps.Schedules, Availability: deps.Availability, Activity: deps.Activity}
	importController := &controllers.ScheduleImportController{Schedules: deps.Schedules, Activity: deps.Activity}
	sessionController := &controllers.GroupSessionController{Sessions: deps.GroupSessions, Activity: deps.Activity}
	bookingController := &controllers.BookingController{Bookings: deps.Bookings, Activity: deps.Activity}
	subscriptionController := &controllers.SubscriptionController{DB: deps.DB, Entitlements: deps.Entitlements, Activity: deps.Activity}
	reviewController := &controllers.ReviewController{Reviews: deps.Reviews, Activity: deps.Activity}
	inventoryController := &controllers.InventoryController{DB: deps.DB, Activity: deps.Activity}
	adminController := &controllers.AdminController{DB: deps.DB, Activity: deps.Activity}

	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)

	// Public catalog browsing
	api.Get("/trainers", trainerController.GetTrainers)
	api.Get("/trainers/available", scheduleController.AvailableTrainers)
	api.Get("/trainers/:id", trainerController.GetTrainer)
	api.Get("/trainers/:id/schedule", scheduleController.GetTrainerSchedule)
	api.Get("/trainers/:id/reviews", reviewController.GetTrainerReviews)
	api.Get("/sessions", sessionController.GetSessions)
	api.Get("/sessions/:id", sessionController.GetSession)
	api.Get("/subscription-types", subscriptionController.GetTypes)

	// QR check-in, reachable from a scanned code
	api.Get("/bookings/qr/:code", bookingController.BookingQR)
	api.Get("/checkin", bookingController.CheckIn)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware(deps.DB))

	protected.Get("/profile", authController.Profile)
	protected.Put("/profile", authController.UpdateProfile)

	protected.Post("/bookings", bookingController.BookPersonal)
	protected.Get("/bookings", bookingController.MyBookings)
	protected.Delete("/bookings/:id", bookingController.CancelBooking)
	protected.Post("/group-bookings", bookingController.BookGroup)
	protected.Get("/group-bookings", bookingController.MyGroupBookings)
	protected.Delete("/group-bookings/:id", bookingController.CancelGroupBooking)

	protected.Post("/subscriptions", subscriptionController.Purchase)
	protected.Get("/subscriptions", subscriptionController.MySubscriptions)
	protected.Get("/subscriptions/main", subscriptionController.MainSubscription)

	protected.Post("/reviews", reviewController.CreateReview)
	protected.Put("/reviews/:id", reviewController.UpdateReview)
	protected.Delete("/reviews/:id", reviewController.DeleteReview)

	protected.Get("/inventory", inventoryController.GetItems)
	protected.Get("/inventory/:id", inventoryController.GetItem)
	protected.Get("/notifications", adminController.MyNotifications)
	protected.Put("/notifications/:id/read", adminController.MarkNotificationRead)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireAdmin())

	admin.Post("/trainers", trainerController.CreateTrainer)
	admin.Put("/trainers/:id", trainerController.UpdateTrainer)
	admin.Delete("/trainers/:id", trainerController.DeleteTrainer)

	admin.Put("/trainers/:id/schedule", scheduleController.ReplaceSchedule)
	admin.Post("/trainers/:id/schedule/import", importController.Import)
	admin.Put("/schedule-slots/:id", scheduleController.UpdateSlot)
	admin.Delete("/schedule-slots/:id", scheduleController.DeleteSlot)

	admin.Post("/sessions", sessionController.CreateSession)
	admin.Put("/sessions/:id", sessionController.UpdateSession)
	admin.Delete("/sessions/:id", sessionController.DeleteSession)

	admin.Post("/subscription-types", subscriptionController.CreateType)
	admin.Put("/subscription-types/:id", subscriptionController.UpdateType)
	admin.Delete("/subscription-types/:id", subscriptionController.DeleteType)

	admin.Post("/inventory", inventoryController.CreateItem)
	admin.Put("/inventory/:id", inventoryController.UpdateItem)
	admin.Delete("/inventory/:id", inventoryController.DeleteItem)

	admin.Get("/users", adminController.GetUsers)
	admin.Delete("/users/:id", adminController.DeleteUser)
	admin.Get("/stats", adminController.GetStats)
	admin.Get("/logs", adminController.GetActivityLogs)
}

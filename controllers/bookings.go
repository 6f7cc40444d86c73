package controllers

import (
	"time"

	"fitclub_go/apperrors"
	"fitclub_go/middleware"
	"fitclub_go/services"
	"fitclub_go/timeslot"

	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
)

type BookingController struct {
	Bookings *services.BookingService
	Activity *middleware.ActivityRecorder
}

// BookPersonalRequest carries a gym-visit or trainer-session booking.
type BookPersonalRequest struct {
	TrainerID      *uint  `json:"trainer_id"`
	Date           string `json:"date"` // YYYY-MM-DD
	Time           string `json:"time"` // HH:MM
	PaymentMethod  string `json:"payment_method"`
	SubscriptionID *uint  `json:"subscription_id"`
	InventoryID    *uint  `json:"inventory_id"`
	Notes          string `json:"notes"`
}

// BookPersonal books a gym visit or personal training slot for the caller.
func (bc *BookingController) BookPersonal(c *fiber.Ctx) error {
	var req BookPersonalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return respondError(c, apperrors.Validation("invalid_date", "date must be YYYY-MM-DD"))
	}
	tod, err := timeslot.ParseTimeOfDay(req.Time)
	if err != nil {
		return respondError(c, apperrors.Validation("invalid_time", "time must be HH:MM"))
	}

	booking, err := bc.Bookings.BookPersonal(services.PersonalBookingInput{
		UserID:         middleware.CurrentUserID(c),
		TrainerID:      req.TrainerID,
		Date:           date,
		Time:           tod,
		PaymentMethod:  req.PaymentMethod,
		SubscriptionID: req.SubscriptionID,
		InventoryID:    req.InventoryID,
		Notes:          req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}

	bc.Activity.Log(c, "CREATE", "personal_bookings", booking.ID, fiber.Map{
		"date": req.Date,
		"time": req.Time,
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

// MyBookings lists the caller's personal bookings; ?upcoming=true narrows
// to future non-cancelled ones.
func (bc *BookingController) MyBookings(c *fiber.Ctx) error {
	bookings, err := bc.Bookings.PersonalByUser(middleware.CurrentUserID(c), c.QueryBool("upcoming"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

// CancelBooking cancels one of the caller's personal bookings.
func (bc *BookingController) CancelBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := bc.Bookings.CancelPersonal(id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	bc.Activity.Log(c, "CANCEL", "personal_bookings", id, nil)
	return c.JSON(fiber.Map{"message": "Booking cancelled"})
}

// BookGroup reserves a seat in a group session for the caller.
func (bc *BookingController) BookGroup(c *fiber.Ctx) error {
	var req struct {
		SessionID      uint  `json:"session_id"`
		SubscriptionID *uint `json:"subscription_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.SessionID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	booking, err := bc.Bookings.BookGroup(middleware.CurrentUserID(c), req.SessionID, req.SubscriptionID)
	if err != nil {
		return respondError(c, err)
	}
	bc.Activity.Log(c, "CREATE", "bookings", booking.ID, fiber.Map{"session_id": req.SessionID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"booking": booking})
}

// MyGroupBookings lists the caller's group seats.
func (bc *BookingController) MyGroupBookings(c *fiber.Ctx) error {
	bookings, err := bc.Bookings.GroupByUser(middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bookings": bookings})
}

// CancelGroupBooking releases one of the caller's group seats.
func (bc *BookingController) CancelGroupBooking(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := bc.Bookings.CancelGroup(id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	bc.Activity.Log(c, "CANCEL", "bookings", id, nil)
	return c.JSON(fiber.Map{"message": "Booking cancelled"})
}

// BookingQR renders a booking's code as a PNG for front-desk check-in.
func (bc *BookingController) BookingQR(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "booking not found"})
	}
	booking, err := bc.Bookings.PersonalByCode(code)
	if err != nil {
		return respondError(c, err)
	}

	// Encode a URL so scanning opens check-in directly
	url := c.BaseURL() + "/api/checkin?code=" + booking.Code
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to generate qr",
		})
	}
	c.Set("Content-Type", "image/png")
	return c.Send(png)
}

// CheckIn completes a booking from a scanned QR code (front desk).
func (bc *BookingController) CheckIn(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
	}
	booking, err := bc.Bookings.CheckInByCode(code)
	if err != nil {
		return respondError(c, err)
	}
	bc.Activity.Log(c, "CHECKIN", "personal_bookings", booking.ID, nil)
	return c.JSON(fiber.Map{"message": "Checked in", "booking": booking})
}

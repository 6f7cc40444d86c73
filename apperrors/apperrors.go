// Package apperrors defines the stable error taxonomy of the booking core.
// Every business failure carries a Kind plus a stable machine code, so the
// HTTP layer can map it without string matching and clients can
// self-correct from the details payload.
package apperrors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an error for transport mapping and retry policy.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindEntitlement    Kind = "entitlement"
	KindIntegrity      Kind = "integrity"
	KindInfrastructure Kind = "infrastructure"
)

// Stable codes. Grouped by module.
const (
	// availability resolver
	CodeNoSchedule       = "no_schedule"
	CodeDayNotAvailable  = "day_not_available"
	CodeTimeNotAvailable = "time_not_available"
	CodeSlotTaken        = "slot_taken"

	// entitlement ledger
	CodeNoEntitlement       = "no_entitlement"
	CodeEntitlementConsumed = "entitlement_consume_failed"
	CodeSubscriptionType    = "subscription_type_not_found"

	// booking transaction manager
	CodeBookingNotFound   = "booking_not_found"
	CodeSessionNotFound   = "session_not_found"
	CodeSessionFull       = "session_full"
	CodeAlreadyBooked     = "already_booked"
	CodeInventoryNotFound = "inventory_not_found"
	CodeTrainerNotFound   = "trainer_not_found"

	// schedule conflict validator
	CodeScheduleOverlap = "schedule_overlap"
	CodeEmptySchedule   = "empty_schedule"

	// reviews
	CodeReviewNotFound  = "review_not_found"
	CodeDuplicateReview = "duplicate_review"
	CodeReviewNotEarned = "review_not_earned"

	// admin guards
	CodeHasUpcomingBookings = "has_upcoming_bookings"
)

// Error is the core's business error. Details is optional structured data
// the caller can display (available days, free time ranges).
type Error struct {
	Kind    Kind                   `json:"kind"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying storage error for logging.
func (e *Error) Unwrap() error { return e.cause }

// WithDetails attaches structured data and returns the same error.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	e.Details = details
	return e
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error  { return newError(KindValidation, code, message) }
func NotFound(code, message string) *Error    { return newError(KindNotFound, code, message) }
func Conflict(code, message string) *Error    { return newError(KindConflict, code, message) }
func Entitlement(code, message string) *Error { return newError(KindEntitlement, code, message) }
func Integrity(code, message string) *Error   { return newError(KindIntegrity, code, message) }

// Infrastructure wraps an unexpected storage error. The original error is
// kept out of the message; it stays available through Unwrap for logging.
func Infrastructure(err error) *Error {
	e := newError(KindInfrastructure, "infrastructure", "temporary storage failure, retry later")
	e.cause = err
	return e
}

// As extracts an *Error if err is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the error's kind, defaulting to infrastructure for
// unclassified errors.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInfrastructure
}

// HTTPStatus maps an error kind to a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindEntitlement:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict, KindIntegrity:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

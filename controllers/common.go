package controllers

import (
	"strconv"

	"fitclub_go/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// respondError renders a business error with its mapped status. Unexpected
// errors are logged and hidden behind a generic message.
func respondError(c *fiber.Ctx, err error) error {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Kind == apperrors.KindInfrastructure {
			logrus.WithError(appErr.Unwrap()).Error("storage failure")
		}
		body := fiber.Map{"error": appErr.Message, "code": appErr.Code}
		if appErr.Details != nil {
			body["details"] = appErr.Details
		}
		return c.Status(apperrors.HTTPStatus(appErr)).JSON(body)
	}
	logrus.WithError(err).Error("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// paramID parses a numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid_id", "invalid "+name)
	}
	return uint(id), nil
}

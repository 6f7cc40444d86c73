package middleware

import (
	"encoding/json"
	"time"

	"fitclub_go/models"
	"fitclub_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LoggerMiddleware logs HTTP requests
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logrus.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"duration":   duration.String(),
			"ip":         c.IP(),
			"user_agent": c.Get("User-Agent"),
		}).Info("HTTP Request")

		return err
	}
}

// ActivityRecorder hands request-scoped audit entries to the buffered log
// service. Handlers call Log after successful mutations.
type ActivityRecorder struct {
	logs *services.ActivityLogService
}

func NewActivityRecorder(logs *services.ActivityLogService) *ActivityRecorder {
	return &ActivityRecorder{logs: logs}
}

// Log records one user action. UserID 0 means an unauthenticated caller.
func (r *ActivityRecorder) Log(c *fiber.Ctx, action, resource string, resourceID uint, details interface{}) {
	var detailsJSON models.JSON
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			detailsJSON = data
		}
	}

	entry := models.ActivityLog{
		UserID:     CurrentUserID(c),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    detailsJSON,
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
	}

	go func(e models.ActivityLog) {
		defer func() {
			if rec := recover(); rec != nil {
				logrus.WithField("panic", rec).Error("panic recovered while recording activity")
			}
		}()
		r.logs.Record(e)
	}(entry)
}

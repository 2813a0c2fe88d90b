package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/fivealab/planner/internal/middleware"
	"github.com/fivealab/planner/internal/services"
	"github.com/fivealab/planner/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// sessionUserID returns the authenticated user's id from the request context.
func sessionUserID(c *fiber.Ctx) (uint64, error) {
	claims := middleware.SessionUser(c)
	if claims == nil {
		return 0, fmt.Errorf("user not found in context")
	}
	return claims.UserID, nil
}

// parseDateQuery reads a query parameter as a YYYY-MM-DD date. An empty
// value falls back to def.
func parseDateQuery(c *fiber.Ctx, name string, def time.Time) (time.Time, error) {
	raw := c.Query(name, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: expected YYYY-MM-DD", name)
	}
	return d, nil
}

// parseDateField parses a YYYY-MM-DD body field.
func parseDateField(name, raw string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: expected YYYY-MM-DD", name)
	}
	return d, nil
}

// serviceErrorResponse maps domain errors onto HTTP responses. Unknown
// errors become a 500 tagged with the operation name.
func serviceErrorResponse(c *fiber.Ctx, err error, operation string) error {
	switch {
	case errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrEmptySchedule),
		errors.Is(err, services.ErrOutOfRange):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, operation)
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "Resource not found")
	case errors.Is(err, services.ErrDuplicateIdentity):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, operation)
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, operation)
	}
}

package handlers

import (
	"errors"
	"log"

	"github.com/clubsplusplus/club_recruitment/services"
	"github.com/gofiber/fiber/v2"
)

// respondError maps scheduling errors to a status and body. Anything it does
// not recognise is logged and reported as a 500.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *services.ValidationError
		overlapErr    *services.OverlapError
		stateErr      *services.StateError
		capacityErr   *services.CapacityExceededError
		authErr       *services.AuthorizationError
		notFoundErr   *services.NotFoundError
		storageErr    *services.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.As(err, &overlapErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  overlapErr.Error(),
			"date":   overlapErr.Date,
			"first":  overlapErr.First,
			"second": overlapErr.Second,
		})
	case errors.As(err, &stateErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "Form is still accepting applications",
			"deadline": stateErr.Deadline,
		})
	case errors.As(err, &capacityErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      capacityErr.Error(),
			"applicants": capacityErr.Applicants,
			"capacity":   capacityErr.Capacity,
			"overflow":   capacityErr.Overflow,
		})
	case errors.As(err, &authErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden: club admin access required",
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFoundErr.Error(),
		})
	case errors.As(err, &storageErr):
		log.Printf("🔥 Storage failure during %s (sqlstate=%q): %v", storageErr.Op, storageErr.SQLState(), storageErr.Err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	log.Printf("🔥 Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

// ErrorHandler is the app-wide fiber error handler. Framework errors keep
// their status and message, everything else goes through respondError, so
// every failure body has the same {"error": ...} shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= fiber.StatusInternalServerError {
			log.Printf("🔥 %s %s: %v", c.Method(), c.Path(), err)
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}
	return respondError(c, err)
}

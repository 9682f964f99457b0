package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/repository"
	"github.com/Andriiy/slotroster-api/internal/service"
)

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals("user_id").(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("missing user in context")
	}
	return id, nil
}

// parseUUIDParam parses a :param path segment as a UUID.
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(name))
}

// parseAirClubQuery reads the airClubId query parameter required by the
// list endpoints.
func parseAirClubQuery(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Query("airClubId")
	if raw == "" {
		return uuid.Nil, errors.New("airClubId query parameter is required")
	}
	return uuid.Parse(raw)
}

// serviceError maps service sentinels onto the shared status taxonomy.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrClubNotFound), errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAccessDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidTimeWindow),
		errors.Is(err, service.ErrNoSubscription),
		errors.Is(err, service.ErrEmailAlreadyInUse):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrSessionNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAccountLocked):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal server error",
			"details": err.Error(),
		})
	}
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Andriiy/slotroster-api/internal/service"
	"github.com/Andriiy/slotroster-api/pkg/validator"
)

type BookingHandler struct {
	bookingService *service.BookingService
	validator      *validator.Validator
}

func NewBookingHandler(bookingService *service.BookingService, v *validator.Validator) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validator:      v,
	}
}

// List returns the club's bookings ordered by start time
// GET /api/bookings?airClubId=
func (h *BookingHandler) List(c *fiber.Ctx) error {
	airClubID, err := parseAirClubQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	bookings, err := h.bookingService.ListByAirClub(c.Context(), airClubID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"bookings": bookings})
}

// Create reserves an aircraft over a time window
// POST /api/bookings
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req service.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := h.bookingService.Create(c.Context(), userID, req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// Delete cancels a booking
// DELETE /api/bookings/:id
func (h *BookingHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	bookingID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid booking id"})
	}

	if err := h.bookingService.Delete(c.Context(), userID, bookingID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "booking deleted"})
}

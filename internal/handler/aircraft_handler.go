package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Andriiy/slotroster-api/internal/service"
	"github.com/Andriiy/slotroster-api/pkg/validator"
)

type AircraftHandler struct {
	aircraftService *service.AircraftService
	validator       *validator.Validator
}

func NewAircraftHandler(aircraftService *service.AircraftService, v *validator.Validator) *AircraftHandler {
	return &AircraftHandler{
		aircraftService: aircraftService,
		validator:       v,
	}
}

// List returns the club's fleet; airClubId is required
// GET /api/aircrafts?airClubId=
func (h *AircraftHandler) List(c *fiber.Ctx) error {
	airClubID, err := parseAirClubQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	aircraft, err := h.aircraftService.ListByAirClub(c.Context(), airClubID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"aircrafts": aircraft})
}

// Create adds an aircraft; the caller must own or belong to the club
// POST /api/aircrafts
func (h *AircraftHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req service.CreateAircraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	aircraft, err := h.aircraftService.Create(c.Context(), userID, req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(aircraft)
}

// Delete removes an aircraft; owner-only
// DELETE /api/aircrafts/:id?airClubId=
func (h *AircraftHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	aircraftID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid aircraft id"})
	}

	airClubID, err := parseAirClubQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.aircraftService.Delete(c.Context(), userID, airClubID, aircraftID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "aircraft deleted"})
}

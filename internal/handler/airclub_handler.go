package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Andriiy/slotroster-api/internal/service"
	"github.com/Andriiy/slotroster-api/pkg/validator"
)

type AirClubHandler struct {
	clubService *service.AirClubService
	validator   *validator.Validator
}

func NewAirClubHandler(clubService *service.AirClubService, v *validator.Validator) *AirClubHandler {
	return &AirClubHandler{
		clubService: clubService,
		validator:   v,
	}
}

// List returns the clubs the caller owns or belongs to, newest first
// GET /api/air-clubs
func (h *AirClubHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	clubs, err := h.clubService.ListForUser(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"air_clubs": clubs})
}

// Get returns a single club
// GET /api/air-clubs/:id
func (h *AirClubHandler) Get(c *fiber.Ctx) error {
	clubID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid air club id"})
	}

	club, err := h.clubService.GetByID(c.Context(), clubID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(club)
}

// Create registers a new club owned by the caller. The trial is not started
// here; clients call the trial endpoint explicitly.
// POST /api/air-clubs
func (h *AirClubHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req service.CreateAirClubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	club, err := h.clubService.Create(c.Context(), userID, req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(club)
}

// Update is owner-only; a foreign club yields 403, a missing one 404
// PUT /api/air-clubs/:id
func (h *AirClubHandler) Update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	clubID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid air club id"})
	}

	var req service.UpdateAirClubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	club, err := h.clubService.Update(c.Context(), userID, clubID, req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(club)
}

// Delete is owner-only
// DELETE /api/air-clubs/:id
func (h *AirClubHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	clubID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid air club id"})
	}

	if err := h.clubService.Delete(c.Context(), userID, clubID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "air club deleted"})
}

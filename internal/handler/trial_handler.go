package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Andriiy/slotroster-api/internal/service"
	"github.com/Andriiy/slotroster-api/pkg/validator"
)

type TrialHandler struct {
	trialService *service.TrialService
	validator    *validator.Validator
}

func NewTrialHandler(trialService *service.TrialService, v *validator.Validator) *TrialHandler {
	return &TrialHandler{
		trialService: trialService,
		validator:    v,
	}
}

// Start opens the 30-day trial window on a club
// POST /api/trial
func (h *TrialHandler) Start(c *fiber.Ctx) error {
	var req service.StartTrialRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	club, err := h.trialService.Start(c.Context(), req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(club)
}

// Status reports the trial state, expiring it lazily when the window has
// passed
// GET /api/trial?airClubId=
func (h *TrialHandler) Status(c *fiber.Ctx) error {
	airClubID, err := parseAirClubQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	status, err := h.trialService.Status(c.Context(), airClubID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"air_club":         status.AirClub,
		"days_remaining":   status.DaysRemaining,
		"can_add_aircraft": status.CanAddAircraft,
		"is_trial_active":  status.IsTrialActive,
	})
}

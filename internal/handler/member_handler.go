package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Andriiy/slotroster-api/internal/service"
)

type MemberHandler struct {
	clubService *service.AirClubService
}

func NewMemberHandler(clubService *service.AirClubService) *MemberHandler {
	return &MemberHandler{clubService: clubService}
}

// List returns the club roster; airClubId is required
// GET /api/members?airClubId=
func (h *MemberHandler) List(c *fiber.Ctx) error {
	airClubID, err := parseAirClubQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	members, err := h.clubService.ListMembers(c.Context(), airClubID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"members": members})
}

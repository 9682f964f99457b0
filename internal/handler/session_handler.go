package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Andriiy/slotroster-api/internal/service"
)

type SessionHandler struct {
	authService *service.AuthService
}

func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{authService: authService}
}

// ListSessions returns the caller's active sessions
// GET /api/sessions
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	sessions, err := h.authService.ListSessions(c.Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}

// RevokeSession deletes one of the caller's sessions
// DELETE /api/sessions/:id
func (h *SessionHandler) RevokeSession(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}

	if err := h.authService.RevokeSession(c.Context(), userID, sessionID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "session revoked"})
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Andriiy/slotroster-api/pkg/blacklist"
	"github.com/Andriiy/slotroster-api/pkg/jwt"
)

// AuthMiddleware validates the bearer token and stores the claims in Locals
func AuthMiddleware(tokenService *jwt.TokenService, tokenBlacklist *blacklist.TokenBlacklist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header format",
			})
		}

		token := parts[1]

		claims, err := tokenService.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		if claims.TokenType != "access" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token type",
			})
		}

		isBlacklisted, err := tokenBlacklist.IsBlacklisted(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to verify token status",
			})
		}
		if isBlacklisted {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "token has been revoked",
			})
		}

		// Password changes invalidate everything issued before them
		if claims.IssuedAt != nil {
			userBlacklisted, err := tokenBlacklist.IsUserBlacklisted(c.Context(), claims.UserID.String(), claims.IssuedAt.Time)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to verify token status",
				})
			}
			if userBlacklisted {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "token invalidated due to password change",
				})
			}
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("email", claims.Email)
		if claims.AirClubID != nil {
			c.Locals("air_club_id", *claims.AirClubID)
		}
		c.Locals("claims", claims)
		c.Locals("token", token)

		return c.Next()
	}
}

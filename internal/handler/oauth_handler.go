package handler

import (
	"log"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Andriiy/slotroster-api/internal/service"
)

type OAuthHandler struct {
	oauthService *service.GoogleOAuthService
	baseURL      string
}

func NewOAuthHandler(oauthService *service.GoogleOAuthService, baseURL string) *OAuthHandler {
	return &OAuthHandler{
		oauthService: oauthService,
		baseURL:      baseURL,
	}
}

// Authorize redirects to the Google consent screen. The optional next
// parameter is carried through state.
// GET /auth/google
func (h *OAuthHandler) Authorize(c *fiber.Ctx) error {
	next := c.Query("next", "/dashboard")
	return c.Redirect(h.oauthService.AuthURL(next), fiber.StatusTemporaryRedirect)
}

// Callback finishes the code exchange. Success redirects to next (default
// /dashboard), or to setup when the identity has no club yet; failures
// redirect back to sign-in with the error in the query string.
// GET /auth/callback
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		return h.redirectSignInError(c, errParam)
	}

	code := c.Query("code")
	if code == "" {
		return h.redirectSignInError(c, "missing_code")
	}

	resp, err := h.oauthService.HandleCallback(c.Context(), code)
	if err != nil {
		log.Printf("[OAUTH] Callback failed: %v", err)
		return h.redirectSignInError(c, "oauth_failed")
	}

	next := sanitizeNext(c.Query("next", c.Query("state")))
	if resp.User.AirClubID == nil {
		next = "/dashboard/setup"
	}

	target := h.baseURL + next +
		"?access_token=" + url.QueryEscape(resp.Tokens.AccessToken) +
		"&refresh_token=" + url.QueryEscape(resp.Tokens.RefreshToken)

	return c.Redirect(target, fiber.StatusTemporaryRedirect)
}

func (h *OAuthHandler) redirectSignInError(c *fiber.Ctx, code string) error {
	return c.Redirect(h.baseURL+"/auth/signin?error="+url.QueryEscape(code), fiber.StatusTemporaryRedirect)
}

// sanitizeNext only accepts local paths, anything else falls back to the
// dashboard.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}

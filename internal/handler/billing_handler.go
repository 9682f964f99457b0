package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/service"
	"github.com/Andriiy/slotroster-api/pkg/validator"
)

type BillingHandler struct {
	billingService *service.BillingService
	validator      *validator.Validator
	baseURL        string
}

func NewBillingHandler(billingService *service.BillingService, v *validator.Validator, baseURL string) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		validator:      v,
		baseURL:        baseURL,
	}
}

// CreateCheckout opens a subscription checkout session
// POST /api/stripe/checkout
func (h *BillingHandler) CreateCheckout(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req service.CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	url, err := h.billingService.CreateCheckout(c.Context(), userID, req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}

// CheckoutSuccess is the redirect target after Stripe checkout; it lands the
// user on the dashboard, or back on the products page when anything failed
// GET /api/stripe/checkout?session_id=
func (h *BillingHandler) CheckoutSuccess(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Redirect(h.baseURL+"/dashboard/products", fiber.StatusTemporaryRedirect)
	}

	path := h.billingService.HandleCheckoutSuccess(c.Context(), sessionID)
	return c.Redirect(h.baseURL+path, fiber.StatusTemporaryRedirect)
}

// GetSubscription returns the provider subscription, null when none exists
// GET /api/stripe/subscription?airClubId=
func (h *BillingHandler) GetSubscription(c *fiber.Ctx) error {
	airClubID, err := parseAirClubQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sub, err := h.billingService.GetSubscriptionForClub(c.Context(), airClubID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"subscription": sub})
}

type cancelSubscriptionRequest struct {
	AirClubID uuid.UUID `json:"air_club_id" validate:"required"`
}

// CancelSubscription flags the subscription to lapse at period end
// POST /api/stripe/subscription/cancel
func (h *BillingHandler) CancelSubscription(c *fiber.Ctx) error {
	var req cancelSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sub, err := h.billingService.CancelSubscription(c.Context(), req.AirClubID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"subscription": sub})
}

type upgradeSubscriptionRequest struct {
	AirClubID     uuid.UUID `json:"air_club_id" validate:"required"`
	PriceID       string    `json:"price_id" validate:"required"`
	PlanName      string    `json:"plan_name"`
	AircraftCount int       `json:"aircraft_count"`
}

// UpgradeSubscription swaps the subscription onto a new price with proration
// POST /api/stripe/subscription/upgrade
func (h *BillingHandler) UpgradeSubscription(c *fiber.Ctx) error {
	var req upgradeSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	sub, err := h.billingService.UpgradeSubscription(c.Context(), req.AirClubID, req.PriceID, req.PlanName, req.AircraftCount)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"subscription": sub})
}

// ListProducts returns the active products and prices
// GET /api/stripe/products
func (h *BillingHandler) ListProducts(c *fiber.Ctx) error {
	products, prices, err := h.billingService.ListProducts(c.Context())
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"products": products,
		"prices":   prices,
	})
}

package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Andriiy/slotroster-api/internal/service"
)

type WebhookHandler struct {
	billingService *service.BillingService
}

func NewWebhookHandler(billingService *service.BillingService) *WebhookHandler {
	return &WebhookHandler{billingService: billingService}
}

// HandleStripeWebhook verifies the signature and reconciles billing state.
// An unverifiable payload is rejected with 400 before any state change; a
// verified one is always acknowledged with 200, whatever happens during
// reconciliation.
// POST /api/stripe/webhook
func (h *WebhookHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing Stripe-Signature header",
		})
	}

	if err := h.billingService.HandleWebhook(c.Context(), c.Body(), signature); err != nil {
		log.Printf("[WEBHOOK] Signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid signature",
		})
	}

	return c.JSON(fiber.Map{"received": true})
}

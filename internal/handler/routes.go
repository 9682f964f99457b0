package handler

import (
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(
	app *fiber.App,
	authHandler *AuthHandler,
	oauthHandler *OAuthHandler,
	sessionHandler *SessionHandler,
	airClubHandler *AirClubHandler,
	aircraftHandler *AircraftHandler,
	memberHandler *MemberHandler,
	bookingHandler *BookingHandler,
	billingHandler *BillingHandler,
	webhookHandler *WebhookHandler,
	trialHandler *TrialHandler,
	jwksHandler *JWKSHandler,
	healthHandler *HealthHandler,
	authMiddleware fiber.Handler,
) {
	// Health checks (public)
	app.Get("/health", healthHandler.Health)
	app.Get("/ready", healthHandler.Ready)

	// Key discovery (public)
	app.Get("/.well-known/jwks.json", jwksHandler.GetJWKS)

	// OAuth browser flow (public)
	app.Get("/auth/google", oauthHandler.Authorize)
	app.Get("/auth/callback", oauthHandler.Callback)

	api := app.Group("/api")

	// Auth (public)
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Post("/logout", authMiddleware, authHandler.Logout)
	auth.Post("/change-password", authMiddleware, authHandler.ChangePassword)

	// Sessions (protected)
	sessions := api.Group("/sessions", authMiddleware)
	sessions.Get("/", sessionHandler.ListSessions)
	sessions.Delete("/:id", sessionHandler.RevokeSession)

	// Air clubs (protected)
	clubs := api.Group("/air-clubs", authMiddleware)
	clubs.Get("/", airClubHandler.List)
	clubs.Post("/", airClubHandler.Create)
	clubs.Get("/:id", airClubHandler.Get)
	clubs.Put("/:id", airClubHandler.Update)
	clubs.Delete("/:id", airClubHandler.Delete)

	// Fleet, roster and bookings (protected)
	aircrafts := api.Group("/aircrafts", authMiddleware)
	aircrafts.Get("/", aircraftHandler.List)
	aircrafts.Post("/", aircraftHandler.Create)
	aircrafts.Delete("/:id", aircraftHandler.Delete)

	api.Get("/members", authMiddleware, memberHandler.List)

	bookings := api.Group("/bookings", authMiddleware)
	bookings.Get("/", bookingHandler.List)
	bookings.Post("/", bookingHandler.Create)
	bookings.Delete("/:id", bookingHandler.Delete)

	// Trial lifecycle (protected)
	api.Post("/trial", authMiddleware, trialHandler.Start)
	api.Get("/trial", authMiddleware, trialHandler.Status)

	// Billing. The checkout redirect and the webhook are reached by Stripe,
	// not by an authenticated browser session.
	stripe := api.Group("/stripe")
	stripe.Post("/checkout", authMiddleware, billingHandler.CreateCheckout)
	stripe.Get("/checkout", billingHandler.CheckoutSuccess)
	stripe.Get("/subscription", authMiddleware, billingHandler.GetSubscription)
	stripe.Post("/subscription/cancel", authMiddleware, billingHandler.CancelSubscription)
	stripe.Post("/subscription/upgrade", authMiddleware, billingHandler.UpgradeSubscription)
	stripe.Get("/products", billingHandler.ListProducts)
	stripe.Post("/webhook", webhookHandler.HandleStripeWebhook)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/billing"
	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
	"github.com/Andriiy/slotroster-api/pkg/email"
)

var ErrNoSubscription = errors.New("air club has no subscription")

type BillingService struct {
	provider billing.Provider
	clubRepo repository.AirClubRepository
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	emailSvc email.EmailService
	baseURL  string
}

type CreateCheckoutRequest struct {
	PriceID       string    `json:"price_id" validate:"required"`
	AirClubID     uuid.UUID `json:"air_club_id" validate:"required"`
	PlanName      string    `json:"plan_name" validate:"required"`
	AircraftCount int       `json:"aircraft_count"`
	ProductType   string    `json:"product_type" validate:"omitempty,oneof=monthly yearly"`
}

func NewBillingService(
	provider billing.Provider,
	clubRepo repository.AirClubRepository,
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	emailSvc email.EmailService,
	baseURL string,
) *BillingService {
	return &BillingService{
		provider: provider,
		clubRepo: clubRepo,
		subRepo:  subRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
		baseURL:  baseURL,
	}
}

// CreateCheckout opens a subscription-mode checkout session for the club and
// returns the hosted payment page URL.
func (s *BillingService) CreateCheckout(ctx context.Context, userID uuid.UUID, req CreateCheckoutRequest) (string, error) {
	club, err := s.clubRepo.GetByID(ctx, req.AirClubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrClubNotFound
		}
		return "", err
	}

	params := billing.CheckoutParams{
		PriceID:           req.PriceID,
		ClientReferenceID: club.ID.String(),
		SuccessURL:        s.baseURL + "/api/stripe/checkout?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         s.baseURL + "/dashboard/products",
		Metadata: map[string]string{
			"airClubId":     club.ID.String(),
			"userId":        userID.String(),
			"planName":      req.PlanName,
			"aircraftCount": strconv.Itoa(req.AircraftCount),
			"productType":   req.ProductType,
		},
	}
	if club.StripeCustomerID != nil {
		params.CustomerID = *club.StripeCustomerID
	}

	session, err := s.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		return "", err
	}

	log.Printf("[BILLING] Created checkout session %s for club %s", session.ID, club.ID)
	return session.URL, nil
}

// HandleCheckoutSuccess finishes the redirect leg of checkout: when the
// session is paid, the club gets its billing references stamped. It returns
// the dashboard path to redirect to; any failure sends the user back to the
// products page.
func (s *BillingService) HandleCheckoutSuccess(ctx context.Context, sessionID string) string {
	const fallback = "/dashboard/products"

	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		log.Printf("[BILLING] Failed to retrieve checkout session %s: %v", sessionID, err)
		return fallback
	}

	if session.PaymentStatus != "paid" {
		log.Printf("[BILLING] Checkout session %s not paid (status %s)", sessionID, session.PaymentStatus)
		return fallback
	}

	clubID, err := uuid.Parse(session.Metadata["airClubId"])
	if err != nil {
		log.Printf("[BILLING] Checkout session %s has no usable airClubId metadata", sessionID)
		return fallback
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		log.Printf("[BILLING] Club %s not found for checkout session %s: %v", clubID, sessionID, err)
		return fallback
	}

	club.StripeCustomerID = strPtr(session.CustomerID)
	club.StripeSubscriptionID = strPtr(session.SubscriptionID)
	club.StripeProductID = strPtr(session.ProductID)
	// Trust the expanded subscription; "active" only when it was not expanded.
	club.SubscriptionStatus = domain.SubscriptionStatusActive
	if session.SubscriptionStatus != "" {
		club.SubscriptionStatus = domain.SubscriptionStatus(session.SubscriptionStatus)
	}
	if plan := session.Metadata["planName"]; plan != "" {
		club.PlanName = plan
	}
	club.UpdatedAt = time.Now()

	if err := s.clubRepo.Update(ctx, club); err != nil {
		log.Printf("[BILLING] Failed to update club %s after checkout: %v", club.ID, err)
		return fallback
	}

	return "/dashboard"
}

// GetSubscriptionForClub returns the provider subscription, or nil when the
// club has never checked out.
func (s *BillingService) GetSubscriptionForClub(ctx context.Context, airClubID uuid.UUID) (*billing.Subscription, error) {
	club, err := s.clubRepo.GetByID(ctx, airClubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	if club.StripeSubscriptionID == nil || *club.StripeSubscriptionID == "" {
		return nil, nil
	}

	return s.provider.GetSubscription(ctx, *club.StripeSubscriptionID)
}

// CancelSubscription flags the provider subscription to lapse at period end
// and marks the club canceled locally. Local write failures are logged, not
// surfaced: the provider-side cancel already happened.
func (s *BillingService) CancelSubscription(ctx context.Context, airClubID uuid.UUID) (*billing.Subscription, error) {
	club, err := s.clubRepo.GetByID(ctx, airClubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	if club.StripeSubscriptionID == nil || *club.StripeSubscriptionID == "" {
		return nil, ErrNoSubscription
	}

	sub, err := s.provider.CancelAtPeriodEnd(ctx, *club.StripeSubscriptionID)
	if err != nil {
		return nil, err
	}

	club.SubscriptionStatus = domain.SubscriptionStatusCanceled
	club.UpdatedAt = time.Now()
	if err := s.clubRepo.Update(ctx, club); err != nil {
		log.Printf("[BILLING] Failed to mark club %s canceled: %v", club.ID, err)
	}
	if err := s.subRepo.UpdateStatusByStripeID(ctx, sub.ID, "canceled", nil, nil); err != nil {
		log.Printf("[BILLING] Failed to mark subscription %s canceled: %v", sub.ID, err)
	}

	return sub, nil
}

// UpgradeSubscription swaps the subscription onto a new price with proration
// and refreshes the club's plan fields.
func (s *BillingService) UpgradeSubscription(ctx context.Context, airClubID uuid.UUID, newPriceID, planName string, aircraftCount int) (*billing.Subscription, error) {
	club, err := s.clubRepo.GetByID(ctx, airClubID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	if club.StripeSubscriptionID == nil || *club.StripeSubscriptionID == "" {
		return nil, ErrNoSubscription
	}

	current, err := s.provider.GetSubscription(ctx, *club.StripeSubscriptionID)
	if err != nil {
		return nil, err
	}

	updated, err := s.provider.UpdateSubscriptionPrice(ctx, current.ID, current.ItemID, newPriceID)
	if err != nil {
		return nil, err
	}

	club.StripeSubscriptionID = strPtr(updated.ID)
	club.SubscriptionStatus = domain.SubscriptionStatus(updated.Status)
	if planName != "" {
		club.PlanName = planName
	}
	if aircraftCount > 0 {
		club.AircraftLimit = aircraftCount
	}
	club.UpdatedAt = time.Now()
	if err := s.clubRepo.Update(ctx, club); err != nil {
		log.Printf("[BILLING] Failed to update club %s after upgrade: %v", club.ID, err)
	}

	return updated, nil
}

func (s *BillingService) ListProducts(ctx context.Context) ([]billing.Product, []billing.Price, error) {
	products, err := s.provider.ListProducts(ctx)
	if err != nil {
		return nil, nil, err
	}
	prices, err := s.provider.ListPrices(ctx)
	if err != nil {
		return nil, nil, err
	}
	return products, prices, nil
}

// HandleWebhook verifies the payload signature and reconciles local state.
// A signature failure is returned to the caller (400); once verified, every
// reconciliation failure is logged and swallowed so Stripe never retries a
// half-applied event into a different ordering.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	s.Reconcile(ctx, event)
	return nil
}

// Reconcile applies one verified billing event. Last write wins; all store
// errors are logged, never returned.
func (s *BillingService) Reconcile(ctx context.Context, event *billing.Event) {
	switch event.Type {
	case billing.EventCheckoutCompleted:
		s.reconcileCheckoutCompleted(ctx, event.CheckoutSession)
	case billing.EventSubscriptionUpdated:
		if event.Subscription != nil {
			s.setSubscriptionStatus(ctx, event.Subscription.ID, event.Subscription.Status,
				periodPtr(event.Subscription.CurrentPeriodStart), periodPtr(event.Subscription.CurrentPeriodEnd))
		}
	case billing.EventSubscriptionDeleted:
		if event.Subscription != nil {
			s.setSubscriptionStatus(ctx, event.Subscription.ID, "canceled", nil, nil)
		}
	case billing.EventInvoicePaid:
		if event.InvoiceSubscriptionID != "" {
			s.setSubscriptionStatus(ctx, event.InvoiceSubscriptionID, "active", nil, nil)
		}
	case billing.EventInvoiceFailed:
		if event.InvoiceSubscriptionID != "" {
			s.setSubscriptionStatus(ctx, event.InvoiceSubscriptionID, "past_due", nil, nil)
		}
	default:
		log.Printf("[BILLING] Ignoring webhook event type %s", event.Type)
	}
}

func (s *BillingService) reconcileCheckoutCompleted(ctx context.Context, session *billing.CheckoutSession) {
	if session == nil || session.Mode != "subscription" {
		return
	}

	sub, err := s.provider.GetSubscription(ctx, session.SubscriptionID)
	if err != nil {
		log.Printf("[BILLING] Failed to retrieve subscription %s: %v", session.SubscriptionID, err)
		return
	}

	clubID, err := uuid.Parse(session.Metadata["airClubId"])
	if err != nil {
		log.Printf("[BILLING] checkout.session.completed without usable airClubId metadata, skipping")
		return
	}
	userID, err := uuid.Parse(session.Metadata["userId"])
	if err != nil {
		log.Printf("[BILLING] checkout.session.completed without usable userId metadata, skipping")
		return
	}
	aircraftCount, _ := strconv.Atoi(session.Metadata["aircraftCount"])
	productType := session.Metadata["productType"]
	planName := checkoutPlanName(aircraftCount, productType)

	periodStart := sub.CurrentPeriodStart
	periodEnd := sub.CurrentPeriodEnd
	if periodStart.IsZero() {
		periodStart = time.Now()
	}
	if periodEnd.IsZero() {
		periodEnd = time.Now()
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		log.Printf("[BILLING] Club %s not found during reconciliation: %v", clubID, err)
		return
	}

	club.StripeCustomerID = strPtr(sub.CustomerID)
	club.StripeSubscriptionID = strPtr(sub.ID)
	club.StripeProductID = strPtr(session.ProductID)
	club.PlanName = planName
	club.SubscriptionStatus = domain.SubscriptionStatus(sub.Status)
	club.SubscriptionStart = &periodStart
	club.SubscriptionEnd = &periodEnd
	if aircraftCount > 0 {
		club.AircraftLimit = aircraftCount
	}
	club.UpdatedAt = time.Now()

	if err := s.clubRepo.Update(ctx, club); err != nil {
		log.Printf("[BILLING] Failed to update club %s from checkout event: %v", club.ID, err)
	}

	now := time.Now()
	mirror := &domain.Subscription{
		ID:                   uuid.New(),
		StripeSubscriptionID: sub.ID,
		StripeCustomerID:     strPtr(sub.CustomerID),
		AirClubID:            clubID,
		UserID:               userID,
		Status:               sub.Status,
		PlanType:             productType,
		AircraftCount:        aircraftCount,
		Amount:               sub.UnitAmount,
		Currency:             sub.Currency,
		CurrentPeriodStart:   periodStart,
		CurrentPeriodEnd:     periodEnd,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.subRepo.Create(ctx, mirror); err != nil {
		log.Printf("[BILLING] Failed to record subscription %s: %v", sub.ID, err)
	}

	s.sendConfirmation(ctx, userID, planName)
}

// setSubscriptionStatus applies a status change to both the club and the
// mirror row, matched by the provider subscription id.
func (s *BillingService) setSubscriptionStatus(ctx context.Context, stripeSubID, status string, periodStart, periodEnd *time.Time) {
	club, err := s.clubRepo.GetByStripeSubscriptionID(ctx, stripeSubID)
	if err != nil {
		log.Printf("[BILLING] No club for subscription %s: %v", stripeSubID, err)
	} else {
		club.SubscriptionStatus = domain.SubscriptionStatus(status)
		if periodStart != nil {
			club.SubscriptionStart = periodStart
		}
		if periodEnd != nil {
			club.SubscriptionEnd = periodEnd
		}
		club.UpdatedAt = time.Now()
		if err := s.clubRepo.Update(ctx, club); err != nil {
			log.Printf("[BILLING] Failed to update club %s status: %v", club.ID, err)
		}
	}

	if err := s.subRepo.UpdateStatusByStripeID(ctx, stripeSubID, status, periodStart, periodEnd); err != nil {
		log.Printf("[BILLING] Failed to update subscription %s status: %v", stripeSubID, err)
	}
}

func (s *BillingService) sendConfirmation(ctx context.Context, userID uuid.UUID, planName string) {
	if s.emailSvc == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("[BILLING] Skipping confirmation email, user %s not found: %v", userID, err)
		return
	}
	if err := s.emailSvc.SendSubscriptionConfirmationEmail(ctx, user.Email, user.FullName, planName); err != nil {
		log.Printf("[BILLING] Failed to send confirmation email to %s: %v", user.Email, err)
	}
}

// checkoutPlanName renders the plan label stored on the club, e.g.
// "3 Aircraft - Monthly Plan".
func checkoutPlanName(aircraftCount int, productType string) string {
	interval := "Monthly"
	if strings.EqualFold(productType, "yearly") {
		interval = "Yearly"
	}
	return fmt.Sprintf("%d Aircraft - %s Plan", aircraftCount, interval)
}

func periodPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Andriiy/slotroster-api/internal/billing"
	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository/memory"
)

// fakeProvider is an in-memory billing.Provider double.
type fakeProvider struct {
	subscriptions map[string]*billing.Subscription
	sessions      map[string]*billing.CheckoutSession
	parsed        *billing.Event
	parseErr      error
	canceled      []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		subscriptions: make(map[string]*billing.Subscription),
		sessions:      make(map[string]*billing.CheckoutSession),
	}
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (*billing.CheckoutSession, error) {
	s := &billing.CheckoutSession{
		ID:       "cs_test",
		URL:      "https://checkout.example/cs_test",
		Mode:     "subscription",
		Metadata: params.Metadata,
	}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("no such session")
	}
	return s, nil
}

func (f *fakeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	s, ok := f.subscriptions[subscriptionID]
	if !ok {
		return nil, errors.New("no such subscription")
	}
	return s, nil
}

func (f *fakeProvider) UpdateSubscriptionPrice(ctx context.Context, subscriptionID, itemID, newPriceID string) (*billing.Subscription, error) {
	s, ok := f.subscriptions[subscriptionID]
	if !ok {
		return nil, errors.New("no such subscription")
	}
	s.PriceID = newPriceID
	return s, nil
}

func (f *fakeProvider) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*billing.Subscription, error) {
	s, ok := f.subscriptions[subscriptionID]
	if !ok {
		return nil, errors.New("no such subscription")
	}
	s.CancelAtPeriodEnd = true
	f.canceled = append(f.canceled, subscriptionID)
	return s, nil
}

func (f *fakeProvider) ListPrices(ctx context.Context) ([]billing.Price, error)     { return nil, nil }
func (f *fakeProvider) ListProducts(ctx context.Context) ([]billing.Product, error) { return nil, nil }

func (f *fakeProvider) ParseWebhook(payload []byte, signature string) (*billing.Event, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.parsed, nil
}

type billingFixture struct {
	svc      *BillingService
	provider *fakeProvider
	clubRepo *memory.AirClubRepository
	subRepo  *memory.SubscriptionRepository
	userRepo *memory.UserRepository
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	provider := newFakeProvider()
	clubRepo := memory.NewAirClubRepository()
	subRepo := memory.NewSubscriptionRepository()
	userRepo := memory.NewUserRepository()
	svc := NewBillingService(provider, clubRepo, subRepo, userRepo, nil, "http://localhost:3000")
	return &billingFixture{svc: svc, provider: provider, clubRepo: clubRepo, subRepo: subRepo, userRepo: userRepo}
}

func TestReconcileCheckoutCompleted(t *testing.T) {
	f := newBillingFixture(t)
	club := seedClub(t, f.clubRepo, nil)
	userID := uuid.New()

	periodStart := time.Now().Truncate(time.Second)
	periodEnd := periodStart.Add(30 * 24 * time.Hour)
	f.provider.subscriptions["sub_1"] = &billing.Subscription{
		ID:                 "sub_1",
		CustomerID:         "cus_1",
		Status:             "active",
		Currency:           "usd",
		UnitAmount:         4900,
		CurrentPeriodStart: periodStart,
		CurrentPeriodEnd:   periodEnd,
	}

	f.svc.Reconcile(context.Background(), &billing.Event{
		Type: billing.EventCheckoutCompleted,
		CheckoutSession: &billing.CheckoutSession{
			ID:             "cs_1",
			Mode:           "subscription",
			SubscriptionID: "sub_1",
			ProductID:      "prod_1",
			Metadata: map[string]string{
				"airClubId":     club.ID.String(),
				"userId":        userID.String(),
				"planName":      "Small Fleet",
				"aircraftCount": "3",
				"productType":   "monthly",
			},
		},
	})

	stored, err := f.clubRepo.GetByID(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.StripeSubscriptionID == nil || *stored.StripeSubscriptionID != "sub_1" {
		t.Errorf("subscription id = %v, want sub_1", stored.StripeSubscriptionID)
	}
	if stored.StripeCustomerID == nil || *stored.StripeCustomerID != "cus_1" {
		t.Errorf("customer id = %v, want cus_1", stored.StripeCustomerID)
	}
	if stored.StripeProductID == nil || *stored.StripeProductID != "prod_1" {
		t.Errorf("product id = %v, want prod_1", stored.StripeProductID)
	}
	if stored.PlanName != "3 Aircraft - Monthly Plan" {
		t.Errorf("plan name = %q, want \"3 Aircraft - Monthly Plan\"", stored.PlanName)
	}
	if stored.SubscriptionStatus != domain.SubscriptionStatusActive {
		t.Errorf("status = %s, want active", stored.SubscriptionStatus)
	}
	if stored.AircraftLimit != 3 {
		t.Errorf("aircraft limit = %d, want 3", stored.AircraftLimit)
	}

	if n := f.subRepo.Count(); n != 1 {
		t.Fatalf("mirror rows = %d, want exactly 1", n)
	}
	mirror, err := f.subRepo.GetByStripeID(context.Background(), "sub_1")
	if err != nil {
		t.Fatalf("GetByStripeID: %v", err)
	}
	if mirror.AirClubID != club.ID || mirror.UserID != userID {
		t.Error("mirror row has wrong club or user reference")
	}
	if mirror.Amount != 4900 || mirror.Currency != "usd" {
		t.Errorf("mirror amount/currency = %d/%s, want 4900/usd", mirror.Amount, mirror.Currency)
	}
	if mirror.PlanType != "monthly" || mirror.AircraftCount != 3 {
		t.Errorf("mirror plan = %s/%d, want monthly/3", mirror.PlanType, mirror.AircraftCount)
	}
}

func TestReconcileStatusEvents(t *testing.T) {
	cases := []struct {
		name       string
		event      func(subID string) *billing.Event
		wantStatus string
	}{
		{
			"subscription updated",
			func(subID string) *billing.Event {
				return &billing.Event{
					Type:         billing.EventSubscriptionUpdated,
					Subscription: &billing.Subscription{ID: subID, Status: "past_due"},
				}
			},
			"past_due",
		},
		{
			"subscription deleted",
			func(subID string) *billing.Event {
				return &billing.Event{
					Type:         billing.EventSubscriptionDeleted,
					Subscription: &billing.Subscription{ID: subID, Status: "canceled"},
				}
			},
			"canceled",
		},
		{
			"invoice paid",
			func(subID string) *billing.Event {
				return &billing.Event{Type: billing.EventInvoicePaid, InvoiceSubscriptionID: subID}
			},
			"active",
		},
		{
			"invoice failed",
			func(subID string) *billing.Event {
				return &billing.Event{Type: billing.EventInvoiceFailed, InvoiceSubscriptionID: subID}
			},
			"past_due",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newBillingFixture(t)
			subID := "sub_" + tc.name
			club := seedClub(t, f.clubRepo, func(c *domain.AirClub) {
				c.StripeSubscriptionID = &subID
				c.SubscriptionStatus = domain.SubscriptionStatusActive
			})
			if err := f.subRepo.Create(context.Background(), &domain.Subscription{
				ID:                   uuid.New(),
				StripeSubscriptionID: subID,
				AirClubID:            club.ID,
				UserID:               uuid.New(),
				Status:               "active",
			}); err != nil {
				t.Fatalf("seed mirror: %v", err)
			}

			f.svc.Reconcile(context.Background(), tc.event(subID))

			stored, err := f.clubRepo.GetByID(context.Background(), club.ID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if string(stored.SubscriptionStatus) != tc.wantStatus {
				t.Errorf("club status = %s, want %s", stored.SubscriptionStatus, tc.wantStatus)
			}

			mirror, err := f.subRepo.GetByStripeID(context.Background(), subID)
			if err != nil {
				t.Fatalf("GetByStripeID: %v", err)
			}
			if mirror.Status != tc.wantStatus {
				t.Errorf("mirror status = %s, want %s", mirror.Status, tc.wantStatus)
			}
		})
	}
}

func TestReconcileUnknownSubscriptionIsSwallowed(t *testing.T) {
	f := newBillingFixture(t)
	club := seedClub(t, f.clubRepo, func(c *domain.AirClub) {
		c.SubscriptionStatus = domain.SubscriptionStatusActive
	})

	// Must not panic or touch unrelated rows
	f.svc.Reconcile(context.Background(), &billing.Event{
		Type:                  billing.EventInvoiceFailed,
		InvoiceSubscriptionID: "sub_unknown",
	})

	stored, err := f.clubRepo.GetByID(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.SubscriptionStatus != domain.SubscriptionStatusActive {
		t.Errorf("unrelated club status changed to %s", stored.SubscriptionStatus)
	}
	if f.subRepo.Count() != 0 {
		t.Error("mirror row appeared out of nowhere")
	}
}

func TestHandleWebhookSignatureFailure(t *testing.T) {
	f := newBillingFixture(t)
	club := seedClub(t, f.clubRepo, nil)
	f.provider.parseErr = errors.New("signature mismatch")

	if err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "bad"); err == nil {
		t.Fatal("expected signature error to surface")
	}

	stored, err := f.clubRepo.GetByID(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.SubscriptionStatus != domain.SubscriptionStatusInactive {
		t.Error("state changed despite signature failure")
	}
	if f.subRepo.Count() != 0 {
		t.Error("mirror row created despite signature failure")
	}
}

func TestCancelSubscription(t *testing.T) {
	f := newBillingFixture(t)
	subID := "sub_cancel"
	club := seedClub(t, f.clubRepo, func(c *domain.AirClub) {
		c.StripeSubscriptionID = &subID
		c.SubscriptionStatus = domain.SubscriptionStatusActive
	})
	f.provider.subscriptions[subID] = &billing.Subscription{ID: subID, Status: "active"}

	sub, err := f.svc.CancelSubscription(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("CancelSubscription: %v", err)
	}
	if !sub.CancelAtPeriodEnd {
		t.Error("provider subscription not flagged to cancel at period end")
	}

	stored, err := f.clubRepo.GetByID(context.Background(), club.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.SubscriptionStatus != domain.SubscriptionStatusCanceled {
		t.Errorf("club status = %s, want canceled", stored.SubscriptionStatus)
	}
}

func TestCancelSubscriptionWithoutOne(t *testing.T) {
	f := newBillingFixture(t)
	club := seedClub(t, f.clubRepo, nil)

	if _, err := f.svc.CancelSubscription(context.Background(), club.ID); !errors.Is(err, ErrNoSubscription) {
		t.Errorf("error = %v, want ErrNoSubscription", err)
	}
}

func TestCreateCheckoutUnknownClub(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.svc.CreateCheckout(context.Background(), uuid.New(), CreateCheckoutRequest{
		PriceID:   "price_1",
		AirClubID: uuid.New(),
		PlanName:  "Small Fleet",
	})
	if !errors.Is(err, ErrClubNotFound) {
		t.Errorf("error = %v, want ErrClubNotFound", err)
	}
}

func TestHandleCheckoutSuccessSubscriptionStatus(t *testing.T) {
	cases := []struct {
		name          string
		sessionStatus string
		want          domain.SubscriptionStatus
	}{
		{"expanded trialing subscription", "trialing", domain.SubscriptionStatusTrialing},
		{"unexpanded defaults to active", "", domain.SubscriptionStatusActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newBillingFixture(t)
			club := seedClub(t, f.clubRepo, nil)

			f.provider.sessions["cs_done"] = &billing.CheckoutSession{
				ID:                 "cs_done",
				Mode:               "subscription",
				PaymentStatus:      "paid",
				CustomerID:         "cus_done",
				SubscriptionID:     "sub_done",
				SubscriptionStatus: tc.sessionStatus,
				Metadata:           map[string]string{"airClubId": club.ID.String()},
			}

			if path := f.svc.HandleCheckoutSuccess(context.Background(), "cs_done"); path != "/dashboard" {
				t.Fatalf("redirect = %q, want /dashboard", path)
			}

			stored, err := f.clubRepo.GetByID(context.Background(), club.ID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if stored.SubscriptionStatus != tc.want {
				t.Errorf("club status = %s, want %s", stored.SubscriptionStatus, tc.want)
			}
			if stored.StripeSubscriptionID == nil || *stored.StripeSubscriptionID != "sub_done" {
				t.Errorf("subscription id = %v, want sub_done", stored.StripeSubscriptionID)
			}
		})
	}
}

func TestCreateCheckoutCarriesMetadata(t *testing.T) {
	f := newBillingFixture(t)
	club := seedClub(t, f.clubRepo, nil)
	userID := uuid.New()

	url, err := f.svc.CreateCheckout(context.Background(), userID, CreateCheckoutRequest{
		PriceID:       "price_1",
		AirClubID:     club.ID,
		PlanName:      "Small Fleet",
		AircraftCount: 3,
		ProductType:   "monthly",
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if url == "" {
		t.Fatal("expected a checkout URL")
	}

	session := f.provider.sessions["cs_test"]
	if session == nil {
		t.Fatal("no session recorded")
	}
	for key, want := range map[string]string{
		"airClubId":     club.ID.String(),
		"userId":        userID.String(),
		"planName":      "Small Fleet",
		"aircraftCount": "3",
		"productType":   "monthly",
	} {
		if got := session.Metadata[key]; got != want {
			t.Errorf("metadata[%s] = %q, want %q", key, got, want)
		}
	}
}

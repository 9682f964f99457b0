// Package billing abstracts the payment provider behind a small interface so
// the reconciliation flow can be exercised without network calls.
package billing

import (
	"context"
	"time"
)

// CheckoutParams describes a subscription-mode checkout session.
type CheckoutParams struct {
	PriceID           string
	CustomerID        string // empty for first-time buyers
	ClientReferenceID string
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
}

// CheckoutSession is the provider-neutral view of a checkout session.
// SubscriptionStatus is populated only when the session was retrieved with
// its subscription expanded.
type CheckoutSession struct {
	ID                 string
	URL                string
	Mode               string
	PaymentStatus      string
	CustomerID         string
	SubscriptionID     string
	SubscriptionStatus string
	ProductID          string
	Metadata           map[string]string
}

// Subscription is the provider-neutral view of a provider subscription.
// Period fields are zero when the provider omits them.
type Subscription struct {
	ID                 string
	CustomerID         string
	Status             string
	Currency           string
	CancelAtPeriodEnd  bool
	ItemID             string
	PriceID            string
	PriceNickname      string
	UnitAmount         int64
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}

type Price struct {
	ID         string
	ProductID  string
	Nickname   string
	Interval   string
	UnitAmount int64
	Currency   string
}

type Product struct {
	ID          string
	Name        string
	Description string
}

// Webhook event types handled by the reconciliation flow.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventInvoicePaid         = "invoice.payment_succeeded"
	EventInvoiceFailed       = "invoice.payment_failed"
)

// Event is a verified, parsed webhook event. Exactly one of the payload
// fields is populated depending on Type; unhandled types carry none.
type Event struct {
	Type                  string
	CheckoutSession       *CheckoutSession
	Subscription          *Subscription
	InvoiceSubscriptionID string
}

// Provider is the payment gateway used by the billing service.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	// GetCheckoutSession retrieves a session with its subscription and line
	// items expanded.
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
	UpdateSubscriptionPrice(ctx context.Context, subscriptionID, itemID, newPriceID string) (*Subscription, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*Subscription, error)
	ListPrices(ctx context.Context) ([]Price, error)
	ListProducts(ctx context.Context) ([]Product, error)
	// ParseWebhook verifies the signature and maps the payload into an Event.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

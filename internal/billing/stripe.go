package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/price"
	"github.com/stripe/stripe-go/v82/product"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeProvider implements Provider using the Stripe API.
type StripeProvider struct {
	webhookSecret string
}

// NewStripeProvider configures the global Stripe key and returns a provider
// bound to the given webhook signing secret.
func NewStripeProvider(apiKey, webhookSecret string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{webhookSecret: webhookSecret}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	sessParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(params.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:          stripe.String(params.SuccessURL),
		CancelURL:           stripe.String(params.CancelURL),
		ClientReferenceID:   stripe.String(params.ClientReferenceID),
		AllowPromotionCodes: stripe.Bool(true),
	}
	sessParams.Context = ctx
	if params.CustomerID != "" {
		sessParams.Customer = stripe.String(params.CustomerID)
	}
	for k, v := range params.Metadata {
		sessParams.AddMetadata(k, v)
	}

	s, err := session.New(sessParams)
	if err != nil {
		return nil, fmt.Errorf("billing: create checkout session: %w", err)
	}

	return mapCheckoutSession(s), nil
}

func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("subscription")
	params.AddExpand("line_items.data.price.product")

	s, err := session.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("billing: get checkout session: %w", err)
	}

	return mapCheckoutSession(s), nil
}

func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("billing: get subscription: %w", err)
	}

	return mapSubscription(sub), nil
}

func (p *StripeProvider) UpdateSubscriptionPrice(ctx context.Context, subscriptionID, itemID, newPriceID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(itemID),
				Price: stripe.String(newPriceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}
	params.Context = ctx

	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("billing: update subscription price: %w", err)
	}

	return mapSubscription(sub), nil
}

func (p *StripeProvider) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	sub, err := subscription.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("billing: cancel subscription: %w", err)
	}

	return mapSubscription(sub), nil
}

func (p *StripeProvider) ListPrices(ctx context.Context) ([]Price, error) {
	params := &stripe.PriceListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx

	var out []Price
	it := price.List(params)
	for it.Next() {
		pr := it.Price()
		mapped := Price{
			ID:         pr.ID,
			Nickname:   pr.Nickname,
			UnitAmount: pr.UnitAmount,
			Currency:   string(pr.Currency),
		}
		if pr.Product != nil {
			mapped.ProductID = pr.Product.ID
		}
		if pr.Recurring != nil {
			mapped.Interval = string(pr.Recurring.Interval)
		}
		out = append(out, mapped)
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("billing: list prices: %w", err)
	}

	return out, nil
}

func (p *StripeProvider) ListProducts(ctx context.Context) ([]Product, error) {
	params := &stripe.ProductListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx

	var out []Product
	it := product.List(params)
	for it.Next() {
		pr := it.Product()
		out = append(out, Product{
			ID:          pr.ID,
			Name:        pr.Name,
			Description: pr.Description,
		})
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("billing: list products: %w", err)
	}

	return out, nil
}

// ParseWebhook verifies the Stripe signature and maps the known event types.
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("billing: webhook signature verification failed: %w", err)
	}

	out := &Event{Type: string(event.Type)}

	switch out.Type {
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("billing: parse checkout session event: %w", err)
		}
		out.CheckoutSession = mapCheckoutSession(&s)

	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("billing: parse subscription event: %w", err)
		}
		out.Subscription = mapSubscription(&sub)

	case EventInvoicePaid, EventInvoiceFailed:
		// The subscription ref moved between API versions; accept both shapes.
		var inv struct {
			Subscription string `json:"subscription"`
			Parent       struct {
				SubscriptionDetails struct {
					Subscription string `json:"subscription"`
				} `json:"subscription_details"`
			} `json:"parent"`
		}
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("billing: parse invoice event: %w", err)
		}
		out.InvoiceSubscriptionID = inv.Subscription
		if out.InvoiceSubscriptionID == "" {
			out.InvoiceSubscriptionID = inv.Parent.SubscriptionDetails.Subscription
		}
	}

	return out, nil
}

func mapCheckoutSession(s *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		Mode:          string(s.Mode),
		PaymentStatus: string(s.PaymentStatus),
		Metadata:      s.Metadata,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Subscription != nil {
		out.SubscriptionID = s.Subscription.ID
		out.SubscriptionStatus = string(s.Subscription.Status)
	}
	if s.LineItems != nil && len(s.LineItems.Data) > 0 {
		li := s.LineItems.Data[0]
		if li.Price != nil && li.Price.Product != nil {
			out.ProductID = li.Price.Product.ID
		}
	}
	return out
}

func mapSubscription(sub *stripe.Subscription) *Subscription {
	out := &Subscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		Currency:          string(sub.Currency),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		out.ItemID = item.ID
		if item.Price != nil {
			out.PriceID = item.Price.ID
			out.PriceNickname = item.Price.Nickname
			out.UnitAmount = item.Price.UnitAmount
		}
		if item.CurrentPeriodStart > 0 {
			out.CurrentPeriodStart = time.Unix(item.CurrentPeriodStart, 0).UTC()
		}
		if item.CurrentPeriodEnd > 0 {
			out.CurrentPeriodEnd = time.Unix(item.CurrentPeriodEnd, 0).UTC()
		}
	}
	return out
}

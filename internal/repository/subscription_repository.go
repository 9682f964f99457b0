package repository

import (
	"context"
	"time"

	"github.com/Andriiy/slotroster-api/internal/domain"
)

type SubscriptionRepository interface {
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*domain.Subscription, error)
	Create(ctx context.Context, sub *domain.Subscription) error
	// UpdateStatusByStripeID sets the status and, when non-nil, refreshes the
	// billing period of the record matching the provider subscription id.
	UpdateStatusByStripeID(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd *time.Time) error
}

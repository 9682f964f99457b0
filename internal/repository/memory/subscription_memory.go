package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type SubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]domain.Subscription // keyed by stripe subscription id
}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{subs: make(map[string]domain.Subscription)}
}

func (r *SubscriptionRepository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*domain.Subscription, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[stripeSubscriptionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := sub
	return &c, nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs[sub.StripeSubscriptionID] = *sub
	return nil
}

func (r *SubscriptionRepository) UpdateStatusByStripeID(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd *time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[stripeSubscriptionID]
	if !ok {
		// Matches the SQL UPDATE: zero rows affected is not an error.
		return nil
	}
	sub.Status = status
	if periodStart != nil && periodEnd != nil {
		sub.CurrentPeriodStart = *periodStart
		sub.CurrentPeriodEnd = *periodEnd
	}
	sub.UpdatedAt = time.Now()
	r.subs[stripeSubscriptionID] = sub
	return nil
}

// Count reports the number of stored records. Test helper.
func (r *SubscriptionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

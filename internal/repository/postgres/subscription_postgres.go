package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Andriiy/slotroster-api/internal/domain"
	"github.com/Andriiy/slotroster-api/internal/repository"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new PostgreSQL subscription repository
func NewSubscriptionRepository(db *sqlx.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*domain.Subscription, error) {
	query := `
		SELECT id, stripe_subscription_id, stripe_customer_id, air_club_id, user_id,
			   status, plan_type, aircraft_count, amount, currency,
			   current_period_start, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE stripe_subscription_id = $1`

	var sub domain.Subscription
	err := r.db.GetContext(ctx, &sub, query, stripeSubscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &sub, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, stripe_subscription_id, stripe_customer_id, air_club_id, user_id,
			status, plan_type, aircraft_count, amount, currency,
			current_period_start, current_period_end, created_at, updated_at
		) VALUES (
			:id, :stripe_subscription_id, :stripe_customer_id, :air_club_id, :user_id,
			:status, :plan_type, :aircraft_count, :amount, :currency,
			:current_period_start, :current_period_end, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, sub)
	if err != nil {
		return fmt.Errorf("failed to create subscription record: %w", err)
	}

	return nil
}

func (r *subscriptionRepository) UpdateStatusByStripeID(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd *time.Time) error {
	var err error
	if periodStart != nil && periodEnd != nil {
		query := `
			UPDATE subscriptions
			SET status = $2, current_period_start = $3, current_period_end = $4, updated_at = NOW()
			WHERE stripe_subscription_id = $1`
		_, err = r.db.ExecContext(ctx, query, stripeSubscriptionID, status, periodStart, periodEnd)
	} else {
		query := `
			UPDATE subscriptions
			SET status = $2, updated_at = NOW()
			WHERE stripe_subscription_id = $1`
		_, err = r.db.ExecContext(ctx, query, stripeSubscriptionID, status)
	}

	if err != nil {
		return fmt.Errorf("failed to update subscription record: %w", err)
	}

	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is the denormalized mirror of a Stripe subscription, kept
// alongside the fields already stamped on AirClub as an audit/query
// convenience. Keyed by the provider subscription id.
type Subscription struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	StripeSubscriptionID string    `json:"stripe_subscription_id" db:"stripe_subscription_id"`
	StripeCustomerID     *string   `json:"stripe_customer_id,omitempty" db:"stripe_customer_id"`
	AirClubID            uuid.UUID `json:"air_club_id" db:"air_club_id"`
	UserID               uuid.UUID `json:"user_id" db:"user_id"`
	Status               string    `json:"status" db:"status"`
	PlanType             string    `json:"plan_type" db:"plan_type"`
	AircraftCount        int       `json:"aircraft_count" db:"aircraft_count"`
	Amount               int64     `json:"amount" db:"amount"`
	Currency             string    `json:"currency" db:"currency"`
	CurrentPeriodStart   time.Time `json:"current_period_start" db:"current_period_start"`
	CurrentPeriodEnd     time.Time `json:"current_period_end" db:"current_period_end"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

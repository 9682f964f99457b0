package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus mirrors the Stripe subscription status vocabulary plus
// the local "inactive" state a club has before any billing event is seen.
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// AirClub is the tenant: a flying club owning aircraft, members and a
// subscription. Billing reference fields are written by the Stripe
// reconciliation flow, trial fields by the trial lifecycle.
type AirClub struct {
	ID                   uuid.UUID          `json:"id" db:"id"`
	Name                 string             `json:"name" db:"name"`
	Address              *string            `json:"address,omitempty" db:"address"`
	Phone                *string            `json:"phone,omitempty" db:"phone"`
	Email                string             `json:"email" db:"email"`
	Airport              string             `json:"airport" db:"airport"`
	Description          *string            `json:"description,omitempty" db:"description"`
	Website              *string            `json:"website,omitempty" db:"website"`
	StripeCustomerID     *string            `json:"stripe_customer_id,omitempty" db:"stripe_customer_id"`
	StripeSubscriptionID *string            `json:"stripe_subscription_id,omitempty" db:"stripe_subscription_id"`
	StripeProductID      *string            `json:"stripe_product_id,omitempty" db:"stripe_product_id"`
	PlanName             string             `json:"plan_name" db:"plan_name"`
	SubscriptionStatus   SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	SubscriptionStart    *time.Time         `json:"subscription_start_date,omitempty" db:"subscription_start_date"`
	SubscriptionEnd      *time.Time         `json:"subscription_end_date,omitempty" db:"subscription_end_date"`
	AircraftLimit        int                `json:"aircraft_limit" db:"aircraft_limit"`
	TrialStartDate       *time.Time         `json:"trial_start_date,omitempty" db:"trial_start_date"`
	TrialEndDate         *time.Time         `json:"trial_end_date,omitempty" db:"trial_end_date"`
	IsTrialActive        bool               `json:"is_trial_active" db:"is_trial_active"`
	TrialPlanName        *string            `json:"trial_plan_name,omitempty" db:"trial_plan_name"`
	TrialAircraftLimit   *int               `json:"trial_aircraft_limit,omitempty" db:"trial_aircraft_limit"`
	CreatedBy            uuid.UUID          `json:"created_by" db:"created_by"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at" db:"updated_at"`
}

// DefaultPlanName is the plan a club carries before any checkout or trial.
const DefaultPlanName = "Free"

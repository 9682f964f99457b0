package email

import (
	"context"
	"time"
)

// EmailService defines the interface for sending transactional mail
type EmailService interface {
	// SendWelcomeEmail greets a newly registered club owner
	SendWelcomeEmail(ctx context.Context, to, name, clubName string) error

	// SendTrialStartedEmail confirms the trial window for a new club
	SendTrialStartedEmail(ctx context.Context, to, name, clubName string, trialEnd time.Time) error

	// SendSubscriptionConfirmationEmail confirms a completed checkout
	SendSubscriptionConfirmationEmail(ctx context.Context, to, name, planName string) error

	// SendPasswordChangedEmail notifies the user their password changed
	SendPasswordChangedEmail(ctx context.Context, to, name string) error
}

// EmailConfig holds sender configuration
type EmailConfig struct {
	APIKey    string
	FromName  string
	FromEmail string
}

package email

import (
	"context"
	"log"
	"time"
)

// NoopEmailService logs instead of sending. Used when EMAIL_ENABLED is false
// and in tests.
type NoopEmailService struct{}

func NewNoopEmailService() *NoopEmailService {
	return &NoopEmailService{}
}

func (s *NoopEmailService) SendWelcomeEmail(ctx context.Context, to, name, clubName string) error {
	log.Printf("[EMAIL] (noop) welcome email to %s", to)
	return nil
}

func (s *NoopEmailService) SendTrialStartedEmail(ctx context.Context, to, name, clubName string, trialEnd time.Time) error {
	log.Printf("[EMAIL] (noop) trial started email to %s", to)
	return nil
}

func (s *NoopEmailService) SendSubscriptionConfirmationEmail(ctx context.Context, to, name, planName string) error {
	log.Printf("[EMAIL] (noop) subscription confirmation email to %s", to)
	return nil
}

func (s *NoopEmailService) SendPasswordChangedEmail(ctx context.Context, to, name string) error {
	log.Printf("[EMAIL] (noop) password changed email to %s", to)
	return nil
}

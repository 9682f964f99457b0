package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendEmailService implements EmailService using Resend
type ResendEmailService struct {
	client *resend.Client
	config *EmailConfig
}

func NewResendEmailService(config *EmailConfig) (*ResendEmailService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	return &ResendEmailService{
		client: resend.NewClient(config.APIKey),
		config: config,
	}, nil
}

func (s *ResendEmailService) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("[EMAIL] Failed to send %q to %s: %v", subject, to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("[EMAIL] Sent %q to %s (ID: %s)", subject, to, sent.Id)
	return nil
}

func (s *ResendEmailService) SendWelcomeEmail(ctx context.Context, to, name, clubName string) error {
	return s.send(ctx, to, "Welcome to SlotRoster", WelcomeEmailTemplate(name, clubName))
}

func (s *ResendEmailService) SendTrialStartedEmail(ctx context.Context, to, name, clubName string, trialEnd time.Time) error {
	return s.send(ctx, to, "Your 30-Day Trial Has Started", TrialStartedEmailTemplate(name, clubName, trialEnd))
}

func (s *ResendEmailService) SendSubscriptionConfirmationEmail(ctx context.Context, to, name, planName string) error {
	return s.send(ctx, to, "Subscription Confirmed", SubscriptionConfirmationEmailTemplate(name, planName))
}

func (s *ResendEmailService) SendPasswordChangedEmail(ctx context.Context, to, name string) error {
	return s.send(ctx, to, "Password Changed Successfully", PasswordChangedEmailTemplate(name))
}

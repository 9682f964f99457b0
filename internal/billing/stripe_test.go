package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way Stripe does:
// v1 = HMAC-SHA256(secret, "<timestamp>.<payload>").
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestParseWebhookValidSignature(t *testing.T) {
	p := &StripeProvider{webhookSecret: testWebhookSecret}
	// ConstructEvent rejects payloads whose api_version does not match the
	// pinned client version, so the fixture has to carry it.
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"api_version": %q,
		"type": "invoice.payment_succeeded",
		"data": {"object": {"subscription": "sub_123"}}
	}`, stripe.APIVersion))

	event, err := p.ParseWebhook(payload, signPayload(payload, testWebhookSecret, time.Now()))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}

	if event.Type != EventInvoicePaid {
		t.Errorf("type = %q, want %q", event.Type, EventInvoicePaid)
	}
	if event.InvoiceSubscriptionID != "sub_123" {
		t.Errorf("invoice subscription = %q, want sub_123", event.InvoiceSubscriptionID)
	}
}

func TestParseWebhookInvoiceParentShape(t *testing.T) {
	p := &StripeProvider{webhookSecret: testWebhookSecret}

	// Newer API versions nest the subscription ref under parent
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_2",
		"api_version": %q,
		"type": "invoice.payment_failed",
		"data": {"object": {"parent": {"subscription_details": {"subscription": "sub_456"}}}}
	}`, stripe.APIVersion))

	event, err := p.ParseWebhook(payload, signPayload(payload, testWebhookSecret, time.Now()))
	if err != nil {
		t.Fatalf("ParseWebhook: %v", err)
	}
	if event.InvoiceSubscriptionID != "sub_456" {
		t.Errorf("invoice subscription = %q, want sub_456", event.InvoiceSubscriptionID)
	}
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	p := &StripeProvider{webhookSecret: testWebhookSecret}
	payload := []byte(`{"id": "evt_3", "type": "customer.subscription.updated", "data": {"object": {}}}`)

	cases := []struct {
		name      string
		signature string
	}{
		{"wrong secret", signPayload(payload, "whsec_other", time.Now())},
		{"garbage header", "t=123,v1=deadbeef"},
		{"empty header", ""},
		{"stale timestamp", signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := p.ParseWebhook(payload, tc.signature); err == nil {
				t.Error("expected signature verification to fail")
			}
		})
	}
}

func TestParseWebhookTamperedPayload(t *testing.T) {
	p := &StripeProvider{webhookSecret: testWebhookSecret}
	payload := []byte(`{"id": "evt_4", "type": "invoice.payment_succeeded", "data": {"object": {"subscription": "sub_123"}}}`)
	signature := signPayload(payload, testWebhookSecret, time.Now())

	tampered := []byte(`{"id": "evt_4", "type": "invoice.payment_succeeded", "data": {"object": {"subscription": "sub_EVIL"}}}`)
	if _, err := p.ParseWebhook(tampered, signature); err == nil {
		t.Error("expected verification to fail for a tampered payload")
	}
}

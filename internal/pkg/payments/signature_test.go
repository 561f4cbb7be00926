package payments

import (
	"testing"
	"time"
)

func TestVerifyStripeWebhookSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	secret := "whsec_test"
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	header := SignWebhookPayload(payload, secret, now)

	if !VerifyStripeWebhookSignature(payload, header, secret, DefaultSignatureTolerance, now) {
		t.Fatalf("expected freshly signed payload to verify")
	}
	if VerifyStripeWebhookSignature(payload, header, "whsec_other", DefaultSignatureTolerance, now) {
		t.Fatalf("expected wrong secret to fail")
	}
	if VerifyStripeWebhookSignature([]byte(`{"tampered":true}`), header, secret, DefaultSignatureTolerance, now) {
		t.Fatalf("expected tampered payload to fail")
	}
}

func TestVerifyStripeWebhookSignatureTolerance(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	signedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	header := SignWebhookPayload(payload, secret, signedAt)

	if !VerifyStripeWebhookSignature(payload, header, secret, DefaultSignatureTolerance, signedAt.Add(time.Minute)) {
		t.Fatalf("expected signature within tolerance to verify")
	}
	if VerifyStripeWebhookSignature(payload, header, secret, DefaultSignatureTolerance, signedAt.Add(time.Hour)) {
		t.Fatalf("expected stale signature to fail")
	}
}

func TestVerifyStripeWebhookSignatureMalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()
	for _, header := range []string{"", "t=abc,v1=00", "v1=00", "t=123"} {
		if VerifyStripeWebhookSignature(payload, header, "whsec_test", DefaultSignatureTolerance, now) {
			t.Fatalf("expected header %q to fail verification", header)
		}
	}
}

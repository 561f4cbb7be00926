package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCheckoutCompletedEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_456",
			"mode": "payment",
			"amount_total": 1500,
			"metadata": {
				"listing_id": "7",
				"buyer_id": "3",
				"seller_id": "9",
				"commission_cents": "150"
			}
		}}
	}`)

	event, err := ParseStripeEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)

	completed, err := event.CheckoutCompleted()
	require.NoError(t, err)
	assert.Equal(t, "cs_456", completed.SessionID)
	assert.Equal(t, "payment", completed.Mode)
	assert.Equal(t, int64(1500), completed.AmountTotal)

	listingID, ok := MetadataUint(completed.Metadata, "listing_id")
	require.True(t, ok)
	assert.Equal(t, uint(7), listingID)

	commission, ok := MetadataInt64(completed.Metadata, "commission_cents")
	require.True(t, ok)
	assert.Equal(t, int64(150), commission)
}

func TestParseSubscriptionEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_9",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_1",
			"status": "active",
			"cancel_at_period_end": true,
			"current_period_start": 1717200000,
			"current_period_end": 1719792000,
			"metadata": {"user_id": "5"}
		}}
	}`)

	event, err := ParseStripeEvent(payload)
	require.NoError(t, err)

	sub, err := event.Subscription()
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.SubscriptionID)
	assert.Equal(t, "active", sub.Status)
	assert.True(t, sub.CancelAtPeriodEnd)
	require.NotNil(t, sub.CurrentPeriodStart)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.True(t, sub.CurrentPeriodEnd.After(*sub.CurrentPeriodStart))
}

func TestParseStripeEventRejectsGarbage(t *testing.T) {
	_, err := ParseStripeEvent([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseStripeEvent([]byte(`{"id":"evt_1"}`))
	assert.Error(t, err, "missing type must be rejected")

	event, err := ParseStripeEvent([]byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{}}}`))
	require.NoError(t, err)
	_, err = event.CheckoutCompleted()
	assert.Error(t, err, "missing session id must be rejected")
}

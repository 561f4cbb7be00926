package payments

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PixelMarket/app/models"
)

type fakeRepo struct {
	events        map[string]*models.PaymentWebhookEvent
	orders        map[string]*models.Order
	subscriptions map[string]*models.Subscription
	nextID        uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		events:        map[string]*models.PaymentWebhookEvent{},
		orders:        map[string]*models.Order{},
		subscriptions: map[string]*models.Subscription{},
	}
}

func (f *fakeRepo) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if existing, ok := f.events[key]; ok {
		return false, existing, nil
	}
	f.nextID++
	event.ID = f.nextID
	f.events[key] = event
	return true, event, nil
}

func (f *fakeRepo) MarkWebhookProcessed(id uint, processingError string) error {
	for _, event := range f.events {
		if event.ID == id {
			event.ProcessingError = processingError
			return nil
		}
	}
	return nil
}

func (f *fakeRepo) CreateOrderIfNotExists(order *models.Order) (bool, error) {
	if _, ok := f.orders[order.ProviderEventID]; ok {
		return false, nil
	}
	f.nextID++
	order.ID = f.nextID
	f.orders[order.ProviderEventID] = order
	return true, nil
}

func (f *fakeRepo) HasOrder(buyerID, listingID uint) (bool, error) {
	for _, order := range f.orders {
		if order.BuyerID == buyerID && order.ListingID != nil && *order.ListingID == listingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) UpsertSubscription(sub *models.Subscription) error {
	f.subscriptions[sub.Provider+"/"+sub.ProviderSubscriptionID] = sub
	return nil
}

func (f *fakeRepo) GetSubscriptionByProviderID(provider, providerSubscriptionID string) (*models.Subscription, error) {
	sub, ok := f.subscriptions[provider+"/"+providerSubscriptionID]
	if !ok {
		return nil, assert.AnError
	}
	return sub, nil
}

func (f *fakeRepo) GetActiveSubscriptionForUser(userID uint) (*models.Subscription, error) {
	for _, sub := range f.subscriptions {
		if sub.UserID == userID && sub.IsEntitling() {
			return sub, nil
		}
	}
	return nil, assert.AnError
}

func TestRecordWebhookEventDeduplicates(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	in := WebhookEventInput{
		Provider:        "stripe",
		ProviderEventID: "evt_1",
		EventType:       "checkout.session.completed",
		PayloadJSON:     `{"id":"evt_1"}`,
		SignatureValid:  true,
	}

	created, stored, err := svc.RecordWebhookEvent(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, stored)

	created, again, err := svc.RecordWebhookEvent(ctx, in)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored.ID, again.ID)
}

func TestRecordWebhookEventHashFallback(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, stored, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "stripe",
		PayloadJSON: `{"some":"payload"}`,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, strings.HasPrefix(stored.ProviderEventID, "hash:"))

	// Same payload without an event id must hash to the same synthetic id.
	created, _, err = svc.RecordWebhookEvent(context.Background(), WebhookEventInput{
		Provider:    "stripe",
		PayloadJSON: `{"some":"payload"}`,
	})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRecordMarketplaceSaleIdempotent(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	in := SaleInput{
		ProviderEventID:   "evt_sale_1",
		ProviderSessionID: "cs_1",
		ListingID:         7,
		BuyerID:           3,
		SellerID:          9,
		AmountPaidCents:   1500,
		CommissionCents:   150,
	}

	order, created, err := svc.RecordMarketplaceSale(ctx, in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.OrderKindMarketplace, order.Kind)
	assert.Equal(t, models.OrderStatusComplete, order.Status)

	_, created, err = svc.RecordMarketplaceSale(ctx, in)
	require.NoError(t, err)
	assert.False(t, created, "redelivered event must not create a second order")
}

func TestRecordMarketplaceSaleRejectsMissingIDs(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, _, err := svc.RecordMarketplaceSale(context.Background(), SaleInput{ProviderEventID: "evt_1"})
	assert.Error(t, err)

	_, _, err = svc.RecordMarketplaceSale(context.Background(), SaleInput{ListingID: 1, BuyerID: 2, SellerID: 3})
	assert.Error(t, err)
}

func TestClaimFreeListing(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()
	listing := &models.AssetListing{ID: 5, SellerID: 9, PriceCents: 0}

	order, err := svc.ClaimFreeListing(ctx, 3, listing)
	require.NoError(t, err)
	assert.Equal(t, int64(0), order.AmountPaidCents)
	assert.Equal(t, uint(3), order.BuyerID)
	assert.Equal(t, uint(9), order.SellerID)

	_, err = svc.ClaimFreeListing(ctx, 3, listing)
	assert.ErrorIs(t, err, ErrAlreadyOwned)

	// A different buyer can still claim.
	_, err = svc.ClaimFreeListing(ctx, 4, listing)
	assert.NoError(t, err)
}

func TestClaimFreeListingRejectsPaid(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.ClaimFreeListing(context.Background(), 3, &models.AssetListing{ID: 5, PriceCents: 500})
	assert.Error(t, err)
}

func TestSyncSubscriptionDefaults(t *testing.T) {
	svc := NewService(newFakeRepo())

	sub, err := svc.SyncSubscription(context.Background(), NormalizedSubscription{
		UserID:                 5,
		Provider:               "Stripe",
		ProviderSubscriptionID: "sub_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "stripe", sub.Provider)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, models.SubscriptionPlanPremium, sub.Plan)
}

func TestRecordSubscriptionPayment(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	order, created, err := svc.RecordSubscriptionPayment(ctx, 5, 900, "evt_sub_1", "cs_2")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.OrderKindSubscription, order.Kind)
	assert.Nil(t, order.ListingID)

	_, created, err = svc.RecordSubscriptionPayment(ctx, 5, 900, "evt_sub_1", "cs_2")
	require.NoError(t, err)
	assert.False(t, created)
}

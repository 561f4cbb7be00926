package stats

import (
	"testing"
	"time"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func listingRef(id uint) *uint { return &id }

func TestFoldDailySplitsRevenueByKind(t *testing.T) {
	orders := []models.Order{
		{Kind: models.OrderKindMarketplace, ListingID: listingRef(1), AmountPaidCents: 1000, CommissionCents: 100, CreatedAt: day(2025, 6, 1, 10)},
		{Kind: models.OrderKindMarketplace, ListingID: listingRef(2), AmountPaidCents: 500, CommissionCents: 50, CreatedAt: day(2025, 6, 1, 18)},
		{Kind: models.OrderKindSubscription, AmountPaidCents: 900, CreatedAt: day(2025, 6, 2, 3)},
	}
	users := []models.User{
		{CreatedAt: day(2025, 6, 1, 12)},
		{CreatedAt: day(2025, 6, 2, 12)},
		{CreatedAt: day(2025, 6, 2, 13)},
	}

	days, totals := FoldDaily(orders, users)

	require.Len(t, days, 2)
	assert.Equal(t, "2025-06-01", days[0].Date)
	assert.Equal(t, int64(1500), days[0].MarketplaceRevenueCents)
	assert.Equal(t, int64(0), days[0].SubscriptionRevenueCents)
	assert.Equal(t, int64(150), days[0].CommissionCents)
	assert.Equal(t, 2, days[0].OrderCount)
	assert.Equal(t, 1, days[0].NewUsers)

	assert.Equal(t, "2025-06-02", days[1].Date)
	assert.Equal(t, int64(900), days[1].SubscriptionRevenueCents)
	assert.Equal(t, 2, days[1].NewUsers)

	assert.Equal(t, int64(1500), totals.MarketplaceRevenueCents)
	assert.Equal(t, int64(900), totals.SubscriptionRevenueCents)
	assert.Equal(t, int64(150), totals.CommissionCents)
	assert.Equal(t, 3, totals.OrderCount)
	assert.Equal(t, 3, totals.NewUsers)
}

func TestFoldDailyEmptyInput(t *testing.T) {
	days, totals := FoldDaily(nil, nil)
	assert.Empty(t, days)
	assert.Equal(t, Totals{}, totals)
}

// The "all" window must contain every narrower window, so for a fixed
// dataset the folded total revenue of "all" can never be below "24h".
func TestAllRangeCoversDayRange(t *testing.T) {
	now := day(2025, 6, 10, 12)
	orders := []models.Order{
		{Kind: models.OrderKindMarketplace, ListingID: listingRef(1), AmountPaidCents: 1000, CreatedAt: now.Add(-2 * time.Hour)},
		{Kind: models.OrderKindMarketplace, ListingID: listingRef(2), AmountPaidCents: 2500, CreatedAt: now.Add(-100 * time.Hour)},
	}

	inWindow := func(r string) []models.Order {
		start, end, err := WindowFor(r, now)
		require.NoError(t, err)
		var out []models.Order
		for _, o := range orders {
			if !o.CreatedAt.Before(start) && !o.CreatedAt.After(end) {
				out = append(out, o)
			}
		}
		return out
	}

	_, dayTotals := FoldDaily(inWindow(RangeDay), nil)
	_, allTotals := FoldDaily(inWindow(RangeAll), nil)

	assert.GreaterOrEqual(t, allTotals.MarketplaceRevenueCents, dayTotals.MarketplaceRevenueCents)
	assert.Equal(t, int64(1000), dayTotals.MarketplaceRevenueCents)
	assert.Equal(t, int64(3500), allTotals.MarketplaceRevenueCents)
}

func TestWindowFor(t *testing.T) {
	now := day(2025, 6, 10, 12)

	start, end, err := WindowFor(RangeWeek, now)
	require.NoError(t, err)
	assert.Equal(t, now, end)
	assert.Equal(t, now.Add(-7*24*time.Hour), start)

	start, _, err = WindowFor(RangeAll, now)
	require.NoError(t, err)
	assert.Equal(t, allRangeStart, start)

	_, _, err = WindowFor("90d", now)
	assert.Error(t, err)
}

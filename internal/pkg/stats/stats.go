package stats

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/cache"
	"gorm.io/gorm"
)

const (
	RangeDay   = "24h"
	RangeWeek  = "7d"
	RangeMonth = "30d"
	RangeAll   = "all"
)

const (
	cacheKeyReport  = "stats:report:%s" // format with range
	cacheExpiration = 5 * time.Minute
)

// allRangeStart bounds the "all" preset. Approximation carried over from the
// original dashboards; nothing predates the platform launch anyway.
var allRangeStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// DayBucket aggregates one calendar day of revenue and signups.
type DayBucket struct {
	Date                     string `json:"date"`
	MarketplaceRevenueCents  int64  `json:"marketplace_revenue_cents"`
	SubscriptionRevenueCents int64  `json:"subscription_revenue_cents"`
	CommissionCents          int64  `json:"commission_cents"`
	OrderCount               int    `json:"order_count"`
	NewUsers                 int    `json:"new_users"`
}

// Totals are the grand totals across the requested window.
type Totals struct {
	MarketplaceRevenueCents  int64 `json:"marketplace_revenue_cents"`
	SubscriptionRevenueCents int64 `json:"subscription_revenue_cents"`
	CommissionCents          int64 `json:"commission_cents"`
	OrderCount               int   `json:"order_count"`
	NewUsers                 int   `json:"new_users"`
}

// Report is the admin analytics response for one range preset.
type Report struct {
	Range  string      `json:"range"`
	Days   []DayBucket `json:"days"`
	Totals Totals      `json:"totals"`
}

// ValidRange reports whether r is one of the four presets.
func ValidRange(r string) bool {
	switch r {
	case RangeDay, RangeWeek, RangeMonth, RangeAll:
		return true
	default:
		return false
	}
}

// WindowFor maps a range preset to a [start, end] pair.
func WindowFor(r string, now time.Time) (time.Time, time.Time, error) {
	switch r {
	case RangeDay:
		return now.Add(-24 * time.Hour), now, nil
	case RangeWeek:
		return now.Add(-7 * 24 * time.Hour), now, nil
	case RangeMonth:
		return now.Add(-30 * 24 * time.Hour), now, nil
	case RangeAll:
		return allRangeStart, now, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown stats range %q", r)
	}
}

// FoldDaily folds orders and user registrations into per-day buckets plus
// grand totals. Single pass, recomputed per request; the Redis cache in
// GetReport keeps this off the hot path.
func FoldDaily(orders []models.Order, users []models.User) ([]DayBucket, Totals) {
	buckets := make(map[string]*DayBucket)

	bucketFor := func(ts time.Time) *DayBucket {
		date := ts.UTC().Format("2006-01-02")
		b, ok := buckets[date]
		if !ok {
			b = &DayBucket{Date: date}
			buckets[date] = b
		}
		return b
	}

	var totals Totals
	for _, order := range orders {
		b := bucketFor(order.CreatedAt)
		if order.IsSubscription() {
			b.SubscriptionRevenueCents += order.AmountPaidCents
			totals.SubscriptionRevenueCents += order.AmountPaidCents
		} else {
			b.MarketplaceRevenueCents += order.AmountPaidCents
			totals.MarketplaceRevenueCents += order.AmountPaidCents
		}
		b.CommissionCents += order.CommissionCents
		totals.CommissionCents += order.CommissionCents
		b.OrderCount++
		totals.OrderCount++
	}

	for _, user := range users {
		b := bucketFor(user.CreatedAt)
		b.NewUsers++
		totals.NewUsers++
	}

	days := make([]DayBucket, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, *b)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return days, totals
}

// GetReport builds (or serves from cache) the analytics report for a range.
func GetReport(db *gorm.DB, r string, now time.Time) (*Report, error) {
	if !ValidRange(r) {
		return nil, fmt.Errorf("unknown stats range %q", r)
	}

	cacheKey := fmt.Sprintf(cacheKeyReport, r)
	if raw, err := cache.Get(cacheKey); err == nil && raw != "" {
		var report Report
		if err := json.Unmarshal([]byte(raw), &report); err == nil {
			return &report, nil
		}
	}

	start, end, err := WindowFor(r, now)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := db.Where("created_at BETWEEN ? AND ?", start, end).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders for stats: %w", err)
	}

	var users []models.User
	if err := db.Where("created_at BETWEEN ? AND ?", start, end).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users for stats: %w", err)
	}

	days, totals := FoldDaily(orders, users)
	report := &Report{Range: r, Days: days, Totals: totals}

	if raw, err := json.Marshal(report); err == nil {
		if err := cache.Set(cacheKey, string(raw), cacheExpiration); err != nil {
			log.Printf("Error caching stats report for range %s: %v", r, err)
		}
	}

	return report, nil
}

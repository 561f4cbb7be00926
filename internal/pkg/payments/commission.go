package payments

import (
	"strconv"

	"github.com/ManuelReschke/PixelMarket/internal/pkg/env"
)

// DefaultCommissionPercent is the platform cut when nothing is configured.
const DefaultCommissionPercent = 10

// CommissionPercent returns the configured platform commission percentage.
func CommissionPercent() int {
	raw := env.GetEnv("PLATFORM_COMMISSION_PCT", "")
	if raw == "" {
		return DefaultCommissionPercent
	}
	pct, err := strconv.Atoi(raw)
	if err != nil || pct < 0 || pct > 100 {
		return DefaultCommissionPercent
	}
	return pct
}

// CommissionFor computes the platform commission in cents for a price,
// rounding half up.
func CommissionFor(priceCents int64, percent int) int64 {
	if priceCents <= 0 || percent <= 0 {
		return 0
	}
	return (priceCents*int64(percent) + 50) / 100
}

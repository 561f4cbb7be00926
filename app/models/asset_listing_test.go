package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Pixel Icon Pack", want: "pixel-icon-pack"},
		{in: "  16x16 RPG Tiles!  ", want: "16x16-rpg-tiles"},
		{in: "---", want: ""},
		{in: "Fonts & Glyphs (v2)", want: "fonts-glyphs-v2"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestListingDeletionSchedule(t *testing.T) {
	l := NewAssetListing(7, "Pixel Icon Pack", "", CategoryIcons, 500)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, l.DeletionDue(now))

	l.ScheduleDeletion(now)
	require.NotNil(t, l.DeletionScheduledAt)
	assert.Equal(t, now.Add(72*time.Hour), *l.DeletionScheduledAt)
	assert.False(t, l.DeletionDue(now), "grace period must protect the listing")
	assert.True(t, l.DeletionDue(now.Add(73*time.Hour)))

	l.CancelDeletion()
	assert.Nil(t, l.DeletionScheduledAt)
	assert.False(t, l.DeletionDue(now.Add(1000*time.Hour)))
}

func TestListingIsFreeAndBoost(t *testing.T) {
	free := NewAssetListing(1, "Freebie", "", CategoryOther, 0)
	assert.True(t, free.IsFree())

	paid := NewAssetListing(1, "Paid", "", CategoryOther, 900)
	assert.False(t, paid.IsFree())

	now := time.Now()
	assert.False(t, paid.IsBoosted(now))
	exp := now.Add(time.Hour)
	paid.BoostExpiresAt = &exp
	assert.True(t, paid.IsBoosted(now))
	assert.False(t, paid.IsBoosted(now.Add(2*time.Hour)))
}

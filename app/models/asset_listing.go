package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryIcons         = "icons"
	CategoryIllustrations = "illustrations"
	CategoryTextures      = "textures"
	CategoryUI            = "ui-kits"
	CategoryFonts         = "fonts"
	CategoryOther         = "other"
)

// DeletionGracePeriod is how long sellers have to change their mind after
// scheduling a listing for removal.
const DeletionGracePeriod = 72 * time.Hour

// BoostDuration is how long a single boost credit keeps a listing promoted.
const BoostDuration = 7 * 24 * time.Hour

type AssetListing struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	UUID                string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	SellerID            uint           `gorm:"not null;index" json:"seller_id"`
	Seller              User           `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Title               string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=3,max=200"`
	Slug                string         `gorm:"type:varchar(220);index" json:"slug"`
	Description         string         `gorm:"type:text" json:"description" validate:"max=5000"`
	Category            string         `gorm:"type:varchar(50);not null;index" json:"category" validate:"oneof=icons illustrations textures ui-kits fonts other"`
	PriceCents          int64          `gorm:"not null;default:0" json:"price_cents" validate:"min=0"`
	Currency            string         `gorm:"type:varchar(3);not null;default:'EUR'" json:"currency"`
	FileObjectKey       string         `gorm:"type:varchar(255)" json:"-"`
	PreviewObjectKey    string         `gorm:"type:varchar(255)" json:"preview_object_key"`
	ViewCount           int64          `gorm:"not null;default:0" json:"view_count"`
	BoostExpiresAt      *time.Time     `gorm:"type:timestamp;default:null;index" json:"boost_expires_at,omitempty"`
	DeletionScheduledAt *time.Time     `gorm:"type:timestamp;default:null;index" json:"deletion_scheduled_at,omitempty"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AssetListing) TableName() string {
	return "asset_listings"
}

// NewAssetListing builds a listing with a fresh UUID and a slug derived from
// the title. Validation stays with the caller so drafts can be assembled.
func NewAssetListing(sellerID uint, title, description, category string, priceCents int64) *AssetListing {
	return &AssetListing{
		UUID:        uuid.New().String(),
		SellerID:    sellerID,
		Title:       title,
		Slug:        Slugify(title),
		Description: description,
		Category:    category,
		PriceCents:  priceCents,
		Currency:    "EUR",
	}
}

// IsFree reports whether the listing can be claimed without a checkout.
func (l *AssetListing) IsFree() bool {
	return l.PriceCents == 0
}

// IsBoosted reports whether an active boost promotes this listing.
func (l *AssetListing) IsBoosted(now time.Time) bool {
	return l.BoostExpiresAt != nil && l.BoostExpiresAt.After(now)
}

// DeletionDue reports whether the scheduled removal timestamp has passed.
func (l *AssetListing) DeletionDue(now time.Time) bool {
	return l.DeletionScheduledAt != nil && !l.DeletionScheduledAt.After(now)
}

// ScheduleDeletion marks the listing for removal after the grace period.
func (l *AssetListing) ScheduleDeletion(now time.Time) {
	at := now.Add(DeletionGracePeriod)
	l.DeletionScheduledAt = &at
}

// CancelDeletion clears a pending removal.
func (l *AssetListing) CancelDeletion() {
	l.DeletionScheduledAt = nil
}

// Slugify turns a title into a URL-safe slug.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

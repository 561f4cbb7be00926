package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"gorm.io/gorm"
)

// listingRepository implements the ListingRepository interface
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository instance
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// Create creates a new listing in the database
func (r *listingRepository) Create(listing *models.AssetListing) error {
	return r.db.Create(listing).Error
}

// GetByID retrieves a listing by its ID
func (r *listingRepository) GetByID(id uint) (*models.AssetListing, error) {
	var listing models.AssetListing
	err := r.db.First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetByUUID retrieves a listing by its UUID
func (r *listingRepository) GetByUUID(uuid string) (*models.AssetListing, error) {
	var listing models.AssetListing
	err := r.db.Where("uuid = ?", uuid).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetBySellerID retrieves a seller's listings, newest first, including those
// pending deletion so the seller can still cancel the removal.
func (r *listingRepository) GetBySellerID(sellerID uint, offset, limit int) ([]models.AssetListing, error) {
	var listings []models.AssetListing
	err := r.db.Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&listings).Error
	return listings, err
}

// Update updates an existing listing in the database
func (r *listingRepository) Update(listing *models.AssetListing) error {
	return r.db.Save(listing).Error
}

// Browse returns the public catalogue page plus the total match count.
// Listings pending deletion are hidden. Boosted listings always sort ahead
// of unboosted ones, whatever the requested ordering.
func (r *listingRepository) Browse(opts BrowseOptions) ([]models.AssetListing, int64, error) {
	query := r.db.Model(&models.AssetListing{}).Where("deletion_scheduled_at IS NULL")

	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	boosted := "CASE WHEN boost_expires_at IS NOT NULL AND boost_expires_at > NOW() THEN 0 ELSE 1 END"

	switch opts.Sort {
	case SortPopular:
		query = query.Order(boosted).Order("view_count DESC, id DESC")
	case SortCheap:
		query = query.Order(boosted).Order("price_cents ASC, id DESC")
	case SortPricey:
		query = query.Order(boosted).Order("price_cents DESC, id DESC")
	case SortNewest, "":
		query = query.Order(boosted).Order("created_at DESC, id DESC")
	default:
		return nil, 0, fmt.Errorf("unknown sort %q", opts.Sort)
	}

	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 24
	}

	var listings []models.AssetListing
	err := query.Offset(opts.Offset).Limit(limit).Find(&listings).Error
	return listings, total, err
}

// IncrementViewCount bumps the view counter without touching updated_at
func (r *listingRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.AssetListing{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// Boost spends one of the seller's boost credits and extends the listing's
// promotion window. Credit debit and boost extension happen in one
// transaction: either both apply or neither does.
func (r *listingRepository) Boost(listingID, sellerID uint, now time.Time) (*models.AssetListing, error) {
	var listing models.AssetListing
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, listingID).Error; err != nil {
			return err
		}
		if listing.SellerID != sellerID {
			return fmt.Errorf("listing %d does not belong to seller %d", listingID, sellerID)
		}

		debit := tx.Model(&models.User{}).
			Where("id = ? AND boost_credits >= 1", sellerID).
			Update("boost_credits", gorm.Expr("boost_credits - 1"))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			return fmt.Errorf("insufficient boost credits for user %d", sellerID)
		}

		// Stacking: an active boost extends from its current expiry
		from := now
		if listing.IsBoosted(now) {
			from = *listing.BoostExpiresAt
		}
		expires := from.Add(models.BoostDuration)
		listing.BoostExpiresAt = &expires

		return tx.Model(&listing).Update("boost_expires_at", expires).Error
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Count returns the total number of listings
func (r *listingRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.AssetListing{}).Count(&count).Error
	return count, err
}

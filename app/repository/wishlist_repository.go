package repository

import (
	"github.com/ManuelReschke/PixelMarket/app/models"
	"gorm.io/gorm"
)

// wishlistRepository implements the WishlistRepository interface
type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a new wishlist repository instance
func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// GetByUserID retrieves a user's wishlist with listings preloaded
func (r *wishlistRepository) GetByUserID(userID uint) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	err := r.db.Where("user_id = ?", userID).
		Preload("Listing").
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// Contains reports whether the listing is on the user's wishlist
func (r *wishlistRepository) Contains(userID, listingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.WishlistEntry{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	return count > 0, err
}

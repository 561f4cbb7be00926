package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type WishlistEntry struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"not null;uniqueIndex:ux_wishlist_user_listing,priority:1" json:"user_id"`
	ListingID uint         `gorm:"not null;uniqueIndex:ux_wishlist_user_listing,priority:2;index" json:"listing_id"`
	Listing   AssetListing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (WishlistEntry) TableName() string {
	return "wishlist"
}

// ToggleWishlist adds or removes a wishlist entry. Returns true when the
// entry exists after the call.
func ToggleWishlist(db *gorm.DB, userID, listingID uint) (bool, error) {
	var entry WishlistEntry
	result := db.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return true, db.Create(&WishlistEntry{UserID: userID, ListingID: listingID}).Error
		}
		return false, result.Error
	}

	return false, db.Delete(&entry).Error
}

// RemoveFromWishlist deletes the entry for (user, listing) if present.
// Used after a purchase so the bought asset drops off the wishlist.
func RemoveFromWishlist(db *gorm.DB, userID, listingID uint) error {
	return db.Where("user_id = ? AND listing_id = ?", userID, listingID).Delete(&WishlistEntry{}).Error
}

package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	VoteTypeUp   = "up"
	VoteTypeDown = "down"
)

// ErrInvalidVoteType is returned for anything other than "up" or "down".
var ErrInvalidVoteType = errors.New("invalid vote type")

// AssetVote holds at most one row per (user, listing) pair.
type AssetVote struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    uint         `gorm:"not null;uniqueIndex:ux_asset_votes_user_listing,priority:1" json:"user_id"`
	ListingID uint         `gorm:"not null;uniqueIndex:ux_asset_votes_user_listing,priority:2;index" json:"listing_id"`
	Listing   AssetListing `gorm:"foreignKey:ListingID" json:"-"`
	VoteType  string       `gorm:"type:varchar(10);not null" json:"vote_type"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProfileVote holds at most one row per (user, profile) pair.
type ProfileVote struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:ux_profile_votes_user_profile,priority:1" json:"user_id"`
	ProfileUserID uint      `gorm:"not null;uniqueIndex:ux_profile_votes_user_profile,priority:2;index" json:"profile_user_id"`
	VoteType      string    `gorm:"type:varchar(10);not null" json:"vote_type"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type voteAction int

const (
	voteInsert voteAction = iota
	voteRemove
	voteSwitch
)

// nextVoteAction decides what a vote request does to the existing row:
// no row -> insert, same type -> remove (un-vote), other type -> update.
func nextVoteAction(existingType, requestedType string) voteAction {
	switch {
	case existingType == "":
		return voteInsert
	case existingType == requestedType:
		return voteRemove
	default:
		return voteSwitch
	}
}

// ValidVoteType reports whether t is one of the two allowed vote types.
func ValidVoteType(t string) bool {
	return t == VoteTypeUp || t == VoteTypeDown
}

// ToggleAssetVote creates, removes or switches the caller's vote on a listing.
func ToggleAssetVote(db *gorm.DB, userID, listingID uint, voteType string) error {
	if !ValidVoteType(voteType) {
		return ErrInvalidVoteType
	}

	var vote AssetVote
	result := db.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&vote)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return db.Create(&AssetVote{UserID: userID, ListingID: listingID, VoteType: voteType}).Error
		}
		return result.Error
	}

	switch nextVoteAction(vote.VoteType, voteType) {
	case voteRemove:
		return db.Delete(&vote).Error
	default:
		return db.Model(&vote).Update("vote_type", voteType).Error
	}
}

// ToggleProfileVote creates, removes or switches the caller's vote on a profile.
func ToggleProfileVote(db *gorm.DB, userID, profileUserID uint, voteType string) error {
	if !ValidVoteType(voteType) {
		return ErrInvalidVoteType
	}

	var vote ProfileVote
	result := db.Where("user_id = ? AND profile_user_id = ?", userID, profileUserID).First(&vote)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return db.Create(&ProfileVote{UserID: userID, ProfileUserID: profileUserID, VoteType: voteType}).Error
		}
		return result.Error
	}

	switch nextVoteAction(vote.VoteType, voteType) {
	case voteRemove:
		return db.Delete(&vote).Error
	default:
		return db.Model(&vote).Update("vote_type", voteType).Error
	}
}

// CountAssetVotes returns up/down totals for a listing. Totals are computed
// by counting rows, there is no counter column to drift.
func CountAssetVotes(db *gorm.DB, listingID uint) (up int64, down int64, err error) {
	if err = db.Model(&AssetVote{}).Where("listing_id = ? AND vote_type = ?", listingID, VoteTypeUp).Count(&up).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&AssetVote{}).Where("listing_id = ? AND vote_type = ?", listingID, VoteTypeDown).Count(&down).Error; err != nil {
		return 0, 0, err
	}
	return up, down, nil
}

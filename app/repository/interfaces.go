package repository

import (
	"time"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	CountCreatedBetween(start, end time.Time) (int64, error)
	AdjustBoostCredits(userID uint, delta int) error
}

// ListingRepository defines the interface for asset listing operations
type ListingRepository interface {
	Create(listing *models.AssetListing) error
	GetByID(id uint) (*models.AssetListing, error)
	GetByUUID(uuid string) (*models.AssetListing, error)
	GetBySellerID(sellerID uint, offset, limit int) ([]models.AssetListing, error)
	Update(listing *models.AssetListing) error
	Browse(opts BrowseOptions) ([]models.AssetListing, int64, error)
	IncrementViewCount(id uint) error
	Boost(listingID, sellerID uint, now time.Time) (*models.AssetListing, error)
	Count() (int64, error)
}

// OrderRepository defines the interface for order lookups. Order creation
// goes through the payments service so webhook dedup stays in one place.
type OrderRepository interface {
	GetByID(id uint) (*models.Order, error)
	GetByBuyerID(buyerID uint, offset, limit int) ([]models.Order, error)
	GetSalesBySellerID(sellerID uint, offset, limit int) ([]models.Order, error)
	HasPurchase(buyerID, listingID uint) (bool, error)
	Count() (int64, error)
}

// TicketRepository defines the interface for support ticket operations
type TicketRepository interface {
	Create(ticket *models.SupportTicket) error
	GetByID(id uint) (*models.SupportTicket, error)
	GetByUserID(userID uint) ([]models.SupportTicket, error)
	ListOpen(offset, limit int) ([]models.SupportTicket, error)
	Update(ticket *models.SupportTicket) error
	AddMessage(message *models.SupportMessage) error
	GetMessages(ticketID uint) ([]models.SupportMessage, error)
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	GetByUserID(userID uint, offset, limit int) ([]models.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(userID, notificationID uint) error
	MarkAllRead(userID uint) error
}

// WishlistRepository defines the interface for wishlist queries. The toggle
// itself lives in the models package next to the vote toggles.
type WishlistRepository interface {
	GetByUserID(userID uint) ([]models.WishlistEntry, error)
	Contains(userID, listingID uint) (bool, error)
}

// BrowseSort names the supported listing orderings.
const (
	SortNewest  = "newest"
	SortPopular = "popular"
	SortCheap   = "price_asc"
	SortPricey  = "price_desc"
)

// BrowseOptions filters and orders the public listing catalogue.
type BrowseOptions struct {
	Category string
	Query    string
	Sort     string
	Offset   int
	Limit    int
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Listing      ListingRepository
	Order        OrderRepository
	Ticket       TicketRepository
	Notification NotificationRepository
	Wishlist     WishlistRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Listing:      NewListingRepository(db),
		Order:        NewOrderRepository(db),
		Ticket:       NewTicketRepository(db),
		Notification: NewNotificationRepository(db),
		Wishlist:     NewWishlistRepository(db),
	}
}

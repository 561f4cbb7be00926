package repository

import (
	"github.com/ManuelReschke/PixelMarket/app/models"
	"gorm.io/gorm"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// GetByID retrieves an order by its ID
func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByBuyerID retrieves a buyer's purchases, newest first
func (r *orderRepository) GetByBuyerID(buyerID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, err
}

// GetSalesBySellerID retrieves a seller's marketplace sales, newest first
func (r *orderRepository) GetSalesBySellerID(sellerID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("seller_id = ? AND kind = ?", sellerID, models.OrderKindMarketplace).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, err
}

// HasPurchase reports whether the buyer already owns the listing
func (r *orderRepository) HasPurchase(buyerID, listingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("buyer_id = ? AND listing_id = ?", buyerID, listingID).
		Count(&count).Error
	return count > 0, err
}

// Count returns the total number of orders
func (r *orderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Count(&count).Error
	return count, err
}

package repository

import (
	"github.com/ManuelReschke/PixelMarket/app/models"
	"gorm.io/gorm"
)

// notificationRepository implements the NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// GetByUserID retrieves a user's notifications, newest first
func (r *notificationRepository) GetByUserID(userID uint, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// CountUnread counts a user's unread notifications
func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notification as read. Scoped to the owner so one user
// cannot touch another user's notifications.
func (r *notificationRepository) MarkRead(userID, notificationID uint) error {
	var notification models.Notification
	err := r.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error
	if err != nil {
		return err
	}
	if notification.IsRead {
		return nil
	}
	return notification.MarkAsRead(r.db)
}

// MarkAllRead marks every unread notification of a user as read
func (r *notificationRepository) MarkAllRead(userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

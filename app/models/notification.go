package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	NotificationTypeSale           = "sale"
	NotificationTypeListingRemoval = "listing_removal"
	NotificationTypeTicketReply    = "ticket_reply"
	NotificationTypeSystem         = "system"
)

// NotificationRetention is how long notifications live before the cleanup
// sweep removes them.
const NotificationRetention = 7 * 24 * time.Hour

type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Type      string         `gorm:"type:varchar(50);not null" json:"type" validate:"oneof=sale listing_removal ticket_reply system"`
	DataJSON  string         `gorm:"type:text" json:"-"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Notification payloads form a tagged union keyed by Type. Each type carries
// its own struct so readers never guess at payload shapes.

type SaleData struct {
	ListingID       uint   `json:"listing_id"`
	ListingTitle    string `json:"listing_title"`
	BuyerName       string `json:"buyer_name"`
	AmountPaidCents int64  `json:"amount_paid_cents"`
}

type ListingRemovalData struct {
	ListingID    uint      `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	RemovalAt    time.Time `json:"removal_at"`
}

type TicketReplyData struct {
	TicketID uint   `json:"ticket_id"`
	Subject  string `json:"subject"`
}

type SystemData struct {
	Message string `json:"message"`
}

// EncodeNotificationData serializes a payload and checks it matches the
// declared type. Unknown types and mismatched payloads are errors.
func EncodeNotificationData(notificationType string, data any) (string, error) {
	ok := false
	switch notificationType {
	case NotificationTypeSale:
		_, ok = data.(SaleData)
	case NotificationTypeListingRemoval:
		_, ok = data.(ListingRemovalData)
	case NotificationTypeTicketReply:
		_, ok = data.(TicketReplyData)
	case NotificationTypeSystem:
		_, ok = data.(SystemData)
	default:
		return "", fmt.Errorf("unknown notification type %q", notificationType)
	}
	if !ok {
		return "", fmt.Errorf("payload %T does not match notification type %q", data, notificationType)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeData returns the typed payload for the notification's type.
func (n *Notification) DecodeData() (any, error) {
	switch n.Type {
	case NotificationTypeSale:
		var d SaleData
		return d, json.Unmarshal([]byte(n.DataJSON), &d)
	case NotificationTypeListingRemoval:
		var d ListingRemovalData
		return d, json.Unmarshal([]byte(n.DataJSON), &d)
	case NotificationTypeTicketReply:
		var d TicketReplyData
		return d, json.Unmarshal([]byte(n.DataJSON), &d)
	case NotificationTypeSystem:
		var d SystemData
		return d, json.Unmarshal([]byte(n.DataJSON), &d)
	default:
		return nil, fmt.Errorf("unknown notification type %q", n.Type)
	}
}

// MarkAsRead marks a notification as read
func (n *Notification) MarkAsRead(db *gorm.DB) error {
	n.IsRead = true
	return db.Model(n).Update("is_read", true).Error
}

// CreateNotification writes a typed notification for a user.
func CreateNotification(db *gorm.DB, userID uint, notificationType string, data any) error {
	encoded, err := EncodeNotificationData(notificationType, data)
	if err != nil {
		return err
	}

	notification := Notification{
		UserID:   userID,
		Type:     notificationType,
		DataJSON: encoded,
		IsRead:   false,
	}

	return db.Create(&notification).Error
}

package cleanup

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/storage"
)

// Service runs the deferred-deletion sweeps. Invoked synchronously from the
// externally triggered cron endpoints; there is no background worker.
type Service struct {
	db *gorm.DB
}

// NewService creates a cleanup service on a GORM handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Outcome records what happened to one entity during a sweep.
type Outcome struct {
	ID      uint   `json:"id"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// Result summarizes a sweep run.
type Result struct {
	Deleted  int       `json:"deleted"`
	Skipped  int       `json:"skipped"`
	Outcomes []Outcome `json:"outcomes"`
}

func (r *Result) record(id uint, err error) {
	if err != nil {
		r.Skipped++
		r.Outcomes = append(r.Outcomes, Outcome{ID: id, Error: err.Error()})
		return
	}
	r.Deleted++
	r.Outcomes = append(r.Outcomes, Outcome{ID: id, Deleted: true})
}

// ScheduleListingDeletion marks a listing for removal after the grace period
// and notifies every buyer who owns it. Notification inserts are best-effort.
func (s *Service) ScheduleListingDeletion(listing *models.AssetListing, now time.Time) error {
	listing.ScheduleDeletion(now)
	if err := s.db.Model(listing).Update("deletion_scheduled_at", listing.DeletionScheduledAt).Error; err != nil {
		return err
	}

	var buyerIDs []uint
	if err := s.db.Model(&models.Order{}).
		Where("listing_id = ?", listing.ID).
		Distinct("buyer_id").
		Pluck("buyer_id", &buyerIDs).Error; err != nil {
		log.Errorf("[Cleanup] Failed to load buyers for listing %d: %v", listing.ID, err)
		return nil
	}

	for _, buyerID := range buyerIDs {
		err := models.CreateNotification(s.db, buyerID, models.NotificationTypeListingRemoval, models.ListingRemovalData{
			ListingID:    listing.ID,
			ListingTitle: listing.Title,
			RemovalAt:    *listing.DeletionScheduledAt,
		})
		if err != nil {
			log.Errorf("[Cleanup] Failed to notify buyer %d about listing %d removal: %v", buyerID, listing.ID, err)
		}
	}

	return nil
}

// CancelListingDeletion clears a pending removal and takes back the removal
// notifications it created.
func (s *Service) CancelListingDeletion(listing *models.AssetListing) error {
	listing.CancelDeletion()
	if err := s.db.Model(listing).Update("deletion_scheduled_at", nil).Error; err != nil {
		return err
	}

	if err := s.db.Where("type = ? AND data_json LIKE ?",
		models.NotificationTypeListingRemoval,
		fmt.Sprintf(`{"listing_id":%d,%%`, listing.ID)).
		Delete(&models.Notification{}).Error; err != nil {
		log.Errorf("[Cleanup] Failed to remove stale removal notifications for listing %d: %v", listing.ID, err)
	}

	return nil
}

// SweepListings removes listings whose scheduled deletion has come due, or a
// single forced id regardless of schedule. Per listing: storage objects are
// deleted best-effort first, then dependent orders and the listing row go in
// one transaction, so the database never ends up with orders pointing at a
// removed listing.
func (s *Service) SweepListings(forceID uint, now time.Time) (*Result, error) {
	var listings []models.AssetListing
	query := s.db.Model(&models.AssetListing{})
	if forceID > 0 {
		query = query.Where("id = ?", forceID)
	} else {
		query = query.Where("deletion_scheduled_at IS NOT NULL AND deletion_scheduled_at <= ?", now)
	}
	if err := query.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to load due listings: %w", err)
	}

	result := &Result{}
	for i := range listings {
		listing := &listings[i]
		s.deleteListingObjects(listing)

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.Order{}).Error; err != nil {
				return fmt.Errorf("failed to delete orders: %w", err)
			}
			if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.AssetVote{}).Error; err != nil {
				return fmt.Errorf("failed to delete votes: %w", err)
			}
			if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.WishlistEntry{}).Error; err != nil {
				return fmt.Errorf("failed to delete wishlist entries: %w", err)
			}
			if err := tx.Unscoped().Delete(listing).Error; err != nil {
				return fmt.Errorf("failed to delete listing: %w", err)
			}
			return nil
		})
		if err != nil {
			log.Errorf("[Cleanup] Sweep of listing %d failed: %v", listing.ID, err)
		} else {
			log.Infof("[Cleanup] Swept listing %d (%s)", listing.ID, listing.Title)
		}
		result.record(listing.ID, err)
	}

	return result, nil
}

// deleteListingObjects removes the listing's stored objects. Errors are
// logged, never raised: a missing object must not block the sweep.
func (s *Service) deleteListingObjects(listing *models.AssetListing) {
	client := storage.GetClient()
	if client == nil {
		return
	}
	if listing.FileObjectKey != "" {
		if err := client.DeleteObject(storage.BucketName(storage.BucketProductFiles), listing.FileObjectKey); err != nil {
			log.Errorf("[Cleanup] Failed to delete product file for listing %d: %v", listing.ID, err)
		}
	}
	if listing.PreviewObjectKey != "" {
		if err := client.DeleteObject(storage.BucketName(storage.BucketPreviews), listing.PreviewObjectKey); err != nil {
			log.Errorf("[Cleanup] Failed to delete preview for listing %d: %v", listing.ID, err)
		}
	}
}

// SweepTickets removes closed tickets whose retention has expired, messages
// first, ticket second, one transaction per ticket.
func (s *Service) SweepTickets(now time.Time) (*Result, error) {
	var tickets []models.SupportTicket
	err := s.db.Where("status = ? AND scheduled_deletion_at IS NOT NULL AND scheduled_deletion_at <= ?",
		models.TicketStatusClosed, now).
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load due tickets: %w", err)
	}

	result := &Result{}
	for i := range tickets {
		ticket := &tickets[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("ticket_id = ?", ticket.ID).Delete(&models.SupportMessage{}).Error; err != nil {
				return fmt.Errorf("failed to delete messages: %w", err)
			}
			if err := tx.Unscoped().Delete(ticket).Error; err != nil {
				return fmt.Errorf("failed to delete ticket: %w", err)
			}
			return nil
		})
		if err != nil {
			log.Errorf("[Cleanup] Sweep of ticket %d failed: %v", ticket.ID, err)
		} else {
			log.Infof("[Cleanup] Swept ticket %d", ticket.ID)
		}
		result.record(ticket.ID, err)
	}

	return result, nil
}

// SweepNotifications bulk-deletes notifications past the retention window.
func (s *Service) SweepNotifications(now time.Time) (int64, error) {
	cutoff := now.Add(-models.NotificationRetention)
	tx := s.db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.Notification{})
	if tx.Error != nil {
		return 0, fmt.Errorf("failed to sweep notifications: %w", tx.Error)
	}
	log.Infof("[Cleanup] Swept %d notifications older than %s", tx.RowsAffected, cutoff.Format(time.RFC3339))
	return tx.RowsAffected, nil
}

package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusClosed     = "closed"
)

// TicketRetention is how long a closed ticket is kept before the sweep
// removes it.
const TicketRetention = 72 * time.Hour

type SupportTicket struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	UserID              uint           `gorm:"not null;index" json:"user_id"`
	User                User           `gorm:"foreignKey:UserID" json:"-"`
	Subject             string         `gorm:"type:varchar(200);not null" json:"subject" validate:"required,min=3,max=200"`
	Status              string         `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	ClosureReason       *string        `gorm:"type:varchar(255);default:null" json:"closure_reason,omitempty"`
	ScheduledDeletionAt *time.Time     `gorm:"type:timestamp;default:null;index" json:"scheduled_deletion_at,omitempty"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

type SupportMessage struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	TicketID  uint          `gorm:"not null;index" json:"ticket_id"`
	Ticket    SupportTicket `gorm:"foreignKey:TicketID" json:"-"`
	SenderID  uint          `gorm:"not null" json:"sender_id"`
	Body      string        `gorm:"type:text;not null" json:"body" validate:"required,min=1,max=10000"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// Close marks the ticket closed with a reason and schedules its removal
// exactly TicketRetention after the closing time.
func (t *SupportTicket) Close(reason string, now time.Time) {
	t.Status = TicketStatusClosed
	t.ClosureReason = &reason
	at := now.Add(TicketRetention)
	t.ScheduledDeletionAt = &at
}

// Reopen puts the ticket back to open and clears closure state, which also
// takes it out of the deletion sweep.
func (t *SupportTicket) Reopen() {
	t.Status = TicketStatusOpen
	t.ClosureReason = nil
	t.ScheduledDeletionAt = nil
}

// DeletionDue reports whether the sweep should remove this ticket.
func (t *SupportTicket) DeletionDue(now time.Time) bool {
	return t.Status == TicketStatusClosed &&
		t.ScheduledDeletionAt != nil &&
		!t.ScheduledDeletionAt.After(now)
}

package repository

import (
	"github.com/ManuelReschke/PixelMarket/app/models"
	"gorm.io/gorm"
)

// ticketRepository implements the TicketRepository interface
type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository instance
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

// Create creates a new ticket in the database
func (r *ticketRepository) Create(ticket *models.SupportTicket) error {
	return r.db.Create(ticket).Error
}

// GetByID retrieves a ticket by its ID
func (r *ticketRepository) GetByID(id uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := r.db.First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetByUserID retrieves all tickets of a user, newest first
func (r *ticketRepository) GetByUserID(userID uint) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

// ListOpen retrieves non-closed tickets for the admin queue, oldest first
func (r *ticketRepository) ListOpen(offset, limit int) ([]models.SupportTicket, error) {
	var tickets []models.SupportTicket
	err := r.db.Where("status <> ?", models.TicketStatusClosed).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&tickets).Error
	return tickets, err
}

// Update updates an existing ticket in the database
func (r *ticketRepository) Update(ticket *models.SupportTicket) error {
	return r.db.Save(ticket).Error
}

// AddMessage appends a message to a ticket
func (r *ticketRepository) AddMessage(message *models.SupportMessage) error {
	return r.db.Create(message).Error
}

// GetMessages retrieves a ticket's messages in chronological order
func (r *ticketRepository) GetMessages(ticketID uint) ([]models.SupportMessage, error) {
	var messages []models.SupportMessage
	err := r.db.Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

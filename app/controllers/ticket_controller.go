package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelMarket/app/models"
	"github.com/ManuelReschke/PixelMarket/app/repository"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/database"
	"github.com/ManuelReschke/PixelMarket/internal/pkg/usercontext"
)

type createTicketRequest struct {
	Subject string `json:"subject" validate:"required,min=3,max=200"`
	Body    string `json:"body" validate:"required,min=1,max=10000"`
}

type ticketMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=10000"`
}

type closeTicketRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=255"`
}

// HandleCreateTicket opens a support ticket with an initial message.
func HandleCreateTicket(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req createTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	ticket := &models.SupportTicket{
		UserID:  userCtx.UserID,
		Subject: req.Subject,
		Status:  models.TicketStatusOpen,
	}
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		return tx.Create(&models.SupportMessage{
			TicketID: ticket.ID,
			SenderID: userCtx.UserID,
			Body:     req.Body,
		}).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create ticket"})
	}

	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// HandleMyTickets lists the caller's tickets.
func HandleMyTickets(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	tickets, err := repository.GetGlobalFactory().GetTicketRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load tickets"})
	}

	return c.JSON(fiber.Map{"tickets": tickets})
}

// HandleGetTicket returns one ticket with its message thread.
func HandleGetTicket(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	ticket, status, errResp := loadAccessibleTicket(c, userCtx)
	if ticket == nil {
		return c.Status(status).JSON(errResp)
	}

	messages, err := repository.GetGlobalFactory().GetTicketRepository().GetMessages(ticket.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load messages"})
	}

	return c.JSON(fiber.Map{
		"ticket":   ticket,
		"messages": messages,
	})
}

// HandleTicketMessage appends a message to a ticket. A reply from support
// staff notifies the ticket owner. Closed tickets reject new messages.
func HandleTicketMessage(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	ticket, status, errResp := loadAccessibleTicket(c, userCtx)
	if ticket == nil {
		return c.Status(status).JSON(errResp)
	}
	if ticket.Status == models.TicketStatusClosed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Ticket is closed"})
	}

	var req ticketMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetTicketRepository()
	message := &models.SupportMessage{
		TicketID: ticket.ID,
		SenderID: userCtx.UserID,
		Body:     req.Body,
	}
	if err := repo.AddMessage(message); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save message"})
	}

	if userCtx.IsAdmin && ticket.UserID != userCtx.UserID {
		if ticket.Status == models.TicketStatusOpen {
			ticket.Status = models.TicketStatusInProgress
			_ = repo.Update(ticket)
		}
		_ = models.CreateNotification(database.GetDB(), ticket.UserID, models.NotificationTypeTicketReply, models.TicketReplyData{
			TicketID: ticket.ID,
			Subject:  ticket.Subject,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// HandleCloseTicket closes a ticket with a reason and starts its retention
// countdown.
func HandleCloseTicket(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	ticket, status, errResp := loadAccessibleTicket(c, userCtx)
	if ticket == nil {
		return c.Status(status).JSON(errResp)
	}
	if ticket.Status == models.TicketStatusClosed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Ticket is already closed"})
	}

	var req closeTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "A closure reason is required"})
	}

	ticket.Close(req.Reason, time.Now())
	if err := repository.GetGlobalFactory().GetTicketRepository().Update(ticket); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to close ticket"})
	}

	return c.JSON(ticket)
}

// HandleReopenTicket reopens a closed ticket, which also cancels the pending
// retention deletion.
func HandleReopenTicket(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	ticket, status, errResp := loadAccessibleTicket(c, userCtx)
	if ticket == nil {
		return c.Status(status).JSON(errResp)
	}
	if ticket.Status != models.TicketStatusClosed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Ticket is not closed"})
	}

	ticket.Reopen()
	if err := repository.GetGlobalFactory().GetTicketRepository().Update(ticket); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to reopen ticket"})
	}

	return c.JSON(ticket)
}

// HandleAdminListTickets lists the open ticket queue for support staff.
func HandleAdminListTickets(c *fiber.Ctx) error {
	offset, limit := pagination(c)

	tickets, err := repository.GetGlobalFactory().GetTicketRepository().ListOpen(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load tickets"})
	}

	return c.JSON(fiber.Map{"tickets": tickets})
}

// loadAccessibleTicket resolves :id to a ticket the caller may touch:
// the owner or an admin.
func loadAccessibleTicket(c *fiber.Ctx, userCtx usercontext.UserContext) (*models.SupportTicket, int, fiber.Map) {
	ticketID := parseUintParam(c, "id")
	if ticketID == 0 {
		return nil, fiber.StatusBadRequest, fiber.Map{"error": "bad_request", "message": "Invalid ticket id"}
	}

	ticket, err := repository.GetGlobalFactory().GetTicketRepository().GetByID(ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.StatusNotFound, fiber.Map{"error": "not_found", "message": "Ticket not found"}
		}
		return nil, fiber.StatusInternalServerError, fiber.Map{"error": "internal_server_error", "message": "Failed to load ticket"}
	}
	if ticket.UserID != userCtx.UserID && !userCtx.IsAdmin {
		return nil, fiber.StatusForbidden, fiber.Map{"error": "forbidden", "message": "Not your ticket"}
	}
	return ticket, 0, nil
}

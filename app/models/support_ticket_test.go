package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportTicketClose(t *testing.T) {
	ticket := &SupportTicket{UserID: 1, Subject: "download broken", Status: TicketStatusOpen}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ticket.Close("resolved via email", now)

	assert.Equal(t, TicketStatusClosed, ticket.Status)
	require.NotNil(t, ticket.ClosureReason)
	assert.Equal(t, "resolved via email", *ticket.ClosureReason)
	require.NotNil(t, ticket.ScheduledDeletionAt)
	assert.Equal(t, now.Add(72*time.Hour), *ticket.ScheduledDeletionAt)
}

func TestSupportTicketReopen(t *testing.T) {
	ticket := &SupportTicket{UserID: 1, Subject: "download broken", Status: TicketStatusOpen}
	ticket.Close("duplicate", time.Now())

	ticket.Reopen()

	assert.Equal(t, TicketStatusOpen, ticket.Status)
	assert.Nil(t, ticket.ClosureReason)
	assert.Nil(t, ticket.ScheduledDeletionAt)
}

func TestSupportTicketDeletionDue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	open := &SupportTicket{Status: TicketStatusOpen, ScheduledDeletionAt: &past}
	assert.False(t, open.DeletionDue(now), "open tickets must never be swept")

	closedFuture := &SupportTicket{Status: TicketStatusClosed, ScheduledDeletionAt: &future}
	assert.False(t, closedFuture.DeletionDue(now))

	closedDue := &SupportTicket{Status: TicketStatusClosed, ScheduledDeletionAt: &past}
	assert.True(t, closedDue.DeletionDue(now))
}

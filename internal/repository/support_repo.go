package repository

import (
	"context"

	"hospverse-api/internal/domain"
)

// SupportRepository is platform-level: tickets raised by clinics and the
// message threads under them.
type SupportRepository interface {
	// ListTickets is platform-wide; clientID and status narrow when set.
	ListTickets(ctx context.Context, clientID, status string) ([]*domain.SupportTicket, error)
	GetTicket(ctx context.Context, id string) (*domain.SupportTicket, error)
	CreateTicket(ctx context.Context, t *domain.SupportTicket) (*domain.SupportTicket, error)
	UpdateTicket(ctx context.Context, t *domain.SupportTicket) error

	ListMessages(ctx context.Context, ticketID string) ([]*domain.TicketMessage, error)
	CreateMessage(ctx context.Context, m *domain.TicketMessage) (*domain.TicketMessage, error)
}

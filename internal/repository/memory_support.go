package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// MemorySupportRepo is the dev/test fallback for support tickets.
type MemorySupportRepo struct {
	mu       sync.RWMutex
	tickets  map[string]domain.SupportTicket
	messages map[string]domain.TicketMessage
}

func NewMemorySupportRepo() *MemorySupportRepo {
	return &MemorySupportRepo{
		tickets:  map[string]domain.SupportTicket{},
		messages: map[string]domain.TicketMessage{},
	}
}

var _ SupportRepository = (*MemorySupportRepo)(nil)

func (r *MemorySupportRepo) ListTickets(_ context.Context, clientID, status string) ([]*domain.SupportTicket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tickets := []*domain.SupportTicket{}
	for _, t := range r.tickets {
		if clientID != "" && t.ClientID != clientID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out := t
		tickets = append(tickets, &out)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt > tickets[j].CreatedAt })
	return tickets, nil
}

func (r *MemorySupportRepo) GetTicket(_ context.Context, id string) (*domain.SupportTicket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, fmt.Errorf("ticket not found: id '%s' %w", id, ErrNotFound)
	}
	out := t
	return &out, nil
}

func (r *MemorySupportRepo) CreateTicket(_ context.Context, t *domain.SupportTicket) (*domain.SupportTicket, error) {
	if t == nil || t.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if t.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = "open"
	}
	if t.Priority == "" {
		t.Priority = "medium"
	}
	r.tickets[t.ID] = *t
	return t, nil
}

func (r *MemorySupportRepo) UpdateTicket(_ context.Context, t *domain.SupportTicket) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("ticket id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[t.ID]; !ok {
		return fmt.Errorf("ticket not found: id '%s' %w", t.ID, ErrNotFound)
	}
	r.tickets[t.ID] = *t
	return nil
}

func (r *MemorySupportRepo) ListMessages(_ context.Context, ticketID string) ([]*domain.TicketMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	messages := []*domain.TicketMessage{}
	for _, m := range r.messages {
		if m.TicketID != ticketID {
			continue
		}
		out := m
		messages = append(messages, &out)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].Timestamp < messages[j].Timestamp })
	return messages, nil
}

func (r *MemorySupportRepo) CreateMessage(_ context.Context, m *domain.TicketMessage) (*domain.TicketMessage, error) {
	if m == nil || m.TicketID == "" {
		return nil, fmt.Errorf("ticket_id is required")
	}
	if m.Message == "" {
		return nil, fmt.Errorf("message is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.messages[m.ID] = *m
	return m, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresSupportRepository implements SupportRepository over
// support_tickets and ticket_messages.
type PostgresSupportRepository struct {
	db *sql.DB
}

func NewPostgresSupportRepository(db *sql.DB) *PostgresSupportRepository {
	return &PostgresSupportRepository{db: db}
}

var _ SupportRepository = (*PostgresSupportRepository)(nil)

const ticketColumns = `
	id,
	client_id,
	COALESCE(client_name, '') AS client_name,
	subject,
	COALESCE(description, '') AS description,
	COALESCE(status, 'open') AS status,
	COALESCE(priority, 'medium') AS priority,
	COALESCE(created_at::text, '') AS created_at,
	COALESCE(updated_at::text, '') AS updated_at,
	COALESCE(assigned_to, '') AS assigned_to,
	COALESCE(contact_name, '') AS contact_name,
	COALESCE(contact_email, '') AS contact_email,
	COALESCE(contact_phone, '') AS contact_phone`

func scanTicket(row interface{ Scan(...any) error }) (*domain.SupportTicket, error) {
	var t domain.SupportTicket
	err := row.Scan(&t.ID, &t.ClientID, &t.ClientName, &t.Subject,
		&t.Description, &t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt,
		&t.AssignedTo, &t.ContactName, &t.ContactEmail, &t.ContactPhone)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresSupportRepository) ListTickets(ctx context.Context, clientID, status string) ([]*domain.SupportTicket, error) {
	where := []string{}
	args := []any{}
	argIdx := 1

	if clientID != "" {
		where = append(where, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, clientID)
		argIdx++
	}
	if status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, status)
		argIdx++
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}
	query := fmt.Sprintf(`SELECT %s FROM support_tickets %s ORDER BY created_at DESC`, ticketColumns, whereClause)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	tickets := []*domain.SupportTicket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}
	return tickets, nil
}

func (r *PostgresSupportRepository) GetTicket(ctx context.Context, id string) (*domain.SupportTicket, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	query := fmt.Sprintf(`SELECT %s FROM support_tickets WHERE id = $1`, ticketColumns)
	t, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("ticket not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return t, nil
}

func (r *PostgresSupportRepository) CreateTicket(ctx context.Context, t *domain.SupportTicket) (*domain.SupportTicket, error) {
	if t == nil || t.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if t.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = "open"
	}
	if t.Priority == "" {
		t.Priority = "medium"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO support_tickets (
			id, client_id, client_name, subject, description, status, priority,
			created_at, updated_at, assigned_to, contact_name, contact_email,
			contact_phone
		) VALUES (
			$1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7,
			NULLIF($8, '')::timestamptz, NULLIF($9, '')::timestamptz,
			NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, '')
		)`,
		t.ID, t.ClientID, t.ClientName, t.Subject, t.Description, t.Status,
		t.Priority, t.CreatedAt, t.UpdatedAt, t.AssignedTo, t.ContactName,
		t.ContactEmail, t.ContactPhone,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	return t, nil
}

func (r *PostgresSupportRepository) UpdateTicket(ctx context.Context, t *domain.SupportTicket) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("ticket id is required")
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE support_tickets SET
			subject = $2,
			description = NULLIF($3, ''),
			status = $4,
			priority = $5,
			updated_at = NULLIF($6, '')::timestamptz,
			assigned_to = NULLIF($7, '')
		WHERE id = $1`,
		t.ID, t.Subject, t.Description, t.Status, t.Priority, t.UpdatedAt,
		t.AssignedTo,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ticket not found: id '%s' %w", t.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresSupportRepository) ListMessages(ctx context.Context, ticketID string) ([]*domain.TicketMessage, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("ticket_id is required")
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			id, ticket_id, message,
			COALESCE(sender, '') AS sender,
			COALESCE(sender_name, '') AS sender_name,
			COALESCE(timestamp::text, '') AS timestamp
		FROM ticket_messages
		WHERE ticket_id = $1
		ORDER BY timestamp`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket messages: %w", err)
	}
	defer rows.Close()

	messages := []*domain.TicketMessage{}
	for rows.Next() {
		var m domain.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.Message, &m.Sender,
			&m.SenderName, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan ticket message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ticket messages: %w", err)
	}
	return messages, nil
}

func (r *PostgresSupportRepository) CreateMessage(ctx context.Context, m *domain.TicketMessage) (*domain.TicketMessage, error) {
	if m == nil || m.TicketID == "" {
		return nil, fmt.Errorf("ticket_id is required")
	}
	if m.Message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ticket_messages (id, ticket_id, message, sender, sender_name, timestamp)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::timestamptz)`,
		m.ID, m.TicketID, m.Message, m.Sender, m.SenderName, m.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket message: %w", err)
	}
	return m, nil
}

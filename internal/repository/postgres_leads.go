package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresLeadsRepository implements LeadsRepository over leads and
// converted_leads. History arrays are jsonb columns on the lead row.
type PostgresLeadsRepository struct {
	db *sql.DB
}

func NewPostgresLeadsRepository(db *sql.DB) *PostgresLeadsRepository {
	return &PostgresLeadsRepository{db: db}
}

var _ LeadsRepository = (*PostgresLeadsRepository)(nil)

const leadColumns = `
	id,
	client_id,
	full_name,
	COALESCE(mobile, '') AS mobile,
	COALESCE(email, '') AS email,
	COALESCE(source, '') AS source,
	COALESCE(status, 'new') AS status,
	COALESCE(assigned_to, '') AS assigned_to,
	COALESCE(assigned_to_id, '') AS assigned_to_id,
	COALESCE(notes, '') AS notes,
	COALESCE(created_at::text, '') AS created_at,
	COALESCE(updated_at::text, '') AS updated_at,
	COALESCE(converted_at::text, '') AS converted_at,
	COALESCE(drop_reason, '') AS drop_reason,
	COALESCE(status_history, '[]'::jsonb) AS status_history,
	COALESCE(notes_history, '[]'::jsonb) AS notes_history`

func scanLead(row interface{ Scan(...any) error }) (*domain.Lead, error) {
	var l domain.Lead
	var statusRaw, notesRaw []byte
	err := row.Scan(
		&l.ID, &l.ClientID, &l.FullName, &l.Mobile, &l.Email, &l.Source,
		&l.Status, &l.AssignedTo, &l.AssignedToID, &l.Notes, &l.CreatedAt,
		&l.UpdatedAt, &l.ConvertedAt, &l.DropReason, &statusRaw, &notesRaw,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(statusRaw, &l.StatusHistory); err != nil {
		return nil, fmt.Errorf("failed to decode status_history: %w", err)
	}
	if err := json.Unmarshal(notesRaw, &l.NotesHistory); err != nil {
		return nil, fmt.Errorf("failed to decode notes_history: %w", err)
	}
	return &l, nil
}

func (r *PostgresLeadsRepository) ListLeads(ctx context.Context, clientID string, filter LeadFilters) ([]*domain.Lead, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2

	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Source != "" {
		where = append(where, fmt.Sprintf("source = $%d", argIdx))
		args = append(args, filter.Source)
		argIdx++
	}
	if filter.AssignedTo != "" {
		where = append(where, fmt.Sprintf("(assigned_to = $%d OR assigned_to_id = $%d)", argIdx, argIdx))
		args = append(args, filter.AssignedTo)
		argIdx++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR mobile ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC`,
		leadColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []*domain.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}
	return leads, nil
}

func (r *PostgresLeadsRepository) GetLead(ctx context.Context, clientID, id string) (*domain.Lead, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE client_id = $1 AND id = $2`, leadColumns)
	l, err := scanLead(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("lead not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return l, nil
}

func (r *PostgresLeadsRepository) CreateLead(ctx context.Context, lead *domain.Lead) (*domain.Lead, error) {
	if lead == nil || lead.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if lead.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = "new"
	}
	if lead.StatusHistory == nil {
		lead.StatusHistory = []domain.LeadStatusEntry{}
	}
	if lead.NotesHistory == nil {
		lead.NotesHistory = []domain.LeadNoteEntry{}
	}
	statusRaw, err := json.Marshal(lead.StatusHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to encode status_history: %w", err)
	}
	notesRaw, err := json.Marshal(lead.NotesHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notes_history: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO leads (
			id, client_id, full_name, mobile, email, source, status,
			assigned_to, assigned_to_id, notes, created_at, updated_at,
			status_history, notes_history
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7,
			NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''),
			NULLIF($11, '')::timestamptz, NULLIF($12, '')::timestamptz,
			$13::jsonb, $14::jsonb
		)`,
		lead.ID, lead.ClientID, lead.FullName, lead.Mobile, lead.Email,
		lead.Source, lead.Status, lead.AssignedTo, lead.AssignedToID,
		lead.Notes, lead.CreatedAt, lead.UpdatedAt, string(statusRaw),
		string(notesRaw),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}
	return lead, nil
}

func (r *PostgresLeadsRepository) UpdateLead(ctx context.Context, lead *domain.Lead) error {
	if lead == nil || lead.ID == "" || lead.ClientID == "" {
		return fmt.Errorf("client_id and id are required")
	}
	statusRaw, err := json.Marshal(lead.StatusHistory)
	if err != nil {
		return fmt.Errorf("failed to encode status_history: %w", err)
	}
	notesRaw, err := json.Marshal(lead.NotesHistory)
	if err != nil {
		return fmt.Errorf("failed to encode notes_history: %w", err)
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE leads SET
			full_name = $3,
			mobile = NULLIF($4, ''),
			email = NULLIF($5, ''),
			source = NULLIF($6, ''),
			status = $7,
			assigned_to = NULLIF($8, ''),
			assigned_to_id = NULLIF($9, ''),
			notes = NULLIF($10, ''),
			updated_at = NULLIF($11, '')::timestamptz,
			converted_at = NULLIF($12, '')::timestamptz,
			drop_reason = NULLIF($13, ''),
			status_history = $14::jsonb,
			notes_history = $15::jsonb
		WHERE client_id = $1 AND id = $2`,
		lead.ClientID, lead.ID, lead.FullName, lead.Mobile, lead.Email,
		lead.Source, lead.Status, lead.AssignedTo, lead.AssignedToID,
		lead.Notes, lead.UpdatedAt, lead.ConvertedAt, lead.DropReason,
		string(statusRaw), string(notesRaw),
	)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("lead not found: id '%s' %w", lead.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresLeadsRepository) ListConvertedLeads(ctx context.Context, clientID string) ([]*domain.ConvertedLead, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			id, client_id, lead_id, patient_id,
			COALESCE(full_name, '') AS full_name,
			COALESCE(mobile, '') AS mobile,
			COALESCE(email, '') AS email,
			COALESCE(converted_at::text, '') AS converted_at,
			COALESCE(converted_by, '') AS converted_by,
			COALESCE(source, '') AS source
		FROM converted_leads
		WHERE client_id = $1
		ORDER BY converted_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list converted leads: %w", err)
	}
	defer rows.Close()

	converted := []*domain.ConvertedLead{}
	for rows.Next() {
		var c domain.ConvertedLead
		if err := rows.Scan(&c.ID, &c.ClientID, &c.LeadID, &c.PatientID,
			&c.FullName, &c.Mobile, &c.Email, &c.ConvertedAt, &c.ConvertedBy,
			&c.Source); err != nil {
			return nil, fmt.Errorf("failed to scan converted lead: %w", err)
		}
		converted = append(converted, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate converted leads: %w", err)
	}
	return converted, nil
}

func (r *PostgresLeadsRepository) CreateConvertedLead(ctx context.Context, cl *domain.ConvertedLead) (*domain.ConvertedLead, error) {
	if cl == nil || cl.ClientID == "" || cl.LeadID == "" {
		return nil, fmt.Errorf("client_id and lead_id are required")
	}
	if cl.ID == "" {
		cl.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO converted_leads (id, client_id, lead_id, patient_id, full_name, mobile, email, converted_at, converted_by, source)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, '')::timestamptz, NULLIF($9, ''), NULLIF($10, ''))`,
		cl.ID, cl.ClientID, cl.LeadID, cl.PatientID, cl.FullName, cl.Mobile,
		cl.Email, cl.ConvertedAt, cl.ConvertedBy, cl.Source,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create converted lead: %w", err)
	}
	return cl, nil
}

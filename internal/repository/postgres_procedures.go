package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresProceduresRepository implements ProceduresRepository over
// procedures, session_history and technician_assignments.
type PostgresProceduresRepository struct {
	db *sql.DB
}

func NewPostgresProceduresRepository(db *sql.DB) *PostgresProceduresRepository {
	return &PostgresProceduresRepository{db: db}
}

var _ ProceduresRepository = (*PostgresProceduresRepository)(nil)

const procedureColumns = `
	id,
	client_id,
	patient_id,
	COALESCE(patient_name, '') AS patient_name,
	COALESCE(patient_age, 0) AS patient_age,
	COALESCE(patient_phone, '') AS patient_phone,
	COALESCE(procedure, '') AS procedure,
	COALESCE(duration, 0) AS duration,
	COALESCE(assigned_by, '') AS assigned_by,
	COALESCE(assigned_by_id, '') AS assigned_by_id,
	COALESCE(scheduled_time, '') AS scheduled_time,
	COALESCE(status, 'pending') AS status,
	COALESCE(notes, '') AS notes,
	COALESCE(assigned_at::text, '') AS assigned_at,
	COALESCE(date::text, '') AS date,
	COALESCE(start_time, '') AS start_time,
	COALESCE(end_time, '') AS end_time,
	COALESCE(completion_notes, '') AS completion_notes,
	COALESCE(actual_duration, 0) AS actual_duration`

func scanProcedure(row interface{ Scan(...any) error }) (*domain.Procedure, error) {
	var p domain.Procedure
	err := row.Scan(
		&p.ID, &p.ClientID, &p.PatientID, &p.PatientName, &p.PatientAge,
		&p.PatientPhone, &p.Procedure, &p.Duration, &p.AssignedBy,
		&p.AssignedByID, &p.ScheduledTime, &p.Status, &p.Notes, &p.AssignedAt,
		&p.Date, &p.StartTime, &p.EndTime, &p.CompletionNotes, &p.ActualDuration,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresProceduresRepository) ListProcedures(ctx context.Context, clientID string, filter ProcedureFilters) ([]*domain.Procedure, error) {
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
	if filter.Date != "" {
		where = append(where, fmt.Sprintf("date = $%d::date", argIdx))
		args = append(args, filter.Date)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM procedures WHERE %s ORDER BY scheduled_time`,
		procedureColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list procedures: %w", err)
	}
	defer rows.Close()

	procedures := []*domain.Procedure{}
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan procedure: %w", err)
		}
		procedures = append(procedures, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate procedures: %w", err)
	}
	return procedures, nil
}

func (r *PostgresProceduresRepository) GetProcedure(ctx context.Context, clientID, id string) (*domain.Procedure, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM procedures WHERE client_id = $1 AND id = $2`, procedureColumns)
	p, err := scanProcedure(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("procedure not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get procedure: %w", err)
	}
	return p, nil
}

func (r *PostgresProceduresRepository) CreateProcedure(ctx context.Context, p *domain.Procedure) (*domain.Procedure, error) {
	if p == nil || p.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "pending"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO procedures (
			id, client_id, patient_id, patient_name, patient_age,
			patient_phone, procedure, duration, assigned_by, assigned_by_id,
			scheduled_time, status, notes, assigned_at, date
		) VALUES (
			$1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, NULLIF($9, ''),
			NULLIF($10, ''), $11, $12, NULLIF($13, ''),
			NULLIF($14, '')::timestamptz, NULLIF($15, '')::date
		)`,
		p.ID, p.ClientID, p.PatientID, p.PatientName, p.PatientAge,
		p.PatientPhone, p.Procedure, p.Duration, p.AssignedBy, p.AssignedByID,
		p.ScheduledTime, p.Status, p.Notes, p.AssignedAt, p.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create procedure: %w", err)
	}
	return p, nil
}

func (r *PostgresProceduresRepository) UpdateProcedure(ctx context.Context, p *domain.Procedure) error {
	if p == nil || p.ID == "" || p.ClientID == "" {
		return fmt.Errorf("client_id and id are required")
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE procedures SET
			patient_name = $3,
			patient_age = $4,
			patient_phone = NULLIF($5, ''),
			procedure = $6,
			duration = $7,
			scheduled_time = $8,
			status = $9,
			notes = NULLIF($10, ''),
			start_time = NULLIF($11, ''),
			end_time = NULLIF($12, ''),
			completion_notes = NULLIF($13, ''),
			actual_duration = $14
		WHERE client_id = $1 AND id = $2`,
		p.ClientID, p.ID, p.PatientName, p.PatientAge, p.PatientPhone,
		p.Procedure, p.Duration, p.ScheduledTime, p.Status, p.Notes,
		p.StartTime, p.EndTime, p.CompletionNotes, p.ActualDuration,
	)
	if err != nil {
		return fmt.Errorf("failed to update procedure: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("procedure not found: id '%s' %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresProceduresRepository) ListSessionHistory(ctx context.Context, clientID, patientID string) ([]*domain.SessionHistoryEntry, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	if patientID != "" {
		where = append(where, "patient_id = $2")
		args = append(args, patientID)
	}
	query := fmt.Sprintf(`
		SELECT
			id, client_id, patient_id,
			COALESCE(patient_name, '') AS patient_name,
			COALESCE(procedure, '') AS procedure,
			COALESCE(duration, 0) AS duration,
			COALESCE(assigned_by, '') AS assigned_by,
			COALESCE(date::text, '') AS date,
			COALESCE(start_time, '') AS start_time,
			COALESCE(end_time, '') AS end_time,
			COALESCE(status, '') AS status,
			COALESCE(notes, '') AS notes
		FROM session_history
		WHERE %s
		ORDER BY date DESC, end_time DESC`, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list session history: %w", err)
	}
	defer rows.Close()

	entries := []*domain.SessionHistoryEntry{}
	for rows.Next() {
		var e domain.SessionHistoryEntry
		if err := rows.Scan(&e.ID, &e.ClientID, &e.PatientID, &e.PatientName,
			&e.Procedure, &e.Duration, &e.AssignedBy, &e.Date, &e.StartTime,
			&e.EndTime, &e.Status, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan session history entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session history: %w", err)
	}
	return entries, nil
}

func (r *PostgresProceduresRepository) CreateSessionHistory(ctx context.Context, e *domain.SessionHistoryEntry) (*domain.SessionHistoryEntry, error) {
	if e == nil || e.ClientID == "" || e.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_history (id, client_id, patient_id, patient_name, procedure, duration, assigned_by, date, start_time, end_time, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, '')::date, NULLIF($9, ''), NULLIF($10, ''), $11, NULLIF($12, ''))`,
		e.ID, e.ClientID, e.PatientID, e.PatientName, e.Procedure, e.Duration,
		e.AssignedBy, e.Date, e.StartTime, e.EndTime, e.Status, e.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session history entry: %w", err)
	}
	return e, nil
}

func (r *PostgresProceduresRepository) ListAssignments(ctx context.Context, clientID string) ([]*domain.TechnicianAssignment, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			id, client_id,
			COALESCE(patient_id, '') AS patient_id,
			COALESCE(patient_name, '') AS patient_name,
			COALESCE(technician_id, '') AS technician_id,
			COALESCE(procedure, '') AS procedure,
			COALESCE(notes, '') AS notes,
			COALESCE(status, '') AS status,
			COALESCE(assigned_at::text, '') AS assigned_at
		FROM technician_assignments
		WHERE client_id = $1
		ORDER BY assigned_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []*domain.TechnicianAssignment{}
	for rows.Next() {
		var a domain.TechnicianAssignment
		if err := rows.Scan(&a.ID, &a.ClientID, &a.PatientID, &a.PatientName,
			&a.TechnicianID, &a.Procedure, &a.Notes, &a.Status, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}

func (r *PostgresProceduresRepository) CreateAssignment(ctx context.Context, a *domain.TechnicianAssignment) (*domain.TechnicianAssignment, error) {
	if a == nil || a.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO technician_assignments (id, client_id, patient_id, patient_name, technician_id, procedure, notes, status, assigned_at)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, NULLIF($9, '')::timestamptz)`,
		a.ID, a.ClientID, a.PatientID, a.PatientName, a.TechnicianID,
		a.Procedure, a.Notes, a.Status, a.AssignedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return a, nil
}

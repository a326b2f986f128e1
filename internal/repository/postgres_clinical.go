package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresClinicalRepository implements ClinicalRepository over soap_notes
// and treatment_records.
type PostgresClinicalRepository struct {
	db *sql.DB
}

func NewPostgresClinicalRepository(db *sql.DB) *PostgresClinicalRepository {
	return &PostgresClinicalRepository{db: db}
}

var _ ClinicalRepository = (*PostgresClinicalRepository)(nil)

const soapNoteColumns = `
	id,
	client_id,
	patient_id,
	COALESCE(appointment_id, '') AS appointment_id,
	COALESCE(subjective, '') AS subjective,
	COALESCE(objective, '') AS objective,
	COALESCE(assessment, '') AS assessment,
	COALESCE(plan, '') AS plan,
	COALESCE(status, 'draft') AS status,
	COALESCE(created_at::text, '') AS created_at`

func scanSOAPNote(row interface{ Scan(...any) error }) (*domain.SOAPNote, error) {
	var n domain.SOAPNote
	err := row.Scan(&n.ID, &n.ClientID, &n.PatientID, &n.AppointmentID,
		&n.Subjective, &n.Objective, &n.Assessment, &n.Plan, &n.Status, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PostgresClinicalRepository) ListSOAPNotes(ctx context.Context, clientID, patientID string) ([]*domain.SOAPNote, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	if patientID != "" {
		where = append(where, "patient_id = $2")
		args = append(args, patientID)
	}
	query := fmt.Sprintf(`SELECT %s FROM soap_notes WHERE %s ORDER BY created_at DESC`,
		soapNoteColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list soap notes: %w", err)
	}
	defer rows.Close()

	notes := []*domain.SOAPNote{}
	for rows.Next() {
		n, err := scanSOAPNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan soap note: %w", err)
		}
		notes = append(notes, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate soap notes: %w", err)
	}
	return notes, nil
}

func (r *PostgresClinicalRepository) GetSOAPNote(ctx context.Context, clientID, id string) (*domain.SOAPNote, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM soap_notes WHERE client_id = $1 AND id = $2`, soapNoteColumns)
	n, err := scanSOAPNote(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("soap note not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get soap note: %w", err)
	}
	return n, nil
}

func (r *PostgresClinicalRepository) CreateSOAPNote(ctx context.Context, note *domain.SOAPNote) (*domain.SOAPNote, error) {
	if note == nil || note.ClientID == "" || note.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.Status == "" {
		note.Status = "draft"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO soap_notes (id, client_id, patient_id, appointment_id, subjective, objective, assessment, plan, status, created_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, NULLIF($10, '')::timestamptz)`,
		note.ID, note.ClientID, note.PatientID, note.AppointmentID,
		note.Subjective, note.Objective, note.Assessment, note.Plan,
		note.Status, note.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create soap note: %w", err)
	}
	return note, nil
}

func (r *PostgresClinicalRepository) ListTreatmentRecords(ctx context.Context, clientID, patientID string) ([]*domain.TreatmentRecord, error) {
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
			COALESCE(procedure, '') AS procedure,
			COALESCE(date::text, '') AS date,
			COALESCE(status, '') AS status,
			COALESCE(performed_by, '') AS performed_by,
			COALESCE(performed_by_id, '') AS performed_by_id,
			COALESCE(notes, '') AS notes
		FROM treatment_records
		WHERE %s
		ORDER BY date DESC`, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list treatment records: %w", err)
	}
	defer rows.Close()

	records := []*domain.TreatmentRecord{}
	for rows.Next() {
		var t domain.TreatmentRecord
		if err := rows.Scan(&t.ID, &t.ClientID, &t.PatientID, &t.Procedure,
			&t.Date, &t.Status, &t.PerformedBy, &t.PerformedByID, &t.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan treatment record: %w", err)
		}
		records = append(records, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate treatment records: %w", err)
	}
	return records, nil
}

func (r *PostgresClinicalRepository) CreateTreatmentRecord(ctx context.Context, rec *domain.TreatmentRecord) (*domain.TreatmentRecord, error) {
	if rec == nil || rec.ClientID == "" || rec.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO treatment_records (id, client_id, patient_id, procedure, date, status, performed_by, performed_by_id, notes)
		 VALUES ($1, $2, $3, $4, NULLIF($5, '')::date, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))`,
		rec.ID, rec.ClientID, rec.PatientID, rec.Procedure, rec.Date,
		rec.Status, rec.PerformedBy, rec.PerformedByID, rec.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create treatment record: %w", err)
	}
	return rec, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresPatientsRepository implements PatientsRepository over patients
// and consent_forms.
type PostgresPatientsRepository struct {
	db *sql.DB
}

func NewPostgresPatientsRepository(db *sql.DB) *PostgresPatientsRepository {
	return &PostgresPatientsRepository{db: db}
}

var _ PatientsRepository = (*PostgresPatientsRepository)(nil)

const patientColumns = `
	id,
	client_id,
	full_name,
	COALESCE(mobile, '') AS mobile,
	COALESCE(email, '') AS email,
	COALESCE(gender, '') AS gender,
	COALESCE(date_of_birth::text, '') AS date_of_birth,
	COALESCE(appointment_type, '') AS appointment_type,
	COALESCE(referred_by, '') AS referred_by,
	COALESCE(clinic_branch, '') AS clinic_branch,
	COALESCE(registered_at::text, '') AS registered_at`

func scanPatient(row interface{ Scan(...any) error }) (*domain.Patient, error) {
	var p domain.Patient
	err := row.Scan(
		&p.ID, &p.ClientID, &p.FullName, &p.Mobile, &p.Email, &p.Gender,
		&p.DateOfBirth, &p.AppointmentType, &p.ReferredBy, &p.ClinicBranch,
		&p.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPatientsRepository) ListPatients(ctx context.Context, clientID string, filter PatientFilters) ([]*domain.Patient, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2

	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR mobile ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.Branch != "" {
		where = append(where, fmt.Sprintf("clinic_branch = $%d", argIdx))
		args = append(args, filter.Branch)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM patients WHERE %s ORDER BY registered_at DESC`,
		patientColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	patients := []*domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patients: %w", err)
	}
	return patients, nil
}

func (r *PostgresPatientsRepository) GetPatient(ctx context.Context, clientID, id string) (*domain.Patient, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE client_id = $1 AND id = $2`, patientColumns)
	p, err := scanPatient(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("patient not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

func (r *PostgresPatientsRepository) CreatePatient(ctx context.Context, patient *domain.Patient) (*domain.Patient, error) {
	if patient == nil || patient.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if patient.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patients (
			id, client_id, full_name, mobile, email, gender, date_of_birth,
			appointment_type, referred_by, clinic_branch, registered_at
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''),
			NULLIF($7, '')::date, NULLIF($8, ''), NULLIF($9, ''),
			NULLIF($10, ''), NULLIF($11, '')::timestamptz
		)`,
		patient.ID, patient.ClientID, patient.FullName, patient.Mobile,
		patient.Email, patient.Gender, patient.DateOfBirth,
		patient.AppointmentType, patient.ReferredBy, patient.ClinicBranch,
		patient.RegisteredAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (r *PostgresPatientsRepository) ListConsentForms(ctx context.Context, clientID, patientID string) ([]*domain.ConsentForm, error) {
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
			COALESCE(file_type, '') AS file_type,
			COALESCE(file_name, '') AS file_name,
			COALESCE(signature, '') AS signature,
			COALESCE(uploaded_at::text, '') AS uploaded_at
		FROM consent_forms
		WHERE %s
		ORDER BY uploaded_at DESC`, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list consent forms: %w", err)
	}
	defer rows.Close()

	forms := []*domain.ConsentForm{}
	for rows.Next() {
		var f domain.ConsentForm
		if err := rows.Scan(&f.ID, &f.ClientID, &f.PatientID, &f.PatientName,
			&f.FileType, &f.FileName, &f.Signature, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan consent form: %w", err)
		}
		forms = append(forms, &f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate consent forms: %w", err)
	}
	return forms, nil
}

func (r *PostgresPatientsRepository) CreateConsentForm(ctx context.Context, form *domain.ConsentForm) (*domain.ConsentForm, error) {
	if form == nil || form.ClientID == "" || form.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO consent_forms (id, client_id, patient_id, patient_name, file_type, file_name, signature, uploaded_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, '')::timestamptz)`,
		form.ID, form.ClientID, form.PatientID, form.PatientName,
		form.FileType, form.FileName, form.Signature, form.UploadedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create consent form: %w", err)
	}
	return form, nil
}

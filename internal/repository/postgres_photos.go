package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresPhotosRepository implements PhotosRepository over photo_sessions
// and patient_photos.
type PostgresPhotosRepository struct {
	db *sql.DB
}

func NewPostgresPhotosRepository(db *sql.DB) *PostgresPhotosRepository {
	return &PostgresPhotosRepository{db: db}
}

var _ PhotosRepository = (*PostgresPhotosRepository)(nil)

const photoSessionColumns = `
	id,
	client_id,
	patient_id,
	COALESCE(patient_name, '') AS patient_name,
	COALESCE(date::text, '') AS date,
	COALESCE(procedure, '') AS procedure,
	COALESCE(doctor_id, '') AS doctor_id,
	COALESCE(doctor_name, '') AS doctor_name,
	COALESCE(before_count, 0) AS before_count,
	COALESCE(after_count, 0) AS after_count,
	COALESCE(in_progress_count, 0) AS in_progress_count`

func scanPhotoSession(row interface{ Scan(...any) error }) (*domain.PhotoSession, error) {
	var s domain.PhotoSession
	err := row.Scan(&s.ID, &s.ClientID, &s.PatientID, &s.PatientName, &s.Date,
		&s.Procedure, &s.DoctorID, &s.DoctorName, &s.BeforeCount,
		&s.AfterCount, &s.InProgressCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresPhotosRepository) ListSessions(ctx context.Context, clientID, patientID string) ([]*domain.PhotoSession, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	if patientID != "" {
		where = append(where, "patient_id = $2")
		args = append(args, patientID)
	}
	query := fmt.Sprintf(`SELECT %s FROM photo_sessions WHERE %s ORDER BY date DESC`,
		photoSessionColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list photo sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*domain.PhotoSession{}
	for rows.Next() {
		s, err := scanPhotoSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photo sessions: %w", err)
	}
	return sessions, nil
}

func (r *PostgresPhotosRepository) GetSession(ctx context.Context, clientID, id string) (*domain.PhotoSession, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM photo_sessions WHERE client_id = $1 AND id = $2`, photoSessionColumns)
	s, err := scanPhotoSession(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("photo session not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get photo session: %w", err)
	}
	return s, nil
}

func (r *PostgresPhotosRepository) CreateSession(ctx context.Context, s *domain.PhotoSession) (*domain.PhotoSession, error) {
	if s == nil || s.ClientID == "" || s.PatientID == "" {
		return nil, fmt.Errorf("client_id and patient_id are required")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO photo_sessions (id, client_id, patient_id, patient_name, date, procedure, doctor_id, doctor_name, before_count, after_count, in_progress_count)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, '')::date, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11)`,
		s.ID, s.ClientID, s.PatientID, s.PatientName, s.Date, s.Procedure,
		s.DoctorID, s.DoctorName, s.BeforeCount, s.AfterCount, s.InProgressCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo session: %w", err)
	}
	return s, nil
}

func (r *PostgresPhotosRepository) UpdateSession(ctx context.Context, s *domain.PhotoSession) error {
	if s == nil || s.ID == "" || s.ClientID == "" {
		return fmt.Errorf("client_id and id are required")
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE photo_sessions SET
			patient_name = NULLIF($3, ''),
			date = NULLIF($4, '')::date,
			procedure = NULLIF($5, ''),
			doctor_id = NULLIF($6, ''),
			doctor_name = NULLIF($7, ''),
			before_count = $8,
			after_count = $9,
			in_progress_count = $10
		WHERE client_id = $1 AND id = $2`,
		s.ClientID, s.ID, s.PatientName, s.Date, s.Procedure, s.DoctorID,
		s.DoctorName, s.BeforeCount, s.AfterCount, s.InProgressCount,
	)
	if err != nil {
		return fmt.Errorf("failed to update photo session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("photo session not found: id '%s' %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresPhotosRepository) DeleteSession(ctx context.Context, clientID, id string) error {
	if clientID == "" || id == "" {
		return fmt.Errorf("client_id and id are required")
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM photo_sessions WHERE client_id = $1 AND id = $2`, clientID, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("photo session not found: id '%s' %w", id, ErrNotFound)
	}
	return nil
}

const patientPhotoColumns = `
	id,
	client_id,
	patient_id,
	COALESCE(patient_name, '') AS patient_name,
	session_id,
	COALESCE(session_date::text, '') AS session_date,
	COALESCE(type, '') AS type,
	COALESCE(image_url, '') AS image_url,
	COALESCE(thumbnail_url, '') AS thumbnail_url,
	COALESCE(file_name, '') AS file_name,
	COALESCE(file_size, 0) AS file_size,
	COALESCE(uploaded_by, '') AS uploaded_by,
	COALESCE(uploaded_at::text, '') AS uploaded_at,
	COALESCE(notes, '') AS notes,
	COALESCE(doctor_id, '') AS doctor_id,
	COALESCE(doctor_name, '') AS doctor_name`

func scanPatientPhoto(row interface{ Scan(...any) error }) (*domain.PatientPhoto, error) {
	var p domain.PatientPhoto
	err := row.Scan(&p.ID, &p.ClientID, &p.PatientID, &p.PatientName,
		&p.SessionID, &p.SessionDate, &p.Type, &p.ImageURL, &p.ThumbnailURL,
		&p.FileName, &p.FileSize, &p.UploadedBy, &p.UploadedAt, &p.Notes,
		&p.DoctorID, &p.DoctorName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPhotosRepository) ListPhotos(ctx context.Context, clientID string, filter PhotoFilters) ([]*domain.PatientPhoto, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2

	if filter.PatientID != "" {
		where = append(where, fmt.Sprintf("patient_id = $%d", argIdx))
		args = append(args, filter.PatientID)
		argIdx++
	}
	if filter.SessionID != "" {
		where = append(where, fmt.Sprintf("session_id = $%d", argIdx))
		args = append(args, filter.SessionID)
		argIdx++
	}
	if filter.Type != "" {
		where = append(where, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, filter.Type)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM patient_photos WHERE %s ORDER BY uploaded_at DESC`,
		patientPhotoColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	photos := []*domain.PatientPhoto{}
	for rows.Next() {
		p, err := scanPatientPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}
	return photos, nil
}

func (r *PostgresPhotosRepository) GetPhoto(ctx context.Context, clientID, id string) (*domain.PatientPhoto, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM patient_photos WHERE client_id = $1 AND id = $2`, patientPhotoColumns)
	p, err := scanPatientPhoto(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("photo not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return p, nil
}

func (r *PostgresPhotosRepository) CreatePhoto(ctx context.Context, p *domain.PatientPhoto) (*domain.PatientPhoto, error) {
	if p == nil || p.ClientID == "" || p.SessionID == "" {
		return nil, fmt.Errorf("client_id and session_id are required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patient_photos (
			id, client_id, patient_id, patient_name, session_id, session_date,
			type, image_url, thumbnail_url, file_name, file_size, uploaded_by,
			uploaded_at, notes, doctor_id, doctor_name
		) VALUES (
			$1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, '')::date, $7,
			NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11,
			NULLIF($12, ''), NULLIF($13, '')::timestamptz, NULLIF($14, ''),
			NULLIF($15, ''), NULLIF($16, '')
		)`,
		p.ID, p.ClientID, p.PatientID, p.PatientName, p.SessionID,
		p.SessionDate, p.Type, p.ImageURL, p.ThumbnailURL, p.FileName,
		p.FileSize, p.UploadedBy, p.UploadedAt, p.Notes, p.DoctorID,
		p.DoctorName,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}
	return p, nil
}

func (r *PostgresPhotosRepository) DeletePhoto(ctx context.Context, clientID, id string) error {
	if clientID == "" || id == "" {
		return fmt.Errorf("client_id and id are required")
	}
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM patient_photos WHERE client_id = $1 AND id = $2`, clientID, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("photo not found: id '%s' %w", id, ErrNotFound)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hospverse-api/internal/domain"
)

// PostgresAppointmentsRepository implements AppointmentsRepository over
// appointments and patient_queue.
type PostgresAppointmentsRepository struct {
	db *sql.DB
}

func NewPostgresAppointmentsRepository(db *sql.DB) *PostgresAppointmentsRepository {
	return &PostgresAppointmentsRepository{db: db}
}

var _ AppointmentsRepository = (*PostgresAppointmentsRepository)(nil)

const appointmentColumns = `
	id,
	client_id,
	COALESCE(patient_id, '') AS patient_id,
	COALESCE(patient_name, '') AS patient_name,
	COALESCE(patient_phone, '') AS patient_phone,
	COALESCE(phone, '') AS phone,
	COALESCE(age, 0) AS age,
	COALESCE(doctor_id, '') AS doctor_id,
	COALESCE(doctor_name, '') AS doctor_name,
	COALESCE(date::text, '') AS date,
	COALESCE(time, '') AS time,
	COALESCE(status, '') AS status,
	COALESCE(type, '') AS type,
	COALESCE(notes, '') AS notes,
	COALESCE(booked_at::text, '') AS booked_at`

func scanAppointment(row interface{ Scan(...any) error }) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID, &a.ClientID, &a.PatientID, &a.PatientName, &a.PatientPhone,
		&a.Phone, &a.Age, &a.DoctorID, &a.DoctorName, &a.Date, &a.Time,
		&a.Status, &a.Type, &a.Notes, &a.BookedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAppointmentsRepository) ListAppointments(ctx context.Context, clientID string, filter AppointmentFilters) ([]*domain.Appointment, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2

	if filter.Date != "" {
		where = append(where, fmt.Sprintf("date = $%d::date", argIdx))
		args = append(args, filter.Date)
		argIdx++
	}
	if filter.DoctorID != "" {
		where = append(where, fmt.Sprintf("doctor_id = $%d", argIdx))
		args = append(args, filter.DoctorID)
		argIdx++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE %s ORDER BY date, time`,
		appointmentColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	appts := []*domain.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}
	return appts, nil
}

func (r *PostgresAppointmentsRepository) GetAppointment(ctx context.Context, clientID, id string) (*domain.Appointment, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE client_id = $1 AND id = $2`, appointmentColumns)
	a, err := scanAppointment(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("appointment not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return a, nil
}

func (r *PostgresAppointmentsRepository) CreateAppointment(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if appt == nil || appt.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (
			id, client_id, patient_id, patient_name, patient_phone, phone, age,
			doctor_id, doctor_name, date, time, status, type, notes, booked_at
		) VALUES (
			$1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), $7,
			NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, '')::date, $11, $12,
			NULLIF($13, ''), NULLIF($14, ''), NULLIF($15, '')::timestamptz
		)`,
		appt.ID, appt.ClientID, appt.PatientID, appt.PatientName,
		appt.PatientPhone, appt.Phone, appt.Age, appt.DoctorID,
		appt.DoctorName, appt.Date, appt.Time, appt.Status, appt.Type,
		appt.Notes, appt.BookedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appt, nil
}

func (r *PostgresAppointmentsRepository) UpdateAppointment(ctx context.Context, appt *domain.Appointment) error {
	if appt == nil || appt.ID == "" || appt.ClientID == "" {
		return fmt.Errorf("client_id and id are required")
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET
			patient_id = NULLIF($3, ''),
			patient_name = $4,
			patient_phone = NULLIF($5, ''),
			phone = NULLIF($6, ''),
			age = $7,
			doctor_id = NULLIF($8, ''),
			doctor_name = NULLIF($9, ''),
			date = NULLIF($10, '')::date,
			time = $11,
			status = $12,
			type = NULLIF($13, ''),
			notes = NULLIF($14, '')
		WHERE client_id = $1 AND id = $2`,
		appt.ClientID, appt.ID, appt.PatientID, appt.PatientName,
		appt.PatientPhone, appt.Phone, appt.Age, appt.DoctorID,
		appt.DoctorName, appt.Date, appt.Time, appt.Status, appt.Type,
		appt.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("appointment not found: id '%s' %w", appt.ID, ErrNotFound)
	}
	return nil
}

const queueColumns = `
	id,
	client_id,
	COALESCE(patient_id, '') AS patient_id,
	COALESCE(patient_name, '') AS patient_name,
	COALESCE(doctor_name, '') AS doctor_name,
	COALESCE(queue_number, 0) AS queue_number,
	COALESCE(status, '') AS status,
	COALESCE(checked_in_at::text, '') AS checked_in_at`

func scanQueueEntry(row interface{ Scan(...any) error }) (*domain.QueueEntry, error) {
	var q domain.QueueEntry
	err := row.Scan(&q.ID, &q.ClientID, &q.PatientID, &q.PatientName,
		&q.DoctorName, &q.QueueNumber, &q.Status, &q.CheckedInAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *PostgresAppointmentsRepository) ListQueue(ctx context.Context, clientID string) ([]*domain.QueueEntry, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	query := fmt.Sprintf(`SELECT %s FROM patient_queue WHERE client_id = $1 ORDER BY queue_number`, queueColumns)
	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	defer rows.Close()

	entries := []*domain.QueueEntry{}
	for rows.Next() {
		q, err := scanQueueEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		entries = append(entries, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queue: %w", err)
	}
	return entries, nil
}

func (r *PostgresAppointmentsRepository) GetQueueEntry(ctx context.Context, clientID, id string) (*domain.QueueEntry, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM patient_queue WHERE client_id = $1 AND id = $2`, queueColumns)
	q, err := scanQueueEntry(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("queue entry not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get queue entry: %w", err)
	}
	return q, nil
}

func (r *PostgresAppointmentsRepository) CreateQueueEntry(ctx context.Context, entry *domain.QueueEntry) (*domain.QueueEntry, error) {
	if entry == nil || entry.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patient_queue (id, client_id, patient_id, patient_name, doctor_name, queue_number, status, checked_in_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, NULLIF($8, '')::timestamptz)`,
		entry.ID, entry.ClientID, entry.PatientID, entry.PatientName,
		entry.DoctorName, entry.QueueNumber, entry.Status, entry.CheckedInAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue entry: %w", err)
	}
	return entry, nil
}

func (r *PostgresAppointmentsRepository) UpdateQueueEntry(ctx context.Context, entry *domain.QueueEntry) error {
	if entry == nil || entry.ID == "" || entry.ClientID == "" {
		return fmt.Errorf("client_id and id are required")
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE patient_queue SET
			patient_id = NULLIF($3, ''),
			patient_name = $4,
			doctor_name = NULLIF($5, ''),
			queue_number = $6,
			status = $7
		WHERE client_id = $1 AND id = $2`,
		entry.ClientID, entry.ID, entry.PatientID, entry.PatientName,
		entry.DoctorName, entry.QueueNumber, entry.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update queue entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("queue entry not found: id '%s' %w", entry.ID, ErrNotFound)
	}
	return nil
}

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

// PostgresStaffRepository implements StaffRepository over staff,
// staff_documents, shifts, attendance_records and performance_notes.
type PostgresStaffRepository struct {
	db *sql.DB
}

func NewPostgresStaffRepository(db *sql.DB) *PostgresStaffRepository {
	return &PostgresStaffRepository{db: db}
}

var _ StaffRepository = (*PostgresStaffRepository)(nil)

const staffColumns = `
	id,
	client_id,
	name,
	COALESCE(role, '') AS role,
	COALESCE(department, '') AS department,
	COALESCE(branch, '') AS branch,
	COALESCE(email, '') AS email,
	COALESCE(phone, '') AS phone,
	COALESCE(join_date::text, '') AS join_date,
	COALESCE(status, 'active') AS status,
	COALESCE(avatar, '') AS avatar,
	COALESCE(specialization, '') AS specialization,
	COALESCE(available, true) AS available,
	COALESCE(personal_details, '{}'::jsonb) AS personal_details,
	COALESCE(employment_details, '{}'::jsonb) AS employment_details`

func scanStaff(row interface{ Scan(...any) error }) (*domain.Staff, error) {
	var s domain.Staff
	var personalRaw, employmentRaw []byte
	err := row.Scan(
		&s.ID, &s.ClientID, &s.Name, &s.Role, &s.Department, &s.Branch,
		&s.Email, &s.Phone, &s.JoinDate, &s.Status, &s.Avatar,
		&s.Specialization, &s.Available, &personalRaw, &employmentRaw,
	)
	if err != nil {
		return nil, err
	}
	s.PersonalDetails = json.RawMessage(personalRaw)
	s.EmploymentDetails = json.RawMessage(employmentRaw)
	return &s, nil
}

func (r *PostgresStaffRepository) ListStaff(ctx context.Context, clientID string, filter StaffFilters) ([]*domain.Staff, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2

	if filter.Role != "" {
		where = append(where, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, filter.Role)
		argIdx++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Branch != "" {
		where = append(where, fmt.Sprintf("branch = $%d", argIdx))
		args = append(args, filter.Branch)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM staff WHERE %s ORDER BY name`,
		staffColumns, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	members := []*domain.Staff{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		members = append(members, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff: %w", err)
	}
	return members, nil
}

func (r *PostgresStaffRepository) GetStaff(ctx context.Context, clientID, id string) (*domain.Staff, error) {
	if clientID == "" || id == "" {
		return nil, fmt.Errorf("client_id and id are required")
	}
	query := fmt.Sprintf(`SELECT %s FROM staff WHERE client_id = $1 AND id = $2`, staffColumns)
	s, err := scanStaff(r.db.QueryRowContext(ctx, query, clientID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("staff not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return s, nil
}

func (r *PostgresStaffRepository) CreateStaff(ctx context.Context, staff *domain.Staff) (*domain.Staff, error) {
	if staff == nil || staff.ClientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	if staff.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	if staff.Status == "" {
		staff.Status = "active"
	}
	personal := "{}"
	if len(staff.PersonalDetails) > 0 {
		personal = string(staff.PersonalDetails)
	}
	employment := "{}"
	if len(staff.EmploymentDetails) > 0 {
		employment = string(staff.EmploymentDetails)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO staff (
			id, client_id, name, role, department, branch, email, phone,
			join_date, status, avatar, specialization, available,
			personal_details, employment_details
		) VALUES (
			$1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			NULLIF($8, ''), NULLIF($9, '')::date, $10, NULLIF($11, ''),
			NULLIF($12, ''), $13, $14::jsonb, $15::jsonb
		)`,
		staff.ID, staff.ClientID, staff.Name, staff.Role, staff.Department,
		staff.Branch, staff.Email, staff.Phone, staff.JoinDate, staff.Status,
		staff.Avatar, staff.Specialization, staff.Available, personal, employment,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}

func (r *PostgresStaffRepository) UpdateStaff(ctx context.Context, staff *domain.Staff) error {
	if staff == nil || staff.ID == "" || staff.ClientID == "" {
		return fmt.Errorf("client_id and id are required")
	}
	personal := "{}"
	if len(staff.PersonalDetails) > 0 {
		personal = string(staff.PersonalDetails)
	}
	employment := "{}"
	if len(staff.EmploymentDetails) > 0 {
		employment = string(staff.EmploymentDetails)
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE staff SET
			name = $3,
			role = $4,
			department = NULLIF($5, ''),
			branch = NULLIF($6, ''),
			email = NULLIF($7, ''),
			phone = NULLIF($8, ''),
			join_date = NULLIF($9, '')::date,
			status = $10,
			avatar = NULLIF($11, ''),
			specialization = NULLIF($12, ''),
			available = $13,
			personal_details = $14::jsonb,
			employment_details = $15::jsonb
		WHERE client_id = $1 AND id = $2`,
		staff.ClientID, staff.ID, staff.Name, staff.Role, staff.Department,
		staff.Branch, staff.Email, staff.Phone, staff.JoinDate, staff.Status,
		staff.Avatar, staff.Specialization, staff.Available, personal, employment,
	)
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("staff not found: id '%s' %w", staff.ID, ErrNotFound)
	}
	return nil
}

func (r *PostgresStaffRepository) ListDocuments(ctx context.Context, clientID, staffID string) ([]*domain.StaffDocument, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	if staffID != "" {
		where = append(where, "staff_id = $2")
		args = append(args, staffID)
	}
	query := fmt.Sprintf(`
		SELECT
			id, client_id, staff_id,
			COALESCE(type, '') AS type,
			COALESCE(name, '') AS name,
			COALESCE(file_name, '') AS file_name,
			COALESCE(file_type, '') AS file_type,
			COALESCE(uploaded_at::text, '') AS uploaded_at,
			COALESCE(expiry_date::text, '') AS expiry_date,
			COALESCE(notes, '') AS notes
		FROM staff_documents
		WHERE %s
		ORDER BY uploaded_at DESC`, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff documents: %w", err)
	}
	defer rows.Close()

	docs := []*domain.StaffDocument{}
	for rows.Next() {
		var d domain.StaffDocument
		if err := rows.Scan(&d.ID, &d.ClientID, &d.StaffID, &d.Type, &d.Name,
			&d.FileName, &d.FileType, &d.UploadedAt, &d.ExpiryDate, &d.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan staff document: %w", err)
		}
		docs = append(docs, &d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff documents: %w", err)
	}
	return docs, nil
}

func (r *PostgresStaffRepository) CreateDocument(ctx context.Context, doc *domain.StaffDocument) (*domain.StaffDocument, error) {
	if doc == nil || doc.ClientID == "" || doc.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO staff_documents (id, client_id, staff_id, type, name, file_name, file_type, uploaded_at, expiry_date, notes)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, '')::timestamptz, NULLIF($9, '')::date, NULLIF($10, ''))`,
		doc.ID, doc.ClientID, doc.StaffID, doc.Type, doc.Name, doc.FileName,
		doc.FileType, doc.UploadedAt, doc.ExpiryDate, doc.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create staff document: %w", err)
	}
	return doc, nil
}

func (r *PostgresStaffRepository) ListShifts(ctx context.Context, clientID, staffID string) ([]*domain.Shift, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	if staffID != "" {
		where = append(where, "staff_id = $2")
		args = append(args, staffID)
	}
	query := fmt.Sprintf(`
		SELECT
			id, client_id, staff_id,
			COALESCE(start_time::text, '') AS start_time,
			COALESCE(end_time::text, '') AS end_time,
			COALESCE(status, 'scheduled') AS status
		FROM shifts
		WHERE %s
		ORDER BY start_time`, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := []*domain.Shift{}
	for rows.Next() {
		var s domain.Shift
		if err := rows.Scan(&s.ID, &s.ClientID, &s.StaffID, &s.StartTime, &s.EndTime, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}
	return shifts, nil
}

func (r *PostgresStaffRepository) CreateShift(ctx context.Context, shift *domain.Shift) (*domain.Shift, error) {
	if shift == nil || shift.ClientID == "" || shift.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}
	if shift.Status == "" {
		shift.Status = "scheduled"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shifts (id, client_id, staff_id, start_time, end_time, status)
		 VALUES ($1, $2, $3, NULLIF($4, '')::timestamptz, NULLIF($5, '')::timestamptz, $6)`,
		shift.ID, shift.ClientID, shift.StaffID, shift.StartTime, shift.EndTime, shift.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	return shift, nil
}

func (r *PostgresStaffRepository) ListAttendance(ctx context.Context, clientID, staffID, date string) ([]*domain.AttendanceRecord, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	argIdx := 2
	if staffID != "" {
		where = append(where, fmt.Sprintf("staff_id = $%d", argIdx))
		args = append(args, staffID)
		argIdx++
	}
	if date != "" {
		where = append(where, fmt.Sprintf("date = $%d::date", argIdx))
		args = append(args, date)
		argIdx++
	}
	query := fmt.Sprintf(`
		SELECT
			id, client_id, staff_id,
			COALESCE(date::text, '') AS date,
			COALESCE(status, '') AS status,
			COALESCE(check_in, '') AS check_in,
			COALESCE(check_out, '') AS check_out
		FROM attendance_records
		WHERE %s
		ORDER BY date DESC`, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := []*domain.AttendanceRecord{}
	for rows.Next() {
		var a domain.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.ClientID, &a.StaffID, &a.Date, &a.Status, &a.CheckIn, &a.CheckOut); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

func (r *PostgresStaffRepository) CreateAttendance(ctx context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	if rec == nil || rec.ClientID == "" || rec.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance_records (id, client_id, staff_id, date, status, check_in, check_out)
		 VALUES ($1, $2, $3, NULLIF($4, '')::date, $5, NULLIF($6, ''), NULLIF($7, ''))`,
		rec.ID, rec.ClientID, rec.StaffID, rec.Date, rec.Status, rec.CheckIn, rec.CheckOut,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return rec, nil
}

func (r *PostgresStaffRepository) ListPerformanceNotes(ctx context.Context, clientID, staffID string) ([]*domain.PerformanceNote, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}
	where := []string{"client_id = $1"}
	args := []any{clientID}
	if staffID != "" {
		where = append(where, "staff_id = $2")
		args = append(args, staffID)
	}
	query := fmt.Sprintf(`
		SELECT
			id, client_id, staff_id,
			COALESCE(note, '') AS note,
			COALESCE(rating, 0) AS rating,
			COALESCE(added_by, '') AS added_by,
			COALESCE(added_at::text, '') AS added_at
		FROM performance_notes
		WHERE %s
		ORDER BY added_at DESC`, strings.Join(where, " AND "))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list performance notes: %w", err)
	}
	defer rows.Close()

	notes := []*domain.PerformanceNote{}
	for rows.Next() {
		var n domain.PerformanceNote
		if err := rows.Scan(&n.ID, &n.ClientID, &n.StaffID, &n.Note, &n.Rating, &n.AddedBy, &n.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan performance note: %w", err)
		}
		notes = append(notes, &n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate performance notes: %w", err)
	}
	return notes, nil
}

func (r *PostgresStaffRepository) CreatePerformanceNote(ctx context.Context, note *domain.PerformanceNote) (*domain.PerformanceNote, error) {
	if note == nil || note.ClientID == "" || note.StaffID == "" {
		return nil, fmt.Errorf("client_id and staff_id are required")
	}
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO performance_notes (id, client_id, staff_id, note, rating, added_by, added_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, '')::timestamptz)`,
		note.ID, note.ClientID, note.StaffID, note.Note, note.Rating, note.AddedBy, note.AddedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create performance note: %w", err)
	}
	return note, nil
}
